package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the signing pipeline can report.
type ErrorKind string

const (
	ErrorKindUnknownAsset        ErrorKind = "UnknownAsset"
	ErrorKindInvalidParameter    ErrorKind = "InvalidParameter"
	ErrorKindMetadataUnavailable ErrorKind = "MetadataUnavailable"
	ErrorKindMalformedSignature  ErrorKind = "MalformedSignature"
	ErrorKindSigningFailed       ErrorKind = "SigningFailed"
	ErrorKindTransportError      ErrorKind = "TransportError"
)

// Sentinels for errors.Is. Matching is by kind only, so
// errors.Is(err, ErrUnknownAsset) holds for any unknown symbol.
var (
	ErrUnknownAsset        = &Error{Kind: ErrorKindUnknownAsset}
	ErrInvalidParameter    = &Error{Kind: ErrorKindInvalidParameter}
	ErrMetadataUnavailable = &Error{Kind: ErrorKindMetadataUnavailable}
	ErrMalformedSignature  = &Error{Kind: ErrorKindMalformedSignature}
	ErrSigningFailed       = &Error{Kind: ErrorKindSigningFailed}
	ErrTransportError      = &Error{Kind: ErrorKindTransportError}
)

// Error is the typed, inspectable error returned by every package in this module.
// Field names the offending parameter (or identity, e.g. a symbol or key id) and
// Value carries its rendered value when that is safe to expose.
type Error struct {
	Kind   ErrorKind
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Field)
		if e.Value != "" {
			msg = fmt.Sprintf("%s=%q", msg, e.Value)
		}
	}
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func NewUnknownAssetError(symbol string) *Error {
	return &Error{Kind: ErrorKindUnknownAsset, Field: "symbol", Value: symbol, Reason: "not present in asset directory"}
}

func NewInvalidParameterError(field string, value string, reason string) *Error {
	return &Error{Kind: ErrorKindInvalidParameter, Field: field, Value: value, Reason: reason}
}

func NewMetadataUnavailableError(reason string, err error) *Error {
	return &Error{Kind: ErrorKindMetadataUnavailable, Reason: reason, Err: err}
}

func NewMalformedSignatureError(field string, reason string) *Error {
	return &Error{Kind: ErrorKindMalformedSignature, Field: field, Reason: reason}
}

// NewSigningFailedError never records key material; identity should be an
// address or key id.
func NewSigningFailedError(identity string, err error) *Error {
	return &Error{Kind: ErrorKindSigningFailed, Field: "signer", Value: identity, Err: err}
}

func NewTransportError(endpoint string, err error) *Error {
	return &Error{Kind: ErrorKindTransportError, Field: "endpoint", Value: endpoint, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
