package types

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const SignatureLength = 65

// Signature is a recoverable secp256k1 signature. V is the raw recovery id (0 or 1);
// the wire form adds 27 as the venue expects.
type Signature struct {
	R [32]byte
	S [32]byte
	V byte
}

// NewSignatureFromBytes parses R || S || V. V may be a raw recovery id (0/1) or
// the Ethereum-style 27/28.
func NewSignatureFromBytes(sig []byte) (*Signature, error) {
	if len(sig) != SignatureLength {
		return nil, NewMalformedSignatureError("signature", fmt.Sprintf("expected %d bytes, got %d", SignatureLength, len(sig)))
	}
	v := sig[64]
	if v >= 27 {
		v -= 27
	}
	s := &Signature{V: v}
	copy(s.R[:], sig[0:32])
	copy(s.S[:], sig[32:64])
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewSignatureFromRSV builds a signature from hex r/s and a v of 0, 1, 27 or 28.
func NewSignatureFromRSV(r string, s string, v uint64) (*Signature, error) {
	rInt, err := parseScalar("r", r)
	if err != nil {
		return nil, err
	}
	sInt, err := parseScalar("s", s)
	if err != nil {
		return nil, err
	}
	if rInt.BitLen() > 256 {
		return nil, NewMalformedSignatureError("r", "exceeds 32 bytes")
	}
	if sInt.BitLen() > 256 {
		return nil, NewMalformedSignatureError("s", "exceeds 32 bytes")
	}
	if v >= 27 {
		v -= 27
	}
	if v > 255 {
		return nil, NewMalformedSignatureError("v", fmt.Sprintf("invalid recovery id %d", v))
	}
	sig := &Signature{V: byte(v)}
	rInt.FillBytes(sig.R[:])
	sInt.FillBytes(sig.S[:])
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	return sig, nil
}

// parseScalar accepts 0x-prefixed hex of any length up to 32 bytes, with or without
// leading zero padding.
func parseScalar(field string, value string) (*big.Int, error) {
	if !has0xPrefix(value) || len(value) == 2 {
		return nil, NewMalformedSignatureError(field, "expected 0x-prefixed hex")
	}
	n, ok := new(big.Int).SetString(value[2:], 16)
	if !ok || n.Sign() < 0 {
		return nil, NewMalformedSignatureError(field, "invalid hex")
	}
	return n, nil
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// Validate checks shape only: non-zero r and s, recovery id in {0,1}.
func (s *Signature) Validate() error {
	if s == nil {
		return NewMalformedSignatureError("signature", "missing")
	}
	if s.V > 1 {
		return NewMalformedSignatureError("v", fmt.Sprintf("recovery id must be 0 or 1, got %d", s.V))
	}
	if s.R == [32]byte{} {
		return NewMalformedSignatureError("r", "zero")
	}
	if s.S == [32]byte{} {
		return NewMalformedSignatureError("s", "zero")
	}
	return nil
}

// Bytes returns R || S || V with the raw recovery id, the layout go-ethereum's
// crypto.Ecrecover expects.
func (s *Signature) Bytes() []byte {
	out := make([]byte, SignatureLength)
	copy(out[0:32], s.R[:])
	copy(out[32:64], s.S[:])
	out[64] = s.V
	return out
}

type signatureJSON struct {
	R string `json:"r"`
	S string `json:"s"`
	V uint64 `json:"v"`
}

func (s Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(signatureJSON{
		R: hexutil.EncodeBig(new(big.Int).SetBytes(s.R[:])),
		S: hexutil.EncodeBig(new(big.Int).SetBytes(s.S[:])),
		V: uint64(s.V) + 27,
	})
}

func (s *Signature) UnmarshalJSON(data []byte) error {
	var raw signatureJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewSignatureFromRSV(raw.R, raw.S, raw.V)
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}
