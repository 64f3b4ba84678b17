// Package envelope bundles a transport-form action with its nonce, signature and
// optional vault context into the payload the venue's exchange endpoint accepts.
package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
)

// SignedEnvelope is the final, submittable artifact. VaultAddress is serialized as
// null when absent, which the venue requires; ExpiresAfter is omitted when absent.
type SignedEnvelope struct {
	Action       json.RawMessage `json:"action"`
	Nonce        uint64          `json:"nonce"`
	Signature    types.Signature `json:"signature"`
	VaultAddress *string         `json:"vaultAddress"`
	ExpiresAfter *uint64         `json:"expiresAfter,omitempty"`
}

// Assemble combines already-computed parts. It does not re-derive or check the
// digest: the caller is responsible for having signed the matching digest. Bulk
// actions are assembled like any other, one envelope with one nonce and one signature.
func Assemble(action json.RawMessage, nonce uint64, sig *types.Signature, vault *common.Address, expiresAfter *uint64) (*SignedEnvelope, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(action)
	if len(trimmed) == 0 {
		return nil, types.NewInvalidParameterError("action", "", "action payload is required")
	}
	if trimmed[0] != '{' || !json.Valid(trimmed) {
		return nil, types.NewInvalidParameterError("action", "", "action payload must be a JSON object")
	}

	env := &SignedEnvelope{
		Action:    append(json.RawMessage(nil), trimmed...),
		Nonce:     nonce,
		Signature: *sig,
	}
	if vault != nil {
		v := types.LowerHex(*vault)
		env.VaultAddress = &v
	}
	if expiresAfter != nil {
		e := *expiresAfter
		env.ExpiresAfter = &e
	}
	return env, nil
}

func (e *SignedEnvelope) Marshal() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return data, nil
}

// ParseSignedEnvelope reads an envelope back, validating the signature shape.
func ParseSignedEnvelope(data []byte) (*SignedEnvelope, error) {
	var env SignedEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}
	if err := env.Signature.Validate(); err != nil {
		return nil, err
	}
	if len(env.Action) == 0 || string(env.Action) == "null" {
		return nil, types.NewInvalidParameterError("action", "", "action payload is required")
	}
	return &env, nil
}
