package txBuilder

import (
	"encoding/json"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/actions"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/config"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// UnsignedComponents is everything needed to obtain a signature elsewhere and
// assemble the envelope afterwards. Digest is what gets signed; TypedData is the
// same message as an EIP-712 document for signers that only accept typed data.
type UnsignedComponents struct {
	Action     actions.Action
	ActionJSON json.RawMessage
	Nonce      uint64
	Digest     common.Hash
	TypedData  *apitypes.TypedData

	VaultAddress *common.Address
	ExpiresAfter *uint64

	Scheme           actions.Scheme
	ChainID          uint64
	HyperliquidChain config.HyperliquidChain
	Network          config.Network
}

type unsignedComponentsJSON struct {
	Kind             actions.Kind            `json:"kind"`
	Action           json.RawMessage         `json:"action"`
	Nonce            uint64                  `json:"nonce"`
	Digest           common.Hash             `json:"digest"`
	TypedData        *apitypes.TypedData     `json:"typedData,omitempty"`
	VaultAddress     *common.Address         `json:"vaultAddress"`
	ExpiresAfter     *uint64                 `json:"expiresAfter,omitempty"`
	Scheme           string                  `json:"scheme"`
	ChainID          uint64                  `json:"chainId"`
	HyperliquidChain config.HyperliquidChain `json:"hyperliquidChain"`
	Network          config.Network          `json:"network"`
}

// MarshalJSON renders the components for handing to an out-of-process signer.
func (c *UnsignedComponents) MarshalJSON() ([]byte, error) {
	out := unsignedComponentsJSON{
		Action:           c.ActionJSON,
		Nonce:            c.Nonce,
		Digest:           c.Digest,
		TypedData:        c.TypedData,
		VaultAddress:     c.VaultAddress,
		ExpiresAfter:     c.ExpiresAfter,
		Scheme:           c.Scheme.String(),
		ChainID:          c.ChainID,
		HyperliquidChain: c.HyperliquidChain,
		Network:          c.Network,
	}
	if c.Action != nil {
		out.Kind = c.Action.Kind()
	}
	return json.Marshal(out)
}
