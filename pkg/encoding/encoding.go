// Package encoding turns actions into the two forms the venue consumes: the
// canonical msgpack bytes that are hashed for L1 signatures, and the JSON
// carried in the submitted envelope. Both are derived from one wire value so
// they cannot drift apart.
package encoding

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/actions"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/config"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
	"github.com/vmihailenco/msgpack/v5"
)

// Type tags as the venue spells them.
const (
	TypeOrder             = "order"
	TypeCancel            = "cancel"
	TypeCancelByCloid     = "cancelByCloid"
	TypeUpdateLeverage    = "updateLeverage"
	TypeVaultTransfer     = "vaultTransfer"
	TypeUsdSend           = "usdSend"
	TypeWithdraw          = "withdraw3"
	TypeSpotSend          = "spotSend"
	TypeApproveBuilderFee = "approveBuilderFee"
)

// Encoded holds both representations of a single action.
type Encoded struct {
	Canonical []byte
	Transport json.RawMessage
}

// ToWire maps an action to its tagged wire struct. The returned value is always
// a pointer to one of the *Wire types in this package.
func ToWire(action actions.Action) (any, error) {
	switch a := action.(type) {
	case *actions.Order:
		return orderToWire(a), nil
	case *actions.Cancel:
		return &CancelActionWire{
			Type:    TypeCancel,
			Cancels: []CancelWire{{Asset: a.Asset, Oid: a.Oid}},
		}, nil
	case *actions.BulkCancel:
		cancels := make([]CancelWire, len(a.Cancels))
		for i, c := range a.Cancels {
			cancels[i] = CancelWire{Asset: c.Asset, Oid: c.Oid}
		}
		return &CancelActionWire{Type: TypeCancel, Cancels: cancels}, nil
	case *actions.CancelByCloid:
		cancels := make([]CancelByCloidWire, len(a.Cancels))
		for i, c := range a.Cancels {
			cancels[i] = CancelByCloidWire{Asset: c.Asset, Cloid: c.Cloid.String()}
		}
		return &CancelByCloidActionWire{Type: TypeCancelByCloid, Cancels: cancels}, nil
	case *actions.UpdateLeverage:
		return &UpdateLeverageWire{
			Type:     TypeUpdateLeverage,
			Asset:    a.Asset,
			IsCross:  a.IsCross,
			Leverage: a.Leverage,
		}, nil
	case *actions.VaultTransfer:
		return &VaultTransferWire{
			Type:         TypeVaultTransfer,
			VaultAddress: a.VaultAddress,
			IsDeposit:    a.IsDeposit,
			Usd:          a.Usd,
		}, nil
	case *actions.UsdTransfer:
		return &UsdSendWire{
			Type:             TypeUsdSend,
			SignatureChainId: config.SignatureChainIdHex,
			HyperliquidChain: string(a.HyperliquidChain),
			Destination:      a.Destination,
			Amount:           a.Amount,
			Time:             a.Time,
		}, nil
	case *actions.Withdraw:
		return &UsdSendWire{
			Type:             TypeWithdraw,
			SignatureChainId: config.SignatureChainIdHex,
			HyperliquidChain: string(a.HyperliquidChain),
			Destination:      a.Destination,
			Amount:           a.Amount,
			Time:             a.Time,
		}, nil
	case *actions.SpotTransfer:
		return &SpotSendWire{
			Type:             TypeSpotSend,
			SignatureChainId: config.SignatureChainIdHex,
			HyperliquidChain: string(a.HyperliquidChain),
			Destination:      a.Destination,
			Token:            a.Token,
			Amount:           a.Amount,
			Time:             a.Time,
		}, nil
	case *actions.ApproveBuilderFee:
		return &ApproveBuilderFeeWire{
			Type:             TypeApproveBuilderFee,
			SignatureChainId: config.SignatureChainIdHex,
			HyperliquidChain: string(a.HyperliquidChain),
			MaxFeeRate:       a.MaxFeeRate,
			Builder:          a.Builder,
			Nonce:            a.Nonce,
		}, nil
	case nil:
		return nil, types.NewInvalidParameterError("action", "", "action is required")
	default:
		return nil, types.NewInvalidParameterError("action", fmt.Sprintf("%T", action), "unsupported action type")
	}
}

func orderToWire(a *actions.Order) *OrderActionWire {
	orders := make([]OrderWire, len(a.Orders))
	for i, o := range a.Orders {
		w := OrderWire{
			Asset:      o.Asset,
			IsBuy:      o.IsBuy,
			LimitPx:    o.LimitPx,
			Size:       o.Size,
			ReduceOnly: o.ReduceOnly,
		}
		if o.OrderType.Limit != nil {
			w.OrderType.Limit = &LimitWire{Tif: string(o.OrderType.Limit.Tif)}
		}
		if t := o.OrderType.Trigger; t != nil {
			w.OrderType.Trigger = &TriggerWire{IsMarket: t.IsMarket, TriggerPx: t.TriggerPx, Tpsl: string(t.Tpsl)}
		}
		if o.Cloid != nil {
			c := o.Cloid.String()
			w.Cloid = &c
		}
		orders[i] = w
	}
	out := &OrderActionWire{
		Type:     TypeOrder,
		Orders:   orders,
		Grouping: string(a.Grouping),
	}
	if a.Builder != nil {
		out.Builder = &BuilderWire{Builder: types.LowerHex(a.Builder.Builder), Fee: a.Builder.Fee}
	}
	return out
}

// Encode returns the canonical msgpack bytes of an action.
func Encode(action actions.Action) ([]byte, error) {
	wire, err := ToWire(action)
	if err != nil {
		return nil, err
	}
	return MarshalCanonical(wire)
}

// MarshalCanonical msgpack-encodes a wire value with the smallest integer
// representation, which is what the venue's reference encoder emits.
func MarshalCanonical(wire any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.UseCompactInts(true)
	if err := enc.Encode(wire); err != nil {
		return nil, fmt.Errorf("failed to msgpack encode action: %w", err)
	}
	return buf.Bytes(), nil
}

// TransportJSON returns the JSON form of an action for the submission envelope.
func TransportJSON(action actions.Action) (json.RawMessage, error) {
	wire, err := ToWire(action)
	if err != nil {
		return nil, err
	}
	return marshalTransport(wire)
}

func marshalTransport(wire any) (json.RawMessage, error) {
	data, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("failed to json encode action: %w", err)
	}
	return data, nil
}

// EncodeBoth derives both representations from a single wire value.
func EncodeBoth(action actions.Action) (*Encoded, error) {
	wire, err := ToWire(action)
	if err != nil {
		return nil, err
	}
	canonical, err := MarshalCanonical(wire)
	if err != nil {
		return nil, err
	}
	transport, err := marshalTransport(wire)
	if err != nil {
		return nil, err
	}
	return &Encoded{Canonical: canonical, Transport: transport}, nil
}
