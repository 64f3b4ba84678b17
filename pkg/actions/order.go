package actions

import (
	"fmt"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
)

type Tif string

const (
	Tif_Gtc Tif = "Gtc"
	Tif_Ioc Tif = "Ioc"
	// Tif_Alo is add-liquidity-only, i.e. post only.
	Tif_Alo Tif = "Alo"
)

type Tpsl string

const (
	Tpsl_TakeProfit Tpsl = "tp"
	Tpsl_StopLoss   Tpsl = "sl"
)

type Grouping string

const (
	Grouping_Na           Grouping = "na"
	Grouping_NormalTpsl   Grouping = "normalTpsl"
	Grouping_PositionTpsl Grouping = "positionTpsl"
)

func (t Tif) valid() bool {
	return t == Tif_Gtc || t == Tif_Ioc || t == Tif_Alo
}

func (t Tpsl) valid() bool {
	return t == Tpsl_TakeProfit || t == Tpsl_StopLoss
}

func (g Grouping) valid() bool {
	return g == Grouping_Na || g == Grouping_NormalTpsl || g == Grouping_PositionTpsl
}

// OrderSpec is one validated order inside an Order action. Prices and sizes are
// already in wire form.
type OrderSpec struct {
	Asset      uint32
	IsBuy      bool
	LimitPx    string
	Size       string
	ReduceOnly bool
	OrderType  OrderType
	Cloid      *types.Cloid
}

// OrderType holds exactly one of Limit or Trigger.
type OrderType struct {
	Limit   *LimitOrderType
	Trigger *TriggerOrderType
}

type LimitOrderType struct {
	Tif Tif
}

type TriggerOrderType struct {
	IsMarket  bool
	TriggerPx string
	Tpsl      Tpsl
}

// OrderRequest is the caller-facing description of an order, before validation.
type OrderRequest struct {
	Asset      types.Asset
	IsBuy      bool
	LimitPx    float64
	Size       float64
	ReduceOnly bool
	OrderType  OrderTypeRequest
	Cloid      *types.Cloid
}

type OrderTypeRequest struct {
	Limit   *LimitOrderType
	Trigger *TriggerRequest
}

type TriggerRequest struct {
	TriggerPx float64
	IsMarket  bool
	Tpsl      Tpsl
}

// LimitOrder is shorthand for a limit order type request.
func LimitOrder(tif Tif) OrderTypeRequest {
	return OrderTypeRequest{Limit: &LimitOrderType{Tif: tif}}
}

// TriggerOrder is shorthand for a trigger order type request.
func TriggerOrder(triggerPx float64, isMarket bool, tpsl Tpsl) OrderTypeRequest {
	return OrderTypeRequest{Trigger: &TriggerRequest{TriggerPx: triggerPx, IsMarket: isMarket, Tpsl: tpsl}}
}

// NewOrder validates one or more order requests and groups them into a single
// action. All orders share one nonce and one signature.
func NewOrder(requests []OrderRequest, grouping Grouping, builder *types.BuilderInfo) (*Order, error) {
	if len(requests) == 0 {
		return nil, types.NewInvalidParameterError("orders", "", "at least one order is required")
	}
	if !grouping.valid() {
		return nil, types.NewInvalidParameterError("grouping", string(grouping), "must be one of na, normalTpsl, positionTpsl")
	}

	specs := make([]OrderSpec, 0, len(requests))
	allSpot := true
	for i, req := range requests {
		prefix := "order"
		if len(requests) > 1 {
			prefix = fmt.Sprintf("orders[%d]", i)
		}
		spec, err := newOrderSpec(prefix, req)
		if err != nil {
			return nil, err
		}
		if !req.Asset.IsSpot {
			allSpot = false
		}
		specs = append(specs, spec)
	}

	if builder != nil {
		if builder.Builder == (common.Address{}) {
			return nil, types.NewInvalidParameterError("builder.b", builder.Builder.Hex(), "must not be the zero address")
		}
		maxFee := uint64(types.MaxPerpBuilderFee)
		if allSpot {
			maxFee = types.MaxSpotBuilderFee
		}
		if builder.Fee > maxFee {
			return nil, types.NewInvalidParameterError("builder.f", fmt.Sprintf("%d", builder.Fee),
				fmt.Sprintf("must not exceed %d tenths of a basis point", maxFee))
		}
		b := *builder
		builder = &b
	}

	return &Order{
		Orders:   specs,
		Grouping: grouping,
		Builder:  builder,
	}, nil
}

func newOrderSpec(prefix string, req OrderRequest) (OrderSpec, error) {
	limitPx, err := priceToWire(prefix+".limitPx", req.LimitPx, req.Asset)
	if err != nil {
		return OrderSpec{}, err
	}
	size, err := sizeToWire(prefix+".size", req.Size, req.Asset)
	if err != nil {
		return OrderSpec{}, err
	}

	var orderType OrderType
	switch {
	case req.OrderType.Limit != nil && req.OrderType.Trigger != nil:
		return OrderSpec{}, types.NewInvalidParameterError(prefix+".orderType", "", "exactly one of limit or trigger must be set")
	case req.OrderType.Limit != nil:
		if !req.OrderType.Limit.Tif.valid() {
			return OrderSpec{}, types.NewInvalidParameterError(prefix+".orderType.tif", string(req.OrderType.Limit.Tif),
				"must be one of Gtc, Ioc, Alo")
		}
		orderType.Limit = &LimitOrderType{Tif: req.OrderType.Limit.Tif}
	case req.OrderType.Trigger != nil:
		trig := req.OrderType.Trigger
		if !trig.Tpsl.valid() {
			return OrderSpec{}, types.NewInvalidParameterError(prefix+".orderType.tpsl", string(trig.Tpsl), "must be tp or sl")
		}
		triggerPx, err := priceToWire(prefix+".orderType.triggerPx", trig.TriggerPx, req.Asset)
		if err != nil {
			return OrderSpec{}, err
		}
		orderType.Trigger = &TriggerOrderType{IsMarket: trig.IsMarket, TriggerPx: triggerPx, Tpsl: trig.Tpsl}
	default:
		return OrderSpec{}, types.NewInvalidParameterError(prefix+".orderType", "", "exactly one of limit or trigger must be set")
	}

	var cloid *types.Cloid
	if req.Cloid != nil {
		c := *req.Cloid
		cloid = &c
	}

	return OrderSpec{
		Asset:      req.Asset.Index,
		IsBuy:      req.IsBuy,
		LimitPx:    limitPx,
		Size:       size,
		ReduceOnly: req.ReduceOnly,
		OrderType:  orderType,
		Cloid:      cloid,
	}, nil
}

func priceToWire(field string, px float64, asset types.Asset) (string, error) {
	wire, err := positiveToWire(field, px)
	if err != nil {
		return "", err
	}
	if decimalPlaces(wire) == 0 {
		return wire, nil
	}
	if significantFigures(wire) > maxPriceSigFigs {
		return "", types.NewInvalidParameterError(field, wire,
			fmt.Sprintf("non-integral prices may have at most %d significant figures", maxPriceSigFigs))
	}
	if places, limit := decimalPlaces(wire), asset.MaxPriceDecimals(); places > limit {
		return "", types.NewInvalidParameterError(field, wire,
			fmt.Sprintf("%s prices may have at most %d decimals", asset.Symbol, limit))
	}
	return wire, nil
}

func sizeToWire(field string, sz float64, asset types.Asset) (string, error) {
	wire, err := positiveToWire(field, sz)
	if err != nil {
		return "", err
	}
	if places := decimalPlaces(wire); places > int32(asset.SzDecimals) {
		return "", types.NewInvalidParameterError(field, wire,
			fmt.Sprintf("%s sizes may have at most %d decimals", asset.Symbol, asset.SzDecimals))
	}
	return wire, nil
}

func positiveToWire(field string, x float64) (string, error) {
	if !(x > 0) {
		return "", types.NewInvalidParameterError(field, fmt.Sprintf("%v", x), "must be a finite positive number")
	}
	wire, ok := FloatToWire(x)
	if !ok {
		return "", types.NewInvalidParameterError(field, fmt.Sprintf("%v", x),
			fmt.Sprintf("must be finite with at most %d decimals", wireDecimals))
	}
	return wire, nil
}
