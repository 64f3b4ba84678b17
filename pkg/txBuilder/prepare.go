package txBuilder

import (
	"fmt"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/actions"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
)

// OrderIntent is an order expressed by symbol rather than asset id.
type OrderIntent struct {
	Symbol     string
	IsBuy      bool
	LimitPx    float64
	Size       float64
	ReduceOnly bool
	OrderType  actions.OrderTypeRequest
	Cloid      *types.Cloid
}

type CancelIntent struct {
	Symbol string
	Oid    uint64
}

type CancelByCloidIntent struct {
	Symbol string
	Cloid  types.Cloid
}

func (b *UnsignedTransactionBuilder) PrepareOrder(intent OrderIntent, builder *types.BuilderInfo) (*UnsignedComponents, error) {
	return b.PrepareBulkOrders([]OrderIntent{intent}, actions.Grouping_Na, builder)
}

// PrepareBulkOrders signs every order under one nonce. Symbols are resolved first,
// so an unknown symbol fails before anything is encoded or hashed.
func (b *UnsignedTransactionBuilder) PrepareBulkOrders(intents []OrderIntent, grouping actions.Grouping, builder *types.BuilderInfo) (*UnsignedComponents, error) {
	requests := make([]actions.OrderRequest, 0, len(intents))
	for _, intent := range intents {
		asset, err := b.directory.Lookup(intent.Symbol)
		if err != nil {
			return nil, err
		}
		requests = append(requests, actions.OrderRequest{
			Asset:      asset,
			IsBuy:      intent.IsBuy,
			LimitPx:    intent.LimitPx,
			Size:       intent.Size,
			ReduceOnly: intent.ReduceOnly,
			OrderType:  intent.OrderType,
			Cloid:      intent.Cloid,
		})
	}
	order, err := actions.NewOrder(requests, grouping, builder)
	if err != nil {
		return nil, err
	}
	return b.Prepare(order)
}

func (b *UnsignedTransactionBuilder) PrepareCancel(symbol string, oid uint64) (*UnsignedComponents, error) {
	asset, err := b.directory.Lookup(symbol)
	if err != nil {
		return nil, err
	}
	cancel, err := actions.NewCancel(asset, oid)
	if err != nil {
		return nil, err
	}
	return b.Prepare(cancel)
}

func (b *UnsignedTransactionBuilder) PrepareBulkCancel(intents []CancelIntent) (*UnsignedComponents, error) {
	requests := make([]actions.CancelRequest, 0, len(intents))
	for _, intent := range intents {
		asset, err := b.directory.Lookup(intent.Symbol)
		if err != nil {
			return nil, err
		}
		requests = append(requests, actions.CancelRequest{Asset: asset, Oid: intent.Oid})
	}
	bulk, err := actions.NewBulkCancel(requests)
	if err != nil {
		return nil, err
	}
	return b.Prepare(bulk)
}

func (b *UnsignedTransactionBuilder) PrepareCancelByCloid(intents []CancelByCloidIntent) (*UnsignedComponents, error) {
	requests := make([]actions.CancelByCloidRequest, 0, len(intents))
	for _, intent := range intents {
		asset, err := b.directory.Lookup(intent.Symbol)
		if err != nil {
			return nil, err
		}
		requests = append(requests, actions.CancelByCloidRequest{Asset: asset, Cloid: intent.Cloid})
	}
	cancel, err := actions.NewCancelByCloid(requests)
	if err != nil {
		return nil, err
	}
	return b.Prepare(cancel)
}

func (b *UnsignedTransactionBuilder) PrepareUpdateLeverage(symbol string, isCross bool, leverage uint32) (*UnsignedComponents, error) {
	asset, err := b.directory.Lookup(symbol)
	if err != nil {
		return nil, err
	}
	update, err := actions.NewUpdateLeverage(asset, isCross, leverage)
	if err != nil {
		return nil, err
	}
	return b.Prepare(update)
}

// PrepareVaultTransfer moves USD into or out of vault. The builder's own vault
// context is not applied; the vault travels inside the action.
func (b *UnsignedTransactionBuilder) PrepareVaultTransfer(vault common.Address, isDeposit bool, usd float64) (*UnsignedComponents, error) {
	transfer, err := actions.NewVaultTransfer(vault, isDeposit, usd)
	if err != nil {
		return nil, err
	}
	return b.Prepare(transfer)
}

func (b *UnsignedTransactionBuilder) PrepareUsdTransfer(destination common.Address, amount float64) (*UnsignedComponents, error) {
	transfer, err := actions.NewUsdTransfer(b.chain, destination, amount, b.nonces.Next())
	if err != nil {
		return nil, err
	}
	return b.Prepare(transfer)
}

func (b *UnsignedTransactionBuilder) PrepareWithdraw(destination common.Address, amount float64) (*UnsignedComponents, error) {
	withdraw, err := actions.NewWithdraw(b.chain, destination, amount, b.nonces.Next())
	if err != nil {
		return nil, err
	}
	return b.Prepare(withdraw)
}

// PrepareSpotTransfer accepts a token by name ("PURR") or wire form ("PURR:0x...").
func (b *UnsignedTransactionBuilder) PrepareSpotTransfer(destination common.Address, token string, amount float64) (*UnsignedComponents, error) {
	t, err := b.directory.Token(token)
	if err != nil {
		return nil, err
	}
	transfer, err := actions.NewSpotTransfer(b.chain, destination, t, amount, b.nonces.Next())
	if err != nil {
		return nil, err
	}
	return b.Prepare(transfer)
}

// PrepareApproveBuilderFee approves builder to charge up to maxFeeRate, e.g. "0.01%".
func (b *UnsignedTransactionBuilder) PrepareApproveBuilderFee(builder common.Address, maxFeeRate string) (*UnsignedComponents, error) {
	approve, err := actions.NewApproveBuilderFee(b.chain, builder, maxFeeRate, b.nonces.Next())
	if err != nil {
		return nil, err
	}
	return b.Prepare(approve)
}

// PrepareMarketOrder prices an IOC order slippage away from midPx, rounded to the
// asset's price rules, the way the venue's SDKs emulate market orders.
func (b *UnsignedTransactionBuilder) PrepareMarketOrder(symbol string, isBuy bool, size float64, midPx float64, slippage float64, cloid *types.Cloid) (*UnsignedComponents, error) {
	asset, err := b.directory.Lookup(symbol)
	if err != nil {
		return nil, err
	}
	if !(slippage >= 0 && slippage < 1) {
		return nil, types.NewInvalidParameterError("slippage", fmt.Sprintf("%v", slippage), "must be in [0, 1)")
	}
	px, err := actions.SlippagePrice(asset, isBuy, midPx, slippage)
	if err != nil {
		return nil, err
	}
	return b.PrepareOrder(OrderIntent{
		Symbol:    symbol,
		IsBuy:     isBuy,
		LimitPx:   px,
		Size:      size,
		OrderType: actions.LimitOrder(actions.Tif_Ioc),
		Cloid:     cloid,
	}, nil)
}
