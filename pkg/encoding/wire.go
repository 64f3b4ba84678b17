package encoding

// Wire structs carry both json and msgpack tags. Field order is the venue's
// schema order and must not be changed: msgpack encodes structs as maps in
// declaration order and that byte sequence is what gets hashed.

type OrderActionWire struct {
	Type     string       `json:"type" msgpack:"type"`
	Orders   []OrderWire  `json:"orders" msgpack:"orders"`
	Grouping string       `json:"grouping" msgpack:"grouping"`
	Builder  *BuilderWire `json:"builder,omitempty" msgpack:"builder,omitempty"`
}

type OrderWire struct {
	Asset      uint32        `json:"a" msgpack:"a"`
	IsBuy      bool          `json:"b" msgpack:"b"`
	LimitPx    string        `json:"p" msgpack:"p"`
	Size       string        `json:"s" msgpack:"s"`
	ReduceOnly bool          `json:"r" msgpack:"r"`
	OrderType  OrderTypeWire `json:"t" msgpack:"t"`
	Cloid      *string       `json:"c,omitempty" msgpack:"c,omitempty"`
}

type OrderTypeWire struct {
	Limit   *LimitWire   `json:"limit,omitempty" msgpack:"limit,omitempty"`
	Trigger *TriggerWire `json:"trigger,omitempty" msgpack:"trigger,omitempty"`
}

type LimitWire struct {
	Tif string `json:"tif" msgpack:"tif"`
}

type TriggerWire struct {
	IsMarket  bool   `json:"isMarket" msgpack:"isMarket"`
	TriggerPx string `json:"triggerPx" msgpack:"triggerPx"`
	Tpsl      string `json:"tpsl" msgpack:"tpsl"`
}

type BuilderWire struct {
	Builder string `json:"b" msgpack:"b"`
	Fee     uint64 `json:"f" msgpack:"f"`
}

type CancelActionWire struct {
	Type    string       `json:"type" msgpack:"type"`
	Cancels []CancelWire `json:"cancels" msgpack:"cancels"`
}

type CancelWire struct {
	Asset uint32 `json:"a" msgpack:"a"`
	Oid   uint64 `json:"o" msgpack:"o"`
}

// CancelByCloidWire uses "asset" where CancelWire uses "a".
type CancelByCloidActionWire struct {
	Type    string              `json:"type" msgpack:"type"`
	Cancels []CancelByCloidWire `json:"cancels" msgpack:"cancels"`
}

type CancelByCloidWire struct {
	Asset uint32 `json:"asset" msgpack:"asset"`
	Cloid string `json:"cloid" msgpack:"cloid"`
}

type UpdateLeverageWire struct {
	Type     string `json:"type" msgpack:"type"`
	Asset    uint32 `json:"asset" msgpack:"asset"`
	IsCross  bool   `json:"isCross" msgpack:"isCross"`
	Leverage uint32 `json:"leverage" msgpack:"leverage"`
}

type VaultTransferWire struct {
	Type         string `json:"type" msgpack:"type"`
	VaultAddress string `json:"vaultAddress" msgpack:"vaultAddress"`
	IsDeposit    bool   `json:"isDeposit" msgpack:"isDeposit"`
	Usd          uint64 `json:"usd" msgpack:"usd"`
}

// UsdSendWire is shared by usdSend and withdraw3.
type UsdSendWire struct {
	Type             string `json:"type" msgpack:"type"`
	SignatureChainId string `json:"signatureChainId" msgpack:"signatureChainId"`
	HyperliquidChain string `json:"hyperliquidChain" msgpack:"hyperliquidChain"`
	Destination      string `json:"destination" msgpack:"destination"`
	Amount           string `json:"amount" msgpack:"amount"`
	Time             uint64 `json:"time" msgpack:"time"`
}

type SpotSendWire struct {
	Type             string `json:"type" msgpack:"type"`
	SignatureChainId string `json:"signatureChainId" msgpack:"signatureChainId"`
	HyperliquidChain string `json:"hyperliquidChain" msgpack:"hyperliquidChain"`
	Destination      string `json:"destination" msgpack:"destination"`
	Token            string `json:"token" msgpack:"token"`
	Amount           string `json:"amount" msgpack:"amount"`
	Time             uint64 `json:"time" msgpack:"time"`
}

type ApproveBuilderFeeWire struct {
	Type             string `json:"type" msgpack:"type"`
	SignatureChainId string `json:"signatureChainId" msgpack:"signatureChainId"`
	HyperliquidChain string `json:"hyperliquidChain" msgpack:"hyperliquidChain"`
	MaxFeeRate       string `json:"maxFeeRate" msgpack:"maxFeeRate"`
	Builder          string `json:"builder" msgpack:"builder"`
	Nonce            uint64 `json:"nonce" msgpack:"nonce"`
}
