// Package actions defines the closed set of venue actions a transaction can carry.
//
// Every variant is built through a validating constructor that receives
// already-resolved assets, so a constructed Action is always encodable. Values are
// treated as immutable once returned; encoders and digest computers only read them.
package actions

import (
	"github.com/Layr-Labs/hl-txsigner-go/pkg/config"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
)

// Kind identifies an action variant. It is not always the venue type tag:
// Cancel and BulkCancel both travel as "cancel".
type Kind string

const (
	Kind_Order             Kind = "order"
	Kind_Cancel            Kind = "cancel"
	Kind_BulkCancel        Kind = "bulkCancel"
	Kind_CancelByCloid     Kind = "cancelByCloid"
	Kind_UpdateLeverage    Kind = "updateLeverage"
	Kind_VaultTransfer     Kind = "vaultTransfer"
	Kind_UsdTransfer       Kind = "usdSend"
	Kind_Withdraw          Kind = "withdraw3"
	Kind_SpotTransfer      Kind = "spotSend"
	Kind_ApproveBuilderFee Kind = "approveBuilderFee"
)

// Scheme is the signature scheme the venue verifies an action with.
type Scheme int

const (
	// Scheme_L1Agent actions are hashed with msgpack and signed through the phantom Agent record.
	Scheme_L1Agent Scheme = iota
	// Scheme_UserSigned actions are signed directly as EIP-712 typed data.
	Scheme_UserSigned
)

func (s Scheme) String() string {
	switch s {
	case Scheme_L1Agent:
		return "l1Agent"
	case Scheme_UserSigned:
		return "userSigned"
	default:
		return "unknown"
	}
}

// Action is implemented only by the variants in this package.
type Action interface {
	Kind() Kind
	SigningScheme() Scheme
	isAction()
}

// UserSignedAction is an action whose own timestamp doubles as the signing nonce.
type UserSignedAction interface {
	Action
	Chain() config.HyperliquidChain
	SignedNonce() uint64
}

type Order struct {
	Orders   []OrderSpec
	Grouping Grouping
	Builder  *types.BuilderInfo
}

type Cancel struct {
	Asset uint32
	Oid   uint64
}

type BulkCancel struct {
	Cancels []CancelSpec
}

type CancelSpec struct {
	Asset uint32
	Oid   uint64
}

type CancelByCloid struct {
	Cancels []CancelByCloidSpec
}

type CancelByCloidSpec struct {
	Asset uint32
	Cloid types.Cloid
}

type UpdateLeverage struct {
	Asset    uint32
	IsCross  bool
	Leverage uint32
}

// VaultTransfer moves USD into or out of a vault. Usd is in micro-USD.
type VaultTransfer struct {
	VaultAddress string
	IsDeposit    bool
	Usd          uint64
}

type UsdTransfer struct {
	HyperliquidChain config.HyperliquidChain
	Destination      string
	Amount           string
	Time             uint64
}

type Withdraw struct {
	HyperliquidChain config.HyperliquidChain
	Destination      string
	Amount           string
	Time             uint64
}

type SpotTransfer struct {
	HyperliquidChain config.HyperliquidChain
	Destination      string
	Token            string
	Amount           string
	Time             uint64
}

type ApproveBuilderFee struct {
	HyperliquidChain config.HyperliquidChain
	MaxFeeRate       string
	Builder          string
	Nonce            uint64
}

func (*Order) Kind() Kind             { return Kind_Order }
func (*Cancel) Kind() Kind            { return Kind_Cancel }
func (*BulkCancel) Kind() Kind        { return Kind_BulkCancel }
func (*CancelByCloid) Kind() Kind     { return Kind_CancelByCloid }
func (*UpdateLeverage) Kind() Kind    { return Kind_UpdateLeverage }
func (*VaultTransfer) Kind() Kind     { return Kind_VaultTransfer }
func (*UsdTransfer) Kind() Kind       { return Kind_UsdTransfer }
func (*Withdraw) Kind() Kind          { return Kind_Withdraw }
func (*SpotTransfer) Kind() Kind      { return Kind_SpotTransfer }
func (*ApproveBuilderFee) Kind() Kind { return Kind_ApproveBuilderFee }

func (*Order) SigningScheme() Scheme             { return Scheme_L1Agent }
func (*Cancel) SigningScheme() Scheme            { return Scheme_L1Agent }
func (*BulkCancel) SigningScheme() Scheme        { return Scheme_L1Agent }
func (*CancelByCloid) SigningScheme() Scheme     { return Scheme_L1Agent }
func (*UpdateLeverage) SigningScheme() Scheme    { return Scheme_L1Agent }
func (*VaultTransfer) SigningScheme() Scheme     { return Scheme_L1Agent }
func (*UsdTransfer) SigningScheme() Scheme       { return Scheme_UserSigned }
func (*Withdraw) SigningScheme() Scheme          { return Scheme_UserSigned }
func (*SpotTransfer) SigningScheme() Scheme      { return Scheme_UserSigned }
func (*ApproveBuilderFee) SigningScheme() Scheme { return Scheme_UserSigned }

func (*Order) isAction()             {}
func (*Cancel) isAction()            {}
func (*BulkCancel) isAction()        {}
func (*CancelByCloid) isAction()     {}
func (*UpdateLeverage) isAction()    {}
func (*VaultTransfer) isAction()     {}
func (*UsdTransfer) isAction()       {}
func (*Withdraw) isAction()          {}
func (*SpotTransfer) isAction()      {}
func (*ApproveBuilderFee) isAction() {}

func (a *UsdTransfer) Chain() config.HyperliquidChain       { return a.HyperliquidChain }
func (a *Withdraw) Chain() config.HyperliquidChain          { return a.HyperliquidChain }
func (a *SpotTransfer) Chain() config.HyperliquidChain      { return a.HyperliquidChain }
func (a *ApproveBuilderFee) Chain() config.HyperliquidChain { return a.HyperliquidChain }

func (a *UsdTransfer) SignedNonce() uint64       { return a.Time }
func (a *Withdraw) SignedNonce() uint64          { return a.Time }
func (a *SpotTransfer) SignedNonce() uint64      { return a.Time }
func (a *ApproveBuilderFee) SignedNonce() uint64 { return a.Nonce }
