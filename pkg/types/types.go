package types

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// SpotAssetOffset is added to a spot pair's universe index to form its asset id.
const SpotAssetOffset = 10000

// Asset is one tradable instrument as published by the venue's metadata.
// Values are immutable once a directory snapshot has been built.
type Asset struct {
	Symbol      string `json:"symbol"`
	Index       uint32 `json:"index"`
	SzDecimals  uint32 `json:"szDecimals"`
	MaxLeverage uint32 `json:"maxLeverage,omitempty"`
	IsSpot      bool   `json:"isSpot,omitempty"`
}

// MaxPriceDecimals is the number of decimals a limit or trigger price may carry
// for this asset: 6 - szDecimals for perps and 8 - szDecimals for spot.
func (a Asset) MaxPriceDecimals() int32 {
	limit := int32(6)
	if a.IsSpot {
		limit = 8
	}
	d := limit - int32(a.SzDecimals)
	if d < 0 {
		return 0
	}
	return d
}

// SpotToken is a token that can be moved with a spot transfer.
type SpotToken struct {
	Name        string `json:"name"`
	TokenID     string `json:"tokenId"`
	Index       uint32 `json:"index"`
	SzDecimals  uint32 `json:"szDecimals"`
	WeiDecimals uint32 `json:"weiDecimals"`
}

// Wire is the token identifier used in spot transfer actions, NAME:tokenId.
func (t SpotToken) Wire() string {
	return fmt.Sprintf("%s:%s", t.Name, t.TokenID)
}

// BuilderInfo attaches a builder fee to an order. Fee is in tenths of a basis point.
type BuilderInfo struct {
	Builder common.Address
	Fee     uint64
}

const (
	MaxPerpBuilderFee = 100
	MaxSpotBuilderFee = 1000
)

// LowerHex renders an address the way action payloads carry it: lowercase 0x-prefixed hex.
func LowerHex(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}
