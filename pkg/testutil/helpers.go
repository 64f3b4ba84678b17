// Package testutil holds shared fixtures for package tests: a small but realistic
// venue metadata set, ready-made directories and a scriptable metadata fetcher.
package testutil

import (
	"testing"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/assetDirectory"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/config"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	// TestPrivateKey is a well-known throwaway key. Never fund it.
	TestPrivateKey = "0x0123456789012345678901234567890123456789012345678901234567890123"
	TestNonce      = uint64(1700000000000)
)

var (
	TestAddress = common.HexToAddress("0x14791697260e4c9a71f18484c9f997b308e59325")
	TestVault   = common.HexToAddress("0x1234567890123456789012345678901234567890")
)

const (
	PurrTokenID = "0xc1fb593aeffbeb02f85e0308e9956a90"
	UsdcTokenID = "0x6d1e7cde53ba9467b783cb7c530ce054"
	HfunTokenID = "0xbaf265ef389da684513d98d68edf4eae"
)

// TestMetadata: perps BTC=0, ETH=1, SOL=2; spot PURR/USDC=10000 and @1 (HFUN/USDC)=10001.
func TestMetadata() *assetDirectory.Metadata {
	return &assetDirectory.Metadata{
		Perp: assetDirectory.Meta{
			Universe: []assetDirectory.PerpAssetMeta{
				{Name: "BTC", SzDecimals: 5, MaxLeverage: 50},
				{Name: "ETH", SzDecimals: 4, MaxLeverage: 25},
				{Name: "SOL", SzDecimals: 2, MaxLeverage: 20},
			},
		},
		Spot: assetDirectory.SpotMeta{
			Tokens: []assetDirectory.TokenMeta{
				{Name: "USDC", SzDecimals: 8, WeiDecimals: 8, Index: 0, TokenID: UsdcTokenID, IsCanonical: true},
				{Name: "PURR", SzDecimals: 0, WeiDecimals: 5, Index: 1, TokenID: PurrTokenID, IsCanonical: true},
				{Name: "HFUN", SzDecimals: 2, WeiDecimals: 8, Index: 2, TokenID: HfunTokenID},
			},
			Universe: []assetDirectory.SpotPairMeta{
				{Name: "PURR/USDC", Tokens: []uint32{1, 0}, Index: 0, IsCanonical: true},
				{Name: "@1", Tokens: []uint32{2, 0}, Index: 1},
			},
		},
	}
}

// NewTestDirectory returns a directory loaded with TestMetadata.
func NewTestDirectory(t *testing.T, network config.Network) *assetDirectory.Directory {
	t.Helper()
	d, err := assetDirectory.NewStaticDirectory(network, TestMetadata(), zaptest.NewLogger(t))
	require.NoError(t, err)
	return d
}
