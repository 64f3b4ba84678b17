package txBuilder

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/actions"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/config"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/digest"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/nonce"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/signer"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/signer/privateKeySigner"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/testutil"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const ethBuyDigest = "7eceb5584c0292af586bc6509eee4d545e48aaaa2f11ce79bb6b205e5b323144"

func fixedClock() func() time.Time {
	return func() time.Time { return time.UnixMilli(int64(testutil.TestNonce)) }
}

func newTestBuilder(t *testing.T, network config.Network, mutate ...func(*BuilderConfig)) (*UnsignedTransactionBuilder, *nonce.Source) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	source := nonce.NewSource(logger, nonce.WithClock(fixedClock()))
	cfg := &BuilderConfig{
		Directory:   testutil.NewTestDirectory(t, network),
		NonceSource: source,
		Network:     network,
		Logger:      logger,
	}
	for _, m := range mutate {
		m(cfg)
	}
	b, err := NewUnsignedTransactionBuilder(cfg)
	require.NoError(t, err)
	return b, source
}

func ethBuy() OrderIntent {
	return OrderIntent{
		Symbol:    "ETH",
		IsBuy:     true,
		LimitPx:   2000,
		Size:      0.1,
		OrderType: actions.LimitOrder(actions.Tif_Gtc),
	}
}

func TestNewUnsignedTransactionBuilder_Validation(t *testing.T) {
	dir := testutil.NewTestDirectory(t, config.Network_Mainnet)
	source := nonce.NewSource(nil)

	tests := []struct {
		name        string
		cfg         *BuilderConfig
		expectedErr error
	}{
		{name: "nil config", cfg: nil, expectedErr: types.ErrInvalidParameter},
		{name: "missing directory", cfg: &BuilderConfig{NonceSource: source, Network: config.Network_Mainnet}, expectedErr: types.ErrInvalidParameter},
		{name: "missing nonce source", cfg: &BuilderConfig{Directory: dir, Network: config.Network_Mainnet}, expectedErr: types.ErrInvalidParameter},
		{name: "unknown network", cfg: &BuilderConfig{Directory: dir, NonceSource: source, Network: "devnet"}, expectedErr: types.ErrInvalidParameter},
		{name: "negative expiration", cfg: &BuilderConfig{Directory: dir, NonceSource: source, Network: config.Network_Mainnet, ExpiresAfter: -time.Second}, expectedErr: types.ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUnsignedTransactionBuilder(tt.cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.expectedErr), "got %v", err)
		})
	}
}

func TestPrepareOrder_Golden(t *testing.T) {
	b, _ := newTestBuilder(t, config.Network_Mainnet)

	c, err := b.PrepareOrder(ethBuy(), nil)
	require.NoError(t, err)

	assert.Equal(t, testutil.TestNonce, c.Nonce)
	assert.Equal(t, ethBuyDigest, hex.EncodeToString(c.Digest.Bytes()))
	assert.Equal(t, actions.Scheme_L1Agent, c.Scheme)
	assert.Equal(t, uint64(config.AgentDomainChainId), c.ChainID)
	assert.Nil(t, c.VaultAddress)
	assert.Nil(t, c.ExpiresAfter)
	assert.JSONEq(t,
		`{"type":"order","orders":[{"a":1,"b":true,"p":"2000","s":"0.1","r":false,"t":{"limit":{"tif":"Gtc"}}}],"grouping":"na"}`,
		string(c.ActionJSON))

	// the typed-data document hashes to the same digest
	require.NotNil(t, c.TypedData)
	fromTyped, err := digest.TypedDataDigest(c.TypedData)
	require.NoError(t, err)
	assert.Equal(t, c.Digest, fromTyped)
}

func TestPrepareOrder_NetworkChangesDigest(t *testing.T) {
	mainnet, _ := newTestBuilder(t, config.Network_Mainnet)
	testnet, _ := newTestBuilder(t, config.Network_Testnet)
	local, _ := newTestBuilder(t, config.Network_Local)

	m, err := mainnet.PrepareOrder(ethBuy(), nil)
	require.NoError(t, err)
	tn, err := testnet.PrepareOrder(ethBuy(), nil)
	require.NoError(t, err)
	l, err := local.PrepareOrder(ethBuy(), nil)
	require.NoError(t, err)

	assert.NotEqual(t, m.Digest, tn.Digest)
	assert.Equal(t, m.Digest, l.Digest)
}

func TestPrepare_UnknownAssetConsumesNoNonce(t *testing.T) {
	b, source := newTestBuilder(t, config.Network_Mainnet)

	tests := []struct {
		name    string
		prepare func() (*UnsignedComponents, error)
	}{
		{name: "order", prepare: func() (*UnsignedComponents, error) {
			intent := ethBuy()
			intent.Symbol = "DOGE"
			return b.PrepareOrder(intent, nil)
		}},
		{name: "second order of a bulk", prepare: func() (*UnsignedComponents, error) {
			bad := ethBuy()
			bad.Symbol = "DOGE"
			return b.PrepareBulkOrders([]OrderIntent{ethBuy(), bad}, actions.Grouping_Na, nil)
		}},
		{name: "cancel", prepare: func() (*UnsignedComponents, error) { return b.PrepareCancel("DOGE", 1) }},
		{name: "bulk cancel", prepare: func() (*UnsignedComponents, error) {
			return b.PrepareBulkCancel([]CancelIntent{{Symbol: "BTC", Oid: 1}, {Symbol: "DOGE", Oid: 2}})
		}},
		{name: "cancel by cloid", prepare: func() (*UnsignedComponents, error) {
			return b.PrepareCancelByCloid([]CancelByCloidIntent{{Symbol: "DOGE", Cloid: types.NewCloidFromUint64(1)}})
		}},
		{name: "leverage", prepare: func() (*UnsignedComponents, error) { return b.PrepareUpdateLeverage("DOGE", true, 5) }},
		{name: "spot transfer", prepare: func() (*UnsignedComponents, error) {
			return b.PrepareSpotTransfer(testutil.TestVault, "DOGE", 1)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.prepare()
			require.Error(t, err)
			assert.Nil(t, c)
			assert.True(t, errors.Is(err, types.ErrUnknownAsset), "got %v", err)
			assert.Equal(t, uint64(0), source.Last())
		})
	}
}

func TestPrepare_InvalidParameters(t *testing.T) {
	b, source := newTestBuilder(t, config.Network_Mainnet)

	tests := []struct {
		name    string
		prepare func() (*UnsignedComponents, error)
	}{
		{name: "zero size", prepare: func() (*UnsignedComponents, error) {
			intent := ethBuy()
			intent.Size = 0
			return b.PrepareOrder(intent, nil)
		}},
		{name: "too many size decimals", prepare: func() (*UnsignedComponents, error) {
			intent := ethBuy()
			intent.Size = 0.00001
			return b.PrepareOrder(intent, nil)
		}},
		{name: "leverage above max", prepare: func() (*UnsignedComponents, error) { return b.PrepareUpdateLeverage("ETH", true, 26) }},
		{name: "leverage on spot", prepare: func() (*UnsignedComponents, error) { return b.PrepareUpdateLeverage("PURR/USDC", true, 2) }},
		{name: "zero oid", prepare: func() (*UnsignedComponents, error) { return b.PrepareCancel("ETH", 0) }},
		{name: "nil action", prepare: func() (*UnsignedComponents, error) { return b.Prepare(nil) }},
		{name: "market order slippage", prepare: func() (*UnsignedComponents, error) {
			return b.PrepareMarketOrder("ETH", true, 0.1, 2000, 1.5, nil)
		}},
		{name: "market order nan slippage", prepare: func() (*UnsignedComponents, error) {
			return b.PrepareMarketOrder("ETH", true, 0.1, 2000, math.NaN(), nil)
		}},
		{name: "market order overflowing mid", prepare: func() (*UnsignedComponents, error) {
			return b.PrepareMarketOrder("ETH", true, 0.1, math.MaxFloat64, 0.05, nil)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.prepare()
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrInvalidParameter), "got %v", err)
			assert.Equal(t, uint64(0), source.Last())
		})
	}
}

func TestPrepare_NoncesIncrease(t *testing.T) {
	b, _ := newTestBuilder(t, config.Network_Mainnet)

	first, err := b.PrepareOrder(ethBuy(), nil)
	require.NoError(t, err)
	second, err := b.PrepareOrder(ethBuy(), nil)
	require.NoError(t, err)

	assert.Equal(t, first.Nonce+1, second.Nonce)
	assert.NotEqual(t, first.Digest, second.Digest)
}

func TestPrepare_VaultAndExpiration(t *testing.T) {
	vault := testutil.TestVault
	b, _ := newTestBuilder(t, config.Network_Mainnet, func(cfg *BuilderConfig) {
		cfg.VaultAddress = &vault
		cfg.ExpiresAfter = time.Minute
	})

	c, err := b.PrepareCancel("BTC", 42)
	require.NoError(t, err)
	require.NotNil(t, c.VaultAddress)
	assert.Equal(t, vault, *c.VaultAddress)
	require.NotNil(t, c.ExpiresAfter)
	assert.Equal(t, c.Nonce+60_000, *c.ExpiresAfter)

	expected, err := digest.Compute(c.Action, c.Nonce, &vault, c.ExpiresAfter, config.Network_Mainnet)
	require.NoError(t, err)
	assert.Equal(t, expected, c.Digest)

	// the same builder without a vault signs a different message
	plain, err := b.WithVault(nil).PrepareCancel("BTC", 42)
	require.NoError(t, err)
	assert.Nil(t, plain.VaultAddress)
	assert.NotEqual(t, c.Digest, plain.Digest)

	// vault transfers carry the vault in the action, never as signing context
	vt, err := b.PrepareVaultTransfer(vault, true, 5)
	require.NoError(t, err)
	assert.Nil(t, vt.VaultAddress)
}

func TestPrepare_ExpirationFollowsNonceResolution(t *testing.T) {
	source := nonce.NewSource(nil, nonce.WithClock(fixedClock()), nonce.WithResolution(time.Microsecond))
	b, err := NewUnsignedTransactionBuilder(&BuilderConfig{
		Directory:    testutil.NewTestDirectory(t, config.Network_Mainnet),
		NonceSource:  source,
		Network:      config.Network_Mainnet,
		ExpiresAfter: time.Minute,
		Logger:       zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	c, err := b.PrepareCancel("BTC", 42)
	require.NoError(t, err)
	assert.Equal(t, testutil.TestNonce*1000, c.Nonce)
	require.NotNil(t, c.ExpiresAfter)
	assert.Equal(t, c.Nonce+60_000_000, *c.ExpiresAfter)
}

func TestPrepare_UserSignedGolden(t *testing.T) {
	tests := []struct {
		name     string
		prepare  func(b *UnsignedTransactionBuilder) (*UnsignedComponents, error)
		expected string
	}{
		{name: "usd send", prepare: func(b *UnsignedTransactionBuilder) (*UnsignedComponents, error) {
			return b.PrepareUsdTransfer(testutil.TestVault, 100)
		}, expected: "9d45ad691281fd203b984f1997bef5f640b65729aa3731e25f0b4040b2ec9741"},
		{name: "withdraw", prepare: func(b *UnsignedTransactionBuilder) (*UnsignedComponents, error) {
			return b.PrepareWithdraw(testutil.TestVault, 100)
		}, expected: "27add26ab59de767a776155cd2ab9dcb909de51a21644091254583ef114d2fae"},
		{name: "spot send by name", prepare: func(b *UnsignedTransactionBuilder) (*UnsignedComponents, error) {
			return b.PrepareSpotTransfer(testutil.TestVault, "PURR", 3.5)
		}, expected: "725800ef0ee3e26b200c8f1dd2351845f3442cd352d4deae6870695aa9ff483f"},
		{name: "spot send by wire name", prepare: func(b *UnsignedTransactionBuilder) (*UnsignedComponents, error) {
			return b.PrepareSpotTransfer(testutil.TestVault, "PURR:"+testutil.PurrTokenID, 3.5)
		}, expected: "725800ef0ee3e26b200c8f1dd2351845f3442cd352d4deae6870695aa9ff483f"},
		{name: "approve builder fee", prepare: func(b *UnsignedTransactionBuilder) (*UnsignedComponents, error) {
			return b.PrepareApproveBuilderFee(testutil.TestVault, "0.001%")
		}, expected: "a95c234627c41c6f5553011bad5046430f3a44d36cc36ecb190cefba3d3a1f0d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vault := testutil.TestVault
			b, _ := newTestBuilder(t, config.Network_Mainnet, func(cfg *BuilderConfig) {
				cfg.VaultAddress = &vault
				cfg.ExpiresAfter = time.Minute
			})
			c, err := tt.prepare(b)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, hex.EncodeToString(c.Digest.Bytes()))
			assert.Equal(t, testutil.TestNonce, c.Nonce)
			assert.Equal(t, actions.Scheme_UserSigned, c.Scheme)
			assert.Equal(t, uint64(config.SignatureChainId), c.ChainID)
			// vault and expiration never apply to user-signed actions
			assert.Nil(t, c.VaultAddress)
			assert.Nil(t, c.ExpiresAfter)

			fromTyped, err := digest.TypedDataDigest(c.TypedData)
			require.NoError(t, err)
			assert.Equal(t, c.Digest, fromTyped)
		})
	}
}

func TestPrepare_UserSignedObservesNonce(t *testing.T) {
	b, source := newTestBuilder(t, config.Network_Mainnet)

	usd, err := actions.NewUsdTransfer(config.HyperliquidChain_Mainnet, testutil.TestVault, 1, testutil.TestNonce+500)
	require.NoError(t, err)
	c, err := b.Prepare(usd)
	require.NoError(t, err)
	assert.Equal(t, testutil.TestNonce+500, c.Nonce)

	// later L1 nonces stay above the one the action carried
	order, err := b.PrepareOrder(ethBuy(), nil)
	require.NoError(t, err)
	assert.Equal(t, testutil.TestNonce+501, order.Nonce)
	assert.Equal(t, testutil.TestNonce+501, source.Last())
}

func TestPrepare_UserSignedChainMismatch(t *testing.T) {
	b, _ := newTestBuilder(t, config.Network_Mainnet)
	usd, err := actions.NewUsdTransfer(config.HyperliquidChain_Testnet, testutil.TestVault, 1, testutil.TestNonce)
	require.NoError(t, err)

	_, err = b.Prepare(usd)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidParameter))
}

func TestSignAndAssemble(t *testing.T) {
	b, _ := newTestBuilder(t, config.Network_Mainnet)
	s, err := privateKeySigner.NewPrivateKeySigner(testutil.TestPrivateKey, zaptest.NewLogger(t))
	require.NoError(t, err)

	c, err := b.PrepareOrder(ethBuy(), nil)
	require.NoError(t, err)

	env, err := b.SignAndAssemble(context.Background(), c, s)
	require.NoError(t, err)
	assert.Equal(t, testutil.TestNonce, env.Nonce)
	assert.Equal(t, common.HexToHash("18f573bc2cebc801d3d251bdc37d953190572ae8f67f8bd3e353f0e43602ae69"), common.Hash(env.Signature.R))
	assert.Equal(t, byte(1), env.Signature.V)

	data, err := env.Marshal()
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Nil(t, decoded["vaultAddress"])
	assert.Equal(t, float64(28), decoded["signature"].(map[string]any)["v"])
	assert.Equal(t, "order", decoded["action"].(map[string]any)["type"])
}

func TestFinalize_ExternalSignature(t *testing.T) {
	b, _ := newTestBuilder(t, config.Network_Mainnet)
	key, err := crypto.HexToECDSA(testutil.TestPrivateKey[2:])
	require.NoError(t, err)

	c, err := b.PrepareCancel("SOL", 7)
	require.NoError(t, err)

	sig, err := signer.Sign(c.Digest, key)
	require.NoError(t, err)

	env, err := Finalize(c, sig)
	require.NoError(t, err)
	assert.Equal(t, c.Nonce, env.Nonce)

	verified, err := FinalizeVerified(c, sig, testutil.TestAddress)
	require.NoError(t, err)
	assert.Equal(t, env, verified)

	other, err := crypto.GenerateKey()
	require.NoError(t, err)
	_, err = FinalizeVerified(c, sig, crypto.PubkeyToAddress(other.PublicKey))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrMalformedSignature))

	_, err = Finalize(c, nil)
	assert.True(t, errors.Is(err, types.ErrMalformedSignature))
	_, err = Finalize(nil, sig)
	assert.True(t, errors.Is(err, types.ErrInvalidParameter))
}

func TestPrepareMarketOrder(t *testing.T) {
	b, _ := newTestBuilder(t, config.Network_Mainnet)

	c, err := b.PrepareMarketOrder("ETH", true, 0.1, 2000, 0.05, nil)
	require.NoError(t, err)
	order, ok := c.Action.(*actions.Order)
	require.True(t, ok)
	require.Len(t, order.Orders, 1)
	assert.Equal(t, "2100", order.Orders[0].LimitPx)
	require.NotNil(t, order.Orders[0].OrderType.Limit)
	assert.Equal(t, actions.Tif_Ioc, order.Orders[0].OrderType.Limit.Tif)
}

func TestUnsignedComponents_MarshalJSON(t *testing.T) {
	b, _ := newTestBuilder(t, config.Network_Testnet)
	c, err := b.PrepareOrder(ethBuy(), nil)
	require.NoError(t, err)

	data, err := json.Marshal(c)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "order", decoded["kind"])
	assert.Equal(t, c.Digest.Hex(), decoded["digest"])
	assert.Equal(t, "testnet", decoded["network"])
	assert.Equal(t, float64(1337), decoded["chainId"])
	assert.Nil(t, decoded["vaultAddress"])
	assert.NotNil(t, decoded["typedData"])

	rebuilt, err := TypedDataFor(c)
	require.NoError(t, err)
	d, err := digest.TypedDataDigest(rebuilt)
	require.NoError(t, err)
	assert.Equal(t, c.Digest, d)
}
