package encoding

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/actions"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/config"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	ethAsset = types.Asset{Symbol: "ETH", Index: 1, SzDecimals: 4, MaxLeverage: 25}
	btcAsset = types.Asset{Symbol: "BTC", Index: 0, SzDecimals: 5, MaxLeverage: 50}
	solAsset = types.Asset{Symbol: "SOL", Index: 2, SzDecimals: 2, MaxLeverage: 20}
	testAddr = common.HexToAddress("0x1234567890123456789012345678901234567890")
)

func ethBuyOrder(t *testing.T) *actions.Order {
	t.Helper()
	order, err := actions.NewOrder([]actions.OrderRequest{{
		Asset:     ethAsset,
		IsBuy:     true,
		LimitPx:   2000.0,
		Size:      0.1,
		OrderType: actions.LimitOrder(actions.Tif_Gtc),
	}}, actions.Grouping_Na, nil)
	require.NoError(t, err)
	return order
}

func sampleActions(t *testing.T) map[string]actions.Action {
	t.Helper()
	cloid := types.NewCloidFromUint64(7)
	trigger, err := actions.NewOrder([]actions.OrderRequest{{
		Asset:      btcAsset,
		LimitPx:    60000,
		Size:       0.00123,
		ReduceOnly: true,
		OrderType:  actions.TriggerOrder(59000, true, actions.Tpsl_StopLoss),
		Cloid:      &cloid,
	}}, actions.Grouping_NormalTpsl, &types.BuilderInfo{Builder: testAddr, Fee: 10})
	require.NoError(t, err)

	cancel, err := actions.NewCancel(ethAsset, 100)
	require.NoError(t, err)
	bulk, err := actions.NewBulkCancel([]actions.CancelRequest{{Asset: ethAsset, Oid: 100}, {Asset: solAsset, Oid: 200}})
	require.NoError(t, err)
	byCloid, err := actions.NewCancelByCloid([]actions.CancelByCloidRequest{{Asset: ethAsset, Cloid: types.NewCloidFromUint64(1)}})
	require.NoError(t, err)
	lev, err := actions.NewUpdateLeverage(ethAsset, true, 10)
	require.NoError(t, err)
	vault, err := actions.NewVaultTransfer(testAddr, true, 12.5)
	require.NoError(t, err)
	usd, err := actions.NewUsdTransfer(config.HyperliquidChain_Mainnet, testAddr, 100, 1700000000000)
	require.NoError(t, err)
	withdraw, err := actions.NewWithdraw(config.HyperliquidChain_Testnet, testAddr, 1.5, 1700000000000)
	require.NoError(t, err)
	token := types.SpotToken{Name: "PURR", TokenID: "0xc1fb593aeffbeb02f85e0308e9956a90", WeiDecimals: 5}
	spot, err := actions.NewSpotTransfer(config.HyperliquidChain_Mainnet, testAddr, token, 3.5, 1700000000000)
	require.NoError(t, err)
	abf, err := actions.NewApproveBuilderFee(config.HyperliquidChain_Mainnet, testAddr, "0.001%", 1700000000000)
	require.NoError(t, err)

	return map[string]actions.Action{
		"limit order":         ethBuyOrder(t),
		"trigger order":       trigger,
		"cancel":              cancel,
		"bulk cancel":         bulk,
		"cancel by cloid":     byCloid,
		"update leverage":     lev,
		"vault transfer":      vault,
		"usd transfer":        usd,
		"withdraw":            withdraw,
		"spot transfer":       spot,
		"approve builder fee": abf,
	}
}

func TestEncode_Golden(t *testing.T) {
	all := sampleActions(t)
	tests := []struct {
		name     string
		action   actions.Action
		expected string
	}{
		{
			name:     "limit order",
			action:   all["limit order"],
			expected: "83a474797065a56f72646572a66f72646572739186a16101a162c3a170a432303030a173a3302e31a172c2a17481a56c696d697481a3746966a3477463a867726f7570696e67a26e61",
		},
		{
			name:     "trigger order with cloid and builder",
			action:   all["trigger order"],
			expected: "84a474797065a56f72646572a66f72646572739187a16100a162c2a170a53630303030a173a7302e3030313233a172c3a17481a77472696767657283a869734d61726b6574c3a9747269676765725078a53539303030a47470736ca2736ca163d92230783030303030303030303030303030303030303030303030303030303030303037a867726f7570696e67aa6e6f726d616c5470736ca76275696c64657282a162d92a307831323334353637383930313233343536373839303132333435363738393031323334353637383930a1660a",
		},
		{
			name:     "bulk cancel",
			action:   all["bulk cancel"],
			expected: "82a474797065a663616e63656ca763616e63656c739282a16101a16f6482a16102a16fccc8",
		},
		{
			name:     "update leverage",
			action:   all["update leverage"],
			expected: "84a474797065ae7570646174654c65766572616765a5617373657401a7697343726f7373c3a86c657665726167650a",
		},
		{
			name:     "cancel by cloid",
			action:   all["cancel by cloid"],
			expected: "82a474797065ad63616e63656c4279436c6f6964a763616e63656c739182a5617373657401a5636c6f6964d92230783030303030303030303030303030303030303030303030303030303030303031",
		},
		{
			name:     "vault transfer",
			action:   all["vault transfer"],
			expected: "84a474797065ad7661756c745472616e73666572ac7661756c7441646472657373d92a307831323334353637383930313233343536373839303132333435363738393031323334353637383930a969734465706f736974c3a3757364ce00bebc20",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := Encode(tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, hex.EncodeToString(encoded))
		})
	}
}

func TestTransportJSON(t *testing.T) {
	all := sampleActions(t)

	data, err := TransportJSON(all["limit order"])
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"order","orders":[{"a":1,"b":true,"p":"2000","s":"0.1","r":false,"t":{"limit":{"tif":"Gtc"}}}],"grouping":"na"}`,
		string(data))

	data, err = TransportJSON(all["usd transfer"])
	require.NoError(t, err)
	assert.Equal(t,
		`{"type":"usdSend","signatureChainId":"0x66eee","hyperliquidChain":"Mainnet","destination":"0x1234567890123456789012345678901234567890","amount":"100","time":1700000000000}`,
		string(data))

	data, err = TransportJSON(all["cancel"])
	require.NoError(t, err)
	assert.Equal(t, `{"type":"cancel","cancels":[{"a":1,"o":100}]}`, string(data))
}

func TestEncode_CancelMatchesSingleEntryBulkCancel(t *testing.T) {
	single, err := actions.NewCancel(ethAsset, 100)
	require.NoError(t, err)
	bulk, err := actions.NewBulkCancel([]actions.CancelRequest{{Asset: ethAsset, Oid: 100}})
	require.NoError(t, err)

	a, err := Encode(single)
	require.NoError(t, err)
	b, err := Encode(bulk)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncode_Deterministic(t *testing.T) {
	for name, action := range sampleActions(t) {
		t.Run(name, func(t *testing.T) {
			first, err := Encode(action)
			require.NoError(t, err)
			for i := 0; i < 10; i++ {
				again, err := Encode(action)
				require.NoError(t, err)
				require.Equal(t, first, again)
			}
		})
	}
}

// Decoding the transport JSON back into its wire struct and re-encoding with
// msgpack must reproduce the canonical bytes.
func TestEncodeBoth_Lockstep(t *testing.T) {
	for name, action := range sampleActions(t) {
		t.Run(name, func(t *testing.T) {
			encoded, err := EncodeBoth(action)
			require.NoError(t, err)

			wire, err := ToWire(action)
			require.NoError(t, err)
			decoded := reflect.New(reflect.TypeOf(wire).Elem()).Interface()
			require.NoError(t, json.Unmarshal(encoded.Transport, decoded))

			reencoded, err := MarshalCanonical(decoded)
			require.NoError(t, err)
			assert.Equal(t, encoded.Canonical, reencoded)
		})
	}
}

func TestEncode_MsgpackDecodesToSameFields(t *testing.T) {
	encoded, err := Encode(ethBuyOrder(t))
	require.NoError(t, err)

	var decoded OrderActionWire
	require.NoError(t, msgpack.Unmarshal(encoded, &decoded))
	assert.Equal(t, "order", decoded.Type)
	require.Len(t, decoded.Orders, 1)
	assert.Equal(t, "2000", decoded.Orders[0].LimitPx)
	assert.Nil(t, decoded.Orders[0].Cloid)
	assert.Nil(t, decoded.Builder)
}

func TestToWire_Nil(t *testing.T) {
	_, err := ToWire(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidParameter))
}
