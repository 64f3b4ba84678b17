package encoding

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/actions"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
)

func FuzzEncode_OrderDeterministic(f *testing.F) {
	f.Add(uint32(1), true, 2000.0, 0.1, false, uint64(0))
	f.Add(uint32(10000), false, 0.0012345, 100.0, true, uint64(7))
	f.Add(uint32(200), true, 12.5, 3.0, false, uint64(1<<63))

	f.Fuzz(func(t *testing.T, index uint32, isBuy bool, px float64, sz float64, reduceOnly bool, cloidSeed uint64) {
		req := actions.OrderRequest{
			Asset:      types.Asset{Symbol: "FUZZ", Index: index, SzDecimals: 8, IsSpot: true},
			IsBuy:      isBuy,
			LimitPx:    px,
			Size:       sz,
			ReduceOnly: reduceOnly,
			OrderType:  actions.LimitOrder(actions.Tif_Ioc),
		}
		if cloidSeed != 0 {
			c := types.NewCloidFromUint64(cloidSeed)
			req.Cloid = &c
		}
		order, err := actions.NewOrder([]actions.OrderRequest{req}, actions.Grouping_Na, nil)
		if err != nil {
			return
		}

		first, err := EncodeBoth(order)
		if err != nil {
			t.Fatalf("encode failed for valid order: %v", err)
		}
		second, err := EncodeBoth(order)
		if err != nil {
			t.Fatalf("second encode failed: %v", err)
		}
		if !bytes.Equal(first.Canonical, second.Canonical) {
			t.Fatalf("canonical encoding not deterministic")
		}

		var decoded OrderActionWire
		if err := json.Unmarshal(first.Transport, &decoded); err != nil {
			t.Fatalf("transport json does not decode: %v", err)
		}
		reencoded, err := MarshalCanonical(&decoded)
		if err != nil {
			t.Fatalf("re-encode failed: %v", err)
		}
		if !bytes.Equal(first.Canonical, reencoded) {
			t.Fatalf("transport and canonical forms diverged")
		}
	})
}
