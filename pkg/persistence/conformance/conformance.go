// Package conformance holds the behavior every IDirectoryPersistence backend
// must share, run from each backend's own tests.
package conformance

import (
	"sync"
	"testing"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/persistence"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty backend. Run closes it.
type Factory func(t *testing.T) persistence.IDirectoryPersistence

func Record(network string, version uint64) *persistence.SnapshotRecord {
	return &persistence.SnapshotRecord{
		Network:   network,
		Version:   version,
		FetchedAt: 1700000000000 + int64(version),
		Assets: []types.Asset{
			{Symbol: "BTC", Index: 0, SzDecimals: 5, MaxLeverage: 50},
			{Symbol: "ETH", Index: 1, SzDecimals: 4, MaxLeverage: 50},
			{Symbol: "PURR/USDC", Index: 10000, SzDecimals: 0, IsSpot: true},
		},
		Tokens: []types.SpotToken{
			{Name: "USDC", TokenID: "0x6d1e7cde53ba9467b783cb7c530ce054", Index: 0, SzDecimals: 8, WeiDecimals: 8},
			{Name: "PURR", TokenID: "0xc1fb593aeffbeb02f85e0308e9956a90", Index: 1, SzDecimals: 0, WeiDecimals: 5},
		},
	}
}

func Run(t *testing.T, newBackend Factory) {
	t.Run("load empty returns nil", func(t *testing.T) {
		p := newBackend(t)
		defer func() { _ = p.Close() }()

		record, err := p.LoadSnapshot("mainnet")
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("save and load", func(t *testing.T) {
		p := newBackend(t)
		defer func() { _ = p.Close() }()

		original := Record("mainnet", 1)
		require.NoError(t, p.SaveSnapshot(original))

		loaded, err := p.LoadSnapshot("mainnet")
		require.NoError(t, err)
		assert.Equal(t, original, loaded)

		// returned records are independent of the stored one
		loaded.Assets[0].Symbol = "XYZ"
		again, err := p.LoadSnapshot("mainnet")
		require.NoError(t, err)
		assert.Equal(t, "BTC", again.Assets[0].Symbol)
	})

	t.Run("networks are isolated", func(t *testing.T) {
		p := newBackend(t)
		defer func() { _ = p.Close() }()

		require.NoError(t, p.SaveSnapshot(Record("mainnet", 4)))
		require.NoError(t, p.SaveSnapshot(Record("testnet", 9)))

		main, err := p.LoadSnapshot("mainnet")
		require.NoError(t, err)
		test, err := p.LoadSnapshot("testnet")
		require.NoError(t, err)
		assert.Equal(t, uint64(4), main.Version)
		assert.Equal(t, uint64(9), test.Version)
	})

	t.Run("save overwrites", func(t *testing.T) {
		p := newBackend(t)
		defer func() { _ = p.Close() }()

		require.NoError(t, p.SaveSnapshot(Record("mainnet", 1)))
		require.NoError(t, p.SaveSnapshot(Record("mainnet", 2)))

		loaded, err := p.LoadSnapshot("mainnet")
		require.NoError(t, err)
		assert.Equal(t, uint64(2), loaded.Version)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		p := newBackend(t)
		defer func() { _ = p.Close() }()

		require.NoError(t, p.SaveSnapshot(Record("mainnet", 1)))
		require.NoError(t, p.DeleteSnapshot("mainnet"))
		require.NoError(t, p.DeleteSnapshot("mainnet"))

		loaded, err := p.LoadSnapshot("mainnet")
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("invalid records are rejected", func(t *testing.T) {
		p := newBackend(t)
		defer func() { _ = p.Close() }()

		assert.Error(t, p.SaveSnapshot(nil))
		assert.Error(t, p.SaveSnapshot(&persistence.SnapshotRecord{Version: 1}))
	})

	t.Run("concurrent access", func(t *testing.T) {
		p := newBackend(t)
		defer func() { _ = p.Close() }()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(v uint64) {
				defer wg.Done()
				assert.NoError(t, p.SaveSnapshot(Record("mainnet", v)))
				_, err := p.LoadSnapshot("mainnet")
				assert.NoError(t, err)
			}(uint64(i + 1))
		}
		wg.Wait()

		loaded, err := p.LoadSnapshot("mainnet")
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.GreaterOrEqual(t, loaded.Version, uint64(1))
	})

	t.Run("closed backend", func(t *testing.T) {
		p := newBackend(t)
		require.NoError(t, p.HealthCheck())
		require.NoError(t, p.Close())
		require.NoError(t, p.Close())

		assert.Error(t, p.HealthCheck())
		assert.Error(t, p.SaveSnapshot(Record("mainnet", 1)))
		_, err := p.LoadSnapshot("mainnet")
		assert.Error(t, err)
		assert.Error(t, p.DeleteSnapshot("mainnet"))
	})
}
