package persistence

import (
	"fmt"
	"time"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
)

// SnapshotRecord is the stored form of an asset directory snapshot.
type SnapshotRecord struct {
	Network string `json:"network"`

	// Version is the directory's monotonically increasing snapshot version.
	Version uint64 `json:"version"`

	// FetchedAt is the unix millisecond timestamp of the metadata fetch.
	FetchedAt int64 `json:"fetchedAt"`

	Assets []types.Asset     `json:"assets"`
	Tokens []types.SpotToken `json:"tokens"`
}

func (r *SnapshotRecord) Validate() error {
	if r == nil {
		return fmt.Errorf("snapshot record is nil")
	}
	if r.Network == "" {
		return fmt.Errorf("snapshot record network is required")
	}
	return nil
}

// IsStale reports whether the record is older than maxAge. A nil record is stale.
func (r *SnapshotRecord) IsStale(maxAge time.Duration) bool {
	if r == nil {
		return true
	}
	return time.Since(time.UnixMilli(r.FetchedAt)) > maxAge
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (r *SnapshotRecord) Clone() *SnapshotRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.Assets = append([]types.Asset(nil), r.Assets...)
	out.Tokens = append([]types.SpotToken(nil), r.Tokens...)
	return &out
}
