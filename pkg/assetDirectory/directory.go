// Package assetDirectory maps venue symbols to asset ids and decimal rules.
//
// A Directory holds one immutable Snapshot at a time behind an atomic pointer.
// Readers never block: a lookup sees either the old or the new snapshot, never a
// mix. Refresh builds a complete replacement before swapping it in.
package assetDirectory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/config"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/persistence"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
	"go.uber.org/zap"
)

type DirectoryConfig struct {
	Network config.Network
	Fetcher IMetaFetcher

	// Persistence is optional. When set, every refreshed snapshot is saved and
	// Load tries it before the network.
	Persistence persistence.IDirectoryPersistence

	// MaxSnapshotAge bounds how old a persisted snapshot may be for Load to use it.
	// Zero accepts any age.
	MaxSnapshotAge time.Duration

	Logger *zap.Logger
}

type Directory struct {
	network     config.Network
	fetcher     IMetaFetcher
	persistence persistence.IDirectoryPersistence
	maxAge      time.Duration
	logger      *zap.Logger
	now         func() time.Time

	current atomic.Pointer[Snapshot]

	// serializes writers so versions only increase
	refreshMu sync.Mutex
}

func NewDirectory(cfg *DirectoryConfig) (*Directory, error) {
	if cfg == nil {
		return nil, types.NewInvalidParameterError("config", "", "directory config is required")
	}
	if _, err := config.GetNetworkParams(cfg.Network); err != nil {
		return nil, types.NewInvalidParameterError("network", cfg.Network.String(), err.Error())
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{
		network:     cfg.Network,
		fetcher:     cfg.Fetcher,
		persistence: cfg.Persistence,
		maxAge:      cfg.MaxSnapshotAge,
		logger:      logger,
		now:         time.Now,
	}, nil
}

// NewStaticDirectory builds a directory already holding a snapshot of metadata,
// for offline signing and fixtures.
func NewStaticDirectory(network config.Network, metadata *Metadata, logger *zap.Logger) (*Directory, error) {
	d, err := NewDirectory(&DirectoryConfig{
		Network: network,
		Fetcher: NewStaticFetcher(metadata),
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	if _, err := d.Refresh(context.Background()); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Directory) Network() config.Network {
	return d.network
}

// Current returns the installed snapshot, or nil before the first Install/Refresh/Load.
func (d *Directory) Current() *Snapshot {
	return d.current.Load()
}

func (d *Directory) snapshot() (*Snapshot, error) {
	s := d.current.Load()
	if s == nil {
		return nil, types.NewMetadataUnavailableError("asset directory has not been loaded", nil)
	}
	return s, nil
}

func (d *Directory) Lookup(symbol string) (types.Asset, error) {
	s, err := d.snapshot()
	if err != nil {
		return types.Asset{}, err
	}
	return s.Lookup(symbol)
}

func (d *Directory) Token(name string) (types.SpotToken, error) {
	s, err := d.snapshot()
	if err != nil {
		return types.SpotToken{}, err
	}
	return s.Token(name)
}

// Install swaps in s. A snapshot whose version is not newer than the current one
// is rejected.
func (d *Directory) Install(s *Snapshot) error {
	if s == nil {
		return types.NewInvalidParameterError("snapshot", "", "snapshot is required")
	}
	d.refreshMu.Lock()
	defer d.refreshMu.Unlock()
	return d.installLocked(s)
}

func (d *Directory) installLocked(s *Snapshot) error {
	if cur := d.current.Load(); cur != nil && s.Version() <= cur.Version() {
		return types.NewInvalidParameterError("snapshot.version", fmt.Sprintf("%d", s.Version()),
			fmt.Sprintf("must be newer than installed version %d", cur.Version()))
	}
	d.current.Store(s)
	d.logger.Sugar().Debugw("Installed asset directory snapshot",
		"network", d.network.String(),
		"version", s.Version(),
		"assets", len(s.assets),
		"tokens", len(s.tokens),
	)
	return nil
}

func (d *Directory) nextVersion() uint64 {
	if cur := d.current.Load(); cur != nil {
		return cur.Version() + 1
	}
	return 1
}

// Refresh fetches metadata, installs a new snapshot with the next version and
// persists it when a backend is configured. On failure the previous snapshot stays
// installed. A persistence failure is logged, not returned, since the cache is
// rebuildable.
func (d *Directory) Refresh(ctx context.Context) (*Snapshot, error) {
	if d.fetcher == nil {
		return nil, types.NewMetadataUnavailableError("no metadata fetcher configured", nil)
	}
	metadata, err := d.fetcher.FetchMeta(ctx)
	if err != nil {
		return nil, types.NewMetadataUnavailableError("failed to fetch metadata", err)
	}

	d.refreshMu.Lock()
	defer d.refreshMu.Unlock()

	s, err := NewSnapshotFromMetadata(d.nextVersion(), d.now(), metadata)
	if err != nil {
		return nil, err
	}
	if err := d.installLocked(s); err != nil {
		return nil, err
	}

	if d.persistence != nil {
		if err := d.persistence.SaveSnapshot(s.Record(d.network.String())); err != nil {
			d.logger.Sugar().Warnw("Failed to persist asset directory snapshot",
				"network", d.network.String(),
				"version", s.Version(),
				"error", err,
			)
		}
	}
	return s, nil
}

// Load restores the persisted snapshot when one exists and is fresh enough,
// otherwise it refreshes from the network.
func (d *Directory) Load(ctx context.Context) (*Snapshot, error) {
	if d.persistence != nil {
		record, err := d.persistence.LoadSnapshot(d.network.String())
		switch {
		case err != nil:
			d.logger.Sugar().Warnw("Failed to load persisted snapshot, fetching instead", "error", err)
		case record == nil:
			d.logger.Sugar().Debugw("No persisted snapshot found", "network", d.network.String())
		case d.maxAge > 0 && record.IsStale(d.maxAge):
			d.logger.Sugar().Infow("Persisted snapshot is stale, fetching instead",
				"network", d.network.String(),
				"fetchedAt", time.UnixMilli(record.FetchedAt),
			)
		default:
			s := NewSnapshotFromRecord(record)
			if err := d.Install(s); err == nil {
				d.logger.Sugar().Infow("Restored asset directory snapshot",
					"network", d.network.String(),
					"version", s.Version(),
				)
				return s, nil
			}
			d.logger.Sugar().Debugw("Persisted snapshot is older than the installed one, fetching instead")
		}
	}
	return d.Refresh(ctx)
}

// RunRefreshLoop refreshes every interval until ctx is done. Failures are logged
// and the previous snapshot stays in place. A non-positive interval is rejected
// without starting the loop.
func (d *Directory) RunRefreshLoop(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return types.NewInvalidParameterError("interval", interval.String(), "must be positive")
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := d.Refresh(ctx); err != nil {
				d.logger.Sugar().Warnw("Asset directory refresh failed", "error", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}
