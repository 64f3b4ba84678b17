package memory

import (
	"sync"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/persistence"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// MemoryPersistence keeps snapshots in process memory. Nothing survives a restart,
// so it only saves a fetch when the same process reloads its directory.
// Records are deep copied on the way in and out.
type MemoryPersistence struct {
	mu        sync.RWMutex
	snapshots map[string]*persistence.SnapshotRecord
	closed    bool
}

func NewMemoryPersistence(logger *zap.Logger) *MemoryPersistence {
	if logger != nil {
		logger.Sugar().Warnw("Using in-memory snapshot persistence, cached metadata will be lost on restart")
	}
	return &MemoryPersistence{
		snapshots: make(map[string]*persistence.SnapshotRecord),
	}
}

func (m *MemoryPersistence) SaveSnapshot(record *persistence.SnapshotRecord) error {
	if err := record.Validate(); err != nil {
		return errors.Wrap(err, "cannot save snapshot")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrClosed
	}
	m.snapshots[record.Network] = record.Clone()
	return nil
}

func (m *MemoryPersistence) LoadSnapshot(network string) (*persistence.SnapshotRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrClosed
	}
	record, ok := m.snapshots[network]
	if !ok {
		return nil, nil
	}
	return record.Clone(), nil
}

func (m *MemoryPersistence) DeleteSnapshot(network string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrClosed
	}
	delete(m.snapshots, network)
	return nil
}

func (m *MemoryPersistence) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.snapshots = nil
	return nil
}

func (m *MemoryPersistence) HealthCheck() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return persistence.ErrClosed
	}
	return nil
}
