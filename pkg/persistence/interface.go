package persistence

// IDirectoryPersistence caches asset directory snapshots so a process can start
// without reaching the venue. The cache is rebuildable: losing it only costs a
// metadata fetch. Implementations must be thread-safe.
type IDirectoryPersistence interface {
	// SaveSnapshot stores the record under its network, replacing any previous one.
	SaveSnapshot(record *SnapshotRecord) error

	// LoadSnapshot returns the stored record for network, or nil if none exists.
	// Errors are reserved for storage failures.
	LoadSnapshot(network string) (*SnapshotRecord, error)

	// DeleteSnapshot is idempotent.
	DeleteSnapshot(network string) error

	// Close is idempotent. Other operations fail after Close.
	Close() error

	// HealthCheck returns nil when the backend is usable.
	HealthCheck() error
}
