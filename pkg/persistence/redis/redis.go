package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/persistence"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefixSnapshot    = "hl:snapshot:"
	keySchemaVersion     = "hl:metadata:schema_version"
	currentSchemaVersion = "v1"

	operationTimeout = 5 * time.Second
)

// RedisPersistence shares snapshots between processes signing for the same venue.
type RedisPersistence struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
	ttl       time.Duration
	mu        sync.RWMutex
	closed    bool
}

type RedisConfig struct {
	// Address is host:port.
	Address  string
	Password string
	// DB is the database number (0-15).
	DB int
	// KeyPrefix is prepended to every key, e.g. "desk1:" gives "desk1:hl:snapshot:mainnet".
	KeyPrefix string
	// TTL expires stored snapshots; zero keeps them until overwritten.
	TTL time.Duration
}

func NewRedisPersistence(cfg *RedisConfig, logger *zap.Logger) (*RedisPersistence, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "failed to connect to Redis at %s", cfg.Address)
	}

	rp := &RedisPersistence{
		client:    client,
		logger:    logger,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.TTL,
	}
	if err := rp.initSchema(ctx); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "failed to initialize schema")
	}

	logger.Sugar().Infow("Redis snapshot persistence initialized",
		"address", cfg.Address,
		"db", cfg.DB,
		"keyPrefix", cfg.KeyPrefix,
	)
	return rp, nil
}

func (r *RedisPersistence) prefixKey(key string) string {
	return r.keyPrefix + key
}

func (r *RedisPersistence) initSchema(ctx context.Context) error {
	schemaKey := r.prefixKey(keySchemaVersion)

	existing, err := r.client.Get(ctx, schemaKey).Result()
	if errors.Is(err, redis.Nil) {
		return r.client.Set(ctx, schemaKey, currentSchemaVersion, 0).Err()
	}
	if err != nil {
		return errors.Wrap(err, "failed to read schema version")
	}
	if existing != currentSchemaVersion {
		return fmt.Errorf("unsupported schema version: %s (expected: %s)", existing, currentSchemaVersion)
	}
	return nil
}

func (r *RedisPersistence) SaveSnapshot(record *persistence.SnapshotRecord) error {
	data, err := persistence.MarshalSnapshotRecord(record)
	if err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return persistence.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	key := r.prefixKey(keyPrefixSnapshot + record.Network)
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return errors.Wrapf(err, "failed to save snapshot for %s", record.Network)
	}
	return nil
}

func (r *RedisPersistence) LoadSnapshot(network string) (*persistence.SnapshotRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, persistence.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.prefixKey(keyPrefixSnapshot+network)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load snapshot for %s", network)
	}
	return persistence.UnmarshalSnapshotRecord(data)
}

func (r *RedisPersistence) DeleteSnapshot(network string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return persistence.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	if err := r.client.Del(ctx, r.prefixKey(keyPrefixSnapshot+network)).Err(); err != nil {
		return errors.Wrapf(err, "failed to delete snapshot for %s", network)
	}
	return nil
}

func (r *RedisPersistence) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	if err := r.client.Close(); err != nil {
		return errors.Wrap(err, "failed to close Redis client")
	}
	r.logger.Sugar().Info("Redis snapshot persistence closed")
	return nil
}

func (r *RedisPersistence) HealthCheck() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return persistence.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "redis health check failed")
	}
	_, err := r.client.Get(ctx, r.prefixKey(keySchemaVersion)).Result()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("schema version not found, database may not be initialized")
	}
	if err != nil {
		return errors.Wrap(err, "failed to verify schema version")
	}
	return nil
}
