package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Layr-Labs/hl-txsigner-go/internal/aws"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/assetDirectory"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/clients/exchangeClient"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/clients/infoClient"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/config"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/logger"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/nonce"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/persistence"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/persistence/badger"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/persistence/memory"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/persistence/redis"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/signer"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/signer/privateKeySigner"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/txBuilder"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// maxSnapshotAge bounds how stale cached metadata may be before the CLI refetches it.
const maxSnapshotAge = time.Hour

func newLogger(c *cli.Context) (*zap.Logger, error) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("verbose")})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return l, nil
}

// clientConfigFromFlags reads the global flags into a validated ClientConfig.
func clientConfigFromFlags(c *cli.Context) (*config.ClientConfig, error) {
	network, err := config.ParseNetwork(c.String("network"))
	if err != nil {
		return nil, err
	}
	cfg := &config.ClientConfig{
		Network:        network,
		BaseUrl:        c.String("base-url"),
		VaultAddress:   c.String("vault-address"),
		ExpiresAfterMs: c.Uint64("expires-after-ms"),
		Debug:          c.Bool("verbose"),
	}
	if t := c.String("persistence-type"); t != "" {
		cfg.Persistence = &config.PersistenceConfig{
			Type:         config.PersistenceType(t),
			DataPath:     c.String("persistence-path"),
			RedisAddress: c.String("redis-address"),
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newPersistence(cfg *config.PersistenceConfig, l *zap.Logger) (persistence.IDirectoryPersistence, error) {
	if cfg == nil {
		return nil, nil
	}
	switch cfg.Type {
	case config.PersistenceType_None:
		return nil, nil
	case config.PersistenceType_Memory:
		return memory.NewMemoryPersistence(l), nil
	case config.PersistenceType_Badger:
		return badger.NewBadgerPersistence(cfg.DataPath, l)
	case config.PersistenceType_Redis:
		return redis.NewRedisPersistence(&redis.RedisConfig{
			Address:   cfg.RedisAddress,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.KeyPrefix,
		}, l)
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s", cfg.Type)
	}
}

// session bundles what the action commands share. close releases the cache.
type session struct {
	cfg       *config.ClientConfig
	logger    *zap.Logger
	directory *assetDirectory.Directory
	builder   *txBuilder.UnsignedTransactionBuilder
	store     persistence.IDirectoryPersistence
}

func (s *session) close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Sugar().Warnw("Failed to close metadata cache", "error", err)
		}
	}
	_ = s.logger.Sync()
}

func newSession(c *cli.Context) (*session, error) {
	cfg, err := clientConfigFromFlags(c)
	if err != nil {
		return nil, err
	}
	l, err := newLogger(c)
	if err != nil {
		return nil, err
	}

	fetcher, err := infoClient.NewClient(&infoClient.ClientConfig{
		BaseUrl:           cfg.BaseUrl,
		HttpClient:        &http.Client{Timeout: cfg.RequestTimeout},
		RequestsPerSecond: cfg.RequestsPerSecond,
		Logger:            l,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create info client: %w", err)
	}

	store, err := newPersistence(cfg.Persistence, l)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata cache: %w", err)
	}
	s := &session{cfg: cfg, logger: l, store: store}

	s.directory, err = assetDirectory.NewDirectory(&assetDirectory.DirectoryConfig{
		Network:        cfg.Network,
		Fetcher:        fetcher,
		Persistence:    store,
		MaxSnapshotAge: maxSnapshotAge,
		Logger:         l,
	})
	if err != nil {
		s.close()
		return nil, err
	}
	if _, err := s.directory.Load(c.Context); err != nil {
		s.close()
		return nil, err
	}

	s.builder, err = txBuilder.NewUnsignedTransactionBuilder(&txBuilder.BuilderConfig{
		Directory:    s.directory,
		NonceSource:  nonce.NewSource(l),
		Network:      cfg.Network,
		VaultAddress: cfg.GetVaultAddress(),
		ExpiresAfter: time.Duration(cfg.ExpiresAfterMs) * time.Millisecond,
		Logger:       l,
	})
	if err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

// newSigner prefers a KMS key when one is configured. Key material only ever
// flows from the flag into the signer.
func newSigner(c *cli.Context, l *zap.Logger) (signer.ISigner, error) {
	sc := &config.SignerConfig{
		Type:       config.SignerType_PrivateKey,
		PrivateKey: c.String("private-key"),
		KMSKeyId:   c.String("kms-key-id"),
		AWSRegion:  c.String("aws-region"),
	}
	if sc.KMSKeyId != "" {
		sc.Type = config.SignerType_AWSKMS
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid signer configuration: %w", err)
	}

	switch sc.Type {
	case config.SignerType_AWSKMS:
		return aws.NewKMSSigner(c.Context, sc.KMSKeyId, sc.AWSRegion, l)
	default:
		return privateKeySigner.NewPrivateKeySigner(sc.PrivateKey, l)
	}
}

func newSubmitter(ctx context.Context, channel string, cfg *config.ClientConfig, l *zap.Logger) (exchangeClient.ISubmitter, func(), error) {
	switch channel {
	case "", "http":
		s, err := exchangeClient.NewHttpSubmitter(&exchangeClient.HttpSubmitterConfig{
			BaseUrl:           cfg.BaseUrl,
			HttpClient:        &http.Client{Timeout: cfg.RequestTimeout},
			RequestsPerSecond: cfg.RequestsPerSecond,
			Logger:            l,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case "ws":
		s, err := exchangeClient.NewWsSubmitter(ctx, &exchangeClient.WsSubmitterConfig{
			Url:    exchangeClient.WsUrl(cfg.BaseUrl),
			Logger: l,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported submission channel %q, expected http or ws", channel)
	}
}
