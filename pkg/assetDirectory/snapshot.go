package assetDirectory

import (
	"strings"
	"time"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/persistence"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
)

// Snapshot is an immutable, versioned view of the venue's tradable assets. It is
// safe to share between goroutines; nothing mutates it after NewSnapshot.
type Snapshot struct {
	version   uint64
	fetchedAt time.Time

	assets []types.Asset
	tokens []types.SpotToken

	bySymbol    map[string]types.Asset
	tokenByName map[string]types.SpotToken
}

// NewSnapshot indexes assets by symbol and tokens by name and by NAME:tokenId.
// When a symbol appears twice the first entry wins.
func NewSnapshot(version uint64, fetchedAt time.Time, assets []types.Asset, tokens []types.SpotToken) *Snapshot {
	s := &Snapshot{
		version:     version,
		fetchedAt:   fetchedAt,
		assets:      append([]types.Asset(nil), assets...),
		tokens:      append([]types.SpotToken(nil), tokens...),
		bySymbol:    make(map[string]types.Asset, len(assets)),
		tokenByName: make(map[string]types.SpotToken, 2*len(tokens)),
	}
	for _, a := range s.assets {
		if _, exists := s.bySymbol[a.Symbol]; !exists {
			s.bySymbol[a.Symbol] = a
		}
	}
	for _, t := range s.tokens {
		if _, exists := s.tokenByName[t.Name]; !exists {
			s.tokenByName[t.Name] = t
		}
		s.tokenByName[strings.ToLower(t.Wire())] = t
	}
	return s
}

// NewSnapshotFromMetadata builds a snapshot straight from fetched metadata.
func NewSnapshotFromMetadata(version uint64, fetchedAt time.Time, metadata *Metadata) (*Snapshot, error) {
	assets, tokens, err := BuildAssets(metadata)
	if err != nil {
		return nil, types.NewMetadataUnavailableError("invalid metadata", err)
	}
	return NewSnapshot(version, fetchedAt, assets, tokens), nil
}

func NewSnapshotFromRecord(record *persistence.SnapshotRecord) *Snapshot {
	return NewSnapshot(record.Version, time.UnixMilli(record.FetchedAt), record.Assets, record.Tokens)
}

func (s *Snapshot) Version() uint64 {
	return s.version
}

func (s *Snapshot) FetchedAt() time.Time {
	return s.fetchedAt
}

// Lookup resolves a symbol exactly as listed ("BTC", "PURR/USDC", "@107").
func (s *Snapshot) Lookup(symbol string) (types.Asset, error) {
	a, ok := s.bySymbol[symbol]
	if !ok {
		return types.Asset{}, types.NewUnknownAssetError(symbol)
	}
	return a, nil
}

// Token resolves a spot token by name ("PURR") or by its wire form ("PURR:0xc1fb...").
func (s *Snapshot) Token(name string) (types.SpotToken, error) {
	if t, ok := s.tokenByName[name]; ok {
		return t, nil
	}
	if t, ok := s.tokenByName[strings.ToLower(name)]; ok && strings.Contains(name, ":") {
		return t, nil
	}
	return types.SpotToken{}, types.NewUnknownAssetError(name)
}

// Assets returns a copy of every addressable entry, aliases included.
func (s *Snapshot) Assets() []types.Asset {
	return append([]types.Asset(nil), s.assets...)
}

func (s *Snapshot) Tokens() []types.SpotToken {
	return append([]types.SpotToken(nil), s.tokens...)
}

func (s *Snapshot) Record(network string) *persistence.SnapshotRecord {
	return &persistence.SnapshotRecord{
		Network:   network,
		Version:   s.version,
		FetchedAt: s.fetchedAt.UnixMilli(),
		Assets:    s.Assets(),
		Tokens:    s.Tokens(),
	}
}
