package assetDirectory

import (
	"context"
	"fmt"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
)

// Meta is the venue's perpetuals metadata ({"type":"meta"}). An asset's id is its
// position in Universe.
type Meta struct {
	Universe []PerpAssetMeta `json:"universe"`
}

type PerpAssetMeta struct {
	Name         string `json:"name"`
	SzDecimals   uint32 `json:"szDecimals"`
	MaxLeverage  uint32 `json:"maxLeverage"`
	OnlyIsolated bool   `json:"onlyIsolated,omitempty"`
	IsDelisted   bool   `json:"isDelisted,omitempty"`
}

// SpotMeta is the venue's spot metadata ({"type":"spotMeta"}).
type SpotMeta struct {
	Universe []SpotPairMeta `json:"universe"`
	Tokens   []TokenMeta    `json:"tokens"`
}

type SpotPairMeta struct {
	Name        string   `json:"name"`
	Tokens      []uint32 `json:"tokens"`
	Index       uint32   `json:"index"`
	IsCanonical bool     `json:"isCanonical"`
}

type TokenMeta struct {
	Name        string `json:"name"`
	SzDecimals  uint32 `json:"szDecimals"`
	WeiDecimals uint32 `json:"weiDecimals"`
	Index       uint32 `json:"index"`
	TokenID     string `json:"tokenId"`
	IsCanonical bool   `json:"isCanonical"`
}

// Metadata is everything a snapshot is built from.
type Metadata struct {
	Perp Meta
	Spot SpotMeta
}

// IMetaFetcher retrieves current venue metadata. Implementations must honor ctx.
type IMetaFetcher interface {
	FetchMeta(ctx context.Context) (*Metadata, error)
}

// MetaFetcherFunc adapts a function to IMetaFetcher.
type MetaFetcherFunc func(ctx context.Context) (*Metadata, error)

func (f MetaFetcherFunc) FetchMeta(ctx context.Context) (*Metadata, error) {
	return f(ctx)
}

// StaticFetcher always returns the same metadata. Used for fixtures and offline signing.
type StaticFetcher struct {
	metadata *Metadata
}

func NewStaticFetcher(metadata *Metadata) *StaticFetcher {
	return &StaticFetcher{metadata: metadata}
}

func (s *StaticFetcher) FetchMeta(ctx context.Context) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.metadata == nil {
		return nil, fmt.Errorf("static fetcher has no metadata")
	}
	return s.metadata, nil
}

// BuildAssets flattens metadata into addressable assets and spot tokens.
//
// Perps use their universe position as the asset id. A spot pair's id is
// SpotAssetOffset plus its spot index; each pair is addressable by its listed
// name, by "@<index>", and by "BASE/QUOTE". Spot size decimals come from the base token.
func BuildAssets(metadata *Metadata) ([]types.Asset, []types.SpotToken, error) {
	if metadata == nil {
		return nil, nil, fmt.Errorf("metadata is nil")
	}

	assets := make([]types.Asset, 0, len(metadata.Perp.Universe)+3*len(metadata.Spot.Universe))
	for i, m := range metadata.Perp.Universe {
		if m.Name == "" {
			return nil, nil, fmt.Errorf("perp universe entry %d has no name", i)
		}
		assets = append(assets, types.Asset{
			Symbol:      m.Name,
			Index:       uint32(i),
			SzDecimals:  m.SzDecimals,
			MaxLeverage: m.MaxLeverage,
		})
	}

	tokensByIndex := make(map[uint32]TokenMeta, len(metadata.Spot.Tokens))
	tokens := make([]types.SpotToken, 0, len(metadata.Spot.Tokens))
	for _, tm := range metadata.Spot.Tokens {
		tokensByIndex[tm.Index] = tm
		tokens = append(tokens, types.SpotToken{
			Name:        tm.Name,
			TokenID:     tm.TokenID,
			Index:       tm.Index,
			SzDecimals:  tm.SzDecimals,
			WeiDecimals: tm.WeiDecimals,
		})
	}

	for _, pair := range metadata.Spot.Universe {
		if len(pair.Tokens) != 2 {
			return nil, nil, fmt.Errorf("spot pair %q has %d tokens, expected 2", pair.Name, len(pair.Tokens))
		}
		base, ok := tokensByIndex[pair.Tokens[0]]
		if !ok {
			return nil, nil, fmt.Errorf("spot pair %q references unknown base token %d", pair.Name, pair.Tokens[0])
		}
		quote, ok := tokensByIndex[pair.Tokens[1]]
		if !ok {
			return nil, nil, fmt.Errorf("spot pair %q references unknown quote token %d", pair.Name, pair.Tokens[1])
		}

		asset := types.Asset{
			Index:      types.SpotAssetOffset + pair.Index,
			SzDecimals: base.SzDecimals,
			IsSpot:     true,
		}
		for _, symbol := range spotSymbols(pair, base, quote) {
			asset.Symbol = symbol
			assets = append(assets, asset)
		}
	}
	return assets, tokens, nil
}

func spotSymbols(pair SpotPairMeta, base TokenMeta, quote TokenMeta) []string {
	at := fmt.Sprintf("@%d", pair.Index)
	named := fmt.Sprintf("%s/%s", base.Name, quote.Name)

	symbols := []string{}
	seen := map[string]bool{}
	for _, s := range []string{pair.Name, at, named} {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		symbols = append(symbols, s)
	}
	return symbols
}
