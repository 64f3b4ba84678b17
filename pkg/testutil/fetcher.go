package testutil

import (
	"context"
	"sync"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/assetDirectory"
)

// ScriptedFetcher returns queued results in order, repeating the last one, and
// counts calls.
type ScriptedFetcher struct {
	mu      sync.Mutex
	results []FetchResult
	calls   int
}

type FetchResult struct {
	Metadata *assetDirectory.Metadata
	Err      error
}

func NewScriptedFetcher(results ...FetchResult) *ScriptedFetcher {
	return &ScriptedFetcher{results: results}
}

func (f *ScriptedFetcher) FetchMeta(ctx context.Context) (*assetDirectory.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if len(f.results) == 0 {
		return TestMetadata(), nil
	}
	r := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return r.Metadata, r.Err
}

func (f *ScriptedFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
