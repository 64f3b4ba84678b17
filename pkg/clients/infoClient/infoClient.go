// Package infoClient reads venue metadata from the /info endpoint. It is the
// network collaborator behind assetDirectory.Refresh.
package infoClient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/assetDirectory"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/config"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	infoPath = "/info"

	requestTypeMeta     = "meta"
	requestTypeSpotMeta = "spotMeta"

	maxErrorBodyBytes = 512
)

type ClientConfig struct {
	BaseUrl string

	// HttpClient defaults to a client with config.DefaultRequestTimeout.
	HttpClient *http.Client

	// RequestsPerSecond defaults to config.DefaultRequestsPerSecond.
	RequestsPerSecond float64

	Logger *zap.Logger
}

type Client struct {
	baseUrl    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

var _ assetDirectory.IMetaFetcher = (*Client)(nil)

func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.BaseUrl == "" {
		return nil, fmt.Errorf("base url is required")
	}
	httpClient := cfg.HttpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.DefaultRequestTimeout}
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = config.DefaultRequestsPerSecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseUrl:    strings.TrimRight(cfg.BaseUrl, "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}, nil
}

// NewClientForNetwork targets the network's public API.
func NewClientForNetwork(network config.Network, logger *zap.Logger) (*Client, error) {
	params, err := config.GetNetworkParams(network)
	if err != nil {
		return nil, err
	}
	return NewClient(&ClientConfig{BaseUrl: params.BaseUrl, Logger: logger})
}

// FetchMeta reads perp and spot metadata. Both must succeed.
func (c *Client) FetchMeta(ctx context.Context) (*assetDirectory.Metadata, error) {
	perp, err := c.Meta(ctx)
	if err != nil {
		return nil, err
	}
	spot, err := c.SpotMeta(ctx)
	if err != nil {
		return nil, err
	}
	c.logger.Sugar().Debugw("Fetched venue metadata",
		"perps", len(perp.Universe),
		"spotPairs", len(spot.Universe),
		"spotTokens", len(spot.Tokens),
	)
	return &assetDirectory.Metadata{Perp: *perp, Spot: *spot}, nil
}

func (c *Client) Meta(ctx context.Context) (*assetDirectory.Meta, error) {
	var meta assetDirectory.Meta
	if err := c.post(ctx, map[string]string{"type": requestTypeMeta}, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (c *Client) SpotMeta(ctx context.Context) (*assetDirectory.SpotMeta, error) {
	var meta assetDirectory.SpotMeta
	if err := c.post(ctx, map[string]string{"type": requestTypeSpotMeta}, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (c *Client) post(ctx context.Context, request any, out any) error {
	endpoint := c.baseUrl + infoPath

	if err := c.limiter.Wait(ctx); err != nil {
		return types.NewTransportError(endpoint, err)
	}

	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal info request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return types.NewTransportError(endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.NewTransportError(endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Sugar().Debugw("Info request completed",
		"request", string(body),
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return types.NewTransportError(endpoint, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return types.NewTransportError(endpoint, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}
