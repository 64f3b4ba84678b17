// Package exchangeClient submits signed envelopes to the venue. It performs no
// retries: a transport failure is reported once and the caller decides.
package exchangeClient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/config"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/envelope"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	exchangePath      = "/exchange"
	maxErrorBodyBytes = 512
)

// ISubmitter delivers a signed envelope and returns the venue's reply.
type ISubmitter interface {
	Submit(ctx context.Context, env *envelope.SignedEnvelope) (*VenueResponse, error)
}

type HttpSubmitterConfig struct {
	BaseUrl           string
	HttpClient        *http.Client
	RequestsPerSecond float64
	Logger            *zap.Logger
}

// HttpSubmitter posts envelopes to /exchange.
type HttpSubmitter struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

var _ ISubmitter = (*HttpSubmitter)(nil)

func NewHttpSubmitter(cfg *HttpSubmitterConfig) (*HttpSubmitter, error) {
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
	return &HttpSubmitter{
		endpoint:   strings.TrimRight(cfg.BaseUrl, "/") + exchangePath,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}, nil
}

func (s *HttpSubmitter) Submit(ctx context.Context, env *envelope.SignedEnvelope) (*VenueResponse, error) {
	if env == nil {
		return nil, types.NewInvalidParameterError("envelope", "", "envelope is required")
	}
	body, err := env.Marshal()
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, types.NewTransportError(s.endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, types.NewTransportError(s.endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, types.NewTransportError(s.endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, types.NewTransportError(s.endpoint, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	var venue VenueResponse
	if err := json.NewDecoder(resp.Body).Decode(&venue); err != nil {
		return nil, types.NewTransportError(s.endpoint, fmt.Errorf("failed to decode response: %w", err))
	}

	s.logger.Sugar().Debugw("Submitted envelope",
		"nonce", env.Nonce,
		"status", venue.Status,
		"duration", time.Since(start),
	)
	return &venue, nil
}
