package exchangeClient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/envelope"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsPath              = "/ws"
	defaultPingInterval = 50 * time.Second
	writeTimeout        = 10 * time.Second
)

type WsSubmitterConfig struct {
	// Url is the full websocket url, e.g. wss://api.hyperliquid.xyz/ws.
	Url          string
	PingInterval time.Duration
	Dialer       *websocket.Dialer
	Logger       *zap.Logger
}

// WsUrl derives the websocket url from an http(s) base url.
func WsUrl(baseUrl string) string {
	u := strings.TrimRight(baseUrl, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + wsPath
}

type wsPostRequest struct {
	Method  string         `json:"method"`
	Id      uint64         `json:"id"`
	Request *wsPostPayload `json:"request,omitempty"`
}

type wsPostPayload struct {
	Type    string                   `json:"type"`
	Payload *envelope.SignedEnvelope `json:"payload"`
}

type wsMessage struct {
	Channel string          `json:"channel"`
	Data    json.RawMessage `json:"data"`
}

type wsPostResponse struct {
	Id       uint64 `json:"id"`
	Response struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	} `json:"response"`
}

type wsResult struct {
	response *VenueResponse
	err      error
}

// WsSubmitter multiplexes envelope posts over one websocket connection. Replies
// are matched to requests by id, so Submit is safe for concurrent use.
type WsSubmitter struct {
	url    string
	conn   *websocket.Conn
	logger *zap.Logger

	writeMu sync.Mutex
	nextId  atomic.Uint64

	mu      sync.Mutex
	pending map[uint64]chan wsResult
	err     error

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

var _ ISubmitter = (*WsSubmitter)(nil)

func NewWsSubmitter(ctx context.Context, cfg *WsSubmitterConfig) (*WsSubmitter, error) {
	if cfg == nil || cfg.Url == "" {
		return nil, fmt.Errorf("websocket url is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	pingInterval := cfg.PingInterval
	if pingInterval <= 0 {
		pingInterval = defaultPingInterval
	}

	conn, resp, err := dialer.DialContext(ctx, cfg.Url, nil)
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("%w (status %s)", err, resp.Status)
		}
		return nil, types.NewTransportError(cfg.Url, err)
	}

	s := &WsSubmitter{
		url:     cfg.Url,
		conn:    conn,
		logger:  logger,
		pending: make(map[uint64]chan wsResult),
		done:    make(chan struct{}),
	}
	s.wg.Add(2)
	go s.readLoop()
	go s.pingLoop(pingInterval)

	logger.Sugar().Infow("Websocket submitter connected", "url", cfg.Url)
	return s, nil
}

func (s *WsSubmitter) Submit(ctx context.Context, env *envelope.SignedEnvelope) (*VenueResponse, error) {
	if env == nil {
		return nil, types.NewInvalidParameterError("envelope", "", "envelope is required")
	}

	id := s.nextId.Add(1)
	ch := make(chan wsResult, 1)

	s.mu.Lock()
	if s.err != nil {
		err := s.err
		s.mu.Unlock()
		return nil, types.NewTransportError(s.url, err)
	}
	s.pending[id] = ch
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
	}()

	req := &wsPostRequest{
		Method:  "post",
		Id:      id,
		Request: &wsPostPayload{Type: "action", Payload: env},
	}
	if err := s.writeJSON(req); err != nil {
		return nil, types.NewTransportError(s.url, err)
	}

	select {
	case res := <-ch:
		return res.response, res.err
	case <-ctx.Done():
		return nil, types.NewTransportError(s.url, ctx.Err())
	}
}

func (s *WsSubmitter) writeJSON(v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(v)
}

func (s *WsSubmitter) readLoop() {
	defer s.wg.Done()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.fail(err)
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Sugar().Debugw("Ignoring undecodable websocket message", "error", err)
			continue
		}
		switch msg.Channel {
		case "post":
			s.dispatch(msg.Data)
		case "pong", "subscriptionResponse":
		case "error":
			s.logger.Sugar().Warnw("Websocket error message", "data", string(msg.Data))
		default:
			s.logger.Sugar().Debugw("Ignoring websocket message", "channel", msg.Channel)
		}
	}
}

func (s *WsSubmitter) dispatch(data json.RawMessage) {
	var post wsPostResponse
	if err := json.Unmarshal(data, &post); err != nil {
		s.logger.Sugar().Warnw("Failed to decode post response", "error", err)
		return
	}

	s.mu.Lock()
	ch, ok := s.pending[post.Id]
	delete(s.pending, post.Id)
	s.mu.Unlock()
	if !ok {
		s.logger.Sugar().Debugw("Post response for unknown request", "id", post.Id)
		return
	}

	res := wsResult{}
	switch post.Response.Type {
	case "action":
		var venue VenueResponse
		if err := json.Unmarshal(post.Response.Payload, &venue); err != nil {
			res.err = types.NewTransportError(s.url, fmt.Errorf("failed to decode action response: %w", err))
		} else {
			res.response = &venue
		}
	case "error":
		res.err = types.NewTransportError(s.url, fmt.Errorf("post rejected: %s", string(post.Response.Payload)))
	default:
		res.err = types.NewTransportError(s.url, fmt.Errorf("unexpected post response type %q", post.Response.Type))
	}
	ch <- res
}

func (s *WsSubmitter) pingLoop(interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.writeJSON(map[string]string{"method": "ping"}); err != nil {
				s.logger.Sugar().Warnw("Websocket ping failed", "error", err)
				return
			}
		case <-s.done:
			return
		}
	}
}

// fail records the first connection error and fails every in-flight request.
func (s *WsSubmitter) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
	for id, ch := range s.pending {
		ch <- wsResult{err: types.NewTransportError(s.url, err)}
		delete(s.pending, id)
	}
}

func (s *WsSubmitter) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.writeMu.Unlock()
		err = s.conn.Close()
		s.wg.Wait()
	})
	return err
}
