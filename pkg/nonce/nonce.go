// Package nonce issues strictly increasing, clock-derived nonces.
package nonce

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// maxDrift is how far ahead of the clock issued nonces may run before a warning is logged.
const maxDrift = time.Second

// INonceSource is what the transaction builder consumes.
type INonceSource interface {
	Next() uint64
}

type Source struct {
	mu         sync.Mutex
	last       uint64
	now        func() time.Time
	resolution time.Duration
	logger     *zap.Logger
}

type Option func(*Source)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Source) {
		s.now = now
	}
}

// WithResolution sets the unit of a nonce. The venue expects milliseconds, the default.
func WithResolution(resolution time.Duration) Option {
	return func(s *Source) {
		if resolution > 0 {
			s.resolution = resolution
		}
	}
}

func NewSource(logger *zap.Logger, opts ...Option) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Source{
		now:        time.Now,
		resolution: time.Millisecond,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) clock() uint64 {
	return uint64(s.now().UnixNano() / int64(s.resolution))
}

// Next returns max(now, last+1). It never fails and never blocks beyond the lock.
func (s *Source) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	next := now
	if next <= s.last {
		next = s.last + 1
	}
	s.last = next

	if drift := time.Duration(next-now) * s.resolution; next > now && drift > maxDrift {
		s.logger.Sugar().Warnw("Nonce is running ahead of the clock",
			"nonce", next,
			"clock", now,
			"drift", drift,
		)
	}
	return next
}

// Observe records a nonce used outside this source so later values stay above it.
func (s *Source) Observe(n uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > s.last {
		s.last = n
	}
}

// Resolution is the duration of one nonce unit.
func (s *Source) Resolution() time.Duration {
	return s.resolution
}

// Last returns the most recently issued or observed nonce.
func (s *Source) Last() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
