package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *LoggerConfig
		expected zapcore.Level
	}{
		{name: "nil config", cfg: nil, expected: zapcore.InfoLevel},
		{name: "production", cfg: &LoggerConfig{}, expected: zapcore.InfoLevel},
		{name: "debug", cfg: &LoggerConfig{Debug: true}, expected: zapcore.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(tt.cfg)
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.expected))
			assert.False(t, l.Core().Enabled(tt.expected-1))
		})
	}
}
