package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCloidFromString(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		expectedErr bool
	}{
		{name: "valid", value: "0x00000000000000000000000000000001"},
		{name: "too short", value: "0x0001", expectedErr: true},
		{name: "too long", value: "0x0000000000000000000000000000000001", expectedErr: true},
		{name: "missing prefix", value: "00000000000000000000000000000001", expectedErr: true},
		{name: "not hex", value: "0xzz000000000000000000000000000001", expectedErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCloidFromString(tt.value)
			if tt.expectedErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidParameter))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, c.String())
		})
	}
}

func TestNewCloidFromUint64(t *testing.T) {
	assert.Equal(t, "0x00000000000000000000000000000001", NewCloidFromUint64(1).String())
	assert.Equal(t, "0x0000000000000000ffffffffffffffff", NewCloidFromUint64(^uint64(0)).String())
}

func TestCloid_JSONAndRandom(t *testing.T) {
	a := NewRandomCloid()
	b := NewRandomCloid()
	assert.NotEqual(t, a, b)

	data, err := json.Marshal(a)
	require.NoError(t, err)
	var decoded Cloid
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, a, decoded)
}
