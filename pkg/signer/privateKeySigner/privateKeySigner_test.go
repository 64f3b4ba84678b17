package privateKeySigner

import (
	"context"
	"errors"
	"testing"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/signer"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testPrivateKey = "0x0123456789012345678901234567890123456789012345678901234567890123"

func TestNewPrivateKeySigner(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		expectedErr bool
	}{
		{name: "with 0x prefix", key: testPrivateKey},
		{name: "without prefix", key: testPrivateKey[2:]},
		{name: "empty", key: "", expectedErr: true},
		{name: "not hex", key: "zz", expectedErr: true},
		{name: "too short", key: "0x0123", expectedErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewPrivateKeySigner(tt.key, zap.NewNop())
			if tt.expectedErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, types.ErrSigningFailed))
				if tt.key != "" {
					assert.NotContains(t, err.Error(), tt.key)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, common.HexToAddress("0x14791697260e4c9a71f18484c9f997b308e59325"), s.Address())
		})
	}
}

func TestPrivateKeySigner_SignDigest(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s, err := NewPrivateKeySigner(testPrivateKey, zap.New(core))
	require.NoError(t, err)

	var _ signer.ISigner = s

	digest := common.HexToHash("7eceb5584c0292af586bc6509eee4d545e48aaaa2f11ce79bb6b205e5b323144")
	sig, err := s.SignDigest(context.Background(), digest)
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash("18f573bc2cebc801d3d251bdc37d953190572ae8f67f8bd3e353f0e43602ae69"), common.Hash(sig.R))
	assert.Equal(t, byte(1), sig.V)
	require.NoError(t, signer.Verify(digest, sig, s.Address()))

	// nothing that looks like key material reaches the logs
	for _, entry := range logs.All() {
		assert.NotContains(t, entry.Message, testPrivateKey[2:])
		for _, f := range entry.Context {
			assert.NotContains(t, f.String, testPrivateKey[2:])
		}
	}
}

func TestNewPrivateKeySignerFromKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	s, err := NewPrivateKeySignerFromKey(key, nil)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), s.Address())

	_, err = NewPrivateKeySignerFromKey(nil, nil)
	assert.Error(t, err)
}
