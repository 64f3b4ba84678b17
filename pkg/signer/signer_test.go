package signer

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrivateKey = "0123456789012345678901234567890123456789012345678901234567890123"

var testAddress = common.HexToAddress("0x14791697260e4c9a71f18484c9f997b308e59325")

func TestSign_Golden(t *testing.T) {
	key, err := crypto.HexToECDSA(testPrivateKey)
	require.NoError(t, err)
	require.Equal(t, testAddress, crypto.PubkeyToAddress(key.PublicKey))

	tests := []struct {
		name      string
		digest    string
		expectedR string
		expectedS string
		expectedV byte
	}{
		{
			name:      "eth order mainnet",
			digest:    "7eceb5584c0292af586bc6509eee4d545e48aaaa2f11ce79bb6b205e5b323144",
			expectedR: "18f573bc2cebc801d3d251bdc37d953190572ae8f67f8bd3e353f0e43602ae69",
			expectedS: "6b38a3087fc8f7d1b28a2c0845f9ecd31080f6da47700c08fd5a94cb2229326a",
			expectedV: 1,
		},
		{
			name:      "eth order testnet",
			digest:    "1e047ece7e053cb51bc6d4357894f3a503e8fc493cf6ceffda95f7a94fe6509a",
			expectedR: "9abf2330c329f36ce83b2f7fb78c5c576dcd24cc08b8c74b227ff0137efd41c0",
			expectedS: "7c00cfa14bf8276be1c5c0073a6a4ac6ce5daad720b3bb46e1e68d8c9162d15a",
			expectedV: 0,
		},
		{
			name:      "usd send mainnet",
			digest:    "9d45ad691281fd203b984f1997bef5f640b65729aa3731e25f0b4040b2ec9741",
			expectedR: "5b3fbf10c62436ffca0c470a8d54e0d2fa6ddbf1abcb50282d8f62a29d3acbfd",
			expectedS: "0d16b5912bfca62388c75bad8d78403f799ef92d1d2b2631369818173923ada9",
			expectedV: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest := common.HexToHash(tt.digest)
			sig, err := Sign(digest, key)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedR, hex.EncodeToString(sig.R[:]))
			assert.Equal(t, tt.expectedS, hex.EncodeToString(sig.S[:]))
			assert.Equal(t, tt.expectedV, sig.V)

			require.NoError(t, Verify(digest, sig, testAddress))
			assert.True(t, VerifyPublicKey(digest, sig, &key.PublicKey))
		})
	}
}

func TestSign_IndependentlyVerifiable(t *testing.T) {
	for i := 0; i < 20; i++ {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		digest := crypto.Keccak256Hash([]byte{byte(i)})

		sig, err := Sign(digest, key)
		require.NoError(t, err)
		require.NoError(t, sig.Validate())

		// low-s
		assert.True(t, sig.S[0] < 0x80)

		recovered, err := RecoverAddress(digest, sig)
		require.NoError(t, err)
		assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), recovered)
		assert.True(t, VerifyPublicKey(digest, sig, &key.PublicKey))
	}
}

func TestSign_NilKey(t *testing.T) {
	_, err := Sign(common.Hash{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrSigningFailed))
}

func TestVerify_WrongAddress(t *testing.T) {
	key, err := crypto.HexToECDSA(testPrivateKey)
	require.NoError(t, err)
	digest := crypto.Keccak256Hash([]byte("hello"))
	sig, err := Sign(digest, key)
	require.NoError(t, err)

	err = Verify(digest, sig, common.HexToAddress("0x1234567890123456789012345678901234567890"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrMalformedSignature))

	// a different digest recovers to some other address
	err = Verify(crypto.Keccak256Hash([]byte("other")), sig, testAddress)
	assert.Error(t, err)
}

func TestRecoverAddress_Malformed(t *testing.T) {
	_, err := RecoverAddress(common.Hash{}, nil)
	assert.True(t, errors.Is(err, types.ErrMalformedSignature))

	_, err = RecoverAddress(common.Hash{}, &types.Signature{V: 2})
	assert.True(t, errors.Is(err, types.ErrMalformedSignature))
}
