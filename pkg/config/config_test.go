package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNetwork(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    Network
		expectedErr bool
	}{
		{name: "mainnet", input: "mainnet", expected: Network_Mainnet},
		{name: "mixed case and spaces", input: " Testnet ", expected: Network_Testnet},
		{name: "local", input: "local", expected: Network_Local},
		{name: "unknown", input: "devnet", expectedErr: true},
		{name: "empty", input: "", expectedErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNetwork(tt.input)
			if tt.expectedErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNetworkParams(t *testing.T) {
	mainnet, err := GetNetworkParams(Network_Mainnet)
	require.NoError(t, err)
	assert.Equal(t, "a", mainnet.AgentSource)
	assert.Equal(t, HyperliquidChain_Mainnet, mainnet.HyperliquidChain)

	testnet, err := GetNetworkParams(Network_Testnet)
	require.NoError(t, err)
	assert.Equal(t, "b", testnet.AgentSource)
	assert.Equal(t, HyperliquidChain_Testnet, testnet.HyperliquidChain)

	local, err := GetNetworkParams(Network_Local)
	require.NoError(t, err)
	assert.Equal(t, mainnet.AgentSource, local.AgentSource)
	assert.True(t, Network_Local.IsMainnet())

	_, err = GetNetworkParams("devnet")
	assert.Error(t, err)

	assert.Equal(t, int64(0x66eee), SignatureChainIdBig().Int64())
}

func TestClientConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         ClientConfig
		expectedErr bool
	}{
		{name: "defaults filled", cfg: ClientConfig{Network: Network_Mainnet}},
		{name: "vault", cfg: ClientConfig{Network: Network_Testnet, VaultAddress: "0x1234567890123456789012345678901234567890"}},
		{name: "badger cache", cfg: ClientConfig{Network: Network_Mainnet, Persistence: &PersistenceConfig{Type: PersistenceType_Badger, DataPath: "/tmp/hl"}}},
		{name: "unknown network", cfg: ClientConfig{Network: "devnet"}, expectedErr: true},
		{name: "bad vault", cfg: ClientConfig{Network: Network_Mainnet, VaultAddress: "0x12"}, expectedErr: true},
		{name: "negative rate", cfg: ClientConfig{Network: Network_Mainnet, RequestsPerSecond: -1}, expectedErr: true},
		{name: "badger without path", cfg: ClientConfig{Network: Network_Mainnet, Persistence: &PersistenceConfig{Type: PersistenceType_Badger}}, expectedErr: true},
		{name: "redis db out of range", cfg: ClientConfig{Network: Network_Mainnet, Persistence: &PersistenceConfig{Type: PersistenceType_Redis, RedisAddress: "localhost:6379", RedisDB: 16}}, expectedErr: true},
		{name: "unknown persistence", cfg: ClientConfig{Network: Network_Mainnet, Persistence: &PersistenceConfig{Type: "sqlite"}}, expectedErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Validate()
			if tt.expectedErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, cfg.BaseUrl)
			assert.Equal(t, float64(DefaultRequestsPerSecond), cfg.RequestsPerSecond)
			assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
		})
	}
}

func TestClientConfig_GetVaultAddress(t *testing.T) {
	cfg := &ClientConfig{}
	assert.Nil(t, cfg.GetVaultAddress())

	cfg.VaultAddress = "0x1234567890123456789012345678901234567890"
	require.NotNil(t, cfg.GetVaultAddress())
	assert.Equal(t, "0x1234567890123456789012345678901234567890", cfg.GetVaultAddress().Hex())
}

func TestSignerConfig_Validate(t *testing.T) {
	const key = "0x0123456789012345678901234567890123456789012345678901234567890123"

	tests := []struct {
		name        string
		cfg         SignerConfig
		expectedErr bool
	}{
		{name: "private key", cfg: SignerConfig{Type: SignerType_PrivateKey, PrivateKey: key}},
		{name: "kms", cfg: SignerConfig{Type: SignerType_AWSKMS, KMSKeyId: "alias/hl"}},
		{name: "external", cfg: SignerConfig{Type: SignerType_External}},
		{name: "missing key", cfg: SignerConfig{Type: SignerType_PrivateKey}, expectedErr: true},
		{name: "short key", cfg: SignerConfig{Type: SignerType_PrivateKey, PrivateKey: "0x0123"}, expectedErr: true},
		{name: "missing kms key id", cfg: SignerConfig{Type: SignerType_AWSKMS}, expectedErr: true},
		{name: "unknown type", cfg: SignerConfig{Type: "ledger"}, expectedErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.expectedErr {
				require.Error(t, err)
				assert.NotContains(t, err.Error(), key[2:])
				return
			}
			require.NoError(t, err)
		})
	}
}
