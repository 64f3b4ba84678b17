package config

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names read by cmd/hlSigner. The library itself never
// reads the environment.
const (
	EnvNetwork           = "HL_NETWORK"
	EnvPrivateKey        = "HL_PRIVATE_KEY"
	EnvVaultAddress      = "HL_VAULT_ADDRESS"
	EnvBaseUrl           = "HL_BASE_URL"
	EnvAWSKMSKeyID       = "HL_AWS_KMS_KEY_ID"
	EnvAWSRegion         = "HL_AWS_REGION"
	EnvPersistenceType   = "HL_PERSISTENCE_TYPE"
	EnvPersistencePath   = "HL_PERSISTENCE_PATH"
	EnvRedisAddress      = "HL_REDIS_ADDRESS"
	EnvExpiresAfterMs    = "HL_EXPIRES_AFTER_MS"
	EnvVerbose           = "HL_VERBOSE"
	EnvSubmissionChannel = "HL_SUBMISSION_CHANNEL"
)

type Network string

const (
	Network_Mainnet Network = "mainnet"
	Network_Testnet Network = "testnet"
	Network_Local   Network = "local"
)

func (n Network) String() string {
	return string(n)
}

// HyperliquidChain is the chain name embedded in user-signed actions.
type HyperliquidChain string

const (
	HyperliquidChain_Mainnet HyperliquidChain = "Mainnet"
	HyperliquidChain_Testnet HyperliquidChain = "Testnet"
)

const (
	BaseUrl_Mainnet = "https://api.hyperliquid.xyz"
	BaseUrl_Testnet = "https://api.hyperliquid-testnet.xyz"
	BaseUrl_Local   = "http://localhost:3001"
)

// Fixed typed-data constants. The L1 Agent domain always uses chain id 1337; user-signed
// actions are signed under the HyperliquidSignTransaction domain with chain id 0x66eee.
const (
	AgentDomainName          = "Exchange"
	UserSignedDomainName     = "HyperliquidSignTransaction"
	DomainVersion            = "1"
	AgentDomainChainId       = 1337
	SignatureChainId         = 0x66eee
	SignatureChainIdHex      = "0x66eee"
	AgentSourceMainnet       = "a"
	AgentSourceTestnet       = "b"
	DefaultRequestsPerSecond = 10
	DefaultRequestTimeout    = 10 * time.Second
)

var ZeroVerifyingContract = common.Address{}

type NetworkParams struct {
	BaseUrl          string
	HyperliquidChain HyperliquidChain
	AgentSource      string
}

var Networks = map[Network]*NetworkParams{
	Network_Mainnet: {
		BaseUrl:          BaseUrl_Mainnet,
		HyperliquidChain: HyperliquidChain_Mainnet,
		AgentSource:      AgentSourceMainnet,
	},
	Network_Testnet: {
		BaseUrl:          BaseUrl_Testnet,
		HyperliquidChain: HyperliquidChain_Testnet,
		AgentSource:      AgentSourceTestnet,
	},
	// local nodes verify like mainnet
	Network_Local: {
		BaseUrl:          BaseUrl_Local,
		HyperliquidChain: HyperliquidChain_Mainnet,
		AgentSource:      AgentSourceMainnet,
	},
}

func GetNetworkParams(network Network) (*NetworkParams, error) {
	params, ok := Networks[network]
	if !ok {
		return nil, fmt.Errorf("unsupported network: %s", network)
	}
	return params, nil
}

func ParseNetwork(value string) (Network, error) {
	n := Network(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := Networks[n]; !ok {
		return "", fmt.Errorf("unsupported network %q. Supported: %s", value, GetSupportedNetworksString())
	}
	return n, nil
}

func (n Network) IsMainnet() bool {
	return n == Network_Mainnet || n == Network_Local
}

func GetSupportedNetworksString() string {
	return fmt.Sprintf("%s, %s, %s", Network_Mainnet, Network_Testnet, Network_Local)
}

func SignatureChainIdBig() *big.Int {
	return big.NewInt(SignatureChainId)
}

type PersistenceType string

const (
	PersistenceType_None   PersistenceType = ""
	PersistenceType_Memory PersistenceType = "memory"
	PersistenceType_Badger PersistenceType = "badger"
	PersistenceType_Redis  PersistenceType = "redis"
)

// PersistenceConfig selects where the asset directory snapshot is cached.
type PersistenceConfig struct {
	Type         PersistenceType `json:"type" yaml:"type"`
	DataPath     string          `json:"dataPath" yaml:"dataPath"`
	RedisAddress string          `json:"redisAddress" yaml:"redisAddress"`
	RedisDB      int             `json:"redisDb" yaml:"redisDb"`
	KeyPrefix    string          `json:"keyPrefix" yaml:"keyPrefix"`
}

func (pc *PersistenceConfig) Validate() error {
	var allErrors field.ErrorList
	switch pc.Type {
	case PersistenceType_None, PersistenceType_Memory:
	case PersistenceType_Badger:
		if pc.DataPath == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("dataPath"), "dataPath is required for badger persistence"))
		}
	case PersistenceType_Redis:
		if pc.RedisAddress == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("redisAddress"), "redisAddress is required for redis persistence"))
		}
		if pc.RedisDB < 0 || pc.RedisDB > 15 {
			allErrors = append(allErrors, field.Invalid(field.NewPath("redisDb"), pc.RedisDB, "must be between 0-15"))
		}
	default:
		allErrors = append(allErrors, field.NotSupported(field.NewPath("type"), pc.Type,
			[]string{string(PersistenceType_Memory), string(PersistenceType_Badger), string(PersistenceType_Redis)}))
	}
	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// ClientConfig is the configuration for building transactions against one network.
type ClientConfig struct {
	Network           Network            `json:"network" yaml:"network"`
	BaseUrl           string             `json:"baseUrl" yaml:"baseUrl"`
	VaultAddress      string             `json:"vaultAddress" yaml:"vaultAddress"`
	ExpiresAfterMs    uint64             `json:"expiresAfterMs" yaml:"expiresAfterMs"`
	RequestsPerSecond float64            `json:"requestsPerSecond" yaml:"requestsPerSecond"`
	RequestTimeout    time.Duration      `json:"requestTimeout" yaml:"requestTimeout"`
	Persistence       *PersistenceConfig `json:"persistence,omitempty" yaml:"persistence,omitempty"`
	Debug             bool               `json:"debug" yaml:"debug"`
}

// Validate checks the config and fills derived defaults (base URL, rate, timeout).
func (c *ClientConfig) Validate() error {
	var allErrors field.ErrorList

	params, err := GetNetworkParams(c.Network)
	if err != nil {
		allErrors = append(allErrors, field.NotSupported(field.NewPath("network"), c.Network,
			[]string{string(Network_Mainnet), string(Network_Testnet), string(Network_Local)}))
	} else if c.BaseUrl == "" {
		c.BaseUrl = params.BaseUrl
	}

	if c.VaultAddress != "" && !common.IsHexAddress(c.VaultAddress) {
		allErrors = append(allErrors, field.Invalid(field.NewPath("vaultAddress"), c.VaultAddress, "invalid address format"))
	}
	if c.RequestsPerSecond < 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("requestsPerSecond"), c.RequestsPerSecond, "must not be negative"))
	}
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.Persistence != nil {
		if err := c.Persistence.Validate(); err != nil {
			allErrors = append(allErrors, field.Invalid(field.NewPath("persistence"), c.Persistence.Type, err.Error()))
		}
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// GetVaultAddress returns the parsed vault address, or nil when trading for the signer's own account.
func (c *ClientConfig) GetVaultAddress() *common.Address {
	if c.VaultAddress == "" {
		return nil
	}
	addr := common.HexToAddress(c.VaultAddress)
	return &addr
}

type SignerType string

const (
	SignerType_PrivateKey SignerType = "privateKey"
	SignerType_AWSKMS     SignerType = "awsKms"
	SignerType_External   SignerType = "external"
)

type SignerConfig struct {
	Type       SignerType `json:"type" yaml:"type"`
	PrivateKey string     `json:"privateKey" yaml:"privateKey"`
	KMSKeyId   string     `json:"kmsKeyId" yaml:"kmsKeyId"`
	AWSRegion  string     `json:"awsRegion" yaml:"awsRegion"`
}

func (sc *SignerConfig) Validate() error {
	var allErrors field.ErrorList
	switch sc.Type {
	case SignerType_PrivateKey:
		if sc.PrivateKey == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("privateKey"), "privateKey is required"))
		} else {
			key := strings.TrimPrefix(sc.PrivateKey, "0x")
			if len(key) != 64 {
				// never echo the key back
				allErrors = append(allErrors, field.Invalid(field.NewPath("privateKey"), "<redacted>",
					fmt.Sprintf("must be 32 bytes (64 hex chars), got %d chars", len(key))))
			}
		}
	case SignerType_AWSKMS:
		if sc.KMSKeyId == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("kmsKeyId"), "kmsKeyId is required"))
		}
	case SignerType_External:
	default:
		allErrors = append(allErrors, field.NotSupported(field.NewPath("type"), sc.Type,
			[]string{string(SignerType_PrivateKey), string(SignerType_AWSKMS), string(SignerType_External)}))
	}
	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}
