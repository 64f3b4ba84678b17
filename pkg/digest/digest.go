// Package digest computes the 32-byte values the venue expects signatures over.
//
// L1 actions are hashed in two stages: the canonical msgpack bytes are combined
// with the nonce and optional vault/expiration context into an action hash, which
// is then wrapped in the phantom Agent typed-data record. User-signed actions are
// signed directly as EIP-712 typed data over their own fields.
//
// Every function here is pure: no I/O, no clock, no shared mutable state.
package digest

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/actions"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/config"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/encoding"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

const (
	agentPrimaryType     = "Agent"
	userSignedTypePrefix = "HyperliquidTransaction:"
)

var domainType = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
}

var agentDomain = apitypes.TypedDataDomain{
	Name:              config.AgentDomainName,
	Version:           config.DomainVersion,
	ChainId:           math.NewHexOrDecimal256(config.AgentDomainChainId),
	VerifyingContract: config.ZeroVerifyingContract.Hex(),
}

var userSignedDomain = apitypes.TypedDataDomain{
	Name:              config.UserSignedDomainName,
	Version:           config.DomainVersion,
	ChainId:           math.NewHexOrDecimal256(config.SignatureChainId),
	VerifyingContract: config.ZeroVerifyingContract.Hex(),
}

var agentTypes = apitypes.Types{
	"EIP712Domain": domainType,
	agentPrimaryType: {
		{Name: "source", Type: "string"},
		{Name: "connectionId", Type: "bytes32"},
	},
}

var transferFields = []apitypes.Type{
	{Name: "hyperliquidChain", Type: "string"},
	{Name: "destination", Type: "string"},
	{Name: "amount", Type: "string"},
	{Name: "time", Type: "uint64"},
}

// userSignedTypes maps each user-signed variant to its primary type name and fields.
var userSignedTypes = map[actions.Kind]struct {
	name   string
	fields []apitypes.Type
}{
	actions.Kind_UsdTransfer: {name: "UsdSend", fields: transferFields},
	actions.Kind_Withdraw:    {name: "Withdraw", fields: transferFields},
	actions.Kind_SpotTransfer: {name: "SpotSend", fields: []apitypes.Type{
		{Name: "hyperliquidChain", Type: "string"},
		{Name: "destination", Type: "string"},
		{Name: "token", Type: "string"},
		{Name: "amount", Type: "string"},
		{Name: "time", Type: "uint64"},
	}},
	actions.Kind_ApproveBuilderFee: {name: "ApproveBuilderFee", fields: []apitypes.Type{
		{Name: "hyperliquidChain", Type: "string"},
		{Name: "maxFeeRate", Type: "string"},
		{Name: "builder", Type: "address"},
		{Name: "nonce", Type: "uint64"},
	}},
}

var (
	agentDomainSeparator      = mustDomainSeparator(agentDomain)
	userSignedDomainSeparator = mustDomainSeparator(userSignedDomain)
)

func mustDomainSeparator(domain apitypes.TypedDataDomain) common.Hash {
	td := apitypes.TypedData{Types: apitypes.Types{"EIP712Domain": domainType}, Domain: domain}
	sep, err := td.HashStruct("EIP712Domain", td.Domain.Map())
	if err != nil {
		panic(fmt.Sprintf("failed to hash EIP712 domain %s: %v", domain.Name, err))
	}
	return common.BytesToHash(sep)
}

// AgentDomainSeparator is the fixed separator of the L1 Agent domain.
func AgentDomainSeparator() common.Hash {
	return agentDomainSeparator
}

// UserSignedDomainSeparator is the fixed separator of the HyperliquidSignTransaction domain.
func UserSignedDomainSeparator() common.Hash {
	return userSignedDomainSeparator
}

// ConnectionID hashes already-encoded action bytes with their signing context:
//
//	keccak256(canonical || nonce(u64 BE) || 0x00 | 0x01 || vault(20) || [0x00 || expiresAfter(u64 BE)])
func ConnectionID(canonical []byte, nonce uint64, vault *common.Address, expiresAfter *uint64) common.Hash {
	size := len(canonical) + 8 + 1
	if vault != nil {
		size += common.AddressLength
	}
	if expiresAfter != nil {
		size += 9
	}
	data := make([]byte, 0, size)
	data = append(data, canonical...)
	data = binary.BigEndian.AppendUint64(data, nonce)
	if vault == nil {
		data = append(data, 0x00)
	} else {
		data = append(data, 0x01)
		data = append(data, vault.Bytes()...)
	}
	if expiresAfter != nil {
		data = append(data, 0x00)
		data = binary.BigEndian.AppendUint64(data, *expiresAfter)
	}
	return crypto.Keccak256Hash(data)
}

// ActionHash canonically encodes an L1 action and hashes it with its signing context.
func ActionHash(action actions.Action, nonce uint64, vault *common.Address, expiresAfter *uint64) (common.Hash, error) {
	canonical, err := encoding.Encode(action)
	if err != nil {
		return common.Hash{}, err
	}
	return ConnectionID(canonical, nonce, vault, expiresAfter), nil
}

// AgentTypedData is the typed-data document an external wallet signs for an L1 action.
func AgentTypedData(actionHash common.Hash, network config.Network) (*apitypes.TypedData, error) {
	params, err := config.GetNetworkParams(network)
	if err != nil {
		return nil, types.NewInvalidParameterError("network", string(network), err.Error())
	}
	return &apitypes.TypedData{
		Types:       agentTypes,
		PrimaryType: agentPrimaryType,
		Domain:      agentDomain,
		Message: apitypes.TypedDataMessage{
			"source":       params.AgentSource,
			"connectionId": hexutil.Bytes(actionHash.Bytes()),
		},
	}, nil
}

// AgentDigest wraps an action hash in the Agent record and returns the EIP-712 digest.
func AgentDigest(actionHash common.Hash, network config.Network) (common.Hash, error) {
	td, err := AgentTypedData(actionHash, network)
	if err != nil {
		return common.Hash{}, err
	}
	return hashTypedData(td, agentDomainSeparator)
}

// UserSignedTypedData is the typed-data document for a user-signed action. The
// action's chain must belong to network.
func UserSignedTypedData(action actions.UserSignedAction, network config.Network) (*apitypes.TypedData, error) {
	if action == nil {
		return nil, types.NewInvalidParameterError("action", "", "action is required")
	}
	params, err := config.GetNetworkParams(network)
	if err != nil {
		return nil, types.NewInvalidParameterError("network", string(network), err.Error())
	}
	if action.Chain() != params.HyperliquidChain {
		return nil, types.NewInvalidParameterError("hyperliquidChain", string(action.Chain()),
			fmt.Sprintf("action targets a different chain than network %s (%s)", network, params.HyperliquidChain))
	}

	def, ok := userSignedTypes[action.Kind()]
	if !ok {
		return nil, types.NewInvalidParameterError("action", string(action.Kind()), "not a user-signed action")
	}

	var message apitypes.TypedDataMessage
	switch a := action.(type) {
	case *actions.UsdTransfer:
		message = transferMessage(a.HyperliquidChain, a.Destination, a.Amount, a.Time)
	case *actions.Withdraw:
		message = transferMessage(a.HyperliquidChain, a.Destination, a.Amount, a.Time)
	case *actions.SpotTransfer:
		message = apitypes.TypedDataMessage{
			"hyperliquidChain": string(a.HyperliquidChain),
			"destination":      a.Destination,
			"token":            a.Token,
			"amount":           a.Amount,
			"time":             strconv.FormatUint(a.Time, 10),
		}
	case *actions.ApproveBuilderFee:
		message = apitypes.TypedDataMessage{
			"hyperliquidChain": string(a.HyperliquidChain),
			"maxFeeRate":       a.MaxFeeRate,
			"builder":          a.Builder,
			"nonce":            strconv.FormatUint(a.Nonce, 10),
		}
	default:
		return nil, types.NewInvalidParameterError("action", fmt.Sprintf("%T", action), "unsupported user-signed action")
	}

	primaryType := userSignedTypePrefix + def.name
	return &apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": domainType,
			primaryType:    def.fields,
		},
		PrimaryType: primaryType,
		Domain:      userSignedDomain,
		Message:     message,
	}, nil
}

func transferMessage(chain config.HyperliquidChain, destination, amount string, time uint64) apitypes.TypedDataMessage {
	return apitypes.TypedDataMessage{
		"hyperliquidChain": string(chain),
		"destination":      destination,
		"amount":           amount,
		"time":             strconv.FormatUint(time, 10),
	}
}

// UserSignedDigest returns the EIP-712 digest of a user-signed action.
func UserSignedDigest(action actions.UserSignedAction, network config.Network) (common.Hash, error) {
	td, err := UserSignedTypedData(action, network)
	if err != nil {
		return common.Hash{}, err
	}
	return hashTypedData(td, userSignedDomainSeparator)
}

// Compute dispatches on the action's signing scheme. User-signed actions carry
// their own nonce and cannot be submitted for a vault or with an expiration, so
// those combinations are rejected rather than ignored.
func Compute(action actions.Action, nonce uint64, vault *common.Address, expiresAfter *uint64, network config.Network) (common.Hash, error) {
	if action == nil {
		return common.Hash{}, types.NewInvalidParameterError("action", "", "action is required")
	}
	switch action.SigningScheme() {
	case actions.Scheme_L1Agent:
		actionHash, err := ActionHash(action, nonce, vault, expiresAfter)
		if err != nil {
			return common.Hash{}, err
		}
		return AgentDigest(actionHash, network)
	case actions.Scheme_UserSigned:
		userSigned, ok := action.(actions.UserSignedAction)
		if !ok {
			return common.Hash{}, types.NewInvalidParameterError("action", string(action.Kind()), "not a user-signed action")
		}
		if vault != nil {
			return common.Hash{}, types.NewInvalidParameterError("vaultAddress", vault.Hex(), "user-signed actions cannot target a vault")
		}
		if expiresAfter != nil {
			return common.Hash{}, types.NewInvalidParameterError("expiresAfter", strconv.FormatUint(*expiresAfter, 10),
				"user-signed actions do not support expiration")
		}
		if nonce != userSigned.SignedNonce() {
			return common.Hash{}, types.NewInvalidParameterError("nonce", strconv.FormatUint(nonce, 10),
				fmt.Sprintf("must equal the action's own nonce %d", userSigned.SignedNonce()))
		}
		return UserSignedDigest(userSigned, network)
	default:
		return common.Hash{}, types.NewInvalidParameterError("action", string(action.Kind()), "unknown signing scheme")
	}
}

func hashTypedData(td *apitypes.TypedData, domainSeparator common.Hash) (common.Hash, error) {
	structHash, err := td.HashStruct(td.PrimaryType, td.Message)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash %s: %w", td.PrimaryType, err)
	}
	raw := make([]byte, 0, 2+2*common.HashLength)
	raw = append(raw, 0x19, 0x01)
	raw = append(raw, domainSeparator.Bytes()...)
	raw = append(raw, structHash...)
	return crypto.Keccak256Hash(raw), nil
}

// TypedDataDigest hashes an arbitrary typed-data document, e.g. one returned by
// AgentTypedData after it was shipped to an external signer and back.
func TypedDataDigest(td *apitypes.TypedData) (common.Hash, error) {
	sep, err := td.HashStruct("EIP712Domain", td.Domain.Map())
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash domain: %w", err)
	}
	return hashTypedData(td, common.BytesToHash(sep))
}
