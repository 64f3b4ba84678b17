// Package txBuilder runs the preparation pipeline: it resolves symbols, builds a
// validated action, encodes it, draws a nonce and computes the digest. The result
// can be signed in-process or handed to an external signer and finalized later.
package txBuilder

import (
	"context"
	"fmt"
	"time"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/actions"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/config"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/digest"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/encoding"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/envelope"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/nonce"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/signer"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"go.uber.org/zap"
)

// IAssetDirectory resolves symbols. *assetDirectory.Directory satisfies it.
type IAssetDirectory interface {
	Lookup(symbol string) (types.Asset, error)
	Token(name string) (types.SpotToken, error)
}

type BuilderConfig struct {
	Directory   IAssetDirectory
	NonceSource nonce.INonceSource
	Network     config.Network

	// VaultAddress signs L1 actions on behalf of a vault or subaccount.
	VaultAddress *common.Address

	// ExpiresAfter, when positive, makes L1 actions expire this long after their nonce.
	ExpiresAfter time.Duration

	Logger *zap.Logger
}

// UnsignedTransactionBuilder is safe for concurrent use; it holds no mutable state
// beyond what the directory and nonce source guard themselves.
type UnsignedTransactionBuilder struct {
	directory    IAssetDirectory
	nonces       nonce.INonceSource
	network      config.Network
	chain        config.HyperliquidChain
	vault        *common.Address
	expiresAfter time.Duration
	logger       *zap.Logger
}

func NewUnsignedTransactionBuilder(cfg *BuilderConfig) (*UnsignedTransactionBuilder, error) {
	if cfg == nil {
		return nil, types.NewInvalidParameterError("config", "", "builder config is required")
	}
	if cfg.Directory == nil {
		return nil, types.NewInvalidParameterError("directory", "", "asset directory is required")
	}
	if cfg.NonceSource == nil {
		return nil, types.NewInvalidParameterError("nonceSource", "", "nonce source is required")
	}
	params, err := config.GetNetworkParams(cfg.Network)
	if err != nil {
		return nil, types.NewInvalidParameterError("network", cfg.Network.String(), err.Error())
	}
	if cfg.ExpiresAfter < 0 {
		return nil, types.NewInvalidParameterError("expiresAfter", cfg.ExpiresAfter.String(), "must not be negative")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	b := &UnsignedTransactionBuilder{
		directory:    cfg.Directory,
		nonces:       cfg.NonceSource,
		network:      cfg.Network,
		chain:        params.HyperliquidChain,
		expiresAfter: cfg.ExpiresAfter,
		logger:       logger,
	}
	if cfg.VaultAddress != nil {
		v := *cfg.VaultAddress
		b.vault = &v
	}
	return b, nil
}

// WithVault returns a builder sharing this one's directory and nonce source that
// signs L1 actions for vault. A nil vault signs for the account itself.
func (b *UnsignedTransactionBuilder) WithVault(vault *common.Address) *UnsignedTransactionBuilder {
	out := *b
	out.vault = nil
	if vault != nil {
		v := *vault
		out.vault = &v
	}
	return &out
}

func (b *UnsignedTransactionBuilder) Network() config.Network {
	return b.network
}

// Prepare computes the components for an already-built action. L1 actions draw a
// fresh nonce; user-signed actions use the nonce they carry.
func (b *UnsignedTransactionBuilder) Prepare(action actions.Action) (*UnsignedComponents, error) {
	if action == nil {
		return nil, types.NewInvalidParameterError("action", "", "action is required")
	}
	switch action.SigningScheme() {
	case actions.Scheme_L1Agent:
		vault := b.vault
		if action.Kind() == actions.Kind_VaultTransfer {
			// the vault is named inside the action itself
			vault = nil
		}
		return b.prepareL1(action, vault)
	case actions.Scheme_UserSigned:
		userSigned, ok := action.(actions.UserSignedAction)
		if !ok {
			return nil, types.NewInvalidParameterError("action", string(action.Kind()), "not a user-signed action")
		}
		return b.prepareUserSigned(userSigned)
	default:
		return nil, types.NewInvalidParameterError("action", string(action.Kind()), "unknown signing scheme")
	}
}

func (b *UnsignedTransactionBuilder) prepareL1(action actions.Action, vault *common.Address) (*UnsignedComponents, error) {
	encoded, err := encoding.EncodeBoth(action)
	if err != nil {
		return nil, err
	}

	n := b.nonces.Next()
	var expiresAfter *uint64
	if b.expiresAfter > 0 {
		e := n + uint64(b.expiresAfter/b.nonceUnit())
		expiresAfter = &e
	}

	actionHash := digest.ConnectionID(encoded.Canonical, n, vault, expiresAfter)
	td, err := digest.AgentTypedData(actionHash, b.network)
	if err != nil {
		return nil, err
	}
	d, err := digest.AgentDigest(actionHash, b.network)
	if err != nil {
		return nil, err
	}

	c := &UnsignedComponents{
		Action:           action,
		ActionJSON:       encoded.Transport,
		Nonce:            n,
		Digest:           d,
		TypedData:        td,
		VaultAddress:     vault,
		ExpiresAfter:     expiresAfter,
		Scheme:           actions.Scheme_L1Agent,
		ChainID:          config.AgentDomainChainId,
		HyperliquidChain: b.chain,
		Network:          b.network,
	}
	b.logPrepared(c)
	return c, nil
}

// nonceUnit is the duration of one nonce step. Sources that do not report one
// are assumed to issue millisecond nonces.
func (b *UnsignedTransactionBuilder) nonceUnit() time.Duration {
	if r, ok := b.nonces.(interface{ Resolution() time.Duration }); ok && r.Resolution() > 0 {
		return r.Resolution()
	}
	return time.Millisecond
}

func (b *UnsignedTransactionBuilder) prepareUserSigned(action actions.UserSignedAction) (*UnsignedComponents, error) {
	if action.Chain() != b.chain {
		return nil, types.NewInvalidParameterError("hyperliquidChain", string(action.Chain()),
			fmt.Sprintf("builder is configured for %s", b.chain))
	}
	transport, err := encoding.TransportJSON(action)
	if err != nil {
		return nil, err
	}

	n := action.SignedNonce()
	if o, ok := b.nonces.(interface{ Observe(uint64) }); ok {
		o.Observe(n)
	}

	d, err := digest.Compute(action, n, nil, nil, b.network)
	if err != nil {
		return nil, err
	}
	td, err := digest.UserSignedTypedData(action, b.network)
	if err != nil {
		return nil, err
	}

	c := &UnsignedComponents{
		Action:           action,
		ActionJSON:       transport,
		Nonce:            n,
		Digest:           d,
		TypedData:        td,
		Scheme:           actions.Scheme_UserSigned,
		ChainID:          config.SignatureChainId,
		HyperliquidChain: b.chain,
		Network:          b.network,
	}
	b.logPrepared(c)
	return c, nil
}

func (b *UnsignedTransactionBuilder) logPrepared(c *UnsignedComponents) {
	b.logger.Debug("Prepared unsigned transaction",
		zap.String("kind", string(c.Action.Kind())),
		zap.String("scheme", c.Scheme.String()),
		zap.Uint64("nonce", c.Nonce),
		zap.String("digest", c.Digest.Hex()),
		zap.Bool("vault", c.VaultAddress != nil),
	)
}

// Finalize assembles the envelope from components and a signature obtained
// elsewhere. Only the signature's shape is checked; use FinalizeVerified to also
// check who signed.
func (b *UnsignedTransactionBuilder) Finalize(c *UnsignedComponents, sig *types.Signature) (*envelope.SignedEnvelope, error) {
	return Finalize(c, sig)
}

func Finalize(c *UnsignedComponents, sig *types.Signature) (*envelope.SignedEnvelope, error) {
	if c == nil {
		return nil, types.NewInvalidParameterError("components", "", "components are required")
	}
	return envelope.Assemble(c.ActionJSON, c.Nonce, sig, c.VaultAddress, c.ExpiresAfter)
}

// FinalizeVerified is Finalize plus a check that sig recovers to expected over
// the components' digest.
func FinalizeVerified(c *UnsignedComponents, sig *types.Signature, expected common.Address) (*envelope.SignedEnvelope, error) {
	if c == nil {
		return nil, types.NewInvalidParameterError("components", "", "components are required")
	}
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	if err := signer.Verify(c.Digest, sig, expected); err != nil {
		return nil, err
	}
	return Finalize(c, sig)
}

// SignAndAssemble signs the digest with s and assembles the envelope. The
// signature is checked against s.Address() before it is used.
func (b *UnsignedTransactionBuilder) SignAndAssemble(ctx context.Context, c *UnsignedComponents, s signer.ISigner) (*envelope.SignedEnvelope, error) {
	if c == nil {
		return nil, types.NewInvalidParameterError("components", "", "components are required")
	}
	if s == nil {
		return nil, types.NewInvalidParameterError("signer", "", "signer is required")
	}
	sig, err := s.SignDigest(ctx, c.Digest)
	if err != nil {
		return nil, err
	}
	return FinalizeVerified(c, sig, s.Address())
}

// TypedDataFor rebuilds the typed-data document of c, e.g. after c was
// deserialized without it.
func TypedDataFor(c *UnsignedComponents) (*apitypes.TypedData, error) {
	if c == nil || c.Action == nil {
		return nil, types.NewInvalidParameterError("components", "", "components with an action are required")
	}
	if us, ok := c.Action.(actions.UserSignedAction); ok && c.Scheme == actions.Scheme_UserSigned {
		return digest.UserSignedTypedData(us, c.Network)
	}
	ah, err := digest.ActionHash(c.Action, c.Nonce, c.VaultAddress, c.ExpiresAfter)
	if err != nil {
		return nil, err
	}
	return digest.AgentTypedData(ah, c.Network)
}
