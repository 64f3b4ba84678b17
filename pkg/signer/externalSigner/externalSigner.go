// Package externalSigner adapts any out-of-process signing authority (hardware
// wallet, remote signing service, human in the loop) to signer.ISigner.
package externalSigner

import (
	"context"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/signer"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// SignFunc receives the exact digest to sign and returns 65 bytes R || S || V,
// with V in {0, 1, 27, 28}.
type SignFunc func(ctx context.Context, digest common.Hash) ([]byte, error)

type ExternalSigner struct {
	address       common.Address
	sign          SignFunc
	checkRecovery bool
	logger        *zap.Logger
}

type Option func(*ExternalSigner)

// WithRecoveryCheck additionally requires returned signatures to recover to the
// configured address. Without it only the shape is checked.
func WithRecoveryCheck() Option {
	return func(s *ExternalSigner) {
		s.checkRecovery = true
	}
}

func NewExternalSigner(address common.Address, sign SignFunc, logger *zap.Logger, opts ...Option) (*ExternalSigner, error) {
	if sign == nil {
		return nil, types.NewInvalidParameterError("sign", "", "sign callback is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExternalSigner{
		address: address,
		sign:    sign,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *ExternalSigner) Address() common.Address {
	return s.address
}

func (s *ExternalSigner) SignDigest(ctx context.Context, digest common.Hash) (*types.Signature, error) {
	raw, err := s.sign(ctx, digest)
	if err != nil {
		return nil, types.NewSigningFailedError(s.address.Hex(), err)
	}
	sig, err := types.NewSignatureFromBytes(raw)
	if err != nil {
		return nil, err
	}
	if s.checkRecovery {
		if err := signer.Verify(digest, sig, s.address); err != nil {
			return nil, err
		}
	}
	s.logger.Debug("Accepted external signature", zap.String("address", s.address.Hex()), zap.String("digest", digest.Hex()))
	return sig, nil
}
