package privateKeySigner

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/signer"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// PrivateKeySigner holds a secp256k1 key in process memory.
type PrivateKeySigner struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
	logger     *zap.Logger
}

// NewPrivateKeySigner parses a hex key with or without 0x. Parse errors never
// include the input.
func NewPrivateKeySigner(privateKeyHex string, logger *zap.Logger) (*PrivateKeySigner, error) {
	if privateKeyHex == "" {
		return nil, types.NewSigningFailedError("", fmt.Errorf("private key cannot be empty"))
	}
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, types.NewSigningFailedError("", fmt.Errorf("invalid private key"))
	}
	return NewPrivateKeySignerFromKey(privateKey, logger)
}

func NewPrivateKeySignerFromKey(privateKey *ecdsa.PrivateKey, logger *zap.Logger) (*PrivateKeySigner, error) {
	if privateKey == nil {
		return nil, types.NewSigningFailedError("", fmt.Errorf("private key is required"))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	address := crypto.PubkeyToAddress(privateKey.PublicKey)
	logger.Sugar().Infow("Loaded private key signer", "address", address.Hex())

	return &PrivateKeySigner{
		privateKey: privateKey,
		address:    address,
		logger:     logger,
	}, nil
}

func (s *PrivateKeySigner) Address() common.Address {
	return s.address
}

func (s *PrivateKeySigner) SignDigest(_ context.Context, digest common.Hash) (*types.Signature, error) {
	sig, err := signer.Sign(digest, s.privateKey)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Signed digest", zap.String("address", s.address.Hex()), zap.String("digest", digest.Hex()))
	return sig, nil
}
