// Package signer produces and checks recoverable secp256k1 signatures over digests.
//
// Signing is a pluggable capability: ISigner is implemented by a local private key,
// by AWS KMS, and by a callback that hands the digest to any external authority.
// Key material is never logged, persisted or placed in error messages.
package signer

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ISigner signs 32-byte digests on behalf of one address.
type ISigner interface {
	// Address is the account the signatures recover to.
	Address() common.Address

	// SignDigest returns a signature over exactly the given digest; it must not re-hash.
	SignDigest(ctx context.Context, digest common.Hash) (*types.Signature, error)
}

// Sign produces a low-s recoverable signature with recovery id 0 or 1.
func Sign(digest common.Hash, key *ecdsa.PrivateKey) (*types.Signature, error) {
	if key == nil || key.D == nil {
		return nil, types.NewSigningFailedError("", fmt.Errorf("private key is required"))
	}
	raw, err := crypto.Sign(digest.Bytes(), key)
	if err != nil {
		return nil, types.NewSigningFailedError(crypto.PubkeyToAddress(key.PublicKey).Hex(), err)
	}
	sig, err := types.NewSignatureFromBytes(raw)
	if err != nil {
		return nil, types.NewSigningFailedError(crypto.PubkeyToAddress(key.PublicKey).Hex(), err)
	}
	return sig, nil
}

// RecoverAddress returns the address whose key produced sig over digest.
func RecoverAddress(digest common.Hash, sig *types.Signature) (common.Address, error) {
	if err := sig.Validate(); err != nil {
		return common.Address{}, err
	}
	pub, err := crypto.SigToPub(digest.Bytes(), sig.Bytes())
	if err != nil {
		return common.Address{}, types.NewMalformedSignatureError("signature", fmt.Sprintf("recovery failed: %v", err))
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// Verify checks that sig over digest recovers to expected.
func Verify(digest common.Hash, sig *types.Signature, expected common.Address) error {
	recovered, err := RecoverAddress(digest, sig)
	if err != nil {
		return err
	}
	if recovered != expected {
		return types.NewMalformedSignatureError("signature",
			fmt.Sprintf("recovers to %s, expected %s", recovered.Hex(), expected.Hex()))
	}
	return nil
}

// VerifyPublicKey checks sig against a public key without recovery.
func VerifyPublicKey(digest common.Hash, sig *types.Signature, pub *ecdsa.PublicKey) bool {
	if sig.Validate() != nil || pub == nil {
		return false
	}
	return crypto.VerifySignature(crypto.FromECDSAPub(pub), digest.Bytes(), sig.Bytes()[:64])
}
