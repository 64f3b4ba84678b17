package awsKmsSigner

import (
	"context"
	"crypto/ecdsa"
	"encoding/asn1"
	"fmt"
	"math/big"

	hltypes "github.com/Layr-Labs/hl-txsigner-go/pkg/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	secp256k1N     = crypto.S256().Params().N
	secp256k1HalfN = new(big.Int).Rsh(secp256k1N, 1)
)

// IKMSClient is the subset of *kms.Client the signer uses.
type IKMSClient interface {
	GetPublicKey(ctx context.Context, params *kms.GetPublicKeyInput, optFns ...func(*kms.Options)) (*kms.GetPublicKeyOutput, error)
	Sign(ctx context.Context, params *kms.SignInput, optFns ...func(*kms.Options)) (*kms.SignOutput, error)
}

// AWSKMSSigner signs digests with an ECC_SECG_P256K1 key held in AWS KMS. The
// private key never leaves KMS.
type AWSKMSSigner struct {
	logger    *zap.Logger
	kmsClient IKMSClient
	keyId     string
	publicKey *ecdsa.PublicKey
	address   common.Address
}

func NewAWSKMSSignerFromConfig(ctx context.Context, awsCfg aws.Config, keyId string, logger *zap.Logger) (*AWSKMSSigner, error) {
	return NewAWSKMSSigner(ctx, kms.NewFromConfig(awsCfg), keyId, logger)
}

// NewAWSKMSSigner fetches the key's public half once so every signature can be
// matched to a recovery id locally.
func NewAWSKMSSigner(ctx context.Context, kmsClient IKMSClient, keyId string, logger *zap.Logger) (*AWSKMSSigner, error) {
	if kmsClient == nil {
		return nil, fmt.Errorf("kms client is required")
	}
	if keyId == "" {
		return nil, fmt.Errorf("kms key id is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	out, err := kmsClient.GetPublicKey(ctx, &kms.GetPublicKeyInput{KeyId: aws.String(keyId)})
	if err != nil {
		return nil, hltypes.NewSigningFailedError(keyId, errors.Wrapf(err, "failed to get public key for key %s", keyId))
	}
	if out.KeySpec != "" && out.KeySpec != types.KeySpecEccSecgP256k1 {
		return nil, hltypes.NewSigningFailedError(keyId, fmt.Errorf("key spec %s is not %s", out.KeySpec, types.KeySpecEccSecgP256k1))
	}
	publicKey, err := parseECDSAPublicKey(out.PublicKey)
	if err != nil {
		return nil, hltypes.NewSigningFailedError(keyId, errors.Wrapf(err, "failed to parse public key for key %s", keyId))
	}

	address := crypto.PubkeyToAddress(*publicKey)
	logger.Sugar().Infow("Loaded AWS KMS signer", "keyId", keyId, "address", address.Hex())

	return &AWSKMSSigner{
		logger:    logger,
		kmsClient: kmsClient,
		keyId:     keyId,
		publicKey: publicKey,
		address:   address,
	}, nil
}

func (k *AWSKMSSigner) Address() common.Address {
	return k.address
}

func (k *AWSKMSSigner) SignDigest(ctx context.Context, digest common.Hash) (*hltypes.Signature, error) {
	signOutput, err := k.kmsClient.Sign(ctx, &kms.SignInput{
		KeyId:            aws.String(k.keyId),
		Message:          digest.Bytes(),
		SigningAlgorithm: types.SigningAlgorithmSpecEcdsaSha256,
		MessageType:      types.MessageTypeDigest,
	})
	if err != nil {
		return nil, hltypes.NewSigningFailedError(k.keyId, errors.Wrapf(err, "kms sign failed for key %s", k.keyId))
	}

	var sigAsn1 asn1EcSig
	if _, err := asn1.Unmarshal(signOutput.Signature, &sigAsn1); err != nil {
		return nil, hltypes.NewSigningFailedError(k.keyId, errors.Wrap(err, "failed to parse DER signature"))
	}

	r := new(big.Int).SetBytes(sigAsn1.R.Bytes)
	s := new(big.Int).SetBytes(sigAsn1.S.Bytes)
	if s.Cmp(secp256k1HalfN) > 0 {
		s = new(big.Int).Sub(secp256k1N, s)
	}

	sig := &hltypes.Signature{}
	r.FillBytes(sig.R[:])
	s.FillBytes(sig.S[:])

	// KMS does not return a recovery id; find the one that yields our key.
	for recoveryId := byte(0); recoveryId < 2; recoveryId++ {
		sig.V = recoveryId
		recovered, err := crypto.SigToPub(digest.Bytes(), sig.Bytes())
		if err != nil {
			k.logger.Debug("Ecrecover failed", zap.Uint8("recoveryId", recoveryId), zap.Error(err))
			continue
		}
		if recovered.X.Cmp(k.publicKey.X) == 0 && recovered.Y.Cmp(k.publicKey.Y) == 0 {
			k.logger.Debug("Signed digest with KMS", zap.String("keyId", k.keyId), zap.String("digest", digest.Hex()))
			return sig, nil
		}
	}
	return nil, hltypes.NewSigningFailedError(k.keyId, fmt.Errorf("could not determine valid recovery id"))
}

// parseECDSAPublicKey parses the DER SubjectPublicKeyInfo KMS returns.
func parseECDSAPublicKey(derBytes []byte) (*ecdsa.PublicKey, error) {
	var asn1pubk asn1EcPublicKey
	if _, err := asn1.Unmarshal(derBytes, &asn1pubk); err != nil {
		return nil, fmt.Errorf("failed to parse ASN.1 public key: %w", err)
	}
	return crypto.UnmarshalPubkey(asn1pubk.PublicKey.Bytes)
}

type asn1EcSig struct {
	R asn1.RawValue
	S asn1.RawValue
}

type asn1EcPublicKey struct {
	EcPublicKeyInfo asn1EcPublicKeyInfo
	PublicKey       asn1.BitString
}

type asn1EcPublicKeyInfo struct {
	Algorithm  asn1.ObjectIdentifier
	Parameters asn1.ObjectIdentifier
}
