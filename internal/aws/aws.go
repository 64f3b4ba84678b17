// Package aws loads AWS credentials for the KMS-backed signer.
package aws

import (
	"context"
	"os"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/signer/awsKmsSigner"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const serviceAccountTokenPath = "/var/run/secrets/kubernetes.io/serviceaccount/token"

// LoadAWSConfig resolves credentials from the default chain. Outside Kubernetes
// the shared profile named by AWS_PROFILE (or "default") is used; inside, the pod's
// service account identity wins.
func LoadAWSConfig(ctx context.Context, regionOverride string) (aws.Config, error) {
	var options []func(*config.LoadOptions) error

	if !isInKubernetes() {
		options = append(options, config.WithSharedConfigProfile(getProfile()))
	}
	if regionOverride != "" {
		options = append(options, config.WithRegion(regionOverride))
	}

	cfg, err := config.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return aws.Config{}, errors.Wrap(err, "failed to load AWS config")
	}
	return cfg, nil
}

func isInKubernetes() bool {
	_, err := os.Stat(serviceAccountTokenPath)
	return err == nil
}

func getProfile() string {
	if profile := os.Getenv("AWS_PROFILE"); profile != "" {
		return profile
	}
	return "default"
}

func GetCallerIdentity(ctx context.Context, cfg aws.Config) (*sts.GetCallerIdentityOutput, error) {
	out, err := sts.NewFromConfig(cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get caller identity")
	}
	return out, nil
}

// NewKMSSigner loads AWS config and returns a signer for keyId. The caller
// identity is logged so a misconfigured profile is obvious before the first
// signature fails.
func NewKMSSigner(ctx context.Context, keyId string, region string, logger *zap.Logger) (*awsKmsSigner.AWSKMSSigner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg, err := LoadAWSConfig(ctx, region)
	if err != nil {
		return nil, err
	}

	identity, err := GetCallerIdentity(ctx, cfg)
	if err != nil {
		logger.Sugar().Warnw("Could not resolve AWS caller identity", "error", err)
	} else {
		logger.Sugar().Debugw("Resolved AWS caller identity",
			"arn", aws.ToString(identity.Arn),
			"account", aws.ToString(identity.Account),
			"region", cfg.Region,
		)
	}

	return awsKmsSigner.NewAWSKMSSignerFromConfig(ctx, cfg, keyId, logger)
}
