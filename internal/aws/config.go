package aws

import (
	"context"
	"fmt"
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

const defaultRegion = "us-east-1"

// LoadAWSConfig loads the shared AWS config. AWS_ENDPOINT_OVERRIDE points every
// client at a local emulator such as localstack.
func LoadAWSConfig(ctx context.Context) (sdkaws.Config, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = defaultRegion
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
	)
	if err != nil {
		return cfg, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if endpoint := os.Getenv("AWS_ENDPOINT_OVERRIDE"); endpoint != "" {
		cfg.BaseEndpoint = sdkaws.String(endpoint)
	}

	return cfg, nil
}

// StorageConfig describes an S3-compatible bucket endpoint (Supabase Storage
// exposes one at <project>/storage/v1/s3).
type StorageConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// LoadStorageConfig builds an AWS config with static credentials for the
// object-storage endpoint, independent of the ambient AWS credentials.
func LoadStorageConfig(ctx context.Context, sc StorageConfig) (sdkaws.Config, error) {
	region := sc.Region
	if region == "" {
		region = defaultRegion
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(sc.AccessKeyID, sc.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return cfg, fmt.Errorf("failed to load storage config: %w", err)
	}
	if sc.Endpoint != "" {
		cfg.BaseEndpoint = sdkaws.String(sc.Endpoint)
	}
	return cfg, nil
}
