package aws

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// EC2Clienter is the subset of the EC2 API needed to observe and mutate
// instance state.
type EC2Clienter interface {
	DescribeInstances(
		ctx context.Context,
		params *ec2.DescribeInstancesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeInstancesOutput, error)
	StopInstances(
		ctx context.Context,
		params *ec2.StopInstancesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.StopInstancesOutput, error)
	StartInstances(
		ctx context.Context,
		params *ec2.StartInstancesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.StartInstancesOutput, error)
	RebootInstances(
		ctx context.Context,
		params *ec2.RebootInstancesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.RebootInstancesOutput, error)
	TerminateInstances(
		ctx context.Context,
		params *ec2.TerminateInstancesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.TerminateInstancesOutput, error)
}

type STSClienter interface {
	GetCallerIdentity(
		ctx context.Context,
		params *sts.GetCallerIdentityInput,
		optFns ...func(*sts.Options),
	) (*sts.GetCallerIdentityOutput, error)
}

// Config selects the region and, optionally, explicit credentials. Without
// credentials the default chain (env, shared config, IMDS) is used.
type Config struct {
	Region          string `mapstructure:"region"`
	Profile         string `mapstructure:"profile"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// NewClients loads the SDK configuration and builds the EC2 and STS clients.
func NewClients(ctx context.Context, cfg Config) (*ec2.Client, *sts.Client, error) {
	if cfg.Region == "" {
		return nil, nil, fmt.Errorf("aws region is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return ec2.NewFromConfig(awsCfg), sts.NewFromConfig(awsCfg), nil
}
