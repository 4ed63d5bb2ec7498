package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/bacalhau-project/convergence/pkg/logger"
	"github.com/bacalhau-project/convergence/pkg/models"
	"github.com/bacalhau-project/convergence/pkg/poller"
	"github.com/bacalhau-project/convergence/pkg/providers/common"
)

// Driver observes and mutates EC2 instances in one region. Resource ids are
// instance ids.
type Driver struct {
	EC2Client EC2Clienter
	STSClient STSClienter
}

var (
	_ common.Driver   = (*Driver)(nil)
	_ common.Verifier = (*Driver)(nil)
)

func NewDriver(ctx context.Context, cfg Config) (*Driver, error) {
	ec2Client, stsClient, err := NewClients(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Driver{EC2Client: ec2Client, STSClient: stsClient}, nil
}

func (d *Driver) Name() models.Provider { return models.ProviderAWS }

func (d *Driver) Status(ctx context.Context, instanceID string) (models.NodeStatus, error) {
	result, err := d.EC2Client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		err = fmt.Errorf("failed to describe instance %s: %w", instanceID, err)
		if ClassifyError(err) == poller.ClassNotFound {
			return models.NodeStatusUnrecognized, poller.NotFound(err)
		}
		return models.NodeStatusUnrecognized, err
	}

	if len(result.Reservations) == 0 || len(result.Reservations[0].Instances) == 0 {
		return models.NodeStatusUnrecognized, poller.NotFound(fmt.Errorf("no instances found for %s", instanceID))
	}

	instance := result.Reservations[0].Instances[0]
	if instance.State == nil {
		return models.NodeStatusUnrecognized, fmt.Errorf("instance state is nil")
	}
	return ConvertInstanceState(instance.State.Name), nil
}

func (d *Driver) Stop(ctx context.Context, instanceID string) (common.Operation, error) {
	out, err := d.EC2Client.StopInstances(ctx, &ec2.StopInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return common.Operation{}, fmt.Errorf("failed to stop instance %s: %w", instanceID, err)
	}
	logStateChanges(out.StoppingInstances)
	return common.Operation{}, nil
}

func (d *Driver) Start(ctx context.Context, instanceID string) (common.Operation, error) {
	out, err := d.EC2Client.StartInstances(ctx, &ec2.StartInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return common.Operation{}, fmt.Errorf("failed to start instance %s: %w", instanceID, err)
	}
	logStateChanges(out.StartingInstances)
	return common.Operation{}, nil
}

// Restart reboots the instance. EC2 keeps reporting running throughout a
// reboot, so the returned operation is marked InPlace.
func (d *Driver) Restart(ctx context.Context, instanceID string) (common.Operation, error) {
	_, err := d.EC2Client.RebootInstances(ctx, &ec2.RebootInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return common.Operation{}, fmt.Errorf("failed to reboot instance %s: %w", instanceID, err)
	}
	return common.Operation{InPlace: true}, nil
}

func (d *Driver) Delete(ctx context.Context, instanceID string) (common.Operation, error) {
	out, err := d.EC2Client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return common.Operation{}, fmt.Errorf("failed to terminate instance %s: %w", instanceID, err)
	}
	logStateChanges(out.TerminatingInstances)
	return common.Operation{}, nil
}

func logStateChanges(changes []types.InstanceStateChange) {
	l := logger.Get()
	for _, change := range changes {
		if change.PreviousState != nil && change.CurrentState != nil {
			l.Debugf("Instance %s: %s -> %s",
				aws.ToString(change.InstanceId), change.PreviousState.Name, change.CurrentState.Name)
		}
	}
}

func (d *Driver) Classify(err error) poller.Class {
	return ClassifyError(err)
}

// Verify returns the ARN of the caller.
func (d *Driver) Verify(ctx context.Context) (string, error) {
	if d.STSClient == nil {
		return "", fmt.Errorf("sts client is not configured")
	}
	identity, err := d.STSClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity: %w", err)
	}
	return aws.ToString(identity.Arn), nil
}
