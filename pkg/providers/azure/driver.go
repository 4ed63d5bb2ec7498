package azure

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/bacalhau-project/convergence/pkg/models"
	"github.com/bacalhau-project/convergence/pkg/poller"
	"github.com/bacalhau-project/convergence/pkg/providers/common"
)

type Config struct {
	SubscriptionID string `mapstructure:"subscription_id"`
	// ResourceGroup is used for ids that do not name one.
	ResourceGroup string `mapstructure:"resource_group"`
}

// Driver observes and mutates virtual machines of one subscription. Resource
// ids are "resourceGroup/vmName".
type Driver struct {
	Client               AzureClienter
	DefaultResourceGroup string
}

var (
	_ common.Driver   = (*Driver)(nil)
	_ common.Verifier = (*Driver)(nil)
)

func NewDriver(cfg Config) (*Driver, error) {
	client, err := NewAzureClient(cfg.SubscriptionID)
	if err != nil {
		return nil, err
	}
	return &Driver{Client: client, DefaultResourceGroup: cfg.ResourceGroup}, nil
}

// splitID returns the resource group and name encoded in id.
func (d *Driver) splitID(id string) (string, string, error) {
	group, name, ok := strings.Cut(id, "/")
	if !ok {
		group, name = d.DefaultResourceGroup, id
	}
	if group == "" || name == "" {
		return "", "", poller.NonRetryable(
			fmt.Errorf("%w: azure id %q must be resourceGroup/name", poller.ErrInvalidArgument, id))
	}
	return group, name, nil
}

func (d *Driver) Name() models.Provider { return models.ProviderAzure }

func (d *Driver) Status(ctx context.Context, id string) (models.NodeStatus, error) {
	group, vmName, err := d.splitID(id)
	if err != nil {
		return models.NodeStatusUnrecognized, err
	}
	view, err := d.Client.InstanceView(ctx, group, vmName)
	if err != nil {
		if ClassifyError(err) == poller.ClassNotFound {
			return models.NodeStatusUnrecognized, poller.NotFound(err)
		}
		return models.NodeStatusUnrecognized, err
	}
	return ConvertInstanceView(view), nil
}

func (d *Driver) mutate(
	ctx context.Context,
	id, verb string,
	begin func(context.Context, string, string) (common.OperationPoller, error),
) (common.Operation, error) {
	group, vmName, err := d.splitID(id)
	if err != nil {
		return common.Operation{}, err
	}
	lro, err := begin(ctx, group, vmName)
	if err != nil {
		return common.Operation{}, fmt.Errorf("failed to %s virtual machine %s: %w", verb, id, HandleAzureError(err))
	}
	return common.TrackPoller(verb+" "+group+"/"+vmName, lro), nil
}

func (d *Driver) Stop(ctx context.Context, id string) (common.Operation, error) {
	return d.mutate(ctx, id, "power off", d.Client.BeginPowerOff)
}

func (d *Driver) Start(ctx context.Context, id string) (common.Operation, error) {
	return d.mutate(ctx, id, "start", d.Client.BeginStart)
}

func (d *Driver) Restart(ctx context.Context, id string) (common.Operation, error) {
	return d.mutate(ctx, id, "restart", d.Client.BeginRestart)
}

func (d *Driver) Delete(ctx context.Context, id string) (common.Operation, error) {
	return d.mutate(ctx, id, "delete", d.Client.BeginDelete)
}

func (d *Driver) Classify(err error) poller.Class {
	return ClassifyError(err)
}

// Verify returns the display name and id of the configured subscription.
func (d *Driver) Verify(ctx context.Context) (string, error) {
	sub, err := d.Client.GetSubscription(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get subscription: %w", err)
	}
	name, id := "", ""
	if sub.DisplayName != nil {
		name = *sub.DisplayName
	}
	if sub.SubscriptionID != nil {
		id = *sub.SubscriptionID
	}
	return fmt.Sprintf("%s (%s)", name, id), nil
}

var (
	errDeploymentTerminal = errors.New("deployment reached a terminal state")
	errOperationFailed    = errors.New("operation failed")
)

// DeploymentSucceeded checks an ARM deployment identified by
// "resourceGroup/deploymentName". Failed and Canceled deployments abort the poll.
func (d *Driver) DeploymentSucceeded() poller.Check {
	return func(ctx context.Context, id string) (bool, error) {
		group, name, err := d.splitID(id)
		if err != nil {
			return false, err
		}
		deployment, err := d.Client.GetDeployment(ctx, group, name)
		if err != nil {
			return false, err
		}
		if deployment.Properties == nil || deployment.Properties.ProvisioningState == nil {
			return false, nil
		}

		switch state := *deployment.Properties.ProvisioningState; state {
		case armresources.ProvisioningStateSucceeded:
			return true, nil
		case armresources.ProvisioningStateFailed, armresources.ProvisioningStateCanceled:
			return false, poller.NonRetryable(fmt.Errorf("%w: %s is %s", errDeploymentTerminal, id, state))
		default:
			return false, nil
		}
	}
}
