package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/subscription/armsubscription"
	"github.com/bacalhau-project/convergence/pkg/poller"
	"github.com/bacalhau-project/convergence/pkg/providers/common"
)

// AzureClienter is the narrow ARM surface used to observe and mutate virtual
// machines. Begin* calls submit the long-running operation and return a
// poller for it without waiting.
type AzureClienter interface {
	InstanceView(ctx context.Context, resourceGroup, vmName string) (*armcompute.VirtualMachineInstanceView, error)
	BeginPowerOff(ctx context.Context, resourceGroup, vmName string) (common.OperationPoller, error)
	BeginStart(ctx context.Context, resourceGroup, vmName string) (common.OperationPoller, error)
	BeginRestart(ctx context.Context, resourceGroup, vmName string) (common.OperationPoller, error)
	BeginDelete(ctx context.Context, resourceGroup, vmName string) (common.OperationPoller, error)
	GetDeployment(ctx context.Context, resourceGroup, deploymentName string) (*armresources.DeploymentExtended, error)
	GetSubscription(ctx context.Context) (*armsubscription.Subscription, error)
}

// LiveAzureClient wraps all Azure SDK calls
type LiveAzureClient struct {
	subscriptionID      string
	vmClient            *armcompute.VirtualMachinesClient
	deploymentsClient   *armresources.DeploymentsClient
	subscriptionsClient *armsubscription.SubscriptionsClient
}

var _ AzureClienter = (*LiveAzureClient)(nil)

// NewAzureClient authenticates with the default credential chain (env,
// managed identity, az CLI).
func NewAzureClient(subscriptionID string) (*LiveAzureClient, error) {
	if subscriptionID == "" {
		return nil, fmt.Errorf("azure subscription id is required")
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain Azure credential: %w", err)
	}
	return newAzureClientWithCredential(subscriptionID, cred)
}

func newAzureClientWithCredential(subscriptionID string, cred azcore.TokenCredential) (*LiveAzureClient, error) {
	vmClient, err := armcompute.NewVirtualMachinesClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, err
	}
	deploymentsClient, err := armresources.NewDeploymentsClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, err
	}
	subscriptionsClient, err := armsubscription.NewSubscriptionsClient(cred, nil)
	if err != nil {
		return nil, err
	}

	return &LiveAzureClient{
		subscriptionID:      subscriptionID,
		vmClient:            vmClient,
		deploymentsClient:   deploymentsClient,
		subscriptionsClient: subscriptionsClient,
	}, nil
}

func (c *LiveAzureClient) InstanceView(
	ctx context.Context,
	resourceGroup, vmName string,
) (*armcompute.VirtualMachineInstanceView, error) {
	resp, err := c.vmClient.InstanceView(ctx, resourceGroup, vmName, nil)
	if err != nil {
		return nil, err
	}
	return &resp.VirtualMachineInstanceView, nil
}

func (c *LiveAzureClient) BeginPowerOff(
	ctx context.Context,
	resourceGroup, vmName string,
) (common.OperationPoller, error) {
	p, err := c.vmClient.BeginPowerOff(ctx, resourceGroup, vmName, nil)
	return newLROPoller(p, err)
}

func (c *LiveAzureClient) BeginStart(
	ctx context.Context,
	resourceGroup, vmName string,
) (common.OperationPoller, error) {
	p, err := c.vmClient.BeginStart(ctx, resourceGroup, vmName, nil)
	return newLROPoller(p, err)
}

func (c *LiveAzureClient) BeginRestart(
	ctx context.Context,
	resourceGroup, vmName string,
) (common.OperationPoller, error) {
	p, err := c.vmClient.BeginRestart(ctx, resourceGroup, vmName, nil)
	return newLROPoller(p, err)
}

func (c *LiveAzureClient) BeginDelete(
	ctx context.Context,
	resourceGroup, vmName string,
) (common.OperationPoller, error) {
	p, err := c.vmClient.BeginDelete(ctx, resourceGroup, vmName, nil)
	return newLROPoller(p, err)
}

// lroPoller adapts an azcore poller to common.OperationPoller.
type lroPoller[T any] struct {
	p *runtime.Poller[T]
}

func newLROPoller[T any](p *runtime.Poller[T], err error) (common.OperationPoller, error) {
	if err != nil {
		return nil, err
	}
	return &lroPoller[T]{p: p}, nil
}

func (l *lroPoller[T]) Poll(ctx context.Context) (bool, error) {
	if !l.p.Done() {
		if _, err := l.p.Poll(ctx); err != nil {
			return false, err
		}
		if !l.p.Done() {
			return false, nil
		}
	}
	if _, err := l.p.Result(ctx); err != nil {
		return false, poller.NonRetryable(fmt.Errorf("%w: %w", errOperationFailed, err))
	}
	return true, nil
}

func (c *LiveAzureClient) GetDeployment(
	ctx context.Context,
	resourceGroup, deploymentName string,
) (*armresources.DeploymentExtended, error) {
	resp, err := c.deploymentsClient.Get(ctx, resourceGroup, deploymentName, nil)
	if err != nil {
		return nil, err
	}
	return &resp.DeploymentExtended, nil
}

func (c *LiveAzureClient) GetSubscription(ctx context.Context) (*armsubscription.Subscription, error) {
	resp, err := c.subscriptionsClient.Get(ctx, c.subscriptionID, nil)
	if err != nil {
		return nil, err
	}
	return &resp.Subscription, nil
}
