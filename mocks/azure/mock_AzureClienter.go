package mocks

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/subscription/armsubscription"
	"github.com/bacalhau-project/convergence/pkg/providers/common"
	"github.com/stretchr/testify/mock"
)

type MockAzureClienter struct {
	mock.Mock
}

func (m *MockAzureClienter) InstanceView(
	ctx context.Context,
	resourceGroup, vmName string,
) (*armcompute.VirtualMachineInstanceView, error) {
	args := m.Called(ctx, resourceGroup, vmName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*armcompute.VirtualMachineInstanceView), args.Error(1)
}

func (m *MockAzureClienter) BeginPowerOff(
	ctx context.Context,
	resourceGroup, vmName string,
) (common.OperationPoller, error) {
	return operationPoller(m.Called(ctx, resourceGroup, vmName))
}

func (m *MockAzureClienter) BeginStart(
	ctx context.Context,
	resourceGroup, vmName string,
) (common.OperationPoller, error) {
	return operationPoller(m.Called(ctx, resourceGroup, vmName))
}

func (m *MockAzureClienter) BeginRestart(
	ctx context.Context,
	resourceGroup, vmName string,
) (common.OperationPoller, error) {
	return operationPoller(m.Called(ctx, resourceGroup, vmName))
}

func (m *MockAzureClienter) BeginDelete(
	ctx context.Context,
	resourceGroup, vmName string,
) (common.OperationPoller, error) {
	return operationPoller(m.Called(ctx, resourceGroup, vmName))
}

func operationPoller(args mock.Arguments) (common.OperationPoller, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(common.OperationPoller), args.Error(1)
}

func (m *MockAzureClienter) GetDeployment(
	ctx context.Context,
	resourceGroup, deploymentName string,
) (*armresources.DeploymentExtended, error) {
	args := m.Called(ctx, resourceGroup, deploymentName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*armresources.DeploymentExtended), args.Error(1)
}

func (m *MockAzureClienter) GetSubscription(ctx context.Context) (*armsubscription.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*armsubscription.Subscription), args.Error(1)
}

// MockOperationPoller is a mock for common.OperationPoller.
type MockOperationPoller struct {
	mock.Mock
}

func (m *MockOperationPoller) Poll(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}
