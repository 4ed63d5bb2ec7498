package testdata

import (
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

// FakeVirtualMachineInstanceView returns an instance view carrying the usual
// provisioning status plus the given power state code, e.g. "PowerState/running".
func FakeVirtualMachineInstanceView(powerStateCode string) *armcompute.VirtualMachineInstanceView {
	statuses := []*armcompute.InstanceViewStatus{
		{
			Code:          to.Ptr("ProvisioningState/succeeded"),
			DisplayStatus: to.Ptr("Provisioning succeeded"),
			Level:         to.Ptr(armcompute.StatusLevelTypesInfo),
		},
	}
	if powerStateCode != "" {
		statuses = append(statuses, &armcompute.InstanceViewStatus{
			Code:  to.Ptr(powerStateCode),
			Level: to.Ptr(armcompute.StatusLevelTypesInfo),
		})
	}
	return &armcompute.VirtualMachineInstanceView{
		ComputerName: to.Ptr("vm1"),
		Statuses:     statuses,
	}
}

// FakeDeployment returns a deployment in the given provisioning state.
func FakeDeployment(state armresources.ProvisioningState) *armresources.DeploymentExtended {
	return &armresources.DeploymentExtended{
		Name: to.Ptr("deployment1"),
		Properties: &armresources.DeploymentPropertiesExtended{
			ProvisioningState: to.Ptr(state),
		},
	}
}
