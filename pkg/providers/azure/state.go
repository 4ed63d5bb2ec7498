package azure

import (
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute"
	"github.com/bacalhau-project/convergence/pkg/models"
)

const (
	powerStatePrefix        = "PowerState/"
	provisioningStatePrefix = "ProvisioningState/"
)

var powerStateToStatus = map[string]models.NodeStatus{
	"starting":     models.NodeStatusPending,
	"running":      models.NodeStatusRunning,
	"stopping":     models.NodeStatusPending,
	"deallocating": models.NodeStatusPending,
	"stopped":      models.NodeStatusSuspended,
	"deallocated":  models.NodeStatusSuspended,
}

// ConvertInstanceView derives the portable status from the status codes of a
// VM instance view. Provisioning failures and deletions take precedence over
// the power state; a VM without a power state is still being created.
func ConvertInstanceView(view *armcompute.VirtualMachineInstanceView) models.NodeStatus {
	if view == nil {
		return models.NodeStatusUnrecognized
	}

	var powerState string
	for _, s := range view.Statuses {
		if s == nil || s.Code == nil {
			continue
		}
		code := strings.ToLower(*s.Code)
		switch {
		case strings.HasPrefix(code, strings.ToLower(provisioningStatePrefix)+"failed"):
			return models.NodeStatusError
		case code == strings.ToLower(provisioningStatePrefix)+"deleting":
			return models.NodeStatusPending
		case strings.HasPrefix(code, strings.ToLower(powerStatePrefix)):
			powerState = strings.TrimPrefix(code, strings.ToLower(powerStatePrefix))
		}
	}

	if powerState == "" {
		return models.NodeStatusPending
	}
	if status, ok := powerStateToStatus[powerState]; ok {
		return status
	}
	return models.NodeStatusUnrecognized
}
