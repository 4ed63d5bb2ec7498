package gcp

import (
	"github.com/bacalhau-project/convergence/pkg/models"
)

// ConvertInstanceStatus maps a Compute Engine instance status onto the
// portable status. TERMINATED is a stopped instance, not a deleted one.
func ConvertInstanceStatus(status string) models.NodeStatus {
	switch status {
	case "PROVISIONING", "STAGING", "REPAIRING":
		return models.NodeStatusPending
	case "RUNNING":
		return models.NodeStatusRunning
	case "STOPPING", "SUSPENDING", "DEPROVISIONING":
		return models.NodeStatusPending
	case "STOPPED", "SUSPENDED", "TERMINATED":
		return models.NodeStatusSuspended
	}

	return models.NodeStatusUnrecognized
}
