package aws

import (
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/bacalhau-project/convergence/pkg/models"
)

var instanceStateToStatus = map[types.InstanceStateName]models.NodeStatus{
	types.InstanceStateNamePending:      models.NodeStatusPending,
	types.InstanceStateNameRunning:      models.NodeStatusRunning,
	types.InstanceStateNameStopping:     models.NodeStatusPending,
	types.InstanceStateNameShuttingDown: models.NodeStatusPending,
	types.InstanceStateNameStopped:      models.NodeStatusSuspended,
	types.InstanceStateNameTerminated:   models.NodeStatusTerminated,
}

func ConvertInstanceState(state types.InstanceStateName) models.NodeStatus {
	if status, ok := instanceStateToStatus[state]; ok {
		return status
	}
	return models.NodeStatusUnrecognized
}
