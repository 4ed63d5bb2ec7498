package sdc

import (
	"strings"

	"github.com/bacalhau-project/convergence/pkg/models"
)

// MachineState is the state string CloudAPI reports for a machine.
type MachineState string

const (
	MachineStateProvisioning MachineState = "provisioning"
	MachineStateRunning      MachineState = "running"
	MachineStateStopping     MachineState = "stopping"
	MachineStateOffline      MachineState = "offline"
	MachineStateStopped      MachineState = "stopped"
	MachineStateDeleted      MachineState = "deleted"
	MachineStateUnrecognized MachineState = "unrecognized"
)

// ToPortableStatus maps every known machine state onto the portable status.
var ToPortableStatus = map[MachineState]models.NodeStatus{
	MachineStateProvisioning: models.NodeStatusPending,
	MachineStateRunning:      models.NodeStatusRunning,
	MachineStateStopping:     models.NodeStatusPending,
	MachineStateOffline:      models.NodeStatusPending,
	MachineStateStopped:      models.NodeStatusSuspended,
	MachineStateDeleted:      models.NodeStatusTerminated,
	MachineStateUnrecognized: models.NodeStatusUnrecognized,
}

func ParseMachineState(s string) MachineState {
	state := MachineState(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := ToPortableStatus[state]; ok {
		return state
	}
	return MachineStateUnrecognized
}

func (s *MachineState) UnmarshalText(text []byte) error {
	*s = ParseMachineState(string(text))
	return nil
}

func (s MachineState) PortableStatus() models.NodeStatus {
	if status, ok := ToPortableStatus[s]; ok {
		return status
	}
	return models.NodeStatusUnrecognized
}
