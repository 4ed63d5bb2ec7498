package models

import (
	"fmt"
	"strings"
)

// NodeStatus is the provider-independent state of a compute resource.
type NodeStatus int

const (
	NodeStatusUnrecognized NodeStatus = iota
	NodeStatusPending
	NodeStatusRunning
	NodeStatusSuspended
	NodeStatusTerminated
	NodeStatusError
)

var nodeStatusNames = map[NodeStatus]string{
	NodeStatusUnrecognized: "UNRECOGNIZED",
	NodeStatusPending:      "PENDING",
	NodeStatusRunning:      "RUNNING",
	NodeStatusSuspended:    "SUSPENDED",
	NodeStatusTerminated:   "TERMINATED",
	NodeStatusError:        "ERROR",
}

func (s NodeStatus) String() string {
	if name, ok := nodeStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("NodeStatus(%d)", int(s))
}

// ParseNodeStatus is case-insensitive and also accepts the common aliases
// "stopped" and "deleted".
func ParseNodeStatus(s string) (NodeStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	switch normalized {
	case "STOPPED":
		return NodeStatusSuspended, nil
	case "DELETED":
		return NodeStatusTerminated, nil
	}
	for status, name := range nodeStatusNames {
		if name == normalized {
			return status, nil
		}
	}
	return NodeStatusUnrecognized, fmt.Errorf("unknown node status %q", s)
}

// IsTransitional reports whether the status is expected to change on its own.
func (s NodeStatus) IsTransitional() bool {
	return s == NodeStatusPending
}

func (s NodeStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
