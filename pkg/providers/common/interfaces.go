// pkg/providers/common/interfaces.go
package common

import (
	"context"

	"github.com/bacalhau-project/convergence/pkg/models"
	"github.com/bacalhau-project/convergence/pkg/poller"
)

// StatusFunc returns the portable status of a resource, or an error wrapping
// poller.ErrNotFound when the resource does not exist.
type StatusFunc func(ctx context.Context, resourceID string) (models.NodeStatus, error)

// Operation is a mutation the provider accepted. When Done is set it polls
// the provider-side request named by ID until that request finishes.
// Without Done, completion is only visible through Status.
type Operation struct {
	ID   string
	Done poller.Check
	// InPlace marks requests the provider applies without ever reporting an
	// intermediate status, such as an EC2 reboot.
	InPlace bool
}

// Tracked reports whether the operation can be polled to completion.
func (o Operation) Tracked() bool {
	return o.ID != "" && o.Done != nil
}

// OperationPoller follows one long-running provider request. Poll refreshes
// the request and reports whether it finished; a request that finished
// without succeeding is returned as an error.
type OperationPoller interface {
	Poll(ctx context.Context) (bool, error)
}

// TrackPoller wraps an SDK poller as an Operation named id. A nil poller
// yields an untracked Operation.
func TrackPoller(id string, p OperationPoller) Operation {
	if p == nil {
		return Operation{}
	}
	return Operation{
		ID: id,
		Done: func(ctx context.Context, _ string) (bool, error) {
			return p.Poll(ctx)
		},
	}
}

// Driver is what every provider adapter implements. Mutating calls only
// submit the request and return the accepted Operation.
type Driver interface {
	Name() models.Provider
	Status(ctx context.Context, resourceID string) (models.NodeStatus, error)
	Stop(ctx context.Context, resourceID string) (Operation, error)
	Start(ctx context.Context, resourceID string) (Operation, error)
	Restart(ctx context.Context, resourceID string) (Operation, error)
	Delete(ctx context.Context, resourceID string) (Operation, error)
	Classify(err error) poller.Class
}

// Verifier is implemented by drivers that can confirm their credentials.
// Verify returns the identity the provider sees.
type Verifier interface {
	Verify(ctx context.Context) (string, error)
}
