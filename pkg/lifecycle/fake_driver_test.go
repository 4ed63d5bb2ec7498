package lifecycle

import (
	"context"
	"errors"
	"sync"

	"github.com/bacalhau-project/convergence/pkg/models"
	"github.com/bacalhau-project/convergence/pkg/poller"
	"github.com/bacalhau-project/convergence/pkg/providers/common"
)

var (
	errConflict  = errors.New("409 conflict: transition in progress")
	errForbidden = errors.New("403 forbidden")
)

// fakeDriver walks each resource through a scripted list of statuses, one
// per Status call, and repeats the last one.
type fakeDriver struct {
	mu        sync.Mutex
	scripts   map[string][]models.NodeStatus
	missing   map[string]bool
	mutateErr map[string][]error
	ops       map[string]common.Operation
	calls     map[string]int
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		scripts:   map[string][]models.NodeStatus{},
		missing:   map[string]bool{},
		mutateErr: map[string][]error{},
		ops:       map[string]common.Operation{},
		calls:     map[string]int{},
	}
}

func (f *fakeDriver) script(id string, statuses ...models.NodeStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[id] = statuses
}

func (f *fakeDriver) failMutations(verb string, errs ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutateErr[verb] = errs
}

// returnOperation makes verb return op once it is accepted.
func (f *fakeDriver) returnOperation(verb string, op common.Operation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops[verb] = op
}

func (f *fakeDriver) callCount(verb string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[verb]
}

func (f *fakeDriver) Name() models.Provider { return models.ProviderSDC }

func (f *fakeDriver) Status(_ context.Context, id string) (models.NodeStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["status"]++

	if f.missing[id] {
		return models.NodeStatusUnrecognized, poller.NotFound(errors.New(id + " not found"))
	}
	s := f.scripts[id]
	if len(s) == 0 {
		return models.NodeStatusUnrecognized, poller.NotFound(errors.New(id + " not found"))
	}
	status := s[0]
	if len(s) > 1 {
		f.scripts[id] = s[1:]
	}
	return status, nil
}

func (f *fakeDriver) mutate(verb string) (common.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[verb]++

	errs := f.mutateErr[verb]
	if len(errs) == 0 {
		return f.ops[verb], nil
	}
	f.mutateErr[verb] = errs[1:]
	if errs[0] != nil {
		return common.Operation{}, errs[0]
	}
	return f.ops[verb], nil
}

func (f *fakeDriver) Stop(context.Context, string) (common.Operation, error) {
	return f.mutate("stop")
}

func (f *fakeDriver) Start(context.Context, string) (common.Operation, error) {
	return f.mutate("start")
}

func (f *fakeDriver) Restart(context.Context, string) (common.Operation, error) {
	return f.mutate("restart")
}

func (f *fakeDriver) Delete(context.Context, string) (common.Operation, error) {
	return f.mutate("delete")
}

func (f *fakeDriver) Classify(err error) poller.Class {
	switch {
	case errors.Is(err, errConflict):
		return poller.ClassTransient
	case errors.Is(err, errForbidden):
		return poller.ClassNonRetryable
	default:
		return poller.DefaultClassifier(err)
	}
}
