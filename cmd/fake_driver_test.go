package cmd

import (
	"context"
	"errors"
	"sync"

	"github.com/bacalhau-project/convergence/pkg/config"
	"github.com/bacalhau-project/convergence/pkg/models"
	"github.com/bacalhau-project/convergence/pkg/poller"
	"github.com/bacalhau-project/convergence/pkg/providers/common"
)

var errBoom = errors.New("500 internal error")

// fakeDriver holds one status per resource. Mutations move resources
// straight to their end state.
type fakeDriver struct {
	mu       sync.Mutex
	statuses map[string]models.NodeStatus
	failing  map[string]bool
	calls    []string

	provider models.Provider
	location string
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		statuses: map[string]models.NodeStatus{},
		failing:  map[string]bool{},
	}
}

func (f *fakeDriver) set(id string, status models.NodeStatus) *fakeDriver {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = status
	return f
}

func (f *fakeDriver) get(id string) (models.NodeStatus, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.statuses[id]
	return s, ok
}

func (f *fakeDriver) factory(
	_ context.Context,
	_ *config.Config,
	provider models.Provider,
	location string,
) (common.Driver, func(), error) {
	f.provider = provider
	f.location = location
	return f, func() {}, nil
}

func (f *fakeDriver) Name() models.Provider { return models.ProviderSDC }

func (f *fakeDriver) Status(_ context.Context, id string) (models.NodeStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[id] {
		return models.NodeStatusUnrecognized, errBoom
	}
	s, ok := f.statuses[id]
	if !ok {
		return models.NodeStatusUnrecognized, poller.NotFound(errors.New(id + " not found"))
	}
	return s, nil
}

// mutate returns an operation that is already done, as a provider would
// once the transition finished.
func (f *fakeDriver) mutate(verb, id string, to models.NodeStatus, remove bool) (common.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, verb+" "+id)
	if _, ok := f.statuses[id]; !ok {
		return common.Operation{}, poller.NotFound(errors.New(id + " not found"))
	}
	if remove {
		delete(f.statuses, id)
	} else {
		f.statuses[id] = to
	}
	return common.Operation{
		ID:   verb + " " + id,
		Done: func(context.Context, string) (bool, error) { return true, nil },
	}, nil
}

func (f *fakeDriver) Stop(_ context.Context, id string) (common.Operation, error) {
	return f.mutate("stop", id, models.NodeStatusSuspended, false)
}

func (f *fakeDriver) Start(_ context.Context, id string) (common.Operation, error) {
	return f.mutate("start", id, models.NodeStatusRunning, false)
}

func (f *fakeDriver) Restart(_ context.Context, id string) (common.Operation, error) {
	return f.mutate("restart", id, models.NodeStatusRunning, false)
}

func (f *fakeDriver) Delete(_ context.Context, id string) (common.Operation, error) {
	return f.mutate("delete", id, models.NodeStatusTerminated, true)
}

func (f *fakeDriver) Classify(err error) poller.Class {
	return poller.DefaultClassifier(err)
}

func (f *fakeDriver) Verify(context.Context) (string, error) {
	return "admin", nil
}
