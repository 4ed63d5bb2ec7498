package lifecycle

import (
	"context"
	"errors"

	"github.com/bacalhau-project/convergence/pkg/models"
	"github.com/bacalhau-project/convergence/pkg/poller"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the number of resources polled at once.
const DefaultConcurrency = 8

// Result is the outcome of one resource in AwaitAll.
type Result struct {
	ID      string
	Outcome poller.Outcome
	Err     error
}

// AwaitAll waits for every id to report one of wants.
func (m *Manager) AwaitAll(
	ctx context.Context,
	ids []string,
	profile string,
	wants ...models.NodeStatus,
) ([]Result, error) {
	if len(wants) == 0 {
		return nil, errNoTarget
	}
	return m.AwaitEach(ctx, ids, profile, m.StatusCheck(wants...))
}

// AwaitEach polls every id independently with the same check and profile.
// A failure of one resource does not cancel the others. Results are in input
// order, and the error joins every non-satisfied result in that order.
func (m *Manager) AwaitEach(
	ctx context.Context,
	ids []string,
	profile string,
	check poller.Check,
) ([]Result, error) {
	results := make([]Result, len(ids))

	var g errgroup.Group
	g.SetLimit(DefaultConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			outcome, err := m.Await(ctx, id, profile, check)
			results[i] = Result{ID: id, Outcome: outcome, Err: err}
			return nil
		})
	}
	// Polls report through results; Wait only bounds and joins them.
	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return results, errors.Join(errs...)
}
