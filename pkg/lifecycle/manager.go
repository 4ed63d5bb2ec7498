package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/bacalhau-project/convergence/pkg/config"
	"github.com/bacalhau-project/convergence/pkg/logger"
	"github.com/bacalhau-project/convergence/pkg/models"
	"github.com/bacalhau-project/convergence/pkg/poller"
	"github.com/bacalhau-project/convergence/pkg/providers/common"
	"go.uber.org/zap"
)

var errNoTarget = fmt.Errorf("%w: no target status", poller.ErrInvalidArgument)

// Manager runs mutate-then-await flows against a single driver. Driver may be
// nil when only Await is used with a check that does not talk to a provider;
// errors are then classified by poller.DefaultClassifier.
type Manager struct {
	Driver   common.Driver
	Profiles map[string]config.Profile
	// Notify, when set, receives every poll attempt after it is logged.
	Notify func(poller.Attempt)
}

func NewManager(driver common.Driver, profiles map[string]config.Profile) *Manager {
	if profiles == nil {
		profiles = config.DefaultProfiles()
	}
	return &Manager{Driver: driver, Profiles: profiles}
}

func (m *Manager) options(profile string) (poller.Options, error) {
	p, ok := m.Profiles[profile]
	if !ok {
		return poller.Options{}, fmt.Errorf("%w %q", config.ErrUnknownProfile, profile)
	}
	if p.Period > p.MaxWait/2 {
		logger.Get().Warnf("Profile %s checks every %s within %s; expect at most a couple of checks",
			profile, p.Period, p.MaxWait)
	}

	opts := p.Options()
	if m.Driver != nil {
		opts.Classifier = m.Driver.Classify
	}
	opts.Notify = m.notify
	return opts, nil
}

func (m *Manager) notify(a poller.Attempt) {
	fields := []zap.Field{
		zap.String("resource", a.ResourceID),
		zap.Int("attempt", a.Number),
		zap.Duration("elapsed", a.Elapsed),
		zap.Bool("satisfied", a.Satisfied),
	}
	if m.Driver != nil {
		fields = append(fields, zap.String("provider", string(m.Driver.Name())))
	}
	if a.Err != nil {
		fields = append(fields, zap.Error(a.Err), zap.Stringer("class", a.Class))
	}
	logger.Get().DebugWithFields("Poll attempt", fields...)

	if m.Notify != nil {
		m.Notify(a)
	}
}

// Await polls check under the named profile.
func (m *Manager) Await(ctx context.Context, id, profile string, check poller.Check) (poller.Outcome, error) {
	opts, err := m.options(profile)
	if err != nil {
		return poller.Failed, err
	}
	return poller.Await(ctx, id, check, opts)
}

// StatusCheck is satisfied once the resource reports one of wants. An ERROR
// status aborts the poll unless it is itself wanted.
func (m *Manager) StatusCheck(wants ...models.NodeStatus) poller.Check {
	fetch := common.StatusFunc(m.Driver.Status)
	if !containsStatus(wants, models.NodeStatusError) {
		fetch = common.FailOnError(fetch)
	}
	return common.StatusIn(fetch, wants...)
}

// GoneCheck is satisfied once the resource is terminated or no longer exists.
func (m *Manager) GoneCheck() poller.Check {
	return common.Gone(m.Driver.Status, m.Driver.Classify)
}

// AwaitStatus waits until the resource reports one of wants.
func (m *Manager) AwaitStatus(
	ctx context.Context,
	id, profile string,
	wants ...models.NodeStatus,
) (poller.Outcome, error) {
	if len(wants) == 0 {
		return poller.Failed, errNoTarget
	}
	return m.Await(ctx, id, profile, m.StatusCheck(wants...))
}

// AwaitGone waits until the resource is terminated or no longer exists.
func (m *Manager) AwaitGone(ctx context.Context, id, profile string) (poller.Outcome, error) {
	return m.Await(ctx, id, profile, m.GoneCheck())
}

// Mutation submits a change to one resource and returns what the provider
// accepted.
type Mutation func(ctx context.Context, id string) (common.Operation, error)

// RetryOnConflict submits op until the provider accepts it and returns the
// accepted operation. The first submission goes out immediately; the
// profile's InitialDelay is ignored. Transient errors such as a conflicting
// transition in progress are retried every Period; a missing resource fails
// immediately.
func (m *Manager) RetryOnConflict(
	ctx context.Context,
	id, profile string,
	op Mutation,
) (common.Operation, error) {
	opts, err := m.options(profile)
	if err != nil {
		return common.Operation{}, err
	}
	opts.InitialDelay = 0
	opts.MissingPolicy = poller.MissingIsFailure

	var accepted common.Operation
	submit := func(ctx context.Context, id string) (bool, error) {
		o, err := op(ctx, id)
		if err != nil {
			return false, err
		}
		accepted = o
		return true, nil
	}
	if _, err := poller.Await(ctx, id, submit, opts); err != nil {
		return common.Operation{}, err
	}
	return accepted, nil
}

// awaitDeparture waits until the resource reports something other than from.
// Checks start right away so a short transition is not missed.
func (m *Manager) awaitDeparture(ctx context.Context, id string, from models.NodeStatus) error {
	opts, err := m.options(config.ProfileReady)
	if err != nil {
		return err
	}
	opts.InitialDelay = 0
	opts.MissingPolicy = poller.MissingIsFailure

	fetch := common.FailOnError(m.Driver.Status)
	left := func(ctx context.Context, id string) (bool, error) {
		status, err := fetch(ctx, id)
		if err != nil {
			return false, err
		}
		return status != from, nil
	}
	_, err = poller.Await(ctx, id, left, opts)
	return err
}

// mutateAndAwait submits op, waits for the provider to finish it, then runs
// await. When the provider returns no operation to follow and leave is set,
// the resource must first be seen outside leave, so a status left over from
// before the request cannot satisfy await.
func (m *Manager) mutateAndAwait(
	ctx context.Context,
	id, verb string,
	op Mutation,
	leave models.NodeStatus,
	await func(context.Context, string) (poller.Outcome, error),
) error {
	l := logger.FromContext(ctx)

	accepted, err := m.RetryOnConflict(ctx, id, config.ProfileOperation, op)
	if err != nil {
		return fmt.Errorf("%s %s: %w", verb, id, err)
	}
	l.Debugf("%s accepted for %s", verb, id)

	switch {
	case accepted.Tracked():
		if _, err := m.Await(ctx, accepted.ID, config.ProfileOperation, accepted.Done); err != nil {
			return fmt.Errorf("%s %s: operation %s: %w", verb, id, accepted.ID, err)
		}
		l.Debugf("Operation %s for %s finished", accepted.ID, id)
	case leave != models.NodeStatusUnrecognized && !accepted.InPlace:
		if err := m.awaitDeparture(ctx, id, leave); err != nil {
			return fmt.Errorf("%s %s: waiting to leave %s: %w", verb, id, leave, err)
		}
		l.Debugf("%s left %s", id, leave)
	}

	if _, err := await(ctx, id); err != nil {
		return fmt.Errorf("%s %s: %w", verb, id, err)
	}
	l.Infof("%s of %s completed", verb, id)
	return nil
}

// Shutdown stops the resource and waits until it is SUSPENDED.
func (m *Manager) Shutdown(ctx context.Context, id string) error {
	return m.mutateAndAwait(ctx, id, "stop", m.Driver.Stop, models.NodeStatusUnrecognized,
		func(ctx context.Context, id string) (poller.Outcome, error) {
			return m.AwaitStatus(ctx, id, config.ProfileStopped, models.NodeStatusSuspended)
		})
}

// Start starts the resource and waits until it is RUNNING.
func (m *Manager) Start(ctx context.Context, id string) error {
	return m.mutateAndAwait(ctx, id, "start", m.Driver.Start, models.NodeStatusUnrecognized, m.AwaitReady)
}

// Restart reboots the resource and waits until it is RUNNING again. Unless
// the provider reports the reboot as an operation, the resource has to leave
// RUNNING first.
func (m *Manager) Restart(ctx context.Context, id string) error {
	return m.mutateAndAwait(ctx, id, "restart", m.Driver.Restart, models.NodeStatusRunning, m.AwaitReady)
}

// Delete removes the resource and waits until it is gone. Deleting a resource
// that no longer exists succeeds.
func (m *Manager) Delete(ctx context.Context, id string) error {
	del := func(ctx context.Context, id string) (common.Operation, error) {
		op, err := m.Driver.Delete(ctx, id)
		if err != nil && (errors.Is(err, poller.ErrNotFound) || m.Driver.Classify(err) == poller.ClassNotFound) {
			return common.Operation{}, nil
		}
		return op, err
	}
	return m.mutateAndAwait(ctx, id, "delete", del, models.NodeStatusUnrecognized,
		func(ctx context.Context, id string) (poller.Outcome, error) {
			return m.AwaitGone(ctx, id, config.ProfileDeleted)
		})
}

// AwaitReady waits until the resource is RUNNING.
func (m *Manager) AwaitReady(ctx context.Context, id string) (poller.Outcome, error) {
	return m.AwaitStatus(ctx, id, config.ProfileReady, models.NodeStatusRunning)
}

func containsStatus(statuses []models.NodeStatus, s models.NodeStatus) bool {
	for _, status := range statuses {
		if status == s {
			return true
		}
	}
	return false
}
