package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"
)

// Outcome is the terminal result of a poll.
type Outcome int

const (
	Satisfied Outcome = iota
	TimedOut
	Failed
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Satisfied:
		return "satisfied"
	case TimedOut:
		return "timed out"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Check reports whether resourceID is in the desired state. It must be safe to
// call repeatedly and must not mutate the resource.
type Check func(ctx context.Context, resourceID string) (bool, error)

// Attempt is passed to Options.Notify after every check.
type Attempt struct {
	ResourceID string
	Number     int
	Elapsed    time.Duration
	Satisfied  bool
	Err        error
	Class      Class
}

// Options configures a single Await call.
type Options struct {
	MaxWait      time.Duration `validate:"gt=0"`
	Period       time.Duration `validate:"gt=0"`
	InitialDelay time.Duration `validate:"gte=0"`

	Classifier    Classifier
	MissingPolicy MissingPolicy
	Notify        func(Attempt)

	// Clock and NewTimer replace the wall clock, mainly for tests.
	Clock    backoff.Clock
	NewTimer func() backoff.Timer
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	errNotSatisfied    = errors.New("condition not satisfied")
	errDeadlineReached = errors.New("deadline reached")
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// Validate checks the duration triple without starting a poll.
func (o Options) Validate() error {
	if err := validatorInstance().Struct(o); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) {
			fe := ves[0]
			return fmt.Errorf("%w: %s must be %s %s, got %v",
				ErrInvalidArgument, fe.Field(), fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.Classifier == nil {
		o.Classifier = DefaultClassifier
	}
	if o.Clock == nil {
		o.Clock = backoff.SystemClock
	}
	if o.NewTimer == nil {
		o.NewTimer = newSystemTimer
	}
	return o
}

type poll struct {
	ctx        context.Context
	resourceID string
	check      Check
	opts       Options
	start      time.Time
	attempts   int
	lastErr    error
}

// Await blocks until check reports true for resourceID, the MaxWait budget is
// spent, check returns a non-retryable error, or ctx is done.
//
// The first check happens after InitialDelay; every later check follows the
// previous one by exactly Period of sleep. The budget is measured from the
// call, and at least one check is always made. When less than Period is left,
// the poll sleeps only until the budget ends and then times out. Invalid options fail with
// ErrInvalidArgument before any sleep.
func Await(ctx context.Context, resourceID string, check Check, opts Options) (Outcome, error) {
	if resourceID == "" {
		return Failed, fmt.Errorf("%w: resource id is empty", ErrInvalidArgument)
	}
	if check == nil {
		return Failed, fmt.Errorf("%w: check is nil", ErrInvalidArgument)
	}
	if err := opts.Validate(); err != nil {
		return Failed, err
	}
	opts = opts.withDefaults()

	p := &poll{
		ctx:        ctx,
		resourceID: resourceID,
		check:      check,
		opts:       opts,
		start:      opts.Clock.Now(),
	}

	timer := opts.NewTimer()
	if opts.InitialDelay > 0 {
		timer.Start(opts.InitialDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return p.finish(ctx.Err())
		case <-timer.C():
		}
	}

	b := backoff.WithContext(&budgetBackOff{poll: p}, ctx)
	return p.finish(backoff.RetryNotifyWithTimer(p.attempt, b, nil, timer))
}

// budgetBackOff waits Period between checks, but never sleeps past the end of
// the budget: the attempt that follows a shortened sleep reports the timeout
// instead of checking again.
type budgetBackOff struct {
	poll *poll
}

func (b *budgetBackOff) NextBackOff() time.Duration {
	remaining := b.poll.opts.MaxWait - b.poll.elapsed()
	switch {
	case remaining <= 0:
		return 0
	case remaining < b.poll.opts.Period:
		return remaining
	default:
		return b.poll.opts.Period
	}
}

func (b *budgetBackOff) Reset() {}

func (p *poll) elapsed() time.Duration {
	return p.opts.Clock.Now().Sub(p.start)
}

func (p *poll) attempt() error {
	if p.attempts > 0 && p.elapsed() >= p.opts.MaxWait {
		return backoff.Permanent(errDeadlineReached)
	}
	if err := p.ctx.Err(); err != nil {
		return backoff.Permanent(err)
	}

	p.attempts++
	ok, err := p.check(p.ctx, p.resourceID)

	a := Attempt{
		ResourceID: p.resourceID,
		Number:     p.attempts,
		Elapsed:    p.elapsed(),
		Satisfied:  ok && err == nil,
		Err:        err,
	}

	var result error
	switch {
	case err != nil && p.ctx.Err() != nil:
		result = backoff.Permanent(p.ctx.Err())
	case err != nil:
		a.Class = p.opts.Classifier(err)
		result = p.classified(err, a.Class)
	case !ok:
		p.lastErr = nil
		result = errNotSatisfied
	}

	if p.opts.Notify != nil {
		p.opts.Notify(a)
	}
	return result
}

func (p *poll) classified(err error, class Class) error {
	switch class {
	case ClassNonRetryable:
		return backoff.Permanent(&nonRetryableError{err: err})
	case ClassNotFound:
		if p.opts.MissingPolicy == MissingIsFailure {
			return backoff.Permanent(&nonRetryableError{err: err})
		}
	}
	p.lastErr = err
	return err
}

func (p *poll) finish(err error) (Outcome, error) {
	if err == nil {
		return Satisfied, nil
	}

	pe := &Error{
		ResourceID: p.resourceID,
		Attempts:   p.attempts,
		Elapsed:    p.elapsed(),
	}

	var nr *nonRetryableError
	switch {
	case errors.Is(err, errDeadlineReached):
		pe.Outcome = TimedOut
		pe.Cause = p.lastErr
	case errors.As(err, &nr):
		pe.Outcome = Failed
		pe.Cause = nr.err
	case p.ctx.Err() != nil:
		pe.Outcome = Cancelled
		pe.Cause = p.ctx.Err()
	default:
		pe.Outcome = Failed
		pe.Cause = err
	}
	return pe.Outcome, pe
}
