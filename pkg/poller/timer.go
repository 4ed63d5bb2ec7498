package poller

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

type systemTimer struct {
	timer *time.Timer
}

func newSystemTimer() backoff.Timer {
	return &systemTimer{}
}

func (t *systemTimer) C() <-chan time.Time {
	return t.timer.C
}

func (t *systemTimer) Start(duration time.Duration) {
	if t.timer == nil {
		t.timer = time.NewTimer(duration)
	} else {
		t.timer.Reset(duration)
	}
}

func (t *systemTimer) Stop() {
	if t.timer != nil {
		t.timer.Stop()
	}
}
