package display

import (
	"fmt"
	"time"

	"github.com/bacalhau-project/convergence/pkg/logger"
	"github.com/bacalhau-project/convergence/pkg/poller"
	"github.com/briandowns/spinner"
)

// NewSpinner creates a new spinner to alert the user about the progress
func NewSpinner(message string) *spinner.Spinner {
	l := logger.Get()
	l.Debugf("Creating spinner: %s", message)

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Prefix = message + " "
	s.Color("green")
	s.Start()

	return s
}

// AttemptSuffix describes a poll attempt for a spinner suffix.
func AttemptSuffix(a poller.Attempt) string {
	suffix := fmt.Sprintf(" attempt %d, %s elapsed", a.Number, a.Elapsed.Truncate(time.Second))
	if a.Err != nil {
		suffix += fmt.Sprintf(" (%s: %v)", a.Class, a.Err)
	}
	return suffix
}
