package display

import (
	"context"
	"time"

	"github.com/bacalhau-project/convergence/pkg/lifecycle"
	"github.com/bacalhau-project/convergence/pkg/poller"
	tea "github.com/charmbracelet/bubbletea"
)

// WatchFunc runs the polls, reporting attempts through notify.
type WatchFunc func(ctx context.Context, notify func(poller.Attempt)) ([]lifecycle.Result, error)

// RunWatch drives a WatchModel while run executes. Quitting the UI cancels
// the context passed to run.
func RunWatch(
	ctx context.Context,
	title string,
	ids []string,
	maxWait time.Duration,
	run WatchFunc,
	opts ...tea.ProgramOption,
) ([]lifecycle.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewWatchModel(title, ids, maxWait)
	model.Cancel = cancel
	p := tea.NewProgram(model, opts...)

	var (
		results []lifecycle.Result
		runErr  error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		results, runErr = run(ctx, func(a poller.Attempt) { p.Send(AttemptMsg(a)) })
		for _, r := range results {
			p.Send(ResultMsg(r))
		}
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return results, err
	}
	<-done
	return results, runErr
}
