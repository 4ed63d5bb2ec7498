package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/bacalhau-project/convergence/pkg/display"
	"github.com/bacalhau-project/convergence/pkg/lifecycle"
	"github.com/bacalhau-project/convergence/pkg/logger"
	"github.com/bacalhau-project/convergence/pkg/poller"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type managerOp func(m *lifecycle.Manager) func(ctx context.Context, id string) error

// newLifecycleCmd builds a command that applies op to every id in turn and
// waits for each change to land before moving on.
func newLifecycleCmd(use, short, long string, op managerOp) *cobra.Command {
	t := &targetFlags{}
	cmd := &cobra.Command{
		Use:   use + " [ID...]",
		Short: short,
		Long:  long,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := t.resourceIDs(args)
			if err != nil {
				return err
			}
			cfg, driver, cleanup, err := t.open(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			manager := lifecycle.NewManager(driver, cfg.Profiles)
			run := op(manager)
			ctx := logger.IntoContext(cmd.Context(),
				logger.Get().With(zap.String("provider", string(driver.Name()))))

			var errs []error
			for _, id := range ids {
				s := display.NewSpinner(fmt.Sprintf("%s %s", use, id))
				manager.Notify = func(a poller.Attempt) {
					s.Lock()
					s.Suffix = display.AttemptSuffix(a)
					s.Unlock()
				}
				err := run(ctx, id)
				s.Stop()

				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s failed: %v\n", id, use, err)
					errs = append(errs, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s done\n", id, use)
			}
			return errors.Join(errs...)
		},
	}
	t.register(cmd, true)
	return cmd
}

func GetStopCmd() *cobra.Command {
	return newLifecycleCmd("stop", "Stop resources and wait until they are suspended",
		`Submit a stop request, retrying while the provider reports a conflicting
transition, then wait under the "stopped" profile until the resource is SUSPENDED.`,
		func(m *lifecycle.Manager) func(context.Context, string) error { return m.Shutdown })
}

func GetStartCmd() *cobra.Command {
	return newLifecycleCmd("start", "Start resources and wait until they are running",
		`Submit a start request, retrying while the provider reports a conflicting
transition, then wait under the "ready" profile until the resource is RUNNING.`,
		func(m *lifecycle.Manager) func(context.Context, string) error { return m.Start })
}

func GetRestartCmd() *cobra.Command {
	return newLifecycleCmd("restart", "Restart resources and wait until they are running again",
		`Submit a reboot request, retrying while the provider reports a conflicting
transition, then wait under the "ready" profile until the resource is RUNNING.`,
		func(m *lifecycle.Manager) func(context.Context, string) error { return m.Restart })
}

func GetDeleteCmd() *cobra.Command {
	return newLifecycleCmd("delete", "Delete resources and wait until they are gone",
		`Submit a delete request, then wait under the "deleted" profile until the
resource is TERMINATED or no longer exists. Deleting a missing resource succeeds.`,
		func(m *lifecycle.Manager) func(context.Context, string) error { return m.Delete })
}
