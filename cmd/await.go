package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bacalhau-project/convergence/pkg/config"
	"github.com/bacalhau-project/convergence/pkg/display"
	"github.com/bacalhau-project/convergence/pkg/lifecycle"
	"github.com/bacalhau-project/convergence/pkg/models"
	"github.com/bacalhau-project/convergence/pkg/poller"
	"github.com/bacalhau-project/convergence/pkg/providers/common"
	"github.com/bacalhau-project/convergence/pkg/sshutils"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	targetGone                = "gone"
	targetDeploymentSucceeded = "deployment-succeeded"
	targetOperationDone       = "operation-done"
	targetSSHReady            = "ssh-ready"
)

// Implemented by the Azure and GCP drivers respectively.
type deploymentChecker interface {
	DeploymentSucceeded() poller.Check
}

type operationChecker interface {
	OperationDone() poller.Check
}

type awaitOptions struct {
	targetFlags
	status       string
	profile      string
	timeout      time.Duration
	period       time.Duration
	initialDelay time.Duration
	watch        bool

	sshUser string
	sshKey  string
	sshPort int
}

func GetAwaitCmd() *cobra.Command {
	o := &awaitOptions{}
	cmd := &cobra.Command{
		Use:   "await [ID...]",
		Short: "Wait until resources reach a status",
		Long: `Poll one or more resources until each reports the requested status,
the profile's wait budget runs out, or the provider reports an error that
cannot clear up by waiting. Exits non-zero unless every resource converged.

Targets: running, suspended, terminated, pending, error, gone (terminated or
missing), deployment-succeeded (Azure ARM deployments "group/name"),
operation-done (GCP zone operations "zone/name") and ssh-ready. For ssh-ready
the ids are hosts that must accept an SSH session, and no provider
credentials are needed.`,
		RunE: o.run,
	}

	o.register(cmd, true)
	cmd.Flags().StringVarP(&o.status, "status", "s", "running", "Target status")
	cmd.Flags().StringVar(&o.profile, "profile", config.ProfileReady, "Poll profile supplying the budget and period")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "Override the profile's max wait")
	cmd.Flags().DurationVar(&o.period, "period", 0, "Override the profile's period")
	cmd.Flags().DurationVar(&o.initialDelay, "initial-delay", 0, "Override the profile's initial delay")
	cmd.Flags().BoolVarP(&o.watch, "watch", "w", false, "Show an interactive progress view")
	cmd.Flags().StringVar(&o.sshUser, "ssh-user", "", "User for ssh-ready (default general.ssh_user)")
	cmd.Flags().StringVar(&o.sshKey, "ssh-key", "", "Private key for ssh-ready (default general.ssh_private_key_path)")
	cmd.Flags().IntVar(&o.sshPort, "ssh-port", 0, "Port for ssh-ready hosts without one (default general.ssh_port)")
	return cmd
}

func (o *awaitOptions) run(cmd *cobra.Command, args []string) error {
	ids, err := o.resourceIDs(args)
	if err != nil {
		return err
	}
	var (
		cfg    *config.Config
		driver common.Driver
		source string
	)
	if strings.EqualFold(o.status, targetSSHReady) {
		if cfg, err = config.Load(viper.GetViper()); err != nil {
			return err
		}
		source = "SSH"
	} else {
		var cleanup func()
		if cfg, driver, cleanup, err = o.open(cmd); err != nil {
			return err
		}
		defer cleanup()
		source = driver.Name().Abbreviation()
	}

	profileName := strings.ToLower(o.profile)
	profile, err := cfg.Profile(profileName)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("timeout") {
		profile.MaxWait = o.timeout
	}
	if cmd.Flags().Changed("period") {
		profile.Period = o.period
	}
	if cmd.Flags().Changed("initial-delay") {
		profile.InitialDelay = o.initialDelay
	}
	cfg.Profiles[profileName] = profile

	manager := lifecycle.NewManager(driver, cfg.Profiles)
	check, err := o.check(cfg, manager, driver)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var results []lifecycle.Result
	switch {
	case o.watch:
		title := fmt.Sprintf("Waiting for %s on %s", o.status, source)
		results, err = display.RunWatch(ctx, title, ids, profile.MaxWait,
			func(ctx context.Context, notify func(poller.Attempt)) ([]lifecycle.Result, error) {
				manager.Notify = notify
				return manager.AwaitEach(ctx, ids, profileName, check)
			})
	case len(ids) == 1:
		s := display.NewSpinner(fmt.Sprintf("Waiting for %s to be %s", ids[0], o.status))
		manager.Notify = func(a poller.Attempt) {
			s.Lock()
			s.Suffix = display.AttemptSuffix(a)
			s.Unlock()
		}
		outcome, awaitErr := manager.Await(ctx, ids[0], profileName, check)
		s.Stop()
		results = []lifecycle.Result{{ID: ids[0], Outcome: outcome, Err: awaitErr}}
		err = awaitErr
	default:
		results, err = manager.AwaitEach(ctx, ids, profileName, check)
	}

	printResults(cmd.OutOrStdout(), results)
	return err
}

func (o *awaitOptions) check(cfg *config.Config, m *lifecycle.Manager, driver common.Driver) (poller.Check, error) {
	switch strings.ToLower(o.status) {
	case targetSSHReady:
		return o.sshCheck(cfg)
	case targetGone:
		return m.GoneCheck(), nil
	case targetDeploymentSucceeded:
		d, ok := driver.(deploymentChecker)
		if !ok {
			return nil, fmt.Errorf("%s does not support %s", driver.Name(), targetDeploymentSucceeded)
		}
		return d.DeploymentSucceeded(), nil
	case targetOperationDone:
		d, ok := driver.(operationChecker)
		if !ok {
			return nil, fmt.Errorf("%s does not support %s", driver.Name(), targetOperationDone)
		}
		return d.OperationDone(), nil
	}

	status, err := models.ParseNodeStatus(o.status)
	if err != nil {
		return nil, err
	}
	return m.StatusCheck(status), nil
}

func (o *awaitOptions) sshCheck(cfg *config.Config) (poller.Check, error) {
	user, key, port := cfg.General.SSHUser, cfg.General.SSHPrivateKeyPath, cfg.General.SSHPort
	if o.sshUser != "" {
		user = o.sshUser
	}
	if o.sshKey != "" {
		expanded, err := homedir.Expand(o.sshKey)
		if err != nil {
			return nil, err
		}
		key = expanded
	}
	if o.sshPort != 0 {
		port = o.sshPort
	}

	sshConfig, err := sshutils.NewSSHConfig(user, key, port)
	if err != nil {
		return nil, err
	}
	return sshConfig.Reachable()
}

func printResults(w io.Writer, results []lifecycle.Result) {
	for _, r := range results {
		if r.Err == nil {
			fmt.Fprintf(w, "%s: %s\n", r.ID, r.Outcome)
			continue
		}
		var pe *poller.Error
		if errors.As(r.Err, &pe) {
			fmt.Fprintln(w, pe.Error())
			continue
		}
		fmt.Fprintf(w, "%s: %s: %v\n", r.ID, r.Outcome, r.Err)
	}
}
