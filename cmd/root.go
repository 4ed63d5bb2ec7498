package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bacalhau-project/convergence/pkg/config"
	"github.com/bacalhau-project/convergence/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	verboseMode bool
	logLevel    string
)

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "convergence",
		Short: "Wait for cloud resources to reach a desired state",
		Long: `Convergence polls cloud resources until they reach a desired state,
giving up after a bounded wait. It can also stop, start, restart and delete
instances on AWS, Azure, GCP and Joyent SDC and wait for the change to land.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/"+config.ConfigFileName+".yaml)")
	rootCmd.PersistentFlags().BoolVar(&verboseMode, "verbose", false, "Log to the console at debug level")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override general.log_level")

	rootCmd.AddCommand(
		GetAwaitCmd(),
		GetStopCmd(),
		GetStartCmd(),
		GetRestartCmd(),
		GetDeleteCmd(),
		GetStatusCmd(),
		GetProfilesCmd(),
		GetCheckCmd(),
	)
	return rootCmd
}

// Execute runs the command tree against os.Args. It is called by main.main().
// An interrupt cancels any poll in progress.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func initConfig(_ *cobra.Command, _ []string) error {
	if err := config.Init(cfgFile); err != nil {
		return err
	}

	logger.InitLoggerOutputs()
	if verboseMode {
		logger.GlobalEnableConsoleLogger = true
		logger.GlobalLogLevel = "debug"
	}
	if logLevel != "" {
		switch logLevel {
		case "debug", "info", "warn", "error":
			logger.GlobalLogLevel = logLevel
		default:
			return fmt.Errorf("invalid log level %q", logLevel)
		}
	}

	logPath := ""
	if logger.GlobalEnableFileLogger {
		logPath = logger.GlobalLogPath
	}
	return logger.Initialize(logger.Config{
		Level:         logger.GlobalLogLevel,
		FilePath:      logPath,
		Format:        "json",
		EnableConsole: logger.GlobalEnableConsoleLogger,
	})
}
