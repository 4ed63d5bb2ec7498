package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/bacalhau-project/convergence/pkg/config"
	"github.com/bacalhau-project/convergence/pkg/models"
	"github.com/bacalhau-project/convergence/pkg/providers/common"
	"github.com/bacalhau-project/convergence/pkg/providers/factory"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// driverFactory matches factory.GetDriver so tests can substitute drivers.
type driverFactory func(
	ctx context.Context,
	cfg *config.Config,
	provider models.Provider,
	location string,
) (common.Driver, func(), error)

var newDriverFunc driverFactory = factory.GetDriver

var errNoIDs = errors.New("at least one resource id is required (--id or arguments)")

// targetFlags are shared by every command that talks to a provider.
type targetFlags struct {
	provider string
	location string
	ids      []string
}

func (t *targetFlags) register(cmd *cobra.Command, withIDs bool) {
	cmd.Flags().StringVarP(&t.provider, "provider", "p", "",
		"Provider to use: aws, azure, gcp or sdc (default general.default_provider)")
	cmd.Flags().StringVarP(&t.location, "location", "l", "",
		"AWS region, Azure resource group, GCP zone or SDC datacenter")
	if withIDs {
		cmd.Flags().StringSliceVar(&t.ids, "id", nil, "Resource id; repeat or comma-separate for several")
	}
}

// resourceIDs merges --id values with positional arguments.
func (t *targetFlags) resourceIDs(args []string) ([]string, error) {
	ids := append(append([]string{}, t.ids...), args...)
	if len(ids) == 0 {
		return nil, errNoIDs
	}
	return ids, nil
}

// open loads the effective configuration and builds the selected driver.
func (t *targetFlags) open(cmd *cobra.Command) (*config.Config, common.Driver, func(), error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, nil, nil, err
	}

	provider := cfg.DefaultProvider()
	if t.provider != "" {
		if provider, err = models.ParseProvider(t.provider); err != nil {
			return nil, nil, nil, err
		}
	}

	driver, cleanup, err := newDriverFunc(cmd.Context(), cfg, provider, t.location)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to set up %s driver: %w", provider, err)
	}
	return cfg, driver, cleanup, nil
}
