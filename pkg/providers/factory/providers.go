package factory

import (
	"context"

	"github.com/bacalhau-project/convergence/pkg/config"
	"github.com/bacalhau-project/convergence/pkg/models"
	"github.com/bacalhau-project/convergence/pkg/providers/aws"
	"github.com/bacalhau-project/convergence/pkg/providers/azure"
	"github.com/bacalhau-project/convergence/pkg/providers/common"
	"github.com/bacalhau-project/convergence/pkg/providers/gcp"
	"github.com/bacalhau-project/convergence/pkg/providers/sdc"
)

func init() {
	RegisterProvider(models.ProviderAWS, newAWSDriver)
	RegisterProvider(models.ProviderAzure, newAzureDriver)
	RegisterProvider(models.ProviderGCP, newGCPDriver)
	RegisterProvider(models.ProviderSDC, newSDCDriver)
}

func newAWSDriver(ctx context.Context, cfg *config.Config, location string) (common.Driver, func(), error) {
	c := cfg.Providers.AWS
	if location != "" {
		c.Region = location
	}
	d, err := aws.NewDriver(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	return d, nil, nil
}

func newAzureDriver(_ context.Context, cfg *config.Config, location string) (common.Driver, func(), error) {
	c := cfg.Providers.Azure
	if location != "" {
		c.ResourceGroup = location
	}
	d, err := azure.NewDriver(c)
	if err != nil {
		return nil, nil, err
	}
	return d, nil, nil
}

func newGCPDriver(ctx context.Context, cfg *config.Config, location string) (common.Driver, func(), error) {
	c := cfg.Providers.GCP
	if location != "" {
		c.Zone = location
	}
	d, cleanup, err := gcp.NewDriver(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	return d, cleanup, nil
}

// newSDCDriver uses the first configured datacenter when no location is given.
func newSDCDriver(_ context.Context, cfg *config.Config, location string) (common.Driver, func(), error) {
	datacenter := location
	if datacenter == "" {
		if dcs := cfg.Providers.SDC.ConfiguredDatacenters(); len(dcs) > 0 {
			datacenter = dcs[0]
		}
	}
	d, err := sdc.NewDriver(cfg.Providers.SDC, datacenter)
	if err != nil {
		return nil, nil, err
	}
	return d, nil, nil
}
