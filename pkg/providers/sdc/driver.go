package sdc

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/bacalhau-project/convergence/pkg/models"
	"github.com/bacalhau-project/convergence/pkg/poller"
	"github.com/bacalhau-project/convergence/pkg/providers/common"
)

// Config describes the CloudAPI endpoints available to an account.
type Config struct {
	Login          string            `mapstructure:"login"`
	PrivateKeyPath string            `mapstructure:"private_key_path"`
	Datacenters    map[string]string `mapstructure:"datacenters"`
}

// ConfiguredDatacenters returns the datacenter names in stable order.
func (c Config) ConfiguredDatacenters() []string {
	names := make([]string, 0, len(c.Datacenters))
	for name := range c.Datacenters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Driver adapts a datacenter's machine API to common.Driver.
type Driver struct {
	Client Clienter
}

var (
	_ common.Driver   = (*Driver)(nil)
	_ common.Verifier = (*Driver)(nil)
)

// NewDriver builds a driver for one configured datacenter.
func NewDriver(cfg Config, datacenter string) (*Driver, error) {
	endpoint, ok := cfg.Datacenters[datacenter]
	if !ok {
		return nil, fmt.Errorf("datacenter %q is not configured (have %v)", datacenter, cfg.ConfiguredDatacenters())
	}
	client, err := NewClient(endpoint, cfg.Login, cfg.PrivateKeyPath)
	if err != nil {
		return nil, err
	}
	return &Driver{Client: client}, nil
}

func (d *Driver) Name() models.Provider { return models.ProviderSDC }

func (d *Driver) Status(ctx context.Context, machineID string) (models.NodeStatus, error) {
	m, err := d.Client.GetMachine(ctx, machineID)
	if err != nil {
		if d.Classify(err) == poller.ClassNotFound {
			return models.NodeStatusUnrecognized, poller.NotFound(err)
		}
		return models.NodeStatusUnrecognized, err
	}
	return m.State.PortableStatus(), nil
}

// CloudAPI machine actions return no job to follow; their progress shows up
// in the machine state.

func (d *Driver) Stop(ctx context.Context, machineID string) (common.Operation, error) {
	return common.Operation{}, d.Client.MachineAction(ctx, machineID, "stop")
}

func (d *Driver) Start(ctx context.Context, machineID string) (common.Operation, error) {
	return common.Operation{}, d.Client.MachineAction(ctx, machineID, "start")
}

func (d *Driver) Restart(ctx context.Context, machineID string) (common.Operation, error) {
	return common.Operation{}, d.Client.MachineAction(ctx, machineID, "reboot")
}

func (d *Driver) Delete(ctx context.Context, machineID string) (common.Operation, error) {
	return common.Operation{}, d.Client.DeleteMachine(ctx, machineID)
}

func (d *Driver) Verify(ctx context.Context) (string, error) {
	account, err := d.Client.GetAccount(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to verify CloudAPI credentials: %w", err)
	}
	return account.Login, nil
}

// Classify uses the HTTP status of CloudAPI errors. A machine that is busy
// with another transition is reported as 409 and retried.
func (d *Driver) Classify(err error) poller.Class {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == "ResourceNotFound" {
			return poller.ClassNotFound
		}
		return common.ClassifyHTTPStatus(apiErr.StatusCode)
	}
	return poller.DefaultClassifier(err)
}
