package gcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/compute/apiv1/computepb"
	"github.com/bacalhau-project/convergence/pkg/logger"
	"github.com/bacalhau-project/convergence/pkg/models"
	"github.com/bacalhau-project/convergence/pkg/poller"
	"github.com/bacalhau-project/convergence/pkg/providers/common"
)

type Config struct {
	ProjectID string `mapstructure:"project_id"`
	// Zone is used for ids that do not name one.
	Zone string `mapstructure:"zone"`
}

// Driver observes and mutates instances of one project. Resource ids are
// "zone/instance".
type Driver struct {
	Client      GCPClienter
	ProjectID   string
	DefaultZone string
}

var (
	_ common.Driver   = (*Driver)(nil)
	_ common.Verifier = (*Driver)(nil)
)

// NewDriver falls back to the project of the default credentials when
// cfg.ProjectID is empty.
func NewDriver(ctx context.Context, cfg Config) (*Driver, func(), error) {
	client, credsProject, cleanup, err := NewGCPClient(ctx)
	if err != nil {
		return nil, nil, err
	}
	project := cfg.ProjectID
	if project == "" {
		project = credsProject
	}
	if project == "" {
		cleanup()
		return nil, nil, fmt.Errorf("gcp project id is required")
	}
	return &Driver{Client: client, ProjectID: project, DefaultZone: cfg.Zone}, cleanup, nil
}

func (d *Driver) splitID(id string) (string, string, error) {
	zone, name, ok := strings.Cut(id, "/")
	if !ok {
		zone, name = d.DefaultZone, id
	}
	if zone == "" || name == "" {
		return "", "", poller.NonRetryable(
			fmt.Errorf("%w: gcp id %q must be zone/name", poller.ErrInvalidArgument, id))
	}
	return zone, name, nil
}

func (d *Driver) Name() models.Provider { return models.ProviderGCP }

func (d *Driver) Status(ctx context.Context, id string) (models.NodeStatus, error) {
	zone, name, err := d.splitID(id)
	if err != nil {
		return models.NodeStatusUnrecognized, err
	}
	instance, err := d.Client.GetInstance(ctx, d.ProjectID, zone, name)
	if err != nil {
		if ClassifyError(err) == poller.ClassNotFound {
			return models.NodeStatusUnrecognized, poller.NotFound(err)
		}
		return models.NodeStatusUnrecognized, err
	}
	return ConvertInstanceStatus(instance.GetStatus()), nil
}

// mutate submits a request and returns its zone operation, which
// OperationDone polls by "zone/operationName".
func (d *Driver) mutate(
	ctx context.Context,
	id, verb string,
	submit func(context.Context, string, string, string) (string, error),
) (common.Operation, error) {
	l := logger.Get()
	zone, name, err := d.splitID(id)
	if err != nil {
		return common.Operation{}, err
	}
	opName, err := submit(ctx, d.ProjectID, zone, name)
	if err != nil {
		return common.Operation{}, fmt.Errorf("failed to %s instance %s: %w", verb, id, err)
	}
	opID := zone + "/" + opName
	l.Debugf("Submitted %s for %s as operation %s", verb, id, opID)
	return common.Operation{ID: opID, Done: d.OperationDone()}, nil
}

func (d *Driver) Stop(ctx context.Context, id string) (common.Operation, error) {
	return d.mutate(ctx, id, "stop", d.Client.StopInstance)
}

func (d *Driver) Start(ctx context.Context, id string) (common.Operation, error) {
	return d.mutate(ctx, id, "start", d.Client.StartInstance)
}

func (d *Driver) Restart(ctx context.Context, id string) (common.Operation, error) {
	return d.mutate(ctx, id, "reset", d.Client.ResetInstance)
}

func (d *Driver) Delete(ctx context.Context, id string) (common.Operation, error) {
	return d.mutate(ctx, id, "delete", d.Client.DeleteInstance)
}

func (d *Driver) Classify(err error) poller.Class {
	return ClassifyError(err)
}

// Verify returns the display name of the configured project.
func (d *Driver) Verify(ctx context.Context) (string, error) {
	project, err := d.Client.GetProject(ctx, d.ProjectID)
	if err != nil {
		return "", fmt.Errorf("failed to get project %s: %w", d.ProjectID, err)
	}
	return fmt.Sprintf("%s (%s)", project.GetDisplayName(), project.GetProjectId()), nil
}

var errOperationFailed = errors.New("operation failed")

// OperationDone checks a zone operation identified by "zone/operationName".
// An operation that finished with errors aborts the poll.
func (d *Driver) OperationDone() poller.Check {
	return func(ctx context.Context, id string) (bool, error) {
		zone, name, err := d.splitID(id)
		if err != nil {
			return false, err
		}
		op, err := d.Client.GetZoneOperation(ctx, d.ProjectID, zone, name)
		if err != nil {
			return false, err
		}
		if op.GetStatus() != computepb.Operation_DONE {
			return false, nil
		}
		if opErrs := op.GetError().GetErrors(); len(opErrs) > 0 {
			return false, poller.NonRetryable(
				fmt.Errorf("%w: %s: %s", errOperationFailed, opErrs[0].GetCode(), opErrs[0].GetMessage()))
		}
		return true, nil
	}
}
