package gcp

import (
	"context"
	"fmt"

	compute "cloud.google.com/go/compute/apiv1"
	"cloud.google.com/go/compute/apiv1/computepb"
	resourcemanager "cloud.google.com/go/resourcemanager/apiv3"
	"cloud.google.com/go/resourcemanager/apiv3/resourcemanagerpb"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// GCPClienter is the narrow Compute Engine surface used to observe and
// mutate instances. Mutations return the name of the zone operation.
type GCPClienter interface {
	GetInstance(ctx context.Context, project, zone, name string) (*computepb.Instance, error)
	StopInstance(ctx context.Context, project, zone, name string) (string, error)
	StartInstance(ctx context.Context, project, zone, name string) (string, error)
	ResetInstance(ctx context.Context, project, zone, name string) (string, error)
	DeleteInstance(ctx context.Context, project, zone, name string) (string, error)
	GetZoneOperation(ctx context.Context, project, zone, name string) (*computepb.Operation, error)
	GetProject(ctx context.Context, project string) (*resourcemanagerpb.Project, error)
}

type LiveGCPClient struct {
	instancesClient  *compute.InstancesClient
	operationsClient *compute.ZoneOperationsClient
	projectClient    *resourcemanager.ProjectsClient
}

var _ GCPClienter = (*LiveGCPClient)(nil)

// NewGCPClient builds REST clients from application default credentials and
// returns the credentials' project. The returned func closes the clients.
func NewGCPClient(ctx context.Context) (*LiveGCPClient, string, func(), error) {
	creds, err := google.FindDefaultCredentials(ctx, compute.DefaultAuthScopes()...)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to find default credentials: %w", err)
	}
	clientOpts := []option.ClientOption{option.WithCredentials(creds)}

	instancesClient, err := compute.NewInstancesRESTClient(ctx, clientOpts...)
	if err != nil {
		return nil, "", nil, fmt.Errorf("error creating instances client: %w", err)
	}
	operationsClient, err := compute.NewZoneOperationsRESTClient(ctx, clientOpts...)
	if err != nil {
		instancesClient.Close()
		return nil, "", nil, fmt.Errorf("error creating zone operations client: %w", err)
	}
	projectClient, err := resourcemanager.NewProjectsClient(ctx, clientOpts...)
	if err != nil {
		instancesClient.Close()
		operationsClient.Close()
		return nil, "", nil, fmt.Errorf("error creating projects client: %w", err)
	}

	c := &LiveGCPClient{
		instancesClient:  instancesClient,
		operationsClient: operationsClient,
		projectClient:    projectClient,
	}
	cleanup := func() {
		c.instancesClient.Close()
		c.operationsClient.Close()
		c.projectClient.Close()
	}
	return c, creds.ProjectID, cleanup, nil
}

func (c *LiveGCPClient) GetInstance(ctx context.Context, project, zone, name string) (*computepb.Instance, error) {
	return c.instancesClient.Get(ctx, &computepb.GetInstanceRequest{
		Project:  project,
		Zone:     zone,
		Instance: name,
	})
}

func (c *LiveGCPClient) StopInstance(ctx context.Context, project, zone, name string) (string, error) {
	op, err := c.instancesClient.Stop(ctx, &computepb.StopInstanceRequest{
		Project:  project,
		Zone:     zone,
		Instance: name,
	})
	if err != nil {
		return "", err
	}
	return op.Name(), nil
}

func (c *LiveGCPClient) StartInstance(ctx context.Context, project, zone, name string) (string, error) {
	op, err := c.instancesClient.Start(ctx, &computepb.StartInstanceRequest{
		Project:  project,
		Zone:     zone,
		Instance: name,
	})
	if err != nil {
		return "", err
	}
	return op.Name(), nil
}

func (c *LiveGCPClient) ResetInstance(ctx context.Context, project, zone, name string) (string, error) {
	op, err := c.instancesClient.Reset(ctx, &computepb.ResetInstanceRequest{
		Project:  project,
		Zone:     zone,
		Instance: name,
	})
	if err != nil {
		return "", err
	}
	return op.Name(), nil
}

func (c *LiveGCPClient) DeleteInstance(ctx context.Context, project, zone, name string) (string, error) {
	op, err := c.instancesClient.Delete(ctx, &computepb.DeleteInstanceRequest{
		Project:  project,
		Zone:     zone,
		Instance: name,
	})
	if err != nil {
		return "", err
	}
	return op.Name(), nil
}

func (c *LiveGCPClient) GetZoneOperation(
	ctx context.Context,
	project, zone, name string,
) (*computepb.Operation, error) {
	return c.operationsClient.Get(ctx, &computepb.GetZoneOperationRequest{
		Project:   project,
		Zone:      zone,
		Operation: name,
	})
}

func (c *LiveGCPClient) GetProject(ctx context.Context, project string) (*resourcemanagerpb.Project, error) {
	return c.projectClient.GetProject(ctx, &resourcemanagerpb.GetProjectRequest{
		Name: fmt.Sprintf("projects/%s", project),
	})
}
