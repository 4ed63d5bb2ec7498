package gcp

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"cloud.google.com/go/compute/apiv1/computepb"
	"cloud.google.com/go/resourcemanager/apiv3/resourcemanagerpb"
	"github.com/bacalhau-project/convergence/internal/testdata"
	gcpmocks "github.com/bacalhau-project/convergence/mocks/gcp"
	"github.com/bacalhau-project/convergence/pkg/models"
	"github.com/bacalhau-project/convergence/pkg/poller"
	"github.com/bacalhau-project/convergence/pkg/providers/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
)

func newTestDriver() (*Driver, *gcpmocks.MockGCPClienter) {
	client := new(gcpmocks.MockGCPClienter)
	return &Driver{Client: client, ProjectID: "test-project", DefaultZone: "us-central1-a"}, client
}

func TestConvertInstanceStatus(t *testing.T) {
	tests := []struct {
		status   computepb.Instance_Status
		expected models.NodeStatus
	}{
		{computepb.Instance_PROVISIONING, models.NodeStatusPending},
		{computepb.Instance_STAGING, models.NodeStatusPending},
		{computepb.Instance_REPAIRING, models.NodeStatusPending},
		{computepb.Instance_RUNNING, models.NodeStatusRunning},
		{computepb.Instance_STOPPING, models.NodeStatusPending},
		{computepb.Instance_SUSPENDING, models.NodeStatusPending},
		{computepb.Instance_DEPROVISIONING, models.NodeStatusPending},
		{computepb.Instance_STOPPED, models.NodeStatusSuspended},
		{computepb.Instance_SUSPENDED, models.NodeStatusSuspended},
		{computepb.Instance_TERMINATED, models.NodeStatusSuspended},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, ConvertInstanceStatus(tt.status.String()))
		})
	}
	assert.Equal(t, models.NodeStatusUnrecognized, ConvertInstanceStatus("HIBERNATING"))
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	driver, client := newTestDriver()
	client.On("GetInstance", ctx, "test-project", "europe-west1-b", "vm1").
		Return(testdata.FakeGCPInstance(computepb.Instance_RUNNING), nil)
	client.On("GetInstance", ctx, "test-project", "us-central1-a", "vm2").
		Return(testdata.FakeGCPInstance(computepb.Instance_TERMINATED), nil)

	status, err := driver.Status(ctx, "europe-west1-b/vm1")
	require.NoError(t, err)
	assert.Equal(t, models.NodeStatusRunning, status)

	status, err = driver.Status(ctx, "vm2")
	require.NoError(t, err)
	assert.Equal(t, models.NodeStatusSuspended, status)
	client.AssertExpectations(t)
}

func TestStatusNotFound(t *testing.T) {
	ctx := context.Background()
	driver, client := newTestDriver()
	client.On("GetInstance", ctx, "test-project", "us-central1-a", "gone").
		Return(nil, &googleapi.Error{Code: http.StatusNotFound, Message: "not found"})

	_, err := driver.Status(ctx, "gone")
	assert.ErrorIs(t, err, poller.ErrNotFound)

	check := common.Gone(driver.Status, driver.Classify)
	done, err := check(ctx, "gone")
	require.NoError(t, err)
	assert.True(t, done)
}

func TestMutationsSubmitOperations(t *testing.T) {
	ctx := context.Background()
	driver, client := newTestDriver()
	client.On("StopInstance", ctx, "test-project", "us-central1-a", "vm1").Return("op-stop", nil)
	client.On("StartInstance", ctx, "test-project", "us-central1-a", "vm1").Return("op-start", nil)
	client.On("ResetInstance", ctx, "test-project", "us-central1-a", "vm1").Return("op-reset", nil)
	client.On("DeleteInstance", ctx, "test-project", "us-central1-a", "vm1").Return("op-delete", nil)

	tests := []struct {
		mutate func(context.Context, string) (common.Operation, error)
		opID   string
	}{
		{driver.Stop, "us-central1-a/op-stop"},
		{driver.Start, "us-central1-a/op-start"},
		{driver.Restart, "us-central1-a/op-reset"},
		{driver.Delete, "us-central1-a/op-delete"},
	}
	for _, tt := range tests {
		op, err := tt.mutate(ctx, "us-central1-a/vm1")
		require.NoError(t, err)
		assert.True(t, op.Tracked())
		assert.Equal(t, tt.opID, op.ID)
	}
	client.AssertExpectations(t)
}

func TestReturnedOperationPollsZoneOperation(t *testing.T) {
	ctx := context.Background()
	driver, client := newTestDriver()
	client.On("ResetInstance", ctx, "test-project", "us-central1-a", "vm1").Return("op-reset", nil)
	client.On("GetZoneOperation", mock.Anything, "test-project", "us-central1-a", "op-reset").
		Return(testdata.FakeGCPOperation(computepb.Operation_RUNNING), nil).Once()
	client.On("GetZoneOperation", mock.Anything, "test-project", "us-central1-a", "op-reset").
		Return(testdata.FakeGCPOperation(computepb.Operation_DONE), nil).Once()

	op, err := driver.Restart(ctx, "us-central1-a/vm1")
	require.NoError(t, err)

	outcome, err := poller.Await(ctx, op.ID, op.Done, poller.Options{
		MaxWait:    5 * time.Second,
		Period:     time.Millisecond,
		Classifier: driver.Classify,
	})
	require.NoError(t, err)
	assert.Equal(t, poller.Satisfied, outcome)
	client.AssertExpectations(t)
}

func TestInvalidIDWithoutDefaultZone(t *testing.T) {
	driver := &Driver{ProjectID: "p"}
	_, err := driver.Stop(context.Background(), "vm1")
	assert.ErrorIs(t, err, poller.ErrInvalidArgument)
	assert.Equal(t, poller.ClassNonRetryable, driver.Classify(err))
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected poller.Class
	}{
		{"http 404", &googleapi.Error{Code: http.StatusNotFound}, poller.ClassNotFound},
		{"http 409", &googleapi.Error{Code: http.StatusConflict}, poller.ClassTransient},
		{"http 403", &googleapi.Error{Code: http.StatusForbidden}, poller.ClassNonRetryable},
		{"grpc not found", status.Error(codes.NotFound, "missing"), poller.ClassNotFound},
		{"grpc unavailable", status.Error(codes.Unavailable, "down"), poller.ClassTransient},
		{"grpc aborted", status.Error(codes.Aborted, "conflict"), poller.ClassTransient},
		{"grpc permission denied", status.Error(codes.PermissionDenied, "no"), poller.ClassNonRetryable},
		{"wrapped grpc", fmt.Errorf("get: %w", status.Error(codes.Unauthenticated, "no")), poller.ClassNonRetryable},
		{"grpc internal", status.Error(codes.Internal, "oops"), poller.ClassTransient},
		{"plain", assert.AnError, poller.ClassTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyError(tt.err))
		})
	}
}

func TestOperationDone(t *testing.T) {
	ctx := context.Background()
	driver, client := newTestDriver()
	client.On("GetZoneOperation", mock.Anything, "test-project", "us-central1-a", "operation-1").
		Return(testdata.FakeGCPOperation(computepb.Operation_RUNNING), nil).Once()
	client.On("GetZoneOperation", mock.Anything, "test-project", "us-central1-a", "operation-1").
		Return(testdata.FakeGCPOperation(computepb.Operation_DONE), nil).Once()

	outcome, err := poller.Await(ctx, "us-central1-a/operation-1", driver.OperationDone(), poller.Options{
		MaxWait:    5 * time.Second,
		Period:     time.Millisecond,
		Classifier: driver.Classify,
	})
	require.NoError(t, err)
	assert.Equal(t, poller.Satisfied, outcome)
	client.AssertExpectations(t)
}

func TestOperationDoneWithErrorsFails(t *testing.T) {
	ctx := context.Background()
	driver, client := newTestDriver()
	op := testdata.FakeGCPOperation(computepb.Operation_DONE)
	op.Error = &computepb.Error{Errors: []*computepb.Errors{{
		Code:    proto.String("ZONE_RESOURCE_POOL_EXHAUSTED"),
		Message: proto.String("no capacity"),
	}}}
	client.On("GetZoneOperation", mock.Anything, "test-project", "us-central1-a", "operation-1").
		Return(op, nil).Once()

	outcome, err := poller.Await(ctx, "operation-1", driver.OperationDone(), poller.Options{
		MaxWait:    5 * time.Second,
		Period:     time.Millisecond,
		Classifier: driver.Classify,
	})
	assert.Equal(t, poller.Failed, outcome)
	assert.ErrorIs(t, err, errOperationFailed)
	assert.ErrorContains(t, err, "ZONE_RESOURCE_POOL_EXHAUSTED")
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	driver, client := newTestDriver()
	client.On("GetProject", ctx, "test-project").Return(&resourcemanagerpb.Project{
		ProjectId:   "test-project",
		DisplayName: "Test Project",
	}, nil)

	identity, err := driver.Verify(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Test Project (test-project)", identity)
}
