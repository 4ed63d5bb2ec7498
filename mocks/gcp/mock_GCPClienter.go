package mocks

import (
	"context"

	"cloud.google.com/go/compute/apiv1/computepb"
	"cloud.google.com/go/resourcemanager/apiv3/resourcemanagerpb"
	"github.com/stretchr/testify/mock"
)

type MockGCPClienter struct {
	mock.Mock
}

func (m *MockGCPClienter) GetInstance(ctx context.Context, project, zone, name string) (*computepb.Instance, error) {
	args := m.Called(ctx, project, zone, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*computepb.Instance), args.Error(1)
}

func (m *MockGCPClienter) StopInstance(ctx context.Context, project, zone, name string) (string, error) {
	args := m.Called(ctx, project, zone, name)
	return args.String(0), args.Error(1)
}

func (m *MockGCPClienter) StartInstance(ctx context.Context, project, zone, name string) (string, error) {
	args := m.Called(ctx, project, zone, name)
	return args.String(0), args.Error(1)
}

func (m *MockGCPClienter) ResetInstance(ctx context.Context, project, zone, name string) (string, error) {
	args := m.Called(ctx, project, zone, name)
	return args.String(0), args.Error(1)
}

func (m *MockGCPClienter) DeleteInstance(ctx context.Context, project, zone, name string) (string, error) {
	args := m.Called(ctx, project, zone, name)
	return args.String(0), args.Error(1)
}

func (m *MockGCPClienter) GetZoneOperation(
	ctx context.Context,
	project, zone, name string,
) (*computepb.Operation, error) {
	args := m.Called(ctx, project, zone, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*computepb.Operation), args.Error(1)
}

func (m *MockGCPClienter) GetProject(ctx context.Context, project string) (*resourcemanagerpb.Project, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resourcemanagerpb.Project), args.Error(1)
}
