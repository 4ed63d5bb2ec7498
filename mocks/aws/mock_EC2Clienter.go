package mocks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/stretchr/testify/mock"
)

type MockEC2Clienter struct {
	mock.Mock
}

func (m *MockEC2Clienter) DescribeInstances(
	ctx context.Context,
	params *ec2.DescribeInstancesInput,
	optFns ...func(*ec2.Options),
) (*ec2.DescribeInstancesOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ec2.DescribeInstancesOutput), args.Error(1)
}

func (m *MockEC2Clienter) StopInstances(
	ctx context.Context,
	params *ec2.StopInstancesInput,
	optFns ...func(*ec2.Options),
) (*ec2.StopInstancesOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ec2.StopInstancesOutput), args.Error(1)
}

func (m *MockEC2Clienter) StartInstances(
	ctx context.Context,
	params *ec2.StartInstancesInput,
	optFns ...func(*ec2.Options),
) (*ec2.StartInstancesOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ec2.StartInstancesOutput), args.Error(1)
}

func (m *MockEC2Clienter) RebootInstances(
	ctx context.Context,
	params *ec2.RebootInstancesInput,
	optFns ...func(*ec2.Options),
) (*ec2.RebootInstancesOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ec2.RebootInstancesOutput), args.Error(1)
}

func (m *MockEC2Clienter) TerminateInstances(
	ctx context.Context,
	params *ec2.TerminateInstancesInput,
	optFns ...func(*ec2.Options),
) (*ec2.TerminateInstancesOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ec2.TerminateInstancesOutput), args.Error(1)
}
