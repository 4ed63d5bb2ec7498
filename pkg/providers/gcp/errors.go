package gcp

import (
	"errors"

	"github.com/bacalhau-project/convergence/pkg/poller"
	"github.com/bacalhau-project/convergence/pkg/providers/common"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var grpcCodeClasses = map[codes.Code]poller.Class{
	codes.NotFound: poller.ClassNotFound,

	codes.Aborted:           poller.ClassTransient,
	codes.Unavailable:       poller.ClassTransient,
	codes.ResourceExhausted: poller.ClassTransient,
	codes.DeadlineExceeded:  poller.ClassTransient,

	codes.PermissionDenied:   poller.ClassNonRetryable,
	codes.InvalidArgument:    poller.ClassNonRetryable,
	codes.Unauthenticated:    poller.ClassNonRetryable,
	codes.FailedPrecondition: poller.ClassNonRetryable,
}

// ClassifyError looks at the HTTP status of REST errors, then the gRPC code.
func ClassifyError(err error) poller.Class {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return common.ClassifyHTTPStatus(gerr.Code)
	}

	if s, ok := status.FromError(err); ok {
		if class, found := grpcCodeClasses[s.Code()]; found {
			return class
		}
	}

	return poller.DefaultClassifier(err)
}
