package aws

import (
	"errors"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
	"github.com/bacalhau-project/convergence/pkg/poller"
	"github.com/bacalhau-project/convergence/pkg/providers/common"
)

var errorCodeClasses = map[string]poller.Class{
	"InvalidInstanceID.NotFound": poller.ClassNotFound,

	"IncorrectInstanceState":       poller.ClassTransient,
	"IncorrectState":               poller.ClassTransient,
	"RequestLimitExceeded":         poller.ClassTransient,
	"Throttling":                   poller.ClassTransient,
	"DependencyViolation":          poller.ClassTransient,
	"InsufficientInstanceCapacity": poller.ClassTransient,

	"UnauthorizedOperation":       poller.ClassNonRetryable,
	"AuthFailure":                 poller.ClassNonRetryable,
	"InvalidParameterValue":       poller.ClassNonRetryable,
	"InvalidInstanceID.Malformed": poller.ClassNonRetryable,
	"OperationNotPermitted":       poller.ClassNonRetryable,
}

// ClassifyError maps EC2 API error codes, then the HTTP status, onto a poll class.
func ClassifyError(err error) poller.Class {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if class, ok := errorCodeClasses[apiErr.ErrorCode()]; ok {
			return class
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		return common.ClassifyHTTPStatus(respErr.HTTPStatusCode())
	}

	return poller.DefaultClassifier(err)
}
