package azure

import (
	"errors"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/bacalhau-project/convergence/pkg/poller"
	"github.com/bacalhau-project/convergence/pkg/providers/common"
)

var errorCodeClasses = map[string]poller.Class{
	"ResourceNotFound":      poller.ClassNotFound,
	"ResourceGroupNotFound": poller.ClassNotFound,
	"DeploymentNotFound":    poller.ClassNotFound,
	"NotFound":              poller.ClassNotFound,

	"Conflict":           poller.ClassTransient,
	"OperationPreempted": poller.ClassTransient,
	"RetryableError":     poller.ClassTransient,
	"TooManyRequests":    poller.ClassTransient,

	"OperationNotAllowed": poller.ClassNonRetryable,
	"AuthorizationFailed": poller.ClassNonRetryable,
	"InvalidParameter":    poller.ClassNonRetryable,
}

// ClassifyError maps ARM error codes, then the HTTP status, onto a poll class.
// Errors already marked non-retryable keep that class.
func ClassifyError(err error) poller.Class {
	if poller.IsNonRetryable(err) {
		return poller.ClassNonRetryable
	}
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		if class, ok := errorCodeClasses[respErr.ErrorCode]; ok {
			return class
		}
		return common.ClassifyHTTPStatus(respErr.StatusCode)
	}
	return poller.DefaultClassifier(err)
}

// HandleAzureError replaces the quota variant of OperationNotAllowed with an
// actionable message.
func HandleAzureError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "OperationNotAllowed") &&
		strings.Contains(err.Error(), "exceeding approved Total Regional Cores quota") {
		return poller.NonRetryable(errors.Join(ErrQuotaExceeded, err))
	}
	return err
}

var ErrQuotaExceeded = errors.New(
	"Azure quota exceeded: request a quota increase at https://aka.ms/ProdportalCRP/#blade/Microsoft_Azure_Capacity/UsageAndQuota.ReactView",
)
