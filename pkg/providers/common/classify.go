package common

import (
	"net/http"

	"github.com/bacalhau-project/convergence/pkg/poller"
)

// ClassifyHTTPStatus maps a REST response status onto a poll classification:
// missing resources are NotFound, conflicts/throttling/server errors are
// transient and all other client errors are fatal.
func ClassifyHTTPStatus(code int) poller.Class {
	switch {
	case code == http.StatusNotFound, code == http.StatusGone:
		return poller.ClassNotFound
	case code == http.StatusRequestTimeout,
		code == http.StatusConflict,
		code == http.StatusLocked,
		code == http.StatusTooManyRequests,
		code >= http.StatusInternalServerError:
		return poller.ClassTransient
	case code >= http.StatusBadRequest:
		return poller.ClassNonRetryable
	default:
		return poller.ClassTransient
	}
}
