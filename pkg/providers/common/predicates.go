package common

import (
	"context"
	"errors"
	"slices"

	"github.com/bacalhau-project/convergence/pkg/models"
	"github.com/bacalhau-project/convergence/pkg/poller"
)

// StatusIn is satisfied once fetch reports one of wants.
func StatusIn(fetch StatusFunc, wants ...models.NodeStatus) poller.Check {
	return func(ctx context.Context, resourceID string) (bool, error) {
		status, err := fetch(ctx, resourceID)
		if err != nil {
			return false, err
		}
		return slices.Contains(wants, status), nil
	}
}

// Gone is satisfied once the resource is terminated or no longer exists.
// classify decides whether an error means "not found".
func Gone(fetch StatusFunc, classify poller.Classifier) poller.Check {
	if classify == nil {
		classify = poller.DefaultClassifier
	}
	return func(ctx context.Context, resourceID string) (bool, error) {
		status, err := fetch(ctx, resourceID)
		if err != nil {
			if errors.Is(err, poller.ErrNotFound) || classify(err) == poller.ClassNotFound {
				return true, nil
			}
			return false, err
		}
		return status == models.NodeStatusTerminated, nil
	}
}

// FailOnError turns an observed ERROR status into a non-retryable failure so
// a poll for RUNNING does not wait out its whole budget on a broken node.
func FailOnError(fetch StatusFunc) StatusFunc {
	return func(ctx context.Context, resourceID string) (models.NodeStatus, error) {
		status, err := fetch(ctx, resourceID)
		if err == nil && status == models.NodeStatusError {
			return status, poller.NonRetryable(errors.New(resourceID + " is in ERROR state"))
		}
		return status, err
	}
}
