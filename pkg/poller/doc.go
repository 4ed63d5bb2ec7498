// Package poller waits for a remote resource to converge on a desired state.
//
// Await invokes a caller-supplied check at a fixed delay until the check is
// satisfied, the time budget is spent, the check fails with a non-retryable
// error, or the context is cancelled. Each call is independent and holds no
// shared state, so many polls can run concurrently.
package poller
