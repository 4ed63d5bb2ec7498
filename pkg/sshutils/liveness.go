package sshutils

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bacalhau-project/convergence/pkg/poller"
)

// ErrAuthRejected means the host is up but refuses the configured key.
var ErrAuthRejected = errors.New("ssh authentication rejected")

// Reachable returns a check that is satisfied once the host named by the
// resource id accepts an SSH session. Connection failures are transient; a
// rejected key is not.
func (c *SSHConfig) Reachable() (poller.Check, error) {
	clientConfig, err := c.clientConfig()
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, host string) (bool, error) {
		addr := c.address(host)
		client, err := c.SSHDial.Dial(ctx, addr, clientConfig)
		if err != nil {
			if strings.Contains(err.Error(), "unable to authenticate") {
				return false, poller.NonRetryable(fmt.Errorf("%w: %s@%s: %v", ErrAuthRejected, c.User, addr, err))
			}
			return false, fmt.Errorf("ssh %s: %w", addr, err)
		}
		_ = client.Close()
		return true, nil
	}, nil
}
