package sshutils

import (
	"context"
	"io"
	"net"
	"time"

	"golang.org/x/crypto/ssh"
)

// SSHDialer opens an authenticated SSH connection. The caller only needs to
// close it.
type SSHDialer interface {
	Dial(ctx context.Context, addr string, config *ssh.ClientConfig) (io.Closer, error)
}

type defaultSSHDialer struct{}

func (d *defaultSSHDialer) Dial(ctx context.Context, addr string, config *ssh.ClientConfig) (io.Closer, error) {
	dialer := net.Dialer{Timeout: config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	// Bound the handshake as well as the connect.
	deadline := time.Now().Add(config.Timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return nil, err
	}

	c, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return ssh.NewClient(c, chans, reqs), nil
}
