package sshutils

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

// SSHConfig holds what is needed to open an SSH session to any host.
type SSHConfig struct {
	Port              int
	User              string
	SSHPrivateKeyPath string
	Timeout           time.Duration

	SSHDial             SSHDialer
	SSHPrivateKeyReader func(path string) ([]byte, error)
}

// NewSSHConfig validates the settings. The key is read when a check is built.
func NewSSHConfig(user, sshPrivateKeyPath string, port int) (*SSHConfig, error) {
	if user == "" {
		return nil, fmt.Errorf("user cannot be empty")
	}
	if sshPrivateKeyPath == "" {
		return nil, fmt.Errorf("SSH private key path cannot be empty")
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port number: %d", port)
	}

	return &SSHConfig{
		Port:                port,
		User:                user,
		SSHPrivateKeyPath:   sshPrivateKeyPath,
		Timeout:             SSHDialTimeout,
		SSHDial:             &defaultSSHDialer{},
		SSHPrivateKeyReader: os.ReadFile,
	}, nil
}

func (c *SSHConfig) clientConfig() (*ssh.ClientConfig, error) {
	keyBytes, err := c.SSHPrivateKeyReader(c.SSHPrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &ssh.ClientConfig{
		User:            c.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec
		Timeout:         c.Timeout,
	}, nil
}

// address accepts "host", "host:port" or a bracketed IPv6 literal.
func (c *SSHConfig) address(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(strings.Trim(host, "[]"), strconv.Itoa(c.Port))
}
