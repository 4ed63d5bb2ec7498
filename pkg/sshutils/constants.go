package sshutils

import "time"

var (
	DefaultSSHPort = 22
	SSHDialTimeout = 10 * time.Second
)
