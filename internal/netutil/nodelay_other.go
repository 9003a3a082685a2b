// File: internal/netutil/nodelay_other.go
//go:build !linux
// +build !linux

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// TCP_NODELAY via the stdlib on non-Linux platforms; the
// golang.org/x/sys/unix.SetsockoptInt path is Linux-only.

package netutil

import "net"

func setNoDelay(conn *net.TCPConn) error {
	return conn.SetNoDelay(true)
}
