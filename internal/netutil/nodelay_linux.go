// File: internal/netutil/nodelay_linux.go
//go:build linux
// +build linux

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// TCP_NODELAY via golang.org/x/sys/unix, grounded on
// internal/transport/transport_linux.go's unix.SetsockoptInt(fd,
// unix.IPPROTO_TCP, unix.TCP_NODELAY, 1) pattern, reached here through
// (*net.TCPConn).SyscallConn rather than a hand-built fd.

package netutil

import (
	"net"

	"golang.org/x/sys/unix"
)

func setNoDelay(conn *net.TCPConn) error {
	raw, err := conn.SyscallConn()
	if err != nil {
		return err
	}
	var sockErr error
	ctlErr := raw.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
	})
	if ctlErr != nil {
		return ctlErr
	}
	return sockErr
}
