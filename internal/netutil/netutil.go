// File: internal/netutil/netutil.go
// Package netutil applies low-level socket options to the ring's TCP
// connections. Grounded on internal/transport/transport_linux.go's use
// of golang.org/x/sys/unix for TCP_NODELAY; adapted from raw-fd socket
// creation to tuning an already-dialed/accepted *net.TCPConn, since the
// ring transport uses net.Dial/net.Listen rather than raw sockets.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package netutil

import "net"

// TuneRingConn applies the ring protocol's preferred socket options to
// conn: TCP_NODELAY (tuple messages are small and latency-sensitive,
// Nagle's algorithm would stall lap propagation) and a modest keep-alive
// so a dead neighbor is noticed instead of hanging a worker forever.
func TuneRingConn(conn *net.TCPConn) error {
	if err := setNoDelay(conn); err != nil {
		return err
	}
	if err := conn.SetKeepAlive(true); err != nil {
		return err
	}
	return conn.SetKeepAlivePeriod(ringKeepAlivePeriod)
}
