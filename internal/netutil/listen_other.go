// File: internal/netutil/listen_other.go
//go:build !linux
// +build !linux

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package netutil

import "net"

// Listen binds a plain TCP listener; SO_REUSEADDR tuning is Linux-only.
func Listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}
