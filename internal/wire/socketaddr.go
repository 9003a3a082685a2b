// File: internal/wire/socketaddr.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package wire

import (
	"fmt"
	"net"
)

// SocketAddr is the wire representation of a ring node address: an IP
// (v4 or v6) plus a port. It is distinct from net.Addr so the codec can
// fix the exact ipver/octet-length encoding spec.md describes.
type SocketAddr struct {
	IP   net.IP
	Port uint16
}

// NewSocketAddr builds a SocketAddr from a net.IP and port.
func NewSocketAddr(ip net.IP, port uint16) SocketAddr {
	return SocketAddr{IP: ip, Port: port}
}

// FromTCPAddr converts a *net.TCPAddr into a SocketAddr.
func FromTCPAddr(addr *net.TCPAddr) SocketAddr {
	return SocketAddr{IP: addr.IP, Port: uint16(addr.Port)}
}

// TCPAddr converts back to *net.TCPAddr for dialing.
func (s SocketAddr) TCPAddr() *net.TCPAddr {
	return &net.TCPAddr{IP: s.IP, Port: int(s.Port)}
}

// Equal reports address equality used to detect a message's lap around
// the ring (origin == self).
func (s SocketAddr) Equal(other SocketAddr) bool {
	return s.IP.Equal(other.IP) && s.Port == other.Port
}

func (s SocketAddr) String() string {
	return fmt.Sprintf("%s:%d", s.IP, s.Port)
}

// isIPv4 reports whether ip should be encoded with the 4-byte (ipver=4)
// wire form. A 4-in-6 mapped address still encodes as v4, matching how
// net.Dial/Listen commonly hand back addresses on dual-stack hosts.
func isIPv4(ip net.IP) bool {
	return ip.To4() != nil
}
