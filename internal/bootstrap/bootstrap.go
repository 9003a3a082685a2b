// File: internal/bootstrap/bootstrap.go
// Package bootstrap implements the one-shot rendezvous server of spec
// §4.3: admit N clients, then tell each one its next neighbor, fixing
// the ring topology for the run ("next only", spec §9's resolved open
// question).
// Grounded on transport/tcp/listener.go's accept-loop shape; uses
// github.com/eapache/queue (as internal/concurrency.Executor does) to
// hold admitted clients in arrival order, since "admission order fixes
// ring topology" is exactly a FIFO with random-access replay.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package bootstrap

import (
	"log"
	"net"

	"github.com/eapache/queue"

	"github.com/momentics/lindaring/internal/errs"
	"github.com/momentics/lindaring/internal/netutil"
	"github.com/momentics/lindaring/internal/wire"
)

// Run listens on addr, admits exactly n clients, then connects back to
// each in admission order and tells it its next neighbor. It returns
// once all n clients have been notified.
func Run(addr string, n int, verbose bool) error {
	ln, err := netutil.Listen(addr)
	if err != nil {
		return errs.IOFailure(err)
	}
	defer ln.Close()

	admitted := queue.New()
	for admitted.Length() < n {
		conn, err := ln.Accept()
		if err != nil {
			return errs.IOFailure(err)
		}
		clientAddr, ok := admitClient(conn)
		conn.Close()
		if !ok {
			if verbose {
				log.Printf("bootstrap: skipped malformed admission from %s", conn.RemoteAddr())
			}
			continue
		}
		admitted.Add(clientAddr)
		if verbose {
			log.Printf("bootstrap: admitted %s (%d/%d)", clientAddr, admitted.Length(), n)
		}
	}

	for i := 0; i < n; i++ {
		self := admitted.Get(i).(wire.SocketAddr)
		next := admitted.Get((i + 1) % n).(wire.SocketAddr)
		if err := notify(self, next); err != nil {
			return err
		}
		if verbose {
			log.Printf("bootstrap: told %s its next neighbor is %s", self, next)
		}
	}
	return nil
}

// admitClient reads the one admission Message a connecting client sends
// — a value-tuple carrying its listening port as a single Int — and
// derives its full listening SocketAddr from the connection's peer IP.
// Reports ok=false on any malformed admission, per spec §4.3 ("clients
// that fail to send a valid port message are skipped").
func admitClient(conn net.Conn) (wire.SocketAddr, bool) {
	tcpAddr, ok := conn.RemoteAddr().(*net.TCPAddr)
	if !ok {
		return wire.SocketAddr{}, false
	}
	msg, err := wire.ReadFrame(conn)
	if err != nil || !msg.IsValue() || len(msg.Values) != 1 || !msg.Values[0].IsInt() {
		return wire.SocketAddr{}, false
	}
	port := msg.Values[0].IntVal()
	if port < 0 || port > 0xFFFF {
		return wire.SocketAddr{}, false
	}
	return wire.NewSocketAddr(tcpAddr.IP, uint16(port)), true
}

// notify dials self's listening address and sends the single Message
// that tells it who its next neighbor is: an empty value-tuple whose
// origin field carries next's address.
func notify(self, next wire.SocketAddr) error {
	conn, err := net.Dial("tcp", self.TCPAddr().String())
	if err != nil {
		return errs.IOFailure(err)
	}
	defer conn.Close()
	if err := netutil.TuneRingConn(conn.(*net.TCPConn)); err != nil {
		return errs.IOFailure(err)
	}
	if err := wire.WriteFrame(conn, wire.NewEmptyValueMessage(next)); err != nil {
		return errs.IOFailure(err)
	}
	return nil
}
