// File: internal/bootstrap/bootstrap_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package bootstrap_test

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/momentics/lindaring/internal/bootstrap"
	"github.com/momentics/lindaring/internal/value"
	"github.com/momentics/lindaring/internal/wire"
)

// fakeNode listens on an ephemeral port, dials the bootstrap server to
// report that port, then waits for the server's next-neighbor message.
type fakeNode struct {
	ln   net.Listener
	next wire.SocketAddr
}

func startFakeNode(t *testing.T) *fakeNode {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	return &fakeNode{ln: ln}
}

func (n *fakeNode) port() uint16 {
	return uint16(n.ln.Addr().(*net.TCPAddr).Port)
}

func (n *fakeNode) reportToServer(t *testing.T, serverAddr string) {
	t.Helper()
	conn, err := net.Dial("tcp", serverAddr)
	if err != nil {
		t.Fatalf("dial server: %v", err)
	}
	defer conn.Close()
	msg := wire.NewValueMessage(value.Tuple[value.Value]{value.Int(int32(n.port()))}, wire.SocketAddr{})
	if err := wire.WriteFrame(conn, msg); err != nil {
		t.Fatalf("report: %v", err)
	}
}

func (n *fakeNode) awaitNext(t *testing.T) {
	t.Helper()
	conn, err := n.ln.Accept()
	if err != nil {
		t.Fatalf("accept from server: %v", err)
	}
	defer conn.Close()
	msg, err := wire.ReadFrame(conn)
	if err != nil {
		t.Fatalf("read next-neighbor message: %v", err)
	}
	n.next = msg.Origin
}

func TestBootstrapTopology(t *testing.T) {
	const n = 3
	serverLn, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	serverAddr := serverLn.Addr().String()
	serverLn.Close()

	nodes := make([]*fakeNode, n)
	for i := range nodes {
		nodes[i] = startFakeNode(t)
		defer nodes[i].ln.Close()
	}

	var wg sync.WaitGroup
	serverErr := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		serverErr <- bootstrap.Run(serverAddr, n, false)
	}()
	time.Sleep(20 * time.Millisecond) // let the listener bind before clients dial

	for i, nd := range nodes {
		nd.reportToServer(t, serverAddr)
		_ = i
		time.Sleep(5 * time.Millisecond) // admission order must match dial order
	}

	for _, nd := range nodes {
		nd.awaitNext(t)
	}
	wg.Wait()
	if err := <-serverErr; err != nil {
		t.Fatalf("bootstrap.Run: %v", err)
	}

	for i := 0; i < n; i++ {
		want := nodes[(i+1)%n].port()
		if nodes[i].next.Port != want {
			t.Fatalf("node %d: expected next port %d, got %d", i, want, nodes[i].next.Port)
		}
	}
}
