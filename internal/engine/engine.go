// File: internal/engine/engine.go
// Package engine implements the per-node coordination engine of spec
// §4.4: a worker goroutine that owns the inbound ring connection
// exclusively, a mutex-guarded outbound connection and local store
// shared with the foreground, and the five public operations
// (out/inp/rdp/in/rd).
// Grounded on lowlevel/server/server.go's single-owner-goroutine facade
// and internal/concurrency/executor.go's worker/channel shape.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package engine

import (
	"io"
	"log"
	"net"
	"runtime"
	"sync"
	"time"

	"github.com/momentics/lindaring/internal/affinity"
	"github.com/momentics/lindaring/internal/config"
	"github.com/momentics/lindaring/internal/errs"
	"github.com/momentics/lindaring/internal/store"
	"github.com/momentics/lindaring/internal/value"
	"github.com/momentics/lindaring/internal/wire"
)

// Engine is one node's coordinator: it owns prevIn exclusively from its
// worker goroutine, and exposes out/inp/rdp/in/rd to the foreground.
type Engine struct {
	self  wire.SocketAddr
	cfg   *config.Store
	store *store.LocalStore

	prevIn  net.Conn
	nextOut net.Conn
	sendMu  sync.Mutex

	// fgToWorker carries the foreground's current PendingRequest to the
	// worker. Capacity 1: a new send always overwrites whatever the
	// worker has not yet consumed (spec §4.4 worker loop step 2).
	fgToWorker chan value.Tuple[value.Request]
	// workerToFg carries a matched value back to a blocking foreground
	// call. Capacity 1: the worker drains then sends, and the foreground
	// drains it at the start of every blocking call (spec §9 spurious
	// post-timeout delivery).
	workerToFg chan value.Tuple[value.Value]

	pendingMu  sync.Mutex
	hasPending bool

	done     chan struct{}
	closeErr error
	closeMu  sync.Mutex

	affinityErr error

	forwardErrMu  sync.Mutex
	lastForwardErr error
}

// New constructs an Engine and starts its worker goroutine. prevIn is
// the inbound ring connection (exclusively owned by the worker from
// this point on); nextOut is the outbound ring connection.
func New(self wire.SocketAddr, prevIn, nextOut net.Conn, cfg *config.Store) *Engine {
	e := &Engine{
		self:       self,
		cfg:        cfg,
		store:      store.New(),
		prevIn:     prevIn,
		nextOut:    nextOut,
		fgToWorker: make(chan value.Tuple[value.Request], 1),
		workerToFg: make(chan value.Tuple[value.Value], 1),
		done:       make(chan struct{}),
	}
	go e.workerLoop()
	return e
}

// Store exposes the node's local tuple store, e.g. for introspection in
// tests or a future "list" command.
func (e *Engine) Store() *store.LocalStore { return e.store }

// AffinityErr reports the last CPU-pin failure, if any; pinning is
// best-effort and never fails an operation (matching the teacher's own
// tolerance of affinity failures).
func (e *Engine) AffinityErr() error { return e.affinityErr }

// LastForwardErr reports the most recent failure forwarding or replying
// to a ring message. Per spec §7 such failures are logged, not fatal:
// the worker loop keeps running, so this is introspection only.
func (e *Engine) LastForwardErr() error {
	e.forwardErrMu.Lock()
	defer e.forwardErrMu.Unlock()
	return e.lastForwardErr
}

// Close shuts the worker down by closing the inbound connection, which
// unblocks its pending ReadFrame, and waits for the worker to exit.
func (e *Engine) Close() error {
	err := e.prevIn.Close()
	<-e.done
	e.closeMu.Lock()
	defer e.closeMu.Unlock()
	if e.closeErr != nil {
		return e.closeErr
	}
	return err
}

func (e *Engine) sendMessage(m wire.Message) error {
	e.sendMu.Lock()
	defer e.sendMu.Unlock()
	if err := wire.WriteFrame(e.nextOut, m); err != nil {
		return errs.IOFailure(err)
	}
	return nil
}

// Out injects a value-message with origin=self onto the ring.
func (e *Engine) Out(t value.Tuple[value.Value]) error {
	return e.sendMessage(wire.NewValueMessage(t, e.self))
}

// Inp performs a non-blocking match against the local store.
func (e *Engine) Inp(req value.Tuple[value.Request]) (value.Tuple[value.Value], error) {
	t, ok := e.store.Remove(req)
	if !ok {
		return nil, errs.ErrNoTuple
	}
	return t, nil
}

// Rdp is Inp followed by re-insertion of the matched tuple.
func (e *Engine) Rdp(req value.Tuple[value.Request]) (value.Tuple[value.Value], error) {
	t, err := e.Inp(req)
	if err != nil {
		return nil, err
	}
	e.store.Insert(t.Clone())
	return t, nil
}

// In performs a local match first; on miss it registers req as the
// node's PendingRequest, injects a request-message onto the ring, and
// waits up to timeout for the worker to deliver a matching value.
//
// Only one blocking In/Rd may be outstanding per node at a time (spec
// §4.4/§9's resolved choice: reject rather than silently overwrite).
func (e *Engine) In(req value.Tuple[value.Request], timeout time.Duration) (value.Tuple[value.Value], error) {
	if t, err := e.Inp(req); err == nil {
		return t, nil
	}

	e.pendingMu.Lock()
	if e.hasPending {
		e.pendingMu.Unlock()
		return nil, errs.ChannelSendFailure("a blocking in/rd is already outstanding on this node")
	}
	e.hasPending = true
	e.pendingMu.Unlock()
	defer func() {
		e.pendingMu.Lock()
		e.hasPending = false
		e.pendingMu.Unlock()
	}()

	// Drain any value left over from a request that timed out after the
	// worker had already started delivering it (spec §9).
	select {
	case <-e.workerToFg:
	default:
	}

	overwriteRequest(e.fgToWorker, req)

	if err := e.sendMessage(wire.NewRequestMessage(req, e.self)); err != nil {
		return nil, err
	}

	var timer *time.Timer
	var timerC <-chan time.Time
	if timeout > 0 {
		timer = time.NewTimer(timeout)
		defer timer.Stop()
		timerC = timer.C
	}

	select {
	case v := <-e.workerToFg:
		return v, nil
	case <-timerC:
		return nil, errs.ErrTimeout
	case <-e.done:
		return nil, errs.ChannelSendFailure("worker terminated while awaiting match")
	}
}

// Rd is In followed by re-insertion of the matched tuple.
func (e *Engine) Rd(req value.Tuple[value.Request], timeout time.Duration) (value.Tuple[value.Value], error) {
	t, err := e.In(req, timeout)
	if err != nil {
		return nil, err
	}
	e.store.Insert(t.Clone())
	return t, nil
}

// overwriteRequest drains any unconsumed value and sends v, so the
// worker's next non-blocking consult always sees the most recent
// PendingRequest rather than a stale one.
func overwriteRequest(ch chan value.Tuple[value.Request], v value.Tuple[value.Request]) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}

// overwriteValue is the worker-side counterpart used when delivering a
// matched value to a blocking foreground call.
func overwriteValue(ch chan value.Tuple[value.Value], v value.Tuple[value.Value]) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}

func (e *Engine) workerLoop() {
	defer close(e.done)

	if pin := e.cfg.Get().PinCPU; pin >= 0 {
		runtime.LockOSThread()
		if err := affinity.SetAffinity(pin); err != nil {
			e.affinityErr = err
		}
	}

	var pending value.Tuple[value.Request]
	var havePending bool

	for {
		msg, err := wire.ReadFrame(e.prevIn)
		if err != nil {
			if err != io.EOF {
				e.closeMu.Lock()
				if wire.IsDecodeError(err) {
					e.closeErr = errs.MessageParseFailure(err)
				} else {
					e.closeErr = errs.IOFailure(err)
				}
				e.closeMu.Unlock()
			}
			return
		}

		select {
		case pr, ok := <-e.fgToWorker:
			if !ok {
				return
			}
			pending = pr
			havePending = true
		default:
		}

		e.trace("received message kind=%d origin=%s", msg.Kind, msg.Origin)

		switch msg.Kind {
		case wire.BodyValue:
			e.handleValue(msg, pending, havePending, &havePending)
		case wire.BodyRequest:
			e.handleRequest(msg)
		}
	}
}

// trace emits a worker-loop diagnostic line when the node's current
// settings have Verbose enabled (spec's per-message trace logging).
func (e *Engine) trace(format string, args ...any) {
	if !e.cfg.Get().Verbose {
		return
	}
	log.Printf("engine[%s]: "+format, append([]any{e.self}, args...)...)
}

func (e *Engine) handleValue(msg wire.Message, pending value.Tuple[value.Request], havePending bool, outHavePending *bool) {
	// Match against PendingRequest is checked before the origin==self
	// test: a remote node that satisfies our request addresses the
	// value-message back to us, so it arrives with origin==self too.
	// Testing match first is what lets that reply be claimed instead of
	// being mistaken for our own un-claimed out() circulating home
	// (spec §4.4, "Why these rules").
	if havePending && value.TupleSatisfies(pending, msg.Values) {
		e.trace("value message satisfies pending request, delivering")
		overwriteValue(e.workerToFg, msg.Values)
		*outHavePending = false
		return
	}
	if msg.Origin.Equal(e.self) {
		e.trace("value message completed its lap, storing locally")
		e.store.Insert(msg.Values)
		return
	}
	e.trace("forwarding value message")
	e.forward(msg)
}

func (e *Engine) handleRequest(msg wire.Message) {
	if msg.Origin.Equal(e.self) {
		e.trace("request message completed its lap unmatched, dropping")
		return
	}
	if removed, ok := e.store.Remove(msg.Requests); ok {
		e.trace("request message matched locally, replying to %s", msg.Origin)
		e.recordForwardErr(e.sendMessage(wire.NewValueMessage(removed, msg.Origin)))
		return
	}
	e.trace("forwarding request message")
	e.forward(msg)
}

func (e *Engine) forward(msg wire.Message) {
	e.recordForwardErr(e.sendMessage(msg))
}

func (e *Engine) recordForwardErr(err error) {
	if err == nil {
		return
	}
	log.Printf("engine[%s]: failed to forward ring message: %v", e.self, err)
	e.forwardErrMu.Lock()
	e.lastForwardErr = err
	e.forwardErrMu.Unlock()
}
