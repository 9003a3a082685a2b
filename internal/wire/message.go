// File: internal/wire/message.go
// Package wire implements the ring's length-prefixed binary frame format:
// value-tuple and request-tuple messages tagged with an origin address.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package wire

import "github.com/momentics/lindaring/internal/value"

// BodyKind tags whether a Message carries a value-tuple or a request-tuple.
type BodyKind uint8

const (
	BodyValue   BodyKind = 0
	BodyRequest BodyKind = 1
)

// Message is a ring envelope: either a value-tuple or a request-tuple,
// plus the origin address of the node that first injected it.
type Message struct {
	Kind     BodyKind
	Values   value.Tuple[value.Value]
	Requests value.Tuple[value.Request]
	Origin   SocketAddr
}

// NewValueMessage builds a value-tuple message.
func NewValueMessage(t value.Tuple[value.Value], origin SocketAddr) Message {
	return Message{Kind: BodyValue, Values: t, Origin: origin}
}

// NewRequestMessage builds a request-tuple message.
func NewRequestMessage(t value.Tuple[value.Request], origin SocketAddr) Message {
	return Message{Kind: BodyRequest, Requests: t, Origin: origin}
}

// NewEmptyValueMessage builds a zero-tuple value message, used by the
// bootstrap server to carry only the origin (the next-neighbor address).
func NewEmptyValueMessage(origin SocketAddr) Message {
	return Message{Kind: BodyValue, Values: value.Tuple[value.Value]{}, Origin: origin}
}

// IsValue reports whether m carries a value-tuple body.
func (m Message) IsValue() bool { return m.Kind == BodyValue }

// IsRequest reports whether m carries a request-tuple body.
func (m Message) IsRequest() bool { return m.Kind == BodyRequest }
