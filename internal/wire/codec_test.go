// File: internal/wire/codec_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package wire_test

import (
	"bytes"
	"net"
	"testing"

	"github.com/momentics/lindaring/internal/value"
	"github.com/momentics/lindaring/internal/wire"
)

func v4Origin(port uint16) wire.SocketAddr {
	return wire.NewSocketAddr(net.IPv4(127, 0, 0, 1), port)
}

func v6Origin(port uint16) wire.SocketAddr {
	return wire.NewSocketAddr(net.ParseIP("::1"), port)
}

func requireEqualMessage(t *testing.T, want, got wire.Message) {
	t.Helper()
	if want.Kind != got.Kind {
		t.Fatalf("kind mismatch: want %v got %v", want.Kind, got.Kind)
	}
	if !want.Origin.Equal(got.Origin) || want.Origin.Port != got.Origin.Port {
		t.Fatalf("origin mismatch: want %v got %v", want.Origin, got.Origin)
	}
	switch want.Kind {
	case wire.BodyValue:
		if !value.TuplesEqual(want.Values, got.Values) {
			t.Fatalf("value tuple mismatch: want %v got %v", want.Values, got.Values)
		}
	case wire.BodyRequest:
		if len(want.Requests) != len(got.Requests) {
			t.Fatalf("request tuple length mismatch: want %d got %d", len(want.Requests), len(got.Requests))
		}
		for i := range want.Requests {
			if want.Requests[i].Op != got.Requests[i].Op {
				t.Fatalf("request[%d] op mismatch", i)
			}
			if !value.SameType(want.Requests[i].Value, got.Requests[i].Value) {
				t.Fatalf("request[%d] type mismatch", i)
			}
		}
	}
}

func roundTrip(t *testing.T, m wire.Message) {
	t.Helper()
	payload := wire.EncodeMessage(m)
	got, err := wire.DecodeMessage(payload)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	requireEqualMessage(t, m, got)
}

func TestRoundTripValueTupleEachEmptyVariant(t *testing.T) {
	tuples := []value.Tuple[value.Value]{
		{value.Int(1), value.Float(3.14), value.Str("test")},
		{value.EmptyInt()},
		{value.EmptyFloat()},
		{value.EmptyString()},
		{},
	}
	for _, tup := range tuples {
		roundTrip(t, wire.NewValueMessage(tup, v4Origin(1999)))
	}
}

func TestRoundTripRequestTupleEachOperator(t *testing.T) {
	ops := []value.ComparisonOperator{value.EQ, value.NEQ, value.GE, value.GT, value.LE, value.LT, value.ANY}
	for _, op := range ops {
		var v value.Value
		if op == value.ANY {
			v = value.EmptyInt()
		} else {
			v = value.Int(42)
		}
		req := value.Tuple[value.Request]{value.NewRequest(v, op)}
		roundTrip(t, wire.NewRequestMessage(req, v4Origin(2000)))
	}
}

func TestRoundTripIPv6Origin(t *testing.T) {
	roundTrip(t, wire.NewValueMessage(value.Tuple[value.Value]{value.Int(7)}, v6Origin(1999)))
	roundTrip(t, wire.NewRequestMessage(
		value.Tuple[value.Request]{value.NewRequest(value.EmptyString(), value.ANY)},
		v6Origin(2001),
	))
}

func TestDecodeUnknownTagFails(t *testing.T) {
	payload := []byte{0x02} // neither 0 (value) nor 1 (request)
	if _, err := wire.DecodeMessage(payload); err != wire.ErrUnknownTag {
		t.Fatalf("expected ErrUnknownTag, got %v", err)
	}
}

func TestDecodeTruncatedFails(t *testing.T) {
	if _, err := wire.DecodeMessage([]byte{0x00}); err != wire.ErrTruncated {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestDecodeUnknownIPVersionFails(t *testing.T) {
	msg := wire.NewValueMessage(value.Tuple[value.Value]{}, v4Origin(1999))
	payload := wire.EncodeMessage(msg)
	// Flip the ipver byte, which sits right before the 4 IP octets + 2 port
	// bytes at the tail of the payload.
	corrupt := make([]byte, len(payload))
	copy(corrupt, payload)
	corrupt[len(corrupt)-7] = 9
	if _, err := wire.DecodeMessage(corrupt); err != wire.ErrUnknownIPVersion {
		t.Fatalf("expected ErrUnknownIPVersion, got %v", err)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	msg := wire.NewValueMessage(value.Tuple[value.Value]{value.Int(9), value.Str("frame")}, v4Origin(1999))
	if err := wire.WriteFrame(&buf, msg); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	got, err := wire.ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	requireEqualMessage(t, msg, got)
}
