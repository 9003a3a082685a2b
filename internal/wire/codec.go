// File: internal/wire/codec.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Tagged binary encoding for values, requests, tuples, messages, and
// socket addresses. All integers are little-endian; decode fails on
// unknown tags, unknown IP versions, invalid UTF-8, or truncated input
// (mirroring protocol/frame_codec.go's incomplete-input handling, but
// bounded by the outer frame's explicit size prefix rather than
// re-scanned on every read).

package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"unicode/utf8"

	"github.com/momentics/lindaring/internal/value"
)

// Tag values for Value's i32 header, per spec.md §4.2.
var (
	intSizeTag    int32 = -1
	floatSizeTag  int32 = -2
	emptyIntTag   int32 = -3
	emptyFloatTag int32 = -4
	emptyStrTag   int32 = -5
)

var (
	// ErrTruncated indicates the buffer ended before a complete value
	// was decoded.
	ErrTruncated = errors.New("wire: truncated input")
	// ErrUnknownTag indicates an unrecognized Value header or Message tag.
	ErrUnknownTag = errors.New("wire: unknown tag")
	// ErrUnknownIPVersion indicates an origin's ipver byte was neither 4 nor 6.
	ErrUnknownIPVersion = errors.New("wire: unknown ip version")
	// ErrInvalidUTF8 indicates a String payload was not valid UTF-8.
	ErrInvalidUTF8 = errors.New("wire: invalid utf-8 in string value")
	// ErrUnknownOperator indicates a Request's operator code was out of range.
	ErrUnknownOperator = errors.New("wire: unknown comparison operator")
	// ErrTrailingBytes indicates a decode left unconsumed bytes in the frame.
	ErrTrailingBytes = errors.New("wire: trailing bytes after message")
)

// IsDecodeError reports whether err originates from DecodeMessage's
// validation of a frame's contents (bad tag, bad ipver, invalid utf-8,
// truncated or trailing bytes) rather than from the transport read that
// produced the frame's raw bytes. Callers use this to tell a malformed
// peer message apart from a genuine connection failure.
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrTruncated) ||
		errors.Is(err, ErrUnknownTag) ||
		errors.Is(err, ErrUnknownIPVersion) ||
		errors.Is(err, ErrInvalidUTF8) ||
		errors.Is(err, ErrUnknownOperator) ||
		errors.Is(err, ErrTrailingBytes)
}

// cursor is a forward-only reader over an in-memory byte slice, used for
// decoding a single already-length-delimited frame payload.
type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) take(n int) ([]byte, error) {
	if c.pos+n > len(c.buf) {
		return nil, ErrTruncated
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) u8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) u16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) i32() (int32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (c *cursor) u64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *cursor) f64() (float64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

func (c *cursor) remaining() int { return len(c.buf) - c.pos }

// --- Value ---

func encodeValue(buf *bytes.Buffer, v value.Value) {
	var hdr [4]byte
	switch v.Kind() {
	case value.KindInt:
		if v.IsEmpty() {
			binary.LittleEndian.PutUint32(hdr[:], uint32(emptyIntTag))
			buf.Write(hdr[:])
			return
		}
		binary.LittleEndian.PutUint32(hdr[:], uint32(intSizeTag))
		buf.Write(hdr[:])
		var payload [4]byte
		binary.LittleEndian.PutUint32(payload[:], uint32(v.IntVal()))
		buf.Write(payload[:])
	case value.KindFloat:
		if v.IsEmpty() {
			binary.LittleEndian.PutUint32(hdr[:], uint32(emptyFloatTag))
			buf.Write(hdr[:])
			return
		}
		binary.LittleEndian.PutUint32(hdr[:], uint32(floatSizeTag))
		buf.Write(hdr[:])
		var payload [8]byte
		binary.LittleEndian.PutUint64(payload[:], math.Float64bits(v.FloatVal()))
		buf.Write(payload[:])
	case value.KindString:
		if v.IsEmpty() {
			binary.LittleEndian.PutUint32(hdr[:], uint32(emptyStrTag))
			buf.Write(hdr[:])
			return
		}
		s := v.StrVal()
		binary.LittleEndian.PutUint32(hdr[:], uint32(int32(len(s))))
		buf.Write(hdr[:])
		buf.WriteString(s)
	}
}

func decodeValue(c *cursor) (value.Value, error) {
	header, err := c.i32()
	if err != nil {
		return value.Value{}, err
	}
	switch header {
	case emptyIntTag:
		return value.EmptyInt(), nil
	case emptyFloatTag:
		return value.EmptyFloat(), nil
	case emptyStrTag:
		return value.EmptyString(), nil
	case intSizeTag:
		i, err := c.i32()
		if err != nil {
			return value.Value{}, err
		}
		return value.Int(i), nil
	case floatSizeTag:
		f, err := c.f64()
		if err != nil {
			return value.Value{}, err
		}
		return value.Float(f), nil
	default:
		if header < 0 {
			return value.Value{}, ErrUnknownTag
		}
		raw, err := c.take(int(header))
		if err != nil {
			return value.Value{}, err
		}
		if !utf8.Valid(raw) {
			return value.Value{}, ErrInvalidUTF8
		}
		return value.Str(string(raw)), nil
	}
}

// --- ComparisonOperator ---

func encodeOperator(buf *bytes.Buffer, op value.ComparisonOperator) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(op))
	buf.Write(b[:])
}

func decodeOperator(c *cursor) (value.ComparisonOperator, error) {
	code, err := c.i32()
	if err != nil {
		return 0, err
	}
	if !value.ValidOperator(code) {
		return 0, ErrUnknownOperator
	}
	return value.ComparisonOperator(code), nil
}

// --- Request ---

func encodeRequest(buf *bytes.Buffer, r value.Request) {
	encodeValue(buf, r.Value)
	encodeOperator(buf, r.Op)
}

func decodeRequest(c *cursor) (value.Request, error) {
	v, err := decodeValue(c)
	if err != nil {
		return value.Request{}, err
	}
	op, err := decodeOperator(c)
	if err != nil {
		return value.Request{}, err
	}
	return value.NewRequest(v, op), nil
}

// --- Tuples ---

func encodeValueTuple(buf *bytes.Buffer, t value.Tuple[value.Value]) {
	var count [8]byte
	binary.LittleEndian.PutUint64(count[:], uint64(len(t)))
	buf.Write(count[:])
	for _, v := range t {
		encodeValue(buf, v)
	}
}

func decodeValueTuple(c *cursor) (value.Tuple[value.Value], error) {
	count, err := c.u64()
	if err != nil {
		return nil, err
	}
	out := make(value.Tuple[value.Value], 0, count)
	for i := uint64(0); i < count; i++ {
		v, err := decodeValue(c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func encodeRequestTuple(buf *bytes.Buffer, t value.Tuple[value.Request]) {
	var count [8]byte
	binary.LittleEndian.PutUint64(count[:], uint64(len(t)))
	buf.Write(count[:])
	for _, r := range t {
		encodeRequest(buf, r)
	}
}

func decodeRequestTuple(c *cursor) (value.Tuple[value.Request], error) {
	count, err := c.u64()
	if err != nil {
		return nil, err
	}
	out := make(value.Tuple[value.Request], 0, count)
	for i := uint64(0); i < count; i++ {
		r, err := decodeRequest(c)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// --- SocketAddr (origin) ---

func encodeOrigin(buf *bytes.Buffer, addr SocketAddr) {
	if isIPv4(addr.IP) {
		buf.WriteByte(4)
		buf.Write(addr.IP.To4())
	} else {
		buf.WriteByte(6)
		buf.Write(addr.IP.To16())
	}
	var port [2]byte
	binary.LittleEndian.PutUint16(port[:], addr.Port)
	buf.Write(port[:])
}

func decodeOrigin(c *cursor) (SocketAddr, error) {
	ver, err := c.u8()
	if err != nil {
		return SocketAddr{}, err
	}
	var ipLen int
	switch ver {
	case 4:
		ipLen = 4
	case 6:
		ipLen = 16
	default:
		return SocketAddr{}, ErrUnknownIPVersion
	}
	raw, err := c.take(ipLen)
	if err != nil {
		return SocketAddr{}, err
	}
	ipCopy := make([]byte, ipLen)
	copy(ipCopy, raw)
	port, err := c.u16()
	if err != nil {
		return SocketAddr{}, err
	}
	return SocketAddr{IP: ipCopy, Port: port}, nil
}

// --- Message ---

// EncodeMessage serializes a Message's payload (tag, tuple body, origin)
// without the outer frame size prefix.
func EncodeMessage(m Message) []byte {
	var buf bytes.Buffer
	switch m.Kind {
	case BodyValue:
		buf.WriteByte(byte(BodyValue))
		encodeValueTuple(&buf, m.Values)
	case BodyRequest:
		buf.WriteByte(byte(BodyRequest))
		encodeRequestTuple(&buf, m.Requests)
	}
	encodeOrigin(&buf, m.Origin)
	return buf.Bytes()
}

// DecodeMessage parses a single Message from a complete payload buffer,
// failing if any bytes remain unconsumed afterward.
func DecodeMessage(payload []byte) (Message, error) {
	c := &cursor{buf: payload}
	tag, err := c.u8()
	if err != nil {
		return Message{}, err
	}
	var msg Message
	switch BodyKind(tag) {
	case BodyValue:
		t, err := decodeValueTuple(c)
		if err != nil {
			return Message{}, err
		}
		msg.Kind = BodyValue
		msg.Values = t
	case BodyRequest:
		t, err := decodeRequestTuple(c)
		if err != nil {
			return Message{}, err
		}
		msg.Kind = BodyRequest
		msg.Requests = t
	default:
		return Message{}, ErrUnknownTag
	}
	origin, err := decodeOrigin(c)
	if err != nil {
		return Message{}, err
	}
	msg.Origin = origin
	if c.remaining() != 0 {
		return Message{}, ErrTrailingBytes
	}
	return msg, nil
}
