// File: internal/wire/frame.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Length-prefixed frame I/O: frame := size:u64 payload:bytes[size].

package wire

import (
	"encoding/binary"
	"io"
)

// WriteFrame writes m to w as one length-prefixed frame. Callers that
// share w across goroutines must serialize calls themselves (the ring's
// outbound socket is guarded by the engine's send mutex, not by this
// function).
func WriteFrame(w io.Writer, m Message) error {
	payload := EncodeMessage(m)
	var sizeBuf [8]byte
	binary.LittleEndian.PutUint64(sizeBuf[:], uint64(len(payload)))
	if _, err := w.Write(sizeBuf[:]); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	return nil
}

// ReadFrame blocks until one complete frame has been read from r, then
// decodes it.
func ReadFrame(r io.Reader) (Message, error) {
	var sizeBuf [8]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return Message{}, err
	}
	size := binary.LittleEndian.Uint64(sizeBuf[:])
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Message{}, err
	}
	return DecodeMessage(payload)
}
