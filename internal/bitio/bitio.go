// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package bitio implements the compact binary framing used by every
// external handshake: trivially-copyable values as raw host-endian bytes,
// strings as raw bytes followed by a single zero terminator.
package bitio

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/notecore/chartcore/internal/coreerr"
)

// nativeOrder matches the host-endian framing the wire format assumes. Go
// has no "host endian" concept at compile time, so we fix little-endian,
// which is what every realistic host platform for this embedding uses.
var nativeOrder = binary.LittleEndian

// Writer accumulates encoded primitives into an in-memory buffer.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated encoded bytes.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.buf.Len() }

func (w *Writer) WriteInt32(v int32) {
	var tmp [4]byte
	nativeOrder.PutUint32(tmp[:], uint32(v))
	w.buf.Write(tmp[:])
}

func (w *Writer) WriteUint32(v uint32) {
	var tmp [4]byte
	nativeOrder.PutUint32(tmp[:], v)
	w.buf.Write(tmp[:])
}

func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

func (w *Writer) WriteFloat64(v float64) {
	var tmp [8]byte
	nativeOrder.PutUint64(tmp[:], math.Float64bits(v))
	w.buf.Write(tmp[:])
}

func (w *Writer) WriteByte4(v [4]byte) {
	w.buf.Write(v[:])
}

// WriteCString writes s as raw UTF-8 bytes followed by a single zero
// terminator.
func (w *Writer) WriteCString(s string) {
	w.buf.WriteString(s)
	w.buf.WriteByte(0)
}

// Cursor reads primitives from a fixed byte slice, tracking position. It
// never retains the slice beyond the read calls issued against it.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor wraps buf for sequential reads starting at offset 0.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the current read offset.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

func (c *Cursor) need(n int) error {
	if c.Remaining() < n {
		return coreerr.ErrDecodeError
	}
	return nil
}

func (c *Cursor) ReadInt32() (int32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := int32(nativeOrder.Uint32(c.buf[c.pos:]))
	c.pos += 4
	return v, nil
}

func (c *Cursor) ReadUint32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := nativeOrder.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v, nil
}

func (c *Cursor) ReadFloat32() (float32, error) {
	v, err := c.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (c *Cursor) ReadFloat64() (float64, error) {
	if err := c.need(8); err != nil {
		return 0, err
	}
	v := math.Float64frombits(nativeOrder.Uint64(c.buf[c.pos:]))
	c.pos += 8
	return v, nil
}

// ReadCString reads bytes up to the next zero terminator and consumes the
// terminator itself.
func (c *Cursor) ReadCString() (string, error) {
	idx := bytes.IndexByte(c.buf[c.pos:], 0)
	if idx < 0 {
		return "", coreerr.ErrDecodeError
	}
	s := string(c.buf[c.pos : c.pos+idx])
	c.pos += idx + 1
	return s, nil
}

// Sink writes primitives into a fixed-capacity, caller-owned buffer,
// bounds-checking every write instead of growing. The Emission Pipeline
// writes its vertex bytes into host-supplied memory through it, without
// ever reallocating that memory.
type Sink struct {
	buf []byte
	pos int
}

// NewSink wraps buf for sequential bounded writes starting at offset 0.
func NewSink(buf []byte) *Sink {
	return &Sink{buf: buf}
}

// Pos returns the number of bytes written so far.
func (s *Sink) Pos() int { return s.pos }

// Remaining returns the number of free bytes left in the buffer.
func (s *Sink) Remaining() int { return len(s.buf) - s.pos }

func (s *Sink) reserve(n int) error {
	if s.Remaining() < n {
		return coreerr.ErrBufferTooSmall
	}
	return nil
}

// WriteFloat32 writes v and advances the cursor, or returns
// coreerr.ErrBufferTooSmall without writing anything.
func (s *Sink) WriteFloat32(v float32) error {
	if err := s.reserve(4); err != nil {
		return err
	}
	nativeOrder.PutUint32(s.buf[s.pos:], math.Float32bits(v))
	s.pos += 4
	return nil
}

// WriteInt32 writes v and advances the cursor.
func (s *Sink) WriteInt32(v int32) error {
	if err := s.reserve(4); err != nil {
		return err
	}
	nativeOrder.PutUint32(s.buf[s.pos:], uint32(v))
	s.pos += 4
	return nil
}

// WriteByte4 writes v and advances the cursor.
func (s *Sink) WriteByte4(v [4]byte) error {
	if err := s.reserve(4); err != nil {
		return err
	}
	copy(s.buf[s.pos:s.pos+4], v[:])
	s.pos += 4
	return nil
}

// WriteCString writes s as raw UTF-8 bytes followed by a zero terminator.
func (s *Sink) WriteCString(str string) error {
	if err := s.reserve(len(str) + 1); err != nil {
		return err
	}
	copy(s.buf[s.pos:], str)
	s.pos += len(str)
	s.buf[s.pos] = 0
	s.pos++
	return nil
}

// Bytes returns the portion of the underlying buffer written so far.
func (s *Sink) Bytes() []byte { return s.buf[:s.pos] }
