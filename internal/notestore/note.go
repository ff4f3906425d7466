// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package notestore owns the pooled, indexed collection of note records
// that backs per-frame rendering of a rhythm-game chart.
package notestore

import (
	"github.com/notecore/chartcore/internal/bitio"
	"github.com/notecore/chartcore/internal/coreerr"
)

// Side identifies the judgement lane a note belongs to.
type Side int32

const (
	SideCenter Side = 0
	SideLeft   Side = 1
	SideRight  Side = 2
)

// Type identifies the note's behaviour.
type Type int32

const (
	TypeTap   Type = 0
	TypeChain Type = 1
	TypeHold  Type = 2
	TypeSub   Type = 3
)

// NoteIDLength is the fixed length of an opaque note identifier.
const NoteIDLength = 9

// Note is a point event in chart time on one of three judgement lanes. It
// is always handled by value: the store never hands out live pointers to
// its internal pool.
type Note struct {
	Side      Side
	Type      Type
	Time      float64
	Width     float64
	Position  float64
	LastTime  float64
	BeginTime float64
	ID        string
	SubID     string
}

// IsHold reports whether the note owns a paired sub note that terminates
// it.
func (n Note) IsHold() bool { return n.Type == TypeHold }

// bitsize mirrors the original implementation's trivially-copyable layout
// cost accounting: two 4-byte enums, five 8-byte floats, two
// zero-terminated strings.
func (n Note) bitsize() int {
	return 4*2 + 8*5 + len(n.ID) + 1 + len(n.SubID) + 1
}

// Encode serializes n in the fixed field order side, type, time, width,
// position, last_time, begin_time, id, sub_id.
func Encode(n Note) []byte {
	w := bitio.NewWriter()
	w.WriteInt32(int32(n.Side))
	w.WriteInt32(int32(n.Type))
	w.WriteFloat64(n.Time)
	w.WriteFloat64(n.Width)
	w.WriteFloat64(n.Position)
	w.WriteFloat64(n.LastTime)
	w.WriteFloat64(n.BeginTime)
	w.WriteCString(n.ID)
	w.WriteCString(n.SubID)
	return w.Bytes()
}

// Decode parses a byte slice produced by Encode. It returns
// coreerr.ErrDecodeError on any malformed input.
func Decode(buf []byte) (Note, error) {
	c := bitio.NewCursor(buf)
	var n Note

	side, err := c.ReadInt32()
	if err != nil {
		return Note{}, coreerr.ErrDecodeError
	}
	n.Side = Side(side)

	typ, err := c.ReadInt32()
	if err != nil {
		return Note{}, coreerr.ErrDecodeError
	}
	n.Type = Type(typ)

	if n.Time, err = c.ReadFloat64(); err != nil {
		return Note{}, coreerr.ErrDecodeError
	}
	if n.Width, err = c.ReadFloat64(); err != nil {
		return Note{}, coreerr.ErrDecodeError
	}
	if n.Position, err = c.ReadFloat64(); err != nil {
		return Note{}, coreerr.ErrDecodeError
	}
	if n.LastTime, err = c.ReadFloat64(); err != nil {
		return Note{}, coreerr.ErrDecodeError
	}
	if n.BeginTime, err = c.ReadFloat64(); err != nil {
		return Note{}, coreerr.ErrDecodeError
	}
	if n.ID, err = c.ReadCString(); err != nil {
		return Note{}, coreerr.ErrDecodeError
	}
	if n.SubID, err = c.ReadCString(); err != nil {
		return Note{}, coreerr.ErrDecodeError
	}

	return n, nil
}
