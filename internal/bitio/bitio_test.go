// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bitio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notecore/chartcore/internal/coreerr"
)

func TestWriter_PrimitivesRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteInt32(-42)
	w.WriteUint32(7)
	w.WriteFloat32(3.5)
	w.WriteFloat64(-1.25)
	w.WriteCString("hello")

	c := NewCursor(w.Bytes())

	i32, err := c.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-42), i32)

	u32, err := c.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(7), u32)

	f32, err := c.ReadFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(3.5), f32)

	f64, err := c.ReadFloat64()
	require.NoError(t, err)
	assert.Equal(t, -1.25, f64)

	s, err := c.ReadCString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	assert.Equal(t, 0, c.Remaining())
}

func TestWriter_EmptyCString(t *testing.T) {
	w := NewWriter()
	w.WriteCString("")
	c := NewCursor(w.Bytes())
	s, err := c.ReadCString()
	require.NoError(t, err)
	assert.Equal(t, "", s)
}

func TestCursor_UnderrunIsDecodeError(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3})
	_, err := c.ReadInt32()
	assert.ErrorIs(t, err, coreerr.ErrDecodeError)
}

func TestCursor_MissingTerminatorIsDecodeError(t *testing.T) {
	c := NewCursor([]byte("no-terminator"))
	_, err := c.ReadCString()
	assert.ErrorIs(t, err, coreerr.ErrDecodeError)
}
