// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package emission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notecore/chartcore/internal/spritecatalog"
)

func fullUVSprite(kind spritecatalog.DrawKind) spritecatalog.Sprite {
	return spritecatalog.Sprite{
		Name: "s",
		Size: [2]float64{64, 64},
		UV0:  [2]float64{0, 0},
		UV1:  [2]float64{1, 1},
		Draw: spritecatalog.DrawSetting{Kind: kind},
	}
}

func TestExpandQuads_Normal(t *testing.T) {
	sprite := fullUVSprite(spritecatalog.DrawNormal)
	quads := ExpandQuads(sprite, 10, 20, 30, 40, 0)

	assert.Len(t, quads, 1)
	q := quads[0]
	assert.Equal(t, float32(10), q.P0.X)
	assert.Equal(t, float32(20), q.P0.Y)
	assert.Equal(t, float32(40), q.P3.X) // x + w
	assert.Equal(t, float32(60), q.P3.Y) // y + h
}

func TestExpandQuads_Seg3_ThreeStripsCoverHeight(t *testing.T) {
	sprite := fullUVSprite(spritecatalog.DrawSeg3)
	sprite.Draw.Seg3 = [2]float64{8, 8}

	quads := ExpandQuads(sprite, 0, 0, 20, 100, 0)
	assert.Len(t, quads, 3)

	// top cap, stretch, bottom cap stack with no gaps and cover exactly h.
	top, mid, bot := quads[0], quads[1], quads[2]
	assert.Equal(t, float32(0), top.P0.Y)
	assert.Equal(t, top.P2.Y, mid.P0.Y)
	assert.Equal(t, mid.P2.Y, bot.P0.Y)
	assert.Equal(t, float32(100), bot.P2.Y)
}

func TestExpandQuads_Seg3_CapsClampedToHalfHeight(t *testing.T) {
	sprite := fullUVSprite(spritecatalog.DrawSeg3)
	sprite.Draw.Seg3 = [2]float64{1000, 1000} // far larger than h

	quads := ExpandQuads(sprite, 0, 0, 20, 40, 0)
	// caps clamp to h/2 each, leaving a zero-height middle strip dropped entirely.
	assert.Len(t, quads, 2)
	top, bot := quads[0], quads[1]
	assert.Equal(t, float32(20), top.P2.Y-top.P0.Y)
	assert.Equal(t, float32(20), bot.P2.Y-bot.P0.Y)
}

func TestExpandQuads_Seg5_FiveStripsSymmetric(t *testing.T) {
	sprite := fullUVSprite(spritecatalog.DrawSeg5)
	sprite.Draw.Seg5 = [3]float64{10, 20, 10}

	quads := ExpandQuads(sprite, 0, 0, 20, 100, 0)
	assert.Len(t, quads, 5)

	heights := make([]float32, 5)
	for i, q := range quads {
		heights[i] = q.P2.Y - q.P0.Y
	}
	assert.Equal(t, heights[0], heights[4]) // the two end caps are equal
	assert.Equal(t, heights[1], heights[3]) // the two stretch strips are symmetric
	var total float32
	for _, h := range heights {
		total += h
	}
	assert.InDelta(t, 100, total, 0.01)
}

func TestExpandQuads_Slice9_EightQuadsNoCentre(t *testing.T) {
	sprite := fullUVSprite(spritecatalog.DrawSlice9)
	sprite.Draw.Slice9 = [4]float64{5, 5, 5, 5}

	quads := ExpandQuads(sprite, 0, 0, 50, 50, 0)
	assert.Len(t, quads, 8, "3x3 grid minus the centre cell is eight quads")
}

func TestExpandQuads_Slice9_BordersClampedWhenExceedingRect(t *testing.T) {
	sprite := fullUVSprite(spritecatalog.DrawSlice9)
	sprite.Draw.Slice9 = [4]float64{40, 40, 40, 40} // l+r=80 > w=20

	quads := ExpandQuads(sprite, 0, 0, 20, 20, 0)
	assert.Len(t, quads, 8)
	// clamped borders leave a (possibly zero-area) centre still omitted;
	// no quad should have a negative width or height.
	for _, q := range quads {
		assert.GreaterOrEqual(t, q.P1.X, q.P0.X)
		assert.GreaterOrEqual(t, q.P2.Y, q.P0.Y)
	}
}

func TestExpandQuads_RepeatVertical_StacksAndTruncatesFinalTile(t *testing.T) {
	sprite := fullUVSprite(spritecatalog.DrawRepeatVertical)
	sprite.Size = [2]float64{64, 16}

	quads := ExpandQuads(sprite, 0, 0, 64, 40, 16)
	// 16 + 16 + 8 (truncated) = 40
	assert.Len(t, quads, 3)
	last := quads[2]
	assert.Equal(t, float32(8), last.P2.Y-last.P0.Y)
}

func TestExpandQuads_RepeatVertical_BoundedByMaxQuads(t *testing.T) {
	sprite := fullUVSprite(spritecatalog.DrawRepeatVertical)
	sprite.Size = [2]float64{64, 16}

	bound := sprite.MaxQuads(16)
	quads := ExpandQuads(sprite, 0, 0, 64, 1_000_000, 16)
	assert.LessOrEqual(t, len(quads), bound)
}

func TestExpandQuads_UnknownKindReturnsNil(t *testing.T) {
	sprite := fullUVSprite(spritecatalog.DrawKind(99))
	quads := ExpandQuads(sprite, 0, 0, 10, 10, 0)
	assert.Nil(t, quads)
}
