package cascade

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arlowen/hexcascade/internal/board"
	"github.com/arlowen/hexcascade/internal/events"
	"github.com/arlowen/hexcascade/internal/geometry"
	"github.com/arlowen/hexcascade/internal/scoring"
)

// TestPostSettleSpecialsClearsStarflowerRing exercises the real
// whole-board starflower-birth path: special.DetectStarflowers only
// mutates the center cell, so postSettleSpecials must clear the six ring
// cells itself, then run gravity and refill on the resulting gaps (§4.4).
func TestPostSettleSpecialsClearsStarflowerRing(t *testing.T) {
	b := board.NewEmpty(board.DefaultPaletteSize)
	center := geometry.Pos{Col: 4, Row: 4}
	ring := geometry.Neighbors(center)
	for _, n := range ring {
		b.Set(n, board.RegularCell(0))
	}
	b.Set(center, board.RegularCell(1))

	ctx := Context{
		Board:   b,
		RNG:     rand.New(rand.NewPCG(1, 2)),
		Scoring: &scoring.Scoring{},
	}
	evs := postSettleSpecials(ctx)

	var sawBorn, sawGravity, sawRefilled bool
	for _, e := range evs {
		switch e.Kind {
		case events.KindStarflowerBorn:
			sawBorn = true
			assert.Equal(t, center, e.Center)
			assert.Equal(t, ring, e.Ring)
		case events.KindGravity:
			sawGravity = true
		case events.KindRefilled:
			sawRefilled = true
		}
	}
	assert.True(t, sawBorn, "should have reported the starflower birth")
	assert.True(t, sawGravity, "clearing the ring should have dropped the column holding the new starflower")
	assert.True(t, sawRefilled, "clearing the ring should leave gaps that refill tops back up")

	for _, pos := range ring {
		cell, ok := b.At(pos)
		if ok {
			assert.NotEqual(t, board.ColorStarflower, cell.Color, "ring cell %v should not itself be the birth", pos)
		}
	}

	bounds := b.Bounds()
	for col := 0; col < bounds.Cols; col++ {
		for row := 0; row < bounds.Rows; row++ {
			assert.False(t, b.IsEmpty(geometry.Pos{Col: col, Row: row}), "pos %d,%d should have been refilled", col, row)
		}
	}
}
