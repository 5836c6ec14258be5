package rotation_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlowen/hexcascade/internal/board"
	"github.com/arlowen/hexcascade/internal/events"
	"github.com/arlowen/hexcascade/internal/geometry"
	"github.com/arlowen/hexcascade/internal/match"
	. "github.com/arlowen/hexcascade/internal/rotation"
	"github.com/arlowen/hexcascade/internal/scoring"
)

func checkerboardBoard() *board.Board {
	b := board.NewEmpty(board.DefaultPaletteSize)
	for col := 0; col < board.Cols; col++ {
		for row := 0; row < board.Rows; row++ {
			color := (col*2 + row) % board.DefaultPaletteSize
			b.Set(geometry.Pos{Col: col, Row: row}, board.RegularCell(color))
		}
	}
	return b
}

func newContext(b *board.Board) Context {
	bombQueued := false
	return Context{
		Board:        b,
		RNG:          rand.New(rand.NewPCG(1, 1)),
		Scoring:      &scoring.Scoring{},
		MatchMode:    match.ModeLine,
		BombsEnabled: true,
		BombQueued:   &bombQueued,
	}
}

// TestRunFullCycleNoOpReportsNoHit does not use a cluster whose three
// cells share one color, since such a cluster matches on every step. To
// exercise a genuine full-cycle no-op it rotates a cluster of three
// distinct colors on an otherwise empty board, with no neighbor that could
// complete a run, and confirms a full three-step cycle restores the
// original layout and reports no hit.
func TestRunFullCycleNoOpReportsNoHit(t *testing.T) {
	b := board.NewEmpty(board.DefaultPaletteSize)
	cluster := [3]geometry.Pos{{Col: 4, Row: 4}, {Col: 5, Row: 4}, {Col: 5, Row: 3}}
	colors := []int{0, 1, 2}
	for i, pos := range cluster {
		b.Set(pos, board.RegularCell(colors[i]))
	}
	before := b.Clone()
	sel := board.NewClusterSelection(cluster[0], cluster[1], cluster[2])

	res := Run(newContext(b), sel, true)

	assert.False(t, res.Hit)
	assert.Empty(t, res.Events)
	for _, pos := range cluster {
		wantCell, _ := before.At(pos)
		gotCell, _ := b.At(pos)
		assert.Equal(t, wantCell, gotCell)
	}
}

func TestRunClusterRotationCreatesLineMatchAndResolves(t *testing.T) {
	b := checkerboardBoard()
	// cluster[0]=(4,4), cluster[1]=(5,4), cluster[2]=(5,3). A clockwise
	// step sends old[0]->new[1] and old[1]->new[2] (rotateSlots: slot i
	// receives slot (i-1+n)%n), so seeding cluster[0] and cluster[1] with
	// the target color X lands X in cluster[1] and cluster[2] after the
	// step; (5,2) stays fixed at X, completing the column run
	// (5,2)-(5,3)-(5,4).
	const x = 2
	cluster := [3]geometry.Pos{{Col: 4, Row: 4}, {Col: 5, Row: 4}, {Col: 5, Row: 3}}
	b.Set(geometry.Pos{Col: 5, Row: 2}, board.RegularCell(x))
	b.Set(cluster[0], board.RegularCell(x))
	b.Set(cluster[1], board.RegularCell(x))
	b.Set(cluster[2], board.RegularCell(1))

	sel := board.NewClusterSelection(cluster[0], cluster[1], cluster[2])
	res := Run(newContext(b), sel, true)

	require.True(t, res.Hit)
	require.NotEmpty(t, res.Events)
	assert.Equal(t, events.KindMatched, res.Events[0].Kind)
}

func TestRunStarflowerBirthWithoutLineMatchStillCountsAsHit(t *testing.T) {
	b := board.NewEmpty(board.DefaultPaletteSize)
	center := geometry.Pos{Col: 4, Row: 4}
	ring := geometry.Neighbors(center)
	colors := []int{1, 1, 1, 1, 1, 1}
	for i, n := range ring {
		b.Set(n, board.RegularCell(colors[i]))
	}
	b.Set(center, board.RegularCell(0))

	// Build a 3-cluster elsewhere that is a genuine full-cycle no-op, but
	// whose rotation is irrelevant here: the starflower already qualifies
	// before any rotation happens, so the first step (whatever it does to
	// the unrelated cluster) should report a hit purely from the
	// pre-existing starflower birth condition detected post-step.
	cluster := [3]geometry.Pos{{Col: 0, Row: 0}, {Col: 1, Row: 0}, {Col: 1, Row: 1}}
	b.Set(cluster[0], board.RegularCell(2))
	b.Set(cluster[1], board.RegularCell(3))
	b.Set(cluster[2], board.RegularCell(4))

	sel := board.NewClusterSelection(cluster[0], cluster[1], cluster[2])
	res := Run(newContext(b), sel, true)

	require.True(t, res.Hit)
	// With its ring cleared and nothing else in column 4, the new
	// starflower falls from the center to the bottom of the column.
	cell, ok := b.At(geometry.Pos{Col: 4, Row: 8})
	require.True(t, ok)
	assert.True(t, cell.IsStarflower())
}
