package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arlowen/hexcascade/internal/board"
	. "github.com/arlowen/hexcascade/internal/match"
	"github.com/arlowen/hexcascade/internal/geometry"
)

func fillerBoard() *board.Board {
	b := board.NewEmpty(board.DefaultPaletteSize)
	for col := 0; col < board.Cols; col++ {
		for row := 0; row < board.Rows; row++ {
			b.Set(geometry.Pos{Col: col, Row: row}, board.RegularCell((col+row)%5))
		}
	}
	return b
}

func TestFindLineMatchesMinimalRun(t *testing.T) {
	b := fillerBoard()
	b.Set(geometry.Pos{Col: 4, Row: 2}, board.RegularCell(3))
	b.Set(geometry.Pos{Col: 4, Row: 3}, board.RegularCell(3))
	b.Set(geometry.Pos{Col: 4, Row: 4}, board.RegularCell(3))

	matches := FindLineMatches(b)
	assert.True(t, matches.Has(geometry.Pos{Col: 4, Row: 2}))
	assert.True(t, matches.Has(geometry.Pos{Col: 4, Row: 3}))
	assert.True(t, matches.Has(geometry.Pos{Col: 4, Row: 4}))
}

func TestFindLineMatchesNeverIncludesStarflowerOrPearl(t *testing.T) {
	b := fillerBoard()
	p := geometry.Pos{Col: 4, Row: 4}
	b.Set(p, board.StarflowerCell())
	for _, n := range geometry.Neighbors(p) {
		b.Set(n, board.RegularCell(0))
	}
	matches := FindLineMatches(b)
	assert.False(t, matches.Has(p))

	b.Set(p, board.BlackPearlCell())
	matches = FindLineMatches(b)
	assert.False(t, matches.Has(p))
}

func TestFindTriangleMatches(t *testing.T) {
	b := fillerBoard()
	c := geometry.Pos{Col: 4, Row: 3}
	neighbors := geometry.Neighbors(c)
	n0 := neighbors[0]
	n1 := neighbors[1]
	b.Set(c, board.RegularCell(7))
	b.Set(n0, board.RegularCell(7))
	b.Set(n1, board.RegularCell(7))

	matches := FindTriangleMatches(b)
	assert.True(t, matches.Has(c))
	assert.True(t, matches.Has(n0))
	assert.True(t, matches.Has(n1))
}

func TestFindTriangleMatchesRequiresMutualAdjacency(t *testing.T) {
	b := fillerBoard()
	// Pick B and D that are NOT adjacent-pair neighbors (skip one index):
	// with i and i+2 instead of i and i+1, no triangle should form even
	// if colors coincide, because the scan only ever tries (i, i+1).
	c := geometry.Pos{Col: 4, Row: 4}
	neighbors := geometry.Neighbors(c)
	b.Set(c, board.RegularCell(2))
	b.Set(neighbors[0], board.RegularCell(2))
	b.Set(neighbors[2], board.RegularCell(2))
	// neighbors[1] remains filler, breaking the (0,1) and (1,2) triangles.

	matches := FindTriangleMatches(b)
	assert.False(t, matches.Has(c) && matches.Has(neighbors[0]) && matches.Has(neighbors[2]))
}

func TestFindMatchesForModeDispatch(t *testing.T) {
	b := fillerBoard()
	c := geometry.Pos{Col: 4, Row: 3}
	neighbors := geometry.Neighbors(c)
	b.Set(c, board.RegularCell(7))
	b.Set(neighbors[0], board.RegularCell(7))
	b.Set(neighbors[1], board.RegularCell(7))

	triangleMatches := FindMatchesForMode(b, ModeTriangle)
	assert.True(t, triangleMatches.Has(c))

	lineMatches := FindMatchesForMode(b, ModeLine)
	// The three triangle cells are not colinear, so the line scanner
	// should not report them as a match.
	assert.False(t, lineMatches.Has(c) && lineMatches.Has(neighbors[0]) && lineMatches.Has(neighbors[1]))
}
