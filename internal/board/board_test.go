package board_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/arlowen/hexcascade/internal/board"
	"github.com/arlowen/hexcascade/internal/geometry"
)

// fullBoardOfColor builds a board where every cell is the given color,
// a literal-layout helper for deterministic match setups.
func fullBoardOfColor(color int) *Board {
	b := NewEmpty(DefaultPaletteSize)
	for col := 0; col < Cols; col++ {
		for row := 0; row < Rows; row++ {
			b.Set(geometry.Pos{Col: col, Row: row}, RegularCell(color))
		}
	}
	return b
}

func TestNewBoardHasNoInitialLineMatch(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	b := NewBoard(rng, DefaultPaletteSize)
	directions := [3]geometry.Pos{{Col: 1, Row: 0}, {Col: 0, Row: 1}, {Col: 1, Row: -1}}
	for col := 0; col < Cols; col++ {
		for row := 0; row < Rows; row++ {
			start := geometry.Pos{Col: col, Row: row}
			cell, ok := b.At(start)
			require.True(t, ok)
			for _, dir := range directions {
				run := 1
				cur := start
				for {
					q, r := geometry.OffsetToAxial(cur)
					next := geometry.AxialToOffset(q+dir.Col, r+dir.Row)
					nextCell, ok := b.At(next)
					if !ok || nextCell.Color != cell.Color {
						break
					}
					run++
					cur = next
				}
				assert.Less(t, run, 3, "found a run of %d at %v along %v", run, start, dir)
			}
		}
	}
}

func TestRotateClusterIsIdentityAfterThreeSteps(t *testing.T) {
	b := fullBoardOfColor(0)
	before := b.Clone()
	cluster := [3]geometry.Pos{{4, 4}, {5, 4}, {5, 3}}
	for i := 0; i < 3; i++ {
		b.RotateCluster(cluster, true)
	}
	for _, pos := range cluster {
		wantCell, _ := before.At(pos)
		gotCell, _ := b.At(pos)
		assert.Equal(t, wantCell, gotCell)
	}
}

func TestRotateClusterMovesData(t *testing.T) {
	b := NewEmpty(DefaultPaletteSize)
	cluster := [3]geometry.Pos{{0, 0}, {1, 0}, {1, 1}}
	b.Set(cluster[0], RegularCell(1))
	b.Set(cluster[1], RegularCell(2))
	b.Set(cluster[2], RegularCell(3))

	b.RotateCluster(cluster, true)

	c0, _ := b.At(cluster[0])
	c1, _ := b.At(cluster[1])
	c2, _ := b.At(cluster[2])
	assert.Equal(t, 3, c0.Color) // slot 0 receives slot (0-1 mod 3)=2
	assert.Equal(t, 1, c1.Color)
	assert.Equal(t, 2, c2.Color)
}

func TestRotateRingIsIdentityAfterSixSteps(t *testing.T) {
	b := fullBoardOfColor(0)
	before := b.Clone()
	ring := [6]geometry.Pos{{5, 4}, {5, 3}, {4, 3}, {3, 3}, {3, 4}, {4, 5}}
	for i := 0; i < 6; i++ {
		b.RotateRing(ring, false)
	}
	for _, pos := range ring {
		wantCell, _ := before.At(pos)
		gotCell, _ := b.At(pos)
		assert.Equal(t, wantCell, gotCell)
	}
}

func TestApplyGravityCollapsesColumn(t *testing.T) {
	b := NewEmpty(DefaultPaletteSize)
	b.Set(geometry.Pos{Col: 0, Row: 0}, RegularCell(1))
	b.Set(geometry.Pos{Col: 0, Row: 3}, RegularCell(2))
	// rows 1,2 empty; rows 4..8 empty.

	moves := b.ApplyGravity()
	require.NotEmpty(t, moves)

	for row := 0; row < Rows-2; row++ {
		assert.True(t, b.IsEmpty(geometry.Pos{Col: 0, Row: row}), "row %d should be empty", row)
	}
	bottom, ok := b.At(geometry.Pos{Col: 0, Row: Rows - 1})
	require.True(t, ok)
	assert.Equal(t, 2, bottom.Color)
	second, ok := b.At(geometry.Pos{Col: 0, Row: Rows - 2})
	require.True(t, ok)
	assert.Equal(t, 1, second.Color)
}

func TestApplyGravityNoMovementWhenAlreadySettled(t *testing.T) {
	b := fullBoardOfColor(0)
	moves := b.ApplyGravity()
	assert.Empty(t, moves)
}

func TestFillEmptyLeavesNoEmptySlots(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	b := NewEmpty(DefaultPaletteSize)
	b.FillEmpty(rng, false)
	for col := 0; col < Cols; col++ {
		for row := 0; row < Rows; row++ {
			assert.False(t, b.IsEmpty(geometry.Pos{Col: col, Row: row}))
		}
	}
}

func TestFillEmptySpawnsAtMostOneBomb(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	b := NewEmpty(DefaultPaletteSize)
	b.FillEmpty(rng, true)

	bombs := 0
	for _, pos := range b.Positions() {
		cell, _ := b.At(pos)
		if cell.Special == SpecialBomb {
			bombs++
			assert.Equal(t, BombInitialTimer, cell.BombTimer)
		}
	}
	assert.Equal(t, 1, bombs)
}

func TestFillEmptyNoBombWhenNothingFilled(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	b := fullBoardOfColor(0)
	filled, _, bombSpawned := b.FillEmpty(rng, true)
	assert.Empty(t, filled)
	assert.False(t, bombSpawned)
	for _, pos := range b.Positions() {
		cell, _ := b.At(pos)
		assert.NotEqual(t, SpecialBomb, cell.Special)
	}
}
