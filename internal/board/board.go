// Package board implements the grid: a mapping from (col,row) to an
// optional Cell, plus the data-level mutations (rotation, gravity, refill)
// that the rotation engine and cascade resolver drive. The grid is kept
// as a sparse map[geometry.Pos]Cell rather than a dense array, cheap to
// clone for read-only snapshots and a natural fit for a transient empty
// slot during cascades.
package board

import (
	"math/rand/v2"

	"github.com/arlowen/hexcascade/internal/generics"
	"github.com/arlowen/hexcascade/internal/geometry"
)

// ABI constants (§6).
const (
	Cols              = 9
	Rows              = 9
	DefaultPaletteSize = 5
	ExpandedPaletteSize = 6
	BombInitialTimer  = 15
	MultiplierSpawnP  = 0.05

	maxInitialRerollPasses = 100
)

// Board is the 9x9 grid. Absence of a key means an empty slot -- only
// transient, during cascades (§3).
type Board struct {
	bounds  geometry.Bounds
	cells   map[geometry.Pos]Cell
	palette int
}

// NewEmpty returns a board with every slot empty and the given palette
// size (5, or 6 with the "teal" expanded palette per §6).
func NewEmpty(paletteSize int) *Board {
	return &Board{
		bounds:  geometry.Bounds{Cols: Cols, Rows: Rows},
		cells:   make(map[geometry.Pos]Cell, Cols*Rows),
		palette: paletteSize,
	}
}

// Bounds returns the board's coordinate extent.
func (b *Board) Bounds() geometry.Bounds {
	return b.bounds
}

// PaletteSize returns the number of regular colors in play.
func (b *Board) PaletteSize() int {
	return b.palette
}

// At returns the cell at pos and whether the slot is occupied.
func (b *Board) At(pos geometry.Pos) (Cell, bool) {
	c, ok := b.cells[pos]
	return c, ok
}

// Set occupies pos with cell.
func (b *Board) Set(pos geometry.Pos, cell Cell) {
	b.cells[pos] = cell
}

// Clear empties pos.
func (b *Board) Clear(pos geometry.Pos) {
	delete(b.cells, pos)
}

// IsEmpty reports whether pos holds no cell.
func (b *Board) IsEmpty(pos geometry.Pos) bool {
	_, ok := b.cells[pos]
	return !ok
}

// Positions returns every occupied position, in no particular order.
func (b *Board) Positions() []geometry.Pos {
	return generics.KeysSlice(b.cells)
}

// Clone returns a deep copy, letting callers take a read-only snapshot
// between transitions (§5) without risking aliasing on the live board.
func (b *Board) Clone() *Board {
	clone := &Board{
		bounds:  b.bounds,
		cells:   make(map[geometry.Pos]Cell, len(b.cells)),
		palette: b.palette,
	}
	for pos, cell := range b.cells {
		clone.cells[pos] = cell
	}
	return clone
}

// NewBoard allocates a full grid of random colors, then re-rolls any cell
// participating in an initial 3+ run along any of the three axial axes, fix-
// point iterated up to 100 passes, so turn 1 never starts mid-cascade.
func NewBoard(rng *rand.Rand, paletteSize int) *Board {
	b := NewEmpty(paletteSize)
	for col := 0; col < b.bounds.Cols; col++ {
		for row := 0; row < b.bounds.Rows; row++ {
			b.Set(geometry.Pos{Col: col, Row: row}, RegularCell(rng.IntN(paletteSize)))
		}
	}

	for pass := 0; pass < maxInitialRerollPasses; pass++ {
		bad := b.initialLineRunMembers()
		if len(bad) == 0 {
			break
		}
		for pos := range bad {
			cell, _ := b.At(pos)
			cell.Color = rng.IntN(paletteSize)
			b.Set(pos, cell)
		}
	}
	return b
}

// initialLineRunMembers is a board-local duplicate of the line-run scan
// that internal/match.FindLineMatches performs, kept deliberately separate
// so the foundational Board package never imports the Matchers component
// built on top of it (that would form an import cycle: Matchers already
// depends on Board to read cells). Both scans walk the same three axial
// directions over same-color, non-blocker runs of length >= 3; this one
// exists purely to bootstrap a cascade-free starting board.
func (b *Board) initialLineRunMembers() generics.Set[geometry.Pos] {
	directions := [3]geometry.Pos{{Col: 1, Row: 0}, {Col: 0, Row: 1}, {Col: 1, Row: -1}}
	bad := generics.MakeSet[geometry.Pos]()
	for col := 0; col < b.bounds.Cols; col++ {
		for row := 0; row < b.bounds.Rows; row++ {
			start := geometry.Pos{Col: col, Row: row}
			cell, ok := b.At(start)
			if !ok || cell.IsMatchBlocker() {
				continue
			}
			for _, dir := range directions {
				sq, sr := geometry.OffsetToAxial(start)
				prev := geometry.AxialToOffset(sq-dir.Col, sr-dir.Row)
				if prevCell, ok := b.At(prev); ok && !prevCell.IsMatchBlocker() && prevCell.Color == cell.Color {
					// Not the start of a run in this direction; it will be
					// (or was) counted from its own start.
					continue
				}
				run := []geometry.Pos{start}
				cur := start
				for {
					q, r := geometry.OffsetToAxial(cur)
					next := geometry.AxialToOffset(q+dir.Col, r+dir.Row)
					nextCell, ok := b.At(next)
					if !ok || nextCell.IsMatchBlocker() || nextCell.Color != cell.Color {
						break
					}
					run = append(run, next)
					cur = next
				}
				if len(run) >= 3 {
					bad.Insert(run...)
				}
			}
		}
	}
	return bad
}

// rotateSlots shifts cell data among the positions in ring: CW means slot i
// receives the contents of slot (i-1) mod len(ring); CCW reverses. Absent
// slots propagate as absence -- only the cells inside the selection are
// touched, nothing else (§3 mutation rules).
func (b *Board) rotateSlots(ring []geometry.Pos, clockwise bool) {
	n := len(ring)
	prior := make([]Cell, n)
	priorOK := make([]bool, n)
	for i, pos := range ring {
		prior[i], priorOK[i] = b.At(pos)
	}
	for i, pos := range ring {
		var src int
		if clockwise {
			src = (i - 1 + n) % n
		} else {
			src = (i + 1) % n
		}
		if priorOK[src] {
			b.Set(pos, prior[src])
		} else {
			b.Clear(pos)
		}
	}
}

// RotateCluster rotates the three cells of a 3-cluster selection.
func (b *Board) RotateCluster(cluster [3]geometry.Pos, clockwise bool) {
	b.rotateSlots(cluster[:], clockwise)
}

// RotateRing rotates the six ring cells of a starflower selection.
func (b *Board) RotateRing(ring [6]geometry.Pos, clockwise bool) {
	b.rotateSlots(ring[:], clockwise)
}

// RotateY rotates the three alternating-neighbor cells of a black-pearl Y
// selection. It shares the cluster's 3-cycle topology but keeps its own
// name per §3/§4.6, since a Y selects indices 0,2,4 of the neighbor table
// rather than three mutually-adjacent cells.
func (b *Board) RotateY(y [3]geometry.Pos, clockwise bool) {
	b.rotateSlots(y[:], clockwise)
}

// GravityMove records one cell's drop during ApplyGravity, letting
// callers build a host-facing fall-map event without re-diffing the board.
type GravityMove struct {
	Col             int
	FromRow, ToRow  int
	Cell            Cell
}

// ApplyGravity collapses every column: cells drop into the lowest empty
// slot below them, preserving order within the column. Returns the list of
// cells that actually moved; an empty slice means the board was already
// settled.
func (b *Board) ApplyGravity() []GravityMove {
	var moves []GravityMove
	for col := 0; col < b.bounds.Cols; col++ {
		write := b.bounds.Rows - 1
		for row := b.bounds.Rows - 1; row >= 0; row-- {
			pos := geometry.Pos{Col: col, Row: row}
			cell, ok := b.At(pos)
			if !ok {
				continue
			}
			target := geometry.Pos{Col: col, Row: write}
			if target != pos {
				b.Clear(pos)
				b.Set(target, cell)
				moves = append(moves, GravityMove{Col: col, FromRow: row, ToRow: write, Cell: cell})
			}
			write--
		}
	}
	return moves
}

// FillEmpty fills every empty slot with a fresh random-color cell. Each new
// cell independently has a MultiplierSpawnP chance of being a multiplier.
// If spawnBomb is true and at least one cell was filled, one uniformly-
// random filled cell is promoted to a bomb with BombInitialTimer. Returns
// the positions filled and, if a bomb was spawned, its position.
func (b *Board) FillEmpty(rng *rand.Rand, spawnBomb bool) (filled []geometry.Pos, bombPos geometry.Pos, bombSpawned bool) {
	for col := 0; col < b.bounds.Cols; col++ {
		for row := 0; row < b.bounds.Rows; row++ {
			pos := geometry.Pos{Col: col, Row: row}
			if !b.IsEmpty(pos) {
				continue
			}
			cell := RegularCell(rng.IntN(b.palette))
			if rng.Float64() < MultiplierSpawnP {
				cell.Special = SpecialMultiplier
			}
			b.Set(pos, cell)
			filled = append(filled, pos)
		}
	}
	if spawnBomb && len(filled) > 0 {
		chosen := filled[rng.IntN(len(filled))]
		cell, _ := b.At(chosen)
		cell.Special = SpecialBomb
		cell.BombTimer = BombInitialTimer
		b.Set(chosen, cell)
		bombPos = chosen
		bombSpawned = true
	}
	return filled, bombPos, bombSpawned
}
