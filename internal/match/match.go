// Package match implements the two pattern scanners the cascade resolver
// and rotation engine test after every rotation step: line runs along the
// three axial axes, and mutual-adjacency triangles. Both walk the same
// neighbor table geometry exposes, just testing same-color runs or
// mutual adjacency instead of legal-move enumeration.
package match

import (
	"github.com/arlowen/hexcascade/internal/board"
	"github.com/arlowen/hexcascade/internal/generics"
	"github.com/arlowen/hexcascade/internal/geometry"
)

// Mode selects which matcher find_matches_for_mode dispatches to (§4.3,
// §6).
type Mode uint8

const (
	ModeLine Mode = iota
	ModeTriangle

	lastMode
)

var modeNames = [...]string{"line", "triangle"}

func (m Mode) String() string {
	if m >= lastMode {
		return "Mode(?)"
	}
	return modeNames[m]
}

// axialDirections are the three axes a line run can extend along.
var axialDirections = [3]geometry.Pos{{Col: 1, Row: 0}, {Col: 0, Row: 1}, {Col: 1, Row: -1}}

// FindLineMatches scans every non-empty, non-blocker cell and walks
// forward along each of the three axial directions collecting the run of
// same-color cells. Any run of length >= 3 contributes all its cells to
// the returned set. Starflowers and black pearls never participate.
func FindLineMatches(b *board.Board) generics.Set[geometry.Pos] {
	matched := generics.MakeSet[geometry.Pos]()
	bounds := b.Bounds()
	for col := 0; col < bounds.Cols; col++ {
		for row := 0; row < bounds.Rows; row++ {
			start := geometry.Pos{Col: col, Row: row}
			cell, ok := b.At(start)
			if !ok || cell.IsMatchBlocker() {
				continue
			}
			for _, dir := range axialDirections {
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
					matched.Insert(run...)
				}
			}
		}
	}
	return matched
}

// FindTriangleMatches scans every non-empty, non-blocker cell C; for each
// i in 0..5, if B = neighbors(C)[i] and D = neighbors(C)[(i+1)%6] are both
// in bounds, both non-blocker and all three share the same color, {C,B,D}
// is added to the result. The fixed clockwise neighbor ordering guarantees
// B and D are mutually adjacent, making {C,B,D} a genuine triangle.
func FindTriangleMatches(b *board.Board) generics.Set[geometry.Pos] {
	matched := generics.MakeSet[geometry.Pos]()
	bounds := b.Bounds()
	for col := 0; col < bounds.Cols; col++ {
		for row := 0; row < bounds.Rows; row++ {
			center := geometry.Pos{Col: col, Row: row}
			cCell, ok := b.At(center)
			if !ok || cCell.IsMatchBlocker() {
				continue
			}
			neighbors := geometry.Neighbors(center)
			for i := 0; i < 6; i++ {
				bPos := neighbors[i]
				dPos := neighbors[(i+1)%6]
				if !bounds.InBounds(bPos) || !bounds.InBounds(dPos) {
					continue
				}
				bCell, ok := b.At(bPos)
				if !ok || bCell.IsMatchBlocker() || bCell.Color != cCell.Color {
					continue
				}
				dCell, ok := b.At(dPos)
				if !ok || dCell.IsMatchBlocker() || dCell.Color != cCell.Color {
					continue
				}
				matched.Insert(center, bPos, dPos)
			}
		}
	}
	return matched
}

// FindMatchesForMode dispatches to the matcher for the active MatchMode.
func FindMatchesForMode(b *board.Board, mode Mode) generics.Set[geometry.Pos] {
	switch mode {
	case ModeTriangle:
		return FindTriangleMatches(b)
	default:
		return FindLineMatches(b)
	}
}
