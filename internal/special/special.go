// Package special implements starflower and black-pearl birth detection,
// multiplier-cluster flood-fill and bomb ticking (§4.4). Multiplier
// clustering is a connected-component walk over the board's
// occupied-neighbor graph, tracked with a generics.Set of visited
// positions -- an ordinary neighbor-graph BFS restricted to multiplier
// cells, with no articulation-point math required.
package special

import (
	"github.com/arlowen/hexcascade/internal/board"
	"github.com/arlowen/hexcascade/internal/generics"
	"github.com/arlowen/hexcascade/internal/geometry"
)

// StarflowerBirth describes a starflower that has just come into being:
// the center cell (now mutated to a starflower) and the ring whose shared
// color produced it.
type StarflowerBirth struct {
	Center    geometry.Pos
	Ring      [6]geometry.Pos
	RingColor int
}

// DetectStarflowers scans the whole board for a regular cell whose six
// in-bounds neighbors are all present, non-blocker, identical in color,
// and different from the center's own color. It converts every qualifying
// center to a starflower and returns one descriptor per birth. The ring
// cells are not cleared here -- the cascade resolver clears them.
//
// The scan collects every candidate from the board's state as observed at
// call time, then applies all mutations together, so a birth triggered by
// this call never influences whether another cell in the same call also
// qualifies (idempotence per §8: running this twice in a row finds
// nothing new on the second call).
func DetectStarflowers(b *board.Board) []StarflowerBirth {
	bounds := b.Bounds()
	var candidates []StarflowerBirth
	for col := 0; col < bounds.Cols; col++ {
		for row := 0; row < bounds.Rows; row++ {
			center := geometry.Pos{Col: col, Row: row}
			cell, ok := b.At(center)
			if !ok || cell.IsMatchBlocker() {
				continue
			}
			ringColor, ring, ok := uniformNeighborColor(b, center)
			if !ok || ringColor < 0 || ringColor == cell.Color {
				continue
			}
			candidates = append(candidates, StarflowerBirth{Center: center, Ring: ring, RingColor: ringColor})
		}
	}
	for _, birth := range candidates {
		b.Set(birth.Center, board.StarflowerCell())
	}
	return candidates
}

// DetectStarflowersAtClearedGaps checks each just-cleared position: if all
// six in-bounds neighbors are present, not themselves starflowers, not
// members of the same cleared set, and share a common non-negative color,
// a fresh starflower is placed into the gap.
func DetectStarflowersAtClearedGaps(b *board.Board, cleared generics.Set[geometry.Pos]) []StarflowerBirth {
	bounds := b.Bounds()
	var candidates []StarflowerBirth
	for pos := range cleared {
		if !bounds.InBounds(pos) {
			continue
		}
		ringColor, ring, ok := uniformGapNeighborColor(b, pos, cleared)
		if !ok || ringColor < 0 {
			continue
		}
		candidates = append(candidates, StarflowerBirth{Center: pos, Ring: ring, RingColor: ringColor})
	}
	for _, birth := range candidates {
		b.Set(birth.Center, board.StarflowerCell())
	}
	return candidates
}

// uniformNeighborColor returns the common color of center's six neighbors
// if all are in bounds, non-blocker and identical in color.
func uniformNeighborColor(b *board.Board, center geometry.Pos) (color int, ring [6]geometry.Pos, ok bool) {
	bounds := b.Bounds()
	ring = geometry.Neighbors(center)
	color = -1
	for i, n := range ring {
		if !bounds.InBounds(n) {
			return 0, ring, false
		}
		cell, present := b.At(n)
		if !present || cell.IsMatchBlocker() {
			return 0, ring, false
		}
		if i == 0 {
			color = cell.Color
		} else if cell.Color != color {
			return 0, ring, false
		}
	}
	return color, ring, true
}

// uniformGapNeighborColor is uniformNeighborColor with the extra
// restriction that none of the neighbors may themselves be in the
// just-cleared set.
func uniformGapNeighborColor(b *board.Board, center geometry.Pos, cleared generics.Set[geometry.Pos]) (color int, ring [6]geometry.Pos, ok bool) {
	bounds := b.Bounds()
	ring = geometry.Neighbors(center)
	color = -1
	for i, n := range ring {
		if !bounds.InBounds(n) || cleared.Has(n) {
			return 0, ring, false
		}
		cell, present := b.At(n)
		if !present || cell.IsMatchBlocker() {
			return 0, ring, false
		}
		if i == 0 {
			color = cell.Color
		} else if cell.Color != color {
			return 0, ring, false
		}
	}
	return color, ring, true
}

// BlackPearlBirth describes a newly-born black pearl: the center (now a
// black pearl) and the six starflowers it absorbed.
type BlackPearlBirth struct {
	Center geometry.Pos
	Ring   [6]geometry.Pos
}

// DetectBlackPearls scans the whole board for a cell whose six in-bounds
// neighbors are all starflowers, converts the center to a black pearl and
// absorbs (clears) the six starflower ring cells. Gravity must follow a
// call that returns any births.
func DetectBlackPearls(b *board.Board) []BlackPearlBirth {
	bounds := b.Bounds()
	var candidates []BlackPearlBirth
	for col := 0; col < bounds.Cols; col++ {
		for row := 0; row < bounds.Rows; row++ {
			center := geometry.Pos{Col: col, Row: row}
			if _, present := b.At(center); !present {
				continue
			}
			ring := geometry.Neighbors(center)
			allStarflowers := true
			for _, n := range ring {
				if !bounds.InBounds(n) {
					allStarflowers = false
					break
				}
				cell, present := b.At(n)
				if !present || !cell.IsStarflower() {
					allStarflowers = false
					break
				}
			}
			if !allStarflowers {
				continue
			}
			candidates = append(candidates, BlackPearlBirth{Center: center, Ring: ring})
		}
	}
	for _, birth := range candidates {
		b.Set(birth.Center, board.BlackPearlCell())
		for _, n := range birth.Ring {
			b.Clear(n)
		}
	}
	return candidates
}

// DetectMultiplierClusters returns every connected component of
// special=multiplier cells with size >= 3, using the board's neighbor
// graph.
func DetectMultiplierClusters(b *board.Board) []generics.Set[geometry.Pos] {
	visited := generics.MakeSet[geometry.Pos]()
	var clusters []generics.Set[geometry.Pos]
	bounds := b.Bounds()
	for col := 0; col < bounds.Cols; col++ {
		for row := 0; row < bounds.Rows; row++ {
			start := geometry.Pos{Col: col, Row: row}
			if visited.Has(start) || !isMultiplier(b, start) {
				continue
			}
			component := generics.MakeSet[geometry.Pos]()
			queue := []geometry.Pos{start}
			visited.Insert(start)
			for len(queue) > 0 {
				pos := queue[0]
				queue = queue[1:]
				component.Insert(pos)
				for _, n := range geometry.Neighbors(pos) {
					if !bounds.InBounds(n) || visited.Has(n) || !isMultiplier(b, n) {
						continue
					}
					visited.Insert(n)
					queue = append(queue, n)
				}
			}
			if len(component) >= 3 {
				clusters = append(clusters, component)
			}
		}
	}
	return clusters
}

func isMultiplier(b *board.Board, pos geometry.Pos) bool {
	cell, ok := b.At(pos)
	return ok && cell.Special == board.SpecialMultiplier
}

// BombTick reports one bomb's position and the timer value it has just
// ticked down to.
type BombTick struct {
	Pos       geometry.Pos
	Remaining int
}

// TickBombs decrements every bomb's timer by one move and returns every
// bomb (with its new remaining timer) plus the subset that has just hit
// zero. Expired is non-empty exactly when the "returns true if any hit 0"
// condition from §4.4 holds.
func TickBombs(b *board.Board) (ticked []BombTick, expired []geometry.Pos) {
	bounds := b.Bounds()
	for col := 0; col < bounds.Cols; col++ {
		for row := 0; row < bounds.Rows; row++ {
			pos := geometry.Pos{Col: col, Row: row}
			cell, ok := b.At(pos)
			if !ok || cell.Special != board.SpecialBomb {
				continue
			}
			cell.BombTimer--
			b.Set(pos, cell)
			ticked = append(ticked, BombTick{Pos: pos, Remaining: cell.BombTimer})
			if cell.BombTimer <= 0 {
				expired = append(expired, pos)
			}
		}
	}
	return ticked, expired
}
