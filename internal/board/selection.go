package board

import "github.com/arlowen/hexcascade/internal/geometry"

// SelectionKind distinguishes the three selection shapes a player can pick
// up (§3).
type SelectionKind uint8

const (
	SelectionNone SelectionKind = iota
	SelectionCluster
	SelectionRing
	SelectionY

	lastSelectionKind
)

var selectionKindNames = [...]string{"none", "cluster", "ring", "y"}

// String matches the lowercase shape of the hand-written enumer-style
// methods elsewhere in this package.
func (k SelectionKind) String() string {
	if k >= lastSelectionKind {
		return "SelectionKind(?)"
	}
	return selectionKindNames[k]
}

// MaxSteps returns the number of single-step rotations the rotation engine
// will try before giving up: 3 for a cluster/Y 3-cycle, 6 for a ring
// 6-cycle (§4.6).
func (k SelectionKind) MaxSteps() int {
	switch k {
	case SelectionCluster, SelectionY:
		return 3
	case SelectionRing:
		return 6
	default:
		return 0
	}
}

// Selection describes what the player has picked up. Center is only
// meaningful for Ring (the starflower center) and Y (the black-pearl
// center); it never rotates. Cells holds the cells that actually rotate:
// 3 for Cluster, 6 for Ring, 3 for Y.
type Selection struct {
	Kind   SelectionKind
	Center geometry.Pos
	Cells  []geometry.Pos
}

// NewClusterSelection builds a 3-cluster selection over three mutually-
// adjacent cells sharing a vertex.
func NewClusterSelection(a, b, c geometry.Pos) Selection {
	return Selection{Kind: SelectionCluster, Cells: []geometry.Pos{a, b, c}}
}

// NewRingSelection builds a ring selection: a starflower center plus its
// six neighbors, in the fixed clockwise order geometry.Neighbors returns.
func NewRingSelection(center geometry.Pos, ring [6]geometry.Pos) Selection {
	return Selection{Kind: SelectionRing, Center: center, Cells: append([]geometry.Pos(nil), ring[:]...)}
}

// NewYSelection builds a Y selection: a black-pearl center plus alternating
// neighbors at indices 0, 2, 4 of the neighbor table.
func NewYSelection(center geometry.Pos, y [3]geometry.Pos) Selection {
	return Selection{Kind: SelectionY, Center: center, Cells: append([]geometry.Pos(nil), y[:]...)}
}

// Rotate applies one step of the selection's rotation topology to the
// board.
func (s Selection) Rotate(b *Board, clockwise bool) {
	switch s.Kind {
	case SelectionCluster:
		var c [3]geometry.Pos
		copy(c[:], s.Cells)
		b.RotateCluster(c, clockwise)
	case SelectionRing:
		var r [6]geometry.Pos
		copy(r[:], s.Cells)
		b.RotateRing(r, clockwise)
	case SelectionY:
		var y [3]geometry.Pos
		copy(y[:], s.Cells)
		b.RotateY(y, clockwise)
	}
}

// YNeighborIndices are the neighbor-table indices a Y selection uses:
// alternating neighbors 0, 2, 4 of the six, per the GLOSSARY.
var YNeighborIndices = [3]int{0, 2, 4}
