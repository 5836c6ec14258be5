// Package geometry implements the coordinate math for a flat-top, odd-q
// offset hex grid: offset<->axial conversion, the fixed clockwise neighbor
// table, cluster-around-vertex enumeration and the pixel<->hex inverse used
// for host hit-testing.
//
// Pos is a small value type indexing the grid, with a neighbor table
// that is part of the ABI -- callers rely on the clockwise ordering to
// find mutually-adjacent triples.
package geometry

import "math"

// Pos identifies a grid cell by its offset (column, row) coordinates.
type Pos struct {
	Col, Row int
}

// Equal returns whether pos and pos2 refer to the same cell.
func (pos Pos) Equal(pos2 Pos) bool {
	return pos == pos2
}

// Bounds describes the rectangular extent of a grid, col in [0,Cols),
// row in [0,Rows).
type Bounds struct {
	Cols, Rows int
}

// InBounds reports whether pos lies within b.
func (b Bounds) InBounds(pos Pos) bool {
	return pos.Col >= 0 && pos.Col < b.Cols && pos.Row >= 0 && pos.Row < b.Rows
}

// neighborDeltasEven and neighborDeltasOdd are the fixed, clockwise
// neighbor offset tables for even and odd columns respectively. The
// ordering is part of the ABI: index (i+1)%6 is guaranteed to be mutually
// adjacent to index i and to the center, which find_triangle_matches and
// find_cluster_at_pixel both rely on.
var neighborDeltasEven = [6]Pos{
	{1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {0, 1},
}

var neighborDeltasOdd = [6]Pos{
	{1, 1}, {1, 0}, {0, -1}, {-1, 0}, {-1, 1}, {0, 1},
}

// Neighbors returns the 6 neighbor positions of pos, in fixed clockwise
// order. Entries may be out of bounds; callers filter with Bounds.InBounds.
func Neighbors(pos Pos) [6]Pos {
	deltas := &neighborDeltasEven
	if pos.Col&1 == 1 {
		deltas = &neighborDeltasOdd
	}
	var out [6]Pos
	for i, d := range deltas {
		out[i] = Pos{pos.Col + d.Col, pos.Row + d.Row}
	}
	return out
}

// OffsetToAxial converts odd-q offset coordinates to axial coordinates.
func OffsetToAxial(pos Pos) (q, r int) {
	q = pos.Col
	r = pos.Row - (pos.Col-(pos.Col&1))/2
	return
}

// AxialToOffset converts axial coordinates back to odd-q offset coordinates.
func AxialToOffset(q, r int) Pos {
	col := q
	row := r + (q-(q&1))/2
	return Pos{col, row}
}

const sqrt3 = 1.7320508075688772

// Point is a pixel-space coordinate, used only by host hit-testing.
type Point struct {
	X, Y float64
}

// HexToPixel returns the pixel-space center of the hex at (col,row) for a
// flat-top odd-q layout with the given origin and hex size (the distance
// from center to a vertex).
func HexToPixel(pos Pos, origin Point, size float64) Point {
	x := origin.X + float64(pos.Col)*size*1.5
	y := origin.Y + float64(pos.Row)*sqrt3*size
	if pos.Col&1 == 1 {
		y += sqrt3 / 2 * size
	}
	return Point{x, y}
}

// axialRound rounds fractional axial coordinates to the nearest integer
// axial cell, correcting whichever of q, r, s has the largest residual so
// that q+r+s stays 0.
func axialRound(q, r float64) (int, int) {
	s := -q - r
	rq := math.Round(q)
	rr := math.Round(r)
	rs := math.Round(s)

	dq := math.Abs(rq - q)
	dr := math.Abs(rr - r)
	ds := math.Abs(rs - s)

	switch {
	case dq > dr && dq > ds:
		rq = -rr - rs
	case dr > ds:
		rr = -rq - rs
	}
	return int(rq), int(rr)
}

// PixelToHex inverts HexToPixel: it finds the (col,row) of the hex
// containing pixel (x,y). Returns false if the computed cell is out of
// bounds for b.
func PixelToHex(p Point, origin Point, size float64, b Bounds) (Pos, bool) {
	dx := p.X - origin.X
	dy := p.Y - origin.Y
	q := (2.0 / 3.0 * dx) / size
	r := (-1.0/3.0*dx + sqrt3/3.0*dy) / size
	rq, rr := axialRound(q, r)
	pos := AxialToOffset(rq, rr)
	if !b.InBounds(pos) {
		return Pos{}, false
	}
	return pos, true
}

// centroid is the average of three pixel-space points.
func centroid(a, b, c Point) Point {
	return Point{(a.X + b.X + c.X) / 3, (a.Y + b.Y + c.Y) / 3}
}

func distSq(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// FindClusterAtPixel locates the hex under pixel (x,y), then among the six
// triangles (C, N_i, N_(i+1 mod 6)) formed with its neighbors picks the one
// whose centroid is nearest the pixel. A triangle with an out-of-bounds
// member is rejected. Returns false if no triangle qualifies.
func FindClusterAtPixel(p Point, origin Point, size float64, b Bounds) ([3]Pos, bool) {
	center, ok := PixelToHex(p, origin, size, b)
	if !ok {
		return [3]Pos{}, false
	}
	neighbors := Neighbors(center)
	centerPx := HexToPixel(center, origin, size)

	best := -1
	bestDist := math.Inf(1)
	for i := 0; i < 6; i++ {
		n0 := neighbors[i]
		n1 := neighbors[(i+1)%6]
		if !b.InBounds(n0) || !b.InBounds(n1) {
			continue
		}
		tri := centroid(centerPx, HexToPixel(n0, origin, size), HexToPixel(n1, origin, size))
		d := distSq(p, tri)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best == -1 {
		return [3]Pos{}, false
	}
	return [3]Pos{center, neighbors[best], neighbors[(best+1)%6]}, true
}
