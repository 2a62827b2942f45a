// Package grid implements the sparse spatial store for the text surface:
// a mapping from integer coordinates to cells, with no implicit cells and
// no inherent line or document structure. Iteration order is unspecified;
// consumers that need order sort explicitly by (y, x).
package grid

import (
	"iter"
	"sort"
)

// Grid is the sparse cell store. It carries no locking of its own; all
// mutation happens from the single input-handling context that owns it.
type Grid struct {
	cells map[Coord]Cell
}

// New creates an empty grid.
func New() *Grid {
	return &Grid{cells: make(map[Coord]Cell)}
}

// Get returns the cell at (x, y) and whether one exists.
func (g *Grid) Get(x, y int) (Cell, bool) {
	c, ok := g.cells[Coord{X: x, Y: y}]
	return c, ok
}

// GetAt returns the cell at the coordinate and whether one exists.
func (g *Grid) GetAt(at Coord) (Cell, bool) {
	c, ok := g.cells[at]
	return c, ok
}

// Set stores a cell at the coordinate, replacing any existing cell.
func (g *Grid) Set(at Coord, cell Cell) {
	g.cells[at] = cell
}

// Delete removes the cell at the coordinate. Deleting an empty cell is a no-op.
func (g *Grid) Delete(at Coord) {
	delete(g.cells, at)
}

// Len returns the number of occupied cells.
func (g *Grid) Len() int {
	return len(g.cells)
}

// All iterates over every occupied coordinate and its cell.
// The sequence is restartable; order is unspecified.
func (g *Grid) All() iter.Seq2[Coord, Cell] {
	return func(yield func(Coord, Cell) bool) {
		for at, cell := range g.cells {
			if !yield(at, cell) {
				return
			}
		}
	}
}

// Coords iterates over every occupied coordinate. Order is unspecified.
func (g *Grid) Coords() iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		for at := range g.cells {
			if !yield(at) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	out := &Grid{cells: make(map[Coord]Cell, len(g.cells))}
	for at, cell := range g.cells {
		out.cells[at] = cell
	}
	return out
}

// Clear removes every cell.
func (g *Grid) Clear() {
	g.cells = make(map[Coord]Cell)
}

// RowCell pairs a column with its cell, for sorted row scans.
type RowCell struct {
	X    int
	Cell Cell
}

// Row returns the cells on row y sorted by column.
// If proseOnly is true, label and marker cells are excluded.
func (g *Grid) Row(y int, proseOnly bool) []RowCell {
	var out []RowCell
	for at, cell := range g.cells {
		if at.Y != y {
			continue
		}
		if proseOnly && !cell.IsProse() {
			continue
		}
		out = append(out, RowCell{X: at.X, Cell: cell})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].X < out[j].X })
	return out
}

// RowBounds returns the leftmost and rightmost occupied prose columns on
// row y. ok is false if the row holds no prose cells.
func (g *Grid) RowBounds(y int) (minX, maxX int, ok bool) {
	for at, cell := range g.cells {
		if at.Y != y || !cell.IsProse() {
			continue
		}
		if !ok {
			minX, maxX, ok = at.X, at.X, true
			continue
		}
		if at.X < minX {
			minX = at.X
		}
		if at.X > maxX {
			maxX = at.X
		}
	}
	return minX, maxX, ok
}

// Rows returns the sorted list of rows holding at least one prose cell.
func (g *Grid) Rows() []int {
	seen := make(map[int]struct{})
	for at, cell := range g.cells {
		if cell.IsProse() {
			seen[at.Y] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for y := range seen {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// Bounds returns the bounding rectangle over every occupied cell, of any
// kind. ok is false if the grid is empty.
func (g *Grid) Bounds() (Rect, bool) {
	var r Rect
	first := true
	for at := range g.cells {
		if first {
			r = Rect{MinX: at.X, MinY: at.Y, MaxX: at.X, MaxY: at.Y}
			first = false
			continue
		}
		if at.X < r.MinX {
			r.MinX = at.X
		}
		if at.X > r.MaxX {
			r.MaxX = at.X
		}
		if at.Y < r.MinY {
			r.MinY = at.Y
		}
		if at.Y > r.MaxY {
			r.MaxY = at.Y
		}
	}
	return r, !first
}

// LabelCovering returns the label whose span covers the coordinate, along
// with its anchor. A label anchored at (ax, y) with text length n covers
// columns [ax, ax+n-1] on row y.
func (g *Grid) LabelCovering(at Coord) (Coord, Cell, bool) {
	for anchor, cell := range g.cells {
		if cell.Kind != KindLabel || anchor.Y != at.Y {
			continue
		}
		if at.X >= anchor.X && at.X < anchor.X+cell.Span() {
			return anchor, cell, true
		}
	}
	return Coord{}, Cell{}, false
}

// LabelsIntersecting returns the anchors of every label whose span
// intersects the rectangle.
func (g *Grid) LabelsIntersecting(r Rect) []Coord {
	var out []Coord
	for anchor, cell := range g.cells {
		if cell.Kind != KindLabel {
			continue
		}
		if anchor.Y < r.MinY || anchor.Y > r.MaxY {
			continue
		}
		if anchor.X <= r.MaxX && anchor.X+cell.Span()-1 >= r.MinX {
			out = append(out, anchor)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}

// InRect returns the occupied coordinates inside the rectangle, sorted by
// (y, x).
func (g *Grid) InRect(r Rect) []Coord {
	var out []Coord
	for at := range g.cells {
		if r.Contains(at) {
			out = append(out, at)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}
