package grid

import "fmt"

// Coord addresses a single cell on the infinite surface.
// Both axes are unbounded signed integers; no cell exists implicitly.
type Coord struct {
	X int
	Y int
}

// C is a shorthand constructor for a coordinate.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// Add returns the coordinate offset by dx, dy.
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Compare orders coordinates by row first, then column.
// Returns -1 if c < other, 0 if equal, 1 if c > other.
func (c Coord) Compare(other Coord) int {
	if c.Y != other.Y {
		if c.Y < other.Y {
			return -1
		}
		return 1
	}
	if c.X != other.X {
		if c.X < other.X {
			return -1
		}
		return 1
	}
	return 0
}

// String returns a human-readable representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Rect is an inclusive axis-aligned rectangle in cell coordinates.
type Rect struct {
	MinX int
	MinY int
	MaxX int
	MaxY int
}

// RectFrom returns the normalized rectangle spanning two coordinates.
func RectFrom(a, b Coord) Rect {
	r := Rect{MinX: a.X, MinY: a.Y, MaxX: b.X, MaxY: b.Y}
	if r.MinX > r.MaxX {
		r.MinX, r.MaxX = r.MaxX, r.MinX
	}
	if r.MinY > r.MaxY {
		r.MinY, r.MaxY = r.MaxY, r.MinY
	}
	return r
}

// TopLeft returns the minimum corner of the rectangle.
func (r Rect) TopLeft() Coord {
	return Coord{X: r.MinX, Y: r.MinY}
}

// Width returns the number of columns covered by the rectangle.
func (r Rect) Width() int {
	return r.MaxX - r.MinX + 1
}

// Height returns the number of rows covered by the rectangle.
func (r Rect) Height() int {
	return r.MaxY - r.MinY + 1
}

// Contains returns true if the coordinate lies within the rectangle.
func (r Rect) Contains(c Coord) bool {
	return c.X >= r.MinX && c.X <= r.MaxX && c.Y >= r.MinY && c.Y <= r.MaxY
}

// ContainsRect returns true if other lies entirely within r.
func (r Rect) ContainsRect(other Rect) bool {
	return other.MinX >= r.MinX && other.MaxX <= r.MaxX &&
		other.MinY >= r.MinY && other.MaxY <= r.MaxY
}

// Intersects returns true if the two rectangles share at least one cell.
func (r Rect) Intersects(other Rect) bool {
	return r.MinX <= other.MaxX && other.MinX <= r.MaxX &&
		r.MinY <= other.MaxY && other.MinY <= r.MaxY
}

// Union returns the smallest rectangle covering both r and other.
func (r Rect) Union(other Rect) Rect {
	out := r
	if other.MinX < out.MinX {
		out.MinX = other.MinX
	}
	if other.MinY < out.MinY {
		out.MinY = other.MinY
	}
	if other.MaxX > out.MaxX {
		out.MaxX = other.MaxX
	}
	if other.MaxY > out.MaxY {
		out.MaxY = other.MaxY
	}
	return out
}

// Center returns the floating-point center of the rectangle.
func (r Rect) Center() (float64, float64) {
	return float64(r.MinX+r.MaxX) / 2, float64(r.MinY+r.MaxY) / 2
}

// String returns a human-readable representation of the rectangle.
func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d..%d,%d]", r.MinX, r.MinY, r.MaxX, r.MaxY)
}
