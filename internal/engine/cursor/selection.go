package cursor

import (
	"fmt"

	"github.com/dshills/gridtext/internal/engine/grid"
)

// Selection is a rectangular selection between two cell coordinates.
// Anchor is where the selection started; Head is the moving end (the
// cursor). A selection with Anchor == Head has no extent and is treated as
// "no selection" by editing operations. Selection is an immutable value
// type; normalization is idempotent.
type Selection struct {
	Anchor Position
	Head   Position
}

// New creates a selection from anchor to head.
func New(anchor, head Position) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// Collapsed creates a zero-extent selection at the given position.
func Collapsed(pos Position) Selection {
	return Selection{Anchor: pos, Head: pos}
}

// IsEmpty returns true if the selection has no extent.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Rect returns the normalized bounding rectangle of the selection.
func (s Selection) Rect() grid.Rect {
	return grid.RectFrom(s.Anchor, s.Head)
}

// Start returns the top-left corner of the normalized selection.
func (s Selection) Start() Position {
	return s.Rect().TopLeft()
}

// Extend returns a selection with the head moved to pos, anchor fixed.
func (s Selection) Extend(pos Position) Selection {
	return Selection{Anchor: s.Anchor, Head: pos}
}

// Collapse collapses the selection onto its head.
func (s Selection) Collapse() Selection {
	return Selection{Anchor: s.Head, Head: s.Head}
}

// CollapseToStart collapses the selection onto its top-left corner.
func (s Selection) CollapseToStart() Selection {
	start := s.Start()
	return Selection{Anchor: start, Head: start}
}

// Contains returns true if the coordinate lies within the normalized
// selection rectangle. Empty selections contain nothing.
func (s Selection) Contains(pos Position) bool {
	if s.IsEmpty() {
		return false
	}
	return s.Rect().Contains(pos)
}

// Equals returns true if two selections have the same anchor and head.
func (s Selection) Equals(other Selection) bool {
	return s.Anchor == other.Anchor && s.Head == other.Head
}

// SameRect returns true if two selections cover the same rectangle,
// regardless of direction.
func (s Selection) SameRect(other Selection) bool {
	return s.Rect() == other.Rect()
}

// String returns a human-readable representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor%v", s.Head)
	}
	return fmt.Sprintf("Selection(%v..%v)", s.Anchor, s.Head)
}
