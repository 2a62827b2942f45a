// Package cursor provides the cursor and selection value types for the
// surface engine. Positions are cell coordinates; the cursor is never
// required to sit on an occupied cell.
package cursor

import (
	"fmt"

	"github.com/dshills/gridtext/internal/engine/grid"
)

// Position is a cell coordinate on the surface.
type Position = grid.Coord

// State bundles the cursor position with the current selection.
// It is the unit of state captured and restored by undo commands.
type State struct {
	Pos Position
	Sel Selection
}

// NewState returns a state with the cursor at the given position and no
// selection.
func NewState(pos Position) State {
	return State{Pos: pos, Sel: Collapsed(pos)}
}

// HasSelection returns true if the selection has a non-zero extent.
func (s State) HasSelection() bool {
	return !s.Sel.IsEmpty()
}

// ClearSelection collapses the selection onto the cursor.
func (s State) ClearSelection() State {
	s.Sel = Collapsed(s.Pos)
	return s
}

// MoveTo places the cursor, extending or clearing the selection.
// With extend set, the anchor stays where the selection started (or starts
// at the pre-move cursor position); without it any selection is cleared.
func (s State) MoveTo(pos Position, extend bool) State {
	if extend {
		if s.Sel.IsEmpty() {
			s.Sel = Selection{Anchor: s.Pos, Head: pos}
		} else {
			s.Sel = s.Sel.Extend(pos)
		}
	} else {
		s.Sel = Collapsed(pos)
	}
	s.Pos = pos
	return s
}

// String returns a human-readable representation of the state.
func (s State) String() string {
	if s.HasSelection() {
		return fmt.Sprintf("cursor %v sel %v", s.Pos, s.Sel)
	}
	return fmt.Sprintf("cursor %v", s.Pos)
}
