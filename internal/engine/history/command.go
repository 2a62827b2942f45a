// Package history provides undo/redo for surface edits using the command
// pattern: every engine mutation is recorded as a set of cell changes plus
// the cursor state on either side, and can be re-applied or reversed.
package history

import (
	"github.com/dshills/gridtext/internal/engine/cursor"
	"github.com/dshills/gridtext/internal/engine/grid"
)

// Command is an undoable edit applied to the grid and cursor state.
type Command interface {
	// Execute re-applies the edit (used for redo).
	Execute(g *grid.Grid, st *cursor.State) error

	// Undo reverses the edit.
	Undo(g *grid.Grid, st *cursor.State) error

	// Description returns a human-readable description.
	Description() string
}

// CellChange records one cell's before/after contents.
// A missing side (HadBefore / HasAfter false) means the cell was absent.
type CellChange struct {
	At        grid.Coord
	Before    grid.Cell
	HadBefore bool
	After     grid.Cell
	HasAfter  bool
}

// ChangeSet is the standard command: a batch of cell changes applied
// atomically, bracketing the cursor state before and after.
type ChangeSet struct {
	Name        string
	Changes     []CellChange
	StateBefore cursor.State
	StateAfter  cursor.State
}

// Execute re-applies all changes and restores the post-edit cursor state.
func (c *ChangeSet) Execute(g *grid.Grid, st *cursor.State) error {
	for _, ch := range c.Changes {
		if ch.HasAfter {
			g.Set(ch.At, ch.After)
		} else {
			g.Delete(ch.At)
		}
	}
	*st = c.StateAfter
	return nil
}

// Undo reverses all changes and restores the pre-edit cursor state.
// Changes are reversed in reverse order so overlapping writes unwind
// correctly.
func (c *ChangeSet) Undo(g *grid.Grid, st *cursor.State) error {
	for i := len(c.Changes) - 1; i >= 0; i-- {
		ch := c.Changes[i]
		if ch.HadBefore {
			g.Set(ch.At, ch.Before)
		} else {
			g.Delete(ch.At)
		}
	}
	*st = c.StateBefore
	return nil
}

// Description returns the change set's name.
func (c *ChangeSet) Description() string {
	if c.Name == "" {
		return "edit"
	}
	return c.Name
}

// IsEmpty returns true if the change set neither touches cells nor moves
// the cursor.
func (c *ChangeSet) IsEmpty() bool {
	return len(c.Changes) == 0 && c.StateBefore == c.StateAfter
}
