// Package engine implements the edit/selection state machine for the
// infinite text surface. A single Engine owns the sparse grid, the
// cursor, the selection, and the viewport; external collaborators (the
// command system, the renderer, the sync layer) hold a reference to it
// rather than copies of its state.
//
// All mutation happens synchronously in response to discrete input
// events. Operations are no-ops returning false on malformed input; the
// caller signals user-facing failure.
package engine

import (
	"context"
	"sync"

	"github.com/dshills/gridtext/internal/clipboard"
	"github.com/dshills/gridtext/internal/engine/cursor"
	"github.com/dshills/gridtext/internal/engine/grid"
	"github.com/dshills/gridtext/internal/engine/history"
	"github.com/dshills/gridtext/internal/engine/viewport"
	"github.com/dshills/gridtext/internal/event"
	"github.com/dshills/gridtext/internal/input/key"
)

// Re-export commonly used types for convenience.
type (
	// Coord is a cell coordinate on the surface.
	Coord = grid.Coord

	// Cell is one occupied position on the surface.
	Cell = grid.Cell

	// Style is an explicit cell style.
	Style = grid.Style

	// Position is the cursor position type.
	Position = cursor.Position

	// Selection is a rectangular selection.
	Selection = cursor.Selection
)

// Mode is the editing mode supplied by the external command system per
// keystroke. The engine only consults whether a mode writes to the grid;
// mode dispatch itself is a collaborator concern.
type Mode int

const (
	// ModeWrite is ordinary prose writing.
	ModeWrite Mode = iota

	// ModeEphemeral writes transient text that collaborators may clear.
	ModeEphemeral

	// ModeChat routes keystrokes to the chat input, not the grid.
	ModeChat

	// ModeCommand routes keystrokes to the command system.
	ModeCommand
)

// MutatesGrid returns true if keystrokes in this mode write to the grid.
func (m Mode) MutatesGrid() bool {
	return m == ModeWrite || m == ModeEphemeral
}

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeWrite:
		return "write"
	case ModeEphemeral:
		return "ephemeral"
	case ModeChat:
		return "chat"
	case ModeCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Engine is the main facade for the surface editor.
type Engine struct {
	mu sync.RWMutex

	// Core components
	grid *grid.Grid
	st   cursor.State
	view *viewport.Viewport
	hist *history.History

	// Collaborators
	clip clipboard.Clipboard
	bus  *event.Bus

	// Ambient typing style. A cell is written styled only when the
	// ambient style differs from the document default, keeping plain
	// text compact.
	defaultStyle grid.Style
	ambient      grid.Style

	// Sticky indent reused across consecutive blank-row Enters.
	sticky      int
	stickyValid bool

	// Tunables
	wordJumpWindow int
	indentRadius   int
	maxUndoEntries int
}

// New creates an engine with an empty grid and the cursor at the origin.
func New(opts ...Option) *Engine {
	e := &Engine{
		grid:           grid.New(),
		st:             cursor.NewState(grid.C(0, 0)),
		wordJumpWindow: DefaultWordJumpWindow,
		indentRadius:   DefaultIndentRadius,
		maxUndoEntries: history.DefaultMaxEntries,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.view == nil {
		e.view = viewport.New()
	}
	e.hist = history.New(e.maxUndoEntries)
	return e
}

// ============================================================================
// Accessors
// ============================================================================

// Grid returns the live grid. The renderer reads it between input
// events; mutation stays with the engine.
func (e *Engine) Grid() *grid.Grid {
	return e.grid
}

// SnapshotGrid returns a deep copy of the grid for consumers that
// outlive the current input event (sync compilation, region derivation).
func (e *Engine) SnapshotGrid() *grid.Grid {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.grid.Clone()
}

// Cursor returns the cursor position.
func (e *Engine) Cursor() Position {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.Pos
}

// SetCursor places the cursor and clears any selection.
func (e *Engine) SetCursor(pos Position) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.st = e.st.MoveTo(pos, false)
}

// Selection returns the current selection; IsEmpty means none.
func (e *Engine) Selection() Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.Sel
}

// SetSelection sets the selection and moves the cursor to its head.
func (e *Engine) SetSelection(anchor, head Position) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.st.Sel = cursor.New(anchor, head)
	e.st.Pos = head
}

// ClearSelection collapses any selection onto the cursor.
func (e *Engine) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.st = e.st.ClearSelection()
}

// View returns the viewport for pan/zoom and coordinate transforms.
func (e *Engine) View() *viewport.Viewport {
	return e.view
}

// AmbientStyle returns the current typing style.
func (e *Engine) AmbientStyle() Style {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ambient
}

// SetAmbientStyle sets the style applied to subsequently typed cells.
func (e *Engine) SetAmbientStyle(s Style) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ambient = s
}

// ResetAmbientStyle restores the document default typing style.
func (e *Engine) ResetAmbientStyle() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ambient = e.defaultStyle
}

// Restore replaces the surface wholesale, placing the cursor and
// clearing history and sticky state. Used when loading a saved slot.
func (e *Engine) Restore(g *grid.Grid, pos Position) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if g == nil {
		g = grid.New()
	}
	e.grid = g
	e.st = cursor.NewState(pos)
	e.hist.Clear()
	e.stickyValid = false
	e.publishLocked("restore", g.Len())
}

// StickyIndent returns the remembered indent column, if any.
func (e *Engine) StickyIndent() (int, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sticky, e.stickyValid
}

// ============================================================================
// Undo/Redo
// ============================================================================

// Undo reverses the most recent edit.
func (e *Engine) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.hist.Undo(e.grid, &e.st); err != nil {
		return err
	}
	e.publishLocked("undo", 0)
	return nil
}

// Redo re-applies the most recently undone edit.
func (e *Engine) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.hist.Redo(e.grid, &e.st); err != nil {
		return err
	}
	e.publishLocked("redo", 0)
	return nil
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.hist.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.hist.CanRedo()
}

// ============================================================================
// Key Dispatch
// ============================================================================

// HandleKey applies one key event under the externally supplied editing
// mode. It returns true if the event was consumed. Modes that do not
// mutate the grid fall through untouched so the caller can route them.
func (e *Engine) HandleKey(ev key.Event, mode Mode) bool {
	if !mode.MutatesGrid() {
		return false
	}

	shift := ev.Modifiers.HasShift()
	ctrl := ev.Modifiers.HasCtrl()
	word := ctrl || ev.Modifiers.HasAlt()

	// Clipboard and history chords arrive as modified rune events.
	if ev.Key == key.KeyRune && ctrl {
		switch ev.Rune {
		case 'c':
			return e.Copy()
		case 'x':
			return e.Cut()
		case 'v':
			return e.Paste()
		case 'z':
			return e.Undo() == nil
		case 'y':
			return e.Redo() == nil
		}
		return false
	}

	if ev.IsChar() {
		return e.InsertRune(ev.Rune)
	}

	switch ev.Key {
	case key.KeyEnter:
		return e.Enter()
	case key.KeyBackspace:
		if word {
			return e.DeleteWordBack()
		}
		return e.Backspace()
	case key.KeyDelete:
		return e.DeleteForward()
	case key.KeyLeft:
		if word {
			return e.MoveWordLeft(shift)
		}
		return e.Move(-1, 0, shift)
	case key.KeyRight:
		if word {
			return e.MoveWordRight(shift)
		}
		return e.Move(1, 0, shift)
	case key.KeyUp:
		if ctrl {
			return e.MoveDocTop(shift)
		}
		return e.Move(0, -1, shift)
	case key.KeyDown:
		if ctrl {
			return e.MoveDocBottom(shift)
		}
		return e.Move(0, 1, shift)
	case key.KeyHome:
		return e.MoveLineStart(shift)
	case key.KeyEnd:
		return e.MoveLineEnd(shift)
	case key.KeyEscape:
		e.ClearSelection()
		return true
	}
	return false
}

// ============================================================================
// Internal helpers
// ============================================================================

// cellForRune builds the cell written for a typed character, styled only
// when the ambient style differs from the document default.
func (e *Engine) cellForRune(r rune) grid.Cell {
	if e.ambient != e.defaultStyle && !e.ambient.IsZero() {
		return grid.NewStyledRune(r, e.ambient)
	}
	return grid.NewRune(r)
}

// recordLocked pushes a change set and publishes a mutation event.
// Caller holds the write lock.
func (e *Engine) recordLocked(cs *history.ChangeSet) {
	if cs.IsEmpty() {
		return
	}
	e.hist.Push(cs)
	e.publishLocked(cs.Name, len(cs.Changes))
}

// publishLocked emits a grid mutation event if a bus is attached.
func (e *Engine) publishLocked(op string, cells int) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(context.Background(), event.TopicGridMutation, event.Mutation{
		Op:    op,
		Cells: cells,
	})
}

// deleteRectLocked deletes every occupied cell in the rectangle plus
// every label whose span intersects it, returning the recorded changes.
// Caller holds the write lock.
func (e *Engine) deleteRectLocked(r grid.Rect) []history.CellChange {
	seen := make(map[grid.Coord]struct{})
	var changes []history.CellChange

	remove := func(at grid.Coord) {
		if _, dup := seen[at]; dup {
			return
		}
		cell, ok := e.grid.GetAt(at)
		if !ok {
			return
		}
		seen[at] = struct{}{}
		changes = append(changes, history.CellChange{
			At: at, Before: cell, HadBefore: true,
		})
		e.grid.Delete(at)
	}

	for _, at := range e.grid.InRect(r) {
		remove(at)
	}
	for _, anchor := range e.grid.LabelsIntersecting(r) {
		remove(anchor)
	}
	return changes
}
