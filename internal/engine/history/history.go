package history

import (
	"errors"
	"time"

	"github.com/dshills/gridtext/internal/engine/cursor"
	"github.com/dshills/gridtext/internal/engine/grid"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// undoEntry wraps a command with metadata.
type undoEntry struct {
	command   Command
	timestamp time.Time
}

// OperationInfo describes one recorded operation.
type OperationInfo struct {
	Description string
	Timestamp   time.Time
}

// History manages undo/redo stacks for the surface. It is only touched
// from the engine's single mutation context, so it carries no lock.
type History struct {
	undoStack []*undoEntry
	redoStack []*undoEntry

	maxEntries int
}

// DefaultMaxEntries is the undo depth used when none is configured.
const DefaultMaxEntries = 1000

// New creates a history with the given maximum undo depth.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Push records an executed command and clears the redo stack.
func (h *History) Push(cmd Command) {
	h.undoStack = append(h.undoStack, &undoEntry{
		command:   cmd,
		timestamp: time.Now(),
	})
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo reverses the most recent command.
func (h *History) Undo(g *grid.Grid, st *cursor.State) error {
	if len(h.undoStack) == 0 {
		return ErrNothingToUndo
	}
	entry := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]

	if err := entry.command.Undo(g, st); err != nil {
		h.undoStack = append(h.undoStack, entry)
		return err
	}
	h.redoStack = append(h.redoStack, entry)
	return nil
}

// Redo re-applies the most recently undone command.
func (h *History) Redo(g *grid.Grid, st *cursor.State) error {
	if len(h.redoStack) == 0 {
		return ErrNothingToRedo
	}
	entry := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]

	if err := entry.command.Execute(g, st); err != nil {
		h.redoStack = append(h.redoStack, entry)
		return err
	}
	h.undoStack = append(h.undoStack, entry)
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo operations available.
func (h *History) UndoCount() int {
	return len(h.undoStack)
}

// RedoCount returns the number of redo operations available.
func (h *History) RedoCount() int {
	return len(h.redoStack)
}

// PeekUndo returns info about the next undo operation without removing it.
func (h *History) PeekUndo() (OperationInfo, bool) {
	if len(h.undoStack) == 0 {
		return OperationInfo{}, false
	}
	entry := h.undoStack[len(h.undoStack)-1]
	return OperationInfo{
		Description: entry.command.Description(),
		Timestamp:   entry.timestamp,
	}, true
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}
