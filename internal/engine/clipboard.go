package engine

import (
	"strings"

	"github.com/dshills/gridtext/internal/engine/grid"
	"github.com/dshills/gridtext/internal/engine/history"
)

// Copy extracts the selection rectangle as plain text: one line per row,
// absent cells rendered as spaces, rows joined by newlines. Reserved
// cells read as spaces too; only prose survives the trip. Returns false
// without a selection or a clipboard.
func (e *Engine) Copy() bool {
	e.mu.RLock()
	text, ok := e.selectionTextLocked()
	e.mu.RUnlock()
	if !ok {
		return false
	}
	return e.clip.WriteText(text) == nil
}

// Cut copies the selection and then deletes it. The delete is skipped
// when the clipboard write fails, so no text is lost.
func (e *Engine) Cut() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	text, ok := e.selectionTextLocked()
	if !ok {
		return false
	}
	if err := e.clip.WriteText(text); err != nil {
		return false
	}
	return e.deleteSelectionLocked("cut")
}

// Paste writes clipboard text at the cursor, one grid row per line,
// each line starting at the cursor column. An active selection is
// replaced. The cursor lands one past the last written cell. Returns
// false on an empty or unreadable clipboard.
func (e *Engine) Paste() bool {
	if e.clip == nil {
		return false
	}
	text, err := e.clip.ReadText()
	if err != nil || text == "" {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.st
	var changes []history.CellChange

	if e.st.HasSelection() {
		rect := e.st.Sel.Rect()
		changes = e.deleteRectLocked(rect)
		e.st.Pos = rect.TopLeft()
		e.st = e.st.ClearSelection()
	}

	startX := e.st.Pos.X
	y := e.st.Pos.Y
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	endX := startX
	for i, line := range lines {
		x := startX
		for _, r := range line {
			at := grid.C(x, y+i)
			cell := e.cellForRune(r)
			old, had := e.grid.GetAt(at)
			e.grid.Set(at, cell)
			changes = append(changes, history.CellChange{
				At: at, Before: old, HadBefore: had, After: cell, HasAfter: true,
			})
			x++
		}
		endX = x
	}
	e.st.Pos = grid.C(endX, y+len(lines)-1)

	e.recordLocked(&history.ChangeSet{
		Name:        "paste",
		Changes:     changes,
		StateBefore: before,
		StateAfter:  e.st,
	})
	return true
}

// selectionTextLocked renders the selection rectangle to clipboard text.
func (e *Engine) selectionTextLocked() (string, bool) {
	if e.clip == nil || !e.st.HasSelection() {
		return "", false
	}
	rect := e.st.Sel.Rect()

	var b strings.Builder
	for y := rect.MinY; y <= rect.MaxY; y++ {
		if y > rect.MinY {
			b.WriteByte('\n')
		}
		for x := rect.MinX; x <= rect.MaxX; x++ {
			cell, ok := e.grid.GetAt(grid.C(x, y))
			if ok && cell.IsProse() {
				b.WriteRune(cell.Rune)
			} else {
				b.WriteByte(' ')
			}
		}
	}
	return b.String(), true
}
