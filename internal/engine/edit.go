package engine

import (
	"unicode"

	"github.com/dshills/gridtext/internal/engine/grid"
	"github.com/dshills/gridtext/internal/engine/history"
	"github.com/dshills/gridtext/internal/region"
)

// InsertRune writes one printable character at the cursor and advances
// the cursor one cell right. An active selection is deleted first and
// the character lands at the selection's top-left. Non-printable input
// is rejected.
func (e *Engine) InsertRune(r rune) bool {
	if !unicode.IsPrint(r) {
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

	at := e.st.Pos
	cell := e.cellForRune(r)
	old, had := e.grid.GetAt(at)
	e.grid.Set(at, cell)
	changes = append(changes, history.CellChange{
		At: at, Before: old, HadBefore: had, After: cell, HasAfter: true,
	})
	e.st.Pos.X++

	e.recordLocked(&history.ChangeSet{
		Name:        "type",
		Changes:     changes,
		StateBefore: before,
		StateAfter:  e.st,
	})
	return true
}

// Enter moves the cursor to the next row at a smart indent column. The
// grid is never mutated. If the current row holds text, the indent is
// the start of the block nearest the cursor and becomes sticky; on a
// blank row the search widens to nearby rows above, then falls back to
// the sticky indent, then to the cursor column itself.
func (e *Engine) Enter() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	y := e.st.Pos.Y
	indent := e.st.Pos.X

	if blocks := region.RowBlocks(e.grid, y); len(blocks) > 0 {
		b, _ := region.ClosestBlock(blocks, e.st.Pos.X)
		indent = b.StartX
		e.setStickyLocked(indent)
	} else if found, x := e.nearbyIndentLocked(y); found {
		indent = x
		e.setStickyLocked(indent)
	} else if e.stickyValid {
		indent = e.sticky
	} else {
		e.setStickyLocked(indent)
	}

	e.st = e.st.MoveTo(grid.C(indent, y+1), false)
	return true
}

// nearbyIndentLocked searches rows above the blank row, nearest first,
// within the indent radius.
func (e *Engine) nearbyIndentLocked(y int) (bool, int) {
	for dy := 1; dy <= e.indentRadius; dy++ {
		if blocks := region.RowBlocks(e.grid, y-dy); len(blocks) > 0 {
			b, _ := region.ClosestBlock(blocks, e.st.Pos.X)
			return true, b.StartX
		}
	}
	return false, 0
}

func (e *Engine) setStickyLocked(x int) {
	e.sticky = x
	e.stickyValid = true
}

// Backspace deletes the cell left of the cursor and moves the cursor
// onto it. A selection is deleted instead, wholesale. If the implicated
// cell belongs to a label, the entire label is removed and the cursor
// lands on its anchor.
func (e *Engine) Backspace() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.st.HasSelection() {
		return e.deleteSelectionLocked("backspace")
	}

	before := e.st
	target := grid.C(e.st.Pos.X-1, e.st.Pos.Y)
	changes, landing := e.deleteCellOrLabelLocked(target)
	if landing != nil {
		e.st.Pos = *landing
	} else {
		e.st.Pos = target
	}

	e.recordLocked(&history.ChangeSet{
		Name:        "backspace",
		Changes:     changes,
		StateBefore: before,
		StateAfter:  e.st,
	})
	return true
}

// DeleteForward deletes the cell under the cursor without moving it. If
// a label covers the cursor, the whole label is removed and the cursor
// moves to the label's anchor.
func (e *Engine) DeleteForward() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.st.HasSelection() {
		return e.deleteSelectionLocked("delete")
	}

	before := e.st
	changes, landing := e.deleteCellOrLabelLocked(e.st.Pos)
	if len(changes) == 0 {
		return false
	}
	if landing != nil {
		e.st.Pos = *landing
	}

	e.recordLocked(&history.ChangeSet{
		Name:        "delete",
		Changes:     changes,
		StateBefore: before,
		StateAfter:  e.st,
	})
	return true
}

// deleteCellOrLabelLocked removes whatever occupies the coordinate. When
// the coordinate falls inside a label's span the label is deleted whole
// and its anchor is returned as the cursor landing point.
func (e *Engine) deleteCellOrLabelLocked(at grid.Coord) ([]history.CellChange, *grid.Coord) {
	if anchor, cell, ok := e.grid.LabelCovering(at); ok {
		e.grid.Delete(anchor)
		return []history.CellChange{
			{At: anchor, Before: cell, HadBefore: true},
		}, &anchor
	}
	if cell, ok := e.grid.GetAt(at); ok {
		e.grid.Delete(at)
		return []history.CellChange{
			{At: at, Before: cell, HadBefore: true},
		}, nil
	}
	return nil, nil
}

// DeleteWordBack deletes leftward from the cursor through one run of
// either whitespace or non-whitespace cells, whichever the sweep starts
// in, and moves the cursor to the start of the swept range. The sweep is
// bounded by the word jump window.
func (e *Engine) DeleteWordBack() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.st.HasSelection() {
		return e.deleteSelectionLocked("delete-word")
	}

	before := e.st
	y := e.st.Pos.Y
	x := e.st.Pos.X - 1
	limit := e.st.Pos.X - e.wordJumpWindow

	if x < limit {
		return false
	}

	startWS := e.isGapLocked(grid.C(x, y))
	var changes []history.CellChange
	for x >= limit && e.isGapLocked(grid.C(x, y)) == startWS {
		at := grid.C(x, y)
		if cell, ok := e.grid.GetAt(at); ok && cell.Kind == grid.KindRune {
			changes = append(changes, history.CellChange{
				At: at, Before: cell, HadBefore: true,
			})
			e.grid.Delete(at)
		} else if _, ok := e.grid.GetAt(at); ok {
			// Reserved cells stop the sweep.
			break
		}
		x--
	}

	e.st.Pos = grid.C(x+1, y)
	e.recordLocked(&history.ChangeSet{
		Name:        "delete-word",
		Changes:     changes,
		StateBefore: before,
		StateAfter:  e.st,
	})
	return true
}

// isGapLocked reports whether the coordinate reads as whitespace: empty,
// or a prose cell holding a space character.
func (e *Engine) isGapLocked(at grid.Coord) bool {
	cell, ok := e.grid.GetAt(at)
	if !ok {
		return true
	}
	return cell.Kind == grid.KindRune && unicode.IsSpace(cell.Rune)
}

// DeleteSelection removes every cell in the selection rectangle,
// including labels whose span intersects it, and collapses the cursor to
// the rectangle's top-left.
func (e *Engine) DeleteSelection() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.st.HasSelection() {
		return false
	}
	return e.deleteSelectionLocked("delete-selection")
}

func (e *Engine) deleteSelectionLocked(name string) bool {
	before := e.st
	rect := e.st.Sel.Rect()
	changes := e.deleteRectLocked(rect)
	e.st.Pos = rect.TopLeft()
	e.st = e.st.ClearSelection()

	e.recordLocked(&history.ChangeSet{
		Name:        name,
		Changes:     changes,
		StateBefore: before,
		StateAfter:  e.st,
	})
	return true
}

// SetLabel places a multi-cell label anchored at the coordinate. Empty
// text is rejected.
func (e *Engine) SetLabel(at Coord, text, color string) bool {
	if text == "" {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.st
	cell := grid.NewLabel(text, color)
	old, had := e.grid.GetAt(at)
	e.grid.Set(at, cell)

	e.recordLocked(&history.ChangeSet{
		Name: "label",
		Changes: []history.CellChange{
			{At: at, Before: old, HadBefore: had, After: cell, HasAfter: true},
		},
		StateBefore: before,
		StateAfter:  e.st,
	})
	return true
}

// SetMarker places a marker cell at the coordinate.
func (e *Engine) SetMarker(at Coord, color string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.st
	cell := grid.NewMarker(color)
	old, had := e.grid.GetAt(at)
	e.grid.Set(at, cell)

	e.recordLocked(&history.ChangeSet{
		Name: "marker",
		Changes: []history.CellChange{
			{At: at, Before: old, HadBefore: had, After: cell, HasAfter: true},
		},
		StateBefore: before,
		StateAfter:  e.st,
	})
	return true
}

// RemoveAt deletes whatever occupies the coordinate, label spans
// included. Returns false when the coordinate is empty.
func (e *Engine) RemoveAt(at Coord) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.st
	changes, _ := e.deleteCellOrLabelLocked(at)
	if len(changes) == 0 {
		return false
	}
	e.recordLocked(&history.ChangeSet{
		Name:        "remove",
		Changes:     changes,
		StateBefore: before,
		StateAfter:  e.st,
	})
	return true
}
