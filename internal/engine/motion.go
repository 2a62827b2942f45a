package engine

import (
	"github.com/dshills/gridtext/internal/engine/grid"
)

// Move shifts the cursor by a cell delta. With extend the selection
// grows from the pre-move cursor; without it any selection collapses.
func (e *Engine) Move(dx, dy int, extend bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.st = e.st.MoveTo(e.st.Pos.Add(dx, dy), extend)
	return true
}

// MoveWordRight jumps to the end of the next run of occupied cells on
// the current row. The scan is bounded by the row's occupied extent and
// by the word jump window, so absence past the last cell never sends
// the cursor off to infinity.
func (e *Engine) MoveWordRight(extend bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	y := e.st.Pos.Y
	_, maxX, ok := e.grid.RowBounds(y)
	if !ok || e.st.Pos.X > maxX {
		return false
	}

	x := e.st.Pos.X
	limit := min(maxX+1, x+e.wordJumpWindow)
	for x < limit && e.isGapLocked(grid.C(x, y)) {
		x++
	}
	for x < limit && !e.isGapLocked(grid.C(x, y)) {
		x++
	}
	if x == e.st.Pos.X {
		return false
	}
	e.st = e.st.MoveTo(grid.C(x, y), extend)
	return true
}

// MoveWordLeft jumps to the start of the previous run of occupied cells
// on the current row, bounded symmetrically to MoveWordRight.
func (e *Engine) MoveWordLeft(extend bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	y := e.st.Pos.Y
	minX, _, ok := e.grid.RowBounds(y)
	if !ok || e.st.Pos.X <= minX {
		return false
	}

	x := e.st.Pos.X - 1
	limit := max(minX, e.st.Pos.X-e.wordJumpWindow)
	for x > limit && e.isGapLocked(grid.C(x, y)) {
		x--
	}
	for x > limit && !e.isGapLocked(grid.C(x, y)) {
		x--
	}
	// Overshot by one unless the scan stopped at the limit itself.
	if e.isGapLocked(grid.C(x, y)) {
		x++
	}
	if x == e.st.Pos.X {
		return false
	}
	e.st = e.st.MoveTo(grid.C(x, y), extend)
	return true
}

// MoveDocTop jumps to the topmost occupied row, keeping the column.
func (e *Engine) MoveDocTop(extend bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, ok := e.grid.Bounds()
	if !ok {
		return false
	}
	e.st = e.st.MoveTo(grid.C(e.st.Pos.X, b.MinY), extend)
	return true
}

// MoveDocBottom jumps to the bottommost occupied row, keeping the column.
func (e *Engine) MoveDocBottom(extend bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, ok := e.grid.Bounds()
	if !ok {
		return false
	}
	e.st = e.st.MoveTo(grid.C(e.st.Pos.X, b.MaxY), extend)
	return true
}

// MoveLineStart jumps to the first occupied column on the current row.
func (e *Engine) MoveLineStart(extend bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	minX, _, ok := e.grid.RowBounds(e.st.Pos.Y)
	if !ok {
		return false
	}
	e.st = e.st.MoveTo(grid.C(minX, e.st.Pos.Y), extend)
	return true
}

// MoveLineEnd jumps one past the last occupied column on the current row.
func (e *Engine) MoveLineEnd(extend bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, maxX, ok := e.grid.RowBounds(e.st.Pos.Y)
	if !ok {
		return false
	}
	e.st = e.st.MoveTo(grid.C(maxX+1, e.st.Pos.Y), extend)
	return true
}
