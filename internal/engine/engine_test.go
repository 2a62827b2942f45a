package engine

import (
	"testing"

	"github.com/dshills/gridtext/internal/clipboard"
	"github.com/dshills/gridtext/internal/engine/grid"
	"github.com/dshills/gridtext/internal/input/key"
)

func typeString(t *testing.T, e *Engine, s string) {
	t.Helper()
	for _, r := range s {
		if !e.InsertRune(r) {
			t.Fatalf("InsertRune(%q) failed", r)
		}
	}
}

func runeAt(t *testing.T, e *Engine, x, y int) rune {
	t.Helper()
	cell, ok := e.Grid().Get(x, y)
	if !ok {
		t.Fatalf("no cell at (%d,%d)", x, y)
	}
	return cell.Rune
}

func TestTypeAdvancesCursor(t *testing.T) {
	e := New()
	typeString(t, e, "hi")

	if got := e.Cursor(); got != grid.C(2, 0) {
		t.Errorf("cursor = %v, want (2,0)", got)
	}
	if runeAt(t, e, 0, 0) != 'h' || runeAt(t, e, 1, 0) != 'i' {
		t.Error("typed cells not on grid")
	}
}

func TestInsertRuneRejectsNonPrintable(t *testing.T) {
	e := New()
	for _, r := range []rune{'\n', '\t', 0, 0x7f} {
		if e.InsertRune(r) {
			t.Errorf("InsertRune(%q) accepted, want rejection", r)
		}
	}
	if e.Grid().Len() != 0 {
		t.Error("rejected input mutated the grid")
	}
}

func TestEnterIndentsToBlockStart(t *testing.T) {
	e := New()
	typeString(t, e, "hi")

	if !e.Enter() {
		t.Fatal("Enter failed")
	}
	if got := e.Cursor(); got != grid.C(0, 1) {
		t.Errorf("cursor = %v, want (0,1)", got)
	}
}

func TestEnterIndentFromOffsetBlock(t *testing.T) {
	e := New()
	e.SetCursor(grid.C(4, 0))
	typeString(t, e, "ab")

	e.Enter()
	if got := e.Cursor(); got != grid.C(4, 1) {
		t.Fatalf("cursor = %v, want (4,1)", got)
	}

	// The next row is blank; the indent search finds the block above.
	e.Enter()
	if got := e.Cursor(); got != grid.C(4, 2) {
		t.Errorf("cursor = %v, want (4,2)", got)
	}
}

func TestEnterStickyIndentOnEmptySurface(t *testing.T) {
	e := New()
	e.SetCursor(grid.C(7, 3))

	e.Enter()
	if got := e.Cursor(); got != grid.C(7, 4) {
		t.Fatalf("cursor = %v, want (7,4)", got)
	}
	if x, ok := e.StickyIndent(); !ok || x != 7 {
		t.Fatalf("sticky = %d,%v, want 7,true", x, ok)
	}

	// Far away, still blank everywhere: the sticky column wins.
	e.SetCursor(grid.C(20, 100))
	e.Enter()
	if got := e.Cursor(); got != grid.C(7, 101) {
		t.Errorf("cursor = %v, want (7,101)", got)
	}
}

func TestAmbientStyleTyping(t *testing.T) {
	e := New()
	typeString(t, e, "a")

	red := Style{Fg: "#ff0000"}
	e.SetAmbientStyle(red)
	typeString(t, e, "b")

	e.ResetAmbientStyle()
	typeString(t, e, "c")

	plain, _ := e.Grid().Get(0, 0)
	styled, _ := e.Grid().Get(1, 0)
	after, _ := e.Grid().Get(2, 0)

	if plain.Styled {
		t.Error("cell typed before style change must be bare")
	}
	if !styled.Styled || styled.Style != red {
		t.Errorf("styled cell = %+v, want style %v", styled, red)
	}
	if after.Styled {
		t.Error("cell typed after reset must be bare")
	}
}

func TestTypeOverSelectionReplacesIt(t *testing.T) {
	e := New()
	typeString(t, e, "abc")
	e.SetSelection(grid.C(0, 0), grid.C(2, 0))

	if !e.InsertRune('x') {
		t.Fatal("InsertRune failed")
	}

	if runeAt(t, e, 0, 0) != 'x' {
		t.Error("replacement char not at selection top-left")
	}
	if _, ok := e.Grid().Get(1, 0); ok {
		t.Error("selected cell at (1,0) survived")
	}
	if got := e.Cursor(); got != grid.C(1, 0) {
		t.Errorf("cursor = %v, want (1,0)", got)
	}
	if e.Selection().IsEmpty() == false {
		t.Error("selection must be cleared")
	}
}

func TestTypeOverSelectionMatchesDeleteThenType(t *testing.T) {
	build := func() *Engine {
		e := New()
		typeString(t, e, "abc")
		e.SetCursor(grid.C(0, 1))
		typeString(t, e, "def")
		e.SetSelection(grid.C(1, 0), grid.C(2, 1))
		return e
	}

	a := build()
	a.InsertRune('z')

	b := build()
	b.DeleteSelection()
	b.InsertRune('z')

	if a.Cursor() != b.Cursor() {
		t.Errorf("cursors differ: %v vs %v", a.Cursor(), b.Cursor())
	}
	ga, gb := a.Grid(), b.Grid()
	if ga.Len() != gb.Len() {
		t.Fatalf("grid sizes differ: %d vs %d", ga.Len(), gb.Len())
	}
	for at, cell := range ga.All() {
		other, ok := gb.GetAt(at)
		if !ok || other != cell {
			t.Errorf("grids differ at %v", at)
		}
	}
}

func TestBackspace(t *testing.T) {
	e := New()
	typeString(t, e, "ab")

	if !e.Backspace() {
		t.Fatal("Backspace failed")
	}
	if _, ok := e.Grid().Get(1, 0); ok {
		t.Error("cell at (1,0) survived backspace")
	}
	if got := e.Cursor(); got != grid.C(1, 0) {
		t.Errorf("cursor = %v, want (1,0)", got)
	}

	// Backspacing into emptiness still moves the cursor.
	e.SetCursor(grid.C(10, 10))
	e.Backspace()
	if got := e.Cursor(); got != grid.C(9, 10) {
		t.Errorf("cursor = %v, want (9,10)", got)
	}
}

func TestBackspaceDeletesWholeLabel(t *testing.T) {
	e := New()
	e.SetLabel(grid.C(2, 0), "tag", "#00ff00")
	e.SetCursor(grid.C(4, 0)) // inside the label's 3-cell span

	if !e.Backspace() {
		t.Fatal("Backspace failed")
	}
	if _, ok := e.Grid().Get(2, 0); ok {
		t.Error("label survived backspace")
	}
	if got := e.Cursor(); got != grid.C(2, 0) {
		t.Errorf("cursor = %v, want label anchor (2,0)", got)
	}
}

func TestDeleteForward(t *testing.T) {
	e := New()
	typeString(t, e, "ab")
	e.SetCursor(grid.C(0, 0))

	if !e.DeleteForward() {
		t.Fatal("DeleteForward failed")
	}
	if _, ok := e.Grid().Get(0, 0); ok {
		t.Error("cell under cursor survived")
	}
	if got := e.Cursor(); got != grid.C(0, 0) {
		t.Errorf("cursor moved to %v, want (0,0)", got)
	}

	// Nothing under the cursor is a no-op.
	e.SetCursor(grid.C(50, 50))
	if e.DeleteForward() {
		t.Error("DeleteForward on empty cell must return false")
	}
}

func TestDeleteWordBack(t *testing.T) {
	e := New()
	typeString(t, e, "hello")
	e.SetCursor(grid.C(6, 0))
	typeString(t, e, "world")

	if !e.DeleteWordBack() {
		t.Fatal("DeleteWordBack failed")
	}
	if _, ok := e.Grid().Get(6, 0); ok {
		t.Error("word not deleted")
	}
	if _, ok := e.Grid().Get(4, 0); !ok {
		t.Error("preceding word must survive")
	}
	if got := e.Cursor(); got != grid.C(6, 0) {
		t.Errorf("cursor = %v, want (6,0)", got)
	}
}

func TestWordJumpRight(t *testing.T) {
	e := New()
	typeString(t, e, "hello")
	e.SetCursor(grid.C(6, 0))
	typeString(t, e, "world")
	e.SetCursor(grid.C(0, 0))

	e.MoveWordRight(false)
	if got := e.Cursor(); got != grid.C(5, 0) {
		t.Fatalf("first jump = %v, want (5,0)", got)
	}
	e.MoveWordRight(false)
	if got := e.Cursor(); got != grid.C(11, 0) {
		t.Fatalf("second jump = %v, want (11,0)", got)
	}
	// Past the row's occupied extent the scan refuses to run off.
	if e.MoveWordRight(false) {
		t.Error("jump past row end must return false")
	}
}

func TestWordJumpLeft(t *testing.T) {
	e := New()
	typeString(t, e, "hello")
	e.SetCursor(grid.C(6, 0))
	typeString(t, e, "world")

	e.MoveWordLeft(false)
	if got := e.Cursor(); got != grid.C(6, 0) {
		t.Fatalf("first jump = %v, want (6,0)", got)
	}
	e.MoveWordLeft(false)
	if got := e.Cursor(); got != grid.C(0, 0) {
		t.Fatalf("second jump = %v, want (0,0)", got)
	}
	if e.MoveWordLeft(false) {
		t.Error("jump past row start must return false")
	}
}

func TestWordJumpEmptyRow(t *testing.T) {
	e := New()
	if e.MoveWordRight(false) || e.MoveWordLeft(false) {
		t.Error("word jump on an empty row must return false")
	}
}

func TestDocJumpsKeepColumn(t *testing.T) {
	e := New()
	e.SetCursor(grid.C(0, -5))
	typeString(t, e, "top")
	e.SetCursor(grid.C(0, 9))
	typeString(t, e, "bottom")
	e.SetCursor(grid.C(2, 0))

	e.MoveDocTop(false)
	if got := e.Cursor(); got != grid.C(2, -5) {
		t.Errorf("doc top = %v, want (2,-5)", got)
	}
	e.MoveDocBottom(false)
	if got := e.Cursor(); got != grid.C(2, 9) {
		t.Errorf("doc bottom = %v, want (2,9)", got)
	}
}

func TestShiftMovementExtendsSelection(t *testing.T) {
	e := New()
	typeString(t, e, "abcd")
	e.SetCursor(grid.C(1, 0))

	e.Move(1, 0, true)
	e.Move(1, 0, true)

	sel := e.Selection()
	if sel.IsEmpty() {
		t.Fatal("selection must exist")
	}
	if sel.Anchor != grid.C(1, 0) || sel.Head != grid.C(3, 0) {
		t.Errorf("selection = %v, want anchor (1,0) head (3,0)", sel)
	}

	// A plain move collapses it.
	e.Move(1, 0, false)
	if !e.Selection().IsEmpty() {
		t.Error("plain move must clear the selection")
	}
}

func TestCopyRendersGapsAsSpaces(t *testing.T) {
	clip := clipboard.NewMemory()
	e := New(WithClipboard(clip))
	typeString(t, e, "ab")
	e.SetCursor(grid.C(6, 0))
	typeString(t, e, "c")
	e.SetSelection(grid.C(0, 0), grid.C(6, 0))

	if !e.Copy() {
		t.Fatal("Copy failed")
	}
	got, _ := clip.ReadText()
	if got != "ab    c" {
		t.Errorf("copied %q, want %q", got, "ab    c")
	}
}

func TestCutThenPaste(t *testing.T) {
	clip := clipboard.NewMemory()
	e := New(WithClipboard(clip))
	typeString(t, e, "abc")
	e.SetSelection(grid.C(0, 0), grid.C(2, 0))

	if !e.Cut() {
		t.Fatal("Cut failed")
	}
	if e.Grid().Len() != 0 {
		t.Error("cut cells survived")
	}

	e.SetCursor(grid.C(10, 5))
	if !e.Paste() {
		t.Fatal("Paste failed")
	}
	if runeAt(t, e, 10, 5) != 'a' || runeAt(t, e, 11, 5) != 'b' || runeAt(t, e, 12, 5) != 'c' {
		t.Error("pasted cells wrong")
	}
	if got := e.Cursor(); got != grid.C(13, 5) {
		t.Errorf("cursor = %v, want (13,5)", got)
	}
}

func TestCutKeepsGridOnClipboardFailure(t *testing.T) {
	clip := clipboard.NewMemory()
	clip.SetFailing(true)
	e := New(WithClipboard(clip))
	typeString(t, e, "abc")
	e.SetSelection(grid.C(0, 0), grid.C(2, 0))

	if e.Cut() {
		t.Fatal("Cut must fail when the clipboard does")
	}
	if e.Grid().Len() != 3 {
		t.Error("cells must survive a failed cut")
	}
}

func TestPasteMultiline(t *testing.T) {
	clip := clipboard.NewMemory()
	clip.WriteText("ab\ncd")
	e := New(WithClipboard(clip))
	e.SetCursor(grid.C(3, 2))

	if !e.Paste() {
		t.Fatal("Paste failed")
	}
	for _, tt := range []struct {
		x, y int
		want rune
	}{{3, 2, 'a'}, {4, 2, 'b'}, {3, 3, 'c'}, {4, 3, 'd'}} {
		if runeAt(t, e, tt.x, tt.y) != tt.want {
			t.Errorf("cell (%d,%d) != %q", tt.x, tt.y, tt.want)
		}
	}
	if got := e.Cursor(); got != grid.C(5, 3) {
		t.Errorf("cursor = %v, want (5,3)", got)
	}
}

func TestPasteEmptyClipboard(t *testing.T) {
	e := New(WithClipboard(clipboard.NewMemory()))
	if e.Paste() {
		t.Error("pasting an empty clipboard must return false")
	}
}

func TestUndoRedoTyping(t *testing.T) {
	e := New()
	typeString(t, e, "ab")

	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if _, ok := e.Grid().Get(1, 0); ok {
		t.Error("undone cell survived")
	}
	if got := e.Cursor(); got != grid.C(1, 0) {
		t.Errorf("cursor after undo = %v, want (1,0)", got)
	}

	if err := e.Redo(); err != nil {
		t.Fatal(err)
	}
	if runeAt(t, e, 1, 0) != 'b' {
		t.Error("redo did not restore the cell")
	}
	if got := e.Cursor(); got != grid.C(2, 0) {
		t.Errorf("cursor after redo = %v, want (2,0)", got)
	}
}

func TestUndoSelectionDelete(t *testing.T) {
	e := New()
	typeString(t, e, "abc")
	e.SetSelection(grid.C(0, 0), grid.C(2, 0))
	e.DeleteSelection()

	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.Grid().Len() != 3 {
		t.Errorf("grid has %d cells after undo, want 3", e.Grid().Len())
	}
	// StateBefore carried the selection; it must come back with it.
	sel := e.Selection()
	if sel.IsEmpty() {
		t.Fatal("undo must restore the selection")
	}
	if sel.Rect() != (grid.Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 0}) {
		t.Errorf("restored selection = %v", sel)
	}
}

func TestHandleKeyRouting(t *testing.T) {
	e := New(WithClipboard(clipboard.NewMemory()))

	if e.HandleKey(key.NewRuneEvent('a', key.ModNone), ModeChat) {
		t.Error("chat mode keystrokes must not reach the grid")
	}
	if !e.HandleKey(key.NewRuneEvent('a', key.ModNone), ModeWrite) {
		t.Fatal("write mode rune not consumed")
	}
	if runeAt(t, e, 0, 0) != 'a' {
		t.Error("rune event did not type")
	}

	// Shifted arrow extends.
	e.SetCursor(grid.C(0, 0))
	e.HandleKey(key.NewSpecialEvent(key.KeyRight, key.ModShift), ModeWrite)
	if e.Selection().IsEmpty() {
		t.Error("shift-right must extend the selection")
	}

	// Escape clears.
	e.HandleKey(key.NewSpecialEvent(key.KeyEscape, key.ModNone), ModeWrite)
	if !e.Selection().IsEmpty() {
		t.Error("escape must clear the selection")
	}

	// Ctrl+z undoes the typed rune.
	if !e.HandleKey(key.NewRuneEvent('z', key.ModCtrl), ModeWrite) {
		t.Fatal("ctrl+z not consumed")
	}
	if e.Grid().Len() != 0 {
		t.Error("ctrl+z did not undo")
	}
}

func TestRemoveAt(t *testing.T) {
	e := New()
	e.SetMarker(grid.C(5, 5), "#123456")

	if !e.RemoveAt(grid.C(5, 5)) {
		t.Fatal("RemoveAt failed")
	}
	if e.RemoveAt(grid.C(5, 5)) {
		t.Error("removing an empty cell must return false")
	}
}
