package history

import (
	"testing"

	"github.com/dshills/gridtext/internal/engine/cursor"
	"github.com/dshills/gridtext/internal/engine/grid"
)

func typeRune(g *grid.Grid, st *cursor.State, r rune) *ChangeSet {
	before := *st
	at := st.Pos
	old, had := g.GetAt(at)
	cell := grid.NewRune(r)
	g.Set(at, cell)
	*st = cursor.NewState(at.Add(1, 0))
	return &ChangeSet{
		Name: "type",
		Changes: []CellChange{
			{At: at, Before: old, HadBefore: had, After: cell, HasAfter: true},
		},
		StateBefore: before,
		StateAfter:  *st,
	}
}

func TestUndoRedo(t *testing.T) {
	g := grid.New()
	st := cursor.NewState(grid.C(0, 0))
	h := New(0)

	h.Push(typeRune(g, &st, 'h'))
	h.Push(typeRune(g, &st, 'i'))

	if g.Len() != 2 || st.Pos != grid.C(2, 0) {
		t.Fatalf("setup failed: len=%d pos=%v", g.Len(), st.Pos)
	}

	if err := h.Undo(g, &st); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if _, ok := g.Get(1, 0); ok {
		t.Error("undo did not remove cell")
	}
	if st.Pos != grid.C(1, 0) {
		t.Errorf("cursor after undo = %v, want (1,0)", st.Pos)
	}

	if err := h.Redo(g, &st); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if cell, ok := g.Get(1, 0); !ok || cell.Rune != 'i' {
		t.Error("redo did not restore cell")
	}
	if st.Pos != grid.C(2, 0) {
		t.Errorf("cursor after redo = %v, want (2,0)", st.Pos)
	}
}

func TestUndoEmpty(t *testing.T) {
	h := New(10)
	g := grid.New()
	st := cursor.NewState(grid.C(0, 0))

	if err := h.Undo(g, &st); err != ErrNothingToUndo {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
	if err := h.Redo(g, &st); err != ErrNothingToRedo {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
}

func TestPushClearsRedo(t *testing.T) {
	g := grid.New()
	st := cursor.NewState(grid.C(0, 0))
	h := New(10)

	h.Push(typeRune(g, &st, 'a'))
	if err := h.Undo(g, &st); err != nil {
		t.Fatal(err)
	}
	h.Push(typeRune(g, &st, 'b'))

	if h.CanRedo() {
		t.Error("push must clear the redo stack")
	}
}

func TestMaxEntries(t *testing.T) {
	g := grid.New()
	st := cursor.NewState(grid.C(0, 0))
	h := New(3)

	for range 5 {
		h.Push(typeRune(g, &st, 'x'))
	}
	if h.UndoCount() != 3 {
		t.Errorf("UndoCount = %d, want 3", h.UndoCount())
	}
}

func TestChangeSetUndoRestoresOverwrites(t *testing.T) {
	g := grid.New()
	g.Set(grid.C(0, 0), grid.NewStyledRune('a', grid.Style{Fg: "#abc"}))
	st := cursor.NewState(grid.C(0, 0))
	h := New(10)

	// Overwrite the styled cell with a plain one.
	h.Push(typeRune(g, &st, 'b'))

	if err := h.Undo(g, &st); err != nil {
		t.Fatal(err)
	}
	cell, ok := g.Get(0, 0)
	if !ok || cell.Rune != 'a' || !cell.Styled {
		t.Errorf("undo did not restore styled cell, got %v ok=%v", cell, ok)
	}
}

func TestPeekUndo(t *testing.T) {
	g := grid.New()
	st := cursor.NewState(grid.C(0, 0))
	h := New(10)

	if _, ok := h.PeekUndo(); ok {
		t.Error("expected no peek on empty history")
	}
	h.Push(typeRune(g, &st, 'a'))
	info, ok := h.PeekUndo()
	if !ok || info.Description != "type" {
		t.Errorf("PeekUndo = %+v ok=%v", info, ok)
	}
}
