// Package persist turns the live grid into a remote-storable document
// and keeps the remote copy converged: compilation flattens occupied
// rows to strings, diffing produces minimal field updates, and the
// syncer pushes them through a debounce window in FIFO order. A version
// log and slot snapshots cover explicit saves.
package persist

import (
	"strings"

	"github.com/dshills/gridtext/internal/engine/grid"
)

// CompiledRow is one occupied grid row flattened to a string. Index is
// the dense position among occupied rows, top to bottom; Y is the source
// row. Only prose cells compile; any horizontal gap, whatever its width,
// collapses to a single space.
type CompiledRow struct {
	Index int
	Y     int
	Text  string
}

// Compile flattens every occupied prose row. Empty rows are skipped, so
// indices stay dense regardless of how far apart the rows sit.
func Compile(g *grid.Grid) []CompiledRow {
	rows := g.Rows()
	out := make([]CompiledRow, 0, len(rows))
	for i, y := range rows {
		out = append(out, CompiledRow{Index: i, Y: y, Text: compileRow(g, y)})
	}
	return out
}

// CompileMap returns the compiled rows keyed by dense index, the shape
// the differ consumes.
func CompileMap(g *grid.Grid) map[int]string {
	out := make(map[int]string)
	for _, r := range Compile(g) {
		out[r.Index] = r.Text
	}
	return out
}

func compileRow(g *grid.Grid, y int) string {
	cells := g.Row(y, true)
	var b strings.Builder
	last := 0
	for i, rc := range cells {
		if i > 0 && rc.X > last+1 {
			b.WriteByte(' ')
		}
		b.WriteRune(rc.Cell.Rune)
		last = rc.X
	}
	return b.String()
}
