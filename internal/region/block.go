// Package region derives navigation structure from the raw sparse grid:
// contiguous text blocks per row, proximity clusters across rows, and a
// distance-scaled hierarchy of bounding frames. Everything here is
// recomputed on demand from a grid snapshot and never persisted as the
// source of truth.
package region

import (
	"strings"

	"github.com/dshills/gridtext/internal/engine/grid"
)

// Block is a maximal run of horizontally contiguous prose cells on one
// row.
type Block struct {
	Y      int
	StartX int
	EndX   int
	Text   string
}

// Width returns the number of cells the block covers.
func (b Block) Width() int {
	return b.EndX - b.StartX + 1
}

// Contains returns true if column x falls inside the block.
func (b Block) Contains(x int) bool {
	return x >= b.StartX && x <= b.EndX
}

// Distance returns the horizontal distance from x to the block, zero when
// x is inside it.
func (b Block) Distance(x int) int {
	if x < b.StartX {
		return b.StartX - x
	}
	if x > b.EndX {
		return x - b.EndX
	}
	return 0
}

// Rect returns the block's one-row bounding rectangle.
func (b Block) Rect() grid.Rect {
	return grid.Rect{MinX: b.StartX, MinY: b.Y, MaxX: b.EndX, MaxY: b.Y}
}

// RowBlocks segments row y into blocks: occupied prose columns are sorted
// and consecutive columns (gap of exactly one) merge into one block; any
// larger gap starts a new block. Reserved cell kinds are excluded.
func RowBlocks(g *grid.Grid, y int) []Block {
	row := g.Row(y, true)
	if len(row) == 0 {
		return nil
	}

	var blocks []Block
	var sb strings.Builder
	start := row[0].X
	prev := row[0].X
	sb.WriteRune(row[0].Cell.Rune)

	for _, rc := range row[1:] {
		if rc.X == prev+1 {
			sb.WriteRune(rc.Cell.Rune)
			prev = rc.X
			continue
		}
		blocks = append(blocks, Block{Y: y, StartX: start, EndX: prev, Text: sb.String()})
		sb.Reset()
		sb.WriteRune(rc.Cell.Rune)
		start = rc.X
		prev = rc.X
	}
	blocks = append(blocks, Block{Y: y, StartX: start, EndX: prev, Text: sb.String()})
	return blocks
}

// AllBlocks returns every block on the grid, ordered by (y, x).
func AllBlocks(g *grid.Grid) []Block {
	var out []Block
	for _, y := range g.Rows() {
		out = append(out, RowBlocks(g, y)...)
	}
	return out
}

// ClosestBlock returns the block minimizing horizontal distance to x,
// with distance zero meaning x is inside the block. Ties keep the first
// block in the given (stable) order. ok is false for an empty slice.
func ClosestBlock(blocks []Block, x int) (Block, bool) {
	if len(blocks) == 0 {
		return Block{}, false
	}
	best := blocks[0]
	bestDist := best.Distance(x)
	for _, b := range blocks[1:] {
		if d := b.Distance(x); d < bestDist {
			best = b
			bestDist = d
		}
	}
	return best, true
}
