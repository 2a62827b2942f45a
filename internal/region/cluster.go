package region

import (
	"sort"
	"strings"

	"github.com/dshills/gridtext/internal/engine/grid"
)

// Thresholds controls when two blocks are considered close enough to
// share a cluster. Values are tunable configuration, not a hard contract.
type Thresholds struct {
	// RowGap is the maximum row distance between two blocks.
	RowGap int

	// ColGap is the maximum horizontal gap between the blocks' column
	// ranges; overlapping ranges always qualify.
	ColGap int
}

// DefaultThresholds returns the stock proximity thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{RowGap: 2, ColGap: 4}
}

// Qualification filters clusters too small or sparse to be worth
// labeling.
type Qualification struct {
	MinCells  int
	MinBlocks int
}

// DefaultQualification returns the stock qualification thresholds.
func DefaultQualification() Qualification {
	return Qualification{MinCells: 8, MinBlocks: 2}
}

// Cluster is a set of blocks grouped by spatial proximity, with an
// aggregate bounding box. Label is filled in by the label generator and
// is empty until then.
type Cluster struct {
	Blocks []Block
	Bounds grid.Rect
	Label  string
}

// CellCount returns the total number of cells across member blocks.
func (c Cluster) CellCount() int {
	n := 0
	for _, b := range c.Blocks {
		n += b.Width()
	}
	return n
}

// Text returns the cluster's content, one line per block in (y, x) order.
func (c Cluster) Text() string {
	lines := make([]string, len(c.Blocks))
	for i, b := range c.Blocks {
		lines[i] = b.Text
	}
	return strings.Join(lines, "\n")
}

// near reports whether two blocks fall under the proximity thresholds.
func near(a, b Block, th Thresholds) bool {
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dy > th.RowGap {
		return false
	}
	// Horizontal gap between column ranges; zero or negative means
	// overlap.
	gap := 0
	if a.EndX < b.StartX {
		gap = b.StartX - a.EndX
	} else if b.EndX < a.StartX {
		gap = a.StartX - b.EndX
	}
	return gap <= th.ColGap
}

// unionFind is a standard disjoint-set with path compression, used so
// clustering is transitive rather than pairwise.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(i int) int {
	for uf.parent[i] != i {
		uf.parent[i] = uf.parent[uf.parent[i]]
		i = uf.parent[i]
	}
	return i
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra != rb {
		uf.parent[rb] = ra
	}
}

// Clusters groups blocks transitively: any chain of pairwise-near blocks
// lands in one cluster. Output clusters are ordered by their top-left
// bound; member blocks stay in (y, x) order.
func Clusters(blocks []Block, th Thresholds) []Cluster {
	if len(blocks) == 0 {
		return nil
	}

	uf := newUnionFind(len(blocks))
	for i := range blocks {
		for j := i + 1; j < len(blocks); j++ {
			if near(blocks[i], blocks[j], th) {
				uf.union(i, j)
			}
		}
	}

	groups := make(map[int][]Block)
	for i, b := range blocks {
		root := uf.find(i)
		groups[root] = append(groups[root], b)
	}

	out := make([]Cluster, 0, len(groups))
	for _, members := range groups {
		sort.Slice(members, func(i, j int) bool {
			if members[i].Y != members[j].Y {
				return members[i].Y < members[j].Y
			}
			return members[i].StartX < members[j].StartX
		})
		bounds := members[0].Rect()
		for _, b := range members[1:] {
			bounds = bounds.Union(b.Rect())
		}
		out = append(out, Cluster{Blocks: members, Bounds: bounds})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Bounds.MinY != out[j].Bounds.MinY {
			return out[i].Bounds.MinY < out[j].Bounds.MinY
		}
		return out[i].Bounds.MinX < out[j].Bounds.MinX
	})
	return out
}

// Qualified filters clusters by the size/density thresholds, preserving
// order.
func Qualified(clusters []Cluster, q Qualification) []Cluster {
	var out []Cluster
	for _, c := range clusters {
		if c.CellCount() >= q.MinCells && len(c.Blocks) >= q.MinBlocks {
			out = append(out, c)
		}
	}
	return out
}
