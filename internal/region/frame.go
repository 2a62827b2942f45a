package region

import (
	"math"
	"sort"

	"github.com/dshills/gridtext/internal/engine/grid"
)

// FrameConfig tunes the hierarchy of bounding frames. BaseRadius is the
// merge radius at the nearest level; each level outward scales it by
// DistanceScaling.
type FrameConfig struct {
	BaseRadius      float64
	DistanceScaling float64
	MaxLevels       int
}

// DefaultFrameConfig returns the stock frame hierarchy settings.
func DefaultFrameConfig() FrameConfig {
	return FrameConfig{BaseRadius: 40, DistanceScaling: 2.0, MaxLevels: 4}
}

// Policy selects which hierarchy levels are displayed.
type Policy int

const (
	// PolicyByDistance shows each frame only at the level appropriate
	// to its distance from the viewport center.
	PolicyByDistance Policy = iota

	// PolicyAllLevels shows every level simultaneously.
	PolicyAllLevels
)

// Frame is a bounding box over one or more clusters at a hierarchy level.
// Level 0 is the finest (nearest) level.
type Frame struct {
	Bounds   grid.Rect
	Level    int
	Clusters []Cluster
}

// radiusAt returns the merge radius for a level.
func (cfg FrameConfig) radiusAt(level int) float64 {
	r := cfg.BaseRadius
	for range level {
		r *= cfg.DistanceScaling
	}
	return r
}

// LevelFor maps a distance from the viewport center to a hierarchy level:
// distances within BaseRadius are level 0, each scaling step outward adds
// one, capped at MaxLevels-1.
func (cfg FrameConfig) LevelFor(dist float64) int {
	radius := cfg.BaseRadius
	for level := 0; level < cfg.MaxLevels-1; level++ {
		if dist <= radius {
			return level
		}
		radius *= cfg.DistanceScaling
	}
	return cfg.MaxLevels - 1
}

// rectDistance returns the Euclidean gap between two rectangles, zero
// when they touch or overlap.
func rectDistance(a, b grid.Rect) float64 {
	dx := 0
	if a.MaxX < b.MinX {
		dx = b.MinX - a.MaxX
	} else if b.MaxX < a.MinX {
		dx = a.MinX - b.MaxX
	}
	dy := 0
	if a.MaxY < b.MinY {
		dy = b.MinY - a.MaxY
	} else if b.MaxY < a.MinY {
		dy = a.MinY - b.MaxY
	}
	return math.Hypot(float64(dx), float64(dy))
}

// centerDistance returns the distance from (cx, cy) to the rectangle's
// center.
func centerDistance(r grid.Rect, cx, cy float64) float64 {
	rx, ry := r.Center()
	return math.Hypot(rx-cx, ry-cy)
}

// Frames builds the frame hierarchy for the given clusters around a
// viewport center. Each cluster is assigned a level by distance; clusters
// sharing a level merge when their bounds fall within that level's radius
// (transitively); coarser frames then subsume the bounding boxes of the
// finer frames they contain. This scans everything it is given, so it is
// invoked explicitly, never per input event.
func Frames(clusters []Cluster, centerX, centerY float64, cfg FrameConfig) []Frame {
	if len(clusters) == 0 {
		return nil
	}
	if cfg.MaxLevels <= 0 || cfg.BaseRadius <= 0 {
		cfg = DefaultFrameConfig()
	}

	levels := make([]int, len(clusters))
	for i, c := range clusters {
		levels[i] = cfg.LevelFor(centerDistance(c.Bounds, centerX, centerY))
	}

	var frames []Frame
	for level := 0; level < cfg.MaxLevels; level++ {
		var idx []int
		for i, l := range levels {
			if l == level {
				idx = append(idx, i)
			}
		}
		if len(idx) == 0 {
			continue
		}

		radius := cfg.radiusAt(level)
		uf := newUnionFind(len(idx))
		for i := range idx {
			for j := i + 1; j < len(idx); j++ {
				if rectDistance(clusters[idx[i]].Bounds, clusters[idx[j]].Bounds) <= radius {
					uf.union(i, j)
				}
			}
		}

		groups := make(map[int][]int)
		for i := range idx {
			root := uf.find(i)
			groups[root] = append(groups[root], idx[i])
		}
		for _, members := range groups {
			sort.Ints(members)
			f := Frame{Level: level, Bounds: clusters[members[0]].Bounds}
			for _, m := range members {
				f.Bounds = f.Bounds.Union(clusters[m].Bounds)
				f.Clusters = append(f.Clusters, clusters[m])
			}
			frames = append(frames, f)
		}
	}

	// Coarser frames subsume the boxes of finer frames they touch.
	sort.Slice(frames, func(i, j int) bool {
		if frames[i].Level != frames[j].Level {
			return frames[i].Level < frames[j].Level
		}
		if frames[i].Bounds.MinY != frames[j].Bounds.MinY {
			return frames[i].Bounds.MinY < frames[j].Bounds.MinY
		}
		return frames[i].Bounds.MinX < frames[j].Bounds.MinX
	})
	for i := range frames {
		for j := range frames {
			if frames[j].Level < frames[i].Level && frames[i].Bounds.Intersects(frames[j].Bounds) {
				frames[i].Bounds = frames[i].Bounds.Union(frames[j].Bounds)
			}
		}
	}

	return frames
}

// Visible filters frames by display policy against the current viewport
// center. PolicyAllLevels passes everything through; PolicyByDistance
// keeps only frames whose level matches their current distance.
func Visible(frames []Frame, policy Policy, centerX, centerY float64, cfg FrameConfig) []Frame {
	if policy == PolicyAllLevels {
		return frames
	}
	if cfg.MaxLevels <= 0 || cfg.BaseRadius <= 0 {
		cfg = DefaultFrameConfig()
	}
	var out []Frame
	for _, f := range frames {
		if cfg.LevelFor(centerDistance(f.Bounds, centerX, centerY)) == f.Level {
			out = append(out, f)
		}
	}
	return out
}
