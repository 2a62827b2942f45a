package region

import (
	"testing"

	"github.com/dshills/gridtext/internal/engine/grid"
)

func clusterAt(x, y, w int) Cluster {
	return Cluster{
		Blocks: []Block{{Y: y, StartX: x, EndX: x + w - 1, Text: "x"}},
		Bounds: grid.Rect{MinX: x, MinY: y, MaxX: x + w - 1, MaxY: y},
	}
}

func TestLevelFor(t *testing.T) {
	cfg := FrameConfig{BaseRadius: 10, DistanceScaling: 2, MaxLevels: 4}

	tests := []struct {
		dist float64
		want int
	}{
		{0, 0},
		{10, 0},
		{11, 1},
		{20, 1},
		{21, 2},
		{40, 2},
		{41, 3},
		{10000, 3}, // capped at MaxLevels-1
	}
	for _, tt := range tests {
		if got := cfg.LevelFor(tt.dist); got != tt.want {
			t.Errorf("LevelFor(%v) = %d, want %d", tt.dist, got, tt.want)
		}
	}
}

func TestFramesNearStayFine(t *testing.T) {
	cfg := FrameConfig{BaseRadius: 10, DistanceScaling: 3, MaxLevels: 3}

	// Two clusters near the center but farther apart than BaseRadius:
	// they stay as separate level-0 frames.
	a := clusterAt(0, 0, 3)
	b := clusterAt(0, 5, 3)
	frames := Frames([]Cluster{a, b}, 1, 2, cfg)

	count0 := 0
	for _, f := range frames {
		if f.Level == 0 {
			count0++
		}
	}
	if count0 != 2 {
		t.Errorf("got %d level-0 frames, want 2", count0)
	}
}

func TestFramesDistantMerge(t *testing.T) {
	cfg := FrameConfig{BaseRadius: 5, DistanceScaling: 10, MaxLevels: 3}

	// Two clusters far from the center and within the coarse radius of
	// each other: they merge into one coarse frame.
	a := clusterAt(200, 200, 3)
	b := clusterAt(220, 210, 3)
	frames := Frames([]Cluster{a, b}, 0, 0, cfg)

	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1 merged coarse frame", len(frames))
	}
	f := frames[0]
	if f.Level != cfg.MaxLevels-1 {
		t.Errorf("Level = %d, want %d", f.Level, cfg.MaxLevels-1)
	}
	if len(f.Clusters) != 2 {
		t.Errorf("merged frame has %d clusters, want 2", len(f.Clusters))
	}
	if !f.Bounds.ContainsRect(a.Bounds) || !f.Bounds.ContainsRect(b.Bounds) {
		t.Errorf("merged bounds %v must cover both clusters", f.Bounds)
	}
}

func TestFramesCoarserSubsumesFiner(t *testing.T) {
	cfg := FrameConfig{BaseRadius: 50, DistanceScaling: 2, MaxLevels: 2}

	near := clusterAt(0, 0, 4)      // level 0
	far := clusterAt(120, 0, 4)     // level 1
	mid := clusterAt(60, 0, 70)     // level 1, wide: overlaps the near frame

	frames := Frames([]Cluster{near, far, mid}, 0, 0, cfg)

	var coarse *Frame
	for i := range frames {
		if frames[i].Level == 1 {
			coarse = &frames[i]
			break
		}
	}
	if coarse == nil {
		t.Fatal("expected a level-1 frame")
	}
	if !coarse.Bounds.ContainsRect(near.Bounds) {
		t.Errorf("coarse frame %v must subsume overlapped finer frame %v",
			coarse.Bounds, near.Bounds)
	}
}

func TestFramesEmpty(t *testing.T) {
	if got := Frames(nil, 0, 0, DefaultFrameConfig()); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestVisiblePolicies(t *testing.T) {
	cfg := FrameConfig{BaseRadius: 10, DistanceScaling: 2, MaxLevels: 3}
	frames := []Frame{
		{Bounds: grid.Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 0}, Level: 0},
		{Bounds: grid.Rect{MinX: 100, MinY: 100, MaxX: 102, MaxY: 100}, Level: 2},
		{Bounds: grid.Rect{MinX: 100, MinY: 100, MaxX: 102, MaxY: 100}, Level: 0}, // stale level
	}

	all := Visible(frames, PolicyAllLevels, 0, 0, cfg)
	if len(all) != 3 {
		t.Errorf("PolicyAllLevels returned %d frames, want 3", len(all))
	}

	byDist := Visible(frames, PolicyByDistance, 0, 0, cfg)
	if len(byDist) != 2 {
		t.Fatalf("PolicyByDistance returned %d frames, want 2", len(byDist))
	}
	for _, f := range byDist {
		if f.Level != cfg.LevelFor(centerDistance(f.Bounds, 0, 0)) {
			t.Errorf("frame at %v shown at wrong level %d", f.Bounds, f.Level)
		}
	}
}
