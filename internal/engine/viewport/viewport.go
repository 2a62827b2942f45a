// Package viewport implements the pure coordinate transforms between
// screen/pixel space and world/grid space under pan and zoom.
package viewport

import (
	"math"
	"sync"

	"github.com/dshills/gridtext/internal/engine/grid"
)

// Default zoom bounds and cell geometry. Cell height and font size are
// fixed ratios of the zoomed cell width.
const (
	DefaultMinZoom = 0.25
	DefaultMaxZoom = 4.0

	BaseCellWidth = 10.0
	heightRatio   = 2.0
	fontRatio     = 1.8
)

// Metrics holds the effective pixel dimensions of one cell at a zoom level.
type Metrics struct {
	CellWidth  float64
	CellHeight float64
	FontSize   float64
}

// metricsCache memoizes metrics per distinct zoom value, since the same
// zoom recurs every frame.
var (
	metricsMu    sync.RWMutex
	metricsCache = make(map[float64]Metrics)
)

// MetricsFor returns the effective cell metrics for a zoom level.
func MetricsFor(zoom float64) Metrics {
	metricsMu.RLock()
	m, ok := metricsCache[zoom]
	metricsMu.RUnlock()
	if ok {
		return m
	}

	w := BaseCellWidth * zoom
	m = Metrics{
		CellWidth:  w,
		CellHeight: w * heightRatio,
		FontSize:   w * fontRatio,
	}

	metricsMu.Lock()
	metricsCache[zoom] = m
	metricsMu.Unlock()
	return m
}

// Viewport is the visible window onto the surface: a floating-point world
// offset (the world coordinate at screen origin) plus a zoom factor
// clamped to [MinZoom, MaxZoom]. Panning is unbounded.
type Viewport struct {
	OffsetX float64
	OffsetY float64
	Zoom    float64

	minZoom float64
	maxZoom float64
}

// Option configures a Viewport during creation.
type Option func(*Viewport)

// WithZoomBounds overrides the default zoom clamp range.
func WithZoomBounds(min, max float64) Option {
	return func(v *Viewport) {
		if min > 0 && max >= min {
			v.minZoom = min
			v.maxZoom = max
		}
	}
}

// WithOffset sets the initial world offset.
func WithOffset(x, y float64) Option {
	return func(v *Viewport) {
		v.OffsetX = x
		v.OffsetY = y
	}
}

// New creates a viewport at the origin with zoom 1.0.
func New(opts ...Option) *Viewport {
	v := &Viewport{
		Zoom:    1.0,
		minZoom: DefaultMinZoom,
		maxZoom: DefaultMaxZoom,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.Zoom = v.clampZoom(v.Zoom)
	return v
}

// clampZoom bounds a zoom value to the configured range.
func (v *Viewport) clampZoom(z float64) float64 {
	if z < v.minZoom {
		return v.minZoom
	}
	if z > v.maxZoom {
		return v.maxZoom
	}
	return z
}

// SetZoom sets the zoom level, clamped to the configured bounds.
func (v *Viewport) SetZoom(z float64) {
	v.Zoom = v.clampZoom(z)
}

// Metrics returns the effective cell metrics at the current zoom.
func (v *Viewport) Metrics() Metrics {
	return MetricsFor(v.Zoom)
}

// Pan shifts the world offset by dx, dy world cells.
func (v *Viewport) Pan(dx, dy float64) {
	v.OffsetX += dx
	v.OffsetY += dy
}

// WorldToScreen maps a world cell coordinate to a screen pixel position.
func (v *Viewport) WorldToScreen(wx, wy float64) (sx, sy float64) {
	m := v.Metrics()
	return (wx - v.OffsetX) * m.CellWidth, (wy - v.OffsetY) * m.CellHeight
}

// ScreenToWorldF maps a screen pixel position to fractional world
// coordinates.
func (v *Viewport) ScreenToWorldF(sx, sy float64) (wx, wy float64) {
	m := v.Metrics()
	return sx/m.CellWidth + v.OffsetX, sy/m.CellHeight + v.OffsetY
}

// ScreenToWorld maps a screen pixel position to the integer cell under it.
func (v *Viewport) ScreenToWorld(sx, sy float64) grid.Coord {
	wx, wy := v.ScreenToWorldF(sx, sy)
	return grid.Coord{X: int(math.Floor(wx)), Y: int(math.Floor(wy))}
}

// ZoomAt changes the zoom level about a screen anchor point, keeping the
// world point under the anchor fixed: the world point is computed before
// the zoom change, the new zoom applied, and the offset solved so the same
// world point maps back to the same screen point.
func (v *Viewport) ZoomAt(sx, sy, newZoom float64) {
	wx, wy := v.ScreenToWorldF(sx, sy)
	v.Zoom = v.clampZoom(newZoom)
	m := v.Metrics()
	v.OffsetX = wx - sx/m.CellWidth
	v.OffsetY = wy - sy/m.CellHeight
}

// Center returns the world coordinate at the center of a screen of the
// given pixel size.
func (v *Viewport) Center(screenW, screenH float64) (wx, wy float64) {
	return v.ScreenToWorldF(screenW/2, screenH/2)
}
