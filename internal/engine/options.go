package engine

import (
	"github.com/dshills/gridtext/internal/clipboard"
	"github.com/dshills/gridtext/internal/engine/viewport"
	"github.com/dshills/gridtext/internal/event"
)

// Default scan bounds. Horizontal sweeps over a sparse row must stop
// somewhere; these keep worst-case work per keystroke constant.
const (
	DefaultWordJumpWindow = 50
	DefaultIndentRadius   = 3
)

// Option configures an Engine.
type Option func(*Engine)

// WithClipboard attaches a clipboard implementation. Without one,
// copy/cut/paste are no-ops returning false.
func WithClipboard(c clipboard.Clipboard) Option {
	return func(e *Engine) {
		e.clip = c
	}
}

// WithBus attaches an event bus; the engine publishes a grid mutation
// event after every recorded edit.
func WithBus(b *event.Bus) Option {
	return func(e *Engine) {
		e.bus = b
	}
}

// WithViewport supplies a preconfigured viewport.
func WithViewport(v *viewport.Viewport) Option {
	return func(e *Engine) {
		e.view = v
	}
}

// WithDefaultStyle sets the document-wide default style. Typed cells
// carry an explicit style only when the ambient style differs from it.
func WithDefaultStyle(s Style) Option {
	return func(e *Engine) {
		e.defaultStyle = s
		e.ambient = s
	}
}

// WithWordJumpWindow bounds how many cells a horizontal word scan may
// cover. Values below 1 are ignored.
func WithWordJumpWindow(n int) Option {
	return func(e *Engine) {
		if n >= 1 {
			e.wordJumpWindow = n
		}
	}
}

// WithIndentRadius bounds how many rows above the cursor the smart
// indent search inspects. Values below 0 are ignored.
func WithIndentRadius(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.indentRadius = n
		}
	}
}

// WithMaxUndoEntries caps the undo stack depth.
func WithMaxUndoEntries(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxUndoEntries = n
		}
	}
}
