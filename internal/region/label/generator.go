// Package label generates short natural-language titles for text
// clusters via an external language model. Generation is asynchronous
// and superseding: a newer request for the same surface invalidates any
// still-running older one, so stale labels never land.
package label

import (
	"context"
	"strings"
)

// Generator produces a short label for a piece of cluster text.
type Generator interface {
	Label(ctx context.Context, text string) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, text string) (string, error)

// Label calls the wrapped function.
func (f GeneratorFunc) Label(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// MaxLabelRunes caps generated labels; model output past the cap is cut.
const MaxLabelRunes = 40

// prompt wraps cluster text in the labeling instruction.
func prompt(text string) string {
	return "Give a title of at most five words for the following note. " +
		"Reply with the title only, no quotes.\n\n" + text
}

// cleanLabel normalizes raw model output into a displayable label.
func cleanLabel(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"'`)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > MaxLabelRunes {
		s = string(r[:MaxLabelRunes])
	}
	return s
}
