package grid

import "fmt"

// Kind discriminates the variants a cell can hold.
//
// Prose cells are ordinary typed characters. Label cells anchor a short
// annotation spanning len(Text) columns rightward on the same row. Marker
// cells are non-text anchor points used by spatial region queries. Only
// prose cells participate in line compilation, block detection and search.
type Kind uint8

const (
	// KindRune is a single typed character, optionally styled.
	KindRune Kind = iota

	// KindLabel is an annotation anchored at this cell.
	KindLabel

	// KindMarker is a non-text anchor used by region queries.
	KindMarker
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindRune:
		return "rune"
	case KindLabel:
		return "label"
	case KindMarker:
		return "marker"
	default:
		return "unknown"
	}
}

// Style carries explicit foreground and background colors for a cell.
// The zero value means "no explicit style"; an unstyled cell renders with
// ambient defaults and must stay distinguishable from one whose style was
// recorded, since re-typing over a styled region must not inherit it.
type Style struct {
	Fg string
	Bg string
}

// IsZero returns true if the style carries no explicit colors.
func (s Style) IsZero() bool {
	return s.Fg == "" && s.Bg == ""
}

// Cell is one occupied position on the surface.
// Exactly one variant is meaningful, selected by Kind.
type Cell struct {
	Kind Kind

	// Rune and style, valid for KindRune.
	Rune   rune
	Styled bool
	Style  Style

	// Label text, valid for KindLabel.
	Text string

	// Color, valid for KindLabel and KindMarker.
	Color string
}

// NewRune returns an unstyled prose cell.
func NewRune(r rune) Cell {
	return Cell{Kind: KindRune, Rune: r}
}

// NewStyledRune returns a prose cell carrying an explicit style.
func NewStyledRune(r rune, style Style) Cell {
	return Cell{Kind: KindRune, Rune: r, Styled: true, Style: style}
}

// NewLabel returns a label cell anchored at its coordinate.
func NewLabel(text, color string) Cell {
	return Cell{Kind: KindLabel, Text: text, Color: color}
}

// NewMarker returns a marker cell.
func NewMarker(color string) Cell {
	return Cell{Kind: KindMarker, Color: color}
}

// IsProse returns true if the cell is a typed character.
func (c Cell) IsProse() bool {
	return c.Kind == KindRune
}

// Span returns the number of columns the cell occupies on its row.
// Prose and marker cells occupy one column; labels span their text length.
func (c Cell) Span() int {
	if c.Kind == KindLabel {
		if len(c.Text) == 0 {
			return 1
		}
		return len([]rune(c.Text))
	}
	return 1
}

// String returns a human-readable representation of the cell.
func (c Cell) String() string {
	switch c.Kind {
	case KindRune:
		if c.Styled {
			return fmt.Sprintf("%q(fg=%s,bg=%s)", c.Rune, c.Style.Fg, c.Style.Bg)
		}
		return fmt.Sprintf("%q", c.Rune)
	case KindLabel:
		return fmt.Sprintf("label(%q)", c.Text)
	case KindMarker:
		return "marker"
	default:
		return "invalid"
	}
}
