// Package key defines the keyboard event model consumed by the surface
// engine. The command system intercepts raw events before they reach the
// engine; what arrives here is already routed.
package key

// Key identifies a pressed key.
type Key int

const (
	// KeyRune is a printable character key; the Event carries the rune.
	KeyRune Key = iota

	KeyEnter
	KeyTab
	KeyEscape
	KeyBackspace
	KeyDelete

	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
)

// String returns a canonical key name.
func (k Key) String() string {
	switch k {
	case KeyRune:
		return "Rune"
	case KeyEnter:
		return "Enter"
	case KeyTab:
		return "Tab"
	case KeyEscape:
		return "Esc"
	case KeyBackspace:
		return "BS"
	case KeyDelete:
		return "Del"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyHome:
		return "Home"
	case KeyEnd:
		return "End"
	case KeyPageUp:
		return "PgUp"
	case KeyPageDown:
		return "PgDn"
	default:
		return "Unknown"
	}
}

// IsArrow returns true for the four arrow keys.
func (k Key) IsArrow() bool {
	return k == KeyUp || k == KeyDown || k == KeyLeft || k == KeyRight
}
