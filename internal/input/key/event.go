package key

import (
	"fmt"
	"time"
	"unicode"
)

// Event represents a single key press.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
	Timestamp time.Time
}

// NewRuneEvent creates an event for a character key.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods, Timestamp: time.Now()}
}

// NewSpecialEvent creates an event for a non-character key.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return Event{Key: key, Modifiers: mods, Timestamp: time.Now()}
}

// IsChar returns true if the event is a printable character without
// Ctrl/Alt/Meta held. Shift alone is part of the character itself.
func (e Event) IsChar() bool {
	if e.Key != KeyRune || e.Rune == 0 || !unicode.IsPrint(e.Rune) {
		return false
	}
	return e.Modifiers&(ModCtrl|ModAlt|ModMeta) == 0
}

// Equals returns true if two events represent the same key press.
// Timestamps are not compared.
func (e Event) Equals(other Event) bool {
	return e.Key == other.Key && e.Rune == other.Rune && e.Modifiers == other.Modifiers
}

// String returns a canonical representation such as "C-Left" or "a".
func (e Event) String() string {
	name := e.Key.String()
	if e.Key == KeyRune {
		if e.Rune == ' ' {
			name = "Space"
		} else {
			name = string(e.Rune)
		}
	}
	if mods := e.Modifiers; mods != ModNone {
		if e.Key == KeyRune && mods == ModShift {
			return name
		}
		return fmt.Sprintf("%s-%s", mods.String(), name)
	}
	return name
}
