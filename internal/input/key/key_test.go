package key

import "testing"

func TestIsChar(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want bool
	}{
		{"plain letter", NewRuneEvent('a', ModNone), true},
		{"shifted letter", NewRuneEvent('A', ModShift), true},
		{"space", NewRuneEvent(' ', ModNone), true},
		{"ctrl letter", NewRuneEvent('a', ModCtrl), false},
		{"alt letter", NewRuneEvent('a', ModAlt), false},
		{"special key", NewSpecialEvent(KeyEnter, ModNone), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.IsChar(); got != tt.want {
				t.Errorf("IsChar() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModifiers(t *testing.T) {
	m := ModCtrl | ModShift
	if !m.HasCtrl() || !m.HasShift() || m.HasAlt() {
		t.Errorf("unexpected modifier flags for %v", m)
	}
	if m.Without(ModShift) != ModCtrl {
		t.Error("Without did not clear flag")
	}
	if m.String() != "C-S" {
		t.Errorf("String = %q, want C-S", m.String())
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{NewRuneEvent('x', ModNone), "x"},
		{NewRuneEvent(' ', ModNone), "Space"},
		{NewSpecialEvent(KeyLeft, ModCtrl), "C-Left"},
		{NewSpecialEvent(KeyEnter, ModNone), "Enter"},
	}
	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestEquals(t *testing.T) {
	a := NewRuneEvent('q', ModNone)
	b := NewRuneEvent('q', ModNone)
	if !a.Equals(b) {
		t.Error("identical presses with different timestamps must be equal")
	}
}
