// Package clipboard abstracts the host clipboard. Both directions are
// fallible; callers degrade copy/paste to a no-op on failure.
package clipboard

import (
	"errors"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrUnavailable indicates the host clipboard cannot be reached.
var ErrUnavailable = errors.New("clipboard unavailable")

// Clipboard reads and writes the host clipboard.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// System is the real host clipboard.
type System struct{}

// NewSystem returns the host clipboard.
func NewSystem() *System {
	return &System{}
}

// ReadText returns the clipboard contents.
func (s *System) ReadText() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnavailable
	}
	return clipboard.ReadAll()
}

// WriteText replaces the clipboard contents.
func (s *System) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

// Memory is an in-process clipboard for tests and headless use.
type Memory struct {
	mu   sync.Mutex
	text string
	fail bool
}

// NewMemory returns an empty in-memory clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

// ReadText returns the stored text.
func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return "", ErrUnavailable
	}
	return m.text, nil
}

// WriteText stores the text.
func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return ErrUnavailable
	}
	m.text = text
	return nil
}

// SetFailing makes subsequent operations fail, for error-path tests.
func (m *Memory) SetFailing(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}
