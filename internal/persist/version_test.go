package persist

import (
	"errors"
	"strings"
	"testing"
)

func TestVersionLogReconstruct(t *testing.T) {
	l := NewVersionLog()
	l.Append("first", "hello world")
	l.Append("second", "hello brave world")
	l.Append("third", "goodbye world")

	tests := []struct {
		index int
		want  string
	}{
		{0, "hello world"},
		{1, "hello brave world"},
		{2, "goodbye world"},
	}
	for _, tt := range tests {
		got, err := l.Reconstruct(tt.index)
		if err != nil {
			t.Fatalf("Reconstruct(%d): %v", tt.index, err)
		}
		if got != tt.want {
			t.Errorf("Reconstruct(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestVersionLogNotFound(t *testing.T) {
	l := NewVersionLog()
	l.Append("only", "text")

	for _, idx := range []int{-1, 1, 99} {
		if _, err := l.Reconstruct(idx); !errors.Is(err, ErrVersionNotFound) {
			t.Errorf("Reconstruct(%d) err = %v, want ErrVersionNotFound", idx, err)
		}
	}
}

func TestVersionLogCorrupt(t *testing.T) {
	l := NewVersionLog()
	l.Append("ok", "some text")

	versions := l.Versions()
	versions[0].Patches = "not a patch %%%"
	if _, err := LoadVersionLog(versions); !errors.Is(err, ErrVersionCorrupt) {
		t.Errorf("err = %v, want ErrVersionCorrupt", err)
	}
}

func TestVersionLogRoundTripThroughStorage(t *testing.T) {
	l := NewVersionLog()
	l.Append("a", "line one")
	l.Append("b", "line one\nline two")

	restored, err := LoadVersionLog(l.Versions())
	if err != nil {
		t.Fatal(err)
	}
	if restored.Count() != 2 {
		t.Fatalf("Count = %d, want 2", restored.Count())
	}

	// Appending to the restored log diffs against the recovered tail.
	restored.Append("c", "line one\nline two\nline three")
	got, err := restored.Reconstruct(2)
	if err != nil {
		t.Fatal(err)
	}
	if got != "line one\nline two\nline three" {
		t.Errorf("Reconstruct(2) = %q", got)
	}
}

func TestVersionEntryCodec(t *testing.T) {
	l := NewVersionLog()
	v := l.Append("first", "hello world")

	doc := EncodeVersion(v)
	if !strings.Contains(doc, `"metadata":{"name":"first"}`) {
		t.Errorf("entry layout missing metadata.name: %s", doc)
	}

	got, err := DecodeVersion(doc)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != v.Name || got.Patches != v.Patches {
		t.Errorf("round trip = %+v, want %+v", got, v)
	}
	if !got.Timestamp.Equal(v.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, v.Timestamp)
	}
}

func TestDecodeVersionMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", "{"},
		{"missing patches", `{"timestamp":"2026-01-02T03:04:05Z"}`},
		{"bad timestamp", `{"patches":"","timestamp":"yesterday"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeVersion(tt.doc); !errors.Is(err, ErrVersionCorrupt) {
				t.Errorf("err = %v, want ErrVersionCorrupt", err)
			}
		})
	}
}

func TestVersionLogEmpty(t *testing.T) {
	l := NewVersionLog()
	if l.Count() != 0 {
		t.Errorf("Count = %d, want 0", l.Count())
	}
	if _, err := l.Reconstruct(0); !errors.Is(err, ErrVersionNotFound) {
		t.Errorf("err = %v, want ErrVersionNotFound", err)
	}
}
