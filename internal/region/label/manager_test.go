package label

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dshills/gridtext/internal/region"
)

func testClusters(texts ...string) []region.Cluster {
	out := make([]region.Cluster, len(texts))
	for i, txt := range texts {
		out[i] = region.Cluster{
			Blocks: []region.Block{{Y: i * 10, StartX: 0, EndX: len(txt) - 1, Text: txt}},
		}
	}
	return out
}

func TestCleanLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Shopping List  ", "Shopping List"},
		{`"Quoted Title"`, "Quoted Title"},
		{"First line\nsecond line", "First line"},
		{strings.Repeat("x", 100), strings.Repeat("x", MaxLabelRunes)},
	}
	for _, tt := range tests {
		if got := cleanLabel(tt.in); got != tt.want {
			t.Errorf("cleanLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateDelivers(t *testing.T) {
	gen := GeneratorFunc(func(_ context.Context, text string) (string, error) {
		return "label: " + text, nil
	})
	m := NewManager(gen)

	done := make(chan []Labeled, 1)
	var id string
	id = m.Generate(context.Background(), testClusters("alpha", "beta"),
		func(gotID string, labeled []Labeled) {
			if gotID != id {
				t.Errorf("request id %q != %q", gotID, id)
			}
			done <- labeled
		})
	if id == "" {
		t.Fatal("empty request id")
	}

	select {
	case labeled := <-done:
		if len(labeled) != 2 {
			t.Fatalf("got %d labels, want 2", len(labeled))
		}
		if labeled[0].Label != "label: alpha" || labeled[1].Label != "label: beta" {
			t.Errorf("labels = %q, %q", labeled[0].Label, labeled[1].Label)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("deliver never called")
	}
}

func TestGenerateSupersedes(t *testing.T) {
	release := make(chan struct{})
	gen := GeneratorFunc(func(_ context.Context, text string) (string, error) {
		<-release
		return text, nil
	})
	m := NewManager(gen)

	var firstDelivered atomic.Bool
	m.Generate(context.Background(), testClusters("old"),
		func(string, []Labeled) { firstDelivered.Store(true) })

	done := make(chan struct{})
	m.Generate(context.Background(), testClusters("new"),
		func(string, []Labeled) { close(done) })

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second request never delivered")
	}
	// Give a superseded first run time to misbehave if it is going to.
	time.Sleep(50 * time.Millisecond)
	if firstDelivered.Load() {
		t.Error("superseded request must not deliver")
	}
}

func TestGenerateUsesCache(t *testing.T) {
	var calls atomic.Int64
	gen := GeneratorFunc(func(_ context.Context, text string) (string, error) {
		calls.Add(1)
		return "t", nil
	})
	m := NewManager(gen)

	run := func() {
		done := make(chan struct{})
		m.Generate(context.Background(), testClusters("same text"),
			func(string, []Labeled) { close(done) })
		<-done
	}
	run()
	run()

	if got := calls.Load(); got != 1 {
		t.Errorf("generator called %d times, want 1 (cache hit)", got)
	}
}

func TestGenerateErrorKeepsEmptyLabel(t *testing.T) {
	gen := GeneratorFunc(func(_ context.Context, text string) (string, error) {
		return "", context.DeadlineExceeded
	})
	m := NewManager(gen)

	done := make(chan []Labeled, 1)
	m.Generate(context.Background(), testClusters("x"),
		func(_ string, labeled []Labeled) { done <- labeled })

	labeled := <-done
	if labeled[0].Label != "" {
		t.Errorf("label = %q, want empty on error", labeled[0].Label)
	}
}

func TestCancel(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	gen := GeneratorFunc(func(_ context.Context, text string) (string, error) {
		close(started)
		<-release
		return text, nil
	})
	m := NewManager(gen)

	var delivered atomic.Bool
	m.Generate(context.Background(), testClusters("a", "b"),
		func(string, []Labeled) { delivered.Store(true) })

	<-started
	m.Cancel()
	close(release)

	time.Sleep(50 * time.Millisecond)
	if delivered.Load() {
		t.Error("cancelled request must not deliver")
	}
}
