package label

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/gridtext/internal/region"
	"github.com/dshills/gridtext/internal/schedule"
)

// Defaults for the manager's cache and per-cluster call timeout.
const (
	DefaultCacheTTL    = 10 * time.Minute
	DefaultCacheSize   = 256
	DefaultCallTimeout = 20 * time.Second
)

// Labeled pairs a cluster with its generated label.
type Labeled struct {
	Cluster region.Cluster
	Label   string
}

// Manager runs label generation with latest-wins semantics. Each
// Generate call supersedes the previous one; a superseded run stops
// between clusters and never delivers. Results are cached by cluster
// content so unchanged clusters skip the model round trip.
type Manager struct {
	mu      sync.Mutex
	gen     Generator
	cache   *schedule.Cache[string, string]
	seq     uint64
	timeout time.Duration
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithCache replaces the default result cache.
func WithCache(c *schedule.Cache[string, string]) ManagerOption {
	return func(m *Manager) {
		m.cache = c
	}
}

// WithCallTimeout bounds each model call.
func WithCallTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// NewManager creates a manager around a generator.
func NewManager(gen Generator, opts ...ManagerOption) *Manager {
	m := &Manager{
		gen:     gen,
		timeout: DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cache == nil {
		m.cache = schedule.NewCache[string, string](DefaultCacheTTL, DefaultCacheSize)
	}
	return m
}

// Generate labels the clusters on a background goroutine and calls
// deliver exactly once with the results, unless superseded by a newer
// Generate call first. It returns a request id usable for log
// correlation. Clusters whose model call fails keep an empty label.
func (m *Manager) Generate(ctx context.Context, clusters []region.Cluster, deliver func(requestID string, labeled []Labeled)) string {
	id := uuid.NewString()

	m.mu.Lock()
	m.seq++
	my := m.seq
	m.mu.Unlock()

	go m.run(ctx, my, id, clusters, deliver)
	return id
}

// Cancel invalidates any in-flight generation without starting a new one.
func (m *Manager) Cancel() {
	m.mu.Lock()
	m.seq++
	m.mu.Unlock()
}

func (m *Manager) run(ctx context.Context, my uint64, id string, clusters []region.Cluster, deliver func(string, []Labeled)) {
	out := make([]Labeled, 0, len(clusters))
	for _, c := range clusters {
		if m.stale(my) || ctx.Err() != nil {
			return
		}
		out = append(out, Labeled{Cluster: c, Label: m.labelOne(ctx, c.Text())})
	}
	if m.stale(my) {
		return
	}
	if deliver != nil {
		deliver(id, out)
	}
}

func (m *Manager) stale(my uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return my != m.seq
}

// labelOne resolves one cluster label, consulting the cache first.
func (m *Manager) labelOne(ctx context.Context, text string) string {
	if cached, ok := m.cache.Get(text); ok {
		return cached
	}

	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	lbl, err := m.gen.Label(callCtx, text)
	if err != nil || lbl == "" {
		return ""
	}
	m.cache.Set(text, lbl)
	return lbl
}
