package persist

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/dshills/gridtext/internal/schedule"
)

// DefaultDebounce is the quiet period between the last edit and the
// compile/push cycle.
const DefaultDebounce = 300 * time.Millisecond

// SyncStatus describes where the syncer is in its push cycle.
type SyncStatus int

const (
	// SyncIdle means the remote matches the last compile.
	SyncIdle SyncStatus = iota

	// SyncPending means edits are waiting out the debounce window.
	SyncPending

	// SyncInFlight means a push batch is queued or being written.
	SyncInFlight

	// SyncError means the last push failed; its fields are retried with
	// the next cycle.
	SyncError
)

// String returns a human-readable status name.
func (s SyncStatus) String() string {
	switch s {
	case SyncIdle:
		return "idle"
	case SyncPending:
		return "pending"
	case SyncInFlight:
		return "in-flight"
	case SyncError:
		return "error"
	default:
		return "unknown"
	}
}

// Syncer keeps the remote compiled document converged with the grid.
// Edits signal NotifyChange; after the debounce window the source is
// compiled, diffed against the previous compile, and the resulting
// field batch is pushed by a single worker so batches land in FIFO
// order. Failed batches are folded into the next compile rather than
// blocking it.
type Syncer struct {
	mu     sync.Mutex
	store  RemoteStore
	source func() map[int]string
	base   string

	deb   *schedule.Debouncer
	queue chan map[string]*string
	wg    sync.WaitGroup
	sends sync.WaitGroup

	prev    map[int]string
	failed  map[string]*string
	status  SyncStatus
	closed  bool
	onError func(error)
}

// SyncerOption configures a Syncer.
type SyncerOption func(*Syncer)

// WithDebounce sets the quiet period.
func WithDebounce(d time.Duration) SyncerOption {
	return func(s *Syncer) {
		if d > 0 {
			s.deb = schedule.NewDebouncer(d, s.compileAndEnqueue)
		}
	}
}

// WithBasePath prefixes every pushed field path.
func WithBasePath(base string) SyncerOption {
	return func(s *Syncer) {
		s.base = base
	}
}

// WithOnError installs a callback invoked on each failed push.
func WithOnError(fn func(error)) SyncerOption {
	return func(s *Syncer) {
		s.onError = fn
	}
}

// NewSyncer creates a running syncer. source is called on each cycle to
// produce the current compiled state; it must be safe to call from the
// debounce timer goroutine.
func NewSyncer(store RemoteStore, source func() map[int]string, opts ...SyncerOption) *Syncer {
	s := &Syncer{
		store:  store,
		source: source,
		base:   "compiledText",
		queue:  make(chan map[string]*string, 16),
		prev:   make(map[int]string),
	}
	s.deb = schedule.NewDebouncer(DefaultDebounce, s.compileAndEnqueue)
	for _, opt := range opts {
		opt(s)
	}

	s.wg.Add(1)
	go s.worker()
	return s
}

// NotifyChange marks the grid dirty, (re)starting the debounce window.
func (s *Syncer) NotifyChange() {
	s.mu.Lock()
	if !s.closed {
		s.status = SyncPending
	}
	s.mu.Unlock()
	s.deb.Trigger()
}

// Flush runs any pending cycle immediately.
func (s *Syncer) Flush() {
	s.deb.Flush()
}

// Status returns the current sync status.
func (s *Syncer) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Close flushes pending work and stops the worker after the queue
// drains. A debounce callback that already passed its closed check is
// counted in sends, so the queue only closes once it has finished its
// enqueue.
func (s *Syncer) Close() {
	s.deb.Flush()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	s.sends.Wait()
	close(s.queue)
	s.wg.Wait()
}

// rowPath returns the remote field path for a dense row index.
func (s *Syncer) rowPath(index int) string {
	return s.base + "/" + strconv.Itoa(index)
}

// compileAndEnqueue is the debounce callback: compile, diff, merge any
// previously failed fields, enqueue. Newer row values win over retried
// ones because the retry merge happens first.
func (s *Syncer) compileAndEnqueue() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	cur := s.source()
	updates := DiffRows(s.prev, cur)
	s.prev = cur

	fields := make(map[string]*string, len(updates)+len(s.failed))
	for path, v := range s.failed {
		fields[path] = v
	}
	s.failed = nil

	for _, u := range updates {
		if u.Tombstone {
			fields[s.rowPath(u.Index)] = nil
		} else {
			v := u.Text
			fields[s.rowPath(u.Index)] = &v
		}
	}

	if len(fields) == 0 {
		s.status = SyncIdle
		s.mu.Unlock()
		return
	}
	s.status = SyncInFlight
	// Registered under the lock so Close either sees this send or the
	// closed flag stops it, never a send on a closed queue.
	s.sends.Add(1)
	s.mu.Unlock()

	s.queue <- fields
	s.sends.Done()
}

func (s *Syncer) worker() {
	defer s.wg.Done()
	for fields := range s.queue {
		err := s.store.Update(context.Background(), fields)

		s.mu.Lock()
		if err != nil {
			if s.failed == nil {
				s.failed = make(map[string]*string)
			}
			for path, v := range fields {
				s.failed[path] = v
			}
			s.status = SyncError
			cb := s.onError
			s.mu.Unlock()
			if cb != nil {
				cb(err)
			}
			continue
		}
		if len(s.queue) == 0 && !s.deb.Pending() {
			s.status = SyncIdle
		}
		s.mu.Unlock()
	}
}
