package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"

	"github.com/dshills/gridtext/internal/clipboard"
	"github.com/dshills/gridtext/internal/config"
	"github.com/dshills/gridtext/internal/engine"
	"github.com/dshills/gridtext/internal/engine/grid"
	"github.com/dshills/gridtext/internal/engine/viewport"
	"github.com/dshills/gridtext/internal/event"
	"github.com/dshills/gridtext/internal/input/key"
	"github.com/dshills/gridtext/internal/persist"
	"github.com/dshills/gridtext/internal/region"
	"github.com/dshills/gridtext/internal/region/label"
	"github.com/dshills/gridtext/internal/schedule"
)

// Application owns the full gridtext pipeline: engine edits publish
// mutation events, the syncer pushes compiled diffs after the debounce
// window, viewport settles recompute the frame hierarchy, and the label
// manager annotates clusters in the background.
type Application struct {
	mu     sync.Mutex
	cfg    *config.Config
	logger *Logger
	bus    *event.Bus
	eng    *engine.Engine

	store    persist.RemoteStore
	syncer   *persist.Syncer
	versions *persist.VersionLog
	labeler  *label.Manager
	settle   *schedule.Throttler

	thresholds region.Thresholds
	qual       region.Qualification
	frameCfg   region.FrameConfig

	clusters        []region.Cluster
	frames          []region.Frame
	lastGenerated   time.Time
	clustersVisible bool

	clip         clipboard.Clipboard
	viewW, viewH float64
	closed       bool
}

// Option configures an Application.
type Option func(*Application)

// WithLogger replaces the default logger.
func WithLogger(l *Logger) Option {
	return func(a *Application) {
		a.logger = l
	}
}

// WithStore replaces the default in-memory remote store.
func WithStore(s persist.RemoteStore) Option {
	return func(a *Application) {
		a.store = s
	}
}

// WithGenerator replaces the config-selected label generator.
func WithGenerator(g label.Generator) Option {
	return func(a *Application) {
		a.labeler = label.NewManager(g)
	}
}

// WithClipboard replaces the system clipboard, mainly for headless use
// and tests.
func WithClipboard(c clipboard.Clipboard) Option {
	return func(a *Application) {
		a.clip = c
	}
}

// New assembles an application from configuration.
func New(cfg *config.Config, opts ...Option) (*Application, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Application{
		cfg: cfg,
		bus: event.NewBus(),
		thresholds: region.Thresholds{
			RowGap: cfg.Regions.RowGap,
			ColGap: cfg.Regions.ColGap,
		},
		qual: region.Qualification{
			MinCells:  cfg.Regions.MinCells,
			MinBlocks: cfg.Regions.MinBlocks,
		},
		frameCfg: region.FrameConfig{
			BaseRadius:      cfg.Regions.BaseRadius,
			DistanceScaling: cfg.Regions.DistanceScaling,
			MaxLevels:       cfg.Regions.MaxLevels,
		},
		clustersVisible: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		lc := DefaultLoggerConfig()
		lc.Level = ParseLogLevel(cfg.Logging.Level)
		a.logger = NewLogger(lc)
	}
	if a.store == nil {
		a.store = persist.NewMemoryStore()
	}
	if a.labeler == nil {
		if gen := generatorFromConfig(cfg); gen != nil {
			ttl := time.Duration(cfg.AI.CacheTTLMinutes) * time.Minute
			a.labeler = label.NewManager(gen,
				label.WithCache(schedule.NewCache[string, string](ttl, label.DefaultCacheSize)))
		}
	}

	if a.clip == nil {
		a.clip = clipboard.NewSystem()
	}
	vp := viewport.New(viewport.WithZoomBounds(cfg.Viewport.MinZoom, cfg.Viewport.MaxZoom))
	a.eng = engine.New(
		engine.WithBus(a.bus),
		engine.WithClipboard(a.clip),
		engine.WithViewport(vp),
		engine.WithWordJumpWindow(cfg.Editor.WordJumpWindow),
		engine.WithIndentRadius(cfg.Editor.IndentRadius),
		engine.WithMaxUndoEntries(cfg.Editor.MaxUndoEntries),
		engine.WithDefaultStyle(grid.Style{Fg: cfg.Editor.DefaultFg, Bg: cfg.Editor.DefaultBg}),
	)

	a.syncer = persist.NewSyncer(a.store,
		func() map[int]string { return persist.CompileMap(a.eng.SnapshotGrid()) },
		persist.WithDebounce(time.Duration(cfg.Sync.DebounceMS)*time.Millisecond),
		persist.WithBasePath(fmt.Sprintf("slots/%d/compiledText", cfg.Sync.Slot)),
		persist.WithOnError(func(err error) {
			a.logger.WithComponent("sync").Error("push failed: %v", err)
		}),
	)
	a.versions = persist.NewVersionLog()
	a.settle = schedule.NewThrottler(
		time.Duration(cfg.Regions.SettleIntervalMS)*time.Millisecond,
		a.recomputeFrames,
	)

	a.bus.SubscribeFunc(event.TopicGridMutation,
		func(_ context.Context, _ event.Topic, _ any) error {
			a.syncer.NotifyChange()
			return nil
		})

	return a, nil
}

// generatorFromConfig builds the configured label backend, or nil for
// "none".
func generatorFromConfig(cfg *config.Config) label.Generator {
	switch cfg.AI.Provider {
	case config.ProviderAnthropic:
		var opts []label.AnthropicOption
		if cfg.AI.Model != "" {
			opts = append(opts, label.WithAnthropicModel(anthropic.Model(cfg.AI.Model)))
		}
		return label.NewAnthropic(opts...)
	case config.ProviderOpenAI:
		var opts []label.OpenAIOption
		if cfg.AI.Model != "" {
			opts = append(opts, label.WithOpenAIModel(openai.ChatModel(cfg.AI.Model)))
		}
		return label.NewOpenAI(opts...)
	default:
		return nil
	}
}

// Engine returns the edit engine.
func (a *Application) Engine() *engine.Engine {
	return a.eng
}

// Bus returns the event bus.
func (a *Application) Bus() *event.Bus {
	return a.bus
}

// Logger returns the application logger.
func (a *Application) Logger() *Logger {
	return a.logger
}

// Syncer returns the sync pipeline, mainly for status display.
func (a *Application) Syncer() *persist.Syncer {
	return a.syncer
}

// Versions returns the version log.
func (a *Application) Versions() *persist.VersionLog {
	return a.versions
}

// HandleKey routes one key event through the engine under the current
// mode.
func (a *Application) HandleKey(ev key.Event, mode engine.Mode) bool {
	return a.eng.HandleKey(ev, mode)
}

// SetViewSize records the screen size used to center frame derivation.
func (a *Application) SetViewSize(w, h float64) {
	a.mu.Lock()
	a.viewW, a.viewH = w, h
	a.mu.Unlock()
}

// NotifyViewportChanged signals a pan/zoom step. Frame recomputation
// runs once the burst settles, never per step.
func (a *Application) NotifyViewportChanged() {
	a.settle.Trigger()
}

// RegenerateRegions rederives blocks and clusters from the grid, rebuilds
// frames, and kicks off background label generation for qualified
// clusters. It returns the derived clusters.
func (a *Application) RegenerateRegions(ctx context.Context) []region.Cluster {
	g := a.eng.SnapshotGrid()
	blocks := region.AllBlocks(g)
	clusters := region.Qualified(region.Clusters(blocks, a.thresholds), a.qual)

	a.mu.Lock()
	// Carry labels over for clusters that did not move or change.
	for i := range clusters {
		for _, old := range a.clusters {
			if old.Label != "" && old.Bounds == clusters[i].Bounds {
				clusters[i].Label = old.Label
			}
		}
	}
	a.clusters = clusters
	a.recomputeFramesLocked()
	a.mu.Unlock()

	if a.labeler != nil && len(clusters) > 0 {
		id := a.labeler.Generate(ctx, clusters, a.applyLabels)
		a.logger.WithComponent("label").WithField("request", id).
			Debug("label generation started for %d clusters", len(clusters))
	}
	return clusters
}

// applyLabels lands generated labels on the current clusters, matching
// by bounds so labels for clusters that vanished meanwhile are dropped.
func (a *Application) applyLabels(requestID string, labeled []label.Labeled) {
	a.mu.Lock()
	applied := 0
	for _, lb := range labeled {
		if lb.Label == "" {
			continue
		}
		for i := range a.clusters {
			if a.clusters[i].Bounds == lb.Cluster.Bounds {
				a.clusters[i].Label = lb.Label
				applied++
			}
		}
	}
	if applied > 0 {
		a.lastGenerated = time.Now()
	}
	a.recomputeFramesLocked()
	a.mu.Unlock()

	a.logger.WithComponent("label").WithField("request", requestID).
		Debug("applied %d labels", applied)
}

// Clusters returns the latest derived clusters.
func (a *Application) Clusters() []region.Cluster {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]region.Cluster(nil), a.clusters...)
}

// ClustersVisible reports whether the cluster layer is displayed.
func (a *Application) ClustersVisible() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.clustersVisible
}

// SetClustersVisible toggles cluster display. The flag rides along with
// the slot snapshot.
func (a *Application) SetClustersVisible(v bool) {
	a.mu.Lock()
	a.clustersVisible = v
	a.mu.Unlock()
}

// LastLabelGenerated returns when generated labels last landed on the
// clusters, or the zero time if they never have.
func (a *Application) LastLabelGenerated() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastGenerated
}

// Frames returns the latest frame hierarchy.
func (a *Application) Frames() []region.Frame {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]region.Frame(nil), a.frames...)
}

// VisibleFrames filters the hierarchy by display policy for the current
// viewport center.
func (a *Application) VisibleFrames(policy region.Policy) []region.Frame {
	a.mu.Lock()
	defer a.mu.Unlock()
	cx, cy := a.viewCenterLocked()
	return region.Visible(a.frames, policy, cx, cy, a.frameCfg)
}

func (a *Application) recomputeFrames() {
	a.mu.Lock()
	a.recomputeFramesLocked()
	a.mu.Unlock()
	a.bus.Publish(context.Background(), event.TopicViewportSettle, nil)
}

func (a *Application) recomputeFramesLocked() {
	cx, cy := a.viewCenterLocked()
	a.frames = region.Frames(a.clusters, cx, cy, a.frameCfg)
}

// viewCenterLocked returns the world coordinates at the screen center.
func (a *Application) viewCenterLocked() (float64, float64) {
	return a.eng.View().Center(a.viewW, a.viewH)
}

// slotPath is the remote path of the full snapshot for the configured
// slot.
func (a *Application) slotPath() string {
	return fmt.Sprintf("slots/%d/state", a.cfg.Sync.Slot)
}

// versionPath is the remote path of one version entry for the
// configured slot.
func (a *Application) versionPath(index int) string {
	return fmt.Sprintf("slots/%d/versions/%d", a.cfg.Sync.Slot, index)
}

// SaveSlot snapshots the full state to the remote slot and appends a
// named version to the log.
func (a *Application) SaveSlot(ctx context.Context, name string) error {
	g := a.eng.SnapshotGrid()
	compiled := persist.CompileMap(g)
	view := a.eng.View()

	a.mu.Lock()
	records := make([]persist.ClusterRecord, 0, len(a.clusters))
	for _, c := range a.clusters {
		records = append(records, persist.ClusterRecord{Bounds: c.Bounds, Label: c.Label})
	}
	lastGen := a.lastGenerated
	visible := a.clustersVisible
	a.mu.Unlock()

	st := persist.SlotState{
		Grid:         g,
		CompiledText: compiled,
		Settings: persist.Settings{
			DefaultFg: a.cfg.Editor.DefaultFg,
			DefaultBg: a.cfg.Editor.DefaultBg,
		},
		Cursor:      a.eng.Cursor(),
		ViewOffsetX: view.OffsetX,
		ViewOffsetY: view.OffsetY,
		Zoom:        view.Zoom,
		Regions: persist.RegionState{
			Clusters:      records,
			LastGenerated: lastGen,
			Visible:       visible,
		},
	}
	doc, err := persist.EncodeSlot(st)
	if err != nil {
		return fmt.Errorf("encode slot: %w", err)
	}
	if err := a.store.Set(ctx, a.slotPath(), doc); err != nil {
		return fmt.Errorf("write slot: %w", err)
	}

	v := a.versions.Append(name, joinCompiled(compiled))
	idx := a.versions.Count() - 1
	if err := a.store.Set(ctx, a.versionPath(idx), persist.EncodeVersion(v)); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	a.bus.Publish(ctx, event.TopicStateSaved, name)
	a.logger.WithComponent("persist").Info("saved slot %d as %q", a.cfg.Sync.Slot, name)
	return nil
}

// LoadSlot restores the full state from the remote slot.
func (a *Application) LoadSlot(ctx context.Context) error {
	doc, err := a.store.Get(ctx, a.slotPath())
	if err != nil {
		if errors.Is(err, persist.ErrNotFound) {
			return ErrNoSlot
		}
		return fmt.Errorf("read slot: %w", err)
	}
	st, err := persist.DecodeSlot(doc)
	if err != nil {
		return err
	}

	a.eng.Restore(st.Grid, st.Cursor)
	view := a.eng.View()
	view.OffsetX = st.ViewOffsetX
	view.OffsetY = st.ViewOffsetY
	view.SetZoom(st.Zoom)

	a.mu.Lock()
	a.clusters = a.clusters[:0]
	for _, rec := range st.Regions.Clusters {
		a.clusters = append(a.clusters, region.Cluster{Bounds: rec.Bounds, Label: rec.Label})
	}
	a.lastGenerated = st.Regions.LastGenerated
	a.clustersVisible = st.Regions.Visible
	a.recomputeFramesLocked()
	a.mu.Unlock()

	if err := a.loadVersions(ctx); err != nil {
		return err
	}

	a.logger.WithComponent("persist").Info("loaded slot %d", a.cfg.Sync.Slot)
	return nil
}

// loadVersions replays the stored version chain so later saves extend
// the persisted history instead of restarting it.
func (a *Application) loadVersions(ctx context.Context) error {
	var entries []persist.Version
	for i := 0; ; i++ {
		doc, err := a.store.Get(ctx, a.versionPath(i))
		if errors.Is(err, persist.ErrNotFound) {
			break
		}
		if err != nil {
			return fmt.Errorf("read version %d: %w", i, err)
		}
		v, err := persist.DecodeVersion(doc)
		if err != nil {
			return fmt.Errorf("version %d: %w", i, err)
		}
		entries = append(entries, v)
	}
	log, err := persist.LoadVersionLog(entries)
	if err != nil {
		return err
	}
	a.versions = log
	return nil
}

// Flush forces any pending sync work out immediately.
func (a *Application) Flush() {
	a.syncer.Flush()
}

// Close flushes and stops the background pipeline.
func (a *Application) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	a.closed = true
	a.mu.Unlock()

	a.settle.Cancel()
	if a.labeler != nil {
		a.labeler.Cancel()
	}
	a.syncer.Close()
	a.logger.Info("shutdown complete")
	return nil
}

// joinCompiled flattens the compiled map into version-log text, rows in
// index order.
func joinCompiled(rows map[int]string) string {
	idx := make([]int, 0, len(rows))
	for i := range rows {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	lines := make([]string, len(idx))
	for i, n := range idx {
		lines[i] = rows[n]
	}
	return strings.Join(lines, "\n")
}
