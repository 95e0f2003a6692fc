package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/panetree/pkg/cache"
	"github.com/matzehuels/panetree/pkg/observability"
	"github.com/matzehuels/panetree/pkg/partition"
	"github.com/matzehuels/panetree/pkg/snapshot"
)

// Runner encapsulates pipeline execution with caching.
// The CLI and the preview server both use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete read → build → render pipeline with caching.
// Rendering is skipped when opts.Formats is empty.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Read
	readStart := time.Now()
	elements, hash, err := ReadPanels(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	result.Elements = elements
	result.PanelsHash = hash
	result.Stats.ReadTime = time.Since(readStart)
	result.Stats.ElementCount = len(elements)

	r.Logger.Info("read panels",
		"elements", len(elements),
		"duration", result.Stats.ReadTime)

	// Stage 2: Build
	buildStart := time.Now()
	snap, buildHit, err := r.BuildWithCacheInfo(ctx, elements, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Snapshot = snap
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = len(snap.Nodes)
	result.CacheInfo.BuildHit = buildHit

	r.Logger.Info("built layout",
		"nodes", len(snap.Nodes),
		"leaves", snap.ElementCount,
		"cached", buildHit,
		"duration", result.Stats.BuildTime)

	if len(opts.Formats) == 0 {
		return result, nil
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, snap, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout reads the panels and returns the live tree with removals applied.
// Unlike Execute it bypasses the cache, since callers go on to edit the tree.
func (r *Runner) Layout(ctx context.Context, opts Options) (*partition.Tree, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRead(); err != nil {
		return nil, err
	}

	elements, _, err := ReadPanels(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	start := time.Now()
	tree, err := BuildTree(ctx, elements, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	r.Logger.Debug("built tree",
		"elements", len(elements),
		"nodes", tree.Len(),
		"duration", time.Since(start))
	return tree, nil
}

// BuildWithCacheInfo builds the layout snapshot with caching and returns
// cache hit info. panelsHash identifies the input elements.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, elements []partition.Element, panelsHash string, opts Options) (*snapshot.Snapshot, bool, error) {
	r.applyLogger(&opts)
	opts.setCommonDefaults()

	cacheKey := r.Keyer.LayoutKey(panelsHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		snap, err := r.loadSnapshot(ctx, cacheKey)
		if err == nil {
			return snap, true, nil // Cache hit
		}
		r.Logger.Debug("layout cache miss", "key", cacheKey, "reason", err)
	}

	tree, err := BuildTree(ctx, elements, opts)
	if err != nil {
		return nil, false, err
	}
	snap := snapshot.FromTree(tree)

	// Cache the result
	if data, err := snapshot.Marshal(snap); err == nil {
		r.store(ctx, cacheKey, data, opts.TTL)
	}

	return snap, false, nil // Cache miss
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards the cache hit info.
func (r *Runner) Build(ctx context.Context, elements []partition.Element, panelsHash string, opts Options) (*snapshot.Snapshot, error) {
	snap, _, err := r.BuildWithCacheInfo(ctx, elements, panelsHash, opts)
	return snap, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, snap *snapshot.Snapshot, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Compute cache key from snapshot data
	snapData, err := snapshot.Marshal(snap)
	if err != nil {
		return nil, false, fmt.Errorf("serialize snapshot for cache key: %w", err)
	}
	cacheKeyHash := cache.Hash(snapData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	hooks := observability.Cache()
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, cacheKey)
			break
		}
		hooks.OnCacheHit(ctx, cacheKey)
		artifacts[format] = data
	}

	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, snap, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil // Cache miss
}

// RenderSnapshot is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) RenderSnapshot(ctx context.Context, snap *snapshot.Snapshot, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, snap, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// loadSnapshot returns cache.ErrCacheMiss when key is absent.
func (r *Runner) loadSnapshot(ctx context.Context, key string) (*snapshot.Snapshot, error) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, key)
		return nil, cache.ErrCacheMiss
	}
	snap, err := snapshot.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	observability.Cache().OnCacheHit(ctx, key)
	return snap, nil
}

func (r *Runner) store(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
