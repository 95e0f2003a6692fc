// Package pipeline provides the read → build → render pipeline for panetree.
//
// This package implements the complete pipeline used by the CLI commands and
// the preview server. By centralizing this logic, every entry point applies
// the same validation, caching and instrumentation.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Read: Decode and validate a panel file (JSON, YAML or TOML)
//  2. Build: Reconstruct the partition tree and apply removals
//  3. Render: Generate output in various formats (SVG, DOT, PNG, PDF, JSON)
//
// Build and render results are cached as snapshots and artifacts keyed by
// content hashes, so rerunning on an unchanged panel file is a cache hit.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    PanelsPath: "dashboard.json",
//	    Remove:     []string{"chart"},
//	    Formats:    []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Interactive callers that keep editing a tree use [Runner.Layout], which
// returns the live [partition.Tree] instead of a cached snapshot.
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/panetree/pkg/cache"
	"github.com/matzehuels/panetree/pkg/partition"
	"github.com/matzehuels/panetree/pkg/render"
	"github.com/matzehuels/panetree/pkg/snapshot"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default SVG viewport width in pixels.
	DefaultWidth = render.DefaultWidth

	// DefaultHeight is the default SVG viewport height in pixels.
	DefaultHeight = render.DefaultHeight

	// DefaultPNGScale is the resolution multiplier for PNG output.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG    = "svg"
	FormatDOT    = "dot"
	FormatDOTSVG = "dot-svg"
	FormatPNG    = "png"
	FormatPDF    = "pdf"
	FormatJSON   = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:    true,
	FormatDOT:    true,
	FormatDOTSVG: true,
	FormatPNG:    true,
	FormatPDF:    true,
	FormatJSON:   true,
}

// Extension returns the file extension used when writing format.
func Extension(format string) string {
	switch format {
	case FormatDOTSVG:
		return "dot.svg"
	case FormatJSON:
		return "tree.json"
	}
	return format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
type Options struct {
	// Read options
	PanelsPath string              `json:"panels_path,omitempty"`
	Elements   []partition.Element `json:"-"` // used instead of PanelsPath when set

	// Build options
	ResizeOnPromote bool     `json:"resize_on_promote,omitempty"`
	Remove          []string `json:"remove,omitempty"`
	Refresh         bool     `json:"refresh,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	Branches bool     `json:"branches,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	TTL    time.Duration `json:"-"`
	Logger *log.Logger   `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Elements are the panels read from the input.
	Elements []partition.Element

	// PanelsHash is the content hash of the input panels.
	PanelsHash string

	// Snapshot is the built (and edited) layout.
	Snapshot *snapshot.Snapshot

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ElementCount int
	NodeCount    int
	ReadTime     time.Duration
	BuildTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the snapshot came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, dot, dot-svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForRead(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForRead checks that there is an input to read.
func (o *Options) ValidateForRead() error {
	if o.PanelsPath == "" && o.Elements == nil {
		return fmt.Errorf("panels path or elements are required")
	}
	o.setCommonDefaults()
	return nil
}

// SetRenderDefaults sets default values for rendering. Formats are left
// empty so a build-only run renders nothing.
func (o *Options) SetRenderDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	o.setCommonDefaults()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Width < 0 || o.Height < 0 {
		return fmt.Errorf("invalid size %dx%d", o.Width, o.Height)
	}
	return ValidateFormats(o.Formats)
}

func (o *Options) setCommonDefaults() {
	if o.TTL == 0 {
		o.TTL = cache.TTLLayout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// PartitionOptions returns the engine options implied by o.
func (o *Options) PartitionOptions() []partition.Option {
	return []partition.Option{partition.WithResizeOnPromote(o.ResizeOnPromote)}
}

// LayoutKeyOpts returns cache key options for a build.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		ResizeOnPromote: o.ResizeOnPromote,
		Removed:         slices.Clone(o.Remove),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Width:    o.Width,
		Height:   o.Height,
		Branches: o.Branches || o.Detailed,
	}
}
