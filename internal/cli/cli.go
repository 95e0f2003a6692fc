package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/panetree/internal/config"
	"github.com/matzehuels/panetree/pkg/buildinfo"
	"github.com/matzehuels/panetree/pkg/cache"
	"github.com/matzehuels/panetree/pkg/observability"
	"github.com/matzehuels/panetree/pkg/pipeline"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "panetree",
		Short: "Panetree turns panel placements into an editable layout tree",
		Long: `Panetree reconstructs a hierarchical split layout from a flat list of
rectangles, then lets you remove or insert panels while the rest of the
layout grows or shrinks to keep the space tiled.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			observability.SetPipelineHooks(&logHooks{logger: c.Logger})
			observability.SetMutationHooks(&logHooks{logger: c.Logger})
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/panetree/config.toml)")

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.insertCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	opts := c.config.CacheOptions()
	if noCache {
		opts.Backend = cache.BackendNone
	}
	store, err := cache.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", opts.Backend, err)
	}
	return store, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags holds the flags shared by commands that build a tree.
type layoutFlags struct {
	resize  bool
	noCache bool
	refresh bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.resize, "resize-on-promote", false, "grow promoted panels into the space of their removed parent")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "rebuild even when a cached layout exists")
}

// pipelineOptions merges config file values with flags set on cmd.
func (c *CLI) pipelineOptions(cmd *cobra.Command, path string, f *layoutFlags) pipeline.Options {
	opts := c.config.PipelineOptions()
	opts.PanelsPath = path
	opts.Logger = c.Logger
	if f != nil {
		if cmd.Flags().Changed("resize-on-promote") {
			opts.ResizeOnPromote = f.resize
		}
		opts.Refresh = f.refresh
	}
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// basePath strips the panel or snapshot extension from input.
func basePath(input string) string {
	if strings.HasSuffix(input, ".tree.json") {
		return strings.TrimSuffix(input, ".tree.json")
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// snapshotPath is where build-style commands write their tree by default.
func snapshotPath(output, input string) string {
	if output != "" {
		return output
	}
	return basePath(input) + ".tree.json"
}
