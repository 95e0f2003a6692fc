package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/panetree/pkg/pipeline"
	"github.com/matzehuels/panetree/pkg/snapshot"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path (or base path for multiple outputs)
	formats  string // comma-separated output formats
	width    int    // viewport width in pixels
	height   int    // viewport height in pixels
	branches bool   // outline branch containers in SVG output
	detailed bool   // add rects to DOT labels
}

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var flags layoutFlags
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <panels|tree.json>",
		Short: "Render a layout tree to SVG, DOT, PNG or PDF",
		Long: `Render draws a layout. The input is either a panel file, which is built
first (honouring --remove), or a snapshot written by build.

PNG and PDF output need rsvg-convert on the PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(opts.formats)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}

			popts := c.pipelineOptions(cmd, args[0], &flags)
			popts.Formats = formats
			if cmd.Flags().Changed("width") {
				popts.Width = opts.width
			}
			if cmd.Flags().Changed("height") {
				popts.Height = opts.height
			}
			popts.Branches = popts.Branches || opts.branches
			popts.Detailed = opts.detailed
			popts.Remove, _ = cmd.Flags().GetStringSlice("remove")

			return c.runRender(cmd.Context(), args[0], popts, flags.noCache, opts.output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), dot, dot-svg, png, pdf, json (comma-separated)")
	cmd.Flags().IntVar(&opts.width, "width", pipeline.DefaultWidth, "viewport width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", pipeline.DefaultHeight, "viewport height in pixels")
	cmd.Flags().BoolVar(&opts.branches, "branches", false, "outline branch containers")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include rects in DOT labels")
	cmd.Flags().StringSlice("remove", nil, "panel ids to remove before rendering")

	return cmd
}

// runRender renders input to every requested format and writes the files.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, noCache bool, output string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var spin *spinner
	if slices.ContainsFunc(opts.Formats, isSlowFormat) {
		spin = newSpinner(ctx, os.Stderr, "Rendering "+strings.Join(opts.Formats, ", "))
		spin.Start()
	}

	artifacts, cached, err := c.renderInput(ctx, runner, input, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	paths := outputPaths(output, input, opts.Formats)
	for _, format := range opts.Formats {
		if err := os.WriteFile(paths[format], artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[format], err)
		}
		logger.Debug("wrote artifact", "format", format, "bytes", len(artifacts[format]))
	}

	prog.done(fmt.Sprintf("Rendered %d file(s)", len(opts.Formats)))
	status := iconFresh
	if cached {
		status = iconCached
	}
	printSuccess("Rendered %s %s", input, StyleDim.Render("("+status+")"))
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	return nil
}

func (c *CLI) renderInput(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options) (map[string][]byte, bool, error) {
	if !isSnapshotFile(input) {
		result, err := runner.Execute(ctx, opts)
		if err != nil {
			return nil, false, err
		}
		return result.Artifacts, result.CacheInfo.RenderHit, nil
	}

	snap, err := snapshot.ReadFile(input)
	if err != nil {
		return nil, false, err
	}
	if len(opts.Remove) > 0 {
		loggerFromContext(ctx).Warn("--remove is ignored for snapshot input")
	}
	return runner.RenderWithCacheInfo(ctx, snap, opts)
}

// isSnapshotFile reports whether path holds a snapshot rather than panels.
func isSnapshotFile(path string) bool {
	switch {
	case strings.HasSuffix(path, ".tree.json"):
		return true
	case strings.HasSuffix(path, ".json"):
		_, err := snapshot.ReadFile(path)
		return err == nil
	}
	return false
}

// isSlowFormat reports whether format shells out or runs Graphviz.
func isSlowFormat(format string) bool {
	switch format {
	case pipeline.FormatPNG, pipeline.FormatDOTSVG:
		return true
	}
	return false
}

// outputPaths maps each format to its output file. A single format with an
// explicit output uses it verbatim; otherwise output (or the input) is a base
// path that gets the format's extension.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = basePath(input)
	}
	for _, f := range formats {
		paths[f] = base + "." + pipeline.Extension(f)
	}
	return paths
}
