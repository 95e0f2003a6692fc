// Package cli implements the panetree command-line interface.
//
// The commands read a panel file (JSON, YAML or TOML), rebuild its
// partition tree and either save the tree, edit it, render it or serve it:
//   - build: Reconstruct the tree and write a snapshot
//   - remove, insert: Edit the tree and write the result
//   - render: Generate SVG, DOT, PNG or PDF output
//   - inspect: Browse and prune the tree interactively
//   - serve: Run the HTTP preview server
//   - cache: Manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/panetree/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Rendered 3 files (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks reports pipeline and edit events at debug level.
type logHooks struct {
	observability.NoopPipelineHooks
	observability.NoopMutationHooks
	logger *log.Logger
}

func (h *logHooks) OnReadComplete(_ context.Context, path string, elements int, d time.Duration, err error) {
	h.logger.Debug("read panel file", "path", path, "elements", elements, "duration", d, "error", err)
}

func (h *logHooks) OnBuildComplete(_ context.Context, nodes int, d time.Duration, err error) {
	h.logger.Debug("partitioned", "nodes", nodes, "duration", d, "error", err)
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("rendered", "formats", formats, "duration", d, "error", err)
}

func (h *logHooks) OnRemove(_ context.Context, id string, removed int, promoted bool) {
	h.logger.Debug("remove", "id", id, "detached", removed, "promoted", promoted)
}

func (h *logHooks) OnInsert(_ context.Context, id string, err error) {
	h.logger.Debug("insert", "id", id, "error", err)
}
