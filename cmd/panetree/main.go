package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/panetree/internal/cli"
	perrors "github.com/matzehuels/panetree/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		code := exitCode(err)
		if code != exitInterrupted {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(code)
	}
}

// Exit statuses, so scripts can tell bad input from a layout that has no
// partition tree.
const (
	exitFailure         = 1
	exitInvalidInput    = 2
	exitUnpartitionable = 3
	exitInterrupted     = 130
)

func exitCode(err error) int {
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	switch perrors.GetCode(err) {
	case perrors.ErrCodeUnpartitionable:
		return exitUnpartitionable
	case perrors.ErrCodeInvalidInput, perrors.ErrCodeInvalidFormat, perrors.ErrCodeInvalidRect,
		perrors.ErrCodeInvalidConfig, perrors.ErrCodeInvalidPath, perrors.ErrCodeFileNotFound,
		perrors.ErrCodeDuplicateID, perrors.ErrCodeNotFound:
		return exitInvalidInput
	}
	return exitFailure
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// Apply the log level before the CLI's own pre-run hook loads config.
	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := cli.LogInfo
		if verbose {
			level = cli.LogDebug
		}
		c.SetLogLevel(level)

		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}
