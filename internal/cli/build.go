package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/panetree/pkg/partition"
	"github.com/matzehuels/panetree/pkg/pipeline"
	"github.com/matzehuels/panetree/pkg/snapshot"
)

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var flags layoutFlags
	var output string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "build <panels>",
		Short: "Reconstruct the layout tree of a panel file",
		Long: `Build reads a panel file, reconstructs the partition tree that produces
it and writes the tree as <panels>.tree.json.

Panels that cannot be separated by a straight cut (such as a pinwheel
arrangement) make the build fail.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions(cmd, args[0], &flags)
			return c.runBuild(cmd.Context(), opts, flags.noCache, snapshotPath(output, args[0]), quiet)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "snapshot path (default <panels>.tree.json)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the tree")

	return cmd
}

// runBuild executes the pipeline without rendering and saves the snapshot.
func (c *CLI) runBuild(ctx context.Context, opts pipeline.Options, noCache bool, output string, quiet bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}

	if err := snapshot.WriteFile(output, result.Snapshot); err != nil {
		return err
	}

	for _, id := range missingIDs(result.Elements, opts.Remove) {
		printWarning("No panel %q to remove", id)
	}
	if !quiet {
		printTree(result.Snapshot)
	}
	printSuccess("Built layout tree")
	printStats(result.Snapshot.ElementCount, len(result.Snapshot.Nodes), result.CacheInfo.BuildHit)
	printFile(output)
	printNextStep("Render it", "panetree render "+output)
	return nil
}

// missingIDs returns the ids in remove that name no element.
func missingIDs(elements []partition.Element, remove []string) []string {
	known := make(map[string]bool, len(elements))
	for _, e := range elements {
		known[e.ID] = true
	}
	var missing []string
	for _, id := range remove {
		if !known[id] {
			missing = append(missing, id)
		}
	}
	return missing
}
