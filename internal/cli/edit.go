package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/panetree/pkg/geom"
	"github.com/matzehuels/panetree/pkg/panels"
	"github.com/matzehuels/panetree/pkg/partition"
	"github.com/matzehuels/panetree/pkg/pipeline"
	"github.com/matzehuels/panetree/pkg/snapshot"
)

// removeCommand creates the remove command.
func (c *CLI) removeCommand() *cobra.Command {
	var flags layoutFlags
	var output string

	cmd := &cobra.Command{
		Use:   "remove <panels> <id>...",
		Short: "Remove panels and let their neighbours take the space",
		Long: `Remove builds the layout tree, removes each panel in order and writes the
edited tree. Ids that are not in the layout are skipped.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions(cmd, args[0], &flags)
			opts.Remove = args[1:]
			return c.runBuild(cmd.Context(), opts, flags.noCache, snapshotPath(output, args[0]), false)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "snapshot path (default <panels>.tree.json)")

	return cmd
}

// insertOpts holds the flags of the insert command.
type insertOpts struct {
	target string
	id     string
	label  string
	axis   string
	before bool
	output string
	export string
}

// insertCommand creates the insert command.
func (c *CLI) insertCommand() *cobra.Command {
	var flags layoutFlags
	opts := insertOpts{axis: "h"}

	cmd := &cobra.Command{
		Use:   "insert <panels>",
		Short: "Insert a panel next to an existing one",
		Long: `Insert builds the layout tree and adds a new panel beside --target.
The new panel takes an even share of its container; the others shrink
proportionally. With --export the edited panels are written back out
as a panel file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			axis, err := geom.ParseAxis(opts.axis)
			if err != nil {
				return err
			}
			if opts.id == "" {
				opts.id = panels.NewID()
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			tree, err := runner.Layout(ctx, c.pipelineOptions(cmd, args[0], &flags))
			if err != nil {
				return err
			}
			e := partition.Element{ID: opts.id, Label: opts.label}
			if _, err := pipeline.InsertLeaf(ctx, tree, opts.target, e, axis, !opts.before); err != nil {
				return fmt.Errorf("insert %s: %w", opts.id, err)
			}

			snap := snapshot.FromTree(tree)
			output := snapshotPath(opts.output, args[0])
			if err := snapshot.WriteFile(output, snap); err != nil {
				return err
			}
			printTree(snap)
			printSuccess("Inserted %s", StyleHighlight.Render(opts.id))
			printFile(output)

			if opts.export != "" {
				if err := panels.Export(snap.Elements(), opts.export); err != nil {
					return err
				}
				printFile(opts.export)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&opts.target, "target", "", "id of the panel to insert next to")
	cmd.Flags().StringVar(&opts.id, "id", "", "id of the new panel (default: random)")
	cmd.Flags().StringVar(&opts.label, "label", "", "label of the new panel")
	cmd.Flags().StringVar(&opts.axis, "axis", opts.axis, "split axis: h (side by side) or v (stacked)")
	cmd.Flags().BoolVar(&opts.before, "before", false, "place the new panel before the target")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "snapshot path (default <panels>.tree.json)")
	cmd.Flags().StringVar(&opts.export, "export", "", "also write the edited panels to this file (.json, .yaml, .toml)")

	return cmd
}
