package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/panetree/pkg/snapshot"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags layoutFlags
	var output string

	cmd := &cobra.Command{
		Use:   "inspect <panels>",
		Short: "Browse the layout tree and remove panels interactively",
		Long: `Inspect opens the layout tree in an interactive browser. Press d to
remove the selected panel and u to undo. When you quit after editing,
the tree is written to <panels>.tree.json.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			final, err := tea.NewProgram(NewInspectModel(ctx, tree), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			m := final.(InspectModel)
			if !m.Modified {
				printInfo("No changes")
				return nil
			}

			path := snapshotPath(output, args[0])
			if err := snapshot.WriteFile(path, snapshot.FromTree(m.Tree())); err != nil {
				return err
			}
			printSuccess("Saved edited tree")
			printFile(path)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "snapshot path (default <panels>.tree.json)")

	return cmd
}
