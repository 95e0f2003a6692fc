package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/panetree/internal/server"
	"github.com/matzehuels/panetree/pkg/pipeline"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var flags layoutFlags
	var addr string

	cmd := &cobra.Command{
		Use:   "serve <panels>",
		Short: "Serve the layout tree for live editing over HTTP",
		Long: `Serve builds the layout tree and exposes it over HTTP:

  GET    /tree.json  /tree.svg  /tree.dot  /leaves
  POST   /leaves      {"target": "a", "id": "b", "axis": "h"}
  DELETE /leaves/{id}
  POST   /reset`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.config.Server.Addr
			}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := c.pipelineOptions(cmd, args[0], &flags)
			elements, _, err := pipeline.ReadPanels(ctx, opts)
			if err != nil {
				return err
			}
			srv, err := server.New(ctx, runner, elements, opts)
			if err != nil {
				return err
			}

			printInfo("Serving %s on %s", args[0], StyleLink.Render("http://"+displayAddr(addr)))
			printKeyValue("Panels", fmt.Sprint(len(elements)))
			printKeyValue("Cache", c.backend())
			err = srv.Run(ctx, addr)
			if errors.Is(err, context.Canceled) {
				printInfo("Stopped")
			}
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

// displayAddr turns a listen address into something a browser can open.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
