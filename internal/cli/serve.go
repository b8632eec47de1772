package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/adcanvas/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes analysis and composition over HTTP:

  GET  /healthz          build info
  POST /v1/analyze       image + hints -> placement plan (or null)
  POST /v1/compose       generation result -> layers JSON (?format=png for a preview)
  GET  /v1/treatments    treatment catalog (?headline=...&objective=... to pick one)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			sc := c.config.Server
			if addr != "" {
				sc.Addr = addr
			}
			srv := server.New(runner, loggerFromContext(ctx), server.Options{
				Addr:         sc.Addr,
				ReadTimeout:  sc.ReadTimeout.Duration,
				WriteTimeout: sc.WriteTimeout.Duration,
				MaxBodyBytes: sc.MaxBodyBytes,
			})
			printInfo("Serving on %s", StyleHighlight.Render(sc.Addr))
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
