package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/paneflow/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Routes:
  GET  /healthz
  GET  /v1/demo
  POST /v1/resize
  POST /v1/render/{format}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			cc, err := c.newCache(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			srv := server.New(cc, c.Logger)
			defer srv.Close()
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
