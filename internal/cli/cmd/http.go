package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bnema/mcp-docker/internal/cli"
)

func NewHTTPCommand(a *cli.App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve MCP over HTTP (POST /mcp, GET /healthz)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := a.Core(cmd.Context())
			if err != nil {
				return err
			}
			return core.HTTPServer(addr).Start(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides http.addr)")
	return cmd
}
