package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bnema/mcp-docker/internal/cli"
)

// NewRootCommand builds the command tree. Without a subcommand it serves MCP on stdio,
// which is how MCP hosts launch it.
func NewRootCommand(a *cli.App) *cobra.Command {
	root := &cobra.Command{
		Use:           "mcp-docker",
		Short:         "Docker engine management exposed as MCP tools and resources",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, a)
		},
	}
	root.PersistentFlags().StringVar(&a.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/mcp-docker/config.yml)")

	root.AddCommand(NewServeCommand(a))
	root.AddCommand(NewHTTPCommand(a))
	root.AddCommand(NewToolsCommand(a))
	root.AddCommand(NewCallCommand(a))
	root.AddCommand(NewAuditCommand(a))
	root.AddCommand(NewVersionCommand(a))
	return root
}
