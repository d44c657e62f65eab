package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/mcp-docker/internal/cli"
	"github.com/bnema/mcp-docker/pkg/version"
)

func NewVersionCommand(_ *cli.App) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display the version of mcp-docker",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), version.Version())
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "show only the version number")
	return cmd
}
