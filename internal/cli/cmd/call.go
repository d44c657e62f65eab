package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/mcp-docker/internal/cli"
)

func NewCallCommand(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool> [json-arguments]",
		Short: "Run one tool and print its result",
		Example: `  mcp-docker call list_containers '{"projectName":"shop"}'
  mcp-docker call pull_image '{"imageName":"nginx:latest"}'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			arguments := map[string]any{}
			if len(args) == 2 {
				if err := json.Unmarshal([]byte(args[1]), &arguments); err != nil {
					return fmt.Errorf("arguments must be a JSON object: %w", err)
				}
			}

			core, err := a.Core(cmd.Context())
			if err != nil {
				return err
			}

			text, err := core.Dispatcher.CallTool(cmd.Context(), args[0], arguments)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
