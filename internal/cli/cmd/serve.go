package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/bnema/mcp-docker/internal/cli"
	"github.com/bnema/mcp-docker/pkg/logger"
)

func NewServeCommand(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, a)
		},
	}
}

func serve(cmd *cobra.Command, a *cli.App) error {
	core, err := a.Core(cmd.Context())
	if err != nil {
		return err
	}

	logger.Info("Serving MCP on stdio", "prefix", core.Engine.Prefix())
	err = core.Server.ServeStdio(cmd.Context(), a.Stdin, a.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
