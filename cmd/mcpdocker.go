package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/mcp-docker/internal/cli"
	clicmd "github.com/bnema/mcp-docker/internal/cli/cmd"
	"github.com/bnema/mcp-docker/pkg/logger"
	"github.com/bnema/mcp-docker/pkg/version"
)

// ExecuteCLI runs the command line with build info injected through ldflags.
func ExecuteCLI(build, commit, date string) {
	version.Set(build, commit, date)
	logger.GetLogger().ConfigureFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := cli.NewApp()
	err := clicmd.NewRootCommand(a).ExecuteContext(ctx)
	if cerr := a.Close(); cerr != nil {
		logger.Warn("Failed to release resources", "error", cerr)
	}
	if err != nil {
		stop()
		logger.Fatal("Command failed", "error", err)
	}
}
