// Package cli holds the state shared by the command line commands.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/bnema/mcp-docker/internal/app"
)

// App lazily builds the application so commands that never touch the engine stay cheap.
type App struct {
	ConfigPath string
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer

	core *app.App
}

// NewApp returns an App bound to the process streams.
func NewApp() *App {
	return &App{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Core loads the configuration and builds the application on first use.
func (a *App) Core(ctx context.Context) (*app.App, error) {
	if a.core != nil {
		return a.core, nil
	}
	core, err := app.New(ctx, a.ConfigPath)
	if err != nil {
		return nil, err
	}
	a.core = core
	return core, nil
}

// Close releases the application if it was built.
func (a *App) Close() error {
	if a.core == nil {
		return nil
	}
	err := a.core.Close()
	a.core = nil
	return err
}
