// Package app wires configuration, the engine client, the tool dispatcher and the MCP server.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/mcp-docker/internal/audit"
	"github.com/bnema/mcp-docker/internal/common"
	"github.com/bnema/mcp-docker/internal/httpserve"
	"github.com/bnema/mcp-docker/internal/mcp"
	"github.com/bnema/mcp-docker/internal/tools"
	"github.com/bnema/mcp-docker/pkg/docker"
	"github.com/bnema/mcp-docker/pkg/logger"
	"github.com/bnema/mcp-docker/pkg/version"
)

// ServerName is reported to MCP clients on initialize.
const ServerName = "mcp-docker"

// App owns the long-lived handles: engine connection, audit store, dispatcher and MCP server.
// Audit is nil when no audit path is configured.
type App struct {
	Config     *common.Config
	Engine     *docker.Client
	Audit      *audit.Store
	Dispatcher *tools.Dispatcher
	Server     *mcp.Server
}

// New loads the configuration at configPath and builds the application.
// The engine is not contacted until the first call.
func New(ctx context.Context, configPath string) (*App, error) {
	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger.GetLogger().SetLogLevel(config.General.LogLevel)

	var clientOpts []docker.Option
	if auth := config.RegistryAuth(); auth != nil {
		clientOpts = append(clientOpts, docker.WithRegistryAuth(*auth))
	}
	engine, err := docker.Connect(config.ContainerEngine.ProjectPrefix, config.EngineOptions(), clientOpts...)
	if err != nil {
		return nil, err
	}

	a := &App{Config: config, Engine: engine}

	middlewares := []tools.Middleware{tools.WithLogging()}
	if path := config.Audit.Path; path != "" {
		store, err := audit.Open(ctx, path)
		if err != nil {
			engine.Close()
			return nil, fmt.Errorf("failed to open audit store: %w", err)
		}
		a.Audit = store
		middlewares = append(middlewares, store.Middleware())
	}

	a.Dispatcher = tools.NewDispatcher(engine, middlewares...)
	a.Server = mcp.NewServer(a.Dispatcher, ServerName, version.Version())

	logger.Debug("Application initialized",
		"engine", config.ContainerEngine.EngineHost(),
		"prefix", engine.Prefix(),
		"audit", a.Audit != nil)
	return a, nil
}

// HTTPServer builds the HTTP front from the configuration.
func (a *App) HTTPServer(addr string) *httpserve.Server {
	if addr == "" {
		addr = a.Config.Http.Addr
	}
	return httpserve.New(a.Server, a.Engine, httpserve.Options{
		Addr:         addr,
		Token:        a.Config.Http.Token,
		RateLimitDir: a.Config.Http.RateLimitDir,
		MaxBody:      a.Config.MaxBodyBytes(),
	})
}

// Close releases the engine connection and the audit store.
func (a *App) Close() error {
	var errs []error
	if a.Audit != nil {
		errs = append(errs, a.Audit.Close())
	}
	if a.Engine != nil {
		errs = append(errs, a.Engine.Close())
	}
	return errors.Join(errs...)
}
