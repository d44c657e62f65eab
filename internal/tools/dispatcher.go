// Package tools maps MCP tool calls and resource reads onto the Docker engine client.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"

	"github.com/bnema/mcp-docker/internal/mcp"
	"github.com/bnema/mcp-docker/pkg/docker"
)

// Engine is the engine surface the dispatcher drives. *docker.Client implements it.
type Engine interface {
	ListContainers(ctx context.Context, project string) ([]container.Summary, error)
	CreateContainer(ctx context.Context, opts docker.CreateOptions, project string) (docker.ContainerRef, error)
	RunContainer(ctx context.Context, opts docker.CreateOptions, project string) (docker.ContainerRef, error)
	RecreateContainer(ctx context.Context, id string, override *docker.CreateOptions) (docker.ContainerRef, error)
	StartContainer(ctx context.Context, id string) error
	StopContainer(ctx context.Context, id string) error
	RemoveContainer(ctx context.Context, id string, force bool) error
	ContainerLogs(ctx context.Context, id string, tail int) (string, error)
	ContainerStats(ctx context.Context, id string) (docker.ContainerStats, error)

	ListImages(ctx context.Context) ([]image.Summary, error)
	PullImage(ctx context.Context, ref string) error
	PushImage(ctx context.Context, ref string) error
	BuildImage(ctx context.Context, tarContext, tag, dockerfile string) error
	RemoveImage(ctx context.Context, id string, force bool) error

	ListNetworks(ctx context.Context) ([]network.Inspect, error)
	CreateNetwork(ctx context.Context, name, driver string, internal bool) (docker.NetworkRef, error)
	RemoveNetwork(ctx context.Context, id string) error

	ListVolumes(ctx context.Context) ([]*volume.Volume, error)
	CreateVolume(ctx context.Context, name, driver string, labels map[string]string) (docker.VolumeRef, error)
	RemoveVolume(ctx context.Context, name string, force bool) error
}

var _ Engine = (*docker.Client)(nil)

// CallFunc executes one tool call.
type CallFunc func(ctx context.Context, name string, args map[string]any) (string, error)

// Middleware wraps every tool call, outermost first.
type Middleware func(next CallFunc) CallFunc

type runFunc func(ctx context.Context, engine Engine, args map[string]any) (string, error)

type toolDef struct {
	tool mcp.Tool
	run  runFunc
}

// Dispatcher validates tool arguments, shapes engine options and serializes results.
// It implements mcp.Handler.
type Dispatcher struct {
	engine Engine
	defs   map[string]toolDef
	order  []string
	call   CallFunc
}

// NewDispatcher builds the fixed tool catalog around engine.
func NewDispatcher(engine Engine, middlewares ...Middleware) *Dispatcher {
	d := &Dispatcher{
		engine: engine,
		defs:   make(map[string]toolDef),
	}
	for _, def := range catalog() {
		d.defs[def.tool.Name] = def
		d.order = append(d.order, def.tool.Name)
	}

	call := CallFunc(d.invoke)
	for i := len(middlewares) - 1; i >= 0; i-- {
		call = middlewares[i](call)
	}
	d.call = call
	return d
}

// Tools returns the catalog in declaration order.
func (d *Dispatcher) Tools() []mcp.Tool {
	tools := make([]mcp.Tool, 0, len(d.order))
	for _, name := range d.order {
		tools = append(tools, d.defs[name].tool)
	}
	return tools
}

// CallTool runs a named tool. Errors are always *mcp.Error.
func (d *Dispatcher) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	text, err := d.call(ctx, name, args)
	if err != nil {
		return "", protocolError(err)
	}
	return text, nil
}

func (d *Dispatcher) invoke(ctx context.Context, name string, args map[string]any) (string, error) {
	def, ok := d.defs[name]
	if !ok {
		return "", mcp.MethodNotFound("Unknown tool: %s", name)
	}
	return def.run(ctx, d.engine, args)
}

// handle adapts a typed tool implementation to the generic argument map.
func handle[T any](fn func(ctx context.Context, engine Engine, args T) (string, error)) runFunc {
	return func(ctx context.Context, engine Engine, raw map[string]any) (string, error) {
		var args T
		if err := decodeArgs(raw, &args); err != nil {
			return "", err
		}
		return fn(ctx, engine, args)
	}
}

// protocolError keeps protocol errors intact and turns engine failures into internal errors
// that carry the engine error class.
func protocolError(err error) *mcp.Error {
	var perr *mcp.Error
	if errors.As(err, &perr) {
		return perr
	}

	data := map[string]any{"kind": docker.ErrorKind(err)}
	var rerr *docker.RecreateError
	if errors.As(err, &rerr) {
		data["stage"] = rerr.Stage
		data["originalRemoved"] = rerr.OriginalRemoved
		if rerr.NewID != "" {
			data["newId"] = rerr.NewID
		}
	}
	return &mcp.Error{Code: mcp.CodeInternalError, Message: err.Error(), Data: data}
}

func toJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(data), nil
}
