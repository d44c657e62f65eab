// Package docker wraps the Docker Engine API with a project-scoped naming convention.
package docker

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

const (
	// DefaultPrefix is prepended to project-scoped container names.
	DefaultPrefix = "mcp-"
	// ProjectLabel is attached to containers created for a project.
	ProjectLabel = "project"
)

// EngineAPI is the subset of the Docker SDK client used by Client.
// *client.Client satisfies it.
type EngineAPI interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
	ContainerStats(ctx context.Context, containerID string, stream bool) (container.StatsResponseReader, error)

	ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error)
	ImagePull(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error)
	ImagePush(ctx context.Context, ref string, options image.PushOptions) (io.ReadCloser, error)
	ImageBuild(ctx context.Context, buildContext io.Reader, options types.ImageBuildOptions) (types.ImageBuildResponse, error)
	ImageRemove(ctx context.Context, imageID string, options image.RemoveOptions) ([]image.DeleteResponse, error)

	NetworkList(ctx context.Context, options network.ListOptions) ([]network.Inspect, error)
	NetworkCreate(ctx context.Context, name string, options network.CreateOptions) (network.CreateResponse, error)
	NetworkRemove(ctx context.Context, networkID string) error

	VolumeList(ctx context.Context, options volume.ListOptions) (volume.ListResponse, error)
	VolumeCreate(ctx context.Context, options volume.CreateOptions) (volume.Volume, error)
	VolumeRemove(ctx context.Context, volumeID string, force bool) error

	Ping(ctx context.Context) (types.Ping, error)
	Close() error
}

// Client talks to one engine and applies the naming convention to everything it creates.
// It holds no engine state between calls.
type Client struct {
	api          EngineAPI
	prefix       string
	registryAuth RegistryAuth
}

// Option configures a Client.
type Option func(*Client)

// WithRegistryAuth sets the credentials sent with image pushes.
func WithRegistryAuth(auth RegistryAuth) Option {
	return func(c *Client) {
		c.registryAuth = auth
	}
}

// NewClient wraps an engine connection. An empty prefix falls back to DefaultPrefix.
func NewClient(api EngineAPI, prefix string, opts ...Option) *Client {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	c := &Client{api: api, prefix: prefix}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect opens an SDK client with the given options and wraps it.
func Connect(prefix string, clientOpts []client.Opt, opts ...Option) (*Client, error) {
	cli, err := client.NewClientWithOpts(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	log.Debug("Docker client initialized", "host", cli.DaemonHost(), "prefix", prefix)
	return NewClient(cli, prefix, opts...), nil
}

// Prefix returns the naming prefix used for project containers.
func (c *Client) Prefix() string {
	return c.prefix
}

// Ping checks that the engine answers and returns its API version.
func (c *Client) Ping(ctx context.Context) (string, error) {
	ping, err := c.api.Ping(ctx)
	if err != nil {
		return "", fmt.Errorf("cannot connect to Docker daemon: %w", err)
	}
	return ping.APIVersion, nil
}

// Close releases the engine connection.
func (c *Client) Close() error {
	return c.api.Close()
}
