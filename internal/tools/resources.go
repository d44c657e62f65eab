package tools

import (
	"context"
	"strings"

	"github.com/bnema/mcp-docker/internal/mcp"
	"github.com/bnema/mcp-docker/pkg/docker"
)

const (
	resourceScheme     = "docker://"
	containerResources = resourceScheme + "container/"
	mimeJSON           = "application/json"
	mimeText           = "text/plain"
)

// Resources lists the fixed collection locators. Per-container logs and stats are
// addressable as docker://container/<id>/logs and docker://container/<id>/stats.
func (d *Dispatcher) Resources() []mcp.Resource {
	return []mcp.Resource{
		{URI: "docker://containers", Name: "Docker Containers", Description: "List of all Docker containers", MimeType: mimeJSON},
		{URI: "docker://images", Name: "Docker Images", Description: "List of all Docker images", MimeType: mimeJSON},
		{URI: "docker://volumes", Name: "Docker Volumes", Description: "List of all Docker volumes", MimeType: mimeJSON},
		{URI: "docker://networks", Name: "Docker Networks", Description: "List of all Docker networks", MimeType: mimeJSON},
	}
}

// ReadResource resolves a locator. Unknown locators fail with an invalid request error
// before the engine is contacted.
func (d *Dispatcher) ReadResource(ctx context.Context, uri string) (mcp.ResourceContent, error) {
	text, mime, err := d.readResource(ctx, uri)
	if err != nil {
		return mcp.ResourceContent{}, protocolError(err)
	}
	return mcp.ResourceContent{URI: uri, MimeType: mime, Text: text}, nil
}

func (d *Dispatcher) readResource(ctx context.Context, uri string) (string, string, error) {
	switch uri {
	case "docker://containers":
		containers, err := d.engine.ListContainers(ctx, "")
		return jsonResource(containers, err)
	case "docker://images":
		images, err := d.engine.ListImages(ctx)
		return jsonResource(images, err)
	case "docker://volumes":
		volumes, err := d.engine.ListVolumes(ctx)
		return jsonResource(volumes, err)
	case "docker://networks":
		networks, err := d.engine.ListNetworks(ctx)
		return jsonResource(networks, err)
	}

	rest, ok := strings.CutPrefix(uri, containerResources)
	if !ok {
		return "", "", mcp.InvalidRequest("Unknown resource: %s", uri)
	}

	id, kind, found := strings.Cut(rest, "/")
	if !found || id == "" {
		return "", "", mcp.InvalidRequest("Unknown container resource: %s", uri)
	}

	switch kind {
	case "logs":
		logs, err := d.engine.ContainerLogs(ctx, id, docker.DefaultLogTail)
		if err != nil {
			return "", "", err
		}
		return logs, mimeText, nil
	case "stats":
		stats, err := d.engine.ContainerStats(ctx, id)
		return jsonResource(stats, err)
	default:
		return "", "", mcp.InvalidRequest("Unknown container resource: %s", uri)
	}
}

func jsonResource(v any, err error) (string, string, error) {
	if err != nil {
		return "", "", err
	}
	text, err := toJSON(v)
	if err != nil {
		return "", "", err
	}
	return text, mimeJSON, nil
}
