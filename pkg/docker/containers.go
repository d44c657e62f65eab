package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
)

// DefaultLogTail is the number of log lines returned when the caller does not ask for a count.
const DefaultLogTail = 100

// ListContainers lists every container, running or not.
// With a project, only containers whose name carries the project prefix are kept.
// Labels are not consulted.
func (c *Client) ListContainers(ctx context.Context, project string) ([]container.Summary, error) {
	containers, err := c.api.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("error listing containers: %w", err)
	}

	if project == "" {
		return containers, nil
	}

	filtered := make([]container.Summary, 0, len(containers))
	for _, ctr := range containers {
		if c.belongsTo(ctr.Names, project) {
			filtered = append(filtered, ctr)
		}
	}
	log.Debug("Filtered containers by project", "project", project, "total", len(containers), "kept", len(filtered))
	return filtered, nil
}

// CreateContainer creates a container without starting it.
// With a project the name is prefixed and the project label is added next to any caller labels.
func (c *Client) CreateContainer(ctx context.Context, opts CreateOptions, project string) (ContainerRef, error) {
	opts.Name = c.FormatName(opts.Name, project)
	if project != "" {
		labels := make(map[string]string, len(opts.Labels)+1)
		maps.Copy(labels, opts.Labels)
		labels[ProjectLabel] = project
		opts.Labels = labels
	}

	resp, err := c.api.ContainerCreate(ctx, opts.config(), opts.HostConfig, nil, nil, opts.Name)
	if err != nil {
		return ContainerRef{}, fmt.Errorf("failed to create container %q: %w", opts.Name, err)
	}
	for _, warning := range resp.Warnings {
		log.Warn("Engine warning on create", "container", opts.Name, "warning", warning)
	}

	log.Debug("Container created", "id", resp.ID, "name", opts.Name, "image", opts.Image)
	return ContainerRef{ID: resp.ID, Name: opts.Name}, nil
}

// RunContainer creates and then starts a container.
// When the start fails the container stays created and its ref is returned along with the error.
func (c *Client) RunContainer(ctx context.Context, opts CreateOptions, project string) (ContainerRef, error) {
	ref, err := c.CreateContainer(ctx, opts, project)
	if err != nil {
		return ContainerRef{}, err
	}

	if err := c.StartContainer(ctx, ref.ID); err != nil {
		log.Warn("Container created but failed to start", "id", ref.ID, "name", ref.Name, "error", err)
		return ref, err
	}
	return ref, nil
}

// StartContainer starts a container
func (c *Client) StartContainer(ctx context.Context, id string) error {
	if err := c.api.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start container %q: %w", id, err)
	}
	log.Debug("Container started", "id", id)
	return nil
}

// StopContainer stops a container with the engine's default grace period
func (c *Client) StopContainer(ctx context.Context, id string) error {
	if err := c.api.ContainerStop(ctx, id, container.StopOptions{}); err != nil {
		return fmt.Errorf("failed to stop container %q: %w", id, err)
	}
	log.Debug("Container stopped", "id", id)
	return nil
}

// RemoveContainer removes a container, killing it first when force is set
func (c *Client) RemoveContainer(ctx context.Context, id string, force bool) error {
	if err := c.api.ContainerRemove(ctx, id, container.RemoveOptions{Force: force}); err != nil {
		return fmt.Errorf("failed to remove container %q: %w", id, err)
	}
	log.Debug("Container removed", "id", id, "force", force)
	return nil
}

// ContainerLogs returns the last tail lines of stdout and stderr. A negative tail returns everything.
func (c *Client) ContainerLogs(ctx context.Context, id string, tail int) (string, error) {
	info, err := c.api.ContainerInspect(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to inspect container %q: %w", id, err)
	}

	tailOpt := "all"
	if tail >= 0 {
		tailOpt = strconv.Itoa(tail)
	}

	rc, err := c.api.ContainerLogs(ctx, id, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       tailOpt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to get logs for container %q: %w", id, err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	// Without a TTY the engine multiplexes stdout and stderr with frame headers
	if info.Config != nil && info.Config.Tty {
		_, err = io.Copy(&buf, rc)
	} else {
		_, err = stdcopy.StdCopy(&buf, &buf, rc)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read logs for container %q: %w", id, err)
	}

	return buf.String(), nil
}
