package docker

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/api/types/container"
)

// Recreate stages, in execution order.
const (
	StageInspect = "inspect"
	StageStop    = "stop"
	StageRemove  = "remove"
	StageCreate  = "create"
	StageStart   = "start"
)

// RecreateError reports which step of a recreate failed.
// Once OriginalRemoved is true the old container is gone and nothing restores it.
type RecreateError struct {
	ContainerID     string
	Stage           string
	OriginalRemoved bool
	// NewID is set when the replacement was created but failed to start.
	NewID string
	Err   error
}

func (e *RecreateError) Error() string {
	msg := fmt.Sprintf("recreate of container %q failed at %s", e.ContainerID, e.Stage)
	if e.OriginalRemoved {
		msg += " (original container already removed)"
	}
	return msg + ": " + e.Err.Error()
}

func (e *RecreateError) Unwrap() error {
	return e.Err
}

// RecreateContainer replaces a container: inspect, stop if running, remove, create, start.
// Fields left empty in override are taken from the inspected container; a nil override
// reproduces the original configuration. Failures are not rolled back.
func (c *Client) RecreateContainer(ctx context.Context, id string, override *CreateOptions) (ContainerRef, error) {
	info, err := c.api.ContainerInspect(ctx, id)
	if err != nil {
		return ContainerRef{}, &RecreateError{ContainerID: id, Stage: StageInspect, Err: err}
	}

	if isRunning(info) {
		if err := c.api.ContainerStop(ctx, id, container.StopOptions{}); err != nil {
			return ContainerRef{}, &RecreateError{ContainerID: id, Stage: StageStop, Err: err}
		}
		log.Debug("Stopped container for recreate", "id", id)
	}

	if err := c.api.ContainerRemove(ctx, id, container.RemoveOptions{}); err != nil {
		return ContainerRef{}, &RecreateError{ContainerID: id, Stage: StageRemove, Err: err}
	}
	log.Debug("Removed container for recreate", "id", id)

	opts := mergeRecreateOptions(optionsFromInspect(info), override)

	resp, err := c.api.ContainerCreate(ctx, opts.config(), opts.HostConfig, nil, nil, opts.Name)
	if err != nil {
		log.Warn("Recreate left no container behind", "id", id, "name", opts.Name, "error", err)
		return ContainerRef{}, &RecreateError{ContainerID: id, Stage: StageCreate, OriginalRemoved: true, Err: err}
	}

	ref := ContainerRef{ID: resp.ID, Name: opts.Name}
	if err := c.api.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		log.Warn("Recreated container failed to start", "id", resp.ID, "name", opts.Name, "error", err)
		return ref, &RecreateError{ContainerID: id, Stage: StageStart, OriginalRemoved: true, NewID: resp.ID, Err: err}
	}

	log.Info("Container recreated", "old", id, "new", resp.ID, "name", opts.Name)
	return ref, nil
}

func isRunning(info container.InspectResponse) bool {
	return info.ContainerJSONBase != nil && info.State != nil && info.State.Running
}

func optionsFromInspect(info container.InspectResponse) CreateOptions {
	var opts CreateOptions
	if info.ContainerJSONBase != nil {
		opts.Name = ParseContainerName(info.Name)
		opts.HostConfig = info.HostConfig
	}
	if info.Config != nil {
		opts.Image = info.Config.Image
		opts.Env = info.Config.Env
		opts.Cmd = info.Config.Cmd
		opts.ExposedPorts = info.Config.ExposedPorts
		opts.Labels = info.Config.Labels
	}
	return opts
}

func mergeRecreateOptions(base CreateOptions, override *CreateOptions) CreateOptions {
	if override == nil {
		return base
	}

	merged := *override
	if merged.Name == "" {
		merged.Name = base.Name
	}
	if merged.Image == "" {
		merged.Image = base.Image
	}
	if merged.Env == nil {
		merged.Env = base.Env
	}
	if merged.Cmd == nil {
		merged.Cmd = base.Cmd
	}
	if merged.ExposedPorts == nil {
		merged.ExposedPorts = base.ExposedPorts
	}
	if merged.HostConfig == nil {
		merged.HostConfig = base.HostConfig
	}
	if merged.Labels == nil {
		merged.Labels = base.Labels
	}
	return merged
}
