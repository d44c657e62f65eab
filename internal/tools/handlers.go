package tools

import (
	"context"
	"fmt"

	"github.com/bnema/mcp-docker/internal/mcp"
	"github.com/bnema/mcp-docker/pkg/docker"
	"github.com/bnema/mcp-docker/pkg/verify"
)

type listContainersArgs struct {
	ProjectName string `mapstructure:"projectName"`
}

type recreateArgs struct {
	ContainerID string   `mapstructure:"containerId" validate:"required"`
	Image       string   `mapstructure:"image" validate:"omitempty,imageref"`
	Env         []string `mapstructure:"env"`
	Cmd         []string `mapstructure:"cmd"`
}

type containerIDArgs struct {
	ContainerID string `mapstructure:"containerId" validate:"required"`
}

type logsArgs struct {
	ContainerID string `mapstructure:"containerId" validate:"required"`
	Tail        *int   `mapstructure:"tail" validate:"omitempty,min=0"`
}

type removeContainerArgs struct {
	ContainerID string `mapstructure:"containerId" validate:"required"`
	Force       bool   `mapstructure:"force"`
}

type imageNameArgs struct {
	ImageName string `mapstructure:"imageName" validate:"required,imageref"`
}

type buildImageArgs struct {
	TarContext string `mapstructure:"tarContext" validate:"required"`
	Tag        string `mapstructure:"tag" validate:"required,imageref"`
	Dockerfile string `mapstructure:"dockerfile"`
}

type removeImageArgs struct {
	ImageID string `mapstructure:"imageId" validate:"required"`
	Force   bool   `mapstructure:"force"`
}

type createNetworkArgs struct {
	Name     string `mapstructure:"name" validate:"required"`
	Driver   string `mapstructure:"driver"`
	Internal bool   `mapstructure:"internal"`
}

type networkIDArgs struct {
	NetworkID string `mapstructure:"networkId" validate:"required"`
}

type createVolumeArgs struct {
	Name   string            `mapstructure:"name" validate:"required"`
	Driver string            `mapstructure:"driver"`
	Labels map[string]string `mapstructure:"labels"`
}

type removeVolumeArgs struct {
	Name  string `mapstructure:"name" validate:"required"`
	Force bool   `mapstructure:"force"`
}

type noArgs struct{}

func listContainers(ctx context.Context, e Engine, a listContainersArgs) (string, error) {
	containers, err := e.ListContainers(ctx, a.ProjectName)
	if err != nil {
		return "", err
	}
	return toJSON(containers)
}

func createContainer(ctx context.Context, e Engine, a containerArgs) (string, error) {
	opts, err := a.createOptions()
	if err != nil {
		return "", err
	}
	ref, err := e.CreateContainer(ctx, opts, a.ProjectName)
	if err != nil {
		return "", err
	}
	return toJSON(ref)
}

func runContainer(ctx context.Context, e Engine, a containerArgs) (string, error) {
	opts, err := a.createOptions()
	if err != nil {
		return "", err
	}
	ref, err := e.RunContainer(ctx, opts, a.ProjectName)
	if err != nil {
		if ref.ID != "" {
			return "", fmt.Errorf("container %s (%s) was created but not started: %w", ref.Name, ref.ID, err)
		}
		return "", err
	}
	return toJSON(ref)
}

func recreateContainer(ctx context.Context, e Engine, a recreateArgs) (string, error) {
	var override *docker.CreateOptions
	if a.Image != "" || a.Env != nil || a.Cmd != nil {
		override = &docker.CreateOptions{Image: a.Image, Env: a.Env, Cmd: a.Cmd}
	}
	ref, err := e.RecreateContainer(ctx, a.ContainerID, override)
	if err != nil {
		return "", err
	}
	return toJSON(ref)
}

func startContainer(ctx context.Context, e Engine, a containerIDArgs) (string, error) {
	if err := e.StartContainer(ctx, a.ContainerID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Container %s started successfully", a.ContainerID), nil
}

func stopContainer(ctx context.Context, e Engine, a containerIDArgs) (string, error) {
	if err := e.StopContainer(ctx, a.ContainerID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Container %s stopped successfully", a.ContainerID), nil
}

func fetchContainerLogs(ctx context.Context, e Engine, a logsArgs) (string, error) {
	tail := docker.DefaultLogTail
	if a.Tail != nil {
		tail = *a.Tail
	}
	return e.ContainerLogs(ctx, a.ContainerID, tail)
}

func removeContainer(ctx context.Context, e Engine, a removeContainerArgs) (string, error) {
	if err := e.RemoveContainer(ctx, a.ContainerID, a.Force); err != nil {
		return "", err
	}
	return fmt.Sprintf("Container %s removed successfully", a.ContainerID), nil
}

func listImages(ctx context.Context, e Engine, _ noArgs) (string, error) {
	images, err := e.ListImages(ctx)
	if err != nil {
		return "", err
	}
	return toJSON(images)
}

func pullImage(ctx context.Context, e Engine, a imageNameArgs) (string, error) {
	if err := e.PullImage(ctx, a.ImageName); err != nil {
		return "", err
	}
	return fmt.Sprintf("Image %s pulled successfully", a.ImageName), nil
}

func pushImage(ctx context.Context, e Engine, a imageNameArgs) (string, error) {
	if err := e.PushImage(ctx, a.ImageName); err != nil {
		return "", err
	}
	return fmt.Sprintf("Image %s pushed successfully", a.ImageName), nil
}

func buildImage(ctx context.Context, e Engine, a buildImageArgs) (string, error) {
	if err := verify.BuildContext(a.TarContext, a.Dockerfile); err != nil {
		return "", mcp.InvalidParams("invalid build context: %v", err)
	}
	if err := e.BuildImage(ctx, a.TarContext, a.Tag, a.Dockerfile); err != nil {
		return "", err
	}
	return fmt.Sprintf("Image %s built successfully", a.Tag), nil
}

func removeImage(ctx context.Context, e Engine, a removeImageArgs) (string, error) {
	if err := e.RemoveImage(ctx, a.ImageID, a.Force); err != nil {
		return "", err
	}
	return fmt.Sprintf("Image %s removed successfully", a.ImageID), nil
}

func listNetworks(ctx context.Context, e Engine, _ noArgs) (string, error) {
	networks, err := e.ListNetworks(ctx)
	if err != nil {
		return "", err
	}
	return toJSON(networks)
}

func createNetwork(ctx context.Context, e Engine, a createNetworkArgs) (string, error) {
	ref, err := e.CreateNetwork(ctx, a.Name, a.Driver, a.Internal)
	if err != nil {
		return "", err
	}
	return toJSON(ref)
}

func removeNetwork(ctx context.Context, e Engine, a networkIDArgs) (string, error) {
	if err := e.RemoveNetwork(ctx, a.NetworkID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Network %s removed successfully", a.NetworkID), nil
}

func listVolumes(ctx context.Context, e Engine, _ noArgs) (string, error) {
	volumes, err := e.ListVolumes(ctx)
	if err != nil {
		return "", err
	}
	return toJSON(volumes)
}

func createVolume(ctx context.Context, e Engine, a createVolumeArgs) (string, error) {
	ref, err := e.CreateVolume(ctx, a.Name, a.Driver, a.Labels)
	if err != nil {
		return "", err
	}
	return toJSON(ref)
}

func removeVolume(ctx context.Context, e Engine, a removeVolumeArgs) (string, error) {
	if err := e.RemoveVolume(ctx, a.Name, a.Force); err != nil {
		return "", err
	}
	return fmt.Sprintf("Volume %s removed successfully", a.Name), nil
}
