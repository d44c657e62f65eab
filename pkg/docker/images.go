package docker

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/registry"
)

// ListImages lists the images known to the engine
func (c *Client) ListImages(ctx context.Context) ([]image.Summary, error) {
	images, err := c.api.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("error listing images: %w", err)
	}
	return images, nil
}

// PullImage pulls an image and waits until the engine reports completion
func (c *Client) PullImage(ctx context.Context, ref string) error {
	rc, err := c.api.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %q: %w", ref, err)
	}
	if err := awaitCompletion(rc); err != nil {
		return fmt.Errorf("failed to pull image %q: %w", ref, err)
	}

	log.Debug("Image pulled", "image", ref)
	return nil
}

// PushImage pushes an image with the configured registry credentials
func (c *Client) PushImage(ctx context.Context, ref string) error {
	auth, err := registry.EncodeAuthConfig(registry.AuthConfig{
		Username:      c.registryAuth.Username,
		Password:      c.registryAuth.Password,
		ServerAddress: c.registryAuth.ServerAddress,
	})
	if err != nil {
		return fmt.Errorf("failed to encode registry credentials: %w", err)
	}

	rc, err := c.api.ImagePush(ctx, ref, image.PushOptions{RegistryAuth: auth})
	if err != nil {
		return fmt.Errorf("failed to push image %q: %w", ref, err)
	}
	if err := awaitCompletion(rc); err != nil {
		return fmt.Errorf("failed to push image %q: %w", ref, err)
	}

	log.Debug("Image pushed", "image", ref)
	return nil
}

// BuildImage builds an image from a tar archive of the build context.
// An empty dockerfile lets the engine use its default "Dockerfile".
func (c *Client) BuildImage(ctx context.Context, tarContext, tag, dockerfile string) error {
	buildCtx, err := os.Open(tarContext)
	if err != nil {
		return fmt.Errorf("failed to open build context: %w", err)
	}
	defer buildCtx.Close()

	resp, err := c.api.ImageBuild(ctx, buildCtx, types.ImageBuildOptions{
		Tags:       []string{tag},
		Dockerfile: dockerfile,
		Remove:     true,
	})
	if err != nil {
		return fmt.Errorf("failed to build image %q: %w", tag, err)
	}
	if err := awaitCompletion(resp.Body); err != nil {
		return fmt.Errorf("failed to build image %q: %w", tag, err)
	}

	log.Debug("Image built", "tag", tag, "context", tarContext)
	return nil
}

// RemoveImage deletes an image from the Docker engine
func (c *Client) RemoveImage(ctx context.Context, id string, force bool) error {
	deleted, err := c.api.ImageRemove(ctx, id, image.RemoveOptions{Force: force, PruneChildren: true})
	if err != nil {
		return fmt.Errorf("failed to remove image %q: %w", id, err)
	}

	log.Debug("Image removed", "image", id, "layers", len(deleted))
	return nil
}
