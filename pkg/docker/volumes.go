package docker

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/api/types/volume"
)

// DefaultVolumeDriver is used when CreateVolume gets no driver.
const DefaultVolumeDriver = "local"

// ListVolumes lists the engine's volumes
func (c *Client) ListVolumes(ctx context.Context) ([]*volume.Volume, error) {
	resp, err := c.api.VolumeList(ctx, volume.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("error listing volumes: %w", err)
	}
	for _, warning := range resp.Warnings {
		log.Warn("Engine warning on volume list", "warning", warning)
	}
	return resp.Volumes, nil
}

// CreateVolume creates a named volume
func (c *Client) CreateVolume(ctx context.Context, name, driver string, labels map[string]string) (VolumeRef, error) {
	if driver == "" {
		driver = DefaultVolumeDriver
	}

	vol, err := c.api.VolumeCreate(ctx, volume.CreateOptions{
		Name:   name,
		Driver: driver,
		Labels: labels,
	})
	if err != nil {
		return VolumeRef{}, fmt.Errorf("failed to create volume %q: %w", name, err)
	}

	log.Debug("Volume created", "name", vol.Name, "driver", driver)
	return VolumeRef{Name: vol.Name}, nil
}

// RemoveVolume removes a volume, even when in use if force is set
func (c *Client) RemoveVolume(ctx context.Context, name string, force bool) error {
	if err := c.api.VolumeRemove(ctx, name, force); err != nil {
		return fmt.Errorf("failed to remove volume %q: %w", name, err)
	}
	log.Debug("Volume removed", "name", name, "force", force)
	return nil
}
