package docker

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/api/types/network"
)

// DefaultNetworkDriver is used when CreateNetwork gets no driver.
const DefaultNetworkDriver = "bridge"

// ListNetworks lists the engine's networks
func (c *Client) ListNetworks(ctx context.Context) ([]network.Inspect, error) {
	networks, err := c.api.NetworkList(ctx, network.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("error listing networks: %w", err)
	}
	return networks, nil
}

// CreateNetwork creates a network
func (c *Client) CreateNetwork(ctx context.Context, name, driver string, internal bool) (NetworkRef, error) {
	if driver == "" {
		driver = DefaultNetworkDriver
	}

	resp, err := c.api.NetworkCreate(ctx, name, network.CreateOptions{
		Driver:   driver,
		Internal: internal,
	})
	if err != nil {
		return NetworkRef{}, fmt.Errorf("failed to create network %q: %w", name, err)
	}
	if resp.Warning != "" {
		log.Warn("Engine warning on network create", "network", name, "warning", resp.Warning)
	}

	log.Debug("Network created", "id", resp.ID, "name", name, "driver", driver, "internal", internal)
	return NetworkRef{ID: resp.ID, Name: name}, nil
}

// RemoveNetwork removes a network
func (c *Client) RemoveNetwork(ctx context.Context, id string) error {
	if err := c.api.NetworkRemove(ctx, id); err != nil {
		return fmt.Errorf("failed to remove network %q: %w", id, err)
	}
	log.Debug("Network removed", "id", id)
	return nil
}
