package docker

import (
	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
)

// CreateOptions describes a container to create. It is built per call and never stored.
type CreateOptions struct {
	Name         string
	Image        string
	Env          []string
	Cmd          []string
	ExposedPorts nat.PortSet
	HostConfig   *container.HostConfig
	Labels       map[string]string
}

func (o CreateOptions) config() *container.Config {
	return &container.Config{
		Image:        o.Image,
		Env:          o.Env,
		Cmd:          o.Cmd,
		ExposedPorts: o.ExposedPorts,
		Labels:       o.Labels,
	}
}

// ContainerRef identifies a container created by this client.
type ContainerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NetworkRef identifies a created network.
type NetworkRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// VolumeRef identifies a created volume.
type VolumeRef struct {
	Name string `json:"name"`
}

// ContainerStats is a one-shot utilisation snapshot derived from an engine stats sample.
type ContainerStats struct {
	CPUPercentage    float64 `json:"cpu_percentage"`
	MemoryUsage      string  `json:"memory_usage"`
	MemoryLimit      string  `json:"memory_limit"`
	MemoryPercentage float64 `json:"memory_percentage"`
	NetworkRx        string  `json:"network_rx"`
	NetworkTx        string  `json:"network_tx"`
	BlockRead        string  `json:"block_read"`
	BlockWrite       string  `json:"block_write"`
}

// RegistryAuth holds the credentials used for pushes.
type RegistryAuth struct {
	Username      string
	Password      string
	ServerAddress string
}
