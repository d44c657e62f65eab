package tools

import (
	"fmt"
	"strconv"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"

	"github.com/bnema/mcp-docker/internal/mcp"
	"github.com/bnema/mcp-docker/pkg/docker"
)

// onFailureRetries is the retry ceiling attached to the on-failure restart policy.
const onFailureRetries = 5

// PortArg maps a container port to a host port. Bindings are always TCP.
type PortArg struct {
	Container int `mapstructure:"container" validate:"required,min=1,max=65535"`
	Host      int `mapstructure:"host" validate:"min=0,max=65535"`
}

// VolumeArg binds a host path or named volume into the container.
type VolumeArg struct {
	Source string `mapstructure:"source" validate:"required"`
	Target string `mapstructure:"target" validate:"required"`
}

// BuildPortBindings turns port arguments into the exposed set and host bindings keyed "<port>/tcp".
// Both are nil when no ports are given.
func BuildPortBindings(ports []PortArg) (nat.PortSet, nat.PortMap, error) {
	if len(ports) == 0 {
		return nil, nil, nil
	}

	exposed := make(nat.PortSet, len(ports))
	bindings := make(nat.PortMap, len(ports))
	for _, p := range ports {
		port, err := nat.NewPort("tcp", strconv.Itoa(p.Container))
		if err != nil {
			return nil, nil, mcp.InvalidParams("invalid container port %d: %v", p.Container, err)
		}
		exposed[port] = struct{}{}
		bindings[port] = append(bindings[port], nat.PortBinding{HostPort: strconv.Itoa(p.Host)})
	}
	return exposed, bindings, nil
}

// BuildBinds renders volume arguments as "<source>:<target>" bind strings.
func BuildBinds(volumes []VolumeArg) []string {
	if len(volumes) == 0 {
		return nil
	}
	binds := make([]string, 0, len(volumes))
	for _, v := range volumes {
		binds = append(binds, fmt.Sprintf("%s:%s", v.Source, v.Target))
	}
	return binds
}

// BuildRestartPolicy maps a policy name to the engine structure.
// Only on-failure carries a retry count. An empty name means no policy.
func BuildRestartPolicy(name string) (container.RestartPolicy, error) {
	if name == "" {
		return container.RestartPolicy{}, nil
	}

	policy := container.RestartPolicy{Name: container.RestartPolicyMode(name)}
	if policy.Name == container.RestartPolicyOnFailure {
		policy.MaximumRetryCount = onFailureRetries
	}
	if err := container.ValidateRestartPolicy(policy); err != nil {
		return container.RestartPolicy{}, mcp.InvalidParams("%v", err)
	}
	return policy, nil
}

// containerArgs are shared by create_container and run_container.
type containerArgs struct {
	Name        string      `mapstructure:"name" validate:"required"`
	Image       string      `mapstructure:"image" validate:"required,imageref"`
	ProjectName string      `mapstructure:"projectName"`
	Env         []string    `mapstructure:"env"`
	Ports       []PortArg   `mapstructure:"ports" validate:"dive"`
	Volumes     []VolumeArg `mapstructure:"volumes" validate:"dive"`
	Cmd         []string    `mapstructure:"cmd"`
	NetworkMode string      `mapstructure:"networkMode"`
	Restart     string      `mapstructure:"restart"`
}

// createOptions assembles the engine option structure from tool arguments.
func (a containerArgs) createOptions() (docker.CreateOptions, error) {
	exposed, bindings, err := BuildPortBindings(a.Ports)
	if err != nil {
		return docker.CreateOptions{}, err
	}
	restart, err := BuildRestartPolicy(a.Restart)
	if err != nil {
		return docker.CreateOptions{}, err
	}

	return docker.CreateOptions{
		Name:         a.Name,
		Image:        a.Image,
		Env:          a.Env,
		Cmd:          a.Cmd,
		ExposedPorts: exposed,
		HostConfig: &container.HostConfig{
			PortBindings:  bindings,
			Binds:         BuildBinds(a.Volumes),
			NetworkMode:   container.NetworkMode(a.NetworkMode),
			RestartPolicy: restart,
		},
	}, nil
}
