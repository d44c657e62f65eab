package tools

import (
	"context"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
	"github.com/stretchr/testify/mock"

	"github.com/bnema/mcp-docker/pkg/docker"
)

// MockEngine is a mock implementation of Engine
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) ListContainers(ctx context.Context, project string) ([]container.Summary, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]container.Summary), args.Error(1)
}

func (m *MockEngine) CreateContainer(ctx context.Context, opts docker.CreateOptions, project string) (docker.ContainerRef, error) {
	args := m.Called(ctx, opts, project)
	return args.Get(0).(docker.ContainerRef), args.Error(1)
}

func (m *MockEngine) RunContainer(ctx context.Context, opts docker.CreateOptions, project string) (docker.ContainerRef, error) {
	args := m.Called(ctx, opts, project)
	return args.Get(0).(docker.ContainerRef), args.Error(1)
}

func (m *MockEngine) RecreateContainer(ctx context.Context, id string, override *docker.CreateOptions) (docker.ContainerRef, error) {
	args := m.Called(ctx, id, override)
	return args.Get(0).(docker.ContainerRef), args.Error(1)
}

func (m *MockEngine) StartContainer(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEngine) StopContainer(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEngine) RemoveContainer(ctx context.Context, id string, force bool) error {
	return m.Called(ctx, id, force).Error(0)
}

func (m *MockEngine) ContainerLogs(ctx context.Context, id string, tail int) (string, error) {
	args := m.Called(ctx, id, tail)
	return args.String(0), args.Error(1)
}

func (m *MockEngine) ContainerStats(ctx context.Context, id string) (docker.ContainerStats, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(docker.ContainerStats), args.Error(1)
}

func (m *MockEngine) ListImages(ctx context.Context) ([]image.Summary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]image.Summary), args.Error(1)
}

func (m *MockEngine) PullImage(ctx context.Context, ref string) error {
	return m.Called(ctx, ref).Error(0)
}

func (m *MockEngine) PushImage(ctx context.Context, ref string) error {
	return m.Called(ctx, ref).Error(0)
}

func (m *MockEngine) BuildImage(ctx context.Context, tarContext, tag, dockerfile string) error {
	return m.Called(ctx, tarContext, tag, dockerfile).Error(0)
}

func (m *MockEngine) RemoveImage(ctx context.Context, id string, force bool) error {
	return m.Called(ctx, id, force).Error(0)
}

func (m *MockEngine) ListNetworks(ctx context.Context) ([]network.Inspect, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]network.Inspect), args.Error(1)
}

func (m *MockEngine) CreateNetwork(ctx context.Context, name, driver string, internal bool) (docker.NetworkRef, error) {
	args := m.Called(ctx, name, driver, internal)
	return args.Get(0).(docker.NetworkRef), args.Error(1)
}

func (m *MockEngine) RemoveNetwork(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEngine) ListVolumes(ctx context.Context) ([]*volume.Volume, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*volume.Volume), args.Error(1)
}

func (m *MockEngine) CreateVolume(ctx context.Context, name, driver string, labels map[string]string) (docker.VolumeRef, error) {
	args := m.Called(ctx, name, driver, labels)
	return args.Get(0).(docker.VolumeRef), args.Error(1)
}

func (m *MockEngine) RemoveVolume(ctx context.Context, name string, force bool) error {
	return m.Called(ctx, name, force).Error(0)
}

var _ Engine = (*MockEngine)(nil)
