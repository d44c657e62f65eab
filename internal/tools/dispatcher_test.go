package tools

import (
	"archive/tar"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/errdefs"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/mcp-docker/internal/mcp"
	"github.com/bnema/mcp-docker/pkg/docker"
)

func requireProtocolError(t *testing.T, err error, code int) *mcp.Error {
	t.Helper()
	var perr *mcp.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, code, perr.Code)
	return perr
}

func TestDispatcherCatalog(t *testing.T) {
	d := NewDispatcher(new(MockEngine))

	var names []string
	for _, tool := range d.Tools() {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, tool.Name)
		assert.Equal(t, "object", tool.InputSchema["type"], tool.Name)
	}

	assert.Equal(t, []string{
		"list_containers", "create_container", "run_container", "recreate_container",
		"start_container", "fetch_container_logs", "stop_container", "remove_container",
		"list_images", "pull_image", "push_image", "build_image", "remove_image",
		"list_networks", "create_network", "remove_network",
		"list_volumes", "create_volume", "remove_volume",
	}, names)
}

func TestDispatcherUnknownTool(t *testing.T) {
	engine := new(MockEngine)
	d := NewDispatcher(engine)

	_, err := d.CallTool(context.Background(), "drop_database", map[string]any{})
	perr := requireProtocolError(t, err, mcp.CodeMethodNotFound)
	assert.Equal(t, "Unknown tool: drop_database", perr.Message)
	engine.AssertExpectations(t)
	engine.AssertNotCalled(t, "ListContainers", mock.Anything, mock.Anything)
}

func TestDispatcherInvalidArguments(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		args     map[string]any
		contains string
	}{
		{"missing container id", "start_container", map[string]any{}, "containerId is required"},
		{"nil arguments", "stop_container", nil, "containerId is required"},
		{"missing image", "create_container", map[string]any{"name": "web"}, "image is required"},
		{"wrong type", "pull_image", map[string]any{"imageName": 42}, "invalid arguments"},
		{"negative tail", "fetch_container_logs", map[string]any{"containerId": "web", "tail": -1}, "tail must be at least 0"},
		{
			"port out of range", "run_container",
			map[string]any{"name": "web", "image": "nginx", "ports": []any{map[string]any{"container": 70000, "host": 80}}},
			"ports[0].container must be at most 65535",
		},
		{
			"volume without target", "run_container",
			map[string]any{"name": "web", "image": "nginx", "volumes": []any{map[string]any{"source": "/srv"}}},
			"volumes[0].target is required",
		},
		{"bad image reference", "pull_image", map[string]any{"imageName": "Nginx:latest"}, `imageName "Nginx:latest" is not a valid image reference`},
		{"bad build tag", "build_image", map[string]any{"tarContext": "/tmp/ctx.tar", "tag": "app:-dev"}, "tag"},
		{"build context missing", "build_image", map[string]any{"tarContext": "/nonexistent/ctx.tar", "tag": "app:dev"}, "invalid build context"},
		{
			"bad recreate image", "recreate_container",
			map[string]any{"containerId": "web", "image": "UPPER"},
			"is not a valid image reference",
		},
		{
			"unknown restart policy", "create_container",
			map[string]any{"name": "web", "image": "nginx", "restart": "sometimes"},
			"sometimes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := new(MockEngine)
			d := NewDispatcher(engine)

			_, err := d.CallTool(context.Background(), tt.tool, tt.args)
			perr := requireProtocolError(t, err, mcp.CodeInvalidParams)
			assert.Contains(t, perr.Message, tt.contains)
			assert.Empty(t, engine.Calls)
		})
	}
}

func TestDispatcherCreateContainerShaping(t *testing.T) {
	engine := new(MockEngine)
	d := NewDispatcher(engine)

	// Numbers arrive as float64 from decoded JSON
	args := map[string]any{
		"name":        "web",
		"image":       "nginx:latest",
		"projectName": "shop",
		"env":         []any{"A=1"},
		"ports":       []any{map[string]any{"container": float64(80), "host": float64(8080)}},
		"volumes":     []any{map[string]any{"source": "/srv/www", "target": "/usr/share/nginx/html"}},
		"cmd":         []any{"nginx", "-g", "daemon off;"},
		"networkMode": "bridge",
		"restart":     "on-failure",
	}

	expected := docker.CreateOptions{
		Name:         "web",
		Image:        "nginx:latest",
		Env:          []string{"A=1"},
		Cmd:          []string{"nginx", "-g", "daemon off;"},
		ExposedPorts: nat.PortSet{"80/tcp": {}},
		HostConfig: &container.HostConfig{
			PortBindings:  nat.PortMap{"80/tcp": {{HostPort: "8080"}}},
			Binds:         []string{"/srv/www:/usr/share/nginx/html"},
			NetworkMode:   "bridge",
			RestartPolicy: container.RestartPolicy{Name: "on-failure", MaximumRetryCount: 5},
		},
	}
	engine.On("CreateContainer", mock.Anything, expected, "shop").
		Return(docker.ContainerRef{ID: "abc123", Name: "mcp-shop-web"}, nil)

	text, err := d.CallTool(context.Background(), "create_container", args)
	require.NoError(t, err)

	var ref map[string]string
	require.NoError(t, json.Unmarshal([]byte(text), &ref))
	assert.Equal(t, map[string]string{"id": "abc123", "name": "mcp-shop-web"}, ref)
	engine.AssertExpectations(t)
}

func TestDispatcherRunContainer(t *testing.T) {
	minimal := map[string]any{"name": "cache", "image": "redis", "restart": "always"}
	matchAlways := mock.MatchedBy(func(opts docker.CreateOptions) bool {
		return opts.Name == "cache" &&
			opts.ExposedPorts == nil &&
			opts.HostConfig.PortBindings == nil &&
			opts.HostConfig.RestartPolicy == container.RestartPolicy{Name: "always"}
	})

	t.Run("started", func(t *testing.T) {
		engine := new(MockEngine)
		engine.On("RunContainer", mock.Anything, matchAlways, "").
			Return(docker.ContainerRef{ID: "r1", Name: "mcp-cache"}, nil)

		text, err := NewDispatcher(engine).CallTool(context.Background(), "run_container", minimal)
		require.NoError(t, err)
		assert.Contains(t, text, `"id": "r1"`)
		engine.AssertExpectations(t)
	})

	t.Run("created but not started", func(t *testing.T) {
		engine := new(MockEngine)
		engine.On("RunContainer", mock.Anything, matchAlways, "").
			Return(docker.ContainerRef{ID: "r1", Name: "mcp-cache"}, errdefs.Conflict(errors.New("port is already allocated")))

		_, err := NewDispatcher(engine).CallTool(context.Background(), "run_container", minimal)
		perr := requireProtocolError(t, err, mcp.CodeInternalError)
		assert.Contains(t, perr.Message, "mcp-cache (r1) was created but not started")
		assert.Equal(t, map[string]any{"kind": docker.KindConflict}, perr.Data)
	})
}

func TestDispatcherRecreateContainer(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]any
		override *docker.CreateOptions
	}{
		{
			name: "same configuration",
			args: map[string]any{"containerId": "web"},
		},
		{
			name:     "new image",
			args:     map[string]any{"containerId": "web", "image": "nginx:1.27"},
			override: &docker.CreateOptions{Image: "nginx:1.27"},
		},
		{
			name:     "new env and cmd",
			args:     map[string]any{"containerId": "web", "env": []any{"B=2"}, "cmd": []any{"serve"}},
			override: &docker.CreateOptions{Env: []string{"B=2"}, Cmd: []string{"serve"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := new(MockEngine)
			engine.On("RecreateContainer", mock.Anything, "web", tt.override).
				Return(docker.ContainerRef{ID: "new", Name: "mcp-web"}, nil)

			_, err := NewDispatcher(engine).CallTool(context.Background(), "recreate_container", tt.args)
			require.NoError(t, err)
			engine.AssertExpectations(t)
		})
	}
}

func TestDispatcherRecreateFailureData(t *testing.T) {
	engine := new(MockEngine)
	engine.On("RecreateContainer", mock.Anything, "web", (*docker.CreateOptions)(nil)).
		Return(docker.ContainerRef{}, &docker.RecreateError{
			ContainerID:     "web",
			Stage:           docker.StageStart,
			OriginalRemoved: true,
			NewID:           "n1",
			Err:             errors.New("boom"),
		})

	_, err := NewDispatcher(engine).CallTool(context.Background(), "recreate_container", map[string]any{"containerId": "web"})
	perr := requireProtocolError(t, err, mcp.CodeInternalError)
	assert.Equal(t, map[string]any{
		"kind":            docker.KindUnknown,
		"stage":           docker.StageStart,
		"originalRemoved": true,
		"newId":           "n1",
	}, perr.Data)
}

func TestDispatcherConfirmations(t *testing.T) {
	tests := []struct {
		tool     string
		args     map[string]any
		setup    func(e *MockEngine)
		expected string
	}{
		{
			"start_container", map[string]any{"containerId": "web"},
			func(e *MockEngine) { e.On("StartContainer", mock.Anything, "web").Return(nil) },
			"Container web started successfully",
		},
		{
			"stop_container", map[string]any{"containerId": "web"},
			func(e *MockEngine) { e.On("StopContainer", mock.Anything, "web").Return(nil) },
			"Container web stopped successfully",
		},
		{
			"remove_container", map[string]any{"containerId": "web", "force": true},
			func(e *MockEngine) { e.On("RemoveContainer", mock.Anything, "web", true).Return(nil) },
			"Container web removed successfully",
		},
		{
			"pull_image", map[string]any{"imageName": "nginx:latest"},
			func(e *MockEngine) { e.On("PullImage", mock.Anything, "nginx:latest").Return(nil) },
			"Image nginx:latest pulled successfully",
		},
		{
			"push_image", map[string]any{"imageName": "registry.local/app:1"},
			func(e *MockEngine) { e.On("PushImage", mock.Anything, "registry.local/app:1").Return(nil) },
			"Image registry.local/app:1 pushed successfully",
		},
		{
			"remove_image", map[string]any{"imageId": "sha256:abc"},
			func(e *MockEngine) { e.On("RemoveImage", mock.Anything, "sha256:abc", false).Return(nil) },
			"Image sha256:abc removed successfully",
		},
		{
			"remove_network", map[string]any{"networkId": "backend"},
			func(e *MockEngine) { e.On("RemoveNetwork", mock.Anything, "backend").Return(nil) },
			"Network backend removed successfully",
		},
		{
			"remove_volume", map[string]any{"name": "pgdata"},
			func(e *MockEngine) { e.On("RemoveVolume", mock.Anything, "pgdata", false).Return(nil) },
			"Volume pgdata removed successfully",
		},
		{
			"fetch_container_logs", map[string]any{"containerId": "web"},
			func(e *MockEngine) { e.On("ContainerLogs", mock.Anything, "web", docker.DefaultLogTail).Return("line\n", nil) },
			"line\n",
		},
		{
			"fetch_container_logs", map[string]any{"containerId": "web", "tail": float64(5)},
			func(e *MockEngine) { e.On("ContainerLogs", mock.Anything, "web", 5).Return("last five\n", nil) },
			"last five\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			engine := new(MockEngine)
			tt.setup(engine)

			text, err := NewDispatcher(engine).CallTool(context.Background(), tt.tool, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, text)
			engine.AssertExpectations(t)
		})
	}
}

func TestDispatcherBuildImage(t *testing.T) {
	tarContext := filepath.Join(t.TempDir(), "ctx.tar")
	f, err := os.Create(tarContext)
	require.NoError(t, err)
	tw := tar.NewWriter(f)
	body := []byte("FROM alpine\n")
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "build/Containerfile", Mode: 0644, Size: int64(len(body))}))
	_, err = tw.Write(body)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, f.Close())

	engine := new(MockEngine)
	engine.On("BuildImage", mock.Anything, tarContext, "app:dev", "build/Containerfile").Return(nil)
	d := NewDispatcher(engine)

	text, err := d.CallTool(context.Background(), "build_image",
		map[string]any{"tarContext": tarContext, "tag": "app:dev", "dockerfile": "build/Containerfile"})
	require.NoError(t, err)
	assert.Equal(t, "Image app:dev built successfully", text)

	// The default Dockerfile is not in this archive
	_, err = d.CallTool(context.Background(), "build_image", map[string]any{"tarContext": tarContext, "tag": "app:dev"})
	perr := requireProtocolError(t, err, mcp.CodeInvalidParams)
	assert.Contains(t, perr.Message, "dockerfile not found")
	engine.AssertNumberOfCalls(t, "BuildImage", 1)
}

func TestDispatcherListsAndCreates(t *testing.T) {
	engine := new(MockEngine)
	engine.On("ListContainers", mock.Anything, "shop").
		Return([]container.Summary{{ID: "c1", Names: []string{"/mcp-shop-web"}}}, nil)
	engine.On("ListVolumes", mock.Anything).
		Return([]*volume.Volume{{Name: "pgdata", Driver: "local"}}, nil)
	engine.On("CreateNetwork", mock.Anything, "backend", "", true).
		Return(docker.NetworkRef{ID: "n1", Name: "backend"}, nil)
	engine.On("CreateVolume", mock.Anything, "pgdata", "local", map[string]string{"tier": "db"}).
		Return(docker.VolumeRef{Name: "pgdata"}, nil)

	d := NewDispatcher(engine)
	ctx := context.Background()

	text, err := d.CallTool(ctx, "list_containers", map[string]any{"projectName": "shop"})
	require.NoError(t, err)
	var containers []container.Summary
	require.NoError(t, json.Unmarshal([]byte(text), &containers))
	require.Len(t, containers, 1)
	assert.Equal(t, "c1", containers[0].ID)

	text, err = d.CallTool(ctx, "list_volumes", nil)
	require.NoError(t, err)
	assert.Contains(t, text, `"Name": "pgdata"`)

	text, err = d.CallTool(ctx, "create_network", map[string]any{"name": "backend", "internal": true})
	require.NoError(t, err)
	assert.Contains(t, text, `"id": "n1"`)

	_, err = d.CallTool(ctx, "create_volume", map[string]any{
		"name":   "pgdata",
		"driver": "local",
		"labels": map[string]any{"tier": "db"},
	})
	require.NoError(t, err)

	engine.AssertExpectations(t)
}

func TestDispatcherEngineErrorKind(t *testing.T) {
	engine := new(MockEngine)
	engine.On("StartContainer", mock.Anything, "ghost").
		Return(errdefs.NotFound(errors.New("No such container: ghost")))

	_, err := NewDispatcher(engine).CallTool(context.Background(), "start_container", map[string]any{"containerId": "ghost"})
	perr := requireProtocolError(t, err, mcp.CodeInternalError)
	assert.Equal(t, "No such container: ghost", perr.Message)
	assert.Equal(t, map[string]any{"kind": docker.KindNotFound}, perr.Data)
}

func TestDispatcherMiddlewareOrder(t *testing.T) {
	var trail []string
	mark := func(label string) Middleware {
		return func(next CallFunc) CallFunc {
			return func(ctx context.Context, name string, args map[string]any) (string, error) {
				trail = append(trail, label+">"+name)
				text, err := next(ctx, name, args)
				trail = append(trail, label+"<")
				return text, err
			}
		}
	}

	engine := new(MockEngine)
	engine.On("StopContainer", mock.Anything, "web").Return(nil)

	d := NewDispatcher(engine, mark("outer"), mark("inner"), WithLogging())
	_, err := d.CallTool(context.Background(), "stop_container", map[string]any{"containerId": "web"})
	require.NoError(t, err)
	assert.Equal(t, []string{"outer>stop_container", "inner>stop_container", "inner<", "outer<"}, trail)

	// Middlewares also observe unknown tools
	trail = nil
	_, err = d.CallTool(context.Background(), "nope", nil)
	requireProtocolError(t, err, mcp.CodeMethodNotFound)
	assert.Equal(t, []string{"outer>nope", "inner>nope", "inner<", "outer<"}, trail)
}
