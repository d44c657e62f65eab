package common

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/docker/docker/client"

	"github.com/bnema/mcp-docker/pkg/bytesize"
)

const (
	defaultPlainPort = 2375
	defaultTLSPort   = 2376
	windowsPipe      = "npipe:////./pipe/docker_engine"
)

var (
	knownProtocols = map[string]bool{"": true, "tcp": true, "http": true, "https": true}
	logLevels      = map[string]bool{"": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true, "fatal": true}
)

// Validate checks the engine descriptor.
func (c *Config) Validate() error {
	cc := c.ContainerEngine

	if cc.APIVersion != "" {
		if _, err := semver.NewVersion(cc.APIVersion); err != nil {
			return fmt.Errorf("invalid DOCKER_API_VERSION %q: %w", cc.APIVersion, err)
		}
	}

	if cc.Port != 0 && (cc.Port < 1 || cc.Port > 65535) {
		return fmt.Errorf("invalid DOCKER_PORT %d: must be between 1 and 65535", cc.Port)
	}

	if !knownProtocols[strings.ToLower(cc.Protocol)] {
		return fmt.Errorf("unsupported DOCKER_PROTOCOL %q", cc.Protocol)
	}

	set := 0
	for _, v := range []string{cc.CA, cc.Cert, cc.Key} {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != 3 {
		return fmt.Errorf("DOCKER_CA, DOCKER_CERT and DOCKER_KEY must be set together")
	}

	if !logLevels[strings.ToLower(c.General.LogLevel)] {
		return fmt.Errorf("unknown log level %q", c.General.LogLevel)
	}

	if c.Http.MaxBody != "" {
		n, err := bytesize.Parse(c.Http.MaxBody)
		if err != nil {
			return fmt.Errorf("invalid http.maxBody: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("invalid http.maxBody %q: must be positive", c.Http.MaxBody)
		}
	}
	return nil
}

func (cc ContainerEngineConfig) tls() bool {
	return cc.CA != "" || strings.EqualFold(cc.Protocol, "https")
}

// EngineHost returns the daemon address the client dials.
func (cc ContainerEngineConfig) EngineHost() string {
	if cc.Host == "" {
		if cc.Sock == "" && runtime.GOOS == "windows" {
			return windowsPipe
		}
		return "unix://" + cc.Sock
	}
	if strings.Contains(cc.Host, "://") {
		return cc.Host
	}

	port := cc.Port
	if port == 0 {
		port = defaultPlainPort
		if cc.tls() {
			port = defaultTLSPort
		}
	}
	return fmt.Sprintf("tcp://%s:%d", cc.Host, port)
}

// EngineOptions turns the descriptor into client options.
func (c *Config) EngineOptions() []client.Opt {
	cc := c.ContainerEngine
	opts := []client.Opt{client.WithHost(cc.EngineHost())}

	// Without a CA the system roots verify the daemon
	if cc.tls() {
		opts = append(opts, client.WithTLSClientConfig(cc.CA, cc.Cert, cc.Key))
	}

	if cc.APIVersion != "" {
		opts = append(opts, client.WithVersion(cc.APIVersion))
	} else {
		opts = append(opts, client.WithAPIVersionNegotiation())
	}
	return opts
}
