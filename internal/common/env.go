package common

import (
	"os"
	"strconv"

	"github.com/bnema/mcp-docker/pkg/logger"
)

// loadConfigFromEnv overrides file values with the process environment.
func loadConfigFromEnv(config *Config) {
	envString("MCP_DOCKER_LOG_LEVEL", &config.General.LogLevel)

	cc := &config.ContainerEngine
	envString("DOCKER_SOCKET_PATH", &cc.Sock)
	envString("DOCKER_HOST", &cc.Host)
	envString("DOCKER_PROTOCOL", &cc.Protocol)
	envString("DOCKER_CA", &cc.CA)
	envString("DOCKER_CERT", &cc.Cert)
	envString("DOCKER_KEY", &cc.Key)
	envString("DOCKER_API_VERSION", &cc.APIVersion)
	envString("DOCKER_PROJECT_PREFIX", &cc.ProjectPrefix)
	if val := os.Getenv("DOCKER_PORT"); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			// Out of range on purpose so Validate reports it
			port = -1
		}
		cc.Port = port
		logger.Debug("Using environment variable", "name", "DOCKER_PORT", "value", val)
	}

	envString("DOCKER_REGISTRY_USER", &config.Registry.Username)
	envSecret("DOCKER_REGISTRY_PASSWORD", &config.Registry.Password)
	envString("DOCKER_REGISTRY_SERVER", &config.Registry.ServerAddress)

	envString("MCP_DOCKER_HTTP_ADDR", &config.Http.Addr)
	envSecret("MCP_DOCKER_HTTP_TOKEN", &config.Http.Token)
	envString("MCP_DOCKER_RATE_LIMIT_DIR", &config.Http.RateLimitDir)
	envString("MCP_DOCKER_HTTP_MAX_BODY", &config.Http.MaxBody)

	envString("MCP_DOCKER_AUDIT_DB", &config.Audit.Path)
}

func envString(name string, dst *string) {
	if val := os.Getenv(name); val != "" {
		*dst = val
		logger.Debug("Using environment variable", "name", name, "value", val)
	}
}

func envSecret(name string, dst *string) {
	if val := os.Getenv(name); val != "" {
		*dst = val
		logger.Debug("Using environment variable", "name", name, "value", "********")
	}
}
