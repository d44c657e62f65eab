package common

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/bnema/mcp-docker/pkg/bytesize"
	"github.com/bnema/mcp-docker/pkg/docker"
	"github.com/bnema/mcp-docker/pkg/logger"
	"github.com/bnema/mcp-docker/pkg/parser"
)

const (
	appName        = "mcp-docker"
	configFileName = "config.yml"

	DefaultSocket   = "/var/run/docker.sock"
	DefaultLogLevel = "info"
	DefaultHTTPAddr = ":8089"
	DefaultMaxBody  = "4MB"
)

type Config struct {
	General         GeneralConfig         `yaml:"general"`
	ContainerEngine ContainerEngineConfig `yaml:"containerEngine"`
	Registry        RegistryConfig        `yaml:"registry"`
	Http            HttpConfig            `yaml:"http"`
	Audit           AuditConfig           `yaml:"audit"`
}

type GeneralConfig struct {
	LogLevel string `yaml:"logLevel"`
}

// ContainerEngineConfig describes how to reach the engine. Host wins over Sock.
type ContainerEngineConfig struct {
	Sock          string `yaml:"sock"`
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	Protocol      string `yaml:"protocol"`
	CA            string `yaml:"ca"`
	Cert          string `yaml:"cert"`
	Key           string `yaml:"key"`
	APIVersion    string `yaml:"apiVersion"`
	ProjectPrefix string `yaml:"projectPrefix"`
}

type RegistryConfig struct {
	Username      string `yaml:"username"`
	Password      string `yaml:"password"`
	ServerAddress string `yaml:"serverAddress"`
}

type HttpConfig struct {
	Addr         string `yaml:"addr"`
	Token        string `yaml:"token"`
	RateLimitDir string `yaml:"rateLimitDir"`
	// MaxBody caps the size of one JSON-RPC message, e.g. "4MB".
	MaxBody string `yaml:"maxBody"`
}

type AuditConfig struct {
	Path string `yaml:"path"`
}

// DefaultConfigPath returns the per-user config file location.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("error getting user config directory: %w", err)
	}
	return filepath.Join(dir, appName, configFileName), nil
}

// LoadConfig builds the configuration from defaults, the YAML file at path, a .env file in
// the working directory and finally the environment. An empty path means the default
// location, which may be absent. An explicit path must exist.
func LoadConfig(path string) (*Config, error) {
	config := &Config{}

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			logger.Debug("No default config location", "error", err)
			path = ""
		}
	}

	if path != "" {
		if err := readConfigFile(path, config); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
			logger.Debug("No config file, using defaults", "path", path)
		} else {
			logger.Debug("Loaded config file", "path", path)
		}
	}

	// .env never overrides variables already set in the process
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	loadConfigFromEnv(config)
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func readConfigFile(path string, config *Config) error {
	if err := parser.ParseYAMLFile(os.DirFS(filepath.Dir(path)), filepath.Base(path), config); err != nil {
		return fmt.Errorf("error reading configuration file: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.General.LogLevel == "" {
		c.General.LogLevel = DefaultLogLevel
	}
	if c.ContainerEngine.Sock == "" && c.ContainerEngine.Host == "" {
		c.ContainerEngine.Sock = DefaultSocket
	}
	if c.ContainerEngine.ProjectPrefix == "" {
		c.ContainerEngine.ProjectPrefix = docker.DefaultPrefix
	}
	if c.Http.Addr == "" {
		c.Http.Addr = DefaultHTTPAddr
	}
	if c.Http.MaxBody == "" {
		c.Http.MaxBody = DefaultMaxBody
	}
}

// MaxBodyBytes returns the parsed HTTP body limit. Validate has already checked it.
func (c *Config) MaxBodyBytes() int64 {
	n, err := bytesize.Parse(c.Http.MaxBody)
	if err != nil {
		return 0
	}
	return n
}

// RegistryAuth returns the push credentials, or nil when none are configured.
func (c *Config) RegistryAuth() *docker.RegistryAuth {
	if c.Registry.Username == "" && c.Registry.Password == "" {
		return nil
	}
	return &docker.RegistryAuth{
		Username:      c.Registry.Username,
		Password:      c.Registry.Password,
		ServerAddress: c.Registry.ServerAddress,
	}
}
