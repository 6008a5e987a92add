package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP server settings for the monitor binary.
type ServerConfig struct {
	Port    int    `yaml:"port"`
	DataDir string `yaml:"dataDir"`
}

// Config is the top-level configuration for the monitor binary.
type Config struct {
	Server  ServerConfig    `yaml:"server"`
	Monitor MonitorSettings `yaml:"monitor"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:    8080,
			DataDir: "./monitor_data",
		},
		Monitor: MonitorSettings{Name: "default"},
	}
	cfg.Monitor.ApplyDefaults()
	return cfg
}

// Load reads a YAML configuration file and applies environment-variable
// overrides on top. A missing file is not an error: defaults plus
// environment overrides are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's flags, not user input
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	cfg.Monitor.ApplyDefaults()

	if conflicts := cfg.Monitor.Validate(); len(conflicts) > 0 {
		return nil, fmt.Errorf("invalid monitor settings: %v", conflicts)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MONITOR_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("MONITOR_DATA_DIR"); v != "" {
		cfg.Server.DataDir = v
	}
	if v := os.Getenv("MONITOR_MATCH_PARALLELISM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Monitor.MatchParallelism = n
		}
	}
}
