package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	DB       DBConfig       `yaml:"db"`
	Log      LogConfig      `yaml:"log"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Suggest  SuggestConfig  `yaml:"suggest"`
	Guard    GuardConfig    `yaml:"guard"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type SnapshotConfig struct {
	Limit        int      `yaml:"limit"`
	TickInterval Duration `yaml:"tick_interval"`
}

type SuggestConfig struct {
	Debounce Duration `yaml:"debounce"`
	Limit    int      `yaml:"limit"`
}

// Duration wraps time.Duration so YAML values read as "30s" or "260ms".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the plain time.Duration value.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// GuardConfig seeds the terminal's operator profile.
type GuardConfig struct {
	Name        string `yaml:"name"`
	AutoApprove bool   `yaml:"auto_approve"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "gatehouse.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Snapshot: SnapshotConfig{
			Limit:        400,
			TickInterval: Duration(30 * time.Second),
		},
		Suggest: SuggestConfig{
			Debounce: Duration(260 * time.Millisecond),
			Limit:    6,
		},
	}

	if path := os.Getenv("GATEHOUSE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("GATEHOUSE_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("GATEHOUSE_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid GATEHOUSE_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("GATEHOUSE_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("GATEHOUSE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if limitStr := os.Getenv("GATEHOUSE_SNAPSHOT_LIMIT"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid GATEHOUSE_SNAPSHOT_LIMIT: %w", err)
		}
		cfg.Snapshot.Limit = limit
	}
	if name := os.Getenv("GATEHOUSE_GUARD_NAME"); name != "" {
		cfg.Guard.Name = name
	}
	if auto := os.Getenv("GATEHOUSE_GUARD_AUTO_APPROVE"); auto != "" {
		parsed, err := strconv.ParseBool(auto)
		if err != nil {
			return Config{}, fmt.Errorf("invalid GATEHOUSE_GUARD_AUTO_APPROVE: %w", err)
		}
		cfg.Guard.AutoApprove = parsed
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
