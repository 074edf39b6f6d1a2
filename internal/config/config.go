package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

type APIConfig struct {
	// BaseURL is the root of the platform REST API, including the /api prefix.
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	// Driver selects the persistence backend: "sqlite" or "memory".
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000/api",
			Timeout: 30 * time.Second,
		},
		Session: SessionConfig{
			Driver: "sqlite",
			Path:   defaultSessionPath(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".acmlctl/session.db"
	}
	return filepath.Join(dir, "acmlctl", "session.db")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ACMLCTL_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("ACMLCTL_API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.API.Timeout = d
		}
	}
	if v := os.Getenv("ACMLCTL_SESSION_DRIVER"); v != "" {
		cfg.Session.Driver = v
	}
	if v := os.Getenv("ACMLCTL_SESSION_PATH"); v != "" {
		cfg.Session.Path = v
	}
	if v := os.Getenv("ACMLCTL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	switch c.Session.Driver {
	case "sqlite":
		if c.Session.Path == "" {
			return fmt.Errorf("session.path must not be empty with the sqlite driver")
		}
	case "memory":
	default:
		return fmt.Errorf("session.driver must be sqlite or memory, got %q", c.Session.Driver)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}
