package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment names accepted in config or PRISM_ENVIRONMENT.
const (
	EnvLocal      = "local"
	EnvProduction = "production"
	EnvTest       = "test"
)

// DefaultLocalURL is where a development backend listens.
const DefaultLocalURL = "http://localhost:8000"

type Config struct {
	Environment string         `mapstructure:"environment"`
	Backend     BackendConfig  `mapstructure:"backend"`
	Recorder    RecorderConfig `mapstructure:"recorder"`
	Log         LogConfig      `mapstructure:"log"`
}

type BackendConfig struct {
	LocalURL      string        `mapstructure:"local_url"`
	ProductionURL string        `mapstructure:"production_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// RecorderConfig describes the external audio capture command.
// Args may contain the {output} placeholder, replaced with the
// capture file path when the recorder starts.
type RecorderConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// BaseURL resolves the backend base URL for the configured environment.
// The test environment returns an empty URL; tests construct clients
// directly against httptest servers.
func (c *Config) BaseURL() string {
	switch c.Environment {
	case EnvProduction:
		return c.ProductionURL()
	case EnvTest:
		return ""
	default:
		return c.Backend.LocalURL
	}
}

// ProductionURL returns the deployed backend URL, trimmed of a trailing slash.
func (c *Config) ProductionURL() string {
	return strings.TrimRight(c.Backend.ProductionURL, "/")
}

// Load reads configuration from the given file path plus PRISM_* environment
// variables. An empty path searches the working directory for prism.yaml and
// treats a missing file as "defaults only".
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("environment", EnvLocal)
	v.SetDefault("backend.local_url", DefaultLocalURL)
	v.SetDefault("backend.production_url", "")
	v.SetDefault("backend.timeout", 30*time.Second)
	v.SetDefault("recorder.command", "sox")
	v.SetDefault("recorder.args", []string{"-q", "-d", "{output}"})
	v.SetDefault("log.path", filepath.Join(".", "prism.log"))
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("PRISM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("prism")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Explicit env overrides for the values people actually export.
	if env := v.GetString("ENVIRONMENT"); env != "" {
		cfg.Environment = env
	}
	if url := v.GetString("BACKEND_URL"); url != "" {
		cfg.Backend.ProductionURL = url
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Environment {
	case EnvLocal, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("unknown environment %q (want %s, %s, or %s)",
			c.Environment, EnvLocal, EnvProduction, EnvTest)
	}
	if c.Environment == EnvProduction && c.Backend.ProductionURL == "" {
		return fmt.Errorf("environment %q requires backend.production_url (or PRISM_BACKEND_URL)", EnvProduction)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive, got %v", c.Backend.Timeout)
	}
	return nil
}
