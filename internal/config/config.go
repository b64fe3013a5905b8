// Package config loads tool configuration from a YAML file with
// environment overrides for the credential.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/OdhranMac/companies-house-api/pkg/logging"
	"github.com/OdhranMac/companies-house-api/pkg/ratelimit"
	"gopkg.in/yaml.v3"
)

// EnvAPIKey overrides the configured API key when set.
const EnvAPIKey = "CH_API_KEY"

// Duration wraps time.Duration to accept "600ms" style values in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Log holds logging settings.
type Log struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Config is the full tool configuration.
type Config struct {
	APIKey          string        `yaml:"api_key"`
	BaseURL         string        `yaml:"base_url"`
	RequestInterval Duration      `yaml:"request_interval"`

	IncludeDirectors  bool `yaml:"include_directors"`
	IncludeCharges    bool `yaml:"include_charges"`
	IncludeInsolvency bool `yaml:"include_insolvency"`

	Input  string `yaml:"input"`
	Output string `yaml:"output"`

	Log Log `yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		RequestInterval: Duration(ratelimit.DefaultInterval),
		Log: Log{
			Level: string(logging.LevelInfo),
		},
	}
}

// Load reads a YAML config file, applies defaults and the CH_API_KEY
// environment override.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config: %w", err)
		}
	}

	if key := os.Getenv(EnvAPIKey); key != "" {
		cfg.APIKey = key
	}

	if cfg.RequestInterval <= 0 {
		cfg.RequestInterval = Duration(ratelimit.DefaultInterval)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = string(logging.LevelInfo)
	}

	return cfg, nil
}

// Validate checks the settings a run cannot proceed without.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api key is required (set api_key or %s)", EnvAPIKey)
	}
	return nil
}
