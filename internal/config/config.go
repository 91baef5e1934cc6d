// Package config holds the client configuration, corresponding to
// .taxocli.yml with TAXOCLI_* environment overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// LocalAPIURL and ProductionAPIURL are the two deployment origins the
// platform ships with. Which one a given machine talks to is a deployment
// choice made at init time, not part of the client's contract.
const (
	LocalAPIURL      = "http://127.0.0.1:8000"
	ProductionAPIURL = "https://taxonomiaia.onrender.com"
)

// Config is the top-level taxocli configuration.
type Config struct {
	APIURL                string `yaml:"api_url" koanf:"api_url"`
	PollIntervalSeconds   int    `yaml:"poll_interval_seconds" koanf:"poll_interval_seconds"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds" koanf:"request_timeout_seconds"`
	ReportDir             string `yaml:"report_dir" koanf:"report_dir"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIURL:                LocalAPIURL,
		PollIntervalSeconds:   5,
		RequestTimeoutSeconds: 30,
		ReportDir:             "reports",
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (TAXOCLI_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("TAXOCLI_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "TAXOCLI_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_url %q: must be an absolute http(s) URL", c.APIURL)
	}
	if c.PollIntervalSeconds <= 0 {
		return fmt.Errorf("poll_interval_seconds must be positive")
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive")
	}
	if c.ReportDir == "" {
		return fmt.Errorf("report_dir is required")
	}
	return nil
}
