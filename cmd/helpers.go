package cmd

import (
	"fmt"
	"time"

	"github.com/taxonomiaia/taxocli/internal/api"
	"github.com/taxonomiaia/taxocli/internal/config"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `taxocli init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newClient builds the platform client from config.
func newClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.APIURL, time.Duration(cfg.RequestTimeoutSeconds)*time.Second)
}
