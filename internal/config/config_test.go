package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.APIURL != LocalAPIURL {
		t.Errorf("expected default api_url %q, got %q", LocalAPIURL, cfg.APIURL)
	}
	if cfg.PollIntervalSeconds != 5 {
		t.Errorf("expected default poll_interval_seconds 5, got %d", cfg.PollIntervalSeconds)
	}
	if cfg.RequestTimeoutSeconds != 30 {
		t.Errorf("expected default request_timeout_seconds 30, got %d", cfg.RequestTimeoutSeconds)
	}
	if cfg.ReportDir != "reports" {
		t.Errorf("expected default report_dir %q, got %q", "reports", cfg.ReportDir)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.taxocli.yml")

	original := DefaultConfig()
	original.APIURL = ProductionAPIURL
	original.PollIntervalSeconds = 10
	original.ReportDir = "out"

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.APIURL != original.APIURL {
		t.Errorf("api_url: got %q, want %q", loaded.APIURL, original.APIURL)
	}
	if loaded.PollIntervalSeconds != original.PollIntervalSeconds {
		t.Errorf("poll_interval_seconds: got %d, want %d", loaded.PollIntervalSeconds, original.PollIntervalSeconds)
	}
	if loaded.ReportDir != original.ReportDir {
		t.Errorf("report_dir: got %q, want %q", loaded.ReportDir, original.ReportDir)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIURL != LocalAPIURL {
		t.Errorf("api_url: got %q, want default %q", cfg.APIURL, LocalAPIURL)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("TAXOCLI_API_URL", "http://10.0.0.5:8000")

	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "nonexistent.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIURL != "http://10.0.0.5:8000" {
		t.Errorf("api_url: got %q, want env override", cfg.APIURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty api_url", func(c *Config) { c.APIURL = "" }, true},
		{"relative api_url", func(c *Config) { c.APIURL = "not-a-url" }, true},
		{"zero poll interval", func(c *Config) { c.PollIntervalSeconds = 0 }, true},
		{"zero timeout", func(c *Config) { c.RequestTimeoutSeconds = 0 }, true},
		{"empty report dir", func(c *Config) { c.ReportDir = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
