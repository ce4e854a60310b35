package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Server.Listen != ":8000" {
		t.Errorf("Server.Listen = %q, want %q", cfg.Server.Listen, ":8000")
	}
	if cfg.Inference.Backend != BackendLambda {
		t.Errorf("Inference.Backend = %q, want %q", cfg.Inference.Backend, BackendLambda)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Detector.Enabled {
		t.Error("Detector.Enabled should default to false")
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
environment: prod
server:
  listen: ":9000"
inference:
  backend: HTTP
  base_url: http://models.internal
  token: abc
  rate_limit:
    enabled: true
    bucket_size: 5
    refill_token_per_sec: 2.5
detector:
  enabled: true
  confidence_threshold: 0.7
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.LogLevel != "debug" || cfg.Environment != "prod" {
		t.Errorf("unexpected top level values: %+v", cfg)
	}
	if cfg.Server.Listen != ":9000" {
		t.Errorf("Server.Listen = %q, want :9000", cfg.Server.Listen)
	}
	if cfg.Inference.Backend != BackendHTTP {
		t.Errorf("Inference.Backend = %q, want %q", cfg.Inference.Backend, BackendHTTP)
	}
	if cfg.Inference.TimeoutSec != 60 {
		t.Errorf("Inference.TimeoutSec = %d, want default 60", cfg.Inference.TimeoutSec)
	}
	if !cfg.Inference.RateLimit.Enabled || cfg.Inference.RateLimit.BucketSize != 5 || cfg.Inference.RateLimit.RefillTPS != 2.5 {
		t.Errorf("unexpected rate limit: %+v", cfg.Inference.RateLimit)
	}
	if !cfg.Detector.Enabled || cfg.Detector.ConfidenceThreshold != 0.7 {
		t.Errorf("unexpected detector: %+v", cfg.Detector)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err == nil {
		t.Fatal("Load() should have returned error")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatal("Load() should have returned error")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("LISTEN_ADDR", ":7000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Server.Listen != ":7000" {
		t.Errorf("Server.Listen = %q, want :7000", cfg.Server.Listen)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.Inference.FunctionPrefix != "translator-staging" {
		t.Errorf("FunctionPrefix = %q, want translator-staging", cfg.Inference.FunctionPrefix)
	}
}

func TestApplyEnv_IgnoresEmptyValues(t *testing.T) {
	cfg := New()
	cfg.applyEnv(func(key string) (string, bool) {
		if key == "LISTEN_ADDR" {
			return "", true
		}
		return "", false
	})

	if cfg.Server.Listen != ":8000" {
		t.Errorf("Server.Listen = %q, want default", cfg.Server.Listen)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown backend", func(c *Config) { c.Inference.Backend = "grpc" }, true},
		{"http without base url", func(c *Config) { c.Inference.Backend = BackendHTTP }, true},
		{"zero timeout", func(c *Config) { c.Inference.TimeoutSec = 0 }, true},
		{"threshold out of range", func(c *Config) { c.Detector.ConfidenceThreshold = 2 }, true},
		{"bad rate limit", func(c *Config) { c.Inference.RateLimit.Enabled = true }, true},
		{"explicit function prefix kept", func(c *Config) { c.Inference.FunctionPrefix = "custom" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.expectError {
				t.Errorf("Validate() error = %v, expectError %v", err, tt.expectError)
			}
		})
	}
}

func TestValidate_DerivesFunctionPrefix(t *testing.T) {
	cfg := New()
	cfg.Environment = "prod"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if cfg.Inference.FunctionPrefix != "translator-prod" {
		t.Errorf("FunctionPrefix = %q, want translator-prod", cfg.Inference.FunctionPrefix)
	}
}
