package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/pipekit/errors"
	"github.com/kbukum/pipekit/logger"
)

func TestBaseConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := BaseConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := BaseConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})
}

func TestBaseConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     BaseConfig
		wantErr bool
		errMsg  string
	}{
		{"valid development", BaseConfig{Name: "svc", Environment: "development"}, false, ""},
		{"valid production", BaseConfig{Name: "svc", Environment: "production"}, false, ""},
		{"missing name", BaseConfig{Environment: "production"}, true, "name: is required"},
		{"bad name", BaseConfig{Name: "my svc", Environment: "production"}, true, "name: is not a valid stage name"},
		{"invalid environment", BaseConfig{Name: "svc", Environment: "invalid"}, true, "environment: must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if !tc.wantErr {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
			}
		})
	}
}

func TestServiceConfigDefaultsAndValidate(t *testing.T) {
	cfg := ServiceConfig{Base: BaseConfig{Name: "scenarios"}}
	cfg.ApplyDefaults()

	if cfg.Base.Version == "" {
		t.Error("expected version default from build info")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level in development, got %q", cfg.Logging.Level)
	}
	if cfg.Tracing.SampleRate != 1.0 {
		t.Errorf("expected sample rate 1.0, got %v", cfg.Tracing.SampleRate)
	}
	if cfg.Tracing.MetricsInterval != 15*time.Second {
		t.Errorf("expected 15s metrics interval, got %v", cfg.Tracing.MetricsInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestServiceConfigKeepsExplicitLevel(t *testing.T) {
	cfg := ServiceConfig{Base: BaseConfig{Name: "scenarios"}, Logging: logger.Config{Level: "warn"}}
	cfg.ApplyDefaults()
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected explicit level to be kept, got %q", cfg.Logging.Level)
	}
}

func TestServiceConfigValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ServiceConfig)
		field  string
	}{
		{"negative concurrency", func(c *ServiceConfig) { c.Invoke.Concurrency = -1 }, "invoke.concurrency"},
		{"huge concurrency", func(c *ServiceConfig) { c.Invoke.Concurrency = 5000 }, "invoke.concurrency"},
		{"sample rate above one", func(c *ServiceConfig) { c.Tracing.SampleRate = 1.5 }, "tracing.sample_rate"},
		{"bad log format", func(c *ServiceConfig) { c.Logging.Format = "xml" }, "logging.format"},
		{"enabled without endpoint", func(c *ServiceConfig) {
			c.Tracing.Enabled = true
			c.Tracing.Endpoint = ""
		}, "tracing.endpoint"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := ServiceConfig{Base: BaseConfig{Name: "scenarios"}}
			cfg.ApplyDefaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("expected error mentioning %q, got %q", tc.field, err.Error())
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")

	yamlContent := `
base:
  name: scenarios
  environment: staging
logging:
  level: warn
  format: json
invoke:
  concurrency: 3
tracing:
  sample_rate: 0.5
  metrics_interval: 30s
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var cfg ServiceConfig
	if err := LoadConfig("scenarios", &cfg, WithConfigFile(configPath), WithEnvFile(filepath.Join(dir, "missing.env"))); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Base.Name != "scenarios" || cfg.Base.Environment != "staging" {
		t.Errorf("unexpected base %+v", cfg.Base)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}
	if cfg.Invoke.Concurrency != 3 {
		t.Errorf("expected concurrency 3, got %d", cfg.Invoke.Concurrency)
	}
	if cfg.Tracing.SampleRate != 0.5 || cfg.Tracing.MetricsInterval != 30*time.Second {
		t.Errorf("unexpected tracing %+v", cfg.Tracing)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("invoke:\n  concurrency: 3\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("APP_INVOKE_CONCURRENCY", "8")
	t.Setenv("APP_LOGGING_LEVEL", "error")
	t.Setenv("INVOKE_CONCURRENCY", "99")

	var cfg ServiceConfig
	if err := LoadConfig("scenarios", &cfg, WithConfigFile(configPath), WithEnvFile(filepath.Join(dir, "none"))); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Invoke.Concurrency != 8 {
		t.Errorf("expected prefixed env override 8, got %d", cfg.Invoke.Concurrency)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected level 'error', got %q", cfg.Logging.Level)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("PIPEKIT_BASE_NAME=from-env\n"), 0o644); err != nil {
		t.Fatalf("failed to write env: %v", err)
	}
	t.Setenv("PIPEKIT_BASE_NAME", "")
	os.Unsetenv("PIPEKIT_BASE_NAME")

	var cfg ServiceConfig
	err := LoadConfig("scenarios", &cfg,
		WithConfigFile(filepath.Join(dir, "none.yml")),
		WithEnvFile(envPath),
		WithEnvPrefix("PIPEKIT_"),
	)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Base.Name != "from-env" {
		t.Errorf("expected name from .env file, got %q", cfg.Base.Name)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg ServiceConfig
	err := LoadConfig("nonexistent-service", &cfg,
		WithConfigFile("/nonexistent/path.yml"),
		WithEnvFile("/nonexistent/.env"),
	)
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing files, got %v", err)
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("base: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var cfg ServiceConfig
	if err := LoadConfig("scenarios", &cfg, WithConfigFile(configPath), WithEnvFile(filepath.Join(dir, "none"))); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(string) error    { return nil }

func TestResolveFilesSearch(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./examples/scenarios/config.yml": true,
		"./.env":                          true,
	}}
	files := ResolveFiles("scenarios", LoaderConfig{FileSystem: fs})
	if files.ConfigFile != "./examples/scenarios/config.yml" {
		t.Errorf("unexpected config file %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("unexpected env file %q", files.EnvFile)
	}
}

func TestResolveFilesPrefersServiceEnv(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./.env":                  true,
		"./config/.env.scenarios": true,
	}}
	files := ResolveFiles("scenarios", LoaderConfig{FileSystem: fs})
	if files.EnvFile != "./config/.env.scenarios" {
		t.Errorf("expected service-specific env file, got %q", files.EnvFile)
	}
}

func TestResolveFilesExplicit(t *testing.T) {
	files := ResolveFiles("scenarios", LoaderConfig{
		FileSystem: &mockFS{},
		ConfigFile: "/etc/app.yml",
		EnvFile:    "/etc/app.env",
	})
	if files.ConfigFile != "/etc/app.yml" || files.EnvFile != "/etc/app.env" {
		t.Errorf("expected explicit paths, got %+v", files)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("TRACING_SAMPLE_RATE")
	want := map[string]bool{
		"tracing_sample_rate": true,
		"tracing.sample.rate": true,
		"tracing.sample_rate": true,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d variants, got %v", len(want), got)
	}
	for _, v := range got {
		if !want[v] {
			t.Errorf("unexpected variant %q", v)
		}
	}

	if v := envKeyVariants("DEBUG"); len(v) != 1 || v[0] != "debug" {
		t.Errorf("expected single variant, got %v", v)
	}
}

func TestOptions(t *testing.T) {
	var lc LoaderConfig
	WithConfigFile("/c.yml")(&lc)
	WithEnvFile("/.env")(&lc)
	WithEnvPrefix("X_")(&lc)
	WithFileSystem(&mockFS{})(&lc)
	if lc.ConfigFile != "/c.yml" || lc.EnvFile != "/.env" || lc.EnvPrefix != "X" || lc.FileSystem == nil {
		t.Errorf("unexpected loader config %+v", lc)
	}
}
