package config

import (
	"os"
	"testing"
)

func TestLoad_DefaultValues(t *testing.T) {
	// Clear any environment variables to test defaults
	env := []string{
		"APP_ENV", "APP_HTTP_ADDR", "METRICS_ADDR", "DATABASE_DSN",
		"STORE_TYPE", "ADMIN_API_KEY", "RATE_LIMIT_PER_IP", "LOG_LEVEL",
	}

	for _, key := range env {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AppEnv != "dev" {
		t.Errorf("Expected AppEnv='dev', got '%s'", cfg.AppEnv)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("Expected HTTPAddr=':8080', got '%s'", cfg.HTTPAddr)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("Expected MetricsAddr=':9090', got '%s'", cfg.MetricsAddr)
	}
	if cfg.StoreType != "memory" {
		t.Errorf("Expected StoreType='memory', got '%s'", cfg.StoreType)
	}
	if cfg.AdminAPIKey != "admin-123" {
		t.Errorf("Expected AdminAPIKey='admin-123', got '%s'", cfg.AdminAPIKey)
	}
	if cfg.RateLimitPerIP != 100 {
		t.Errorf("Expected RateLimitPerIP=100, got %d", cfg.RateLimitPerIP)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel='info', got '%s'", cfg.LogLevel)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	os.Setenv("APP_ENV", "test")
	os.Setenv("APP_HTTP_ADDR", ":9999")
	os.Setenv("METRICS_ADDR", ":7777")
	os.Setenv("STORE_TYPE", "postgres")
	os.Setenv("ADMIN_API_KEY", "custom-key")
	os.Setenv("RATE_LIMIT_PER_IP", "200")

	defer func() {
		os.Unsetenv("APP_ENV")
		os.Unsetenv("APP_HTTP_ADDR")
		os.Unsetenv("METRICS_ADDR")
		os.Unsetenv("STORE_TYPE")
		os.Unsetenv("ADMIN_API_KEY")
		os.Unsetenv("RATE_LIMIT_PER_IP")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AppEnv != "test" {
		t.Errorf("Expected AppEnv='test', got '%s'", cfg.AppEnv)
	}
	if cfg.HTTPAddr != ":9999" {
		t.Errorf("Expected HTTPAddr=':9999', got '%s'", cfg.HTTPAddr)
	}
	if cfg.MetricsAddr != ":7777" {
		t.Errorf("Expected MetricsAddr=':7777', got '%s'", cfg.MetricsAddr)
	}
	if cfg.StoreType != "postgres" {
		t.Errorf("Expected StoreType='postgres', got '%s'", cfg.StoreType)
	}
	if cfg.AdminAPIKey != "custom-key" {
		t.Errorf("Expected AdminAPIKey='custom-key', got '%s'", cfg.AdminAPIKey)
	}
	if cfg.RateLimitPerIP != 200 {
		t.Errorf("Expected RateLimitPerIP=200, got %d", cfg.RateLimitPerIP)
	}
}

func TestLoad_MissingEnvFileIsAcceptable(t *testing.T) {
	// Even if .env file doesn't exist, Load should succeed with defaults
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should not fail when .env is missing: %v", err)
	}
	if cfg == nil {
		t.Fatal("Config should not be nil")
	}
}

func TestValidate(t *testing.T) {
	valid := &Config{
		AppEnv:         "dev",
		HTTPAddr:       ":8080",
		MetricsAddr:    ":9090",
		DatabaseDSN:    "postgres://x",
		StoreType:      "memory",
		AdminAPIKey:    "admin-123",
		RateLimitPerIP: 100,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Valid config failed validation: %v", err)
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "bad store type",
			mutate:    func(c *Config) { c.StoreType = "cassandra" },
			wantField: "STORE_TYPE",
		},
		{
			name: "postgres without DSN",
			mutate: func(c *Config) {
				c.StoreType = "postgres"
				c.DatabaseDSN = ""
			},
			wantField: "DATABASE_DSN",
		},
		{
			name:      "empty http addr",
			mutate:    func(c *Config) { c.HTTPAddr = "" },
			wantField: "APP_HTTP_ADDR",
		},
		{
			name:      "empty metrics addr",
			mutate:    func(c *Config) { c.MetricsAddr = "" },
			wantField: "METRICS_ADDR",
		},
		{
			name:      "zero rate limit",
			mutate:    func(c *Config) { c.RateLimitPerIP = 0 },
			wantField: "RATE_LIMIT_PER_IP",
		},
		{
			name:      "default admin key in production",
			mutate:    func(c *Config) { c.AppEnv = "prod" },
			wantField: "ADMIN_API_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			var vErr ValidationError
			ok := false
			if v, isV := err.(ValidationError); isV {
				vErr, ok = v, true
			}
			if !ok {
				t.Fatalf("Expected ValidationError, got %T", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("Error field = %s, want %s", vErr.Field, tt.wantField)
			}
		})
	}
}
