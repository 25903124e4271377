package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DATABASE_PATH", "JWT_SECRET", "APP_ENV", "SESSION_TTL", "ALLOWED_ORIGINS", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("SESSION_TTL", "24h")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != 8080 || cfg.SessionTTL != 24*time.Hour {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.JWTSecret) == 0 {
		t.Error("development should fall back to a secret")
	}
	if cfg.IsProduction() {
		t.Error("development reported as production")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("DATABASE_PATH", "/var/lib/board/board.db")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != 9090 || cfg.SessionTTL != 30*time.Minute || string(cfg.JWTSecret) != "prod-secret" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.DatabasePath != "/var/lib/board/board.db" || !cfg.IsProduction() {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %q", cfg.AllowedOrigins)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"PORT": "eighty", "SESSION_TTL": "1h"}},
		{"bad ttl", map[string]string{"PORT": "80", "SESSION_TTL": "forever"}},
		{"production without secret", map[string]string{"PORT": "80", "SESSION_TTL": "1h", "APP_ENV": "production"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
