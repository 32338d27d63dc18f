package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s1, s2 ,")
	t.Setenv("APP_ENV", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()

	if diff := cmp.Diff([]string{"s1", "s2"}, cfg.SessionSecrets); diff != "" {
		t.Fatalf("secrets mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"https://a.example", "https://b.example"}, cfg.CORSOrigins); diff != "" {
		t.Fatalf("origins mismatch (-want +got):\n%s", diff)
	}
	if cfg.SessionTTL != 14*24*time.Hour {
		t.Fatalf("expected 14 day session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.VerificationPeriod != 10*time.Minute {
		t.Fatalf("expected 10 minute verification period, got %s", cfg.VerificationPeriod)
	}
	if !cfg.IsDevelopment() || cfg.SecureCookies() {
		t.Fatalf("default env should be development without secure cookies")
	}
}

func TestSecureCookies(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{EnvDevelopment, false},
		{EnvPreview, true},
		{EnvProduction, true},
	}
	for _, tc := range tests {
		t.Run(tc.env, func(t *testing.T) {
			if got := (Config{AppEnv: tc.env}).SecureCookies(); got != tc.want {
				t.Fatalf("SecureCookies() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGetdurFallsBack(t *testing.T) {
	t.Setenv("SOME_DURATION", "not-a-duration")
	if got := getdur("SOME_DURATION", time.Second); got != time.Second {
		t.Fatalf("expected fallback, got %s", got)
	}
}

func TestLoadDatabaseWithoutSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/wicki")

	cfg := LoadDatabase()
	if cfg.DatabaseDriver != "postgres" || cfg.DatabaseURL != "postgres://localhost/wicki" {
		t.Fatalf("unexpected database config: %+v", cfg)
	}
	if cfg.SessionSecrets != nil {
		t.Fatalf("database config must not carry secrets")
	}
}
