package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvPreview     = "preview"
	EnvProduction  = "production"
)

type Config struct {
	AppEnv string

	// HTTP
	Addr           string
	CORSOrigins    []string
	LoginRateLimit int // requests per minute per IP on login/signup/verify

	// DB
	DatabaseDriver string
	DatabaseURL    string
	LogSQL         bool

	// Logging
	LogLevel string

	// Sessions
	SessionSecrets     []string // first signs, all verify
	SessionTTL         time.Duration
	VerificationPeriod time.Duration

	// Email
	ResendAPIKey string
	EmailFrom    string
}

// Load reads configuration from the environment, after loading an optional
// .env file from the working directory.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load .env", "error", err)
	}

	return Config{
		AppEnv: getenv("APP_ENV", EnvDevelopment),

		Addr:           getenv("ADDR", ":3000"),
		CORSOrigins:    getlist("CORS_ORIGINS"),
		LoginRateLimit: getint("LOGIN_RATE_LIMIT", 20),

		DatabaseDriver: getenv("DATABASE_DRIVER", "sqlite"),
		DatabaseURL:    getenv("DATABASE_URL", "file:wicki.db"),
		LogSQL:         getbool("LOG_SQL", false),

		LogLevel: getenv("LOG_LEVEL", "info"),

		SessionSecrets:     splitSecrets(must("SESSION_SECRET")),
		SessionTTL:         getdur("SESSION_TTL", 14*24*time.Hour),
		VerificationPeriod: getdur("VERIFICATION_PERIOD", 10*time.Minute),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    getenv("EMAIL_FROM", "hello@wicki.dev"),
	}
}

// LoadDatabase reads only the settings the ops tooling needs, so it works
// without SESSION_SECRET.
func LoadDatabase() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load .env", "error", err)
	}
	return Config{
		AppEnv:         getenv("APP_ENV", EnvDevelopment),
		DatabaseDriver: getenv("DATABASE_DRIVER", "sqlite"),
		DatabaseURL:    getenv("DATABASE_URL", "file:wicki.db"),
		LogSQL:         getbool("LOG_SQL", false),
		LogLevel:       getenv("LOG_LEVEL", "info"),
	}
}

func (c Config) IsDevelopment() bool { return c.AppEnv == EnvDevelopment }

// SecureCookies reports whether cookies must carry the Secure attribute.
func (c Config) SecureCookies() bool {
	return c.AppEnv == EnvPreview || c.AppEnv == EnvProduction
}

func splitSecrets(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		slog.Error("SESSION_SECRET holds no usable secret")
		os.Exit(1)
	}
	return out
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getlist(k string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(k), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("invalid integer, using default", "key", k, "value", v, "default", def)
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("invalid duration, using default", "key", k, "value", v, "default", def)
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("missing required env", "key", k)
		os.Exit(1)
	}
	return v
}
