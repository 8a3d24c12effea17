package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMissingBackendURL is returned when no backend URL is configured.
	ErrMissingBackendURL = errors.New("missing env CRM_BACKEND_URL")
	// ErrMissingBackendKey is returned when no anonymous access key is configured.
	ErrMissingBackendKey = errors.New("missing env CRM_BACKEND_ANON_KEY")
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string
	Backend         BackendConfig
	StatePath       string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	MetricsEnabled  bool
	Log             LogConfig
}

// BackendConfig points at the hosted data backend.
type BackendConfig struct {
	URL     string
	AnonKey string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	AppEnv   string
	Level    string
	Encoding string
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	return Config{
		HTTPAddr: envOrDefault("HTTP_ADDR", ":8080"),
		Backend: BackendConfig{
			URL:     firstEnv("CRM_BACKEND_URL", "SUPABASE_URL"),
			AnonKey: firstEnv("CRM_BACKEND_ANON_KEY", "SUPABASE_ANON_KEY"),
		},
		StatePath:       envOrDefault("STATE_PATH", "data/crm-state.db"),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		AllowedOrigins:  envList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		MetricsEnabled:  envBool("METRICS_ENABLED", true),
		Log: LogConfig{
			AppEnv:   envOrDefault("APP_ENV", "production"),
			Level:    envOrDefault("LOG_LEVEL", "info"),
			Encoding: envOrDefault("LOG_ENCODING", "json"),
		},
	}
}

// Validate reports configuration that prevents startup.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Backend.URL) == "" {
		return ErrMissingBackendURL
	}
	if strings.TrimSpace(c.Backend.AnonKey) == "" {
		return ErrMissingBackendKey
	}
	return nil
}

// MaskedKey renders the anonymous key safe for logs.
func (b BackendConfig) MaskedKey() string {
	if len(b.AnonKey) <= 10 {
		return "***"
	}
	return b.AnonKey[:10] + "..."
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
