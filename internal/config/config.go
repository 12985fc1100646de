// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr   string
	SecretsPath  string
	EnvFile      string
	FetchTimeout time.Duration
	FetchLimit   int
	WatchSecrets bool
}

// Load reads configuration from environment variables and returns a validated
// Config. Before reading any credential sources it loads the optional .env
// file (REPORTDECK_ENV_FILE, default ".env") into the process environment;
// values already set in the environment are not overridden, and a missing
// file is not an error. Credential sources themselves (the secrets file and
// the SUPABASE_* variables) are resolved later and are never required here.
// Optional variables with defaults: REPORTDECK_LISTEN_ADDR (127.0.0.1:8080),
// REPORTDECK_SECRETS_PATH (secrets.yaml), REPORTDECK_FETCH_TIMEOUT (5s),
// REPORTDECK_FETCH_LIMIT (1000), REPORTDECK_WATCH_SECRETS (true).
func Load() (*Config, error) {
	envFile := ".env"
	if v, ok := os.LookupEnv("REPORTDECK_ENV_FILE"); ok && v != "" {
		envFile = v
	}
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file %q: %w", envFile, err)
		}
	} else {
		slog.Info("env file loaded", "path", envFile)
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("REPORTDECK_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	secretsPath := "secrets.yaml"
	if v, ok := os.LookupEnv("REPORTDECK_SECRETS_PATH"); ok {
		secretsPath = v
	}

	fetchTimeout := 5 * time.Second
	if v, ok := os.LookupEnv("REPORTDECK_FETCH_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("REPORTDECK_FETCH_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("REPORTDECK_FETCH_TIMEOUT must be positive, got %q", v)
		}
		fetchTimeout = parsed
	}

	fetchLimit := 1000
	if v, ok := os.LookupEnv("REPORTDECK_FETCH_LIMIT"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("REPORTDECK_FETCH_LIMIT must be a positive integer, got %q", v)
		}
		fetchLimit = parsed
	}

	watchSecrets := true
	if v, ok := os.LookupEnv("REPORTDECK_WATCH_SECRETS"); ok {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("REPORTDECK_WATCH_SECRETS must be a boolean, got %q", v)
		}
		watchSecrets = parsed
	}

	return &Config{
		ListenAddr:   listenAddr,
		SecretsPath:  secretsPath,
		EnvFile:      envFile,
		FetchTimeout: fetchTimeout,
		FetchLimit:   fetchLimit,
		WatchSecrets: watchSecrets,
	}, nil
}
