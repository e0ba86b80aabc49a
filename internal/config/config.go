// Package config loads and validates application configuration.
// Values come from an optional YAML file and from environment variables;
// a non-empty environment variable always wins over the file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "3000".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (the admin UI dev server).
	CORSOrigins []string

	// StorageDriver selects the bus and fare store: "postgres" or "memory".
	StorageDriver string

	// DatabaseURL is the Postgres connection string. Required for the
	// postgres driver.
	DatabaseURL string

	// MigrateOnStart applies pending goose migrations before serving.
	MigrateOnStart bool

	SMTP SMTP

	// AdminEmail receives contact-form notifications. Falls back to SMTP.From.
	AdminEmail string

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// SMTP holds outgoing mail settings. An empty Host disables delivery.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether an SMTP relay is configured.
func (s SMTP) Enabled() bool {
	return s.Host != ""
}

// fileConfig is the on-disk YAML layout.
type fileConfig struct {
	Port           string   `yaml:"port"`
	LogLevel       string   `yaml:"log_level"`
	CORSOrigins    []string `yaml:"cors_origins"`
	StorageDriver  string   `yaml:"storage_driver"`
	DatabaseURL    string   `yaml:"database_url"`
	MigrateOnStart *bool    `yaml:"migrate_on_start"`
	SMTP           struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
	} `yaml:"smtp"`
	AdminEmail   string `yaml:"admin_email"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

// Load reads the YAML file at path (skipped when path is empty), applies
// environment overrides and returns a validated Config.
func Load(path string) (Config, error) {
	var f fileConfig
	if path != "" {
		if err := readFile(path, &f); err != nil {
			return Config{}, err
		}
	}

	cfg := Config{
		Port:          getEnv("PORT", or(f.Port, "3000")),
		LogLevel:      getEnv("LOG_LEVEL", or(f.LogLevel, "info")),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", or(f.StorageDriver, StoragePostgres))),
		DatabaseURL:   getEnv("DATABASE_URL", f.DatabaseURL),
		SMTP: SMTP{
			Host:     getEnv("SMTP_HOST", f.SMTP.Host),
			Username: getEnv("SMTP_USERNAME", f.SMTP.Username),
			Password: getEnv("SMTP_PASSWORD", f.SMTP.Password),
			From:     getEnv("SMTP_FROM", f.SMTP.From),
		},
		AdminEmail: getEnv("ADMIN_EMAIL", f.AdminEmail),
	}

	cfg.CORSOrigins = f.CORSOrigins
	if v := os.Getenv("CORS_ORIGINS"); v != "" || len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = splitCSV(or(v, "http://localhost:5173"))
	}
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = cfg.SMTP.From
	}

	var errs []error

	migrate := true
	if f.MigrateOnStart != nil {
		migrate = *f.MigrateOnStart
	}
	cfg.MigrateOnStart, errs = parseEnv(errs, "MIGRATE_ON_START", migrate, strconv.ParseBool)

	cfg.SMTP.Port, errs = parseEnv(errs, "SMTP_PORT", orInt(f.SMTP.Port, 587), strconv.Atoi)

	cfg.MaxBodyBytes, errs = parseEnv(errs, "MAX_BODY_BYTES", orInt(f.MaxBodyBytes, 1<<20),
		func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) })
	if cfg.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES must be positive"))
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, errors.New("required environment variables not set: DATABASE_URL"))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StoragePostgres, StorageMemory, cfg.StorageDriver))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string, f *fileConfig) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config.Load: reading %q: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config.Load: parsing %q: %w", path, err)
	}
	return nil
}

// parseEnv parses the environment variable key with parse, returning
// fallback when it is unset. A parse failure is appended to errs.
func parseEnv[T any](errs []error, key string, fallback T, parse func(string) (T, error)) (T, []error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, errs
	}
	out, err := parse(strings.TrimSpace(v))
	if err != nil {
		return fallback, append(errs, fmt.Errorf("%s: invalid value %q", key, v))
	}
	return out, errs
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func orInt[T int | int64](v, fallback T) T {
	if v != 0 {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
