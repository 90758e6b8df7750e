package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	errInvalidPort           = errors.New("config: invalid PORT number")
	errConcurrencyOutOfRange = errors.New("config: BATCH_CONCURRENCY must be 1-32")
	errInvalidTimeout        = errors.New("config: FETCH_TIMEOUT must be positive")
	errInvalidBodyLimit      = errors.New("config: MAX_BODY_BYTES must be positive")
	errNoOrigins             = errors.New("config: ALLOWED_ORIGINS must list at least one origin")
)

// Config holds all application configuration. Values come from an optional
// YAML file named by CONFIG_FILE, overridden by environment variables.
type Config struct {
	Port                 string        `yaml:"port"`
	LogLevel             string        `yaml:"log_level"`
	BatchConcurrency     int           `yaml:"batch_concurrency"`
	FetchTimeout         time.Duration `yaml:"fetch_timeout"`
	MaxBodyBytes         int64         `yaml:"max_body_bytes"`
	AllowedOrigins       []string      `yaml:"allowed_origins"`
	AllowPrivateNetworks bool          `yaml:"allow_private_networks"`
	UserAgent            string        `yaml:"user_agent"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:             "8080",
		LogLevel:         "ERROR",
		BatchConcurrency: 4,
		FetchTimeout:     10 * time.Second,
		MaxBodyBytes:     10 << 20,
		AllowedOrigins:   []string{"*"},
		UserAgent:        "PalettePagesBot/1.0",
	}
}

// Load reads the optional config file, then environment variables, and
// validates the result.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.readFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.BatchConcurrency = getEnvAsInt("BATCH_CONCURRENCY", cfg.BatchConcurrency)
	cfg.FetchTimeout = getEnvAsDuration("FETCH_TIMEOUT", cfg.FetchTimeout)
	cfg.MaxBodyBytes = int64(getEnvAsInt("MAX_BODY_BYTES", int(cfg.MaxBodyBytes)))
	cfg.AllowedOrigins = getEnvAsList("ALLOWED_ORIGINS", cfg.AllowedOrigins)
	cfg.AllowPrivateNetworks = getEnvAsBool("ALLOW_PRIVATE_NETWORKS", cfg.AllowPrivateNetworks)
	cfg.UserAgent = getEnv("USER_AGENT", cfg.UserAgent)

	return cfg, cfg.validate()
}

// readFile overlays the YAML file at path onto c. Keys absent from the
// file keep their current values.
func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return nil
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Port)
	}

	if c.BatchConcurrency < 1 || c.BatchConcurrency > 32 {
		return fmt.Errorf("%w: got %d", errConcurrencyOutOfRange, c.BatchConcurrency)
	}

	if c.FetchTimeout <= 0 {
		return fmt.Errorf("%w: got %s", errInvalidTimeout, c.FetchTimeout)
	}

	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: got %d", errInvalidBodyLimit, c.MaxBodyBytes)
	}

	if len(c.AllowedOrigins) == 0 {
		return errNoOrigins
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsBool(key string, fallback bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return v
}

// getEnvAsList splits a comma-separated variable, dropping empty entries.
func getEnvAsList(key string, fallback []string) []string {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
