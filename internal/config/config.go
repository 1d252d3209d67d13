package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/adhocore/gronx"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the feedex configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Index      IndexConfig      `yaml:"index"`
	Pagination PaginationConfig `yaml:"pagination"`
	Reconcile  ReconcileConfig  `yaml:"reconcile"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`

	AdminAPIKeys []string `yaml:"admin_api_keys"` // empty = admin endpoints unauthenticated
}

// DatabaseConfig holds record store (PostgreSQL) settings.
type DatabaseConfig struct {
	DSN              string `yaml:"dsn"`
	MaxOpenConns     int    `yaml:"max_open_conns"`
	MaxIdleConns     int    `yaml:"max_idle_conns"`
	ConnMaxLifetime  int    `yaml:"conn_max_lifetime_sec"`
	QueryTimeoutMs   int    `yaml:"query_timeout_ms"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
	Migrate          bool   `yaml:"migrate"`
}

// IndexConfig holds search index (Redis) settings.
type IndexConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	KeyPrefix        string   `yaml:"key_prefix"`
	Name             string   `yaml:"name"`
	TimeoutMs        int      `yaml:"timeout_ms"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// PaginationConfig holds page size bounds.
type PaginationConfig struct {
	MinLimit int `yaml:"min_limit"`
	MaxLimit int `yaml:"max_limit"`
}

// ReconcileConfig holds reconciliation batch settings.
type ReconcileConfig struct {
	Enabled          bool    `yaml:"enabled"`
	Cron             string  `yaml:"cron"`
	BatchSize        int     `yaml:"batch_size"`
	BatchesPerSecond float64 `yaml:"batches_per_second"` // 0 = unlimited
	RunOnStart       bool    `yaml:"run_on_start"`
	LockTTLSec       int     `yaml:"lock_ttl_sec"` // 0 = no cross-replica lease
}

// QueryTimeout returns the per-query record store timeout.
func (c DatabaseConfig) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutMs) * time.Millisecond
}

// Timeout returns the per-command index timeout.
func (c IndexConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// LockKey returns the Redis key of the reconciliation lease.
func (c IndexConfig) LockKey() string {
	return c.KeyPrefix + "reconcile:lock"
}

// LockTTL returns the reconciliation lease TTL.
func (c ReconcileConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLSec) * time.Second
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, if present, is loaded first.
func Load(env string) (Config, error) {
	_ = godotenv.Load(".env")

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML with ${VAR} expansion, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = 20
	}
	if c.Database.MaxIdleConns <= 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime <= 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Database.QueryTimeoutMs <= 0 {
		c.Database.QueryTimeoutMs = 2000
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Index.KeyPrefix == "" {
		c.Index.KeyPrefix = "feedex:"
	}
	if c.Index.Name == "" {
		c.Index.Name = "feedex:idx:feeds"
	}
	if c.Index.TimeoutMs <= 0 {
		c.Index.TimeoutMs = 1000
	}
	if c.Index.ReadinessTimeout <= 0 {
		c.Index.ReadinessTimeout = 10
	}
	if c.Pagination.MinLimit <= 0 {
		c.Pagination.MinLimit = 1
	}
	if c.Pagination.MaxLimit <= 0 {
		c.Pagination.MaxLimit = 100
	}
	if c.Reconcile.Cron == "" {
		c.Reconcile.Cron = "*/5 * * * *"
	}
	if c.Reconcile.BatchSize <= 0 {
		c.Reconcile.BatchSize = 500
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if len(c.Index.Addrs) == 0 {
		return fmt.Errorf("index.addrs is required")
	}
	if c.Pagination.MinLimit > c.Pagination.MaxLimit {
		return fmt.Errorf("pagination.min_limit (%d) must not exceed pagination.max_limit (%d)",
			c.Pagination.MinLimit, c.Pagination.MaxLimit)
	}
	if !gronx.IsValid(c.Reconcile.Cron) {
		return fmt.Errorf("reconcile.cron is not a valid cron expression: %q", c.Reconcile.Cron)
	}
	if c.Reconcile.BatchesPerSecond < 0 {
		return fmt.Errorf("reconcile.batches_per_second must not be negative, got %g", c.Reconcile.BatchesPerSecond)
	}
	if c.Reconcile.LockTTLSec < 0 {
		return fmt.Errorf("reconcile.lock_ttl_sec must not be negative, got %d", c.Reconcile.LockTTLSec)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
