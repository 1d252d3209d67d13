package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{DSN: "postgres://localhost/feedex"},
		Index:    IndexConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{"invalid port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"missing dsn", func(c *Config) { c.Database.DSN = "" }, "database.dsn"},
		{"missing index addrs", func(c *Config) { c.Index.Addrs = nil }, "index.addrs"},
		{"min above max", func(c *Config) { c.Pagination.MinLimit = 200 }, "pagination.min_limit"},
		{"bad cron", func(c *Config) { c.Reconcile.Cron = "sometimes" }, "reconcile.cron"},
		{"negative rate", func(c *Config) { c.Reconcile.BatchesPerSecond = -1 }, "batches_per_second"},
		{"negative lock ttl", func(c *Config) { c.Reconcile.LockTTLSec = -1 }, "lock_ttl_sec"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("error %q does not mention %q", err, tt.errSub)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.QueryTimeout() != 2*time.Second {
		t.Errorf("expected QueryTimeout=2s, got %s", cfg.Database.QueryTimeout())
	}
	if cfg.Index.KeyPrefix != "feedex:" {
		t.Errorf("expected KeyPrefix='feedex:', got %q", cfg.Index.KeyPrefix)
	}
	if cfg.Index.Name != "feedex:idx:feeds" {
		t.Errorf("expected index name 'feedex:idx:feeds', got %q", cfg.Index.Name)
	}
	if cfg.Pagination.MinLimit != 1 || cfg.Pagination.MaxLimit != 100 {
		t.Errorf("expected limits 1/100, got %d/%d", cfg.Pagination.MinLimit, cfg.Pagination.MaxLimit)
	}
	if cfg.Reconcile.Cron != "*/5 * * * *" {
		t.Errorf("expected default cron, got %q", cfg.Reconcile.Cron)
	}
	if cfg.Reconcile.BatchSize != 500 {
		t.Errorf("expected BatchSize=500, got %d", cfg.Reconcile.BatchSize)
	}
	if cfg.Reconcile.LockTTL() != 0 {
		t.Errorf("lease must be off by default, got %s", cfg.Reconcile.LockTTL())
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:       HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Index:      IndexConfig{KeyPrefix: "custom:", TimeoutMs: 250},
		Pagination: PaginationConfig{MinLimit: 10, MaxLimit: 50},
		Reconcile:  ReconcileConfig{BatchSize: 100, Cron: "0 * * * *"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Index.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Index.KeyPrefix)
	}
	if cfg.Index.Timeout() != 250*time.Millisecond {
		t.Errorf("expected Timeout=250ms, got %s", cfg.Index.Timeout())
	}
	if cfg.Index.LockKey() != "custom:reconcile:lock" {
		t.Errorf("lock key = %q", cfg.Index.LockKey())
	}
	if cfg.Pagination.MaxLimit != 50 || cfg.Reconcile.BatchSize != 100 {
		t.Errorf("overrides lost: %+v %+v", cfg.Pagination, cfg.Reconcile)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("FEEDEX_TEST_DSN", "postgres://db/feeds")

	data := []byte(`
http:
  port: ${FEEDEX_TEST_PORT:-9090}
database:
  dsn: ${FEEDEX_TEST_DSN}
index:
  addrs: ["${FEEDEX_TEST_REDIS:-localhost:6379}"]
reconcile:
  enabled: true
  lock_ttl_sec: 120
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d, want default 9090", cfg.HTTP.Port)
	}
	if cfg.Database.DSN != "postgres://db/feeds" {
		t.Errorf("dsn = %q", cfg.Database.DSN)
	}
	if len(cfg.Index.Addrs) != 1 || cfg.Index.Addrs[0] != "localhost:6379" {
		t.Errorf("addrs = %v", cfg.Index.Addrs)
	}
	if !cfg.Reconcile.Enabled || cfg.Reconcile.LockTTL() != 2*time.Minute {
		t.Errorf("reconcile = %+v", cfg.Reconcile)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Error("expected parse error")
	}
	if _, err := Parse([]byte("http:\n  port: 8080\n")); err == nil {
		t.Error("expected validation error")
	}
}

func TestLoad_RepoConfigs(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://localhost/feedex")
	for _, env := range []string{"local", "prod"} {
		if _, err := Load(env); err != nil {
			t.Errorf("Load(%q): %v", env, err)
		}
	}
}
