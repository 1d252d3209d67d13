package feedex

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string
	dsn      string

	indexName string
	keyPrefix string
	timeout   time.Duration
	migrate   bool

	minLimit  int
	maxLimit  int
	batchSize int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the search index connection.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithPostgres configures the record store connection.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dsn = dsn
	})
}

// WithIndex overrides the search index name and document key prefix.
// Defaults: "feedex:idx:feeds" and "feedex:".
func WithIndex(name, keyPrefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexName = name
		c.keyPrefix = keyPrefix
	})
}

// WithTimeout bounds every index and store call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithMigrate applies record store migrations on connect.
func WithMigrate() Option {
	return optionFunc(func(c *clientConfig) {
		c.migrate = true
	})
}

// WithLimits sets the page size bounds. Defaults: 1 and 100.
func WithLimits(minLimit, maxLimit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.minLimit = minLimit
		c.maxLimit = maxLimit
	})
}

// WithReconcileBatchSize sets how many records a reconciliation batch reads.
// Default: 500.
func WithReconcileBatchSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.batchSize = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
