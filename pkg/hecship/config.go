package hecship

import (
	"fmt"
	"time"

	httpAdapter "github.com/bft-labs/hecship/internal/adapters/http"
	"github.com/bft-labs/hecship/internal/app"
)

// Default configuration values.
const (
	DefaultPort            = 8088
	DefaultMaxBatchBytes   = 100000
	DefaultWorkers         = 10
	DefaultQueueCapacity   = 1024
	DefaultOverflow        = "block"
	DefaultAuthScheme      = "Splunk"
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

// Config holds the configuration for a Client.
// Start from DefaultConfig(): UseTLS defaults to true only there.
type Config struct {
	// Token is the collector credential. Required.
	Token string

	// CollectorHost is the collector's host name or address. Required.
	CollectorHost string

	// LocalHost is stamped into events lacking a "host" key.
	// Defaults to the machine hostname.
	LocalHost string

	// Port is the collector port.
	Port int

	// UseTLS selects https over http.
	UseTLS bool

	// InsecureSkipVerify disables certificate verification.
	InsecureSkipVerify bool

	// MaxBatchBytes is the serialized size at which a batch is cut.
	MaxBatchBytes int

	// Workers is the fixed number of delivery goroutines.
	Workers int

	// QueueCapacity bounds the dispatch queue. Zero means unbounded.
	QueueCapacity int

	// Overflow is the policy applied when the queue is full:
	// "block", "drop-oldest" or "reject".
	Overflow string

	// HTTPTimeout bounds each POST.
	HTTPTimeout time.Duration

	// ShutdownTimeout bounds how long Close waits for the queue to drain.
	ShutdownTimeout time.Duration

	// Gzip compresses request bodies.
	Gzip bool

	// AuthScheme prefixes the token in the Authorization header.
	AuthScheme string

	// Debug logs every enqueue, delivery and failure at debug level.
	Debug bool
}

// DefaultConfig returns a Config with sensible default values.
// At minimum, Token and CollectorHost must be set before calling New.
func DefaultConfig() Config {
	return Config{
		Port:            DefaultPort,
		UseTLS:          true,
		MaxBatchBytes:   DefaultMaxBatchBytes,
		Workers:         DefaultWorkers,
		QueueCapacity:   DefaultQueueCapacity,
		Overflow:        DefaultOverflow,
		HTTPTimeout:     DefaultHTTPTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		AuthScheme:      DefaultAuthScheme,
	}
}

// SetDefaults fills zero-valued numeric, duration and string fields.
// UseTLS and QueueCapacity are left as given.
func (c *Config) SetDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.MaxBatchBytes == 0 {
		c.MaxBatchBytes = DefaultMaxBatchBytes
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.Overflow == "" {
		c.Overflow = DefaultOverflow
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.AuthScheme == "" {
		c.AuthScheme = DefaultAuthScheme
	}
}

// Validate checks the configuration for errors.
// Every returned error wraps ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("%w: token is required", ErrInvalidConfig)
	}
	if c.CollectorHost == "" {
		return fmt.Errorf("%w: collector host is required", ErrInvalidConfig)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range 1-65535", ErrInvalidConfig, c.Port)
	}
	if c.MaxBatchBytes <= 0 {
		return fmt.Errorf("%w: max batch bytes must be positive", ErrInvalidConfig)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	}
	if c.QueueCapacity < 0 {
		return fmt.Errorf("%w: queue capacity must not be negative", ErrInvalidConfig)
	}
	if _, err := app.ParseOverflowPolicy(c.Overflow); err != nil {
		return err
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: http timeout must be positive", ErrInvalidConfig)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdown timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// URI returns the collector endpoint derived from the configuration.
func (c Config) URI() string {
	return httpAdapter.CollectorURI(c.CollectorHost, c.Port, c.UseTLS)
}
