package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bft-labs/hecship/pkg/hecship"
)

// Config holds CLI configuration for hecship.
type Config struct {
	Token         string
	CollectorHost string
	LocalHost     string
	Port          int
	UseTLS        bool

	InsecureSkipVerify bool

	MaxBatchBytes   int
	Workers         int
	QueueCapacity   int
	Overflow        string
	Gzip            bool
	HTTPTimeout     time.Duration
	ShutdownTimeout time.Duration
	Debug           bool

	LogLevel string
	LogFile  string

	File      string
	Follow    bool
	Immediate bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	lib := hecship.DefaultConfig()
	return Config{
		Port:            lib.Port,
		UseTLS:          lib.UseTLS,
		MaxBatchBytes:   lib.MaxBatchBytes,
		Workers:         lib.Workers,
		QueueCapacity:   lib.QueueCapacity,
		Overflow:        lib.Overflow,
		HTTPTimeout:     lib.HTTPTimeout,
		ShutdownTimeout: lib.ShutdownTimeout,
		LogLevel:        "info",
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Follow && c.File == "" {
		return fmt.Errorf("follow requires file")
	}
	return c.ClientConfig().Validate()
}

// ClientConfig converts the CLI configuration to a client configuration.
func (c *Config) ClientConfig() hecship.Config {
	cfg := hecship.DefaultConfig()
	cfg.Token = c.Token
	cfg.CollectorHost = c.CollectorHost
	cfg.LocalHost = c.LocalHost
	cfg.Port = c.Port
	cfg.UseTLS = c.UseTLS
	cfg.InsecureSkipVerify = c.InsecureSkipVerify
	cfg.MaxBatchBytes = c.MaxBatchBytes
	cfg.Workers = c.Workers
	cfg.QueueCapacity = c.QueueCapacity
	cfg.Overflow = c.Overflow
	cfg.Gzip = c.Gzip
	cfg.HTTPTimeout = c.HTTPTimeout
	cfg.ShutdownTimeout = c.ShutdownTimeout
	cfg.Debug = c.Debug
	return cfg
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
