package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Token              string `toml:"token"`
	CollectorHost      string `toml:"collector_host"`
	LocalHost          string `toml:"local_host"`
	Port               int    `toml:"port"`
	UseTLS             *bool  `toml:"tls"`
	InsecureSkipVerify *bool  `toml:"insecure_skip_verify"`
	MaxBatchBytes      int    `toml:"max_batch_bytes"`
	Workers            int    `toml:"workers"`
	QueueCapacity      int    `toml:"queue_capacity"`
	Overflow           string `toml:"overflow"`
	Gzip               *bool  `toml:"gzip"`
	HTTPTimeout        string `toml:"http_timeout"`
	ShutdownTimeout    string `toml:"shutdown_timeout"`
	Debug              *bool  `toml:"debug"`
	LogLevel           string `toml:"log_level"`
	LogFile            string `toml:"log_file"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.hecship/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".hecship", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("token", fc.Token, &cfg.Token)
	s.setString("collector-host", fc.CollectorHost, &cfg.CollectorHost)
	s.setString("local-host", fc.LocalHost, &cfg.LocalHost)
	s.setString("overflow", fc.Overflow, &cfg.Overflow)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("log-file", fc.LogFile, &cfg.LogFile)

	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("shutdown-timeout", fc.ShutdownTimeout, &cfg.ShutdownTimeout); err != nil {
		return err
	}

	s.setInt("port", fc.Port, &cfg.Port)
	s.setInt("max-batch-bytes", fc.MaxBatchBytes, &cfg.MaxBatchBytes)
	s.setInt("workers", fc.Workers, &cfg.Workers)
	s.setInt("queue-capacity", fc.QueueCapacity, &cfg.QueueCapacity)

	s.setBool("tls", fc.UseTLS, &cfg.UseTLS)
	s.setBool("insecure-skip-verify", fc.InsecureSkipVerify, &cfg.InsecureSkipVerify)
	s.setBool("gzip", fc.Gzip, &cfg.Gzip)
	s.setBool("debug", fc.Debug, &cfg.Debug)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
