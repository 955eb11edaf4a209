package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (HECSHIP_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("token", os.Getenv("HECSHIP_TOKEN"), &cfg.Token)
	s.setString("collector-host", os.Getenv("HECSHIP_COLLECTOR_HOST"), &cfg.CollectorHost)
	s.setString("local-host", os.Getenv("HECSHIP_LOCAL_HOST"), &cfg.LocalHost)
	s.setString("overflow", os.Getenv("HECSHIP_OVERFLOW"), &cfg.Overflow)
	s.setString("log-level", os.Getenv("HECSHIP_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("log-file", os.Getenv("HECSHIP_LOG_FILE"), &cfg.LogFile)

	if err := s.setDuration("timeout", os.Getenv("HECSHIP_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("shutdown-timeout", os.Getenv("HECSHIP_SHUTDOWN_TIMEOUT"), &cfg.ShutdownTimeout); err != nil {
		return err
	}

	if err := s.setIntFromString("port", os.Getenv("HECSHIP_PORT"), &cfg.Port); err != nil {
		return err
	}
	if err := s.setIntFromString("max-batch-bytes", os.Getenv("HECSHIP_MAX_BATCH_BYTES"), &cfg.MaxBatchBytes); err != nil {
		return err
	}
	if err := s.setIntFromString("workers", os.Getenv("HECSHIP_WORKERS"), &cfg.Workers); err != nil {
		return err
	}
	if err := s.setIntFromString("queue-capacity", os.Getenv("HECSHIP_QUEUE_CAPACITY"), &cfg.QueueCapacity); err != nil {
		return err
	}

	s.setBoolFromString("tls", os.Getenv("HECSHIP_TLS"), &cfg.UseTLS)
	s.setBoolFromString("insecure-skip-verify", os.Getenv("HECSHIP_INSECURE_SKIP_VERIFY"), &cfg.InsecureSkipVerify)
	s.setBoolFromString("gzip", os.Getenv("HECSHIP_GZIP"), &cfg.Gzip)
	s.setBoolFromString("debug", os.Getenv("HECSHIP_DEBUG"), &cfg.Debug)

	return nil
}
