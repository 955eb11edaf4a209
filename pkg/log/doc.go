// Package log provides a logging abstraction for hecship components.
//
// This package defines a Logger interface that can be implemented by
// any logging library. A zerolog adapter and a no-op logger are provided.
//
// # Usage
//
// Use the provided zerolog adapter:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//
// Derive a component logger that stamps every entry:
//
//	poolLog := log.With(logger, log.String("component", "pool"))
//
// Or use the no-op logger for testing:
//
//	logger := log.NewNoopLogger()
package log
