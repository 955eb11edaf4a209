// Package hecship provides a client for shipping events to an HTTP event collector.
//
// Example usage:
//
//	cfg := hecship.DefaultConfig()
//	cfg.Token = "your-token"
//	cfg.CollectorHost = "collector.example.com"
//	client, err := hecship.Dial(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//	_ = client.Send(hecship.Event{"event": "started"})
//
// The full API lives in github.com/bft-labs/hecship/pkg/hecship.
package hecship

import (
	"github.com/bft-labs/hecship/pkg/hecship"
)

// Config holds the configuration for a Client.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = hecship.Config

// Client submits events to an HTTP event collector.
type Client = hecship.Client

// Event is a mapping of field names to JSON-encodable values.
type Event = hecship.Event

// Option configures optional behavior of a Client.
type Option = hecship.Option

// DefaultConfig returns a Config with sensible default values.
// At minimum, you must set Token and CollectorHost before calling Dial.
func DefaultConfig() Config {
	return hecship.DefaultConfig()
}

// Dial creates a Client and opens it. The caller must Close it.
func Dial(cfg Config, opts ...Option) (*Client, error) {
	c, err := hecship.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Open(); err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultPort is the collector's conventional port.
const DefaultPort = hecship.DefaultPort
