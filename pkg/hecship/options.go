package hecship

import (
	"github.com/bft-labs/hecship/internal/ports"
	"github.com/bft-labs/hecship/pkg/log"
)

// HTTPClient is the interface for making HTTP requests.
// *http.Client satisfies this interface.
type HTTPClient = ports.HTTPClient

// Transport delivers one request body to the collector.
type Transport = ports.Transport

// TransportFunc adapts a function to Transport.
type TransportFunc = ports.TransportFunc

// Encoder serializes events.
type Encoder = ports.Encoder

// Clock supplies the current time and timers.
type Clock = ports.Clock

// Option configures optional behavior of a Client.
type Option func(*options)

// options holds the optional configuration for a Client.
type options struct {
	httpClient     ports.HTTPClient
	transport      ports.Transport
	encoder        ports.Encoder
	clock          ports.Clock
	hostname       ports.HostnameFunc
	logger         log.Logger
	outcomeHandler OutcomeHandler
}

// WithHTTPClient sets a custom HTTP client for collector requests.
// If not provided, a client honoring HTTPTimeout and InsecureSkipVerify is used.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithTransport replaces the HTTP transport entirely. WithHTTPClient is
// ignored when a transport is set.
func WithTransport(t Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithEncoder sets the event encoder. Defaults to JSON.
func WithEncoder(e Encoder) Option {
	return func(o *options) {
		o.encoder = e
	}
}

// WithClock sets the clock used for event timestamps and shutdown timers.
func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithHostnameResolver sets the function used to resolve the local host name
// when Config.LocalHost is empty. Defaults to os.Hostname.
func WithHostnameResolver(fn func() (string, error)) Option {
	return func(o *options) {
		o.hostname = fn
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithOutcomeHandler sets a handler for delivery outcomes and state changes.
// If not provided, outcomes are only logged.
func WithOutcomeHandler(handler OutcomeHandler) Option {
	return func(o *options) {
		o.outcomeHandler = handler
	}
}
