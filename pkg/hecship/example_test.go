package hecship_test

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/bft-labs/hecship/pkg/hecship"
)

// ExampleNew demonstrates batching events to a collector.
func ExampleNew() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Println(r.Method, r.URL.Path, r.Header.Get("Authorization"))
	}))
	defer srv.Close()

	host, portStr, _ := net.SplitHostPort(strings.TrimPrefix(srv.URL, "http://"))
	port, _ := strconv.Atoi(portStr)

	cfg := hecship.DefaultConfig()
	cfg.Token = "00000000-0000-0000-0000-000000000000"
	cfg.CollectorHost = host
	cfg.Port = port
	cfg.UseTLS = false

	client, err := hecship.New(cfg)
	if err != nil {
		fmt.Printf("failed to create client: %v\n", err)
		return
	}
	if err := client.Open(); err != nil {
		fmt.Printf("failed to open: %v\n", err)
		return
	}

	_ = client.Append(hecship.Event{"event": "login", "user": "ada"})
	_ = client.Append(hecship.Event{"event": "logout", "user": "ada"})
	_ = client.Flush()

	_ = client.Close()
	fmt.Println(client.Status())

	// Output:
	// POST /services/collector/event Splunk 00000000-0000-0000-0000-000000000000
	// Closed
}

// ExampleConfig_URI shows the endpoint derived from a configuration.
func ExampleConfig_URI() {
	cfg := hecship.DefaultConfig()
	cfg.CollectorHost = "collector.example.com"
	fmt.Println(cfg.URI())

	// Output: https://collector.example.com:8088/services/collector/event
}

// Example_withOutcomeHandler demonstrates observing delivery outcomes.
func Example_withOutcomeHandler() {
	cfg := hecship.DefaultConfig()
	cfg.Token = "token"
	cfg.CollectorHost = "collector.example.com"

	client, err := hecship.New(cfg, hecship.WithOutcomeHandler(&failureCounter{}))
	if err != nil {
		fmt.Printf("failed to create client: %v\n", err)
		return
	}

	_ = client // Open, submit, Close...
}

// failureCounter implements hecship.OutcomeHandler.
type failureCounter struct {
	hecship.BaseOutcomeHandler // Embed for no-op defaults
}

func (f *failureCounter) OnFailed(event hecship.FailedEvent) {
	fmt.Printf("unit %d (%d events) failed: %v\n", event.Seq, event.Events, event.Err)
}
