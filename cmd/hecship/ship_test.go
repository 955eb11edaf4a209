package main

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jsonAdapter "github.com/bft-labs/hecship/internal/adapters/json"
	"github.com/bft-labs/hecship/internal/cliconfig"
	"github.com/bft-labs/hecship/internal/tail"
	"github.com/bft-labs/hecship/pkg/hecship"
	"github.com/bft-labs/hecship/pkg/log"
)

func newTestShipper(t *testing.T, immediate bool) (*shipper, *atomic.Int32, *deliveryCounter) {
	t.Helper()
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	t.Cleanup(srv.Close)

	host, portStr, err := net.SplitHostPort(strings.TrimPrefix(srv.URL, "http://"))
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := cliconfig.DefaultConfig()
	cfg.Token = "tok"
	cfg.CollectorHost = host
	cfg.Port = port
	cfg.UseTLS = false
	require.NoError(t, cfg.Validate())

	counter := &deliveryCounter{}
	client, err := hecship.New(cfg.ClientConfig(), hecship.WithOutcomeHandler(counter))
	require.NoError(t, err)
	require.NoError(t, client.Open())

	return &shipper{
		client:    client,
		decoder:   jsonAdapter.NewEncoder(),
		immediate: immediate,
		logger:    log.NewNoopLogger(),
	}, &requests, counter
}

const input = `{"event":"a"}
not json
[1,2,3]

{"event":"b","host":"web-1"}
null
`

func TestShipper_Batched(t *testing.T) {
	s, requests, counter := newTestShipper(t, false)

	require.NoError(t, tail.ReadLines(context.Background(), strings.NewReader(input), s.handle))
	require.NoError(t, s.client.Close())

	assert.Equal(t, 2, s.submitted)
	assert.Equal(t, 3, s.skipped)
	assert.EqualValues(t, 1, requests.Load(), "both events share one batch")
	assert.EqualValues(t, 2, counter.events.Load())
	assert.Zero(t, counter.failed.Load())
}

func TestShipper_Immediate(t *testing.T) {
	s, requests, counter := newTestShipper(t, true)

	require.NoError(t, tail.ReadLines(context.Background(), strings.NewReader(input), s.handle))
	assert.EqualValues(t, 2, requests.Load(), "one request per event")

	require.NoError(t, s.client.Close())
	assert.EqualValues(t, 2, counter.delivered.Load())
}

func TestShipper_ClosedClient(t *testing.T) {
	s, _, _ := newTestShipper(t, false)
	require.NoError(t, s.client.Close())

	err := s.handle([]byte(`{"event":"late"}`))
	assert.ErrorIs(t, err, hecship.ErrClosed)
}
