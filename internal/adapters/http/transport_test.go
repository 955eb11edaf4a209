package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/hecship/internal/domain"
	"github.com/bft-labs/hecship/pkg/log"
)

type capturedRequest struct {
	method string
	path   string
	header http.Header
	body   []byte
}

func newCollector(t *testing.T, status int) (*httptest.Server, func() []capturedRequest) {
	t.Helper()
	var mu sync.Mutex
	var reqs []capturedRequest

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, capturedRequest{
			method: r.Method,
			path:   r.URL.Path,
			header: r.Header.Clone(),
			body:   body,
		})
		mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"text":"Invalid token","code":4}`))
	}))
	t.Cleanup(ts.Close)

	return ts, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedRequest(nil), reqs...)
	}
}

func TestCollectorURI(t *testing.T) {
	tests := []struct {
		name   string
		host   string
		port   int
		useTLS bool
		want   string
	}{
		{"tls", "h", 8088, true, "https://h:8088/services/collector/event"},
		{"plain", "collector.local", 8080, false, "http://collector.local:8080/services/collector/event"},
		{"ipv6", "::1", 8088, true, "https://[::1]:8088/services/collector/event"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CollectorURI(tt.host, tt.port, tt.useTLS))
		})
	}
}

func TestTransport_Deliver(t *testing.T) {
	ts, requests := newCollector(t, http.StatusOK)

	tr := NewTransport(ts.Client(), Config{
		URI:        ts.URL + CollectorPath,
		Token:      "abc",
		AuthScheme: "Splunk",
		UserAgent:  "hecship/test",
	}, log.NewNoopLogger())

	body := []byte(`{"event":1} {"event":2}`)
	require.NoError(t, tr.Deliver(context.Background(), body))

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].method)
	assert.Equal(t, CollectorPath, reqs[0].path)
	assert.Equal(t, "Splunk abc", reqs[0].header.Get("Authorization"))
	assert.Equal(t, "application/json", reqs[0].header.Get("Content-Type"))
	assert.Equal(t, "hecship/test", reqs[0].header.Get("User-Agent"))
	assert.Empty(t, reqs[0].header.Get("Content-Encoding"))
	assert.Equal(t, body, reqs[0].body)
}

func TestTransport_DeliverGzip(t *testing.T) {
	ts, requests := newCollector(t, http.StatusOK)

	tr := NewTransport(ts.Client(), Config{
		URI:        ts.URL + CollectorPath,
		Token:      "abc",
		AuthScheme: "Bearer",
		Gzip:       true,
	}, log.NewNoopLogger())

	body := []byte(`{"event":"compressed"}`)
	require.NoError(t, tr.Deliver(context.Background(), body))

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "gzip", reqs[0].header.Get("Content-Encoding"))
	assert.Equal(t, "Bearer abc", reqs[0].header.Get("Authorization"))

	zr, err := gzip.NewReader(bytes.NewReader(reqs[0].body))
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, body, plain)
}

func TestTransport_DeliverNon2xx(t *testing.T) {
	ts, _ := newCollector(t, http.StatusForbidden)

	tr := NewTransport(ts.Client(), Config{URI: ts.URL + CollectorPath, Token: "bad", AuthScheme: "Splunk"}, log.NewNoopLogger())

	err := tr.Deliver(context.Background(), []byte(`{}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransport))
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "Invalid token")
}

func TestTransport_DeliverNetworkError(t *testing.T) {
	ts, _ := newCollector(t, http.StatusOK)
	uri := ts.URL + CollectorPath
	ts.Close()

	tr := NewTransport(NewHTTPClient(time.Second, false), Config{URI: uri, Token: "abc", AuthScheme: "Splunk"}, log.NewNoopLogger())

	err := tr.Deliver(context.Background(), []byte(`{}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestTransport_VerifiesCertificatesByDefault(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	cfg := Config{URI: ts.URL + CollectorPath, Token: "abc", AuthScheme: "Splunk"}

	strict := NewTransport(NewHTTPClient(5*time.Second, false), cfg, log.NewNoopLogger())
	assert.ErrorIs(t, strict.Deliver(context.Background(), []byte(`{}`)), domain.ErrTransport)

	lax := NewTransport(NewHTTPClient(5*time.Second, true), cfg, log.NewNoopLogger())
	assert.NoError(t, lax.Deliver(context.Background(), []byte(`{}`)))
}
