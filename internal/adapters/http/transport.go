package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/bft-labs/hecship/internal/domain"
	"github.com/bft-labs/hecship/internal/ports"
	"github.com/bft-labs/hecship/pkg/log"
)

// CollectorPath is the fixed event endpoint on the collector.
const CollectorPath = "/services/collector/event"

// maxErrorBody bounds how much of a failed response is kept in the error.
const maxErrorBody = 512

// CollectorURI builds {scheme}://{host}:{port}/services/collector/event.
func CollectorURI(host string, port int, useTLS bool) string {
	scheme := "http"
	if useTLS {
		scheme = "https"
	}
	return scheme + "://" + net.JoinHostPort(host, strconv.Itoa(port)) + CollectorPath
}

// NewHTTPClient returns a client with the given timeout. Certificate
// verification stays on unless insecureSkipVerify is set.
func NewHTTPClient(timeout time.Duration, insecureSkipVerify bool) *http.Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: insecureSkipVerify, //nolint:gosec // opt-in per instance
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

// Config holds the request parameters for a Transport.
type Config struct {
	// URI is the full collector endpoint
	URI string

	// Token is sent as "<AuthScheme> <Token>" in the Authorization header
	Token string

	// AuthScheme prefixes the token, e.g. "Splunk"
	AuthScheme string

	// UserAgent is sent when non-empty
	UserAgent string

	// Gzip compresses bodies and sets Content-Encoding
	Gzip bool
}

// Transport implements ports.Transport with one HTTP POST per body.
type Transport struct {
	client ports.HTTPClient
	cfg    Config
	logger log.Logger
}

// NewTransport creates a new HTTP transport.
func NewTransport(client ports.HTTPClient, cfg Config, logger log.Logger) *Transport {
	return &Transport{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// URI returns the endpoint requests are posted to.
func (t *Transport) URI() string {
	return t.cfg.URI
}

// Deliver posts body to the collector. It never retries.
func (t *Transport) Deliver(ctx context.Context, body []byte) error {
	payload := body
	if t.cfg.Gzip {
		compressed, err := gzipBody(body)
		if err != nil {
			return fmt.Errorf("%w: compress body: %w", domain.ErrTransport, err)
		}
		payload = compressed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.URI, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: create request: %w", domain.ErrTransport, err)
	}

	req.Header.Set("Authorization", t.cfg.AuthScheme+" "+t.cfg.Token)
	req.Header.Set("Content-Type", "application/json")
	if t.cfg.Gzip {
		req.Header.Set("Content-Encoding", "gzip")
	}
	if t.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", t.cfg.UserAgent)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: send request: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: server returned %d: %s", domain.ErrTransport, resp.StatusCode, string(respBody))
	}

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	t.logger.Debug("posted body",
		log.Int("bytes", len(body)),
		log.Int("wire_bytes", len(payload)),
		log.Int("status", resp.StatusCode),
	)
	return nil
}

func gzipBody(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		_ = zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
