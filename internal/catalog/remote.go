package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// MaxRemoteBytes caps a downloaded catalog document.
const MaxRemoteBytes = 4 << 20

// IsRemote reports whether name is an http(s) URL.
func IsRemote(name string) bool {
	return strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://")
}

// NewHTTPReader returns a reader for catalog URLs. Requests are traced and
// each one is bounded by timeout.
func NewHTTPReader(timeout time.Duration) func(name string) ([]byte, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &http.Client{
		Timeout: timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return "catalog.fetch " + r.URL.Host
			})),
	}
	return func(name string) ([]byte, error) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, name, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json, application/yaml, text/yaml, */*")
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch catalog %s: status %d", name, resp.StatusCode)
		}
		b, err := io.ReadAll(io.LimitReader(resp.Body, MaxRemoteBytes+1))
		if err != nil {
			return nil, err
		}
		if len(b) > MaxRemoteBytes {
			return nil, fmt.Errorf("fetch catalog %s: larger than %d bytes", name, MaxRemoteBytes)
		}
		return b, nil
	}
}

// ReadLocation reads name from disk, or over HTTP when it is a URL.
func ReadLocation(remote func(string) ([]byte, error)) func(name string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		if IsRemote(name) {
			return remote(name)
		}
		return ReadLocalFile(name)
	}
}
