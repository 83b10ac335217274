// Package gateway holds the thin HTTP clients for the ticketing backend.
// All authoritative business logic (queue ordering, admission, settlement)
// lives behind these calls; the clients only move requests and map status
// codes to errors.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Clients struct {
	httpClient *http.Client
	baseURL    string
}

// NewClients builds the shared HTTP plumbing for every gateway client.
// transport is typically session.Transport so the Authorization header is a
// cross-cutting concern, not a per-call one.
func NewClients(baseURL string, transport http.RoundTripper) *Clients {
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Clients{
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(transport),
			Timeout:   10 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *Clients) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Clients) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path, query), nil)
	if err != nil {
		return fmt.Errorf("could not build request: %w", err)
	}

	return c.do(req, out)
}

func (c *Clients) postJSON(ctx context.Context, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("could not marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path, nil), reader)
	if err != nil {
		return fmt.Errorf("could not build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Clients) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	return nil
}

// StatusError is any non-2xx answer from the backend.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}
