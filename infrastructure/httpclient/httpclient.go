// Package httpclient implements application.HTTPClient over net/http,
// grounded on NLipatov-TunGo's application.ConnectionFactory/Connector
// seam (a narrow interface hiding a concrete transport).
package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"livetiming/application"
)

type client struct {
	http *http.Client
}

// New returns an HTTPClient with a fixed per-request timeout; the
// Acquirer itself enforces the "one in flight per kind" invariant
// (spec.md §4.5), not this transport.
func New(timeout time.Duration) application.HTTPClient {
	return &client{http: &http.Client{Timeout: timeout}}
}

func (c *client) Get(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "building GET %s", rawURL)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", rawURL)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading body of GET %s", rawURL)
	}
	if resp.StatusCode >= 400 {
		return body, errors.Errorf("GET %s: status %d", rawURL, resp.StatusCode)
	}
	return body, nil
}

func (c *client) PostForm(ctx context.Context, rawURL string, form map[string]string) ([]byte, []string, error) {
	values := url.Values{}
	for k, v := range form {
		values.Set(k, v)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "building POST %s", rawURL)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "POST %s", rawURL)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading body of POST %s", rawURL)
	}
	return body, resp.Header.Values("Set-Cookie"), nil
}
