// Package origin implements the upstream side of the controller over
// net/http: it resolves bare paths against the serving application's base
// URL, buffers response bodies, and classifies responses as same-origin
// ("basic") or cross-origin ("opaque"). Classification only gates whether
// an entry may be cached; status and headers are kept intact either way so
// stored opaque blobs can be replayed.
package origin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/harborvale/offcache"
)

const defaultTimeout = 30 * time.Second

type Config struct {
	// BaseURL is the scheme://host[:port] of the serving application.
	// Required; bare request paths resolve against it.
	BaseURL string

	// Client is the HTTP client used for fetches. nil => a client with a
	// 30s timeout. The controller additionally bounds background refreshes
	// with its own RefreshTimeout.
	Client *http.Client

	// MaxBodyBytes caps how much of a response body is buffered.
	// 0 => 8 MiB. An over-limit body fails the fetch.
	MaxBodyBytes int64
}

type Client struct {
	base    *url.URL
	hc      *http.Client
	maxBody int64
}

var _ offcache.Fetcher = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("origin: base URL is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("origin: parse base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("origin: base URL %q must be absolute", cfg.BaseURL)
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 8 << 20
	}
	return &Client{base: base, hc: hc, maxBody: maxBody}, nil
}

// Do performs the request and returns a fully buffered response.
// Transport failures return an error; any HTTP status is a success.
func (c *Client) Do(ctx context.Context, req *offcache.Request) (*offcache.Response, error) {
	target, err := c.resolve(req.URL)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	hreq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, err
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			hreq.Header.Add(k, v)
		}
	}

	hresp, err := c.hc.Do(hreq)
	if err != nil {
		return nil, err
	}
	defer hresp.Body.Close()

	buf, err := io.ReadAll(io.LimitReader(hresp.Body, c.maxBody+1))
	if err != nil {
		return nil, err
	}
	if int64(len(buf)) > c.maxBody {
		return nil, fmt.Errorf("origin: response body over %d bytes for %s", c.maxBody, req.URL)
	}

	class := offcache.ClassBasic
	if target.Scheme != c.base.Scheme || target.Host != c.base.Host {
		class = offcache.ClassOpaque
	}
	return &offcache.Response{
		Class:  class,
		Status: hresp.StatusCode,
		Header: hresp.Header.Clone(),
		Body:   buf,
	}, nil
}

// resolve turns a bare path into an absolute URL on the base origin, and
// validates absolute URLs as-is.
func (c *Client) resolve(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("origin: parse request URL %q: %w", raw, err)
	}
	if u.IsAbs() {
		return u, nil
	}
	return c.base.ResolveReference(u), nil
}
