package sevalla

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/heptiolabs/healthcheck"
	"github.com/paulbellamy/ratecounter"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"golang.org/x/oauth2"

	"github.com/helvethink/sevalla-action/pkg/ratelimit"
)

const (
	userAgent  = "sevalla-action"
	tracerName = "sevalla-action"

	// DefaultURL is the production Sevalla API, version prefix included.
	DefaultURL = "https://api.sevalla.com/v2"
)

// Client talks to the Sevalla REST API. It adds rate limiting, request
// counting and a readiness check on top of a bearer-authenticated HTTP client.
type Client struct {
	// Readiness holds the endpoint and HTTP client used by the preflight check.
	Readiness struct {
		URL        string
		HTTPClient *http.Client
	}

	URL        string       // URL is the API base URL, without trailing slash.
	HTTPClient *http.Client // HTTPClient adds the bearer token to every request.
	HookClient *http.Client // HookClient calls deploy hooks, without credentials.

	RateLimiter     ratelimit.Limiter        // RateLimiter paces API calls.
	RateCounter     *ratecounter.RateCounter // RateCounter tracks requests per second.
	RequestsCounter atomic.Uint64            // RequestsCounter is the total number of requests sent.

	userAgent string
}

// ClientConfig holds configuration options needed to instantiate a new Client.
type ClientConfig struct {
	URL              string            // Base URL of the Sevalla API
	Token            string            // API token, sent as a bearer token
	UserAgentVersion string            // Appended to the User-Agent header
	DisableTLSVerify bool              // Skip TLS verification
	ReadinessURL     string            // URL used for readiness checks
	RateLimiter      ratelimit.Limiter // Optional rate limiter
	Timeout          time.Duration     // Per request timeout, none when zero
	HookRatePeriod   time.Duration     // Minimum delay between two deploy hook calls, none when zero
}

// NewHTTPClient creates an HTTP client with optional TLS verification disabling.
// The default transport is cloned to preserve proxy settings, and wrapped for tracing.
func NewHTTPClient(disableTLSVerify bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: disableTLSVerify} // nolint: gosec

	return &http.Client{
		Transport: otelhttp.NewTransport(transport),
	}
}

// NewClient creates a new Client from the given configuration.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}

	if _, err := http.NewRequest(http.MethodGet, cfg.URL, nil); err != nil {
		return nil, errors.Wrap(err, "invalid sevalla api url")
	}

	api := NewHTTPClient(cfg.DisableTLSVerify)
	api.Timeout = cfg.Timeout
	api.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
		Base:   api.Transport,
	}

	hook := NewHTTPClient(cfg.DisableTLSVerify)
	hook.Timeout = cfg.Timeout

	if cfg.HookRatePeriod > 0 {
		hook.Transport = ratelimit.NewThrottledTransport(cfg.HookRatePeriod, 1, hook.Transport)
	}

	readiness := NewHTTPClient(cfg.DisableTLSVerify)
	readiness.Timeout = 5 * time.Second

	c := &Client{
		URL:         strings.TrimSuffix(cfg.URL, "/"),
		HTTPClient:  api,
		HookClient:  hook,
		RateLimiter: cfg.RateLimiter,
		RateCounter: ratecounter.NewRateCounter(time.Second),
		userAgent:   userAgent,
	}

	if cfg.UserAgentVersion != "" {
		c.userAgent = fmt.Sprintf("%s-%s", userAgent, cfg.UserAgentVersion)
	}

	c.Readiness.URL = cfg.ReadinessURL
	c.Readiness.HTTPClient = readiness

	return c, nil
}

// ReadinessCheck returns a healthcheck.Check performing a GET on the readiness URL.
func (c *Client) ReadinessCheck(ctx context.Context) healthcheck.Check {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "sevalla:ReadinessCheck")
	defer span.End()

	return func() error {
		if c.Readiness.HTTPClient == nil {
			return fmt.Errorf("readiness http client not configured")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Readiness.URL, nil)
		if err != nil {
			return err
		}

		resp, err := c.Readiness.HTTPClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("HTTP error: %d", resp.StatusCode)
		}

		return nil
	}
}

// rateLimit blocks until the RateLimiter lets a request through, then counts it.
func (c *Client) rateLimit(ctx context.Context) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "sevalla:rateLimit")
	defer span.End()

	if err := ratelimit.Take(ctx, c.RateLimiter); err != nil {
		return err
	}

	c.RateCounter.Incr(1)
	c.RequestsCounter.Add(1)

	return nil
}

// do sends one request and decodes a 2xx JSON body into out.
// A non-2xx response is returned as a *RequestError labelled with op.
func (c *Client) do(ctx context.Context, hc *http.Client, op, method, target string, body, out any) error {
	if err := c.rateLimit(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}

		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return errors.Wrap(withoutURL(err), "building request")
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.WithContext(ctx).
		WithFields(log.Fields{
			"method":    method,
			"operation": op,
		}).
		Trace("sending sevalla request")

	resp, err := hc.Do(req)
	if err != nil {
		return errors.Wrapf(withoutURL(err), "%s %s", method, op)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return newRequestError(op, resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decoding response body")
	}

	return nil
}

// endpoint joins path segments onto the API base URL.
func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}

	return c.URL + "/" + strings.Join(escaped, "/")
}

// withoutURL drops the request URL from transport errors, deploy hook URLs
// carry their secret in the path.
func withoutURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}

	return err
}
