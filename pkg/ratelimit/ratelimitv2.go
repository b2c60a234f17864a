package ratelimit

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// ThrottledTransport is an http.RoundTripper that waits for the rate limiter before every request.
// It paces calls that bypass the API client, such as deploy hooks.
type ThrottledTransport struct {
	roundTripper http.RoundTripper
	rateLimiter  *rate.Limiter
}

// RoundTrip implements http.RoundTripper.
func (t *ThrottledTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.rateLimiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	return t.roundTripper.RoundTrip(req)
}

// NewThrottledTransport allows requestCount requests every limitPeriod through transportWrap.
// A nil transportWrap falls back to http.DefaultTransport.
func NewThrottledTransport(limitPeriod time.Duration, requestCount int, transportWrap http.RoundTripper) http.RoundTripper {
	if transportWrap == nil {
		transportWrap = http.DefaultTransport
	}

	return &ThrottledTransport{
		roundTripper: transportWrap,
		rateLimiter:  rate.NewLimiter(rate.Every(limitPeriod), requestCount),
	}
}
