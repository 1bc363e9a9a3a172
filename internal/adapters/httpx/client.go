// Package httpx is the outbound HTTP plumbing shared by the third-party API
// adapters: client-side rate limiting, bounded retries and status mapping.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"wanderbot/internal/adapters/observability"
	"wanderbot/internal/domain"
)

var (
	ErrNotFound     = fmt.Errorf("remote: %w", domain.ErrNotFound)
	ErrUnauthorized = fmt.Errorf("remote unauthorized: %w", domain.ErrAccessDenied)
	ErrForbidden    = fmt.Errorf("remote forbidden: %w", domain.ErrAccessDenied)
)

const (
	maxAttempts  = 4
	firstBackoff = 200 * time.Millisecond
	errBodyLimit = 4096
)

// Client talks to one remote service. Every request carries the static
// headers given to New and is counted under the service label.
type Client struct {
	service string
	hc      *http.Client
	limiter *rate.Limiter
	headers http.Header
}

// New builds a client for one remote service. rps <= 0 defaults to 5.
func New(service string, rps int, timeout time.Duration, headers map[string]string) *Client {
	if rps <= 0 {
		rps = 5
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	hdr := http.Header{}
	hdr.Set("User-Agent", "wanderbot/1.0")
	for k, v := range headers {
		hdr.Set(k, v)
	}
	return &Client{
		service: service,
		hc:      &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		headers: hdr,
	}
}

// GetJSON performs a GET and decodes a JSON body into out.
func (c *Client) GetJSON(ctx context.Context, endpoint, url string, out any) error {
	return c.Do(ctx, endpoint, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}, out)
}

// retryable marks an attempt that may be repeated after wait.
type retryable struct {
	err  error
	wait time.Duration
}

func (r *retryable) Error() string { return r.err.Error() }

// Do sends the request built by newReq, decoding a JSON body into out when
// out is non-nil. newReq runs once per attempt so bodies can be rebuilt.
// 429 and gateway-type 5xx answers are retried, honoring Retry-After.
func (c *Client) Do(ctx context.Context, endpoint string, newReq func() (*http.Request, error), out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err = c.attempt(ctx, endpoint, newReq, out)
		var again *retryable
		if !errors.As(err, &again) {
			return err
		}
		err = again.err
		log.Debug().Str("service", c.service).Str("endpoint", endpoint).
			Str("err_type", observability.LabelErr(err)).Int("attempt", attempt).Msg("outbound retry")
		if attempt == maxAttempts-1 {
			break
		}
		wait := again.wait
		if wait == 0 {
			wait = backoff(attempt)
		}
		if !sleepCtx(ctx, wait) {
			return ctx.Err()
		}
	}
	return err
}

func (c *Client) attempt(ctx context.Context, endpoint string, newReq func() (*http.Request, error), out any) error {
	req, err := newReq()
	if err != nil {
		return err
	}
	for k, vs := range c.headers {
		req.Header[k] = vs
	}

	began := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(c.service, endpoint, 0, time.Since(began))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &retryable{err: err}
	}
	defer resp.Body.Close()
	observability.ObserveExternal(c.service, endpoint, resp.StatusCode, time.Since(began))

	switch code := resp.StatusCode; {
	case code == http.StatusNoContent:
		return nil
	case code >= 200 && code < 300:
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusTooManyRequests, code == http.StatusInternalServerError,
		code == http.StatusBadGateway, code == http.StatusServiceUnavailable, code == http.StatusGatewayTimeout:
		return &retryable{err: fmt.Errorf("%s: remote %d", c.service, code), wait: retryAfter(resp)}
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
		return fmt.Errorf("%s: bad status %d: %s", c.service, code, strings.TrimSpace(string(b)))
	}
}

// IsAccessDenied reports 401/403 answers.
func IsAccessDenied(err error) bool {
	return errors.Is(err, domain.ErrAccessDenied)
}

// sleepCtx reports false when ctx ends before d elapses.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter reads Retry-After in seconds or HTTP-date form; 0 when unusable.
func retryAfter(resp *http.Response) time.Duration {
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(max(secs, 0)) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		return max(time.Until(at), 0)
	}
	return 0
}

// backoff doubles from firstBackoff per attempt and adds up to 50% jitter.
func backoff(attempt int) time.Duration {
	base := firstBackoff << attempt
	return base + time.Duration(rand.Int64N(int64(base)/2+1))
}
