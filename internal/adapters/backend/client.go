// internal/adapters/backend/client.go
package backend

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"luxstay/internal/adapters/observability"
	"luxstay/internal/domain"
)

const (
	service     = "backend"
	userAgent   = "luxstay-web/1.0"
	maxBodySize = 4 << 20
)

type Options struct {
	Timeout     time.Duration
	RPS         int
	MaxInFlight int
	// ReadRetries is how many times ListHotels is retried on transport
	// errors, 429 and 5xx. Mutating calls are never retried.
	ReadRetries int
}

// Client talks to the hotel REST API. It implements domain.Backend.
type Client struct {
	base    string
	hc      *http.Client
	rl      *rate.Limiter
	sem     *semaphore.Weighted
	retries int
}

func New(base string, opt Options) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend base URL %q", base)
	}
	if opt.Timeout <= 0 {
		opt.Timeout = 15 * time.Second
	}
	if opt.RPS <= 0 {
		opt.RPS = 20
	}
	if opt.MaxInFlight <= 0 {
		opt.MaxInFlight = 8
	}
	if opt.ReadRetries < 0 {
		opt.ReadRetries = 0
	}
	return &Client{
		base:    strings.TrimRight(base, "/"),
		hc:      &http.Client{Timeout: opt.Timeout},
		rl:      rate.NewLimiter(rate.Limit(opt.RPS), opt.RPS),
		sem:     semaphore.NewWeighted(int64(opt.MaxInFlight)),
		retries: opt.ReadRetries,
	}, nil
}

// ---- Public API ----

func (c *Client) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	var out []domain.Hotel
	if err := c.call(ctx, "list_hotels", http.MethodGet, "/api/hotels", nil, &out, c.retries); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Hotel{}
	}
	return out, nil
}

func (c *Client) CreateHotel(ctx context.Context, h domain.NewHotel) error {
	return c.call(ctx, "create_hotel", http.MethodPost, "/api/hotels", h, nil, 0)
}

func (c *Client) Register(ctx context.Context, r domain.RegisterRequest) (domain.AuthResponse, error) {
	var out domain.AuthResponse
	if err := c.call(ctx, "register", http.MethodPost, "/api/auth/register", r, &out, 0); err != nil {
		return domain.AuthResponse{}, err
	}
	return out, nil
}

func (c *Client) Login(ctx context.Context, r domain.LoginRequest) (domain.AuthResponse, error) {
	var out domain.AuthResponse
	if err := c.call(ctx, "login", http.MethodPost, "/api/auth/login", r, &out, 0); err != nil {
		return domain.AuthResponse{}, err
	}
	return out, nil
}

func (c *Client) CreateBooking(ctx context.Context, b domain.BookingRequest) error {
	return c.call(ctx, "create_booking", http.MethodPost, "/api/bookings", b, nil, 0)
}

func (c *Client) SendContact(ctx context.Context, m domain.ContactMessage) error {
	return c.call(ctx, "contact", http.MethodPost, "/api/contact", m, nil, 0)
}

// ---- Internals ----

// call runs one logical request, holding an in-flight slot for its whole
// duration (retries included).
func (c *Client) call(ctx context.Context, endpoint, method, path string, in, out any, retries int) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", endpoint, err)
		}
		body = b
	}

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.sem.Release(1)

	for i := 0; ; i++ {
		err := c.do(ctx, endpoint, method, path, body, out)
		if err == nil {
			return nil
		}
		wait, ok := retryable(err, i)
		if !ok || i >= retries {
			return err
		}
		log.Debug().
			Str("endpoint", endpoint).
			Int("attempt", i+1).
			Dur("wait", wait).
			Str("err_type", observability.LabelErr(err)).
			Err(err).
			Msg("backend retry")
		if !sleepCtx(ctx, wait) {
			return ctx.Err()
		}
	}
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, body []byte, out any) error {
	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rid := chimw.GetReqID(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(service, endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s %s: %w", domain.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal(service, endpoint, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: read %s body: %w", domain.ErrTransport, endpoint, err)
	}
	log.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend_call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrDecode, endpoint, err)
	}
	return nil
}

// apiError builds a domain.APIError from a non-2xx response. A string
// "detail" is used as-is; a list of validation items contributes their
// "msg" fields.
func apiError(resp *http.Response, raw []byte) *domain.APIError {
	e := &domain.APIError{Status: resp.StatusCode, RetryAfter: retryAfter(resp)}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return e
	}
	e.JSON = true
	d, ok := doc["detail"]
	if !ok {
		return e
	}
	var s string
	if err := json.Unmarshal(d, &s); err == nil {
		e.Detail = s
		return e
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(d, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		e.Detail = strings.Join(msgs, "; ")
	}
	return e
}

// retryable reports whether err is worth another attempt and how long to wait.
func retryable(err error, attempt int) (time.Duration, bool) {
	if errors.Is(err, domain.ErrTransport) {
		return backoff(attempt), true
	}
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}
	switch apiErr.Status {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		// Prefer server-provided Retry-After; otherwise exponential backoff.
		if apiErr.RetryAfter > 0 {
			return apiErr.RetryAfter, true
		}
		return backoff(attempt), true
	}
	return 0, false
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (100ms, 200ms, 400ms...) plus up to
// 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 100 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
