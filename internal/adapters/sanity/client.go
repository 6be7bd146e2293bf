// internal/adapters/sanity/client.go
package sanity

import (
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

	"golang.org/x/time/rate"

	"food_explorer/internal/adapters/observability"
)

// Client talks to the content API's HTTP query endpoint:
// GET {base}/data/query/{dataset}?query=<GROQ>&$param=<json>
type Client struct {
	base    string
	dataset string
	hc      *http.Client
	token   string
	rl      *rate.Limiter
}

// BaseURL builds the API root for a project. useCDN selects the cached edge host.
func BaseURL(projectID, apiVersion string, useCDN bool) string {
	host := "api.sanity.io"
	if useCDN {
		host = "apicdn.sanity.io"
	}
	if !strings.HasPrefix(apiVersion, "v") {
		apiVersion = "v" + apiVersion
	}
	return fmt.Sprintf("https://%s.%s/%s", projectID, host, apiVersion)
}

func New(base, dataset, token string, rps int) (*Client, error) {
	if base == "" || dataset == "" {
		return nil, fmt.Errorf("content API base URL and dataset are required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:    strings.TrimRight(base, "/"),
		dataset: dataset,
		hc:      &http.Client{Timeout: 20 * time.Second},
		token:   token,
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API ----

// Query runs a GROQ query. Each param is sent JSON-encoded as $name so
// values never get spliced into the query text.
func (c *Client) Query(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	v := url.Values{}
	v.Set("query", query)
	for k, p := range params {
		b, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("encode param %s: %w", k, err)
		}
		v.Set("$"+k, string(b))
	}
	u := fmt.Sprintf("%s/data/query/%s?%s", c.base, url.PathEscape(c.dataset), v.Encode())

	var out struct {
		Result []map[string]any `json:"result"`
	}
	if err := c.get(ctx, u, &out); err != nil {
		return nil, err
	}
	if out.Result == nil {
		return []map[string]any{}, nil
	}
	return out.Result, nil
}

// ---- Internals ----

var (
	ErrNotFound     = errors.New("sanity: not found")
	ErrUnauthorized = errors.New("sanity: unauthorized")
	ErrForbidden    = errors.New("sanity: forbidden")
)

// get performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, url string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	start := time.Now()
	status := 0
	defer func() { observability.ObserveContent("sanity", status, time.Since(start)) }()

	var lastErr error
	for i := 0; i < 4; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "food-explorer/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		status = resp.StatusCode

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			// query errors come back as 400 with a JSON description
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
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

// backoff returns 200ms doubled per attempt plus up to 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
