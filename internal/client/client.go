// Package client is a typed wrapper over the restaurant HTTP API for front-end code.
package client

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

	"github.com/rs/zerolog/log"

	"food_explorer/internal/domain"
)

const DefaultBestLimit = 4

// Response mirrors the server envelope.
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Count   int    `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Client struct {
	base string
	hc   *http.Client
}

func New(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// WithHTTPClient swaps the transport, e.g. for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.hc = hc
	return c
}

// GetRestaurants never fails: any transport or server error yields an empty list.
func (c *Client) GetRestaurants(ctx context.Context, f domain.Filter) []domain.Restaurant {
	u := c.base + "/restaurants"
	if q := f.Values().Encode(); q != "" {
		u += "?" + q
	}
	var out Response[[]domain.Restaurant]
	status, err := c.do(ctx, http.MethodGet, u, nil, &out)
	if err != nil || status != http.StatusOK {
		log.Warn().Err(err).Int("status", status).Msg("fetch restaurants failed")
		return []domain.Restaurant{}
	}
	if out.Data == nil {
		return []domain.Restaurant{}
	}
	return out.Data
}

func (c *Client) GetFeatured(ctx context.Context) []domain.Restaurant {
	return c.GetRestaurants(ctx, domain.Filter{FeaturedOnly: true})
}

// GetBestPlaces ranks the full list locally.
func (c *Client) GetBestPlaces(ctx context.Context, n int) []domain.Restaurant {
	if n <= 0 {
		n = DefaultBestLimit
	}
	return domain.TopByRating(c.GetRestaurants(ctx, domain.Filter{}), n)
}

func (c *Client) GetBySlug(ctx context.Context, slug string) (domain.Restaurant, bool) {
	var out Response[domain.Restaurant]
	status, err := c.do(ctx, http.MethodGet, c.base+"/restaurants/"+url.PathEscape(slug), nil, &out)
	if err != nil || status != http.StatusOK || !out.Success {
		return domain.Restaurant{}, false
	}
	return out.Data, true
}

// CreateRestaurant reports failure inside the returned envelope; it never returns a Go error.
func (c *Client) CreateRestaurant(ctx context.Context, in domain.CreateInput) Response[domain.Restaurant] {
	b, err := json.Marshal(in)
	if err != nil {
		return Response[domain.Restaurant]{Error: err.Error()}
	}
	var out Response[domain.Restaurant]
	status, err := c.do(ctx, http.MethodPost, c.base+"/restaurants", b, &out)
	return settle(out, status, err, http.StatusCreated, "Failed to create restaurant")
}

func (c *Client) DeleteRestaurant(ctx context.Context, id string) Response[struct{}] {
	var out Response[struct{}]
	u := c.base + "/restaurants?" + url.Values{"id": {id}}.Encode()
	status, err := c.do(ctx, http.MethodDelete, u, nil, &out)
	return settle(out, status, err, http.StatusOK, "Failed to delete restaurant")
}

func settle[T any](out Response[T], status int, err error, want int, fallback string) Response[T] {
	if err != nil {
		return Response[T]{Error: err.Error()}
	}
	if status != want {
		out.Success = false
		if out.Error == "" {
			out.Error = fallback
		}
	}
	return out
}

// do sends the request with caching disabled and decodes any JSON body into out.
func (c *Client) do(ctx context.Context, method, u string, payload []byte, out any) (int, error) {
	var rdr io.Reader
	if payload != nil {
		rdr = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return resp.StatusCode, err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s %s: %w", method, u, err)
	}
	return resp.StatusCode, nil
}
