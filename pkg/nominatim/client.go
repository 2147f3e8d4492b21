// Package nominatim is a minimal client for the OpenStreetMap Nominatim search API.
package nominatim

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

// DefaultBaseURL is the public Nominatim search endpoint.
const DefaultBaseURL = "https://nominatim.openstreetmap.org/search"

// Candidate is one ranked search hit.
type Candidate struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
}

type searchHit struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the search endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithUserAgent sets the User-Agent header. Nominatim's usage policy requires one that identifies
// the application.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// WithLimit sets how many candidates are requested.
func WithLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.limit = n
		}
	}
}

// Client issues free-text searches. It does no rate limiting of its own; callers sharing the
// public endpoint must space their requests.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limit      int
}

// NewClient creates a client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    DefaultBaseURL,
		userAgent:  "VendingLocator/1.0",
		limit:      1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search looks up a free-text query and returns the candidates in rank order. An empty slice
// means no match and is not an error.
func (c *Client) Search(ctx context.Context, query string) ([]Candidate, error) {
	params := url.Values{
		"q":      {query},
		"format": {"json"},
		"limit":  {strconv.Itoa(c.limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("nominatim: returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: read body")
	}

	var hits []searchHit
	if err := json.Unmarshal(body, &hits); err != nil {
		return nil, eris.Wrap(err, "nominatim: parse response")
	}

	candidates := make([]Candidate, 0, len(hits))
	for _, h := range hits {
		lat, err := strconv.ParseFloat(h.Lat, 64)
		if err != nil {
			return nil, eris.Wrapf(err, "nominatim: invalid latitude %q", h.Lat)
		}
		lon, err := strconv.ParseFloat(h.Lon, 64)
		if err != nil {
			return nil, eris.Wrapf(err, "nominatim: invalid longitude %q", h.Lon)
		}
		candidates = append(candidates, Candidate{Latitude: lat, Longitude: lon, DisplayName: h.DisplayName})
	}
	return candidates, nil
}
