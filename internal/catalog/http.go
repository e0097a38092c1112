package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alex-user-go/packages/internal/listing"
)

const maxErrorBody = 512

// HTTPClient reads listings from the catalog REST backend.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTPClient. token is sent as a bearer token
// when non-empty.
func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Hotels fetches GET /listings/hotels.
func (c *HTTPClient) Hotels(ctx context.Context, country string) ([]listing.HotelDTO, error) {
	var out []listing.HotelDTO
	if err := c.get(ctx, "hotels", country, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Flights fetches GET /listings/flights.
func (c *HTTPClient) Flights(ctx context.Context, country string) ([]listing.FlightDTO, error) {
	var out []listing.FlightDTO
	if err := c.get(ctx, "flights", country, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Events fetches GET /listings/events.
func (c *HTTPClient) Events(ctx context.Context, country string) ([]listing.EventDTO, error) {
	var out []listing.EventDTO
	if err := c.get(ctx, "events", country, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) get(ctx context.Context, kind, country string, dst any) error {
	u, err := url.Parse(c.baseURL + "/listings/" + kind)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if country != "" {
		q := u.Query()
		q.Set("country", country)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", kind, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Kind: kind, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", kind, err)
	}
	return nil
}
