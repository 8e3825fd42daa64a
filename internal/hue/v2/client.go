package v2

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Client provides access to Hue V2 API (CLIP API).
// This client is HTTP-only with no caching - pure transport layer.
// Writes go through a rate limiter; the bridge drops commands sent too fast.
type Client struct {
	address    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHTTPClient returns an HTTP client that skips TLS verification
// (Hue bridge uses a self-signed cert).
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
}

// NewClient creates a new V2 API client.
// rateLimitRPS <= 0 disables write throttling.
func NewClient(address, token string, httpClient *http.Client, rateLimitRPS float64) *Client {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if rateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(rateLimitRPS), max(1, int(rateLimitRPS)))
	}

	return &Client{
		address:    address,
		token:      token,
		httpClient: httpClient,
		limiter:    limiter,
	}
}

// Address returns the bridge address
func (c *Client) Address() string {
	return c.address
}

// Token returns the application key (for SSE)
func (c *Client) Token() string {
	return c.token
}

// Close closes idle connections
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *Client) url(path string) string {
	return fmt.Sprintf("https://%s/clip/v2/%s", c.address, path)
}

// Request performs an HTTP request to the V2 API
func (c *Client) Request(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("hue-application-key", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}

// do sends a request and decodes the "data" array of the response into out.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	resp, err := c.Request(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var result struct {
		Errors []struct {
			Description string `json:"description"`
		} `json:"errors"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return &APIError{StatusCode: resp.StatusCode}
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || len(result.Errors) > 0 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		for _, e := range result.Errors {
			apiErr.Descriptions = append(apiErr.Descriptions, e.Description)
		}
		return apiErr
	}

	if out == nil || len(result.Data) == 0 {
		return nil
	}
	return json.Unmarshal(result.Data, out)
}

// FetchResources returns every resource known to the bridge.
func (c *Client) FetchResources(ctx context.Context) ([]Resource, error) {
	var resources []Resource
	if err := c.do(ctx, http.MethodGet, "resource", nil, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

// ApplyChange sends a partial update to a resource and returns the
// references the bridge reports as changed.
func (c *Client) ApplyChange(ctx context.Context, resourceType, id string, update any) ([]ResourceRef, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidResourceID, id)
	}

	bodyBytes, err := json.Marshal(update)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var refs []ResourceRef
	path := fmt.Sprintf("resource/%s/%s", resourceType, id)
	if err := c.do(ctx, http.MethodPut, path, bytes.NewReader(bodyBytes), &refs); err != nil {
		return nil, err
	}

	log.Debug().
		Str("type", resourceType).
		Str("id", id).
		RawJSON("body", bodyBytes).
		Msg("Resource updated")

	return refs, nil
}

// GetLight returns a light by ID
func (c *Client) GetLight(ctx context.Context, lightID string) (*Light, error) {
	if _, err := uuid.Parse(lightID); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidResourceID, lightID)
	}

	var lights []Light
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("resource/light/%s", lightID), nil, &lights); err != nil {
		return nil, err
	}

	if len(lights) == 0 {
		return nil, fmt.Errorf("light '%s' not found", lightID)
	}

	return &lights[0], nil
}

// UpdateLight updates a light
func (c *Client) UpdateLight(ctx context.Context, lightID string, update LightUpdate) error {
	_, err := c.ApplyChange(ctx, ResourceTypeLight, lightID, update)
	return err
}
