package searchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pricelens/web/internal/domain"
	"golang.org/x/time/rate"
)

// maxBodySize caps how much of a response body is read
const maxBodySize = 4 << 20

// ClientConfig holds the settings for the search API client
type ClientConfig struct {
	BaseURL          string
	SearchPath       string
	ClearHistoryPath string
	Timeout          time.Duration
	RequestsPerMin   int
	Burst            int
}

// Client handles communication with the price comparison search service
type Client struct {
	httpClient       *http.Client
	baseURL          string
	searchPath       string
	clearHistoryPath string
	rateLimiter      *rate.Limiter
	debug            bool
}

// NewClient creates a new search API client
func NewClient(cfg ClientConfig) *Client {
	// Every search makes the backend crawl several stores, so outbound calls
	// are throttled. A non-positive rate disables the limiter.
	limit := rate.Inf
	if cfg.RequestsPerMin > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerMin) / 60.0)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:          strings.TrimSuffix(cfg.BaseURL, "/"),
		searchPath:       cfg.SearchPath,
		clearHistoryPath: cfg.ClearHistoryPath,
		rateLimiter:      rate.NewLimiter(limit, burst),
	}
}

// SetDebug enables or disables logging of response bodies
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// doRequest executes a JSON POST with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string, payload interface{}) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "PriceLens/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchAPIFailure, err)
	}

	return resp, nil
}

// Search submits a product name to the search endpoint. Failures are not retried.
func (c *Client) Search(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResponse, error) {
	log.Printf("[SEARCH] Search called with product: %q", request.ProductName)

	resp, err := c.doRequest(ctx, c.baseURL+c.searchPath, request)
	if err != nil {
		log.Printf("[SEARCH] Request error: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrSearchAPIFailure, err)
	}

	// Any non-success status is a failure regardless of the body
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[SEARCH] API error - Status: %d, Body: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("%w: status %d", domain.ErrSearchAPIFailure, resp.StatusCode)
	}

	if c.debug {
		log.Printf("[SEARCH] Response body: %s", string(body))
	}

	var searchResp domain.SearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		log.Printf("[SEARCH] JSON decode error: %v", err)
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrInvalidResponse, err)
	}
	if err := searchResp.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	if searchResp.Results == nil {
		searchResp.Results = []domain.SearchResult{}
	}
	if searchResp.Errors == nil {
		searchResp.Errors = []string{}
	}

	log.Printf("[SEARCH] Found %d results (%d soft errors) for product: %q",
		len(searchResp.Results), len(searchResp.Errors), request.ProductName)
	return &searchResp, nil
}

// ClearHistory asks the search service to drop its stored search history
func (c *Client) ClearHistory(ctx context.Context) error {
	resp, err := c.doRequest(ctx, c.baseURL+c.clearHistoryPath, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		return fmt.Errorf("%w: status %d, body: %s", domain.ErrSearchAPIFailure, resp.StatusCode, string(body))
	}

	log.Printf("[SEARCH] Search history cleared")
	return nil
}
