package usda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ConferInc/usda-mapping-agent/internal/domain"
	"golang.org/x/time/rate"
)

// Client handles communication with the USDA FoodData Central API. It
// implements domain.USDAClient: once its retry budget is exhausted it
// degrades to an empty result rather than propagating a transport error, per
// the catalog client's "never propagate transport exceptions upward"
// contract.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	maxRetries  int
	logger      *slog.Logger
}

// Config bundles the constructor knobs for Client. APIKey is required; its
// absence is a fatal configuration error surfaced by the caller before any
// request is attempted.
type Config struct {
	APIKey        string
	BaseURL       string
	RateDelay     time.Duration
	MaxRetries    int
	RequestTimeout time.Duration
	Logger        *slog.Logger
}

// ErrAPIKeyRequired is returned by NewClient when no API key is supplied.
var ErrAPIKeyRequired = errors.New("usda: API key is required")

// NewClient creates a new USDA API client. The rate limiter enforces a
// minimum inter-request delay derived from cfg.RateDelay (default 500ms,
// i.e. at most 7200 requests per hour).
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.nal.usda.gov/fdc"
	}
	if cfg.RateDelay <= 0 {
		cfg.RateDelay = 500 * time.Millisecond
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 45 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	limit := rate.Every(cfg.RateDelay)

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		rateLimiter: rate.NewLimiter(limit, 1),
		maxRetries:  cfg.MaxRetries,
		logger:      cfg.Logger,
	}, nil
}

func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "usda-mapping-agent/1.0")

	return c.httpClient.Do(req)
}

// Search issues a single catalog search restricted to dataTypes (an empty
// slice means no filter) and bounded to pageSize results. It retries
// transport errors and non-2xx responses with exponential backoff (base 2s)
// up to c.maxRetries times; on exhaustion it returns (nil, nil) rather than
// an error.
func (c *Client) Search(ctx context.Context, query string, pageSize int, dataTypes []string) ([]domain.SearchFoodItem, error) {
	endpoint := fmt.Sprintf("%s/v1/foods/search", c.baseURL)
	params := url.Values{}
	params.Add("query", query)
	params.Add("api_key", c.apiKey)
	params.Add("pageSize", strconv.Itoa(pageSize))
	if len(dataTypes) > 0 {
		params.Add("dataType", strings.Join(dataTypes, ","))
	}
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, nil
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			c.logger.Warn("usda search transport error", "attempt", attempt, "query", query, "error", err)
			lastErr = err
			c.backoff(ctx, attempt)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		if resp.StatusCode != http.StatusOK {
			c.logger.Warn("usda search non-2xx", "attempt", attempt, "status", resp.StatusCode, "query", query)
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			c.backoff(ctx, attempt)
			continue
		}

		var searchResp domain.USDASearchResponse
		if err := json.Unmarshal(body, &searchResp); err != nil {
			c.logger.Warn("usda search malformed payload", "query", query, "error", err)
			return nil, nil
		}

		return searchResp.Foods, nil
	}

	c.logger.Warn("usda search retries exhausted", "query", query, "error", lastErr)
	return nil, nil
}

// GetDetails retrieves the detail record for a single FDC ID. Like Search, it
// degrades to (nil, nil) once retries are exhausted rather than propagating
// a transport error.
func (c *Client) GetDetails(ctx context.Context, fdcID int) (*domain.FoodDetail, error) {
	endpoint := fmt.Sprintf("%s/v1/food/%d", c.baseURL, fdcID)
	params := url.Values{}
	params.Add("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, nil
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			c.logger.Warn("usda detail transport error", "attempt", attempt, "fdc_id", fdcID, "error", err)
			lastErr = err
			c.backoff(ctx, attempt)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		if resp.StatusCode != http.StatusOK {
			c.logger.Warn("usda detail non-2xx", "attempt", attempt, "status", resp.StatusCode, "fdc_id", fdcID)
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			c.backoff(ctx, attempt)
			continue
		}

		var detail domain.FoodDetail
		if err := json.Unmarshal(body, &detail); err != nil {
			c.logger.Warn("usda detail malformed payload", "fdc_id", fdcID, "error", err)
			return nil, nil
		}

		return &detail, nil
	}

	c.logger.Warn("usda detail retries exhausted", "fdc_id", fdcID, "error", lastErr)
	return nil, nil
}

// backoff sleeps for 2^attempt seconds, bounded by context cancellation.
func (c *Client) backoff(ctx context.Context, attempt int) {
	d := time.Duration(1<<uint(attempt)) * time.Second
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
