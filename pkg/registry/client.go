// Package registry provides a typed Companies House API client with
// rate limiting and defensive response shaping. HTTP and transport
// failures collapse to empty results at the client boundary; callers
// branch on nil/empty, never on errors.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/OdhranMac/companies-house-api/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for registry client operations.
var (
	registryRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "registry_requests_total",
		Help: "Total Companies House requests by endpoint and status",
	}, []string{"endpoint", "status"})

	registryRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "registry_request_duration_seconds",
		Help:    "Companies House request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	registryEmptyResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "registry_empty_results_total",
		Help: "Requests that collapsed to an empty result by cause",
	}, []string{"cause"})
)

// Endpoint labels for metrics.
const (
	endpointProfile = "profile"
	endpointSearch  = "search"
	endpointLink    = "link"
)

// DefaultBaseURL is the Companies House public API root.
const DefaultBaseURL = "https://api.companieshouse.gov.uk"

// subResourcePageSize is the single bounded page requested from officer
// and charge listings. No follow-up pages are fetched even when more
// items exist.
const subResourcePageSize = 200

// Client is the Companies House API client. One instance owns its
// throttle state and must not be shared across goroutines.
type Client struct {
	httpClient *http.Client
	throttle   *ratelimit.Throttle
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// APIKey is the Companies House API key, sent as the basic-auth
	// username with an empty password.
	APIKey string

	// BaseURL is the API root. Defaults to DefaultBaseURL; override
	// for tests.
	BaseURL string

	// MinInterval is the minimum spacing between consecutive requests.
	// Defaults to ratelimit.DefaultInterval (0.6s).
	MinInterval time.Duration

	// Timeout for individual HTTP requests.
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration for the given key.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:      apiKey,
		BaseURL:     DefaultBaseURL,
		MinInterval: ratelimit.DefaultInterval,
		Timeout:     30 * time.Second,
	}
}

// New creates a Companies House client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	if cfg.MinInterval <= 0 {
		cfg.MinInterval = ratelimit.DefaultInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	logger := log.With().Str("component", "registry-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		throttle: ratelimit.New(cfg.MinInterval, logger),
		config:   cfg,
		logger:   logger,
	}, nil
}

// CompanyProfile fetches the profile for a company number. Returns nil
// when the company cannot be resolved for any reason (not found, auth
// failure, transport error, undecodable body).
func (c *Client) CompanyProfile(ctx context.Context, companyNumber string) *CompanyProfile {
	var profile CompanyProfile
	if !c.getJSON(ctx, endpointProfile, "/company/"+url.PathEscape(companyNumber), nil, &profile) {
		return nil
	}
	return &profile
}

// SearchFirst queries the company search endpoint and returns the first
// item, or nil when the result list is empty or absent.
func (c *Client) SearchFirst(ctx context.Context, name string) *SearchResult {
	query := url.Values{}
	query.Set("q", name)

	var page searchPage
	if !c.getJSON(ctx, endpointSearch, "/search/companies", query, &page) {
		return nil
	}
	if len(page.Items) == 0 {
		return nil
	}
	return &page.Items[0]
}

// Directors fetches a single page of officers via the relative link
// from a profile and returns the names of entries whose role is
// "director", in original order. Empty on failure or when none exist.
func (c *Client) Directors(ctx context.Context, officersLink string) []string {
	var page officersPage
	if !c.getJSON(ctx, endpointLink, officersLink, subResourceQuery(), &page) {
		return nil
	}

	directors := make([]string, 0, len(page.Items))
	for _, officer := range page.Items {
		if officer.OfficerRole == "director" {
			directors = append(directors, officer.Name)
		}
	}
	return directors
}

// Charges fetches a single page of charges via the relative link from
// a profile, drops fully-satisfied charges, and reduces the rest to
// Charge records in original order.
func (c *Client) Charges(ctx context.Context, chargesLink string) []Charge {
	var page chargesPage
	if !c.getJSON(ctx, endpointLink, chargesLink, subResourceQuery(), &page) {
		return nil
	}

	charges := make([]Charge, 0, len(page.Items))
	for _, item := range page.Items {
		if item.Status == "fully-satisfied" {
			continue
		}

		charge := Charge{
			Classification: item.Classification.Description,
			CreatedOn:      item.CreatedOn,
			DeliveredOn:    item.DeliveredOn,
			Status:         item.Status,
			Particulars:    truncateParticulars(item.Particulars.Description),
		}
		// Only the first entitled person is captured.
		if len(item.PersonsEntitled) > 0 {
			charge.PersonEntitled = item.PersonsEntitled[0].Name
		}
		charges = append(charges, charge)
	}
	return charges
}

// ThrottleState exposes the throttle snapshot for observability.
func (c *Client) ThrottleState() ratelimit.Snapshot {
	return c.throttle.State()
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// getJSON performs a throttled, authenticated GET against a path
// relative to the API root and decodes the body into v. Returns false
// on any failure; the cause is logged and counted, never propagated.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values, v any) bool {
	start := time.Now()
	defer func() {
		registryRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	if err := c.throttle.Wait(ctx); err != nil {
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Throttle wait interrupted")
		registryEmptyResultsTotal.WithLabelValues("cancelled").Inc()
		return false
	}

	requestURL := c.config.BaseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("Create request failed")
		registryEmptyResultsTotal.WithLabelValues("request").Inc()
		return false
	}
	req.SetBasicAuth(c.config.APIKey, "")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("path", path).
		Msg("Executing registry request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Registry request failed")
		registryEmptyResultsTotal.WithLabelValues("network").Inc()
		registryRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return false
	}
	defer resp.Body.Close()

	registryRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn().
			Str("endpoint", endpoint).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("Registry request non-success")
		registryEmptyResultsTotal.WithLabelValues("status").Inc()
		return false
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Decode registry response failed")
		registryEmptyResultsTotal.WithLabelValues("decode").Inc()
		return false
	}

	return true
}

// subResourceQuery returns the fixed single-page parameters for officer
// and charge listings.
func subResourceQuery() url.Values {
	query := url.Values{}
	query.Set("items_per_page", fmt.Sprintf("%d", subResourcePageSize))
	query.Set("start_index", "0")
	return query
}

// truncateParticulars shortens a particulars description to 100
// characters with an ellipsis marker. Empty input stays empty.
func truncateParticulars(description string) string {
	if description == "" {
		return ""
	}
	if len(description) > 100 {
		description = description[:100]
	}
	return description + "..."
}
