package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	dashboard "servicedesk-cloud/internal/dashboard/domain"
	"servicedesk-cloud/internal/observability/metrics"
)

// DefaultTimeout bounds every upstream request. A timed-out fetch is a normal
// fetch failure, handled at the refresher boundary.
const DefaultTimeout = 30 * time.Second

const (
	endpointDashboard       = "/api/dashboard"
	endpointTimeSeries      = "/api/dashboard-data"
	endpointOpenRequests    = "/api/dashboard-open-requests"
	endpointNumOpenRequests = "/api/num-open-requests"
)

// Client is a typed REST client for the service-request backend. The bearer
// credential is opaque to this service; it is attached to every request and
// never inspected.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

// NewClient constructs an upstream client.
func NewClient(baseURL, token string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("upstream: empty base url")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchBreakdowns retrieves the yearly/monthly dashboard payload.
func (c *Client) FetchBreakdowns(ctx context.Context) (dashboard.SiteBreakdowns, error) {
	var payload map[string]map[string]yearPayload
	if err := c.getJSON(ctx, endpointDashboard, &payload); err != nil {
		return nil, err
	}
	result := make(dashboard.SiteBreakdowns, len(payload))
	for siteKey, years := range payload {
		site, ok := dashboard.ParseSite(siteKey)
		if !ok {
			continue
		}
		siteYears := make(map[int]dashboard.YearBreakdown, len(years))
		for yearKey, year := range years {
			parsedYear, ok := parseYearKey(yearKey)
			if !ok {
				continue
			}
			siteYears[parsedYear] = year.toDomain()
		}
		result[site] = siteYears
	}
	return result, nil
}

// FetchTimeSeries retrieves the raw per-request open/close timestamps.
func (c *Client) FetchTimeSeries(ctx context.Context) (dashboard.SiteEventLog, error) {
	var payload map[string][]eventPayload
	if err := c.getJSON(ctx, endpointTimeSeries, &payload); err != nil {
		return nil, err
	}
	log := make(dashboard.SiteEventLog, len(payload))
	for siteKey, entries := range payload {
		site, ok := dashboard.ParseSite(siteKey)
		if !ok {
			continue
		}
		events := make([]dashboard.RequestEvent, 0, len(entries))
		for _, entry := range entries {
			events = append(events, dashboard.RequestEvent{
				CreatedOn: parseTimestamp(entry.CreatedOn),
				ClosedAt:  parseTimestamp(entry.ClosedAt),
			})
		}
		log[site] = events
	}
	return log, nil
}

// FetchOpenRequests retrieves the open-request breakdown payload.
func (c *Client) FetchOpenRequests(ctx context.Context) (dashboard.OpenRequestBreakdowns, error) {
	var payload map[string]breakdownPayload
	if err := c.getJSON(ctx, endpointOpenRequests, &payload); err != nil {
		return nil, err
	}
	result := make(dashboard.OpenRequestBreakdowns, len(payload))
	for siteKey, groups := range payload {
		site, ok := dashboard.ParseSite(siteKey)
		if !ok {
			continue
		}
		result[site] = groups.toDomain()
	}
	return result, nil
}

// FetchNumOpenRequests retrieves the scalar open-request count.
func (c *Client) FetchNumOpenRequests(ctx context.Context) (int, error) {
	var payload struct {
		NumOfRequests int `json:"numOfRequests"`
	}
	if err := c.getJSON(ctx, endpointNumOpenRequests, &payload); err != nil {
		return 0, err
	}
	if payload.NumOfRequests < 0 {
		return 0, fmt.Errorf("upstream: negative request count %d", payload.NumOfRequests)
	}
	return payload.NumOfRequests, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	start := time.Now()
	err := c.doGetJSON(ctx, path, out)
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.ObserveUpstream(path, result, time.Since(start))
	return err
}

func (c *Client) doGetJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("upstream: http %d on %s", resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("upstream: decode %s: %w", path, err)
	}
	return nil
}
