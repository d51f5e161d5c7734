package rapidapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/XavierBriggs/Beacon/pkg/contracts"
	"github.com/XavierBriggs/Beacon/pkg/httpx"
	"github.com/XavierBriggs/Beacon/pkg/models"
)

const (
	SourceName = "rapidapi"

	apiHost   = "real-time-events-search.p.rapidapi.com"
	baseURL   = "https://" + apiHost
	timeout   = 8 * time.Second
	maxRadius = 100 // miles; the search backend ignores wider constraints
)

// Client implements contracts.SourceAdapter for the RapidAPI real-time
// events search service.
type Client struct {
	apiKey string
	http   *httpx.Client
	base   string
	host   string
}

var _ contracts.SourceAdapter = (*Client)(nil)

// NewClient creates a RapidAPI events-search client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		http:   httpx.NewClient(timeout, httpx.DefaultPolicy()),
		base:   baseURL,
		host:   apiHost,
	}
}

// NewClientWithBase is the test constructor; base points at a mock server.
func NewClientWithBase(apiKey, base string) *Client {
	c := NewClient(apiKey)
	c.base = base
	return c
}

func (c *Client) Name() string { return SourceName }

func (c *Client) MaxRadiusMiles() float64 { return maxRadius }

// FetchEvents queries the search endpoint. The service is free-text only,
// so the query string is synthesized from keyword and place; coordinates
// alone become an "events near lat,lng" query.
func (c *Client) FetchEvents(ctx context.Context, params models.SearchParams) ([]models.Event, error) {
	q := url.Values{}
	q.Set("query", buildQuery(params))
	q.Set("date", dateHint(params))
	q.Set("is_virtual", "false")
	q.Set("start", "0")

	fullURL := fmt.Sprintf("%s/search-events?%s", c.base, q.Encode())

	headers := map[string]string{
		"X-RapidAPI-Key":  c.apiKey,
		"X-RapidAPI-Host": c.host,
	}
	body, err := c.http.Get(ctx, fullURL, headers)
	if err != nil {
		return nil, fmt.Errorf("rapidapi fetch: %w", err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &httpx.Error{Kind: httpx.KindParse, Message: "parse search response: " + err.Error()}
	}

	events := make([]models.Event, 0, len(resp.Data))
	for _, raw := range resp.Data {
		if evt, ok := normalizeEvent(raw); ok {
			events = append(events, evt)
		}
	}
	return events, nil
}

// buildQuery assembles the free-text query: keyword, then place name, then
// a coordinate fallback so a bare lat/lng request still returns local hits.
func buildQuery(params models.SearchParams) string {
	parts := []string{}
	if params.Keyword != "" {
		parts = append(parts, params.Keyword)
	} else {
		parts = append(parts, "events")
	}
	switch {
	case params.Location != "":
		parts = append(parts, "in "+params.Location)
	case params.HasCenter():
		parts = append(parts, fmt.Sprintf("near %.4f,%.4f", *params.Latitude, *params.Longitude))
	}
	return strings.Join(parts, " ")
}

// dateHint maps the request window onto the service's coarse date buckets.
func dateHint(params models.SearchParams) string {
	switch params.DatePreset {
	case models.PresetToday:
		return "today"
	case models.PresetWeek:
		return "week"
	case models.PresetMonth:
		return "month"
	}
	return "any"
}

// Raw response structures matching the search service JSON format. The
// service reports coordinates as JSON numbers but some venue records carry
// them as strings; both shapes are handled in the normalizer.

type searchResponse struct {
	Status string      `json:"status"`
	Data   []rawRecord `json:"data"`
}

type rawRecord struct {
	EventID     string   `json:"event_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Link        string   `json:"link"`
	Thumbnail   string   `json:"thumbnail"`
	Tags        []string `json:"tags"`
	Venue       rawVenue `json:"venue"`
	TicketLinks []struct {
		Link string `json:"link"`
	} `json:"ticket_links"`
}

type rawVenue struct {
	Name        string          `json:"name"`
	FullAddress string          `json:"full_address"`
	City        string          `json:"city"`
	State       string          `json:"state"`
	Country     string          `json:"country"`
	Latitude    json.RawMessage `json:"latitude"`
	Longitude   json.RawMessage `json:"longitude"`
}
