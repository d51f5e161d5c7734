package predicthq

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/XavierBriggs/Beacon/internal/geo"
	"github.com/XavierBriggs/Beacon/pkg/contracts"
	"github.com/XavierBriggs/Beacon/pkg/httpx"
	"github.com/XavierBriggs/Beacon/pkg/models"
)

const (
	SourceName = "predicthq"

	baseURL   = "https://api.predicthq.com/v1"
	timeout   = 8 * time.Second
	pageSize  = 100
	maxRadius = 300 // miles
)

// phqCategories is the category slice requested from PredictHQ; it covers
// everything that can map into the canonical set.
var phqCategories = []string{
	"concerts", "festivals", "performing-arts", "sports",
	"community", "conferences", "expos", "food-drink",
}

// Client implements contracts.SourceAdapter for the PredictHQ events API.
type Client struct {
	token string
	http  *httpx.Client
	base  string
}

var _ contracts.SourceAdapter = (*Client)(nil)

// NewClient creates a PredictHQ client with bearer-token auth.
func NewClient(token string) *Client {
	return &Client{
		token: token,
		http:  httpx.NewClient(timeout, httpx.DefaultPolicy()),
		base:  baseURL,
	}
}

// NewClientWithBase is the test constructor; base points at a mock server.
func NewClientWithBase(token, base string) *Client {
	c := NewClient(token)
	c.base = base
	return c
}

func (c *Client) Name() string { return SourceName }

func (c *Client) MaxRadiusMiles() float64 { return maxRadius }

// FetchEvents queries the events endpoint. PredictHQ takes a `within`
// constraint as "<km>km@lat,lng", so the canonical miles radius and
// (longitude, latitude) ordering convert here at the boundary.
func (c *Client) FetchEvents(ctx context.Context, params models.SearchParams) ([]models.Event, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", pageSize))
	q.Set("sort", "start")
	q.Set("category", strings.Join(phqCategories, ","))

	if params.HasCenter() {
		radius := params.Radius
		if radius <= 0 || radius > maxRadius {
			radius = maxRadius
		}
		q.Set("within", fmt.Sprintf("%.1fkm@%f,%f", geo.MilesToKm(radius), *params.Latitude, *params.Longitude))
	} else if params.Location != "" {
		q.Set("q", params.Location)
	}
	if params.Keyword != "" {
		// Keyword joins any place text already set.
		existing := q.Get("q")
		if existing != "" {
			q.Set("q", existing+" "+params.Keyword)
		} else {
			q.Set("q", params.Keyword)
		}
	}
	if params.StartDate != nil {
		q.Set("active.gte", params.StartDate.UTC().Format("2006-01-02"))
	}
	if params.EndDate != nil {
		q.Set("active.lte", params.EndDate.UTC().Format("2006-01-02"))
	}

	fullURL := fmt.Sprintf("%s/events/?%s", c.base, q.Encode())

	headers := map[string]string{
		"Authorization": "Bearer " + c.token,
		"Accept":        "application/json",
	}
	body, err := c.http.Get(ctx, fullURL, headers)
	if err != nil {
		return nil, fmt.Errorf("predicthq fetch: %w", err)
	}

	var resp eventsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &httpx.Error{Kind: httpx.KindParse, Message: "parse events response: " + err.Error()}
	}

	events := make([]models.Event, 0, len(resp.Results))
	for _, raw := range resp.Results {
		if evt, ok := normalizeEvent(raw); ok {
			events = append(events, evt)
		}
	}
	return events, nil
}

// Raw response structures matching the PredictHQ events API JSON format.

type eventsResponse struct {
	Count   int        `json:"count"`
	Results []rawEvent `json:"results"`
}

type rawEvent struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Labels      []string `json:"labels"`
	Start       string   `json:"start"`
	End         string   `json:"end"`

	// Location is GeoJSON-ordered: [lng, lat].
	Location []float64 `json:"location"`
	Geo      struct {
		Geometry struct {
			Type        string    `json:"type"`
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"geo"`

	Entities []rawEntity `json:"entities"`

	Rank          int `json:"rank"`
	LocalRank     int `json:"local_rank"`
	PhqAttendance int `json:"phq_attendance"`

	PredictedEventSpend float64 `json:"predicted_event_spend"`
}

type rawEntity struct {
	Type             string `json:"type"`
	Name             string `json:"name"`
	FormattedAddress string `json:"formatted_address"`
}
