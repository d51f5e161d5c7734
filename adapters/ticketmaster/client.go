package ticketmaster

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/XavierBriggs/Beacon/pkg/contracts"
	"github.com/XavierBriggs/Beacon/pkg/httpx"
	"github.com/XavierBriggs/Beacon/pkg/models"
)

const (
	SourceName = "ticketmaster"

	baseURL    = "https://app.ticketmaster.com/discovery/v2"
	timeout    = 8 * time.Second
	pageSize   = 100
	maxRadius  = 500 // miles, Discovery API cap
	queryDate  = "2006-01-02T15:04:05Z"
)

// segmentNames maps canonical categories onto Discovery segment names for
// server-side narrowing.
var segmentNames = map[models.Category]string{
	models.CategoryMusic:  "Music",
	models.CategorySports: "Sports",
	models.CategoryArts:   "Arts & Theatre",
	models.CategoryFamily: "Family",
}

// Client implements contracts.SourceAdapter for the Ticketmaster Discovery API.
type Client struct {
	apiKey string
	http   *httpx.Client
	base   string
}

var _ contracts.SourceAdapter = (*Client)(nil)

// NewClient creates a Ticketmaster Discovery client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		http:   httpx.NewClient(timeout, httpx.DefaultPolicy()),
		base:   baseURL,
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

// FetchEvents queries the Discovery events endpoint and returns normalized
// canonical events. Malformed records are dropped, never surfaced.
func (c *Client) FetchEvents(ctx context.Context, params models.SearchParams) ([]models.Event, error) {
	q := url.Values{}
	q.Set("apikey", c.apiKey)
	q.Set("size", fmt.Sprintf("%d", pageSize))
	q.Set("sort", "date,asc")

	if params.HasCenter() {
		q.Set("latlong", fmt.Sprintf("%f,%f", *params.Latitude, *params.Longitude))
		radius := params.Radius
		if radius <= 0 || radius > maxRadius {
			radius = maxRadius
		}
		q.Set("radius", fmt.Sprintf("%.0f", radius))
		q.Set("unit", "miles")
	}
	if params.Location != "" {
		// Hybrid query: Discovery treats city as an additional constraint
		// alongside latlong when both are present.
		q.Set("city", params.Location)
	}
	if params.Keyword != "" {
		q.Set("keyword", params.Keyword)
	}
	for _, cat := range params.Categories {
		// Categories without a Discovery segment (party, food) are filtered
		// post-merge instead.
		if seg, ok := segmentNames[cat]; ok {
			q.Add("classificationName", seg)
		}
	}
	if params.StartDate != nil {
		q.Set("startDateTime", params.StartDate.UTC().Format(queryDate))
	}
	if params.EndDate != nil {
		q.Set("endDateTime", params.EndDate.UTC().Format(queryDate))
	}

	fullURL := fmt.Sprintf("%s/events.json?%s", c.base, q.Encode())

	body, err := c.http.Get(ctx, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ticketmaster fetch: %w", err)
	}

	var resp discoveryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &httpx.Error{Kind: httpx.KindParse, Message: "parse discovery response: " + err.Error()}
	}

	events := make([]models.Event, 0, len(resp.Embedded.Events))
	for _, raw := range resp.Embedded.Events {
		if evt, ok := normalizeEvent(raw); ok {
			events = append(events, evt)
		}
	}
	return events, nil
}

// Raw response structures matching the Discovery API JSON format. Optional
// fields stay pointers or zero values; the normalizer decides defaults.

type discoveryResponse struct {
	Embedded struct {
		Events []rawEvent `json:"events"`
	} `json:"_embedded"`
	Page struct {
		TotalElements int `json:"totalElements"`
	} `json:"page"`
}

type rawEvent struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	URL             string              `json:"url"`
	Info            string              `json:"info"`
	PleaseNote      string              `json:"pleaseNote"`
	Dates           rawDates            `json:"dates"`
	Classifications []rawClassification `json:"classifications"`
	PriceRanges     []rawPriceRange     `json:"priceRanges"`
	Images          []rawImage          `json:"images"`
	Embedded        struct {
		Venues []rawVenue `json:"venues"`
	} `json:"_embedded"`
}

type rawDates struct {
	Start struct {
		DateTime  string `json:"dateTime"`
		LocalDate string `json:"localDate"`
		LocalTime string `json:"localTime"`
	} `json:"start"`
	End struct {
		DateTime string `json:"dateTime"`
	} `json:"end"`
}

type rawClassification struct {
	Segment struct {
		Name string `json:"name"`
	} `json:"segment"`
	Genre struct {
		Name string `json:"name"`
	} `json:"genre"`
}

type rawPriceRange struct {
	Currency string  `json:"currency"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

type rawImage struct {
	URL   string `json:"url"`
	Width int    `json:"width"`
}

type rawVenue struct {
	Name string `json:"name"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	State struct {
		StateCode string `json:"stateCode"`
	} `json:"state"`
	Country struct {
		CountryCode string `json:"countryCode"`
	} `json:"country"`
	PostalCode string `json:"postalCode"`
	Address    struct {
		Line1 string `json:"line1"`
	} `json:"address"`
	Location struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"location"`
}
