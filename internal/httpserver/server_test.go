package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/XavierBriggs/Beacon/internal/aggregator"
	"github.com/XavierBriggs/Beacon/internal/cache"
	"github.com/XavierBriggs/Beacon/internal/health"
	"github.com/XavierBriggs/Beacon/internal/httpserver"
	"github.com/XavierBriggs/Beacon/pkg/contracts"
	"github.com/XavierBriggs/Beacon/pkg/httpx"
	"github.com/XavierBriggs/Beacon/pkg/models"
	"github.com/XavierBriggs/Beacon/pkg/testutil"
)

type stubAdapter struct {
	name   string
	events []models.Event
	err    error
}

func (s *stubAdapter) Name() string            { return s.name }
func (s *stubAdapter) MaxRadiusMiles() float64 { return 500 }
func (s *stubAdapter) FetchEvents(context.Context, models.SearchParams) ([]models.Event, error) {
	return s.events, s.err
}

func newTestServer(adapters ...contracts.SourceAdapter) (*httptest.Server, *health.Manager) {
	hm := health.NewManager(0, 0)
	engine := aggregator.New(adapters, hm, cache.NewMemory(time.Minute), time.Second)
	router := httpserver.NewRouter(engine, hm, nil)
	return httptest.NewServer(router), hm
}

func TestSearchEndpointPartialResults(t *testing.T) {
	good := &stubAdapter{
		name:   "goodsource",
		events: []models.Event{testutil.NewTestEvent("goodsource", "1", "Concert", 24)},
	}
	bad := &stubAdapter{
		name: "badsource",
		err:  &httpx.Error{Kind: httpx.KindTimeout, Message: "deadline exceeded"},
	}
	srv, _ := newTestServer(good, bad)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/events/search?latitude=40.7128&longitude=-74.0060&radius=10")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	// A provider failure never fails the request.
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result models.SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if result.SourceStats["badsource"].Error == nil {
		t.Error("failed provider missing from sourceStats")
	}
	if result.SourceStats["goodsource"].Count != 1 {
		t.Errorf("healthy provider count = %d, want 1", result.SourceStats["goodsource"].Count)
	}
	if result.Meta.RequestID == "" {
		t.Error("meta should carry a request id")
	}
}

func TestSearchEndpointValidation(t *testing.T) {
	srv, _ := newTestServer(&stubAdapter{name: "onlysource"})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/events/search?latitude=999&longitude=-74&radius=-1")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var body struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	// Both invalid fields are reported, not just the first.
	if _, ok := body.Fields["latitude"]; !ok {
		t.Error("latitude error missing")
	}
	if _, ok := body.Fields["radius"]; !ok {
		t.Error("radius error missing")
	}
}

func TestSearchEndpointPost(t *testing.T) {
	srv, _ := newTestServer(&stubAdapter{
		name:   "onlysource",
		events: []models.Event{testutil.NewTestEvent("onlysource", "1", "Concert", 24)},
	})
	defer srv.Close()

	payload := `{"latitude": 40.7128, "longitude": -74.0060, "radius": 10, "limit": 5}`
	resp, err := http.Post(srv.URL+"/api/v1/events/search", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestProvidersEndpoint(t *testing.T) {
	srv, hm := newTestServer(&stubAdapter{name: "onlysource"})
	defer srv.Close()
	hm.Disable("onlysource", "missing API key")

	resp, err := http.Get(srv.URL + "/api/v1/providers")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Providers []health.Record `json:"providers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(body.Providers) != 1 {
		t.Fatalf("expected 1 provider record, got %d", len(body.Providers))
	}
	if body.Providers[0].IsValid || body.Providers[0].LastError != "missing API key" {
		t.Errorf("unexpected record: %+v", body.Providers[0])
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(&stubAdapter{name: "onlysource"})
	defer srv.Close()

	for _, path := range []string{"/health", "/ready"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("%s failed: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s = %d, want 200", path, resp.StatusCode)
		}
	}
}
