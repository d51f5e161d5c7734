package predicthq_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/XavierBriggs/Beacon/adapters/predicthq"
	"github.com/XavierBriggs/Beacon/pkg/models"
	"github.com/XavierBriggs/Beacon/pkg/testutil"
)

const eventsFixture = `{
  "count": 3,
  "results": [
    {
      "id": "phq1",
      "title": "Summer Music Festival",
      "description": "Three days of live music",
      "category": "festivals",
      "labels": ["music", "outdoor"],
      "start": "2026-09-10T12:00:00Z",
      "end": "2026-09-12T23:00:00Z",
      "location": [-74.0060, 40.7128],
      "entities": [
        {"type": "venue", "name": "Liberty Park", "formatted_address": "200 Liberty St, New York, NY"}
      ],
      "rank": 85,
      "local_rank": 92,
      "phq_attendance": 15000
    },
    {
      "id": "phq2",
      "title": "Rooftop Day Party",
      "category": "community",
      "labels": ["social"],
      "start": "2026-09-11T15:00:00Z",
      "geo": {"geometry": {"type": "Point", "coordinates": [-73.99, 40.72]}}
    },
    {
      "id": "phq3",
      "title": "Nowhere Event",
      "category": "concerts",
      "start": "2026-09-11T20:00:00Z",
      "location": [500, 100]
    }
  ]
}`

func TestFetchEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("wrong auth header: %q", got)
		}
		within := r.URL.Query().Get("within")
		if !strings.HasSuffix(strings.Split(within, "@")[0], "km") {
			t.Errorf("within must carry a km radius, got %q", within)
		}
		w.Write([]byte(eventsFixture))
	}))
	defer srv.Close()

	client := predicthq.NewClientWithBase("test-token", srv.URL)
	events, err := client.FetchEvents(context.Background(), testutil.CenterParams(40.7128, -74.0060, 10))
	if err != nil {
		t.Fatalf("FetchEvents failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	festival := events[0]
	if festival.ID != "predicthq:phq1" {
		t.Errorf("ID not namespaced: %s", festival.ID)
	}
	if festival.Category != models.CategoryMusic {
		t.Errorf("festivals should map to music, got %s", festival.Category)
	}
	if festival.Coords == nil || festival.Coords.Longitude != -74.0060 || festival.Coords.Latitude != 40.7128 {
		t.Errorf("GeoJSON [lng,lat] parsed wrong: %+v", festival.Coords)
	}
	if festival.Rank != 85 || festival.LocalRelevance != 92 {
		t.Errorf("rank signals dropped: rank=%d local=%d", festival.Rank, festival.LocalRelevance)
	}
	if festival.Attendance == nil || festival.Attendance.Forecast != 15000 {
		t.Errorf("attendance forecast dropped: %+v", festival.Attendance)
	}
	if festival.End == nil {
		t.Error("end time dropped")
	}

	party := events[1]
	if party.Category != models.CategoryParty {
		t.Errorf("day party should reclassify to party, got %s", party.Category)
	}
	if party.PartySubcategory != models.PartyRooftop {
		t.Errorf("rooftop beats day-party in priority, got %s", party.PartySubcategory)
	}
	if party.Coords == nil || party.Coords.Longitude != -73.99 {
		t.Errorf("geometry fallback coordinates wrong: %+v", party.Coords)
	}

	// Out-of-range coordinates degrade to absent, not to a broken event.
	if events[2].Coords != nil {
		t.Error("out-of-range coordinates must be discarded")
	}
}

func TestFetchEventsFreeTextQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(`{"count":0,"results":[]}`))
	}))
	defer srv.Close()

	client := predicthq.NewClientWithBase("test-token", srv.URL)
	params := models.SearchParams{Location: "Austin", Keyword: "festival", Limit: 50}
	if _, err := client.FetchEvents(context.Background(), params); err != nil {
		t.Fatalf("FetchEvents failed: %v", err)
	}
	if gotQuery != "Austin festival" {
		t.Errorf("free-text query wrong: %q", gotQuery)
	}
}
