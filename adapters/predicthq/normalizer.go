package predicthq

import (
	"strings"
	"time"

	"github.com/XavierBriggs/Beacon/internal/classifier"
	"github.com/XavierBriggs/Beacon/internal/geo"
	"github.com/XavierBriggs/Beacon/internal/normalize"
	"github.com/XavierBriggs/Beacon/pkg/models"
)

// normalizeEvent maps one PredictHQ result into a canonical Event. ok=false
// drops the record.
func normalizeEvent(raw rawEvent) (models.Event, bool) {
	if raw.ID == "" && raw.Title == "" {
		return models.Event{}, false
	}

	start, err := parseTime(raw.Start)
	if err != nil {
		return models.Event{}, false
	}

	coords := extractCoordinates(raw)
	venue := extractVenue(raw, coords)

	location := normalize.LocationFallback
	if venue != nil {
		location = normalize.BuildLocation(venue.Name, venue.Address)
	}

	description := raw.Description
	if description == "" {
		description = normalize.SynthesizeDescription(raw.Title, location, start)
	}

	category := classifier.MapCategory(raw.Category, raw.Title, description)

	labelText := strings.Join(raw.Labels, " ")
	var subcategory models.PartySubcategory
	if isParty, sub := classifier.Classify(raw.Title, description+" "+labelText, start.Hour()); isParty {
		category = models.CategoryParty
		subcategory = sub
	}

	evt := models.Event{
		ID:               models.EventID(SourceName, raw.ID),
		Title:            raw.Title,
		Description:      description,
		Start:            start,
		Location:         location,
		Venue:            venue,
		Coords:           coords,
		Category:         category,
		PartySubcategory: subcategory,
		Source:           SourceName,
		Rank:             raw.Rank,
		LocalRelevance:   raw.LocalRank,
		DemandSurge:      raw.PredictedEventSpend,
	}

	if raw.PhqAttendance > 0 {
		evt.Attendance = &models.Attendance{Forecast: raw.PhqAttendance}
	}
	if raw.End != "" {
		if end, err := parseTime(raw.End); err == nil {
			evt.End = &end
		}
	}

	evt.DeriveDisplayFields()
	return evt, true
}

// extractCoordinates checks candidate fields in fixed priority order:
// the top-level location array, then the geo geometry. Both are
// GeoJSON-ordered [lng, lat], matching the canonical convention directly.
func extractCoordinates(raw rawEvent) *models.Coordinates {
	if len(raw.Location) == 2 {
		if c, ok := geo.ParsePair(raw.Location[0], raw.Location[1]); ok {
			return &c
		}
	}
	if g := raw.Geo.Geometry; g.Type == "Point" && len(g.Coordinates) == 2 {
		if c, ok := geo.ParsePair(g.Coordinates[0], g.Coordinates[1]); ok {
			return &c
		}
	}
	return nil
}

// extractVenue pulls the first venue-typed entity, falling back to any
// entity with a formatted address.
func extractVenue(raw rawEvent, coords *models.Coordinates) *models.Venue {
	var picked *rawEntity
	for i := range raw.Entities {
		e := &raw.Entities[i]
		if e.Type == "venue" {
			picked = e
			break
		}
		if picked == nil && e.FormattedAddress != "" {
			picked = e
		}
	}
	if picked == nil {
		return nil
	}
	return &models.Venue{
		Name:    picked.Name,
		Address: picked.FormattedAddress,
		Coords:  coords,
	}
}

// parseTime accepts the two timestamp shapes PredictHQ emits.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}
