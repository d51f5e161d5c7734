package rapidapi

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/XavierBriggs/Beacon/internal/classifier"
	"github.com/XavierBriggs/Beacon/internal/geo"
	"github.com/XavierBriggs/Beacon/internal/normalize"
	"github.com/XavierBriggs/Beacon/pkg/models"
)

// normalizeEvent maps one search record into a canonical Event. ok=false
// drops the record.
func normalizeEvent(raw rawRecord) (models.Event, bool) {
	if raw.EventID == "" && raw.Name == "" {
		return models.Event{}, false
	}

	start, err := parseTime(raw.StartTime)
	if err != nil {
		return models.Event{}, false
	}

	coords := extractCoordinates(raw.Venue)
	venue := extractVenue(raw.Venue, coords)

	location := normalize.BuildLocation(
		raw.Venue.Name, raw.Venue.City, raw.Venue.State, raw.Venue.Country,
	)

	description := raw.Description
	if description == "" {
		description = normalize.SynthesizeDescription(raw.Name, location, start)
	}

	tagText := strings.Join(raw.Tags, " ")
	category := classifier.MapCategory(firstTag(raw.Tags), raw.Name, description+" "+tagText)

	var subcategory models.PartySubcategory
	if isParty, sub := classifier.Classify(raw.Name, description+" "+tagText, start.Hour()); isParty {
		category = models.CategoryParty
		subcategory = sub
	}

	evt := models.Event{
		ID:               models.EventID(SourceName, raw.EventID),
		Title:            raw.Name,
		Description:      description,
		Start:            start,
		Location:         location,
		Venue:            venue,
		Coords:           coords,
		Category:         category,
		PartySubcategory: subcategory,
		Source:           SourceName,
		URL:              bestLink(raw),
		Image:            raw.Thumbnail,
	}

	if raw.EndTime != "" {
		if end, err := parseTime(raw.EndTime); err == nil {
			evt.End = &end
		}
	}

	evt.DeriveDisplayFields()
	return evt, true
}

// extractCoordinates handles both number and string coordinate encodings
// the service emits, validating the pair either way.
func extractCoordinates(v rawVenue) *models.Coordinates {
	lng, okLng := parseRawNumber(v.Longitude)
	lat, okLat := parseRawNumber(v.Latitude)
	if !okLng || !okLat {
		return nil
	}
	if c, ok := geo.ParsePair(lng, lat); ok {
		return &c
	}
	return nil
}

func parseRawNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	s := strings.Trim(string(raw), `"`)
	if s == "" || s == "null" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func extractVenue(v rawVenue, coords *models.Coordinates) *models.Venue {
	if v.Name == "" && v.FullAddress == "" && v.City == "" {
		return nil
	}
	return &models.Venue{
		Name:    v.Name,
		Address: v.FullAddress,
		City:    v.City,
		State:   v.State,
		Country: v.Country,
		Coords:  coords,
	}
}

func firstTag(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return tags[0]
}

// bestLink prefers a ticket link over the plain event page.
func bestLink(raw rawRecord) string {
	for _, tl := range raw.TicketLinks {
		if tl.Link != "" {
			return tl.Link
		}
	}
	return raw.Link
}

// parseTime accepts the timestamp shapes the service emits.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}
