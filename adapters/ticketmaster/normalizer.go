package ticketmaster

import (
	"fmt"
	"time"

	"github.com/XavierBriggs/Beacon/internal/classifier"
	"github.com/XavierBriggs/Beacon/internal/geo"
	"github.com/XavierBriggs/Beacon/internal/normalize"
	"github.com/XavierBriggs/Beacon/pkg/models"
)

// normalizeEvent maps one Discovery record into a canonical Event. A record
// missing both ID and name is rejected; everything else degrades to
// documented defaults. ok=false means the record is dropped.
func normalizeEvent(raw rawEvent) (models.Event, bool) {
	if raw.ID == "" && raw.Name == "" {
		return models.Event{}, false
	}

	start, ok := parseStart(raw.Dates)
	if !ok {
		return models.Event{}, false
	}

	venue, coords := extractVenue(raw)

	location := normalize.LocationFallback
	if venue != nil {
		location = normalize.BuildLocation(venue.Name, venue.City, venue.State, venue.Country)
	}

	description := normalize.FirstNonEmpty(raw.Info, raw.PleaseNote)
	if description == "" {
		description = normalize.SynthesizeDescription(raw.Name, location, start)
	}

	segment := ""
	if len(raw.Classifications) > 0 {
		segment = raw.Classifications[0].Segment.Name
	}
	category := classifier.MapCategory(segment, raw.Name, description)

	var subcategory models.PartySubcategory
	if isParty, sub := classifier.Classify(raw.Name, description, start.Hour()); isParty {
		category = models.CategoryParty
		subcategory = sub
	}

	evt := models.Event{
		ID:               models.EventID(SourceName, raw.ID),
		Title:            raw.Name,
		Description:      description,
		Start:            start,
		Location:         location,
		Venue:            venue,
		Coords:           coords,
		Category:         category,
		PartySubcategory: subcategory,
		Source:           SourceName,
		URL:              raw.URL,
		Price:            formatPrice(raw.PriceRanges),
		Image:            bestImage(raw.Images),
	}

	if raw.Dates.End.DateTime != "" {
		if end, err := time.Parse(time.RFC3339, raw.Dates.End.DateTime); err == nil {
			evt.End = &end
		}
	}

	evt.DeriveDisplayFields()
	return evt, true
}

// parseStart resolves the start timestamp in priority order: full dateTime,
// then localDate+localTime, then localDate alone.
func parseStart(dates rawDates) (time.Time, bool) {
	if dates.Start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, dates.Start.DateTime); err == nil {
			return t, true
		}
	}
	if dates.Start.LocalDate != "" {
		if dates.Start.LocalTime != "" {
			if t, err := time.Parse("2006-01-02 15:04:05", dates.Start.LocalDate+" "+dates.Start.LocalTime); err == nil {
				return t, true
			}
		}
		if t, err := time.Parse("2006-01-02", dates.Start.LocalDate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// extractVenue builds the structured venue record and its coordinates.
// Discovery reports coordinates as strings under the first venue.
func extractVenue(raw rawEvent) (*models.Venue, *models.Coordinates) {
	if len(raw.Embedded.Venues) == 0 {
		return nil, nil
	}
	rv := raw.Embedded.Venues[0]

	venue := &models.Venue{
		Name:       rv.Name,
		Address:    rv.Address.Line1,
		City:       rv.City.Name,
		State:      rv.State.StateCode,
		Country:    rv.Country.CountryCode,
		PostalCode: rv.PostalCode,
	}

	lng, okLng := normalize.ParseFloat(rv.Location.Longitude)
	lat, okLat := normalize.ParseFloat(rv.Location.Latitude)
	if okLng && okLat {
		if coords, ok := geo.ParsePair(lng, lat); ok {
			venue.Coords = &coords
			return venue, &coords
		}
	}
	return venue, nil
}

func formatPrice(ranges []rawPriceRange) string {
	if len(ranges) == 0 {
		return ""
	}
	r := ranges[0]
	if r.Min == r.Max {
		return fmt.Sprintf("%.2f %s", r.Min, r.Currency)
	}
	return fmt.Sprintf("%.2f-%.2f %s", r.Min, r.Max, r.Currency)
}

// bestImage prefers the widest image for map popups.
func bestImage(images []rawImage) string {
	best := ""
	width := 0
	for _, img := range images {
		if img.URL != "" && img.Width >= width {
			best = img.URL
			width = img.Width
		}
	}
	return best
}
