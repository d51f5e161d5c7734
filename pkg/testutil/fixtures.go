package testutil

import (
	"time"

	"github.com/XavierBriggs/Beacon/pkg/models"
)

// NewTestEvent creates a canonical event starting the given number of
// hours from now, with display fields derived.
func NewTestEvent(source, providerID, title string, hoursUntilStart float64) models.Event {
	evt := models.Event{
		ID:       models.EventID(source, providerID),
		Title:    title,
		Start:    time.Now().Add(time.Duration(hoursUntilStart * float64(time.Hour))),
		Location: "Test Venue, Test City",
		Category: models.CategoryOther,
		Source:   source,
	}
	evt.DeriveDisplayFields()
	return evt
}

// WithCoords returns a copy of evt pinned at the given point.
func WithCoords(evt models.Event, lng, lat float64) models.Event {
	c := models.Coordinates{Longitude: lng, Latitude: lat}
	evt.Coords = &c
	return evt
}

// CenterParams builds search params around a center point with the given
// radius in miles. Caching is off so engine tests hit providers every time
// unless they opt in.
func CenterParams(lat, lng, radius float64) models.SearchParams {
	return models.SearchParams{
		Latitude:  &lat,
		Longitude: &lng,
		Radius:    radius,
		Limit:     50,
	}
}

// Ptr returns a pointer to v, for optional request fields in tests.
func Ptr[T any](v T) *T { return &v }
