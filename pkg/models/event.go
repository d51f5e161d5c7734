package models

import (
	"fmt"
	"time"
)

// Category is the canonical event category every provider is normalized into.
type Category string

const (
	CategoryMusic  Category = "music"
	CategorySports Category = "sports"
	CategoryArts   Category = "arts"
	CategoryFamily Category = "family"
	CategoryFood   Category = "food"
	CategoryParty  Category = "party"
	CategoryOther  Category = "other"
)

// KnownCategories lists every canonical category, in display order.
var KnownCategories = []Category{
	CategoryMusic,
	CategorySports,
	CategoryArts,
	CategoryFamily,
	CategoryFood,
	CategoryParty,
	CategoryOther,
}

// ValidCategory reports whether c is part of the canonical enumeration.
func ValidCategory(c Category) bool {
	for _, k := range KnownCategories {
		if c == k {
			return true
		}
	}
	return false
}

// PartySubcategory refines CategoryParty events for styling and filtering.
type PartySubcategory string

const (
	PartyDayParty    PartySubcategory = "day-party"
	PartyBrunch      PartySubcategory = "brunch"
	PartyClub        PartySubcategory = "club"
	PartyNetworking  PartySubcategory = "networking"
	PartyCelebration PartySubcategory = "celebration"
	PartyImmersive   PartySubcategory = "immersive"
	PartyPopup       PartySubcategory = "popup"
	PartySilent      PartySubcategory = "silent"
	PartyRooftop     PartySubcategory = "rooftop"
	PartySocial      PartySubcategory = "social"
	PartyGeneral     PartySubcategory = "general"
)

// Coordinates is a validated (longitude, latitude) pair.
// Longitude always comes first; adapters convert provider ordering at the boundary.
type Coordinates struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Valid reports whether the pair lies within [-180,180] x [-90,90].
// A (0,0) pair is treated as invalid: every provider in practice emits it
// as a null-island placeholder, never as a real venue.
func (c Coordinates) Valid() bool {
	if c.Longitude == 0 && c.Latitude == 0 {
		return false
	}
	return c.Longitude >= -180 && c.Longitude <= 180 &&
		c.Latitude >= -90 && c.Latitude <= 90
}

// Venue is the structured location sub-record, populated when the provider
// supplies one.
type Venue struct {
	Name       string       `json:"name,omitempty"`
	Address    string       `json:"address,omitempty"`
	City       string       `json:"city,omitempty"`
	State      string       `json:"state,omitempty"`
	Country    string       `json:"country,omitempty"`
	PostalCode string       `json:"postalCode,omitempty"`
	Coords     *Coordinates `json:"coordinates,omitempty"`
}

// Attendance carries provider demand signals when available.
type Attendance struct {
	Forecast int `json:"forecast,omitempty"`
	Actual   int `json:"actual,omitempty"`
}

// Event is the canonical record all providers normalize into. An Event is
// fully formed at construction; nothing in the pipeline mutates it afterwards.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
	// Date and Time are display fields derived from Start.
	Date string `json:"date"`
	Time string `json:"time"`

	Location string       `json:"location"`
	Venue    *Venue       `json:"venue,omitempty"`
	Coords   *Coordinates `json:"coordinates,omitempty"`

	Category         Category         `json:"category"`
	PartySubcategory PartySubcategory `json:"partySubcategory,omitempty"`

	Source string `json:"source"`

	// Provider-specific signals, carried through for sorting and UI.
	Rank           int         `json:"rank,omitempty"`
	LocalRelevance int         `json:"localRelevance,omitempty"`
	Attendance     *Attendance `json:"attendance,omitempty"`
	DemandSurge    float64     `json:"demandSurge,omitempty"`

	Price string `json:"price,omitempty"`
	URL   string `json:"url,omitempty"`
	Image string `json:"image,omitempty"`

	// DistanceMiles is attached by the geo filter when the request carries a
	// center point; zero-valued otherwise.
	DistanceMiles float64 `json:"distanceMiles,omitempty"`
}

// EventID builds the namespaced canonical ID for a provider record.
func EventID(source, providerID string) string {
	return fmt.Sprintf("%s:%s", source, providerID)
}

// DisplayDate and DisplayTime are the layouts used for the derived
// Date/Time fields across every normalizer.
const (
	DisplayDate = "2006-01-02"
	DisplayTime = "3:04 PM"
)

// DeriveDisplayFields fills Date and Time from Start. Normalizers call this
// once after setting Start so the display strings always agree with the
// source-of-truth timestamp.
func (e *Event) DeriveDisplayFields() {
	e.Date = e.Start.Format(DisplayDate)
	e.Time = e.Start.Format(DisplayTime)
}
