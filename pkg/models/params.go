package models

import "time"

// DatePreset narrows results to a calendar window.
type DatePreset string

const (
	PresetNone  DatePreset = ""
	PresetToday DatePreset = "today"
	PresetWeek  DatePreset = "week"
	PresetMonth DatePreset = "month"
)

// SortOrder selects result ordering.
type SortOrder string

const (
	SortByDate     SortOrder = "date"
	SortByDistance SortOrder = "distance"
)

// SearchParams is the canonical, immutable per-request input to the engine.
// Radius is always miles; adapters convert per provider.
type SearchParams struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Radius    float64  `json:"radius,omitempty"`
	Location  string   `json:"location,omitempty"`

	StartDate  *time.Time `json:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	DatePreset DatePreset `json:"datePreset,omitempty"`

	Categories []Category `json:"categories,omitempty"`
	Keyword    string     `json:"keyword,omitempty"`

	Offset int       `json:"offset"`
	Limit  int       `json:"limit"`
	Sort   SortOrder `json:"sort,omitempty"`

	UseCache bool `json:"useCache"`

	// RequestID is volatile diagnostics metadata; it never participates in
	// cache keys.
	RequestID string `json:"requestId,omitempty"`
}

// HasCenter reports whether the request carries a usable center point.
func (p SearchParams) HasCenter() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Center returns the request center as canonical coordinates. Only valid
// when HasCenter is true.
func (p SearchParams) Center() Coordinates {
	return Coordinates{Longitude: *p.Longitude, Latitude: *p.Latitude}
}

// WantsCategory reports whether the filter set admits c. An empty set
// admits everything.
func (p SearchParams) WantsCategory(c Category) bool {
	if len(p.Categories) == 0 {
		return true
	}
	for _, want := range p.Categories {
		if want == c {
			return true
		}
	}
	return false
}
