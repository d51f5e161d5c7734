package aggregator

import (
	"sort"
	"strings"
	"time"

	"github.com/XavierBriggs/Beacon/internal/geo"
	"github.com/XavierBriggs/Beacon/pkg/models"
)

// Process runs the merged event set through the full pipeline, in order:
// field filter, keyword filter, category filter, dedupe, geo filter, date
// filters, sort. Each step is total over the in-memory set; pagination
// happens afterwards in the engine. now anchors the "past" cutoff and the
// date presets.
func Process(events []models.Event, params models.SearchParams, now time.Time) []models.Event {
	events = filterFields(events, params)
	events = dedupe(events)
	events = filterGeo(events, params)
	events = filterDates(events, params, now)
	sortEvents(events, params)
	return events
}

// filterFields drops events failing required-field checks and applies the
// keyword and category filters.
func filterFields(events []models.Event, params models.SearchParams) []models.Event {
	keyword := strings.ToLower(strings.TrimSpace(params.Keyword))

	kept := events[:0:0]
	for _, evt := range events {
		if evt.ID == "" || evt.Title == "" || evt.Start.IsZero() {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(evt.Title), keyword) &&
			!strings.Contains(strings.ToLower(evt.Description), keyword) {
			continue
		}
		// Category was classifier-resolved at normalization, so filtering
		// on the canonical field honors the party reclassification.
		if !params.WantsCategory(evt.Category) {
			continue
		}
		kept = append(kept, evt)
	}
	return kept
}

// dedupe collapses events sharing a normalized-title+date key down to one
// survivor each, keeping first-arrival position for stable output order.
func dedupe(events []models.Event) []models.Event {
	seen := make(map[string]int, len(events))

	kept := make([]models.Event, 0, len(events))
	for _, evt := range events {
		key := dedupKey(evt)
		idx, exists := seen[key]
		if !exists {
			seen[key] = len(kept)
			kept = append(kept, evt)
			continue
		}
		if prefer(evt, kept[idx]) {
			kept[idx] = evt
		}
	}
	return kept
}

// dedupKey is the normalized lowercase title with punctuation stripped,
// plus the calendar date of the start.
func dedupKey(evt models.Event) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range strings.ToLower(evt.Title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace && b.Len() > 0 {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String()) + "|" + evt.Start.Format("2006-01-02")
}

// prefer reports whether candidate should replace incumbent as the dedup
// survivor. The preference order is fixed: coordinates, then image, then
// description length, then rank.
func prefer(candidate, incumbent models.Event) bool {
	if (candidate.Coords != nil) != (incumbent.Coords != nil) {
		return candidate.Coords != nil
	}
	if (candidate.Image != "") != (incumbent.Image != "") {
		return candidate.Image != ""
	}
	if len(candidate.Description) != len(incumbent.Description) {
		return len(candidate.Description) > len(incumbent.Description)
	}
	return candidate.Rank > incumbent.Rank
}

// filterGeo applies the radius constraint when the request has a center.
// Events without coordinates are excluded from geo-filtered results, never
// assumed in-range. Survivors get their distance attached for display and
// distance sort.
func filterGeo(events []models.Event, params models.SearchParams) []models.Event {
	if !params.HasCenter() || params.Radius <= 0 {
		return events
	}
	center := params.Center()

	kept := events[:0:0]
	for _, evt := range events {
		if evt.Coords == nil {
			continue
		}
		distance := geo.DistanceMiles(center, *evt.Coords)
		if distance > params.Radius {
			continue
		}
		evt.DistanceMiles = distance
		kept = append(kept, evt)
	}
	return kept
}

// filterDates drops events starting before local midnight today, then
// narrows to the explicit range or preset window. Preset windows use
// calendar boundaries, not rolling 24h spans.
func filterDates(events []models.Event, params models.SearchParams, now time.Time) []models.Event {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	lower := midnight
	var upper time.Time

	if params.StartDate != nil && params.StartDate.After(lower) {
		lower = *params.StartDate
	}
	if params.EndDate != nil {
		upper = *params.EndDate
	}

	switch params.DatePreset {
	case models.PresetToday:
		upper = midnight.AddDate(0, 0, 1)
	case models.PresetWeek:
		// Through the end of the current Monday-start calendar week.
		weekday := int(midnight.Weekday()+6) % 7
		upper = midnight.AddDate(0, 0, 7-weekday)
	case models.PresetMonth:
		upper = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
	}

	kept := events[:0:0]
	for _, evt := range events {
		if evt.Start.Before(lower) {
			continue
		}
		if !upper.IsZero() && !evt.Start.Before(upper) {
			continue
		}
		kept = append(kept, evt)
	}
	return kept
}

// sortEvents orders the set ascending by start (the default) or by
// distance when requested. Both sorts are stable so ties preserve
// source-arrival order.
func sortEvents(events []models.Event, params models.SearchParams) {
	if params.Sort == models.SortByDistance && params.HasCenter() {
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].DistanceMiles < events[j].DistanceMiles
		})
		return
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
}
