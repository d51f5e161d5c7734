// Package normalize holds the location/description helpers shared by the
// per-provider normalizers, so display formatting cannot drift between
// adapters.
package normalize

import (
	"strconv"
	"strings"
	"time"
)

// LocationFallback is the documented default when a provider supplies no
// usable location fragments at all.
const LocationFallback = "Location not specified"

// BuildLocation joins venue/address/city/state/country fragments into one
// human-readable string, dropping empties and deduplicating repeated tokens
// ("Austin, Austin, TX" becomes "Austin, TX"). Comparison is
// case-insensitive; the first spelling wins.
func BuildLocation(fragments ...string) string {
	seen := make(map[string]bool, len(fragments))
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		key := strings.ToLower(f)
		if seen[key] {
			continue
		}
		seen[key] = true
		parts = append(parts, f)
	}
	if len(parts) == 0 {
		return LocationFallback
	}
	return strings.Join(parts, ", ")
}

// SynthesizeDescription builds a description from metadata when the
// provider supplies none, so downstream text filters and the classifier
// still have something to inspect.
func SynthesizeDescription(title, location string, start time.Time) string {
	var b strings.Builder
	b.WriteString(title)
	if location != "" && location != LocationFallback {
		b.WriteString(" at ")
		b.WriteString(location)
	}
	if !start.IsZero() {
		b.WriteString(" on ")
		b.WriteString(start.Format("January 2, 2006"))
	}
	return b.String()
}

// ParseFloat parses provider coordinates that arrive as strings. Empty
// input and junk both report ok=false rather than zero.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FirstNonEmpty returns the first non-blank candidate, used to pick the
// best available field in a fixed priority order.
func FirstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return strings.TrimSpace(c)
		}
	}
	return ""
}
