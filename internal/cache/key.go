// Package cache implements the short-TTL result cache behind
// contracts.ResultCache: a mutex-guarded in-memory map and a Redis backend
// sharing one key scheme.
package cache

import (
	"fmt"
	"sort"
	"strings"

	"github.com/XavierBriggs/Beacon/pkg/models"
)

// coordPrecision rounds coordinates to ~11m so GPS jitter between
// otherwise-identical searches still hits the cache.
const coordPrecision = "%.4f"

// Key builds the canonical cache key from the subset of SearchParams that
// affects the result set. Volatile fields (RequestID, UseCache) and
// pagination are deliberately excluded; pagination is applied after the
// cached pipeline output, so one entry serves every page.
func Key(p models.SearchParams) string {
	var b strings.Builder
	b.WriteString("search:")

	if p.HasCenter() {
		fmt.Fprintf(&b, "c="+coordPrecision+","+coordPrecision+";r=%.1f;", *p.Latitude, *p.Longitude, p.Radius)
	}
	if p.Location != "" {
		b.WriteString("loc=" + strings.ToLower(strings.TrimSpace(p.Location)) + ";")
	}
	if p.StartDate != nil {
		b.WriteString("sd=" + p.StartDate.UTC().Format("2006-01-02") + ";")
	}
	if p.EndDate != nil {
		b.WriteString("ed=" + p.EndDate.UTC().Format("2006-01-02") + ";")
	}
	if p.DatePreset != models.PresetNone {
		b.WriteString("dp=" + string(p.DatePreset) + ";")
	}
	if len(p.Categories) > 0 {
		cats := make([]string, 0, len(p.Categories))
		for _, c := range p.Categories {
			cats = append(cats, string(c))
		}
		sort.Strings(cats)
		b.WriteString("cat=" + strings.Join(cats, ",") + ";")
	}
	if p.Keyword != "" {
		b.WriteString("kw=" + strings.ToLower(strings.TrimSpace(p.Keyword)) + ";")
	}
	if p.Sort != "" && p.Sort != models.SortByDate {
		b.WriteString("sort=" + string(p.Sort) + ";")
	}

	return b.String()
}
