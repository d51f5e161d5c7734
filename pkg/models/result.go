package models

import "time"

// SourceResult is one provider's pre-merge outcome: whatever events it
// returned (already normalized) or the error that stopped it. Exactly one
// SourceResult exists per known provider per request, even for providers
// that were skipped by the health gate.
type SourceResult struct {
	Source string
	Events []Event
	Err    error
}

// SourceStat is the per-provider diagnostic reported to callers. Count
// reflects what the provider actually returned before dedup, so a provider
// whose events all lost dedup ties still shows its true contribution.
type SourceStat struct {
	Count int     `json:"count"`
	Error *string `json:"error"`
}

// Meta carries timing and pagination diagnostics for a search response.
type Meta struct {
	ExecutionTimeMS int64     `json:"executionTime"`
	TotalEvents     int       `json:"totalEvents"`
	WithCoordinates int       `json:"eventsWithCoordinates"`
	Timestamp       time.Time `json:"timestamp"`
	Offset          int       `json:"offset"`
	Limit           int       `json:"limit"`
	HasMore         bool      `json:"hasMore"`
	CacheHit        bool      `json:"cacheHit"`
	RequestID       string    `json:"requestId,omitempty"`
}

// SearchResult is the engine's complete output for one request.
type SearchResult struct {
	Events      []Event               `json:"events"`
	SourceStats map[string]SourceStat `json:"sourceStats"`
	Meta        Meta                  `json:"meta"`
}
