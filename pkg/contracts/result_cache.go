package contracts

import (
	"context"

	"github.com/XavierBriggs/Beacon/pkg/models"
)

// ResultCache stores fully processed search results keyed by the effective
// search parameters. Entries are replaced wholesale, never patched, so a
// read racing a write degrades to a miss at worst.
type ResultCache interface {
	// Get returns the cached result for key, or ok=false on miss or expiry.
	// An expired entry is removed on read.
	Get(ctx context.Context, key string) (models.SearchResult, bool)

	// Set stores value under key with the cache's TTL, replacing any
	// previous entry.
	Set(ctx context.Context, key string, value models.SearchResult) error

	// Sweep purges expired entries so memory stays bounded even without
	// reads. Backends with server-side expiry may make this a no-op.
	Sweep(ctx context.Context)
}
