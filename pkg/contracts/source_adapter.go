package contracts

import (
	"context"

	"github.com/XavierBriggs/Beacon/pkg/models"
)

// SourceAdapter defines the interface every provider client implements.
// This is the stable seam for adding providers without touching the
// aggregation pipeline.
type SourceAdapter interface {
	// Name returns the provider key used in IDs, stats, and health records
	// (e.g. "ticketmaster").
	Name() string

	// FetchEvents queries the provider and returns fully normalized
	// canonical events. Malformed provider records are dropped inside the
	// adapter, never surfaced; the error return covers transport-level
	// failures only, classified per httpx.Error.
	FetchEvents(ctx context.Context, params models.SearchParams) ([]models.Event, error)

	// MaxRadiusMiles returns the largest search radius the provider
	// accepts; the adapter clamps larger requests to it.
	MaxRadiusMiles() float64
}
