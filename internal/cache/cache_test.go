package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/XavierBriggs/Beacon/internal/cache"
	"github.com/XavierBriggs/Beacon/pkg/models"
	"github.com/XavierBriggs/Beacon/pkg/testutil"
)

func TestKeyExcludesVolatileFields(t *testing.T) {
	base := testutil.CenterParams(40.7128, -74.0060, 10)
	base.Categories = []models.Category{models.CategoryParty}

	withRequestID := base
	withRequestID.RequestID = "req-123"

	withPagination := base
	withPagination.Offset = 100
	withPagination.Limit = 10

	withCacheFlag := base
	withCacheFlag.UseCache = true

	key := cache.Key(base)
	for name, p := range map[string]models.SearchParams{
		"requestId":  withRequestID,
		"pagination": withPagination,
		"useCache":   withCacheFlag,
	} {
		if got := cache.Key(p); got != key {
			t.Errorf("%s must not affect the cache key: %q vs %q", name, got, key)
		}
	}
}

func TestKeyDiscriminatesEffectiveFields(t *testing.T) {
	base := testutil.CenterParams(40.7128, -74.0060, 10)
	key := cache.Key(base)

	tests := []struct {
		name   string
		mutate func(*models.SearchParams)
	}{
		{"radius", func(p *models.SearchParams) { p.Radius = 20 }},
		{"center", func(p *models.SearchParams) { p.Latitude = testutil.Ptr(41.0) }},
		{"keyword", func(p *models.SearchParams) { p.Keyword = "jazz" }},
		{"categories", func(p *models.SearchParams) { p.Categories = []models.Category{models.CategoryFood} }},
		{"preset", func(p *models.SearchParams) { p.DatePreset = models.PresetWeek }},
		{"sort", func(p *models.SearchParams) { p.Sort = models.SortByDistance }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			if cache.Key(p) == key {
				t.Errorf("%s must change the cache key", tt.name)
			}
		})
	}
}

func TestKeyRoundsCoordinates(t *testing.T) {
	a := testutil.CenterParams(40.71281, -74.00601, 10)
	b := testutil.CenterParams(40.71279, -74.00599, 10)
	if cache.Key(a) != cache.Key(b) {
		t.Error("GPS jitter below rounding precision must hit the same key")
	}
}

func TestKeyCategoryOrderIndependent(t *testing.T) {
	a := testutil.CenterParams(40.7128, -74.0060, 10)
	a.Categories = []models.Category{models.CategoryMusic, models.CategoryParty}
	b := testutil.CenterParams(40.7128, -74.0060, 10)
	b.Categories = []models.Category{models.CategoryParty, models.CategoryMusic}
	if cache.Key(a) != cache.Key(b) {
		t.Error("category order must not affect the cache key")
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := cache.NewMemory(50 * time.Millisecond)

	value := models.SearchResult{
		Events: []models.Event{testutil.NewTestEvent("test", "1", "Concert", 24)},
	}
	if err := m.Set(ctx, "k", value); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if got, ok := m.Get(ctx, "k"); !ok || len(got.Events) != 1 {
		t.Fatal("fresh entry should hit")
	}

	time.Sleep(80 * time.Millisecond)

	if _, ok := m.Get(ctx, "k"); ok {
		t.Fatal("expired entry must miss")
	}
	if m.Len() != 0 {
		t.Error("expired entry should be removed on read")
	}
}

func TestMemorySweep(t *testing.T) {
	ctx := context.Background()
	m := cache.NewMemory(10 * time.Millisecond)

	for _, key := range []string{"a", "b", "c"} {
		if err := m.Set(ctx, key, models.SearchResult{}); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	time.Sleep(30 * time.Millisecond)

	// No reads have happened; the sweep alone must purge.
	m.Sweep(ctx)
	if m.Len() != 0 {
		t.Errorf("sweep left %d expired entries", m.Len())
	}
}

func TestMemoryReplaceWholeEntry(t *testing.T) {
	ctx := context.Background()
	m := cache.NewMemory(time.Minute)

	first := models.SearchResult{Events: []models.Event{testutil.NewTestEvent("test", "1", "Old", 24)}}
	second := models.SearchResult{Events: []models.Event{
		testutil.NewTestEvent("test", "2", "New", 24),
		testutil.NewTestEvent("test", "3", "Newer", 48),
	}}

	_ = m.Set(ctx, "k", first)
	_ = m.Set(ctx, "k", second)

	got, ok := m.Get(ctx, "k")
	if !ok || len(got.Events) != 2 || got.Events[0].Title != "New" {
		t.Fatalf("entry not replaced wholesale: %+v", got.Events)
	}
}
