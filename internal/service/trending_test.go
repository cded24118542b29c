package service

import (
	"context"
	"testing"

	"podmatch/internal/storage"
)

func newTrendingForTest(t *testing.T) (*TrendingService, storage.Store) {
	t.Helper()
	store := storage.NewMemory()
	return NewTrendingService(store, NewCacheService(""), nil), store
}

func TestRefresh_ScoresStayInBounds(t *testing.T) {
	svc, store := newTrendingForTest(t)
	ctx := context.Background()

	n, err := svc.Refresh(ctx, "us")
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if n == 0 {
		t.Fatal("Refresh wrote no rows")
	}

	topics, err := store.ListTrendingTopics(ctx, "", "us", 0)
	if err != nil {
		t.Fatalf("ListTrendingTopics returned error: %v", err)
	}
	if len(topics) != n {
		t.Errorf("stored %d rows, Refresh reported %d", len(topics), n)
	}
	for _, topic := range topics {
		if topic.Score < trendingScoreMin || topic.Score > trendingScoreMax {
			t.Errorf("topic %q score %.0f outside [%d,%d]", topic.Name, topic.Score, trendingScoreMin, trendingScoreMax)
		}
		if topic.Region != "us" {
			t.Errorf("topic %q region = %q, want us", topic.Name, topic.Region)
		}
	}
}

func TestRefresh_ReplacesRegionRows(t *testing.T) {
	svc, store := newTrendingForTest(t)
	ctx := context.Background()

	first, err := svc.Refresh(ctx, "us")
	if err != nil {
		t.Fatalf("first Refresh: %v", err)
	}
	if _, err := svc.Refresh(ctx, "uk"); err != nil {
		t.Fatalf("uk Refresh: %v", err)
	}
	// Refreshing a region again must not accumulate rows for it.
	if _, err := svc.Refresh(ctx, "us"); err != nil {
		t.Fatalf("second us Refresh: %v", err)
	}

	usTopics, err := store.ListTrendingTopics(ctx, "", "us", 0)
	if err != nil {
		t.Fatalf("ListTrendingTopics: %v", err)
	}
	if len(usTopics) != first {
		t.Errorf("us rows after double refresh = %d, want %d", len(usTopics), first)
	}

	ukTopics, err := store.ListTrendingTopics(ctx, "", "uk", 0)
	if err != nil {
		t.Fatalf("ListTrendingTopics: %v", err)
	}
	if len(ukTopics) == 0 {
		t.Error("uk rows must survive a us refresh")
	}
}

func TestSeedIfEmpty_OnlySeedsOnce(t *testing.T) {
	svc, store := newTrendingForTest(t)
	ctx := context.Background()

	if err := svc.SeedIfEmpty(ctx); err != nil {
		t.Fatalf("first SeedIfEmpty: %v", err)
	}
	before, err := store.ListTrendingTopics(ctx, "", "", 0)
	if err != nil {
		t.Fatalf("ListTrendingTopics: %v", err)
	}
	if len(before) == 0 {
		t.Fatal("seeding wrote nothing")
	}

	if err := svc.SeedIfEmpty(ctx); err != nil {
		t.Fatalf("second SeedIfEmpty: %v", err)
	}
	after, err := store.ListTrendingTopics(ctx, "", "", 0)
	if err != nil {
		t.Fatalf("ListTrendingTopics: %v", err)
	}
	if len(after) != len(before) {
		t.Errorf("row count changed on second seed: %d to %d", len(before), len(after))
	}
}

func TestSeedOverridesReplaceField(t *testing.T) {
	store := storage.NewMemory()
	overrides := map[string][]string{"technology": {"Edge Computing"}}
	svc := NewTrendingService(store, NewCacheService(""), overrides)
	ctx := context.Background()

	if _, err := svc.Refresh(ctx, "global"); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	topics, err := store.ListTrendingTopics(ctx, "technology", "global", 0)
	if err != nil {
		t.Fatalf("ListTrendingTopics: %v", err)
	}
	if len(topics) != 1 || topics[0].Name != "Edge Computing" {
		t.Errorf("technology topics = %+v, want just Edge Computing", topics)
	}
}

func TestTrendingFactor_UsesTableAndBounds(t *testing.T) {
	svc, _ := newTrendingForTest(t)
	ctx := context.Background()

	if _, err := svc.Refresh(ctx, "global"); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	for _, period := range []string{"7d", "30d", "90d", ""} {
		t.Run("period "+period, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				got := svc.TrendingFactor(ctx, "technology", "global", period)
				if got < 0 || got > 100 {
					t.Fatalf("factor = %d, outside [0,100]", got)
				}
			}
		})
	}
}

func TestTrendingFactor_EmptyTableFallsBack(t *testing.T) {
	svc, _ := newTrendingForTest(t)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		got := svc.TrendingFactor(ctx, "technology", "global", "30d")
		if got < 40 || got > 95 {
			t.Fatalf("fallback factor = %d, outside [40,95]", got)
		}
	}
}

func TestJitterWindow(t *testing.T) {
	tests := []struct {
		period string
		want   int
	}{
		{"7d", 5},
		{"30d", 10},
		{"90d", 15},
		{"", 10},
		{"1y", 10},
	}
	for _, tt := range tests {
		if got := jitterWindow(tt.period); got != tt.want {
			t.Errorf("jitterWindow(%q) = %d, want %d", tt.period, got, tt.want)
		}
	}
}
