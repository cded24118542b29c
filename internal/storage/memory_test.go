package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"podmatch/internal/model"
)

func TestUpsertGuest_IdempotentOnName(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	g := &model.Guest{Name: "Jane Doe", Field: "technology", LastUpdated: time.Now()}
	if err := m.UpsertGuest(ctx, g); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	// Same name, different case and updated field — must overwrite, not duplicate.
	g2 := &model.Guest{Name: "jane doe", Field: "business", LastUpdated: time.Now()}
	if err := m.UpsertGuest(ctx, g2); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	stats, err := m.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Guests != 1 {
		t.Errorf("guest count = %d, want 1", stats.Guests)
	}

	got, err := m.GetGuestByName(ctx, "JANE DOE")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.Field != "business" {
		t.Errorf("field = %q, want %q (latest write wins)", got.Field, "business")
	}
}

func TestGetGuestByName_NotFound(t *testing.T) {
	m := NewMemory()
	_, err := m.GetGuestByName(context.Background(), "nobody")
	if err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListAnalyses_NewestFirstAndCapped(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Insert out of order to make sure sorting does the work.
	for _, offset := range []int{3, 0, 4, 1, 2} {
		a := &model.Analysis{
			ID:        fmt.Sprintf("a%d", offset),
			ChannelID: "UC2D2CMWXMOVWx7giW1n3LIg",
			CreatedAt: base.Add(time.Duration(offset) * time.Minute),
		}
		if err := m.InsertAnalysis(ctx, a); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	list, err := m.ListAnalysesByChannel(ctx, "UC2D2CMWXMOVWx7giW1n3LIg", 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3 (cap)", len(list))
	}
	for i := 1; i < len(list); i++ {
		if !list[i-1].CreatedAt.After(list[i].CreatedAt) {
			t.Errorf("not strictly descending at %d: %v then %v",
				i, list[i-1].CreatedAt, list[i].CreatedAt)
		}
	}
	if list[0].ID != "a4" {
		t.Errorf("first = %s, want a4 (newest)", list[0].ID)
	}
}

func TestListAnalysesByChannel_FiltersChannel(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	now := time.Now()
	_ = m.InsertAnalysis(ctx, &model.Analysis{ID: "x", ChannelID: "UCaaa", CreatedAt: now})
	_ = m.InsertAnalysis(ctx, &model.Analysis{ID: "y", ChannelID: "UCbbb", CreatedAt: now})

	list, err := m.ListAnalysesByChannel(ctx, "UCaaa", 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != "x" {
		t.Errorf("got %+v, want only analysis x", list)
	}
}

func TestSearchGuests_SubstringCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for _, name := range []string{"Maya Chen", "Mario Rossi", "Priya Nair"} {
		_ = m.UpsertGuest(ctx, &model.Guest{Name: name, Field: "technology"})
	}

	got, err := m.SearchGuests(ctx, "MA", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(got), got)
	}
	if got[0].Name != "Mario Rossi" || got[1].Name != "Maya Chen" {
		t.Errorf("unexpected order: %+v", got)
	}
}

func TestListGuests_FieldAndRegionFilter(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_ = m.UpsertGuest(ctx, &model.Guest{Name: "A", Field: "technology", Region: "global", TrendingScore: 90})
	_ = m.UpsertGuest(ctx, &model.Guest{Name: "B", Field: "technology", Region: "us", TrendingScore: 80})
	_ = m.UpsertGuest(ctx, &model.Guest{Name: "C", Field: "business", Region: "global", TrendingScore: 70})

	got, err := m.ListGuests(ctx, "technology", "global", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Name != "A" {
		t.Errorf("got %+v, want only guest A", got)
	}

	all, err := m.ListGuests(ctx, "", "", 10)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].Name != "A" || all[1].Name != "B" || all[2].Name != "C" {
		t.Errorf("not sorted by trending score desc: %+v", all)
	}
}

func TestReplaceTrendingTopics_RegionScoped(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	now := time.Now()
	seed := []model.TrendingTopic{
		{Name: "AI Agents", Field: "technology", Score: 90, Region: "global", UpdatedAt: now},
		{Name: "Creator Economy", Field: "business", Score: 75, Region: "global", UpdatedAt: now},
	}
	if err := m.ReplaceTrendingTopics(ctx, "global", seed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	usSeed := []model.TrendingTopic{
		{Name: "Quantum Computing", Field: "technology", Score: 60, Region: "us", UpdatedAt: now},
	}
	if err := m.ReplaceTrendingTopics(ctx, "us", usSeed); err != nil {
		t.Fatalf("seed us: %v", err)
	}

	// Replacing global must not touch us rows.
	fresh := []model.TrendingTopic{
		{Name: "Open Source LLMs", Field: "technology", Score: 88, Region: "global", UpdatedAt: now},
	}
	if err := m.ReplaceTrendingTopics(ctx, "global", fresh); err != nil {
		t.Fatalf("replace: %v", err)
	}

	global, _ := m.ListTrendingTopics(ctx, "", "global", 0)
	if len(global) != 1 || global[0].Name != "Open Source LLMs" {
		t.Errorf("global rows = %+v, want only the fresh row", global)
	}
	us, _ := m.ListTrendingTopics(ctx, "", "us", 0)
	if len(us) != 1 || us[0].Name != "Quantum Computing" {
		t.Errorf("us rows = %+v, want untouched", us)
	}
}
