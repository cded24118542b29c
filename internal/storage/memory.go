package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"podmatch/internal/model"
)

// Memory is the in-process map store. It is the default backend and the
// one integration tests run against. All methods copy records on the way
// in and out so callers never share map-backed pointers.
type Memory struct {
	mu       sync.RWMutex
	guests   map[string]model.Guest  // key: guestKey(name)
	channels map[string]model.Channel // key: channel ID
	analyses []model.Analysis         // newest appended last
	topics   []model.TrendingTopic
}

func NewMemory() *Memory {
	return &Memory{
		guests:   make(map[string]model.Guest),
		channels: make(map[string]model.Channel),
	}
}

func (m *Memory) UpsertGuest(ctx context.Context, g *model.Guest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guests[guestKey(g.Name)] = *g
	return nil
}

func (m *Memory) GetGuestByName(ctx context.Context, name string) (*model.Guest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.guests[guestKey(name)]
	if !ok {
		return nil, ErrNotFound
	}
	return &g, nil
}

func (m *Memory) ListGuests(ctx context.Context, field, region string, limit int) ([]model.Guest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.Guest
	for _, g := range m.guests {
		if field != "" && !strings.EqualFold(g.Field, field) {
			continue
		}
		if region != "" && !strings.EqualFold(g.Region, region) {
			continue
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TrendingScore != out[j].TrendingScore {
			return out[i].TrendingScore > out[j].TrendingScore
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) SearchGuests(ctx context.Context, query string, limit int) ([]model.GuestSuggestion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	var out []model.GuestSuggestion
	for _, g := range m.guests {
		if strings.Contains(strings.ToLower(g.Name), q) {
			out = append(out, model.GuestSuggestion{Name: g.Name, Field: g.Field})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) UpsertChannel(ctx context.Context, ch *model.Channel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels[ch.ChannelID] = *ch
	return nil
}

func (m *Memory) GetChannel(ctx context.Context, channelID string) (*model.Channel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ch, ok := m.channels[channelID]
	if !ok {
		return nil, ErrNotFound
	}
	return &ch, nil
}

func (m *Memory) InsertAnalysis(ctx context.Context, a *model.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses = append(m.analyses, *a)
	return nil
}

func (m *Memory) ListAnalysesByChannel(ctx context.Context, channelID string, limit int) ([]model.Analysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.Analysis
	for _, a := range m.analyses {
		if a.ChannelID == channelID {
			out = append(out, a)
		}
	}
	return sortAndCap(out, limit), nil
}

func (m *Memory) ListRecentAnalyses(ctx context.Context, limit int) ([]model.Analysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Analysis, len(m.analyses))
	copy(out, m.analyses)
	return sortAndCap(out, limit), nil
}

// sortAndCap orders analyses newest first and applies the row cap.
func sortAndCap(list []model.Analysis, limit int) []model.Analysis {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}

func (m *Memory) ListTrendingTopics(ctx context.Context, field, region string, limit int) ([]model.TrendingTopic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.TrendingTopic
	for _, t := range m.topics {
		if field != "" && !strings.EqualFold(t.Field, field) {
			continue
		}
		if region != "" && !strings.EqualFold(t.Region, region) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) ReplaceTrendingTopics(ctx context.Context, region string, topics []model.TrendingTopic) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.topics[:0]
	for _, t := range m.topics {
		if !strings.EqualFold(t.Region, region) {
			kept = append(kept, t)
		}
	}
	m.topics = append(kept, topics...)
	return nil
}

func (m *Memory) Stats(ctx context.Context) (*model.StatsSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &model.StatsSnapshot{
		Guests:   int64(len(m.guests)),
		Channels: int64(len(m.channels)),
		Analyses: int64(len(m.analyses)),
		Topics:   int64(len(m.topics)),
		Backend:  "memory",
	}, nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
