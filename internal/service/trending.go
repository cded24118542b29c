package service

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"strings"
	"time"

	"podmatch/internal/model"
	"podmatch/internal/storage"
)

// Trending scores are simulated; every refresh re-rolls them inside
// these bounds.
const (
	trendingScoreMin = 40
	trendingScoreMax = 95
)

// DefaultRegions are seeded and refreshed when no region list is
// configured.
var DefaultRegions = []string{"global", "us", "uk", "in"}

// defaultSeedTopics maps a field tag to its sample topic names. A
// seedTopics section in the scoring config replaces entries per field.
var defaultSeedTopics = map[string][]string{
	"technology": {
		"Artificial Intelligence",
		"Quantum Computing",
		"Cybersecurity",
		"Web3 and Decentralization",
		"Robotics",
	},
	"business": {
		"Startup Funding",
		"Remote Work",
		"Creator Economy",
		"Supply Chain Resilience",
		"Sustainable Business",
	},
	"science": {
		"Space Exploration",
		"CRISPR and Gene Editing",
		"Climate Research",
		"Neuroscience",
		"Longevity",
	},
	"health": {
		"Mental Health",
		"Nutrition Science",
		"Sleep Optimization",
		"Preventive Medicine",
		"Fitness Technology",
	},
	"entertainment": {
		"Streaming Wars",
		"Celebrity Interviews",
		"Gaming Culture",
		"True Crime",
		"Stand-up Comedy",
	},
}

// TrendingService owns the simulated trending-topic table: seeding,
// cached reads, per-region refreshes and the trending factor used by
// analyses.
type TrendingService struct {
	store storage.Store
	cache *CacheService
	seeds map[string][]string
}

func NewTrendingService(store storage.Store, cache *CacheService, overrides map[string][]string) *TrendingService {
	seeds := make(map[string][]string, len(defaultSeedTopics))
	for field, names := range defaultSeedTopics {
		seeds[field] = names
	}
	for field, names := range overrides {
		if len(names) > 0 {
			seeds[strings.ToLower(field)] = names
		}
	}
	return &TrendingService{store: store, cache: cache, seeds: seeds}
}

// List returns trending topics for the optional field/region filters.
// Uses cache-aside: check Redis first, fall back to the store, then
// populate cache.
func (s *TrendingService) List(ctx context.Context, field, region string, limit int) ([]model.TrendingTopic, error) {
	if cached, err := s.cache.GetTrending(ctx, field, region); err != nil {
		log.Printf("cache: trending get error: %v", err)
	} else if cached != nil {
		var topics []model.TrendingTopic
		if err := json.Unmarshal(cached, &topics); err == nil {
			return topics, nil
		}
	}

	topics, err := s.store.ListTrendingTopics(ctx, field, region, limit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetTrending(ctx, field, region, topics); err != nil {
		log.Printf("cache: trending set error: %v", err)
	}
	return topics, nil
}

// Refresh bulk-replaces one region's rows with freshly rolled scores and
// returns the row count written.
func (s *TrendingService) Refresh(ctx context.Context, region string) (int, error) {
	now := time.Now().UTC()

	var topics []model.TrendingTopic
	for field, names := range s.seeds {
		for _, name := range names {
			topics = append(topics, model.TrendingTopic{
				Name:      name,
				Field:     field,
				Score:     randomTrendingScore(),
				Region:    region,
				UpdatedAt: now,
			})
		}
	}

	if err := s.store.ReplaceTrendingTopics(ctx, region, topics); err != nil {
		return 0, err
	}
	if err := s.cache.InvalidateTrending(ctx); err != nil {
		log.Printf("cache: trending invalidate error: %v", err)
	}
	return len(topics), nil
}

// RefreshAll refreshes every region, returning total rows written. A
// failing region aborts the sweep.
func (s *TrendingService) RefreshAll(ctx context.Context, regions []string) (int, error) {
	if len(regions) == 0 {
		regions = DefaultRegions
	}
	total := 0
	for _, region := range regions {
		n, err := s.Refresh(ctx, region)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// SeedIfEmpty populates the table on first start so trending endpoints
// have data before the first cron tick.
func (s *TrendingService) SeedIfEmpty(ctx context.Context) error {
	existing, err := s.store.ListTrendingTopics(ctx, "", "", 1)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	n, err := s.RefreshAll(ctx, nil)
	if err != nil {
		return err
	}
	log.Printf("trending: seeded %d topics across %d regions", n, len(DefaultRegions))
	return nil
}

// TrendingFactor is the strongest topic score for the guest's field and
// region, jittered by the requested period window; the bounded random
// fallback covers an empty table.
func (s *TrendingService) TrendingFactor(ctx context.Context, field, region, period string) int {
	topics, err := s.store.ListTrendingTopics(ctx, field, region, 1)
	if err != nil {
		log.Printf("trending: factor lookup failed: %v", err)
		return SimulatedTrendingFactor()
	}
	if len(topics) == 0 {
		return SimulatedTrendingFactor()
	}

	window := jitterWindow(period)
	score := int(topics[0].Score) + rand.Intn(2*window+1) - window
	return clampScore(score)
}

// jitterWindow maps a trendingPeriod to the +/- band applied to table
// scores. Longer windows mean staler data, so they jitter wider.
func jitterWindow(period string) int {
	switch period {
	case "7d":
		return 5
	case "90d":
		return 15
	default: // "30d" and anything unrecognized
		return 10
	}
}

func randomTrendingScore() float64 {
	return float64(trendingScoreMin + rand.Intn(trendingScoreMax-trendingScoreMin+1))
}
