package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"podmatch/internal/model"
	"podmatch/internal/storage"
)

const (
	// minSearchQueryLen is the shortest query that produces suggestions;
	// anything shorter returns an empty list, not an error.
	minSearchQueryLen = 2

	defaultGuestLimit  = 50
	defaultSuggestions = 10
)

// GuestService serves guest listings and typeahead search.
type GuestService struct {
	store storage.Store
	cache *CacheService
}

func NewGuestService(store storage.Store, cache *CacheService) *GuestService {
	return &GuestService{store: store, cache: cache}
}

// List returns guests filtered by optional field and region, ordered by
// trending score.
func (s *GuestService) List(ctx context.Context, field, region string, limit int) ([]model.Guest, error) {
	if limit <= 0 || limit > defaultGuestLimit {
		limit = defaultGuestLimit
	}
	guests, err := s.store.ListGuests(ctx, field, region, limit)
	if err != nil {
		return nil, err
	}
	if guests == nil {
		guests = []model.Guest{}
	}
	return guests, nil
}

// Search returns typeahead suggestions for a partial guest name. Queries
// under two characters short-circuit to an empty list.
func (s *GuestService) Search(ctx context.Context, query string, limit int) ([]model.GuestSuggestion, error) {
	query = strings.TrimSpace(query)
	if len(query) < minSearchQueryLen {
		return []model.GuestSuggestion{}, nil
	}
	if limit <= 0 || limit > defaultSuggestions {
		limit = defaultSuggestions
	}

	if cached, err := s.cache.GetSearch(ctx, query); err != nil {
		log.Printf("cache: search get error: %v", err)
	} else if cached != nil {
		var suggestions []model.GuestSuggestion
		if err := json.Unmarshal(cached, &suggestions); err == nil {
			return suggestions, nil
		}
	}

	suggestions, err := s.store.SearchGuests(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if suggestions == nil {
		suggestions = []model.GuestSuggestion{}
	}

	if err := s.cache.SetSearch(ctx, query, suggestions); err != nil {
		log.Printf("cache: search set error: %v", err)
	}
	return suggestions, nil
}
