package model

import "time"

// Guest is a potential podcast guest. Guests are keyed by name
// (case-insensitive) and upserted on every analysis that mentions them.
type Guest struct {
	Name          string    `json:"name"`
	Field         string    `json:"field"`
	Bio           string    `json:"bio,omitempty"`
	SocialReach   int64     `json:"socialReach"`
	TrendingScore float64   `json:"trendingScore"`
	Compatibility float64   `json:"compatibilityScore"`
	Region        string    `json:"region"`
	Expertise     []string  `json:"expertise"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// GuestSuggestion is a lightweight search result for typeahead lookups.
type GuestSuggestion struct {
	Name  string `json:"name"`
	Field string `json:"field"`
}
