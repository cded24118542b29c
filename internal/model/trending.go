package model

import "time"

// TrendingTopic is a simulated trending entry for a field and region.
// Topics are seeded from a static sample set and bulk-replaced per region
// by the background refresher.
type TrendingTopic struct {
	Name      string    `json:"name"`
	Field     string    `json:"field"`
	Score     float64   `json:"score"`
	Region    string    `json:"region"`
	UpdatedAt time.Time `json:"updatedAt"`
}
