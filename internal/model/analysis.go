package model

import (
	"encoding/json"
	"time"
)

// Analysis is an append-only snapshot of one guest/channel match run.
// Rows are never updated or deleted.
type Analysis struct {
	ID              string          `json:"id"`
	ChannelID       string          `json:"channelId"`
	GuestName       string          `json:"guestName"`
	GuestField      string          `json:"guestField"`
	Region          string          `json:"region"`
	Compatibility   int             `json:"compatibilityScore"`
	AudienceOverlap int             `json:"audienceOverlap"`
	TrendingFactor  int             `json:"trendingFactor"`
	TopicOverlap    int             `json:"topicOverlap"`
	RiskLevel       string          `json:"riskLevel"`
	Recommendations []string        `json:"recommendations"`
	Details         json.RawMessage `json:"details,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// AnalyzeRequest is the body for POST /api/analyze-guest and POST /api/analyze.
type AnalyzeRequest struct {
	GuestName      string `json:"guestName"`
	Field          string `json:"field"`
	Region         string `json:"region"`
	ChannelURL     string `json:"channelUrl"`
	TrendingPeriod string `json:"trendingPeriod"`
}

// AnalysisResult is the analysis payload returned inside the success envelope.
type AnalysisResult struct {
	ID              string          `json:"id"`
	Compatibility   int             `json:"compatibilityScore"`
	AudienceOverlap int             `json:"audienceOverlap"`
	TrendingFactor  int             `json:"trendingFactor"`
	TopicOverlap    int             `json:"topicOverlap"`
	RiskLevel       string          `json:"riskLevel"`
	Recommendations []string        `json:"recommendations"`
	GuestInfo       *Guest          `json:"guestInfo"`
	ChannelInfo     *Channel        `json:"channelInfo"`
	Details         json.RawMessage `json:"details,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`

	// Bookkeeping for metrics; not part of the wire format.
	Provider        string   `json:"-"`
	ChannelCacheHit bool     `json:"-"`
	FailedAdapters  []string `json:"-"`
}

// StatsSnapshot is the row-count summary served by GET /api/stats.
type StatsSnapshot struct {
	Guests   int64  `json:"guests"`
	Channels int64  `json:"channels"`
	Analyses int64  `json:"analyses"`
	Topics   int64  `json:"trendingTopics"`
	Backend  string `json:"storageBackend"`
}
