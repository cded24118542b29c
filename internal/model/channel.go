package model

import "time"

// Channel holds YouTube channel metadata captured at analysis time.
type Channel struct {
	ChannelID    string    `json:"channelId"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Subscribers  int64     `json:"subscribers"`
	VideoCount   int64     `json:"videoCount"`
	ViewCount    int64     `json:"viewCount"`
	Topics       []string  `json:"topics"`
	LastAnalyzed time.Time `json:"lastAnalyzed"`
}

// ChannelVideo is one recent upload, used as classification input.
type ChannelVideo struct {
	VideoID         string `json:"videoId"`
	Title           string `json:"title"`
	Views           int64  `json:"views"`
	DurationSeconds int    `json:"durationSeconds"`
}
