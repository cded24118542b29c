package service

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"podmatch/internal/model"
	"podmatch/pkg/channelid"
)

// sampleVideoTitles stands in for real uploads when the YouTube adapter
// is disabled or fails. The set skews toward long-form interview fare so
// classification still produces plausible labels.
var sampleVideoTitles = []string{
	"AI and the Future of Technology",
	"Building Successful Startups",
	"The Science of Learning",
	"Cryptocurrency and Blockchain",
	"Space Exploration and Mars",
	"Neuroscience and Consciousness",
	"Climate Change Solutions",
	"The Future of Work",
	"Quantum Computing Explained",
	"Biotech and Longevity",
	"Philosophy and Ethics",
	"Machine Learning Breakthroughs",
	"Robotics and Automation",
	"Virtual Reality and Metaverse",
	"Sustainable Energy",
	"Gene Editing and CRISPR",
	"Social Media and Society",
	"Artificial General Intelligence",
	"Space Technology",
	"Innovation and Creativity",
}

// fallbackChannelTopics is the channel profile assumed when nothing can
// be classified.
var fallbackChannelTopics = []string{"technology", "business", "science"}

// SimulatedChannel fabricates channel metadata for a reference the
// YouTube adapter could not (or was not allowed to) resolve. The channel
// ID is derived from the reference so repeated analyses of the same URL
// upsert the same row.
func SimulatedChannel(ref channelid.Ref, rawURL string) *model.Channel {
	return &model.Channel{
		ChannelID:    simulatedChannelID(ref),
		URL:          rawURL,
		Title:        simulatedChannelTitle(ref),
		Description:  "Simulated channel profile (YouTube data unavailable)",
		Subscribers:  int64(10_000 + rand.Intn(990_001)),
		VideoCount:   int64(50 + rand.Intn(451)),
		ViewCount:    int64(1_000_000 + rand.Intn(49_000_001)),
		Topics:       append([]string(nil), fallbackChannelTopics...),
		LastAnalyzed: time.Now().UTC(),
	}
}

// SimulatedVideos fabricates up to count recent uploads from the sample
// title set, with view counts and long-form durations in the bands real
// interview channels show.
func SimulatedVideos(count int) []model.ChannelVideo {
	if count <= 0 || count > len(sampleVideoTitles) {
		count = len(sampleVideoTitles)
	}
	videos := make([]model.ChannelVideo, 0, count)
	for i := 0; i < count; i++ {
		videos = append(videos, model.ChannelVideo{
			VideoID:         simulatedVideoID(i),
			Title:           sampleVideoTitles[i],
			Views:           int64(50_000 + rand.Intn(1_950_001)),
			DurationSeconds: 3600 + rand.Intn(7201),
		})
	}
	return videos
}

// SimulatedSocialReach fabricates a follower total for guests whose
// profiles could not be read.
func SimulatedSocialReach() int64 {
	return int64(10_000 + rand.Intn(4_990_001))
}

// SimulatedTrendingFactor is the bounded fallback used when no trending
// topic row exists for the guest's field and region.
func SimulatedTrendingFactor() int {
	return 40 + rand.Intn(56)
}

func simulatedChannelID(ref channelid.Ref) string {
	if ref.Kind == channelid.KindID {
		return ref.Value
	}
	slug := strings.ToLower(strings.TrimSpace(ref.Value))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	return "sim-" + strings.Trim(slug, "-")
}

func simulatedChannelTitle(ref channelid.Ref) string {
	v := strings.NewReplacer("-", " ", "_", " ").Replace(ref.Value)
	v = strings.TrimSpace(v)
	if v == "" {
		return "Unknown Channel"
	}
	words := strings.Fields(v)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func simulatedVideoID(i int) string {
	return fmt.Sprintf("sim-video-%d", i)
}
