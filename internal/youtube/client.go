package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"podmatch/internal/model"
	"podmatch/pkg/channelid"
)

// ErrChannelNotFound is returned when no channel matches the reference.
var ErrChannelNotFound = errors.New("youtube: channel not found")

// Client wraps the YouTube Data API for channel metadata reads. All
// access is API-key based; a missing key means no client is constructed
// and callers fall back to simulated channel data.
type Client struct {
	service *youtube.Service
}

func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("youtube: no API key configured")
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	service, err := youtube.NewService(ctx,
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &Client{service: service}, nil
}

// ChannelByRef resolves a parsed channel reference to channel metadata.
// Handles and IDs resolve directly; legacy custom paths and free text go
// through a search call first.
func (c *Client) ChannelByRef(ctx context.Context, ref channelid.Ref) (*model.Channel, error) {
	call := c.service.Channels.
		List([]string{"snippet", "statistics", "topicDetails", "contentDetails"}).
		Context(ctx).
		MaxResults(1)

	switch ref.Kind {
	case channelid.KindID:
		call = call.Id(ref.Value)
	case channelid.KindHandle:
		call = call.ForHandle("@" + ref.Value)
	case channelid.KindCustom, channelid.KindQuery:
		id, err := c.searchChannelID(ctx, ref.Value)
		if err != nil {
			return nil, err
		}
		call = call.Id(id)
	default:
		return nil, ErrChannelNotFound
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("channels.list: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, ErrChannelNotFound
	}

	return channelFromItem(resp.Items[0]), nil
}

// searchChannelID resolves a name to a channel ID via search, taking the
// first result.
func (c *Client) searchChannelID(ctx context.Context, name string) (string, error) {
	resp, err := c.service.Search.List([]string{"snippet"}).
		Context(ctx).
		Q(name).
		Type("channel").
		MaxResults(1).
		Do()
	if err != nil {
		return "", fmt.Errorf("search.list: %w", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return "", ErrChannelNotFound
	}
	return resp.Items[0].Snippet.ChannelId, nil
}

// RecentVideos returns up to max recent uploads with view counts and
// durations, for classification input.
func (c *Client) RecentVideos(ctx context.Context, chID string, max int64) ([]model.ChannelVideo, error) {
	chResp, err := c.service.Channels.List([]string{"contentDetails"}).
		Context(ctx).
		Id(chID).
		Do()
	if err != nil {
		return nil, fmt.Errorf("channels.list: %w", err)
	}
	if len(chResp.Items) == 0 || chResp.Items[0].ContentDetails == nil ||
		chResp.Items[0].ContentDetails.RelatedPlaylists == nil {
		return nil, ErrChannelNotFound
	}
	uploads := chResp.Items[0].ContentDetails.RelatedPlaylists.Uploads
	if uploads == "" {
		return nil, ErrChannelNotFound
	}

	plResp, err := c.service.PlaylistItems.List([]string{"snippet"}).
		Context(ctx).
		PlaylistId(uploads).
		MaxResults(max).
		Do()
	if err != nil {
		return nil, fmt.Errorf("playlistitems.list: %w", err)
	}

	var videoIDs []string
	for _, item := range plResp.Items {
		if item.Snippet != nil && item.Snippet.ResourceId != nil {
			videoIDs = append(videoIDs, item.Snippet.ResourceId.VideoId)
		}
	}
	if len(videoIDs) == 0 {
		return nil, nil
	}

	vResp, err := c.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Context(ctx).
		Id(strings.Join(videoIDs, ",")).
		Do()
	if err != nil {
		return nil, fmt.Errorf("videos.list: %w", err)
	}

	var videos []model.ChannelVideo
	for _, item := range vResp.Items {
		v := model.ChannelVideo{VideoID: item.Id}
		if item.Snippet != nil {
			v.Title = item.Snippet.Title
		}
		if item.Statistics != nil {
			v.Views = int64(item.Statistics.ViewCount)
		}
		if item.ContentDetails != nil {
			v.DurationSeconds = parseDurationSeconds(item.ContentDetails.Duration)
		}
		videos = append(videos, v)
	}
	return videos, nil
}

func channelFromItem(item *youtube.Channel) *model.Channel {
	ch := &model.Channel{
		ChannelID:    item.Id,
		LastAnalyzed: time.Now(),
	}
	if item.Snippet != nil {
		ch.Title = item.Snippet.Title
		ch.Description = item.Snippet.Description
		if item.Snippet.CustomUrl != "" {
			ch.URL = "https://www.youtube.com/" + item.Snippet.CustomUrl
		}
	}
	if ch.URL == "" {
		ch.URL = "https://www.youtube.com/channel/" + item.Id
	}
	if item.Statistics != nil {
		ch.Subscribers = int64(item.Statistics.SubscriberCount)
		ch.VideoCount = int64(item.Statistics.VideoCount)
		ch.ViewCount = int64(item.Statistics.ViewCount)
	}
	if item.TopicDetails != nil {
		ch.Topics = topicsFromCategories(item.TopicDetails.TopicCategories)
	}
	return ch
}

// topicsFromCategories turns Wikipedia category URLs into readable topic
// names ("https://en.wikipedia.org/wiki/Technology" → "technology").
func topicsFromCategories(urls []string) []string {
	var topics []string
	seen := make(map[string]bool)
	for _, u := range urls {
		idx := strings.LastIndex(u, "/")
		if idx < 0 || idx == len(u)-1 {
			continue
		}
		name := strings.ToLower(strings.ReplaceAll(u[idx+1:], "_", " "))
		if !seen[name] {
			seen[name] = true
			topics = append(topics, name)
		}
	}
	return topics
}

var durationRe = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// parseDurationSeconds parses ISO 8601 durations like "PT1H2M30S".
func parseDurationSeconds(duration string) int {
	if duration == "" {
		return 0
	}
	matches := durationRe.FindStringSubmatch(duration)
	if len(matches) == 0 {
		return 0
	}

	var total int
	if matches[1] != "" {
		if hours, err := strconv.Atoi(matches[1]); err == nil {
			total += hours * 3600
		}
	}
	if matches[2] != "" {
		if minutes, err := strconv.Atoi(matches[2]); err == nil {
			total += minutes * 60
		}
	}
	if matches[3] != "" {
		if seconds, err := strconv.Atoi(matches[3]); err == nil {
			total += seconds
		}
	}
	return total
}
