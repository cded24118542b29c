package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"podmatch/internal/inference"
	"podmatch/internal/model"
	"podmatch/internal/storage"
	"podmatch/internal/wiki"
	"podmatch/internal/youtube"
	"podmatch/pkg/channelid"
)

const (
	// historyLimit caps every analysis-history listing.
	historyLimit = 20

	recentVideoCount = 10

	// classificationTextCap keeps hosted-inference inputs inside the
	// model context.
	classificationTextCap = 2000
)

// Analysis provider tags, used for the per-provider metrics labels.
const (
	ProviderHuggingFace = "huggingface"
	ProviderSimulated   = "simulated"
	ProviderEngine      = "engine"
)

// classificationLabels is the shared zero-shot vocabulary. Channel and
// guest are classified against the same set so ranked positions are
// comparable.
var classificationLabels = []string{
	"technology", "business", "science", "health", "entertainment",
	"politics", "education", "sports", "finance", "arts",
}

// authorityKeywords are the bio words treated as credibility signals.
var authorityKeywords = []string{
	"phd", "ceo", "founder", "author", "professor", "expert", "scientist",
}

// Adapters bundles the outbound clients the pipeline calls. YouTube may
// be nil (no API key); the Hugging Face client may be disabled.
type Adapters struct {
	YouTube *youtube.Client
	Wiki    *wiki.Client
	HF      *inference.HuggingFace
}

// AnalysisService runs the full guest/channel match pipeline: resolve
// channel, fetch guest bio, classify both sides, score, persist.
type AnalysisService struct {
	store     storage.Store
	cache     *CacheService
	trending  *TrendingService
	relevance *RelevanceEngine
	adapters  Adapters
}

func NewAnalysisService(store storage.Store, cache *CacheService, trending *TrendingService, relevance *RelevanceEngine, adapters Adapters) *AnalysisService {
	return &AnalysisService{
		store:     store,
		cache:     cache,
		trending:  trending,
		relevance: relevance,
		adapters:  adapters,
	}
}

// channelSnapshot is the channel cache value: resolved metadata plus the
// uploads used as classification input.
type channelSnapshot struct {
	Channel *model.Channel       `json:"channel"`
	Videos  []model.ChannelVideo `json:"videos"`
}

type sentimentDetail struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// analysisDetails is the opaque JSON blob stored with each analysis row.
type analysisDetails struct {
	Provider      string           `json:"provider"`
	Relevance     *RelevanceReport `json:"relevance"`
	MatchedTopics []string         `json:"matchedTopics,omitempty"`
	ChannelTopics []string         `json:"channelTopics,omitempty"`
	GuestTopics   []string         `json:"guestTopics,omitempty"`
	BioSource     string           `json:"bioSource,omitempty"`
	BioSentiment  *sentimentDetail `json:"bioSentiment,omitempty"`
	Note          string           `json:"note,omitempty"`
}

// Analyze runs one complete match. Adapter failures degrade to simulated
// values; only parse and store errors fail the request.
func (s *AnalysisService) Analyze(ctx context.Context, req *model.AnalyzeRequest) (*model.AnalysisResult, error) {
	region := req.Region
	if region == "" {
		region = "global"
	}
	period := req.TrendingPeriod
	if period == "" {
		period = "30d"
	}

	ref, err := channelid.Parse(req.ChannelURL)
	if err != nil {
		return nil, fmt.Errorf("parse channel url: %w", err)
	}

	res := s.resolveChannel(ctx, ref, req.ChannelURL)
	var failed []string
	if res.ytFailed {
		failed = append(failed, "youtube")
	}

	// Guest biography. A missing page is not an adapter failure.
	var bioText, bioSource string
	if s.adapters.Wiki != nil {
		bio, err := s.adapters.Wiki.Lookup(ctx, req.GuestName, "")
		switch {
		case err == nil:
			bioText = bio.Extract
			if bioText == "" {
				bioText = bio.Description
			}
			bioSource = bio.Source
		case errors.Is(err, wiki.ErrNoBio):
			log.Printf("wiki: no biography for %q", req.GuestName)
		default:
			failed = append(failed, "wikipedia")
			log.Printf("wiki: bio lookup for %q failed: %v", req.GuestName, err)
		}
	}

	channelLabels, guestLabels, classified := s.classifyBoth(ctx, res, req, bioText, &failed)

	var (
		compatibility int
		topicOverlap  int
		matched       []string
		note          string
	)
	if classified {
		compatibility = CompatibilityFromLabels(channelLabels, guestLabels)
		topicOverlap = TopicOverlapFromLabels(channelLabels, guestLabels)
		matched = MatchedLabels(channelLabels, guestLabels)
	} else {
		compatibility = DefaultScore
		topicOverlap = SimulatedTopicOverlap()
		note = UnavailableNote
	}

	audience := AudienceOverlap()
	trendingFactor := s.trending.TrendingFactor(ctx, req.Field, region, period)
	risk := RiskLevel(compatibility)
	recs := Recommendations(compatibility, trendingFactor, matched)

	expertise := s.guestExpertise(ctx, req.Field, bioText)
	authorityLevel, indicators := estimateAuthority(bioText)

	channelTopics := topThree(channelLabels)
	if len(channelTopics) == 0 {
		channelTopics = res.channel.Topics
	}
	report := s.relevance.Score(RelevanceInput{
		GuestTopics:         topThree(guestLabels),
		GuestExpertise:      expertise,
		AuthorityLevel:      authorityLevel,
		AuthorityIndicators: indicators,
		Industry:            req.Field,
		ChannelTopics:       channelTopics,
		ChannelAvgViews:     averageViews(res.videos),
	})

	var sentiment *sentimentDetail
	if s.adapters.HF.Enabled() && bioText != "" {
		if label, conf, err := s.adapters.HF.Sentiment(ctx, bioText); err != nil {
			log.Printf("huggingface: sentiment failed: %v", err)
		} else {
			sentiment = &sentimentDetail{Label: label, Confidence: conf}
		}
	}

	provider := ProviderSimulated
	if classified {
		provider = ProviderHuggingFace
	}

	now := time.Now().UTC()
	guest := &model.Guest{
		Name:          req.GuestName,
		Field:         req.Field,
		Bio:           bioText,
		SocialReach:   SimulatedSocialReach(),
		TrendingScore: float64(trendingFactor),
		Compatibility: float64(compatibility),
		Region:        region,
		Expertise:     expertise,
		LastUpdated:   now,
	}
	if err := s.store.UpsertGuest(ctx, guest); err != nil {
		return nil, fmt.Errorf("upsert guest: %w", err)
	}

	res.channel.Topics = channelTopics
	res.channel.LastAnalyzed = now
	if err := s.store.UpsertChannel(ctx, res.channel); err != nil {
		return nil, fmt.Errorf("upsert channel: %w", err)
	}

	details, err := json.Marshal(analysisDetails{
		Provider:      provider,
		Relevance:     report,
		MatchedTopics: matched,
		ChannelTopics: channelTopics,
		GuestTopics:   topThree(guestLabels),
		BioSource:     bioSource,
		BioSentiment:  sentiment,
		Note:          note,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal details: %w", err)
	}

	analysis := &model.Analysis{
		ID:              uuid.NewString(),
		ChannelID:       res.channel.ChannelID,
		GuestName:       req.GuestName,
		GuestField:      req.Field,
		Region:          region,
		Compatibility:   compatibility,
		AudienceOverlap: audience,
		TrendingFactor:  trendingFactor,
		TopicOverlap:    topicOverlap,
		RiskLevel:       risk,
		Recommendations: recs,
		Details:         details,
		CreatedAt:       now,
	}
	if err := s.store.InsertAnalysis(ctx, analysis); err != nil {
		return nil, fmt.Errorf("insert analysis: %w", err)
	}

	// A fresh resolution supersedes whatever snapshot was cached for
	// this channel; cache hits leave the entry untouched.
	if !res.cacheHit {
		if err := s.cache.InvalidateChannel(ctx, res.channel.ChannelID); err != nil {
			log.Printf("cache: channel invalidate error: %v", err)
		}
		snap := channelSnapshot{Channel: res.channel, Videos: res.videos}
		if err := s.cache.SetChannel(ctx, refCacheKey(ref), snap); err != nil {
			log.Printf("cache: channel set error: %v", err)
		}
	}

	return &model.AnalysisResult{
		ID:              analysis.ID,
		Compatibility:   compatibility,
		AudienceOverlap: audience,
		TrendingFactor:  trendingFactor,
		TopicOverlap:    topicOverlap,
		RiskLevel:       risk,
		Recommendations: recs,
		GuestInfo:       guest,
		ChannelInfo:     res.channel,
		Details:         details,
		CreatedAt:       now,
		Provider:        provider,
		ChannelCacheHit: res.cacheHit,
		FailedAdapters:  failed,
	}, nil
}

// History lists a channel's analyses, newest first, capped at 20 rows.
func (s *AnalysisService) History(ctx context.Context, channelID string, limit int) ([]model.Analysis, error) {
	return s.store.ListAnalysesByChannel(ctx, channelID, capHistoryLimit(limit))
}

// Recent lists the latest analyses across all channels, capped at 20 rows.
func (s *AnalysisService) Recent(ctx context.Context, limit int) ([]model.Analysis, error) {
	return s.store.ListRecentAnalyses(ctx, capHistoryLimit(limit))
}

type resolvedChannel struct {
	channel  *model.Channel
	videos   []model.ChannelVideo
	cacheHit bool
	ytFailed bool
}

// resolveChannel turns a parsed reference into channel metadata plus
// recent uploads: cached snapshot first, then the YouTube API, then the
// simulated fallback.
func (s *AnalysisService) resolveChannel(ctx context.Context, ref channelid.Ref, rawURL string) resolvedChannel {
	key := refCacheKey(ref)
	if cached, err := s.cache.GetChannel(ctx, key); err != nil {
		log.Printf("cache: channel get error: %v", err)
	} else if cached != nil {
		var snap channelSnapshot
		if err := json.Unmarshal(cached, &snap); err == nil && snap.Channel != nil {
			return resolvedChannel{channel: snap.Channel, videos: snap.Videos, cacheHit: true}
		}
	}

	if s.adapters.YouTube == nil {
		return resolvedChannel{channel: SimulatedChannel(ref, rawURL), videos: SimulatedVideos(0)}
	}

	ch, err := s.adapters.YouTube.ChannelByRef(ctx, ref)
	if err != nil {
		log.Printf("youtube: channel resolve failed: %v", err)
		return resolvedChannel{channel: SimulatedChannel(ref, rawURL), videos: SimulatedVideos(0), ytFailed: true}
	}
	ch.URL = rawURL

	videos, err := s.adapters.YouTube.RecentVideos(ctx, ch.ChannelID, recentVideoCount)
	if err != nil {
		// Metadata is real; only the uploads are stand-ins.
		log.Printf("youtube: recent videos failed: %v", err)
		videos = SimulatedVideos(0)
	}
	return resolvedChannel{channel: ch, videos: videos}
}

// classifyBoth runs zero-shot classification over the channel and guest
// texts. Both must succeed for the scores to count as real.
func (s *AnalysisService) classifyBoth(ctx context.Context, res resolvedChannel, req *model.AnalyzeRequest, bioText string, failed *[]string) (channelLabels, guestLabels []string, ok bool) {
	if !s.adapters.HF.Enabled() {
		return nil, nil, false
	}

	channelLabels, err := s.adapters.HF.Classify(ctx, channelText(res.channel, res.videos), classificationLabels)
	if err != nil {
		*failed = append(*failed, "huggingface")
		log.Printf("huggingface: channel classification failed: %v", err)
		return nil, nil, false
	}

	guestText := truncate(strings.TrimSpace(req.GuestName+". "+req.Field+". "+bioText), classificationTextCap)
	guestLabels, err = s.adapters.HF.Classify(ctx, guestText, classificationLabels)
	if err != nil {
		*failed = append(*failed, "huggingface")
		log.Printf("huggingface: guest classification failed: %v", err)
		return nil, nil, false
	}

	return channelLabels, guestLabels, true
}

// guestExpertise extracts keyphrases from the bio, falling back to the
// declared field.
func (s *AnalysisService) guestExpertise(ctx context.Context, field, bioText string) []string {
	if s.adapters.HF.Enabled() && bioText != "" {
		kws, err := s.adapters.HF.Keywords(ctx, truncate(bioText, classificationTextCap), 5)
		if err != nil {
			log.Printf("huggingface: keyword extraction failed: %v", err)
		} else if len(kws) > 0 {
			return kws
		}
	}
	if field != "" {
		return []string{field}
	}
	return nil
}

// estimateAuthority grades the guest from bio evidence alone. Having a
// findable biography at all clears the MEDIUM bar; credential keywords
// in it clear HIGH.
func estimateAuthority(bioText string) (string, []string) {
	if bioText == "" {
		return "UNKNOWN", nil
	}
	lower := strings.ToLower(bioText)
	var indicators []string
	for _, kw := range authorityKeywords {
		if strings.Contains(lower, kw) {
			indicators = append(indicators, kw)
		}
	}
	if len(indicators) >= 2 {
		return "HIGH", indicators
	}
	return "MEDIUM", indicators
}

func channelText(ch *model.Channel, videos []model.ChannelVideo) string {
	parts := []string{ch.Title, ch.Description}
	for _, v := range videos {
		parts = append(parts, v.Title)
	}
	return truncate(strings.Join(parts, ". "), classificationTextCap)
}

func averageViews(videos []model.ChannelVideo) float64 {
	if len(videos) == 0 {
		return 0
	}
	var sum int64
	for _, v := range videos {
		sum += v.Views
	}
	return float64(sum) / float64(len(videos))
}

func refCacheKey(ref channelid.Ref) string {
	return strings.ToLower(ref.Value)
}

func capHistoryLimit(limit int) int {
	if limit <= 0 || limit > historyLimit {
		return historyLimit
	}
	return limit
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
