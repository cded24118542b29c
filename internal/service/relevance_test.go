package service

import (
	"math"
	"testing"
)

func TestDefaultRelevanceWeights_SumToOne(t *testing.T) {
	w := DefaultRelevanceWeights()
	sum := w.TopicAlignment + w.Authority + w.AudienceAppeal + w.Uniqueness + w.Engagement
	if !almostEqual(sum, 1.0, 1e-9) {
		t.Errorf("weights sum = %f, want 1.0", sum)
	}
}

func TestTopicAlignment_InsufficientData(t *testing.T) {
	e := NewRelevanceEngine(DefaultRelevanceWeights())

	report := e.Score(RelevanceInput{
		GuestExpertise: []string{"machine learning"},
		// no channel topics
	})
	topic := report.Breakdown["topic_alignment"]
	if topic.Score != 50 {
		t.Errorf("topic score = %d, want neutral 50", topic.Score)
	}
	if topic.Reasoning != "Insufficient topic data for comparison" {
		t.Errorf("reasoning = %q", topic.Reasoning)
	}
}

func TestTopicAlignment_ExactMatchBonus(t *testing.T) {
	e := NewRelevanceEngine(DefaultRelevanceWeights())

	report := e.Score(RelevanceInput{
		GuestExpertise: []string{"technology"},
		ChannelTopics:  []string{"technology"},
	})
	topic := report.Breakdown["topic_alignment"]
	// ratio 1/1 → 100, clamped before and after the +10 exact bonus.
	if topic.Score != 100 {
		t.Errorf("topic score = %d, want 100", topic.Score)
	}
}

func TestAuthority_Levels(t *testing.T) {
	e := NewRelevanceEngine(DefaultRelevanceWeights())
	tests := []struct {
		level string
		want  int
	}{
		{"HIGH", 90},
		{"MEDIUM", 65},
		{"LOW", 40},
		{"UNKNOWN", 50},
		{"", 50},
	}
	for _, tt := range tests {
		report := e.Score(RelevanceInput{AuthorityLevel: tt.level})
		if got := report.Breakdown["authority_score"].Score; got != tt.want {
			t.Errorf("authority(%q) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestAuthority_IndicatorBoostCapped(t *testing.T) {
	e := NewRelevanceEngine(DefaultRelevanceWeights())

	// Six plain indicators: boost capped at 20, no high-value bonus.
	report := e.Score(RelevanceInput{
		AuthorityLevel:      "LOW",
		AuthorityIndicators: []string{"speaker", "panelist", "host", "judge", "mentor", "advisor"},
	})
	if got := report.Breakdown["authority_score"].Score; got != 60 {
		t.Errorf("score = %d, want 60 (40 base + 20 capped)", got)
	}

	// A PhD indicator adds the one-time +10 on top.
	report = e.Score(RelevanceInput{
		AuthorityLevel:      "LOW",
		AuthorityIndicators: []string{"PhD in physics"},
	})
	if got := report.Breakdown["authority_score"].Score; got != 55 {
		t.Errorf("score = %d, want 55 (40 + 5 + 10)", got)
	}
}

func TestAudienceAppeal_IndustryAndViews(t *testing.T) {
	e := NewRelevanceEngine(DefaultRelevanceWeights())

	report := e.Score(RelevanceInput{Industry: "entertainment"})
	if got := report.Breakdown["audience_appeal"].Score; got != 90 {
		t.Errorf("entertainment appeal = %d, want 90", got)
	}

	report = e.Score(RelevanceInput{Industry: "technology", ChannelAvgViews: 250000})
	if got := report.Breakdown["audience_appeal"].Score; got != 90 {
		t.Errorf("tech + big channel = %d, want 90 (85+5)", got)
	}

	report = e.Score(RelevanceInput{Industry: "healthcare", ChannelAvgViews: 2000})
	if got := report.Breakdown["audience_appeal"].Score; got != 60 {
		t.Errorf("healthcare + small channel = %d, want 60 (65-5)", got)
	}

	report = e.Score(RelevanceInput{Industry: "business", Designation: "Founder and CEO"})
	if got := report.Breakdown["audience_appeal"].Score; got != 95 {
		t.Errorf("founder boost = %d, want 95 (80+15)", got)
	}
}

func TestUniqueness_NicheAndBreadth(t *testing.T) {
	e := NewRelevanceEngine(DefaultRelevanceWeights())

	report := e.Score(RelevanceInput{GuestExpertise: []string{"gardening"}})
	if got := report.Breakdown["uniqueness_factor"].Score; got != 70 {
		t.Errorf("base uniqueness = %d, want 70", got)
	}

	report = e.Score(RelevanceInput{GuestExpertise: []string{"quantum computing", "cryptography", "mathematics"}})
	if got := report.Breakdown["uniqueness_factor"].Score; got != 100 {
		t.Errorf("niche + breadth = %d, want 100 (70+20+10)", got)
	}
}

func TestEngagement_SocialBoosts(t *testing.T) {
	e := NewRelevanceEngine(DefaultRelevanceWeights())

	report := e.Score(RelevanceInput{
		SocialFollowing: map[string]string{"twitter": "250,000 followers"},
	})
	if got := report.Breakdown["engagement_potential"].Score; got != 75 {
		t.Errorf("big following = %d, want 75 (60+15)", got)
	}

	report = e.Score(RelevanceInput{
		SocialFollowing: map[string]string{"mastodon": "a few"},
	})
	if got := report.Breakdown["engagement_potential"].Score; got != 65 {
		t.Errorf("unparsable following = %d, want 65 (60+5)", got)
	}

	report = e.Score(RelevanceInput{
		GuestTopics: []string{"AI innovation", "startup business"},
	})
	if got := report.Breakdown["engagement_potential"].Score; got != 70 {
		t.Errorf("hot topics = %d, want 70 (60+5+5)", got)
	}
}

func TestRecommendationBands(t *testing.T) {
	tests := []struct {
		overall        float64
		recommendation string
		confidence     string
	}{
		{85, "HIGHLY_RECOMMENDED", "HIGH"},
		{80, "HIGHLY_RECOMMENDED", "HIGH"},
		{70, "RECOMMENDED", "MEDIUM"},
		{55, "CONSIDER", "MEDIUM"},
		{40, "LOW_PRIORITY", "LOW"},
		{20, "NOT_RECOMMENDED", "HIGH"},
	}
	for _, tt := range tests {
		rec, conf := recommendationBand(tt.overall)
		if rec != tt.recommendation || conf != tt.confidence {
			t.Errorf("band(%.0f) = %s/%s, want %s/%s",
				tt.overall, rec, conf, tt.recommendation, tt.confidence)
		}
	}
}

func TestScore_OverallIsWeightedSum(t *testing.T) {
	e := NewRelevanceEngine(DefaultRelevanceWeights())

	in := RelevanceInput{
		GuestExpertise:  []string{"artificial intelligence", "robotics", "ethics"},
		GuestTopics:     []string{"technology policy"},
		AuthorityLevel:  "HIGH",
		Industry:        "technology",
		Designation:     "Professor",
		ChannelTopics:   []string{"artificial intelligence", "science"},
		ChannelAvgViews: 500000,
	}
	report := e.Score(in)

	want := 0.0
	for _, f := range report.Breakdown {
		want += float64(f.Score) * f.Weight
	}
	if report.Overall != int(want) {
		t.Errorf("overall = %d, want %d", report.Overall, int(want))
	}
	if report.Overall < 0 || report.Overall > 100 {
		t.Errorf("overall out of range: %d", report.Overall)
	}
}

func TestScore_StrengthsAndConcerns(t *testing.T) {
	e := NewRelevanceEngine(DefaultRelevanceWeights())

	// Authority LOW (40) lands below the concern line; uniqueness 70+
	// becomes a strength.
	report := e.Score(RelevanceInput{
		AuthorityLevel: "LOW",
		GuestExpertise: []string{"ai safety", "alignment", "governance"},
		ChannelTopics:  []string{"ai safety"},
	})
	if len(report.KeyStrengths) == 0 {
		t.Errorf("expected at least one key strength, got none")
	}
	found := false
	for _, c := range report.Concerns {
		if c == "Authority: 40/100" {
			found = true
		}
	}
	if !found {
		t.Errorf("concerns = %v, want Authority flagged", report.Concerns)
	}
}

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}
