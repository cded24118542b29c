package service

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// RelevanceWeights are the factor weights of the relevance engine. They
// must sum to 1.0.
type RelevanceWeights struct {
	TopicAlignment float64 `json:"topic_alignment"`
	Authority      float64 `json:"authority_score"`
	AudienceAppeal float64 `json:"audience_appeal"`
	Uniqueness     float64 `json:"uniqueness_factor"`
	Engagement     float64 `json:"engagement_potential"`
}

func DefaultRelevanceWeights() RelevanceWeights {
	return RelevanceWeights{
		TopicAlignment: 0.35,
		Authority:      0.25,
		AudienceAppeal: 0.20,
		Uniqueness:     0.10,
		Engagement:     0.10,
	}
}

// RelevanceInput collects everything the factor calculations look at.
type RelevanceInput struct {
	GuestTopics         []string
	GuestExpertise      []string
	AuthorityLevel      string // HIGH, MEDIUM, LOW or UNKNOWN
	AuthorityIndicators []string
	Industry            string
	Designation         string
	SocialFollowing     map[string]string // platform → follower count text
	ChannelTopics       []string
	ChannelAvgViews     float64
}

// FactorScore is one factor's contribution with its reasoning line.
type FactorScore struct {
	Score     int     `json:"score"`
	Reasoning string  `json:"reasoning"`
	Weight    float64 `json:"weight"`
}

// RelevanceReport is the full weighted breakdown attached to an
// analysis detail blob.
type RelevanceReport struct {
	Overall        int                    `json:"overall_relevance_score"`
	Recommendation string                 `json:"recommendation"`
	Confidence     string                 `json:"confidence_level"`
	Breakdown      map[string]FactorScore `json:"score_breakdown"`
	KeyStrengths   []string               `json:"key_strengths"`
	Concerns       []string               `json:"areas_of_concern"`
}

// RelevanceEngine computes the five-factor relevance breakdown:
// topic alignment, authority, audience appeal, uniqueness and
// engagement potential, combined by weight.
type RelevanceEngine struct {
	weights RelevanceWeights
}

func NewRelevanceEngine(weights RelevanceWeights) *RelevanceEngine {
	return &RelevanceEngine{weights: weights}
}

var nonDigitRe = regexp.MustCompile(`[^\d]`)

// Score runs all five factors and folds them into the weighted report.
func (e *RelevanceEngine) Score(in RelevanceInput) *RelevanceReport {
	topic := e.topicAlignment(in)
	authority := e.authority(in)
	appeal := e.audienceAppeal(in)
	uniqueness := e.uniqueness(in)
	engagement := e.engagement(in)

	overall := float64(topic.Score)*topic.Weight +
		float64(authority.Score)*authority.Weight +
		float64(appeal.Score)*appeal.Weight +
		float64(uniqueness.Score)*uniqueness.Weight +
		float64(engagement.Score)*engagement.Weight

	recommendation, confidence := recommendationBand(overall)

	named := []struct {
		name  string
		score int
	}{
		{"Topic Alignment", topic.Score},
		{"Authority", authority.Score},
		{"Audience Appeal", appeal.Score},
		{"Uniqueness", uniqueness.Score},
		{"Engagement Potential", engagement.Score},
	}
	sort.SliceStable(named, func(i, j int) bool { return named[i].score > named[j].score })

	var strengths, concerns []string
	for i, f := range named {
		if i < 2 && f.score >= 70 {
			strengths = append(strengths, fmt.Sprintf("%s: %d/100", f.name, f.score))
		}
		if f.score < 50 {
			concerns = append(concerns, fmt.Sprintf("%s: %d/100", f.name, f.score))
		}
	}

	return &RelevanceReport{
		Overall:        int(overall),
		Recommendation: recommendation,
		Confidence:     confidence,
		Breakdown: map[string]FactorScore{
			"topic_alignment":      topic,
			"authority_score":      authority,
			"audience_appeal":      appeal,
			"uniqueness_factor":    uniqueness,
			"engagement_potential": engagement,
		},
		KeyStrengths: strengths,
		Concerns:     concerns,
	}
}

func recommendationBand(overall float64) (string, string) {
	switch {
	case overall >= 80:
		return "HIGHLY_RECOMMENDED", "HIGH"
	case overall >= 65:
		return "RECOMMENDED", "MEDIUM"
	case overall >= 50:
		return "CONSIDER", "MEDIUM"
	case overall >= 35:
		return "LOW_PRIORITY", "LOW"
	default:
		return "NOT_RECOMMENDED", "HIGH"
	}
}

func (e *RelevanceEngine) topicAlignment(in RelevanceInput) FactorScore {
	guest := lowerNonEmpty(append(append([]string{}, in.GuestExpertise...), in.GuestTopics...))
	host := lowerNonEmpty(in.ChannelTopics)

	if len(guest) == 0 || len(host) == 0 {
		return FactorScore{
			Score:     50,
			Reasoning: "Insufficient topic data for comparison",
			Weight:    e.weights.TopicAlignment,
		}
	}

	matches := 0
	exact := 0
	for _, g := range guest {
		for _, h := range host {
			if strings.Contains(h, g) || strings.Contains(g, h) {
				matches++
				if g == h {
					exact++
				}
			}
		}
	}

	denom := len(guest)
	if len(host) > denom {
		denom = len(host)
	}
	score := float64(matches) / float64(denom) * 100
	if score > 100 {
		score = 100
	}
	score += float64(exact * 10)
	if score > 100 {
		score = 100
	}

	return FactorScore{
		Score:     int(score),
		Reasoning: fmt.Sprintf("Found %d topic alignments out of %d guest topics", matches, len(guest)),
		Weight:    e.weights.TopicAlignment,
	}
}

func (e *RelevanceEngine) authority(in RelevanceInput) FactorScore {
	base := 50
	switch strings.ToUpper(in.AuthorityLevel) {
	case "HIGH":
		base = 90
	case "MEDIUM":
		base = 65
	case "LOW":
		base = 40
	}

	boost := len(in.AuthorityIndicators) * 5
	if boost > 20 {
		boost = 20
	}
	highValue := []string{"phd", "ceo", "founder", "author", "professor", "expert"}
	for _, indicator := range in.AuthorityIndicators {
		if containsAny(strings.ToLower(indicator), highValue) {
			boost += 10
			break
		}
	}

	score := base + boost
	if score > 100 {
		score = 100
	}
	return FactorScore{
		Score:     score,
		Reasoning: fmt.Sprintf("Authority level: %s, %d indicators", in.AuthorityLevel, len(in.AuthorityIndicators)),
		Weight:    e.weights.Authority,
	}
}

var industryAppeal = map[string]int{
	"technology":    85,
	"business":      80,
	"entertainment": 90,
	"education":     70,
	"healthcare":    65,
	"finance":       75,
	"unknown":       60,
}

func (e *RelevanceEngine) audienceAppeal(in RelevanceInput) FactorScore {
	score, ok := industryAppeal[strings.ToLower(in.Industry)]
	if !ok {
		score = 60
	}

	highAppeal := []string{"ceo", "founder", "celebrity", "author", "influencer"}
	if containsAny(strings.ToLower(in.Designation), highAppeal) {
		score += 15
	}

	if in.ChannelAvgViews > 100000 {
		score += 5
	} else if in.ChannelAvgViews > 0 && in.ChannelAvgViews < 10000 {
		score -= 5
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return FactorScore{
		Score:     score,
		Reasoning: fmt.Sprintf("Industry: %s, Role: %s", orUnknown(in.Industry), orUnknown(in.Designation)),
		Weight:    e.weights.AudienceAppeal,
	}
}

func (e *RelevanceEngine) uniqueness(in RelevanceInput) FactorScore {
	score := 70

	niche := []string{"ai", "blockchain", "quantum", "biotech", "space", "robotics"}
	joined := strings.ToLower(strings.Join(in.GuestExpertise, " "))
	if containsAny(joined, niche) {
		score += 20
	}
	if len(in.GuestExpertise) >= 3 {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return FactorScore{
		Score:     score,
		Reasoning: fmt.Sprintf("Expertise in %d areas, industry: %s", len(in.GuestExpertise), orUnknown(in.Industry)),
		Weight:    e.weights.Uniqueness,
	}
}

func (e *RelevanceEngine) engagement(in RelevanceInput) FactorScore {
	score := 60

	highEngagement := []string{"politics", "technology", "business", "controversy", "innovation"}
	for _, topic := range in.GuestTopics {
		if containsAny(strings.ToLower(topic), highEngagement) {
			score += 5
		}
	}

	for _, followers := range in.SocialFollowing {
		if followers == "" || strings.EqualFold(followers, "unknown") {
			continue
		}
		digits := nonDigitRe.ReplaceAllString(followers, "")
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			score += 5 // some presence, size unparsable
			continue
		}
		switch {
		case n > 100000:
			score += 15
		case n > 10000:
			score += 10
		case n > 1000:
			score += 5
		}
	}

	if score > 100 {
		score = 100
	}
	return FactorScore{
		Score:     score,
		Reasoning: "Topic engagement potential plus social presence",
		Weight:    e.weights.Engagement,
	}
}

func lowerNonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s != "" {
			out = append(out, strings.ToLower(s))
		}
	}
	return out
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
