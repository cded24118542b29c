package service

import (
	"fmt"
	"math/rand"
	"strings"
)

// DefaultScore is the fixed compatibility score used when content
// classification is unavailable for either side of the match.
const DefaultScore = 50

// UnavailableNote marks analyses that fell back to DefaultScore.
const UnavailableNote = "analysis unavailable"

// Risk labels attached to every analysis.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// CompatibilityFromLabels scores two ranked classification label lists.
// Only the first three positions of each list participate: a label at
// channel position i that also appears at guest position j contributes
// (10 - i - j) * 10. The sum is clamped to [0, 100].
func CompatibilityFromLabels(channelLabels, guestLabels []string) int {
	score := 0
	for i, cl := range topThree(channelLabels) {
		for j, gl := range topThree(guestLabels) {
			if strings.EqualFold(cl, gl) {
				score += (10 - i - j) * 10
				break
			}
		}
	}
	return clampScore(score)
}

// MatchedLabels returns the labels shared by the first three positions of
// both lists, in channel-list order.
func MatchedLabels(channelLabels, guestLabels []string) []string {
	var matched []string
	for _, cl := range topThree(channelLabels) {
		for _, gl := range topThree(guestLabels) {
			if strings.EqualFold(cl, gl) {
				matched = append(matched, cl)
				break
			}
		}
	}
	return matched
}

// TopicOverlapFromLabels scales the matched-label count over the top
// three positions to [0, 100].
func TopicOverlapFromLabels(channelLabels, guestLabels []string) int {
	return clampScore(len(MatchedLabels(channelLabels, guestLabels)) * 100 / 3)
}

// RiskLevel maps a compatibility score to its booking-risk label:
// Low above 70, Medium above 40, High otherwise.
func RiskLevel(score int) string {
	switch {
	case score > 70:
		return RiskLow
	case score > 40:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// AudienceOverlap is a simulated score in [30, 90]. There is no real
// audience-graph source behind it.
func AudienceOverlap() int {
	return 30 + rand.Intn(61)
}

// SimulatedTopicOverlap stands in for the label-based overlap when
// classification is unavailable.
func SimulatedTopicOverlap() int {
	return 20 + rand.Intn(61)
}

// Recommendations builds the short advice strings attached to an
// analysis from the score band, the trending factor and the shared
// labels.
func Recommendations(compatibility, trendingFactor int, matched []string) []string {
	var recs []string
	switch {
	case compatibility > 70:
		recs = append(recs, "Strong topical fit: prioritize outreach for an upcoming episode.")
	case compatibility > 40:
		recs = append(recs, "Moderate fit: review the shared topics before committing to a booking.")
	default:
		recs = append(recs, "Weak topical fit: consider only for a crossover or experimental episode.")
	}
	if len(matched) > 0 {
		recs = append(recs, fmt.Sprintf("Shared ground to build the episode around: %s.", strings.Join(matched, ", ")))
	}
	if trendingFactor >= 80 {
		recs = append(recs, "The guest's field is trending right now: schedule while audience interest is high.")
	}
	return recs
}

func topThree(labels []string) []string {
	if len(labels) > 3 {
		return labels[:3]
	}
	return labels
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
