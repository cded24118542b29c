package engine

import (
	"strings"
	"testing"
)

func TestParseAnalysis_CleanJSON(t *testing.T) {
	raw := `{
		"compatibility_score": 88,
		"relevance_score": 81,
		"analysis_summary": "Strong overlap on machine learning topics.",
		"recommendations": ["Book for a deep-dive episode"],
		"detailed_analysis": {"topic_alignment": "high"}
	}`

	got := ParseAnalysis(raw)
	if got.CompatibilityScore != 88 || got.RelevanceScore != 81 {
		t.Errorf("scores = %v/%v, want 88/81", got.CompatibilityScore, got.RelevanceScore)
	}
	if got.AnalysisSummary != "Strong overlap on machine learning topics." {
		t.Errorf("summary = %q", got.AnalysisSummary)
	}
	if len(got.Recommendations) != 1 {
		t.Errorf("recommendations = %v", got.Recommendations)
	}
	if got.DetailedAnalysis["topic_alignment"] != "high" {
		t.Errorf("detailed_analysis = %v", got.DetailedAnalysis)
	}
}

func TestParseAnalysis_JSONWrappedInProse(t *testing.T) {
	raw := "Sure! Here is the analysis you asked for:\n" +
		`{"compatibility_score": 62, "relevance_score": 55, "analysis_summary": "Partial fit."}` +
		"\nLet me know if you need anything else."

	got := ParseAnalysis(raw)
	if got.CompatibilityScore != 62 || got.RelevanceScore != 55 {
		t.Errorf("scores = %v/%v, want 62/55", got.CompatibilityScore, got.RelevanceScore)
	}
	if got.AnalysisSummary != "Partial fit." {
		t.Errorf("summary = %q", got.AnalysisSummary)
	}
}

func TestParseAnalysis_MissingFieldsGetDefaults(t *testing.T) {
	got := ParseAnalysis(`{"analysis_summary": "Only a summary."}`)
	if got.CompatibilityScore != 70 {
		t.Errorf("compatibility = %v, want default 70", got.CompatibilityScore)
	}
	if got.RelevanceScore != 65 {
		t.Errorf("relevance = %v, want default 65", got.RelevanceScore)
	}
	if len(got.Recommendations) != 1 || got.Recommendations[0] != "Review the detailed analysis" {
		t.Errorf("recommendations = %v", got.Recommendations)
	}
	if got.DetailedAnalysis == nil {
		t.Error("detailed_analysis should never be nil")
	}
}

func TestParseAnalysis_NoJSONAtAll(t *testing.T) {
	raw := "The guest seems like a great fit for this channel overall."

	got := ParseAnalysis(raw)
	if got.CompatibilityScore != 75.0 || got.RelevanceScore != 70.0 {
		t.Errorf("scores = %v/%v, want fallback 75/70", got.CompatibilityScore, got.RelevanceScore)
	}
	if got.AnalysisSummary != raw {
		t.Errorf("summary should carry the raw text, got %q", got.AnalysisSummary)
	}
	if got.DetailedAnalysis["raw_response"] != raw {
		t.Errorf("detailed_analysis = %v", got.DetailedAnalysis)
	}
}

func TestParseAnalysis_MalformedJSON(t *testing.T) {
	raw := `{"compatibility_score": 90, "analysis_summary": unterminated`

	got := ParseAnalysis(raw)
	if got.CompatibilityScore != 75.0 || got.RelevanceScore != 70.0 {
		t.Errorf("scores = %v/%v, want fallback 75/70", got.CompatibilityScore, got.RelevanceScore)
	}
	if got.AnalysisSummary != raw {
		t.Errorf("summary should carry the raw text, got %q", got.AnalysisSummary)
	}
	if _, ok := got.DetailedAnalysis["parsing_note"]; !ok {
		t.Errorf("detailed_analysis = %v, want parsing_note", got.DetailedAnalysis)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Dr. Jane Doe, roboticist", "Tech Talks, 500k subscribers")

	for _, want := range []string{
		"GUEST PROFILE:\nDr. Jane Doe, roboticist",
		"HOST CHANNEL DATA:\nTech Talks, 500k subscribers",
		`"compatibility_score"`,
		`"recommendations"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
