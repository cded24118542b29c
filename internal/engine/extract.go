package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BuildPrompt assembles the compatibility-analysis prompt sent to the
// model. The model is asked for a JSON object; ParseAnalysis handles the
// cases where it wraps or mangles it.
func BuildPrompt(guestProfile, hostChannelData string) string {
	var b strings.Builder
	b.WriteString("You are an expert podcast guest compatibility analyst. ")
	b.WriteString("Analyze the compatibility between this potential guest and podcast host.\n\n")
	fmt.Fprintf(&b, "GUEST PROFILE:\n%s\n\n", guestProfile)
	fmt.Fprintf(&b, "HOST CHANNEL DATA:\n%s\n\n", hostChannelData)
	b.WriteString(`Provide a detailed analysis with:
1. Compatibility score (0-100) - How well do their topics, audience, and style align?
2. Relevance score (0-100) - How relevant is this guest to the host's niche?
3. Analysis summary - Key insights about the potential collaboration
4. Recommendations - Specific actionable advice

Respond in JSON format:
{
    "compatibility_score": <number>,
    "relevance_score": <number>,
    "analysis_summary": "<detailed analysis>",
    "recommendations": ["<rec1>", "<rec2>", "<rec3>"],
    "detailed_analysis": {
        "topic_alignment": "<analysis>",
        "audience_overlap": "<analysis>",
        "content_style": "<analysis>",
        "collaboration_potential": "<analysis>"
    }
}
`)
	return b.String()
}

// ParseAnalysis recovers a structured analysis from raw model output.
// Models often wrap the JSON object in prose, so the candidate region is
// everything between the first '{' and the last '}'. When no object is
// present or it fails to decode, a fixed fallback (75/70 scores, raw
// text as summary) is returned so the caller always gets an answer.
func ParseAnalysis(raw string) *AnalyzeResponse {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")

	if start == -1 || end <= start {
		return &AnalyzeResponse{
			CompatibilityScore: 75.0,
			RelevanceScore:     70.0,
			AnalysisSummary:    raw,
			Recommendations:    []string{"Review the detailed analysis provided"},
			DetailedAnalysis:   map[string]any{"raw_response": raw},
		}
	}

	var parsed struct {
		CompatibilityScore *float64       `json:"compatibility_score"`
		RelevanceScore     *float64       `json:"relevance_score"`
		AnalysisSummary    string         `json:"analysis_summary"`
		Recommendations    []string       `json:"recommendations"`
		DetailedAnalysis   map[string]any `json:"detailed_analysis"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return &AnalyzeResponse{
			CompatibilityScore: 75.0,
			RelevanceScore:     70.0,
			AnalysisSummary:    raw,
			Recommendations:    []string{"Analysis completed - review summary for insights"},
			DetailedAnalysis:   map[string]any{"parsing_note": "Raw response provided due to JSON parsing issue"},
		}
	}

	out := &AnalyzeResponse{
		CompatibilityScore: 70,
		RelevanceScore:     65,
		AnalysisSummary:    "Analysis completed successfully",
		Recommendations:    []string{"Review the detailed analysis"},
		DetailedAnalysis:   map[string]any{},
	}
	if parsed.CompatibilityScore != nil {
		out.CompatibilityScore = *parsed.CompatibilityScore
	}
	if parsed.RelevanceScore != nil {
		out.RelevanceScore = *parsed.RelevanceScore
	}
	if parsed.AnalysisSummary != "" {
		out.AnalysisSummary = parsed.AnalysisSummary
	}
	if len(parsed.Recommendations) > 0 {
		out.Recommendations = parsed.Recommendations
	}
	if parsed.DetailedAnalysis != nil {
		out.DetailedAnalysis = parsed.DetailedAnalysis
	}
	return out
}
