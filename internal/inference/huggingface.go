package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultHFBaseURL = "https://api-inference.huggingface.co"
	hfCallTimeout    = 15 * time.Second

	classifierModel = "facebook/bart-large-mnli"
	sentimentModel  = "distilbert-base-uncased-finetuned-sst-2-english"
	keyphraseModel  = "ml6team/keyphrase-extraction-kbir-inspec"
)

// ErrNoAPIKey is returned by a disabled client; callers treat it like any
// other adapter failure and fall back to simulated values.
var ErrNoAPIKey = errors.New("huggingface: no API key configured")

// HuggingFace wraps the hosted inference API for zero-shot
// classification, sentiment and keyphrase extraction. Every method is a
// single POST with a fixed timeout; failures are returned to the caller
// unretried.
type HuggingFace struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewHuggingFace(apiKey string) *HuggingFace {
	return &HuggingFace{
		apiKey:  apiKey,
		baseURL: defaultHFBaseURL,
		client:  &http.Client{Timeout: hfCallTimeout},
	}
}

// Enabled reports whether an API key is configured. A disabled client
// still answers calls (with ErrNoAPIKey) so call sites stay uniform.
func (h *HuggingFace) Enabled() bool {
	return h != nil && h.apiKey != ""
}

// Classify runs zero-shot classification and returns the candidate
// labels ranked most-likely first.
func (h *HuggingFace) Classify(ctx context.Context, text string, candidateLabels []string) ([]string, error) {
	payload := map[string]any{
		"inputs": text,
		"parameters": map[string]any{
			"candidate_labels": candidateLabels,
		},
	}

	var out struct {
		Labels []string  `json:"labels"`
		Scores []float64 `json:"scores"`
	}
	if err := h.post(ctx, classifierModel, payload, &out); err != nil {
		return nil, err
	}
	if len(out.Labels) == 0 {
		return nil, errors.New("huggingface: empty classification response")
	}
	return out.Labels, nil
}

// Sentiment returns the dominant sentiment label (POSITIVE/NEGATIVE)
// and its confidence for the given text.
func (h *HuggingFace) Sentiment(ctx context.Context, text string) (string, float64, error) {
	payload := map[string]any{"inputs": text}

	// The sentiment model answers with one ranked label list per input.
	var out [][]struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := h.post(ctx, sentimentModel, payload, &out); err != nil {
		return "", 0, err
	}
	if len(out) == 0 || len(out[0]) == 0 {
		return "", 0, errors.New("huggingface: empty sentiment response")
	}
	best := out[0][0]
	for _, cand := range out[0][1:] {
		if cand.Score > best.Score {
			best = cand
		}
	}
	return best.Label, best.Score, nil
}

// Keywords extracts up to max keyphrases from the text, best first.
func (h *HuggingFace) Keywords(ctx context.Context, text string, max int) ([]string, error) {
	payload := map[string]any{"inputs": text}

	var out []struct {
		Word  string  `json:"word"`
		Score float64 `json:"score"`
	}
	if err := h.post(ctx, keyphraseModel, payload, &out); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var keywords []string
	for _, kp := range out {
		if kp.Word == "" || seen[kp.Word] {
			continue
		}
		seen[kp.Word] = true
		keywords = append(keywords, kp.Word)
		if max > 0 && len(keywords) >= max {
			break
		}
	}
	return keywords, nil
}

func (h *HuggingFace) post(ctx context.Context, model string, payload, out any) error {
	if !h.Enabled() {
		return ErrNoAPIKey
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := h.baseURL + "/models/" + model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", model, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("call %s: status %d", model, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", model, err)
	}
	return nil
}
