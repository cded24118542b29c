package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	ollamaGenerateTimeout = 5 * time.Minute
	ollamaTagsTimeout     = 10 * time.Second
)

// Ollama is a minimal client for a local Ollama daemon. Generation is
// slow on CPU-only hosts, so Generate carries a long timeout; a failed
// call is reported to the caller rather than retried.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOllama(baseURL, model string) *Ollama {
	return &Ollama{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{},
	}
}

func (o *Ollama) Model() string {
	return o.model
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature   float64 `json:"temperature"`
	NumPredict    int     `json:"num_predict"`
	NumCtx        int     `json:"num_ctx"`
	RepeatPenalty float64 `json:"repeat_penalty"`
}

// Generate runs a single non-streaming completion and returns the raw
// model output.
func (o *Ollama) Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ollamaGenerateTimeout)
	defer cancel()

	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature:   temperature,
			NumPredict:    maxTokens,
			NumCtx:        4096,
			RepeatPenalty: 1.1,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama generate: status %d", resp.StatusCode)
	}

	var out struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	return out.Response, nil
}

// Models lists the names of the models the daemon has pulled.
func (o *Ollama) Models(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, ollamaTagsTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("build tags request: %w", err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama tags: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama tags: status %d", resp.StatusCode)
	}

	var out struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode tags response: %w", err)
	}

	names := make([]string, 0, len(out.Models))
	for _, m := range out.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// TestConnection checks daemon reachability and whether the configured
// model is among the pulled ones. Model names carry tags ("llama3.1:8b"),
// so the check is a substring match.
func (o *Ollama) TestConnection(ctx context.Context) (bool, string) {
	names, err := o.Models(ctx)
	if err != nil {
		return false, fmt.Sprintf("ollama unreachable at %s: %v", o.baseURL, err)
	}
	for _, name := range names {
		if strings.Contains(name, o.model) || strings.Contains(o.model, name) {
			return true, fmt.Sprintf("connected, model %s available", o.model)
		}
	}
	return true, fmt.Sprintf("connected, model %s not pulled (%d models present)", o.model, len(names))
}

// ModelLoaded reports whether the configured model appears in the
// daemon's pulled list.
func (o *Ollama) ModelLoaded(ctx context.Context) bool {
	names, err := o.Models(ctx)
	if err != nil {
		return false
	}
	for _, name := range names {
		if strings.Contains(name, o.model) {
			return true
		}
	}
	return false
}
