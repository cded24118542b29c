// Package engine implements the optional AI analysis sidecar: an HTTP
// server that prompts a local Ollama model for guest/host compatibility
// analyses, plus the client and process manager the API server uses to
// reach it. The engine wire format is snake_case and is kept separate
// from the camelCase API models on purpose.
package engine

// AnalyzeRequest is the body for POST /api/ai/analyze.
type AnalyzeRequest struct {
	GuestProfile    string `json:"guest_profile"`
	HostChannelData string `json:"host_channel_data"`
	AnalysisType    string `json:"analysis_type"`
}

// AnalyzeResponse is the engine's analysis payload.
type AnalyzeResponse struct {
	CompatibilityScore float64        `json:"compatibility_score"`
	RelevanceScore     float64        `json:"relevance_score"`
	AnalysisSummary    string         `json:"analysis_summary"`
	Recommendations    []string       `json:"recommendations"`
	DetailedAnalysis   map[string]any `json:"detailed_analysis"`
}

// StatusResponse is the body for GET /api/ai/status.
type StatusResponse struct {
	AIEngineStatus string `json:"ai_engine_status"`
	OllamaStatus   string `json:"ollama_status"`
	Model          string `json:"model"`
	ModelLoaded    bool   `json:"model_loaded"`
}

// HealthResponse is the body for GET /health.
type HealthResponse struct {
	Status            string `json:"status"`
	Model             string `json:"model"`
	ClientInitialized bool   `json:"client_initialized"`
}

// ModelInfoResponse is the body for GET /api/ai/model-info.
type ModelInfoResponse struct {
	Model     string   `json:"model"`
	AllModels []string `json:"all_models"`
	Status    string   `json:"status"`
}
