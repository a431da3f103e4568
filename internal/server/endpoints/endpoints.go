// Package endpoints defines the HTTP API surface. Each endpoint implements
// api.Endpoint and doubles as a CLI command against a running server.
package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/LeeChowCA/recipe-extraction/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	// MaxUploadBytes caps multipart PDF uploads; 0 uses the default.
	MaxUploadBytes int64
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		// Extraction endpoints
		&ExtractEndpoint{},
		&UploadExtractEndpoint{MaxUploadBytes: cfg.MaxUploadBytes},

		// Prompt endpoints
		&ListPromptsEndpoint{},
		&GetPromptEndpoint{},
		&SetPromptEndpoint{},
		&ClearPromptEndpoint{},

		// LLM call history endpoints
		&ListLLMCallsEndpoint{},
		&GetLLMCallEndpoint{},
	}
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
