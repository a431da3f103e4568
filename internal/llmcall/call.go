// Package llmcall records completion calls for traceability. Every call made
// through the pipeline is captured with its prompt key, response and metrics.
package llmcall

import (
	"time"

	"github.com/google/uuid"

	"github.com/LeeChowCA/recipe-extraction/internal/providers"
)

// Call represents a recorded completion call.
type Call struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	LatencyMs int       `json:"latency_ms"`

	// Prompt traceability
	PromptKey  string `json:"prompt_key"`
	PromptHash string `json:"prompt_hash,omitempty"` // hash of the exact prompt text used

	// Model info
	Provider string `json:"provider"`
	Model    string `json:"model"`

	// Token usage
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`

	// Response
	Response string `json:"response"`

	// Status
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// RecordOptions provides context for recording a completion call.
type RecordOptions struct {
	PromptKey  string
	PromptHash string
}

// FromChatResult creates a Call from a ChatResult. Returns nil if result is
// nil.
func FromChatResult(result *providers.ChatResult, opts RecordOptions) *Call {
	if result == nil {
		return nil
	}

	call := &Call{
		ID:           uuid.New().String(),
		Timestamp:    time.Now(),
		LatencyMs:    int(result.ExecutionTime.Milliseconds()),
		PromptKey:    opts.PromptKey,
		PromptHash:   opts.PromptHash,
		Provider:     result.Provider,
		Model:        result.ModelUsed,
		InputTokens:  result.PromptTokens,
		OutputTokens: result.CompletionTokens,
		Response:     result.Content,
		Success:      result.Success,
	}

	if !result.Success {
		call.Error = result.ErrorMessage
	}

	return call
}
