// Package prompts manages prompt templates with embedded defaults and
// runtime overrides.
//
// Embedded .tmpl files in code are the source of truth for defaults. An
// override set through the API (or a test) takes precedence until cleared;
// overrides live in memory only and reset on restart.
package prompts

import (
	"fmt"
	"sort"
	"sync"

	"log/slog"
)

// EmbeddedPrompt is a prompt loaded from an embedded .tmpl file.
type EmbeddedPrompt struct {
	Key         string   `json:"key"`         // Hierarchical key: stages.extract.system
	Text        string   `json:"text"`        // The prompt text (Go template)
	Description string   `json:"description"` // Human-readable description
	Variables   []string `json:"variables"`   // Extracted template variables
	Hash        string   `json:"hash"`        // SHA256 of the text for change detection
}

// ResolvedPrompt is the result of resolving a prompt key.
type ResolvedPrompt struct {
	Key        string   `json:"key"`
	Text       string   `json:"text"`
	Variables  []string `json:"variables,omitempty"`
	IsOverride bool     `json:"is_override"`
}

// Resolver resolves prompt keys to their current text.
// Resolution order: runtime override > embedded default.
type Resolver struct {
	mu        sync.RWMutex
	embedded  map[string]EmbeddedPrompt
	overrides map[string]string
	logger    *slog.Logger
}

// NewResolver creates a new prompt resolver.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		embedded:  make(map[string]EmbeddedPrompt),
		overrides: make(map[string]string),
		logger:    logger,
	}
}

// Register registers an embedded prompt. Called during initialization by
// each stage package.
func (r *Resolver) Register(prompt EmbeddedPrompt) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prompt.Hash == "" {
		prompt.Hash = HashText(prompt.Text)
	}
	if prompt.Variables == nil {
		prompt.Variables = ExtractVariables(prompt.Text)
	}

	r.embedded[prompt.Key] = prompt
	r.logger.Debug("registered embedded prompt", "key", prompt.Key, "vars", prompt.Variables)
}

// Resolve returns the current text for a prompt key.
func (r *Resolver) Resolve(key string) (*ResolvedPrompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if text, ok := r.overrides[key]; ok {
		return &ResolvedPrompt{
			Key:        key,
			Text:       text,
			Variables:  ExtractVariables(text),
			IsOverride: true,
		}, nil
	}

	embedded, ok := r.embedded[key]
	if !ok {
		return nil, fmt.Errorf("prompt not found: %s", key)
	}
	return &ResolvedPrompt{
		Key:       key,
		Text:      embedded.Text,
		Variables: embedded.Variables,
	}, nil
}

// SetOverride replaces the text for a registered prompt key.
func (r *Resolver) SetOverride(key, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.embedded[key]; !ok {
		return fmt.Errorf("prompt not found: %s", key)
	}
	r.overrides[key] = text
	r.logger.Info("prompt override set", "key", key)
	return nil
}

// ClearOverride restores the embedded default for a prompt key.
func (r *Resolver) ClearOverride(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.overrides, key)
}

// AllEmbedded returns all registered embedded prompts sorted by key.
func (r *Resolver) AllEmbedded() []EmbeddedPrompt {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]EmbeddedPrompt, 0, len(r.embedded))
	for _, p := range r.embedded {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}
