// Package extract sequences the recipe extraction pipeline: prompt building,
// one completion round trip, and response parsing/normalization. Each call
// is an independent, stateless run; the completion call is the only step
// with side effects.
package extract

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/LeeChowCA/recipe-extraction/internal/llmcall"
	"github.com/LeeChowCA/recipe-extraction/internal/prompts"
	extractprompt "github.com/LeeChowCA/recipe-extraction/internal/prompts/extract"
	"github.com/LeeChowCA/recipe-extraction/internal/providers"
	"github.com/LeeChowCA/recipe-extraction/internal/recipe"
)

// ClientSource resolves completion clients by provider name. The provider
// registry implements it; tests supply a stub.
type ClientSource interface {
	LLM(name string) (providers.LLMClient, error)
}

// Options are the generation parameters for one extraction.
type Options struct {
	Provider    string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Config configures an Extractor.
type Config struct {
	Clients ClientSource

	// Options returns the current generation parameters. Read per call so
	// config hot-reload takes effect without rebuilding the extractor.
	Options func() Options

	// Resolver supplies prompt overrides; optional.
	Resolver *prompts.Resolver

	// Recorder captures every completion call; optional.
	Recorder *llmcall.Recorder

	Logger *slog.Logger
}

// Extractor is the extraction orchestrator.
type Extractor struct {
	clients  ClientSource
	options  func() Options
	resolver *prompts.Resolver
	recorder *llmcall.Recorder
	logger   *slog.Logger
}

// New creates an Extractor.
func New(cfg Config) *Extractor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	options := cfg.Options
	if options == nil {
		options = func() Options { return Options{} }
	}
	return &Extractor{
		clients:  cfg.Clients,
		options:  options,
		resolver: cfg.Resolver,
		recorder: cfg.Recorder,
		logger:   logger,
	}
}

// Extract turns raw recipe text into a normalized recipe document. It fails
// with ErrInvalidInput for unusable input and with *ExtractionError for
// completion or parse failures. There is no internal retry; one call means
// one completion round trip.
func (e *Extractor) Extract(ctx context.Context, recipeText string) (*recipe.Document, error) {
	if strings.TrimSpace(recipeText) == "" || !utf8.ValidString(recipeText) {
		return nil, ErrInvalidInput
	}

	opts := e.options()
	client, err := e.clients.LLM(opts.Provider)
	if err != nil {
		e.logger.Error("no completion client available", "provider", opts.Provider, "error", err)
		return nil, completionError(err)
	}

	req := extractprompt.CreateChatRequest(extractprompt.Input{
		RecipeText:           recipeText,
		SystemPromptOverride: e.promptOverride(extractprompt.SystemPromptKey),
		UserPromptOverride:   e.promptOverride(extractprompt.UserPromptKey),
		Model:                opts.Model,
		Temperature:          opts.Temperature,
		MaxTokens:            opts.MaxTokens,
	})

	result, chatErr := client.Chat(ctx, req)
	e.record(result, req)

	if chatErr != nil || result == nil || !result.Success {
		e.logger.Error("completion call failed",
			"provider", client.Name(),
			"error", chatErr,
		)
		return nil, completionError(chatErr)
	}

	doc, err := recipe.ParseDocument(result.Content)
	if err != nil {
		e.logger.Warn("completion output unparseable",
			"provider", client.Name(),
			"output_len", len(result.Content),
		)
		return nil, parseError(err)
	}

	return doc, nil
}

// promptOverride returns the override text for key, or "" when the embedded
// default applies.
func (e *Extractor) promptOverride(key string) string {
	if e.resolver == nil {
		return ""
	}
	resolved, err := e.resolver.Resolve(key)
	if err != nil || !resolved.IsOverride {
		return ""
	}
	return resolved.Text
}

func (e *Extractor) record(result *providers.ChatResult, req *providers.ChatRequest) {
	if e.recorder == nil || result == nil {
		return
	}
	var promptHash string
	if len(req.Messages) > 0 {
		promptHash = prompts.HashText(req.Messages[len(req.Messages)-1].Content)
	}
	e.recorder.Record(llmcall.FromChatResult(result, llmcall.RecordOptions{
		PromptKey:  extractprompt.UserPromptKey,
		PromptHash: promptHash,
	}))
}
