// Package svcctx provides service context for dependency injection via
// context. It is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/LeeChowCA/recipe-extraction/internal/extract"
	"github.com/LeeChowCA/recipe-extraction/internal/llmcall"
	"github.com/LeeChowCA/recipe-extraction/internal/prompts"
	"github.com/LeeChowCA/recipe-extraction/internal/providers"
)

// Services holds the core services that flow through request context.
type Services struct {
	Extractor *extract.Extractor
	Registry  *providers.Registry
	Resolver  *prompts.Resolver
	Recorder  *llmcall.Recorder
	Logger    *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context. Returns nil
// if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// ExtractorFrom extracts the extraction orchestrator from context.
func ExtractorFrom(ctx context.Context) *extract.Extractor {
	if s := ServicesFrom(ctx); s != nil {
		return s.Extractor
	}
	return nil
}

// RegistryFrom extracts the provider registry from context.
func RegistryFrom(ctx context.Context) *providers.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.Registry
	}
	return nil
}

// ResolverFrom extracts the prompt resolver from context.
func ResolverFrom(ctx context.Context) *prompts.Resolver {
	if s := ServicesFrom(ctx); s != nil {
		return s.Resolver
	}
	return nil
}

// RecorderFrom extracts the LLM call recorder from context.
func RecorderFrom(ctx context.Context) *llmcall.Recorder {
	if s := ServicesFrom(ctx); s != nil {
		return s.Recorder
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}
