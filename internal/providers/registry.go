package providers

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// LLMProviderConfig configures a single completion client.
type LLMProviderConfig struct {
	Type      string // "openrouter", "openai", "mock"
	Model     string
	APIKey    string
	RateLimit int // requests per minute
	Enabled   bool
}

// RegistryConfig is the provider section of the application config.
type RegistryConfig struct {
	LLMProviders map[string]LLMProviderConfig
}

// Registry holds the configured completion clients. Reload replaces the
// whole set atomically, which is how config hot-reload propagates.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]LLMClient
	logger  *slog.Logger
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]LLMClient),
		logger:  slog.Default(),
	}
}

// SetLogger sets the logger used for registry events.
func (r *Registry) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Reload rebuilds all clients from config. Unknown types and disabled
// entries are skipped with a log line rather than failing the reload.
func (r *Registry) Reload(cfg RegistryConfig) {
	clients := make(map[string]LLMClient, len(cfg.LLMProviders))

	r.mu.RLock()
	logger := r.logger
	r.mu.RUnlock()

	for name, pc := range cfg.LLMProviders {
		if !pc.Enabled {
			continue
		}
		client, err := buildClient(pc)
		if err != nil {
			logger.Warn("skipping LLM provider", "name", name, "error", err)
			continue
		}
		clients[name] = client
	}

	r.mu.Lock()
	r.clients = clients
	r.mu.Unlock()

	logger.Info("provider registry reloaded", "llm_providers", len(clients))
}

// RegisterLLM adds or replaces a single client (used by tests).
func (r *Registry) RegisterLLM(name string, client LLMClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
}

// LLM returns the client registered under name.
func (r *Registry) LLM(name string) (LLMClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("LLM provider not configured: %s", name)
	}
	return client, nil
}

// ListLLM returns the registered client names, sorted.
func (r *Registry) ListLLM() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func buildClient(pc LLMProviderConfig) (LLMClient, error) {
	switch pc.Type {
	case "openrouter":
		if pc.APIKey == "" {
			return nil, fmt.Errorf("missing API key")
		}
		return NewOpenRouterClient(OpenRouterConfig{
			APIKey:            pc.APIKey,
			DefaultModel:      pc.Model,
			RequestsPerMinute: pc.RateLimit,
		}), nil
	case "openai":
		if pc.APIKey == "" {
			return nil, fmt.Errorf("missing API key")
		}
		return NewOpenAIClient(OpenAIConfig{
			APIKey:            pc.APIKey,
			DefaultModel:      pc.Model,
			RequestsPerMinute: pc.RateLimit,
		}), nil
	case "mock":
		return &MockClient{Latency: 10 * time.Millisecond, ResponseText: "{}"}, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider type: %s", pc.Type)
	}
}
