package config

// DefaultConfig returns the configuration used when no config file exists.
// API keys reference environment variables so the default file is safe to
// commit.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: "8080",
		},
		LLMProviders: map[string]LLMProviderConfig{
			"openrouter": {
				Type:      "openrouter",
				Model:     "anthropic/claude-3.5-sonnet",
				APIKey:    "${OPENROUTER_API_KEY}",
				RateLimit: 150,
				Enabled:   true,
			},
			"openai": {
				Type:      "openai",
				Model:     "gpt-4o-mini",
				APIKey:    "${OPENAI_API_KEY}",
				RateLimit: 150,
				Enabled:   false,
			},
		},
		Defaults: DefaultsConfig{
			LLMProvider: "openrouter",
			Temperature: 0.1,
			MaxTokens:   4096,
		},
	}
}
