package extract

import (
	"encoding/json"

	"github.com/LeeChowCA/recipe-extraction/internal/providers"
	"github.com/LeeChowCA/recipe-extraction/internal/recipe"
)

// Input contains the data needed to build an extraction chat request.
type Input struct {
	RecipeText string

	// SystemPromptOverride replaces the embedded system prompt when set.
	SystemPromptOverride string

	// UserPromptOverride replaces the embedded user prompt template when set.
	UserPromptOverride string

	// Generation parameters; zero values fall back to stage defaults.
	Model       string
	Temperature float64
	MaxTokens   int
}

// Stage defaults. Extraction wants near-deterministic output.
const (
	defaultTemperature = 0.1
	defaultMaxTokens   = 4096
)

// CreateChatRequest builds the extraction chat request for a completion
// client. The same input always yields the same request.
func CreateChatRequest(input Input) *providers.ChatRequest {
	systemPrompt := input.SystemPromptOverride
	if systemPrompt == "" {
		systemPrompt = SystemPrompt()
	}

	data := UserPromptData{
		SchemaText: recipe.InstructionText(),
		RecipeText: input.RecipeText,
	}
	userPrompt := UserPromptWithOverride(data, input.UserPromptOverride)

	temperature := input.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	maxTokens := input.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	return &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Model:          input.Model,
		ResponseFormat: buildResponseFormat(),
		Temperature:    temperature,
		MaxTokens:      maxTokens,
	}
}

func buildResponseFormat() *providers.ResponseFormat {
	wrapper := recipe.ResponseFormat()
	jsonSchema, _ := json.Marshal(wrapper["json_schema"])
	return &providers.ResponseFormat{
		Type:       "json_schema",
		JSONSchema: jsonSchema,
	}
}
