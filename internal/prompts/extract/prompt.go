// Package extract holds the prompt pair for the recipe extraction stage.
package extract

import (
	"bytes"
	_ "embed"
	"text/template"

	"github.com/LeeChowCA/recipe-extraction/internal/prompts"
)

//go:embed system.tmpl
var systemPrompt string

//go:embed user.tmpl
var userPromptTmpl string

var userTemplate = template.Must(template.New("user").Parse(userPromptTmpl))

// SystemPrompt returns the system prompt for recipe extraction.
func SystemPrompt() string {
	return systemPrompt
}

// UserPromptData carries the values interpolated into the user prompt.
type UserPromptData struct {
	SchemaText string
	RecipeText string
}

// UserPrompt builds the user prompt for recipe extraction. The recipe text
// is interpolated verbatim; text/template performs no escaping or
// re-encoding, so extraction fidelity is bounded only by the model.
func UserPrompt(data UserPromptData) string {
	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, data); err != nil {
		return userPromptTmpl
	}
	return buf.String()
}

// UserPromptWithOverride renders an override template if provided, falling
// back to the embedded default on empty or unparseable overrides.
func UserPromptWithOverride(data UserPromptData, override string) string {
	if override == "" {
		return UserPrompt(data)
	}
	tmpl, err := template.New("user_override").Parse(override)
	if err != nil {
		return UserPrompt(data)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return UserPrompt(data)
	}
	return buf.String()
}

// Prompt keys
const (
	SystemPromptKey = "stages.extract.system"
	UserPromptKey   = "stages.extract.user"
)

// RegisterPrompts registers the extraction prompts with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         SystemPromptKey,
		Text:        systemPrompt,
		Description: "Recipe extraction system prompt - persona and hard extraction rules",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         UserPromptKey,
		Text:        userPromptTmpl,
		Description: "Recipe extraction user prompt template",
	})
}
