package main

import (
	"github.com/spf13/cobra"

	"github.com/LeeChowCA/recipe-extraction/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running recipex server via HTTP.

These commands require a running server (recipex serve).
Use --server to specify a custom server URL.

Examples:
  recipex api health                       # Check server health
  recipex api extract "Chicken Curry..."   # Extract a recipe document
  recipex api extract-pdf menu.pdf         # Extract from a PDF
  recipex api prompts                      # List prompt templates`,
}

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Prompt template commands",
}

var llmcallsCmd = &cobra.Command{
	Use:   "llmcalls",
	Short: "Completion call history commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	// Health endpoints at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ReadyEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.StatusEndpoint{}).Command(getServerURL))

	// Extraction at top level of api
	apiCmd.AddCommand((&endpoints.ExtractEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.UploadExtractEndpoint{}).Command(getServerURL))

	// Prompts as subcommand group
	promptsCmd.AddCommand((&endpoints.ListPromptsEndpoint{}).Command(getServerURL))
	promptsCmd.AddCommand((&endpoints.GetPromptEndpoint{}).Command(getServerURL))
	promptsCmd.AddCommand((&endpoints.SetPromptEndpoint{}).Command(getServerURL))
	promptsCmd.AddCommand((&endpoints.ClearPromptEndpoint{}).Command(getServerURL))

	// LLM calls as subcommand group
	llmcallsCmd.AddCommand((&endpoints.ListLLMCallsEndpoint{}).Command(getServerURL))
	llmcallsCmd.AddCommand((&endpoints.GetLLMCallEndpoint{}).Command(getServerURL))

	apiCmd.AddCommand(promptsCmd)
	apiCmd.AddCommand(llmcallsCmd)
	rootCmd.AddCommand(apiCmd)
}
