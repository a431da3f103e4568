package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/LeeChowCA/recipe-extraction/internal/api"
	"github.com/LeeChowCA/recipe-extraction/internal/prompts"
	"github.com/LeeChowCA/recipe-extraction/internal/svcctx"
)

// ListPromptsEndpoint handles GET /api/prompts.
type ListPromptsEndpoint struct{}

func (e *ListPromptsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/prompts", e.handler
}

func (e *ListPromptsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resolver := svcctx.ResolverFrom(r.Context())
	if resolver == nil {
		writeError(w, http.StatusServiceUnavailable, "prompt resolver not initialized")
		return
	}
	writeJSON(w, http.StatusOK, resolver.AllEmbedded())
}

func (e *ListPromptsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp []prompts.EmbeddedPrompt
			if err := client.Get("/api/prompts", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GetPromptEndpoint handles GET /api/prompts/{key}.
type GetPromptEndpoint struct{}

func (e *GetPromptEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/prompts/{key}", e.handler
}

func (e *GetPromptEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resolver := svcctx.ResolverFrom(r.Context())
	if resolver == nil {
		writeError(w, http.StatusServiceUnavailable, "prompt resolver not initialized")
		return
	}

	resolved, err := resolver.Resolve(r.PathValue("key"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resolved)
}

func (e *GetPromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Show the current text for a prompt key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp prompts.ResolvedPrompt
			if err := client.Get("/api/prompts/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// SetPromptRequest is the body for PUT /api/prompts/{key}.
type SetPromptRequest struct {
	Text string `json:"text"`
}

// SetPromptEndpoint handles PUT /api/prompts/{key}: installs a runtime
// override for a registered prompt.
type SetPromptEndpoint struct{}

func (e *SetPromptEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/prompts/{key}", e.handler
}

func (e *SetPromptEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resolver := svcctx.ResolverFrom(r.Context())
	if resolver == nil {
		writeError(w, http.StatusServiceUnavailable, "prompt resolver not initialized")
		return
	}

	var req SetPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	key := r.PathValue("key")
	if err := resolver.SetOverride(key, req.Text); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	resolved, _ := resolver.Resolve(key)
	writeJSON(w, http.StatusOK, resolved)
}

func (e *SetPromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "set <key> [text]",
		Short: "Override the text for a prompt key",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := ""
			if len(args) == 2 {
				text = args[1]
			}
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				text = string(data)
			}
			if text == "" {
				return fmt.Errorf("provide prompt text as an argument or via --file")
			}
			client := api.NewClient(getServerURL())
			var resp prompts.ResolvedPrompt
			if err := client.Put("/api/prompts/"+args[0], SetPromptRequest{Text: text}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read prompt text from a file")
	return cmd
}

// ClearPromptEndpoint handles DELETE /api/prompts/{key}: restores the
// embedded default.
type ClearPromptEndpoint struct{}

func (e *ClearPromptEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/prompts/{key}", e.handler
}

func (e *ClearPromptEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resolver := svcctx.ResolverFrom(r.Context())
	if resolver == nil {
		writeError(w, http.StatusServiceUnavailable, "prompt resolver not initialized")
		return
	}
	resolver.ClearOverride(r.PathValue("key"))
	w.WriteHeader(http.StatusNoContent)
}

func (e *ClearPromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <key>",
		Short: "Restore the embedded default for a prompt key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			return client.Delete("/api/prompts/" + args[0])
		},
	}
}
