package endpoints

import (
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/LeeChowCA/recipe-extraction/internal/api"
	"github.com/LeeChowCA/recipe-extraction/internal/llmcall"
	"github.com/LeeChowCA/recipe-extraction/internal/svcctx"
)

// ListLLMCallsEndpoint handles GET /api/llmcalls.
type ListLLMCallsEndpoint struct{}

func (e *ListLLMCallsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/llmcalls", e.handler
}

func (e *ListLLMCallsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	recorder := svcctx.RecorderFrom(r.Context())
	if recorder == nil {
		writeError(w, http.StatusServiceUnavailable, "call recorder not initialized")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	calls := recorder.List(limit)
	if calls == nil {
		calls = []*llmcall.Call{}
	}
	writeJSON(w, http.StatusOK, calls)
}

func (e *ListLLMCallsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent completion service calls",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			path := "/api/llmcalls"
			if limit > 0 {
				path += "?limit=" + strconv.Itoa(limit)
			}
			var resp []llmcall.Call
			if err := client.Get(path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of calls to return (0 = all)")
	return cmd
}

// GetLLMCallEndpoint handles GET /api/llmcalls/{id}.
type GetLLMCallEndpoint struct{}

func (e *GetLLMCallEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/llmcalls/{id}", e.handler
}

func (e *GetLLMCallEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	recorder := svcctx.RecorderFrom(r.Context())
	if recorder == nil {
		writeError(w, http.StatusServiceUnavailable, "call recorder not initialized")
		return
	}

	call := recorder.Get(r.PathValue("id"))
	if call == nil {
		writeError(w, http.StatusNotFound, "call not found")
		return
	}
	writeJSON(w, http.StatusOK, call)
}

func (e *GetLLMCallEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one completion service call",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp llmcall.Call
			if err := client.Get("/api/llmcalls/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
