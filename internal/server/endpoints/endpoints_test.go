package endpoints

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LeeChowCA/recipe-extraction/internal/api"
	"github.com/LeeChowCA/recipe-extraction/internal/extract"
	"github.com/LeeChowCA/recipe-extraction/internal/llmcall"
	"github.com/LeeChowCA/recipe-extraction/internal/prompts"
	extractprompt "github.com/LeeChowCA/recipe-extraction/internal/prompts/extract"
	"github.com/LeeChowCA/recipe-extraction/internal/providers"
	"github.com/LeeChowCA/recipe-extraction/internal/svcctx"
)

// newTestHandler builds a handler with all routes registered and the given
// services attached to every request, mirroring the server's middleware.
func newTestHandler(services *svcctx.Services) http.Handler {
	registry := api.NewRegistry()
	for _, ep := range All(Config{}) {
		registry.Register(ep)
	}

	mux := http.NewServeMux()
	registry.RegisterRoutes(mux)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r.WithContext(svcctx.WithServices(r.Context(), services)))
	})
}

func newTestServices(mockResponse string) (*svcctx.Services, *providers.MockClient) {
	mock := &providers.MockClient{ResponseText: mockResponse}

	registry := providers.NewRegistry()
	registry.RegisterLLM("mock", mock)

	resolver := prompts.NewResolver(nil)
	extractprompt.RegisterPrompts(resolver)

	recorder := llmcall.NewRecorder(16)

	extractor := extract.New(extract.Config{
		Clients:  registry,
		Options:  func() extract.Options { return extract.Options{Provider: "mock"} },
		Resolver: resolver,
		Recorder: recorder,
	})

	return &svcctx.Services{
		Extractor: extractor,
		Registry:  registry,
		Resolver:  resolver,
		Recorder:  recorder,
	}, mock
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoints(t *testing.T) {
	services, _ := newTestServices("{}")
	handler := newTestHandler(services)

	t.Run("health", func(t *testing.T) {
		w := doJSON(t, handler, "GET", "/health", nil)
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("ready with providers", func(t *testing.T) {
		w := doJSON(t, handler, "GET", "/ready", nil)
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("ready without providers", func(t *testing.T) {
		bare := newTestHandler(&svcctx.Services{Registry: providers.NewRegistry()})
		w := doJSON(t, bare, "GET", "/ready", nil)
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", w.Code)
		}
	})

	t.Run("status", func(t *testing.T) {
		w := doJSON(t, handler, "GET", "/status", nil)
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}

		var resp StatusResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if len(resp.Providers) != 1 || resp.Providers[0] != "mock" {
			t.Errorf("expected [mock], got %v", resp.Providers)
		}
		if resp.Prompts != 2 {
			t.Errorf("expected 2 prompts, got %d", resp.Prompts)
		}
	})
}

func TestExtractEndpoint(t *testing.T) {
	t.Run("successful extraction", func(t *testing.T) {
		services, _ := newTestServices(`{"recipe_name": "Ramen", "yield_count": 2, "components": []}`)
		handler := newTestHandler(services)

		text := "Tonkotsu ramen. Serves 2."
		w := doJSON(t, handler, "POST", "/api/extract", ExtractRequest{RecipeText: &text})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var doc map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if doc["recipe_name"] != "Ramen" {
			t.Errorf("expected Ramen, got %v", doc["recipe_name"])
		}
		// Every top-level field is present even when the source omits it
		for _, key := range []string{"recipe_name", "chef", "yield_count", "allergens", "components"} {
			if _, ok := doc[key]; !ok {
				t.Errorf("missing field %q in response", key)
			}
		}
	})

	t.Run("missing recipeText field", func(t *testing.T) {
		services, _ := newTestServices("{}")
		handler := newTestHandler(services)

		w := doJSON(t, handler, "POST", "/api/extract", map[string]any{"text": "wrong field"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("invalid JSON body", func(t *testing.T) {
		services, _ := newTestServices("{}")
		handler := newTestHandler(services)

		req := httptest.NewRequest("POST", "/api/extract", strings.NewReader("{not json"))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("empty recipe text", func(t *testing.T) {
		services, _ := newTestServices("{}")
		handler := newTestHandler(services)

		empty := "   "
		w := doJSON(t, handler, "POST", "/api/extract", ExtractRequest{RecipeText: &empty})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("completion failure maps to 500 with safe message", func(t *testing.T) {
		services, mock := newTestServices("{}")
		mock.ShouldFail = true
		handler := newTestHandler(services)

		text := "Beef stew."
		w := doJSON(t, handler, "POST", "/api/extract", ExtractRequest{RecipeText: &text})
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}

		var resp ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if strings.Contains(resp.Error, "mock") {
			t.Errorf("error message leaks internals: %q", resp.Error)
		}
	})

	t.Run("unparseable completion output maps to 500", func(t *testing.T) {
		services, _ := newTestServices("I am not JSON.")
		handler := newTestHandler(services)

		text := "Beef stew."
		w := doJSON(t, handler, "POST", "/api/extract", ExtractRequest{RecipeText: &text})
		if w.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", w.Code)
		}

		var resp ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if !strings.Contains(resp.Error, "not valid JSON") {
			t.Errorf("expected parse failure message, got %q", resp.Error)
		}
	})

	t.Run("missing extractor maps to 503", func(t *testing.T) {
		handler := newTestHandler(&svcctx.Services{})
		text := "Beef stew."
		w := doJSON(t, handler, "POST", "/api/extract", ExtractRequest{RecipeText: &text})
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", w.Code)
		}
	})
}

func TestPromptEndpoints(t *testing.T) {
	services, _ := newTestServices("{}")
	handler := newTestHandler(services)

	t.Run("list", func(t *testing.T) {
		w := doJSON(t, handler, "GET", "/api/prompts", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp []prompts.EmbeddedPrompt
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if len(resp) != 2 {
			t.Errorf("expected 2 prompts, got %d", len(resp))
		}
	})

	t.Run("get known key", func(t *testing.T) {
		w := doJSON(t, handler, "GET", "/api/prompts/"+extractprompt.SystemPromptKey, nil)
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("get unknown key", func(t *testing.T) {
		w := doJSON(t, handler, "GET", "/api/prompts/stages.missing", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})

	t.Run("set and clear override", func(t *testing.T) {
		key := extractprompt.SystemPromptKey

		w := doJSON(t, handler, "PUT", "/api/prompts/"+key, SetPromptRequest{Text: "Be terse."})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var resolved prompts.ResolvedPrompt
		if err := json.Unmarshal(w.Body.Bytes(), &resolved); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if !resolved.IsOverride || resolved.Text != "Be terse." {
			t.Errorf("override not applied: %+v", resolved)
		}

		w = doJSON(t, handler, "DELETE", "/api/prompts/"+key, nil)
		if w.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", w.Code)
		}

		got, err := services.Resolver.Resolve(key)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.IsOverride {
			t.Error("expected override cleared")
		}
	})

	t.Run("set with empty text", func(t *testing.T) {
		w := doJSON(t, handler, "PUT", "/api/prompts/"+extractprompt.SystemPromptKey, SetPromptRequest{})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("set unknown key", func(t *testing.T) {
		w := doJSON(t, handler, "PUT", "/api/prompts/stages.missing", SetPromptRequest{Text: "x"})
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})
}

func TestLLMCallEndpoints(t *testing.T) {
	services, _ := newTestServices(`{"recipe_name": "X"}`)
	handler := newTestHandler(services)

	// Drive one extraction so there is history to list
	text := "Soup recipe."
	if w := doJSON(t, handler, "POST", "/api/extract", ExtractRequest{RecipeText: &text}); w.Code != http.StatusOK {
		t.Fatalf("extraction failed: %d", w.Code)
	}

	var calls []llmcall.Call

	t.Run("list", func(t *testing.T) {
		w := doJSON(t, handler, "GET", "/api/llmcalls", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if err := json.Unmarshal(w.Body.Bytes(), &calls); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if len(calls) != 1 {
			t.Fatalf("expected 1 call, got %d", len(calls))
		}
		if !calls[0].Success {
			t.Error("expected successful recorded call")
		}
	})

	t.Run("list with bad limit", func(t *testing.T) {
		w := doJSON(t, handler, "GET", "/api/llmcalls?limit=banana", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("get by id", func(t *testing.T) {
		w := doJSON(t, handler, "GET", "/api/llmcalls/"+calls[0].ID, nil)
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("get unknown id", func(t *testing.T) {
		w := doJSON(t, handler, "GET", "/api/llmcalls/not-a-real-id", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})
}
