package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/LeeChowCA/recipe-extraction/internal/api"
	"github.com/LeeChowCA/recipe-extraction/internal/extract"
	"github.com/LeeChowCA/recipe-extraction/internal/svcctx"
)

// ExtractRequest is the body for POST /api/extract.
type ExtractRequest struct {
	RecipeText *string `json:"recipeText"`
}

// ExtractEndpoint handles POST /api/extract: recipe text in, normalized
// recipe document out.
type ExtractEndpoint struct{}

var _ api.Endpoint = (*ExtractEndpoint)(nil)

func (e *ExtractEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/extract", e.handler
}

func (e *ExtractEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.RecipeText == nil {
		writeError(w, http.StatusBadRequest, "recipeText is required")
		return
	}

	extractor := svcctx.ExtractorFrom(r.Context())
	if extractor == nil {
		writeError(w, http.StatusServiceUnavailable, "extractor not initialized")
		return
	}

	doc, err := extractor.Extract(r.Context(), *req.RecipeText)
	if err != nil {
		writeExtractError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// writeExtractError maps pipeline failures onto the API contract: invalid
// input is the caller's fault; every other failure collapses to an opaque
// server error.
func writeExtractError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, extract.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var extErr *extract.ExtractionError
	if errors.As(err, &extErr) {
		writeError(w, http.StatusInternalServerError, extErr.Error())
		return
	}

	if logger := svcctx.LoggerFrom(r.Context()); logger != nil {
		logger.Error("unexpected extraction failure", "error", err)
	}
	writeError(w, http.StatusInternalServerError, "extraction failed")
}

func (e *ExtractEndpoint) Command(getServerURL func() string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "extract [text]",
		Short: "Extract a structured recipe from text",
		Long: `Extract a structured recipe document from recipe text.

The text is passed as an argument or read from a file with --file.

Examples:
  recipex extract "Pan-seared chicken with rice..."
  recipex extract --file recipe.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			switch {
			case file != "":
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				text = string(data)
			case len(args) == 1:
				text = args[0]
			default:
				return fmt.Errorf("provide recipe text as an argument or via --file")
			}

			client := api.NewClient(getServerURL())
			var doc map[string]any
			if err := client.Post("/api/extract", ExtractRequest{RecipeText: &text}, &doc); err != nil {
				return err
			}
			return api.Output(doc)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read recipe text from a file")
	return cmd
}
