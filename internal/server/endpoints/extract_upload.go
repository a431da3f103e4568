package endpoints

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LeeChowCA/recipe-extraction/internal/api"
	"github.com/LeeChowCA/recipe-extraction/internal/ingest"
	"github.com/LeeChowCA/recipe-extraction/internal/svcctx"
)

// defaultMaxUploadBytes caps recipe PDF uploads. Recipe cards are small;
// anything bigger is almost certainly the wrong file.
const defaultMaxUploadBytes = 32 << 20 // 32MB

// UploadExtractEndpoint handles POST /api/extract/upload with a multipart
// PDF upload: the PDF's text is extracted and run through the same pipeline
// as POST /api/extract.
type UploadExtractEndpoint struct {
	MaxUploadBytes int64
}

var _ api.Endpoint = (*UploadExtractEndpoint)(nil)

func (e *UploadExtractEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/extract/upload", e.handler
}

func (e *UploadExtractEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	maxBytes := e.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file %s is not a PDF", header.Filename))
		return
	}

	text, err := ingest.ExtractTextFromReader(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to extract text from PDF: %v", err))
		return
	}

	extractor := svcctx.ExtractorFrom(r.Context())
	if extractor == nil {
		writeError(w, http.StatusServiceUnavailable, "extractor not initialized")
		return
	}

	doc, err := extractor.Extract(r.Context(), text)
	if err != nil {
		writeExtractError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (e *UploadExtractEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "extract-pdf <file.pdf>",
		Short: "Extract a structured recipe from a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var doc map[string]any
			if err := client.PostFile("/api/extract/upload", "file", args[0], &doc); err != nil {
				return err
			}
			return api.Output(doc)
		},
	}
}
