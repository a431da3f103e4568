// Package ingest extracts plain text from recipe PDFs. The extraction
// pipeline itself only consumes UTF-8 text; this package is the byte-stream
// collaborator in front of it.
package ingest

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

// ExtractText extracts plain text from the PDF at path. The full document is
// returned as one string with form-feed-free page breaks; nothing is chunked
// or truncated.
func ExtractText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()
	return ExtractTextFromReader(f)
}

// ExtractTextFromReader extracts plain text from PDF bytes.
func ExtractTextFromReader(rs io.ReadSeeker) (string, error) {
	ctx, err := api.ReadContext(rs, nil)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return "", fmt.Errorf("invalid PDF: %w", err)
	}

	var pages []string
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil {
			return "", fmt.Errorf("failed to extract page %d content: %w", pageNr, err)
		}
		if r == nil {
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d content: %w", pageNr, err)
		}
		if text := DecodeContent(string(content)); text != "" {
			pages = append(pages, text)
		}
	}

	text := strings.TrimSpace(strings.Join(pages, "\n\n"))
	if text == "" {
		return "", fmt.Errorf("no text found in PDF")
	}
	return text, nil
}
