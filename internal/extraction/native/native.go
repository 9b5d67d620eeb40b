// Package native recovers the text a PDF carries in its own text-drawing
// instructions, without rendering or recognition.
package native

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/zombor/statement-extractor/internal/extraction"
)

// Extractor reads embedded PDF text with MuPDF
type Extractor struct{}

// NewExtractor creates a new native Extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the document's embedded text. A corrupt or unparsable PDF
// yields an empty RawText; this method never fails.
func (e *Extractor) Extract(ctx context.Context, path string) extraction.RawText {
	empty := extraction.RawText{Source: extraction.SourceNative}

	doc, err := fitz.New(path)
	if err != nil {
		slog.Warn("Failed to open PDF for native extraction", "path", path, "error", err)
		return empty
	}
	defer doc.Close()

	pages := doc.NumPage()
	texts := make([]string, 0, pages)
	for i := 0; i < pages; i++ {
		if ctx.Err() != nil {
			slog.Warn("Native extraction cancelled", "path", path, "page", i, "error", ctx.Err())
			return empty
		}
		text, err := doc.Text(i)
		if err != nil {
			// Unreadable pages are skipped, the rest of the document still counts
			slog.Debug("Skipping page without native text", "path", path, "page", i, "error", err)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			texts = append(texts, text)
		}
	}

	raw := extraction.RawText{
		Text:   strings.Join(texts, "\n\n"),
		Source: extraction.SourceNative,
		Pages:  pages,
	}
	slog.Info("Native extracted", "path", path, "pages", pages, "chars", raw.Length())
	return raw
}
