// Package tesseract recognizes text from rasterized PDF pages. It is the slow
// fallback for scanned statements that carry no embedded text.
package tesseract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"

	"github.com/zombor/statement-extractor/internal/extraction"
)

// Config controls rasterization and recognition
type Config struct {
	Languages []string // tesseract language codes, default eng+hin
	DPI       int      // rasterization DPI, default 300
	MaxPages  int      // 0 = no limit
	TempDir   string   // parent of the per-document page directory, default os.TempDir()
}

// recognizer is the subset of *gosseract.Client used here
type recognizer interface {
	SetLanguage(langs ...string) error
	SetImage(path string) error
	Text() (string, error)
	Close() error
}

// renderFunc writes one PNG per page into dir and returns their paths in page order
type renderFunc func(ctx context.Context, pdfPath, dir string, dpi, maxPages int) ([]string, error)

// Extractor implements OCR extraction with Tesseract
type Extractor struct {
	cfg       Config
	newClient func() recognizer
	render    renderFunc
}

// NewExtractor creates a new OCR Extractor
func NewExtractor(cfg Config) *Extractor {
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"eng", "hin"}
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{
		cfg:       cfg,
		newClient: func() recognizer { return gosseract.NewClient() },
		render:    renderPages,
	}
}

// Extract rasterizes the PDF and recognizes every page. Any failure of the
// engine or the renderer yields an empty RawText; page images are always removed.
func (e *Extractor) Extract(ctx context.Context, path string) extraction.RawText {
	start := time.Now()
	empty := extraction.RawText{Source: extraction.SourceOCR}

	dir, err := os.MkdirTemp(e.cfg.TempDir, "stmt-ocr-*")
	if err != nil {
		slog.Error("Failed to create OCR work directory", "error", err)
		return empty
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			slog.Warn("Failed to remove OCR work directory", "dir", dir, "error", err)
		}
	}()

	images, err := e.render(ctx, path, dir, e.cfg.DPI, e.cfg.MaxPages)
	if err != nil {
		slog.Error("OCR failed", "path", path, "stage", "render", "error", err)
		return empty
	}

	text, err := e.recognize(ctx, images)
	if err != nil {
		slog.Error("OCR failed", "path", path, "stage", "recognize", "error", err)
		return empty
	}

	raw := extraction.RawText{
		Text:   text,
		Source: extraction.SourceOCR,
		Pages:  len(images),
	}
	slog.Info("OCR extracted",
		"path", path,
		"pages", len(images),
		"chars", raw.Length(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return raw
}

func (e *Extractor) recognize(ctx context.Context, images []string) (string, error) {
	client := e.newClient()
	defer func() {
		if err := client.Close(); err != nil {
			slog.Warn("Failed to close tesseract client", "error", err)
		}
	}()

	if err := client.SetLanguage(e.cfg.Languages...); err != nil {
		return "", fmt.Errorf("setting languages %v: %w", e.cfg.Languages, err)
	}

	var b strings.Builder
	recognized := 0
	var lastErr error
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("recognizing page %d: %w", i, err)
		}
		if err := client.SetImage(img); err != nil {
			lastErr = fmt.Errorf("loading page %d: %w", i, err)
			slog.Debug("Skipping page", "page", i, "error", err)
			continue
		}
		txt, err := client.Text()
		if err != nil {
			lastErr = fmt.Errorf("recognizing page %d: %w", i, err)
			slog.Debug("Skipping page", "page", i, "error", err)
			continue
		}
		recognized++
		txt = strings.TrimSpace(txt)
		if txt == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(txt)
	}

	// Every page failing means the engine itself is broken
	if recognized == 0 && lastErr != nil {
		return "", lastErr
	}
	return b.String(), nil
}

// renderPages rasterizes PDF pages to PNG files with MuPDF
func renderPages(ctx context.Context, pdfPath, dir string, dpi, maxPages int) ([]string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if maxPages > 0 && pages > maxPages {
		pages = maxPages
	}
	if pages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	paths := make([]string, 0, pages)
	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := doc.ImagePNG(i, float64(dpi))
		if err != nil {
			return nil, fmt.Errorf("rendering page %d: %w", i, err)
		}
		p := filepath.Join(dir, fmt.Sprintf("page-%04d.png", i+1))
		if err := os.WriteFile(p, data, 0600); err != nil {
			return nil, fmt.Errorf("writing page %d: %w", i, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
