package extraction

import (
	"context"
	"log/slog"
	"unicode/utf8"
)

// MinNativeChars is the trimmed length at which native text is trusted.
// Anything shorter is treated as an image-only document.
const MinNativeChars = 100

// Orchestrator runs native extraction and falls back to OCR once when the native text is too thin
type Orchestrator struct {
	native Extractor
	ocr    Extractor
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(native, ocr Extractor) *Orchestrator {
	return &Orchestrator{
		native: native,
		ocr:    ocr,
	}
}

// ExtractText returns the native text when it is good enough, otherwise the OCR text.
// The OCR result is returned as-is even when it is empty.
func (o *Orchestrator) ExtractText(ctx context.Context, path string) RawText {
	native := o.native.Extract(ctx, path)
	if !needsOCR(native) {
		slog.Debug("Using native text", "path", path, "chars", native.Length())
		return native
	}

	slog.Info("Native text insufficient, falling back to OCR", "path", path, "chars", native.Length())
	text := o.ocr.Extract(ctx, path)
	if text.Empty() {
		slog.Warn("No text recovered from document", "path", path)
	}
	return text
}

// needsOCR decides the single fallback from the trimmed native length
func needsOCR(native RawText) bool {
	return utf8.RuneCountInString(native.Trimmed()) < MinNativeChars
}
