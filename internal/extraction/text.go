package extraction

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Source records which extractor produced a RawText
type Source string

const (
	SourceNative Source = "native"
	SourceOCR    Source = "ocr"
)

// RawText is all text recovered from one document
type RawText struct {
	Text   string `json:"-"`
	Source Source `json:"source"`
	Pages  int    `json:"pages"`
}

// Length returns the number of characters in the text
func (r RawText) Length() int {
	return utf8.RuneCountInString(r.Text)
}

// Trimmed returns the text without surrounding whitespace
func (r RawText) Trimmed() string {
	return strings.TrimSpace(r.Text)
}

// Empty reports whether the text holds nothing but whitespace
func (r RawText) Empty() bool {
	return r.Trimmed() == ""
}

// Extractor recovers text from a PDF on disk.
// Implementations never fail: a document without recoverable text yields an empty RawText.
type Extractor interface {
	Extract(ctx context.Context, path string) RawText
}

// ExtractorFunc adapts a function to the Extractor interface
type ExtractorFunc func(ctx context.Context, path string) RawText

// Extract calls f(ctx, path)
func (f ExtractorFunc) Extract(ctx context.Context, path string) RawText {
	return f(ctx, path)
}
