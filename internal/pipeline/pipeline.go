// Package pipeline is the single entry point from an uploaded PDF to structured accounts.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/zombor/statement-extractor/internal/extraction"
	"github.com/zombor/statement-extractor/internal/statement"
)

// TextExtractor recovers raw text from a PDF on disk
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) extraction.RawText
}

// StructuredParser turns raw text into accounts
type StructuredParser interface {
	ParseStructured(ctx context.Context, rawText, filename string) []statement.Account
}

// Result is the output of one extraction
type Result struct {
	Accounts   []statement.Account `json:"accounts"`
	TextLength int                 `json:"textLength"`
	Filename   string              `json:"filename"`
	Success    bool                `json:"success"`
	Source     extraction.Source   `json:"source,omitempty"`
}

// Pipeline runs text extraction followed by structured parsing
type Pipeline struct {
	text   TextExtractor
	parser StructuredParser
}

// New creates a new Pipeline
func New(text TextExtractor, parser StructuredParser) *Pipeline {
	return &Pipeline{
		text:   text,
		parser: parser,
	}
}

// Extract processes the PDF at path. Failures inside the stages are already
// turned into sentinel accounts, so the only error is a missing input file.
func (p *Pipeline) Extract(ctx context.Context, path, originalFilename string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("checking input file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("input %s is not a regular file", path)
	}

	slog.Info("Processing statement", "filename", originalFilename, "size", info.Size())

	raw := p.text.ExtractText(ctx, path)
	slog.Info("Text extracted", "filename", originalFilename, "source", raw.Source, "chars", raw.Length())

	accounts := p.parser.ParseStructured(ctx, raw.Text, originalFilename)
	if accounts == nil {
		accounts = []statement.Account{}
	}

	return &Result{
		Accounts:   accounts,
		TextLength: raw.Length(),
		Filename:   originalFilename,
		Success:    true,
		Source:     raw.Source,
	}, nil
}
