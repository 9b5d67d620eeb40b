// Package statement turns raw statement text into normalized accounts with
// the help of a generative model.
package statement

import (
	"context"
	"log/slog"
	"time"

	"github.com/zombor/statement-extractor/internal/llm"
)

// DefaultTimeout bounds one model call
const DefaultTimeout = 30 * time.Second

// Parser sends statement text to a Generator and normalizes the reply
type Parser struct {
	generator llm.Generator
	timeout   time.Duration
}

// NewParser creates a new Parser. A zero timeout uses DefaultTimeout.
func NewParser(generator llm.Generator, timeout time.Duration) *Parser {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Parser{
		generator: generator,
		timeout:   timeout,
	}
}

// ParseStructured returns the accounts found in rawText. It never fails: an
// unreachable model yields an "API Error" account and an unusable reply a
// "Parsing Failed" account, both carrying filename as the holder.
func (p *Parser) ParseStructured(ctx context.Context, rawText, filename string) []Account {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	reply, err := p.generator.Generate(ctx, buildPrompt(rawText, filename))
	if err != nil {
		slog.Error("Model call failed", "filename", filename, "error", err)
		return []Account{sentinelAccount(MarkerAPIError, filename)}
	}

	v, err := decodeReply(reply)
	if err != nil {
		slog.Error("Failed to parse model response",
			"filename", filename,
			"preview", truncateChars(reply, 100),
			"error", err,
		)
		return []Account{sentinelAccount(MarkerParsingFailed, filename)}
	}

	accounts := normalizeAccounts(v)
	slog.Info("Parsed accounts", "filename", filename, "accounts", len(accounts))
	return accounts
}
