// Package llm provides generative-text clients that turn a prompt into a reply.
package llm

import "context"

// Generator defines the interface for generative-text services
type Generator interface {
	// Generate sends prompt to the model and returns its text reply
	Generate(ctx context.Context, prompt string) (string, error)
	// Close closes the generator and releases resources
	Close() error
}
