package store

import (
	"time"

	"github.com/zombor/statement-extractor/internal/extraction"
	"github.com/zombor/statement-extractor/internal/statement"
)

// Record is a persisted extraction result
type Record struct {
	ID         string              `json:"id"`
	Filename   string              `json:"filename"`
	Accounts   []statement.Account `json:"accounts"`
	TextLength int                 `json:"textLength"`
	Source     extraction.Source   `json:"source,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
}
