package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/zombor/statement-extractor/internal/pipeline"
	"github.com/zombor/statement-extractor/internal/store"
)

// Extractor runs the extraction pipeline on a file path
type Extractor interface {
	Extract(ctx context.Context, path, originalFilename string) (*pipeline.Result, error)
}

// IDGenerator generates unique IDs for uploads and records
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates IDs using UnixNano timestamp
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Response is an extraction result as returned to clients
type Response struct {
	*pipeline.Result
	ID string `json:"id,omitempty"`
}

// Service handles statement uploads
type Service struct {
	extractor   Extractor
	staging     store.Staging
	db          store.DB // nil disables persistence
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(extractor Extractor, staging store.Staging, db store.DB) *Service {
	return NewServiceWithDeps(extractor, staging, db, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(extractor Extractor, staging store.Staging, db store.DB, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		extractor:   extractor,
		staging:     staging,
		db:          db,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	reUnsafe = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	reSpaces = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)

	base = reUnsafe.ReplaceAllString(base, "")
	base = reSpaces.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}
	if base == "" {
		base = "statement"
	}
	return base + strings.ToLower(ext)
}

// ProcessStatement stages the upload, runs the pipeline on it and removes it
// again on every path.
func (s *Service) ProcessStatement(ctx context.Context, filename string, upload io.Reader) (*Response, error) {
	id := s.idGenerator.Generate()

	staged, err := s.staging.Stage(fmt.Sprintf("stmt-%s-%s", id, sanitizeFilename(filename)), upload)
	if err != nil {
		return nil, fmt.Errorf("staging upload: %w", err)
	}
	defer func() {
		if err := staged.Remove(); err != nil {
			slog.Warn("Cleanup failed", "file", staged.Path, "error", err)
		}
	}()

	slog.Debug("Upload staged", "path", staged.Path, "size", staged.Size)
	result, err := s.extractor.Extract(ctx, staged.Path, filename)
	if err != nil {
		return nil, fmt.Errorf("extracting statement: %w", err)
	}

	resp := &Response{Result: result}
	if s.db == nil {
		return resp, nil
	}

	record := &store.Record{
		ID:         id,
		Filename:   result.Filename,
		Accounts:   result.Accounts,
		TextLength: result.TextLength,
		Source:     result.Source,
		CreatedAt:  s.timeSource.Now(),
	}
	// Persistence is best effort, the caller still gets the extraction
	if err := s.db.SaveRecord(record); err != nil {
		slog.Error("Failed to save extraction", "filename", filename, "error", err)
		return resp, nil
	}
	resp.ID = id
	return resp, nil
}

// Persistent reports whether extraction results are stored
func (s *Service) Persistent() bool {
	return s.db != nil
}

// GetRecord retrieves a stored extraction by ID
func (s *Service) GetRecord(id string) (*store.Record, error) {
	record, err := s.db.GetRecord(id)
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}
	return record, nil
}

// ListRecords returns all stored extractions
func (s *Service) ListRecords() ([]*store.Record, error) {
	records, err := s.db.ListRecords()
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return records, nil
}

// DeleteRecord removes a stored extraction
func (s *Service) DeleteRecord(id string) error {
	if err := s.db.DeleteRecord(id); err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	return nil
}
