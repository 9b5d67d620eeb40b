package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/zombor/statement-extractor/internal/statement"
	"github.com/zombor/statement-extractor/internal/store"
)

// uploadField is the multipart field carrying the PDF
const uploadField = "pdf"

// errorResponse is the body of every failed request
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v as the response body
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeError writes a JSON error body
func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorResponse{Error: message})
}

// writeAccountsError writes a JSON error body that still carries an empty accounts list
func writeAccountsError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]any{
		"error":    message,
		"accounts": []statement.Account{},
	})
}

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleNotFound answers unknown routes
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Route not found", "method", r.Method, "url", r.URL.String())
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error":  "Route not found",
		"url":    r.URL.String(),
		"method": r.Method,
	})
}

// isPDF checks the declared content type, falling back to the extension when the part has none
func isPDF(header *multipart.FileHeader) bool {
	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if contentType == "" {
		return strings.EqualFold(filepath.Ext(header.Filename), ".pdf")
	}
	return strings.HasPrefix(contentType, "application/pdf")
}

// handleProcessPDF handles a statement upload
func (s *Server) handleProcessPDF(w http.ResponseWriter, r *http.Request) {
	invalid := fmt.Sprintf("Invalid PDF (max %dMB)", s.maxUploadBytes>>20)

	// Leave room for multipart framing around the file itself
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, invalid)
			return
		}
		slog.Error("Error parsing multipart form", "error", err)
		writeAccountsError(w, http.StatusBadRequest, "No PDF uploaded")
		return
	}
	defer r.MultipartForm.RemoveAll()

	f, header, err := r.FormFile(uploadField)
	if err != nil {
		writeAccountsError(w, http.StatusBadRequest, "No PDF uploaded")
		return
	}
	defer f.Close()

	if !isPDF(header) || header.Size > s.maxUploadBytes {
		slog.Warn("Rejected upload",
			"filename", header.Filename,
			"content_type", header.Header.Get("Content-Type"),
			"size", header.Size,
		)
		writeError(w, http.StatusBadRequest, invalid)
		return
	}

	slog.Info("Processing upload", "filename", header.Filename, "size", header.Size)
	resp, err := s.service.ProcessStatement(r.Context(), header.Filename, f)
	if err != nil {
		slog.Error("Processing error", "filename", header.Filename, "error", err)
		writeAccountsError(w, http.StatusInternalServerError, "Processing failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleListStatements returns all stored extractions
func (s *Server) handleListStatements(w http.ResponseWriter, r *http.Request) {
	if !s.service.Persistent() {
		writeError(w, http.StatusNotFound, "Persistence disabled")
		return
	}
	records, err := s.service.ListRecords()
	if err != nil {
		slog.Error("Error listing statements", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// handleGetStatement returns a single stored extraction
func (s *Server) handleGetStatement(w http.ResponseWriter, r *http.Request) {
	if !s.service.Persistent() {
		writeError(w, http.StatusNotFound, "Persistence disabled")
		return
	}
	record, err := s.service.GetRecord(r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Statement not found")
		return
	}
	if err != nil {
		slog.Error("Error getting statement", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// handleDeleteStatement deletes a stored extraction
func (s *Server) handleDeleteStatement(w http.ResponseWriter, r *http.Request) {
	if !s.service.Persistent() {
		writeError(w, http.StatusNotFound, "Persistence disabled")
		return
	}
	err := s.service.DeleteRecord(r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Statement not found")
		return
	}
	if err != nil {
		slog.Error("Error deleting statement", "error", err)
		writeError(w, http.StatusInternalServerError, "Error deleting statement")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
