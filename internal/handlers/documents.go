package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hyodin/dollkongbot/internal/contextutil"
	"github.com/hyodin/dollkongbot/internal/service"
)

// DefaultMaxUploadBytes limits spreadsheet uploads.
const DefaultMaxUploadBytes = 10 << 20

// DocumentHandler handles HTTP requests for the document registry.
type DocumentHandler struct {
	documentService service.DocumentService
	maxUploadBytes  int64
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService, maxUploadBytes int64) *DocumentHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &DocumentHandler{
		documentService: documentService,
		maxUploadBytes:  maxUploadBytes,
	}
}

// DocumentResponse describes one ingested document.
//
// swagger:model DocumentResponse
type DocumentResponse struct {
	ID           string `json:"id"`
	FileName     string `json:"file_name"`
	FileType     string `json:"file_type"`
	ChunkCount   int    `json:"chunk_count"`
	WarningCount int    `json:"warning_count"`
	UploadedAt   string `json:"uploaded_at"`
}

// DocumentListResponse is the registry listing.
//
// swagger:model DocumentListResponse
type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

// ServeHTTP dispatches on method:
//
//	GET    /api/documents       list
//	POST   /api/documents       upload (multipart field "file")
//	DELETE /api/documents/{id}  delete
func (h *DocumentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	switch {
	case r.Method == http.MethodGet && id == "":
		h.list(w, r)
	case r.Method == http.MethodPost && id == "":
		h.upload(w, r)
	case r.Method == http.MethodDelete && id != "":
		h.delete(w, r, id)
	default:
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *DocumentHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	docs, err := h.documentService.List(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list documents")
		return
	}

	resp := DocumentListResponse{Documents: make([]DocumentResponse, len(docs))}
	for i, d := range docs {
		resp.Documents[i] = DocumentResponse{
			ID:           d.ID,
			FileName:     d.FileName,
			FileType:     d.FileType,
			ChunkCount:   d.ChunkCount,
			WarningCount: d.WarningCount,
			UploadedAt:   d.UploadedAt.UTC().Format(time.RFC3339),
		}
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

func (h *DocumentHandler) upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.WarnContext(ctx, "upload too large", "limit", tooLarge.Limit)
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		logger.WarnContext(ctx, "invalid upload", "error", err)
		writeError(w, http.StatusBadRequest, "Missing multipart file field \"file\"")
		return
	}
	defer file.Close()

	report, err := h.documentService.Upload(ctx, header.Filename, file)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to ingest document")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, report)
}

func (h *DocumentHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()

	if err := h.documentService.Delete(ctx, id); err != nil {
		handleServiceError(ctx, w, err, "Failed to delete document")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
