package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_ingester.go -package=mocks github.com/hyodin/dollkongbot/internal/service Ingester
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_service.go -package=mocks -mock_names=DocumentService=MockDocumentService github.com/hyodin/dollkongbot/internal/service DocumentService

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hyodin/dollkongbot/internal/contextutil"
	"github.com/hyodin/dollkongbot/internal/hierarchy"
	"github.com/hyodin/dollkongbot/internal/indexer"
	"github.com/hyodin/dollkongbot/internal/retrieval"
	"github.com/hyodin/dollkongbot/internal/storage"
)

// Ingester indexes and removes documents. *indexer.Pipeline implements it.
type Ingester interface {
	Ingest(ctx context.Context, fileName string, r io.Reader) (*indexer.Report, error)
	Delete(ctx context.Context, documentID string) error
}

// DocumentService manages the ingested document registry.
type DocumentService interface {
	// Upload indexes a spreadsheet, replacing any document with the same file name.
	Upload(ctx context.Context, fileName string, r io.Reader) (*indexer.Report, error)
	// List returns every ingested document, newest first.
	List(ctx context.Context) ([]storage.Document, error)
	// Delete removes a document and all of its chunks.
	Delete(ctx context.Context, documentID string) error
}

// documentService implements DocumentService.
type documentService struct {
	ingester Ingester
	docRepo  storage.DocumentStore
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(ingester Ingester, docRepo storage.DocumentStore) DocumentService {
	return &documentService{ingester: ingester, docRepo: docRepo}
}

// Upload validates the file name and runs the ingestion pipeline.
func (s *documentService) Upload(ctx context.Context, fileName string, r io.Reader) (*indexer.Report, error) {
	logger := contextutil.LoggerFromContext(ctx)

	fileName = filepath.Base(strings.TrimSpace(fileName))
	if fileName == "" || fileName == "." || fileName == string(filepath.Separator) {
		return nil, &ValidationError{Field: "file", Message: "file name is required"}
	}
	if !hierarchy.IsSupported(fileName) {
		return nil, &ValidationError{Field: "file", Message: "only .xlsx, .xlsm and .csv files are supported"}
	}

	report, err := s.ingester.Ingest(ctx, fileName, r)
	if err != nil {
		var parseErr *hierarchy.DocumentParseError
		switch {
		case errors.As(err, &parseErr):
			// Parse errors describe the user's file and are safe to return.
			return nil, &ValidationError{Field: "file", Message: parseErr.Error()}
		case errors.Is(err, hierarchy.ErrUnsupportedFormat):
			return nil, &ValidationError{Field: "file", Message: err.Error()}
		case errors.Is(err, retrieval.ErrTimeout):
			logger.ErrorContext(ctx, "ingestion timed out", "file_name", fileName, "error", err)
			return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
		}
		return nil, WrapError(err, "failed to ingest document")
	}

	logger.InfoContext(ctx, "document uploaded", "file_name", fileName, "document_id", report.DocumentID,
		"chunks", report.Chunks, "warnings", len(report.Warnings))
	return report, nil
}

// List returns the document registry.
func (s *documentService) List(ctx context.Context) ([]storage.Document, error) {
	docs, err := s.docRepo.List(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to list documents")
	}
	return docs, nil
}

// Delete removes a document.
func (s *documentService) Delete(ctx context.Context, documentID string) error {
	if strings.TrimSpace(documentID) == "" {
		return &ValidationError{Field: "id", Message: "cannot be empty"}
	}
	if err := s.ingester.Delete(ctx, documentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("document %s: %w", documentID, ErrNotFound)
		}
		return WrapError(err, "failed to delete document")
	}
	return nil
}
