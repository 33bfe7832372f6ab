package indexer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"time"

	"github.com/hyodin/dollkongbot/internal/contextutil"
	"github.com/hyodin/dollkongbot/internal/hierarchy"
	"github.com/hyodin/dollkongbot/internal/retrieval"
	"github.com/hyodin/dollkongbot/internal/storage"
	"github.com/hyodin/dollkongbot/internal/vectorstore"
)

// DefaultBatchSize is the number of texts sent per embedding request.
const DefaultBatchSize = 32

// Options tune a Pipeline.
type Options struct {
	Collection     string
	BatchSize      int
	Timeout        time.Duration
	EmbeddingModel string
}

// Pipeline ingests spreadsheets into SQLite and the vector store.
// A document is processed fully in memory and written with a single upsert,
// so a failure leaves the previous version of the document searchable.
type Pipeline struct {
	extractor   *hierarchy.Extractor
	assembler   *Assembler
	embedder    retrieval.Embedder
	vectorStore vectorstore.VectorStore
	docRepo     storage.DocumentStore
	chunkRepo   storage.ChunkStore
	opts        Options
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	extractor *hierarchy.Extractor,
	assembler *Assembler,
	embedder retrieval.Embedder,
	vectorStore vectorstore.VectorStore,
	docRepo storage.DocumentStore,
	chunkRepo storage.ChunkStore,
	opts Options,
) *Pipeline {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = retrieval.DefaultTimeout
	}
	return &Pipeline{
		extractor:   extractor,
		assembler:   assembler,
		embedder:    embedder,
		vectorStore: vectorStore,
		docRepo:     docRepo,
		chunkRepo:   chunkRepo,
		opts:        opts,
	}
}

// Ingest reads a spreadsheet and indexes it under its base file name,
// replacing any earlier document with the same name.
func (p *Pipeline) Ingest(ctx context.Context, fileName string, r io.Reader) (*Report, error) {
	fileName = filepath.Base(fileName)
	grids, err := hierarchy.ReadDocument(fileName, r)
	if err != nil {
		if errors.Is(err, hierarchy.ErrUnsupportedFormat) {
			return nil, err
		}
		return nil, &hierarchy.DocumentParseError{Document: fileName, Reason: "unreadable file", Err: err}
	}
	return p.IngestGrids(ctx, fileName, grids)
}

// IngestGrids indexes already-read grids.
func (p *Pipeline) IngestGrids(ctx context.Context, fileName string, grids []*hierarchy.Grid) (*Report, error) {
	logger := contextutil.LoggerFromContext(ctx)
	docID := DocumentID(fileName)

	logger.InfoContext(ctx, "ingesting document", "file_name", fileName, "document_id", docID, "sheets", len(grids))

	result, err := p.extractor.Extract(ctx, fileName, grids)
	if err != nil {
		logger.ErrorContext(ctx, "failed to extract hierarchy", "file_name", fileName, "error", err)
		return nil, err
	}

	chunks := p.assembler.Assemble(docID, result.Records)
	report := &Report{
		DocumentID:      docID,
		FileName:        fileName,
		Records:         len(result.Records),
		Chunks:          len(chunks),
		SkippedNoDetail: len(result.Records) - len(chunks),
		Warnings:        result.Warnings,
		Sheets:          result.Sheets,
		SearchTextStats: searchTextStats(chunks),
		IndexVersion:    IndexVersion(p.opts.EmbeddingModel),
	}
	if report.Warnings == nil {
		report.Warnings = []hierarchy.RowWarning{}
	}

	vectors, err := p.embed(ctx, chunks)
	if err != nil {
		logger.ErrorContext(ctx, "failed to embed chunks", "file_name", fileName, "chunks", len(chunks), "error", err)
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}

	oldIDs, err := p.chunkRepo.ListIDsByDocument(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to list previous chunks: %w", err)
	}

	points := make([]vectorstore.Point, len(chunks))
	records := make([]storage.ChunkRecord, len(chunks))
	newIDs := make(map[string]bool, len(chunks))
	for i, c := range chunks {
		points[i] = c.Point(fileName, vectors[i])
		records[i] = c.Record()
		newIDs[c.ID] = true
	}

	if len(points) > 0 {
		if err := p.vectorStore.Upsert(ctx, p.opts.Collection, points); err != nil {
			return nil, fmt.Errorf("failed to upsert chunks: %w", err)
		}
	}

	doc := &storage.Document{
		ID:           docID,
		FileName:     fileName,
		FileType:     hierarchy.FileType(fileName),
		WarningCount: len(result.Warnings),
	}
	if err := p.docRepo.Replace(ctx, doc, records); err != nil {
		// Points that did not exist before would be orphans; overwritten ones stay.
		var added []string
		for _, c := range chunks {
			if !slices.Contains(oldIDs, c.ID) {
				added = append(added, c.ID)
			}
		}
		if delErr := p.vectorStore.Delete(ctx, p.opts.Collection, added); delErr != nil {
			logger.ErrorContext(ctx, "failed to remove points after storage failure", "document_id", docID, "error", delErr)
		}
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	var stale []string
	for _, id := range oldIDs {
		if !newIDs[id] {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		if err := p.vectorStore.Delete(ctx, p.opts.Collection, stale); err != nil {
			logger.ErrorContext(ctx, "failed to remove stale points", "document_id", docID, "count", len(stale), "error", err)
		} else {
			report.StaleRemoved = len(stale)
		}
	}

	logger.InfoContext(ctx, "document ingested",
		"file_name", fileName,
		"document_id", docID,
		"records", report.Records,
		"chunks", report.Chunks,
		"warnings", len(report.Warnings),
		"stale_removed", report.StaleRemoved,
	)
	return report, nil
}

// embed embeds search texts in batches, keeping chunk order.
func (p *Pipeline) embed(ctx context.Context, chunks []Chunk) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += p.opts.BatchSize {
		end := min(start+p.opts.BatchSize, len(chunks))
		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.SearchText)
		}

		batch, err := retrieval.CallWithTimeout(ctx, p.opts.Timeout, "embed", func(ctx context.Context) ([][]float32, error) {
			return p.embedder.EmbedTexts(ctx, texts)
		})
		if err != nil {
			return nil, err
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(batch))
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

// Delete removes a document from the vector store and SQLite.
// Returns storage.ErrNotFound if the document does not exist.
func (p *Pipeline) Delete(ctx context.Context, documentID string) error {
	logger := contextutil.LoggerFromContext(ctx)

	if _, err := p.docRepo.Get(ctx, documentID); err != nil {
		return err
	}
	if err := p.vectorStore.DeleteBySource(ctx, p.opts.Collection, documentID); err != nil {
		return fmt.Errorf("failed to delete document points: %w", err)
	}
	if err := p.docRepo.Delete(ctx, documentID); err != nil {
		return err
	}

	logger.InfoContext(ctx, "document deleted", "document_id", documentID)
	return nil
}
