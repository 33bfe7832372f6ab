package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks github.com/hyodin/dollkongbot/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DocumentStore defines the interface for document storage operations.
type DocumentStore interface {
	// Replace stores doc and its chunks in one transaction, removing any chunks
	// a previous version of the document had.
	Replace(ctx context.Context, doc *Document, chunks []ChunkRecord) error
	// Get returns a document by ID. Returns ErrNotFound if not found.
	Get(ctx context.Context, id string) (*Document, error)
	// List returns all documents, most recently uploaded first.
	List(ctx context.Context) ([]Document, error)
	// Delete removes a document and its chunks. Returns ErrNotFound if not found.
	Delete(ctx context.Context, id string) error
}

// DocumentRepo implements DocumentStore on SQLite.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Replace stores doc and its chunks atomically. Chunks are inserted in slice
// order, which becomes their insertion order for ranking and navigation.
func (r *DocumentRepo) Replace(ctx context.Context, doc *Document, chunks []ChunkRecord) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Cascade removes the old chunks.
	if _, err = tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ? OR file_name = ?", doc.ID, doc.FileName); err != nil {
		return fmt.Errorf("failed to delete previous document: %w", err)
	}

	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}
	doc.ChunkCount = len(chunks)
	if _, err = tx.ExecContext(ctx,
		"INSERT INTO documents (id, file_name, file_type, chunk_count, warning_count, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)",
		doc.ID, doc.FileName, doc.FileType, doc.ChunkCount, doc.WarningCount, doc.UploadedAt,
	); err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO chunks
		(id, document_id, chunk_index, sheet, cell_address, row_num, col_num, lvl1, lvl2, lvl3, lvl4, search_text, context_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i := range chunks {
		c := &chunks[i]
		res, execErr := stmt.ExecContext(ctx,
			c.ID, doc.ID, c.ChunkIndex, c.Sheet, c.CellAddress, c.Row, c.Col,
			c.Lvl1, c.Lvl2, c.Lvl3, c.Lvl4, c.SearchText, c.ContextText,
		)
		if execErr != nil {
			err = fmt.Errorf("failed to insert chunk %d: %w", c.ChunkIndex, execErr)
			return err
		}
		if seq, seqErr := res.LastInsertId(); seqErr == nil {
			c.Seq = seq
		}
		c.DocumentID = doc.ID
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit document: %w", err)
	}
	return nil
}

// Get returns a document by ID. Returns ErrNotFound if not found.
func (r *DocumentRepo) Get(ctx context.Context, id string) (*Document, error) {
	var doc Document
	err := r.db.QueryRowContext(ctx,
		"SELECT id, file_name, file_type, chunk_count, warning_count, uploaded_at FROM documents WHERE id = ?",
		id,
	).Scan(&doc.ID, &doc.FileName, &doc.FileType, &doc.ChunkCount, &doc.WarningCount, &doc.UploadedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return &doc, nil
}

// List returns all documents, most recently uploaded first.
func (r *DocumentRepo) List(ctx context.Context) ([]Document, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, file_name, file_type, chunk_count, warning_count, uploaded_at FROM documents ORDER BY uploaded_at DESC, file_name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	docs := []Document{}
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.FileName, &doc.FileType, &doc.ChunkCount, &doc.WarningCount, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return docs, nil
}

// Delete removes a document and, through the foreign key cascade, its chunks.
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
