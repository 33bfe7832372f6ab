package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks github.com/hyodin/dollkongbot/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ChunkStore defines the read side of chunk storage used by retrieval.
type ChunkStore interface {
	// ListIDsByDocument returns all chunk IDs for a document in insertion order.
	ListIDsByDocument(ctx context.Context, documentID string) ([]string, error)
	// GetByIDs returns the chunks with the given IDs keyed by ID. Unknown IDs are omitted.
	GetByIDs(ctx context.Context, ids []string) (map[string]ChunkRecord, error)
	// DistinctLvl1 lists distinct lvl1 values ordered by first insertion.
	DistinctLvl1(ctx context.Context) ([]Lvl1Entry, error)
	// DistinctLvl2 lists distinct lvl2 values under lvl1 ordered by first insertion.
	DistinctLvl2(ctx context.Context, lvl1 string) ([]string, error)
	// DistinctLvl3 lists distinct lvl3 values under (lvl1, lvl2) ordered by first insertion.
	DistinctLvl3(ctx context.Context, lvl1, lvl2 string) ([]string, error)
	// ListByPath returns the chunks matching the full path in insertion order.
	ListByPath(ctx context.Context, lvl1, lvl2, lvl3 string) ([]ChunkRecord, error)
}

// ChunkRepo provides methods for chunk operations.
// It implements the ChunkStore interface.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

const chunkColumns = `seq, id, document_id, chunk_index, sheet, cell_address, row_num, col_num,
	lvl1, lvl2, lvl3, lvl4, search_text, context_text`

func scanChunk(scanner interface{ Scan(...any) error }) (ChunkRecord, error) {
	var c ChunkRecord
	err := scanner.Scan(&c.Seq, &c.ID, &c.DocumentID, &c.ChunkIndex, &c.Sheet, &c.CellAddress, &c.Row, &c.Col,
		&c.Lvl1, &c.Lvl2, &c.Lvl3, &c.Lvl4, &c.SearchText, &c.ContextText)
	return c, err
}

// ListIDsByDocument returns all chunk IDs for a document in insertion order.
// Returns an empty slice if no chunks exist (not an error).
func (r *ChunkRepo) ListIDsByDocument(ctx context.Context, documentID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM chunks WHERE document_id = ? ORDER BY seq", documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk IDs: %w", err)
	}
	return collectStrings(rows)
}

// GetByIDs returns the chunks with the given IDs keyed by ID.
func (r *ChunkRepo) GetByIDs(ctx context.Context, ids []string) (map[string]ChunkRecord, error) {
	result := make(map[string]ChunkRecord, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+chunkColumns+" FROM chunks WHERE id IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		result[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return result, nil
}

// DistinctLvl1 lists distinct lvl1 values ordered by first insertion.
func (r *ChunkRepo) DistinctLvl1(ctx context.Context) ([]Lvl1Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT lvl1, MIN(seq) AS first_seq FROM chunks GROUP BY lvl1 ORDER BY first_seq",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query lvl1 values: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := []Lvl1Entry{}
	for rows.Next() {
		var e Lvl1Entry
		if err := rows.Scan(&e.Keyword, &e.FirstSeq); err != nil {
			return nil, fmt.Errorf("failed to scan lvl1 value: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

// DistinctLvl2 lists distinct lvl2 values under lvl1 ordered by first insertion.
func (r *ChunkRepo) DistinctLvl2(ctx context.Context, lvl1 string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT lvl2 FROM chunks WHERE lvl1 = ? GROUP BY lvl2 ORDER BY MIN(seq)",
		lvl1,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query lvl2 values: %w", err)
	}
	return collectStrings(rows)
}

// DistinctLvl3 lists distinct lvl3 values under (lvl1, lvl2) ordered by first insertion.
func (r *ChunkRepo) DistinctLvl3(ctx context.Context, lvl1, lvl2 string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT lvl3 FROM chunks WHERE lvl1 = ? AND lvl2 = ? GROUP BY lvl3 ORDER BY MIN(seq)",
		lvl1, lvl2,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query lvl3 values: %w", err)
	}
	return collectStrings(rows)
}

// ListByPath returns the chunks matching the full path in insertion order.
func (r *ChunkRepo) ListByPath(ctx context.Context, lvl1, lvl2, lvl3 string) ([]ChunkRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+chunkColumns+" FROM chunks WHERE lvl1 = ? AND lvl2 = ? AND lvl3 = ? ORDER BY seq",
		lvl1, lvl2, lvl3,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks by path: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	chunks := []ChunkRecord{}
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return chunks, nil
}

func collectStrings(rows *sql.Rows) ([]string, error) {
	defer func() {
		_ = rows.Close()
	}()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return values, nil
}
