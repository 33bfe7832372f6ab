package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks github.com/hyodin/dollkongbot/internal/vectorstore VectorStore

import "context"

// Payload keys written with every chunk point.
const (
	PayloadSourceDocID = "source_doc_id"
	PayloadFileName    = "file_name"
	PayloadSheet       = "sheet"
	PayloadCellAddress = "cell_address"
	PayloadRow         = "row"
	PayloadCol         = "col"
	PayloadChunkIndex  = "chunk_index"
	PayloadLvl1        = "lvl1"
	PayloadLvl2        = "lvl2"
	PayloadLvl3        = "lvl3"
	PayloadLvl4        = "lvl4"
	PayloadSearchText  = "search_text"
	PayloadContextText = "context_text"
)

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// SearchOptions narrows a similarity search.
type SearchOptions struct {
	// ScoreThreshold drops results scoring below it when set.
	ScoreThreshold *float32
	// Filters are exact-match payload conditions.
	Filters map[string]any
}

// VectorStore defines the interface for vector storage operations.
// Similarity is cosine: higher scores are more similar.
type VectorStore interface {
	// Upsert inserts or updates points in the collection in a single call.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search returns up to k nearest points ordered by descending score.
	Search(ctx context.Context, collection string, query []float32, k int, opts SearchOptions) ([]SearchResult, error)

	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []string) error

	// DeleteBySource removes every point whose source_doc_id payload equals sourceDocID.
	DeleteBySource(ctx context.Context, collection string, sourceDocID string) error

	// CollectionExists reports whether the collection is present.
	CollectionExists(ctx context.Context, collection string) (bool, error)
}

// Threshold returns a pointer to v for SearchOptions.ScoreThreshold.
func Threshold(v float32) *float32 {
	return &v
}

// MetaString reads a payload value as a string.
func MetaString(meta map[string]any, key string) string {
	switch v := meta[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return toString(v)
	}
}
