package vectorstore

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"

	"github.com/hyodin/dollkongbot/internal/contextutil"
)

// ChromemStore implements VectorStore with an embedded chromem-go database.
// It backs the local mode where no Qdrant server is available.
type ChromemStore struct {
	db *chromem.DB
}

// NewChromemStore opens a persistent store at path, or an in-memory store when path is empty.
func NewChromemStore(path string) (*ChromemStore, error) {
	if path == "" {
		return &ChromemStore{db: chromem.NewDB()}, nil
	}
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open chromem database: %w", err)
	}
	return &ChromemStore{db: db}, nil
}

// collection returns the named collection, creating it on first use.
// Vectors are always supplied by the caller, so no embedding func is configured.
func (s *ChromemStore) collection(name string) (*chromem.Collection, error) {
	c, err := s.db.GetOrCreateCollection(name, map[string]string{"hnsw:space": "cosine"}, noEmbedding)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %q: %w", name, err)
	}
	return c, nil
}

func noEmbedding(_ context.Context, _ string) ([]float32, error) {
	return nil, fmt.Errorf("chromem store requires precomputed embeddings")
}

// Upsert adds the points; existing IDs are overwritten.
func (s *ChromemStore) Upsert(ctx context.Context, collection string, points []Point) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(points) == 0 {
		return nil
	}
	c, err := s.collection(collection)
	if err != nil {
		return err
	}

	docs := make([]chromem.Document, 0, len(points))
	for _, p := range points {
		if len(p.Vec) == 0 {
			return fmt.Errorf("point %s has no vector", p.ID)
		}
		meta := make(map[string]string, len(p.Meta))
		for k, v := range p.Meta {
			meta[k] = toString(v)
		}
		docs = append(docs, chromem.Document{
			ID:        p.ID,
			Metadata:  meta,
			Embedding: p.Vec,
			Content:   meta[PayloadSearchText],
		})
	}

	if err := c.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		logger.ErrorContext(ctx, "failed to upsert points", "collection", collection, "count", len(points), "error", err)
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	logger.InfoContext(ctx, "upserted points", "collection", collection, "count", len(points))
	return nil
}

// Search queries the collection. chromem has no server-side threshold, so it is applied here.
func (s *ChromemStore) Search(ctx context.Context, collection string, query []float32, k int, opts SearchOptions) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}
	c, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	// chromem rejects nResults above the document count.
	n := k
	if count := c.Count(); count < n {
		n = count
	}
	if n == 0 {
		return []SearchResult{}, nil
	}

	var where map[string]string
	if len(opts.Filters) > 0 {
		where = make(map[string]string, len(opts.Filters))
		for key, v := range opts.Filters {
			where[key] = toString(v)
		}
	}

	found, err := c.QueryEmbedding(ctx, query, n, where, nil)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search points", "collection", collection, "k", k, "error", err)
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	results := make([]SearchResult, 0, len(found))
	for _, r := range found {
		if opts.ScoreThreshold != nil && r.Similarity < *opts.ScoreThreshold {
			continue
		}
		meta := make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			meta[k] = v
		}
		results = append(results, SearchResult{PointID: r.ID, Score: r.Similarity, Meta: meta})
	}

	logger.DebugContext(ctx, "search completed", "collection", collection, "k", k, "results", len(results))
	return results, nil
}

// Delete removes points by their IDs.
func (s *ChromemStore) Delete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	c, err := s.collection(collection)
	if err != nil {
		return err
	}
	if err := c.Delete(ctx, nil, nil, ids...); err != nil {
		return fmt.Errorf("failed to delete points: %w", err)
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "deleted points", "collection", collection, "count", len(ids))
	return nil
}

// DeleteBySource removes every point of one source document.
func (s *ChromemStore) DeleteBySource(ctx context.Context, collection string, sourceDocID string) error {
	c, err := s.collection(collection)
	if err != nil {
		return err
	}
	if err := c.Delete(ctx, map[string]string{PayloadSourceDocID: sourceDocID}, nil); err != nil {
		return fmt.Errorf("failed to delete document points: %w", err)
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "deleted document points", "collection", collection, "source_doc_id", sourceDocID)
	return nil
}

// EnsureCollection creates the collection if it does not exist. chromem takes
// the dimension from the first document, so vectorSize is not checked.
func (s *ChromemStore) EnsureCollection(_ context.Context, collection string, _ int) error {
	_, err := s.collection(collection)
	return err
}

// CollectionExists reports whether the collection has been created.
func (s *ChromemStore) CollectionExists(_ context.Context, collection string) (bool, error) {
	return s.db.GetCollection(collection, noEmbedding) != nil, nil
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
