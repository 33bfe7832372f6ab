package retrieval

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/hyodin/dollkongbot/internal/contextutil"
	"github.com/hyodin/dollkongbot/internal/normalizer"
	"github.com/hyodin/dollkongbot/internal/storage"
	"github.com/hyodin/dollkongbot/internal/vectorstore"
)

// Search defaults and bounds.
const (
	DefaultLimit          = 5
	MaxLimit              = 10
	DefaultScoreThreshold = 0.3
)

// ErrInvalidArgument is returned for out-of-range search parameters.
var ErrInvalidArgument = errors.New("invalid search argument")

// QueryNormalizer is the query preparation step applied before embedding.
type QueryNormalizer interface {
	Normalize(ctx context.Context, raw string) normalizer.NormalizedQuery
}

// RankedChunk is a stored chunk with its similarity to the query.
type RankedChunk struct {
	storage.ChunkRecord
	Score float32
}

// SearchResult is the outcome of one similarity search.
type SearchResult struct {
	Query  normalizer.NormalizedQuery
	Chunks []RankedChunk
}

// Searcher runs similarity search over indexed chunks.
type Searcher struct {
	normalizer  QueryNormalizer
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	chunkRepo   storage.ChunkStore
	collection  string
	timeout     time.Duration
}

// NewSearcher creates a new Searcher.
func NewSearcher(
	norm QueryNormalizer,
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	chunkRepo storage.ChunkStore,
	collection string,
	timeout time.Duration,
) *Searcher {
	return &Searcher{
		normalizer:  norm,
		embedder:    embedder,
		vectorStore: vectorStore,
		chunkRepo:   chunkRepo,
		collection:  collection,
		timeout:     timeout,
	}
}

// Search normalizes query and returns at most limit chunks scoring at least
// scoreThreshold, best first. Equal scores keep insertion order.
func (s *Searcher) Search(ctx context.Context, query string, limit int, scoreThreshold float32) (*SearchResult, error) {
	nq := s.normalizer.Normalize(ctx, query)
	chunks, err := s.SearchNormalized(ctx, nq.Normalized, limit, scoreThreshold)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Query: nq, Chunks: chunks}, nil
}

// SearchNormalized searches with an already normalized query.
func (s *Searcher) SearchNormalized(ctx context.Context, normalized string, limit int, scoreThreshold float32) ([]RankedChunk, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if limit <= 0 || limit > MaxLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d, got %d", ErrInvalidArgument, MaxLimit, limit)
	}
	if scoreThreshold < 0 || scoreThreshold > 1 {
		return nil, fmt.Errorf("%w: score threshold must be between 0 and 1, got %v", ErrInvalidArgument, scoreThreshold)
	}
	if normalized == "" {
		return []RankedChunk{}, nil
	}

	vectors, err := CallWithTimeout(ctx, s.timeout, "embed query", func(ctx context.Context) ([][]float32, error) {
		return s.embedder.EmbedTexts(ctx, []string{normalized})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("failed to embed query: expected 1 vector, got %d", len(vectors))
	}

	hits, err := CallWithTimeout(ctx, s.timeout, "vector search", func(ctx context.Context) ([]vectorstore.SearchResult, error) {
		return s.vectorStore.Search(ctx, s.collection, vectors[0], limit, vectorstore.SearchOptions{
			ScoreThreshold: vectorstore.Threshold(scoreThreshold),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search vector store: %w", err)
	}

	scores := make(map[string]float32, len(hits))
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		// Stores apply the threshold themselves; checked again so the bound holds for any backend.
		if h.Score < scoreThreshold {
			continue
		}
		if _, dup := scores[h.PointID]; dup {
			continue
		}
		scores[h.PointID] = h.Score
		ids = append(ids, h.PointID)
	}
	if len(ids) == 0 {
		logger.DebugContext(ctx, "no chunks above threshold", "query", normalized, "threshold", scoreThreshold)
		return []RankedChunk{}, nil
	}

	records, err := s.chunkRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}

	ranked := make([]RankedChunk, 0, len(ids))
	for _, id := range ids {
		rec, ok := records[id]
		if !ok {
			// Vector point without a chunk row, e.g. left over from an interrupted ingest.
			logger.WarnContext(ctx, "skipping vector hit without stored chunk", "point_id", id)
			continue
		}
		ranked = append(ranked, RankedChunk{ChunkRecord: rec, Score: scores[id]})
	}

	slices.SortStableFunc(ranked, func(a, b RankedChunk) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Seq, b.Seq)
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	logger.DebugContext(ctx, "search completed", "query", normalized, "hits", len(hits), "returned", len(ranked))
	return ranked, nil
}

// Scores returns the similarity scores of chunks in order.
func Scores(chunks []RankedChunk) []float32 {
	scores := make([]float32, len(chunks))
	for i, c := range chunks {
		scores[i] = c.Score
	}
	return scores
}
