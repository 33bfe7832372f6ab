package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"github.com/hyodin/dollkongbot/internal/contextutil"
)

// defaultGRPCPort is used when the configured URL carries no port.
const defaultGRPCPort = 6334

// QdrantStore implements VectorStore on a Qdrant server over gRPC.
// Point IDs must be UUIDs.
type QdrantStore struct {
	client *qdrant.Client
}

// grpcConfig maps the REST URL users configure (http://host:6333) to the gRPC
// endpoint, which listens on the next port.
func grpcConfig(rawURL string) (*qdrant.Config, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}
	cfg := &qdrant.Config{Host: u.Hostname(), Port: defaultGRPCPort}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if p, err := strconv.Atoi(u.Port()); err == nil {
		cfg.Port = p + 1
	}
	return cfg, nil
}

// NewQdrantStore connects to the Qdrant server at rawURL, e.g. "http://localhost:6333".
func NewQdrantStore(rawURL string) (*QdrantStore, error) {
	cfg, err := grpcConfig(rawURL)
	if err != nil {
		return nil, err
	}
	client, err := qdrant.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}
	return &QdrantStore{client: client}, nil
}

// Close releases the gRPC connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}

// Upsert writes points and waits until they are searchable.
func (s *QdrantStore) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	logger := contextutil.LoggerFromContext(ctx)

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(true),
		Points:         toQdrantPoints(points),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to upsert points", "collection", collection, "count", len(points), "error", err)
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	logger.DebugContext(ctx, "upserted points", "collection", collection, "count", len(points))
	return nil
}

// Search returns the k nearest points by cosine similarity. Qdrant applies
// the score threshold and payload filters server-side.
func (s *QdrantStore) Search(ctx context.Context, collection string, query []float32, k int, opts SearchOptions) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}
	logger := contextutil.LoggerFromContext(ctx)

	scored, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
		ScoreThreshold: opts.ScoreThreshold,
		Filter:         matchFilter(opts.Filters),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to query points", "collection", collection, "k", k, "error", err)
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	results := make([]SearchResult, len(scored))
	for i, p := range scored {
		results[i] = SearchResult{
			PointID: p.GetId().GetUuid(),
			Score:   p.GetScore(),
			Meta:    payloadMap(p.GetPayload()),
		}
	}
	logger.DebugContext(ctx, "query completed", "collection", collection, "k", k, "results", len(results))
	return results, nil
}

// Delete removes points by ID.
func (s *QdrantStore) Delete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = qdrant.NewID(id)
	}
	return s.delete(ctx, collection, qdrant.NewPointsSelector(pointIDs...), "count", len(ids))
}

// DeleteBySource removes every point whose source_doc_id payload is sourceDocID.
func (s *QdrantStore) DeleteBySource(ctx context.Context, collection string, sourceDocID string) error {
	selector := qdrant.NewPointsSelectorFilter(matchFilter(map[string]any{PayloadSourceDocID: sourceDocID}))
	return s.delete(ctx, collection, selector, "source_doc_id", sourceDocID)
}

func (s *QdrantStore) delete(ctx context.Context, collection string, selector *qdrant.PointsSelector, logArgs ...any) error {
	logger := contextutil.LoggerFromContext(ctx).With(append([]any{"collection", collection}, logArgs...)...)

	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(true),
		Points:         selector,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to delete points", "error", err)
		return fmt.Errorf("failed to delete points: %w", err)
	}
	logger.InfoContext(ctx, "deleted points")
	return nil
}

// CollectionExists checks if a collection exists.
func (s *QdrantStore) CollectionExists(ctx context.Context, collection string) (bool, error) {
	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil {
		return false, fmt.Errorf("failed to check collection existence: %w", err)
	}
	return exists, nil
}

// EnsureCollection creates a cosine collection of vectorSize with a keyword
// index on source_doc_id, or checks that an existing one has the same size.
func (s *QdrantStore) EnsureCollection(ctx context.Context, collection string, vectorSize int) error {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := s.CollectionExists(ctx, collection)
	if err != nil {
		return err
	}
	if exists {
		got, err := s.vectorSize(ctx, collection)
		if err != nil {
			return err
		}
		if got != vectorSize {
			return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, got)
		}
		logger.DebugContext(ctx, "collection validated", "collection", collection, "vector_size", vectorSize)
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(vectorSize),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	_, err = s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: collection,
		FieldName:      PayloadSourceDocID,
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
	})
	if err != nil {
		return fmt.Errorf("failed to create payload index: %w", err)
	}
	logger.InfoContext(ctx, "collection created", "collection", collection, "vector_size", vectorSize)
	return nil
}

// vectorSize reads the configured dimension of an unnamed-vector collection.
func (s *QdrantStore) vectorSize(ctx context.Context, collection string) (int, error) {
	info, err := s.client.GetCollectionInfo(ctx, collection)
	if err != nil {
		return 0, fmt.Errorf("failed to get collection info: %w", err)
	}
	size := info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()
	if size == 0 {
		return 0, fmt.Errorf("could not determine vector size of collection %q", collection)
	}
	return int(size), nil
}

func toQdrantPoints(points []Point) []*qdrant.PointStruct {
	out := make([]*qdrant.PointStruct, len(points))
	for i, p := range points {
		out[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(p.ID),
			Vectors: qdrant.NewVectors(p.Vec...),
		}
		if len(p.Meta) > 0 {
			out[i].Payload = qdrant.NewValueMap(p.Meta)
		}
	}
	return out
}

// matchFilter turns exact-match payload filters into must-conditions.
func matchFilter(filters map[string]any) *qdrant.Filter {
	if len(filters) == 0 {
		return nil
	}
	must := make([]*qdrant.Condition, 0, len(filters))
	for key, value := range filters {
		switch v := value.(type) {
		case int:
			must = append(must, qdrant.NewMatchInt(key, int64(v)))
		case int64:
			must = append(must, qdrant.NewMatchInt(key, v))
		case bool:
			must = append(must, qdrant.NewMatchBool(key, v))
		default:
			must = append(must, qdrant.NewMatch(key, toString(v)))
		}
	}
	return &qdrant.Filter{Must: must}
}

// payloadMap converts a Qdrant payload to plain Go values.
func payloadMap(payload map[string]*qdrant.Value) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		if v != nil {
			out[k] = payloadValue(v)
		}
	}
	return out
}

func payloadValue(v *qdrant.Value) any {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_ListValue:
		items := kind.ListValue.GetValues()
		list := make([]any, len(items))
		for i, item := range items {
			list[i] = payloadValue(item)
		}
		return list
	case *qdrant.Value_StructValue:
		return payloadMap(kind.StructValue.GetFields())
	default:
		return nil
	}
}
