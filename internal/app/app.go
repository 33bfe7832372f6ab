// Package app wires configuration into the stores and model clients shared
// by the API server and the ingest command.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/hyodin/dollkongbot/internal/config"
	"github.com/hyodin/dollkongbot/internal/hierarchy"
	"github.com/hyodin/dollkongbot/internal/indexer"
	"github.com/hyodin/dollkongbot/internal/llm"
	"github.com/hyodin/dollkongbot/internal/retrieval"
	"github.com/hyodin/dollkongbot/internal/service"
	"github.com/hyodin/dollkongbot/internal/storage"
	"github.com/hyodin/dollkongbot/internal/vectorstore"
)

// SetupLogging installs the default slog logger described by cfg.
func SetupLogging(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)
	return logger
}

// collectionEnsurer is implemented by both vector store backends.
type collectionEnsurer interface {
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error
}

// Components are the long-lived collaborators built from configuration.
type Components struct {
	Config      *config.Config
	Rules       *config.Rules
	DB          *sql.DB
	Documents   *storage.DocumentRepo
	Chunks      *storage.ChunkRepo
	Settings    *storage.SettingsRepo
	VectorStore vectorstore.VectorStore
	Embedder    retrieval.Embedder
	Generator   service.LLMClient

	closers []func() error
}

// Open opens the database, the vector store and the model clients.
// The caller must Close the result.
func Open(ctx context.Context, cfg *config.Config) (_ *Components, err error) {
	c := &Components{Config: cfg}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	if c.Rules, err = config.LoadRules(cfg.RulesPath); err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	c.DB = db
	c.closers = append(c.closers, db.Close)
	if err := storage.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	c.Documents = storage.NewDocumentRepo(db)
	c.Chunks = storage.NewChunkRepo(db)
	c.Settings = storage.NewSettingsRepo(db)
	slog.Info("Database initialized", "path", cfg.DBPath)

	var ensurer collectionEnsurer
	switch cfg.VectorStore {
	case "chromem":
		store, err := vectorstore.NewChromemStore(cfg.ChromemPath)
		if err != nil {
			return nil, err
		}
		c.VectorStore, ensurer = store, store
	default:
		store, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
		}
		c.closers = append(c.closers, store.Close)
		c.VectorStore, ensurer = store, store
	}
	if err := ensurer.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		return nil, fmt.Errorf("failed to ensure collection: %w", err)
	}
	slog.Info("Vector store ready", "backend", cfg.VectorStore, "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	var gemini *llm.GeminiClient
	if cfg.LLMProvider == "gemini" || cfg.EmbeddingProvider == "gemini" {
		if gemini, err = llm.NewGeminiClient(ctx, cfg.GeminiAPIKey); err != nil {
			return nil, err
		}
		c.closers = append(c.closers, gemini.Close)
	}

	if cfg.EmbeddingProvider == "gemini" {
		c.Embedder = llm.NewGeminiEmbedder(gemini, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	} else {
		c.Embedder = llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	}
	if cfg.LLMProvider == "gemini" {
		c.Generator = llm.NewGeminiGenerator(gemini, cfg.LLMModelName)
	} else {
		c.Generator = llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)
	}
	slog.Info("Model clients configured", "llm_provider", cfg.LLMProvider, "embedding_provider", cfg.EmbeddingProvider)

	return c, nil
}

// ValidateEmbedder embeds a probe text and checks the vector size.
func (c *Components) ValidateEmbedder(ctx context.Context) error {
	vecs, err := c.Embedder.EmbedTexts(ctx, []string{"연차 휴가"})
	if err != nil {
		return fmt.Errorf("failed to validate embedding client: %w", err)
	}
	if len(vecs) == 0 || len(vecs[0]) != c.Config.QdrantVectorSize {
		got := 0
		if len(vecs) > 0 {
			got = len(vecs[0])
		}
		return fmt.Errorf("embedding vector size mismatch: expected %d, got %d", c.Config.QdrantVectorSize, got)
	}
	return nil
}

// Pipeline builds the ingestion pipeline over the opened stores.
func (c *Components) Pipeline() *indexer.Pipeline {
	return indexer.NewPipeline(
		hierarchy.NewExtractor(c.Rules.SheetDetection),
		indexer.NewAssembler(c.Rules.ContextLabels),
		c.Embedder,
		c.VectorStore,
		c.Documents,
		c.Chunks,
		indexer.Options{
			Collection:     c.Config.QdrantCollection,
			BatchSize:      c.Config.EmbedBatchSize,
			Timeout:        c.Config.CollaboratorTimeout,
			EmbeddingModel: c.Config.EmbeddingModelName,
		},
	)
}

// Close releases everything Open acquired, in reverse order.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
