package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hyodin/dollkongbot/internal/app"
	"github.com/hyodin/dollkongbot/internal/config"
	"github.com/hyodin/dollkongbot/internal/http"
	"github.com/hyodin/dollkongbot/internal/normalizer"
	"github.com/hyodin/dollkongbot/internal/quality"
	"github.com/hyodin/dollkongbot/internal/retrieval"
	"github.com/hyodin/dollkongbot/internal/service"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API answers employee questions from hierarchical FAQ spreadsheets,
// either by free-text chat or by menu-style navigation of the hierarchy.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: Dollkongbot FAQ API
//   description: |
//     Upload FAQ spreadsheets, ask questions against them, and browse their
//     category hierarchy. Admin endpoints control which top-level categories
//     are shown and in what order.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
// produces:
//   - application/json

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	app.SetupLogging(cfg)

	ctx := context.Background()
	components, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer func() {
		_ = components.Close()
	}()

	// Fail fast on a misconfigured embedding model.
	if err := components.ValidateEmbedder(ctx); err != nil {
		log.Fatalf("%v", err)
	}
	slog.Info("Embedding client validated", "vector_size", cfg.QdrantVectorSize)

	var analyzer normalizer.Analyzer
	if cfg.AnalyzerURL != "" {
		analyzer = normalizer.NewAnalyzerClient(cfg.AnalyzerURL, cfg.CollaboratorTimeout)
		slog.Info("Morphological analyzer configured", "url", cfg.AnalyzerURL)
	}
	norm, err := normalizer.New(components.Rules, analyzer, cfg.NormalizerCacheSize)
	if err != nil {
		log.Fatalf("Failed to create query normalizer: %v", err)
	}

	gate, err := quality.NewGate(components.Rules.Quality, cfg.ConfidenceThreshold)
	if err != nil {
		log.Fatalf("Failed to create quality gate: %v", err)
	}

	searcher := retrieval.NewSearcher(
		norm,
		components.Embedder,
		components.VectorStore,
		components.Chunks,
		cfg.QdrantCollection,
		cfg.CollaboratorTimeout,
	)

	chatService := service.NewChatService(searcher, components.Generator, gate, service.ChatOptions{
		DefaultScoreThreshold: cfg.SearchScoreThreshold,
		Timeout:               cfg.CollaboratorTimeout,
	})
	documentService := service.NewDocumentService(components.Pipeline(), components.Documents)
	faqService := service.NewFAQService(
		components.Chunks,
		components.Settings,
		retrieval.NewSessions(cfg.NavSessionMax, cfg.NavSessionTTL),
	)

	router := http.NewRouter(&http.Deps{
		ChatService:          chatService,
		DocumentService:      documentService,
		FAQService:           faqService,
		Searcher:             searcher,
		Normalizer:           norm,
		VectorStore:          components.VectorStore,
		DB:                   components.DB,
		CollectionName:       cfg.QdrantCollection,
		SearchLimit:          cfg.SearchLimit,
		SearchScoreThreshold: cfg.SearchScoreThreshold,
		MaxUploadBytes:       cfg.MaxUploadBytes,
	})

	addr := ":" + cfg.APIPort
	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting API server", "addr", addr)
		slog.Debug("LLM configuration", "provider", cfg.LLMProvider, "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("API server failed to start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
