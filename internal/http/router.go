package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hyodin/dollkongbot/internal/handlers"
	"github.com/hyodin/dollkongbot/internal/service"
	"github.com/hyodin/dollkongbot/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService     service.ChatService
	DocumentService service.DocumentService
	FAQService      service.FAQService
	Searcher        service.Searcher
	Normalizer      handlers.Normalizer
	VectorStore     vectorstore.VectorStore
	DB              handlers.Pinger
	CollectionName  string

	SearchLimit          int
	SearchScoreThreshold float32
	MaxUploadBytes       int64
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	chatHandler := handlers.NewChatHandler(deps.ChatService)
	historyHandler := handlers.NewChatHistoryHandler(deps.ChatService)
	searchHandler := handlers.NewSearchHandler(deps.Searcher, deps.SearchLimit, deps.SearchScoreThreshold)
	documentHandler := handlers.NewDocumentHandler(deps.DocumentService, deps.MaxUploadBytes)
	navigationHandler := handlers.NewFAQNavigationHandler(deps.FAQService)
	settingsHandler := handlers.NewFAQSettingsHandler(deps.FAQService)
	orderHandler := handlers.NewFAQOrderHandler(deps.FAQService)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.DB, deps.CollectionName)
	normalizerHandler := handlers.NewNormalizerHandler(deps.Normalizer)
	keywordsHandler := handlers.NewKeywordsHandler(deps.Normalizer)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)
		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Method(http.MethodPost, "/chat/history", historyHandler)
		r.Method(http.MethodPost, "/search", searchHandler)
		r.Method(http.MethodPost, "/search/keywords", keywordsHandler)

		r.Method(http.MethodGet, "/documents", documentHandler)
		r.Method(http.MethodPost, "/documents", documentHandler)
		r.Method(http.MethodDelete, "/documents/{id}", documentHandler)

		r.Method(http.MethodPost, "/faq/sessions", navigationHandler)
		r.Method(http.MethodPost, "/faq/sessions/{id}", navigationHandler)
		r.Method(http.MethodDelete, "/faq/sessions/{id}", navigationHandler)

		r.Method(http.MethodGet, "/admin/faq/settings", settingsHandler)
		r.Method(http.MethodPut, "/admin/faq/settings/{keyword}", settingsHandler)
		r.Method(http.MethodPut, "/admin/faq/order", orderHandler)

		r.Method(http.MethodGet, "/normalizer/stats", normalizerHandler)
		r.Method(http.MethodDelete, "/normalizer/cache", normalizerHandler)
	})

	return r
}
