package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/hyodin/dollkongbot/internal/contextutil"
	"github.com/hyodin/dollkongbot/internal/normalizer"
)

// NormalizerStats exposes normalizer cache counters. *normalizer.Normalizer implements it.
type NormalizerStats interface {
	Stats() normalizer.Stats
	ClearCache()
}

// QueryNormalizer runs the query normalization pipeline. *normalizer.Normalizer implements it.
type QueryNormalizer interface {
	Normalize(ctx context.Context, raw string) normalizer.NormalizedQuery
}

// Normalizer is the full normalizer surface the router needs.
type Normalizer interface {
	NormalizerStats
	QueryNormalizer
}

// NormalizerHandler reports and resets the query normalizer cache.
type NormalizerHandler struct {
	normalizer NormalizerStats
}

// NewNormalizerHandler creates a new NormalizerHandler.
func NewNormalizerHandler(n NormalizerStats) *NormalizerHandler {
	return &NormalizerHandler{normalizer: n}
}

// ServeHTTP dispatches on method:
//
//	GET    /api/normalizer/stats  cache counters
//	DELETE /api/normalizer/cache  drop cached queries, then report counters
func (h *NormalizerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	switch r.Method {
	case http.MethodGet:
	case http.MethodDelete:
		h.normalizer.ClearCache()
		logger.InfoContext(ctx, "normalizer cache cleared")
	default:
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSON(ctx, w, http.StatusOK, h.normalizer.Stats())
}

// KeywordsHandler extracts keywords from a query.
type KeywordsHandler struct {
	normalizer QueryNormalizer
}

// NewKeywordsHandler creates a new KeywordsHandler.
func NewKeywordsHandler(n QueryNormalizer) *KeywordsHandler {
	return &KeywordsHandler{normalizer: n}
}

// KeywordsRequest represents the HTTP request payload for keyword extraction.
//
// swagger:model KeywordsRequest
type KeywordsRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// KeywordsResponse represents the HTTP response payload for keyword extraction.
//
// swagger:model KeywordsResponse
type KeywordsResponse struct {
	Query        string   `json:"query"`
	Normalized   string   `json:"normalized"`
	Keywords     []string `json:"keywords"`
	KeywordCount int      `json:"keyword_count"`
	Degraded     []string `json:"degraded,omitempty"`
}

// ServeHTTP handles HTTP requests for keyword extraction.
//
// swagger:route POST /api/search/keywords search
//
// Normalizes the query and returns its tokens, most frequent first.
func (h *KeywordsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req KeywordsRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeError(w, http.StatusBadRequest, "Validation error: query cannot be empty")
		return
	}
	if req.Limit < 0 {
		writeError(w, http.StatusBadRequest, "Validation error: limit must not be negative")
		return
	}

	nq := h.normalizer.Normalize(ctx, query)
	keywords := normalizer.Keywords(nq.Normalized, req.Limit)
	if keywords == nil {
		keywords = []string{}
	}
	logger.DebugContext(ctx, "keywords extracted", "count", len(keywords))

	writeJSON(ctx, w, http.StatusOK, KeywordsResponse{
		Query:        query,
		Normalized:   nq.Normalized,
		Keywords:     keywords,
		KeywordCount: len(keywords),
		Degraded:     nq.Degraded,
	})
}
