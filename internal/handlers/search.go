package handlers

import (
	"errors"
	"net/http"

	"github.com/hyodin/dollkongbot/internal/contextutil"
	"github.com/hyodin/dollkongbot/internal/retrieval"
	"github.com/hyodin/dollkongbot/internal/service"
)

// SearchHandler handles HTTP requests for similarity search.
type SearchHandler struct {
	searcher         service.Searcher
	defaultLimit     int
	defaultThreshold float32
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searcher service.Searcher, defaultLimit int, defaultThreshold float32) *SearchHandler {
	if defaultLimit <= 0 {
		defaultLimit = retrieval.DefaultLimit
	}
	return &SearchHandler{
		searcher:         searcher,
		defaultLimit:     defaultLimit,
		defaultThreshold: defaultThreshold,
	}
}

// SearchRequest represents the HTTP request payload for search.
//
// swagger:model SearchRequest
type SearchRequest struct {
	Query          string   `json:"query"`
	Limit          int      `json:"limit,omitempty"`
	ScoreThreshold *float32 `json:"score_threshold,omitempty"`
}

// SearchResponse represents the HTTP response payload for search.
//
// swagger:model SearchResponse
type SearchResponse struct {
	Query           string           `json:"query"`
	NormalizedQuery string           `json:"normalized_query"`
	Degraded        []string         `json:"degraded,omitempty"`
	Results         []SourceResponse `json:"results"`
}

// ServeHTTP handles HTTP requests for search.
//
// swagger:route POST /api/search search
//
// Returns chunks scoring at or above the threshold, best first.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SearchRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	limit := req.Limit
	if limit == 0 {
		limit = h.defaultLimit
	}
	threshold := h.defaultThreshold
	if req.ScoreThreshold != nil {
		threshold = *req.ScoreThreshold
	}

	result, err := h.searcher.Search(ctx, req.Query, limit, threshold)
	switch {
	case err == nil:
	case errors.Is(err, retrieval.ErrInvalidArgument):
		logger.WarnContext(ctx, "search rejected", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case ctx.Err() != nil:
		logger.InfoContext(ctx, "search cancelled by client")
		return
	default:
		logger.ErrorContext(ctx, "search failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, service.RetryMessage)
		return
	}

	resp := SearchResponse{
		Query:           result.Query.Original,
		NormalizedQuery: result.Query.Normalized,
		Degraded:        result.Query.Degraded,
		Results:         make([]SourceResponse, len(result.Chunks)),
	}
	for i, c := range result.Chunks {
		resp.Results[i] = SourceResponse{
			ChunkID:     c.ID,
			DocumentID:  c.DocumentID,
			Sheet:       c.Sheet,
			CellAddress: c.CellAddress,
			Lvl1:        c.Lvl1,
			Lvl2:        c.Lvl2,
			Lvl3:        c.Lvl3,
			Lvl4:        c.Lvl4,
			Score:       c.Score,
		}
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}
