package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hyodin/dollkongbot/internal/contextutil"
	"github.com/hyodin/dollkongbot/internal/service"
)

// FAQNavigationHandler handles menu-style FAQ navigation sessions.
type FAQNavigationHandler struct {
	faqService service.FAQService
}

// NewFAQNavigationHandler creates a new FAQNavigationHandler.
func NewFAQNavigationHandler(faqService service.FAQService) *FAQNavigationHandler {
	return &FAQNavigationHandler{faqService: faqService}
}

// NavigateRequest moves a session. Value is required for "select".
//
// swagger:model NavigateRequest
type NavigateRequest struct {
	Action string `json:"action"`
	Value  string `json:"value,omitempty"`
}

// NavigationResponse is the listing at the session's current position.
//
// swagger:model NavigationResponse
type NavigationResponse struct {
	SessionID string   `json:"session_id"`
	State     string   `json:"state"`
	Path      []string `json:"path"`
	Options   []string `json:"options"`
	// Answer is set once a lvl3 item is selected.
	Answer  string           `json:"answer,omitempty"`
	Sources []SourceResponse `json:"sources,omitempty"`
	// Empty suggests falling back to free-text chat.
	Empty bool `json:"empty"`
}

// ServeHTTP dispatches on method:
//
//	POST   /api/faq/sessions       start a session at the root
//	POST   /api/faq/sessions/{id}  apply a NavigateRequest
//	DELETE /api/faq/sessions/{id}  end a session
func (h *FAQNavigationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	switch {
	case r.Method == http.MethodPost && id == "":
		view, err := h.faqService.StartNavigation(ctx)
		if err != nil {
			handleServiceError(ctx, w, err, "Failed to start navigation")
			return
		}
		writeJSON(ctx, w, http.StatusCreated, toNavigationResponse(view))

	case r.Method == http.MethodPost:
		var req NavigateRequest
		if err := decodeJSON(r, &req); err != nil {
			logger.WarnContext(ctx, "invalid request body", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		view, err := h.faqService.Navigate(ctx, id, req.Action, req.Value)
		if err != nil {
			handleServiceError(ctx, w, err, "Failed to navigate")
			return
		}
		writeJSON(ctx, w, http.StatusOK, toNavigationResponse(view))

	case r.Method == http.MethodDelete && id != "":
		if err := h.faqService.EndNavigation(ctx, id); err != nil {
			handleServiceError(ctx, w, err, "Failed to end navigation")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func toNavigationResponse(view service.NavigationView) NavigationResponse {
	l := view.Listing
	resp := NavigationResponse{
		SessionID: view.SessionID,
		State:     l.State.String(),
		Path:      l.Path,
		Options:   l.Options,
		Answer:    l.Answer(),
		Empty:     l.Empty(),
	}
	if resp.Path == nil {
		resp.Path = []string{}
	}
	if resp.Options == nil {
		resp.Options = []string{}
	}
	for _, c := range l.Chunks {
		resp.Sources = append(resp.Sources, SourceResponse{
			ChunkID:     c.ID,
			DocumentID:  c.DocumentID,
			Sheet:       c.Sheet,
			CellAddress: c.CellAddress,
			Lvl1:        c.Lvl1,
			Lvl2:        c.Lvl2,
			Lvl3:        c.Lvl3,
			Lvl4:        c.Lvl4,
		})
	}
	return resp
}
