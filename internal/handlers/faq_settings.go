package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hyodin/dollkongbot/internal/contextutil"
	"github.com/hyodin/dollkongbot/internal/service"
)

// FAQSettingsHandler handles the admin visibility overlay for lvl1 keywords.
type FAQSettingsHandler struct {
	faqService service.FAQService
}

// NewFAQSettingsHandler creates a new FAQSettingsHandler.
func NewFAQSettingsHandler(faqService service.FAQService) *FAQSettingsHandler {
	return &FAQSettingsHandler{faqService: faqService}
}

// FAQSettingResponse is the effective setting of one keyword.
//
// swagger:model FAQSettingResponse
type FAQSettingResponse struct {
	Keyword   string  `json:"keyword"`
	Visible   bool    `json:"visible"`
	Order     *int    `json:"order"`
	UpdatedAt *string `json:"updated_at,omitempty"`
}

// FAQSettingsResponse lists every keyword in display order.
//
// swagger:model FAQSettingsResponse
type FAQSettingsResponse struct {
	Settings []FAQSettingResponse `json:"settings"`
}

// FAQSettingRequest updates one keyword. Omitted fields are unchanged;
// clear_order removes an explicit order.
//
// swagger:model FAQSettingRequest
type FAQSettingRequest struct {
	Visible    *bool `json:"visible,omitempty"`
	Order      *int  `json:"order,omitempty"`
	ClearOrder bool  `json:"clear_order,omitempty"`
}

// FAQOrderRequest sets the display order to the list position.
//
// swagger:model FAQOrderRequest
type FAQOrderRequest struct {
	Keywords []string `json:"keywords"`
}

// ServeHTTP dispatches on method:
//
//	GET /api/admin/faq/settings            list
//	PUT /api/admin/faq/settings/{keyword}  update one keyword
func (h *FAQSettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	keyword := strings.TrimSpace(chi.URLParam(r, "keyword"))

	switch {
	case r.Method == http.MethodGet && keyword == "":
		h.list(w, r)
	case r.Method == http.MethodPut && keyword != "":
		h.update(w, r, keyword)
	default:
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *FAQSettingsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	views, err := h.faqService.ListSettings(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list faq settings")
		return
	}

	resp := FAQSettingsResponse{Settings: make([]FAQSettingResponse, len(views))}
	for i, v := range views {
		resp.Settings[i] = toSettingResponse(v)
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

func (h *FAQSettingsHandler) update(w http.ResponseWriter, r *http.Request, keyword string) {
	ctx := r.Context()

	var req FAQSettingRequest
	if err := decodeJSON(r, &req); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.faqService.UpdateSetting(ctx, keyword, service.FAQSettingUpdate{
		Visible:    req.Visible,
		Order:      req.Order,
		ClearOrder: req.ClearOrder,
	})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to update faq setting")
		return
	}
	writeJSON(ctx, w, http.StatusOK, toSettingResponse(view))
}

// FAQOrderHandler handles bulk reordering of lvl1 keywords.
type FAQOrderHandler struct {
	faqService service.FAQService
}

// NewFAQOrderHandler creates a new FAQOrderHandler.
func NewFAQOrderHandler(faqService service.FAQService) *FAQOrderHandler {
	return &FAQOrderHandler{faqService: faqService}
}

// ServeHTTP handles PUT /api/admin/faq/order.
func (h *FAQOrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPut {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req FAQOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.faqService.Reorder(ctx, req.Keywords); err != nil {
		handleServiceError(ctx, w, err, "Failed to reorder faq keywords")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toSettingResponse(v service.FAQSettingView) FAQSettingResponse {
	resp := FAQSettingResponse{Keyword: v.Keyword, Visible: v.Visible, Order: v.Order}
	if v.UpdatedAt != nil {
		ts := v.UpdatedAt.UTC().Format(time.RFC3339)
		resp.UpdatedAt = &ts
	}
	return resp
}
