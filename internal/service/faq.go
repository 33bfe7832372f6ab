package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_faq_service.go -package=mocks -mock_names=FAQService=MockFAQService github.com/hyodin/dollkongbot/internal/service FAQService

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyodin/dollkongbot/internal/contextutil"
	"github.com/hyodin/dollkongbot/internal/retrieval"
	"github.com/hyodin/dollkongbot/internal/storage"
)

// Navigation actions accepted by Navigate.
const (
	ActionSelect = "select"
	ActionBack   = "back"
	ActionReset  = "reset"
)

// NavigationView is one step of an FAQ navigation session.
type NavigationView struct {
	SessionID string
	Listing   retrieval.Listing
}

// FAQSettingView is the effective visibility setting of one lvl1 keyword.
type FAQSettingView struct {
	Keyword   string
	Visible   bool
	Order     *int
	UpdatedAt *time.Time
}

// FAQSettingUpdate changes one keyword's setting. Nil fields keep their value.
type FAQSettingUpdate struct {
	Visible    *bool
	Order      *int
	ClearOrder bool
}

// FAQService drives menu-style FAQ navigation and its admin overlay.
type FAQService interface {
	// StartNavigation opens a session positioned at the root listing.
	StartNavigation(ctx context.Context) (NavigationView, error)
	// Navigate applies an action to a session. value is only used by ActionSelect.
	Navigate(ctx context.Context, sessionID, action, value string) (NavigationView, error)
	// EndNavigation closes a session.
	EndNavigation(ctx context.Context, sessionID string) error

	// ListSettings returns the effective setting of every lvl1 keyword in display order.
	ListSettings(ctx context.Context) ([]FAQSettingView, error)
	// UpdateSetting changes one keyword's setting and returns the stored result.
	UpdateSetting(ctx context.Context, keyword string, update FAQSettingUpdate) (FAQSettingView, error)
	// Reorder sets the display order to the position of each keyword in keywords.
	Reorder(ctx context.Context, keywords []string) error
}

// faqService implements FAQService.
type faqService struct {
	chunkRepo    storage.ChunkStore
	settingsRepo storage.SettingsStore
	sessions     *retrieval.Sessions
}

// NewFAQService creates a new FAQService.
func NewFAQService(chunkRepo storage.ChunkStore, settingsRepo storage.SettingsStore, sessions *retrieval.Sessions) FAQService {
	return &faqService{
		chunkRepo:    chunkRepo,
		settingsRepo: settingsRepo,
		sessions:     sessions,
	}
}

// StartNavigation snapshots the visibility settings into a new session.
func (s *faqService) StartNavigation(ctx context.Context) (NavigationView, error) {
	settings, err := s.settingsRepo.List(ctx)
	if err != nil {
		return NavigationView{}, WrapError(err, "failed to load faq settings")
	}

	nav := retrieval.NewNavigator(s.chunkRepo, retrieval.NewVisibility(settings))
	listing, err := nav.Current(ctx)
	if err != nil {
		return NavigationView{}, WrapError(err, "failed to list faq root")
	}

	id := s.sessions.Create(nav)
	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "faq navigation started", "session_id", id, "options", len(listing.Options))
	return NavigationView{SessionID: id, Listing: listing}, nil
}

// Navigate moves a session.
func (s *faqService) Navigate(ctx context.Context, sessionID, action, value string) (NavigationView, error) {
	nav, ok := s.sessions.Get(sessionID)
	if !ok {
		return NavigationView{}, fmt.Errorf("navigation session %s: %w", sessionID, ErrNotFound)
	}

	var (
		listing retrieval.Listing
		err     error
	)
	switch action {
	case ActionSelect:
		listing, err = nav.Select(ctx, value)
	case ActionBack:
		listing, err = nav.Back(ctx)
	case ActionReset:
		listing, err = nav.Reset(ctx)
	default:
		return NavigationView{}, &ValidationError{Field: "action", Message: fmt.Sprintf("must be one of %s, %s, %s", ActionSelect, ActionBack, ActionReset)}
	}

	switch {
	case err == nil:
		return NavigationView{SessionID: sessionID, Listing: listing}, nil
	case errors.Is(err, retrieval.ErrInvalidSelection):
		return NavigationView{}, &ValidationError{Field: "value", Message: fmt.Sprintf("%q is not an available option", value)}
	case errors.Is(err, retrieval.ErrTerminal):
		return NavigationView{}, &ValidationError{Field: "action", Message: "already at an answer; go back first"}
	default:
		return NavigationView{}, WrapError(err, "failed to navigate faq")
	}
}

// EndNavigation closes a session.
func (s *faqService) EndNavigation(_ context.Context, sessionID string) error {
	if !s.sessions.Delete(sessionID) {
		return fmt.Errorf("navigation session %s: %w", sessionID, ErrNotFound)
	}
	return nil
}

// ListSettings joins the lvl1 keywords found in chunks with stored settings.
// Keywords without a setting are reported visible with no order.
func (s *faqService) ListSettings(ctx context.Context) ([]FAQSettingView, error) {
	entries, err := s.chunkRepo.DistinctLvl1(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to list faq keywords")
	}
	settings, err := s.settingsRepo.List(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to load faq settings")
	}

	byKeyword := make(map[string]storage.FAQSetting, len(settings))
	for _, st := range settings {
		byKeyword[st.Lvl1Keyword] = st
	}

	ordered := retrieval.NewVisibility(settings).Sort(entries)
	views := make([]FAQSettingView, len(ordered))
	for i, kw := range ordered {
		if st, ok := byKeyword[kw]; ok {
			views[i] = toSettingView(kw, &st)
		} else {
			views[i] = toSettingView(kw, nil)
		}
	}
	return views, nil
}

// UpdateSetting changes one keyword's setting. Unknown keywords are ErrNotFound.
func (s *faqService) UpdateSetting(ctx context.Context, keyword string, update FAQSettingUpdate) (FAQSettingView, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return FAQSettingView{}, &ValidationError{Field: "keyword", Message: "cannot be empty"}
	}
	if update.Order != nil && *update.Order < 0 {
		return FAQSettingView{}, &ValidationError{Field: "order", Message: "must not be negative"}
	}
	if err := s.requireKeywords(ctx, []string{keyword}); err != nil {
		return FAQSettingView{}, err
	}

	setting := storage.FAQSetting{Lvl1Keyword: keyword, Visible: true}
	current, err := s.settingsRepo.Get(ctx, keyword)
	switch {
	case err == nil:
		setting = *current
	case !errors.Is(err, storage.ErrNotFound):
		return FAQSettingView{}, WrapError(err, "failed to load faq setting")
	}

	if update.Visible != nil {
		setting.Visible = *update.Visible
	}
	if update.ClearOrder {
		setting.Order = nil
	}
	if update.Order != nil {
		order := *update.Order
		setting.Order = &order
	}

	if err := s.settingsRepo.Upsert(ctx, setting); err != nil {
		return FAQSettingView{}, WrapError(err, "failed to save faq setting")
	}
	stored, err := s.settingsRepo.Get(ctx, keyword)
	if err != nil {
		return FAQSettingView{}, WrapError(err, "failed to reload faq setting")
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "faq setting updated",
		"keyword", keyword, "visible", stored.Visible, "order", stored.Order)
	return toSettingView(keyword, stored), nil
}

// Reorder assigns order i+1 to keywords[i].
func (s *faqService) Reorder(ctx context.Context, keywords []string) error {
	if len(keywords) == 0 {
		return &ValidationError{Field: "keywords", Message: "cannot be empty"}
	}
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		if seen[kw] {
			return &ValidationError{Field: "keywords", Message: fmt.Sprintf("duplicate keyword %q", kw)}
		}
		seen[kw] = true
	}
	if err := s.requireKeywords(ctx, keywords); err != nil {
		return err
	}

	if err := s.settingsRepo.Reorder(ctx, keywords); err != nil {
		return WrapError(err, "failed to reorder faq keywords")
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "faq keywords reordered", "count", len(keywords))
	return nil
}

func (s *faqService) requireKeywords(ctx context.Context, keywords []string) error {
	entries, err := s.chunkRepo.DistinctLvl1(ctx)
	if err != nil {
		return WrapError(err, "failed to list faq keywords")
	}
	known := make(map[string]bool, len(entries))
	for _, e := range entries {
		known[e.Keyword] = true
	}
	for _, kw := range keywords {
		if !known[kw] {
			return fmt.Errorf("faq keyword %q: %w", kw, ErrNotFound)
		}
	}
	return nil
}

// toSettingView reports keywords without a stored setting as visible with no order.
func toSettingView(keyword string, setting *storage.FAQSetting) FAQSettingView {
	if setting == nil {
		return FAQSettingView{Keyword: keyword, Visible: true}
	}
	view := FAQSettingView{Keyword: keyword, Visible: setting.Visible, Order: setting.Order}
	if !setting.UpdatedAt.IsZero() {
		updated := setting.UpdatedAt
		view.UpdatedAt = &updated
	}
	return view
}
