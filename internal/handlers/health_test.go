package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/hyodin/dollkongbot/internal/normalizer"
	"github.com/hyodin/dollkongbot/internal/vectorstore/mocks"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_ServeHTTP(t *testing.T) {
	okDB := pingerFunc(func(context.Context) error { return nil })
	downDB := pingerFunc(func(context.Context) error { return errors.New("unable to open database file") })

	tests := []struct {
		name       string
		db         Pinger
		mockSetup  func(*mocks.MockVectorStore)
		wantStatus int
		wantIssues []string
	}{
		{
			name: "healthy",
			db:   okDB,
			mockSetup: func(m *mocks.MockVectorStore) {
				m.EXPECT().CollectionExists(gomock.Any(), "faq_chunks").Return(true, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "collection missing",
			db:   okDB,
			mockSetup: func(m *mocks.MockVectorStore) {
				m.EXPECT().CollectionExists(gomock.Any(), "faq_chunks").Return(false, nil)
			},
			wantStatus: http.StatusServiceUnavailable,
			wantIssues: []string{"vector_store_unavailable"},
		},
		{
			name: "everything down",
			db:   downDB,
			mockSetup: func(m *mocks.MockVectorStore) {
				m.EXPECT().CollectionExists(gomock.Any(), gomock.Any()).Return(false, errors.New("connection refused"))
			},
			wantStatus: http.StatusServiceUnavailable,
			wantIssues: []string{"database_unavailable", "vector_store_unavailable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockVectorStore(ctrl)
			tt.mockSetup(store)

			w := httptest.NewRecorder()
			NewHealthHandler(store, tt.db, "faq_chunks").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode error = %v", err)
			}
			if len(resp.Issues) != len(tt.wantIssues) {
				t.Fatalf("Issues = %v, want %v", resp.Issues, tt.wantIssues)
			}
			for i := range tt.wantIssues {
				if resp.Issues[i] != tt.wantIssues[i] {
					t.Errorf("Issues[%d] = %q, want %q", i, resp.Issues[i], tt.wantIssues[i])
				}
			}
		})
	}
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := httptest.NewRecorder()
	NewHealthHandler(mocks.NewMockVectorStore(ctrl), nil, "faq_chunks").
		ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/health", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", w.Code)
	}
}

type fakeNormalizerStats struct {
	stats   normalizer.Stats
	cleared bool
}

func (f *fakeNormalizerStats) Stats() normalizer.Stats { return f.stats }

func (f *fakeNormalizerStats) ClearCache() {
	f.cleared = true
	f.stats.CacheSize = 0
}

func TestNormalizerHandler_ServeHTTP(t *testing.T) {
	fake := &fakeNormalizerStats{stats: normalizer.Stats{CacheSize: 3, Hits: 6, Misses: 2, HitRate: 0.75}}
	handler := NewNormalizerHandler(fake)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/normalizer/stats", nil))
	var stats normalizer.Stats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if w.Code != http.StatusOK || stats.HitRate != 0.75 || stats.CacheSize != 3 {
		t.Errorf("status = %d, stats = %+v", w.Code, stats)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/normalizer/cache", nil))
	if w.Code != http.StatusOK || !fake.cleared {
		t.Errorf("status = %d, cleared = %v", w.Code, fake.cleared)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/normalizer/stats", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", w.Code)
	}
}
