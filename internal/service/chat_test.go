package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/hyodin/dollkongbot/internal/config"
	"github.com/hyodin/dollkongbot/internal/llm"
	"github.com/hyodin/dollkongbot/internal/normalizer"
	"github.com/hyodin/dollkongbot/internal/quality"
	"github.com/hyodin/dollkongbot/internal/retrieval"
	"github.com/hyodin/dollkongbot/internal/service"
	"github.com/hyodin/dollkongbot/internal/service/mocks"
	"github.com/hyodin/dollkongbot/internal/storage"
)

func newTestChatService(t *testing.T) (service.ChatService, *mocks.MockSearcher, *mocks.MockLLMClient) {
	t.Helper()
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockSearcher(ctrl)
	llmClient := mocks.NewMockLLMClient(ctrl)
	gate, err := quality.NewGate(config.DefaultRules().Quality, 0.5)
	if err != nil {
		t.Fatalf("NewGate() error = %v", err)
	}
	svc := service.NewChatService(searcher, llmClient, gate, service.ChatOptions{
		DefaultScoreThreshold: 0.3,
		Timeout:               time.Second,
	})
	return svc, searcher, llmClient
}

func ranked(id string, score float32, lvl3 string) retrieval.RankedChunk {
	return retrieval.RankedChunk{
		ChunkRecord: storage.ChunkRecord{
			ID:          id,
			DocumentID:  "doc-1",
			Lvl1:        "복지",
			Lvl2:        "휴가",
			Lvl3:        lvl3,
			Lvl4:        lvl3 + " 상세",
			ContextText: "분류 체계: 대분류: 복지 > 중분류: 휴가 > 소분류: " + lvl3,
		},
		Score: score,
	}
}

func searchResult(normalized string, chunks ...retrieval.RankedChunk) *retrieval.SearchResult {
	if chunks == nil {
		chunks = []retrieval.RankedChunk{}
	}
	return &retrieval.SearchResult{
		Query:  normalizer.NormalizedQuery{Normalized: normalized},
		Chunks: chunks,
	}
}

func TestChatService_ProcessChat(t *testing.T) {
	ctx := context.Background()
	svc, searcher, llmClient := newTestChatService(t)

	searcher.EXPECT().Search(gomock.Any(), "연차는 며칠인가요?", 5, float32(0.3)).
		Return(searchResult("연차 며칠", ranked("c1", 0.82, "연차"), ranked("c2", 0.61, "반차"), ranked("c3", 0.4, "병가")), nil)
	llmClient.EXPECT().ChatWithMessages(gomock.Any(), gomock.Any(), llm.ChatParams{MaxTokens: service.DefaultMaxTokens}).
		DoAndReturn(func(_ context.Context, messages []llm.Message, _ llm.ChatParams) (string, error) {
			if len(messages) != 2 || messages[0].Role != llm.RoleSystem {
				t.Errorf("messages = %+v", messages)
			}
			user := messages[len(messages)-1].Content
			// Only the top two chunks are used as context.
			if !strings.Contains(user, "소분류: 반차") || strings.Contains(user, "소분류: 병가") {
				t.Errorf("unexpected prompt context: %s", user)
			}
			if !strings.Contains(user, "질문: 연차는 며칠인가요?") {
				t.Errorf("prompt should carry the original question: %s", user)
			}
			return "연차는 15일입니다.", nil
		})

	resp, err := svc.ProcessChat(ctx, service.ChatRequest{Message: "  연차는 며칠인가요?  "})
	if err != nil {
		t.Fatalf("ProcessChat() error = %v", err)
	}
	if resp.Answer != "연차는 15일입니다." || resp.Failed {
		t.Errorf("Answer = %q, Failed = %v", resp.Answer, resp.Failed)
	}
	if resp.NormalizedQuery != "연차 며칠" {
		t.Errorf("NormalizedQuery = %q", resp.NormalizedQuery)
	}
	if len(resp.Sources) != 3 || resp.Sources[0].ChunkID != "c1" || resp.Sources[0].Score != 0.82 {
		t.Errorf("Sources = %+v", resp.Sources)
	}
	if resp.Quality.LowQuality || resp.Quality.Confidence != 0.82 {
		t.Errorf("Quality = %+v", resp.Quality)
	}
}

func TestChatService_RelaxedRetry(t *testing.T) {
	ctx := context.Background()
	svc, searcher, llmClient := newTestChatService(t)

	threshold := float32(0.6)
	searcher.EXPECT().Search(gomock.Any(), "반차 신청", 3, threshold).Return(searchResult("반차 신청"), nil)
	searcher.EXPECT().SearchNormalized(gomock.Any(), "반차 신청", 3, service.RelaxedScoreThreshold).
		Return([]retrieval.RankedChunk{ranked("c2", 0.2, "반차")}, nil)
	llmClient.EXPECT().ChatWithMessages(gomock.Any(), gomock.Any(), llm.ChatParams{MaxTokens: 200}).Return("반차는 4시간 단위입니다.", nil)

	resp, err := svc.ProcessChat(ctx, service.ChatRequest{Message: "반차 신청", MaxResults: 3, ScoreThreshold: &threshold, MaxTokens: 200})
	if err != nil {
		t.Fatalf("ProcessChat() error = %v", err)
	}
	if len(resp.Sources) != 1 {
		t.Fatalf("Sources = %+v", resp.Sources)
	}
	// Context exists but scores below the confidence threshold.
	if !resp.Quality.LowQuality || resp.Quality.Reasons[0] != quality.ReasonLowSimilarity {
		t.Errorf("Quality = %+v", resp.Quality)
	}
}

func TestChatService_NoContext(t *testing.T) {
	ctx := context.Background()
	svc, searcher, llmClient := newTestChatService(t)

	searcher.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(searchResult("주차 등록"), nil)
	searcher.EXPECT().SearchNormalized(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]retrieval.RankedChunk{}, nil)
	llmClient.EXPECT().ChatWithMessages(gomock.Any(), gomock.Len(1), gomock.Any()).Return("관련 정보가 없습니다.", nil)

	resp, err := svc.ProcessChat(ctx, service.ChatRequest{Message: "주차 등록"})
	if err != nil {
		t.Fatalf("ProcessChat() error = %v", err)
	}
	if !resp.Quality.LowQuality || resp.Quality.Confidence != 0 {
		t.Errorf("Quality = %+v", resp.Quality)
	}
}

func TestChatService_NoRelaxedRetryAtLowThreshold(t *testing.T) {
	ctx := context.Background()
	svc, searcher, llmClient := newTestChatService(t)

	threshold := float32(0.05)
	searcher.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), threshold).Return(searchResult("주차"), nil)
	llmClient.EXPECT().ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return("모르겠습니다", nil)

	if _, err := svc.ProcessChat(ctx, service.ChatRequest{Message: "주차", ScoreThreshold: &threshold}); err != nil {
		t.Fatalf("ProcessChat() error = %v", err)
	}
}

func TestChatService_CollaboratorFailures(t *testing.T) {
	ctx := context.Background()
	secret := errors.New("dial tcp 10.0.0.7:6334: connection refused")

	tests := []struct {
		name  string
		setup func(*mocks.MockSearcher, *mocks.MockLLMClient)
	}{
		{
			name: "search fails",
			setup: func(s *mocks.MockSearcher, _ *mocks.MockLLMClient) {
				s.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, secret)
			},
		},
		{
			name: "relaxed search fails",
			setup: func(s *mocks.MockSearcher, _ *mocks.MockLLMClient) {
				s.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(searchResult("연차"), nil)
				s.EXPECT().SearchNormalized(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, secret)
			},
		},
		{
			name: "generation fails",
			setup: func(s *mocks.MockSearcher, l *mocks.MockLLMClient) {
				s.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(searchResult("연차", ranked("c1", 0.9, "연차")), nil)
				l.EXPECT().ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return("", secret)
			},
		},
		{
			name: "generation times out twice",
			setup: func(s *mocks.MockSearcher, l *mocks.MockLLMClient) {
				s.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(searchResult("연차", ranked("c1", 0.9, "연차")), nil)
				l.EXPECT().ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return("", context.DeadlineExceeded).Times(2)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, searcher, llmClient := newTestChatService(t)
			tt.setup(searcher, llmClient)

			resp, err := svc.ProcessChat(ctx, service.ChatRequest{Message: "연차"})
			if err != nil {
				t.Fatalf("ProcessChat() error = %v, want nil", err)
			}
			if !resp.Failed || resp.Answer != service.RetryMessage {
				t.Errorf("resp = %+v, want generic retry answer", resp)
			}
			if strings.Contains(resp.Answer, "10.0.0.7") {
				t.Error("collaborator error leaked into the answer")
			}
			if !resp.Quality.LowQuality {
				t.Error("failed answer should be low quality")
			}
		})
	}
}

func TestChatService_CallerCancelled(t *testing.T) {
	svc, searcher, _ := newTestChatService(t)
	ctx, cancel := context.WithCancel(context.Background())

	searcher.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, int, float32) (*retrieval.SearchResult, error) {
			cancel()
			return nil, context.Canceled
		})

	if _, err := svc.ProcessChat(ctx, service.ChatRequest{Message: "연차"}); !errors.Is(err, context.Canceled) {
		t.Errorf("ProcessChat() error = %v, want context.Canceled", err)
	}
}

func TestChatService_Validation(t *testing.T) {
	svc, _, _ := newTestChatService(t)
	ctx := context.Background()
	negative := float32(-0.1)

	tests := []struct {
		name  string
		req   service.ChatRequest
		field string
	}{
		{name: "empty message", req: service.ChatRequest{Message: "  "}, field: "message"},
		{name: "too many results", req: service.ChatRequest{Message: "연차", MaxResults: 11}, field: "max_results"},
		{name: "negative results", req: service.ChatRequest{Message: "연차", MaxResults: -1}, field: "max_results"},
		{name: "negative threshold", req: service.ChatRequest{Message: "연차", ScoreThreshold: &negative}, field: "score_threshold"},
		{name: "too few tokens", req: service.ChatRequest{Message: "연차", MaxTokens: 10}, field: "max_tokens"},
		{name: "too many tokens", req: service.ChatRequest{Message: "연차", MaxTokens: 5000}, field: "max_tokens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ProcessChat(ctx, tt.req)
			var validationErr *service.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if validationErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", validationErr.Field, tt.field)
			}
		})
	}
}
