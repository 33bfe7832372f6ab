package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks github.com/hyodin/dollkongbot/internal/service LLMClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_searcher.go -package=mocks github.com/hyodin/dollkongbot/internal/service Searcher
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService github.com/hyodin/dollkongbot/internal/service ChatService

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyodin/dollkongbot/internal/contextutil"
	"github.com/hyodin/dollkongbot/internal/llm"
	"github.com/hyodin/dollkongbot/internal/quality"
	"github.com/hyodin/dollkongbot/internal/retrieval"
)

// Chat request bounds.
const (
	DefaultMaxTokens = 500
	MinMaxTokens     = 50
	MaxMaxTokens     = 1000

	// RelaxedScoreThreshold is used for one retry when the first search finds nothing.
	RelaxedScoreThreshold float32 = 0.05
)

// RetryMessage is returned instead of an answer when a collaborator fails.
const RetryMessage = "죄송합니다. 일시적인 오류가 발생했습니다. 잠시 후 다시 시도해주세요."

// LLMClient is an interface for interacting with an LLM API.
// This interface is defined from the service layer's perspective (consumer-first).
type LLMClient interface {
	// ChatWithMessages sends a conversation and returns the reply text.
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
}

// Searcher finds chunks similar to a question.
type Searcher interface {
	// Search normalizes query and returns ranked chunks.
	Search(ctx context.Context, query string, limit int, scoreThreshold float32) (*retrieval.SearchResult, error)
	// SearchNormalized searches with an already normalized query.
	SearchNormalized(ctx context.Context, normalized string, limit int, scoreThreshold float32) ([]retrieval.RankedChunk, error)
}

// ChatRequest represents a chat request in the domain layer.
// Zero values select the defaults.
type ChatRequest struct {
	Message        string
	MaxResults     int
	ScoreThreshold *float32
	MaxTokens      int
}

// Source is a chunk that was retrieved for an answer.
type Source struct {
	ChunkID     string
	DocumentID  string
	Sheet       string
	CellAddress string
	Lvl1        string
	Lvl2        string
	Lvl3        string
	Lvl4        string
	Score       float32
}

// ChatResponse represents a chat response in the domain layer.
type ChatResponse struct {
	Answer          string
	NormalizedQuery string
	Sources         []Source
	Quality         quality.Verdict
	// Failed is set when Answer is RetryMessage because a collaborator failed.
	Failed bool
}

// ChatService provides question answering over the indexed FAQ.
type ChatService interface {
	// ProcessChat answers a question. Collaborator failures are reported in
	// the response, not as errors; errors are returned for invalid requests.
	ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// ChatOptions configures the chat service.
type ChatOptions struct {
	DefaultScoreThreshold float32
	Timeout               time.Duration
}

// chatService implements ChatService.
type chatService struct {
	searcher  Searcher
	llmClient LLMClient
	gate      *quality.Gate
	opts      ChatOptions
}

// NewChatService creates a new ChatService.
func NewChatService(searcher Searcher, llmClient LLMClient, gate *quality.Gate, opts ChatOptions) ChatService {
	if opts.DefaultScoreThreshold == 0 {
		opts.DefaultScoreThreshold = retrieval.DefaultScoreThreshold
	}
	return &chatService{
		searcher:  searcher,
		llmClient: llmClient,
		gate:      gate,
		opts:      opts,
	}
}

// ProcessChat processes a chat request.
func (s *chatService) ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	req, err := s.validate(req)
	if err != nil {
		logger.WarnContext(ctx, "invalid chat request", "error", err)
		return ChatResponse{}, err
	}

	result, err := s.searcher.Search(ctx, req.Message, req.MaxResults, *req.ScoreThreshold)
	if err != nil {
		return s.failed(ctx, "", "search failed", err)
	}
	chunks := result.Chunks
	normalized := result.Query.Normalized

	if len(chunks) == 0 && normalized != "" && *req.ScoreThreshold > RelaxedScoreThreshold {
		logger.InfoContext(ctx, "no context above threshold, retrying with relaxed threshold",
			"threshold", *req.ScoreThreshold, "relaxed_threshold", RelaxedScoreThreshold)
		chunks, err = s.searcher.SearchNormalized(ctx, normalized, req.MaxResults, RelaxedScoreThreshold)
		if err != nil {
			return s.failed(ctx, normalized, "relaxed search failed", err)
		}
	}

	used := chunks[:min(len(chunks), llm.PromptDocumentLimit)]
	docs := make([]llm.ContextDocument, len(used))
	for i, c := range used {
		docs[i] = llm.ContextDocument{
			Source: strings.Join([]string{c.Lvl1, c.Lvl2, c.Lvl3}, " > "),
			Text:   c.ContextText,
		}
	}
	messages := llm.BuildRAGMessages(req.Message, docs)

	answer, err := retrieval.CallWithTimeout(ctx, s.opts.Timeout, "generate answer", func(ctx context.Context) (string, error) {
		return s.llmClient.ChatWithMessages(ctx, messages, llm.ChatParams{MaxTokens: req.MaxTokens})
	})
	if err != nil {
		return s.failed(ctx, normalized, "answer generation failed", err)
	}

	verdict := s.gate.Evaluate(answer, retrieval.Scores(used))
	logger.InfoContext(ctx, "chat request processed successfully",
		"message_length", len(req.Message),
		"normalized", normalized,
		"context_chunks", len(chunks),
		"reply_length", len(answer),
		"low_quality", verdict.LowQuality,
		"confidence", verdict.Confidence,
	)

	return ChatResponse{
		Answer:          answer,
		NormalizedQuery: normalized,
		Sources:         toSources(chunks),
		Quality:         verdict,
	}, nil
}

func (s *chatService) validate(req ChatRequest) (ChatRequest, error) {
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return req, &ValidationError{Field: "message", Message: "cannot be empty"}
	}

	if req.MaxResults == 0 {
		req.MaxResults = retrieval.DefaultLimit
	}
	if req.MaxResults < 1 || req.MaxResults > retrieval.MaxLimit {
		return req, &ValidationError{Field: "max_results", Message: fmt.Sprintf("must be between 1 and %d", retrieval.MaxLimit)}
	}

	if req.ScoreThreshold == nil {
		t := s.opts.DefaultScoreThreshold
		req.ScoreThreshold = &t
	}
	if *req.ScoreThreshold < 0 || *req.ScoreThreshold > 1 {
		return req, &ValidationError{Field: "score_threshold", Message: "must be between 0 and 1"}
	}

	if req.MaxTokens == 0 {
		req.MaxTokens = DefaultMaxTokens
	}
	if req.MaxTokens < MinMaxTokens || req.MaxTokens > MaxMaxTokens {
		return req, &ValidationError{Field: "max_tokens", Message: fmt.Sprintf("must be between %d and %d", MinMaxTokens, MaxMaxTokens)}
	}
	return req, nil
}

// failed logs err and builds the generic retry response. Caller cancellation
// is returned as an error since nobody is waiting for the answer.
func (s *chatService) failed(ctx context.Context, normalized, msg string, err error) (ChatResponse, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ChatResponse{}, ctxErr
	}

	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, msg, "error", err, "timeout", errors.Is(err, retrieval.ErrTimeout))

	return ChatResponse{
		Answer:          RetryMessage,
		NormalizedQuery: normalized,
		Sources:         []Source{},
		Quality:         s.gate.Evaluate(RetryMessage, nil),
		Failed:          true,
	}, nil
}

func toSources(chunks []retrieval.RankedChunk) []Source {
	sources := make([]Source, len(chunks))
	for i, c := range chunks {
		sources[i] = Source{
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
	return sources
}
