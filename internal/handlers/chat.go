package handlers

import (
	"net/http"

	"github.com/hyodin/dollkongbot/internal/contextutil"
	"github.com/hyodin/dollkongbot/internal/quality"
	"github.com/hyodin/dollkongbot/internal/service"
)

// ChatHandler handles HTTP requests for chat.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// ChatRequest represents the HTTP request payload for chat.
//
// swagger:model ChatRequest
type ChatRequest struct {
	Message        string   `json:"message"`
	MaxResults     int      `json:"max_results,omitempty"`
	ScoreThreshold *float32 `json:"score_threshold,omitempty"`
	MaxTokens      int      `json:"max_tokens,omitempty"`
}

// SourceResponse is one chunk the answer was grounded on.
//
// swagger:model SourceResponse
type SourceResponse struct {
	ChunkID     string  `json:"chunk_id"`
	DocumentID  string  `json:"document_id"`
	Sheet       string  `json:"sheet"`
	CellAddress string  `json:"cell_address"`
	Lvl1        string  `json:"lvl1"`
	Lvl2        string  `json:"lvl2"`
	Lvl3        string  `json:"lvl3"`
	Lvl4        string  `json:"lvl4"`
	Score       float32 `json:"score"`
}

// ChatResponse represents the HTTP response payload for chat.
//
// swagger:model ChatResponse
type ChatResponse struct {
	Answer          string           `json:"answer"`
	NormalizedQuery string           `json:"normalized_query"`
	Sources         []SourceResponse `json:"sources"`
	Quality         quality.Verdict  `json:"quality"`
	// Failed is true when the answer is the generic retry message.
	Failed bool `json:"failed,omitempty"`
}

// ServeHTTP handles HTTP requests for chat.
//
// swagger:route POST /api/chat chat
//
// Answers a question from the indexed FAQ documents.
// Collaborator failures still return 200 with failed=true.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svcResp, err := h.chatService.ProcessChat(ctx, service.ChatRequest{
		Message:        req.Message,
		MaxResults:     req.MaxResults,
		ScoreThreshold: req.ScoreThreshold,
		MaxTokens:      req.MaxTokens,
	})
	if err != nil {
		if ctx.Err() != nil {
			logger.InfoContext(ctx, "chat request cancelled by client")
			return
		}
		handleServiceError(ctx, w, err, "Failed to process chat request")
		return
	}

	writeJSON(ctx, w, http.StatusOK, toChatResponse(svcResp))
}

func toChatResponse(svcResp service.ChatResponse) ChatResponse {
	resp := ChatResponse{
		Answer:          svcResp.Answer,
		NormalizedQuery: svcResp.NormalizedQuery,
		Sources:         make([]SourceResponse, len(svcResp.Sources)),
		Quality:         svcResp.Quality,
		Failed:          svcResp.Failed,
	}
	for i, s := range svcResp.Sources {
		resp.Sources[i] = SourceResponse(s)
	}
	return resp
}

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatHistoryRequest represents the HTTP request payload for chat with history.
//
// swagger:model ChatHistoryRequest
type ChatHistoryRequest struct {
	Messages       []ChatMessage `json:"messages"`
	MaxResults     int           `json:"max_results,omitempty"`
	ScoreThreshold *float32      `json:"score_threshold,omitempty"`
	MaxTokens      int           `json:"max_tokens,omitempty"`
}

// ChatHistoryHandler answers the latest user turn of a conversation.
// Earlier turns are accepted but do not influence retrieval.
type ChatHistoryHandler struct {
	chatService service.ChatService
}

// NewChatHistoryHandler creates a new ChatHistoryHandler.
func NewChatHistoryHandler(chatService service.ChatService) *ChatHistoryHandler {
	return &ChatHistoryHandler{chatService: chatService}
}

// ServeHTTP handles HTTP requests for chat with history.
//
// swagger:route POST /api/chat/history chat
//
// Answers the last user message of the conversation.
func (h *ChatHistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatHistoryRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	question, ok := lastUserMessage(req.Messages)
	if !ok {
		logger.WarnContext(ctx, "no user message in history", "messages", len(req.Messages))
		writeError(w, http.StatusBadRequest, "Validation error: messages must contain a user message")
		return
	}

	svcResp, err := h.chatService.ProcessChat(ctx, service.ChatRequest{
		Message:        question,
		MaxResults:     req.MaxResults,
		ScoreThreshold: req.ScoreThreshold,
		MaxTokens:      req.MaxTokens,
	})
	if err != nil {
		if ctx.Err() != nil {
			logger.InfoContext(ctx, "chat request cancelled by client")
			return
		}
		handleServiceError(ctx, w, err, "Failed to process chat request")
		return
	}

	writeJSON(ctx, w, http.StatusOK, toChatResponse(svcResp))
}

func lastUserMessage(messages []ChatMessage) (string, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content, true
		}
	}
	return "", false
}
