package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Default Gemini model names.
const (
	DefaultGeminiModel          = "gemini-2.5-flash"
	DefaultGeminiEmbeddingModel = "text-embedding-004"
)

// GeminiClient wraps a genai client shared by the Gemini generator and embedder.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a Gemini API client.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// Close releases the underlying connection.
func (g *GeminiClient) Close() error {
	return g.client.Close()
}

// GeminiGenerator answers chat requests with a Gemini generative model.
type GeminiGenerator struct {
	client *GeminiClient
	model  string
}

// NewGeminiGenerator creates a generator using model, or DefaultGeminiModel when empty.
func NewGeminiGenerator(client *GeminiClient, model string) *GeminiGenerator {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiGenerator{client: client, model: model}
}

// ChatWithMessages sends system messages as the system instruction and the
// remaining messages as the prompt.
func (g *GeminiGenerator) ChatWithMessages(ctx context.Context, messages []Message, params ChatParams) (string, error) {
	system, prompt := splitMessages(messages)
	if prompt == "" {
		return "", fmt.Errorf("no messages to send")
	}

	name := params.Model
	if name == "" {
		name = g.model
	}
	// GenerativeModel carries its config, so each call gets its own.
	model := g.client.client.GenerativeModel(name)
	model.SetTemperature(params.temperature())
	if params.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(params.MaxTokens))
	}
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
		if b.Len() > 0 {
			break
		}
	}

	answer := strings.TrimSpace(b.String())
	if answer == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return answer, nil
}

// splitMessages joins system and non-system message contents separately.
func splitMessages(messages []Message) (string, string) {
	var system, prompt []string
	for _, m := range messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		if m.Role == RoleSystem {
			system = append(system, m.Content)
		} else {
			prompt = append(prompt, m.Content)
		}
	}
	return strings.Join(system, "\n\n"), strings.Join(prompt, "\n\n")
}

// GeminiEmbedder embeds texts with a Gemini embedding model.
type GeminiEmbedder struct {
	model        *genai.EmbeddingModel
	ExpectedSize int
}

// NewGeminiEmbedder creates an embedder using model, or DefaultGeminiEmbeddingModel when empty.
func NewGeminiEmbedder(client *GeminiClient, model string, expectedSize int) *GeminiEmbedder {
	if model == "" {
		model = DefaultGeminiEmbeddingModel
	}
	return &GeminiEmbedder{
		model:        client.client.EmbeddingModel(model),
		ExpectedSize: expectedSize,
	}
}

// EmbedTexts embeds all texts in one batch request.
func (e *GeminiEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty input array")
	}

	batch := e.model.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}

	resp, err := e.model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to embed texts: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}

	result := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("embedding %d is empty", i)
		}
		if e.ExpectedSize > 0 && len(emb.Values) != e.ExpectedSize {
			return nil, fmt.Errorf("embedding %d has size %d, expected %d", i, len(emb.Values), e.ExpectedSize)
		}
		vec := make([]float32, len(emb.Values))
		for j, v := range emb.Values {
			vec[j] = float32(v)
		}
		result[i] = vec
	}
	return result, nil
}
