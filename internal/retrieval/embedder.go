package retrieval

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks github.com/hyodin/dollkongbot/internal/retrieval Embedder

import "context"

// Embedder turns texts into vectors. Both the OpenAI-compatible client and
// the Gemini embedder satisfy it.
type Embedder interface {
	// EmbedTexts returns one vector per input text, in input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
