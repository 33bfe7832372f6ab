package normalizer

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_analyzer.go -package=mocks github.com/hyodin/dollkongbot/internal/normalizer Analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Morpheme is one analyzed token with its part-of-speech tag (Sejong tag set).
type Morpheme struct {
	Form string `json:"form"`
	Tag  string `json:"tag"`
}

// Analyzer is the morphological analyzer collaborator.
type Analyzer interface {
	Analyze(ctx context.Context, text string) ([]Morpheme, error)
}

// AnalyzerClient calls an HTTP morphological analyzer.
// Request: POST {BaseURL}/analyze {"text": "..."}; response: {"tokens": [{"form": "...", "tag": "NNG"}]}.
type AnalyzerClient struct {
	BaseURL string
	client  *http.Client
}

// NewAnalyzerClient creates an analyzer client with a per-request timeout.
func NewAnalyzerClient(baseURL string, timeout time.Duration) *AnalyzerClient {
	return &AnalyzerClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Tokens []Morpheme `json:"tokens"`
}

// Analyze implements Analyzer.
func (c *AnalyzerClient) Analyze(ctx context.Context, text string) ([]Morpheme, error) {
	body, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/analyze", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var out analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return out.Tokens, nil
}
