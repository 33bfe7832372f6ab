package normalizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/hyodin/dollkongbot/internal/config"
)

func TestSplitters(t *testing.T) {
	tests := []struct {
		name     string
		splitter Splitter
		input    string
		want     []string
	}{
		{name: "unicode", splitter: UnicodeSplitter{}, input: "연차 신청. 반차는요? 경조사!", want: []string{"연차 신청.", "반차는요?", "경조사!"}},
		{name: "unicode single", splitter: UnicodeSplitter{}, input: "연차 신청 방법", want: []string{"연차 신청 방법"}},
		{name: "regex", splitter: RegexSplitter{}, input: "연차 신청. 반차는요?? 경조사!\n휴가", want: []string{"연차 신청", "반차는요", "경조사", "휴가"}},
		{name: "regex only punctuation", splitter: RegexSplitter{}, input: "?!", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.splitter.Split(tt.input)
			if err != nil {
				t.Fatalf("Split() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Split() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilterToken(t *testing.T) {
	tests := []struct {
		word      string
		keepShort bool
		want      string
		ok        bool
	}{
		{word: "신청하나요?", want: "신청하나요", ok: true},
		{word: "(결혼)", want: "결혼", ok: true},
		{word: "일", ok: false},
		{word: "일", keepShort: true, want: "일", ok: true},
		{word: "2024", ok: false},
		{word: "...", ok: false},
		{word: "A-1", want: "A-1", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, ok := filterToken(tt.word, 2, tt.keepShort)
			if ok != tt.ok || got != tt.want {
				t.Errorf("filterToken(%q) = %q, %v, want %q, %v", tt.word, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCleaner(t *testing.T) {
	c, err := newCleaner(config.DefaultRules().TextCleaning.RemovePattern)
	if err != nil {
		t.Fatalf("newCleaner() error = %v", err)
	}
	// Decomposed jamo are composed before matching.
	decomposed := "\u1100\u1161\u11ab ★ test_1, ok!"
	if got := c.Clean(decomposed); got != "간 test_1, ok!" {
		t.Errorf("Clean() = %q", got)
	}
}

type panicSplitter struct{}

func (panicSplitter) Split(string) ([]string, error) { panic("splitter exploded") }

type panicTokenizer struct{}

func (panicTokenizer) Tokenize(context.Context, string) ([]string, error) {
	panic("tokenizer exploded")
}

func TestNormalize_StagePanicsFallBack(t *testing.T) {
	n, err := New(config.DefaultRules(), nil, 8)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	n.splitter = panicSplitter{}
	n.tokenizer = panicTokenizer{}

	got := n.Normalize(context.Background(), "연차 신청. 방법!")
	if got.Normalized != "연차 신청 방법" {
		t.Errorf("Normalized = %q", got.Normalized)
	}
	if !slices.Equal(got.Degraded, []string{StageSentences, StageTokenize}) {
		t.Errorf("Degraded = %v", got.Degraded)
	}
}

func TestNormalize_AllStagesPanic(t *testing.T) {
	n, err := New(config.DefaultRules(), nil, 8)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	n.splitter = panicSplitter{}
	n.fallbackS = panicSplitter{}
	n.fallbackT = panicTokenizer{}

	got := n.Normalize(context.Background(), "연차  신청 방법")
	if got.Normalized != "연차 신청 방법" {
		t.Errorf("Normalized = %q", got.Normalized)
	}
	if len(got.Degraded) == 0 {
		t.Error("Degraded should list the failed stages")
	}
}

func TestAnalyzerClient_Analyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/analyze" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Text != "연차 신청" {
			t.Errorf("text = %q", req.Text)
		}
		_ = json.NewEncoder(w).Encode(analyzeResponse{Tokens: []Morpheme{{Form: "연차", Tag: "NNG"}, {Form: "신청", Tag: "NNG"}}})
	}))
	defer server.Close()

	client := NewAnalyzerClient(server.URL+"/", time.Second)
	got, err := client.Analyze(context.Background(), "연차 신청")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(got) != 2 || got[1].Form != "신청" {
		t.Errorf("Analyze() = %+v", got)
	}
}

func TestAnalyzerClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{name: "server error", handler: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}},
		{name: "bad json", handler: func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{"))
		}},
		{name: "timeout", handler: func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewAnalyzerClient(server.URL, 50*time.Millisecond)
			if _, err := client.Analyze(context.Background(), "연차"); err == nil {
				t.Error("Analyze() expected error")
			}
		})
	}
}
