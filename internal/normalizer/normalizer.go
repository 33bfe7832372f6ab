// Package normalizer turns free-text questions into compact keyword queries.
//
// The pipeline runs cleaning, sentence splitting, tokenization, stopword
// removal and reassembly. Every stage has a fallback, and the public entry
// point never fails: in the worst case it returns the cleaned input.
package normalizer

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hyodin/dollkongbot/internal/config"
	"github.com/hyodin/dollkongbot/internal/contextutil"
)

// DefaultCacheSize is the number of normalized queries kept in memory.
const DefaultCacheSize = 2048

// NormalizedQuery is the result of one normalization.
type NormalizedQuery struct {
	Original      string   `json:"original"`
	Normalized    string   `json:"normalized"`
	TokensRemoved int      `json:"tokens_removed"`
	CacheHit      bool     `json:"cache_hit"`
	Degraded      []string `json:"degraded,omitempty"`
}

// Normalizer is safe for concurrent use.
type Normalizer struct {
	enabled   bool
	cleaning  bool
	cleaner   *cleaner
	splitting bool
	splitter  Splitter
	fallbackS Splitter
	tokenizer Tokenizer
	fallbackT Tokenizer
	stopping  bool
	stopwords map[string]bool

	analyzerConfigured bool
	analyzerFailures   atomic.Int64

	cache  *lru.Cache[string, NormalizedQuery]
	hits   atomic.Int64
	misses atomic.Int64
}

// New builds a normalizer from rules. analyzer may be nil, in which case
// tokenization always uses whitespace splitting.
func New(rules *config.Rules, analyzer Analyzer, cacheSize int) (*Normalizer, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, NormalizedQuery](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	pattern := ""
	if rules.TextCleaning.Enabled {
		pattern = rules.TextCleaning.RemovePattern
	}
	c, err := newCleaner(pattern)
	if err != nil {
		return nil, err
	}

	n := &Normalizer{
		enabled:   rules.Normalization.Enabled,
		cleaning:  rules.TextCleaning.Enabled,
		cleaner:   c,
		splitting: rules.Sentences.Enabled,
		fallbackS: RegexSplitter{},
		fallbackT: WhitespaceTokenizer{MinRunes: rules.Morphology.MinTokenRunes},
		stopping:  rules.Stopwords.Enabled,
		stopwords: make(map[string]bool),
		cache:     cache,
	}
	if rules.Sentences.LanguageAware {
		n.splitter = UnicodeSplitter{}
	}
	if rules.Morphology.Enabled && analyzer != nil {
		n.tokenizer = NewAnalyzerTokenizer(analyzer, rules.Morphology.TargetPOSTags, rules.Morphology.MinTokenRunes)
		n.analyzerConfigured = true
	}
	for _, w := range rules.Stopwords.All() {
		n.stopwords[w] = true
	}
	return n, nil
}

// Normalize returns the normalized form of raw. It never panics and never
// returns an empty string for input that is not blank.
func (n *Normalizer) Normalize(ctx context.Context, raw string) NormalizedQuery {
	if strings.TrimSpace(raw) == "" {
		return NormalizedQuery{Original: raw}
	}
	if !n.enabled {
		return NormalizedQuery{Original: raw, Normalized: strings.TrimSpace(raw)}
	}

	if cached, ok := n.cache.Get(raw); ok {
		n.hits.Add(1)
		cached.CacheHit = true
		return cached
	}
	n.misses.Add(1)

	result := n.run(ctx, raw)
	if len(result.Degraded) > 0 {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "query normalization degraded",
			"stages", result.Degraded, "normalized", result.Normalized)
	} else {
		// Degraded results are not cached so a recovered analyzer is used next time.
		n.cache.Add(raw, result)
	}
	return result
}

// run executes the stages. Any panic escaping a stage returns the stage-1 output.
func (n *Normalizer) run(ctx context.Context, raw string) (result NormalizedQuery) {
	result.Original = raw
	cleaned, ok := n.clean(raw)
	if !ok {
		result.Degraded = append(result.Degraded, StageCleaning)
	}
	result.Normalized = cleaned

	defer func() {
		if r := recover(); r != nil {
			contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "query normalization failed", "panic", fmt.Sprint(r))
			result.Normalized = cleaned
			result.TokensRemoved = 0
			result.Degraded = append(result.Degraded, "pipeline")
		}
	}()

	text := cleaned
	if n.splitting {
		sentences, degraded := n.split(text)
		if degraded {
			result.Degraded = append(result.Degraded, StageSentences)
		}
		text = strings.Join(sentences, " ")
	}

	tokens, degraded := n.tokenize(ctx, text)
	if degraded {
		result.Degraded = append(result.Degraded, StageTokenize)
	}

	removed := 0
	if n.stopping {
		tokens, removed = removeStopwords(tokens, n.stopwords)
	}

	joined := collapseSpaces(strings.Join(tokens, " "))
	if joined == "" {
		// Everything was filtered out; the cleaned text is better than nothing.
		result.Normalized = cleaned
		return result
	}
	result.Normalized = joined
	result.TokensRemoved = removed
	return result
}

// clean runs stage 1. Its fallback only collapses whitespace.
func (n *Normalizer) clean(raw string) (out string, ok bool) {
	fallback := collapseSpaces(raw)
	if !n.cleaning {
		return fallback, true
	}
	defer func() {
		if r := recover(); r != nil {
			out, ok = fallback, false
		}
	}()
	out = n.cleaner.Clean(raw)
	if out == "" {
		// Every character was disallowed.
		return fallback, true
	}
	return out, true
}

func (n *Normalizer) split(text string) (sentences []string, degraded bool) {
	if n.splitter != nil {
		if s, err := safeSplit(n.splitter, text); err == nil && len(s) > 0 {
			return s, false
		}
		degraded = true
	}
	s, err := safeSplit(n.fallbackS, text)
	if err != nil || len(s) == 0 {
		return []string{text}, true
	}
	return s, degraded
}

func (n *Normalizer) tokenize(ctx context.Context, text string) (tokens []string, degraded bool) {
	if n.tokenizer != nil {
		t, err := safeTokenize(ctx, n.tokenizer, text)
		if err == nil {
			return t, false
		}
		n.analyzerFailures.Add(1)
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "morphological analysis unavailable, using whitespace tokens", "error", err)
		degraded = true
	}
	t, err := safeTokenize(ctx, n.fallbackT, text)
	if err != nil {
		return strings.Fields(text), true
	}
	return t, degraded
}

func safeSplit(s Splitter, text string) (out []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("splitter panic: %v", r)
		}
	}()
	return s.Split(text)
}

func safeTokenize(ctx context.Context, t Tokenizer, text string) (out []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tokenizer panic: %v", r)
		}
	}()
	return t.Tokenize(ctx, text)
}
