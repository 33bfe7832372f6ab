package normalizer

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// Stage names reported in NormalizedQuery.Degraded.
const (
	StageCleaning  = "cleaning"
	StageSentences = "sentence_splitting"
	StageTokenize  = "tokenization"
	StageStopwords = "stopwords"
)

// Splitter splits text into sentences.
type Splitter interface {
	Split(text string) ([]string, error)
}

// Tokenizer turns text into the tokens kept for retrieval.
type Tokenizer interface {
	Tokenize(ctx context.Context, text string) ([]string, error)
}

// cleaner implements the cleaning stage.
type cleaner struct {
	remove *regexp.Regexp
}

func newCleaner(pattern string) (*cleaner, error) {
	if pattern == "" {
		return &cleaner{}, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid remove pattern: %w", err)
	}
	return &cleaner{remove: re}, nil
}

// Clean composes Hangul, replaces disallowed characters with spaces and
// collapses whitespace.
func (c *cleaner) Clean(text string) string {
	text = norm.NFC.String(text)
	if c.remove != nil {
		text = c.remove.ReplaceAllString(text, " ")
	}
	return collapseSpaces(text)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// UnicodeSplitter finds sentence boundaries with the Unicode text segmentation rules.
type UnicodeSplitter struct{}

// Split implements Splitter.
func (UnicodeSplitter) Split(text string) ([]string, error) {
	var sentences []string
	state := -1
	rest := text
	for len(rest) > 0 {
		var sentence string
		sentence, rest, state = uniseg.FirstSentenceInString(rest, state)
		if s := strings.TrimSpace(sentence); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences, nil
}

var sentenceBreak = regexp.MustCompile(`[.!?。\n]+\s*`)

// RegexSplitter splits on runs of '.', '!', '?' and newlines.
type RegexSplitter struct{}

// Split implements Splitter.
func (RegexSplitter) Split(text string) ([]string, error) {
	var sentences []string
	for _, s := range sentenceBreak.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences, nil
}

// WhitespaceTokenizer splits on whitespace and applies the token filter.
type WhitespaceTokenizer struct {
	MinRunes int
}

// Tokenize implements Tokenizer.
func (t WhitespaceTokenizer) Tokenize(_ context.Context, text string) ([]string, error) {
	var tokens []string
	for _, word := range strings.Fields(text) {
		if tok, ok := filterToken(word, t.MinRunes, false); ok {
			tokens = append(tokens, tok)
		}
	}
	return tokens, nil
}

// AnalyzerTokenizer keeps the morphemes whose part-of-speech tag is allowed.
type AnalyzerTokenizer struct {
	Analyzer Analyzer
	Allowed  map[string]bool
	MinRunes int
}

// NewAnalyzerTokenizer creates a tokenizer keeping the given tags.
func NewAnalyzerTokenizer(analyzer Analyzer, tags []string, minRunes int) *AnalyzerTokenizer {
	allowed := make(map[string]bool, len(tags))
	for _, t := range tags {
		allowed[strings.ToUpper(strings.TrimSpace(t))] = true
	}
	return &AnalyzerTokenizer{Analyzer: analyzer, Allowed: allowed, MinRunes: minRunes}
}

// Tokenize implements Tokenizer. Errors are reserved for a failed analysis; a
// text made only of filtered tags yields no tokens.
func (t *AnalyzerTokenizer) Tokenize(ctx context.Context, text string) ([]string, error) {
	morphemes, err := t.Analyzer.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}
	var tokens []string
	for _, m := range morphemes {
		tag := strings.ToUpper(m.Tag)
		if !t.Allowed[tag] {
			continue
		}
		// Proper nouns are kept even when a single character.
		if tok, ok := filterToken(m.Form, t.MinRunes, tag == "NNP"); ok {
			tokens = append(tokens, tok)
		}
	}
	return tokens, nil
}

// filterToken trims edge punctuation and drops short or purely numeric tokens.
func filterToken(word string, minRunes int, keepShort bool) (string, bool) {
	tok := strings.TrimFunc(word, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
	if tok == "" {
		return "", false
	}
	if !keepShort && utf8.RuneCountInString(tok) < minRunes {
		return "", false
	}
	if isDigits(tok) {
		return "", false
	}
	return tok, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// removeStopwords drops tokens that are in stopwords and reports how many were dropped.
func removeStopwords(tokens []string, stopwords map[string]bool) ([]string, int) {
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !stopwords[tok] {
			kept = append(kept, tok)
		}
	}
	return kept, len(tokens) - len(kept)
}
