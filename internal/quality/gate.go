// Package quality classifies generated answers so the caller can offer a
// "contact a person" path when an answer is unlikely to be useful.
package quality

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hyodin/dollkongbot/internal/config"
)

// Reasons reported in Verdict.Reasons.
const (
	ReasonNoContext     = "no_context"
	ReasonLowSimilarity = "low_similarity"
	ReasonHedging       = "hedging"
	ReasonTooShort      = "too_short"
)

// Verdict is the gate's classification of one answer.
type Verdict struct {
	LowQuality bool     `json:"low_quality"`
	Confidence float32  `json:"confidence"`
	Reasons    []string `json:"reasons,omitempty"`
}

// Gate is a pure function of (answer, context scores). It holds no mutable state.
type Gate struct {
	threshold float32
	hedgeCap  float32
	minRunes  int
	patterns  []*regexp.Regexp
}

// NewGate compiles the hedging patterns. A zero rules.ConfidenceThreshold
// falls back to defaultThreshold.
func NewGate(rules config.QualityRules, defaultThreshold float32) (*Gate, error) {
	threshold := rules.ConfidenceThreshold
	if threshold == 0 {
		threshold = defaultThreshold
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("confidence threshold must be between 0 and 1, got %v", threshold)
	}

	if rules.MinAnswerRunes < 0 {
		return nil, fmt.Errorf("min answer runes must not be negative, got %d", rules.MinAnswerRunes)
	}

	g := &Gate{threshold: threshold, hedgeCap: clamp(rules.HedgeConfidenceCap), minRunes: rules.MinAnswerRunes}
	for i, p := range rules.HedgePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid hedge pattern %d: %w", i, err)
		}
		g.patterns = append(g.patterns, re)
	}
	return g, nil
}

// Threshold returns the confidence threshold in use.
func (g *Gate) Threshold() float32 {
	return g.threshold
}

// Evaluate classifies answer given the similarity scores of the context that
// produced it. Confidence is the best context score, capped when the answer
// hedges, and 0 without context.
func (g *Gate) Evaluate(answer string, scores []float32) Verdict {
	var v Verdict

	if len(scores) == 0 {
		v.Reasons = append(v.Reasons, ReasonNoContext)
	} else {
		best := scores[0]
		for _, s := range scores[1:] {
			best = max(best, s)
		}
		v.Confidence = clamp(best)
		if best < g.threshold {
			v.Reasons = append(v.Reasons, ReasonLowSimilarity)
		}
	}

	if g.hedges(answer) {
		v.Reasons = append(v.Reasons, ReasonHedging)
		v.Confidence = min(v.Confidence, g.hedgeCap)
	}

	if g.minRunes > 0 && utf8.RuneCountInString(strings.TrimSpace(PlainText(answer))) < g.minRunes {
		v.Reasons = append(v.Reasons, ReasonTooShort)
	}

	v.LowQuality = len(v.Reasons) > 0
	return v
}

func (g *Gate) hedges(answer string) bool {
	if len(g.patterns) == 0 {
		return false
	}
	plain := PlainText(answer)
	for _, re := range g.patterns {
		if re.MatchString(plain) {
			return true
		}
	}
	return false
}

func clamp(v float32) float32 {
	return min(max(v, 0), 1)
}
