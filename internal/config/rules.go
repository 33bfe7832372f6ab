package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Rules is operational configuration that can change without a redeploy:
// query normalization stages, quality gate thresholds and context labels.
type Rules struct {
	Normalization  NormalizationRules  `yaml:"normalization"`
	TextCleaning   TextCleaningRules   `yaml:"text_cleaning"`
	Sentences      SentenceRules       `yaml:"sentence_splitting"`
	Morphology     MorphologyRules     `yaml:"morphological_analysis"`
	Stopwords      StopwordRules       `yaml:"stopwords"`
	Quality        QualityRules        `yaml:"quality"`
	ContextLabels  ContextLabels       `yaml:"context_labels"`
	SheetDetection SheetDetectionRules `yaml:"sheet_detection"`
}

// NormalizationRules toggles the whole query normalization pipeline.
type NormalizationRules struct {
	Enabled bool `yaml:"enabled"`
}

// TextCleaningRules configures the cleaning stage.
type TextCleaningRules struct {
	Enabled       bool   `yaml:"enabled"`
	RemovePattern string `yaml:"remove_pattern"`
}

// SentenceRules configures the sentence splitting stage.
type SentenceRules struct {
	Enabled       bool `yaml:"enabled"`
	LanguageAware bool `yaml:"language_aware"`
}

// MorphologyRules configures the tokenization stage.
type MorphologyRules struct {
	Enabled       bool     `yaml:"enabled"`
	TargetPOSTags []string `yaml:"target_pos_tags"`
	MinTokenRunes int      `yaml:"min_token_runes"`
}

// StopwordRules lists the grammatical tokens dropped from queries.
type StopwordRules struct {
	Enabled   bool     `yaml:"enabled"`
	Particles []string `yaml:"particles"`
	Endings   []string `yaml:"endings"`
	Pronouns  []string `yaml:"pronouns"`
	Others    []string `yaml:"others"`
}

// All returns every configured stopword.
func (s StopwordRules) All() []string {
	all := make([]string, 0, len(s.Particles)+len(s.Endings)+len(s.Pronouns)+len(s.Others))
	all = append(all, s.Particles...)
	all = append(all, s.Endings...)
	all = append(all, s.Pronouns...)
	all = append(all, s.Others...)
	return all
}

// QualityRules configures the answer quality gate.
type QualityRules struct {
	// ConfidenceThreshold of 0 means "use the CONFIDENCE_THRESHOLD env value".
	ConfidenceThreshold float32  `yaml:"confidence_threshold"`
	HedgeConfidenceCap  float32  `yaml:"hedge_confidence_cap"`
	HedgePatterns       []string `yaml:"hedge_patterns"`
	// MinAnswerRunes flags answers shorter than this many characters. 0 disables the check.
	MinAnswerRunes int `yaml:"min_answer_runes"`
}

// ContextLabels are the localized labels written into chunk context text.
type ContextLabels struct {
	Taxonomy string `yaml:"taxonomy"`
	Lvl1     string `yaml:"lvl1"`
	Lvl2     string `yaml:"lvl2"`
	Lvl3     string `yaml:"lvl3"`
	Category string `yaml:"category"`
	Detail   string `yaml:"detail"`
}

// SheetDetectionRules lists the header keywords used to locate hierarchy columns.
type SheetDetectionRules struct {
	HeaderScanRows int      `yaml:"header_scan_rows"`
	Lvl1Keywords   []string `yaml:"lvl1_keywords"`
	Lvl2Keywords   []string `yaml:"lvl2_keywords"`
	Lvl3Keywords   []string `yaml:"lvl3_keywords"`
	DetailKeywords []string `yaml:"detail_keywords"`
	NotesKeywords  []string `yaml:"notes_keywords"`
}

// DefaultRules returns the built-in rule set.
func DefaultRules() *Rules {
	return &Rules{
		Normalization: NormalizationRules{Enabled: true},
		TextCleaning: TextCleaningRules{
			Enabled:       true,
			RemovePattern: `[^0-9A-Za-z_\p{Hangul}\s.,!?;:\-]`,
		},
		Sentences: SentenceRules{Enabled: true, LanguageAware: true},
		Morphology: MorphologyRules{
			Enabled:       true,
			TargetPOSTags: []string{"NNG", "NNP", "VV", "VA", "MAG"},
			MinTokenRunes: 2,
		},
		Stopwords: StopwordRules{
			Enabled:   true,
			Particles: []string{"이", "가", "을", "를", "은", "는", "의", "에", "에서", "으로", "로", "와", "과", "도", "만"},
			Endings:   []string{"입니다", "습니다", "하다", "해요", "인가요", "나요", "까요"},
			Pronouns:  []string{"그", "이", "저", "그것", "이것", "저것"},
			Others:    []string{"것", "수", "때", "좀", "혹시"},
		},
		Quality: QualityRules{
			HedgeConfidenceCap: 0.2,
			HedgePatterns: []string{
				`죄송`,
				`찾을 수 없`,
				`정보가 없`,
				`알 수 없`,
				`확인할 수 없`,
				`담당자에게 문의`,
				`(?i)\bI (?:do not|don't) know\b`,
				`(?i)\bno (?:relevant )?information\b`,
			},
		},
		ContextLabels: ContextLabels{
			Taxonomy: "분류 체계",
			Lvl1:     "대분류",
			Lvl2:     "중분류",
			Lvl3:     "소분류",
			Category: "구분1",
			Detail:   "상세 내용",
		},
		SheetDetection: SheetDetectionRules{
			HeaderScanRows: 10,
			Lvl1Keywords:   []string{"대분류", "구분1", "lvl1", "level1", "category"},
			Lvl2Keywords:   []string{"중분류", "구분2", "lvl2", "level2", "subcategory"},
			Lvl3Keywords:   []string{"소분류", "구분3", "lvl3", "level3", "질문", "항목", "question"},
			DetailKeywords: []string{"상세", "내용", "답변", "lvl4", "level4", "detail", "answer"},
			NotesKeywords:  []string{"비고", "참고", "메모", "notes", "note", "remark"},
		},
	}
}

// LoadRules reads rules from path. A missing file yields the defaults.
// Keys absent from the file keep their default values.
func LoadRules(path string) (*Rules, error) {
	rules := DefaultRules()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return rules, nil
		}
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return rules, nil
}

// SaveRules writes rules to path, creating directories as needed.
func SaveRules(path string, rules *Rules) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create rules directory: %w", err)
	}
	data, err := yaml.Marshal(rules)
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks that every configured pattern compiles and thresholds are in range.
func (r *Rules) Validate() error {
	if r.TextCleaning.RemovePattern != "" {
		if _, err := regexp.Compile(r.TextCleaning.RemovePattern); err != nil {
			return fmt.Errorf("text_cleaning.remove_pattern is invalid: %w", err)
		}
	}
	for i, p := range r.Quality.HedgePatterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("quality.hedge_patterns[%d] is invalid: %w", i, err)
		}
	}
	if r.Quality.ConfidenceThreshold < 0 || r.Quality.ConfidenceThreshold > 1 {
		return fmt.Errorf("quality.confidence_threshold must be between 0 and 1")
	}
	if r.Quality.HedgeConfidenceCap < 0 || r.Quality.HedgeConfidenceCap > 1 {
		return fmt.Errorf("quality.hedge_confidence_cap must be between 0 and 1")
	}
	if r.Morphology.MinTokenRunes < 0 {
		return fmt.Errorf("morphological_analysis.min_token_runes must not be negative")
	}
	return nil
}
