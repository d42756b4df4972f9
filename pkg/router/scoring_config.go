package router

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
)

// WeightedPattern is one configured keyword phrase with its score
// contribution. Patterns are matched as substrings of the normalized
// query, so multi-word phrases work as written.
type WeightedPattern struct {
	Pattern string  `json:"pattern"`
	Weight  float64 `json:"weight"`
}

// ScoringWeights holds the fixed contributions for the non-keyword
// signal classes.
type ScoringWeights struct {
	VisualizationRequest float64 `json:"visualization_request"`
	DatasetMention       float64 `json:"dataset_mention"`
	CodeMention          float64 `json:"code_mention"`
}

// ScoringConfig is the externally supplied, versioned pattern table
// driving heuristic scoring. It is loaded once at startup (or reloaded
// between requests) and treated as immutable while a request is in
// flight.
type ScoringConfig struct {
	Version               string            `json:"version"`
	AnalyticalKeywords    []WeightedPattern `json:"analytical_keywords"`
	RetrievalKeywords     []WeightedPattern `json:"retrieval_keywords"`
	VisualizationKeywords []WeightedPattern `json:"visualization_keywords"`
	DatasetPatterns       []string          `json:"dataset_patterns"`
	CodePatterns          []string          `json:"code_patterns"`

	DefaultAnalyticalScore float64        `json:"default_analytical_score"`
	DefaultRetrievalScore  float64        `json:"default_retrieval_score"`
	MinScore               float64        `json:"min_score"`
	MaxScore               float64        `json:"max_score"`
	Weights                ScoringWeights `json:"weights"`

	datasetRegexps []*regexp.Regexp
	codeRegexps    []*regexp.Regexp
}

// FallbackScoringConfig returns the inert configuration substituted
// when loading fails: empty pattern tables and floor defaults, so every
// query degrades to clarification instead of crashing the engine.
func FallbackScoringConfig() *ScoringConfig {
	cfg := &ScoringConfig{
		Version:                "fallback",
		DefaultAnalyticalScore: 0.0,
		DefaultRetrievalScore:  0.0,
		MinScore:               0.0,
		MaxScore:               1.0,
	}
	cfg.compile(nil)
	return cfg
}

// LoadScoringConfig reads the pattern tables from a JSON document.
// Any failure (missing file, malformed JSON, inconsistent bounds)
// yields the fallback configuration and a non-nil error so the caller
// can log what happened; the returned config is always usable.
func LoadScoringConfig(path string) (*ScoringConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FallbackScoringConfig(), fmt.Errorf("read scoring config: %w", err)
	}

	var cfg ScoringConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return FallbackScoringConfig(), fmt.Errorf("parse scoring config: %w", err)
	}

	if cfg.MaxScore <= cfg.MinScore {
		return FallbackScoringConfig(), fmt.Errorf("invalid scoring bounds: min=%v max=%v", cfg.MinScore, cfg.MaxScore)
	}

	var skipped []string
	cfg.compile(func(pattern string) { skipped = append(skipped, pattern) })
	if len(skipped) > 0 {
		return &cfg, fmt.Errorf("skipped %d invalid regex pattern(s): %v", len(skipped), skipped)
	}
	return &cfg, nil
}

// compile precompiles the regex pattern lists. Invalid patterns are
// reported through onBad and skipped; they never abort loading.
func (c *ScoringConfig) compile(onBad func(pattern string)) {
	c.datasetRegexps = compilePatterns(c.DatasetPatterns, onBad)
	c.codeRegexps = compilePatterns(c.CodePatterns, onBad)
}

func compilePatterns(patterns []string, onBad func(pattern string)) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			if onBad != nil {
				onBad(p)
			}
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}
