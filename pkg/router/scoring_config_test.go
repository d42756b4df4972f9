package router

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scoring.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadScoringConfig(t *testing.T) {
	path := writeTempConfig(t, `{
		"version": "v1",
		"analytical_keywords": [{"pattern": "calculate", "weight": 0.9}],
		"retrieval_keywords": [{"pattern": "summarize", "weight": 0.75}],
		"dataset_patterns": ["\\bdata\\b"],
		"default_analytical_score": 0.1,
		"default_retrieval_score": 0.1,
		"min_score": 0,
		"max_score": 1,
		"weights": {"dataset_mention": 0.6}
	}`)

	cfg, err := LoadScoringConfig(path)
	if err != nil {
		t.Fatalf("LoadScoringConfig returned error: %v", err)
	}
	if cfg.Version != "v1" {
		t.Errorf("Version = %q, want v1", cfg.Version)
	}

	got := Score(Normalize("calculate something from the data"), cfg)
	if !got.IsAnalyticalIntent || !got.MentionsDataset {
		t.Errorf("loaded config did not match, got %+v", got)
	}
}

func TestLoadScoringConfigMissingFile(t *testing.T) {
	cfg, err := LoadScoringConfig(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Error("expected error for missing file")
	}
	if cfg == nil || cfg.Version != "fallback" {
		t.Errorf("expected fallback config, got %+v", cfg)
	}
}

func TestLoadScoringConfigMalformedJSON(t *testing.T) {
	path := writeTempConfig(t, `{"version": "broken",`)

	cfg, err := LoadScoringConfig(path)
	if err == nil {
		t.Error("expected error for malformed JSON")
	}
	if cfg == nil || cfg.Version != "fallback" {
		t.Errorf("expected fallback config, got %+v", cfg)
	}
}

func TestLoadScoringConfigInvalidBounds(t *testing.T) {
	path := writeTempConfig(t, `{"version": "v1", "min_score": 1, "max_score": 0}`)

	cfg, err := LoadScoringConfig(path)
	if err == nil {
		t.Error("expected error for inverted bounds")
	}
	if cfg.Version != "fallback" {
		t.Errorf("expected fallback config, got version %q", cfg.Version)
	}
}

func TestLoadScoringConfigSkipsInvalidRegex(t *testing.T) {
	path := writeTempConfig(t, `{
		"version": "v1",
		"dataset_patterns": ["\\bdata\\b", "(unclosed"],
		"min_score": 0,
		"max_score": 1,
		"weights": {"dataset_mention": 0.6}
	}`)

	cfg, err := LoadScoringConfig(path)
	if err == nil {
		t.Error("expected error reporting the skipped pattern")
	}
	// The config itself stays usable with the valid patterns.
	if cfg.Version != "v1" {
		t.Errorf("Version = %q, want v1 (config kept despite bad regex)", cfg.Version)
	}
	got := Score(Normalize("look at the data"), cfg)
	if !got.MentionsDataset {
		t.Error("valid pattern should still match after skipping the bad one")
	}
}
