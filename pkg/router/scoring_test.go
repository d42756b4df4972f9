package router

import (
	"testing"
)

func testScoringConfig() *ScoringConfig {
	cfg := &ScoringConfig{
		Version: "test",
		AnalyticalKeywords: []WeightedPattern{
			{Pattern: "calculate", Weight: 0.9},
			{Pattern: "analyze", Weight: 0.8},
			{Pattern: "trend", Weight: 0.75},
			{Pattern: "average", Weight: 0.7},
			{Pattern: "compare", Weight: 0.7},
		},
		RetrievalKeywords: []WeightedPattern{
			{Pattern: "what were", Weight: 0.8},
			{Pattern: "summarize", Weight: 0.75},
			{Pattern: "findings", Weight: 0.7},
			{Pattern: "tell me about", Weight: 0.6},
		},
		VisualizationKeywords: []WeightedPattern{
			{Pattern: "plot", Weight: 0.8},
			{Pattern: "chart", Weight: 0.8},
			{Pattern: "graph", Weight: 0.75},
		},
		DatasetPatterns: []string{
			`\b(dataset|data set|csv|spreadsheet)\b`,
			`\bdata\b`,
		},
		CodePatterns: []string{
			`\b(python|sql|pandas|script)\b`,
		},
		DefaultAnalyticalScore: 0.1,
		DefaultRetrievalScore:  0.1,
		MinScore:               0.0,
		MaxScore:               1.0,
		Weights: ScoringWeights{
			VisualizationRequest: 0.85,
			DatasetMention:       0.6,
			CodeMention:          0.65,
		},
	}
	cfg.compile(nil)
	return cfg
}

func TestScoreEmptyQuery(t *testing.T) {
	cfg := testScoringConfig()
	got := Score(Normalize(""), cfg)

	if got.IsAnalyticalIntent || got.IsRetrievalIntent || got.RequestsVisualization ||
		got.MentionsDataset || got.MentionsCode {
		t.Errorf("empty query should set no flags, got %+v", got)
	}
	if got.AnalyticalScore != cfg.DefaultAnalyticalScore {
		t.Errorf("AnalyticalScore = %v, want default %v", got.AnalyticalScore, cfg.DefaultAnalyticalScore)
	}
	if got.RetrievalScore != cfg.DefaultRetrievalScore {
		t.Errorf("RetrievalScore = %v, want default %v", got.RetrievalScore, cfg.DefaultRetrievalScore)
	}
}

func TestScoreRetrievalQuery(t *testing.T) {
	cfg := testScoringConfig()
	got := Score(Normalize("What were the main findings of the Q3 report?"), cfg)

	if !got.IsRetrievalIntent {
		t.Error("IsRetrievalIntent should be true")
	}
	if got.IsAnalyticalIntent {
		t.Error("IsAnalyticalIntent should be false")
	}
	if got.RetrievalScore != 0.8 {
		t.Errorf("RetrievalScore = %v, want 0.8 (max of matching weights)", got.RetrievalScore)
	}
	if got.AnalyticalScore != cfg.DefaultAnalyticalScore {
		t.Errorf("AnalyticalScore = %v, want default", got.AnalyticalScore)
	}
}

func TestScoreVisualizationQuery(t *testing.T) {
	cfg := testScoringConfig()
	got := Score(Normalize("Plot monthly sales trend for product X"), cfg)

	if !got.RequestsVisualization {
		t.Error("RequestsVisualization should be true")
	}
	if !got.IsAnalyticalIntent {
		t.Error("IsAnalyticalIntent should be true (trend keyword)")
	}
	if got.AnalyticalScore < cfg.Weights.VisualizationRequest {
		t.Errorf("AnalyticalScore = %v, want at least visualization weight %v",
			got.AnalyticalScore, cfg.Weights.VisualizationRequest)
	}
}

func TestScoreMaxNotSum(t *testing.T) {
	cfg := testScoringConfig()
	// Two analytical keywords match; the contribution must be the max
	// weight (0.9), never the sum.
	got := Score(Normalize("calculate the average"), cfg)

	if got.AnalyticalScore != 0.9 {
		t.Errorf("AnalyticalScore = %v, want 0.9", got.AnalyticalScore)
	}
}

func TestScoreDatasetMention(t *testing.T) {
	cfg := testScoringConfig()
	got := Score(Normalize("Tell me about the data."), cfg)

	if !got.MentionsDataset {
		t.Error("MentionsDataset should be true")
	}
	if !got.IsRetrievalIntent {
		t.Error("IsRetrievalIntent should be true")
	}
	if got.AnalyticalScore != cfg.Weights.DatasetMention {
		t.Errorf("AnalyticalScore = %v, want dataset weight %v", got.AnalyticalScore, cfg.Weights.DatasetMention)
	}
}

func TestScoreCodeMention(t *testing.T) {
	cfg := testScoringConfig()
	got := Score(Normalize("run this python script over the results"), cfg)

	if !got.MentionsCode {
		t.Error("MentionsCode should be true")
	}
	if got.AnalyticalScore != cfg.Weights.CodeMention {
		t.Errorf("AnalyticalScore = %v, want code weight %v", got.AnalyticalScore, cfg.Weights.CodeMention)
	}
}

func TestScoreBoundedness(t *testing.T) {
	cfg := testScoringConfig()
	// Weights outside the configured range must clamp.
	cfg.AnalyticalKeywords = append(cfg.AnalyticalKeywords, WeightedPattern{Pattern: "overflow", Weight: 3.5})
	cfg.RetrievalKeywords = append(cfg.RetrievalKeywords, WeightedPattern{Pattern: "underflow", Weight: -2.0})

	queries := []string{
		"",
		"overflow the scale",
		"underflow please",
		"calculate and plot everything in the dataset with python",
		"completely unrelated gibberish",
	}
	for _, raw := range queries {
		got := Score(Normalize(raw), cfg)
		if got.AnalyticalScore < cfg.MinScore || got.AnalyticalScore > cfg.MaxScore {
			t.Errorf("query %q: AnalyticalScore %v outside [%v,%v]", raw, got.AnalyticalScore, cfg.MinScore, cfg.MaxScore)
		}
		if got.RetrievalScore < cfg.MinScore || got.RetrievalScore > cfg.MaxScore {
			t.Errorf("query %q: RetrievalScore %v outside [%v,%v]", raw, got.RetrievalScore, cfg.MinScore, cfg.MaxScore)
		}
	}
}

func TestFallbackScoringConfigIsInert(t *testing.T) {
	cfg := FallbackScoringConfig()
	got := Score(Normalize("calculate the trend and plot it from the dataset"), cfg)

	if got.IsAnalyticalIntent || got.IsRetrievalIntent || got.RequestsVisualization ||
		got.MentionsDataset || got.MentionsCode {
		t.Errorf("fallback config should match nothing, got %+v", got)
	}
	if got.AnalyticalScore != 0 || got.RetrievalScore != 0 {
		t.Errorf("fallback scores should stay at floor, got %v/%v", got.AnalyticalScore, got.RetrievalScore)
	}
}
