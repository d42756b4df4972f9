package router

import (
	"regexp"
	"strings"
)

// Score evaluates a normalized query against the configured pattern
// tables. Each keyword class contributes the MAXIMUM weight among its
// matching entries, never a sum, so repeated keywords cannot inflate a
// score past its configured ceiling. The function is total and does
// not mutate its inputs.
func Score(q PreprocessedQuery, cfg *ScoringConfig) HeuristicOutput {
	out := HeuristicOutput{
		AnalyticalScore: cfg.DefaultAnalyticalScore,
		RetrievalScore:  cfg.DefaultRetrievalScore,
	}

	if q.IsEmpty() {
		out.AnalyticalScore = clamp(out.AnalyticalScore, cfg.MinScore, cfg.MaxScore)
		out.RetrievalScore = clamp(out.RetrievalScore, cfg.MinScore, cfg.MaxScore)
		return out
	}

	text := q.NormalizedQuery

	if w, matched := maxMatchingWeight(text, cfg.AnalyticalKeywords); matched {
		out.IsAnalyticalIntent = true
		out.AnalyticalScore = max(out.AnalyticalScore, w)
	}

	if w, matched := maxMatchingWeight(text, cfg.RetrievalKeywords); matched {
		out.IsRetrievalIntent = true
		out.RetrievalScore = max(out.RetrievalScore, w)
	}

	if w, matched := maxMatchingWeight(text, cfg.VisualizationKeywords); matched {
		out.RequestsVisualization = true
		out.AnalyticalScore = max(out.AnalyticalScore, w)
		out.AnalyticalScore = max(out.AnalyticalScore, cfg.Weights.VisualizationRequest)
	}

	if anyRegexpMatches(text, cfg.datasetRegexps) {
		out.MentionsDataset = true
		out.AnalyticalScore = max(out.AnalyticalScore, cfg.Weights.DatasetMention)
	}

	if anyRegexpMatches(text, cfg.codeRegexps) {
		out.MentionsCode = true
		out.AnalyticalScore = max(out.AnalyticalScore, cfg.Weights.CodeMention)
	}

	out.AnalyticalScore = clamp(out.AnalyticalScore, cfg.MinScore, cfg.MaxScore)
	out.RetrievalScore = clamp(out.RetrievalScore, cfg.MinScore, cfg.MaxScore)
	return out
}

// maxMatchingWeight returns the highest weight among entries whose
// pattern occurs in the text, and whether any entry matched at all.
func maxMatchingWeight(text string, entries []WeightedPattern) (float64, bool) {
	best := 0.0
	matched := false
	for _, entry := range entries {
		if entry.Pattern == "" {
			continue
		}
		if strings.Contains(text, entry.Pattern) {
			if !matched || entry.Weight > best {
				best = entry.Weight
			}
			matched = true
		}
	}
	return best, matched
}

func anyRegexpMatches(text string, regexps []*regexp.Regexp) bool {
	for _, re := range regexps {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

