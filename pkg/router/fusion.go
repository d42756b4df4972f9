package router

import "fmt"

// FusionConfig carries the confidence tiers used when combining the
// heuristic and model signals. The numeric defaults are tuning
// constants, not invariants; the only hard requirement is
// high > mid > 0.
type FusionConfig struct {
	HighConfidenceThreshold float64
	MidConfidenceThreshold  float64
	ContradictionMargin     float64
	MinimumConfidence       float64
}

// DefaultFusionConfig returns the thresholds used when none are
// configured externally.
func DefaultFusionConfig() FusionConfig {
	return FusionConfig{
		HighConfidenceThreshold: 0.8,
		MidConfidenceThreshold:  0.5,
		ContradictionMargin:     0.2,
		MinimumConfidence:       0.1,
	}
}

// Decide combines the heuristic output and the optional model
// classification into a final routing decision. Pure, total and
// deterministic: every branch yields a valid decision with a non-empty
// reasoning, and both inputs are echoed into Details for audit replay.
func Decide(q PreprocessedQuery, heuristics *HeuristicOutput, model *ModelClassification, cfg FusionConfig) RouterDecision {
	details := DecisionDetails{LLMClassification: model}
	if heuristics != nil {
		details.Heuristics = *heuristics
	}

	// Tier 5: neither signal available. Defensive; the orchestrator
	// always produces heuristics, so reaching this means something
	// upstream went badly wrong.
	if heuristics == nil && model == nil {
		return RouterDecision{
			ChosenPath: PathClarificationNeeded,
			Confidence: cfg.MinimumConfidence,
			Reasoning:  "critical error: no heuristic or model signal available, requesting clarification",
			Details:    details,
		}
	}

	if model != nil {
		switch {
		case model.Confidence >= cfg.HighConfidenceThreshold:
			return decideHighConfidence(model, details)
		case model.Confidence >= cfg.MidConfidenceThreshold:
			return decideMidConfidence(heuristics, model, cfg, details)
		default:
			return decideLowConfidence(heuristics, model, cfg, details)
		}
	}

	return decideHeuristicsOnly(heuristics, cfg, details)
}

// Tier 1: the model is confident enough to be trusted outright.
func decideHighConfidence(model *ModelClassification, details DecisionDetails) RouterDecision {
	return RouterDecision{
		ChosenPath: classificationToPath(model.Classification),
		Confidence: model.Confidence,
		Reasoning: fmt.Sprintf("model classified query as %q with high confidence %.2f",
			model.Classification, model.Confidence),
		Details: details,
	}
}

// Tier 2: the model is plausible but not authoritative; check whether
// the heuristics agree before following it.
func decideMidConfidence(h *HeuristicOutput, model *ModelClassification, cfg FusionConfig, details DecisionDetails) RouterDecision {
	if model.Classification == ClassClarificationNeeded {
		return RouterDecision{
			ChosenPath: PathClarificationNeeded,
			Confidence: model.Confidence,
			Reasoning: fmt.Sprintf("model requested clarification with mid confidence %.2f",
				model.Confidence),
			Details: details,
		}
	}

	var heur HeuristicOutput
	if h != nil {
		heur = *h
	}

	favored, opposing := heur.AnalyticalScore, heur.RetrievalScore
	if model.Classification == ClassDirectRetrieval {
		favored, opposing = heur.RetrievalScore, heur.AnalyticalScore
	}

	if favored >= opposing {
		return RouterDecision{
			ChosenPath: classificationToPath(model.Classification),
			Confidence: model.Confidence,
			Reasoning: fmt.Sprintf("model classification %q (confidence %.2f) agrees with heuristic scores (%.2f vs %.2f)",
				model.Classification, model.Confidence, favored, opposing),
			Details: details,
		}
	}

	if opposing-favored > cfg.ContradictionMargin {
		return RouterDecision{
			ChosenPath: PathClarificationNeeded,
			Confidence: model.Confidence,
			Reasoning: fmt.Sprintf("heuristics strongly contradict model classification %q (%.2f vs %.2f, margin %.2f), requesting clarification",
				model.Classification, opposing, favored, cfg.ContradictionMargin),
			Details: details,
		}
	}

	return RouterDecision{
		ChosenPath: classificationToPath(model.Classification),
		Confidence: model.Confidence,
		Reasoning: fmt.Sprintf("model classification %q (confidence %.2f) mildly contradicted by heuristics (%.2f vs %.2f), following the model",
			model.Classification, model.Confidence, opposing, favored),
		Details: details,
	}
}

// Tier 3: the model answered but with weak confidence; prefer a
// decisive heuristic signal, otherwise give up and ask the user.
func decideLowConfidence(h *HeuristicOutput, model *ModelClassification, cfg FusionConfig, details DecisionDetails) RouterDecision {
	var heur HeuristicOutput
	if h != nil {
		heur = *h
	}

	if heur.AnalyticalScore > cfg.HighConfidenceThreshold && heur.AnalyticalScore > heur.RetrievalScore {
		return RouterDecision{
			ChosenPath: PathAnalyticalRAG,
			Confidence: heur.AnalyticalScore,
			Reasoning: fmt.Sprintf("model confidence too low (%.2f), overriding with dominant analytical heuristic score %.2f",
				model.Confidence, heur.AnalyticalScore),
			Details: details,
		}
	}
	if heur.RetrievalScore > cfg.HighConfidenceThreshold && heur.RetrievalScore > heur.AnalyticalScore {
		return RouterDecision{
			ChosenPath: PathDirectVectorRAG,
			Confidence: heur.RetrievalScore,
			Reasoning: fmt.Sprintf("model confidence too low (%.2f), overriding with dominant retrieval heuristic score %.2f",
				model.Confidence, heur.RetrievalScore),
			Details: details,
		}
	}

	weak := max(model.Confidence, max(heur.AnalyticalScore, heur.RetrievalScore))
	return RouterDecision{
		ChosenPath: PathClarificationNeeded,
		Confidence: weak,
		Reasoning: fmt.Sprintf("all signals weak (model %.2f, analytical %.2f, retrieval %.2f), requesting clarification",
			model.Confidence, heur.AnalyticalScore, heur.RetrievalScore),
		Details: details,
	}
}

// Tier 4: no model output at all; the heuristics decide alone.
func decideHeuristicsOnly(h *HeuristicOutput, cfg FusionConfig, details DecisionDetails) RouterDecision {
	heur := *h

	if heur.AnalyticalScore >= cfg.MidConfidenceThreshold && heur.AnalyticalScore > heur.RetrievalScore {
		return RouterDecision{
			ChosenPath: PathAnalyticalRAG,
			Confidence: heur.AnalyticalScore,
			Reasoning: fmt.Sprintf("no model output, analytical heuristic score %.2f dominates retrieval %.2f",
				heur.AnalyticalScore, heur.RetrievalScore),
			Details: details,
		}
	}
	if heur.RetrievalScore >= cfg.MidConfidenceThreshold && heur.RetrievalScore > heur.AnalyticalScore {
		return RouterDecision{
			ChosenPath: PathDirectVectorRAG,
			Confidence: heur.RetrievalScore,
			Reasoning: fmt.Sprintf("no model output, retrieval heuristic score %.2f dominates analytical %.2f",
				heur.RetrievalScore, heur.AnalyticalScore),
			Details: details,
		}
	}

	return RouterDecision{
		ChosenPath: PathClarificationNeeded,
		Confidence: max(heur.AnalyticalScore, heur.RetrievalScore),
		Reasoning: fmt.Sprintf("no model output and no dominant heuristic (analytical %.2f, retrieval %.2f), requesting clarification",
			heur.AnalyticalScore, heur.RetrievalScore),
		Details: details,
	}
}

// classificationToPath maps a model classification onto a routing path.
// Unknown values (already filtered by the classifier's validation)
// degrade to clarification.
func classificationToPath(classification string) RoutePath {
	switch classification {
	case ClassAnalyticalTask:
		return PathAnalyticalRAG
	case ClassDirectRetrieval:
		return PathDirectVectorRAG
	case ClassClarificationNeeded:
		return PathClarificationNeeded
	default:
		return PathClarificationNeeded
	}
}
