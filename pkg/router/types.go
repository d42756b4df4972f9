package router

// RoutePath is the terminal destination a query can be dispatched to.
type RoutePath string

const (
	PathDirectVectorRAG     RoutePath = "direct_vector_rag"
	PathAnalyticalRAG       RoutePath = "analytical_rag"
	PathClarificationNeeded RoutePath = "user_clarification_needed"
)

// Classification values the model is allowed to return.
const (
	ClassDirectRetrieval     = "direct_retrieval"
	ClassAnalyticalTask      = "analytical_task"
	ClassClarificationNeeded = "clarification_needed"
)

// PreprocessedQuery is the output of normalization. Created once per
// request and never mutated afterwards.
type PreprocessedQuery struct {
	OriginalQuery   string `json:"original_query"`
	NormalizedQuery string `json:"normalized_query"`
	Language        string `json:"language,omitempty"`
}

// IsEmpty returns true when nothing useful survived normalization.
func (q PreprocessedQuery) IsEmpty() bool {
	return q.NormalizedQuery == ""
}

// HeuristicOutput holds the deterministic, pattern-derived signals for
// one query. Scores are clamped to the configured [MinScore, MaxScore].
type HeuristicOutput struct {
	IsAnalyticalIntent    bool    `json:"is_analytical_intent"`
	IsRetrievalIntent     bool    `json:"is_retrieval_intent"`
	RequestsVisualization bool    `json:"requests_visualization"`
	MentionsDataset       bool    `json:"mentions_dataset"`
	MentionsCode          bool    `json:"mentions_code"`
	AnalyticalScore       float64 `json:"analytical_score"`
	RetrievalScore        float64 `json:"retrieval_score"`
}

// ModelClassification is the validated answer from the external model.
// A nil *ModelClassification is the expected state when the model call
// was skipped or failed; it is not an error for downstream logic.
type ModelClassification struct {
	Classification string  `json:"classification"`
	Confidence     float64 `json:"confidence"`
	Reasoning      string  `json:"reasoning,omitempty"`
}

// DecisionDetails echoes the raw fusion inputs for audit replay.
type DecisionDetails struct {
	Heuristics        HeuristicOutput      `json:"heuristics"`
	LLMClassification *ModelClassification `json:"llm_classification"`
}

// RouterDecision is the terminal artifact of one routing request.
// Written once, handed to the caller and to the audit sink.
type RouterDecision struct {
	ChosenPath RoutePath       `json:"chosen_path"`
	Confidence float64         `json:"confidence"`
	Reasoning  string          `json:"reasoning"`
	Details    DecisionDetails `json:"details"`
}

// Correction is one (misspelled span, replacement) pair produced by an
// optional spelling-correction preprocessor.
type Correction struct {
	Span        string `json:"span"`
	Replacement string `json:"replacement"`
}

// Corrector is the pluggable spelling-correction boundary. The engine
// applies the returned corrections before normalization. Correction
// internals are out of scope here.
type Corrector interface {
	Correct(raw string) []Correction
}

// NoopCorrector satisfies Corrector without changing anything.
type NoopCorrector struct{}

func (NoopCorrector) Correct(string) []Correction { return nil }
