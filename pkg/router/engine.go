package router

import (
	"context"
	"strings"
	"sync/atomic"

	"ai-query-router/internal/pkg/logger"
)

// AuditSink receives exactly one record per routing call. Failures are
// the sink's own problem: the engine logs them and still returns the
// decision to the caller.
type AuditSink interface {
	Record(ctx context.Context, rawQuery string, decision *RouterDecision) error
}

// GateConfig controls when the engine skips the external model call
// because the heuristics are already decisive. The gate exists purely
// to bound the latency and cost of the model call.
type GateConfig struct {
	// ClearWinnerGap is the minimum distance between the two scores for
	// one of them to count as a clear winner.
	ClearWinnerGap float64
	// CriticalScoreFloor guards against skipping on a degenerate
	// config: if either score sits below it, the model is consulted.
	CriticalScoreFloor float64
}

func DefaultGateConfig() GateConfig {
	return GateConfig{
		ClearWinnerGap:     0.25,
		CriticalScoreFloor: 0.05,
	}
}

// Engine sequences normalization, heuristic scoring, the optional
// model classification and decision fusion for one query, then emits
// one audit record. Engines are safe for concurrent use: per-request
// state lives on the stack and the scoring config is swapped
// atomically between requests.
type Engine struct {
	scoring    atomic.Pointer[ScoringConfig]
	fusion     FusionConfig
	gate       GateConfig
	classifier QueryClassifier
	corrector  Corrector
	audit      AuditSink
	logger     logger.ILogger
}

// EngineOption mutates the engine during construction.
type EngineOption func(*Engine)

func WithClassifier(c QueryClassifier) EngineOption {
	return func(e *Engine) { e.classifier = c }
}

func WithCorrector(c Corrector) EngineOption {
	return func(e *Engine) { e.corrector = c }
}

func WithAuditSink(s AuditSink) EngineOption {
	return func(e *Engine) { e.audit = s }
}

func WithFusionConfig(cfg FusionConfig) EngineOption {
	return func(e *Engine) { e.fusion = cfg }
}

func WithGateConfig(cfg GateConfig) EngineOption {
	return func(e *Engine) { e.gate = cfg }
}

func WithLogger(log logger.ILogger) EngineOption {
	return func(e *Engine) { e.logger = log }
}

func NewEngine(scoringCfg *ScoringConfig, opts ...EngineOption) *Engine {
	e := &Engine{
		fusion:    DefaultFusionConfig(),
		gate:      DefaultGateConfig(),
		corrector: NoopCorrector{},
		logger:    logger.NopLogger{},
	}
	if scoringCfg == nil {
		scoringCfg = FallbackScoringConfig()
	}
	e.scoring.Store(scoringCfg)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ReloadScoringConfig swaps in a new pattern table. In-flight requests
// keep the config they started with.
func (e *Engine) ReloadScoringConfig(cfg *ScoringConfig) {
	if cfg == nil {
		cfg = FallbackScoringConfig()
	}
	e.scoring.Store(cfg)
}

// Route runs the full decision pipeline for one raw query. The only
// error it returns is context cancellation; every other failure
// degrades into a valid decision. A cancelled request produces no
// decision and no audit record.
func (e *Engine) Route(ctx context.Context, rawQuery string) (*RouterDecision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := e.scoring.Load()

	corrected := e.applyCorrections(rawQuery)
	query := Normalize(corrected)
	heuristics := Score(query, cfg)

	e.logger.Debug("router", "Query scored", map[string]interface{}{
		"normalized_query": query.NormalizedQuery,
		"analytical_score": heuristics.AnalyticalScore,
		"retrieval_score":  heuristics.RetrievalScore,
	})

	var classification *ModelClassification
	if e.shouldCallModel(query, heuristics) {
		classification = e.classifier.Classify(ctx, query, heuristics)
	} else {
		e.logger.Info("router", "Model call skipped, heuristics decisive", map[string]interface{}{
			"analytical_score": heuristics.AnalyticalScore,
			"retrieval_score":  heuristics.RetrievalScore,
		})
	}

	// A cancelled call must not yield a partial decision.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	decision := Decide(query, &heuristics, classification, e.fusion)

	e.writeAudit(ctx, rawQuery, &decision)

	e.logger.Info("router", "Routing decision made", map[string]interface{}{
		"chosen_path": string(decision.ChosenPath),
		"confidence":  decision.Confidence,
		"reasoning":   decision.Reasoning,
	})

	return &decision, nil
}

// applyCorrections runs the optional spelling corrector over the raw
// query. Each correction replaces all occurrences of its span.
func (e *Engine) applyCorrections(rawQuery string) string {
	if e.corrector == nil {
		return rawQuery
	}
	corrected := rawQuery
	for _, c := range e.corrector.Correct(rawQuery) {
		if c.Span == "" {
			continue
		}
		corrected = strings.ReplaceAll(corrected, c.Span, c.Replacement)
	}
	return corrected
}

// shouldCallModel is the gating decision: consult the model unless the
// heuristics already show a clear, trustworthy winner.
func (e *Engine) shouldCallModel(q PreprocessedQuery, h HeuristicOutput) bool {
	if e.classifier == nil {
		return false
	}
	if q.IsEmpty() {
		// Nothing for the model to look at; fusion will ask for
		// clarification on heuristics alone.
		return false
	}

	winner := max(h.AnalyticalScore, h.RetrievalScore)
	loser := min(h.AnalyticalScore, h.RetrievalScore)

	decisive := winner-loser >= e.gate.ClearWinnerGap &&
		winner > e.fusion.MidConfidenceThreshold &&
		loser >= e.gate.CriticalScoreFloor
	return !decisive
}

// writeAudit performs the single audit write for this call. Audit
// failure never reaches the caller.
func (e *Engine) writeAudit(ctx context.Context, rawQuery string, decision *RouterDecision) {
	if e.audit == nil {
		return
	}
	if err := e.audit.Record(ctx, rawQuery, decision); err != nil {
		e.logger.Error("router", "Audit write failed", map[string]interface{}{
			"error":       err.Error(),
			"chosen_path": string(decision.ChosenPath),
		})
	}
}
