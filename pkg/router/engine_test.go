package router

import (
	"context"
	"errors"
	"testing"
)

// fakeClassifier returns a scripted classification and counts calls.
type fakeClassifier struct {
	result *ModelClassification
	calls  int
}

func (f *fakeClassifier) Classify(context.Context, PreprocessedQuery, HeuristicOutput) *ModelClassification {
	f.calls++
	return f.result
}

// recordingSink captures every audit record and can be told to fail.
type recordingSink struct {
	records []RouterDecision
	queries []string
	err     error
}

func (s *recordingSink) Record(_ context.Context, rawQuery string, decision *RouterDecision) error {
	s.records = append(s.records, *decision)
	s.queries = append(s.queries, rawQuery)
	return s.err
}

func TestRouteSkipsModelWhenHeuristicsDecisive(t *testing.T) {
	classifier := &fakeClassifier{result: &ModelClassification{Classification: ClassAnalyticalTask, Confidence: 0.9}}
	sink := &recordingSink{}
	e := NewEngine(testScoringConfig(), WithClassifier(classifier), WithAuditSink(sink))

	// Retrieval score 0.8 vs analytical default 0.1: a clear winner.
	decision, err := e.Route(context.Background(), "What were the main findings of the Q3 report?")
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}

	if classifier.calls != 0 {
		t.Errorf("classifier called %d times, want 0 (gated)", classifier.calls)
	}
	if decision.ChosenPath != PathDirectVectorRAG {
		t.Errorf("ChosenPath = %q, want %q", decision.ChosenPath, PathDirectVectorRAG)
	}
	if decision.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want 0.8", decision.Confidence)
	}
	if decision.Details.LLMClassification != nil {
		t.Error("Details.LLMClassification should be nil when the model was skipped")
	}
}

func TestRouteVisualizationQueryEndToEnd(t *testing.T) {
	e := NewEngine(testScoringConfig())

	decision, err := e.Route(context.Background(), "Plot monthly sales trend for product X")
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}

	if decision.ChosenPath != PathAnalyticalRAG {
		t.Errorf("ChosenPath = %q, want %q", decision.ChosenPath, PathAnalyticalRAG)
	}
	if !decision.Details.Heuristics.RequestsVisualization {
		t.Error("RequestsVisualization should be true")
	}
	if decision.Confidence < 0.85 {
		t.Errorf("Confidence = %v, want at least the visualization weight", decision.Confidence)
	}
}

func TestRouteConsultsModelWhenAmbiguous(t *testing.T) {
	classifier := &fakeClassifier{result: &ModelClassification{Classification: ClassClarificationNeeded, Confidence: 0.85}}
	sink := &recordingSink{}
	e := NewEngine(testScoringConfig(), WithClassifier(classifier), WithAuditSink(sink))

	// Both scores sit at the default floor; no clear winner.
	decision, err := e.Route(context.Background(), "hmm, not sure")
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}

	if classifier.calls != 1 {
		t.Errorf("classifier called %d times, want 1", classifier.calls)
	}
	if decision.ChosenPath != PathClarificationNeeded {
		t.Errorf("ChosenPath = %q, want %q", decision.ChosenPath, PathClarificationNeeded)
	}
}

func TestRouteSkipsModelForEmptyQuery(t *testing.T) {
	classifier := &fakeClassifier{result: &ModelClassification{Classification: ClassAnalyticalTask, Confidence: 0.99}}
	e := NewEngine(testScoringConfig(), WithClassifier(classifier))

	decision, err := e.Route(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}

	if classifier.calls != 0 {
		t.Errorf("classifier called %d times for empty query, want 0", classifier.calls)
	}
	if decision.ChosenPath != PathClarificationNeeded {
		t.Errorf("ChosenPath = %q, want clarification for empty query", decision.ChosenPath)
	}
}

func TestRouteSurvivesNilClassification(t *testing.T) {
	classifier := &fakeClassifier{result: nil}
	sink := &recordingSink{}
	e := NewEngine(testScoringConfig(), WithClassifier(classifier), WithAuditSink(sink))

	decision, err := e.Route(context.Background(), "hmm, not sure")
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}

	if classifier.calls != 1 {
		t.Errorf("classifier called %d times, want 1", classifier.calls)
	}
	if decision == nil {
		t.Fatal("expected a decision despite nil classification")
	}
	if len(sink.records) != 1 {
		t.Errorf("audit records = %d, want exactly 1", len(sink.records))
	}
}

func TestRouteAuditsExactlyOnce(t *testing.T) {
	sink := &recordingSink{}
	e := NewEngine(testScoringConfig(), WithAuditSink(sink))

	raw := "What were the main findings of the Q3 report?"
	decision, err := e.Route(context.Background(), raw)
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("audit records = %d, want exactly 1", len(sink.records))
	}
	if sink.queries[0] != raw {
		t.Errorf("audited query = %q, want raw input %q", sink.queries[0], raw)
	}
	if sink.records[0].ChosenPath != decision.ChosenPath {
		t.Errorf("audited path %q differs from returned path %q", sink.records[0].ChosenPath, decision.ChosenPath)
	}
}

func TestRouteAuditFailureDoesNotReachCaller(t *testing.T) {
	sink := &recordingSink{err: errors.New("broker down")}
	e := NewEngine(testScoringConfig(), WithAuditSink(sink))

	decision, err := e.Route(context.Background(), "summarize the report")
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}
	if decision == nil {
		t.Fatal("expected a decision despite audit failure")
	}
}

func TestRouteCancelledContext(t *testing.T) {
	sink := &recordingSink{}
	e := NewEngine(testScoringConfig(), WithAuditSink(sink))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	decision, err := e.Route(ctx, "summarize the report")
	if err == nil {
		t.Fatal("expected context error, got nil")
	}
	if decision != nil {
		t.Errorf("expected no decision on cancellation, got %+v", decision)
	}
	if len(sink.records) != 0 {
		t.Errorf("audit records = %d, want 0 on cancellation", len(sink.records))
	}
}

func TestRouteAppliesCorrections(t *testing.T) {
	e := NewEngine(testScoringConfig(), WithCorrector(staticCorrector{
		{Span: "finndings", Replacement: "findings"},
	}))

	decision, err := e.Route(context.Background(), "What were the finndings?")
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}

	if decision.ChosenPath != PathDirectVectorRAG {
		t.Errorf("ChosenPath = %q, want retrieval after spelling correction", decision.ChosenPath)
	}
}

func TestReloadScoringConfig(t *testing.T) {
	e := NewEngine(FallbackScoringConfig())

	before, err := e.Route(context.Background(), "What were the main findings?")
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}
	if before.ChosenPath != PathClarificationNeeded {
		t.Fatalf("ChosenPath = %q before reload, want clarification under inert config", before.ChosenPath)
	}

	e.ReloadScoringConfig(testScoringConfig())

	after, err := e.Route(context.Background(), "What were the main findings?")
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}
	if after.ChosenPath != PathDirectVectorRAG {
		t.Errorf("ChosenPath = %q after reload, want %q", after.ChosenPath, PathDirectVectorRAG)
	}
}

// staticCorrector returns a fixed correction list.
type staticCorrector []Correction

func (s staticCorrector) Correct(string) []Correction { return s }
