package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-query-router/internal/dto"
	"ai-query-router/internal/entity"
	"ai-query-router/internal/pkg/logger"
	"ai-query-router/pkg/router"
)

// fakeDecisionRepo is an in-memory stand-in for the gorm repository.
type fakeDecisionRepo struct {
	mu      sync.Mutex
	records []*entity.RoutingDecision
}

func (f *fakeDecisionRepo) Create(_ context.Context, decision *entity.RoutingDecision) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if decision.Id == uuid.Nil {
		decision.Id = uuid.New()
	}
	clone := *decision
	f.records = append(f.records, &clone)
	return nil
}

func (f *fakeDecisionRepo) FindById(_ context.Context, id uuid.UUID) (*entity.RoutingDecision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.Id == id {
			clone := *r
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeDecisionRepo) FindRecent(_ context.Context, limit int, path string) ([]*entity.RoutingDecision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.RoutingDecision
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		r := f.records[i]
		if path != "" && r.ChosenPath != path {
			continue
		}
		clone := *r
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeDecisionRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func TestRouterServiceRoute(t *testing.T) {
	engine := router.NewEngine(nil) // fallback scoring, no classifier
	repo := &fakeDecisionRepo{}
	svc := NewRouterService(engine, repo, logger.NopLogger{})

	res, err := svc.Route(context.Background(), &dto.RouteQueryRequest{Query: "tell me something"})
	require.NoError(t, err)
	require.NotNil(t, res)

	// Under the inert fallback config everything is a clarification.
	assert.Equal(t, string(router.PathClarificationNeeded), res.ChosenPath)
	assert.NotEmpty(t, res.Reasoning)
}

func TestRouterServiceGetDecisions(t *testing.T) {
	repo := &fakeDecisionRepo{}
	for _, path := range []string{"direct_vector_rag", "analytical_rag", "direct_vector_rag"} {
		err := repo.Create(context.Background(), &entity.RoutingDecision{
			RawQuery:   "q",
			ChosenPath: path,
			Confidence: 0.8,
			Reasoning:  "test",
			CreatedAt:  time.Now(),
		})
		require.NoError(t, err)
	}

	svc := NewRouterService(router.NewEngine(nil), repo, logger.NopLogger{})

	all, err := svc.GetDecisions(context.Background(), &dto.GetDecisionsRequest{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := svc.GetDecisions(context.Background(), &dto.GetDecisionsRequest{Limit: 10, Path: "analytical_rag"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "analytical_rag", filtered[0].ChosenPath)
}

func TestAuditPipelineRoundTrip(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	const topic = "TEST_ROUTER_DECISION_MADE"
	repo := &fakeDecisionRepo{}

	consumer := NewConsumerService(pubSub, topic, repo, nil)
	require.NoError(t, consumer.Consume(context.Background()))

	publisher := NewPublisherService(topic, pubSub)
	engine := router.NewEngine(nil, router.WithAuditSink(NewAuditSink(publisher)))

	_, err := engine.Route(context.Background(), "What were the findings?")
	require.NoError(t, err)

	// The consumer persists asynchronously; poll briefly.
	deadline := time.After(2 * time.Second)
	for repo.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("decision was never persisted by the consumer")
		case <-time.After(10 * time.Millisecond):
		}
	}

	records, err := repo.FindRecent(context.Background(), 10, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "What were the findings?", records[0].RawQuery)
	assert.Equal(t, string(router.PathClarificationNeeded), records[0].ChosenPath)
	assert.NotEmpty(t, records[0].Reasoning)
}
