package contract

import (
	"context"

	"github.com/google/uuid"

	"ai-query-router/internal/entity"
)

// IRoutingDecisionRepository defines the audit persistence operations.
type IRoutingDecisionRepository interface {
	Create(ctx context.Context, decision *entity.RoutingDecision) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.RoutingDecision, error)
	FindRecent(ctx context.Context, limit int, path string) ([]*entity.RoutingDecision, error)
}
