package implementation

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ai-query-router/internal/entity"
	"ai-query-router/internal/model"
	"ai-query-router/internal/repository/contract"
	"ai-query-router/pkg/router"
)

type routingDecisionRepository struct {
	db *gorm.DB
}

// NewRoutingDecisionRepository creates the gorm-backed audit repository.
func NewRoutingDecisionRepository(db *gorm.DB) contract.IRoutingDecisionRepository {
	return &routingDecisionRepository{db: db}
}

func (r *routingDecisionRepository) Create(ctx context.Context, decision *entity.RoutingDecision) error {
	if decision.Id == uuid.Nil {
		decision.Id = uuid.New()
	}
	m, err := decisionEntityToModel(decision)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	decision.Id = m.Id
	decision.CreatedAt = m.CreatedAt
	return nil
}

func (r *routingDecisionRepository) FindById(ctx context.Context, id uuid.UUID) (*entity.RoutingDecision, error) {
	var m model.RoutingDecision
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return decisionModelToEntity(&m)
}

func (r *routingDecisionRepository) FindRecent(ctx context.Context, limit int, path string) ([]*entity.RoutingDecision, error) {
	if limit <= 0 {
		limit = 50
	}

	query := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if path != "" {
		query = query.Where("chosen_path = ?", path)
	}

	var models []model.RoutingDecision
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	entities := make([]*entity.RoutingDecision, len(models))
	for i, m := range models {
		e, err := decisionModelToEntity(&m)
		if err != nil {
			return nil, err
		}
		entities[i] = e
	}

	return entities, nil
}

// ============================================================================
// Mappers
// ============================================================================

func decisionEntityToModel(e *entity.RoutingDecision) (*model.RoutingDecision, error) {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return nil, err
	}
	return &model.RoutingDecision{
		Id:         e.Id,
		RawQuery:   e.RawQuery,
		ChosenPath: e.ChosenPath,
		Confidence: e.Confidence,
		Reasoning:  e.Reasoning,
		Details:    details,
		CreatedAt:  e.CreatedAt,
	}, nil
}

func decisionModelToEntity(m *model.RoutingDecision) (*entity.RoutingDecision, error) {
	var details router.DecisionDetails
	if len(m.Details) > 0 {
		if err := json.Unmarshal(m.Details, &details); err != nil {
			return nil, err
		}
	}
	return &entity.RoutingDecision{
		Id:         m.Id,
		RawQuery:   m.RawQuery,
		ChosenPath: m.ChosenPath,
		Confidence: m.Confidence,
		Reasoning:  m.Reasoning,
		Details:    details,
		CreatedAt:  m.CreatedAt,
	}, nil
}
