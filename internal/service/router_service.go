package service

import (
	"context"

	"ai-query-router/internal/dto"
	"ai-query-router/internal/pkg/logger"
	"ai-query-router/internal/repository/contract"
	"ai-query-router/pkg/router"
)

type IRouterService interface {
	Route(ctx context.Context, req *dto.RouteQueryRequest) (*dto.RouteQueryResponse, error)
	GetDecisions(ctx context.Context, req *dto.GetDecisionsRequest) ([]dto.DecisionLogEntry, error)
	ReloadScoringConfig(path string) error
}

type routerService struct {
	engine       *router.Engine
	decisionRepo contract.IRoutingDecisionRepository
	logger       logger.ILogger
}

func NewRouterService(
	engine *router.Engine,
	decisionRepo contract.IRoutingDecisionRepository,
	sysLogger logger.ILogger,
) IRouterService {
	return &routerService{
		engine:       engine,
		decisionRepo: decisionRepo,
		logger:       sysLogger,
	}
}

func (s *routerService) Route(ctx context.Context, req *dto.RouteQueryRequest) (*dto.RouteQueryResponse, error) {
	decision, err := s.engine.Route(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	return &dto.RouteQueryResponse{
		ChosenPath: string(decision.ChosenPath),
		Confidence: decision.Confidence,
		Reasoning:  decision.Reasoning,
		Details:    decision.Details,
	}, nil
}

func (s *routerService) GetDecisions(ctx context.Context, req *dto.GetDecisionsRequest) ([]dto.DecisionLogEntry, error) {
	decisions, err := s.decisionRepo.FindRecent(ctx, req.Limit, req.Path)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.DecisionLogEntry, len(decisions))
	for i, d := range decisions {
		entries[i] = dto.DecisionLogEntry{
			Id:         d.Id,
			RawQuery:   d.RawQuery,
			ChosenPath: d.ChosenPath,
			Confidence: d.Confidence,
			Reasoning:  d.Reasoning,
			Details:    d.Details,
			CreatedAt:  d.CreatedAt,
		}
	}

	return entries, nil
}

// ReloadScoringConfig re-reads the pattern table from disk and swaps
// it into the running engine. A broken file leaves the engine on its
// previous config.
func (s *routerService) ReloadScoringConfig(path string) error {
	cfg, err := router.LoadScoringConfig(path)
	if err != nil {
		s.logger.Error("router_service", "Scoring config reload failed", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return err
	}

	s.engine.ReloadScoringConfig(cfg)
	s.logger.Info("router_service", "Scoring config reloaded", map[string]interface{}{
		"path":    path,
		"version": cfg.Version,
	})
	return nil
}
