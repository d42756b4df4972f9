package dto

import (
	"time"

	"github.com/google/uuid"

	"ai-query-router/pkg/router"
)

type RouteQueryRequest struct {
	Query string `json:"query" validate:"required,max=4000"`
}

type RouteQueryResponse struct {
	ChosenPath string                 `json:"chosen_path"`
	Confidence float64                `json:"confidence"`
	Reasoning  string                 `json:"reasoning"`
	Details    router.DecisionDetails `json:"details"`
}

type GetDecisionsRequest struct {
	Limit int    `query:"limit" validate:"omitempty,min=1,max=200"`
	Path  string `query:"path" validate:"omitempty,oneof=direct_vector_rag analytical_rag user_clarification_needed"`
}

type DecisionLogEntry struct {
	Id         uuid.UUID              `json:"id"`
	RawQuery   string                 `json:"raw_query"`
	ChosenPath string                 `json:"chosen_path"`
	Confidence float64                `json:"confidence"`
	Reasoning  string                 `json:"reasoning"`
	Details    router.DecisionDetails `json:"details"`
	CreatedAt  time.Time              `json:"created_at"`
}

// PublishDecisionMessage is the payload carried on the audit topic.
type PublishDecisionMessage struct {
	RawQuery string                `json:"raw_query"`
	Decision router.RouterDecision `json:"decision"`
	MadeAt   time.Time             `json:"made_at"`
}
