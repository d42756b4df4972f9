package entity

import (
	"time"

	"github.com/google/uuid"

	"ai-query-router/pkg/router"
)

// RoutingDecision is the audit record of one routing call: the raw
// query as received and the full decision that was returned.
type RoutingDecision struct {
	Id         uuid.UUID
	RawQuery   string
	ChosenPath string
	Confidence float64
	Reasoning  string
	Details    router.DecisionDetails
	CreatedAt  time.Time
}
