package events

import (
	"time"

	"ai-query-router/internal/entity"
)

const EventTypeDecisionMade = "ROUTER_DECISION_MADE"

// NewDecisionMadeEvent wraps a persisted routing decision for the bus.
func NewDecisionMadeEvent(decision *entity.RoutingDecision) Event {
	return BaseEvent{
		Type: EventTypeDecisionMade,
		Data: map[string]interface{}{
			"decision_id": decision.Id.String(),
			"chosen_path": decision.ChosenPath,
			"confidence":  decision.Confidence,
			"reasoning":   decision.Reasoning,
			"created_at":  decision.CreatedAt.Format(time.RFC3339),
		},
		OccurredAt: time.Now(),
	}
}
