package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RoutingDecision is the persisted audit row for one routing call.
type RoutingDecision struct {
	Id         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RawQuery   string         `gorm:"type:text;not null" json:"raw_query"`
	ChosenPath string         `gorm:"type:varchar(50);not null;index:idx_routing_decisions_path" json:"chosen_path"`
	Confidence float64        `gorm:"type:double precision;not null" json:"confidence"`
	Reasoning  string         `gorm:"type:text;not null" json:"reasoning"`
	Details    datatypes.JSON `gorm:"type:jsonb" json:"details"`
	CreatedAt  time.Time      `gorm:"default:CURRENT_TIMESTAMP;index:idx_routing_decisions_created" json:"created_at"`
}

func (RoutingDecision) TableName() string {
	return "routing_decisions"
}
