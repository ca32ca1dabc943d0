package model

import (
	"gorm.io/datatypes"
)

// DealEvent is the persisted audit trail of everything published about a deal
type DealEvent struct {
	BaseModel
	DealID  string         `gorm:"column:deal_id;size:26;not null;index" json:"dealId"`
	Name    string         `gorm:"column:name;size:64;not null" json:"name"`
	ActorID string         `gorm:"column:actor_id;size:64" json:"actorId,omitempty"`
	Payload datatypes.JSON `gorm:"column:payload;type:json" json:"payload"`
}

func (DealEvent) TableName() string {
	return "t_deal_event"
}
