package model

import "time"

// BaseModel is embedded by every table. IDs are ULIDs so they sort by creation.
type BaseModel struct {
	ID        string    `gorm:"column:id;primaryKey;size:26" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// All lists every table for AutoMigrate
func All() []any {
	return []any{
		&Deal{},
		&Band{},
		&Invitation{},
		&IOI{},
		&RangeSelection{},
		&FeedbackNote{},
		&DealEvent{},
	}
}
