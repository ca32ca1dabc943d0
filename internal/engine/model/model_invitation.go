package model

import (
	"time"

	"github.com/go-arcade/bookbuild/internal/engine/core"
)

// Invitation is a seat on a deal. Only the SHA-256 of the token is stored.
type Invitation struct {
	BaseModel
	DealID          string            `gorm:"column:deal_id;size:26;not null;index" json:"dealId"`
	InvestorID      string            `gorm:"column:investor_id;size:26;not null;uniqueIndex" json:"investorId"`
	InvestorName    string            `gorm:"column:investor_name;size:255;not null" json:"investorName"`
	Email           string            `gorm:"column:email;size:255;not null;index" json:"email"`
	InvestorType    core.InvestorType `gorm:"column:investor_type;size:32;not null" json:"investorType"`
	AnchorPotential bool              `gorm:"column:anchor_potential;not null;default:false" json:"anchorPotential"`
	TokenHash       string            `gorm:"column:token_hash;size:64;not null;uniqueIndex" json:"-"`
	ExpiresAt       time.Time         `gorm:"column:expires_at;not null" json:"expiresAt"`
	ConsumedAt      *time.Time        `gorm:"column:consumed_at" json:"consumedAt"`
	RevokedAt       *time.Time        `gorm:"column:revoked_at" json:"revokedAt"`
	// ExpiryNotifiedAt is set by the sweeper once the expiry event went out
	ExpiryNotifiedAt *time.Time `gorm:"column:expiry_notified_at" json:"-"`
}

func (Invitation) TableName() string {
	return "t_invitation"
}

func (i *Invitation) Seat() core.Seat {
	return core.Seat{
		InvestorID: i.InvestorID,
		ExpiresAt:  i.ExpiresAt,
		ConsumedAt: i.ConsumedAt,
		RevokedAt:  i.RevokedAt,
	}
}

// Status is a display value derived from the timestamps
func (i *Invitation) Status(now time.Time) string {
	switch {
	case i.RevokedAt != nil:
		return "REVOKED"
	case i.ConsumedAt != nil:
		return "ACCEPTED"
	case !now.Before(i.ExpiresAt):
		return "EXPIRED"
	}
	return "PENDING"
}
