package model

import (
	"time"

	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/pkg/statemachine"
)

// Deal is the unit of concurrency: every check-then-write on its children
// locks this row first.
type Deal struct {
	BaseModel
	IssuerID      string                 `gorm:"column:issuer_id;size:64;index;not null" json:"issuerId"`
	Name          string                 `gorm:"column:name;size:255;not null" json:"name"`
	Description   string                 `gorm:"column:description;type:text" json:"description"`
	Type          core.DealType          `gorm:"column:type;size:16;not null" json:"type"`
	Currency      string                 `gorm:"column:currency;size:16;not null" json:"currency"`
	TargetAmount  float64                `gorm:"column:target_amount;not null" json:"targetAmount"`
	MaxIOIAmount  *float64               `gorm:"column:max_ioi_amount" json:"maxIoiAmount"`
	State         statemachine.DealState `gorm:"column:state;size:20;index;not null" json:"state"`
	LedgerVersion int64                  `gorm:"column:ledger_version;not null;default:0" json:"ledgerVersion"`
	OpenedAt      *time.Time             `gorm:"column:opened_at" json:"openedAt"`
	ClosedAt      *time.Time             `gorm:"column:closed_at" json:"closedAt"`
	SelectedAt    *time.Time             `gorm:"column:selected_at" json:"selectedAt"`
}

func (Deal) TableName() string {
	return "t_deal"
}

func (d *Deal) Header() core.DealHeader {
	return core.DealHeader{
		ID:            d.ID,
		Currency:      d.Currency,
		Target:        d.TargetAmount,
		LedgerVersion: d.LedgerVersion,
	}
}

// Band is frozen once its deal leaves DRAFT
type Band struct {
	BaseModel
	DealID  string  `gorm:"column:deal_id;size:26;not null;uniqueIndex:uk_band_deal_ordinal,priority:1" json:"dealId"`
	Ordinal int     `gorm:"column:ordinal;not null;uniqueIndex:uk_band_deal_ordinal,priority:2" json:"ordinal"`
	Label   string  `gorm:"column:label;size:128" json:"label"`
	Lower   float64 `gorm:"column:lower_bound;not null" json:"lower"`
	Upper   float64 `gorm:"column:upper_bound;not null" json:"upper"`
	Unit    string  `gorm:"column:unit;size:32" json:"unit"`
}

func (Band) TableName() string {
	return "t_band"
}

func (b *Band) Core() core.Band {
	return core.Band{ID: b.ID, Ordinal: b.Ordinal, Label: b.Label, Lower: b.Lower, Upper: b.Upper, Unit: b.Unit}
}

// RangeSelection is written once, in the same transaction that moves the deal to RANGE_SELECTED
type RangeSelection struct {
	BaseModel
	DealID      string    `gorm:"column:deal_id;size:26;not null;uniqueIndex" json:"dealId"`
	LowOrdinal  int       `gorm:"column:low_ordinal;not null" json:"lowOrdinal"`
	HighOrdinal int       `gorm:"column:high_ordinal;not null" json:"highOrdinal"`
	LowBandID   string    `gorm:"column:low_band_id;size:26" json:"lowBandId"`
	HighBandID  string    `gorm:"column:high_band_id;size:26" json:"highBandId"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	ConfirmedAt time.Time `gorm:"column:confirmed_at;not null" json:"confirmedAt"`
	ConfirmedBy string    `gorm:"column:confirmed_by;size:64" json:"confirmedBy"`
}

func (RangeSelection) TableName() string {
	return "t_range_selection"
}

// FeedbackNote is issuer-private commentary on a deal
type FeedbackNote struct {
	BaseModel
	DealID   string         `gorm:"column:deal_id;size:26;not null;index" json:"dealId"`
	AuthorID string         `gorm:"column:author_id;size:64;not null" json:"authorId"`
	Scope    core.NoteScope `gorm:"column:scope;size:16;not null" json:"scope"`
	ScopeRef string         `gorm:"column:scope_ref;size:64" json:"scopeRef,omitempty"`
	Text     string         `gorm:"column:text;type:text;not null" json:"text"`
}

func (FeedbackNote) TableName() string {
	return "t_feedback_note"
}
