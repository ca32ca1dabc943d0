package model

import (
	"github.com/go-arcade/bookbuild/internal/engine/core"
)

// IOI is one ledger entry. Replacing or deleting an indication never
// rewrites it: the entry is re-tagged and a new ACTIVE entry is added.
// ActiveKey is "<deal>:<investor>" while ACTIVE and NULL otherwise, so the
// unique index enforces one active indication per investor and deal.
type IOI struct {
	BaseModel
	DealID       string            `gorm:"column:deal_id;size:26;not null;index:idx_ioi_deal_status,priority:1" json:"dealId"`
	InvestorID   string            `gorm:"column:investor_id;size:26;not null;index" json:"investorId"`
	BandID       string            `gorm:"column:band_id;size:26;not null" json:"bandId"`
	BandOrdinal  int               `gorm:"column:band_ordinal;not null" json:"bandOrdinal"`
	Amount       float64           `gorm:"column:amount;not null" json:"amount"`
	Currency     string            `gorm:"column:currency;size:16;not null" json:"currency"`
	Strength     core.Strength     `gorm:"column:strength;size:16;not null" json:"strength"`
	Anchor       bool              `gorm:"column:anchor;not null;default:false" json:"anchor"`
	Note         string            `gorm:"column:note;type:text" json:"note,omitempty"`
	Status       core.LedgerStatus `gorm:"column:status;size:16;not null;index:idx_ioi_deal_status,priority:2" json:"status"`
	SupersedesID *string           `gorm:"column:supersedes_id;size:26" json:"supersedesId,omitempty"`
	ActiveKey    *string           `gorm:"column:active_key;size:64;uniqueIndex" json:"-"`
}

func (IOI) TableName() string {
	return "t_ioi"
}

func ActiveKey(dealID, investorID string) *string {
	k := dealID + ":" + investorID
	return &k
}

func (i *IOI) Indication() core.Indication {
	return core.Indication{
		BandOrdinal: i.BandOrdinal,
		Amount:      i.Amount,
		Strength:    i.Strength,
		Anchor:      i.Anchor,
	}
}
