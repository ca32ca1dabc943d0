package repo

import (
	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/internal/engine/model"
	"gorm.io/gorm"
)

type IDealRepository interface {
	Create(d *model.Deal) error
	Get(dealID string) (*model.Deal, error)
	Save(d *model.Deal) error
	Delete(dealID string) error
	ListByIssuer(issuerID string) ([]model.Deal, error)
	ListByIDs(ids []string) ([]model.Deal, error)
	BumpLedgerVersion(d *model.Deal) error
}

type DealRepo struct {
	db *gorm.DB
}

func NewDealRepo(db *gorm.DB) *DealRepo {
	return &DealRepo{db: db}
}

func (r *DealRepo) Create(d *model.Deal) error {
	return r.db.Create(d).Error
}

func (r *DealRepo) Get(dealID string) (*model.Deal, error) {
	var d model.Deal
	if err := r.db.Where("id = ?", dealID).Take(&d).Error; err != nil {
		return nil, notFound(err, core.ErrDealNotFound)
	}
	return &d, nil
}

func (r *DealRepo) Save(d *model.Deal) error {
	return r.db.Save(d).Error
}

// Delete removes the deal and everything it owns
func (r *DealRepo) Delete(dealID string) error {
	for _, m := range []any{&model.IOI{}, &model.Band{}, &model.Invitation{}, &model.RangeSelection{}, &model.FeedbackNote{}, &model.DealEvent{}} {
		if err := r.db.Where("deal_id = ?", dealID).Delete(m).Error; err != nil {
			return err
		}
	}
	return r.db.Where("id = ?", dealID).Delete(&model.Deal{}).Error
}

func (r *DealRepo) ListByIssuer(issuerID string) ([]model.Deal, error) {
	var deals []model.Deal
	err := r.db.Where("issuer_id = ?", issuerID).Order("created_at DESC, id DESC").Find(&deals).Error
	return deals, err
}

func (r *DealRepo) ListByIDs(ids []string) ([]model.Deal, error) {
	var deals []model.Deal
	if len(ids) == 0 {
		return deals, nil
	}
	err := r.db.Where("id IN ?", ids).Order("created_at DESC, id DESC").Find(&deals).Error
	return deals, err
}

// BumpLedgerVersion increments the version in the row and in d
func (r *DealRepo) BumpLedgerVersion(d *model.Deal) error {
	err := r.db.Model(&model.Deal{}).Where("id = ?", d.ID).
		UpdateColumn("ledger_version", gorm.Expr("ledger_version + 1")).Error
	if err != nil {
		return err
	}
	d.LedgerVersion++
	return nil
}
