package repo

import (
	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/internal/engine/model"
	"gorm.io/gorm"
)

type IIOIRepository interface {
	Create(ioi *model.IOI) error
	Get(ioiID string) (*model.IOI, error)
	GetActive(dealID, investorID string) (*model.IOI, error)
	ListActive(dealID string) ([]model.IOI, error)
	ListHistory(dealID string) ([]model.IOI, error)
	// Retag moves an ACTIVE entry to SUPERSEDED or DELETED and frees its active key
	Retag(ioiID string, status core.LedgerStatus) error
}

type IOIRepo struct {
	db *gorm.DB
}

func NewIOIRepo(db *gorm.DB) *IOIRepo {
	return &IOIRepo{db: db}
}

func (r *IOIRepo) Create(ioi *model.IOI) error {
	return r.db.Create(ioi).Error
}

func (r *IOIRepo) Get(ioiID string) (*model.IOI, error) {
	var ioi model.IOI
	if err := r.db.Where("id = ?", ioiID).Take(&ioi).Error; err != nil {
		return nil, notFound(err, core.ErrIOINotFound)
	}
	return &ioi, nil
}

// GetActive returns nil, nil when the investor has no active indication
func (r *IOIRepo) GetActive(dealID, investorID string) (*model.IOI, error) {
	var list []model.IOI
	err := r.db.Where("deal_id = ? AND investor_id = ? AND status = ?", dealID, investorID, core.LedgerActive).
		Limit(1).Find(&list).Error
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return &list[0], nil
}

func (r *IOIRepo) ListActive(dealID string) ([]model.IOI, error) {
	var list []model.IOI
	err := r.db.Where("deal_id = ? AND status = ?", dealID, core.LedgerActive).
		Order("band_ordinal ASC, created_at ASC, id ASC").Find(&list).Error
	return list, err
}

func (r *IOIRepo) ListHistory(dealID string) ([]model.IOI, error) {
	var list []model.IOI
	err := r.db.Where("deal_id = ?", dealID).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *IOIRepo) Retag(ioiID string, status core.LedgerStatus) error {
	return r.db.Model(&model.IOI{}).
		Where("id = ? AND status = ?", ioiID, core.LedgerActive).
		Updates(map[string]any{"status": status, "active_key": nil}).Error
}
