package repo

import (
	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/internal/engine/model"
	"gorm.io/gorm"
)

type IBandRepository interface {
	ListByDeal(dealID string) ([]model.Band, error)
	Replace(dealID string, bands []model.Band) error
	Get(dealID, bandID string) (*model.Band, error)
	GetByOrdinal(dealID string, ordinal int) (*model.Band, error)
	Count(dealID string) (int64, error)
}

type BandRepo struct {
	db *gorm.DB
}

func NewBandRepo(db *gorm.DB) *BandRepo {
	return &BandRepo{db: db}
}

func (r *BandRepo) ListByDeal(dealID string) ([]model.Band, error) {
	var bands []model.Band
	err := r.db.Where("deal_id = ?", dealID).Order("ordinal ASC").Find(&bands).Error
	return bands, err
}

// Replace swaps the whole band set of a deal
func (r *BandRepo) Replace(dealID string, bands []model.Band) error {
	if err := r.db.Where("deal_id = ?", dealID).Delete(&model.Band{}).Error; err != nil {
		return err
	}
	if len(bands) == 0 {
		return nil
	}
	return r.db.Create(&bands).Error
}

func (r *BandRepo) Get(dealID, bandID string) (*model.Band, error) {
	var b model.Band
	if err := r.db.Where("deal_id = ? AND id = ?", dealID, bandID).Take(&b).Error; err != nil {
		return nil, notFound(err, core.ErrUnknownBand)
	}
	return &b, nil
}

func (r *BandRepo) GetByOrdinal(dealID string, ordinal int) (*model.Band, error) {
	var b model.Band
	if err := r.db.Where("deal_id = ? AND ordinal = ?", dealID, ordinal).Take(&b).Error; err != nil {
		return nil, notFound(err, core.ErrUnknownBand)
	}
	return &b, nil
}

func (r *BandRepo) Count(dealID string) (int64, error) {
	return Count(r.db.Model(&model.Band{}).Where("deal_id = ?", dealID))
}
