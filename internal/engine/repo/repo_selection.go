package repo

import (
	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/internal/engine/model"
	"github.com/go-arcade/bookbuild/pkg/id"
	"gorm.io/gorm"
)

type ISelectionRepository interface {
	Create(sel *model.RangeSelection) error
	Get(dealID string) (*model.RangeSelection, error)
	Exists(dealID string) (bool, error)
}

type SelectionRepo struct {
	db *gorm.DB
}

func NewSelectionRepo(db *gorm.DB) *SelectionRepo {
	return &SelectionRepo{db: db}
}

func (r *SelectionRepo) Create(sel *model.RangeSelection) error {
	return r.db.Create(sel).Error
}

func (r *SelectionRepo) Get(dealID string) (*model.RangeSelection, error) {
	var sel model.RangeSelection
	if err := r.db.Where("deal_id = ?", dealID).Take(&sel).Error; err != nil {
		return nil, notFound(err, core.ErrSelectionNotFound)
	}
	return &sel, nil
}

func (r *SelectionRepo) Exists(dealID string) (bool, error) {
	n, err := Count(r.db.Model(&model.RangeSelection{}).Where("deal_id = ?", dealID))
	return n > 0, err
}

type INoteRepository interface {
	Create(note *model.FeedbackNote) error
	ListByDeal(dealID string) ([]model.FeedbackNote, error)
}

type NoteRepo struct {
	db *gorm.DB
}

func NewNoteRepo(db *gorm.DB) *NoteRepo {
	return &NoteRepo{db: db}
}

func (r *NoteRepo) Create(note *model.FeedbackNote) error {
	return r.db.Create(note).Error
}

// ListByDeal returns notes newest first
func (r *NoteRepo) ListByDeal(dealID string) ([]model.FeedbackNote, error) {
	var notes []model.FeedbackNote
	err := r.db.Where("deal_id = ?", dealID).Order("id DESC").Find(&notes).Error
	return notes, err
}

type IEventRepository interface {
	Append(ev *model.DealEvent) error
	ListByDeal(dealID string) ([]model.DealEvent, error)
}

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) *EventRepo {
	return &EventRepo{db: db}
}

func (r *EventRepo) Append(ev *model.DealEvent) error {
	if ev.ID == "" {
		ev.ID = id.GetUlid()
	}
	return r.db.Create(ev).Error
}

func (r *EventRepo) ListByDeal(dealID string) ([]model.DealEvent, error) {
	var list []model.DealEvent
	err := r.db.Where("deal_id = ?", dealID).Order("id ASC").Find(&list).Error
	return list, err
}
