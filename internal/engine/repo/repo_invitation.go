package repo

import (
	"time"

	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/internal/engine/model"
	"gorm.io/gorm"
)

type IInvitationRepository interface {
	Create(inv *model.Invitation) error
	Get(invitationID string) (*model.Invitation, error)
	GetByTokenHash(hash string) (*model.Invitation, error)
	ListByDeal(dealID string) ([]model.Invitation, error)
	CountLive(dealID string, now time.Time) (int64, error)
	HasLiveEmail(dealID, email string, now time.Time) (bool, error)
	// Redeemed returns the consumed, unrevoked invitation of investorID on dealID
	Redeemed(dealID, investorID string) (*model.Invitation, error)
	// RedeemedDealIDs lists deals where investorID holds a consumed, unrevoked invitation
	RedeemedDealIDs(investorID string) ([]string, error)
	MarkConsumed(invitationID string, at time.Time) (bool, error)
	Revoke(invitationID string, at time.Time) error
	ListExpiredUnnotified(now time.Time, limit int) ([]model.Invitation, error)
	MarkExpiryNotified(invitationID string, at time.Time) error
}

type InvitationRepo struct {
	db *gorm.DB
}

func NewInvitationRepo(db *gorm.DB) *InvitationRepo {
	return &InvitationRepo{db: db}
}

// live: not revoked and either consumed or not yet expired
func (r *InvitationRepo) live(dealID string, now time.Time) *gorm.DB {
	return r.db.Model(&model.Invitation{}).
		Where("deal_id = ? AND revoked_at IS NULL", dealID).
		Where("consumed_at IS NOT NULL OR expires_at > ?", now)
}

func (r *InvitationRepo) Create(inv *model.Invitation) error {
	return r.db.Create(inv).Error
}

func (r *InvitationRepo) Get(invitationID string) (*model.Invitation, error) {
	var inv model.Invitation
	if err := r.db.Where("id = ?", invitationID).Take(&inv).Error; err != nil {
		return nil, notFound(err, core.ErrInvitationNotFound)
	}
	return &inv, nil
}

func (r *InvitationRepo) GetByTokenHash(hash string) (*model.Invitation, error) {
	var inv model.Invitation
	if err := r.db.Where("token_hash = ?", hash).Take(&inv).Error; err != nil {
		return nil, notFound(err, core.ErrTokenInvalid)
	}
	return &inv, nil
}

func (r *InvitationRepo) ListByDeal(dealID string) ([]model.Invitation, error) {
	var list []model.Invitation
	err := r.db.Where("deal_id = ?", dealID).Order("created_at ASC, id ASC").Find(&list).Error
	return list, err
}

func (r *InvitationRepo) CountLive(dealID string, now time.Time) (int64, error) {
	return Count(r.live(dealID, now))
}

func (r *InvitationRepo) HasLiveEmail(dealID, email string, now time.Time) (bool, error) {
	n, err := Count(r.live(dealID, now).Where("email = ?", email))
	return n > 0, err
}

func (r *InvitationRepo) Redeemed(dealID, investorID string) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.db.Where("deal_id = ? AND investor_id = ? AND consumed_at IS NOT NULL AND revoked_at IS NULL", dealID, investorID).
		Take(&inv).Error
	if err != nil {
		return nil, notFound(err, core.ErrNotInvited)
	}
	return &inv, nil
}

func (r *InvitationRepo) RedeemedDealIDs(investorID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&model.Invitation{}).
		Where("investor_id = ? AND consumed_at IS NOT NULL AND revoked_at IS NULL", investorID).
		Pluck("deal_id", &ids).Error
	return ids, err
}

// MarkConsumed sets consumed_at once; it reports whether this call did it
func (r *InvitationRepo) MarkConsumed(invitationID string, at time.Time) (bool, error) {
	res := r.db.Model(&model.Invitation{}).
		Where("id = ? AND consumed_at IS NULL", invitationID).
		UpdateColumn("consumed_at", at)
	return res.RowsAffected == 1, res.Error
}

func (r *InvitationRepo) Revoke(invitationID string, at time.Time) error {
	return r.db.Model(&model.Invitation{}).
		Where("id = ? AND revoked_at IS NULL", invitationID).
		UpdateColumn("revoked_at", at).Error
}

func (r *InvitationRepo) ListExpiredUnnotified(now time.Time, limit int) ([]model.Invitation, error) {
	var list []model.Invitation
	err := r.db.
		Where("consumed_at IS NULL AND revoked_at IS NULL AND expiry_notified_at IS NULL AND expires_at <= ?", now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *InvitationRepo) MarkExpiryNotified(invitationID string, at time.Time) error {
	return r.db.Model(&model.Invitation{}).
		Where("id = ?", invitationID).
		UpdateColumn("expiry_notified_at", at).Error
}
