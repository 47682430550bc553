package mysql

import (
	"context"

	flagDomain "treasury-desk/internal/domain/flag"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FlagRepository struct{ db *gorm.DB }

func NewFlagRepository(db *gorm.DB) *FlagRepository { return &FlagRepository{db: db} }

func (r *FlagRepository) Create(ctx context.Context, f *flagDomain.Flag) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FlagRepository) GetByFlagID(ctx context.Context, flagID string) (*flagDomain.Flag, error) {
	var out flagDomain.Flag
	res := r.db.WithContext(ctx).Where("flag_id = ?", flagID).First(&out)
	if res.Error != nil {
		return nil, notFound(res.Error, flagDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *FlagRepository) GetByFlagIDForUpdate(ctx context.Context, flagID string) (*flagDomain.Flag, error) {
	var out flagDomain.Flag
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("flag_id = ?", flagID).
		First(&out)
	if res.Error != nil {
		return nil, notFound(res.Error, flagDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *FlagRepository) ListByWithdrawalID(ctx context.Context, withdrawalID string) ([]flagDomain.Flag, error) {
	var out []flagDomain.Flag
	err := r.db.WithContext(ctx).
		Where("withdrawal_id = ?", withdrawalID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *FlagRepository) ListPending(ctx context.Context) ([]flagDomain.Flag, error) {
	var out []flagDomain.Flag
	err := r.db.WithContext(ctx).
		Where("status = ?", flagDomain.StatusPending).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// SaveReview is a compare-and-set on status: the row is only touched while it is
// still pending in the store.
func (r *FlagRepository) SaveReview(ctx context.Context, f *flagDomain.Flag) error {
	res := r.db.WithContext(ctx).
		Model(&flagDomain.Flag{}).
		Where("flag_id = ? AND status = ?", f.FlagID, flagDomain.StatusPending).
		Updates(map[string]any{
			"status":           f.Status,
			"is_active":        f.IsActive,
			"reviewed_by":      f.ReviewedBy,
			"reviewed_by_name": f.ReviewedByName,
			"reviewed_at":      f.ReviewedAt,
			"review_comment":   f.ReviewComment,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return flagDomain.ErrConcurrentReview
	}
	return nil
}
