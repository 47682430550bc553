package mysql

import (
	"context"
	"errors"

	withdrawalDomain "treasury-desk/internal/domain/withdrawal"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WithdrawalRepository struct{ db *gorm.DB }

func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func (r *WithdrawalRepository) Create(ctx context.Context, w *withdrawalDomain.Withdrawal) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *WithdrawalRepository) Save(ctx context.Context, w *withdrawalDomain.Withdrawal) error {
	return r.db.WithContext(ctx).Save(w).Error
}

func (r *WithdrawalRepository) GetByWithdrawalID(ctx context.Context, withdrawalID string) (*withdrawalDomain.Withdrawal, error) {
	var out withdrawalDomain.Withdrawal
	res := r.db.WithContext(ctx).Where("withdrawal_id = ?", withdrawalID).First(&out)
	if res.Error != nil {
		return nil, notFound(res.Error, withdrawalDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *WithdrawalRepository) GetByWithdrawalIDForUpdate(ctx context.Context, withdrawalID string) (*withdrawalDomain.Withdrawal, error) {
	var out withdrawalDomain.Withdrawal
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("withdrawal_id = ?", withdrawalID).
		First(&out)
	if res.Error != nil {
		return nil, notFound(res.Error, withdrawalDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *WithdrawalRepository) List(ctx context.Context, f withdrawalDomain.ListFilter) ([]withdrawalDomain.Withdrawal, error) {
	q := r.db.WithContext(ctx).Model(&withdrawalDomain.Withdrawal{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.InvestorID != "" {
		q = q.Where("investor_id = ?", f.InvestorID)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var out []withdrawalDomain.Withdrawal
	if err := q.Order("submitted_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
