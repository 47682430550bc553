package mysql

import (
	"context"

	"treasury-desk/internal/domain/flag"
	"treasury-desk/internal/domain/uow"
	"treasury-desk/internal/domain/withdrawal"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Withdrawals: &WithdrawalRepository{db: tx},
		Flags:       &FlagRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinWithdrawalTx(ctx context.Context, withdrawalID string, fn func(r uow.Repos, w *withdrawal.Withdrawal) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the withdrawal row up-front to prevent races
		w, err := r.Withdrawals.GetByWithdrawalIDForUpdate(ctx, withdrawalID)
		if err != nil {
			return err
		}
		return fn(r, w)
	})
}

func (u *GormUoW) WithinFlagTx(ctx context.Context, flagID string, fn func(r uow.Repos, f *flag.Flag) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		f, err := r.Flags.GetByFlagIDForUpdate(ctx, flagID)
		if err != nil {
			return err
		}
		return fn(r, f)
	})
}
