package uow

import (
	"context"

	"treasury-desk/internal/domain/flag"
	"treasury-desk/internal/domain/withdrawal"
)

type Repos struct {
	Withdrawals withdrawal.Repository
	Flags       flag.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the withdrawal row first, then pass it in
	WithinWithdrawalTx(ctx context.Context, withdrawalID string, fn func(r Repos, w *withdrawal.Withdrawal) error) error
	// convenience: lock the flag row first, then pass it in
	WithinFlagTx(ctx context.Context, flagID string, fn func(r Repos, f *flag.Flag) error) error
}
