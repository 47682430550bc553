package uowmock

import (
	"context"
	"errors"

	"treasury-desk/internal/domain/flag"
	"treasury-desk/internal/domain/uow"
	"treasury-desk/internal/domain/withdrawal"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn           func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinWithdrawalTxFn func(ctx context.Context, withdrawalID string, fn func(r uow.Repos, w *withdrawal.Withdrawal) error) error
	WithinFlagTxFn       func(ctx context.Context, flagID string, fn func(r uow.Repos, f *flag.Flag) error) error
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinWithdrawalTx(fn func(context.Context, string, func(uow.Repos, *withdrawal.Withdrawal) error) error) *UoW {
	m.WithinWithdrawalTxFn = fn
	return m
}
func (m *UoW) WithWithinFlagTx(fn func(context.Context, string, func(uow.Repos, *flag.Flag) error) error) *UoW {
	m.WithinFlagTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Passthrough wires every method to run fn directly against repos, loading the
// locked row through the repos' ForUpdate getters. Good enough for usecase tests.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error {
			return fn(repos)
		},
		WithinWithdrawalTxFn: func(ctx context.Context, id string, fn func(uow.Repos, *withdrawal.Withdrawal) error) error {
			w, err := repos.Withdrawals.GetByWithdrawalIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			return fn(repos, w)
		},
		WithinFlagTxFn: func(ctx context.Context, id string, fn func(uow.Repos, *flag.Flag) error) error {
			f, err := repos.Flags.GetByFlagIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			return fn(repos, f)
		},
	}
}

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinWithdrawalTx(ctx context.Context, withdrawalID string, fn func(r uow.Repos, w *withdrawal.Withdrawal) error) error {
	if m.WithinWithdrawalTxFn != nil {
		return m.WithinWithdrawalTxFn(ctx, withdrawalID, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinFlagTx(ctx context.Context, flagID string, fn func(r uow.Repos, f *flag.Flag) error) error {
	if m.WithinFlagTxFn != nil {
		return m.WithinFlagTxFn(ctx, flagID, fn)
	}
	return errUnimplemented
}
