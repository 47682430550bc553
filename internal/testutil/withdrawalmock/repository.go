package withdrawalmock

import (
	"context"

	domain "treasury-desk/internal/domain/withdrawal"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to a no-op; reads default to context.Canceled.
type Repo struct {
	CreateFn                     func(ctx context.Context, w *domain.Withdrawal) error
	GetByWithdrawalIDFn          func(ctx context.Context, withdrawalID string) (*domain.Withdrawal, error)
	GetByWithdrawalIDForUpdateFn func(ctx context.Context, withdrawalID string) (*domain.Withdrawal, error)
	ListFn                       func(ctx context.Context, f domain.ListFilter) ([]domain.Withdrawal, error)
	SaveFn                       func(ctx context.Context, w *domain.Withdrawal) error
}

func (m *Repo) Create(ctx context.Context, w *domain.Withdrawal) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, w)
	}
	return nil
}

func (m *Repo) GetByWithdrawalID(ctx context.Context, withdrawalID string) (*domain.Withdrawal, error) {
	if m.GetByWithdrawalIDFn != nil {
		return m.GetByWithdrawalIDFn(ctx, withdrawalID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByWithdrawalIDForUpdate(ctx context.Context, withdrawalID string) (*domain.Withdrawal, error) {
	if m.GetByWithdrawalIDForUpdateFn != nil {
		return m.GetByWithdrawalIDForUpdateFn(ctx, withdrawalID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Withdrawal, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, w *domain.Withdrawal) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, w)
	}
	return nil
}
