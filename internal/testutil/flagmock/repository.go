package flagmock

import (
	"context"

	domain "treasury-desk/internal/domain/flag"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn               func(ctx context.Context, f *domain.Flag) error
	GetByFlagIDFn          func(ctx context.Context, flagID string) (*domain.Flag, error)
	GetByFlagIDForUpdateFn func(ctx context.Context, flagID string) (*domain.Flag, error)
	ListByWithdrawalIDFn   func(ctx context.Context, withdrawalID string) ([]domain.Flag, error)
	ListPendingFn          func(ctx context.Context) ([]domain.Flag, error)
	SaveReviewFn           func(ctx context.Context, f *domain.Flag) error
}

func (m *Repo) Create(ctx context.Context, f *domain.Flag) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, f)
	}
	return nil
}

func (m *Repo) GetByFlagID(ctx context.Context, flagID string) (*domain.Flag, error) {
	if m.GetByFlagIDFn != nil {
		return m.GetByFlagIDFn(ctx, flagID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByFlagIDForUpdate(ctx context.Context, flagID string) (*domain.Flag, error) {
	if m.GetByFlagIDForUpdateFn != nil {
		return m.GetByFlagIDForUpdateFn(ctx, flagID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByWithdrawalID(ctx context.Context, withdrawalID string) ([]domain.Flag, error) {
	if m.ListByWithdrawalIDFn != nil {
		return m.ListByWithdrawalIDFn(ctx, withdrawalID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListPending(ctx context.Context) ([]domain.Flag, error) {
	if m.ListPendingFn != nil {
		return m.ListPendingFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) SaveReview(ctx context.Context, f *domain.Flag) error {
	if m.SaveReviewFn != nil {
		return m.SaveReviewFn(ctx, f)
	}
	return nil
}
