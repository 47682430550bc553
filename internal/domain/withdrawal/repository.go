package withdrawal

import "context"

type ListFilter struct {
	Status     Status
	Type       Type
	InvestorID string
	Limit      int
}

type Repository interface {
	Create(ctx context.Context, w *Withdrawal) error
	GetByWithdrawalID(ctx context.Context, withdrawalID string) (*Withdrawal, error)
	// Row lock for status transitions; only meaningful inside a tx
	GetByWithdrawalIDForUpdate(ctx context.Context, withdrawalID string) (*Withdrawal, error)
	// Newest first
	List(ctx context.Context, f ListFilter) ([]Withdrawal, error)
	Save(ctx context.Context, w *Withdrawal) error
}
