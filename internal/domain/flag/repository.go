package flag

import "context"

type Repository interface {
	Create(ctx context.Context, f *Flag) error
	GetByFlagID(ctx context.Context, flagID string) (*Flag, error)
	GetByFlagIDForUpdate(ctx context.Context, flagID string) (*Flag, error)

	// All flags of a withdrawal, newest first
	ListByWithdrawalID(ctx context.Context, withdrawalID string) ([]Flag, error)
	// Review queue, oldest first
	ListPending(ctx context.Context) ([]Flag, error)

	// SaveReview persists the review fields only while the stored row is still
	// pending; returns ErrConcurrentReview otherwise.
	SaveReview(ctx context.Context, f *Flag) error
}
