package progress

import (
	"context"
	"time"

	"treasury-desk/internal/domain/withdrawal"
)

type Usecase struct {
	repo withdrawal.Repository
	now  func() time.Time
}

func NewUsecase(r withdrawal.Repository) *Usecase {
	return &Usecase{repo: r, now: time.Now}
}

// WithClock swaps the time source; tests pin it.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func (u *Usecase) Get(ctx context.Context, withdrawalID string) (*Progress, error) {
	w, err := u.repo.GetByWithdrawalID(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	p := Derive(w, u.now())
	return &p, nil
}
