package withdrawal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"treasury-desk/internal/domain/actor"
	"treasury-desk/internal/domain/event"
	"treasury-desk/internal/domain/uow"
	domain "treasury-desk/internal/domain/withdrawal"
	"treasury-desk/pkg/id"

	"go.uber.org/zap"
)

var ErrValidation = errors.New("validation error")

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type Usecase struct {
	repo domain.Repository
	uow  uow.UnitOfWork
	pub  event.Publisher
	log  *zap.Logger
	now  func() time.Time
}

func NewUsecase(r domain.Repository, tx uow.UnitOfWork, pub event.Publisher, log *zap.Logger) *Usecase {
	if pub == nil {
		pub = event.Nop
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: r, uow: tx, pub: pub, log: log, now: time.Now}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*WithdrawalDTO, error) {
	switch {
	case strings.TrimSpace(in.InvestorID) == "":
		return nil, fmt.Errorf("%w: investor id is required", ErrValidation)
	case !in.Amount.IsPositive():
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	case !in.Amount.Equal(in.Amount.Round(2)):
		return nil, fmt.Errorf("%w: amount has more than 2 decimal places", ErrValidation)
	case !in.Type.Valid():
		return nil, fmt.Errorf("%w: unknown withdrawal type %q", ErrValidation, in.Type)
	}
	if err := in.Destination.ValidateFor(in.Type); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	submitted := in.SubmittedAt
	if submitted.IsZero() {
		submitted = u.now()
	}
	w := &domain.Withdrawal{
		WithdrawalID: id.NewID32(),
		InvestorID:   in.InvestorID,
		InvestorName: strings.TrimSpace(in.InvestorName),
		Amount:       in.Amount,
		Currency:     domain.CurrencyUSD,
		Type:         in.Type,
		Status:       domain.StatusPending,
		SubmittedAt:  submitted.UTC(),
		Destination:  in.Destination,
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Withdrawals.Create(ctx, w)
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("withdrawal submitted",
		zap.String("withdrawal_id", w.WithdrawalID),
		zap.String("investor_id", w.InvestorID),
		zap.String("type", string(w.Type)),
		zap.String("amount", w.Amount.StringFixed(2)),
	)
	u.publish(ctx, event.KindCreated, w)
	dto := toDTO(w)
	return &dto, nil
}

func (u *Usecase) Get(ctx context.Context, withdrawalID string) (*WithdrawalDTO, error) {
	w, err := u.repo.GetByWithdrawalID(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	dto := toDTO(w)
	return &dto, nil
}

func (u *Usecase) List(ctx context.Context, in ListInput) ([]WithdrawalDTO, error) {
	f := domain.ListFilter{InvestorID: strings.TrimSpace(in.InvestorID), Limit: in.Limit}
	if in.Status != "" {
		s, ok := domain.ParseStatus(in.Status)
		if !ok {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, in.Status)
		}
		f.Status = s
	}
	if in.Type != "" {
		t := domain.Type(strings.ToLower(in.Type))
		if !t.Valid() {
			return nil, fmt.Errorf("%w: unknown withdrawal type %q", ErrValidation, in.Type)
		}
		f.Type = t
	}
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}

	rows, err := u.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]WithdrawalDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	return out, nil
}

// UpdateStatus moves a withdrawal along its path. Governors only.
func (u *Usecase) UpdateStatus(ctx context.Context, in UpdateStatusInput) (*WithdrawalDTO, error) {
	to, ok := domain.ParseStatus(in.Status)
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, in.Status)
	}
	switch {
	case to == domain.StatusRejected && strings.TrimSpace(in.Reason) == "":
		return nil, fmt.Errorf("%w: %w", ErrValidation, domain.ErrReasonRequired)
	case to == domain.StatusSent && strings.TrimSpace(in.TxHash) == "":
		return nil, fmt.Errorf("%w: %w", ErrValidation, domain.ErrHashRequired)
	}
	if !in.Actor.IsGovernor() {
		return nil, actor.ErrForbidden
	}
	if u.uow == nil {
		return nil, errors.New("withdrawal usecase: unit of work not configured")
	}

	var (
		out  *domain.Withdrawal
		from domain.Status
	)
	err := u.uow.WithinWithdrawalTx(ctx, in.WithdrawalID, func(r uow.Repos, w *domain.Withdrawal) error {
		from = w.Status
		if err := w.Apply(domain.Change{To: to, Reason: in.Reason, TxHash: in.TxHash, By: in.Actor.ID, At: u.now()}); err != nil {
			return err
		}
		if err := r.Withdrawals.Save(ctx, w); err != nil {
			return err
		}
		out = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("withdrawal status changed",
		zap.String("withdrawal_id", out.WithdrawalID),
		zap.String("from", string(from)),
		zap.String("to", string(out.Status)),
		zap.String("by", in.Actor.ID),
	)
	u.publish(ctx, event.KindUpdated, out)
	dto := toDTO(out)
	return &dto, nil
}

func (u *Usecase) publish(ctx context.Context, kind string, w *domain.Withdrawal) {
	e := event.Event{
		Collection:   event.CollectionWithdrawals,
		Kind:         kind,
		WithdrawalID: w.WithdrawalID,
		RecordID:     w.WithdrawalID,
		At:           u.now().UTC(),
	}
	if err := u.pub.Publish(ctx, e); err != nil {
		u.log.Warn("publish withdrawal event failed", zap.String("withdrawal_id", w.WithdrawalID), zap.Error(err))
	}
}
