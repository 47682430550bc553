package flag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"treasury-desk/internal/domain/actor"
	"treasury-desk/internal/domain/event"
	domain "treasury-desk/internal/domain/flag"
	"treasury-desk/internal/domain/uow"
	"treasury-desk/internal/domain/withdrawal"
	"treasury-desk/pkg/id"

	"go.uber.org/zap"
)

var ErrValidation = errors.New("validation error")

type Usecase struct {
	flags domain.Repository
	uow   uow.UnitOfWork
	pub   event.Publisher
	log   *zap.Logger
	now   func() time.Time
}

// NewUsecase: reads go through flags, every write through tx. pub and log may be nil.
func NewUsecase(flags domain.Repository, tx uow.UnitOfWork, pub event.Publisher, log *zap.Logger) *Usecase {
	if pub == nil {
		pub = event.Nop
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{flags: flags, uow: tx, pub: pub, log: log, now: time.Now}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func (u *Usecase) RequestFlag(ctx context.Context, in RequestFlagInput) (*FlagDTO, error) {
	comment := strings.TrimSpace(in.Comment)
	switch {
	case strings.TrimSpace(in.WithdrawalID) == "":
		return nil, fmt.Errorf("%w: withdrawal id is required", ErrValidation)
	case comment == "":
		return nil, fmt.Errorf("%w: comment is required", ErrValidation)
	case !in.FlagType.Valid():
		return nil, fmt.Errorf("%w: unknown flag type %q", ErrValidation, in.FlagType)
	case !in.Priority.Valid():
		return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, in.Priority)
	}
	if !in.Requester.CanRequestFlags() {
		return nil, actor.ErrForbidden
	}
	if u.uow == nil {
		return nil, errors.New("flag usecase: unit of work not configured")
	}

	var created *domain.Flag
	// Lock the withdrawal so a concurrent status change can't slip past the check.
	err := u.uow.WithinWithdrawalTx(ctx, in.WithdrawalID, func(r uow.Repos, w *withdrawal.Withdrawal) error {
		if !w.Status.Flaggable() {
			return domain.ErrWithdrawalNotFlaggable
		}
		f := &domain.Flag{
			FlagID:          id.NewID32(),
			WithdrawalID:    w.WithdrawalID,
			RequestedBy:     in.Requester.ID,
			RequestedByName: in.Requester.Name,
			RequestedByRole: in.Requester.Role,
			FlagType:        in.FlagType,
			Priority:        in.Priority,
			Comment:         comment,
			Status:          domain.StatusPending,
			IsActive:        false,
		}
		if err := r.Flags.Create(ctx, f); err != nil {
			return err
		}
		created = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("flag requested",
		zap.String("flag_id", created.FlagID),
		zap.String("withdrawal_id", created.WithdrawalID),
		zap.String("priority", string(created.Priority)),
		zap.String("requested_by", created.RequestedBy),
	)
	u.publish(ctx, event.KindCreated, created)
	dto := toDTO(created)
	return &dto, nil
}

func (u *Usecase) ApproveFlag(ctx context.Context, in ReviewInput) (*FlagDTO, error) {
	return u.review(ctx, in, domain.StatusApproved)
}

func (u *Usecase) RejectFlag(ctx context.Context, in ReviewInput) (*FlagDTO, error) {
	return u.review(ctx, in, domain.StatusRejected)
}

// review moves a pending flag to the decided status. Repeating the same decision
// returns the stored flag untouched; the opposite decision is refused.
func (u *Usecase) review(ctx context.Context, in ReviewInput, to domain.Status) (*FlagDTO, error) {
	comment := strings.TrimSpace(in.Comment)
	if strings.TrimSpace(in.FlagID) == "" {
		return nil, fmt.Errorf("%w: flag id is required", ErrValidation)
	}
	if to == domain.StatusRejected && comment == "" {
		return nil, fmt.Errorf("%w: a comment is required to reject a flag", ErrValidation)
	}
	if !in.Reviewer.IsGovernor() {
		return nil, actor.ErrForbidden
	}
	if u.uow == nil {
		return nil, errors.New("flag usecase: unit of work not configured")
	}

	var (
		out     *domain.Flag
		changed bool
	)
	err := u.uow.WithinFlagTx(ctx, in.FlagID, func(r uow.Repos, f *domain.Flag) error {
		switch f.Status {
		case to:
			out = f
			return nil
		case domain.StatusPending:
		default:
			return domain.ErrInvalidTransition
		}
		f.Review(to, in.Reviewer, comment, u.now())
		if err := r.Flags.SaveReview(ctx, f); err != nil {
			return err
		}
		out, changed = f, true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		u.log.Info("flag reviewed",
			zap.String("flag_id", out.FlagID),
			zap.String("withdrawal_id", out.WithdrawalID),
			zap.String("status", string(out.Status)),
			zap.String("reviewed_by", out.ReviewedBy),
		)
		u.publish(ctx, event.KindUpdated, out)
	}
	dto := toDTO(out)
	return &dto, nil
}

func (u *Usecase) ListFlags(ctx context.Context, withdrawalID string) ([]FlagDTO, error) {
	flags, err := u.flags.ListByWithdrawalID(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	return toDTOs(flags), nil
}

// ListPending is the governor review queue, most urgent first.
func (u *Usecase) ListPending(ctx context.Context) ([]FlagDTO, error) {
	flags, err := u.flags.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	domain.SortByPriority(flags)
	return toDTOs(flags), nil
}

// GetActivePriorityFor returns nil, nil when no approved flag governs the withdrawal.
func (u *Usecase) GetActivePriorityFor(ctx context.Context, withdrawalID string) (*FlagDTO, error) {
	flags, err := u.flags.ListByWithdrawalID(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	f := domain.ActivePriority(flags)
	if f == nil {
		return nil, nil
	}
	dto := toDTO(f)
	return &dto, nil
}

func (u *Usecase) HasUrgentFlag(ctx context.Context, withdrawalID string) (UrgentDTO, error) {
	flags, err := u.flags.ListByWithdrawalID(ctx, withdrawalID)
	if err != nil {
		return UrgentDTO{}, err
	}
	present, comment := domain.Urgent(flags)
	return UrgentDTO{WithdrawalID: withdrawalID, Present: present, Comment: comment}, nil
}

// Snapshot bundles the flag list with its derived priority and urgency.
func (u *Usecase) Snapshot(ctx context.Context, withdrawalID string) (*Snapshot, error) {
	flags, err := u.flags.ListByWithdrawalID(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	s := &Snapshot{WithdrawalID: withdrawalID, Flags: toDTOs(flags)}
	if f := domain.ActivePriority(flags); f != nil {
		dto := toDTO(f)
		s.Active = &dto
	}
	present, comment := domain.Urgent(flags)
	s.Urgent = UrgentDTO{WithdrawalID: withdrawalID, Present: present, Comment: comment}
	return s, nil
}

// publish runs after commit; a failed notification never undoes the write.
func (u *Usecase) publish(ctx context.Context, kind string, f *domain.Flag) {
	e := event.Event{
		Collection:   event.CollectionFlags,
		Kind:         kind,
		WithdrawalID: f.WithdrawalID,
		RecordID:     f.FlagID,
		At:           u.now().UTC(),
	}
	if err := u.pub.Publish(ctx, e); err != nil {
		u.log.Warn("publish flag event failed", zap.String("flag_id", f.FlagID), zap.Error(err))
	}
}
