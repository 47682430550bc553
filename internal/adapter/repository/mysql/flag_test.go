package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"treasury-desk/internal/domain/actor"
	flagDomain "treasury-desk/internal/domain/flag"
)

var governor = actor.Actor{ID: "gggggggggggggggggggggggggggggggg", Name: "Grace Governor", Role: actor.RoleGovernor}

func TestFlag_CreateAndGet(t *testing.T) {
	repo := NewFlagRepository(openTestDB(t))
	ctx := context.Background()

	in := makeFlag("wwwwwwwwwwwwwwwwwwwwwwwwwwwwwwww", flagDomain.StatusPending, flagDomain.PriorityHigh, time.Now())
	if err := repo.Create(ctx, in); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByFlagID(ctx, in.FlagID)
	if err != nil {
		t.Fatalf("GetByFlagID: %v", err)
	}
	if got.WithdrawalID != in.WithdrawalID || got.Status != flagDomain.StatusPending || got.IsActive {
		t.Errorf("unexpected row: %+v", got)
	}

	if _, err := repo.GetByFlagIDForUpdate(ctx, in.FlagID); err != nil {
		t.Fatalf("GetByFlagIDForUpdate: %v", err)
	}
	if _, err := repo.GetByFlagID(ctx, "missing"); !errors.Is(err, flagDomain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByFlagIDForUpdate(ctx, "missing"); !errors.Is(err, flagDomain.ErrNotFound) {
		t.Fatalf("want ErrNotFound (for update), got %v", err)
	}
}

func TestFlag_Lists(t *testing.T) {
	repo := NewFlagRepository(openTestDB(t))
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	const wA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	const wB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	first := makeFlag(wA, flagDomain.StatusPending, flagDomain.PriorityLow, base)
	second := makeFlag(wA, flagDomain.StatusApproved, flagDomain.PriorityHigh, base.Add(time.Minute))
	other := makeFlag(wB, flagDomain.StatusPending, flagDomain.PriorityUrgent, base.Add(2*time.Minute))
	for _, f := range []*flagDomain.Flag{first, second, other} {
		if err := repo.Create(ctx, f); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	byW, err := repo.ListByWithdrawalID(ctx, wA)
	if err != nil {
		t.Fatalf("ListByWithdrawalID: %v", err)
	}
	if len(byW) != 2 || byW[0].FlagID != second.FlagID {
		t.Fatalf("ListByWithdrawalID not newest-first: %+v", byW)
	}

	pending, err := repo.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 2 || pending[0].FlagID != first.FlagID || pending[1].FlagID != other.FlagID {
		t.Fatalf("ListPending not oldest-first: %+v", pending)
	}
}

func TestFlag_SaveReview(t *testing.T) {
	repo := NewFlagRepository(openTestDB(t))
	ctx := context.Background()

	f := makeFlag("cccccccccccccccccccccccccccccccc", flagDomain.StatusPending, flagDomain.PriorityUrgent, time.Now())
	if err := repo.Create(ctx, f); err != nil {
		t.Fatalf("Create: %v", err)
	}

	f.Review(flagDomain.StatusApproved, governor, "go ahead", time.Now())
	if err := repo.SaveReview(ctx, f); err != nil {
		t.Fatalf("SaveReview: %v", err)
	}

	got, err := repo.GetByFlagID(ctx, f.FlagID)
	if err != nil {
		t.Fatalf("GetByFlagID: %v", err)
	}
	if got.Status != flagDomain.StatusApproved || !got.IsActive || got.ReviewedBy != governor.ID || got.ReviewedAt == nil {
		t.Fatalf("review not persisted: %+v", got)
	}

	// second write loses: row is no longer pending
	stale := *got
	stale.Review(flagDomain.StatusRejected, governor, "changed my mind", time.Now())
	if err := repo.SaveReview(ctx, &stale); !errors.Is(err, flagDomain.ErrConcurrentReview) {
		t.Fatalf("want ErrConcurrentReview, got %v", err)
	}
	got, _ = repo.GetByFlagID(ctx, f.FlagID)
	if got.Status != flagDomain.StatusApproved || !got.IsActive {
		t.Fatalf("approved flag was overwritten: %+v", got)
	}
}
