package flag

import (
	"testing"
	"time"

	"treasury-desk/internal/domain/actor"
)

func ts(min int) *time.Time {
	t := time.Date(2024, 1, 2, 9, min, 0, 0, time.UTC)
	return &t
}

func TestPriorityRank(t *testing.T) {
	order := []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Fatalf("%s should outrank %s", order[i], order[i-1])
		}
	}
	if Priority("critical").Valid() {
		t.Fatalf("unknown priority reported valid")
	}
}

func TestActivePriority(t *testing.T) {
	tests := []struct {
		name   string
		flags  []Flag
		wantID string
	}{
		{name: "none", flags: nil},
		{
			name: "pending and rejected never count",
			flags: []Flag{
				{FlagID: "p", Status: StatusPending, Priority: PriorityUrgent},
				{FlagID: "r", Status: StatusRejected, Priority: PriorityHigh},
			},
		},
		{
			name: "single approved",
			flags: []Flag{
				{FlagID: "p", Status: StatusPending, Priority: PriorityUrgent},
				{FlagID: "a", Status: StatusApproved, IsActive: true, Priority: PriorityHigh, ReviewedAt: ts(1)},
			},
			wantID: "a",
		},
		{
			name: "approved but inactive ignored",
			flags: []Flag{
				{FlagID: "x", Status: StatusApproved, IsActive: false, Priority: PriorityUrgent},
			},
		},
		{
			name: "highest priority wins",
			flags: []Flag{
				{FlagID: "low", Status: StatusApproved, IsActive: true, Priority: PriorityLow, ReviewedAt: ts(9)},
				{FlagID: "high", Status: StatusApproved, IsActive: true, Priority: PriorityHigh, ReviewedAt: ts(1)},
			},
			wantID: "high",
		},
		{
			name: "tie broken by latest review",
			flags: []Flag{
				{FlagID: "old", Status: StatusApproved, IsActive: true, Priority: PriorityMedium, ReviewedAt: ts(1)},
				{FlagID: "new", Status: StatusApproved, IsActive: true, Priority: PriorityMedium, ReviewedAt: ts(5)},
			},
			wantID: "new",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ActivePriority(tt.flags)
			switch {
			case tt.wantID == "" && got != nil:
				t.Fatalf("want nil, got %s", got.FlagID)
			case tt.wantID != "" && (got == nil || got.FlagID != tt.wantID):
				t.Fatalf("want %s, got %+v", tt.wantID, got)
			}
		})
	}
}

func TestUrgent(t *testing.T) {
	approvedHigh := Flag{FlagID: "a", Status: StatusApproved, IsActive: true, FlagType: TypeSuspicious, Priority: PriorityHigh, Comment: "check kyc"}
	pendingUrgent := Flag{FlagID: "b", Status: StatusPending, FlagType: TypeUrgent, Priority: PriorityUrgent, Comment: "rush"}

	if ok, _ := Urgent([]Flag{approvedHigh, pendingUrgent}); ok {
		t.Fatalf("pending urgent flag must not count")
	}

	byType := Flag{FlagID: "c", Status: StatusApproved, IsActive: true, FlagType: TypeUrgent, Priority: PriorityLow, Comment: "vip client"}
	if ok, c := Urgent([]Flag{approvedHigh, byType}); !ok || c != "vip client" {
		t.Fatalf("urgent by type: ok=%v comment=%q", ok, c)
	}

	byPriority := Flag{FlagID: "d", Status: StatusApproved, IsActive: true, FlagType: TypeComplianceReview, Priority: PriorityUrgent, Comment: "regulator deadline"}
	if ok, c := Urgent([]Flag{byPriority}); !ok || c != "regulator deadline" {
		t.Fatalf("urgent by priority: ok=%v comment=%q", ok, c)
	}

	rejected := Flag{FlagID: "e", Status: StatusRejected, FlagType: TypeUrgent, Priority: PriorityUrgent}
	if ok, _ := Urgent([]Flag{rejected}); ok {
		t.Fatalf("rejected urgent flag must not count")
	}
}

func TestSortByPriority(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	flags := []Flag{
		{FlagID: "low", Priority: PriorityLow, CreatedAt: base},
		{FlagID: "urgent-late", Priority: PriorityUrgent, CreatedAt: base.Add(time.Hour)},
		{FlagID: "urgent-early", Priority: PriorityUrgent, CreatedAt: base},
		{FlagID: "medium", Priority: PriorityMedium, CreatedAt: base},
	}
	SortByPriority(flags)
	want := []string{"urgent-early", "urgent-late", "medium", "low"}
	for i, id := range want {
		if flags[i].FlagID != id {
			t.Fatalf("position %d: got %s, want %s", i, flags[i].FlagID, id)
		}
	}
}

func TestReviewKeepsStatusAndActiveTogether(t *testing.T) {
	gov := actor.Actor{ID: "g1", Name: "Gov", Role: actor.RoleGovernor}
	at := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

	f := &Flag{Status: StatusPending}
	f.Review(StatusApproved, gov, "", at)
	if !f.IsActive || !f.Effective() || f.ReviewedBy != "g1" || f.ReviewedAt == nil {
		t.Fatalf("approve: %+v", f)
	}

	f = &Flag{Status: StatusPending}
	f.Review(StatusRejected, gov, "not needed", at)
	if f.IsActive || f.Effective() || f.ReviewComment != "not needed" {
		t.Fatalf("reject: %+v", f)
	}
}
