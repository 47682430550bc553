package flag

import (
	"time"

	"treasury-desk/internal/domain/actor"
	domain "treasury-desk/internal/domain/flag"
)

type RequestFlagInput struct {
	WithdrawalID string
	FlagType     domain.Type
	Priority     domain.Priority
	Comment      string
	Requester    actor.Actor
}

type ReviewInput struct {
	FlagID   string
	Reviewer actor.Actor
	Comment  string // required when rejecting
}

type FlagDTO struct {
	FlagID          string          `json:"id"`
	WithdrawalID    string          `json:"withdrawal_id"`
	RequestedBy     string          `json:"requested_by"`
	RequestedByName string          `json:"requested_by_name"`
	RequestedByRole actor.Role      `json:"requested_by_role"`
	FlagType        domain.Type     `json:"flag_type"`
	Priority        domain.Priority `json:"priority"`
	Comment         string          `json:"comment"`
	Status          domain.Status   `json:"status"`
	IsActive        bool            `json:"is_active"`
	ReviewedBy      string          `json:"reviewed_by,omitempty"`
	ReviewedByName  string          `json:"reviewed_by_name,omitempty"`
	ReviewedAt      *time.Time      `json:"reviewed_at,omitempty"`
	ReviewComment   string          `json:"review_comment,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

type UrgentDTO struct {
	WithdrawalID string `json:"withdrawal_id"`
	Present      bool   `json:"present"`
	Comment      string `json:"comment,omitempty"`
}

// Snapshot is everything a flag view of one withdrawal needs, derived from a
// single read.
type Snapshot struct {
	WithdrawalID string    `json:"withdrawal_id"`
	Flags        []FlagDTO `json:"flags"`
	Active       *FlagDTO  `json:"active,omitempty"`
	Urgent       UrgentDTO `json:"urgent"`
}

func toDTO(f *domain.Flag) FlagDTO {
	return FlagDTO{
		FlagID:          f.FlagID,
		WithdrawalID:    f.WithdrawalID,
		RequestedBy:     f.RequestedBy,
		RequestedByName: f.RequestedByName,
		RequestedByRole: f.RequestedByRole,
		FlagType:        f.FlagType,
		Priority:        f.Priority,
		Comment:         f.Comment,
		Status:          f.Status,
		IsActive:        f.IsActive,
		ReviewedBy:      f.ReviewedBy,
		ReviewedByName:  f.ReviewedByName,
		ReviewedAt:      f.ReviewedAt,
		ReviewComment:   f.ReviewComment,
		CreatedAt:       f.CreatedAt,
	}
}

func toDTOs(in []domain.Flag) []FlagDTO {
	out := make([]FlagDTO, 0, len(in))
	for i := range in {
		out = append(out, toDTO(&in[i]))
	}
	return out
}
