package flag

import (
	"errors"
	"time"

	"treasury-desk/internal/domain/actor"
)

var (
	ErrNotFound          = errors.New("flag not found")
	ErrInvalidTransition = errors.New("flag already reviewed")
	// Lost the race: another governor reviewed the flag between read and write.
	ErrConcurrentReview = errors.New("flag was reviewed concurrently")
	// Flags are only requestable while the withdrawal is Pending or Approved.
	ErrWithdrawalNotFlaggable = errors.New("withdrawal status does not allow flagging")
)

type Type string

const (
	TypeUrgent                Type = "urgent"
	TypeSuspicious            Type = "suspicious"
	TypeHighAmount            Type = "high_amount"
	TypeDocumentationRequired Type = "documentation_required"
	TypeComplianceReview      Type = "compliance_review"
)

func (t Type) Valid() bool {
	switch t {
	case TypeUrgent, TypeSuspicious, TypeHighAmount, TypeDocumentationRequired, TypeComplianceReview:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Rank orders priorities low < medium < high < urgent; unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	}
	return 0
}

func (p Priority) Valid() bool { return p.Rank() > 0 }

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Table: withdrawal_flags
type Flag struct {
	ID              uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	FlagID          string     `gorm:"column:flag_id;size:32;not null;uniqueIndex:ux_flags_flag_id" json:"id"`
	WithdrawalID    string     `gorm:"column:withdrawal_id;size:32;not null;index:idx_flags_withdrawal" json:"withdrawal_id"`
	RequestedBy     string     `gorm:"column:requested_by;size:32;not null" json:"requested_by"`
	RequestedByName string     `gorm:"column:requested_by_name;size:128" json:"requested_by_name"`
	RequestedByRole actor.Role `gorm:"column:requested_by_role;size:16;not null" json:"requested_by_role"`
	FlagType        Type       `gorm:"column:flag_type;size:32;not null" json:"flag_type"`
	Priority        Priority   `gorm:"column:priority;size:16;not null" json:"priority"`
	Comment         string     `gorm:"column:comment;type:text;not null" json:"comment"`
	Status          Status     `gorm:"column:status;size:16;not null;index:idx_flags_status" json:"status"`
	IsActive        bool       `gorm:"column:is_active;not null;default:false" json:"is_active"`
	ReviewedBy      string     `gorm:"column:reviewed_by;size:32" json:"reviewed_by,omitempty"`
	ReviewedByName  string     `gorm:"column:reviewed_by_name;size:128" json:"reviewed_by_name,omitempty"`
	ReviewedAt      *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	ReviewComment   string     `gorm:"column:review_comment;type:text" json:"review_comment,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Flag) TableName() string { return "withdrawal_flags" }

// Effective is the "counts for priority" predicate: approved and active.
func (f *Flag) Effective() bool { return f.IsActive && f.Status == StatusApproved }

// IsUrgent: either the flag type or the priority says urgent.
func (f *Flag) IsUrgent() bool { return f.FlagType == TypeUrgent || f.Priority == PriorityUrgent }

// Review sets the decision fields together so status and is_active never disagree.
func (f *Flag) Review(to Status, reviewer actor.Actor, comment string, at time.Time) {
	at = at.UTC()
	f.Status = to
	f.IsActive = to == StatusApproved
	f.ReviewedBy = reviewer.ID
	f.ReviewedByName = reviewer.Name
	f.ReviewedAt = &at
	f.ReviewComment = comment
}
