package progress

import (
	"time"

	"treasury-desk/internal/domain/withdrawal"
)

type Narrative struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

type Step struct {
	Index   int    `json:"index"`
	Label   string `json:"label"`
	Done    bool   `json:"done"`
	Current bool   `json:"current"`
}

// Progress is the display state of one withdrawal at a point in time.
type Progress struct {
	WithdrawalID          string            `json:"withdrawal_id"`
	Type                  withdrawal.Type   `json:"type"`
	Status                withdrawal.Status `json:"status"`
	Recognized            bool              `json:"recognized"`
	Stage                 int               `json:"stage"`
	TotalStages           int               `json:"total_stages"`
	Percentage            int               `json:"percentage"`
	EstimatedCompletion   *time.Time        `json:"estimated_completion,omitempty"`
	BusinessDaysElapsed   int               `json:"business_days_elapsed"`
	RemainingBusinessDays int               `json:"remaining_business_days"`
	Narrative             Narrative         `json:"narrative"`
	Steps                 []Step            `json:"steps"`
	ComputedAt            time.Time         `json:"computed_at"`
}
