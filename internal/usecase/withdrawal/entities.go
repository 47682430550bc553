package withdrawal

import (
	"time"

	"treasury-desk/internal/domain/actor"
	domain "treasury-desk/internal/domain/withdrawal"

	"github.com/shopspring/decimal"
)

type SubmitInput struct {
	InvestorID   string
	InvestorName string
	Amount       decimal.Decimal
	Type         domain.Type
	Destination  domain.Destination
	SubmittedAt  time.Time // zero means now
}

type UpdateStatusInput struct {
	WithdrawalID string
	Status       string
	Reason       string
	TxHash       string
	Actor        actor.Actor
}

type ListInput struct {
	Status     string
	Type       string
	InvestorID string
	Limit      int
}

type WithdrawalDTO struct {
	WithdrawalID    string             `json:"id"`
	InvestorID      string             `json:"investor_id"`
	InvestorName    string             `json:"investor_name"`
	Amount          decimal.Decimal    `json:"amount"`
	Currency        string             `json:"currency"`
	Type            domain.Type        `json:"type"`
	Status          domain.Status      `json:"status"`
	Date            time.Time          `json:"date"`
	ProcessedAt     *time.Time         `json:"processed_at,omitempty"`
	ApprovalDate    *time.Time         `json:"approval_date,omitempty"`
	CreditDate      *time.Time         `json:"credit_date,omitempty"`
	RejectionDate   *time.Time         `json:"rejection_date,omitempty"`
	Reason          string             `json:"reason,omitempty"`
	TransactionHash string             `json:"transaction_hash,omitempty"`
	Destination     domain.Destination `json:"destination_details"`
	UpdatedBy       string             `json:"updated_by,omitempty"`
}

func toDTO(w *domain.Withdrawal) WithdrawalDTO {
	return WithdrawalDTO{
		WithdrawalID:    w.WithdrawalID,
		InvestorID:      w.InvestorID,
		InvestorName:    w.InvestorName,
		Amount:          w.Amount,
		Currency:        w.Currency,
		Type:            w.Type,
		Status:          w.Status,
		Date:            w.SubmittedAt,
		ProcessedAt:     w.ProcessedAt,
		ApprovalDate:    w.ApprovalDate,
		CreditDate:      w.CreditDate,
		RejectionDate:   w.RejectionDate,
		Reason:          w.Reason,
		TransactionHash: w.TransactionHash,
		Destination:     w.Destination,
		UpdatedBy:       w.UpdatedBy,
	}
}
