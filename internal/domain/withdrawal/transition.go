package withdrawal

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrReasonRequired = errors.New("reason is required when rejecting a withdrawal")
	ErrHashRequired   = errors.New("transaction hash is required when marking a crypto withdrawal sent")
)

// allowed[from] lists the reachable statuses for both paths; path-specific
// targets (Sent, Credited) are narrowed by CanTransition.
var allowed = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected, StatusRefunded},
	StatusApproved: {StatusPending, StatusSent, StatusCredited, StatusRejected, StatusRefunded},
	StatusSent:     {StatusPending, StatusCredited, StatusRejected, StatusRefunded},
	StatusRejected: {StatusRefunded},
}

// CanTransition reports whether a governor may move a withdrawal of type t from -> to.
func CanTransition(t Type, from, to Status) bool {
	if to == StatusSent && t != TypeCrypto {
		return false
	}
	// bank credits straight from Approved, crypto only after Sent
	if to == StatusCredited {
		switch t {
		case TypeBank:
			return from == StatusApproved
		case TypeCrypto:
			return from == StatusSent
		}
		return false
	}
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Change struct {
	To     Status
	Reason string
	TxHash string
	By     string
	At     time.Time
}

// Apply mutates w in place after checking the transition and its required fields.
// Nothing is written when an error is returned.
func (w *Withdrawal) Apply(c Change) error {
	if !CanTransition(w.Type, w.Status, c.To) {
		return ErrInvalidTransition
	}
	reason := strings.TrimSpace(c.Reason)
	hash := strings.TrimSpace(c.TxHash)
	switch c.To {
	case StatusRejected:
		if reason == "" {
			return ErrReasonRequired
		}
	case StatusSent:
		if hash == "" {
			return ErrHashRequired
		}
	}

	at := c.At.UTC()
	switch c.To {
	case StatusPending:
		w.TransactionHash = ""
		w.ApprovalDate = nil
		w.ProcessedAt = nil
	case StatusApproved:
		w.ApprovalDate = &at
		w.ProcessedAt = &at
	case StatusSent:
		w.TransactionHash = hash
	case StatusCredited:
		w.CreditDate = &at
	case StatusRejected:
		w.RejectionDate = &at
		w.Reason = reason
	case StatusRefunded:
		w.ProcessedAt = &at
	}
	w.Status = c.To
	w.UpdatedBy = c.By
	return nil
}
