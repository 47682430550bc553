package progress

import (
	"fmt"
	"strings"
	"time"

	"treasury-desk/internal/domain/withdrawal"
	"treasury-desk/pkg/bizday"
)

// Business days a withdrawal normally spends in Pending, per path.
const (
	BankRequiredDays   = 3
	CryptoRequiredDays = 2
)

type row struct {
	stage   int
	percent int
}

var bankRows = map[withdrawal.Status]row{
	withdrawal.StatusPending:  {1, 33},
	withdrawal.StatusApproved: {2, 66},
	withdrawal.StatusCredited: {3, 100},
	withdrawal.StatusRejected: {4, 100},
	withdrawal.StatusRefunded: {5, 100},
}

var cryptoRows = map[withdrawal.Status]row{
	withdrawal.StatusPending:  {1, 25},
	withdrawal.StatusApproved: {2, 50},
	withdrawal.StatusSent:     {3, 75},
	withdrawal.StatusCredited: {4, 100},
	withdrawal.StatusRejected: {5, 100},
	withdrawal.StatusRefunded: {6, 100},
}

var (
	bankSteps   = []string{"Pending review", "Approved", "Credited"}
	cryptoSteps = []string{"Pending review", "Approved", "Sent", "Credited"}
)

// Derive computes the display state of w as seen at now. It never fails: a status
// outside the table (or a Sent bank withdrawal) is shown as the path's first stage.
func Derive(w *withdrawal.Withdrawal, now time.Time) Progress {
	now = now.UTC()
	crypto := w.Type == withdrawal.TypeCrypto

	rows, labels, required := bankRows, bankSteps, BankRequiredDays
	if crypto {
		rows, labels, required = cryptoRows, cryptoSteps, CryptoRequiredDays
	}

	status, known := withdrawal.ParseStatus(string(w.Status))
	r, inTable := rows[status]
	recognized := known && inTable
	if !recognized {
		r = rows[withdrawal.StatusPending]
	}

	elapsed := bizday.CountBusinessDays(w.SubmittedAt, now)
	p := Progress{
		WithdrawalID:        w.WithdrawalID,
		Type:                w.Type,
		Status:              status,
		Recognized:          recognized,
		Stage:               r.stage,
		TotalStages:         len(labels),
		Percentage:          r.percent,
		BusinessDaysElapsed: elapsed,
		ComputedAt:          now,
	}

	if !recognized {
		p.RemainingBusinessDays = max(0, required-elapsed)
		p.Narrative = Narrative{
			Title:   "Withdrawal in progress",
			Message: "Your withdrawal request is being processed.",
			Detail:  fmt.Sprintf("Current status: %s", strings.TrimSpace(string(w.Status))),
		}
		p.Steps = steps(labels, r.stage, "")
		return p
	}

	eta := estimate(w, status, required, crypto, now)
	p.EstimatedCompletion = &eta
	switch status {
	case withdrawal.StatusPending:
		p.RemainingBusinessDays = max(0, required-elapsed)
	case withdrawal.StatusApproved, withdrawal.StatusSent:
		p.RemainingBusinessDays = bizday.CountBusinessDays(now, eta)
	}
	p.Narrative = narrate(w, status, p.RemainingBusinessDays)

	exception := ""
	if status == withdrawal.StatusRejected || status == withdrawal.StatusRefunded {
		exception = string(status)
	}
	p.Steps = steps(labels, r.stage, exception)
	return p
}

func estimate(w *withdrawal.Withdrawal, status withdrawal.Status, required int, crypto bool, now time.Time) time.Time {
	switch status {
	case withdrawal.StatusPending:
		return bizday.AddBusinessDays(w.SubmittedAt.UTC(), required)
	case withdrawal.StatusApproved:
		base := w.SubmittedAt.UTC()
		if w.ApprovalDate != nil {
			base = w.ApprovalDate.UTC()
		}
		if crypto {
			return bizday.AddBusinessDays(base, 1)
		}
		return bizday.AddBusinessDays(base, BankRequiredDays)
	case withdrawal.StatusSent:
		return bizday.AddBusinessDays(now, 1)
	case withdrawal.StatusCredited:
		return orNow(w.CreditDate, now)
	case withdrawal.StatusRejected:
		return orNow(w.RejectionDate, now)
	}
	return now
}

func orNow(t *time.Time, now time.Time) time.Time {
	if t == nil {
		return now
	}
	return t.UTC()
}

// steps marks the happy-path checkpoints. Exception branches (rejected,
// refunded) get their own trailing step and leave only the review step done.
func steps(labels []string, stage int, exception string) []Step {
	out := make([]Step, 0, len(labels)+1)
	for i, l := range labels {
		idx := i + 1
		s := Step{Index: idx, Label: l}
		if exception != "" {
			s.Done = idx == 1
		} else {
			s.Done = idx < stage || (idx == stage && idx == len(labels))
			s.Current = idx == stage
		}
		out = append(out, s)
	}
	if exception != "" {
		out = append(out, Step{Index: stage, Label: exception, Done: true, Current: true})
	}
	return out
}

// DisplayHash shortens long transaction hashes to first 16 + "..." + last 8.
func DisplayHash(h string) string {
	h = strings.TrimSpace(h)
	if len(h) <= 24 {
		return h
	}
	return h[:16] + "..." + h[len(h)-8:]
}
