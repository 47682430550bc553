package progress

import (
	"fmt"

	"treasury-desk/internal/domain/withdrawal"
)

const dateLayout = "Jan 2, 2006"

func plural(n int) string {
	if n == 1 {
		return "1 business day"
	}
	return fmt.Sprintf("%d business days", n)
}

func narrate(w *withdrawal.Withdrawal, status withdrawal.Status, remaining int) Narrative {
	crypto := w.Type == withdrawal.TypeCrypto

	switch status {
	case withdrawal.StatusPending:
		msg := "Your bank withdrawal is awaiting review by the treasury desk."
		if crypto {
			msg = "Your crypto withdrawal is awaiting review by the treasury desk."
		}
		return Narrative{
			Title:   "Request received",
			Message: msg,
			Detail:  fmt.Sprintf("Estimated %s remaining", plural(remaining)),
		}

	case withdrawal.StatusApproved:
		if crypto {
			return Narrative{
				Title:   "Withdrawal approved",
				Message: "Your withdrawal has been approved and the transfer is queued for broadcast.",
				Detail:  "Transfers are usually broadcast within 1 business day of approval.",
			}
		}
		return Narrative{
			Title:   "Withdrawal approved",
			Message: "Your withdrawal has been approved and the bank transfer is being prepared.",
			Detail:  "Funds usually arrive within 3 business days of approval.",
		}

	case withdrawal.StatusSent:
		detail := "Waiting for network confirmation"
		if w.TransactionHash != "" {
			detail = "Hash: " + DisplayHash(w.TransactionHash)
		}
		return Narrative{
			Title:   "Transaction sent",
			Message: fmt.Sprintf("Your transfer has been broadcast on %s.", orDefault(w.Destination.Network, "the network")),
			Detail:  detail,
		}

	case withdrawal.StatusCredited:
		n := Narrative{Title: "Funds credited"}
		if crypto {
			n.Message = "The transfer is confirmed and the funds are in your wallet."
		} else {
			n.Message = "The transfer is complete and the funds are in your bank account."
		}
		if w.CreditDate != nil {
			n.Detail = "Credited on " + w.CreditDate.UTC().Format(dateLayout)
		} else {
			n.Detail = "Transfer complete"
		}
		return n

	case withdrawal.StatusRejected:
		detail := "Contact support for details."
		if w.Reason != "" {
			detail = "Reason: " + w.Reason
		}
		return Narrative{
			Title:   "Withdrawal rejected",
			Message: "Your withdrawal request could not be processed.",
			Detail:  detail,
		}

	case withdrawal.StatusRefunded:
		return Narrative{
			Title:   "Withdrawal refunded",
			Message: "The withdrawn amount has been returned to your investment account.",
			Detail:  "No further action is required.",
		}
	}
	return Narrative{}
}

func orDefault(s, d string) string {
	if s == "" {
		return d
	}
	return s
}
