package withdrawal

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("withdrawal not found")
	ErrInvalidTransition = errors.New("withdrawal not in a state that allows this transition")
)

type Type string

const (
	TypeBank   Type = "bank"
	TypeCrypto Type = "crypto"
)

func (t Type) Valid() bool { return t == TypeBank || t == TypeCrypto }

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusSent     Status = "Sent" // crypto only
	StatusCredited Status = "Credited"
	StatusRejected Status = "Rejected"
	StatusRefunded Status = "Refunded"
)

var statuses = []Status{StatusPending, StatusApproved, StatusSent, StatusCredited, StatusRejected, StatusRefunded}

// ParseStatus matches case-insensitively. ok is false for anything outside the
// known set; callers that must stay lenient (progress derivation) decide what to do.
func ParseStatus(s string) (Status, bool) {
	s = strings.TrimSpace(s)
	for _, st := range statuses {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return Status(s), false
}

// Terminal statuses end the lifecycle. Rejected still allows a refund.
func (s Status) Terminal() bool {
	return s == StatusCredited || s == StatusRejected || s == StatusRefunded
}

// Flaggable: priority flags may only be requested while the withdrawal is still in flight.
func (s Status) Flaggable() bool { return s == StatusPending || s == StatusApproved }

const CurrencyUSD = "USD"

// Destination holds the bank group XOR the crypto group, depending on the withdrawal type.
type Destination struct {
	BankName      string `gorm:"column:bank_name;size:128" json:"bank_name,omitempty"`
	AccountNumber string `gorm:"column:account_number;size:64" json:"account_number,omitempty"`
	SwiftCode     string `gorm:"column:swift_code;size:16" json:"swift_code,omitempty"`
	BankCurrency  string `gorm:"column:bank_currency;size:8" json:"currency,omitempty"`

	Address  string `gorm:"column:crypto_address;size:128" json:"address,omitempty"`
	Network  string `gorm:"column:crypto_network;size:32" json:"network,omitempty"`
	CoinType string `gorm:"column:coin_type;size:16" json:"coin_type,omitempty"`
}

func (d Destination) hasBank() bool {
	return d.BankName != "" || d.AccountNumber != "" || d.SwiftCode != "" || d.BankCurrency != ""
}

func (d Destination) hasCrypto() bool {
	return d.Address != "" || d.Network != "" || d.CoinType != ""
}

var (
	ErrDestinationMismatch   = errors.New("destination details do not match withdrawal type")
	ErrDestinationIncomplete = errors.New("destination details incomplete")
)

// ValidateFor checks the XOR rule: the group of the given type is complete and
// the other group is empty.
func (d Destination) ValidateFor(t Type) error {
	switch t {
	case TypeBank:
		if d.hasCrypto() {
			return ErrDestinationMismatch
		}
		if d.BankName == "" || d.AccountNumber == "" {
			return ErrDestinationIncomplete
		}
	case TypeCrypto:
		if d.hasBank() {
			return ErrDestinationMismatch
		}
		if d.Address == "" || d.Network == "" || d.CoinType == "" {
			return ErrDestinationIncomplete
		}
	default:
		return ErrDestinationMismatch
	}
	return nil
}

// Table: withdrawal_requests
type Withdrawal struct {
	ID              uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	WithdrawalID    string          `gorm:"column:withdrawal_id;size:32;not null;uniqueIndex:ux_withdrawals_withdrawal_id" json:"withdrawal_id"`
	InvestorID      string          `gorm:"column:investor_id;size:32;not null;index:idx_withdrawals_investor" json:"investor_id"`
	InvestorName    string          `gorm:"column:investor_name;size:128" json:"investor_name"`
	Amount          decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Currency        string          `gorm:"column:currency;size:8;not null;default:'USD'" json:"currency"`
	Type            Type            `gorm:"column:type;size:16;not null" json:"type"`
	Status          Status          `gorm:"column:status;size:16;not null;index:idx_withdrawals_status" json:"status"`
	SubmittedAt     time.Time       `gorm:"column:submitted_at;not null" json:"date"`
	ProcessedAt     *time.Time      `gorm:"column:processed_at" json:"processed_at,omitempty"`
	ApprovalDate    *time.Time      `gorm:"column:approval_date" json:"approval_date,omitempty"`
	CreditDate      *time.Time      `gorm:"column:credit_date" json:"credit_date,omitempty"`
	RejectionDate   *time.Time      `gorm:"column:rejection_date" json:"rejection_date,omitempty"`
	Reason          string          `gorm:"column:reason;type:text" json:"reason,omitempty"`
	TransactionHash string          `gorm:"column:transaction_hash;size:128" json:"transaction_hash,omitempty"`
	Destination     Destination     `gorm:"embedded" json:"destination_details"`
	UpdatedBy       string          `gorm:"column:updated_by;size:32" json:"updated_by,omitempty"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Withdrawal) TableName() string { return "withdrawal_requests" }
