package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is where a journal entry stands in review.
type EntryStatus string

const (
	StatusAutoConfirmed      EntryStatus = "auto-confirmed" // posted above the auto-confirm threshold
	StatusPendingReview      EntryStatus = "pending-review"
	StatusUserConfirmed      EntryStatus = "user-confirmed"
	StatusUserCorrected      EntryStatus = "user-corrected"
	StatusVoided             EntryStatus = "voided"
	StatusBootstrapConfirmed EntryStatus = "bootstrap-confirmed" // opening balances
)

// Valid reports whether s is a known status.
func (s EntryStatus) Valid() bool {
	switch s {
	case StatusAutoConfirmed, StatusPendingReview, StatusUserConfirmed,
		StatusUserCorrected, StatusVoided, StatusBootstrapConfirmed:
		return true
	}
	return false
}

// Leg is one line of a journal entry as stored in journal.csv. Legs of the
// same entry share the entry ID prefix and differ in the trailing letter.
type Leg struct {
	EntryID      string // "YYYY-MM-NNNx", x = a, b, c...
	Date         time.Time
	AccountID    string
	Description  string
	Debit        decimal.Decimal // zero on a credit leg
	Credit       decimal.Decimal // zero on a debit leg
	Counterparty string
	Reference    string // bank reference the entry was generated from
	Kind         string // transaction kind, e.g. "loan_payment"
	Confidence   decimal.Decimal
	Status       EntryStatus
	Evidence     string
	ReceiptHash  string
	Tags         string // semicolon-separated
	Notes        string
}

// EntryGroup strips the leg letter: "2025-01-001a" -> "2025-01-001".
func (l Leg) EntryGroup() string {
	return strings.TrimRightFunc(l.EntryID, func(r rune) bool {
		return r >= 'a' && r <= 'z'
	})
}

// Amount returns the non-zero side of the leg.
func (l Leg) Amount() decimal.Decimal {
	if l.Debit.IsZero() {
		return l.Credit
	}
	return l.Debit
}
