package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTransaction represents a parsed bank export row.
type BankTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = money out, positive = money in
	Reference   string
	Type        string // bank transaction type (ACH_DEBIT, etc.)
	Category    string // aggregator category, when the export carries one
	Merchant    string
}

// IsInflow reports whether money entered the account.
func (t BankTransaction) IsInflow() bool {
	return t.Amount.IsPositive()
}
