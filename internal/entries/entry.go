package entries

import (
	"github.com/shopspring/decimal"
)

// Transaction is the input to the factory: one imported bank line plus
// whatever the category-mapping layer resolved for it.
type Transaction struct {
	Description string
	Amount      decimal.Decimal // absolute value, must be positive
	Polarity    Polarity
	Kind        Kind   // optional explicit kind
	CategoryID  string // optional account ID resolved by category mapping

	TaxAmount       decimal.NullDecimal
	PrincipalAmount decimal.NullDecimal
	InterestAmount  decimal.NullDecimal
}

// Line is one debit or credit against a single account.
type Line struct {
	AccountID   string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// Amount returns whichever side of the line is non-zero.
func (l Line) Amount() decimal.Decimal {
	if !l.Debit.IsZero() {
		return l.Debit
	}
	return l.Credit
}

// IsDebit reports whether the line is a debit.
func (l Line) IsDebit() bool {
	return !l.Debit.IsZero()
}

// Set is the ordered list of lines produced for one transaction.
type Set []Line

// TotalDebits sums the debit side.
func (s Set) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredits sums the credit side.
func (s Set) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s {
		total = total.Add(l.Credit)
	}
	return total
}

// Balanced reports whether debits equal credits exactly.
func (s Set) Balanced() bool {
	return s.TotalDebits().Equal(s.TotalCredits())
}

func present(d decimal.NullDecimal) bool {
	return d.Valid && !d.Decimal.IsZero()
}
