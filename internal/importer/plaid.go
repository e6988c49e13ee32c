package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/autojournal/internal/model"
)

// PlaidParser parses transaction exports from a Plaid-style aggregator.
// Columns are located by header name, so extra or reordered columns are
// fine. Aggregator amounts are positive for money out and are negated here.
type PlaidParser struct{}

const plaidDateFormat = "2006-01-02"

var plaidRequired = []string{"date", "name", "amount", "transaction_id"}

// Format returns the parser name.
func (p *PlaidParser) Format() string { return "plaid" }

// Parse reads an aggregator CSV and returns BankTransactions.
func (p *PlaidParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	t, err := readTable(r, "plaid", plaidRequired...)
	if err != nil {
		return nil, err
	}

	var txns []model.BankTransaction
	for i, rec := range t.rows {
		raw := t.get(rec, "date")
		date, err := time.Parse(plaidDateFormat, raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date %q: %w", i+2, raw, err)
		}
		raw = t.get(rec, "amount")
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", i+2, raw, err)
		}
		id := t.get(rec, "transaction_id")
		if id == "" {
			return nil, fmt.Errorf("row %d: empty transaction_id", i+2)
		}

		txns = append(txns, model.BankTransaction{
			Date:        date,
			Description: t.get(rec, "name"),
			Amount:      amount.Neg(),
			Reference:   "plaid_" + id,
			Type:        t.get(rec, "payment_channel"),
			Category:    primaryCategory(t.get(rec, "category")),
			Merchant:    t.get(rec, "merchant_name"),
		})
	}
	uniqueRefs(txns)
	return txns, nil
}

// primaryCategory reduces "LOAN_PAYMENTS > LOAN_PAYMENTS_CAR_PAYMENT" or
// "Transfer, Debit" to its upper-cased first element.
func primaryCategory(raw string) string {
	if i := strings.IndexAny(raw, ">,"); i >= 0 {
		raw = raw[:i]
	}
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", "_"))
}
