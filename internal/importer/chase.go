package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/autojournal/internal/model"
)

// ChaseParser parses Chase CSV downloads. Both the checking layout
// (Details, Posting Date, Description, Amount, Type, ...) and the credit card
// layout (Transaction Date, Post Date, Description, Category, Type, Amount,
// Memo) are accepted; amounts are already negative for money out.
type ChaseParser struct{}

const chaseDateFormat = "01/02/2006"

// chaseCardCategories maps Chase card categories onto the aggregator
// categories the categorizer understands.
var chaseCardCategories = map[string]string{
	"FOOD & DRINK":          "FOOD_AND_DRINK",
	"TRAVEL":                "TRAVEL",
	"BILLS & UTILITIES":     "RENT_AND_UTILITIES",
	"FEES & ADJUSTMENTS":    "BANK_FEES",
	"PROFESSIONAL SERVICES": "GENERAL_SERVICES",
	"GAS":                   "TRANSPORTATION",
	"SHOPPING":              "GENERAL_MERCHANDISE",
}

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV and returns BankTransactions.
func (p *ChaseParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	t, err := readTable(r, "chase", "description", "amount")
	if err != nil {
		return nil, err
	}

	dateCol := "posting date"
	if !t.has(dateCol) {
		dateCol = "transaction date"
	}
	if len(t.rows) > 0 && !t.has(dateCol) {
		return nil, fmt.Errorf("chase CSV missing %q or %q column", "posting date", "transaction date")
	}

	var txns []model.BankTransaction
	for i, rec := range t.rows {
		txn, err := parseChaseRow(t, rec, dateCol)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	uniqueRefs(txns)
	return txns, nil
}

func parseChaseRow(t *table, rec []string, dateCol string) (model.BankTransaction, error) {
	raw := t.get(rec, dateCol)
	date, err := time.Parse(chaseDateFormat, raw)
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing date %q: %w", raw, err)
	}

	raw = t.get(rec, "amount")
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing amount %q: %w", raw, err)
	}

	desc := t.get(rec, "description")
	txnType := t.get(rec, "type")
	return model.BankTransaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Reference:   chaseRef(date, desc),
		Type:        txnType,
		Category:    chaseCategory(t.get(rec, "category"), txnType),
	}, nil
}

// chaseCategory translates a card row's category. A card "Payment" is money
// arriving from the checking account, which books the other side.
func chaseCategory(category, txnType string) string {
	if strings.EqualFold(txnType, "payment") {
		return "TRANSFER_IN"
	}
	if category == "" {
		return ""
	}
	if mapped, ok := chaseCardCategories[strings.ToUpper(category)]; ok {
		return mapped
	}
	return primaryCategory(strings.ReplaceAll(category, "&", "and"))
}

// chaseRef builds chase_<yyyymmdd>_<first ten alphanumerics of the description>.
func chaseRef(date time.Time, desc string) string {
	var b strings.Builder
	for _, r := range desc {
		if b.Len() == 10 {
			break
		}
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return "chase_" + date.Format("20060102") + "_" + b.String()
}
