package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/autojournal/internal/model"
)

// columns is the chart-of-accounts.csv layout as written. Reading matches
// columns by name, so an accountant's spreadsheet may reorder them or drop
// the optional last three.
var columns = []string{"account_id", "account_name", "account_type", "parent_id", "tax_line", "description"}

const requiredColumns = 3

// ReadAccounts reads chart-of-accounts.csv. IDs must be unique and every
// parent_id must name another account in the same chart.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	pos := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		pos[strings.TrimSpace(name)] = i
	}
	for _, name := range columns[:requiredColumns] {
		if _, ok := pos[name]; !ok {
			return nil, fmt.Errorf("chart of accounts has no %s column", name)
		}
	}
	field := func(rec []string, name string) string {
		if i, ok := pos[name]; ok {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	accounts := make([]model.Account, 0, len(records)-1)
	rowOf := make(map[string]int, len(records)-1)
	for i, rec := range records[1:] {
		row := i + 2
		acct := model.Account{
			ID:          field(rec, "account_id"),
			Name:        field(rec, "account_name"),
			Type:        model.AccountType(field(rec, "account_type")),
			ParentID:    field(rec, "parent_id"),
			TaxLine:     field(rec, "tax_line"),
			Description: field(rec, "description"),
		}
		switch {
		case acct.ID == "":
			return nil, fmt.Errorf("row %d: empty account_id", row)
		case !acct.Type.Valid():
			return nil, fmt.Errorf("row %d: account %s: unknown account_type %q", row, acct.ID, acct.Type)
		case rowOf[acct.ID] != 0:
			return nil, fmt.Errorf("row %d: duplicate account_id %q (first on row %d)", row, acct.ID, rowOf[acct.ID])
		}
		rowOf[acct.ID] = row
		accounts = append(accounts, acct)
	}

	for _, acct := range accounts {
		if acct.ParentID == "" {
			continue
		}
		if acct.ParentID == acct.ID || rowOf[acct.ParentID] == 0 {
			return nil, fmt.Errorf("row %d: account %s: unknown parent_id %q", rowOf[acct.ID], acct.ID, acct.ParentID)
		}
	}
	return accounts, nil
}

// WriteAccounts writes chart-of-accounts.csv with every column.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	rows := make([][]string, 0, len(accounts)+1)
	rows = append(rows, columns)
	for _, a := range accounts {
		rows = append(rows, []string{a.ID, a.Name, string(a.Type), a.ParentID, a.TaxLine, a.Description})
	}
	if err := csv.NewWriter(w).WriteAll(rows); err != nil {
		return fmt.Errorf("writing accounts CSV: %w", err)
	}
	return nil
}
