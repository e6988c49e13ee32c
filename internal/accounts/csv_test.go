package accounts

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/autojournal/internal/model"
)

const chartHeader = "account_id,account_name,account_type,parent_id,tax_line,description\n"

func TestWriteThenRead(t *testing.T) {
	chart := []model.Account{
		{ID: "1010", Name: "Business Checking", Type: model.AccountTypeAsset, Description: "Primary checking account"},
		{ID: "1010.1", Name: "Payroll Sub-account", Type: model.AccountTypeAsset, ParentID: "1010"},
		{ID: "5020", Name: "Software & SaaS", Type: model.AccountTypeExpense, TaxLine: "schedule_c_18", Description: "Tools, hosting, \"SaaS\""},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAccounts(&buf, chart))
	assert.True(t, strings.HasPrefix(buf.String(), chartHeader))

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	assert.Equal(t, chart, got)
}

func TestReadAccounts_ColumnsByName(t *testing.T) {
	input := "account_type, account_id ,account_name,notes\n" +
		"expense,5900,  Miscellaneous ,anything\n" +
		"asset,1010,Checking,\n"

	got, err := ReadAccounts(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []model.Account{
		{ID: "5900", Name: "Miscellaneous", Type: model.AccountTypeExpense},
		{ID: "1010", Name: "Checking", Type: model.AccountTypeAsset},
	}, got)
}

func TestReadAccounts_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{"no type column", "account_id,account_name\n1010,Cash\n", "no account_type column"},
		{"empty id", chartHeader + " ,Cash,asset,,,\n", "row 2: empty account_id"},
		{"bad type", chartHeader + "1010,Cash,contra,,,\n", `unknown account_type "contra"`},
		{"duplicate", chartHeader + "1010,Cash,asset,,,\n1020,Savings,asset,,,\n1010,Cash again,asset,,,\n", "row 4: duplicate account_id \"1010\" (first on row 2)"},
		{"short row", chartHeader + "1010,Cash,asset\n", "wrong number of fields"},
		{"orphan", chartHeader + "1010,Cash,asset,1000,,\n", `account 1010: unknown parent_id "1000"`},
		{"own parent", chartHeader + "1010,Cash,asset,1010,,\n", "unknown parent_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadAccounts(strings.NewReader(tt.csv))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestReadAccounts_Empty(t *testing.T) {
	got, err := ReadAccounts(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = ReadAccounts(strings.NewReader(chartHeader))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTestdataMatchesDefaultChart(t *testing.T) {
	f, err := os.Open("../../testdata/chart-of-accounts.csv")
	require.NoError(t, err)
	defer f.Close()

	got, err := ReadAccounts(f)
	require.NoError(t, err)
	assert.Equal(t, DefaultChart("llc_single_member"), got)
}
