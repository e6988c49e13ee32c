package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/autojournal/internal/model"
)

func TestDefaultChart(t *testing.T) {
	chart := DefaultChart("llc_single_member")
	assert.Len(t, chart, 25)
	assert.Equal(t, chart, DefaultChart("unknown_type"))

	counts := make(map[model.AccountType]int)
	for _, acct := range chart {
		assert.NotEmpty(t, acct.Name, acct.ID)
		assert.True(t, acct.Type.Valid(), acct.ID)
		counts[acct.Type]++
	}
	assert.Equal(t, map[model.AccountType]int{
		model.AccountTypeAsset:     5,
		model.AccountTypeLiability: 5,
		model.AccountTypeEquity:    1,
		model.AccountTypeRevenue:   3,
		model.AccountTypeExpense:   11,
	}, counts)
}

func TestDefaultRoles(t *testing.T) {
	roles := DefaultRoles("llc_single_member")
	assert.Equal(t, roles, DefaultRoles("unknown_type"))
	for _, b := range roles.Bindings() {
		assert.NotEmpty(t, b.AccountID, "role %s unbound", b.Role)
		assert.NotEmpty(t, roleTypes[b.Role], "role %s has no allowed types", b.Role)
	}
	assert.NoError(t, NewService(DefaultChart("llc_single_member")).CheckRoles(roles))
}

func TestCheckRoles(t *testing.T) {
	svc := NewService(DefaultChart("llc_single_member"))

	tests := []struct {
		name    string
		roles   model.AccountRoles
		wantErr []error
		wantSub []string
	}{
		{name: "only cash", roles: model.AccountRoles{Cash: "1010"}},
		{name: "card feed as cash", roles: model.AccountRoles{Cash: "2010"}},
		{
			name:    "missing accounts",
			roles:   model.AccountRoles{Cash: "1010", MiscExpense: "9999", Inventory: "8888"},
			wantErr: []error{ErrUnknownRoleAccount},
			wantSub: []string{"misc_expense=9999", "inventory=8888"},
		},
		{
			name:    "wrong types",
			roles:   model.AccountRoles{Cash: "5900", ServiceRevenue: "5020"},
			wantErr: []error{ErrRoleAccountType},
			wantSub: []string{"cash=5900 (expense)", "service_revenue=5020 (expense)"},
		},
		{
			name:    "both",
			roles:   model.AccountRoles{Cash: "1010", LoansPayable: "1020", InterestExpense: "7000"},
			wantErr: []error{ErrUnknownRoleAccount, ErrRoleAccountType},
			wantSub: []string{"interest_expense=7000", "loans_payable=1020 (asset)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CheckRoles(tt.roles)
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
			for _, sub := range tt.wantSub {
				assert.ErrorContains(t, err, sub)
			}
		})
	}
}

func TestLookups(t *testing.T) {
	svc := NewService(DefaultChart("llc_single_member"))

	acct, ok := svc.Get("5900")
	require.True(t, ok)
	assert.Equal(t, "Miscellaneous Expense", acct.Name)
	_, ok = svc.Get("9999")
	assert.False(t, ok)

	assert.True(t, svc.Exists("2100"))
	assert.False(t, svc.Exists(""))
}

func TestSaveAndLoad(t *testing.T) {
	root := t.TempDir()
	svc := NewService(DefaultChart("llc_single_member"))
	require.NoError(t, svc.Save(root))
	assert.FileExists(t, filepath.Join(root, "accounts", "chart-of-accounts.csv"))

	loaded, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, svc.All(), loaded.All())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "accounts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ChartPath), []byte(chartHeader+"1010,Cash,cash,,,\n"), 0o644))
	_, err = Load(root)
	assert.ErrorContains(t, err, "reading chart of accounts")
}
