package model

// AccountRoles maps the semantic roles the journal generator posts to onto
// concrete chart-of-accounts IDs. An empty field means the role is not
// configured for the business.
type AccountRoles struct {
	Cash               string `yaml:"cash" mapstructure:"cash"`
	SalesRevenue       string `yaml:"sales_revenue,omitempty" mapstructure:"sales_revenue"`
	ServiceRevenue     string `yaml:"service_revenue,omitempty" mapstructure:"service_revenue"`
	OtherIncome        string `yaml:"other_income,omitempty" mapstructure:"other_income"`
	SalesTaxPayable    string `yaml:"sales_tax_payable,omitempty" mapstructure:"sales_tax_payable"`
	MiscExpense        string `yaml:"misc_expense,omitempty" mapstructure:"misc_expense"`
	FixedAssets        string `yaml:"fixed_assets,omitempty" mapstructure:"fixed_assets"`
	Inventory          string `yaml:"inventory,omitempty" mapstructure:"inventory"`
	LoansPayable       string `yaml:"loans_payable,omitempty" mapstructure:"loans_payable"`
	InterestExpense    string `yaml:"interest_expense,omitempty" mapstructure:"interest_expense"`
	CreditCardsPayable string `yaml:"credit_cards_payable,omitempty" mapstructure:"credit_cards_payable"`
	PayrollTaxPayable  string `yaml:"payroll_tax_payable,omitempty" mapstructure:"payroll_tax_payable"`
	AccountsReceivable string `yaml:"accounts_receivable,omitempty" mapstructure:"accounts_receivable"`
	AccountsPayable    string `yaml:"accounts_payable,omitempty" mapstructure:"accounts_payable"`
	SalariesWages      string `yaml:"salaries_wages,omitempty" mapstructure:"salaries_wages"`
}

// Role names as they appear in autojournal.yaml and in error messages.
const (
	RoleCash               = "cash"
	RoleSalesRevenue       = "sales_revenue"
	RoleServiceRevenue     = "service_revenue"
	RoleOtherIncome        = "other_income"
	RoleSalesTaxPayable    = "sales_tax_payable"
	RoleMiscExpense        = "misc_expense"
	RoleFixedAssets        = "fixed_assets"
	RoleInventory          = "inventory"
	RoleLoansPayable       = "loans_payable"
	RoleInterestExpense    = "interest_expense"
	RoleCreditCardsPayable = "credit_cards_payable"
	RolePayrollTaxPayable  = "payroll_tax_payable"
	RoleAccountsReceivable = "accounts_receivable"
	RoleAccountsPayable    = "accounts_payable"
	RoleSalariesWages      = "salaries_wages"
)

// Lookup returns the account ID configured for a role name.
func (r AccountRoles) Lookup(role string) (string, bool) {
	for _, b := range r.Bindings() {
		if b.Role == role {
			return b.AccountID, b.AccountID != ""
		}
	}
	return "", false
}

// RoleBinding pairs a role name with its configured account ID.
type RoleBinding struct {
	Role      string
	AccountID string
}

// Bindings lists every role in a stable order, including unconfigured ones.
func (r AccountRoles) Bindings() []RoleBinding {
	return []RoleBinding{
		{RoleCash, r.Cash},
		{RoleSalesRevenue, r.SalesRevenue},
		{RoleServiceRevenue, r.ServiceRevenue},
		{RoleOtherIncome, r.OtherIncome},
		{RoleSalesTaxPayable, r.SalesTaxPayable},
		{RoleMiscExpense, r.MiscExpense},
		{RoleFixedAssets, r.FixedAssets},
		{RoleInventory, r.Inventory},
		{RoleLoansPayable, r.LoansPayable},
		{RoleInterestExpense, r.InterestExpense},
		{RoleCreditCardsPayable, r.CreditCardsPayable},
		{RolePayrollTaxPayable, r.PayrollTaxPayable},
		{RoleAccountsReceivable, r.AccountsReceivable},
		{RoleAccountsPayable, r.AccountsPayable},
		{RoleSalariesWages, r.SalariesWages},
	}
}
