package accounts

import "github.com/cleared-dev/autojournal/internal/model"

// DefaultChart returns the default chart of accounts for an entity type.
// Every account referenced by DefaultRoles is present.
func DefaultChart(entityType string) []model.Account {
	switch entityType {
	case "llc_single_member":
		return llcSingleMemberChart()
	default:
		return llcSingleMemberChart()
	}
}

// DefaultRoles returns the role mapping that matches DefaultChart.
func DefaultRoles(entityType string) model.AccountRoles {
	switch entityType {
	case "llc_single_member":
		return llcSingleMemberRoles()
	default:
		return llcSingleMemberRoles()
	}
}

func llcSingleMemberChart() []model.Account {
	return []model.Account{
		{ID: "1010", Name: "Business Checking", Type: model.AccountTypeAsset, Description: "Primary checking account"},
		{ID: "1020", Name: "Business Savings", Type: model.AccountTypeAsset, Description: "Savings account"},
		{ID: "1100", Name: "Accounts Receivable", Type: model.AccountTypeAsset, Description: "Invoices owed by customers"},
		{ID: "1200", Name: "Inventory", Type: model.AccountTypeAsset, TaxLine: "schedule_c_33", Description: "Goods held for resale"},
		{ID: "1500", Name: "Equipment & Furniture", Type: model.AccountTypeAsset, TaxLine: "form_4562", Description: "Depreciable fixed assets"},
		{ID: "2000", Name: "Accounts Payable", Type: model.AccountTypeLiability, Description: "Bills owed to vendors"},
		{ID: "2010", Name: "Credit Card", Type: model.AccountTypeLiability, Description: "Business credit card"},
		{ID: "2100", Name: "Sales Tax Payable", Type: model.AccountTypeLiability, Description: "Sales tax collected, not yet remitted"},
		{ID: "2110", Name: "Payroll Tax Payable", Type: model.AccountTypeLiability, Description: "Withholding and employer payroll taxes"},
		{ID: "2200", Name: "Loans Payable", Type: model.AccountTypeLiability, Description: "Business loan principal"},
		{ID: "3010", Name: "Owner's Equity", Type: model.AccountTypeEquity, Description: "Owner's equity"},
		{ID: "4010", Name: "Service Revenue", Type: model.AccountTypeRevenue, TaxLine: "schedule_c_1"},
		{ID: "4020", Name: "Product Revenue", Type: model.AccountTypeRevenue, TaxLine: "schedule_c_1"},
		{ID: "4090", Name: "Other Income", Type: model.AccountTypeRevenue, TaxLine: "schedule_c_6", Description: "Interest, refunds, miscellaneous income"},
		{ID: "5010", Name: "Advertising & Marketing", Type: model.AccountTypeExpense, TaxLine: "schedule_c_8", Description: "Advertising costs"},
		{ID: "5020", Name: "Software & SaaS", Type: model.AccountTypeExpense, TaxLine: "schedule_c_18", Description: "Software subscriptions"},
		{ID: "5030", Name: "Office Supplies", Type: model.AccountTypeExpense, TaxLine: "schedule_c_18", Description: "Office supplies and expenses"},
		{ID: "5040", Name: "Professional Services", Type: model.AccountTypeExpense, TaxLine: "schedule_c_17", Description: "Legal, accounting, consulting"},
		{ID: "5050", Name: "Shipping & Postage", Type: model.AccountTypeExpense, TaxLine: "schedule_c_18", Description: "Postage and shipping costs"},
		{ID: "5060", Name: "Rent & Utilities", Type: model.AccountTypeExpense, TaxLine: "schedule_c_20b", Description: "Office rent, power, internet"},
		{ID: "5070", Name: "Bank Fees", Type: model.AccountTypeExpense, TaxLine: "schedule_c_27a", Description: "Service charges and wire fees"},
		{ID: "5080", Name: "Travel & Meals", Type: model.AccountTypeExpense, TaxLine: "schedule_c_24", Description: "Business travel and meals"},
		{ID: "5100", Name: "Salaries & Wages", Type: model.AccountTypeExpense, TaxLine: "schedule_c_26", Description: "Gross payroll"},
		{ID: "5200", Name: "Interest Expense", Type: model.AccountTypeExpense, TaxLine: "schedule_c_16b", Description: "Loan interest"},
		{ID: "5900", Name: "Miscellaneous Expense", Type: model.AccountTypeExpense, TaxLine: "schedule_c_27a", Description: "Uncategorized business expenses"},
	}
}

func llcSingleMemberRoles() model.AccountRoles {
	return model.AccountRoles{
		Cash:               "1010",
		SalesRevenue:       "4020",
		ServiceRevenue:     "4010",
		OtherIncome:        "4090",
		SalesTaxPayable:    "2100",
		MiscExpense:        "5900",
		FixedAssets:        "1500",
		Inventory:          "1200",
		LoansPayable:       "2200",
		InterestExpense:    "5200",
		CreditCardsPayable: "2010",
		PayrollTaxPayable:  "2110",
		AccountsReceivable: "1100",
		AccountsPayable:    "2000",
		SalariesWages:      "5100",
	}
}
