package entries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		txn     Transaction
		want    Kind
		source  Source
		keyword string
	}{
		{"explicit wins over keywords", Transaction{Description: "payroll", Kind: KindVendorPayment, Polarity: PolarityDebit}, KindVendorPayment, SourceExplicit, ""},
		{"equipment", Transaction{Description: "New EQUIPMENT rack", Polarity: PolarityDebit}, KindAssetPurchase, SourceKeyword, "equipment"},
		{"merchandise", Transaction{Description: "merchandise restock", Polarity: PolarityDebit}, KindInventoryPurchase, SourceKeyword, "merchandise"},
		{"loan pmt", Transaction{Description: "BANK LOAN PMT", Polarity: PolarityDebit}, KindLoanPayment, SourceKeyword, "loan pmt"},
		{"credit card payment", Transaction{Description: "Credit Card Payment thank you", Polarity: PolarityDebit}, KindCreditCardPayment, SourceKeyword, "credit card payment"},
		{"payroll tax before payroll", Transaction{Description: "payroll tax deposit", Polarity: PolarityDebit}, KindTaxPayment, SourceKeyword, "payroll tax"},
		{"wages", Transaction{Description: "weekly wages", Polarity: PolarityDebit}, KindPayroll, SourceKeyword, "wages"},
		{"transfer", Transaction{Description: "Online Transfer", Polarity: PolarityCredit}, KindTransfer, SourceKeyword, "transfer"},
		{"asset outranks payroll", Transaction{Description: "payroll computer", Polarity: PolarityDebit}, KindAssetPurchase, SourceKeyword, "computer"},
		{"credit default", Transaction{Description: "Deposit", Polarity: PolarityCredit}, KindIncome, SourcePolarity, ""},
		{"debit default", Transaction{Description: "Coffee", Polarity: PolarityDebit}, KindExpense, SourcePolarity, ""},
		{"unknown explicit kind falls to polarity", Transaction{Description: "Coffee", Kind: Kind("bogus"), Polarity: PolarityDebit}, KindExpense, SourcePolarity, ""},
		{"unknown explicit kind skips keywords", Transaction{Description: "Online Transfer from savings", Kind: Kind("refund"), Polarity: PolarityCredit}, KindIncome, SourcePolarity, ""},
		{"unknown explicit debit skips keywords", Transaction{Description: "EQUIPMENT lease", Kind: Kind("refund"), Polarity: PolarityDebit}, KindExpense, SourcePolarity, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.txn)
			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, tt.source, got.Source)
			assert.Equal(t, tt.keyword, got.Keyword)
		})
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Loan_Payment ")
	require.NoError(t, err)
	assert.Equal(t, KindLoanPayment, k)

	k, err = ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, KindUnknown, k)

	_, err = ParseKind("refund")
	assert.Error(t, err)
}

func TestParsePolarity(t *testing.T) {
	p, err := ParsePolarity("CREDIT")
	require.NoError(t, err)
	assert.Equal(t, PolarityCredit, p)

	_, err = ParsePolarity("sideways")
	assert.Error(t, err)
}

func TestKinds(t *testing.T) {
	kinds := Kinds()
	assert.Len(t, kinds, 12)
	for _, k := range kinds {
		assert.True(t, k.Valid(), "kind %s", k)
	}
	assert.False(t, KindUnknown.Valid())

	kinds[0] = "mutated"
	assert.Equal(t, KindIncome, Kinds()[0])
}
