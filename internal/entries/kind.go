package entries

import (
	"fmt"
	"strings"
)

// Kind is the semantic type of a bank transaction. The zero value means
// "not specified" and triggers inference from the description.
type Kind string

const (
	KindUnknown           Kind = ""
	KindIncome            Kind = "income"
	KindExpense           Kind = "expense"
	KindAssetPurchase     Kind = "asset_purchase"
	KindInventoryPurchase Kind = "inventory_purchase"
	KindLoanPayment       Kind = "loan_payment"
	KindCreditCardPayment Kind = "credit_card_payment"
	KindTaxPayment        Kind = "tax_payment"
	KindTaxCollection     Kind = "tax_collection"
	KindCustomerPayment   Kind = "customer_payment"
	KindVendorPayment     Kind = "vendor_payment"
	KindPayroll           Kind = "payroll"
	KindTransfer          Kind = "transfer"
)

var allKinds = []Kind{
	KindIncome,
	KindExpense,
	KindAssetPurchase,
	KindInventoryPurchase,
	KindLoanPayment,
	KindCreditCardPayment,
	KindTaxPayment,
	KindTaxCollection,
	KindCustomerPayment,
	KindVendorPayment,
	KindPayroll,
	KindTransfer,
}

// Kinds returns the twelve known kinds.
func Kinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

// Valid reports whether k is one of the twelve known kinds.
func (k Kind) Valid() bool {
	for _, known := range allKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKind converts a string such as "loan_payment" to a Kind. The empty
// string parses to KindUnknown.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if k == KindUnknown || k.Valid() {
		return k, nil
	}
	return KindUnknown, fmt.Errorf("unknown transaction kind %q", s)
}

// Polarity is the direction of a bank-statement line.
type Polarity string

const (
	PolarityCredit Polarity = "credit" // money in
	PolarityDebit  Polarity = "debit"  // money out
)

// ParsePolarity converts "credit" or "debit" to a Polarity.
func ParsePolarity(s string) (Polarity, error) {
	switch p := Polarity(strings.ToLower(strings.TrimSpace(s))); p {
	case PolarityCredit, PolarityDebit:
		return p, nil
	}
	return "", fmt.Errorf("unknown polarity %q (want credit or debit)", s)
}

// Source records how a kind was chosen.
type Source string

const (
	SourceExplicit Source = "explicit"
	SourceKeyword  Source = "keyword"
	SourcePolarity Source = "polarity"
)

// Classification is the outcome of kind inference.
type Classification struct {
	Kind    Kind
	Source  Source
	Keyword string // matched substring when Source == SourceKeyword
}

type inferenceRule struct {
	keywords []string
	kind     Kind
}

// inferenceRules are tried in order; the first matching substring wins.
var inferenceRules = []inferenceRule{
	{[]string{"equipment", "computer", "furniture"}, KindAssetPurchase},
	{[]string{"inventory", "merchandise", "products"}, KindInventoryPurchase},
	{[]string{"loan payment", "loan pmt"}, KindLoanPayment},
	{[]string{"credit card payment", "cc payment"}, KindCreditCardPayment},
	{[]string{"tax payment", "sales tax", "payroll tax"}, KindTaxPayment},
	{[]string{"payroll", "salary", "wages"}, KindPayroll},
	{[]string{"transfer", "tfr"}, KindTransfer},
}

// Classify determines the effective kind of txn. A supplied kind is used
// as is; one outside the known kinds goes straight to income for credits
// and expense for debits. Without a kind, the first matching description
// rule wins, else the polarity default applies.
func Classify(txn Transaction) Classification {
	switch {
	case txn.Kind.Valid():
		return Classification{Kind: txn.Kind, Source: SourceExplicit}
	case txn.Kind != KindUnknown:
		return Classification{Kind: polarityDefault(txn.Polarity), Source: SourcePolarity}
	}

	desc := strings.ToLower(txn.Description)
	for _, rule := range inferenceRules {
		for _, kw := range rule.keywords {
			if strings.Contains(desc, kw) {
				return Classification{Kind: rule.kind, Source: SourceKeyword, Keyword: kw}
			}
		}
	}

	return Classification{Kind: polarityDefault(txn.Polarity), Source: SourcePolarity}
}

func polarityDefault(p Polarity) Kind {
	if p == PolarityCredit {
		return KindIncome
	}
	return KindExpense
}
