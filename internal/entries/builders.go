package entries

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/autojournal/internal/model"
)

const roleCategory = "category"

// estimatedPrincipalShare is applied when a loan payment arrives without a
// principal/interest breakdown.
var estimatedPrincipalShare = decimal.New(8, -1)

// candidate is one optional account reference. Candidates are tried in
// order and the first non-empty ID wins.
type candidate struct {
	role string
	id   string
}

func firstPresent(cands ...candidate) (string, bool) {
	for _, c := range cands {
		if c.id != "" {
			return c.id, true
		}
	}
	return "", false
}

func (f *Factory) role(name string) candidate {
	id, _ := f.roles.Lookup(name)
	return candidate{role: name, id: id}
}

func category(txn Transaction) candidate {
	return candidate{role: roleCategory, id: txn.CategoryID}
}

// lineBuilder accumulates lines and stops at the first unresolved account.
type lineBuilder struct {
	kind Kind
	desc string
	set  Set
	err  error
}

func newLines(kind Kind, txn Transaction) *lineBuilder {
	return &lineBuilder{kind: kind, desc: strings.TrimSpace(txn.Description), set: Set{}}
}

func (b *lineBuilder) debit(amount decimal.Decimal, label string, cands ...candidate) {
	b.add(true, amount, label, cands)
}

func (b *lineBuilder) credit(amount decimal.Decimal, label string, cands ...candidate) {
	b.add(false, amount, label, cands)
}

func (b *lineBuilder) add(isDebit bool, amount decimal.Decimal, label string, cands []candidate) {
	if b.err != nil || amount.IsZero() {
		return
	}
	id, ok := firstPresent(cands...)
	if !ok {
		b.err = &UnresolvedAccountError{Kind: b.kind, Role: cands[len(cands)-1].role}
		return
	}

	line := Line{AccountID: id, Description: label}
	if b.desc != "" {
		line.Description = label + ": " + b.desc
	}
	if isDebit {
		line.Debit = amount
	} else {
		line.Credit = amount
	}
	b.set = append(b.set, line)
}

func (b *lineBuilder) result() (Set, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.set, nil
}

func (f *Factory) income(txn Transaction) (Set, error) {
	return f.incomeAs(KindIncome, txn)
}

// taxCollection is a sale with tax collected, which the income builder
// already splits.
func (f *Factory) taxCollection(txn Transaction) (Set, error) {
	return f.incomeAs(KindTaxCollection, txn)
}

func (f *Factory) incomeAs(kind Kind, txn Transaction) (Set, error) {
	net := txn.Amount
	tax := decimal.Zero
	if present(txn.TaxAmount) {
		if txn.TaxAmount.Decimal.IsNegative() || txn.TaxAmount.Decimal.GreaterThan(txn.Amount) {
			return nil, fmt.Errorf("%w: tax %s outside 0..%s", ErrInvalidAmount, txn.TaxAmount.Decimal, txn.Amount)
		}
		// Without a payable account the tax stays in revenue.
		if f.roles.SalesTaxPayable != "" {
			tax = txn.TaxAmount.Decimal
			net = txn.Amount.Sub(tax)
		}
	}

	b := newLines(kind, txn)
	b.debit(txn.Amount, "Cash received", f.role(model.RoleCash))
	b.credit(net, "Revenue",
		category(txn),
		f.role(model.RoleSalesRevenue),
		f.role(model.RoleServiceRevenue),
		f.role(model.RoleOtherIncome))
	b.credit(tax, "Sales tax collected", f.role(model.RoleSalesTaxPayable))
	return b.result()
}

func (f *Factory) expense(txn Transaction) (Set, error) {
	b := newLines(KindExpense, txn)
	b.debit(txn.Amount, "Expense", category(txn), f.role(model.RoleMiscExpense))
	b.credit(txn.Amount, "Cash paid", f.role(model.RoleCash))
	return b.result()
}

func (f *Factory) assetPurchase(txn Transaction) (Set, error) {
	b := newLines(KindAssetPurchase, txn)
	b.debit(txn.Amount, "Fixed asset purchase", category(txn), f.role(model.RoleFixedAssets))
	b.credit(txn.Amount, "Cash paid", f.role(model.RoleCash))
	return b.result()
}

func (f *Factory) inventoryPurchase(txn Transaction) (Set, error) {
	b := newLines(KindInventoryPurchase, txn)
	b.debit(txn.Amount, "Inventory purchase", f.role(model.RoleInventory))
	b.credit(txn.Amount, "Cash paid", f.role(model.RoleCash))
	return b.result()
}

func (f *Factory) loanPayment(txn Transaction) (Set, error) {
	principal, interest, estimated, err := splitLoanPayment(txn)
	if err != nil {
		return nil, err
	}

	principalLabel, interestLabel := "Loan principal", "Loan interest"
	if estimated {
		principalLabel += " (estimated)"
		interestLabel += " (estimated)"
	}

	b := newLines(KindLoanPayment, txn)
	b.debit(principal, principalLabel, f.role(model.RoleLoansPayable))
	b.debit(interest, interestLabel, f.role(model.RoleInterestExpense))
	b.credit(txn.Amount, "Cash paid", f.role(model.RoleCash))
	return b.result()
}

// splitLoanPayment uses the explicit breakdown when either half is given,
// deriving the missing half from the amount. Otherwise it estimates 80%
// principal, rounded to cents, with interest taking the remainder.
func splitLoanPayment(txn Transaction) (principal, interest decimal.Decimal, estimated bool, err error) {
	if !present(txn.PrincipalAmount) && !present(txn.InterestAmount) {
		principal = txn.Amount.Mul(estimatedPrincipalShare).Round(2)
		return principal, txn.Amount.Sub(principal), true, nil
	}

	principal = txn.PrincipalAmount.Decimal
	interest = txn.InterestAmount.Decimal
	if !present(txn.PrincipalAmount) {
		principal = txn.Amount.Sub(interest)
	}
	if !present(txn.InterestAmount) {
		interest = txn.Amount.Sub(principal)
	}
	if principal.IsNegative() || interest.IsNegative() {
		return decimal.Zero, decimal.Zero, false, fmt.Errorf("%w: principal %s / interest %s for payment of %s",
			ErrInvalidAmount, principal, interest, txn.Amount)
	}
	return principal, interest, false, nil
}

func (f *Factory) creditCardPayment(txn Transaction) (Set, error) {
	b := newLines(KindCreditCardPayment, txn)
	b.debit(txn.Amount, "Credit card payment", f.role(model.RoleCreditCardsPayable))
	b.credit(txn.Amount, "Cash paid", f.role(model.RoleCash))
	return b.result()
}

func (f *Factory) taxPayment(txn Transaction) (Set, error) {
	payable, label := model.RoleSalesTaxPayable, "Sales tax payment"
	if strings.Contains(strings.ToLower(txn.Description), "payroll") {
		payable, label = model.RolePayrollTaxPayable, "Payroll tax payment"
	}

	b := newLines(KindTaxPayment, txn)
	b.debit(txn.Amount, label, f.role(payable))
	b.credit(txn.Amount, "Cash paid", f.role(model.RoleCash))
	return b.result()
}

func (f *Factory) customerPayment(txn Transaction) (Set, error) {
	b := newLines(KindCustomerPayment, txn)
	b.debit(txn.Amount, "Cash received", f.role(model.RoleCash))
	b.credit(txn.Amount, "Customer payment", f.role(model.RoleAccountsReceivable))
	return b.result()
}

func (f *Factory) vendorPayment(txn Transaction) (Set, error) {
	b := newLines(KindVendorPayment, txn)
	b.debit(txn.Amount, "Vendor payment", f.role(model.RoleAccountsPayable))
	b.credit(txn.Amount, "Cash paid", f.role(model.RoleCash))
	return b.result()
}

// payroll books the gross amount to wages; withholding is not split out.
func (f *Factory) payroll(txn Transaction) (Set, error) {
	b := newLines(KindPayroll, txn)
	b.debit(txn.Amount, "Payroll", f.role(model.RoleSalariesWages))
	b.credit(txn.Amount, "Cash paid", f.role(model.RoleCash))
	return b.result()
}

// transfer posts nothing: the same movement shows up on both accounts'
// feeds and would otherwise be counted twice.
func (f *Factory) transfer(Transaction) (Set, error) {
	return Set{}, nil
}
