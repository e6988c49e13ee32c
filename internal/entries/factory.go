// Package entries turns imported bank transactions into balanced
// double-entry journal lines.
//
// A Factory is built once per business from its account role mapping.
// CreateJournalEntries classifies a transaction (explicit kind, then
// description keywords, then bank polarity) and dispatches to one builder
// per kind. Every returned Set satisfies sum(debits) == sum(credits) exactly.
package entries

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/autojournal/internal/model"
)

type builder func(f *Factory, txn Transaction) (Set, error)

// Factory generates journal lines against a fixed set of account roles.
// It holds no mutable state and is safe for concurrent use.
type Factory struct {
	roles    model.AccountRoles
	builders map[Kind]builder
}

// NewFactory validates roles and returns a Factory. A missing cash account
// or a missing income account is fatal; a missing misc expense account is
// only logged, since expenses can still post when they carry a category.
func NewFactory(roles model.AccountRoles, log logrus.FieldLogger) (*Factory, error) {
	if roles.Cash == "" {
		return nil, ErrMissingCashAccount
	}
	if roles.SalesRevenue == "" && roles.ServiceRevenue == "" && roles.OtherIncome == "" {
		return nil, ErrMissingIncomeAccount
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if roles.MiscExpense == "" {
		log.WithField("role", model.RoleMiscExpense).
			Warn("No misc expense account configured; uncategorized expenses will not post")
	}

	return &Factory{
		roles: roles,
		builders: map[Kind]builder{
			KindIncome:            (*Factory).income,
			KindExpense:           (*Factory).expense,
			KindAssetPurchase:     (*Factory).assetPurchase,
			KindInventoryPurchase: (*Factory).inventoryPurchase,
			KindLoanPayment:       (*Factory).loanPayment,
			KindCreditCardPayment: (*Factory).creditCardPayment,
			KindTaxPayment:        (*Factory).taxPayment,
			KindTaxCollection:     (*Factory).taxCollection,
			KindCustomerPayment:   (*Factory).customerPayment,
			KindVendorPayment:     (*Factory).vendorPayment,
			KindPayroll:           (*Factory).payroll,
			KindTransfer:          (*Factory).transfer,
		},
	}, nil
}

// Roles returns the role mapping the factory posts against.
func (f *Factory) Roles() model.AccountRoles {
	return f.roles
}

// CreateJournalEntries classifies txn and returns its journal lines.
// Transfers return an empty set. The error is non-nil when the amount is
// not positive, when a required account cannot be resolved, or when an
// explicit principal/interest breakdown does not add up to the amount.
func (f *Factory) CreateJournalEntries(txn Transaction) (Set, error) {
	if !txn.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidAmount, txn.Amount)
	}

	kind := Classify(txn).Kind
	build, ok := f.builders[kind]
	if !ok {
		build = f.builders[polarityDefault(txn.Polarity)]
	}

	set, err := build(f, txn)
	if err != nil {
		return nil, err
	}
	if !set.Balanced() {
		return nil, fmt.Errorf("%w: %s debits %s, credits %s",
			ErrUnbalanced, kind, set.TotalDebits().StringFixed(2), set.TotalCredits().StringFixed(2))
	}
	return set, nil
}
