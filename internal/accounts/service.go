package accounts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cleared-dev/autojournal/internal/model"
)

// ChartPath is the chart of accounts location relative to a repo root.
const ChartPath = "accounts/chart-of-accounts.csv"

var (
	// ErrUnknownRoleAccount is returned by CheckRoles for a role bound to an
	// ID the chart does not have.
	ErrUnknownRoleAccount = errors.New("role mapped to an account not in the chart")
	// ErrRoleAccountType is returned by CheckRoles for a role bound to an
	// account of the wrong type, such as revenue mapped to an expense.
	ErrRoleAccountType = errors.New("role mapped to an account of the wrong type")
)

// roleTypes lists the account types each role may be bound to. A bank feed's
// own account stands in for cash, and a credit card feed's account is a
// liability.
var roleTypes = map[string][]model.AccountType{
	model.RoleCash:               {model.AccountTypeAsset, model.AccountTypeLiability},
	model.RoleSalesRevenue:       {model.AccountTypeRevenue},
	model.RoleServiceRevenue:     {model.AccountTypeRevenue},
	model.RoleOtherIncome:        {model.AccountTypeRevenue},
	model.RoleSalesTaxPayable:    {model.AccountTypeLiability},
	model.RoleMiscExpense:        {model.AccountTypeExpense},
	model.RoleFixedAssets:        {model.AccountTypeAsset},
	model.RoleInventory:          {model.AccountTypeAsset},
	model.RoleLoansPayable:       {model.AccountTypeLiability},
	model.RoleInterestExpense:    {model.AccountTypeExpense},
	model.RoleCreditCardsPayable: {model.AccountTypeLiability},
	model.RolePayrollTaxPayable:  {model.AccountTypeLiability},
	model.RoleAccountsReceivable: {model.AccountTypeAsset},
	model.RoleAccountsPayable:    {model.AccountTypeLiability},
	model.RoleSalariesWages:      {model.AccountTypeExpense},
}

// Service is an in-memory chart of accounts.
type Service struct {
	accounts []model.Account
	byID     map[string]model.Account
}

// NewService indexes accounts by ID.
func NewService(accounts []model.Account) *Service {
	s := &Service{accounts: accounts, byID: make(map[string]model.Account, len(accounts))}
	for _, a := range accounts {
		s.byID[a.ID] = a
	}
	return s
}

// Load reads <repoRoot>/accounts/chart-of-accounts.csv.
func Load(repoRoot string) (*Service, error) {
	f, err := os.Open(filepath.Join(repoRoot, ChartPath))
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// Save writes the chart to <repoRoot>/accounts/chart-of-accounts.csv.
func (s *Service) Save(repoRoot string) error {
	path := filepath.Join(repoRoot, ChartPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts: %w", err)
	}
	if err := WriteAccounts(f, s.accounts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// All returns the accounts in chart order.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by ID.
func (s *Service) Get(id string) (model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// CheckRoles verifies that every configured role points at an account in
// the chart of a type the role can post to. Unconfigured roles are skipped;
// the entry factory reports them when a transaction needs one.
func (s *Service) CheckRoles(roles model.AccountRoles) error {
	var missing, mistyped []string
	for _, b := range roles.Bindings() {
		if b.AccountID == "" {
			continue
		}
		acct, ok := s.byID[b.AccountID]
		switch {
		case !ok:
			missing = append(missing, fmt.Sprintf("%s=%s", b.Role, b.AccountID))
		case !slices.Contains(roleTypes[b.Role], acct.Type):
			mistyped = append(mistyped, fmt.Sprintf("%s=%s (%s)", b.Role, b.AccountID, acct.Type))
		}
	}

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownRoleAccount, strings.Join(missing, ", ")))
	}
	if len(mistyped) > 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrRoleAccountType, strings.Join(mistyped, ", ")))
	}
	return errors.Join(errs...)
}
