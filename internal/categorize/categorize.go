// Package categorize resolves the account and kind hints that the journal
// entry factory consumes: user rules first, then the bank's own category.
package categorize

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/autojournal/internal/entries"
	"github.com/cleared-dev/autojournal/internal/model"
)

// Source names the layer that produced a Match.
type Source string

const (
	SourceRule         Source = "rule"
	SourceBankCategory Source = "bank_category"
)

// AccountChecker tests whether an account ID exists in the chart of accounts.
type AccountChecker interface {
	Exists(id string) bool
}

// Input is the part of a bank transaction the categorizer looks at.
type Input struct {
	Description string
	Merchant    string
	Category    string // aggregator primary category, upper case
}

// Match is a categorization result. AccountID and Kind may each be empty.
type Match struct {
	AccountID    string
	Kind         entries.Kind
	Counterparty string
	Source       Source
	Evidence     string
}

// categoryTarget is either an account role or an explicit kind.
type categoryTarget struct {
	role string
	kind entries.Kind
}

// bankCategories covers aggregator categories whose meaning does not
// depend on the business.
var bankCategories = map[string]categoryTarget{
	"INCOME":        {kind: entries.KindIncome},
	"TRANSFER_IN":   {kind: entries.KindTransfer},
	"TRANSFER_OUT":  {kind: entries.KindTransfer},
	"LOAN_PAYMENTS": {kind: entries.KindLoanPayment},
	"BANK_FEES":     {role: model.RoleMiscExpense},
}

type compiledRule struct {
	label        string
	match        string
	account      string
	kind         entries.Kind
	counterparty string
}

// Categorizer is immutable after New and safe for concurrent use.
type Categorizer struct {
	rules      []compiledRule
	categories map[string]string
	roles      model.AccountRoles
}

// New validates set against the chart and returns a Categorizer.
func New(set RuleSet, roles model.AccountRoles, accounts AccountChecker) (*Categorizer, error) {
	c := &Categorizer{roles: roles, categories: make(map[string]string, len(set.BankCategories))}

	for i, r := range set.Rules {
		match := strings.ToLower(strings.TrimSpace(r.Match))
		if match == "" {
			return nil, fmt.Errorf("rule %d: empty match", i+1)
		}
		kind, err := entries.ParseKind(r.Kind)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i+1, r.Match, err)
		}
		if r.Account == "" && kind == entries.KindUnknown {
			return nil, fmt.Errorf("rule %d (%s): needs an account or a kind", i+1, r.Match)
		}
		if r.Account != "" && !accounts.Exists(r.Account) {
			return nil, fmt.Errorf("rule %d (%s): unknown account %q", i+1, r.Match, r.Account)
		}
		c.rules = append(c.rules, compiledRule{label: strings.TrimSpace(r.Match), match: match, account: r.Account, kind: kind, counterparty: r.Counterparty})
	}

	for cat, acct := range set.BankCategories {
		if !accounts.Exists(acct) {
			return nil, fmt.Errorf("bank category %s: unknown account %q", cat, acct)
		}
		c.categories[strings.ToUpper(cat)] = acct
	}
	return c, nil
}

// Categorize returns the first rule whose match appears in the description
// or merchant, else the bank category mapping. ok is false when nothing
// applies.
func (c *Categorizer) Categorize(in Input) (Match, bool) {
	desc := strings.ToLower(in.Description)
	merchant := strings.ToLower(in.Merchant)
	for _, r := range c.rules {
		if strings.Contains(desc, r.match) || (merchant != "" && strings.Contains(merchant, r.match)) {
			return Match{
				AccountID:    r.account,
				Kind:         r.kind,
				Counterparty: r.counterparty,
				Source:       SourceRule,
				Evidence:     "rule: " + r.label,
			}, true
		}
	}

	cat := strings.ToUpper(strings.TrimSpace(in.Category))
	if cat == "" {
		return Match{}, false
	}
	if acct, ok := c.categories[cat]; ok {
		return Match{AccountID: acct, Counterparty: in.Merchant, Source: SourceBankCategory, Evidence: "bank category: " + cat}, true
	}
	target, ok := bankCategories[cat]
	if !ok {
		return Match{}, false
	}
	m := Match{Kind: target.kind, Counterparty: in.Merchant, Source: SourceBankCategory, Evidence: "bank category: " + cat}
	if target.role != "" {
		id, bound := c.roles.Lookup(target.role)
		if !bound {
			return Match{}, false
		}
		m.AccountID = id
	}
	return m, true
}
