package journal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/autojournal/internal/model"
)

// Invariant names one ledger rule checked by ValidateLegs.
type Invariant int

const (
	InvariantBalanced   Invariant = iota + 1 // each entry's debits equal its credits
	InvariantOneSided                        // a leg is a debit or a credit, never both or neither
	InvariantAccount                         // every leg names a chart-of-accounts ID
	InvariantMonth                           // every leg is dated inside the journal's month
	InvariantSequence                        // entry IDs parse, belong to the month, and run 1..N
	InvariantPrecision                       // amounts carry at most two decimal places
)

func (i Invariant) String() string {
	switch i {
	case InvariantBalanced:
		return "balanced"
	case InvariantOneSided:
		return "one-sided"
	case InvariantAccount:
		return "account"
	case InvariantMonth:
		return "month"
	case InvariantSequence:
		return "sequence"
	case InvariantPrecision:
		return "precision"
	}
	return fmt.Sprintf("invariant(%d)", int(i))
}

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   Invariant
	EntryID     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Invariant, e.EntryID, e.Description)
}

// AccountChecker tests whether an account ID exists in the chart of accounts.
type AccountChecker interface {
	Exists(id string) bool
}

// ValidateLegs checks a month's legs against every ledger invariant and
// returns all violations. Leg checks come first in file order, then entry
// balances, then the sequence.
func ValidateLegs(legs []model.Leg, accounts AccountChecker, m Month) []ValidationError {
	v := &validator{month: m, accounts: accounts}
	for _, leg := range legs {
		v.checkLeg(leg)
	}
	v.checkBalances(legs)
	v.checkSequence(legs)
	return v.errs
}

type validator struct {
	month    Month
	accounts AccountChecker
	errs     []ValidationError
}

func (v *validator) report(inv Invariant, id, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{Invariant: inv, EntryID: id, Description: fmt.Sprintf(format, args...)})
}

func (v *validator) checkLeg(leg model.Leg) {
	if leg.Debit.IsZero() == leg.Credit.IsZero() || leg.Debit.IsNegative() || leg.Credit.IsNegative() {
		v.report(InvariantOneSided, leg.EntryID, "leg must have exactly one positive debit or credit")
	}
	if !v.accounts.Exists(leg.AccountID) {
		v.report(InvariantAccount, leg.EntryID, "unknown account %q", leg.AccountID)
	}
	if !v.month.Contains(leg.Date) {
		v.report(InvariantMonth, leg.EntryID, "date %s not in %s", leg.Date.Format(dateFormat), v.month)
	}
	v.checkCents(leg.EntryID, "debit", leg.Debit)
	v.checkCents(leg.EntryID, "credit", leg.Credit)
}

func (v *validator) checkCents(id, side string, d decimal.Decimal) {
	if !d.Equal(d.Round(2)) {
		v.report(InvariantPrecision, id, "%s %s has more than 2 decimal places", side, d)
	}
}

func (v *validator) checkBalances(legs []model.Leg) {
	var order []string
	net := make(map[string][2]decimal.Decimal)
	for _, leg := range legs {
		g := leg.EntryGroup()
		sides, seen := net[g]
		if !seen {
			order = append(order, g)
		}
		net[g] = [2]decimal.Decimal{sides[0].Add(leg.Debit), sides[1].Add(leg.Credit)}
	}
	for _, g := range order {
		if dr, cr := net[g][0], net[g][1]; !dr.Equal(cr) {
			v.report(InvariantBalanced, g, "debits (%s) != credits (%s)", dr.StringFixed(2), cr.StringFixed(2))
		}
	}
}

// checkSequence requires unique leg IDs from this month whose entry numbers
// run 1..N without gaps.
func (v *validator) checkSequence(legs []model.Leg) {
	legIDs := make(map[string]bool, len(legs))
	seqs := make(map[int]bool)
	high := 0
	for _, leg := range legs {
		if legIDs[leg.EntryID] {
			v.report(InvariantSequence, leg.EntryID, "duplicate leg ID")
		}
		legIDs[leg.EntryID] = true

		id, err := ParseEntryID(leg.EntryID)
		if err != nil {
			v.report(InvariantSequence, leg.EntryID, "%v", err)
			continue
		}
		if id.Period != v.month {
			v.report(InvariantSequence, leg.EntryID, "entry ID belongs to %s", id.Period)
		}
		seqs[id.Seq] = true
		high = max(high, id.Seq)
	}

	for seq := 1; seq <= high; seq++ {
		if !seqs[seq] {
			v.report(InvariantSequence, EntryID{Period: v.month, Seq: seq}.String(), "missing entry %d of 1..%d", seq, high)
		}
	}
}
