package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/autojournal/internal/model"
)

type chart map[string]bool

func (c chart) Exists(id string) bool { return c[id] }

func newChart(ids ...string) chart {
	c := make(chart, len(ids))
	for _, id := range ids {
		c[id] = true
	}
	return c
}

var testChart = newChart("1010", "1500", "2200", "4010", "5020", "5200")

// entry builds the legs of a January entry from alternating account/amount
// pairs; positive amounts debit and negative amounts credit.
func entry(seq int, pairs ...string) []model.Leg {
	id := EntryID{Period: jan2025, Seq: seq}
	var legs []model.Leg
	for i := 0; i < len(pairs); i += 2 {
		leg := model.Leg{
			EntryID:   id.Leg(i / 2),
			Date:      date(2025, 1, 15),
			AccountID: pairs[i],
			Status:    model.StatusAutoConfirmed,
		}
		if amt := dec(pairs[i+1]); amt.IsNegative() {
			leg.Credit = amt.Neg()
		} else {
			leg.Debit = amt
		}
		legs = append(legs, leg)
	}
	return legs
}

func invariants(errs []ValidationError) []Invariant {
	var out []Invariant
	for _, e := range errs {
		out = append(out, e.Invariant)
	}
	return out
}

func join(entries ...[]model.Leg) []model.Leg {
	var legs []model.Leg
	for _, e := range entries {
		legs = append(legs, e...)
	}
	return legs
}

func TestValidateLegs_Clean(t *testing.T) {
	legs := join(
		entry(1, "5020", "4.00", "1010", "-4.00"),
		entry(2, "2200", "800", "5200", "200", "1010", "-1000"),
		entry(3, "1010", "3500", "4010", "-3500"),
	)
	assert.Empty(t, ValidateLegs(legs, testChart, jan2025))
	assert.Empty(t, ValidateLegs(nil, testChart, jan2025))
}

func TestValidateLegs_Violations(t *testing.T) {
	tests := []struct {
		name string
		legs func() []model.Leg
		want []Invariant
	}{
		{
			name: "unbalanced",
			legs: func() []model.Leg { return entry(1, "5020", "100", "1010", "-99") },
			want: []Invariant{InvariantBalanced},
		},
		{
			name: "debit and credit on one leg",
			legs: func() []model.Leg {
				legs := entry(1, "5020", "100", "1010", "-100")
				legs[0].Credit = dec("100")
				legs[1].Debit = dec("100")
				return legs
			},
			want: []Invariant{InvariantOneSided, InvariantOneSided},
		},
		{
			name: "empty leg",
			legs: func() []model.Leg { return entry(1, "5020", "0", "1010", "0") },
			want: []Invariant{InvariantOneSided, InvariantOneSided},
		},
		{
			name: "negative amounts",
			legs: func() []model.Leg {
				legs := entry(1, "5020", "10", "1010", "-10")
				legs[0].Debit, legs[1].Credit = dec("-10"), dec("-10")
				return legs
			},
			want: []Invariant{InvariantOneSided, InvariantOneSided},
		},
		{
			name: "unknown account",
			legs: func() []model.Leg { return entry(1, "9999", "50", "1010", "-50") },
			want: []Invariant{InvariantAccount},
		},
		{
			name: "dated outside the month",
			legs: func() []model.Leg {
				legs := entry(1, "5020", "50", "1010", "-50")
				legs[1].Date = date(2025, 2, 1)
				return legs
			},
			want: []Invariant{InvariantMonth},
		},
		{
			name: "fractional cents",
			legs: func() []model.Leg { return entry(1, "5020", "10.125", "1010", "-10.125") },
			want: []Invariant{InvariantPrecision, InvariantPrecision},
		},
		{
			name: "gap in sequence",
			legs: func() []model.Leg {
				return join(entry(1, "5020", "5", "1010", "-5"), entry(3, "5020", "5", "1010", "-5"))
			},
			want: []Invariant{InvariantSequence},
		},
		{
			name: "duplicate leg",
			legs: func() []model.Leg {
				return join(entry(1, "5020", "5", "1010", "-5"), entry(1, "5020", "5", "1010", "-5"))
			},
			// The doubled entry still nets to zero.
			want: []Invariant{InvariantSequence, InvariantSequence},
		},
		{
			name: "unparseable entry ID",
			legs: func() []model.Leg {
				legs := entry(1, "5020", "5", "1010", "-5")
				legs[0].EntryID, legs[1].EntryID = "x1a", "x1b"
				return legs
			},
			want: []Invariant{InvariantSequence, InvariantSequence},
		},
		{
			name: "several at once",
			legs: func() []model.Leg {
				legs := entry(1, "9999", "100", "1010", "-50")
				legs[0].Date = date(2025, 2, 1)
				return legs
			},
			want: []Invariant{InvariantAccount, InvariantMonth, InvariantBalanced},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, invariants(ValidateLegs(tt.legs(), testChart, jan2025)))
		})
	}
}

func TestValidateLegs_OtherMonth(t *testing.T) {
	feb := Month{Year: 2025, Month: time.February}
	errs := ValidateLegs(entry(1, "5020", "5", "1010", "-5"), testChart, feb)
	assert.ElementsMatch(t,
		[]Invariant{InvariantMonth, InvariantMonth, InvariantSequence, InvariantSequence},
		invariants(errs))
}

func TestValidateLegs_Messages(t *testing.T) {
	legs := join(entry(1, "5020", "100", "1010", "-99.5"), entry(3, "5020", "5", "1010", "-5"))
	errs := ValidateLegs(legs, testChart, jan2025)
	assert.Equal(t, []string{
		"balanced [2025-01-001]: debits (100.00) != credits (99.50)",
		"sequence [2025-01-002]: missing entry 2 of 1..3",
	}, func() []string {
		var out []string
		for _, e := range errs {
			out = append(out, e.Error())
		}
		return out
	}())
}

func TestInvariantString(t *testing.T) {
	names := map[Invariant]string{
		InvariantBalanced:  "balanced",
		InvariantOneSided:  "one-sided",
		InvariantAccount:   "account",
		InvariantMonth:     "month",
		InvariantSequence:  "sequence",
		InvariantPrecision: "precision",
		Invariant(42):      "invariant(42)",
	}
	for inv, want := range names {
		assert.Equal(t, want, inv.String())
	}
}
