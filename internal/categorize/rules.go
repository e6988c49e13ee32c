package categorize

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RulesPath is the rules file location relative to a repo root.
const RulesPath = "rules/categorization-rules.yaml"

// Rule maps transactions whose description or merchant contains Match
// (case-insensitive) to an account, a kind, or both.
type Rule struct {
	Match        string `yaml:"match"`
	Account      string `yaml:"account,omitempty"`
	Kind         string `yaml:"kind,omitempty"`
	Counterparty string `yaml:"counterparty,omitempty"`
}

// RuleSet is the contents of the rules file. BankCategories maps an
// aggregator primary category (e.g. BANK_FEES) to an account ID and takes
// precedence over the built-in category table.
type RuleSet struct {
	Rules          []Rule            `yaml:"rules"`
	BankCategories map[string]string `yaml:"bank_categories,omitempty"`
}

// LoadRules reads a rules file. A missing or empty file is an empty set.
func LoadRules(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return RuleSet{}, nil
	}
	if err != nil {
		return RuleSet{}, fmt.Errorf("reading rules: %w", err)
	}

	var set RuleSet
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&set); err != nil && !errors.Is(err, io.EOF) {
		return RuleSet{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return set, nil
}

// SaveRules writes set to path, creating the directory if needed.
func SaveRules(path string, set RuleSet) error {
	if set.Rules == nil {
		set.Rules = []Rule{}
	}
	data, err := yaml.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating rules dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}

// StarterRules is the rule set written by init. Account IDs refer to the
// default chart of accounts.
func StarterRules() RuleSet {
	return RuleSet{
		Rules: []Rule{
			{Match: "GITHUB", Account: "5020", Counterparty: "GitHub"},
			{Match: "GOOGLE ADS", Account: "5010", Counterparty: "Google"},
			{Match: "USPS", Account: "5050", Counterparty: "USPS"},
			{Match: "GUSTO", Kind: "payroll", Counterparty: "Gusto"},
		},
		BankCategories: map[string]string{
			"BANK_FEES":          "5070",
			"RENT_AND_UTILITIES": "5060",
			"TRAVEL":             "5080",
			"FOOD_AND_DRINK":     "5080",
			"GENERAL_SERVICES":   "5040",
		},
	}
}
