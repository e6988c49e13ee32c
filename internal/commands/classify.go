package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/autojournal/internal/accounts"
	"github.com/cleared-dev/autojournal/internal/config"
	"github.com/cleared-dev/autojournal/internal/entries"
	"github.com/cleared-dev/autojournal/internal/model"
)

type classifyOptions struct {
	description string
	amount      string
	polarity    string
	kind        string
	category    string
	tax         string
	principal   string
	interest    string
}

func newClassifyCommand(root *rootOptions) *cobra.Command {
	opts := classifyOptions{}

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Show the journal lines a transaction would produce",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repoRoot, err := root.repoRoot()
			if err != nil {
				return err
			}
			roles, err := loadRoles(repoRoot)
			if err != nil {
				return err
			}
			txn, err := opts.transaction()
			if err != nil {
				return err
			}

			factory, err := entries.NewFactory(roles, root.logger(cmd))
			if err != nil {
				return err
			}
			set, err := factory.CreateJournalEntries(txn)
			if err != nil {
				return err
			}
			printClassification(cmd.OutOrStdout(), entries.Classify(txn), set)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.description, "description", "", "bank description")
	cmd.Flags().StringVar(&opts.amount, "amount", "", "absolute amount (required)")
	cmd.Flags().StringVar(&opts.polarity, "polarity", "debit", "credit (money in) or debit (money out)")
	cmd.Flags().StringVar(&opts.kind, "kind", "", "explicit kind, e.g. loan_payment")
	cmd.Flags().StringVar(&opts.category, "category", "", "category account ID")
	cmd.Flags().StringVar(&opts.tax, "tax", "", "sales tax included in the amount")
	cmd.Flags().StringVar(&opts.principal, "principal", "", "loan principal portion")
	cmd.Flags().StringVar(&opts.interest, "interest", "", "loan interest portion")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

// loadRoles returns the repo's role mapping, or the default mapping when
// the directory has no config yet.
func loadRoles(repoRoot string) (model.AccountRoles, error) {
	cfg, err := config.Load(filepath.Join(repoRoot, config.FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return accounts.DefaultRoles("llc_single_member"), nil
	}
	if err != nil {
		return model.AccountRoles{}, err
	}
	return cfg.Journal.Accounts, nil
}

func (o classifyOptions) transaction() (entries.Transaction, error) {
	amount, err := decimal.NewFromString(o.amount)
	if err != nil {
		return entries.Transaction{}, fmt.Errorf("invalid --amount %q: %w", o.amount, err)
	}
	polarity, err := entries.ParsePolarity(o.polarity)
	if err != nil {
		return entries.Transaction{}, err
	}
	kind, err := entries.ParseKind(o.kind)
	if err != nil {
		return entries.Transaction{}, err
	}

	txn := entries.Transaction{
		Description: o.description,
		Amount:      amount,
		Polarity:    polarity,
		Kind:        kind,
		CategoryID:  o.category,
	}
	if txn.TaxAmount, err = optionalDecimal("tax", o.tax); err != nil {
		return entries.Transaction{}, err
	}
	if txn.PrincipalAmount, err = optionalDecimal("principal", o.principal); err != nil {
		return entries.Transaction{}, err
	}
	if txn.InterestAmount, err = optionalDecimal("interest", o.interest); err != nil {
		return entries.Transaction{}, err
	}
	return txn, nil
}

func optionalDecimal(flag, value string) (decimal.NullDecimal, error) {
	if value == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid --%s %q: %w", flag, value, err)
	}
	return decimal.NewNullDecimal(d), nil
}

func printClassification(w io.Writer, cls entries.Classification, set entries.Set) {
	switch cls.Source {
	case entries.SourceKeyword:
		fmt.Fprintf(w, "Kind: %s (keyword %q)\n", cls.Kind, cls.Keyword)
	default:
		fmt.Fprintf(w, "Kind: %s (%s)\n", cls.Kind, cls.Source)
	}
	if len(set) == 0 {
		fmt.Fprintln(w, "No journal lines.")
		return
	}
	for _, l := range set {
		side := "Cr"
		if l.IsDebit() {
			side = "Dr"
		}
		fmt.Fprintf(w, "  %s %-6s %12s  %s\n", side, l.AccountID, l.Amount().StringFixed(2), l.Description)
	}
}
