package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/autojournal/internal/accounts"
	"github.com/cleared-dev/autojournal/internal/journal"
)

func newValidateCommand(root *rootOptions) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the journal against the ledger invariants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repoRoot, err := root.repoRoot()
			if err != nil {
				return err
			}
			accts, err := accounts.Load(repoRoot)
			if err != nil {
				return err
			}
			svc := journal.NewService(repoRoot, accts)

			var months []journal.Month
			if month != "" {
				m, err := journal.ParseMonth(month)
				if err != nil {
					return err
				}
				months = []journal.Month{m}
			} else if months, err = svc.Months(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			problems := 0
			for _, m := range months {
				verrs, err := svc.ValidateMonth(m)
				if err != nil {
					return err
				}
				if len(verrs) == 0 {
					fmt.Fprintf(out, "%s: ok\n", m)
					continue
				}
				fmt.Fprintf(out, "%s: %d problems\n", m, len(verrs))
				for _, ve := range verrs {
					fmt.Fprintf(out, "  %s\n", ve.Error())
				}
				problems += len(verrs)
			}
			if len(months) == 0 {
				fmt.Fprintln(out, "No journal months found.")
			}
			if problems > 0 {
				return fmt.Errorf("%d ledger problems found", problems)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to check (YYYY-MM); all months when empty")

	return cmd
}
