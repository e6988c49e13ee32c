package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/autojournal/internal/activitylog"
	"github.com/cleared-dev/autojournal/internal/pipeline"
)

func newImportCommand(root *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Post the bank exports in import/ to the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repoRoot, err := root.repoRoot()
			if err != nil {
				return err
			}

			log := root.logger(cmd)
			p, err := pipeline.Open(repoRoot, log)
			if err != nil {
				return err
			}
			defer p.Close()
			root.adopt(cmd, log, p.Config())

			sum, err := p.Run(cmd.Context(), pipeline.Options{DryRun: dryRun})
			printSummary(cmd.OutOrStdout(), sum)
			if err != nil {
				return err
			}
			if sum.Failed > 0 {
				return fmt.Errorf("%d transactions failed to import", sum.Failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be posted without writing anything")

	return cmd
}

func printSummary(w io.Writer, sum pipeline.Summary) {
	if len(sum.Files) == 0 {
		fmt.Fprintln(w, "No files to import.")
		return
	}

	for _, f := range sum.Files {
		if f.Err != nil {
			fmt.Fprintf(w, "%s: skipped: %v\n", f.Name, f.Err)
			continue
		}
		fmt.Fprintf(w, "%s (%s)\n", f.Name, f.BankAccount)
		for _, r := range f.Results {
			action := string(r.Action)
			if sum.DryRun && r.Action == activitylog.ActionPosted {
				action = "would post"
			}
			fmt.Fprintf(w, "  %-10s %-11s %s %12s  %-20s %s",
				action, r.EntryID, r.Date.Format("2006-01-02"), r.Amount.StringFixed(2), r.Kind, r.Description)
			switch {
			case r.Err != nil:
				fmt.Fprintf(w, "  (%v)", r.Err)
			case r.Status != "" && r.Action == activitylog.ActionPosted:
				fmt.Fprintf(w, "  [%s]", r.Status)
			}
			fmt.Fprintln(w)
		}
		if f.ArchivedAs != "" {
			fmt.Fprintf(w, "  archived as processed/%s\n", f.ArchivedAs)
		}
	}

	fmt.Fprintf(w, "\nPosted %d, skipped %d, duplicates %d, failed %d (%d pending review)\n",
		sum.Posted, sum.Skipped, sum.Duplicates, sum.Failed, sum.PendingReview)
	if sum.CommitHash != "" {
		fmt.Fprintf(w, "Committed %s\n", sum.CommitHash)
	}
	if sum.DryRun {
		fmt.Fprintln(w, "Dry run: nothing was written.")
	}
}
