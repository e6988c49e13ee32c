package pipeline

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/autojournal/internal/activitylog"
	"github.com/cleared-dev/autojournal/internal/entries"
	"github.com/cleared-dev/autojournal/internal/model"
)

// Result is the outcome for one bank transaction.
type Result struct {
	File        string
	Reference   string
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Kind        entries.Kind
	Lines       entries.Set
	EntryID     string
	Confidence  decimal.Decimal
	Status      model.EntryStatus
	Action      activitylog.Action
	Details     string
	Err         error
}

func (r Result) fail(log logrus.FieldLogger, err error) Result {
	r.Action = activitylog.ActionFailed
	r.Err = err
	r.Details = err.Error()
	log.WithError(err).Error("Failed to import transaction")
	return r
}

// FileSummary is the outcome for one import file.
type FileSummary struct {
	Name        string
	BankAccount string
	Results     []Result
	Processed   bool   // moved to import/processed/
	ArchivedAs  string // name under import/processed/ when it differs from Name
	Err         error // set when the file was skipped as a whole
}

func (f FileSummary) count(action activitylog.Action) int {
	n := 0
	for _, r := range f.Results {
		if r.Action == action {
			n++
		}
	}
	return n
}

// Failed counts transactions that could not be imported.
func (f FileSummary) Failed() int {
	return f.count(activitylog.ActionFailed)
}

// Summary totals a Run.
type Summary struct {
	DryRun        bool
	Files         []FileSummary
	Posted        int
	Skipped       int
	Duplicates    int
	Failed        int
	PendingReview int
	SkippedFiles  int
	CommitHash    string
}

func (s *Summary) add(f FileSummary) {
	s.Files = append(s.Files, f)
	if f.Err != nil {
		s.SkippedFiles++
	}
	for _, r := range f.Results {
		switch r.Action {
		case activitylog.ActionPosted:
			s.Posted++
			if r.Status == model.StatusPendingReview {
				s.PendingReview++
			}
		case activitylog.ActionSkipped:
			s.Skipped++
		case activitylog.ActionDuplicate:
			s.Duplicates++
		case activitylog.ActionFailed:
			s.Failed++
		}
	}
}

// Results flattens the per-file results in import order.
func (s Summary) Results() []Result {
	var out []Result
	for _, f := range s.Files {
		out = append(out, f.Results...)
	}
	return out
}

func (s Summary) processedFiles() []string {
	var names []string
	for _, f := range s.Files {
		if f.Processed {
			names = append(names, f.Name)
		}
	}
	return names
}

func (s Summary) activity(at time.Time) []activitylog.Entry {
	var out []activitylog.Entry
	for _, r := range s.Results() {
		out = append(out, activitylog.Entry{
			Timestamp: at,
			Reference: r.Reference,
			Action:    r.Action,
			Kind:      string(r.Kind),
			EntryID:   r.EntryID,
			Details:   r.Details,
		})
	}
	return out
}
