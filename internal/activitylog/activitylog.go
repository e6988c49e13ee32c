// Package activitylog records what each import did to each bank
// transaction in logs/activity-log.csv.
package activitylog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Action is what happened to one transaction.
type Action string

const (
	ActionPosted    Action = "posted"
	ActionSkipped   Action = "skipped"   // nothing to post (transfer) or dry run
	ActionDuplicate Action = "duplicate" // reference already in history
	ActionFailed    Action = "failed"
	ActionCommitted Action = "committed" // import committed to git
)

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionPosted, ActionSkipped, ActionDuplicate, ActionFailed, ActionCommitted:
		return true
	}
	return false
}

// Entry is one row in the activity log.
type Entry struct {
	Timestamp  time.Time
	Reference  string
	Action     Action
	Kind       string
	EntryID    string
	Details    string
	CommitHash string
}

// Path is the log location relative to a repo root.
const Path = "logs/activity-log.csv"

var fields = []string{"timestamp", "reference", "action", "kind", "entry_id", "details", "commit_hash"}

// Header is the first line of activity-log.csv.
var Header = strings.Join(fields, ",")

func (e Entry) record() []string {
	return []string{
		e.Timestamp.UTC().Format(time.RFC3339),
		e.Reference,
		string(e.Action),
		e.Kind,
		e.EntryID,
		e.Details,
		e.CommitHash,
	}
}

func parseRecord(rec []string) (Entry, error) {
	if len(rec) != len(fields) {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", len(fields), len(rec))
	}
	ts, err := time.Parse(time.RFC3339, rec[0])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", rec[0], err)
	}
	e := Entry{
		Timestamp:  ts,
		Reference:  rec[1],
		Action:     Action(rec[2]),
		Kind:       rec[3],
		EntryID:    rec[4],
		Details:    rec[5],
		CommitHash: rec[6],
	}
	if !e.Action.Valid() {
		return Entry{}, fmt.Errorf("unknown action %q", rec[2])
	}
	return e, nil
}

// Append adds entries to <repoRoot>/logs/activity-log.csv. The file and its
// header are created on first use; an empty batch touches nothing.
func Append(repoRoot string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	path := filepath.Join(repoRoot, Path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat activity log: %w", err)
	}

	rows := make([][]string, 0, len(entries)+1)
	if info.Size() == 0 {
		rows = append(rows, fields)
	}
	for _, e := range entries {
		rows = append(rows, e.record())
	}
	if err := csv.NewWriter(f).WriteAll(rows); err != nil {
		return fmt.Errorf("writing activity log: %w", err)
	}
	return nil
}

// Read returns every entry in the activity log, oldest first. A repo that has
// never imported anything has no log and no entries.
func Read(repoRoot string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(repoRoot, Path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return decode(f)
}

func decode(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if !slices.Equal(records[0], fields) {
		return nil, errors.New("activity log has an unexpected header")
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("activity log row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
