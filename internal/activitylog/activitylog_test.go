package activitylog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var importedAt = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func posted(ref, entryID string) Entry {
	return Entry{
		Timestamp: importedAt,
		Reference: ref,
		Action:    ActionPosted,
		Kind:      "expense",
		EntryID:   entryID,
		Details:   "rule: GITHUB, confidence 0.95",
	}
}

func TestAppendAndRead(t *testing.T) {
	root := t.TempDir()

	first := posted("chase_20250103_GITHUBPROS", "2025-01-001")
	first.Details = `no "loans_payable" account, see rules, then retry`
	require.NoError(t, Append(root, []Entry{first}))

	second := []Entry{
		{Timestamp: importedAt, Reference: "chase_20250120_ONLINETRAN", Action: ActionSkipped, Kind: "transfer"},
		{Timestamp: importedAt.Add(time.Second), Action: ActionCommitted, CommitHash: "abc1234"},
	}
	require.NoError(t, Append(root, second))

	got, err := Read(root)
	require.NoError(t, err)
	assert.Equal(t, append([]Entry{first}, second...), got)

	raw, err := os.ReadFile(filepath.Join(root, "logs", "activity-log.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "timestamp,reference,action,kind,entry_id,details,commit_hash\n"))
	assert.Equal(t, 1, strings.Count(string(raw), "timestamp,"))
}

func TestAppend_EmptyBatch(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Append(root, nil))
	assert.NoDirExists(t, filepath.Join(root, "logs"))
}

func TestAppend_StoresUTC(t *testing.T) {
	root := t.TempDir()
	e := posted("ref", "2025-01-001")
	e.Timestamp = time.Date(2025, 1, 15, 5, 30, 0, 0, time.FixedZone("EST", -5*3600))
	require.NoError(t, Append(root, []Entry{e}))

	raw, err := os.ReadFile(filepath.Join(root, Path))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n2025-01-15T10:30:00Z,ref,posted,")

	got, err := Read(root)
	require.NoError(t, err)
	assert.True(t, got[0].Timestamp.Equal(e.Timestamp))
}

func TestRead_NoLog(t *testing.T) {
	got, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRead_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errSub string
	}{
		{"foreign header", "when,what\n", "unexpected header"},
		{"short row", Header + "\n2025-01-15T10:30:00Z,ref\n", "row 2: expected 7 fields, got 2"},
		{"bad timestamp", Header + "\nyesterday,ref,posted,,,,\n", "parsing timestamp"},
		{"unknown action", Header + "\n2025-01-15T10:30:00Z,ref,deleted,,,,\n", `unknown action "deleted"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			require.NoError(t, os.MkdirAll(filepath.Join(root, "logs"), 0o755))
			require.NoError(t, os.WriteFile(filepath.Join(root, Path), []byte(tt.body), 0o644))

			_, err := Read(root)
			assert.ErrorContains(t, err, tt.errSub)
		})
	}
}

func TestActionValid(t *testing.T) {
	for _, a := range []Action{ActionPosted, ActionSkipped, ActionDuplicate, ActionFailed, ActionCommitted} {
		assert.True(t, a.Valid(), a)
	}
	assert.False(t, Action("").Valid())
	assert.False(t, Action("Posted").Valid())
}
