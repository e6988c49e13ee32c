package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/shopspring/decimal"
)

// DefaultPath is the history database location relative to a repo root.
const DefaultPath = ".autojournal-cache/history.db"

const dateFormat = "2006-01-02"

// ErrAlreadyRecorded is returned by Record for a reference that is already stored.
var ErrAlreadyRecorded = errors.New("reference already recorded")

// Record is one imported bank transaction.
type Record struct {
	Reference   string
	SourceFile  string
	BankAccount string
	Date        time.Time
	Amount      decimal.Decimal
	Kind        string
	EntryID     string // "" when the transaction posted nothing
	ImportedAt  time.Time
}

// Store is the SQLite-backed import history.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging history database: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}

	return &Store{db: db, path: path, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// IsPosted reports whether reference has already been imported.
func (s *Store) IsPosted(ctx context.Context, reference string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM imported_transactions WHERE reference = ?`, reference).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking reference %s: %w", reference, err)
	}
	return n > 0, nil
}

// Record stores rec and bumps its file's totals in one transaction.
// A reference that is already stored returns ErrAlreadyRecorded.
func (s *Store) Record(ctx context.Context, rec Record) error {
	if rec.ImportedAt.IsZero() {
		rec.ImportedAt = s.now()
	}
	importedAt := rec.ImportedAt.UTC().Format(time.RFC3339)

	return s.transaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO imported_transactions
				(reference, source_file, bank_account, txn_date, amount, kind, entry_id, imported_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(reference) DO NOTHING`,
			rec.Reference, rec.SourceFile, rec.BankAccount, rec.Date.Format(dateFormat),
			rec.Amount.String(), rec.Kind, rec.EntryID, importedAt)
		if err != nil {
			return fmt.Errorf("inserting %s: %w", rec.Reference, err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("inserting %s: %w", rec.Reference, err)
		} else if n == 0 {
			return fmt.Errorf("%w: %s", ErrAlreadyRecorded, rec.Reference)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO import_files (source_file, entries, first_seen, last_seen)
			VALUES (?, 1, ?, ?)
			ON CONFLICT(source_file) DO UPDATE SET
				entries = entries + 1,
				last_seen = excluded.last_seen`,
			rec.SourceFile, importedAt, importedAt)
		if err != nil {
			return fmt.Errorf("updating file totals for %s: %w", rec.SourceFile, err)
		}
		return nil
	})
}

// Records returns every stored record ordered by date, then reference.
func (s *Store) Records(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT reference, source_file, bank_account, txn_date, amount, kind, entry_id, imported_at
		FROM imported_transactions
		ORDER BY txn_date, reference`)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec                            Record
			txnDate, amount, importedAtStr string
		)
		if err := rows.Scan(&rec.Reference, &rec.SourceFile, &rec.BankAccount, &txnDate,
			&amount, &rec.Kind, &rec.EntryID, &importedAtStr); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if rec.Date, err = time.Parse(dateFormat, txnDate); err != nil {
			return nil, fmt.Errorf("history row %s: %w", rec.Reference, err)
		}
		if rec.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("history row %s: %w", rec.Reference, err)
		}
		if rec.ImportedAt, err = time.Parse(time.RFC3339, importedAtStr); err != nil {
			return nil, fmt.Errorf("history row %s: %w", rec.Reference, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// FileEntries returns how many records came from sourceFile.
func (s *Store) FileEntries(ctx context.Context, sourceFile string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT entries FROM import_files WHERE source_file = ?`, sourceFile).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading totals for %s: %w", sourceFile, err)
	}
	return n, nil
}

// transaction runs fn inside a transaction, rolling back on error.
func (s *Store) transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %w)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
