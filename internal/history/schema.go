// Package history keeps the SQLite record of imported bank transactions so
// re-importing an overlapping export never posts the same line twice.
package history

// Schema creates the history tables.
const Schema = `
-- One row per bank transaction seen by an import, posted or not.
CREATE TABLE IF NOT EXISTS imported_transactions (
    reference    TEXT PRIMARY KEY,  -- parser reference, e.g. chase_20250103_GITHUBPROS
    source_file  TEXT NOT NULL,
    bank_account TEXT NOT NULL,     -- account_id the feed posts cash to
    txn_date     TEXT NOT NULL,     -- YYYY-MM-DD
    amount       TEXT NOT NULL,     -- signed decimal, positive = inflow
    kind         TEXT NOT NULL,
    entry_id     TEXT NOT NULL,     -- '' when nothing was posted (transfers)
    imported_at  TEXT NOT NULL      -- RFC 3339
);

CREATE INDEX IF NOT EXISTS idx_imported_transactions_date
    ON imported_transactions(txn_date);

-- Per-file totals, updated in the same transaction as each row above.
CREATE TABLE IF NOT EXISTS import_files (
    source_file TEXT PRIMARY KEY,
    entries     INTEGER NOT NULL DEFAULT 0,
    first_seen  TEXT NOT NULL,
    last_seen   TEXT NOT NULL
);
`
