package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/autojournal/internal/entries"
	"github.com/cleared-dev/autojournal/internal/model"
)

// ErrValidation is wrapped by Post when the month would break a ledger invariant.
var ErrValidation = errors.New("journal validation failed")

// Service appends entries to the monthly journal files under a repo root.
// Posting is serialized so concurrent callers get distinct sequence numbers.
type Service struct {
	repoRoot string
	accounts AccountChecker
	mu       sync.Mutex
}

// NewService creates a journal Service.
func NewService(repoRoot string, accounts AccountChecker) *Service {
	return &Service{repoRoot: repoRoot, accounts: accounts}
}

// PostParams describes one journal entry. Every line becomes a leg sharing
// the entry's date and metadata.
type PostParams struct {
	Date         time.Time
	Lines        entries.Set
	Counterparty string
	Reference    string
	Kind         string
	Confidence   decimal.Decimal
	Status       model.EntryStatus
	Evidence     string
	Tags         string
	Notes        string
}

func (p PostParams) legs(id EntryID) []model.Leg {
	legs := make([]model.Leg, len(p.Lines))
	for i, line := range p.Lines {
		legs[i] = model.Leg{
			EntryID:      id.Leg(i),
			Date:         p.Date,
			AccountID:    line.AccountID,
			Description:  line.Description,
			Debit:        line.Debit,
			Credit:       line.Credit,
			Counterparty: p.Counterparty,
			Reference:    p.Reference,
			Kind:         p.Kind,
			Confidence:   p.Confidence,
			Status:       p.Status,
			Evidence:     p.Evidence,
			Tags:         p.Tags,
			Notes:        p.Notes,
		}
	}
	return legs
}

// Post numbers the entry after the month's last one, checks the whole month
// with it added, and appends its legs to the month's journal.csv. Nothing is
// written when validation fails. An entry without lines is not posted and
// yields "".
func (s *Service) Post(params PostParams) (string, error) {
	switch n := len(params.Lines); {
	case n == 0:
		return "", nil
	case n > maxLegs:
		return "", fmt.Errorf("entry has %d lines, at most %d supported", n, maxLegs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := MonthOf(params.Date)
	existing, err := s.ReadMonth(m)
	if err != nil {
		return "", err
	}

	id := EntryID{Period: m, Seq: nextSeq(existing)}
	legs := params.legs(id)
	if verrs := ValidateLegs(append(existing, legs...), s.accounts, m); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return "", fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
	}

	if err := s.store(m, legs); err != nil {
		return "", err
	}
	return id.String(), nil
}

// store adds legs to m's file, creating it with a header when it is new or
// empty.
func (s *Service) store(m Month, legs []model.Leg) error {
	path := m.path(s.repoRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating journal dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat journal: %w", err)
	}
	write := AppendLegs
	if info.Size() == 0 {
		write = WriteLegs
	}
	if err := write(f, legs); err != nil {
		return fmt.Errorf("appending to %s journal: %w", m, err)
	}
	return f.Sync()
}

// ReadMonth reads every leg of m. A month without a journal file has none.
func (s *Service) ReadMonth(m Month) ([]model.Leg, error) {
	path := m.path(s.repoRoot)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	legs, err := ReadLegs(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return legs, nil
}

// ValidateMonth runs ValidateLegs over m's journal file.
func (s *Service) ValidateMonth(m Month) ([]ValidationError, error) {
	legs, err := s.ReadMonth(m)
	if err != nil {
		return nil, err
	}
	return ValidateLegs(legs, s.accounts, m), nil
}

// NextEntrySeq returns the sequence number the next entry in m will get.
func (s *Service) NextEntrySeq(m Month) (int, error) {
	legs, err := s.ReadMonth(m)
	if err != nil {
		return 0, err
	}
	return nextSeq(legs), nil
}

// Months lists every month with a journal file, oldest first. Directories
// that only look like YYYY/MM are ignored.
func (s *Service) Months() ([]Month, error) {
	matches, err := filepath.Glob(filepath.Join(s.repoRoot, "[0-9][0-9][0-9][0-9]", "[0-9][0-9]", "journal.csv"))
	if err != nil {
		return nil, fmt.Errorf("listing journals: %w", err)
	}

	var months []Month
	for _, path := range matches {
		dir := filepath.Dir(path)
		year, _ := strconv.Atoi(filepath.Base(filepath.Dir(dir)))
		month, _ := strconv.Atoi(filepath.Base(dir))
		if month < 1 || month > 12 {
			continue
		}
		months = append(months, Month{Year: year, Month: time.Month(month)})
	}
	slices.SortFunc(months, func(a, b Month) int {
		switch {
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		}
		return 0
	})
	return months, nil
}
