package journal

import (
	"fmt"
	"path/filepath"
	"time"
)

// Month is the period covered by one journal file, <root>/YYYY/MM/journal.csv.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("parsing month %q (want YYYY-MM): %w", s, err)
	}
	return MonthOf(t), nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Contains reports whether t falls inside m.
func (m Month) Contains(t time.Time) bool {
	return MonthOf(t) == m
}

// Before orders months chronologically.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

func (m Month) path(repoRoot string) string {
	return filepath.Join(repoRoot, fmt.Sprintf("%04d", m.Year), fmt.Sprintf("%02d", int(m.Month)), "journal.csv")
}
