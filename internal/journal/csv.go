package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/autojournal/internal/model"
)

const dateFormat = "2006-01-02"

// column binds one journal.csv field to a Leg.
type column struct {
	name   string
	format func(*model.Leg) string
	parse  func(*model.Leg, string) error
}

func textColumn(name string, field func(*model.Leg) *string) column {
	return column{
		name:   name,
		format: func(l *model.Leg) string { return *field(l) },
		parse: func(l *model.Leg, s string) error {
			*field(l) = s
			return nil
		},
	}
}

// amountColumn leaves zero values blank. places < 0 writes the shortest form.
func amountColumn(name string, places int32, field func(*model.Leg) *decimal.Decimal) column {
	return column{
		name: name,
		format: func(l *model.Leg) string {
			d := *field(l)
			switch {
			case d.IsZero():
				return ""
			case places < 0:
				return d.String()
			default:
				return d.StringFixed(places)
			}
		},
		parse: func(l *model.Leg, s string) error {
			if s == "" {
				*field(l) = decimal.Zero
				return nil
			}
			d, err := decimal.NewFromString(s)
			if err != nil {
				return fmt.Errorf("parsing %s %q: %w", name, s, err)
			}
			*field(l) = d
			return nil
		},
	}
}

// columns is the journal.csv layout, in file order.
var columns = []column{
	textColumn("entry_id", func(l *model.Leg) *string { return &l.EntryID }),
	{
		name:   "date",
		format: func(l *model.Leg) string { return l.Date.Format(dateFormat) },
		parse: func(l *model.Leg, s string) error {
			d, err := time.Parse(dateFormat, s)
			if err != nil {
				return fmt.Errorf("parsing date %q: %w", s, err)
			}
			l.Date = d
			return nil
		},
	},
	{
		name:   "account_id",
		format: func(l *model.Leg) string { return l.AccountID },
		parse: func(l *model.Leg, s string) error {
			l.AccountID = strings.TrimSpace(s)
			if l.AccountID == "" {
				return fmt.Errorf("empty account_id")
			}
			return nil
		},
	},
	textColumn("description", func(l *model.Leg) *string { return &l.Description }),
	amountColumn("debit", 2, func(l *model.Leg) *decimal.Decimal { return &l.Debit }),
	amountColumn("credit", 2, func(l *model.Leg) *decimal.Decimal { return &l.Credit }),
	textColumn("counterparty", func(l *model.Leg) *string { return &l.Counterparty }),
	textColumn("reference", func(l *model.Leg) *string { return &l.Reference }),
	textColumn("kind", func(l *model.Leg) *string { return &l.Kind }),
	amountColumn("confidence", -1, func(l *model.Leg) *decimal.Decimal { return &l.Confidence }),
	{
		name:   "status",
		format: func(l *model.Leg) string { return string(l.Status) },
		parse: func(l *model.Leg, s string) error {
			l.Status = model.EntryStatus(s)
			if s != "" && !l.Status.Valid() {
				return fmt.Errorf("unknown status %q", s)
			}
			return nil
		},
	},
	textColumn("evidence", func(l *model.Leg) *string { return &l.Evidence }),
	textColumn("receipt_hash", func(l *model.Leg) *string { return &l.ReceiptHash }),
	textColumn("tags", func(l *model.Leg) *string { return &l.Tags }),
	textColumn("notes", func(l *model.Leg) *string { return &l.Notes }),
}

// header is the first row of every journal.csv.
var header = func() []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.name
	}
	return names
}()

// Header is the journal.csv header line.
var Header = strings.Join(header, ",")

// ReadLegs reads all legs from a journal.csv reader. The first row must be
// the current header.
func ReadLegs(r io.Reader) ([]model.Leg, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	first, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}
	if !slices.Equal(first, header) {
		return nil, fmt.Errorf("missing journal header, first row starts with %q", first[0])
	}

	var legs []model.Leg
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return legs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading journal CSV: %w", err)
		}
		leg, err := UnmarshalLeg(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		legs = append(legs, leg)
	}
}

// WriteLegs writes a complete journal.csv, header first.
func WriteLegs(w io.Writer, legs []model.Leg) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return writeRows(cw, legs)
}

// AppendLegs writes legs without a header, for adding to an existing file.
func AppendLegs(w io.Writer, legs []model.Leg) error {
	return writeRows(csv.NewWriter(w), legs)
}

func writeRows(cw *csv.Writer, legs []model.Leg) error {
	for _, leg := range legs {
		if err := cw.Write(MarshalLeg(leg)); err != nil {
			return fmt.Errorf("writing leg %s: %w", leg.EntryID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalLeg converts a Leg to a CSV row.
func MarshalLeg(leg model.Leg) []string {
	row := make([]string, len(columns))
	for i, c := range columns {
		row[i] = c.format(&leg)
	}
	return row
}

// UnmarshalLeg converts a CSV row to a Leg.
func UnmarshalLeg(record []string) (model.Leg, error) {
	if len(record) != len(columns) {
		return model.Leg{}, fmt.Errorf("expected %d fields, got %d", len(columns), len(record))
	}

	var leg model.Leg
	for i, c := range columns {
		if err := c.parse(&leg, record[i]); err != nil {
			return model.Leg{}, err
		}
	}
	return leg, nil
}
