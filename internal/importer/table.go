package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// table is a CSV export whose columns are located by header name, so
// extra or reordered columns do not matter.
type table struct {
	cols map[string]int
	rows [][]string
}

// readTable reads a whole export and checks that every column named in
// required is present. Header names are matched case-insensitively.
func readTable(r io.Reader, format string, required ...string) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s CSV: %w", format, err)
	}
	if len(records) == 0 {
		return &table{}, nil
	}

	t := &table{cols: make(map[string]int, len(records[0])), rows: records[1:]}
	for i, name := range records[0] {
		t.cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if !t.has(name) {
			return nil, fmt.Errorf("%s CSV missing %q column", format, name)
		}
	}
	return t, nil
}

func (t *table) has(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// get returns the trimmed value of the named column, or "" when the row is
// short or the column is absent.
func (t *table) get(rec []string, name string) string {
	if i, ok := t.cols[name]; ok && i < len(rec) {
		return strings.TrimSpace(rec[i])
	}
	return ""
}
