package importer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cleared-dev/autojournal/internal/model"
)

// Parser converts a bank CSV file into BankTransactions. Amounts follow the
// model convention: positive is money in, negative is money out.
type Parser interface {
	Parse(r io.Reader) ([]model.BankTransaction, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists the registered format names in sorted order.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	r.Register(&PlaidParser{})
	return r
}

// ParseFile opens path and runs p over it.
func ParseFile(p Parser, path string) ([]model.BankTransaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	txns, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s as %s: %w", filepath.Base(path), p.Format(), err)
	}
	return txns, nil
}

// uniqueRefs suffixes repeated references within one file ("_2", "_3", ...)
// so two identical same-day charges stay distinct.
func uniqueRefs(txns []model.BankTransaction) {
	seen := make(map[string]int, len(txns))
	for i := range txns {
		ref := txns[i].Reference
		seen[ref]++
		if n := seen[ref]; n > 1 {
			txns[i].Reference = fmt.Sprintf("%s_%d", ref, n)
		}
	}
}

const (
	importDir    = "import"
	processedDir = "import/processed"
)

// Scan lists the CSV files waiting in <repoRoot>/import, in name order.
// A missing import directory means there is nothing to do.
func Scan(repoRoot string) ([]FileInfo, error) {
	dir := filepath.Join(repoRoot, importDir)
	dirEntries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range dirEntries {
		if !e.Type().IsRegular() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{Name: e.Name(), Path: filepath.Join(dir, e.Name()), Size: info.Size()})
	}
	return files, nil
}

// MarkProcessed archives an imported file under import/processed. Banks
// reuse download names, so an existing archive is never overwritten: the
// new copy becomes name-2.csv, name-3.csv and so on. It returns the
// archived file name.
func MarkProcessed(repoRoot, fileName string) (string, error) {
	dstDir := filepath.Join(repoRoot, processedDir)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return "", fmt.Errorf("creating processed dir: %w", err)
	}

	ext := filepath.Ext(fileName)
	stem := strings.TrimSuffix(fileName, ext)
	name := fileName
	for n := 2; ; n++ {
		_, err := os.Lstat(filepath.Join(dstDir, name))
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("checking processed dir: %w", err)
		}
		name = fmt.Sprintf("%s-%d%s", stem, n, ext)
	}

	if err := os.Rename(filepath.Join(repoRoot, importDir, fileName), filepath.Join(dstDir, name)); err != nil {
		return "", fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return name, nil
}
