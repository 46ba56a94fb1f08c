// Package importer turns bank statement files into posted transactions.
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
	"time"

	"github.com/shopspring/decimal"
)

// BankTransaction is one row of a bank statement. A positive amount is
// money in, a negative amount money out.
type BankTransaction struct {
	Date        time.Time // zero when the statement carries no date
	Description string
	Amount      decimal.Decimal
	Reference   string
	Type        string
	AccountRef  string // category account named by the statement, if any
}

// Parser converts a bank statement into BankTransactions.
type Parser interface {
	Parse(r io.Reader) ([]BankTransaction, error)
	Format() string
}

// FileInfo describes a statement waiting in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Registry maps format names to parsers. Names are case-insensitive.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates a Registry holding parsers. Registering two parsers
// under one format panics.
func NewRegistry(parsers ...Parser) *Registry {
	r := &Registry{parsers: make(map[string]Parser, len(parsers))}
	for _, p := range parsers {
		r.Register(p)
	}
	return r
}

// Register adds p under its format name.
func (r *Registry) Register(p Parser) {
	name := strings.ToLower(p.Format())
	if _, dup := r.parsers[name]; dup {
		panic(fmt.Sprintf("importer: parser %q registered twice", name))
	}
	r.parsers[name] = p
}

// Get returns the parser for format, or nil when none is registered.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(strings.TrimSpace(format))]
}

// Formats lists the registered format names in order.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry knows every built-in statement format.
func DefaultRegistry() *Registry {
	return NewRegistry(&ChaseParser{}, &StatementParser{})
}

// ProcessedDir is the subdirectory of the import directory that imported
// files are moved into.
const ProcessedDir = "processed"

// Scan lists the statements waiting in dir, ordered by name. Only regular
// .csv files directly inside dir count; a missing dir holds none.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{Name: e.Name(), Path: filepath.Join(dir, e.Name()), Size: info.Size()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// MarkProcessed moves dir/name into dir/processed/ and returns the new path.
// A statement already processed under the same name is kept; the new one
// gets a numbered suffix (bank-1.csv, bank-2.csv, ...).
func MarkProcessed(dir, name string) (string, error) {
	target := filepath.Join(dir, ProcessedDir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("creating processed dir: %w", err)
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	dst := filepath.Join(target, name)
	for n := 1; ; n++ {
		if _, err := os.Lstat(dst); errors.Is(err, fs.ErrNotExist) {
			break
		}
		dst = filepath.Join(target, fmt.Sprintf("%s-%d%s", base, n, ext))
	}

	if err := os.Rename(filepath.Join(dir, name), dst); err != nil {
		return "", fmt.Errorf("moving %s to processed: %w", name, err)
	}
	return dst, nil
}
