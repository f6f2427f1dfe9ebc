// Package importer turns bank statement exports into draft journal
// entries against the bank account.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetbooks/fleetbooks/internal/accounts"
	"github.com/fleetbooks/fleetbooks/internal/model"
)

// Transaction is one line of a bank statement. Amount is positive for
// deposits and negative for withdrawals.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Reference   string
}

// Parser converts a bank CSV file into Transactions.
type Parser interface {
	Parse(r io.Reader) ([]Transaction, error)
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

// Formats lists the registered formats.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		out = append(out, k)
	}
	return out
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&StatementParser{})
	return r
}

// Rule books transactions whose description contains Match (ignoring
// case) against Account.
type Rule struct {
	Match   string `yaml:"match"`
	Account string `yaml:"account"`
}

// Posting says where statement lines are booked.
type Posting struct {
	// Account is the bank account the statement belongs to.
	Account string `yaml:"account"`
	// Income and Expense take deposits and withdrawals no rule matches.
	Income  string `yaml:"income_account"`
	Expense string `yaml:"expense_account"`
	Rules   []Rule `yaml:"rules"`
}

// DefaultPosting books against the bank account with unmatched lines
// going to other revenue and administrative expenses.
func DefaultPosting() Posting {
	return Posting{
		Account: accounts.CodeBank,
		Income:  accounts.CodeOtherRevenue,
		Expense: accounts.CodeAdminExpense,
	}
}

// Classify returns the counter account for txn: the first matching rule,
// else the income or expense fallback.
func (p Posting) Classify(txn Transaction) string {
	desc := strings.ToLower(txn.Description)
	for _, r := range p.Rules {
		if r.Match != "" && strings.Contains(desc, strings.ToLower(r.Match)) {
			return r.Account
		}
	}
	if txn.Amount.IsPositive() {
		return p.Income
	}
	return p.Expense
}

// Entries builds one two-line draft entry per non-zero transaction. The
// transaction reference becomes the entry reference.
func (p Posting) Entries(txns []Transaction) []model.JournalEntry {
	var out []model.JournalEntry
	for _, txn := range txns {
		if txn.Amount.IsZero() {
			continue
		}
		amount := txn.Amount.Abs()
		bank := model.JournalLine{AccountCode: p.Account, Description: txn.Description}
		other := model.JournalLine{AccountCode: p.Classify(txn), Description: txn.Description}
		var lines []model.JournalLine
		if txn.Amount.IsPositive() {
			bank.Debit, other.Credit = amount, amount
			lines = []model.JournalLine{bank, other}
		} else {
			other.Debit, bank.Credit = amount, amount
			lines = []model.JournalLine{other, bank}
		}
		out = append(out, model.JournalEntry{
			Date:        txn.Date,
			Description: txn.Description,
			Reference:   txn.Reference,
			Lines:       lines,
		})
	}
	return out
}

// importDir is the subdirectory for import CSVs.
const importDir = "import"

// processedDir is the subdirectory for processed CSVs.
const processedDir = "import/processed"

// Scan returns CSV files in <root>/import/.
func Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
