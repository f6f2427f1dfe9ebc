package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StatementParser reads the common bank statement layout with separate
// withdrawal and deposit columns:
//
//	date,description,withdrawal,deposit,balance,reference
//
// Dates are YYYY-MM-DD or DD/MM/YYYY. A blank reference is derived from
// the date and description, numbered when it repeats.
type StatementParser struct{}

var statementDateFormats = []string{"2006-01-02", "02/01/2006"}

const (
	stmtNumFields     = 6
	stmtColDate       = 0
	stmtColDesc       = 1
	stmtColWithdrawal = 2
	stmtColDeposit    = 3
	stmtColReference  = 5
)

// Format returns the parser name.
func (p *StatementParser) Format() string { return "statement" }

// Parse reads a statement CSV and returns its transactions.
func (p *StatementParser) Parse(r io.Reader) ([]Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = stmtNumFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []Transaction
	seen := make(map[string]int)
	for i, rec := range records[1:] {
		txn, err := parseStatementRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		// References identify lines on re-import, so repeats get a suffix.
		seen[txn.Reference]++
		if n := seen[txn.Reference]; n > 1 {
			txn.Reference = fmt.Sprintf("%s_%d", txn.Reference, n)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseStatementRow(rec []string) (Transaction, error) {
	date, err := parseStatementDate(rec[stmtColDate])
	if err != nil {
		return Transaction{}, err
	}

	withdrawal, err := parseAmount(rec[stmtColWithdrawal])
	if err != nil {
		return Transaction{}, fmt.Errorf("parsing withdrawal %q: %w", rec[stmtColWithdrawal], err)
	}
	deposit, err := parseAmount(rec[stmtColDeposit])
	if err != nil {
		return Transaction{}, fmt.Errorf("parsing deposit %q: %w", rec[stmtColDeposit], err)
	}

	desc := strings.TrimSpace(rec[stmtColDesc])
	ref := strings.TrimSpace(rec[stmtColReference])
	if ref == "" {
		ref = makeRef(date, desc)
	}

	return Transaction{
		Date:        date,
		Description: desc,
		Amount:      deposit.Sub(withdrawal),
		Reference:   ref,
	}, nil
}

func parseStatementDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range statementDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q", s)
}

// parseAmount accepts blanks and thousands separators.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// makeRef creates a reference like stmt_20250103_DIESELSTAT.
func makeRef(date time.Time, desc string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("stmt_%s_%s", date.Format("20060102"), strings.ToUpper(prefix))
}
