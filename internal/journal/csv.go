package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetbooks/fleetbooks/internal/ledger"
	"github.com/fleetbooks/fleetbooks/internal/model"
)

// Header is the CSV header for journal.csv.
const Header = "entry_no,date,account_code,description,debit,credit"

const (
	numFields  = 6
	dateFormat = "2006-01-02"
	colEntryNo = 0
	colDate    = 1
	colAccount = 2
	colDesc    = 3
	colDebit   = 4
	colCredit  = 5
)

// ReadLines reads all lines from a journal.csv reader.
func ReadLines(r io.Reader) ([]ledger.Line, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var lines []ledger.Line
	for i, rec := range records[1:] {
		l, err := UnmarshalLine(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		lines = append(lines, l)
	}
	return lines, nil
}

// WriteLines writes lines to a journal.csv writer (including header).
func WriteLines(w io.Writer, lines []ledger.Line) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, l := range lines {
		if err := cw.Write(MarshalLine(l)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalLine converts a Line to a CSV row.
func MarshalLine(l ledger.Line) []string {
	row := make([]string, numFields)
	row[colEntryNo] = l.EntryNo
	row[colDate] = l.Date.Format(dateFormat)
	row[colAccount] = l.AccountCode
	row[colDesc] = l.Description
	if !l.Debit.IsZero() {
		row[colDebit] = l.Debit.StringFixed(2)
	}
	if !l.Credit.IsZero() {
		row[colCredit] = l.Credit.StringFixed(2)
	}
	return row
}

// UnmarshalLine converts a CSV row to a Line.
func UnmarshalLine(record []string) (ledger.Line, error) {
	if len(record) != numFields {
		return ledger.Line{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return ledger.Line{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	var debit, credit decimal.Decimal
	if record[colDebit] != "" {
		debit, err = decimal.NewFromString(record[colDebit])
		if err != nil {
			return ledger.Line{}, fmt.Errorf("parsing debit %q: %w", record[colDebit], err)
		}
	}
	if record[colCredit] != "" {
		credit, err = decimal.NewFromString(record[colCredit])
		if err != nil {
			return ledger.Line{}, fmt.Errorf("parsing credit %q: %w", record[colCredit], err)
		}
	}

	return ledger.Line{
		EntryNo:     record[colEntryNo],
		Date:        date,
		AccountCode: record[colAccount],
		Description: record[colDesc],
		Debit:       debit,
		Credit:      credit,
	}, nil
}

// GroupEntries turns imported lines into draft entries, one per distinct
// entry number in first-seen order. The first line's date and description
// become the entry's.
func GroupEntries(lines []ledger.Line) []model.JournalEntry {
	var entries []model.JournalEntry
	index := make(map[string]int)
	for _, l := range lines {
		i, ok := index[l.EntryNo]
		if !ok {
			i = len(entries)
			index[l.EntryNo] = i
			entries = append(entries, model.JournalEntry{
				Date:        l.Date,
				Description: l.Description,
				Reference:   l.EntryNo,
			})
		}
		entries[i].Lines = append(entries[i].Lines, model.JournalLine{
			AccountCode: l.AccountCode,
			Description: l.Description,
			Debit:       l.Debit,
			Credit:      l.Credit,
		})
	}
	return entries
}
