// Package export renders reports as CSV, Excel, PDF and terminal tables.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/fleetbooks/fleetbooks/internal/locale"
)

// Column describes one report column. Numeric columns hold plain decimal
// strings that each writer formats in its own way. Span is the relative
// width used by the PDF layout; zero means 1.
type Column struct {
	Title   string
	Numeric bool
	Span    int
}

func (c Column) span() int {
	if c.Span <= 0 {
		return 1
	}
	return c.Span
}

// Table is a generic tabular report.
type Table struct {
	Title    string
	Subtitle string
	Lang     string
	Columns  []Column
	Rows     [][]string
	// Totals is the closing row; nil when the report has none.
	Totals []string
}

// RTL reports whether the table reads right to left.
func (t Table) RTL() bool { return t.Lang == locale.Arabic }

// Titles returns the column captions.
func (t Table) Titles() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Title
	}
	return out
}

// display formats a cell for reading: numeric cells get grouped amounts
// in the table's language.
func (t Table) display(col int, v string) string {
	if col >= len(t.Columns) || !t.Columns[col].Numeric || v == "" {
		return v
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return v
	}
	return locale.FormatAmount(d, t.Lang)
}

func (t Table) displayRow(row []string) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = t.display(i, v)
	}
	return out
}

// WriteCSV writes the header, rows and totals as CSV with raw amounts.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Titles()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range t.Rows {
		if err := cw.Write(r); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if t.Totals != nil {
		if err := cw.Write(t.Totals); err != nil {
			return fmt.Errorf("writing totals: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteText renders the table for a terminal.
func WriteText(w io.Writer, t Table) error {
	rows := make([][]string, 0, len(t.Rows)+1)
	for _, r := range t.Rows {
		rows = append(rows, t.displayRow(r))
	}
	if t.Totals != nil {
		rows = append(rows, t.displayRow(t.Totals))
	}
	totalsRow := len(t.Rows)

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.Titles()...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow || (t.Totals != nil && row == totalsRow) {
				s = s.Bold(true)
			}
			if col < len(t.Columns) && t.Columns[col].Numeric {
				s = s.Align(lipgloss.Right)
			}
			return s
		})

	var b strings.Builder
	b.WriteString(t.Title + "\n")
	if t.Subtitle != "" {
		b.WriteString(t.Subtitle + "\n")
	}
	b.WriteString(tbl.Render() + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}
