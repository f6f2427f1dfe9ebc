package ledger

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fleetbooks/fleetbooks/internal/accounts"
	"github.com/fleetbooks/fleetbooks/internal/model"
)

// Row is a ledger line with the running balance after it.
type Row struct {
	Line
	Balance decimal.Decimal `json:"balance"`
}

// SortLines orders lines by date then entry number, keeping the input
// order for ties.
func SortLines(lines []Line) []Line {
	sorted := make([]Line, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].EntryNo < sorted[j].EntryNo
	})
	return sorted
}

// RunningBalance orders lines in time and returns each with the prefix
// sum of debit − credit, starting from opening.
func RunningBalance(lines []Line, opening decimal.Decimal) []Row {
	sorted := SortLines(lines)
	rows := make([]Row, len(sorted))
	bal := opening
	for i, l := range sorted {
		bal = bal.Add(l.Net())
		rows[i] = Row{Line: l, Balance: bal}
	}
	return rows
}

// Statement is the ledger of one account over a period.
type Statement struct {
	Account model.Account   `json:"account"`
	Period  Period          `json:"period"`
	Opening decimal.Decimal `json:"opening"`
	Rows    []Row           `json:"rows"`
	Totals  Totals          `json:"totals"`
	Closing decimal.Decimal `json:"closing"`
}

// AccountLedger returns the statement of code and its descendants: the
// opening balance from lines before the period, the period's lines with a
// running balance, and the closing balance.
func AccountLedger(chart Chart, lines []Line, code string, period Period) (Statement, error) {
	acct, ok := chart.Get(code)
	if !ok {
		return Statement{}, fmt.Errorf("%w: %s", accounts.ErrUnknownAccount, code)
	}

	st := Statement{Account: acct, Period: period, Opening: decimal.Zero}
	var inPeriod []Line
	for _, l := range lines {
		if !accounts.InSubtree(l.AccountCode, code) {
			continue
		}
		switch {
		case period.Precedes(l.Date):
			st.Opening = st.Opening.Add(l.Net())
		case period.Contains(l.Date):
			inPeriod = append(inPeriod, l)
			st.Totals = st.Totals.Add(l)
		}
	}

	st.Rows = RunningBalance(inPeriod, st.Opening)
	st.Closing = st.Opening.Add(st.Totals.Net())
	return st, nil
}
