// Package ledger derives account balances from posted journal lines.
//
// Everything here is a pure function over rows already fetched from the
// store: balances are re-derived on every call, never cached.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetbooks/fleetbooks/internal/accounts"
	"github.com/fleetbooks/fleetbooks/internal/model"
)

// Chart is the view of the chart of accounts the ledger needs.
type Chart interface {
	All() []model.Account
	Get(code string) (model.Account, bool)
	Roots() []model.Account
	Children(code string) []model.Account
}

// Line is a posted journal line together with its entry's date.
type Line struct {
	EntryID     string          `json:"entry_id"`
	EntryNo     string          `json:"entry_no"`
	Date        time.Time       `json:"date"`
	AccountCode string          `json:"account_code"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// Net returns debit minus credit.
func (l Line) Net() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// Signed returns the line's effect on an account of the given type:
// debit − credit for debit-normal types, credit − debit otherwise.
func Signed(l Line, typ model.AccountType) decimal.Decimal {
	if typ.DebitNormal() {
		return l.Net()
	}
	return l.Net().Neg()
}

// Totals accumulates debits and credits.
type Totals struct {
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// Add returns t with l's amounts added.
func (t Totals) Add(l Line) Totals {
	return Totals{Debit: t.Debit.Add(l.Debit), Credit: t.Credit.Add(l.Credit)}
}

// Plus returns the sum of two totals.
func (t Totals) Plus(o Totals) Totals {
	return Totals{Debit: t.Debit.Add(o.Debit), Credit: t.Credit.Add(o.Credit)}
}

// Net returns debit minus credit.
func (t Totals) Net() decimal.Decimal {
	return t.Debit.Sub(t.Credit)
}

// SignedFor returns the net amount signed by the polarity of typ.
func (t Totals) SignedFor(typ model.AccountType) decimal.Decimal {
	if typ.DebitNormal() {
		return t.Net()
	}
	return t.Net().Neg()
}

// Period bounds a date range by calendar day. Zero bounds are open.
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls on or between the period's days.
func (p Period) Contains(t time.Time) bool {
	d := day(t)
	if !p.From.IsZero() && d.Before(day(p.From)) {
		return false
	}
	if !p.To.IsZero() && d.After(day(p.To)) {
		return false
	}
	return true
}

// Precedes reports whether t falls on a day before the period starts.
func (p Period) Precedes(t time.Time) bool {
	return !p.From.IsZero() && day(t).Before(day(p.From))
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SumByAccount totals lines per account code in a single pass.
func SumByAccount(lines []Line) map[string]Totals {
	sums := make(map[string]Totals)
	for _, l := range lines {
		sums[l.AccountCode] = sums[l.AccountCode].Add(l)
	}
	return sums
}

// Subtree returns the totals of code and every descendant of code.
func Subtree(lines []Line, code string) Totals {
	var t Totals
	for _, l := range lines {
		if accounts.InSubtree(l.AccountCode, code) {
			t = t.Add(l)
		}
	}
	return t
}

// Balance returns the signed balance of code, including all of its
// descendants. Unknown codes have a zero balance.
func Balance(chart Chart, lines []Line, code string) decimal.Decimal {
	acct, ok := chart.Get(code)
	if !ok {
		return decimal.Zero
	}
	return Subtree(lines, code).SignedFor(acct.Type)
}

// Filter returns the lines for which keep returns true.
func Filter(lines []Line, keep func(Line) bool) []Line {
	var out []Line
	for _, l := range lines {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

// Orphans returns lines that reference accounts missing from the chart.
func Orphans(chart Chart, lines []Line) []Line {
	return Filter(lines, func(l Line) bool {
		_, ok := chart.Get(l.AccountCode)
		return !ok
	})
}
