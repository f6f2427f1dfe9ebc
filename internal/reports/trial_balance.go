// Package reports builds the accounting statements from ledger lines.
package reports

import (
	"github.com/shopspring/decimal"

	"github.com/fleetbooks/fleetbooks/internal/ledger"
	"github.com/fleetbooks/fleetbooks/internal/model"
)

// Sides presents a net amount in debit and credit columns; at most one
// of them is non-zero.
type Sides struct {
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// SidesOf places net (debit − credit) on its side.
func SidesOf(net decimal.Decimal) Sides {
	if net.IsNegative() {
		return Sides{Debit: decimal.Zero, Credit: net.Neg()}
	}
	return Sides{Debit: net, Credit: decimal.Zero}
}

func (s Sides) plus(o Sides) Sides {
	return Sides{Debit: s.Debit.Add(o.Debit), Credit: s.Credit.Add(o.Credit)}
}

// TrialBalanceRow is one account line of the trial balance.
type TrialBalanceRow struct {
	Code     string            `json:"code"`
	Name     string            `json:"name"`
	NameAr   string            `json:"name_ar"`
	Type     model.AccountType `json:"type"`
	Depth    int               `json:"depth"`
	Leaf     bool              `json:"leaf"`
	Opening  Sides             `json:"opening"`
	Movement Sides             `json:"movement"`
	Closing  Sides             `json:"closing"`
}

// IsZero reports whether the row carries no amounts at all.
func (r TrialBalanceRow) IsZero() bool {
	return r.Opening.Debit.IsZero() && r.Opening.Credit.IsZero() &&
		r.Movement.Debit.IsZero() && r.Movement.Credit.IsZero()
}

// TrialBalance lists opening, period and closing amounts per account.
type TrialBalance struct {
	Period ledger.Period     `json:"period"`
	Depth  int               `json:"depth"`
	Rows   []TrialBalanceRow `json:"rows"`
	Totals TrialBalanceRow   `json:"totals"`
}

// Balanced reports whether debits equal credits in every column.
func (tb TrialBalance) Balanced() bool {
	t := tb.Totals
	return t.Opening.Debit.Equal(t.Opening.Credit) &&
		t.Movement.Debit.Equal(t.Movement.Credit) &&
		t.Closing.Debit.Equal(t.Closing.Credit)
}

// TrialBalanceOptions controls the shape of the trial balance.
type TrialBalanceOptions struct {
	Depth    int  // deepest account level listed; 0 lists every level
	HideZero bool // drop accounts without any amount
}

// BuildTrialBalance computes the trial balance of period. Totals are taken
// from the top-level accounts so nested rows are not counted twice.
func BuildTrialBalance(chart ledger.Chart, lines []ledger.Line, period ledger.Period, opts TrialBalanceOptions) TrialBalance {
	var before, during []ledger.Line
	for _, l := range lines {
		switch {
		case period.Precedes(l.Date):
			before = append(before, l)
		case period.Contains(l.Date):
			during = append(during, l)
		}
	}

	opening := ledger.BuildTree(chart, before, opts.Depth)
	movement := ledger.BuildTree(chart, during, opts.Depth)

	tb := TrialBalance{Period: period, Depth: opts.Depth}
	tb.Totals.Name = "Total"

	openFlat := ledger.Flatten(opening)
	moveFlat := ledger.Flatten(movement)
	for i, o := range openFlat {
		m := moveFlat[i]
		row := TrialBalanceRow{
			Code:     o.Account.Code,
			Name:     o.Account.Name,
			NameAr:   o.Account.NameAr,
			Type:     o.Account.Type,
			Depth:    o.Depth,
			Leaf:     o.Leaf(),
			Opening:  SidesOf(o.Total.Net()),
			Movement: Sides{Debit: m.Total.Debit, Credit: m.Total.Credit},
			Closing:  SidesOf(o.Total.Net().Add(m.Total.Net())),
		}
		if o.Depth == 1 {
			tb.Totals.Opening = tb.Totals.Opening.plus(row.Opening)
			tb.Totals.Movement = tb.Totals.Movement.plus(row.Movement)
			tb.Totals.Closing = tb.Totals.Closing.plus(row.Closing)
		}
		if opts.HideZero && row.IsZero() {
			continue
		}
		tb.Rows = append(tb.Rows, row)
	}
	return tb
}
