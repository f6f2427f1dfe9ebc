package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetbooks/fleetbooks/internal/ledger"
	"github.com/fleetbooks/fleetbooks/internal/model"
)

// Section groups the account trees of one account type.
type Section struct {
	Type  model.AccountType `json:"type"`
	Nodes []*ledger.Node    `json:"nodes"`
	Total decimal.Decimal   `json:"total"`
}

func sectionOf(roots []*ledger.Node, typ model.AccountType) Section {
	s := Section{Type: typ, Total: decimal.Zero}
	for _, n := range roots {
		if n.Account.Type == typ {
			s.Nodes = append(s.Nodes, n)
		}
	}
	s.Total = ledger.SumBalances(s.Nodes)
	return s
}

// BalanceSheet is the financial position at a date.
type BalanceSheet struct {
	AsOf                      time.Time       `json:"as_of"`
	Assets                    Section         `json:"assets"`
	Liabilities               Section         `json:"liabilities"`
	Equity                    Section         `json:"equity"`
	CurrentEarnings           decimal.Decimal `json:"current_earnings"`
	TotalAssets               decimal.Decimal `json:"total_assets"`
	TotalLiabilitiesAndEquity decimal.Decimal `json:"total_liabilities_and_equity"`
}

// Balanced reports whether assets equal liabilities plus equity.
func (bs BalanceSheet) Balanced() bool {
	return bs.TotalAssets.Equal(bs.TotalLiabilitiesAndEquity)
}

// BuildBalanceSheet computes the balance sheet from every line up to and
// including asOf. Revenue less expenses not yet closed to equity is shown
// as current earnings.
func BuildBalanceSheet(chart ledger.Chart, lines []ledger.Line, asOf time.Time, depth int) BalanceSheet {
	upTo := ledger.Period{To: asOf}
	included := ledger.Filter(lines, func(l ledger.Line) bool { return upTo.Contains(l.Date) })
	roots := ledger.BuildTree(chart, included, depth)

	bs := BalanceSheet{
		AsOf:        asOf,
		Assets:      sectionOf(roots, model.AccountTypeAsset),
		Liabilities: sectionOf(roots, model.AccountTypeLiability),
		Equity:      sectionOf(roots, model.AccountTypeEquity),
	}
	revenue := sectionOf(roots, model.AccountTypeRevenue)
	expense := sectionOf(roots, model.AccountTypeExpense)

	bs.CurrentEarnings = revenue.Total.Sub(expense.Total)
	bs.TotalAssets = bs.Assets.Total
	bs.TotalLiabilitiesAndEquity = bs.Liabilities.Total.Add(bs.Equity.Total).Add(bs.CurrentEarnings)
	return bs
}

// IncomeStatement is revenue and expenses over a period.
type IncomeStatement struct {
	Period    ledger.Period   `json:"period"`
	Revenue   Section         `json:"revenue"`
	Expenses  Section         `json:"expenses"`
	NetIncome decimal.Decimal `json:"net_income"`
}

// BuildIncomeStatement computes the profit or loss of period.
func BuildIncomeStatement(chart ledger.Chart, lines []ledger.Line, period ledger.Period, depth int) IncomeStatement {
	during := ledger.Filter(lines, func(l ledger.Line) bool { return period.Contains(l.Date) })
	roots := ledger.BuildTree(chart, during, depth)

	is := IncomeStatement{
		Period:   period,
		Revenue:  sectionOf(roots, model.AccountTypeRevenue),
		Expenses: sectionOf(roots, model.AccountTypeExpense),
	}
	is.NetIncome = is.Revenue.Total.Sub(is.Expenses.Total)
	return is
}
