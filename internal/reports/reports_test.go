package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetbooks/fleetbooks/internal/accounts"
	"github.com/fleetbooks/fleetbooks/internal/ledger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y, m, d int) time.Time { return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC) }

// entry returns the two lines of a simple balanced entry.
func entry(on time.Time, debitCode, creditCode, amount string) []ledger.Line {
	return []ledger.Line{
		{Date: on, AccountCode: debitCode, Debit: dec(amount)},
		{Date: on, AccountCode: creditCode, Credit: dec(amount)},
	}
}

func sampleBooks() (*accounts.Service, []ledger.Line) {
	chart := accounts.NewService(accounts.DefaultChart())
	var lines []ledger.Line
	lines = append(lines, entry(date(2024, 12, 1), accounts.CodeBank, accounts.CodeCapital, "50000")...)
	lines = append(lines, entry(date(2024, 12, 15), accounts.CodeVehicles, accounts.CodeBank, "30000")...)
	lines = append(lines, entry(date(2025, 1, 5), accounts.CodeReceivables, accounts.CodeFreightRevenue, "8000")...)
	lines = append(lines, entry(date(2025, 1, 10), accounts.CodeFuelExpense, accounts.CodeCash, "600")...)
	lines = append(lines, entry(date(2025, 1, 12), accounts.CodeCash, accounts.CodeBank, "1000")...)
	lines = append(lines, entry(date(2025, 1, 20), accounts.CodeCommissionsExpense, accounts.CodeCommissionsPayable, "800")...)
	lines = append(lines, entry(date(2025, 2, 2), accounts.CodeBank, accounts.CodeReceivables, "8000")...)
	return chart, lines
}

func rowByCode(rows []TrialBalanceRow, code string) (TrialBalanceRow, bool) {
	for _, r := range rows {
		if r.Code == code {
			return r, true
		}
	}
	return TrialBalanceRow{}, false
}

func TestTrialBalance(t *testing.T) {
	chart, lines := sampleBooks()
	tb := BuildTrialBalance(chart, lines, ledger.Period{From: date(2025, 1, 1), To: date(2025, 1, 31)}, TrialBalanceOptions{})

	assert.True(t, tb.Balanced(), "totals: %+v", tb.Totals)
	assert.True(t, tb.Totals.Opening.Debit.Equal(dec("50000")))
	assert.True(t, tb.Totals.Movement.Debit.Equal(dec("10400")))
	assert.True(t, tb.Totals.Closing.Debit.Equal(dec("58800")), "closing = %s", tb.Totals.Closing.Debit)

	bank, ok := rowByCode(tb.Rows, accounts.CodeBank)
	require.True(t, ok)
	assert.True(t, bank.Opening.Debit.Equal(dec("20000")))
	assert.True(t, bank.Movement.Credit.Equal(dec("1000")))
	assert.True(t, bank.Closing.Debit.Equal(dec("19000")))
	assert.True(t, bank.Leaf)

	cash, ok := rowByCode(tb.Rows, accounts.CodeCash)
	require.True(t, ok)
	assert.True(t, cash.Movement.Debit.Equal(dec("1000")))
	assert.True(t, cash.Movement.Credit.Equal(dec("600")))
	assert.True(t, cash.Closing.Debit.Equal(dec("400")))

	revenue, ok := rowByCode(tb.Rows, "4")
	require.True(t, ok)
	assert.True(t, revenue.Closing.Credit.Equal(dec("8000")))
	assert.True(t, revenue.Closing.Debit.IsZero())
	assert.False(t, revenue.Leaf)
}

func TestTrialBalance_DepthAndHideZero(t *testing.T) {
	chart, lines := sampleBooks()
	period := ledger.Period{From: date(2025, 1, 1), To: date(2025, 1, 31)}

	tb := BuildTrialBalance(chart, lines, period, TrialBalanceOptions{Depth: 1})
	require.Len(t, tb.Rows, 5)
	assert.True(t, tb.Balanced())

	tb = BuildTrialBalance(chart, lines, period, TrialBalanceOptions{HideZero: true})
	_, ok := rowByCode(tb.Rows, accounts.CodeSalariesExpense)
	assert.False(t, ok, "untouched accounts are hidden")
	_, ok = rowByCode(tb.Rows, accounts.CodeFuelExpense)
	assert.True(t, ok)
	assert.True(t, tb.Balanced(), "hiding rows does not change totals")
}

func TestSidesOf(t *testing.T) {
	s := SidesOf(dec("-12.50"))
	assert.True(t, s.Debit.IsZero())
	assert.True(t, s.Credit.Equal(dec("12.50")))

	s = SidesOf(dec("3"))
	assert.True(t, s.Debit.Equal(dec("3")))
	assert.True(t, s.Credit.IsZero())
}

func TestBalanceSheet(t *testing.T) {
	chart, lines := sampleBooks()
	bs := BuildBalanceSheet(chart, lines, date(2025, 1, 31), 0)

	assert.True(t, bs.Balanced(), "assets %s vs L+E %s", bs.TotalAssets, bs.TotalLiabilitiesAndEquity)
	assert.True(t, bs.TotalAssets.Equal(dec("57400")), "assets = %s", bs.TotalAssets)
	assert.True(t, bs.Liabilities.Total.Equal(dec("800")))
	assert.True(t, bs.Equity.Total.Equal(dec("50000")))
	assert.True(t, bs.CurrentEarnings.Equal(dec("6600")))
	require.Len(t, bs.Assets.Nodes, 1)
	assert.Equal(t, "1", bs.Assets.Nodes[0].Account.Code)
}

func TestBalanceSheet_ExcludesLaterLines(t *testing.T) {
	chart, lines := sampleBooks()
	bs := BuildBalanceSheet(chart, lines, date(2024, 12, 31), 0)

	assert.True(t, bs.Balanced())
	assert.True(t, bs.TotalAssets.Equal(dec("50000")))
	assert.True(t, bs.CurrentEarnings.IsZero())
}

func TestIncomeStatement(t *testing.T) {
	chart, lines := sampleBooks()
	is := BuildIncomeStatement(chart, lines, ledger.Period{From: date(2025, 1, 1), To: date(2025, 1, 31)}, 2)

	assert.True(t, is.Revenue.Total.Equal(dec("8000")))
	assert.True(t, is.Expenses.Total.Equal(dec("1400")))
	assert.True(t, is.NetIncome.Equal(dec("6600")))
	require.Len(t, is.Expenses.Nodes, 1)
	assert.Len(t, is.Expenses.Nodes[0].Children, 3, "depth 2 lists 5-1, 5-2, 5-3")

	feb := BuildIncomeStatement(chart, lines, ledger.Period{From: date(2025, 2, 1), To: date(2025, 2, 28)}, 0)
	assert.True(t, feb.NetIncome.IsZero())
}
