package export

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fleetbooks/fleetbooks/internal/fleet"
	"github.com/fleetbooks/fleetbooks/internal/inventory"
	"github.com/fleetbooks/fleetbooks/internal/ledger"
	"github.com/fleetbooks/fleetbooks/internal/locale"
	"github.com/fleetbooks/fleetbooks/internal/model"
	"github.com/fleetbooks/fleetbooks/internal/reports"
)

func amount(d decimal.Decimal) string { return d.StringFixed(2) }

func accountName(a model.Account, lang string) string {
	if lang == locale.Arabic && a.NameAr != "" {
		return a.NameAr
	}
	return a.Name
}

func indent(depth int, s string) string {
	if depth <= 1 {
		return s
	}
	return strings.Repeat("  ", depth-1) + s
}

func periodLabel(p ledger.Period, s locale.Settings) string {
	switch {
	case p.From.IsZero() && p.To.IsZero():
		return ""
	case p.From.IsZero():
		return "≤ " + locale.FormatDate(p.To, s)
	case p.To.IsZero():
		return "≥ " + locale.FormatDate(p.From, s)
	default:
		return locale.FormatDate(p.From, s) + " – " + locale.FormatDate(p.To, s)
	}
}

func numeric(s locale.Settings, keys ...string) []Column {
	cols := make([]Column, len(keys))
	for i, k := range keys {
		cols[i] = Column{Title: locale.Label(s.Language, k), Numeric: true}
	}
	return cols
}

// TrialBalanceTable lays out a trial balance.
func TrialBalanceTable(tb reports.TrialBalance, s locale.Settings) Table {
	t := Table{
		Title:    locale.Label(s.Language, "trial_balance"),
		Subtitle: periodLabel(tb.Period, s),
		Lang:     s.Language,
		Columns:  append([]Column{
			{Title: locale.Label(s.Language, "code")},
			{Title: locale.Label(s.Language, "account"), Span: 3},
		}, numeric(s, "opening_debit", "opening_credit", "period_debit", "period_credit", "closing_debit", "closing_credit")...),
	}
	for _, r := range tb.Rows {
		name := r.Name
		if s.Language == locale.Arabic && r.NameAr != "" {
			name = r.NameAr
		}
		t.Rows = append(t.Rows, []string{
			r.Code, indent(r.Depth, name),
			amount(r.Opening.Debit), amount(r.Opening.Credit),
			amount(r.Movement.Debit), amount(r.Movement.Credit),
			amount(r.Closing.Debit), amount(r.Closing.Credit),
		})
	}
	tt := tb.Totals
	t.Totals = []string{
		"", locale.Label(s.Language, "total"),
		amount(tt.Opening.Debit), amount(tt.Opening.Credit),
		amount(tt.Movement.Debit), amount(tt.Movement.Credit),
		amount(tt.Closing.Debit), amount(tt.Closing.Credit),
	}
	return t
}

func sectionRows(sec reports.Section, s locale.Settings) [][]string {
	var rows [][]string
	ledger.Walk(sec.Nodes, func(n *ledger.Node) {
		rows = append(rows, []string{n.Account.Code, indent(n.Depth, accountName(n.Account, s.Language)), amount(n.Balance)})
	})
	rows = append(rows, []string{"", locale.Label(s.Language, "total") + " " + locale.Label(s.Language, string(sec.Type)), amount(sec.Total)})
	return rows
}

func statementColumns(s locale.Settings) []Column {
	return []Column{
		{Title: locale.Label(s.Language, "code")},
		{Title: locale.Label(s.Language, "account"), Span: 4},
		{Title: locale.Label(s.Language, "balance"), Numeric: true, Span: 2},
	}
}

// BalanceSheetTable lays out a balance sheet section by section.
func BalanceSheetTable(bs reports.BalanceSheet, s locale.Settings) Table {
	t := Table{
		Title:    locale.Label(s.Language, "balance_sheet"),
		Subtitle: locale.FormatDate(bs.AsOf, s),
		Lang:     s.Language,
		Columns:  statementColumns(s),
	}
	t.Rows = append(t.Rows, sectionRows(bs.Assets, s)...)
	t.Rows = append(t.Rows, sectionRows(bs.Liabilities, s)...)
	t.Rows = append(t.Rows, sectionRows(bs.Equity, s)...)
	t.Rows = append(t.Rows, []string{"", locale.Label(s.Language, "current_earnings"), amount(bs.CurrentEarnings)})
	t.Totals = []string{"", locale.Label(s.Language, "liabilities_and_equity"), amount(bs.TotalLiabilitiesAndEquity)}
	return t
}

// IncomeStatementTable lays out revenue, expenses and net income.
func IncomeStatementTable(is reports.IncomeStatement, s locale.Settings) Table {
	t := Table{
		Title:    locale.Label(s.Language, "income_statement"),
		Subtitle: periodLabel(is.Period, s),
		Lang:     s.Language,
		Columns:  statementColumns(s),
	}
	t.Rows = append(t.Rows, sectionRows(is.Revenue, s)...)
	t.Rows = append(t.Rows, sectionRows(is.Expenses, s)...)
	t.Totals = []string{"", locale.Label(s.Language, "net_income"), amount(is.NetIncome)}
	return t
}

// LedgerTable lays out an account statement with its running balance.
func LedgerTable(st ledger.Statement, s locale.Settings) Table {
	t := Table{
		Title:    locale.Label(s.Language, "ledger") + ": " + st.Account.Code + " " + accountName(st.Account, s.Language),
		Subtitle: periodLabel(st.Period, s),
		Lang:     s.Language,
		Columns:  append([]Column{
			{Title: locale.Label(s.Language, "date")},
			{Title: locale.Label(s.Language, "entry")},
			{Title: locale.Label(s.Language, "account")},
			{Title: locale.Label(s.Language, "description"), Span: 3},
		}, numeric(s, "debit", "credit", "balance")...),
	}
	t.Rows = append(t.Rows, []string{"", "", "", locale.Label(s.Language, "opening_balance"), "", "", amount(st.Opening)})
	for _, r := range st.Rows {
		t.Rows = append(t.Rows, []string{
			locale.FormatDate(r.Date, s), r.EntryNo, r.AccountCode, r.Description,
			amount(r.Debit), amount(r.Credit), amount(r.Balance),
		})
	}
	t.Totals = []string{"", "", "", locale.Label(s.Language, "closing_balance"), amount(st.Totals.Debit), amount(st.Totals.Credit), amount(st.Closing)}
	return t
}

// CommissionTable lays out a driver's commission statement.
func CommissionTable(st fleet.CommissionStatement, s locale.Settings) Table {
	t := Table{
		Title:    locale.Label(s.Language, "commissions") + ": " + st.Driver.Name,
		Subtitle: periodLabel(st.Period, s),
		Lang:     s.Language,
		Columns:  append([]Column{
			{Title: locale.Label(s.Language, "date")},
			{Title: locale.Label(s.Language, "load")},
			{Title: locale.Label(s.Language, "route"), Span: 3},
			{Title: locale.Label(s.Language, "paid")},
		}, numeric(s, "freight", "commission")...),
	}
	for _, l := range st.Lines {
		paid := locale.Label(s.Language, "no")
		if l.Paid {
			paid = locale.Label(s.Language, "yes")
		}
		t.Rows = append(t.Rows, []string{
			locale.FormatDate(l.Date, s), l.Number, l.Origin + " → " + l.Destination, paid,
			amount(l.Freight), amount(l.Commission),
		})
	}
	t.Totals = []string{
		"", locale.Label(s.Language, "total"),
		fmt.Sprintf("%s %s", locale.Label(s.Language, "outstanding"), locale.FormatAmount(st.Outstanding, s.Language)),
		"", amount(st.TotalFreight), amount(st.TotalCommission),
	}
	return t
}

// PayrollTable lays out the payslips of a run.
func PayrollTable(run model.PayrollRun, s locale.Settings) Table {
	t := Table{
		Title:   locale.Label(s.Language, "payroll") + " " + run.Month,
		Lang:    s.Language,
		Columns: append([]Column{
			{Title: locale.Label(s.Language, "employee"), Span: 3},
		}, numeric(s, "basic", "allowances", "overtime", "gross", "deductions", "net")...),
	}
	basic, allowances, overtime := decimal.Zero, decimal.Zero, decimal.Zero
	for _, p := range run.Payslips {
		t.Rows = append(t.Rows, []string{
			p.EmployeeName, amount(p.Basic), amount(p.Allowances), amount(p.Overtime),
			amount(p.Gross), amount(p.Deductions()), amount(p.Net),
		})
		basic = basic.Add(p.Basic)
		allowances = allowances.Add(p.Allowances)
		overtime = overtime.Add(p.Overtime)
	}
	t.Totals = []string{
		locale.Label(s.Language, "total"), amount(basic), amount(allowances), amount(overtime),
		amount(run.TotalGross), amount(run.TotalDeduction), amount(run.TotalNet),
	}
	return t
}

// StockTable lays out stock levels, flagging parts at or below their
// reorder level.
func StockTable(levels []inventory.StockLevel, s locale.Settings) Table {
	t := Table{
		Title:   locale.Label(s.Language, "stock"),
		Lang:    s.Language,
		Columns: append([]Column{
			{Title: locale.Label(s.Language, "code")},
			{Title: locale.Label(s.Language, "part"), Span: 3},
			{Title: locale.Label(s.Language, "reorder")},
		}, numeric(s, "on_hand", "average_cost", "value")...),
	}
	total := decimal.Zero
	for _, l := range levels {
		flag := ""
		if l.BelowReorder {
			flag = "!"
		}
		t.Rows = append(t.Rows, []string{
			l.Part.Code, l.Part.Name, flag,
			amount(l.OnHand), amount(l.AverageCost), amount(l.Value),
		})
		total = total.Add(l.Value)
	}
	t.Totals = []string{"", locale.Label(s.Language, "total"), "", "", "", amount(total)}
	return t
}
