package export

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/fleetbooks/fleetbooks/internal/accounts"
	"github.com/fleetbooks/fleetbooks/internal/fleet"
	"github.com/fleetbooks/fleetbooks/internal/inventory"
	"github.com/fleetbooks/fleetbooks/internal/ledger"
	"github.com/fleetbooks/fleetbooks/internal/locale"
	"github.com/fleetbooks/fleetbooks/internal/model"
	"github.com/fleetbooks/fleetbooks/internal/reports"
)

var (
	en = locale.Settings{Language: locale.English, Calendar: locale.Gregorian}
	ar = locale.Settings{Language: locale.Arabic, Calendar: locale.Hijri}
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y, m, d int) time.Time { return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC) }

func sample() (*accounts.Service, []ledger.Line) {
	chart := accounts.NewService([]model.Account{
		{Code: "1", Name: "Assets", NameAr: "الأصول", Type: model.AccountTypeAsset},
		{Code: "1-1", Name: "Cash", NameAr: "الصندوق", Type: model.AccountTypeAsset},
		{Code: "3", Name: "Equity", Type: model.AccountTypeEquity},
		{Code: "4", Name: "Revenue", Type: model.AccountTypeRevenue},
	})
	lines := []ledger.Line{
		{EntryNo: "JE-2025-01-001", Date: date(2025, 1, 1), AccountCode: "1-1", Description: "capital", Debit: dec("1000")},
		{EntryNo: "JE-2025-01-001", Date: date(2025, 1, 1), AccountCode: "3", Description: "capital", Credit: dec("1000")},
		{EntryNo: "JE-2025-01-002", Date: date(2025, 1, 9), AccountCode: "1-1", Description: "freight", Debit: dec("1234.5")},
		{EntryNo: "JE-2025-01-002", Date: date(2025, 1, 9), AccountCode: "4", Description: "freight", Credit: dec("1234.5")},
	}
	return chart, lines
}

func sampleTable() Table {
	return Table{
		Title:   "Sample",
		Lang:    locale.English,
		Columns: []Column{{Title: "Name"}, {Title: "Amount", Numeric: true}},
		Rows:    [][]string{{"fuel, diesel", "1234.50"}, {"tyres", "20.00"}},
		Totals:  []string{"Total", "1254.50"},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable()))
	assert.Equal(t, "Name,Amount\n\"fuel, diesel\",1234.50\ntyres,20.00\nTotal,1254.50\n", buf.String())
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleTable()))
	out := buf.String()
	assert.Contains(t, out, "Sample\n")
	assert.Contains(t, out, "1,234.50")
	assert.Contains(t, out, "fuel, diesel")
	assert.Contains(t, out, "Total")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	tbl := sampleTable()
	tbl.Subtitle = "January"
	require.NoError(t, WriteXLSX(&buf, tbl))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Sample"}, f.GetSheetList())
	title, err := f.GetCellValue("Sample", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Sample", title)
	sub, _ := f.GetCellValue("Sample", "A2")
	assert.Equal(t, "January", sub)
	header, _ := f.GetCellValue("Sample", "B4")
	assert.Equal(t, "Amount", header)
	name, _ := f.GetCellValue("Sample", "A5")
	assert.Equal(t, "fuel, diesel", name)

	raw, err := f.GetCellValue("Sample", "B5", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	v, err := strconv.ParseFloat(raw, 64)
	require.NoError(t, err)
	assert.InDelta(t, 1234.5, v, 0.001)

	total, _ := f.GetCellValue("Sample", "A7")
	assert.Equal(t, "Total", total)
}

func TestWriteXLSX_RTL(t *testing.T) {
	var buf bytes.Buffer
	tbl := sampleTable()
	tbl.Lang = locale.Arabic
	tbl.Title = "ميزان المراجعة"
	require.NoError(t, WriteXLSX(&buf, tbl))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	opts, err := f.GetSheetView("ميزان المراجعة", 0)
	require.NoError(t, err)
	require.NotNil(t, opts.RightToLeft)
	assert.True(t, *opts.RightToLeft)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Ledger 1-1 Cash", sheetName("Ledger: 1-1 Cash"))
	assert.Equal(t, "General Ledger 1 Assets", sheetName("General Ledger: 1 Assets"))
	assert.Equal(t, "Stock (2025) Q1", sheetName("Stock [2025] / Q1"))
	assert.Equal(t, "Ledger 5-2-2 Fuel and lubricant", sheetName("Ledger: 5-2-2 Fuel and lubricants"))
	assert.Equal(t, "Report", sheetName("  "))
	assert.Len(t, []rune(sheetName("A very long report title that does not fit")), 31)
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, sampleTable(), "Fleet Co", date(2025, 1, 31)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	assert.Error(t, WritePDF(&buf, Table{Title: "empty"}, "Fleet Co", date(2025, 1, 31)))
}

func TestWritePDF_WideTable(t *testing.T) {
	chart, lines := sample()
	tb := reports.BuildTrialBalance(chart, lines, ledger.Period{}, reports.TrialBalanceOptions{})
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, TrialBalanceTable(tb, en), "Fleet Co", date(2025, 1, 31)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestTrialBalanceTable(t *testing.T) {
	chart, lines := sample()
	tb := reports.BuildTrialBalance(chart, lines, ledger.Period{From: date(2025, 1, 5), To: date(2025, 1, 31)}, reports.TrialBalanceOptions{})

	tbl := TrialBalanceTable(tb, en)
	assert.Equal(t, "Trial Balance", tbl.Title)
	assert.Equal(t, "2025-01-05 – 2025-01-31", tbl.Subtitle)
	require.Len(t, tbl.Columns, 8)
	assert.Equal(t, []string{"1", "Assets", "1000.00", "0.00", "1234.50", "0.00", "2234.50", "0.00"}, tbl.Rows[0])
	assert.Equal(t, "  Cash", tbl.Rows[1][1])
	assert.Equal(t, "Total", tbl.Totals[1])

	arTbl := TrialBalanceTable(tb, ar)
	assert.Equal(t, "ميزان المراجعة", arTbl.Title)
	assert.Equal(t, "الأصول", arTbl.Rows[0][1])
	assert.True(t, arTbl.RTL())
}

func TestStatementTables(t *testing.T) {
	chart, lines := sample()

	bs := BalanceSheetTable(reports.BuildBalanceSheet(chart, lines, date(2025, 1, 31), 0), en)
	assert.Equal(t, "Balance Sheet", bs.Title)
	assert.Equal(t, []string{"", "Liabilities and equity", "2234.50"}, bs.Totals)
	assert.Contains(t, bs.Rows, []string{"", "Current period earnings", "1234.50"})

	is := IncomeStatementTable(reports.BuildIncomeStatement(chart, lines, ledger.Period{}, 0), en)
	assert.Equal(t, []string{"", "Net income", "1234.50"}, is.Totals)

	st, err := ledger.AccountLedger(chart, lines, "1", ledger.Period{From: date(2025, 1, 5)})
	require.NoError(t, err)
	lt := LedgerTable(st, en)
	assert.Equal(t, "General Ledger: 1 Assets", lt.Title)
	require.Len(t, lt.Rows, 2)
	assert.Equal(t, "1000.00", lt.Rows[0][6])
	assert.Equal(t, []string{"2025-01-09", "JE-2025-01-002", "1-1", "freight", "1234.50", "0.00", "2234.50"}, lt.Rows[1])
}

func TestOperationalTables(t *testing.T) {
	d := model.Driver{Base: model.Base{ID: "d1"}, Name: "Salem", CommissionRate: dec("0.1")}
	st := fleet.BuildCommissionStatement(d, []model.Load{{
		Base: model.Base{ID: "l1"}, Number: "LD-1", Date: date(2025, 1, 3), DriverID: "d1",
		Origin: "Jeddah", Destination: "Riyadh", Freight: dec("1000"), Status: model.LoadDelivered,
	}}, ledger.Period{})
	ct := CommissionTable(st, en)
	assert.Equal(t, []string{"2025-01-03", "LD-1", "Jeddah → Riyadh", "No", "1000.00", "100.00"}, ct.Rows[0])
	assert.Equal(t, "Outstanding 100.00", ct.Totals[2])

	pt := PayrollTable(model.PayrollRun{
		Month:          "2025-01",
		Payslips:       []model.Payslip{{EmployeeName: "Ahmed", Basic: dec("5000"), Gross: dec("5500"), Net: dec("5000"), SocialInsurance: dec("500")}},
		TotalGross:     dec("5500"),
		TotalDeduction: dec("500"),
		TotalNet:       dec("5000"),
	}, en)
	assert.Equal(t, "Payroll 2025-01", pt.Title)
	assert.Equal(t, "500.00", pt.Rows[0][5])

	levels := inventory.StockLevels([]model.SparePart{{Base: model.Base{ID: "p1"}, Code: "FLT", Name: "Filter", ReorderLevel: dec("5")}},
		[]model.StockMovement{{PartID: "p1", Quantity: dec("2"), UnitCost: dec("10"), Kind: model.MovementReceipt}})
	stk := StockTable(levels, en)
	assert.Equal(t, []string{"FLT", "Filter", "!", "2.00", "10.00", "20.00"}, stk.Rows[0])
	assert.Equal(t, "20.00", stk.Totals[5])
}
