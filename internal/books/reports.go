package books

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fleetbooks/fleetbooks/internal/export"
	"github.com/fleetbooks/fleetbooks/internal/fleet"
	"github.com/fleetbooks/fleetbooks/internal/inventory"
	"github.com/fleetbooks/fleetbooks/internal/journal"
	"github.com/fleetbooks/fleetbooks/internal/ledger"
	"github.com/fleetbooks/fleetbooks/internal/locale"
	"github.com/fleetbooks/fleetbooks/internal/model"
	"github.com/fleetbooks/fleetbooks/internal/reports"
	"github.com/fleetbooks/fleetbooks/internal/store"
)

// ErrUnknownReport is returned for a report kind that does not exist.
var ErrUnknownReport = errors.New("unknown report")

// Report kinds.
const (
	KindTrialBalance    = "trial-balance"
	KindBalanceSheet    = "balance-sheet"
	KindIncomeStatement = "income-statement"
	KindLedger          = "ledger"
	KindCommissions     = "commissions"
	KindPayroll         = "payroll"
	KindStock           = "stock"
)

// Kinds lists every report kind.
var Kinds = []string{KindTrialBalance, KindBalanceSheet, KindIncomeStatement, KindLedger, KindCommissions, KindPayroll, KindStock}

// Params select what a report covers. Which fields matter depends on the
// kind: AsOf for the balance sheet, Code for the ledger, DriverID for
// commissions and Month for payroll.
type Params struct {
	From     time.Time
	To       time.Time
	AsOf     time.Time
	Depth    int
	HideZero bool
	Code     string
	DriverID string
	Month    string
}

// Period returns the From/To range.
func (p Params) Period() ledger.Period { return ledger.Period{From: p.From, To: p.To} }

// Report is a computed report together with its printable layout.
type Report struct {
	Value any
	Table export.Table
}

// BuildReport computes the report of the given kind from the store.
func BuildReport(ctx context.Context, tables *store.Tables, kind string, p Params, s locale.Settings) (Report, error) {
	switch kind {
	case KindTrialBalance:
		l, err := LoadLedger(ctx, tables, journal.Filter{To: p.To})
		if err != nil {
			return Report{}, err
		}
		tb := reports.BuildTrialBalance(l.Chart, l.Lines, p.Period(), reports.TrialBalanceOptions{Depth: p.Depth, HideZero: p.HideZero})
		return Report{Value: tb, Table: export.TrialBalanceTable(tb, s)}, nil

	case KindBalanceSheet:
		l, err := LoadLedger(ctx, tables, journal.Filter{To: p.AsOf})
		if err != nil {
			return Report{}, err
		}
		bs := reports.BuildBalanceSheet(l.Chart, l.Lines, p.AsOf, p.Depth)
		return Report{Value: bs, Table: export.BalanceSheetTable(bs, s)}, nil

	case KindIncomeStatement:
		l, err := LoadLedger(ctx, tables, journal.Filter{From: p.From, To: p.To})
		if err != nil {
			return Report{}, err
		}
		is := reports.BuildIncomeStatement(l.Chart, l.Lines, p.Period(), p.Depth)
		return Report{Value: is, Table: export.IncomeStatementTable(is, s)}, nil

	case KindLedger:
		if p.Code == "" {
			return Report{}, fmt.Errorf("ledger: account code is required")
		}
		l, err := LoadLedger(ctx, tables, journal.Filter{To: p.To, AccountCode: p.Code})
		if err != nil {
			return Report{}, err
		}
		st, err := ledger.AccountLedger(l.Chart, l.Lines, p.Code, p.Period())
		if err != nil {
			return Report{}, err
		}
		return Report{Value: st, Table: export.LedgerTable(st, s)}, nil

	case KindCommissions:
		st, err := CommissionStatement(ctx, tables, p.DriverID, p.Period())
		if err != nil {
			return Report{}, err
		}
		return Report{Value: st, Table: export.CommissionTable(st, s)}, nil

	case KindPayroll:
		run, err := PayrollRun(ctx, tables, p.Month)
		if err != nil {
			return Report{}, err
		}
		return Report{Value: run, Table: export.PayrollTable(*run, s)}, nil

	case KindStock:
		st, err := LoadStock(ctx, tables)
		if err != nil {
			return Report{}, err
		}
		levels := inventory.StockLevels(st.Parts, st.Movements)
		return Report{Value: levels, Table: export.StockTable(levels, s)}, nil
	}
	return Report{}, fmt.Errorf("%w: %q", ErrUnknownReport, kind)
}

// CommissionStatement builds a driver's statement for period.
func CommissionStatement(ctx context.Context, tables *store.Tables, driverID string, period ledger.Period) (fleet.CommissionStatement, error) {
	driver, err := tables.Drivers.Get(ctx, driverID)
	if err != nil {
		return fleet.CommissionStatement{}, err
	}
	loads, err := tables.Loads.List(ctx, store.Query{Where: map[string]any{"driver_id": driverID}})
	if err != nil {
		return fleet.CommissionStatement{}, err
	}
	return fleet.BuildCommissionStatement(*driver, loads, period), nil
}

// PayrollRun returns the stored run of a "YYYY-MM" month.
func PayrollRun(ctx context.Context, tables *store.Tables, month string) (*model.PayrollRun, error) {
	runs, err := tables.PayrollRuns.List(ctx, store.Query{Where: map[string]any{"month": month}, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("payroll %s: %w", month, store.ErrNotFound)
	}
	run := &runs[0]
	sort.SliceStable(run.Payslips, func(i, j int) bool { return run.Payslips[i].EmployeeName < run.Payslips[j].EmployeeName })
	return run, nil
}
