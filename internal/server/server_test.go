package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fleetbooks/fleetbooks/internal/accounts"
	"github.com/fleetbooks/fleetbooks/internal/config"
	"github.com/fleetbooks/fleetbooks/internal/fleet"
	"github.com/fleetbooks/fleetbooks/internal/inventory"
	"github.com/fleetbooks/fleetbooks/internal/ledger"
	"github.com/fleetbooks/fleetbooks/internal/locale"
	"github.com/fleetbooks/fleetbooks/internal/model"
	"github.com/fleetbooks/fleetbooks/internal/reports"
	"github.com/fleetbooks/fleetbooks/internal/store"
	"github.com/fleetbooks/fleetbooks/internal/store/storetest"
)

type testServer struct {
	t      *testing.T
	srv    *Server
	tables *store.Tables
	logs   *observer.ObservedLogs
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	tables := storetest.Open(t)
	require.NoError(t, tables.ReplaceAccounts(context.Background(), accounts.DefaultChart()))

	cfg := config.Default("Test Freight")
	cfg.Business.Language = locale.English

	core, logs := observer.New(zap.DebugLevel)
	return &testServer{t: t, srv: New(tables, cfg, zap.New(core), nil), tables: tables, logs: logs}
}

func (ts *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(ts.t, err)
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)
	return rec
}

// ok performs a request, requires the status and decodes the JSON body.
func ok[T any](ts *testServer, status int, method, path string, body any) T {
	ts.t.Helper()
	rec := ts.do(method, path, body)
	require.Equal(ts.t, status, rec.Code, "%s %s: %s", method, path, rec.Body.String())
	var v T
	if status != http.StatusNoContent {
		require.NoError(ts.t, json.Unmarshal(rec.Body.Bytes(), &v))
	}
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fleetbooks_http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/healthz"`)

	assert.NotZero(t, ts.logs.FilterMessage("request").Len())
}

func TestCRUD(t *testing.T) {
	ts := newTestServer(t)

	created := ok[model.Company](ts, http.StatusCreated, http.MethodPost, "/api/companies", map[string]any{
		"name": "Acme Cement", "phone": "0500000000",
	})
	require.NotEmpty(t, created.ID)

	list := ok[[]model.Company](ts, http.StatusOK, http.MethodGet, "/api/companies", nil)
	require.Len(t, list, 1)
	assert.Equal(t, "Acme Cement", list[0].Name)

	updated := ok[model.Company](ts, http.StatusOK, http.MethodPut, "/api/companies/"+created.ID, map[string]any{
		"name": "Acme Cement Co", "tax_number": "300000000000003",
	})
	assert.Equal(t, "Acme Cement Co", updated.Name)
	assert.Equal(t, "300000000000003", updated.TaxNumber)

	filtered := ok[[]model.Company](ts, http.StatusOK, http.MethodGet, "/api/companies?name=Nobody", nil)
	assert.Empty(t, filtered)

	ok[any](ts, http.StatusNoContent, http.MethodDelete, "/api/companies/"+created.ID, nil)
	rec := ts.do(http.MethodGet, "/api/companies/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, errorOf(t, rec), "not found")

	activity := ok[[]model.Activity](ts, http.StatusOK, http.MethodGet, "/api/activity_log?target=companies&order=at", nil)
	require.Len(t, activity, 3)
	assert.Equal(t, []string{"insert", "update", "delete"}, []string{activity[0].Action, activity[1].Action, activity[2].Action})
	assert.Equal(t, created.ID, activity[0].RowID)
}

func TestCRUD_Errors(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/companies", map[string]any{"phone": "1"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, errorOf(t, rec), "Name")

	rec = ts.do(http.MethodPost, "/api/companies", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPost, "/api/companies", map[string]any{"name": "x", "colour": "red"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, "/api/companies?colour=red", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, "/api/companies?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPut, "/api/companies/missing", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodPost, "/api/activity_log", map[string]any{})
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAccounts(t *testing.T) {
	ts := newTestServer(t)

	ok[model.Account](ts, http.StatusCreated, http.MethodPost, "/api/chart_of_accounts", map[string]any{
		"code": "1-1-9", "name": "Petty cash", "type": "asset",
	})

	rec := ts.do(http.MethodPost, "/api/chart_of_accounts", map[string]any{
		"code": "1-9", "name": "Wrong type", "type": "expense",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, errorOf(t, rec), "differs from parent")

	rec = ts.do(http.MethodPost, "/api/chart_of_accounts", map[string]any{
		"code": "7-1", "name": "Orphan", "type": "asset",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	roots := ok[[]model.Account](ts, http.StatusOK, http.MethodGet, "/api/chart_of_accounts?code=1", nil)
	require.Len(t, roots, 1)
	rec = ts.do(http.MethodDelete, "/api/chart_of_accounts/"+roots[0].ID, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, errorOf(t, rec), "sub-accounts")
}

func TestAccounts_KeepsPostedLinesReachable(t *testing.T) {
	ts := newTestServer(t)
	postedEntry(ts)

	cashAndBanks := ok[[]model.Account](ts, http.StatusOK, http.MethodGet, "/api/chart_of_accounts?code=1-1", nil)
	require.Len(t, cashAndBanks, 1)
	rec := ts.do(http.MethodPut, "/api/chart_of_accounts/"+cashAndBanks[0].ID, map[string]any{
		"code": "1-7", "name": "Cash and Banks", "type": "asset", "active": true,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, errorOf(t, rec), "sub-accounts")

	rec = ts.do(http.MethodPost, "/api/chart_of_accounts", map[string]any{
		"code": accounts.CodeBank + "-1", "name": "Current account", "type": "asset",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, errorOf(t, rec), "no longer a leaf")

	bank := ok[[]model.Account](ts, http.StatusOK, http.MethodGet, "/api/chart_of_accounts?code="+accounts.CodeBank, nil)
	require.Len(t, bank, 1)
	rec = ts.do(http.MethodPut, "/api/chart_of_accounts/"+bank[0].ID, map[string]any{
		"code": "1-1-8", "name": "Bank", "type": "asset", "active": true,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	ok[model.Account](ts, http.StatusCreated, http.MethodPost, "/api/chart_of_accounts", map[string]any{
		"code": accounts.CodeCash + "-1", "name": "Till", "type": "asset",
	})

	tb := ok[reports.TrialBalance](ts, http.StatusOK, http.MethodGet, "/api/reports/trial-balance?from=2025-01-01&to=2025-01-31", nil)
	assert.True(t, tb.Balanced())
	assert.True(t, tb.Totals.Movement.Debit.Equal(decimal.NewFromInt(1000)))
}

func postedEntry(ts *testServer) model.JournalEntry {
	ts.t.Helper()
	e := ok[model.JournalEntry](ts, http.StatusCreated, http.MethodPost, "/api/journal_entries", map[string]any{
		"date":        "2025-01-15T00:00:00Z",
		"description": "Owner capital",
		"lines": []map[string]any{
			{"account_code": accounts.CodeBank, "debit": "1000"},
			{"account_code": accounts.CodeCapital, "credit": "1000"},
		},
	})
	return ok[model.JournalEntry](ts, http.StatusOK, http.MethodPost, "/api/journal_entries/"+e.ID+"/post", nil)
}

func TestJournalEntries(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/journal_entries", map[string]any{
		"date": "2025-01-15T00:00:00Z",
		"lines": []map[string]any{
			{"account_code": accounts.CodeBank, "debit": "1000"},
			{"account_code": accounts.CodeCapital, "credit": "900"},
		},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, errorOf(t, rec), "invariant 1")

	posted := postedEntry(ts)
	assert.Equal(t, "JE-2025-01-001", posted.Number)
	assert.Equal(t, model.StatusPosted, posted.Status)

	rec = ts.do(http.MethodPost, "/api/journal_entries/"+posted.ID+"/post", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ts.do(http.MethodDelete, "/api/journal_entries/"+posted.ID, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	list := ok[[]model.JournalEntry](ts, http.StatusOK, http.MethodGet, "/api/journal_entries?status=posted&account=1", nil)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Lines, 2)

	rec = ts.do(http.MethodGet, "/api/journal_entries?from=15-01-2025", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	voided := ok[model.JournalEntry](ts, http.StatusOK, http.MethodPost, "/api/journal_entries/"+posted.ID+"/void", nil)
	assert.Equal(t, model.StatusVoided, voided.Status)

	draft := ok[model.JournalEntry](ts, http.StatusCreated, http.MethodPost, "/api/journal_entries", map[string]any{
		"date": "2025-01-20T00:00:00Z",
		"lines": []map[string]any{
			{"account_code": accounts.CodeAdminExpense, "debit": "50"},
			{"account_code": accounts.CodeCash, "credit": "50"},
		},
	})
	assert.Equal(t, "JE-2025-01-002", draft.Number)
	ok[any](ts, http.StatusNoContent, http.MethodDelete, "/api/journal_entries/"+draft.ID, nil)
	rec = ts.do(http.MethodGet, "/api/journal_entries/"+draft.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReports(t *testing.T) {
	ts := newTestServer(t)
	postedEntry(ts)

	tb := ok[reports.TrialBalance](ts, http.StatusOK, http.MethodGet, "/api/reports/trial-balance?from=2025-01-01&to=2025-01-31", nil)
	assert.True(t, tb.Balanced())
	assert.True(t, tb.Totals.Movement.Debit.Equal(decimal.NewFromInt(1000)))

	bs := ok[reports.BalanceSheet](ts, http.StatusOK, http.MethodGet, "/api/reports/balance-sheet?as_of=2025-12-31", nil)
	assert.True(t, bs.Balanced())
	assert.True(t, bs.TotalAssets.Equal(decimal.NewFromInt(1000)))

	st := ok[ledger.Statement](ts, http.StatusOK, http.MethodGet, "/api/reports/ledger/1-1", nil)
	require.Len(t, st.Rows, 1)
	assert.True(t, st.Closing.Equal(decimal.NewFromInt(1000)))

	rec := ts.do(http.MethodGet, "/api/reports/ledger/9-9", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodGet, "/api/reports/trial-balance?format=csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "trial-balance.csv")
	assert.Contains(t, rec.Body.String(), "Code")

	rec = ts.do(http.MethodGet, "/api/reports/income-statement?format=xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PK", rec.Body.String()[:2])

	rec = ts.do(http.MethodGet, "/api/reports/balance-sheet?format=pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF", rec.Body.String()[:4])

	rec = ts.do(http.MethodGet, "/api/reports/stock?format=docx", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, "/api/reports/stock?lang=fr", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoadsAndCommissions(t *testing.T) {
	ts := newTestServer(t)

	company := ok[model.Company](ts, http.StatusCreated, http.MethodPost, "/api/companies", map[string]any{"name": "Acme"})
	driver := ok[model.Driver](ts, http.StatusCreated, http.MethodPost, "/api/drivers", map[string]any{"name": "Saeed"})
	assert.True(t, driver.CommissionRate.Equal(decimal.RequireFromString("0.10")), "default rate applied")

	load := ok[model.Load](ts, http.StatusCreated, http.MethodPost, "/api/loads", map[string]any{
		"number": "LD-2025-01-001", "date": "2025-01-10T00:00:00Z",
		"company_id": company.ID, "driver_id": driver.ID,
		"origin": "Riyadh", "destination": "Dammam", "freight": "2000",
	})

	delivered := ok[deliverResponse](ts, http.StatusOK, http.MethodPost, "/api/loads/"+load.ID+"/deliver", nil)
	assert.Equal(t, model.LoadDelivered, delivered.Load.Status)
	require.NotNil(t, delivered.Entry)
	assert.Len(t, delivered.Entry.Lines, 4)

	rec := ts.do(http.MethodPost, "/api/loads/"+load.ID+"/deliver", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	st := ok[fleet.CommissionStatement](ts, http.StatusOK, http.MethodGet, "/api/reports/commissions/"+driver.ID+"?from=2025-01-01&to=2025-01-31", nil)
	assert.True(t, st.TotalCommission.Equal(decimal.NewFromInt(200)))
	assert.True(t, st.Outstanding.Equal(decimal.NewFromInt(200)))

	paid := ok[payCommissionResponse](ts, http.StatusOK, http.MethodPost, "/api/drivers/"+driver.ID+"/pay-commission?from=2025-01-01&to=2025-01-31",
		map[string]any{"pay_from": accounts.CodeCash, "date": "2025-02-01T00:00:00Z"})
	require.NotNil(t, paid.Entry)
	assert.Equal(t, model.StatusPosted, paid.Entry.Status)

	st = ok[fleet.CommissionStatement](ts, http.StatusOK, http.MethodGet, "/api/reports/commissions/"+driver.ID, nil)
	assert.True(t, st.Outstanding.IsZero())

	rec = ts.do(http.MethodPost, "/api/drivers/"+driver.ID+"/pay-commission", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	sums := ok[[]fleet.Summary](ts, http.StatusOK, http.MethodGet, "/api/reports/loads?by=company", nil)
	require.Len(t, sums, 1)
	assert.Equal(t, 1, sums[0].Loads)

	cs := ok[fleet.CompanyStatement](ts, http.StatusOK, http.MethodGet, "/api/reports/companies/"+company.ID, nil)
	assert.True(t, cs.TotalFreight.Equal(decimal.NewFromInt(2000)))

	rec = ts.do(http.MethodGet, "/api/reports/loads?by=colour", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoads_StatusOnlyThroughOperations(t *testing.T) {
	ts := newTestServer(t)

	company := ok[model.Company](ts, http.StatusCreated, http.MethodPost, "/api/companies", map[string]any{"name": "Acme"})
	driver := ok[model.Driver](ts, http.StatusCreated, http.MethodPost, "/api/drivers", map[string]any{"name": "Saeed"})
	body := func(number string, extra map[string]any) map[string]any {
		b := map[string]any{
			"number": number, "date": "2025-01-10T00:00:00Z",
			"company_id": company.ID, "driver_id": driver.ID, "freight": "2000",
		}
		for k, v := range extra {
			b[k] = v
		}
		return b
	}

	rec := ts.do(http.MethodPost, "/api/loads", body("LD-1", map[string]any{"status": "delivered"}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	rec = ts.do(http.MethodPost, "/api/loads", body("LD-1", map[string]any{"commission_paid": true}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	load := ok[model.Load](ts, http.StatusCreated, http.MethodPost, "/api/loads", body("LD-1", nil))
	assert.Equal(t, model.LoadPending, load.Status)

	rec = ts.do(http.MethodPost, "/api/loads", body("LD-1", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, errorOf(t, rec), "conflict")

	rec = ts.do(http.MethodPut, "/api/loads/"+load.ID, body("LD-1", map[string]any{"status": "delivered"}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	moving := ok[model.Load](ts, http.StatusOK, http.MethodPut, "/api/loads/"+load.ID, body("LD-1", map[string]any{"status": "in_transit"}))
	assert.Equal(t, model.LoadInTransit, moving.Status)

	ok[deliverResponse](ts, http.StatusOK, http.MethodPost, "/api/loads/"+load.ID+"/deliver", nil)

	rec = ts.do(http.MethodPut, "/api/loads/"+load.ID, body("LD-1", map[string]any{"status": "delivered", "freight": "5000"}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, errorOf(t, rec), "delivered")
	rec = ts.do(http.MethodPut, "/api/loads/"+load.ID, body("LD-1", map[string]any{"status": "pending"}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	rec = ts.do(http.MethodDelete, "/api/loads/"+load.ID, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	stored := ok[model.Load](ts, http.StatusOK, http.MethodGet, "/api/loads/"+load.ID, nil)
	assert.Equal(t, model.LoadDelivered, stored.Status)
	assert.True(t, stored.Freight.Equal(decimal.NewFromInt(2000)))
	assert.False(t, stored.CommissionPaid)

	st := ok[fleet.CommissionStatement](ts, http.StatusOK, http.MethodGet, "/api/reports/commissions/"+driver.ID, nil)
	assert.True(t, st.Outstanding.Equal(decimal.NewFromInt(200)))
}

func TestPayroll(t *testing.T) {
	ts := newTestServer(t)

	emp := ok[model.Employee](ts, http.StatusCreated, http.MethodPost, "/api/employees", map[string]any{
		"name": "Omar", "basic_salary": "5000", "housing_allowance": "1000", "active": true,
	})

	run := ok[model.PayrollRun](ts, http.StatusCreated, http.MethodPost, "/api/payroll/2025-01", map[string]any{
		"inputs": map[string]any{emp.ID: map[string]any{"bonus": "0"}},
	})
	assert.True(t, run.TotalGross.Equal(decimal.NewFromInt(6000)))
	assert.True(t, run.TotalNet.Equal(decimal.NewFromInt(5400)))
	assert.NotEmpty(t, run.JournalEntryID)

	rec := ts.do(http.MethodPost, "/api/payroll/2025-01", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, errorOf(t, rec), "already been run")

	rec = ts.do(http.MethodPost, "/api/payroll/2025-13", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPost, "/api/payroll/2025-02", map[string]any{
		"inputs": map[string]any{"ghost": map[string]any{}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	report := ok[model.PayrollRun](ts, http.StatusOK, http.MethodGet, "/api/reports/payroll/2025-01", nil)
	require.Len(t, report.Payslips, 1)
	assert.Equal(t, "Omar", report.Payslips[0].EmployeeName)

	rec = ts.do(http.MethodGet, "/api/reports/payroll/2024-01", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	is := ok[reports.IncomeStatement](ts, http.StatusOK, http.MethodGet, "/api/reports/income-statement?from=2025-01-01&to=2025-01-31", nil)
	assert.True(t, is.NetIncome.Equal(decimal.NewFromInt(-6720)))
}

func TestPurchasingAndStock(t *testing.T) {
	ts := newTestServer(t)

	supplier := ok[model.Supplier](ts, http.StatusCreated, http.MethodPost, "/api/suppliers", map[string]any{"name": "Parts Co"})
	part := ok[model.SparePart](ts, http.StatusCreated, http.MethodPost, "/api/spare_parts", map[string]any{
		"code": "P-1", "name": "Oil filter", "unit": "pc", "unit_cost": "50",
	})
	assert.True(t, part.ReorderLevel.Equal(decimal.NewFromInt(2)), "default reorder level applied")
	vehicle := ok[model.Vehicle](ts, http.StatusCreated, http.MethodPost, "/api/vehicles", map[string]any{"plate_no": "ABC-123"})

	po := ok[model.PurchaseOrder](ts, http.StatusCreated, http.MethodPost, "/api/purchase_orders", map[string]any{
		"number": "PO-2025-01-001", "supplier_id": supplier.ID, "date": "2025-01-05T00:00:00Z", "status": "ordered",
		"lines": []map[string]any{{"part_id": part.ID, "quantity": "10", "unit_cost": "50"}},
	})

	received := ok[receiveResponse](ts, http.StatusOK, http.MethodPost, "/api/purchase_orders/"+po.ID+"/receive",
		map[string]any{"date": "2025-01-06T00:00:00Z"})
	assert.Equal(t, model.OrderReceived, received.Order.Status)
	require.Len(t, received.Movements, 1)
	require.NotNil(t, received.Entry)

	rec := ts.do(http.MethodPost, "/api/purchase_orders/"+po.ID+"/receive", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	issued := ok[issueResponse](ts, http.StatusCreated, http.MethodPost, "/api/stock/issue", map[string]any{
		"part_id": part.ID, "vehicle_id": vehicle.ID, "quantity": "4", "date": "2025-01-07T00:00:00Z",
	})
	assert.True(t, issued.Movement.Quantity.Equal(decimal.NewFromInt(-4)))
	require.NotNil(t, issued.Entry)

	rec = ts.do(http.MethodPost, "/api/stock/issue", map[string]any{
		"part_id": part.ID, "vehicle_id": vehicle.ID, "quantity": "10",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	levels := ok[[]inventory.StockLevel](ts, http.StatusOK, http.MethodGet, "/api/reports/stock", nil)
	require.Len(t, levels, 1)
	assert.True(t, levels[0].OnHand.Equal(decimal.NewFromInt(6)))
	assert.True(t, levels[0].Value.Equal(decimal.NewFromInt(300)))

	costs := ok[[]inventory.VehicleCost](ts, http.StatusOK, http.MethodGet, "/api/reports/vehicle-costs", nil)
	require.Len(t, costs, 1)
	assert.True(t, costs[0].Cost.Equal(decimal.NewFromInt(200)))
}

func TestPurchaseOrders_ReceivedOnlyThroughOperation(t *testing.T) {
	ts := newTestServer(t)

	supplier := ok[model.Supplier](ts, http.StatusCreated, http.MethodPost, "/api/suppliers", map[string]any{"name": "Parts Co"})
	part := ok[model.SparePart](ts, http.StatusCreated, http.MethodPost, "/api/spare_parts", map[string]any{
		"code": "P-1", "name": "Oil filter", "unit": "pc", "unit_cost": "50",
	})
	body := func(status string) map[string]any {
		return map[string]any{
			"number": "PO-1", "supplier_id": supplier.ID, "date": "2025-01-05T00:00:00Z", "status": status,
			"lines": []map[string]any{{"part_id": part.ID, "quantity": "10", "unit_cost": "50"}},
		}
	}

	rec := ts.do(http.MethodPost, "/api/purchase_orders", body("received"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	po := ok[model.PurchaseOrder](ts, http.StatusCreated, http.MethodPost, "/api/purchase_orders", body(""))
	assert.Equal(t, model.OrderDraft, po.Status)

	rec = ts.do(http.MethodPut, "/api/purchase_orders/"+po.ID, body("received"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	levels := ok[[]inventory.StockLevel](ts, http.StatusOK, http.MethodGet, "/api/reports/stock", nil)
	require.Len(t, levels, 1)
	assert.True(t, levels[0].OnHand.IsZero())

	ok[model.PurchaseOrder](ts, http.StatusOK, http.MethodPut, "/api/purchase_orders/"+po.ID, body("ordered"))
	received := ok[receiveResponse](ts, http.StatusOK, http.MethodPost, "/api/purchase_orders/"+po.ID+"/receive", nil)
	assert.Equal(t, model.OrderReceived, received.Order.Status)

	rec = ts.do(http.MethodPut, "/api/purchase_orders/"+po.ID, body("ordered"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, errorOf(t, rec), "received")
	rec = ts.do(http.MethodDelete, "/api/purchase_orders/"+po.ID, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ts.do(http.MethodPost, "/api/purchase_orders/"+po.ID+"/receive", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
