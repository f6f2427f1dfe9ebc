package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fleetbooks/fleetbooks/internal/accounts"
	"github.com/fleetbooks/fleetbooks/internal/books"
	"github.com/fleetbooks/fleetbooks/internal/fleet"
	"github.com/fleetbooks/fleetbooks/internal/hr"
	"github.com/fleetbooks/fleetbooks/internal/inventory"
	"github.com/fleetbooks/fleetbooks/internal/model"
	"github.com/fleetbooks/fleetbooks/internal/store"
)

// today is the current date at midnight UTC.
func (s *Server) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type payrollRequest struct {
	// Inputs are keyed by employee id.
	Inputs map[string]hr.PayInput `json:"inputs"`
}

// handleRunPayroll computes a month's payroll, stores it and posts its
// journal entry.
func (s *Server) handleRunPayroll(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")
	if _, err := hr.ParseMonth(month); err != nil {
		s.fail(w, r, badRequest("%v", err))
		return
	}
	var req payrollRequest
	if err := decodeOptional(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	var run model.PayrollRun
	err := s.mutate(r, "payroll_runs", "insert", func(ctx context.Context, tx *store.Tables) (string, error) {
		n, err := tx.PayrollRuns.Count(ctx, map[string]any{"month": month})
		if err != nil {
			return "", err
		}
		if n > 0 {
			return "", rejected("payroll %s has already been run", month)
		}

		employees, err := tx.Employees.List(ctx, store.Query{})
		if err != nil {
			return "", err
		}
		known := make(map[string]bool, len(employees))
		for _, e := range employees {
			known[e.ID] = true
		}
		for empID := range req.Inputs {
			if !known[empID] {
				return "", rejected("pay input for unknown employee %s", empID)
			}
		}

		run, err = hr.RunPayroll(month, employees, req.Inputs, s.cfg.Payroll)
		if err != nil {
			return "", err
		}
		if len(run.Payslips) == 0 {
			return "", rejected("no active employees for %s", month)
		}

		entry, err := hr.PayrollJournal(run)
		if err != nil {
			return "", err
		}
		posted, err := s.book(ctx, tx, entry)
		if err != nil {
			return "", err
		}
		run.JournalEntryID = posted.ID
		if err := tx.PayrollRuns.Insert(ctx, &run); err != nil {
			return "", err
		}
		return run.ID, nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, run)
}

type receiveRequest struct {
	Date time.Time `json:"date"`
}

type receiveResponse struct {
	Order     *model.PurchaseOrder  `json:"order"`
	Movements []model.StockMovement `json:"movements"`
	Entry     *model.JournalEntry   `json:"entry"`
}

// handleReceive takes an ordered purchase order into stock and books the
// supplier's invoice.
func (s *Server) handleReceive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req receiveRequest
	if err := decodeOptional(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	on := req.Date
	if on.IsZero() {
		on = s.today()
	}

	var resp receiveResponse
	err := s.mutate(r, "purchase_orders", "receive", func(ctx context.Context, tx *store.Tables) (string, error) {
		po, err := tx.PurchaseOrders.Get(ctx, id)
		if err != nil {
			return "", err
		}
		moves, err := inventory.Receive(*po, on)
		if err != nil {
			return "", err
		}
		for i := range moves {
			if err := tx.StockMovements.Insert(ctx, &moves[i]); err != nil {
				return "", err
			}
		}
		po.Status = model.OrderReceived
		if err := tx.PurchaseOrders.Update(ctx, po.ID, po); err != nil {
			return "", err
		}
		entry, err := s.book(ctx, tx, inventory.ReceiptEntry(*po, on))
		if err != nil {
			return "", err
		}
		resp = receiveResponse{Order: po, Movements: moves, Entry: entry}
		return po.ID, nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type issueRequest struct {
	PartID    string          `json:"part_id" validate:"required"`
	VehicleID string          `json:"vehicle_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	Date      time.Time       `json:"date"`
	Reference string          `json:"reference" validate:"max=64"`
}

type issueResponse struct {
	Movement model.StockMovement `json:"movement"`
	Entry    *model.JournalEntry `json:"entry,omitempty"`
}

// handleIssue takes parts out of stock for a vehicle and books their cost
// as maintenance.
func (s *Server) handleIssue(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if err := s.decodeValid(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	on := req.Date
	if on.IsZero() {
		on = s.today()
	}

	var resp issueResponse
	err := s.mutate(r, "stock_movements", "issue", func(ctx context.Context, tx *store.Tables) (string, error) {
		part, err := tx.SpareParts.Get(ctx, req.PartID)
		if err != nil {
			return "", err
		}
		if _, err := tx.Vehicles.Get(ctx, req.VehicleID); err != nil {
			return "", err
		}
		history, err := tx.StockMovements.List(ctx, store.Query{Where: map[string]any{"part_id": part.ID}})
		if err != nil {
			return "", err
		}
		m, err := inventory.Issue(*part, history, req.Quantity, req.VehicleID, on, req.Reference)
		if err != nil {
			return "", err
		}
		if err := tx.StockMovements.Insert(ctx, &m); err != nil {
			return "", err
		}
		resp.Movement = m

		entry := inventory.IssueEntry(m, *part)
		if debit, _ := entry.Totals(); debit.IsPositive() {
			if resp.Entry, err = s.book(ctx, tx, entry); err != nil {
				return "", err
			}
		}
		return m.ID, nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

type deliverResponse struct {
	Load  *model.Load         `json:"load"`
	Entry *model.JournalEntry `json:"entry,omitempty"`
}

// handleDeliver marks a load delivered, fixes its commission and books
// the freight.
func (s *Server) handleDeliver(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var resp deliverResponse
	err := s.mutate(r, "loads", "deliver", func(ctx context.Context, tx *store.Tables) (string, error) {
		load, err := tx.Loads.Get(ctx, id)
		if err != nil {
			return "", err
		}
		if load.Status == model.LoadDelivered || load.Status == model.LoadCancelled {
			return "", rejected("load %s is %s", load.Number, load.Status)
		}
		driver, err := tx.Drivers.Get(ctx, load.DriverID)
		if err != nil {
			return "", err
		}

		load.Status = model.LoadDelivered
		load.Commission = decimal.NewNullDecimal(fleet.LoadCommission(*load, *driver))
		if err := tx.Loads.Update(ctx, load.ID, load); err != nil {
			return "", err
		}
		resp.Load = load

		if load.Freight.IsPositive() {
			if resp.Entry, err = s.book(ctx, tx, fleet.DeliveryEntry(*load, *driver)); err != nil {
				return "", err
			}
		}
		return load.ID, nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type payCommissionRequest struct {
	PayFrom string    `json:"pay_from"`
	Date    time.Time `json:"date"`
}

type payCommissionResponse struct {
	Statement fleet.CommissionStatement `json:"statement"`
	Entry     *model.JournalEntry       `json:"entry"`
}

// handlePayCommission settles a driver's outstanding commission for the
// ?from=&to= period.
func (s *Server) handlePayCommission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := reportParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req payCommissionRequest
	if err := decodeOptional(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.PayFrom == "" {
		req.PayFrom = accounts.CodeCash
	}
	if req.Date.IsZero() {
		req.Date = s.today()
	}

	var resp payCommissionResponse
	err = s.mutate(r, "drivers", "pay_commission", func(ctx context.Context, tx *store.Tables) (string, error) {
		st, err := books.CommissionStatement(ctx, tx, id, p.Period())
		if err != nil {
			return "", err
		}
		entry, err := fleet.CommissionPaymentEntry(st, req.PayFrom, req.Date)
		if err != nil {
			return "", err
		}
		if resp.Entry, err = s.book(ctx, tx, entry); err != nil {
			return "", err
		}
		for _, l := range st.Unpaid() {
			load, err := tx.Loads.Get(ctx, l.LoadID)
			if err != nil {
				return "", err
			}
			load.CommissionPaid = true
			if err := tx.Loads.Update(ctx, load.ID, load); err != nil {
				return "", err
			}
		}
		resp.Statement = st
		return id, nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
