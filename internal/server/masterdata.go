package server

import (
	"context"
	"errors"
	"strings"

	"github.com/fleetbooks/fleetbooks/internal/accounts"
	"github.com/fleetbooks/fleetbooks/internal/books"
	"github.com/fleetbooks/fleetbooks/internal/model"
	"github.com/fleetbooks/fleetbooks/internal/store"
)

// checkAccount validates the chart as it would be after writing acct.
// The write may not add a chart error, strand sub-accounts or turn an
// account with journal lines into a parent.
func (s *Server) checkAccount(ctx context.Context, tx *store.Tables, id string, acct *model.Account) error {
	chart, err := books.Chart(ctx, tx)
	if err != nil {
		return err
	}

	next := make([]model.Account, 0, len(chart.All())+1)
	for _, a := range chart.All() {
		if a.ID == id {
			if a.Code != acct.Code {
				if len(chart.Children(a.Code)) > 0 {
					return rejected("account %s has sub-accounts and cannot be renamed", a.Code)
				}
				if err := s.refuseIfUsed(ctx, tx, a.Code, "renamed"); err != nil {
					return err
				}
			}
			continue
		}
		next = append(next, a)
	}
	next = append(next, *acct)

	before := make(map[string]bool)
	for _, ve := range accounts.Validate(chart.All()) {
		before[ve.Error()] = true
	}
	var problems []string
	for _, ve := range accounts.Validate(next) {
		if !before[ve.Error()] {
			problems = append(problems, ve.Error())
		}
	}
	if len(problems) > 0 {
		return rejected("%s", strings.Join(problems, "; "))
	}

	if err := books.CheckCodesInUse(ctx, tx, accounts.NewService(next)); err != nil {
		if errors.Is(err, books.ErrCodeInUse) {
			return rejected("%s", err)
		}
		return err
	}
	return nil
}

// checkAccountDelete refuses to delete accounts with sub-accounts or
// journal lines.
func (s *Server) checkAccountDelete(ctx context.Context, tx *store.Tables, id string) error {
	acct, err := tx.Accounts.Get(ctx, id)
	if err != nil {
		return err
	}
	chart, err := books.Chart(ctx, tx)
	if err != nil {
		return err
	}
	if !chart.IsLeaf(acct.Code) {
		return rejected("account %s has sub-accounts", acct.Code)
	}
	return s.refuseIfUsed(ctx, tx, acct.Code, "deleted")
}

func (s *Server) refuseIfUsed(ctx context.Context, tx *store.Tables, code, verb string) error {
	n, err := tx.JournalLines.Count(ctx, map[string]any{"account_code": code})
	if err != nil {
		return err
	}
	if n > 0 {
		return rejected("account %s has %d journal lines and cannot be %s", code, n, verb)
	}
	return nil
}

// defaultDriver gives drivers without a rate the configured commission.
func (s *Server) defaultDriver(_ context.Context, _ *store.Tables, _ string, d *model.Driver) error {
	if d.CommissionRate.IsZero() {
		d.CommissionRate = s.cfg.Fleet.DefaultCommissionRate
	}
	if d.CommissionRate.IsNegative() {
		return rejected("commission rate cannot be negative")
	}
	return nil
}

// defaultPart gives parts without a reorder level the configured one.
func (s *Server) defaultPart(_ context.Context, _ *store.Tables, _ string, p *model.SparePart) error {
	if p.ReorderLevel.IsZero() {
		p.ReorderLevel = s.cfg.Inventory.DefaultReorderLevel
	}
	if p.UnitCost.IsNegative() {
		return rejected("unit cost cannot be negative")
	}
	return nil
}

// checkLoad keeps delivery and commission state under the deliver and
// pay-commission operations. Delivered loads have posted entries and
// are read-only.
func (s *Server) checkLoad(ctx context.Context, tx *store.Tables, id string, l *model.Load) error {
	if id != "" {
		old, err := tx.Loads.Get(ctx, id)
		if err != nil {
			return err
		}
		if old.Status == model.LoadDelivered {
			return rejected("load %s has been delivered and cannot be changed", old.Number)
		}
		if l.Status == "" {
			l.Status = old.Status
		}
	}
	if l.Status == "" {
		l.Status = model.LoadPending
	}
	switch {
	case l.Status == model.LoadDelivered:
		return rejected("loads are delivered with POST /loads/{id}/deliver")
	case l.CommissionPaid || l.Commission.Valid:
		return rejected("commission is set when a load is delivered")
	}
	return nil
}

// checkLoadDelete refuses to delete delivered loads.
func (s *Server) checkLoadDelete(ctx context.Context, tx *store.Tables, id string) error {
	l, err := tx.Loads.Get(ctx, id)
	if err != nil {
		return err
	}
	if l.Status == model.LoadDelivered {
		return rejected("load %s has been delivered and cannot be deleted", l.Number)
	}
	return nil
}

// checkPurchaseOrder keeps receiving under the receive operation.
// Received orders have stock movements and are read-only.
func (s *Server) checkPurchaseOrder(ctx context.Context, tx *store.Tables, id string, po *model.PurchaseOrder) error {
	if id != "" {
		old, err := tx.PurchaseOrders.Get(ctx, id)
		if err != nil {
			return err
		}
		if old.Status == model.OrderReceived {
			return rejected("purchase order %s has been received and cannot be changed", old.Number)
		}
		if po.Status == "" {
			po.Status = old.Status
		}
	}
	if po.Status == "" {
		po.Status = model.OrderDraft
	}
	if po.Status == model.OrderReceived {
		return rejected("purchase orders are received with POST /purchase_orders/{id}/receive")
	}
	return nil
}

// checkPurchaseOrderDelete refuses to delete received orders.
func (s *Server) checkPurchaseOrderDelete(ctx context.Context, tx *store.Tables, id string) error {
	po, err := tx.PurchaseOrders.Get(ctx, id)
	if err != nil {
		return err
	}
	if po.Status == model.OrderReceived {
		return rejected("purchase order %s has been received and cannot be deleted", po.Number)
	}
	return nil
}
