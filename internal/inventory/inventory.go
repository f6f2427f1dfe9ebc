// Package inventory tracks spare-part stock and purchase orders.
package inventory

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetbooks/fleetbooks/internal/accounts"
	"github.com/fleetbooks/fleetbooks/internal/model"
)

var (
	// ErrNotOrdered is returned when receiving an order that was never placed
	// or was already received.
	ErrNotOrdered = errors.New("purchase order is not awaiting delivery")
	// ErrInsufficientStock is returned when an issue exceeds the quantity on hand.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidQuantity is returned for zero or negative quantities.
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// OrderTotal returns the value of all lines on po.
func OrderTotal(po model.PurchaseOrder) decimal.Decimal {
	total := decimal.Zero
	for _, l := range po.Lines {
		total = total.Add(l.Quantity.Mul(l.UnitCost))
	}
	return total.Round(2)
}

// Receive returns the receipt movements for an ordered purchase order.
// The caller marks the order received once they are stored.
func Receive(po model.PurchaseOrder, on time.Time) ([]model.StockMovement, error) {
	if po.Status != model.OrderOrdered {
		return nil, fmt.Errorf("receiving %s (%s): %w", po.Number, po.Status, ErrNotOrdered)
	}
	moves := make([]model.StockMovement, 0, len(po.Lines))
	for _, l := range po.Lines {
		if !l.Quantity.IsPositive() {
			return nil, fmt.Errorf("receiving %s part %s: %w", po.Number, l.PartID, ErrInvalidQuantity)
		}
		moves = append(moves, model.StockMovement{
			PartID:    l.PartID,
			Date:      on,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
			Kind:      model.MovementReceipt,
			Reference: po.Number,
		})
	}
	return moves, nil
}

// Issue takes qty of part out of stock for a vehicle, costed at the
// current average cost.
func Issue(part model.SparePart, history []model.StockMovement, qty decimal.Decimal, vehicleID string, on time.Time, reference string) (model.StockMovement, error) {
	if !qty.IsPositive() {
		return model.StockMovement{}, fmt.Errorf("issuing %s: %w", part.Code, ErrInvalidQuantity)
	}
	level := levelOf(part, history)
	if level.OnHand.LessThan(qty) {
		return model.StockMovement{}, fmt.Errorf("issuing %s %s of %s on hand: %w",
			qty, part.Code, level.OnHand, ErrInsufficientStock)
	}
	return model.StockMovement{
		PartID:    part.ID,
		Date:      on,
		Quantity:  qty.Neg(),
		UnitCost:  level.AverageCost,
		Kind:      model.MovementIssue,
		VehicleID: vehicleID,
		Reference: reference,
	}, nil
}

// StockLevel is the position of one part.
type StockLevel struct {
	Part         model.SparePart `json:"part"`
	OnHand       decimal.Decimal `json:"on_hand"`
	AverageCost  decimal.Decimal `json:"average_cost"`
	Value        decimal.Decimal `json:"value"`
	BelowReorder bool            `json:"below_reorder"`
}

// StockLevels returns the position of every part, ordered by part code.
// Average cost is weighted over the value still in stock; a part that
// has never been received is valued at its list cost.
func StockLevels(parts []model.SparePart, movements []model.StockMovement) []StockLevel {
	byPart := make(map[string][]model.StockMovement)
	for _, m := range movements {
		byPart[m.PartID] = append(byPart[m.PartID], m)
	}

	out := make([]StockLevel, 0, len(parts))
	for _, p := range parts {
		out = append(out, levelOf(p, byPart[p.ID]))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Part.Code < out[j].Part.Code })
	return out
}

func levelOf(part model.SparePart, movements []model.StockMovement) StockLevel {
	onHand, value := decimal.Zero, decimal.Zero
	for _, m := range movements {
		if m.PartID != part.ID {
			continue
		}
		onHand = onHand.Add(m.Quantity)
		value = value.Add(m.Quantity.Mul(m.UnitCost))
	}

	avg := part.UnitCost
	if onHand.IsPositive() {
		avg = value.Div(onHand).Round(2)
	}
	return StockLevel{
		Part:         part,
		OnHand:       onHand,
		AverageCost:  avg,
		Value:        value.Round(2),
		BelowReorder: onHand.LessThanOrEqual(part.ReorderLevel),
	}
}

// VehicleCost is the parts cost charged to one vehicle.
type VehicleCost struct {
	VehicleID string          `json:"vehicle_id"`
	Issues    int             `json:"issues"`
	Cost      decimal.Decimal `json:"cost"`
}

// VehicleCosts sums issued parts per vehicle, ordered by vehicle id.
func VehicleCosts(movements []model.StockMovement) []VehicleCost {
	byVehicle := make(map[string]*VehicleCost)
	for _, m := range movements {
		if m.Kind != model.MovementIssue || m.VehicleID == "" {
			continue
		}
		vc, ok := byVehicle[m.VehicleID]
		if !ok {
			vc = &VehicleCost{VehicleID: m.VehicleID}
			byVehicle[m.VehicleID] = vc
		}
		vc.Issues++
		vc.Cost = vc.Cost.Add(m.Quantity.Neg().Mul(m.UnitCost))
	}

	out := make([]VehicleCost, 0, len(byVehicle))
	for _, vc := range byVehicle {
		vc.Cost = vc.Cost.Round(2)
		out = append(out, *vc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VehicleID < out[j].VehicleID })
	return out
}

// ReceiptEntry books a received order: stock increases and the supplier
// is owed the order total.
func ReceiptEntry(po model.PurchaseOrder, on time.Time) model.JournalEntry {
	total := OrderTotal(po)
	return model.JournalEntry{
		Date:        on,
		Description: fmt.Sprintf("Goods received %s", po.Number),
		Reference:   po.Number,
		Lines: []model.JournalLine{
			{AccountCode: accounts.CodeSparePartsStock, Debit: total},
			{AccountCode: accounts.CodePayables, Credit: total},
		},
	}
}

// IssueEntry books parts issued to a vehicle as maintenance expense.
func IssueEntry(m model.StockMovement, part model.SparePart) model.JournalEntry {
	cost := m.Quantity.Neg().Mul(m.UnitCost).Round(2)
	return model.JournalEntry{
		Date:        m.Date,
		Description: fmt.Sprintf("Issued %s x %s", m.Quantity.Neg(), part.Name),
		Reference:   m.Reference,
		Lines: []model.JournalLine{
			{AccountCode: accounts.CodeMaintenanceExpense, Description: m.VehicleID, Debit: cost},
			{AccountCode: accounts.CodeSparePartsStock, Credit: cost},
		},
	}
}
