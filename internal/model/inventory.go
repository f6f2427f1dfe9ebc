package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SparePart is a stocked part used to maintain vehicles.
type SparePart struct {
	Base
	Code         string          `gorm:"uniqueIndex;size:64;not null" json:"code" validate:"required,max=64"`
	Name         string          `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	Unit         string          `gorm:"size:16" json:"unit"`
	ReorderLevel decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"reorder_level"`
	UnitCost     decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"unit_cost"`
}

// TableName implements gorm's tabler.
func (SparePart) TableName() string { return "spare_parts" }

// Supplier sells spare parts.
type Supplier struct {
	Base
	Name      string `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	Phone     string `gorm:"size:32" json:"phone" validate:"max=32"`
	TaxNumber string `gorm:"size:32" json:"tax_number" validate:"max=32"`
}

// TableName implements gorm's tabler.
func (Supplier) TableName() string { return "suppliers" }

// OrderStatus is the state of a purchase order.
type OrderStatus string

const (
	OrderDraft     OrderStatus = "draft"
	OrderOrdered   OrderStatus = "ordered"
	OrderReceived  OrderStatus = "received"
	OrderCancelled OrderStatus = "cancelled"
)

// PurchaseOrder buys parts from a supplier.
type PurchaseOrder struct {
	Base
	Number     string              `gorm:"uniqueIndex;size:32;not null" json:"number" validate:"required,max=32"`
	SupplierID string              `gorm:"size:36;index;not null" json:"supplier_id" validate:"required"`
	Date       time.Time           `gorm:"not null" json:"date" validate:"required"`
	Status     OrderStatus         `gorm:"size:16;not null;default:draft" json:"status" validate:"omitempty,oneof=draft ordered received cancelled"`
	Lines      []PurchaseOrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines" validate:"dive"`
}

// TableName implements gorm's tabler.
func (PurchaseOrder) TableName() string { return "purchase_orders" }

// PurchaseOrderLine is a quantity of one part on an order.
type PurchaseOrderLine struct {
	Base
	OrderID  string          `gorm:"size:36;index;not null" json:"order_id"`
	PartID   string          `gorm:"size:36;not null" json:"part_id" validate:"required"`
	Quantity decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"quantity"`
	UnitCost decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"unit_cost"`
}

// TableName implements gorm's tabler.
func (PurchaseOrderLine) TableName() string { return "purchase_order_lines" }

// MovementKind says why stock moved.
type MovementKind string

const (
	MovementReceipt    MovementKind = "receipt"
	MovementIssue      MovementKind = "issue"
	MovementAdjustment MovementKind = "adjustment"
)

// StockMovement changes the on-hand quantity of a part. Receipts are
// positive, issues negative.
type StockMovement struct {
	Base
	PartID    string          `gorm:"size:36;index;not null" json:"part_id" validate:"required"`
	Date      time.Time       `gorm:"not null" json:"date" validate:"required"`
	Quantity  decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"quantity"`
	UnitCost  decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"unit_cost"`
	Kind      MovementKind    `gorm:"size:16;not null" json:"kind" validate:"required,oneof=receipt issue adjustment"`
	VehicleID string          `gorm:"size:36;index" json:"vehicle_id"`
	Reference string          `gorm:"size:64" json:"reference"`
}

// TableName implements gorm's tabler.
func (StockMovement) TableName() string { return "stock_movements" }
