package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Company is a customer that freight loads are carried for.
type Company struct {
	Base
	Name      string `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	Phone     string `gorm:"size:32" json:"phone" validate:"max=32"`
	TaxNumber string `gorm:"size:32" json:"tax_number" validate:"max=32"`
	Address   string `json:"address"`
}

// TableName implements gorm's tabler.
func (Company) TableName() string { return "companies" }

// VehicleStatus tracks whether a vehicle can be dispatched.
type VehicleStatus string

const (
	VehicleActive      VehicleStatus = "active"
	VehicleMaintenance VehicleStatus = "maintenance"
	VehicleRetired     VehicleStatus = "retired"
)

// Vehicle is a truck in the fleet.
type Vehicle struct {
	Base
	PlateNo string        `gorm:"uniqueIndex;size:32;not null" json:"plate_no" validate:"required,max=32"`
	Make    string        `gorm:"size:64" json:"make"`
	Model   string        `gorm:"size:64" json:"model"`
	Year    int           `json:"year" validate:"omitempty,gte=1950,lte=2100"`
	Status  VehicleStatus `gorm:"size:16;not null;default:active" json:"status" validate:"omitempty,oneof=active maintenance retired"`
}

// TableName implements gorm's tabler.
func (Vehicle) TableName() string { return "vehicles" }

// Driver earns a commission on the freight of the loads they deliver.
type Driver struct {
	Base
	Name           string          `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	Phone          string          `gorm:"size:32" json:"phone" validate:"max=32"`
	LicenseNo      string          `gorm:"size:64" json:"license_no" validate:"max=64"`
	CommissionRate decimal.Decimal `gorm:"type:numeric(6,4);not null" json:"commission_rate"`
	VehicleID      string          `gorm:"size:36" json:"vehicle_id"`
	Active         bool            `gorm:"not null;default:true" json:"active"`
}

// TableName implements gorm's tabler.
func (Driver) TableName() string { return "drivers" }

// LoadStatus is the delivery state of a load.
type LoadStatus string

const (
	LoadPending   LoadStatus = "pending"
	LoadInTransit LoadStatus = "in_transit"
	LoadDelivered LoadStatus = "delivered"
	LoadCancelled LoadStatus = "cancelled"
)

// Load is a single freight job.
type Load struct {
	Base
	Number         string              `gorm:"uniqueIndex;size:32;not null" json:"number" validate:"required,max=32"`
	Date           time.Time           `gorm:"index;not null" json:"date" validate:"required"`
	CompanyID      string              `gorm:"size:36;index" json:"company_id" validate:"required"`
	DriverID       string              `gorm:"size:36;index" json:"driver_id" validate:"required"`
	VehicleID      string              `gorm:"size:36;index" json:"vehicle_id"`
	Origin         string              `gorm:"size:128" json:"origin"`
	Destination    string              `gorm:"size:128" json:"destination"`
	Freight        decimal.Decimal     `gorm:"type:numeric(18,2);not null" json:"freight"`
	Commission     decimal.NullDecimal `gorm:"type:numeric(18,2)" json:"commission"`
	Expenses       decimal.Decimal     `gorm:"type:numeric(18,2);not null" json:"expenses"`
	Status         LoadStatus          `gorm:"size:16;not null;default:pending" json:"status" validate:"omitempty,oneof=pending in_transit delivered cancelled"`
	CommissionPaid bool                `gorm:"not null;default:false" json:"commission_paid"`
}

// TableName implements gorm's tabler.
func (Load) TableName() string { return "loads" }
