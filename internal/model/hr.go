package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is a salaried member of staff.
type Employee struct {
	Base
	Name               string          `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	NationalID         string          `gorm:"size:32" json:"national_id" validate:"max=32"`
	Position           string          `gorm:"size:128" json:"position"`
	HireDate           time.Time       `json:"hire_date"`
	BasicSalary        decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"basic_salary"`
	HousingAllowance   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"housing_allowance"`
	TransportAllowance decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"transport_allowance"`
	OtherAllowance     decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"other_allowance"`
	Active             bool            `gorm:"not null;default:true" json:"active"`
}

// TableName implements gorm's tabler.
func (Employee) TableName() string { return "employees" }

// PayrollRun is one month's payroll.
type PayrollRun struct {
	Base
	Month          string          `gorm:"uniqueIndex;size:7;not null" json:"month"` // "YYYY-MM"
	TotalGross     decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total_gross"`
	TotalDeduction decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total_deduction"`
	TotalNet       decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total_net"`
	JournalEntryID string          `gorm:"size:36" json:"journal_entry_id"`
	Payslips       []Payslip       `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"payslips"`
}

// TableName implements gorm's tabler.
func (PayrollRun) TableName() string { return "payroll_runs" }

// Payslip is one employee's pay for a run.
type Payslip struct {
	Base
	RunID            string          `gorm:"size:36;index;not null" json:"run_id"`
	EmployeeID       string          `gorm:"size:36;index;not null" json:"employee_id"`
	EmployeeName     string          `gorm:"size:255" json:"employee_name"`
	Basic            decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"basic"`
	Allowances       decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"allowances"`
	Overtime         decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"overtime"`
	Bonus            decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"bonus"`
	Gross            decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"gross"`
	AbsenceDeduction decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"absence_deduction"`
	SocialInsurance  decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"social_insurance"`
	Advance          decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"advance"`
	Net              decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"net"`

	// EmployerInsurance is the company's own contribution. It is a cost to
	// the business and not part of the employee's pay.
	EmployerInsurance decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"employer_insurance"`
}

// TableName implements gorm's tabler.
func (Payslip) TableName() string { return "payslips" }

// Deductions returns everything withheld from gross pay.
func (p Payslip) Deductions() decimal.Decimal {
	return p.AbsenceDeduction.Add(p.SocialInsurance).Add(p.Advance)
}
