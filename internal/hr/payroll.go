// Package hr computes payslips and payroll runs.
package hr

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetbooks/fleetbooks/internal/model"
)

// ErrNegativeNet is returned when deductions exceed an employee's pay.
var ErrNegativeNet = errors.New("deductions exceed gross pay")

// Rules are the payroll parameters of the business.
type Rules struct {
	EmployeeInsuranceRate decimal.Decimal `yaml:"employee_insurance_rate" json:"employee_insurance_rate"`
	EmployerInsuranceRate decimal.Decimal `yaml:"employer_insurance_rate" json:"employer_insurance_rate"`
	WorkingDays           int             `yaml:"working_days" json:"working_days"`
	OvertimeMultiplier    decimal.Decimal `yaml:"overtime_multiplier" json:"overtime_multiplier"`
}

// DefaultRules returns a 30-day month, time-and-a-half overtime and
// 10%/12% social insurance.
func DefaultRules() Rules {
	return Rules{
		EmployeeInsuranceRate: decimal.RequireFromString("0.10"),
		EmployerInsuranceRate: decimal.RequireFromString("0.12"),
		WorkingDays:           30,
		OvertimeMultiplier:    decimal.RequireFromString("1.5"),
	}
}

// PayInput holds the month's variable pay items for one employee.
type PayInput struct {
	AbsentDays    decimal.Decimal `json:"absent_days"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	Bonus         decimal.Decimal `json:"bonus"`
	Advance       decimal.Decimal `json:"advance"`
}

// ComputePayslip works out one employee's pay for a month. Amounts are
// rounded to 2 places.
func ComputePayslip(emp model.Employee, in PayInput, rules Rules) model.Payslip {
	days := decimal.NewFromInt(int64(rules.WorkingDays))
	if rules.WorkingDays <= 0 {
		days = decimal.NewFromInt(30)
	}
	dayRate := emp.BasicSalary.Div(days)
	hourRate := dayRate.Div(decimal.NewFromInt(8))

	allowances := emp.HousingAllowance.Add(emp.TransportAllowance).Add(emp.OtherAllowance)
	overtime := in.OvertimeHours.Mul(hourRate).Mul(rules.OvertimeMultiplier).Round(2)
	bonus := in.Bonus.Round(2)
	gross := emp.BasicSalary.Add(allowances).Add(overtime).Add(bonus)

	insurable := emp.BasicSalary.Add(emp.HousingAllowance)
	absence := dayRate.Mul(in.AbsentDays).Round(2)
	insurance := insurable.Mul(rules.EmployeeInsuranceRate).Round(2)
	advance := in.Advance.Round(2)

	return model.Payslip{
		EmployeeID:        emp.ID,
		EmployeeName:      emp.Name,
		Basic:             emp.BasicSalary,
		Allowances:        allowances,
		Overtime:          overtime,
		Bonus:             bonus,
		Gross:             gross,
		AbsenceDeduction:  absence,
		SocialInsurance:   insurance,
		Advance:           advance,
		Net:               gross.Sub(absence).Sub(insurance).Sub(advance),
		EmployerInsurance: insurable.Mul(rules.EmployerInsuranceRate).Round(2),
	}
}

// ParseMonth parses a "YYYY-MM" payroll month and returns its first day.
func ParseMonth(month string) (time.Time, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid payroll month %q: %w", month, err)
	}
	return t, nil
}

// MonthEnd returns the last day of the month starting at first.
func MonthEnd(first time.Time) time.Time {
	return first.AddDate(0, 1, -1)
}

// RunPayroll computes payslips for every active employee hired by the end
// of month. inputs is keyed by employee id; employees without an entry
// get basic pay only.
func RunPayroll(month string, employees []model.Employee, inputs map[string]PayInput, rules Rules) (model.PayrollRun, error) {
	first, err := ParseMonth(month)
	if err != nil {
		return model.PayrollRun{}, err
	}
	end := MonthEnd(first)

	staff := append([]model.Employee(nil), employees...)
	sort.SliceStable(staff, func(i, j int) bool { return staff[i].Name < staff[j].Name })

	run := model.PayrollRun{Month: month}
	for _, emp := range staff {
		if !emp.Active || (!emp.HireDate.IsZero() && emp.HireDate.After(end)) {
			continue
		}
		slip := ComputePayslip(emp, inputs[emp.ID], rules)
		if slip.Net.IsNegative() {
			return model.PayrollRun{}, fmt.Errorf("%s: net %s: %w", emp.Name, slip.Net.StringFixed(2), ErrNegativeNet)
		}
		run.Payslips = append(run.Payslips, slip)
		run.TotalGross = run.TotalGross.Add(slip.Gross)
		run.TotalDeduction = run.TotalDeduction.Add(slip.Deductions())
		run.TotalNet = run.TotalNet.Add(slip.Net)
	}
	return run, nil
}
