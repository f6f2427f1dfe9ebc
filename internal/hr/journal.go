package hr

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fleetbooks/fleetbooks/internal/accounts"
	"github.com/fleetbooks/fleetbooks/internal/model"
)

// PayrollJournal builds the balanced draft entry that books a payroll
// run at the end of its month:
//
//	Dr salaries expense          gross less absence
//	Dr social insurance expense  employer share
//	  Cr social insurance payable  employee and employer shares
//	  Cr employee advances         advances recovered
//	  Cr salaries payable          net pay
//
// Zero amounts are left out.
func PayrollJournal(run model.PayrollRun) (model.JournalEntry, error) {
	first, err := ParseMonth(run.Month)
	if err != nil {
		return model.JournalEntry{}, err
	}

	var salaries, employer, insurance, advances, net decimal.Decimal
	for _, s := range run.Payslips {
		salaries = salaries.Add(s.Gross.Sub(s.AbsenceDeduction))
		employer = employer.Add(s.EmployerInsurance)
		insurance = insurance.Add(s.SocialInsurance).Add(s.EmployerInsurance)
		advances = advances.Add(s.Advance)
		net = net.Add(s.Net)
	}

	e := model.JournalEntry{
		Date:        MonthEnd(first),
		Description: fmt.Sprintf("Payroll %s", run.Month),
		Reference:   "PAYROLL-" + run.Month,
	}
	add := func(code string, debit, credit decimal.Decimal) {
		if debit.IsZero() && credit.IsZero() {
			return
		}
		e.Lines = append(e.Lines, model.JournalLine{AccountCode: code, Debit: debit, Credit: credit})
	}
	add(accounts.CodeSalariesExpense, salaries, decimal.Zero)
	add(accounts.CodeSocialInsuranceExp, employer, decimal.Zero)
	add(accounts.CodeSocialInsurancePay, decimal.Zero, insurance)
	add(accounts.CodeEmployeeAdvances, decimal.Zero, advances)
	add(accounts.CodeSalariesPayable, decimal.Zero, net)
	return e, nil
}
