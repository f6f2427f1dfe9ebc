package fleet

import (
	"errors"
	"fmt"
	"time"

	"github.com/fleetbooks/fleetbooks/internal/accounts"
	"github.com/fleetbooks/fleetbooks/internal/model"
)

// ErrNothingToPay is returned when a driver has no outstanding commission.
var ErrNothingToPay = errors.New("no outstanding commission")

// DeliveryEntry books a delivered load: the freight is billed to the
// customer and the driver's commission is accrued.
func DeliveryEntry(load model.Load, driver model.Driver) model.JournalEntry {
	e := model.JournalEntry{
		Date:        load.Date,
		Description: fmt.Sprintf("Load %s %s to %s", load.Number, load.Origin, load.Destination),
		Reference:   load.Number,
	}
	e.Lines = append(e.Lines,
		model.JournalLine{AccountCode: accounts.CodeReceivables, Debit: load.Freight},
		model.JournalLine{AccountCode: accounts.CodeFreightRevenue, Credit: load.Freight},
	)
	if c := LoadCommission(load, driver); c.IsPositive() {
		e.Lines = append(e.Lines,
			model.JournalLine{AccountCode: accounts.CodeCommissionsExpense, Description: driver.Name, Debit: c},
			model.JournalLine{AccountCode: accounts.CodeCommissionsPayable, Description: driver.Name, Credit: c},
		)
	}
	return e
}

// CommissionPaymentEntry settles the outstanding commission on st from
// payFrom, usually cash or bank.
func CommissionPaymentEntry(st CommissionStatement, payFrom string, date time.Time) (model.JournalEntry, error) {
	if !st.Outstanding.IsPositive() {
		return model.JournalEntry{}, fmt.Errorf("driver %s: %w", st.Driver.Name, ErrNothingToPay)
	}
	return model.JournalEntry{
		Date:        date,
		Description: fmt.Sprintf("Commission payment %s", st.Driver.Name),
		Reference:   fmt.Sprintf("%d loads", len(st.Unpaid())),
		Lines: []model.JournalLine{
			{AccountCode: accounts.CodeCommissionsPayable, Description: st.Driver.Name, Debit: st.Outstanding},
			{AccountCode: payFrom, Description: st.Driver.Name, Credit: st.Outstanding},
		},
	}, nil
}
