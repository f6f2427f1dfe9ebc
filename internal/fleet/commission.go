// Package fleet computes driver commissions and load summaries.
package fleet

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetbooks/fleetbooks/internal/ledger"
	"github.com/fleetbooks/fleetbooks/internal/model"
)

// LoadCommission returns what the driver earns on load: the commission
// recorded on the load when there is one, otherwise freight times the
// driver's rate.
func LoadCommission(load model.Load, driver model.Driver) decimal.Decimal {
	if load.Commission.Valid {
		return load.Commission.Decimal
	}
	return load.Freight.Mul(driver.CommissionRate).Round(2)
}

// CommissionLine is one delivered load on a driver's statement.
type CommissionLine struct {
	LoadID      string          `json:"load_id"`
	Number      string          `json:"number"`
	Date        time.Time       `json:"date"`
	CompanyID   string          `json:"company_id"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	Freight     decimal.Decimal `json:"freight"`
	Commission  decimal.Decimal `json:"commission"`
	Paid        bool            `json:"paid"`
}

// CommissionStatement lists a driver's delivered loads for a period.
type CommissionStatement struct {
	Driver          model.Driver     `json:"driver"`
	Period          ledger.Period    `json:"period"`
	Lines           []CommissionLine `json:"lines"`
	TotalFreight    decimal.Decimal  `json:"total_freight"`
	TotalCommission decimal.Decimal  `json:"total_commission"`
	Paid            decimal.Decimal  `json:"paid"`
	Outstanding     decimal.Decimal  `json:"outstanding"`
}

// BuildCommissionStatement collects the driver's delivered loads within
// period. Loads of other drivers and undelivered loads are skipped.
func BuildCommissionStatement(driver model.Driver, loads []model.Load, period ledger.Period) CommissionStatement {
	st := CommissionStatement{Driver: driver, Period: period}
	for _, l := range sortedLoads(loads) {
		if l.DriverID != driver.ID || l.Status != model.LoadDelivered || !period.Contains(l.Date) {
			continue
		}
		c := LoadCommission(l, driver)
		st.Lines = append(st.Lines, CommissionLine{
			LoadID:      l.ID,
			Number:      l.Number,
			Date:        l.Date,
			CompanyID:   l.CompanyID,
			Origin:      l.Origin,
			Destination: l.Destination,
			Freight:     l.Freight,
			Commission:  c,
			Paid:        l.CommissionPaid,
		})
		st.TotalFreight = st.TotalFreight.Add(l.Freight)
		st.TotalCommission = st.TotalCommission.Add(c)
		if l.CommissionPaid {
			st.Paid = st.Paid.Add(c)
		} else {
			st.Outstanding = st.Outstanding.Add(c)
		}
	}
	return st
}

// Unpaid returns the statement lines whose commission is still owed.
func (s CommissionStatement) Unpaid() []CommissionLine {
	var out []CommissionLine
	for _, l := range s.Lines {
		if !l.Paid {
			out = append(out, l)
		}
	}
	return out
}

// CompanyStatement is the freight billed to one customer for a period.
type CompanyStatement struct {
	Company      model.Company   `json:"company"`
	Period       ledger.Period   `json:"period"`
	Loads        []model.Load    `json:"loads"`
	LoadCount    int             `json:"load_count"`
	TotalFreight decimal.Decimal `json:"total_freight"`
	Delivered    decimal.Decimal `json:"delivered"`
}

// BuildCompanyStatement collects the company's loads within period.
// Cancelled loads are not billed.
func BuildCompanyStatement(company model.Company, loads []model.Load, period ledger.Period) CompanyStatement {
	st := CompanyStatement{Company: company, Period: period}
	for _, l := range sortedLoads(loads) {
		if l.CompanyID != company.ID || l.Status == model.LoadCancelled || !period.Contains(l.Date) {
			continue
		}
		st.Loads = append(st.Loads, l)
		st.LoadCount++
		st.TotalFreight = st.TotalFreight.Add(l.Freight)
		if l.Status == model.LoadDelivered {
			st.Delivered = st.Delivered.Add(l.Freight)
		}
	}
	return st
}

func sortedLoads(loads []model.Load) []model.Load {
	out := append([]model.Load(nil), loads...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Number < out[j].Number
	})
	return out
}
