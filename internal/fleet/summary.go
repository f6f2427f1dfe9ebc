package fleet

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fleetbooks/fleetbooks/internal/model"
)

// GroupBy names the dimension loads are summarised along.
type GroupBy string

const (
	ByDriver  GroupBy = "driver"
	ByCompany GroupBy = "company"
	ByVehicle GroupBy = "vehicle"
	ByMonth   GroupBy = "month"
)

// Summary aggregates the loads sharing one key.
type Summary struct {
	Key        string          `json:"key"`
	Loads      int             `json:"loads"`
	Freight    decimal.Decimal `json:"freight"`
	Commission decimal.Decimal `json:"commission"`
	Expenses   decimal.Decimal `json:"expenses"`
	Net        decimal.Decimal `json:"net"`
}

// Summarize groups non-cancelled loads and sums freight, commission and
// expenses per group. Net is freight less commission and expenses.
// Groups are ordered by key.
func Summarize(loads []model.Load, drivers []model.Driver, by GroupBy) ([]Summary, error) {
	key, err := keyFunc(by)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.Driver, len(drivers))
	for _, d := range drivers {
		byID[d.ID] = d
	}

	groups := make(map[string]*Summary)
	for _, l := range loads {
		if l.Status == model.LoadCancelled {
			continue
		}
		k := key(l)
		s, ok := groups[k]
		if !ok {
			s = &Summary{Key: k}
			groups[k] = s
		}
		c := LoadCommission(l, byID[l.DriverID])
		s.Loads++
		s.Freight = s.Freight.Add(l.Freight)
		s.Commission = s.Commission.Add(c)
		s.Expenses = s.Expenses.Add(l.Expenses)
		s.Net = s.Freight.Sub(s.Commission).Sub(s.Expenses)
	}

	out := make([]Summary, 0, len(groups))
	for _, s := range groups {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func keyFunc(by GroupBy) (func(model.Load) string, error) {
	switch by {
	case ByDriver:
		return func(l model.Load) string { return l.DriverID }, nil
	case ByCompany:
		return func(l model.Load) string { return l.CompanyID }, nil
	case ByVehicle:
		return func(l model.Load) string { return l.VehicleID }, nil
	case ByMonth:
		return func(l model.Load) string { return l.Date.Format("2006-01") }, nil
	default:
		return nil, fmt.Errorf("unknown grouping %q", by)
	}
}
