// Package books loads the datasets that reports and statements are
// computed from. Each dataset is a handful of small tables fetched in
// parallel and then aggregated in memory.
package books

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/fleetbooks/fleetbooks/internal/accounts"
	"github.com/fleetbooks/fleetbooks/internal/journal"
	"github.com/fleetbooks/fleetbooks/internal/ledger"
	"github.com/fleetbooks/fleetbooks/internal/model"
	"github.com/fleetbooks/fleetbooks/internal/store"
)

// Ledger is the chart of accounts with the posted lines it is reported on.
type Ledger struct {
	Chart *accounts.Service
	Lines []ledger.Line
}

// Chart reads the stored chart of accounts.
func Chart(ctx context.Context, tables *store.Tables) (*accounts.Service, error) {
	rows, err := tables.Accounts.List(ctx, store.Query{Order: "code"})
	if err != nil {
		return nil, fmt.Errorf("loading chart of accounts: %w", err)
	}
	return accounts.NewService(rows), nil
}

// ErrCodeInUse is returned when a chart change would strand journal lines.
var ErrCodeInUse = errors.New("account in use")

// CheckCodesInUse refuses a chart that drops or splits an account that
// journal lines already reference.
func CheckCodesInUse(ctx context.Context, tables *store.Tables, chart *accounts.Service) error {
	var codes []string
	err := tables.DB().WithContext(ctx).Model(&model.JournalLine{}).Distinct().Pluck("account_code", &codes).Error
	if err != nil {
		return fmt.Errorf("listing used accounts: %w", err)
	}
	for _, code := range codes {
		if !chart.Exists(code) {
			return fmt.Errorf("%w: account %s has journal lines but is missing from the chart", ErrCodeInUse, code)
		}
		if !chart.IsLeaf(code) {
			return fmt.Errorf("%w: account %s has journal lines but is no longer a leaf", ErrCodeInUse, code)
		}
	}
	return nil
}

// LoadLedger reads the chart and the posted lines matching f.
func LoadLedger(ctx context.Context, tables *store.Tables, f journal.Filter) (*Ledger, error) {
	var l Ledger
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		chart, err := Chart(ctx, tables)
		l.Chart = chart
		return err
	})
	g.Go(func() error {
		lines, err := journal.PostedLines(ctx, tables, f)
		l.Lines = lines
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Fleet is every row the freight reports read.
type Fleet struct {
	Loads     []model.Load
	Drivers   []model.Driver
	Companies []model.Company
	Vehicles  []model.Vehicle
}

// Driver returns the driver with the given id.
func (f *Fleet) Driver(id string) (model.Driver, bool) {
	for _, d := range f.Drivers {
		if d.ID == id {
			return d, true
		}
	}
	return model.Driver{}, false
}

// Company returns the company with the given id.
func (f *Fleet) Company(id string) (model.Company, bool) {
	for _, c := range f.Companies {
		if c.ID == id {
			return c, true
		}
	}
	return model.Company{}, false
}

// LoadFleet reads loads, drivers, companies and vehicles.
func LoadFleet(ctx context.Context, tables *store.Tables) (*Fleet, error) {
	var f Fleet
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		f.Loads, err = tables.Loads.List(ctx, store.Query{Order: "date"})
		return err
	})
	g.Go(func() (err error) {
		f.Drivers, err = tables.Drivers.List(ctx, store.Query{Order: "name"})
		return err
	})
	g.Go(func() (err error) {
		f.Companies, err = tables.Companies.List(ctx, store.Query{Order: "name"})
		return err
	})
	g.Go(func() (err error) {
		f.Vehicles, err = tables.Vehicles.List(ctx, store.Query{Order: "plate_no"})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading fleet: %w", err)
	}
	return &f, nil
}

// Stock is the parts catalogue with its movement history.
type Stock struct {
	Parts     []model.SparePart
	Movements []model.StockMovement
}

// Part returns the part with the given id.
func (s *Stock) Part(id string) (model.SparePart, bool) {
	for _, p := range s.Parts {
		if p.ID == id {
			return p, true
		}
	}
	return model.SparePart{}, false
}

// LoadStock reads spare parts and stock movements.
func LoadStock(ctx context.Context, tables *store.Tables) (*Stock, error) {
	var s Stock
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.Parts, err = tables.SpareParts.List(ctx, store.Query{Order: "code"})
		return err
	})
	g.Go(func() (err error) {
		s.Movements, err = tables.StockMovements.List(ctx, store.Query{Order: "date"})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading stock: %w", err)
	}
	return &s, nil
}
