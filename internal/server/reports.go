package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fleetbooks/fleetbooks/internal/books"
	"github.com/fleetbooks/fleetbooks/internal/export"
	"github.com/fleetbooks/fleetbooks/internal/fleet"
	"github.com/fleetbooks/fleetbooks/internal/inventory"
	"github.com/fleetbooks/fleetbooks/internal/locale"
)

// settings returns the configured locale, overridden by ?lang=.
func (s *Server) settings(r *http.Request) (locale.Settings, error) {
	st := s.cfg.Settings()
	switch lang := r.URL.Query().Get("lang"); lang {
	case "":
	case locale.English, locale.Arabic:
		st.Language = lang
	default:
		return st, badRequest("unknown language %q", lang)
	}
	return st, nil
}

func reportParams(r *http.Request) (books.Params, error) {
	var p books.Params
	var err error
	if p.From, err = queryDate(r, "from"); err != nil {
		return p, err
	}
	if p.To, err = queryDate(r, "to"); err != nil {
		return p, err
	}
	if p.AsOf, err = queryDate(r, "as_of"); err != nil {
		return p, err
	}
	if p.Depth, err = queryInt(r, "depth"); err != nil {
		return p, err
	}
	p.HideZero = r.URL.Query().Get("hide_zero") == "true"
	return p, nil
}

// report serves a books report as JSON or, with ?format=, as a download.
func (s *Server) report(kind string, fill func(r *http.Request, p *books.Params)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := reportParams(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if fill != nil {
			fill(r, &p)
		}
		st, err := s.settings(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		rep, err := books.BuildReport(r.Context(), s.tables, kind, p, st)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.render(w, r, kind, rep.Value, rep.Table)
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, v any, t export.Table) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" || format == "json" {
		writeJSON(w, http.StatusOK, v)
		return
	}

	var contentType string
	var write func() error
	switch format {
	case "csv":
		contentType = "text/csv; charset=utf-8"
		write = func() error { return export.WriteCSV(w, t) }
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		write = func() error { return export.WriteXLSX(w, t) }
	case "pdf":
		contentType = "application/pdf"
		write = func() error { return export.WritePDF(w, t, s.cfg.Business.Name, s.now()) }
	default:
		s.fail(w, r, badRequest("unknown format %q", format))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, format))
	if err := write(); err != nil {
		// Headers are gone; all that is left is to log.
		s.logger.Error("writing export", zap.String("path", r.URL.Path), zap.String("format", format), zap.Error(err))
	}
}

func (s *Server) handleTrialBalance(w http.ResponseWriter, r *http.Request) {
	s.report(books.KindTrialBalance, nil)(w, r)
}

func (s *Server) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	s.report(books.KindBalanceSheet, nil)(w, r)
}

func (s *Server) handleIncomeStatement(w http.ResponseWriter, r *http.Request) {
	s.report(books.KindIncomeStatement, nil)(w, r)
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	s.report(books.KindLedger, func(r *http.Request, p *books.Params) { p.Code = chi.URLParam(r, "code") })(w, r)
}

func (s *Server) handleCommissions(w http.ResponseWriter, r *http.Request) {
	s.report(books.KindCommissions, func(r *http.Request, p *books.Params) { p.DriverID = chi.URLParam(r, "driverID") })(w, r)
}

func (s *Server) handlePayrollReport(w http.ResponseWriter, r *http.Request) {
	s.report(books.KindPayroll, func(r *http.Request, p *books.Params) { p.Month = chi.URLParam(r, "month") })(w, r)
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	s.report(books.KindStock, nil)(w, r)
}

func (s *Server) handleCompanyStatement(w http.ResponseWriter, r *http.Request) {
	p, err := reportParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	company, err := s.tables.Companies.Get(r.Context(), chi.URLParam(r, "companyID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	f, err := books.LoadFleet(r.Context(), s.tables)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fleet.BuildCompanyStatement(*company, f.Loads, p.Period()))
}

func (s *Server) handleLoadSummary(w http.ResponseWriter, r *http.Request) {
	by := fleet.GroupBy(r.URL.Query().Get("by"))
	if by == "" {
		by = fleet.ByDriver
	}
	f, err := books.LoadFleet(r.Context(), s.tables)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sums, err := fleet.Summarize(f.Loads, f.Drivers, by)
	if err != nil {
		s.fail(w, r, badRequest("%v", err))
		return
	}
	if sums == nil {
		sums = []fleet.Summary{}
	}
	writeJSON(w, http.StatusOK, sums)
}

func (s *Server) handleVehicleCosts(w http.ResponseWriter, r *http.Request) {
	st, err := books.LoadStock(r.Context(), s.tables)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	costs := inventory.VehicleCosts(st.Movements)
	if costs == nil {
		costs = []inventory.VehicleCost{}
	}
	writeJSON(w, http.StatusOK, costs)
}
