package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleetbooks/fleetbooks/internal/books"
	"github.com/fleetbooks/fleetbooks/internal/export"
	"github.com/fleetbooks/fleetbooks/internal/locale"
	"github.com/fleetbooks/fleetbooks/internal/store"
)

type reportOptions struct {
	from, to, asOf string
	depth          int
	hideZero       bool
	code           string
	driver         string
	month          string
	format         string
	out            string
	lang           string
}

func newReportCommand(a *app) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:       "report <kind>",
		Short:     "Print or export a report",
		Long:      "Print or export a report. Kinds: " + strings.Join(books.Kinds, ", ") + ".",
		Args:      cobra.ExactArgs(1),
		ValidArgs: books.Kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.params(args[0])
			if err != nil {
				return err
			}
			return a.withTables(cmd.Context(), func(ctx context.Context, tables *store.Tables) error {
				s := a.cfg.Settings()
				if opts.lang != "" {
					s.Language = opts.lang
				}
				rep, err := books.BuildReport(ctx, tables, args[0], p, s)
				if err != nil {
					return err
				}
				return a.writeReport(cmd.OutOrStdout(), rep, opts)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.from, "from", "", "first date of the period (YYYY-MM-DD)")
	f.StringVar(&opts.to, "to", "", "last date of the period (YYYY-MM-DD)")
	f.StringVar(&opts.asOf, "as-of", "", "balance sheet date (YYYY-MM-DD, default today)")
	f.IntVar(&opts.depth, "depth", 0, "deepest account level to show (0 for all)")
	f.BoolVar(&opts.hideZero, "hide-zero", false, "omit accounts without activity")
	f.StringVar(&opts.code, "code", "", "account code for the ledger report")
	f.StringVar(&opts.driver, "driver", "", "driver id for the commissions report")
	f.StringVar(&opts.month, "month", "", "payroll month (YYYY-MM)")
	f.StringVarP(&opts.format, "format", "f", "table", "table, json, csv, xlsx or pdf")
	f.StringVarP(&opts.out, "out", "o", "", "write to this file instead of stdout")
	f.StringVar(&opts.lang, "lang", "", "report language (ar or en), overrides business.language")

	return cmd
}

func (o reportOptions) params(kind string) (books.Params, error) {
	p := books.Params{
		Depth:    o.depth,
		HideZero: o.hideZero,
		Code:     o.code,
		DriverID: o.driver,
		Month:    o.month,
	}
	var err error
	if p.From, err = parseDate(o.from); err != nil {
		return p, err
	}
	if p.To, err = parseDate(o.to); err != nil {
		return p, err
	}
	if p.AsOf, err = parseDate(o.asOf); err != nil {
		return p, err
	}
	if o.lang != "" && o.lang != locale.Arabic && o.lang != locale.English {
		return p, fmt.Errorf("unsupported language %q", o.lang)
	}

	switch kind {
	case books.KindBalanceSheet:
		if p.AsOf.IsZero() {
			y, m, d := time.Now().Date()
			p.AsOf = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		}
	case books.KindLedger:
		if p.Code == "" {
			return p, fmt.Errorf("--code is required for the ledger report")
		}
	case books.KindCommissions:
		if p.DriverID == "" {
			return p, fmt.Errorf("--driver is required for the commissions report")
		}
	case books.KindPayroll:
		if p.Month == "" {
			return p, fmt.Errorf("--month is required for the payroll report")
		}
	}
	return p, nil
}

func (a *app) writeReport(stdout io.Writer, rep books.Report, opts reportOptions) error {
	var write func(w io.Writer) error
	switch strings.ToLower(opts.format) {
	case "table", "":
		write = func(w io.Writer) error { return export.WriteText(w, rep.Table) }
	case "json":
		write = func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(rep.Value)
		}
	case "csv":
		write = func(w io.Writer) error { return export.WriteCSV(w, rep.Table) }
	case "xlsx":
		write = func(w io.Writer) error { return export.WriteXLSX(w, rep.Table) }
	case "pdf":
		write = func(w io.Writer) error { return export.WritePDF(w, rep.Table, a.cfg.Business.Name, time.Now()) }
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	if opts.out == "" {
		return write(stdout)
	}

	f, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", opts.out, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", opts.out, err)
	}
	a.logger.Info("report written", zap.String("title", rep.Table.Title), zap.String("path", opts.out))
	return nil
}
