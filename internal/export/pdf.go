package export

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/fleetbooks/fleetbooks/internal/locale"
)

var headerFill = &props.Color{Red: 226, Green: 232, Blue: 240}

// WritePDF renders the table on A4 pages with a repeated footer carrying
// the business name and print time. Wide tables switch to landscape and
// right-to-left tables mirror their column order.
func WritePDF(w io.Writer, t Table, business string, printed time.Time) error {
	grid := 0
	for _, c := range t.Columns {
		grid += c.span()
	}
	if grid == 0 {
		return fmt.Errorf("table %q has no columns", t.Title)
	}

	orient := orientation.Vertical
	if grid > 8 {
		orient = orientation.Horizontal
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orient).
		WithMaxGridSize(grid).
		WithLeftMargin(10).
		WithTopMargin(15).
		WithRightMargin(10).
		WithBottomMargin(10).
		Build()

	m := maroto.New(cfg)

	footer := locale.Label(t.Lang, "printed") + ": " +
		locale.FormatDate(printed, locale.Settings{Language: t.Lang}) + " " + printed.Format("15:04")
	if err := m.RegisterFooter(
		row.New(5).Add(col.New(grid).Add(line.New())),
		row.New(6).Add(text.NewCol(grid, business+"  "+footer, props.Text{Size: 7, Align: align.Center})),
	); err != nil {
		return fmt.Errorf("registering footer: %w", err)
	}

	m.AddRow(12, text.NewCol(grid, t.Title, props.Text{Top: 3, Size: 14, Style: fontstyle.Bold, Align: align.Center}))
	if t.Subtitle != "" {
		m.AddRow(7, text.NewCol(grid, t.Subtitle, props.Text{Size: 9, Align: align.Center}))
	}
	m.AddRow(4)

	m.AddRows(pdfRow(t, t.Titles(), 8, true).WithStyle(&props.Cell{BackgroundColor: headerFill}))
	for _, r := range t.Rows {
		m.AddRows(pdfRow(t, t.displayRow(r), 6, false))
	}
	if t.Totals != nil {
		m.AddRows(
			row.New(2).Add(col.New(grid).Add(line.New())),
			pdfRow(t, t.displayRow(t.Totals), 7, true),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("generating PDF: %w", err)
	}
	if _, err := w.Write(doc.GetBytes()); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}

func pdfRow(t Table, cells []string, height float64, bold bool) core.Row {
	cols := make([]core.Col, 0, len(t.Columns))
	for i, c := range t.Columns {
		v := ""
		if i < len(cells) {
			v = cells[i]
		}
		p := props.Text{Size: 8, Top: 1.5, Align: align.Left}
		if bold {
			p.Style = fontstyle.Bold
		}
		switch {
		case c.Numeric:
			p.Align = align.Right
		case t.RTL():
			p.Align = align.Right
		}
		cols = append(cols, text.NewCol(c.span(), v, p))
	}
	if t.RTL() {
		slices.Reverse(cols)
	}
	return row.New(height).Add(cols...)
}
