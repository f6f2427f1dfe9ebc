package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// amountFormat is excelize's built-in "#,##0.00".
const amountFormat = 4

// WriteXLSX writes the table as a single-sheet workbook: title and
// subtitle on top, a styled header, the rows and a totals row. Numeric
// cells are stored as numbers.
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t.Title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if t.RTL() {
		rtl := true
		if err := f.SetSheetView(sheet, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
			return fmt.Errorf("setting sheet direction: %w", err)
		}
	}

	styleTitle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return fmt.Errorf("creating title style: %w", err)
	}
	styleHeader, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#3b82f6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	styleAmount, err := f.NewStyle(&excelize.Style{NumFmt: amountFormat})
	if err != nil {
		return fmt.Errorf("creating amount style: %w", err)
	}
	styleTotal, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#cbd5e1"}, Pattern: 1},
		Border: []excelize.Border{{Type: "top", Color: "000000", Style: 2}, {Type: "bottom", Color: "000000", Style: 2}},
		NumFmt: amountFormat,
	})
	if err != nil {
		return fmt.Errorf("creating totals style: %w", err)
	}

	_ = f.SetCellValue(sheet, "A1", t.Title)
	_ = f.SetCellStyle(sheet, "A1", "A1", styleTitle)
	if t.Subtitle != "" {
		_ = f.SetCellValue(sheet, "A2", t.Subtitle)
	}

	const headerRow = 4
	for i, c := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		_ = f.SetCellValue(sheet, cell, c.Title)
		_ = f.SetCellStyle(sheet, cell, cell, styleHeader)

		name, _ := excelize.ColumnNumberToName(i + 1)
		width := 14.0
		if !c.Numeric {
			width = 12 * float64(c.span())
		}
		_ = f.SetColWidth(sheet, name, name, width)
	}

	rowNo := headerRow + 1
	for _, r := range t.Rows {
		if err := writeXLSXRow(f, sheet, t, rowNo, r, styleAmount); err != nil {
			return err
		}
		rowNo++
	}
	if t.Totals != nil {
		if err := writeXLSXRow(f, sheet, t, rowNo, t.Totals, styleTotal); err != nil {
			return err
		}
		first, _ := excelize.CoordinatesToCellName(1, rowNo)
		last, _ := excelize.CoordinatesToCellName(len(t.Columns), rowNo)
		_ = f.SetCellStyle(sheet, first, last, styleTotal)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeXLSXRow(f *excelize.File, sheet string, t Table, rowNo int, r []string, amountStyle int) error {
	for i, v := range r {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNo)
		if err != nil {
			return fmt.Errorf("cell %d,%d: %w", i+1, rowNo, err)
		}
		if i < len(t.Columns) && t.Columns[i].Numeric && v != "" {
			if d, err := decimal.NewFromString(v); err == nil {
				_ = f.SetCellFloat(sheet, cell, d.InexactFloat64(), 2, 64)
				_ = f.SetCellStyle(sheet, cell, cell, amountStyle)
				continue
			}
		}
		_ = f.SetCellValue(sheet, cell, v)
	}
	return nil
}

var sheetNameCleaner = strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")")

// sheetName turns a title into a valid worksheet name.
func sheetName(title string) string {
	name := strings.Join(strings.Fields(sheetNameCleaner.Replace(title)), " ")
	if r := []rune(name); len(r) > 31 {
		name = strings.TrimSpace(string(r[:31]))
	}
	if name == "" {
		return "Report"
	}
	return name
}
