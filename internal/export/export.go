// Package export renders tabular datasets as .xlsx workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// Sheet is one worksheet: a bold header row followed by data rows.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
	Widths  map[int]float64 // zero-based column -> width; default 18
}

// Write renders the sheets into a single workbook in the given order.
func Write(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("export: no sheets")
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sh.Name); err != nil {
				return fmt.Errorf("export: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return fmt.Errorf("export: add sheet %q: %w", sh.Name, err)
		}
		if err := writeSheet(f, sh, bold); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sh Sheet, headerStyle int) error {
	header := make([]any, len(sh.Headers))
	for i, h := range sh.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sh.Name, "A1", &header); err != nil {
		return fmt.Errorf("export: %s header: %w", sh.Name, err)
	}
	if len(sh.Headers) > 0 {
		if err := f.SetRowStyle(sh.Name, 1, 1, headerStyle); err != nil {
			return fmt.Errorf("export: %s header style: %w", sh.Name, err)
		}
	}

	for i, row := range sh.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sh.Name, cell, &r); err != nil {
			return fmt.Errorf("export: %s row %d: %w", sh.Name, i+1, err)
		}
	}

	for col := range sh.Headers {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		width := 18.0
		if w, ok := sh.Widths[col]; ok {
			width = w
		}
		if err := f.SetColWidth(sh.Name, name, name, width); err != nil {
			return fmt.Errorf("export: %s width: %w", sh.Name, err)
		}
	}
	return nil
}
