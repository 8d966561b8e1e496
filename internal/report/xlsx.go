package report

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/adlens-cli/internal/analysis"
	"github.com/xuri/excelize/v2"
)

type xlsxWriter struct{}

func (xlsxWriter) Format() string    { return "xlsx" }
func (xlsxWriter) Extension() string { return ".xlsx" }
func (xlsxWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (xlsxWriter) Write(w io.Writer, out *analysis.Output) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	for i, sh := range buildSheets(out) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return fmt.Errorf("create sheet %q: %w", sh.name, err)
		}
		if err := writeSheet(f, sh, bold); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sh sheet, headerStyle int) error {
	row := 1
	if len(sh.header) > 0 {
		hdr := make([]any, len(sh.header))
		for i, h := range sh.header {
			hdr[i] = h
		}
		if err := f.SetSheetRow(sh.name, "A1", &hdr); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		last, _ := excelize.CoordinatesToCellName(len(hdr), 1)
		if err := f.SetCellStyle(sh.name, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
		if err := f.SetPanes(sh.name, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return fmt.Errorf("freeze header: %w", err)
		}
		row++
	}
	for _, r := range sh.rows {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		r := r
		if err := f.SetSheetRow(sh.name, cell, &r); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}
	width := len(sh.header)
	if width == 0 {
		width = 2
	}
	lastCol, _ := excelize.ColumnNumberToName(width)
	if err := f.SetColWidth(sh.name, "A", lastCol, 16); err != nil {
		return fmt.Errorf("set widths: %w", err)
	}
	return nil
}
