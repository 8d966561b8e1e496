package report

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/KaramelBytes/adlens-cli/internal/analysis"
)

// csvWriter emits a zip archive with one CSV file per sheet.
type csvWriter struct{}

func (csvWriter) Format() string      { return "csv" }
func (csvWriter) Extension() string   { return ".zip" }
func (csvWriter) ContentType() string { return "application/zip" }

func (csvWriter) Write(w io.Writer, out *analysis.Output) error {
	zw := zip.NewWriter(w)
	for _, sh := range buildSheets(out) {
		fw, err := zw.Create(sh.key + ".csv")
		if err != nil {
			return fmt.Errorf("create %s.csv: %w", sh.key, err)
		}
		// BOM so spreadsheet tools detect UTF-8.
		if _, err := fw.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return err
		}
		cw := csv.NewWriter(fw)
		if len(sh.header) > 0 {
			if err := cw.Write(sh.header); err != nil {
				return err
			}
		}
		for _, r := range sh.rows {
			rec := make([]string, len(r))
			for i, v := range r {
				rec[i] = cellText(v)
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return fmt.Errorf("write %s.csv: %w", sh.key, err)
		}
	}
	return zw.Close()
}

func cellText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return analysis.FormatNumber(x)
	default:
		return fmt.Sprint(x)
	}
}
