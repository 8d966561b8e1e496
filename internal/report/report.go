// Package report renders an analysis.Output into downloadable files.
package report

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/adlens-cli/internal/analysis"
	"github.com/KaramelBytes/adlens-cli/internal/utils"
)

// Writer renders one output format.
type Writer interface {
	Format() string
	Extension() string
	ContentType() string
	Write(w io.Writer, out *analysis.Output) error
}

var writers = map[string]Writer{
	"xlsx": xlsxWriter{},
	"csv":  csvWriter{},
	"json": jsonWriter{},
	"md":   markdownWriter{},
}

// Formats lists the supported format names.
func Formats() []string { return []string{"xlsx", "csv", "json", "md"} }

// ForFormat returns the writer for a format name such as "xlsx".
func ForFormat(name string) (Writer, error) {
	w, ok := writers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown report format %q (use %s)", name, strings.Join(Formats(), ", "))
	}
	return w, nil
}

// FormatFromPath guesses the format from a file name. ".zip" maps to csv,
// since the CSV report is an archive of one file per sheet.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return "xlsx"
	case ".csv", ".zip":
		return "csv"
	case ".json":
		return "json"
	case ".md", ".markdown", ".txt":
		return "md"
	default:
		return ""
	}
}

// Render writes out into memory with the given writer.
func Render(w Writer, out *analysis.Output) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Write(&buf, out); err != nil {
		return nil, fmt.Errorf("render %s: %w", w.Format(), err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders out and writes it atomically to path.
func WriteFile(path string, w Writer, out *analysis.Output) error {
	data, err := Render(w, out)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, data)
}

// sheet is one table of the report, with its stable key and display name.
type sheet struct {
	key    string
	name   string
	header []string
	rows   [][]any
}

// buildSheets lays out the full table, the non-empty buckets and the summary.
func buildSheets(out *analysis.Output) []sheet {
	loc := out.Locale()
	keys := out.ColumnKeys()
	header := make([]string, len(keys))
	for i, k := range keys {
		header[i] = loc.Column(k)
	}
	table := func(key string, rows []analysis.AdMetrics) sheet {
		s := sheet{key: key, name: loc.Sheet(key), header: header}
		for _, m := range rows {
			r := make([]any, len(keys))
			for i, k := range keys {
				r[i] = m.Value(k)
			}
			s.rows = append(s.rows, r)
		}
		return s
	}

	sheets := []sheet{table(analysis.SheetAll, out.Rows)}
	for _, b := range []struct {
		key  string
		rows []analysis.AdMetrics
	}{
		{analysis.SheetRemove, out.Remove},
		{analysis.SheetScale, out.Scale},
		{analysis.SheetOptimize, out.Optimize},
	} {
		if len(b.rows) > 0 {
			sheets = append(sheets, table(b.key, b.rows))
		}
	}
	return append(sheets, summarySheet(out, loc))
}

func summarySheet(out *analysis.Output, loc *analysis.Locale) sheet {
	s := out.Summary
	type kv struct {
		key string
		val any
	}
	items := []kv{
		{analysis.SumTotalLeads, s.TotalLeads},
		{analysis.SumAdOrders, s.AdOrders},
		{analysis.SumOtherOrders, s.OtherOrders},
		{analysis.SumMatchedOrders, s.MatchedOrders},
		{analysis.SumUnmatchedOrders, s.UnmatchedOrders},
		{analysis.SumTotalSpent, s.TotalSpent},
		{analysis.SumConversion, s.ConversionPct},
	}
	if out.HasRevenue {
		items = append(items,
			kv{analysis.SumTotalRevenue, *s.TotalRevenue},
			kv{analysis.SumTotalProfit, *s.TotalProfit},
			kv{analysis.SumROI, *s.ROIPct},
			kv{analysis.SumScaleProfit, *s.ScaleProfit},
			kv{analysis.SumScalePotential, *s.ScaleProfitPotential},
		)
	}
	items = append(items, kv{analysis.SumSavings, s.PotentialSavings})

	d := s.Distribution
	for _, a := range []struct {
		act analysis.Action
		n   int
		pct float64
	}{
		{analysis.ActionRemove, d.Remove, d.RemovePct},
		{analysis.ActionScale, d.Scale, d.ScalePct},
		{analysis.ActionOptimize, d.Optimize, d.OptimizePct},
		{analysis.ActionMonitor, d.Monitor, d.MonitorPct},
	} {
		items = append(items, kv{loc.Actions[a.act], a.n}, kv{loc.Actions[a.act] + ", %", a.pct})
	}

	sh := sheet{key: analysis.SheetSummary, name: loc.Sheet(analysis.SheetSummary)}
	for _, it := range items {
		sh.rows = append(sh.rows, []any{loc.Label(it.key), it.val})
	}
	return sh
}
