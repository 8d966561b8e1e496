package report

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/KaramelBytes/adlens-cli/internal/analysis"
	"github.com/KaramelBytes/adlens-cli/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleOutput(t *testing.T, lang string) *analysis.Output {
	t.Helper()
	ads := table.New("ads", []string{"ID", "Leads", "Spent"}, [][]string{
		{"1", "100", "10000"},
		{"2", "50", "5000"},
	})
	var crmRows [][]string
	for i := 0; i < 20; i++ {
		crmRows = append(crmRows, []string{"c" + strconv.Itoa(i), "2", "1000"})
	}
	crm := table.New("crm", []string{"Client", "ID", "Revenue"}, crmRows)
	out, err := analysis.Analyze(ads, crm, analysis.Options{Language: lang})
	require.NoError(t, err)
	return out
}

func TestXLSXWriterSheets(t *testing.T) {
	out := sampleOutput(t, "en")
	w, err := ForFormat("XLSX")
	require.NoError(t, err)
	data, err := Render(w, out)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	// no optimize rows, so that sheet is omitted
	assert.Equal(t, []string{"All ads", "Remove", "Scale", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("All ads")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Ad ID", rows[0][0])
	assert.Equal(t, "Recommendation", rows[0][len(rows[0])-1])
	assert.Equal(t, "2", rows[1][0], "highest ROI first")
	assert.Equal(t, "scale: high ROI; scale: high profit and ROI", rows[1][len(rows[1])-1])

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"Total leads", "150"}, summary[0])
}

func TestXLSXWriterRussianSheetNames(t *testing.T) {
	out := sampleOutput(t, "ru")
	data, err := Render(xlsxWriter{}, out)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Все объявления с рекомендациями", "УДАЛИТЬ", "МАСШТАБИРОВАТЬ", "Сводка"}, f.GetSheetList())
}

func TestCSVWriterArchive(t *testing.T) {
	out := sampleOutput(t, "en")
	data, err := Render(csvWriter{}, out)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"all.csv", "remove.csv", "scale.csv", "summary.csv"}, names)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	require.NoError(t, err)
	recs, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "Ad ID", recs[0][0])
	assert.Equal(t, "300", recs[1][len(out.ColumnKeys())-4], "ROI column")
}

func TestJSONAndMarkdownWriters(t *testing.T) {
	out := sampleOutput(t, "en")
	data, err := Render(jsonWriter{}, out)
	require.NoError(t, err)
	var back analysis.Output
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, out.Summary, back.Summary)
	assert.Equal(t, out.Averages, back.Averages)

	md, err := Render(markdownWriter{}, out)
	require.NoError(t, err)
	s := string(md)
	for _, sec := range []string{"[ANALYSIS SUMMARY]", "[RECOMMENDATIONS]", "[ADS]"} {
		assert.True(t, strings.Contains(s, sec), "missing %s", sec)
	}
}

func TestFormatLookup(t *testing.T) {
	_, err := ForFormat("pdf")
	assert.Error(t, err)
	assert.Equal(t, "xlsx", FormatFromPath("out/report.XLSX"))
	assert.Equal(t, "csv", FormatFromPath("report.csv.zip"))
	assert.Equal(t, "md", FormatFromPath("r.md"))
	assert.Equal(t, "", FormatFromPath("r"))
}

func TestWriteFile(t *testing.T) {
	out := sampleOutput(t, "en")
	p := filepath.Join(t.TempDir(), "r.json")
	require.NoError(t, WriteFile(p, jsonWriter{}, out))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.True(t, json.Valid(b))
	_, err = os.Stat(p + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
