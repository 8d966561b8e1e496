package parser_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/adlens-cli/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSVSemicolonWithBOM(t *testing.T) {
	data := "\ufeffID объявления;Результат;Цена за результат, ₽;Потрачено всего, ₽\n101;10;\"150,5\";1505\n\n102;;;\n"
	tb, err := parser.Read("ads.csv", strings.NewReader(data), parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ID объявления", "Результат", "Цена за результат, ₽", "Потрачено всего, ₽"}, tb.Columns)
	require.Equal(t, 2, tb.Len())
	assert.Equal(t, "150,5", tb.Cell(0, 2))
	assert.Equal(t, "102", tb.Cell(1, 0))
	assert.Equal(t, "ads.csv", tb.Name)
}

func TestReadCSVCommaAndExplicitDelimiter(t *testing.T) {
	tb, err := parser.Read("a.csv", strings.NewReader("id,leads\n1,5\n"), parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "leads"}, tb.Columns)

	tb, err = parser.Read("a.csv", strings.NewReader("id|leads\n1|5\n"), parser.Options{Delimiter: '|'})
	require.NoError(t, err)
	assert.Equal(t, "5", tb.Cell(0, 1))
}

func TestReadTSVFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "crm.tsv")
	require.NoError(t, os.WriteFile(p, []byte("Client\tID\nann\t7\n"), 0o644))
	tb, err := parser.ReadFile(p, parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Client", "ID"}, tb.Columns)
	assert.Equal(t, "7", tb.Cell(0, 1))
}

func TestReadXLSXSheetSelection(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "book.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"ID", "Leads"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{12345, 10}))
	_, err := f.NewSheet("CRM")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("CRM", "A1", &[]any{"Client", "Source"}))
	require.NoError(t, f.SetSheetRow("CRM", "A2", &[]any{"ann", "organic"}))
	require.NoError(t, f.SaveAs(p))
	require.NoError(t, f.Close())

	tb, err := parser.ReadFile(p, parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "Leads"}, tb.Columns)
	assert.Equal(t, "12345", tb.Cell(0, 0))

	tb, err = parser.ReadFile(p, parser.Options{SheetName: "CRM"})
	require.NoError(t, err)
	assert.Equal(t, "organic", tb.Cell(0, 1))

	tb, err = parser.ReadFile(p, parser.Options{SheetIndex: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Client", "Source"}, tb.Columns)

	_, err = parser.ReadFile(p, parser.Options{SheetName: "nope"})
	assert.ErrorContains(t, err, "not found")
	_, err = parser.ReadFile(p, parser.Options{SheetIndex: 9})
	assert.ErrorContains(t, err, "out of range")
}

func TestReadJSONKeepsKeyOrder(t *testing.T) {
	body := `[{"ID":"1","Leads":10,"Spent":100.5},{"Spent":null,"ID":2,"Extra":true}]`
	tb, err := parser.Read("ads.json", strings.NewReader(body), parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "Leads", "Spent", "Extra"}, tb.Columns)
	assert.Equal(t, []string{"1", "10", "100.5", ""}, tb.Rows[0])
	assert.Equal(t, []string{"2", "", "", "true"}, tb.Rows[1])
}

func TestReadJSONRejectsNested(t *testing.T) {
	_, err := parser.Read("a.json", strings.NewReader(`[{"a":{"b":1}}]`), parser.Options{})
	assert.Error(t, err)
	_, err = parser.Read("a.json", strings.NewReader(`{"a":1}`), parser.Options{})
	assert.Error(t, err)
}

func TestUnsupportedFormats(t *testing.T) {
	_, err := parser.Read("legacy.xls", strings.NewReader(""), parser.Options{})
	assert.True(t, errors.Is(err, parser.ErrUnsupported))
	_, err = parser.Read("notes.pdf", strings.NewReader(""), parser.Options{})
	assert.True(t, errors.Is(err, parser.ErrUnsupported))
	assert.True(t, parser.Supported("X.CSV"))
	assert.False(t, parser.Supported("x.docx"))
}
