package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/adlens-cli/internal/analysis"
)

const jsonBody = `{
 "ads": [
  {"Ad ID": "1", "Leads": 100, "Spent": 10000},
  {"Ad ID": "2", "Leads": 10, "Spent": 100}
 ],
 "crm": [
  {"Client": "a", "Ad ID": "2", "Revenue": 1000},
  {"Client": "b", "Ad ID": "2", "Revenue": 1000},
  {"Client": "c", "Ad ID": "organic", "Revenue": 500}
 ]
}`

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(Config{Analysis: analysis.DefaultOptions()}, nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestHealthAndReadiness(t *testing.T) {
	s, ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)

	resp, _ = get(t, ts.URL+"/readyz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	s.SetReady(false)
	resp, _ = get(t, ts.URL+"/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAnalyzeJSON(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/analyze", "application/json", strings.NewReader(jsonBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"), "request id header should be echoed")

	var out analysis.Output
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Rows, 2)
	assert.True(t, out.HasRevenue)
	require.Len(t, out.Remove, 1)
	assert.Equal(t, "1", out.Remove[0].ID)
	assert.Equal(t, 2, out.Summary.AdOrders)
	assert.Equal(t, 1, out.Summary.OtherOrders)
}

func TestAnalyzeLanguageQuery(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/analyze?lang=ru", "application/json", strings.NewReader(jsonBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out analysis.Output
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "ru", out.Language)
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, content := range files {
		fw, err := mw.CreateFormFile(field, field+".csv")
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestAnalyzeMultipartXLSX(t *testing.T) {
	_, ts := newTestServer(t)

	body, ct := multipartBody(t, map[string]string{
		"ads": "Ad ID;Leads;Spent\n1;100;10000\n2;10;100\n",
		"crm": "Client;Ad ID;Revenue\na;2;1000\nb;2;1000\n",
	})
	resp, err := http.Post(ts.URL+"/analyze?format=xlsx", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "adlens-report.xlsx")

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "All ads")
	assert.Contains(t, f.GetSheetList(), "Summary")
}

func TestAnalyzeMissingColumns(t *testing.T) {
	_, ts := newTestServer(t)

	body := `{"ads":[{"Ad ID":"1","Leads":3}],"crm":[{"Client":"a","Ad ID":"1"}]}`
	resp, err := http.Post(ts.URL+"/analyze", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var got struct {
		Error      string   `json:"error"`
		MissingAds []string `json:"missing_ads"`
		MissingCRM []string `json:"missing_crm"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, []string{"spent"}, got.MissingAds)
	assert.Empty(t, got.MissingCRM)
	assert.Contains(t, got.Error, "spent")
}

func TestAnalyzeBadRequests(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name, query, contentType, body string
	}{
		{"unknown format", "?format=pdf", "application/json", jsonBody},
		{"malformed json", "", "application/json", `{"ads": [`},
		{"missing crm", "", "application/json", `{"ads": []}`},
		{"nested values", "", "application/json", `{"ads":[{"Ad ID":{"x":1}}],"crm":[]}`},
		{"unsupported content type", "", "text/plain", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/analyze"+tt.query, tt.contentType, strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestMetricsExposeAnalyses(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/analyze", "application/json", strings.NewReader(jsonBody))
	require.NoError(t, err)
	resp.Body.Close()

	resp, body := get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `adlens_analyses_total{result="ok"} 1`)
	assert.Contains(t, body, `adlens_input_rows_total{table="ads"} 2`)
}

func TestCORSHeaders(t *testing.T) {
	_, ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
