package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/KaramelBytes/adlens-cli/internal/analysis"
	"github.com/KaramelBytes/adlens-cli/internal/parser"
	"github.com/KaramelBytes/adlens-cli/internal/report"
	"github.com/KaramelBytes/adlens-cli/internal/table"
)

// jsonInput is the JSON request body: two arrays of flat row objects.
type jsonInput struct {
	Ads json.RawMessage `json:"ads"`
	CRM json.RawMessage `json:"crm"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := strings.ToLower(strings.TrimSpace(q.Get("format")))
	var writer report.Writer
	if format != "" && format != "json" {
		var err error
		if writer, err = report.ForFormat(format); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	popt := s.cfg.Parser
	if name := q.Get("sheet_name"); name != "" {
		popt.SheetName = name
	}
	ads, crm, err := s.readInputs(r, popt)
	if err != nil {
		s.metrics.observeFailure("bad_input")
		writeError(w, http.StatusBadRequest, err)
		return
	}

	opt := s.cfg.Analysis
	if lang := q.Get("lang"); lang != "" {
		opt.Language = lang
	}
	out, err := analysis.Analyze(ads, crm, opt)
	if err != nil {
		var mc *analysis.MissingColumnsError
		if errors.As(err, &mc) {
			s.metrics.observeFailure("missing_columns")
			writeMissingColumns(w, mc)
			return
		}
		s.metrics.observeFailure("error")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.metrics.observeAnalysis(out)
	s.log.Debug("analysis done",
		zap.String("rid", middleware.GetReqID(r.Context())),
		zap.Int("ads", len(out.Rows)),
		zap.Int("warnings", len(out.Warnings)),
	)

	if writer == nil {
		writeJSON(w, http.StatusOK, out)
		return
	}
	data, err := report.Render(writer, out)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", writer.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="adlens-report%s"`, writer.Extension()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// readInputs accepts either a multipart upload with "ads" and "crm" files or
// a JSON body.
func (s *Server) readInputs(r *http.Request, opt parser.Options) (*table.Table, *table.Table, error) {
	ct := r.Header.Get("Content-Type")
	mt := "application/json"
	if ct != "" {
		var err error
		if mt, _, err = mime.ParseMediaType(ct); err != nil {
			return nil, nil, fmt.Errorf("content type: %w", err)
		}
	}
	switch mt {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
			return nil, nil, fmt.Errorf("parse form: %w", err)
		}
		ads, err := formTable(r, "ads", opt)
		if err != nil {
			return nil, nil, err
		}
		crm, err := formTable(r, "crm", opt)
		if err != nil {
			return nil, nil, err
		}
		return ads, crm, nil
	case "application/json":
		var in jsonInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return nil, nil, fmt.Errorf("decode body: %w", err)
		}
		if len(in.Ads) == 0 || len(in.CRM) == 0 {
			return nil, nil, errors.New(`body must contain "ads" and "crm" arrays`)
		}
		ads, err := parser.Read("ads.json", bytes.NewReader(in.Ads), opt)
		if err != nil {
			return nil, nil, err
		}
		crm, err := parser.Read("crm.json", bytes.NewReader(in.CRM), opt)
		if err != nil {
			return nil, nil, err
		}
		return ads, crm, nil
	default:
		return nil, nil, fmt.Errorf("unsupported content type %q", mt)
	}
}

func formTable(r *http.Request, field string, opt parser.Options) (*table.Table, error) {
	f, fh, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("form file %q: %w", field, err)
	}
	defer f.Close()
	name := fh.Filename
	if name == "" {
		name = field + ".csv"
	}
	return parser.Read(name, f, opt)
}
