package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"autobi/domain/core"
	"autobi/domain/dataset"
	"autobi/domain/report"
	"autobi/internal/dashboard"
	"autobi/internal/errors"
	"autobi/internal/kpi"
)

const inlineSource = "inline"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ds, opts, source, err := s.readInput(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	rep, err := s.analyzer.Analyze(r.Context(), opts.request(ds))
	if err != nil {
		s.writeError(w, err)
		return
	}

	if s.reports != nil {
		if err := s.reports.Save(r.Context(), source, rep); err != nil {
			s.logger.Warn("report %s not stored: %v", rep.ID, err)
		}
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	ds, _, _, err := s.readInput(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	profile, err := s.analyzer.Profile(r.Context(), ds)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	rep := req.Report
	if rep == nil {
		if req.ReportID == "" {
			s.writeError(w, errors.InvalidInput("report or report_id is required"))
			return
		}
		stored, err := s.lookup(r, req.ReportID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		rep = stored
	}
	writeJSON(w, http.StatusOK, dashboard.AnswerQuestion(rep, req.Question))
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	out := make([]TemplateInfo, 0, len(report.Templates))
	for _, t := range report.Templates {
		defs, err := kpi.SuggestedKPIs(string(t))
		if err != nil {
			s.writeError(w, err)
			return
		}
		out = append(out, TemplateInfo{Name: string(t), KPIs: defs})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		s.writeError(w, errors.NotFound("report history"))
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, errors.InvalidInput(fmt.Sprintf("invalid limit %q", raw)))
			return
		}
		limit = n
	}
	summaries, err := s.reports.ListRecent(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.lookup(r, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) lookup(r *http.Request, rawID string) (*report.Report, error) {
	if s.reports == nil {
		return nil, errors.NotFound("report history")
	}
	id, err := core.ParseReportID(rawID)
	if err != nil {
		return nil, &errors.AppError{Code: errors.CodeInvalidInput, Message: "invalid report id", Cause: err}
	}
	return s.reports.GetByID(r.Context(), id)
}

// readInput accepts either a multipart upload (field "file", optional JSON
// "options") or an inline JSON dataset
func (s *Server) readInput(w http.ResponseWriter, r *http.Request) (*dataset.Dataset, Options, string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return s.readUpload(w, r)
	}

	var req AnalyzeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		return nil, Options{}, "", err
	}
	if s.config.MaxRows > 0 && len(req.Rows) > s.config.MaxRows {
		return nil, Options{}, "", errors.InvalidInput(fmt.Sprintf("request has %d rows, the limit is %d", len(req.Rows), s.config.MaxRows))
	}
	headers := req.Headers
	if len(headers) == 0 {
		headers = headersOf(req.Rows)
	}
	ds, err := s.coercer.FromRecords(headers, req.Rows)
	if err != nil {
		return nil, Options{}, "", errors.Invalid(err)
	}
	return ds, req.Options, inlineSource, nil
}

func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*dataset.Dataset, Options, string, error) {
	if s.config.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, Options{}, "", &errors.AppError{Code: errors.CodeInvalidInput, Message: "invalid upload", Cause: err}
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, Options{}, "", errors.InvalidInput("no file uploaded")
	}
	defer file.Close()

	var opts Options
	if raw := r.FormValue("options"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opts); err != nil {
			return nil, Options{}, "", &errors.AppError{Code: errors.CodeInvalidInput, Message: "invalid options", Cause: err}
		}
	}

	ds, err := s.reader.Read(r.Context(), header.Filename, file)
	if err != nil {
		return nil, Options{}, "", err
	}
	return ds, opts, header.Filename, nil
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := r.Body
	if s.config.MaxUploadBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	}
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return &errors.AppError{Code: errors.CodeInvalidInput, Message: "invalid JSON body", Cause: err}
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
		message = "internal server error"
	}
	writeJSON(w, status, ErrorResponse{Error: message, Code: errors.GetCode(err)})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
