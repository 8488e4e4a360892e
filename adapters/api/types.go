package api

import (
	"sort"
	"time"

	"autobi/domain/dataset"
	"autobi/domain/profiling"
	"autobi/domain/report"
	"autobi/internal/dashboard"
	"autobi/internal/kpi"
)

// Options are the analysis options of a request. In a multipart upload they
// travel as JSON in the "options" form field.
type Options struct {
	Template    string            `json:"template"`
	Plan        string            `json:"plan"`
	Period      string            `json:"period"`
	Compare     bool              `json:"compare"`
	Industry    string            `json:"industry"`
	Goals       []dashboard.Goal  `json:"goals"`
	Mapping     profiling.Mapping `json:"mapping"`
	AutoMapping bool              `json:"auto_mapping"`
	Now         *time.Time        `json:"now,omitempty"`
}

// AnalyzeRequest is an inline JSON dataset with its options. Headers fix
// the column order; when omitted, the union of row keys is used in sorted
// order.
type AnalyzeRequest struct {
	Options
	Headers []string                 `json:"headers"`
	Rows    []map[string]interface{} `json:"rows"`
}

// AskRequest asks a question about a stored report or an inline one
type AskRequest struct {
	ReportID string         `json:"report_id"`
	Report   *report.Report `json:"report"`
	Question string         `json:"question"`
}

// TemplateInfo lists a template and its default KPIs
type TemplateInfo struct {
	Name string           `json:"name"`
	KPIs []kpi.Definition `json:"kpis"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (o Options) request(ds *dataset.Dataset) dashboard.Request {
	req := dashboard.Request{
		Dataset:     ds,
		Mapping:     o.Mapping,
		Template:    o.Template,
		Plan:        o.Plan,
		Period:      o.Period,
		Compare:     o.Compare,
		Industry:    o.Industry,
		Goals:       o.Goals,
		AutoMapping: o.AutoMapping,
	}
	if o.Now != nil {
		req.Now = *o.Now
	}
	return req
}

func headersOf(rows []map[string]interface{}) []string {
	seen := map[string]bool{}
	headers := []string{}
	for _, row := range rows {
		for key := range row {
			if !seen[key] {
				seen[key] = true
				headers = append(headers, key)
			}
		}
	}
	sort.Strings(headers)
	return headers
}
