// Package report defines the versioned result returned by a dashboard analysis.
package report

import (
	"encoding/json"
	"fmt"

	"autobi/domain/core"
	"autobi/domain/profiling"
)

// Version of the report layout
const Version = "1.0"

// Status tells whether the report carries computed content
type Status string

const (
	StatusOK    Status = "ok"
	StatusEmpty Status = "empty"
)

// Severity orders alerts and problems
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"

	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank returns the sort position of a severity; unknown values sort last
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical, SeverityHigh:
		return 0
	case SeverityWarning, SeverityMedium:
		return 1
	case SeverityInfo, SeverityLow:
		return 2
	}
	return 3
}

// Priority orders chart suggestions
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns the sort position of a priority
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// Insight is a narrative finding
type Insight struct {
	Type    string `json:"type"`
	Icon    string `json:"icon"`
	Message string `json:"message"`
}

// Problem is a data-quality finding
type Problem struct {
	Type     string   `json:"type"`
	Icon     string   `json:"icon"`
	Severity Severity `json:"severity"`
	Column   *string  `json:"column"`
	Message  string   `json:"message"`
	Count    int      `json:"count"`
}

// Alert is a plan-capped notification
type Alert struct {
	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
	Icon     string   `json:"icon"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Action   *string  `json:"action"`
}

// Suggestion proposes a chart
type Suggestion struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Icon        string   `json:"icon,omitempty"`
	X           string   `json:"x,omitempty"`
	Y           string   `json:"y,omitempty"`
	Column      string   `json:"column,omitempty"`
	Priority    Priority `json:"priority"`
}

// ForecastPoint is one projected day
type ForecastPoint struct {
	Day   int    `json:"day"`
	Value Float  `json:"value"`
	Lower *Float `json:"lower_bound,omitempty"`
	Upper *Float `json:"upper_bound,omitempty"`
}

// Prediction is a short-horizon forecast
type Prediction struct {
	Method               string          `json:"method"`
	NextPeriodPrediction Float           `json:"next_period_prediction"`
	TrendDirection       string          `json:"trend_direction"`
	TrendPercentage      Float           `json:"trend_percentage"`
	Confidence           string          `json:"confidence"`
	ShortHorizon         []ForecastPoint `json:"short_horizon_points"`
	MinPredicted         Float           `json:"min_predicted"`
	MaxPredicted         Float           `json:"max_predicted"`
	Recommendations      []string        `json:"recommendations"`
}

// PredictionSection holds an optional prediction; absent marshals as {}
type PredictionSection struct {
	Result *Prediction
}

// Present reports whether a prediction was produced
func (p PredictionSection) Present() bool { return p.Result != nil }

// MarshalJSON implements json.Marshaler
func (p PredictionSection) MarshalJSON() ([]byte, error) {
	if p.Result == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p.Result)
}

// UnmarshalJSON implements json.Unmarshaler
func (p *PredictionSection) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if len(probe) == 0 {
		p.Result = nil
		return nil
	}
	var result Prediction
	if err := json.Unmarshal(data, &result); err != nil {
		return err
	}
	p.Result = &result
	return nil
}

// ExecutiveSummary is the headline block
type ExecutiveSummary struct {
	HeadlineGrowthPct Float  `json:"headline_growth_pct"`
	AvgTicket         Float  `json:"avg_ticket"`
	TotalRevenue      Float  `json:"total_revenue"`
	TotalCustomers    int    `json:"total_customers"`
	DataQualityScore  Float  `json:"data_quality_score"`
	DataQualityLevel  string `json:"data_quality_level"`
	ComparisonEnabled bool   `json:"comparison_enabled,omitempty"`
}

// Benchmark places the average ticket within an industry distribution
type Benchmark struct {
	Industry                  string  `json:"industry"`
	AvgTicketVsIndustryPctile int     `json:"avg_ticket_vs_industry_percentile"`
	IndustryAvgTicketEstimate float64 `json:"industry_avg_ticket_estimate"`
}

// GoalProgress tracks one declared target
type GoalProgress struct {
	Metric      string  `json:"metric"`
	Target      Float   `json:"target"`
	Current     Float   `json:"current"`
	ProgressPct Float   `json:"progress_pct"`
	Deadline    *string `json:"deadline"`
}

// Goals lists declared targets
type Goals struct {
	Defined bool           `json:"defined"`
	Items   []GoalProgress `json:"items"`
}

// Impact holds rough financial upside estimates
type Impact struct {
	RecoverInactiveCustomers Float `json:"recover_inactive_customers"`
	OptimizeDiscounts        Float `json:"optimize_discounts"`
	IncreaseAvgTicket5Pct    Float `json:"increase_avg_ticket_5pct"`
}

// DetectedColumns names the columns resolved for report-level charts
type DetectedColumns struct {
	Value    *string `json:"value"`
	Quantity *string `json:"quantity"`
	Date     *string `json:"date"`
	Product  *string `json:"product"`
}

// Options echoes the request options
type Options struct {
	Template string `json:"template"`
	Plan     string `json:"plan"`
	Period   string `json:"period"`
	Compare  bool   `json:"compare"`
	Industry string `json:"industry"`
}

// Metadata carries detection results and request echo
type Metadata struct {
	DetectedColumns DetectedColumns       `json:"detected_columns"`
	ColumnKinds     profiling.ColumnKinds `json:"column_kinds"`
	Options         Options               `json:"options"`
	Enhancement     string                `json:"enhancement"`
}

// Analysis is the structural analysis the report was derived from
type Analysis struct {
	Columns       []profiling.ColumnProfile    `json:"columns"`
	Relationships []profiling.RelationshipEdge `json:"relationships"`
	Schema        profiling.Schema             `json:"inferred_schema"`
	AutoKPIs      KPISet                       `json:"auto_kpis"`
	Suggestions   []Suggestion                 `json:"suggested_visualizations"`
	QualityScore  Float                        `json:"data_quality_score"`
	QualityLevel  string                       `json:"data_quality_level"`
}

// Report is the result of one dashboard analysis
type Report struct {
	ID               core.ReportID       `json:"id"`
	Version          string              `json:"version"`
	Template         string              `json:"template"`
	Status           Status              `json:"status"`
	KPIs             KPISet              `json:"kpis"`
	Charts           map[string][]Record `json:"charts"`
	Insights         []Insight           `json:"insights"`
	DataQuality      []Problem           `json:"data_quality"`
	ChartSuggestions []Suggestion        `json:"chart_suggestions"`
	Predictions      PredictionSection   `json:"predictions"`
	Alerts           []Alert             `json:"alerts"`
	ExecutiveSummary ExecutiveSummary    `json:"executive_summary"`
	Benchmark        Benchmark           `json:"benchmark"`
	Goals            Goals               `json:"goals"`
	ImpactEstimates  Impact              `json:"impact_estimates"`
	Analysis         *Analysis           `json:"analysis,omitempty"`
	Metadata         Metadata            `json:"metadata"`
}

// New returns a report with every list and map initialised, so empty
// sections serialize as [] and {} rather than null
func New(template string) *Report {
	return &Report{
		Version:          Version,
		Template:         template,
		Status:           StatusOK,
		KPIs:             KPISet{},
		Charts:           map[string][]Record{},
		Insights:         []Insight{},
		DataQuality:      []Problem{},
		ChartSuggestions: []Suggestion{},
		Alerts:           []Alert{},
		Goals:            Goals{Items: []GoalProgress{}},
	}
}

// Seal stamps the report with an identifier derived from its content
func (r *Report) Seal() error {
	r.ID = ""
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	r.ID = core.ReportID(core.NewContentID(core.NewHash(raw)))
	return nil
}

// StringPtr is a small helper for optional string fields
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
