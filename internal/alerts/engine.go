// Package alerts raises goal, anomaly, trend and threshold alerts and caps
// them by plan.
package alerts

import (
	"fmt"
	"math"
	"sort"

	"autobi/domain/dataset"
	"autobi/domain/report"
	"autobi/internal/aggregate"
	"autobi/internal/numeric"
)

// Config holds alert thresholds and the plan caps. A cap of zero or less
// means unbounded.
type Config struct {
	Goal              float64             `yaml:"goal"`
	GoalNearPct       float64             `yaml:"goal_near_pct"`
	AnomalySigmas     float64             `yaml:"anomaly_sigmas"`
	MaxAnomalies      int                 `yaml:"max_anomalies"`
	TrendMinRows      int                 `yaml:"trend_min_rows"`
	TrendChangePct    float64             `yaml:"trend_change_pct"`
	MinAvgPerCustomer float64             `yaml:"min_avg_per_customer"`
	PlanCaps          map[report.Plan]int `yaml:"plan_caps"`
}

// DefaultConfig returns the standard alert settings
func DefaultConfig() Config {
	return Config{
		Goal:              20000,
		GoalNearPct:       85,
		AnomalySigmas:     3,
		MaxAnomalies:      3,
		TrendMinRows:      4,
		TrendChangePct:    20,
		MinAvgPerCustomer: 500,
		PlanCaps: map[report.Plan]int{
			report.PlanFree:       3,
			report.PlanStarter:    5,
			report.PlanPro:        10,
			report.PlanEnterprise: 0,
		},
	}
}

// Input is what the checks read. Value and Date name resolved columns and
// may be empty.
type Input struct {
	Dataset *dataset.Dataset
	Value   string
	Date    string
	KPIs    report.KPISet
	Plan    report.Plan
}

// Engine runs the alert checks
type Engine struct {
	config Config
}

// NewEngine creates an alert engine
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// Generate runs every check, sorts by severity and applies the plan cap
func (e *Engine) Generate(in Input) []report.Alert {
	alerts := []report.Alert{}
	alerts = append(alerts, e.goal(in.KPIs)...)
	if in.Value != "" {
		alerts = append(alerts, e.anomalies(in.Dataset.Values(in.Value))...)
		if in.Date != "" {
			alerts = append(alerts, e.trend(in.Dataset.Values(in.Date), in.Dataset.Values(in.Value))...)
		}
	}
	alerts = append(alerts, e.threshold(in.KPIs)...)

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity.Rank() < alerts[j].Severity.Rank()
	})
	if limit := e.Cap(in.Plan); limit > 0 && len(alerts) > limit {
		alerts = alerts[:limit]
	}
	return alerts
}

// Cap returns the alert limit of a plan; unknown plans get the free cap
func (e *Engine) Cap(plan report.Plan) int {
	if limit, ok := e.config.PlanCaps[plan]; ok {
		return limit
	}
	return e.config.PlanCaps[report.PlanFree]
}

func action(s string) *string { return &s }

func (e *Engine) goal(kpis report.KPISet) []report.Alert {
	revenue := kpis.Number("total_revenue")
	if revenue <= 0 || e.config.Goal <= 0 {
		return nil
	}
	progress := revenue / e.config.Goal * 100
	switch {
	case progress >= 100:
		return []report.Alert{{
			Type:     "goal_achieved",
			Severity: report.SeverityInfo,
			Icon:     "🎯",
			Title:    "Goal reached!",
			Message:  fmt.Sprintf("Congratulations! You reached %.1f%% of the R$ %.2f goal", progress, e.config.Goal),
		}}
	case progress >= e.config.GoalNearPct:
		return []report.Alert{{
			Type:     "goal_near",
			Severity: report.SeverityInfo,
			Icon:     "🎯",
			Title:    "Almost there!",
			Message:  fmt.Sprintf("You are %.1f%% away from your goal (R$ %.2f)", 100-progress, e.config.Goal-revenue),
			Action:   action("keep_going"),
		}}
	}
	return nil
}

// anomalies counts values beyond mean ± k·std; more than MaxAnomalies on a
// side is treated as systemic and not reported
func (e *Engine) anomalies(values []dataset.Value) []report.Alert {
	data := dataset.Floats(values)
	std := numeric.SampleStd(data)
	if math.IsNaN(std) {
		return nil
	}
	mean := numeric.Mean(data)
	low, high := 0, 0
	for _, x := range data {
		switch {
		case x < mean-e.config.AnomalySigmas*std:
			low++
		case x > mean+e.config.AnomalySigmas*std:
			high++
		}
	}

	var out []report.Alert
	if low > 0 && low <= e.config.MaxAnomalies {
		out = append(out, report.Alert{
			Type:     "anomaly_low",
			Severity: report.SeverityWarning,
			Icon:     "⚠️",
			Title:    "Unusually low values",
			Message:  fmt.Sprintf("%d records far below the mean - investigate!", low),
			Action:   action("investigate"),
		})
	}
	if high > 0 && high <= e.config.MaxAnomalies {
		out = append(out, report.Alert{
			Type:     "anomaly_high",
			Severity: report.SeverityInfo,
			Icon:     "🚀",
			Title:    "Performance peaks",
			Message:  fmt.Sprintf("%d records with exceptional performance - see what worked!", high),
			Action:   action("analyze"),
		})
	}
	return out
}

// trend compares the average of the later half of the dated rows with the
// earlier half
func (e *Engine) trend(dates, values []dataset.Value) []report.Alert {
	first, second, dated := aggregate.Halves(dates, values)
	if dated < e.config.TrendMinRows || len(first) == 0 || len(second) == 0 {
		return nil
	}
	firstAvg := numeric.Mean(first)
	if firstAvg <= 0 {
		return nil
	}
	change := (numeric.Mean(second) - firstAvg) / firstAvg * 100

	switch {
	case change < -e.config.TrendChangePct:
		return []report.Alert{{
			Type:     "trend_down",
			Severity: report.SeverityCritical,
			Icon:     "🔴",
			Title:    "Alert: significant drop",
			Message:  fmt.Sprintf("Your values fell %.1f%% in the recent period", -change),
			Action:   action("urgent_review"),
		}}
	case change > e.config.TrendChangePct:
		return []report.Alert{{
			Type:     "trend_up",
			Severity: report.SeverityInfo,
			Icon:     "🟢",
			Title:    "Accelerated growth",
			Message:  fmt.Sprintf("Your values grew %.1f%% in the recent period!", change),
			Action:   action("celebrate"),
		}}
	}
	return nil
}

func (e *Engine) threshold(kpis report.KPISet) []report.Alert {
	customers := kpis.Number("total_customers")
	if customers <= 0 {
		return nil
	}
	avg := kpis.Number("total_revenue") / math.Max(customers, 1)
	if avg >= e.config.MinAvgPerCustomer {
		return nil
	}
	return []report.Alert{{
		Type:     "threshold_low",
		Severity: report.SeverityWarning,
		Icon:     "💰",
		Title:    "Revenue below expectations",
		Message:  fmt.Sprintf("Average of R$ %.2f per transaction is below target", avg),
		Action:   action("optimize_pricing"),
	}}
}
