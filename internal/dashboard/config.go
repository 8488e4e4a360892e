package dashboard

import (
	"autobi/internal/alerts"
	"autobi/internal/classify"
	"autobi/internal/enhance"
	"autobi/internal/forecast"
	"autobi/internal/insights"
	"autobi/internal/kpi"
	"autobi/internal/quality"
	"autobi/internal/relationship"
	"autobi/internal/viz"
)

// Config holds report-assembly settings
type Config struct {
	TopProducts         int                `yaml:"top_products"`
	CategoryMinDistinct int                `yaml:"category_min_distinct"`
	CategoryMaxDistinct int                `yaml:"category_max_distinct"`
	CategoryTop         int                `yaml:"category_top"`
	BreakdownTop        int                `yaml:"breakdown_top"`
	HistogramBins       int                `yaml:"histogram_bins"`
	DefaultIndustry     string             `yaml:"default_industry"`
	IndustryTickets     map[string]float64 `yaml:"industry_tickets"`
	BenchmarkStdFloor   float64            `yaml:"benchmark_std_floor"`
	BenchmarkStdRatio   float64            `yaml:"benchmark_std_ratio"`
	InactiveRecoveryPct float64            `yaml:"inactive_recovery_pct"`
	DiscountSavingsPct  float64            `yaml:"discount_savings_pct"`
	TicketUpliftPct     float64            `yaml:"ticket_uplift_pct"`
}

// DefaultConfig returns the standard report settings
func DefaultConfig() Config {
	return Config{
		TopProducts:         5,
		CategoryMinDistinct: 2,
		CategoryMaxDistinct: 10,
		CategoryTop:         10,
		BreakdownTop:        10,
		HistogramBins:       10,
		DefaultIndustry:     "other",
		IndustryTickets: map[string]float64{
			"retail":        150,
			"ecommerce":     220,
			"services":      300,
			"technology":    450,
			"marketing":     350,
			"logistics":     400,
			"manufacturing": 380,
			"accounting":    280,
			"other":         250,
		},
		BenchmarkStdFloor:   30,
		BenchmarkStdRatio:   0.25,
		InactiveRecoveryPct: 0.08,
		DiscountSavingsPct:  0.04,
		TicketUpliftPct:     0.05,
	}
}

// Settings gathers the configuration of every engine component
type Settings struct {
	Dashboard    Config              `yaml:"dashboard"`
	Classify     classify.Config     `yaml:"classify"`
	Relationship relationship.Config `yaml:"relationship"`
	KPI          kpi.Config          `yaml:"kpi"`
	Viz          viz.Config          `yaml:"viz"`
	Quality      quality.Config      `yaml:"quality"`
	Insights     insights.Config     `yaml:"insights"`
	Forecast     forecast.Config     `yaml:"forecast"`
	Alerts       alerts.Config       `yaml:"alerts"`
	Enhance      enhance.Config      `yaml:"enhance"`
}

// DefaultSettings returns every component's defaults
func DefaultSettings() Settings {
	return Settings{
		Dashboard:    DefaultConfig(),
		Classify:     classify.DefaultConfig(),
		Relationship: relationship.DefaultConfig(),
		KPI:          kpi.DefaultConfig(),
		Viz:          viz.DefaultConfig(),
		Quality:      quality.DefaultConfig(),
		Insights:     insights.DefaultConfig(),
		Forecast:     forecast.DefaultConfig(),
		Alerts:       alerts.DefaultConfig(),
		Enhance:      enhance.DefaultConfig(),
	}
}
