package forecast

import "autobi/domain/report"

// Config holds forecasting settings
type Config struct {
	MinPoints     int                    `yaml:"min_points"`
	Horizon       int                    `yaml:"horizon"`
	ShortHorizon  int                    `yaml:"short_horizon"`
	SeasonLength  int                    `yaml:"season_length"`
	MinSeasons    int                    `yaml:"min_seasons"`
	RecentWindow  int                    `yaml:"recent_window"`
	IntervalLevel float64                `yaml:"interval_level"`
	HighRows      int                    `yaml:"high_rows"`
	HighMaxCV     float64                `yaml:"high_max_cv"`
	MediumRows    int                    `yaml:"medium_rows"`
	MediumMaxCV   float64                `yaml:"medium_max_cv"`
	TrendAlertPct float64                `yaml:"trend_alert_pct"`
	SurgeRatio    float64                `yaml:"surge_ratio"`
	DeclineRatio  float64                `yaml:"decline_ratio"`
	Policy        map[report.Plan]string `yaml:"policy"`
}

// Method names
const (
	MethodLinear      = "linear_regression"
	MethodHoltWinters = "holt_winters"

	policyLinear   = "linear"
	policyAdvanced = "advanced"
)

// DefaultConfig returns the standard forecasting settings
func DefaultConfig() Config {
	return Config{
		MinPoints:     3,
		Horizon:       30,
		ShortHorizon:  7,
		SeasonLength:  7,
		MinSeasons:    2,
		RecentWindow:  7,
		IntervalLevel: 0.95,
		HighRows:      30,
		HighMaxCV:     0.3,
		MediumRows:    15,
		MediumMaxCV:   0.5,
		TrendAlertPct: 10,
		SurgeRatio:    1.2,
		DeclineRatio:  0.8,
		Policy: map[report.Plan]string{
			report.PlanFree:       policyLinear,
			report.PlanStarter:    policyAdvanced,
			report.PlanPro:        policyAdvanced,
			report.PlanEnterprise: policyAdvanced,
		},
	}
}
