package dashboard

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"

	"autobi/domain/profiling"
	"autobi/domain/report"
	"autobi/internal/numeric"
	"autobi/internal/quality"
)

// empty is the canonical report for input the engine cannot analyse
func (o *Orchestrator) empty(opts options) *report.Report {
	rep := report.New(string(opts.template))
	rep.Status = report.StatusEmpty

	switch opts.template {
	case report.TemplateSales:
		rep.KPIs = report.KPISet{
			"total_revenue":   report.Int(0),
			"total_customers": report.Int(0),
			"avg_ticket":      report.Int(0),
			"growth_rate":     report.Int(0),
		}
		rep.Charts[ChartSalesEvolution] = []report.Record{}
		rep.Charts[ChartTopProducts] = []report.Record{}
		rep.Charts[ChartCategorySales] = []report.Record{}
	case report.TemplateFinancial:
		rep.KPIs = report.KPISet{
			"total_revenue":  report.Int(0),
			"total_expenses": report.Int(0),
			"net_profit":     report.Int(0),
			"profit_margin":  report.Int(0),
		}
		rep.Charts[ChartRevenueByMonth] = []report.Record{}
	}

	rep.Metadata.ColumnKinds = profiling.ColumnKinds{
		Numeric:     []string{},
		Categorical: []string{},
		Date:        []string{},
		Boolean:     []string{},
	}
	rep.Metadata.Enhancement = o.enhancers.For(opts.plan).Name()
	return rep
}

// enrich adds the executive summary, benchmark, goals, impact estimates and
// request echo; it applies to empty reports too
func (o *Orchestrator) enrich(rep *report.Report, req Request, opts options) {
	rep.ExecutiveSummary = o.summary(rep, opts.template, req.Compare)
	rep.Benchmark = o.benchmark(req.Industry, rep.KPIs.Number("avg_ticket"))
	rep.Goals = goals(req.Goals, rep.KPIs)
	rep.ImpactEstimates = o.impact(rep.KPIs)
	rep.Metadata.Options = report.Options{
		Template: string(opts.template),
		Plan:     string(opts.plan),
		Period:   string(opts.period),
		Compare:  req.Compare,
		Industry: o.industry(req.Industry),
	}
}

func (o *Orchestrator) summary(rep *report.Report, template report.Template, compare bool) report.ExecutiveSummary {
	score, level := 0.0, string(quality.LevelPoor)
	if rep.Analysis != nil {
		score, level = float64(rep.Analysis.QualityScore), rep.Analysis.QualityLevel
	}
	return report.ExecutiveSummary{
		HeadlineGrowthPct: report.Float(numeric.Round(headlineGrowth(rep.Charts[evolutionChart(template)]), 1)),
		AvgTicket:         report.Float(numeric.Round(rep.KPIs.Number("avg_ticket"), 2)),
		TotalRevenue:      report.Float(numeric.Round(rep.KPIs.Number("total_revenue"), 2)),
		TotalCustomers:    int(rep.KPIs.Number("total_customers")),
		DataQualityScore:  report.Float(score),
		DataQualityLevel:  level,
		ComparisonEnabled: compare,
	}
}

func (o *Orchestrator) industry(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return o.config.DefaultIndustry
	}
	return name
}

// benchmark places the average ticket on a normal distribution around the
// industry's typical ticket. Unknown industries use the default industry's
// mean under their own name.
func (o *Orchestrator) benchmark(industry string, avgTicket float64) report.Benchmark {
	name := o.industry(industry)
	mean, ok := o.config.IndustryTickets[name]
	if !ok {
		mean = o.config.IndustryTickets[o.config.DefaultIndustry]
	}
	std := math.Max(o.config.BenchmarkStdFloor, mean*o.config.BenchmarkStdRatio)

	percentile := 50
	if std > 0 && !math.IsNaN(avgTicket) {
		z := (avgTicket - mean) / std
		p := math.RoundToEven(100 * distuv.UnitNormal.CDF(z))
		percentile = int(math.Max(1, math.Min(99, p)))
	}
	return report.Benchmark{
		Industry:                  name,
		AvgTicketVsIndustryPctile: percentile,
		IndustryAvgTicketEstimate: mean,
	}
}

// goals tracks revenue targets against total_revenue and any other metric
// against avg_ticket
func goals(declared []Goal, kpis report.KPISet) report.Goals {
	out := report.Goals{Defined: len(declared) > 0, Items: []report.GoalProgress{}}
	for _, g := range declared {
		current := kpis.Number("avg_ticket")
		if g.Metric == "revenue" {
			current = kpis.Number("total_revenue")
		}
		progress := 0.0
		if g.Target > 0 {
			progress = current / g.Target * 100
		}
		out.Items = append(out.Items, report.GoalProgress{
			Metric:      g.Metric,
			Target:      report.Float(g.Target),
			Current:     report.Float(current),
			ProgressPct: report.Float(numeric.Round(progress, 1)),
			Deadline:    report.StringPtr(g.Deadline),
		})
	}
	return out
}

func (o *Orchestrator) impact(kpis report.KPISet) report.Impact {
	revenue := kpis.Number("total_revenue")
	ticket := kpis.Number("avg_ticket")
	customers := math.Max(1, kpis.Number("total_customers"))
	return report.Impact{
		RecoverInactiveCustomers: report.Float(numeric.Round(revenue*o.config.InactiveRecoveryPct, 2)),
		OptimizeDiscounts:        report.Float(numeric.Round(revenue*o.config.DiscountSavingsPct, 2)),
		IncreaseAvgTicket5Pct:    report.Float(numeric.Round(ticket*o.config.TicketUpliftPct*customers, 2)),
	}
}
