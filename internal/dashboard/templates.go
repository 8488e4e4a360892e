package dashboard

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"autobi/domain/dataset"
	"autobi/domain/profiling"
	"autobi/domain/report"
	"autobi/internal/aggregate"
	"autobi/internal/numeric"
)

// Chart keys
const (
	ChartSalesEvolution    = "sales_evolution"
	ChartTopProducts       = "top_products"
	ChartCategorySales     = "category_sales"
	ChartValueDistribution = "value_distribution"
	ChartPaymentAnalysis   = "payment_analysis"
	ChartRegionSales       = "region_sales"
	ChartWeeklyTrend       = "weekly_trend"
	ChartRevenueByMonth    = "revenue_by_month"
	ChartEvolution         = "evolution"
	ChartBreakdown         = "breakdown"
)

// evolutionChart is the monthly series the headline growth is read from
func evolutionChart(t report.Template) string {
	switch t {
	case report.TemplateSales:
		return ChartSalesEvolution
	case report.TemplateFinancial:
		return ChartRevenueByMonth
	}
	return ChartEvolution
}

func (o *Orchestrator) sales(rep *report.Report, ds *dataset.Dataset, kinds profiling.ColumnKinds, m profiling.Mapping) {
	values := ds.Values(m.Value)
	revenue := numeric.Sum(dataset.Floats(values))
	rows := ds.Rows()

	quantity := 0.0
	if m.Quantity != "" {
		quantity = numeric.Sum(dataset.Floats(ds.Values(m.Quantity)))
	}

	evolution := []report.Record{}
	if m.Date != "" {
		evolution = monthly(aggregate.ByMonth(ds.Values(m.Date), values))
	}

	kpis := report.KPISet{
		"total_revenue":   report.Num(revenue),
		"total_customers": report.Int(rows),
		"avg_ticket":      report.Num(numeric.Ratio(revenue, float64(rows))),
		"total_quantity":  report.Num(quantity),
		"growth_rate":     report.Num(numeric.Round(headlineGrowth(evolution), 1)),
	}
	domain, err := o.kpis.Domain(ds)
	if err != nil {
		o.logger.Warn("domain KPIs incomplete: %v", err)
	}
	rep.KPIs = kpis.Merge(domain)

	rep.Charts[ChartSalesEvolution] = evolution
	rep.Charts[ChartTopProducts] = o.topProducts(ds, m)
	rep.Charts[ChartCategorySales] = o.categorySales(ds, kinds, m)
	rep.Charts[ChartValueDistribution] = histogram(dataset.Floats(values), o.config.HistogramBins)

	if col := o.suggester.PaymentColumn(ds); col != "" {
		rep.Charts[ChartPaymentAnalysis] = paymentAnalysis(aggregate.By(ds.Values(col), values))
	}
	if col := o.suggester.RegionColumn(ds); col != "" {
		rep.Charts[ChartRegionSales] = regionSales(aggregate.By(ds.Values(col), values))
	}
	if m.Date != "" {
		rep.Charts[ChartWeeklyTrend] = weekly(aggregate.ByISOWeek(ds.Values(m.Date), values))
	}
}

func (o *Orchestrator) financial(rep *report.Report, ds *dataset.Dataset, m profiling.Mapping) {
	values := ds.Values(m.Value)
	income, expenses := split(dataset.Floats(values))
	net := income - expenses
	margin := 0.0
	if income > 0 {
		margin = net / income * 100
	}

	rep.KPIs = report.KPISet{
		"total_revenue":  report.Num(income),
		"total_expenses": report.Num(expenses),
		"net_profit":     report.Num(net),
		"profit_margin":  report.Num(margin),
	}

	byMonth := []report.Record{}
	if m.Date != "" {
		for _, b := range aggregate.ByMonth(ds.Values(m.Date), values) {
			in, out := split(b.Values)
			byMonth = append(byMonth, report.Record{
				"month":    report.Str(b.MonthLabel()),
				"period":   report.Str(b.MonthKey()),
				"revenue":  report.Num(in),
				"expenses": report.Num(out),
				"value":    report.Num(b.Sum),
			})
		}
	}
	rep.Charts[ChartRevenueByMonth] = byMonth
}

// generic serves the performance and custom templates from the
// schema-driven KPIs
func (o *Orchestrator) generic(rep *report.Report, ds *dataset.Dataset, m profiling.Mapping, inferred profiling.Schema, auto report.KPISet) {
	rep.KPIs = report.KPISet{}.Merge(auto)

	evolution := []report.Record{}
	if m.Date != "" {
		evolution = monthly(aggregate.ByMonth(ds.Values(m.Date), ds.Values(m.Value)))
	}
	rep.Charts[ChartEvolution] = evolution

	breakdown := []report.Record{}
	if len(inferred.Dimensions) > 0 {
		groups := aggregate.Top(aggregate.By(ds.Values(inferred.Dimensions[0]), ds.Values(m.Value)), o.config.BreakdownTop)
		for _, g := range groups {
			breakdown = append(breakdown, report.Record{
				"name":  report.Str(g.Key),
				"value": report.Num(g.Sum),
			})
		}
	}
	rep.Charts[ChartBreakdown] = breakdown
}

func (o *Orchestrator) topProducts(ds *dataset.Dataset, m profiling.Mapping) []report.Record {
	records := []report.Record{}
	if m.Product == "" {
		return records
	}
	for _, g := range aggregate.Top(aggregate.By(ds.Values(m.Product), ds.Values(m.Value)), o.config.TopProducts) {
		records = append(records, report.Record{
			"name":   report.Str(g.Key),
			"sales":  report.Num(g.Sum),
			"growth": report.Int(0),
		})
	}
	return records
}

// categorySales breaks the value down by the first categorical column that
// is neither the product nor customer-like and has a small number of
// distinct values
func (o *Orchestrator) categorySales(ds *dataset.Dataset, kinds profiling.ColumnKinds, m profiling.Mapping) []report.Record {
	records := []report.Record{}
	for _, col := range kinds.Categorical {
		if col == m.Product || o.kpis.IsCustomerLike(col) {
			continue
		}
		values := ds.Values(col)
		distinct := dataset.DistinctCount(values)
		if distinct < o.config.CategoryMinDistinct || distinct > o.config.CategoryMaxDistinct {
			continue
		}
		for _, g := range aggregate.Top(aggregate.By(values, ds.Values(m.Value)), o.config.CategoryTop) {
			records = append(records, report.Record{
				"name":  report.Str(g.Key),
				"value": report.Num(g.Sum),
			})
		}
		break
	}
	return records
}

func monthly(buckets []aggregate.Bucket) []report.Record {
	records := make([]report.Record, 0, len(buckets))
	for _, b := range buckets {
		records = append(records, report.Record{
			"month":  report.Str(b.MonthLabel()),
			"period": report.Str(b.MonthKey()),
			"value":  report.Num(b.Sum),
		})
	}
	return records
}

func weekly(buckets []aggregate.Bucket) []report.Record {
	records := make([]report.Record, 0, len(buckets))
	for _, b := range buckets {
		records = append(records, report.Record{
			"week":   report.Str(fmt.Sprintf("Week %d", b.Period)),
			"period": report.Str(fmt.Sprintf("%04d-W%02d", b.Year, b.Period)),
			"value":  report.Num(b.Sum),
		})
	}
	return records
}

func paymentAnalysis(groups []aggregate.Group) []report.Record {
	records := []report.Record{}
	for _, g := range aggregate.SortByKey(groups) {
		records = append(records, report.Record{
			"method":     report.Str(g.Key),
			"total":      report.Num(g.Sum),
			"count":      report.Int(g.Count),
			"avg_ticket": report.Num(g.Mean()),
		})
	}
	return records
}

func regionSales(groups []aggregate.Group) []report.Record {
	records := []report.Record{}
	for _, g := range aggregate.SortByKey(groups) {
		records = append(records, report.Record{
			"region": report.Str(g.Key),
			"sales":  report.Num(g.Sum),
		})
	}
	return records
}

// histogram counts values into equal-width bins spanning [min, max]; the
// last bin is closed. A constant series spans [x-0.5, x+0.5]. Empty bins
// are dropped.
func histogram(data []float64, bins int) []report.Record {
	records := []report.Record{}
	if len(data) == 0 || bins <= 0 {
		return records
	}
	lo, hi := floats.Min(data), floats.Max(data)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	edges := floats.Span(make([]float64, bins+1), lo, hi)
	width := (hi - lo) / float64(bins)

	counts := make([]int, bins)
	for _, x := range data {
		i := int((x - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		counts[i]++
	}

	for i, n := range counts {
		if n == 0 {
			continue
		}
		records = append(records, report.Record{
			"range": report.Str(fmt.Sprintf("%d-%d", int(edges[i]), int(edges[i+1]))),
			"count": report.Int(n),
			"value": report.Num((edges[i] + edges[i+1]) / 2),
		})
	}
	return records
}

// split separates positive and negative amounts, returning both as
// non-negative totals
func split(data []float64) (income, expenses float64) {
	for _, x := range data {
		if x > 0 {
			income += x
		} else {
			expenses -= x
		}
	}
	return income, expenses
}

// headlineGrowth is the last-vs-previous percent change of a monthly series
func headlineGrowth(series []report.Record) float64 {
	if len(series) < 2 {
		return 0
	}
	last := series[len(series)-1]["value"].Float()
	prev := series[len(series)-2]["value"].Float()
	if prev <= 0 {
		return 0
	}
	return (last - prev) / prev * 100
}
