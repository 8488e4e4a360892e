// Package kpi computes key metrics from a classified dataset: generic
// per-measure KPIs, optional domain KPIs for conventional column names,
// and the report-level column resolution.
package kpi

import (
	"fmt"

	"autobi/domain/dataset"
	"autobi/domain/profiling"
	"autobi/domain/report"
	"autobi/internal/aggregate"
	apperrors "autobi/internal/errors"
	"autobi/internal/numeric"
)

// Engine computes KPI sets
type Engine struct {
	config Config
}

// NewEngine creates a KPI engine
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// Auto derives KPIs from the inferred schema: total, mean, max and min per
// measure, the row count, and the most frequent value of the leading
// low-cardinality dimensions.
func (e *Engine) Auto(ds *dataset.Dataset, schema profiling.Schema) report.KPISet {
	kpis := report.KPISet{}
	for _, measure := range schema.Measures {
		data := dataset.Floats(ds.Values(measure))
		kpis[measure+"_total"] = report.Num(numeric.Sum(data))
		kpis[measure+"_avg"] = report.Num(numeric.Mean(data))
		kpis[measure+"_max"] = report.Num(numeric.Max(data))
		kpis[measure+"_min"] = report.Num(numeric.Min(data))
	}
	kpis["total_records"] = report.Int(ds.Rows())

	dims := schema.Dimensions
	if len(dims) > e.config.TopDimensions {
		dims = dims[:e.config.TopDimensions]
	}
	for _, dim := range dims {
		values := ds.Values(dim)
		if dataset.DistinctCount(values) >= e.config.MaxDimensionDistinct {
			continue
		}
		counts := aggregate.ValueCounts(values)
		if len(counts) == 0 {
			continue
		}
		kpis["top_"+dim] = report.Str(counts[0].Key)
		kpis["top_"+dim+"_count"] = report.Int(counts[0].Count)
	}
	return kpis
}

// Domain computes KPIs for conventional column names. Each KPI is optional;
// a panic inside any rule is returned as an error together with whatever
// was computed before it.
func (e *Engine) Domain(ds *dataset.Dataset) (report.KPISet, error) {
	kpis := report.KPISet{}
	err := apperrors.Recover(func() error {
		e.domain(ds, kpis)
		return nil
	})
	if err != nil {
		return kpis, fmt.Errorf("domain kpis: %w", err)
	}
	return kpis, nil
}

func (e *Engine) domain(ds *dataset.Dataset, kpis report.KPISet) {
	sum := func(col string) float64 { return numeric.Sum(dataset.Floats(ds.Values(col))) }

	if ds.Has("valor_bruto") && ds.Has("valor_liquido") {
		gross := sum("valor_bruto")
		net := sum("valor_liquido")
		kpis["valor_bruto_total"] = report.Num(gross)
		kpis["valor_liquido_total"] = report.Num(net)
		margin := 0.0
		if gross > 0 {
			margin = net / gross * 100
		}
		kpis["margem_liquida"] = report.Num(margin)
	}

	if ds.Has("desconto_valor") {
		kpis["total_descontos"] = report.Num(sum("desconto_valor"))
		if ds.Has("desconto_percentual") {
			kpis["desconto_medio"] = report.Num(numeric.Mean(dataset.Floats(ds.Values("desconto_percentual"))))
		}
	}

	if ds.Has("taxa_maquina_valor") {
		kpis["custo_taxas"] = report.Num(sum("taxa_maquina_valor"))
	}
	if ds.Has("juros_valor") {
		kpis["receita_juros"] = report.Num(sum("juros_valor"))
	}

	if ds.Has("status_pagamento") {
		approved := 0
		for _, v := range ds.Values("status_pagamento") {
			if v.IsString() && v.AsString() == e.config.ApprovedStatus {
				approved++
			}
		}
		kpis["taxa_aprovacao"] = report.Num(numeric.Ratio(float64(approved), float64(ds.Rows())) * 100)
	}

	if !ds.Has("valor_liquido") {
		return
	}
	net := ds.Values("valor_liquido")
	best := func(dim, nameKey, salesKey string) {
		if !ds.Has(dim) {
			return
		}
		groups := aggregate.SortBySum(aggregate.By(ds.Values(dim), net))
		if len(groups) == 0 {
			return
		}
		kpis[nameKey] = report.Str(groups[0].Key)
		kpis[salesKey] = report.Num(groups[0].Sum)
	}
	best("vendedor", "melhor_vendedor", "vendas_melhor_vendedor")
	best("regiao", "melhor_regiao", "vendas_melhor_regiao")
}
