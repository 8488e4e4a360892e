package insights

import (
	"math"
	"testing"
	"time"

	"autobi/domain/dataset"
	"autobi/domain/profiling"
	"autobi/domain/report"
	"autobi/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerator() *Generator {
	return NewGenerator(DefaultConfig())
}

func byType(insights []report.Insight) map[string]report.Insight {
	out := map[string]report.Insight{}
	for _, in := range insights {
		out[in.Type+in.Icon] = in
	}
	return out
}

func TestGrowth(t *testing.T) {
	days := testkit.Days(testkit.Date(2024, time.January, 1), 10)

	tests := []struct {
		name   string
		values []float64
		key    string
		found  bool
	}{
		{name: "rising", values: []float64{10, 10, 10, 10, 10, 20, 20, 20, 20, 20}, key: "growth📈", found: true},
		{name: "falling", values: []float64{20, 20, 20, 20, 20, 10, 10, 10, 10, 10}, key: "warning📉", found: true},
		{name: "flat", values: []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10.2}, key: "growth📈", found: false},
		{name: "gaps stay in their half", values: []float64{10, math.NaN(), math.NaN(), math.NaN(), math.NaN(), 10, 10, 10, 10, 10}, key: "growth📈", found: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := testkit.Build(testkit.Times("data", days...), testkit.Numbers("valor", tt.values...))
			got := byType(newGenerator().Generate(Input{
				Dataset: ds,
				Kinds:   profiling.ColumnKinds{Numeric: []string{"valor"}, Date: []string{"data"}},
				Date:    "data",
				Value:   "valor",
			}))
			_, ok := got[tt.key]
			assert.Equal(t, tt.found, ok)
		})
	}
}

func TestTopContributorSkipsCustomers(t *testing.T) {
	ds := testkit.Build(
		testkit.Strings("cliente", "Ana", "Ana", "Bia", "Caio"),
		testkit.Strings("produto", "A", "B", "C", "C"),
		testkit.Numbers("valor", 10, 10, 40, 40),
	)
	got := newGenerator().Generate(Input{
		Dataset: ds,
		Kinds:   profiling.ColumnKinds{Numeric: []string{"valor"}, Categorical: []string{"cliente", "produto"}},
		Value:   "valor",
	})

	top, ok := byType(got)["highlight🎯"]
	require.True(t, ok)
	assert.Contains(t, top.Message, `"C"`)
	assert.Contains(t, top.Message, "80.0%")
}

func TestVolume(t *testing.T) {
	small := testkit.Build(testkit.Numbers("valor", 1, 2, 3))
	got := byType(newGenerator().Generate(Input{Dataset: small}))
	assert.Contains(t, got, "tip💡")

	big := testkit.Build(testkit.Numbers("valor", testkit.Sequence(100, func(i int) float64 { return float64(i) })...))
	got = byType(newGenerator().Generate(Input{Dataset: big}))
	assert.Contains(t, got, "info📊")

	medium := testkit.Build(testkit.Numbers("valor", testkit.Sequence(50, func(i int) float64 { return float64(i) })...))
	assert.Empty(t, newGenerator().Generate(Input{Dataset: medium}))
}

func TestTicketVarianceAndConcentration(t *testing.T) {
	values := testkit.Sequence(40, func(i int) float64 {
		if i%2 == 0 {
			return 10
		}
		return 190
	})
	ds := testkit.Build(
		testkit.Numbers("valor", values...),
		testkit.Strings("loja", testkit.Cycle(40, "A", "B")...),
		testkit.Strings("canal", testkit.Cycle(40, "web")...),
	)
	kpis := report.KPISet{"avg_ticket": report.Num(100), "total_customers": report.Int(40)}

	got := byType(newGenerator().Generate(Input{
		Dataset: ds,
		Kinds:   profiling.ColumnKinds{Numeric: []string{"valor"}, Categorical: []string{"loja", "canal"}},
		Value:   "valor",
		KPIs:    kpis,
	}))
	assert.Contains(t, got, "tip💰")
	require.Contains(t, got, "tip🎨")
	assert.Contains(t, got["tip🎨"].Message, `"loja"`)
}

func TestGenerateCapsInsights(t *testing.T) {
	config := DefaultConfig()
	config.MaxInsights = 1
	ds := testkit.Build(testkit.Numbers("valor", 1, 2))
	got := NewGenerator(config).Generate(Input{Dataset: ds, KPIs: report.KPISet{}})
	assert.Len(t, got, 1)

	empty := NewGenerator(DefaultConfig()).Generate(Input{Dataset: dataset.Empty()})
	require.Len(t, empty, 1)
	assert.Equal(t, "tip", empty[0].Type)
}
