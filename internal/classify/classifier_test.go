package classify

import (
	"context"
	"math"
	"testing"
	"time"

	"autobi/domain/dataset"
	"autobi/domain/profiling"
	"autobi/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClassifier() *Classifier {
	return NewClassifier(DefaultConfig())
}

func withDuplicate(xs []float64) []float64 {
	return append(xs, xs[0])
}

func TestClassifyDecisionOrder(t *testing.T) {
	names := testkit.Cycle(30, "Ana Souza", "Bruno Lima", "Carla Dias", "Diego Alves", "Elisa Rocha",
		"Felipe Nunes", "Gabriela Reis", "Hugo Martins", "Isabela Costa", "João Pereira")

	skewedCounts := append(testkit.Sequence(199, func(int) float64 { return 1 }), 10000)

	percentages := append(testkit.Sequence(10, func(int) float64 { return 0 }),
		testkit.Sequence(20, func(i int) float64 { return []float64{12.5, 40, 77.25}[i%3] })...)

	tests := []struct {
		name   string
		column dataset.Column
		want   profiling.SemanticType
		role   profiling.Role
		agg    profiling.Aggregation
	}{
		{
			name:   "identifier",
			column: testkit.Strings("pedido", testkit.Labels("PED", 40)...),
			want:   profiling.SemanticIdentifier,
			role:   profiling.RoleIdentifier,
		},
		{
			name:   "temporal text",
			column: testkit.DateStrings("data", "2006-01-02", append(testkit.Days(testkit.Date(2024, 1, 1), 20), testkit.Date(2024, 1, 1))),
			want:   profiling.SemanticTemporal,
			role:   profiling.RoleDate,
		},
		{
			name:   "monetary",
			column: testkit.Numbers("valor", withDuplicate(testkit.Sequence(60, func(i int) float64 { return 100.5 + 1.25*float64(i) }))...),
			want:   profiling.SemanticMonetary,
			role:   profiling.RoleMeasure,
			agg:    profiling.AggregationSum,
		},
		{
			name:   "quantity",
			column: testkit.Numbers("itens", skewedCounts...),
			want:   profiling.SemanticQuantity,
			role:   profiling.RoleMeasure,
			agg:    profiling.AggregationSum,
		},
		{
			name:   "percentage",
			column: testkit.Numbers("desconto", percentages...),
			want:   profiling.SemanticPercentage,
			role:   profiling.RoleMeasure,
			agg:    profiling.AggregationAvg,
		},
		{
			name:   "category",
			column: testkit.Strings("canal", testkit.Cycle(100, "loja", "site", "app")...),
			want:   profiling.SemanticCategory,
			role:   profiling.RoleDimension,
		},
		{
			name:   "person name",
			column: testkit.Strings("cliente", names...),
			want:   profiling.SemanticPersonName,
			role:   profiling.RoleDimension,
		},
		{
			name:   "generic metric",
			column: testkit.Numbers("saldo", withDuplicate(testkit.Sequence(100, func(i int) float64 { return float64(i) - 50 }))...),
			want:   profiling.SemanticMetric,
			role:   profiling.RoleMeasure,
			agg:    profiling.AggregationAvg,
		},
		{
			name:   "free text",
			column: testkit.Strings("obs", append(testkit.Labels("nota", 30), "nota-1")...),
			want:   profiling.SemanticText,
			role:   profiling.RoleAttribute,
		},
	}

	c := newClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := c.Classify(tt.column.Name, tt.column.Values)
			assert.Equal(t, tt.want, p.SemanticType)
			assert.Equal(t, tt.role, p.Role)
			assert.Equal(t, tt.agg, p.AggregationHint)
			assert.Greater(t, p.Confidence, 0.0)
		})
	}
}

func TestIdentifierIsExact(t *testing.T) {
	c := newClassifier()
	for _, n := range []int{1, 2, 7, 50, 333} {
		col := testkit.Numbers("id", testkit.Sequence(n, func(i int) float64 { return float64(i) * 3.5 })...)
		p := c.Classify(col.Name, col.Values)
		assert.Equal(t, profiling.RoleIdentifier, p.Role, "n=%d", n)
		assert.True(t, p.IsKey)
		assert.Equal(t, 0.95, p.Confidence)
	}
}

func TestEmptyColumnIsTextWithZeroConfidence(t *testing.T) {
	c := newClassifier()
	values := []dataset.Value{dataset.NewMissingValue(), dataset.NewMissingValue()}

	p := c.Classify("vazia", values)
	assert.Equal(t, profiling.SemanticText, p.SemanticType)
	assert.Equal(t, 0.0, p.Confidence)
	assert.Equal(t, 1.0, p.NullRatio)
	assert.False(t, p.Detected())

	p = c.Classify("nada", nil)
	assert.Equal(t, profiling.SemanticText, p.SemanticType)
	assert.Equal(t, 0.0, p.Confidence)
}

func TestNumbersAreNeverTemporal(t *testing.T) {
	c := newClassifier()
	col := testkit.Numbers("yyyymmdd", 20240101, 20240102, 20240102, 20240103)
	p := c.Classify(col.Name, col.Values)
	assert.NotEqual(t, profiling.SemanticTemporal, p.SemanticType)
}

func TestProfileStatistics(t *testing.T) {
	c := newClassifier()
	col := testkit.Numbers("v", 1, 2, 2, math.NaN(), 5, 6, 7)
	p := c.Classify(col.Name, col.Values)

	assert.Equal(t, dataset.DTypeNumeric, p.RawDType)
	assert.Equal(t, 1, p.NullCount)
	assert.InDelta(t, 1.0/7, p.NullRatio, 1e-9)
	assert.Equal(t, 5, p.DistinctCount)
	assert.Equal(t, profiling.CardinalityLow, p.Cardinality)
	assert.Equal(t, []string{"1", "2", "2", "5", "6"}, p.SampleValues)
}

func TestClassifyAllInvariants(t *testing.T) {
	ds := testkit.NewSalesGenerator(testkit.DefaultSalesConfig()).Generate()
	profiles, err := newClassifier().ClassifyAll(context.Background(), ds)
	require.NoError(t, err)
	require.Len(t, profiles, ds.Width())

	for i, p := range profiles {
		assert.Equal(t, ds.Names()[i], p.Name, "order is preserved")
		assert.Contains(t, profiling.SemanticTypes, p.SemanticType)
		assert.True(t, p.Role.Valid())
		assert.GreaterOrEqual(t, p.Confidence, 0.0)
		assert.LessOrEqual(t, p.Confidence, 1.0)
	}
	assert.Equal(t, profiling.SemanticTemporal, profiles[0].SemanticType)
	assert.Equal(t, profiling.SemanticMonetary, profiles[1].SemanticType)
}

func TestClassifyAllHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ds := testkit.Build(testkit.Numbers("a", 1, 2), testkit.Numbers("b", 3, 4))

	_, err := newClassifier().ClassifyAll(ctx, ds)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetectColumnTypes(t *testing.T) {
	days := testkit.Days(testkit.Date(2024, time.March, 1), 6)
	ds := testkit.Build(
		testkit.DateStrings("data", "2006-01-02", days),
		testkit.DateStrings("vencimento", "02/01/2006", days),
		testkit.Numbers("valor", 10, 20, 30, 40, 50, 60),
		testkit.Strings("pago", "sim", "não", "sim", "sim", "não", "sim"),
		testkit.Strings("produto", "a", "b", "c", "a", "b", "c"),
		testkit.Strings("codigo", "12-AB", "x", "y", "z", "w", "v"),
	)

	det := newClassifier().DetectColumnTypes(ds)
	assert.Equal(t, []string{"valor"}, det.Kinds.Numeric)
	assert.Equal(t, []string{"data", "vencimento"}, det.Kinds.Date)
	assert.Equal(t, []string{"pago"}, det.Kinds.Boolean)
	assert.Equal(t, []string{"produto", "codigo"}, det.Kinds.Categorical)
	assert.Equal(t, "2/1/2006", det.Layouts["vencimento"])

	parsed := det.Parsed.Values("vencimento")
	require.True(t, parsed[0].IsTimestamp())
	assert.Equal(t, days[0], parsed[0].AsTime())
	assert.True(t, ds.Values("vencimento")[0].IsString(), "input is not mutated")
}

func TestDetectColumnTypesUnparsableDatesBecomeMissing(t *testing.T) {
	ds := testkit.Build(testkit.Strings("data",
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04",
		"2024-01-09", "2024-01-10", "2024-01-11", "2024-01-12",
		"sem data", "2024-13-45"))

	det := newClassifier().DetectColumnTypes(ds)
	require.Equal(t, []string{"data"}, det.Kinds.Date)
	values := det.Parsed.Values("data")
	assert.True(t, values[0].IsTimestamp())
	assert.True(t, values[8].IsMissing())
	assert.True(t, values[9].IsMissing())

	mixed := testkit.Build(testkit.Strings("data", "2024-01-01", "sem data", "2024-01-03", "2024-01-04"))
	det = newClassifier().DetectColumnTypes(mixed)
	assert.Empty(t, det.Kinds.Date, "one unparsable sample value disables date parsing")
}

func TestLayoutSelection(t *testing.T) {
	tests := []struct {
		name   string
		sample []string
		layout string
		ok     bool
	}{
		{"iso", []string{"2024-01-05", "2024-1-6"}, "2006-1-2", true},
		{"day first wins", []string{"01/02/2024", "03/04/2024"}, "2/1/2006", true},
		{"month first when day first fails", []string{"12/25/2024", "01/31/2024"}, "1/2/2006", true},
		{"compact", []string{"20240105", "20240230"}, "02012006", false},
		{"datetime", []string{"2024-01-05 10:00:00"}, "2006-01-02 15:04:05", true},
		{"garbage", []string{"abc"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, ok := LayoutForAll(DefaultConfig().DateLayouts, tt.sample)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.layout, layout)
			}
		})
	}
}

func TestDateLayoutsAreConfigurable(t *testing.T) {
	ds := testkit.Build(testkit.Strings("data", "05/01/2024", "06/01/2024", "07/01/2024", "05/01/2024"))

	assert.Equal(t, []string{"data"}, newClassifier().DetectColumnTypes(ds).Kinds.Date)
	assert.Equal(t, profiling.RoleDate, newClassifier().Classify("data", ds.Values("data")).Role)

	config := DefaultConfig()
	config.DateLayouts = []string{"2006-01-02"}
	isoOnly := NewClassifier(config)
	assert.Empty(t, isoOnly.DetectColumnTypes(ds).Kinds.Date)
	assert.NotEqual(t, profiling.RoleDate, isoOnly.Classify("data", ds.Values("data")).Role)
}
