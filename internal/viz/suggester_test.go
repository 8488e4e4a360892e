package viz

import (
	"testing"

	"autobi/domain/profiling"
	"autobi/domain/report"
	"autobi/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestStructural(t *testing.T) {
	ds := testkit.Build(
		testkit.Strings("data", "2024-01-01", "2024-01-02", "2024-01-03"),
		testkit.Numbers("valor", 1, 2, 3),
		testkit.Numbers("custo", 3, 2, 1),
		testkit.Strings("loja", "A", "B", "A"),
	)
	schema := profiling.Schema{
		Temporal:   []string{"data"},
		Measures:   []string{"valor", "custo"},
		Dimensions: []string{"loja"},
	}

	got := NewSuggester(DefaultConfig()).Suggest(ds, schema)
	require.Len(t, got, 4)
	assert.Equal(t, []string{"line", "bar", "scatter", "histogram"},
		[]string{got[0].Type, got[1].Type, got[2].Type, got[3].Type})
	assert.Equal(t, "data", got[0].X)
	assert.Equal(t, "loja", got[1].X)
}

func TestSuggestSkipsWideDimensions(t *testing.T) {
	config := DefaultConfig()
	config.MaxBarCardinality = 1
	ds := testkit.Build(
		testkit.Numbers("valor", 1, 2),
		testkit.Strings("loja", "A", "B"),
	)
	got := NewSuggester(config).Suggest(ds, profiling.Schema{Measures: []string{"valor"}, Dimensions: []string{"loja"}})
	require.Len(t, got, 1)
	assert.Equal(t, "histogram", got[0].Type)
}

func TestSuggestBreakdownsAndCap(t *testing.T) {
	ds := testkit.Build(
		testkit.Strings("data", "2024-01-01", "2024-01-02"),
		testkit.Numbers("valor", 1, 2),
		testkit.Numbers("custo", 2, 1),
		testkit.Strings("regiao", "Sul", "Norte"),
		testkit.Strings("forma_pagamento", "Pix", "Boleto"),
		testkit.Strings("categoria", "X", "Y"),
	)
	schema := profiling.Schema{
		Temporal:   []string{"data"},
		Measures:   []string{"valor", "custo"},
		Dimensions: []string{"regiao"},
	}

	s := NewSuggester(DefaultConfig())
	got := s.Suggest(ds, schema)
	require.Len(t, got, 5)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Priority.Rank(), got[i].Priority.Rank())
	}
	assert.Equal(t, report.PriorityHigh, got[3].Priority)
	assert.Equal(t, "forma_pagamento", got[3].Column)
	assert.Equal(t, "regiao", s.RegionColumn(ds))
	assert.Equal(t, "forma_pagamento", s.PaymentColumn(ds))
}
