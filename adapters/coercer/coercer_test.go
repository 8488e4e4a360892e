package coercer

import (
	"errors"
	"testing"
	"time"

	"autobi/domain/core"
	"autobi/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumericText(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"123.45", 123.45, true},
		{"R$ 1.234,56", 1234.56, true},
		{"$1,234.50", 1234.5, true},
		{"(200)", -200, true},
		{"1 234,5", 1234.5, true},
		{"15%", 15, true},
		{"2,5", 2.5, true},
		{"1,000,000", 1000000, true},
		{"1e3", 1000, true},
		{"2024-01-05", 0, false},
		{"abc", 0, false},
		{"$", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, ok := parseNumericText(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, v.AsFloat64(), 1e-9)
			}
		})
	}
}

func TestCoerceColumnNumeric(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	values := c.CoerceColumn([]interface{}{"10", "", "12,5", nil, 7.0})

	require.Len(t, values, 5)
	assert.Equal(t, dataset.DTypeNumeric, dataset.DTypeOf(values))
	assert.True(t, values[1].IsMissing())
	assert.True(t, values[3].IsMissing())
	assert.InDelta(t, 12.5, values[2].AsFloat64(), 1e-9)
}

func TestCoerceColumnMixedStaysText(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	values := c.CoerceColumn([]interface{}{"10", "abc", "  Loja   Centro "})

	assert.Equal(t, dataset.DTypeObject, dataset.DTypeOf(values))
	assert.Equal(t, "10", values[0].AsString())
	assert.Equal(t, "Loja Centro", values[2].AsString())
}

func TestCoerceValueNativeKinds(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, c.CoerceValue(true).IsBoolean())
	assert.True(t, c.CoerceValue("False").IsBoolean())
	assert.Equal(t, now, c.CoerceValue(now).AsTime())
	assert.True(t, c.CoerceValue("N/A").IsMissing())
	assert.Equal(t, "2024-01-05", c.CoerceValue("2024-01-05").AsString())
}

func TestFromRecords(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	ds, err := c.FromRecords([]string{"date", "valor"}, []map[string]interface{}{
		{"date": "2024-01-01", "valor": 10.0},
		{"date": "2024-01-02"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Rows())
	assert.Equal(t, []string{"date", "valor"}, ds.Names())
	assert.True(t, ds.Values("valor")[1].IsMissing())
}

func TestFromRowsDuplicateHeader(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	_, err := c.FromRows([]string{"a", "a"}, [][]interface{}{{1, 2}})
	assert.True(t, errors.Is(err, core.ErrDuplicateColumn))
}
