package report

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarJSON(t *testing.T) {
	tests := []struct {
		name string
		in   Scalar
		want string
	}{
		{"number", Num(12.5), `12.5`},
		{"integer", Int(3), `3`},
		{"string", Str("Produto A"), `"Produto A"`},
		{"nan is null", Num(math.NaN()), `null`},
		{"inf is null", Num(math.Inf(1)), `null`},
		{"null", Null(), `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(raw))
		})
	}
}

func TestScalarDecode(t *testing.T) {
	var kpis KPISet
	require.NoError(t, json.Unmarshal([]byte(`{"a":1.5,"b":"x","c":null}`), &kpis))
	assert.Equal(t, 1.5, kpis.Number("a"))
	assert.Equal(t, "x", kpis["b"].String())
	assert.True(t, kpis["c"].IsNull())
	assert.Equal(t, 0.0, kpis.Number("missing"))
}

func TestFloatNonFinite(t *testing.T) {
	raw, err := json.Marshal(struct {
		V Float `json:"v"`
	}{V: Float(math.NaN())})
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":null}`, string(raw))
}

func TestPredictionSection(t *testing.T) {
	raw, err := json.Marshal(PredictionSection{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(raw))

	section := PredictionSection{Result: &Prediction{Method: "linear_regression", TrendDirection: "up"}}
	raw, err = json.Marshal(section)
	require.NoError(t, err)

	var decoded PredictionSection
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.True(t, decoded.Present())
	assert.Equal(t, "linear_regression", decoded.Result.Method)

	require.NoError(t, json.Unmarshal([]byte(`{}`), &decoded))
	assert.False(t, decoded.Present())
}

func TestNewSerializesEmptyCollections(t *testing.T) {
	r := New("sales")
	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var generic map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Equal(t, []interface{}{}, generic["alerts"])
	assert.Equal(t, map[string]interface{}{}, generic["predictions"])
	assert.Equal(t, "1.0", generic["version"])
}

func TestSealIsContentAddressed(t *testing.T) {
	a := New("sales")
	a.KPIs["total_revenue"] = Num(100)
	b := New("sales")
	b.KPIs["total_revenue"] = Num(100)

	require.NoError(t, a.Seal())
	require.NoError(t, b.Seal())
	assert.Equal(t, a.ID, b.ID)
	assert.NotEmpty(t, a.ID)

	b.KPIs["total_revenue"] = Num(101)
	require.NoError(t, b.Seal())
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSeverityRank(t *testing.T) {
	assert.Less(t, SeverityCritical.Rank(), SeverityWarning.Rank())
	assert.Less(t, SeverityWarning.Rank(), SeverityInfo.Rank())
	assert.Less(t, SeverityHigh.Rank(), SeverityLow.Rank())
	assert.Equal(t, 3, Severity("other").Rank())
}
