package quality

import (
	"math"
	"testing"

	"autobi/domain/dataset"
	"autobi/domain/profiling"
	"autobi/domain/report"
	"autobi/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScorer() *Scorer {
	return NewScorer(DefaultConfig())
}

func fixedProfiles() []profiling.ColumnProfile {
	return []profiling.ColumnProfile{
		{Name: "id", SemanticType: profiling.SemanticIdentifier, Role: profiling.RoleIdentifier, IsKey: true, Confidence: 0.95},
		{Name: "valor", SemanticType: profiling.SemanticMonetary, Role: profiling.RoleMeasure, Confidence: 0.85},
	}
}

func TestScoreMonotonicInNulls(t *testing.T) {
	previous := math.Inf(1)
	for nulls := 0; nulls <= 20; nulls += 2 {
		xs := testkit.Sequence(20, func(i int) float64 {
			if i < nulls {
				return math.NaN()
			}
			return float64(i + 1)
		})
		ds := testkit.Build(
			testkit.Strings("id", testkit.Labels("ID", 20)...),
			testkit.Numbers("valor", xs...),
		)

		score := newScorer().Score(ds, fixedProfiles())
		assert.LessOrEqual(t, score, previous, "nulls=%d", nulls)
		previous = score
	}
}

func TestScoreComponents(t *testing.T) {
	ds := testkit.Build(
		testkit.Strings("id", "a", "b"),
		testkit.Numbers("valor", 1, 2),
	)
	assert.Equal(t, 100.0, newScorer().Score(ds, fixedProfiles()))

	undetected := fixedProfiles()
	undetected[1].Confidence = 0
	undetected[0].IsKey = false
	// completeness 100, consistency 50, uniqueness 0
	assert.Equal(t, 50.0, newScorer().Score(ds, undetected))

	assert.Equal(t, 0.0, newScorer().Score(dataset.Empty(), nil))
}

func TestLevel(t *testing.T) {
	s := newScorer()
	assert.Equal(t, LevelGood, s.Level(75))
	assert.Equal(t, LevelOK, s.Level(74.9))
	assert.Equal(t, LevelOK, s.Level(50))
	assert.Equal(t, LevelPoor, s.Level(49.9))
}

func TestProblems(t *testing.T) {
	values := append(testkit.Sequence(38, func(i int) float64 { return float64(10 + i%5) }), -5, 1000)
	status := testkit.Cycle(40, "Pago", "pago")
	notes := testkit.Cycle(40, "", "", "", "ok")

	ds := testkit.Build(
		testkit.Numbers("valor", values...),
		testkit.Strings("status", status...),
		testkit.Strings("obs", notes...),
	)
	kinds := profiling.ColumnKinds{Numeric: []string{"valor"}, Categorical: []string{"status", "obs"}}

	problems := newScorer().Problems(ds, kinds)
	types := map[string]report.Problem{}
	for _, p := range problems {
		types[p.Icon] = p
	}

	require.Contains(t, types, "❓")
	assert.Equal(t, report.SeverityHigh, types["❓"].Severity)
	assert.Equal(t, 30, types["❓"].Count)
	assert.Equal(t, report.SeverityHigh, problems[0].Severity)

	require.Contains(t, types, "⚠️")
	assert.Equal(t, 1, types["⚠️"].Count)

	require.Contains(t, types, "📍")
	assert.Equal(t, 2, types["📍"].Count)

	require.Contains(t, types, "🔤")
	assert.Equal(t, 1, types["🔤"].Count)

	require.Contains(t, types, "🔄")
	assert.Nil(t, types["🔄"].Column)

	for i := 1; i < len(problems); i++ {
		assert.LessOrEqual(t, problems[i-1].Severity.Rank(), problems[i].Severity.Rank())
	}
}

func TestProblemsNullThresholds(t *testing.T) {
	tests := []struct {
		name     string
		nulls    int
		severity report.Severity
		found    bool
	}{
		{name: "below threshold", nulls: 1, found: false},
		{name: "medium", nulls: 2, severity: report.SeverityMedium, found: true},
		{name: "high", nulls: 6, severity: report.SeverityHigh, found: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xs := make([]string, 20)
			for i := range xs {
				if i >= tt.nulls {
					xs[i] = testkit.Labels("x", 20)[i]
				}
			}
			ds := testkit.Build(testkit.Strings("obs", xs...))
			var problems []report.Problem
			for _, p := range newScorer().Problems(ds, profiling.ColumnKinds{}) {
				if p.Icon == "❓" {
					problems = append(problems, p)
				}
			}
			if !tt.found {
				assert.Empty(t, problems)
				return
			}
			require.Len(t, problems, 1)
			assert.Equal(t, tt.severity, problems[0].Severity)
		})
	}
}

func TestOutliersSuppressedWhenWidespread(t *testing.T) {
	xs := append(testkit.Sequence(16, func(i int) float64 { return float64(10 + i%3) }), 1000, 2000, 3000, 4000)
	ds := testkit.Build(testkit.Numbers("valor", xs...))
	problems := newScorer().Problems(ds, profiling.ColumnKinds{Numeric: []string{"valor"}})
	for _, p := range problems {
		assert.NotEqual(t, "📍", p.Icon)
	}
}
