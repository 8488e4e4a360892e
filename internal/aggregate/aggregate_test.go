package aggregate

import (
	"math"
	"testing"
	"time"

	"autobi/domain/dataset"
	"autobi/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBy(t *testing.T) {
	keys := testkit.Strings("produto", "A", "B", "A", "", "C").Values
	measure := []dataset.Value{
		dataset.NewNumericValue(10),
		dataset.NewNumericValue(5),
		dataset.NewMissingValue(),
		dataset.NewNumericValue(100),
		dataset.NewNumericValue(7),
	}

	groups := By(keys, measure)
	require.Len(t, groups, 3)
	assert.Equal(t, "A", groups[0].Key)
	assert.Equal(t, 10.0, groups[0].Sum)
	assert.Equal(t, 1, groups[0].Count)

	top := Top(groups, 2)
	require.Len(t, top, 2)
	assert.Equal(t, []string{"A", "C"}, []string{top[0].Key, top[1].Key})

	byKey := SortByKey([]Group{{Key: "b"}, {Key: "a"}})
	assert.Equal(t, "a", byKey[0].Key)
}

func TestValueCounts(t *testing.T) {
	counts := ValueCounts(testkit.Strings("loja", "x", "y", "y", "x", "z", "y").Values)
	require.Len(t, counts, 3)
	assert.Equal(t, "y", counts[0].Key)
	assert.Equal(t, 3, counts[0].Count)
	assert.Equal(t, "x", counts[1].Key)
}

func TestByMonth(t *testing.T) {
	days := testkit.Days(testkit.Date(2024, time.January, 15), 30)
	dates := testkit.Times("data", days...).Values
	measure := testkit.Numbers("valor", testkit.Sequence(30, func(int) float64 { return 2 })...).Values

	buckets := ByMonth(dates, measure)
	require.Len(t, buckets, 2)
	assert.Equal(t, "Jan 2024", buckets[0].MonthLabel())
	assert.Equal(t, "2024-02", buckets[1].MonthKey())
	assert.Equal(t, 34.0, buckets[0].Sum)
	assert.Equal(t, 26.0, buckets[1].Sum)
}

func TestByISOWeek(t *testing.T) {
	days := testkit.Days(testkit.Date(2024, time.January, 1), 14)
	dates := testkit.Times("data", days...).Values
	measure := testkit.Numbers("valor", testkit.Sequence(14, func(int) float64 { return 1 })...).Values

	weeks := ByISOWeek(dates, measure)
	require.Len(t, weeks, 2)
	assert.Equal(t, 1, weeks[0].Period)
	assert.Equal(t, 7.0, weeks[0].Sum)
}

func TestPointsSkipsMissing(t *testing.T) {
	dates := []dataset.Value{
		dataset.NewTimestampValue(testkit.Date(2024, 1, 3)),
		dataset.NewMissingValue(),
		dataset.NewTimestampValue(testkit.Date(2024, 1, 1)),
	}
	measure := testkit.Numbers("valor", 1, 2, 3).Values

	points := Points(dates, measure)
	require.Len(t, points, 2)
	assert.Equal(t, 3.0, points[0].Value)

	days := ByDay(points)
	assert.Len(t, days, 2)
}

func TestHalvesSplitsOnDatedRows(t *testing.T) {
	days := testkit.Days(testkit.Date(2024, time.January, 1), 6)
	dates := []dataset.Value{
		dataset.NewTimestampValue(days[5]),
		dataset.NewTimestampValue(days[0]),
		dataset.NewMissingValue(),
		dataset.NewTimestampValue(days[2]),
		dataset.NewTimestampValue(days[1]),
		dataset.NewTimestampValue(days[4]),
		dataset.NewTimestampValue(days[3]),
	}
	measure := testkit.Numbers("valor", 6, 1, 99, math.NaN(), math.NaN(), 5, 4).Values

	first, second, dated := Halves(dates, measure)
	assert.Equal(t, 6, dated)
	assert.Equal(t, []float64{1}, first)
	assert.Equal(t, []float64{4, 5, 6}, second)
}
