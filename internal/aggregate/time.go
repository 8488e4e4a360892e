package aggregate

import (
	"fmt"
	"sort"
	"time"

	"autobi/domain/dataset"
)

// Bucket is a calendar period rollup
type Bucket struct {
	Year   int
	Period int
	Start  time.Time
	Sum    float64
	Count  int
	Values []float64
}

// MonthLabel formats a monthly bucket as "Jan 2024"
func (b Bucket) MonthLabel() string {
	return fmt.Sprintf("%s %d", time.Month(b.Period).String()[:3], b.Year)
}

// MonthKey formats a monthly bucket as "2024-01"
func (b Bucket) MonthKey() string {
	return fmt.Sprintf("%04d-%02d", b.Year, b.Period)
}

// Points pairs timestamps with numeric measures, dropping rows where either
// side is missing, sorted chronologically (stable for equal times)
func Points(dates, measure []dataset.Value) []dataset.Point {
	var points []dataset.Point
	for i, d := range dates {
		if !d.IsTimestamp() || i >= len(measure) || !measure[i].IsNumeric() {
			continue
		}
		points = append(points, dataset.Point{Time: d.AsTime(), Value: measure[i].AsFloat64()})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Time.Before(points[j].Time)
	})
	return points
}

// Halves sorts the dated rows chronologically (stable for equal times),
// splits them at the midpoint and returns the numeric measures of each half.
// Rows without a date are dropped before splitting; missing measures are
// skipped inside their half, so they never move the split.
func Halves(dates, measure []dataset.Value) (first, second []float64, dated int) {
	type row struct {
		at    time.Time
		value dataset.Value
	}
	var rows []row
	for i, d := range dates {
		if !d.IsTimestamp() {
			continue
		}
		v := dataset.NewMissingValue()
		if i < len(measure) {
			v = measure[i]
		}
		rows = append(rows, row{at: d.AsTime(), value: v})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].at.Before(rows[j].at)
	})

	mid := len(rows) / 2
	for i, r := range rows {
		if !r.value.IsNumeric() {
			continue
		}
		if i < mid {
			first = append(first, r.value.AsFloat64())
		} else {
			second = append(second, r.value.AsFloat64())
		}
	}
	return first, second, len(rows)
}

// ByMonth sums measure per calendar month, in chronological order
func ByMonth(dates, measure []dataset.Value) []Bucket {
	return bucket(Points(dates, measure), func(t time.Time) (int, int, time.Time) {
		return t.Year(), int(t.Month()), time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	})
}

// ByISOWeek sums measure per ISO week, in chronological order
func ByISOWeek(dates, measure []dataset.Value) []Bucket {
	return bucket(Points(dates, measure), func(t time.Time) (int, int, time.Time) {
		year, week := t.ISOWeek()
		return year, week, t
	})
}

// ByDay sums measure per calendar day, in chronological order
func ByDay(points []dataset.Point) []Bucket {
	return bucket(points, func(t time.Time) (int, int, time.Time) {
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return t.Year(), t.YearDay(), day
	})
}

func bucket(points []dataset.Point, key func(time.Time) (int, int, time.Time)) []Bucket {
	type slot struct{ year, period int }
	index := make(map[slot]int)
	var buckets []Bucket
	for _, p := range points {
		year, period, start := key(p.Time)
		k := slot{year, period}
		pos, ok := index[k]
		if !ok {
			pos = len(buckets)
			index[k] = pos
			buckets = append(buckets, Bucket{Year: year, Period: period, Start: start})
		}
		buckets[pos].Sum += p.Value
		buckets[pos].Count++
		buckets[pos].Values = append(buckets[pos].Values, p.Value)
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].Year != buckets[j].Year {
			return buckets[i].Year < buckets[j].Year
		}
		return buckets[i].Period < buckets[j].Period
	})
	return buckets
}
