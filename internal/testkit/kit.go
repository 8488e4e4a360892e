// Package testkit builds deterministic datasets for tests.
package testkit

import (
	"fmt"
	"time"

	"autobi/domain/dataset"
)

// Numbers builds a numeric column; NaN entries become missing
func Numbers(name string, xs ...float64) dataset.Column {
	values := make([]dataset.Value, len(xs))
	for i, x := range xs {
		values[i] = dataset.NewNumericValue(x)
	}
	return dataset.Column{Name: name, Values: values}
}

// Strings builds a text column; empty strings become missing
func Strings(name string, xs ...string) dataset.Column {
	values := make([]dataset.Value, len(xs))
	for i, x := range xs {
		values[i] = dataset.NewStringValue(x)
	}
	return dataset.Column{Name: name, Values: values}
}

// Times builds a timestamp column
func Times(name string, ts ...time.Time) dataset.Column {
	values := make([]dataset.Value, len(ts))
	for i, t := range ts {
		values[i] = dataset.NewTimestampValue(t)
	}
	return dataset.Column{Name: name, Values: values}
}

// Days returns n consecutive days starting at start
func Days(start time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

// DateStrings formats times with a layout, producing a text column
func DateStrings(name, layout string, ts []time.Time) dataset.Column {
	xs := make([]string, len(ts))
	for i, t := range ts {
		xs[i] = t.Format(layout)
	}
	return Strings(name, xs...)
}

// Sequence returns f(0), f(1), ..., f(n-1)
func Sequence(n int, f func(i int) float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = f(i)
	}
	return out
}

// Cycle repeats labels until n values are produced
func Cycle(n int, labels ...string) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = labels[i%len(labels)]
	}
	return out
}

// Labels returns prefix-1 .. prefix-n
func Labels(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s-%d", prefix, i+1)
	}
	return out
}

// Build assembles a dataset and panics on shape errors
func Build(columns ...dataset.Column) *dataset.Dataset {
	return dataset.MustNew(columns...)
}

// Date is time.Date in UTC at midnight
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
