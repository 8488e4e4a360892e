package dataset

import (
	"errors"
	"testing"
	"time"

	"autobi/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nums(xs ...float64) []Value {
	out := make([]Value, len(xs))
	for i, x := range xs {
		out[i] = NewNumericValue(x)
	}
	return out
}

func strs(xs ...string) []Value {
	out := make([]Value, len(xs))
	for i, x := range xs {
		out[i] = NewStringValue(x)
	}
	return out
}

func TestNewValidatesShape(t *testing.T) {
	_, err := New(Column{Name: "a", Values: nums(1, 2)}, Column{Name: "b", Values: nums(1)})
	assert.True(t, errors.Is(err, core.ErrColumnLengthMismatch))

	_, err = New(Column{Name: "a", Values: nums(1)}, Column{Name: "a", Values: nums(2)})
	assert.True(t, errors.Is(err, core.ErrDuplicateColumn))

	ds, err := New(Column{Name: "a", Values: nums(1, 2)}, Column{Name: "b", Values: strs("x", "y")})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Rows())
	assert.Equal(t, 2, ds.Width())
	assert.False(t, ds.IsEmpty())
}

func TestEmpty(t *testing.T) {
	assert.True(t, Empty().IsEmpty())
	ds := MustNew(Column{Name: "a"})
	assert.True(t, ds.IsEmpty())
}

func TestDTypeOf(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		values []Value
		want   DType
	}{
		{"numeric with nulls", append(nums(1, 2), NewMissingValue()), DTypeNumeric},
		{"text", strs("a", "b"), DTypeObject},
		{"mixed", append(nums(1), NewStringValue("a")), DTypeObject},
		{"bool", []Value{NewBooleanValue(true), NewBooleanValue(false)}, DTypeBool},
		{"datetime", []Value{NewTimestampValue(ts)}, DTypeDatetime},
		{"empty", []Value{NewMissingValue(), NewStringValue("")}, DTypeEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DTypeOf(tt.values))
		})
	}
}

func TestCounting(t *testing.T) {
	values := []Value{NewNumericValue(1), NewStringValue("1"), NewNumericValue(1), NewMissingValue()}
	assert.Equal(t, 2, DistinctCount(values))
	assert.Equal(t, 1, NullCount(values))
	assert.Equal(t, []float64{1, 1}, Floats(values))
	assert.Len(t, NonMissing(values), 3)
}

func TestFilterAndTake(t *testing.T) {
	ds := MustNew(
		Column{Name: "v", Values: nums(1, 2, 3, 4)},
		Column{Name: "c", Values: strs("a", "b", "c", "d")},
	)
	even := ds.Filter(func(row int) bool { return int(ds.Values("v")[row].AsFloat64())%2 == 0 })
	assert.Equal(t, 2, even.Rows())
	assert.Equal(t, "b", even.Values("c")[0].AsString())

	assert.Equal(t, 4, ds.Rows(), "input is never mutated")
	assert.Equal(t, 2, ds.Head(2).Rows())
	assert.Equal(t, []Value{NewNumericValue(3), NewStringValue("c")}, ds.Row(2))
}

func TestValueConstructors(t *testing.T) {
	assert.True(t, NewStringValue("").IsMissing())
	assert.True(t, NewNumericValue(nan()).IsMissing())
	assert.Equal(t, "12.5", NewNumericValue(12.5).String())
	assert.NotEqual(t, NewNumericValue(1).Key(), NewStringValue("1").Key())
}

func nan() float64 {
	zero := 0.0
	return zero / zero
}
