package dataset

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// ValueType defines the storage type for values
type ValueType string

const (
	ValueTypeString    ValueType = "string"
	ValueTypeNumeric   ValueType = "numeric"
	ValueTypeBoolean   ValueType = "boolean"
	ValueTypeTimestamp ValueType = "timestamp"
	ValueTypeMissing   ValueType = "missing"
)

// Value represents a nullable scalar cell
type Value struct {
	Type         ValueType  `json:"type"`
	StringVal    *string    `json:"string_val,omitempty"`
	NumericVal   *float64   `json:"numeric_val,omitempty"`
	BooleanVal   *bool      `json:"boolean_val,omitempty"`
	TimestampVal *time.Time `json:"timestamp_val,omitempty"`
}

// NewStringValue creates a string value. Empty strings are missing.
func NewStringValue(s string) Value {
	if s == "" {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeString, StringVal: &s}
}

// NewNumericValue creates a numeric value. NaN and infinities are missing.
func NewNumericValue(n float64) Value {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeNumeric, NumericVal: &n}
}

// NewBooleanValue creates a boolean value
func NewBooleanValue(b bool) Value {
	return Value{Type: ValueTypeBoolean, BooleanVal: &b}
}

// NewTimestampValue creates a timestamp value
func NewTimestampValue(t time.Time) Value {
	return Value{Type: ValueTypeTimestamp, TimestampVal: &t}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{Type: ValueTypeMissing}
}

// IsMissing reports a null cell
func (v Value) IsMissing() bool {
	switch v.Type {
	case ValueTypeString:
		return v.StringVal == nil
	case ValueTypeNumeric:
		return v.NumericVal == nil
	case ValueTypeBoolean:
		return v.BooleanVal == nil
	case ValueTypeTimestamp:
		return v.TimestampVal == nil
	}
	return true
}

// IsNumeric returns true if the value represents a valid number
func (v Value) IsNumeric() bool {
	return v.Type == ValueTypeNumeric && v.NumericVal != nil
}

// IsString returns true if the value represents a valid string
func (v Value) IsString() bool {
	return v.Type == ValueTypeString && v.StringVal != nil
}

// IsBoolean returns true if the value represents a valid boolean
func (v Value) IsBoolean() bool {
	return v.Type == ValueTypeBoolean && v.BooleanVal != nil
}

// IsTimestamp returns true if the value represents a valid timestamp
func (v Value) IsTimestamp() bool {
	return v.Type == ValueTypeTimestamp && v.TimestampVal != nil
}

// AsFloat64 returns the numeric value as float64, or 0 if not numeric
func (v Value) AsFloat64() float64 {
	if v.NumericVal != nil {
		return *v.NumericVal
	}
	return 0.0
}

// AsString returns the string value, or empty string if not a string
func (v Value) AsString() string {
	if v.StringVal != nil {
		return *v.StringVal
	}
	return ""
}

// AsBoolean returns the boolean value, or false if not a boolean
func (v Value) AsBoolean() bool {
	if v.BooleanVal != nil {
		return *v.BooleanVal
	}
	return false
}

// AsTime returns the timestamp value, or the zero time
func (v Value) AsTime() time.Time {
	if v.TimestampVal != nil {
		return *v.TimestampVal
	}
	return time.Time{}
}

// String returns the display form used in labels and messages
func (v Value) String() string {
	switch {
	case v.IsString():
		return *v.StringVal
	case v.IsNumeric():
		return strconv.FormatFloat(*v.NumericVal, 'f', -1, 64)
	case v.IsBoolean():
		return strconv.FormatBool(*v.BooleanVal)
	case v.IsTimestamp():
		return v.TimestampVal.Format(time.RFC3339)
	}
	return ""
}

// Key returns a type-qualified identity used for grouping and distinct counts.
// Values of different types never collide.
func (v Value) Key() string {
	switch {
	case v.IsString():
		return "s:" + *v.StringVal
	case v.IsNumeric():
		return "n:" + strconv.FormatFloat(*v.NumericVal, 'g', -1, 64)
	case v.IsBoolean():
		return "b:" + strconv.FormatBool(*v.BooleanVal)
	case v.IsTimestamp():
		return "t:" + v.TimestampVal.UTC().Format(time.RFC3339Nano)
	}
	return "<missing>"
}

// GoString keeps test failure output readable
func (v Value) GoString() string {
	if v.IsMissing() {
		return "<missing>"
	}
	return fmt.Sprintf("%s(%s)", v.Type, v.String())
}
