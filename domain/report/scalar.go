package report

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Float is a float64 that serializes non-finite values as null
type Float float64

// MarshalJSON implements json.Marshaler
func (f Float) MarshalJSON() ([]byte, error) {
	x := float64(f)
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(x, 'f', -1, 64)), nil
}

// UnmarshalJSON implements json.Unmarshaler; null decodes as zero
func (f *Float) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	var x float64
	if err := json.Unmarshal(data, &x); err != nil {
		return err
	}
	*f = Float(x)
	return nil
}

// Finite reports whether the value is neither NaN nor infinite
func (f Float) Finite() bool {
	x := float64(f)
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Scalar is a KPI or chart cell: a number, a string, or null
type Scalar struct {
	Num *float64
	Str *string
}

// Num builds a numeric scalar; NaN and infinities become null
func Num(x float64) Scalar {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return Scalar{}
	}
	return Scalar{Num: &x}
}

// Int builds a numeric scalar from an integer
func Int(n int) Scalar {
	return Num(float64(n))
}

// Str builds a string scalar
func Str(s string) Scalar {
	return Scalar{Str: &s}
}

// Null is the absent scalar
func Null() Scalar { return Scalar{} }

// IsNull reports an absent value
func (s Scalar) IsNull() bool { return s.Num == nil && s.Str == nil }

// Float returns the numeric value, or 0
func (s Scalar) Float() float64 {
	if s.Num != nil {
		return *s.Num
	}
	return 0
}

// String returns the string value, or the formatted number
func (s Scalar) String() string {
	switch {
	case s.Str != nil:
		return *s.Str
	case s.Num != nil:
		return strconv.FormatFloat(*s.Num, 'f', -1, 64)
	}
	return ""
}

// MarshalJSON implements json.Marshaler
func (s Scalar) MarshalJSON() ([]byte, error) {
	switch {
	case s.Num != nil:
		return Float(*s.Num).MarshalJSON()
	case s.Str != nil:
		return json.Marshal(*s.Str)
	}
	return []byte("null"), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Scalar) UnmarshalJSON(data []byte) error {
	*s = Scalar{}
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var str string
		if err := json.Unmarshal(trimmed, &str); err != nil {
			return err
		}
		s.Str = &str
		return nil
	}
	var x float64
	if err := json.Unmarshal(trimmed, &x); err != nil {
		return err
	}
	s.Num = &x
	return nil
}

// Record is one row of a chart payload
type Record map[string]Scalar

// KPISet maps KPI keys to values
type KPISet map[string]Scalar

// Merge returns a new set holding both; keys in other win
func (k KPISet) Merge(other KPISet) KPISet {
	out := make(KPISet, len(k)+len(other))
	for key, v := range k {
		out[key] = v
	}
	for key, v := range other {
		out[key] = v
	}
	return out
}

// Number returns the numeric KPI, or 0 when absent or textual
func (k KPISet) Number(key string) float64 {
	return k[key].Float()
}
