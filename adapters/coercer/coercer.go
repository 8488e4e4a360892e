// Package coercer turns loosely typed uploaded cells into typed dataset values.
package coercer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"autobi/domain/dataset"
)

// TypeCoercer handles deterministic type coercion of raw cells
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold float64  `json:"numeric_threshold" yaml:"numeric_threshold"` // share of non-missing cells that must parse as numbers
	NullTokens       []string `json:"null_tokens" yaml:"null_tokens"`             // cell texts treated as missing
	CollapseSpaces   bool     `json:"collapse_spaces" yaml:"collapse_spaces"`     // squeeze runs of whitespace in text cells
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold: 1.0,
		NullTokens:       []string{"", "nan", "NaN", "null", "NULL", "None", "N/A", "n/a", "NA", "#N/A"},
		CollapseSpaces:   true,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

var currencySymbols = []string{"R$", "US$", "$", "€", "£", "¥", "BRL", "USD", "EUR", "GBP", "JPY"}

// CoerceColumn converts a whole column. The column becomes numeric only when
// enough non-missing cells parse as numbers; otherwise every cell keeps its
// native kind (text, boolean, timestamp) and unparsable text stays text.
func (c *TypeCoercer) CoerceColumn(raw []interface{}) []dataset.Value {
	analysis := c.AnalyzeTypeDistribution(raw)
	numeric := analysis.ValidCount > 0 && analysis.NumericRatio >= c.config.NumericThreshold

	values := make([]dataset.Value, len(raw))
	for i, cell := range raw {
		if c.isMissing(cell) {
			values[i] = dataset.NewMissingValue()
			continue
		}
		if numeric {
			if v, ok := c.tryParseNumeric(cell); ok {
				values[i] = v
			} else {
				values[i] = dataset.NewMissingValue()
			}
			continue
		}
		values[i] = c.CoerceValue(cell)
	}
	return values
}

// CoerceValue converts a single cell without column context. Numbers stay
// numbers; text is only trimmed.
func (c *TypeCoercer) CoerceValue(raw interface{}) dataset.Value {
	if c.isMissing(raw) {
		return dataset.NewMissingValue()
	}
	switch v := raw.(type) {
	case bool:
		return dataset.NewBooleanValue(v)
	case time.Time:
		return dataset.NewTimestampValue(v)
	case *time.Time:
		if v == nil {
			return dataset.NewMissingValue()
		}
		return dataset.NewTimestampValue(*v)
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		if n, ok := c.tryParseNumeric(v); ok {
			return n
		}
		return dataset.NewMissingValue()
	case dataset.Value:
		return v
	}
	s := c.toString(raw)
	switch strings.TrimSpace(s) {
	case "True", "true", "TRUE":
		return dataset.NewBooleanValue(true)
	case "False", "false", "FALSE":
		return dataset.NewBooleanValue(false)
	}
	return c.coerceToString(s)
}

// AnalyzeTypeDistribution counts how many cells parse as each kind
func (c *TypeCoercer) AnalyzeTypeDistribution(values []interface{}) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(values)}
	for _, val := range values {
		if c.isMissing(val) {
			continue
		}
		analysis.ValidCount++
		if _, ok := c.tryParseNumeric(val); ok {
			analysis.NumericCount++
		}
	}
	if analysis.ValidCount > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
	}
	return analysis
}

func (c *TypeCoercer) isMissing(val interface{}) bool {
	switch v := val.(type) {
	case nil:
		return true
	case dataset.Value:
		return v.IsMissing()
	case float64:
		return math.IsNaN(v) || math.IsInf(v, 0)
	case string:
		trimmed := strings.TrimSpace(v)
		for _, token := range c.config.NullTokens {
			if trimmed == token {
				return true
			}
		}
	}
	return false
}

// coerceToString trims a text cell and collapses inner whitespace
func (c *TypeCoercer) coerceToString(strVal string) dataset.Value {
	strVal = strings.TrimSpace(strVal)
	if c.config.CollapseSpaces {
		strVal = whitespaceRun.ReplaceAllString(strVal, " ")
	}
	strVal = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, strVal)
	return dataset.NewStringValue(strVal)
}

// tryParseNumeric parses native numbers and number-like text.
// Handles parentheses negatives, currency symbols and European decimals.
func (c *TypeCoercer) tryParseNumeric(raw interface{}) (dataset.Value, bool) {
	switch v := raw.(type) {
	case float64:
		return dataset.NewNumericValue(v), !math.IsNaN(v) && !math.IsInf(v, 0)
	case float32:
		return c.tryParseNumeric(float64(v))
	case int:
		return dataset.NewNumericValue(float64(v)), true
	case int8:
		return dataset.NewNumericValue(float64(v)), true
	case int16:
		return dataset.NewNumericValue(float64(v)), true
	case int32:
		return dataset.NewNumericValue(float64(v)), true
	case int64:
		return dataset.NewNumericValue(float64(v)), true
	case uint:
		return dataset.NewNumericValue(float64(v)), true
	case uint8:
		return dataset.NewNumericValue(float64(v)), true
	case uint16:
		return dataset.NewNumericValue(float64(v)), true
	case uint32:
		return dataset.NewNumericValue(float64(v)), true
	case uint64:
		return dataset.NewNumericValue(float64(v)), true
	case dataset.Value:
		if v.IsNumeric() {
			return v, true
		}
		if v.IsString() {
			return c.tryParseNumeric(v.AsString())
		}
		return dataset.Value{}, false
	case string:
		return parseNumericText(v)
	}
	return dataset.Value{}, false
}

func parseNumericText(strVal string) (dataset.Value, bool) {
	cleanVal := strings.TrimSpace(strVal)
	if cleanVal == "" {
		return dataset.Value{}, false
	}

	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	for _, symbol := range currencySymbols {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(cleanVal), "%"))
	if cleanVal == "" {
		return dataset.Value{}, false
	}

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")
	hasSpace := strings.Contains(cleanVal, " ")

	switch {
	case hasComma && (hasPeriod || hasSpace):
		commaIdx := strings.LastIndex(cleanVal, ",")
		periodIdx := strings.LastIndex(cleanVal, ".")
		if commaIdx > periodIdx {
			// 1.234,56 or 1 234,56
			cleanVal = strings.ReplaceAll(cleanVal, ".", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
		}
	case hasComma:
		if strings.Count(cleanVal, ",") > 1 {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		}
	default:
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return dataset.Value{}, false
	}
	return dataset.NewNumericValue(val), true
}

// toString converts interface{} to string safely
func (c *TypeCoercer) toString(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%v", val)
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount   int     `json:"total_count"`
	ValidCount   int     `json:"valid_count"`
	NumericCount int     `json:"numeric_count"`
	NumericRatio float64 `json:"numeric_ratio"`
}

// FromRecords builds a dataset from row maps keyed by header. Headers fix the
// column order; keys absent from a row are missing cells.
func (c *TypeCoercer) FromRecords(headers []string, records []map[string]interface{}) (*dataset.Dataset, error) {
	raw := make([][]interface{}, len(headers))
	for j := range headers {
		raw[j] = make([]interface{}, len(records))
	}
	for i, rec := range records {
		for j, h := range headers {
			raw[j][i] = rec[h]
		}
	}
	return c.FromColumns(headers, raw)
}

// FromRows builds a dataset from positional rows; short rows are padded with missing cells
func (c *TypeCoercer) FromRows(headers []string, rows [][]interface{}) (*dataset.Dataset, error) {
	raw := make([][]interface{}, len(headers))
	for j := range headers {
		raw[j] = make([]interface{}, len(rows))
		for i, row := range rows {
			if j < len(row) {
				raw[j][i] = row[j]
			}
		}
	}
	return c.FromColumns(headers, raw)
}

// FromColumns coerces raw columns and validates the resulting dataset
func (c *TypeCoercer) FromColumns(headers []string, raw [][]interface{}) (*dataset.Dataset, error) {
	columns := make([]dataset.Column, len(headers))
	for j, h := range headers {
		var cells []interface{}
		if j < len(raw) {
			cells = raw[j]
		}
		columns[j] = dataset.Column{Name: h, Values: c.CoerceColumn(cells)}
	}
	return dataset.New(columns...)
}
