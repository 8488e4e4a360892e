// Package classify infers the semantic type and role of each dataset column.
package classify

import (
	"context"
	"math"
	"unicode"
	"unicode/utf8"

	"autobi/domain/dataset"
	"autobi/domain/profiling"
	"autobi/internal/numeric"

	"golang.org/x/sync/errgroup"
)

// Classifier assigns one ColumnProfile per column
type Classifier struct {
	config Config
}

// NewClassifier creates a classifier with the given thresholds
func NewClassifier(config Config) *Classifier {
	return &Classifier{config: config}
}

// ClassifyAll profiles every column of ds. Columns are classified
// concurrently; the result keeps column order.
func (c *Classifier) ClassifyAll(ctx context.Context, ds *dataset.Dataset) ([]profiling.ColumnProfile, error) {
	columns := ds.Columns()
	profiles := make([]profiling.ColumnProfile, len(columns))

	g, ctx := errgroup.WithContext(ctx)
	if c.config.Workers > 0 {
		g.SetLimit(c.config.Workers)
	}
	for i, col := range columns {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			profiles[i] = c.Classify(col.Name, col.Values)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Classify profiles one column. The first matching rule wins.
func (c *Classifier) Classify(name string, values []dataset.Value) profiling.ColumnProfile {
	rows := len(values)
	nulls := dataset.NullCount(values)
	distinct := dataset.DistinctCount(values)
	present := dataset.NonMissing(values)

	profile := profiling.ColumnProfile{
		Name:          name,
		RawDType:      dataset.DTypeOf(values),
		NullCount:     nulls,
		NullRatio:     numeric.Ratio(float64(nulls), float64(rows)),
		DistinctCount: distinct,
		Cardinality:   c.cardinality(distinct, rows),
		SampleValues:  c.samples(present),
	}

	if len(present) == 0 {
		return profile.WithType(profiling.SemanticText, profiling.RoleAttribute, 0, profiling.AggregationNone)
	}

	if distinct == rows {
		p := profile.WithType(profiling.SemanticIdentifier, profiling.RoleIdentifier, confidenceIdentifier, profiling.AggregationNone)
		p.IsKey = true
		return p
	}

	if c.isTemporal(profile.RawDType, present) {
		return profile.WithType(profiling.SemanticTemporal, profiling.RoleDate, confidenceTemporal, profiling.AggregationNone)
	}

	if profile.RawDType == dataset.DTypeNumeric {
		data := dataset.Floats(present)
		switch {
		case c.isMonetary(data):
			return profile.WithType(profiling.SemanticMonetary, profiling.RoleMeasure, confidenceMonetary, profiling.AggregationSum)
		case c.isQuantity(data):
			return profile.WithType(profiling.SemanticQuantity, profiling.RoleMeasure, confidenceQuantity, profiling.AggregationSum)
		case c.isPercentage(data):
			return profile.WithType(profiling.SemanticPercentage, profiling.RoleMeasure, confidencePercentage, profiling.AggregationAvg)
		}
	}

	if float64(distinct)/float64(rows) < c.config.CategoryMaxRatio {
		return profile.WithType(profiling.SemanticCategory, profiling.RoleDimension, confidenceCategory, profiling.AggregationNone)
	}

	if profile.RawDType != dataset.DTypeNumeric && c.isPersonName(present) {
		return profile.WithType(profiling.SemanticPersonName, profiling.RoleDimension, confidencePersonName, profiling.AggregationNone)
	}

	if profile.RawDType == dataset.DTypeNumeric {
		return profile.WithType(profiling.SemanticMetric, profiling.RoleMeasure, confidenceMetric, profiling.AggregationAvg)
	}

	return profile.WithType(profiling.SemanticText, profiling.RoleAttribute, confidenceText, profiling.AggregationNone)
}

func (c *Classifier) cardinality(distinct, rows int) profiling.CardinalityClass {
	switch {
	case float64(distinct) > float64(rows)*c.config.HighCardinalityRate:
		return profiling.CardinalityHigh
	case distinct > c.config.MediumCardinality:
		return profiling.CardinalityMedium
	}
	return profiling.CardinalityLow
}

func (c *Classifier) samples(present []dataset.Value) []string {
	n := c.config.SampleValues
	if n > len(present) {
		n = len(present)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = present[i].String()
	}
	return out
}

// isTemporal accepts datetime columns and text columns whose leading sample
// parses under one fixed layout. Numbers are never read as dates.
func (c *Classifier) isTemporal(dtype dataset.DType, present []dataset.Value) bool {
	if dtype == dataset.DTypeDatetime {
		return true
	}
	if dtype != dataset.DTypeObject {
		return false
	}
	n := c.config.TemporalSample
	if n > len(present) {
		n = len(present)
	}
	sample := make([]string, 0, n)
	for _, v := range present[:n] {
		if !v.IsString() {
			return false
		}
		sample = append(sample, v.AsString())
	}
	_, ok := LayoutForShare(c.config.DateLayouts, sample, c.config.TemporalMinShare)
	return ok
}

func (c *Classifier) isMonetary(data []float64) bool {
	n := float64(len(data))
	if share(data, func(x float64) bool { return x > 0 }) < c.config.MonetaryPositive {
		return false
	}
	if numeric.CV(data) > c.config.MonetaryMaxCV {
		return false
	}
	if share(data, hasFraction) > c.config.MonetaryDecimals {
		return true
	}
	inRange := share(data, func(x float64) bool {
		return x >= c.config.MonetaryMinPrice && x <= c.config.MonetaryMaxPrice
	})
	return n > 0 && inRange > c.config.MonetaryPriceRange
}

func (c *Classifier) isQuantity(data []float64) bool {
	integral := share(data, func(x float64) bool { return !hasFraction(x) })
	positive := share(data, func(x float64) bool { return x > 0 })
	return integral >= c.config.QuantityIntegral &&
		numeric.Mean(data) < c.config.QuantityMaxMean &&
		positive >= c.config.QuantityPositive
}

func (c *Classifier) isPercentage(data []float64) bool {
	in100 := share(data, func(x float64) bool { return x >= 0 && x <= 100 })
	if in100 >= c.config.PercentageInRange {
		return true
	}
	in1 := share(data, func(x float64) bool { return x >= 0 && x <= 1 })
	return in1 >= c.config.PercentageInRange
}

func (c *Classifier) isPersonName(present []dataset.Value) bool {
	n := c.config.NameSample
	if n > len(present) {
		n = len(present)
	}
	if n == 0 {
		return false
	}
	var spaced, upper, typical int
	for _, v := range present[:n] {
		s := v.String()
		if containsSpace(s) {
			spaced++
		}
		if r, _ := utf8.DecodeRuneInString(s); unicode.IsUpper(r) {
			upper++
		}
		if l := utf8.RuneCountInString(s); l >= c.config.NameMinLength && l <= c.config.NameMaxLength {
			typical++
		}
	}
	total := float64(n)
	return float64(spaced)/total >= c.config.NameHasSpace &&
		float64(upper)/total >= c.config.NameStartsUpper &&
		float64(typical)/total >= c.config.NameTypicalLength
}

func containsSpace(s string) bool {
	for _, r := range s {
		if r == ' ' {
			return true
		}
	}
	return false
}

func hasFraction(x float64) bool {
	return math.Mod(x, 1) != 0
}

func share(data []float64, pred func(float64) bool) float64 {
	if len(data) == 0 {
		return 0
	}
	hits := 0
	for _, x := range data {
		if pred(x) {
			hits++
		}
	}
	return float64(hits) / float64(len(data))
}
