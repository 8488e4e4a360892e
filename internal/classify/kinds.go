package classify

import (
	"time"

	"autobi/domain/dataset"
	"autobi/domain/profiling"
)

// Detection is the report-level column split. Parsed is a derived view of
// the input where text date columns hold timestamps; the input is untouched.
type Detection struct {
	Kinds   profiling.ColumnKinds
	Parsed  *dataset.Dataset
	Layouts map[string]string
}

// DetectColumnTypes splits columns into numeric, date, boolean and
// categorical kinds, in column order.
func (c *Classifier) DetectColumnTypes(ds *dataset.Dataset) Detection {
	det := Detection{
		Kinds: profiling.ColumnKinds{
			Numeric:     []string{},
			Categorical: []string{},
			Date:        []string{},
			Boolean:     []string{},
		},
		Parsed:  ds,
		Layouts: map[string]string{},
	}

	for _, col := range ds.Columns() {
		switch dataset.DTypeOf(col.Values) {
		case dataset.DTypeNumeric:
			det.Kinds.Numeric = append(det.Kinds.Numeric, col.Name)
			continue
		case dataset.DTypeDatetime:
			det.Kinds.Date = append(det.Kinds.Date, col.Name)
			continue
		}

		if layout, ok := c.dateLayout(col.Values); ok {
			parsed, parsedAny := parseColumn(col, layout)
			if parsedAny {
				det.Parsed = det.Parsed.WithColumn(parsed)
				det.Layouts[col.Name] = layout
				det.Kinds.Date = append(det.Kinds.Date, col.Name)
				continue
			}
		}

		if dataset.DistinctCount(col.Values) == 2 {
			det.Kinds.Boolean = append(det.Kinds.Boolean, col.Name)
		} else {
			det.Kinds.Categorical = append(det.Kinds.Categorical, col.Name)
		}
	}
	return det
}

// dateLayout picks a layout only when most of a short leading sample looks
// like a date and one layout parses all of it
func (c *Classifier) dateLayout(values []dataset.Value) (string, bool) {
	sample := make([]string, 0, c.config.KindSample)
	for _, v := range values {
		if len(sample) == c.config.KindSample {
			break
		}
		if v.IsMissing() {
			continue
		}
		sample = append(sample, v.String())
	}
	if len(sample) == 0 {
		return "", false
	}

	dateLikeCount := 0
	for _, s := range sample {
		if LooksLikeDate(s) {
			dateLikeCount++
		}
	}
	need := len(sample) / 2
	if need < 2 {
		need = 2
	}
	if dateLikeCount < need {
		return "", false
	}
	return LayoutForAll(c.config.DateLayouts, sample)
}

func parseColumn(col dataset.Column, layout string) (dataset.Column, bool) {
	times := make([]*time.Time, len(col.Values))
	parsedAny := false
	for i, v := range col.Values {
		if v.IsTimestamp() {
			t := v.AsTime()
			times[i] = &t
			parsedAny = true
			continue
		}
		if v.IsMissing() {
			continue
		}
		if t, ok := ParseDate(layout, v.String()); ok {
			times[i] = &t
			parsedAny = true
		}
	}
	return dataset.TimeColumn(col.Name, times), parsedAny
}
