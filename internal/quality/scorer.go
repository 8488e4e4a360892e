// Package quality scores a dataset and lists its data-quality problems.
package quality

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"autobi/domain/dataset"
	"autobi/domain/profiling"
	"autobi/domain/report"
	"autobi/internal/numeric"
)

// Level buckets a quality score
type Level string

const (
	LevelGood Level = "good"
	LevelOK   Level = "ok"
	LevelPoor Level = "poor"
)

// Config holds quality thresholds
type Config struct {
	GoodScore       float64 `yaml:"good_score"`
	OKScore         float64 `yaml:"ok_score"`
	IdentifierShare float64 `yaml:"identifier_share"`
	NullRatio       float64 `yaml:"null_ratio"`
	HighNullRatio   float64 `yaml:"high_null_ratio"`
	OutlierIQR      float64 `yaml:"outlier_iqr"`
	MaxOutlierRatio float64 `yaml:"max_outlier_ratio"`
	MaxProblems     int     `yaml:"max_problems"`
}

// DefaultConfig returns the standard quality thresholds
func DefaultConfig() Config {
	return Config{
		GoodScore:       75,
		OKScore:         50,
		IdentifierShare: 0.2,
		NullRatio:       0.1,
		HighNullRatio:   0.3,
		OutlierIQR:      3,
		MaxOutlierRatio: 0.1,
		MaxProblems:     8,
	}
}

// Scorer computes quality scores and problems
type Scorer struct {
	config Config
}

// NewScorer creates a scorer
func NewScorer(config Config) *Scorer {
	return &Scorer{config: config}
}

// Score is the mean of completeness, consistency and uniqueness, each a
// percentage. An empty dataset scores 0.
func (s *Scorer) Score(ds *dataset.Dataset, profiles []profiling.ColumnProfile) float64 {
	if ds.IsEmpty() || len(profiles) == 0 {
		return 0
	}

	nulls := 0
	for _, col := range ds.Columns() {
		nulls += dataset.NullCount(col.Values)
	}
	cells := float64(ds.Rows() * ds.Width())
	completeness := 100 * (1 - float64(nulls)/cells)

	detected, keys := 0, 0
	for _, p := range profiles {
		if p.Detected() {
			detected++
		}
		if p.IsKey {
			keys++
		}
	}
	consistency := 100 * float64(detected) / float64(len(profiles))

	keyBase := s.config.IdentifierShare * float64(len(profiles))
	if keyBase < 1 {
		keyBase = 1
	}
	uniqueness := 100 * float64(keys) / keyBase
	if uniqueness > 100 {
		uniqueness = 100
	}

	return numeric.Mean([]float64{completeness, consistency, uniqueness})
}

// Level maps a score to good, ok or poor
func (s *Scorer) Level(score float64) Level {
	switch {
	case score >= s.config.GoodScore:
		return LevelGood
	case score >= s.config.OKScore:
		return LevelOK
	}
	return LevelPoor
}

// Problems runs every detector, sorts by severity and caps the list
func (s *Scorer) Problems(ds *dataset.Dataset, kinds profiling.ColumnKinds) []report.Problem {
	problems := []report.Problem{}
	if ds.IsEmpty() {
		return problems
	}

	problems = append(problems, s.negatives(ds, kinds.Numeric)...)
	problems = append(problems, s.nulls(ds)...)
	problems = append(problems, s.duplicates(ds)...)
	problems = append(problems, s.outliers(ds, kinds.Numeric)...)
	problems = append(problems, s.casing(ds, kinds.Categorical)...)

	sort.SliceStable(problems, func(i, j int) bool {
		return problems[i].Severity.Rank() < problems[j].Severity.Rank()
	})
	if len(problems) > s.config.MaxProblems {
		problems = problems[:s.config.MaxProblems]
	}
	return problems
}

func (s *Scorer) negatives(ds *dataset.Dataset, cols []string) []report.Problem {
	var out []report.Problem
	for _, col := range cols {
		count := 0
		for _, x := range dataset.Floats(ds.Values(col)) {
			if x < 0 {
				count++
			}
		}
		if count == 0 {
			continue
		}
		out = append(out, report.Problem{
			Type:     "warning",
			Icon:     "⚠️",
			Severity: report.SeverityMedium,
			Column:   report.StringPtr(col),
			Message:  fmt.Sprintf("%d negative values in %q - check whether this is expected", count, col),
			Count:    count,
		})
	}
	return out
}

func (s *Scorer) nulls(ds *dataset.Dataset) []report.Problem {
	var out []report.Problem
	for _, col := range ds.Columns() {
		count := dataset.NullCount(col.Values)
		if count == 0 {
			continue
		}
		ratio := float64(count) / float64(ds.Rows())
		if ratio < s.config.NullRatio {
			continue
		}
		severity := report.SeverityMedium
		if ratio >= s.config.HighNullRatio {
			severity = report.SeverityHigh
		}
		out = append(out, report.Problem{
			Type:     "warning",
			Icon:     "❓",
			Severity: severity,
			Column:   report.StringPtr(col.Name),
			Message:  fmt.Sprintf("%d empty values in %q (%.1f%%)", count, col.Name, ratio*100),
			Count:    count,
		})
	}
	return out
}

func (s *Scorer) duplicates(ds *dataset.Dataset) []report.Problem {
	seen := make(map[string]struct{}, ds.Rows())
	count := 0
	for i := 0; i < ds.Rows(); i++ {
		row := ds.Row(i)
		parts := make([]string, len(row))
		for j, v := range row {
			parts[j] = v.Key()
		}
		key := strings.Join(parts, "\x1f")
		if _, ok := seen[key]; ok {
			count++
			continue
		}
		seen[key] = struct{}{}
	}
	if count == 0 {
		return nil
	}
	return []report.Problem{{
		Type:     "info",
		Icon:     "🔄",
		Severity: report.SeverityLow,
		Message:  fmt.Sprintf("%d duplicated rows found", count),
		Count:    count,
	}}
}

func (s *Scorer) outliers(ds *dataset.Dataset, cols []string) []report.Problem {
	var out []report.Problem
	for _, col := range cols {
		data := dataset.Floats(ds.Values(col))
		if len(data) == 0 {
			continue
		}
		q1 := numeric.Quantile(data, 0.25)
		q3 := numeric.Quantile(data, 0.75)
		iqr := q3 - q1
		lower := q1 - s.config.OutlierIQR*iqr
		upper := q3 + s.config.OutlierIQR*iqr

		count := 0
		for _, x := range data {
			if x < lower || x > upper {
				count++
			}
		}
		if count == 0 || float64(count) >= s.config.MaxOutlierRatio*float64(ds.Rows()) {
			continue
		}
		out = append(out, report.Problem{
			Type:     "info",
			Icon:     "📍",
			Severity: report.SeverityLow,
			Column:   report.StringPtr(col),
			Message:  fmt.Sprintf("%d extreme values detected in %q - may be legitimate or an error", count, col),
			Count:    count,
		})
	}
	return out
}

// casing flags text columns whose distinct count shrinks when lowercased
func (s *Scorer) casing(ds *dataset.Dataset, cols []string) []report.Problem {
	var out []report.Problem
	lower := cases.Lower(language.Und)
	for _, col := range cols {
		raw := make(map[string]struct{})
		folded := make(map[string]struct{})
		for _, v := range ds.Values(col) {
			if !v.IsString() {
				continue
			}
			raw[v.AsString()] = struct{}{}
			folded[lower.String(v.AsString())] = struct{}{}
		}
		diff := len(raw) - len(folded)
		if diff <= 0 {
			continue
		}
		out = append(out, report.Problem{
			Type:     "tip",
			Icon:     "🔤",
			Severity: report.SeverityLow,
			Column:   report.StringPtr(col),
			Message:  fmt.Sprintf("Inconsistent capitalization in %q (%d values may be duplicates)", col, diff),
			Count:    diff,
		})
	}
	return out
}
