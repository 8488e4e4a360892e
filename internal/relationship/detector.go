// Package relationship finds structural links between classified columns.
package relationship

import (
	"context"
	"math"

	"autobi/domain/dataset"
	"autobi/domain/profiling"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Config holds detection thresholds
type Config struct {
	OneToOneShare       float64 `yaml:"one_to_one_share"`
	MinCorrelation      float64 `yaml:"min_correlation"`
	OneToOneConfidence  float64 `yaml:"one_to_one_confidence"`
	OneToManyConfidence float64 `yaml:"one_to_many_confidence"`
	Workers             int     `yaml:"workers"`
}

// DefaultConfig returns the standard thresholds
func DefaultConfig() Config {
	return Config{
		OneToOneShare:       0.95,
		MinCorrelation:      0.7,
		OneToOneConfidence:  0.9,
		OneToManyConfidence: 0.8,
		Workers:             4,
	}
}

// Detector tests every unordered column pair
type Detector struct {
	config Config
}

// NewDetector creates a detector
func NewDetector(config Config) *Detector {
	return &Detector{config: config}
}

type pair struct{ a, b int }

// Detect returns at most one edge per pair, ordered by pair position.
// Rules are tried in order: one-to-one, one-to-many, correlation.
func (d *Detector) Detect(ctx context.Context, ds *dataset.Dataset, profiles []profiling.ColumnProfile) ([]profiling.RelationshipEdge, error) {
	columns := ds.Columns()
	var pairs []pair
	for i := range columns {
		for j := i + 1; j < len(columns); j++ {
			pairs = append(pairs, pair{i, j})
		}
	}

	slots := make([]*profiling.RelationshipEdge, len(pairs))
	g, ctx := errgroup.WithContext(ctx)
	if d.config.Workers > 0 {
		g.SetLimit(d.config.Workers)
	}
	for k, p := range pairs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			slots[k] = d.analyze(columns[p.a], columns[p.b], profileAt(profiles, p.a), profileAt(profiles, p.b))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	edges := make([]profiling.RelationshipEdge, 0, len(slots))
	for _, e := range slots {
		if e != nil {
			edges = append(edges, *e)
		}
	}
	return edges, nil
}

func profileAt(profiles []profiling.ColumnProfile, i int) profiling.ColumnProfile {
	if i < len(profiles) {
		return profiles[i]
	}
	return profiling.ColumnProfile{}
}

func (d *Detector) analyze(a, b dataset.Column, pa, pb profiling.ColumnProfile) *profiling.RelationshipEdge {
	if d.IsOneToOne(a.Values, b.Values) {
		return &profiling.RelationshipEdge{
			Type:       profiling.RelationshipOneToOne,
			From:       a.Name,
			To:         b.Name,
			Confidence: d.config.OneToOneConfidence,
		}
	}

	if pa.Role == profiling.RoleDimension && pb.Role == profiling.RoleMeasure {
		return &profiling.RelationshipEdge{
			Type:        profiling.RelationshipOneToMany,
			From:        a.Name,
			To:          b.Name,
			Confidence:  d.config.OneToManyConfidence,
			Aggregation: profiling.AggregationSum,
		}
	}

	if pa.Role == profiling.RoleMeasure && pb.Role == profiling.RoleMeasure {
		r, ok := Pearson(a.Values, b.Values)
		if ok && math.Abs(r) > d.config.MinCorrelation {
			return &profiling.RelationshipEdge{
				Type:        profiling.RelationshipCorrelation,
				From:        a.Name,
				To:          b.Name,
				Confidence:  math.Abs(r),
				Correlation: &r,
			}
		}
	}
	return nil
}

// IsOneToOne reports whether grouping by a leaves exactly one distinct b in
// enough groups. Missing keys and values are ignored.
func (d *Detector) IsOneToOne(a, b []dataset.Value) bool {
	groups := make(map[string]map[string]struct{})
	for i := range a {
		if a[i].IsMissing() {
			continue
		}
		key := a[i].Key()
		seen, ok := groups[key]
		if !ok {
			seen = make(map[string]struct{})
			groups[key] = seen
		}
		if i < len(b) && !b[i].IsMissing() {
			seen[b[i].Key()] = struct{}{}
		}
	}
	if len(groups) == 0 {
		return false
	}
	single := 0
	for _, seen := range groups {
		if len(seen) == 1 {
			single++
		}
	}
	return float64(single)/float64(len(groups)) >= d.config.OneToOneShare
}

// Pearson correlates the complete numeric pairs of two columns. Fewer than
// two pairs or zero variance yields ok=false.
func Pearson(a, b []dataset.Value) (float64, bool) {
	var xs, ys []float64
	for i := range a {
		if i >= len(b) || !a[i].IsNumeric() || !b[i].IsNumeric() {
			continue
		}
		xs = append(xs, a[i].AsFloat64())
		ys = append(ys, b[i].AsFloat64())
	}
	if len(xs) < 2 {
		return 0, false
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}
