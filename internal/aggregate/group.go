// Package aggregate groups measure values by labels and calendar buckets.
// Missing keys are dropped; missing measures are skipped within a group.
package aggregate

import (
	"sort"

	"autobi/domain/dataset"
	"autobi/internal/numeric"
)

// Group is the rollup of one key
type Group struct {
	Key    string
	Sum    float64
	Count  int
	Values []float64
}

// Mean of the non-missing measure values in the group
func (g Group) Mean() float64 {
	return numeric.Mean(g.Values)
}

// By groups measure by keys in order of first appearance
func By(keys, measure []dataset.Value) []Group {
	index := make(map[string]int)
	var groups []Group
	for i, k := range keys {
		if k.IsMissing() {
			continue
		}
		label := k.String()
		pos, ok := index[label]
		if !ok {
			pos = len(groups)
			index[label] = pos
			groups = append(groups, Group{Key: label})
		}
		if i >= len(measure) || !measure[i].IsNumeric() {
			continue
		}
		x := measure[i].AsFloat64()
		groups[pos].Sum += x
		groups[pos].Count++
		groups[pos].Values = append(groups[pos].Values, x)
	}
	return groups
}

// ValueCounts counts occurrences of each non-missing value, most frequent
// first; ties keep first-appearance order
func ValueCounts(values []dataset.Value) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		label := v.String()
		pos, ok := index[label]
		if !ok {
			pos = len(groups)
			index[label] = pos
			groups = append(groups, Group{Key: label})
		}
		groups[pos].Count++
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
	return groups
}

// SortBySum orders groups by descending sum; ties keep their order
func SortBySum(groups []Group) []Group {
	out := append([]Group(nil), groups...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Sum > out[j].Sum
	})
	return out
}

// SortByKey orders groups lexically by key
func SortByKey(groups []Group) []Group {
	out := append([]Group(nil), groups...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out
}

// Top returns the n largest groups by sum
func Top(groups []Group, n int) []Group {
	sorted := SortBySum(groups)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
