// Package schema aggregates column roles into a logical schema.
package schema

import "autobi/domain/profiling"

// Infer buckets columns by role. A fact descriptor is added when at least
// one measure and one temporal column exist; its time axis is the first
// temporal column.
func Infer(profiles []profiling.ColumnProfile) profiling.Schema {
	s := profiling.Schema{
		Dimensions:  []string{},
		Measures:    []string{},
		Temporal:    []string{},
		Identifiers: []string{},
	}
	for _, p := range profiles {
		switch p.Role {
		case profiling.RoleDimension:
			s.Dimensions = append(s.Dimensions, p.Name)
		case profiling.RoleMeasure:
			s.Measures = append(s.Measures, p.Name)
		case profiling.RoleDate:
			s.Temporal = append(s.Temporal, p.Name)
		case profiling.RoleIdentifier:
			s.Identifiers = append(s.Identifiers, p.Name)
		}
	}

	if len(s.Measures) > 0 && len(s.Temporal) > 0 {
		s.Fact = &profiling.Fact{
			Type:       "transaction",
			Grain:      "row_level",
			Measures:   append([]string(nil), s.Measures...),
			Dimensions: append([]string{}, s.Dimensions...),
			Time:       s.Temporal[0],
		}
	}
	return s
}
