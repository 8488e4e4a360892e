// Package profiling holds the per-column classification results and the
// structures derived from them (relationships, logical schema).
package profiling

import "autobi/domain/dataset"

// SemanticType is the inferred business meaning of a column
type SemanticType string

const (
	SemanticIdentifier SemanticType = "identifier"
	SemanticTemporal   SemanticType = "temporal"
	SemanticMonetary   SemanticType = "monetary"
	SemanticQuantity   SemanticType = "quantity"
	SemanticPercentage SemanticType = "percentage"
	SemanticCategory   SemanticType = "category"
	SemanticPersonName SemanticType = "person_name"
	SemanticMetric     SemanticType = "metric"
	SemanticText       SemanticType = "text"
)

// SemanticTypes lists every semantic type in decision order
var SemanticTypes = []SemanticType{
	SemanticIdentifier, SemanticTemporal, SemanticMonetary, SemanticQuantity,
	SemanticPercentage, SemanticCategory, SemanticPersonName, SemanticMetric, SemanticText,
}

// Role is the functional classification used for schema inference
type Role string

const (
	RoleMeasure    Role = "measure"
	RoleDimension  Role = "dimension"
	RoleDate       Role = "date"
	RoleIdentifier Role = "identifier"
	RoleAttribute  Role = "attribute"
	RoleText       Role = "text"
)

// Valid reports whether r is one of the fixed roles
func (r Role) Valid() bool {
	switch r {
	case RoleMeasure, RoleDimension, RoleDate, RoleIdentifier, RoleAttribute, RoleText:
		return true
	}
	return false
}

// CardinalityClass buckets a column's distinct count
type CardinalityClass string

const (
	CardinalityHigh   CardinalityClass = "high"
	CardinalityMedium CardinalityClass = "medium"
	CardinalityLow    CardinalityClass = "low"
)

// Aggregation is the suggested rollup for a measure
type Aggregation string

const (
	AggregationNone Aggregation = ""
	AggregationSum  Aggregation = "sum"
	AggregationAvg  Aggregation = "avg"
)

// ColumnProfile is the classification of one column, built once per run
type ColumnProfile struct {
	Name            string           `json:"name"`
	RawDType        dataset.DType    `json:"raw_dtype"`
	NullCount       int              `json:"null_count"`
	NullRatio       float64          `json:"null_ratio"`
	DistinctCount   int              `json:"distinct_count"`
	Cardinality     CardinalityClass `json:"cardinality_class"`
	SampleValues    []string         `json:"sample_values"`
	SemanticType    SemanticType     `json:"semantic_type"`
	Role            Role             `json:"role"`
	IsKey           bool             `json:"is_key"`
	Confidence      float64          `json:"confidence"`
	AggregationHint Aggregation      `json:"aggregation_hint,omitempty"`
}

// Detected reports whether classification produced a usable semantic type
func (p ColumnProfile) Detected() bool {
	return p.SemanticType != "" && p.Confidence > 0
}

// RelationshipType names the kind of structural edge between two columns
type RelationshipType string

const (
	RelationshipOneToOne    RelationshipType = "one_to_one"
	RelationshipOneToMany   RelationshipType = "one_to_many"
	RelationshipCorrelation RelationshipType = "correlation"
)

// RelationshipEdge links two columns. For one_to_many, From is the dimension
// and To the measure.
type RelationshipEdge struct {
	Type        RelationshipType `json:"type"`
	From        string           `json:"from"`
	To          string           `json:"to"`
	Confidence  float64          `json:"confidence"`
	Correlation *float64         `json:"correlation,omitempty"`
	Aggregation Aggregation      `json:"aggregation,omitempty"`
}

// Fact describes the inferred fact table grain
type Fact struct {
	Type       string   `json:"type"`
	Grain      string   `json:"grain"`
	Measures   []string `json:"measures"`
	Dimensions []string `json:"dimensions"`
	Time       string   `json:"time"`
}

// Schema is the logical schema aggregated from column roles
type Schema struct {
	Dimensions  []string `json:"dimensions"`
	Measures    []string `json:"measures"`
	Temporal    []string `json:"temporal"`
	Identifiers []string `json:"identifiers"`
	Fact        *Fact    `json:"fact,omitempty"`
}

// ColumnKinds is the report-level split of columns into coarse kinds
type ColumnKinds struct {
	Numeric     []string `json:"numeric"`
	Categorical []string `json:"categorical"`
	Date        []string `json:"date"`
	Boolean     []string `json:"boolean"`
}

// WithType returns a copy of the profile with the decision fields set
func (p ColumnProfile) WithType(t SemanticType, r Role, confidence float64, agg Aggregation) ColumnProfile {
	p.SemanticType = t
	p.Role = r
	p.Confidence = confidence
	p.AggregationHint = agg
	return p
}
