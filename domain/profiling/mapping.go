package profiling

// Mapping names the columns playing the report-level roles. Empty fields
// are unset.
type Mapping struct {
	Value    string `json:"value,omitempty" yaml:"value"`
	Quantity string `json:"quantity,omitempty" yaml:"quantity"`
	Date     string `json:"date,omitempty" yaml:"date"`
	Product  string `json:"product,omitempty" yaml:"product"`
}

// IsZero reports an empty mapping
func (m Mapping) IsZero() bool {
	return m == Mapping{}
}
