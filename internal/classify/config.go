package classify

// Config holds classification thresholds
type Config struct {
	DateLayouts         []string `yaml:"date_layouts"`
	TemporalSample      int      `yaml:"temporal_sample"`
	TemporalMinShare    float64  `yaml:"temporal_min_share"`
	MonetaryPositive    float64  `yaml:"monetary_positive"`
	MonetaryMaxCV       float64  `yaml:"monetary_max_cv"`
	MonetaryDecimals    float64  `yaml:"monetary_decimals"`
	MonetaryPriceRange  float64  `yaml:"monetary_price_range"`
	MonetaryMinPrice    float64  `yaml:"monetary_min_price"`
	MonetaryMaxPrice    float64  `yaml:"monetary_max_price"`
	QuantityIntegral    float64  `yaml:"quantity_integral"`
	QuantityMaxMean     float64  `yaml:"quantity_max_mean"`
	QuantityPositive    float64  `yaml:"quantity_positive"`
	PercentageInRange   float64  `yaml:"percentage_in_range"`
	CategoryMaxRatio    float64  `yaml:"category_max_ratio"`
	NameSample          int      `yaml:"name_sample"`
	NameHasSpace        float64  `yaml:"name_has_space"`
	NameStartsUpper     float64  `yaml:"name_starts_upper"`
	NameTypicalLength   float64  `yaml:"name_typical_length"`
	NameMinLength       int      `yaml:"name_min_length"`
	NameMaxLength       int      `yaml:"name_max_length"`
	HighCardinalityRate float64  `yaml:"high_cardinality_rate"`
	MediumCardinality   int      `yaml:"medium_cardinality"`
	SampleValues        int      `yaml:"sample_values"`
	KindSample          int      `yaml:"kind_sample"`
	Workers             int      `yaml:"workers"`
}

// DefaultConfig returns the standard classification thresholds
func DefaultConfig() Config {
	return Config{
		DateLayouts:         defaultDateLayouts(),
		TemporalSample:      10,
		TemporalMinShare:    0.7,
		MonetaryPositive:    0.8,
		MonetaryMaxCV:       5,
		MonetaryDecimals:    0.3,
		MonetaryPriceRange:  0.8,
		MonetaryMinPrice:    1,
		MonetaryMaxPrice:    1_000_000,
		QuantityIntegral:    0.9,
		QuantityMaxMean:     100,
		QuantityPositive:    0.95,
		PercentageInRange:   0.95,
		CategoryMaxRatio:    0.05,
		NameSample:          20,
		NameHasSpace:        0.7,
		NameStartsUpper:     0.8,
		NameTypicalLength:   0.8,
		NameMinLength:       5,
		NameMaxLength:       50,
		HighCardinalityRate: 0.8,
		MediumCardinality:   20,
		SampleValues:        5,
		KindSample:          8,
		Workers:             4,
	}
}

// confidence per decision rule
const (
	confidenceIdentifier = 0.95
	confidenceTemporal   = 0.9
	confidenceMonetary   = 0.85
	confidenceQuantity   = 0.8
	confidencePercentage = 0.85
	confidenceCategory   = 0.75
	confidencePersonName = 0.7
	confidenceMetric     = 0.6
	confidenceText       = 0.5
)
