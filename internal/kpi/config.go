package kpi

// Keywords are lowercase substrings matched against column names
type Keywords struct {
	Value    []string `yaml:"value"`
	Quantity []string `yaml:"quantity"`
	Product  []string `yaml:"product"`
	Customer []string `yaml:"customer"`
}

// Config holds KPI and column-resolution settings
type Config struct {
	TopDimensions        int      `yaml:"top_dimensions"`
	MaxDimensionDistinct int      `yaml:"max_dimension_distinct"`
	ApprovedStatus       string   `yaml:"approved_status"`
	Keywords             Keywords `yaml:"keywords"`
}

// DefaultConfig returns the standard KPI settings
func DefaultConfig() Config {
	return Config{
		TopDimensions:        3,
		MaxDimensionDistinct: 100,
		ApprovedStatus:       "Aprovado",
		Keywords: Keywords{
			Value:    []string{"valor", "value", "preco", "price", "total", "amount", "receita", "revenue"},
			Quantity: []string{"quantidade", "qtd", "qty", "units", "unidades", "qtde"},
			Product:  []string{"produto", "product", "item", "sku"},
			Customer: []string{"cliente", "customer", "nome", "name"},
		},
	}
}
