package testkit

import (
	"math"
	"math/rand"
	"time"

	"autobi/domain/dataset"
)

// SalesGeneratorConfig configures the synthetic sales generator
type SalesGeneratorConfig struct {
	Rows      int       `json:"rows"`
	StartDate time.Time `json:"start_date"`
	Days      int       `json:"days"`
	Growth    float64   `json:"growth"`
	Products  []string  `json:"products"`
	Prices    []float64 `json:"prices"`
	Payments  []string  `json:"payments"`
	Regions   []string  `json:"regions"`
	Seed      int64     `json:"seed"`
}

// DefaultSalesConfig returns a small two-month retail dataset
func DefaultSalesConfig() SalesGeneratorConfig {
	return SalesGeneratorConfig{
		Rows:      120,
		StartDate: Date(2024, time.January, 1),
		Days:      60,
		Growth:    2,
		Products:  []string{"Camiseta", "Calça", "Tênis", "Boné", "Jaqueta"},
		Prices:    []float64{49.9, 89.9, 249.9, 39.9, 199.9},
		Payments:  []string{"Pix", "Cartão de Crédito", "Boleto"},
		Regions:   []string{"Sudeste", "Sul", "Nordeste"},
		Seed:      42,
	}
}

// SalesGenerator produces seeded, reproducible sales rows
type SalesGenerator struct {
	config SalesGeneratorConfig
	rng    *rand.Rand
}

// NewSalesGenerator creates a generator
func NewSalesGenerator(config SalesGeneratorConfig) *SalesGenerator {
	return &SalesGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds the dataset with columns
// data, valor, quantidade, produto, forma_pagamento, regiao, cliente
func (g *SalesGenerator) Generate() *dataset.Dataset {
	n := g.config.Rows
	dates := make([]string, n)
	values := make([]float64, n)
	qty := make([]float64, n)
	products := make([]string, n)
	payments := make([]string, n)
	regions := make([]string, n)
	customers := make([]string, n)

	for i := 0; i < n; i++ {
		day := i * g.config.Days / n
		date := g.config.StartDate.AddDate(0, 0, day)
		product := g.rng.Intn(len(g.config.Products))
		maxQty := 3 + int(math.Round(g.config.Growth*float64(day)/float64(g.config.Days)))

		dates[i] = date.Format("2006-01-02")
		qty[i] = float64(1 + g.rng.Intn(maxQty))
		values[i] = g.config.Prices[product] * qty[i]
		products[i] = g.config.Products[product]
		payments[i] = g.config.Payments[g.rng.Intn(len(g.config.Payments))]
		regions[i] = g.config.Regions[g.rng.Intn(len(g.config.Regions))]
		customers[i] = customerNames[g.rng.Intn(len(customerNames))]
	}

	return Build(
		Strings("data", dates...),
		Numbers("valor", values...),
		Numbers("quantidade", qty...),
		Strings("produto", products...),
		Strings("forma_pagamento", payments...),
		Strings("regiao", regions...),
		Strings("cliente", customers...),
	)
}

var customerNames = []string{
	"Ana Souza", "Bruno Lima", "Carla Dias", "Diego Alves", "Elisa Rocha",
	"Felipe Nunes", "Gabriela Reis", "Hugo Martins", "Isabela Costa", "João Pereira",
}
