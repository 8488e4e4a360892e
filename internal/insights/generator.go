// Package insights produces short narrative findings from a dataset and
// its headline KPIs.
package insights

import (
	"fmt"
	"math"
	"strings"

	"autobi/domain/dataset"
	"autobi/domain/profiling"
	"autobi/domain/report"
	"autobi/internal/aggregate"
	"autobi/internal/numeric"
)

// Config holds insight thresholds
type Config struct {
	MinGrowthPct       float64  `yaml:"min_growth_pct"`
	MinTopShare        float64  `yaml:"min_top_share"`
	RichRows           int      `yaml:"rich_rows"`
	SparseRows         int      `yaml:"sparse_rows"`
	TicketVariation    float64  `yaml:"ticket_variation"`
	ConcentrationRatio float64  `yaml:"concentration_ratio"`
	ConcentrationScan  int      `yaml:"concentration_scan"`
	MaxInsights        int      `yaml:"max_insights"`
	CustomerKeywords   []string `yaml:"customer_keywords"`
}

// DefaultConfig returns the standard insight thresholds
func DefaultConfig() Config {
	return Config{
		MinGrowthPct:       5,
		MinTopShare:        20,
		RichRows:           100,
		SparseRows:         10,
		TicketVariation:    0.5,
		ConcentrationRatio: 0.1,
		ConcentrationScan:  2,
		MaxInsights:        5,
		CustomerKeywords:   []string{"cliente", "customer", "comprador", "buyer", "nome", "name"},
	}
}

// Input is what the generator reads. Date and Value name the resolved
// columns and may be empty.
type Input struct {
	Dataset *dataset.Dataset
	Kinds   profiling.ColumnKinds
	Date    string
	Value   string
	KPIs    report.KPISet
}

// Generator applies the insight rules
type Generator struct {
	config Config
}

// NewGenerator creates a generator
func NewGenerator(config Config) *Generator {
	return &Generator{config: config}
}

// Generate runs every rule in order and caps the result
func (g *Generator) Generate(in Input) []report.Insight {
	insights := []report.Insight{}
	rules := []func(Input) *report.Insight{
		g.growth,
		g.topContributor,
		g.volume,
		g.ticketVariance,
		g.concentration,
	}
	for _, rule := range rules {
		if insight := rule(in); insight != nil {
			insights = append(insights, *insight)
		}
	}
	if len(insights) > g.config.MaxInsights {
		insights = insights[:g.config.MaxInsights]
	}
	return insights
}

// growth compares the second half of the chronologically sorted rows with
// the first
func (g *Generator) growth(in Input) *report.Insight {
	if in.Date == "" || in.Value == "" {
		return nil
	}
	firstHalf, secondHalf, dated := aggregate.Halves(in.Dataset.Values(in.Date), in.Dataset.Values(in.Value))
	if dated < 2 {
		return nil
	}
	first, second := numeric.Sum(firstHalf), numeric.Sum(secondHalf)
	if first <= 0 {
		return nil
	}
	growth := (second - first) / first * 100
	if math.Abs(growth) < g.config.MinGrowthPct {
		return nil
	}
	if growth > 0 {
		return &report.Insight{
			Type:    "growth",
			Icon:    "📈",
			Message: fmt.Sprintf("Your values grew %.1f%% in the second half of the period", growth),
		}
	}
	return &report.Insight{
		Type:    "warning",
		Icon:    "📉",
		Message: fmt.Sprintf("Your values fell %.1f%% in the second half of the period", -growth),
	}
}

func (g *Generator) topContributor(in Input) *report.Insight {
	if in.Value == "" {
		return nil
	}
	var col string
	for _, c := range in.Kinds.Categorical {
		if !g.customerLike(c) {
			col = c
			break
		}
	}
	if col == "" {
		return nil
	}

	measure := in.Dataset.Values(in.Value)
	groups := aggregate.SortBySum(aggregate.By(in.Dataset.Values(col), measure))
	if len(groups) == 0 {
		return nil
	}
	total := numeric.Sum(dataset.Floats(measure))
	if total <= 0 {
		return nil
	}
	share := groups[0].Sum / total * 100
	if share < g.config.MinTopShare {
		return nil
	}
	return &report.Insight{
		Type:    "highlight",
		Icon:    "🎯",
		Message: fmt.Sprintf("%q accounts for %.1f%% of the total - your most important item!", groups[0].Key, share),
	}
}

func (g *Generator) volume(in Input) *report.Insight {
	rows := in.Dataset.Rows()
	switch {
	case rows >= g.config.RichRows:
		return &report.Insight{
			Type:    "info",
			Icon:    "📊",
			Message: fmt.Sprintf("You already have %d records - enough data for advanced analysis!", rows),
		}
	case rows < g.config.SparseRows:
		return &report.Insight{
			Type:    "tip",
			Icon:    "💡",
			Message: fmt.Sprintf("Only %d records - add more data for better insights", rows),
		}
	}
	return nil
}

func (g *Generator) ticketVariance(in Input) *report.Insight {
	avgTicket := in.KPIs.Number("avg_ticket")
	if avgTicket == 0 || in.KPIs.Number("total_customers") == 0 || in.Value == "" {
		return nil
	}
	std := numeric.SampleStd(dataset.Floats(in.Dataset.Values(in.Value)))
	if math.IsNaN(std) || std/avgTicket <= g.config.TicketVariation {
		return nil
	}
	return &report.Insight{
		Type:    "tip",
		Icon:    "💰",
		Message: fmt.Sprintf("Average ticket of R$ %.2f with high variation - an opportunity to segment customers", avgTicket),
	}
}

func (g *Generator) concentration(in Input) *report.Insight {
	cats := in.Kinds.Categorical
	if len(cats) < g.config.ConcentrationScan || in.Dataset.Rows() == 0 {
		return nil
	}
	for _, col := range cats[:g.config.ConcentrationScan] {
		ratio := float64(dataset.DistinctCount(in.Dataset.Values(col))) / float64(in.Dataset.Rows())
		if ratio < g.config.ConcentrationRatio {
			return &report.Insight{
				Type:    "tip",
				Icon:    "🎨",
				Message: fmt.Sprintf("Data concentrated in few categories of %q - consider widening the variety", col),
			}
		}
	}
	return nil
}

func (g *Generator) customerLike(col string) bool {
	lower := strings.ToLower(col)
	for _, kw := range g.config.CustomerKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
