package dashboard

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"autobi/domain/report"
)

// Action is a follow-up offered with an answer
type Action struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// Answer is a short reply to a question about a report
type Answer struct {
	Text             string   `json:"text"`
	SuggestedActions []Action `json:"suggested_actions"`
}

var (
	revenueWords  = []string{"faturamento", "receita", "revenue"}
	ticketWords   = []string{"ticket"}
	customerWords = []string{"clientes", "customers"}
)

// AnswerQuestion replies to a short keyword question (revenue, average
// ticket, customers) from the report's KPIs
func AnswerQuestion(rep *report.Report, question string) Answer {
	p := message.NewPrinter(language.English)
	q := strings.ToLower(question)

	var kpis report.KPISet
	if rep != nil {
		kpis = rep.KPIs
	}
	revenue := kpis.Number("total_revenue")
	ticket := kpis.Number("avg_ticket")

	var text string
	switch {
	case containsAny(q, revenueWords):
		text = p.Sprintf("Revenue in the period: %.2f.", revenue)
	case containsAny(q, ticketWords):
		text = p.Sprintf("Average ticket: %.2f.", ticket)
	case containsAny(q, customerWords):
		text = p.Sprintf("Total customers/transactions: %d.", int(kpis.Number("total_customers")))
	default:
		text = p.Sprintf("Summary: revenue %.2f, average ticket %.2f.", revenue, ticket)
	}

	return Answer{
		Text: text,
		SuggestedActions: []Action{
			{Label: "Create a drop alert", Action: "upgrade_required"},
			{Label: "Export summary", Action: "export_summary"},
			{Label: "Explore by category", Action: "apply_filter_category"},
		},
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
