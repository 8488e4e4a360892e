package report

import (
	"fmt"
	"strings"

	"autobi/domain/core"
)

// Template selects the dashboard layout
type Template string

const (
	TemplateSales       Template = "sales"
	TemplateFinancial   Template = "financial"
	TemplatePerformance Template = "performance"
	TemplateCustom      Template = "custom"
)

// Templates lists the supported templates
var Templates = []Template{TemplateSales, TemplateFinancial, TemplatePerformance, TemplateCustom}

// ParseTemplate validates a template name; empty means sales
func ParseTemplate(s string) (Template, error) {
	t := Template(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return TemplateSales, nil
	}
	for _, known := range Templates {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownTemplate, s)
}

// Plan is the subscription tier
type Plan string

const (
	PlanFree       Plan = "free"
	PlanStarter    Plan = "starter"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// Plans lists tiers from lowest to highest
var Plans = []Plan{PlanFree, PlanStarter, PlanPro, PlanEnterprise}

// ParsePlan validates a plan tier; empty means free
func ParsePlan(s string) (Plan, error) {
	p := Plan(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return PlanFree, nil
	}
	for _, known := range Plans {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownPlan, s)
}

// Period filters rows by date relative to the analysis time
type Period string

const (
	PeriodAll        Period = "all"
	PeriodLast30Days Period = "30d"
	PeriodLast90Days Period = "90d"
	PeriodYearToDate Period = "ytd"
)

// ParsePeriod validates a period; empty means all
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "", PeriodAll:
		return PeriodAll, nil
	case PeriodLast30Days, PeriodLast90Days, PeriodYearToDate:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownPeriod, s)
}
