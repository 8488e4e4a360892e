package enhance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"autobi/domain/dataset"
	"autobi/domain/profiling"
	"autobi/domain/report"
	"autobi/internal"
	apperrors "autobi/internal/errors"
	"autobi/ports"
)

// LLMDecorator asks a language model for mappings and insight wording.
// Any failure falls back to the wrapped deterministic provider.
type LLMDecorator struct {
	config   Config
	client   ports.LLMClient
	fallback *Deterministic
	logger   *internal.Logger
}

var _ ports.EnhancementProvider = (*LLMDecorator)(nil)

// NewLLMDecorator wraps fallback with a language-model client
func NewLLMDecorator(config Config, client ports.LLMClient, fallback *Deterministic, logger *internal.Logger) *LLMDecorator {
	return &LLMDecorator{
		config:   config,
		client:   client,
		fallback: fallback,
		logger:   logger.With("Enhancer"),
	}
}

// Name implements ports.EnhancementProvider
func (d *LLMDecorator) Name() string { return "llm" }

// SuggestMapping implements ports.EnhancementProvider
func (d *LLMDecorator) SuggestMapping(ctx context.Context, req ports.MappingRequest) (profiling.Mapping, error) {
	base, _ := d.fallback.SuggestMapping(ctx, req)
	if req.Dataset == nil {
		return base, nil
	}

	var suggested profiling.Mapping
	err := apperrors.Recover(func() error {
		prompt, err := d.mappingPrompt(req)
		if err != nil {
			return err
		}
		raw, err := d.complete(ctx, prompt)
		if err != nil {
			return err
		}
		suggested, err = parseMapping(raw, req.Dataset)
		return err
	})
	if err != nil {
		d.logger.Warn("mapping suggestion failed, using deterministic result: %v", err)
		return base, nil
	}
	return fill(suggested, base), nil
}

// PhraseInsights implements ports.EnhancementProvider
func (d *LLMDecorator) PhraseInsights(ctx context.Context, req ports.InsightRequest) ([]report.Insight, error) {
	base, _ := d.fallback.PhraseInsights(ctx, req)
	if len(req.Insights) == 0 {
		return base, nil
	}

	var phrased []report.Insight
	err := apperrors.Recover(func() error {
		prompt, err := d.insightPrompt(req)
		if err != nil {
			return err
		}
		raw, err := d.complete(ctx, prompt)
		if err != nil {
			return err
		}
		phrased, err = d.parseInsights(raw, req.Insights)
		return err
	})
	if err != nil {
		d.logger.Warn("insight phrasing failed, using deterministic result: %v", err)
		return base, nil
	}
	return phrased, nil
}

func (d *LLMDecorator) complete(ctx context.Context, prompt string) (string, error) {
	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}
	resp, err := d.client.ChatCompletionWithUsage(ctx, d.config.Model, prompt, d.config.MaxTokens)
	if err != nil {
		return "", apperrors.ExternalServiceError("llm", err)
	}
	if resp.Usage != nil {
		d.logger.Debug("completion used %d tokens (%s)", resp.Usage.TotalTokens, resp.Usage.Model)
	}
	return resp.Content, nil
}

type columnForPrompt struct {
	Name         string   `json:"name"`
	DType        string   `json:"dtype"`
	SemanticType string   `json:"semantic_type,omitempty"`
	Sample       []string `json:"sample"`
	NullCount    int      `json:"null_count"`
	UniqueCount  int      `json:"unique_count"`
}

func (d *LLMDecorator) mappingPrompt(req ports.MappingRequest) (string, error) {
	semantic := make(map[string]string, len(req.Profiles))
	for _, p := range req.Profiles {
		semantic[p.Name] = string(p.SemanticType)
	}

	columns := make([]columnForPrompt, 0, req.Dataset.Width())
	for _, col := range req.Dataset.Columns() {
		present := dataset.NonMissing(col.Values)
		sample := make([]string, 0, d.config.SampleValues)
		for i := 0; i < len(present) && i < d.config.SampleValues; i++ {
			sample = append(sample, present[i].String())
		}
		columns = append(columns, columnForPrompt{
			Name:         col.Name,
			DType:        string(dataset.DTypeOf(col.Values)),
			SemanticType: semantic[col.Name],
			Sample:       sample,
			NullCount:    dataset.NullCount(col.Values),
			UniqueCount:  dataset.DistinctCount(col.Values),
		})
	}

	raw, err := json.MarshalIndent(columns, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal columns: %w", err)
	}

	return fmt.Sprintf(`You are a data analyst mapping spreadsheet columns for a %s dashboard.

Columns:
%s

Identify which column holds each role:
- date: transaction or period date
- value: monetary value of the row
- product: product or item name
- quantity: units sold

Return only JSON of the form {"mapping": {"date": "...", "value": "...", "product": "...", "quantity": "..."}}.
Omit a role when no column fits. Use column names exactly as listed.`, req.Template, string(raw)), nil
}

type insightPromptData struct {
	Template string           `json:"template"`
	Rows     int              `json:"rows"`
	KPIs     report.KPISet    `json:"kpis"`
	Findings []report.Insight `json:"findings"`
}

func (d *LLMDecorator) insightPrompt(req ports.InsightRequest) (string, error) {
	raw, err := json.MarshalIndent(insightPromptData{
		Template: req.Template,
		Rows:     req.Rows,
		KPIs:     req.KPIs,
		Findings: req.Insights,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal findings: %w", err)
	}

	return fmt.Sprintf(`You are an experienced BI analyst. Rewrite the findings below as short, actionable insights for a business owner.
Do not invent numbers; only use figures present in the data.

%s

Return only a JSON array of at most %d items: [{"type": "...", "icon": "...", "message": "..."}].`, string(raw), d.config.MaxInsights), nil
}

// parseMapping accepts {"mapping": {...}} with "value" or "revenue" for the
// value role. Every named column must exist.
func parseMapping(raw string, ds *dataset.Dataset) (profiling.Mapping, error) {
	var decoded struct {
		Mapping map[string]string `json:"mapping"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &decoded); err != nil {
		return profiling.Mapping{}, fmt.Errorf("parse mapping: %w", err)
	}
	if len(decoded.Mapping) == 0 {
		return profiling.Mapping{}, fmt.Errorf("parse mapping: empty mapping")
	}

	value := decoded.Mapping["value"]
	if value == "" {
		value = decoded.Mapping["revenue"]
	}
	m := profiling.Mapping{
		Value:    value,
		Quantity: decoded.Mapping["quantity"],
		Date:     decoded.Mapping["date"],
		Product:  decoded.Mapping["product"],
	}
	for _, col := range []string{m.Value, m.Quantity, m.Date, m.Product} {
		if col != "" && !ds.Has(col) {
			return profiling.Mapping{}, fmt.Errorf("parse mapping: unknown column %q", col)
		}
	}
	return m, nil
}

func (d *LLMDecorator) parseInsights(raw string, original []report.Insight) ([]report.Insight, error) {
	var decoded []report.Insight
	if err := json.Unmarshal([]byte(extractJSON(raw)), &decoded); err != nil {
		return nil, fmt.Errorf("parse insights: %w", err)
	}
	if len(decoded) == 0 {
		return nil, fmt.Errorf("parse insights: no insights")
	}

	icons := make(map[string]string, len(original))
	for _, in := range original {
		icons[in.Type] = in.Icon
	}

	out := make([]report.Insight, 0, len(decoded))
	for _, in := range decoded {
		if strings.TrimSpace(in.Message) == "" || in.Type == "" {
			return nil, fmt.Errorf("parse insights: incomplete insight")
		}
		if in.Icon == "" {
			in.Icon = icons[in.Type]
		}
		out = append(out, in)
		if len(out) == d.config.MaxInsights {
			break
		}
	}
	return out, nil
}

// extractJSON strips a markdown code fence around a model response
func extractJSON(s string) string {
	if start := strings.Index(s, "```json"); start >= 0 {
		if end := strings.Index(s[start+7:], "```"); end >= 0 {
			s = s[start+7 : start+7+end]
		}
	} else if start := strings.Index(s, "```"); start >= 0 {
		if end := strings.Index(s[start+3:], "```"); end >= 0 {
			s = s[start+3 : start+3+end]
		}
	}
	return strings.TrimSpace(s)
}

func fill(m, base profiling.Mapping) profiling.Mapping {
	if m.Value == "" {
		m.Value = base.Value
	}
	if m.Quantity == "" {
		m.Quantity = base.Quantity
	}
	if m.Date == "" {
		m.Date = base.Date
	}
	if m.Product == "" {
		m.Product = base.Product
	}
	return m
}
