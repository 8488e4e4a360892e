package enhance

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autobi/adapters/llm"
	"autobi/domain/profiling"
	"autobi/domain/report"
	"autobi/internal"
	"autobi/internal/testkit"
	"autobi/ports"
)

func salesRequest() ports.MappingRequest {
	return ports.MappingRequest{
		Template: string(report.TemplateSales),
		Dataset: testkit.Build(
			testkit.Strings("Data Venda", "2024-01-01", "2024-01-02"),
			testkit.Numbers("valor_total", 10, 20),
			testkit.Strings("Produto", "A", "B"),
			testkit.Numbers("qtd", 1, 2),
			testkit.Strings("cliente", "x", "y"),
		),
	}
}

func TestDeterministicSuggestMapping(t *testing.T) {
	d := NewDeterministic(DefaultConfig())

	m, err := d.SuggestMapping(context.Background(), salesRequest())
	require.NoError(t, err)
	assert.Equal(t, profiling.Mapping{
		Date:     "Data Venda",
		Value:    "valor_total",
		Product:  "Produto",
		Quantity: "qtd",
	}, m)

	req := salesRequest()
	req.Template = string(report.TemplateCustom)
	m, err = d.SuggestMapping(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, m.IsZero())
}

func TestDeterministicPhraseInsightsIsIdentity(t *testing.T) {
	d := NewDeterministic(DefaultConfig())
	in := []report.Insight{{Type: "growth", Icon: "📈", Message: "up"}}

	out, err := d.PhraseInsights(context.Background(), ports.InsightRequest{Insights: in})
	require.NoError(t, err)
	assert.Equal(t, in, out)

	out, err = d.PhraseInsights(context.Background(), ports.InsightRequest{})
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func newDecorator(client ports.LLMClient, logs *bytes.Buffer) *LLMDecorator {
	config := DefaultConfig()
	config.Timeout = time.Second
	logger := internal.NewWriterLogger(internal.LogLevelWarn, logs)
	return NewLLMDecorator(config, client, NewDeterministic(config), logger)
}

func TestLLMDecoratorSuggestMapping(t *testing.T) {
	deterministic := profiling.Mapping{Date: "Data Venda", Value: "valor_total", Product: "Produto", Quantity: "qtd"}

	tests := []struct {
		name     string
		client   *llm.MockLLMClient
		want     profiling.Mapping
		fallback bool
	}{
		{
			name:   "model answer fills gaps from patterns",
			client: &llm.MockLLMClient{Response: "```json\n{\"mapping\": {\"revenue\": \"valor_total\", \"product\": \"cliente\"}}\n```"},
			want:   profiling.Mapping{Date: "Data Venda", Value: "valor_total", Product: "cliente", Quantity: "qtd"},
		},
		{
			name:     "service error",
			client:   &llm.MockLLMClient{Error: errors.New("connection refused")},
			want:     deterministic,
			fallback: true,
		},
		{
			name:     "malformed json",
			client:   &llm.MockLLMClient{Response: "I think the value column is valor"},
			want:     deterministic,
			fallback: true,
		},
		{
			name:     "unknown column",
			client:   &llm.MockLLMClient{Response: `{"mapping": {"value": "price"}}`},
			want:     deterministic,
			fallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			d := newDecorator(tt.client, &logs)

			m, err := d.SuggestMapping(context.Background(), salesRequest())
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)
			assert.Equal(t, 1, tt.client.Calls)
			if tt.fallback {
				assert.Contains(t, logs.String(), "[WARN] [Enhancer]")
			} else {
				assert.Empty(t, logs.String())
			}
		})
	}
}

func TestLLMDecoratorHonoursCancelledContext(t *testing.T) {
	var logs bytes.Buffer
	d := newDecorator(&llm.MockLLMClient{Response: `{"mapping": {"value": "valor_total"}}`}, &logs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m, err := d.SuggestMapping(ctx, salesRequest())
	require.NoError(t, err)
	assert.Equal(t, "Produto", m.Product)
	assert.Contains(t, logs.String(), "mapping suggestion failed")
}

func TestLLMDecoratorPhraseInsights(t *testing.T) {
	in := []report.Insight{
		{Type: "growth", Icon: "📈", Message: "Sales grew 12.0%"},
		{Type: "top_contributor", Icon: "🏆", Message: "A leads with 40% of sales"},
	}
	req := ports.InsightRequest{Template: "sales", KPIs: report.KPISet{"total_revenue": report.Num(100)}, Insights: in, Rows: 10}

	t.Run("rephrased", func(t *testing.T) {
		var logs bytes.Buffer
		d := newDecorator(&llm.MockLLMClient{Response: `[{"type": "growth", "message": "Revenue is up 12% month over month"}]`}, &logs)

		out, err := d.PhraseInsights(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "📈", out[0].Icon)
		assert.Equal(t, "Revenue is up 12% month over month", out[0].Message)
	})

	t.Run("incomplete items fall back", func(t *testing.T) {
		var logs bytes.Buffer
		d := newDecorator(&llm.MockLLMClient{Response: `[{"type": "growth", "message": ""}]`}, &logs)

		out, err := d.PhraseInsights(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, in, out)
		assert.Contains(t, logs.String(), "insight phrasing failed")
	})

	t.Run("nothing to phrase skips the call", func(t *testing.T) {
		client := &llm.MockLLMClient{}
		d := newDecorator(client, &bytes.Buffer{})

		out, err := d.PhraseInsights(context.Background(), ports.InsightRequest{})
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.Zero(t, client.Calls)
	})
}

func TestRouter(t *testing.T) {
	config := DefaultConfig()
	deterministic := NewDeterministic(config)
	decorator := newDecorator(&llm.MockLLMClient{}, &bytes.Buffer{})

	router := NewRouter(config, deterministic, decorator)
	for _, plan := range report.Plans {
		want := "deterministic"
		if plan == report.PlanPro || plan == report.PlanEnterprise {
			want = "llm"
		}
		assert.Equal(t, want, router.For(plan).Name(), plan)
	}

	bare := NewRouter(config, deterministic, nil)
	assert.Equal(t, "deterministic", bare.For(report.PlanEnterprise).Name())
}
