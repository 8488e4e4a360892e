package container

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autobi/domain/report"
	"autobi/internal"
	"autobi/internal/config"
	"autobi/internal/dashboard"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:     config.ServerConfig{Port: "8080"},
		AI:         config.AIConfig{Model: "gpt-4.1-mini", Timeout: time.Second},
		Data:       config.DataConfig{MaxRows: 1000},
		Heuristics: dashboard.DefaultSettings(),
	}
}

func TestNewWithoutOptionalServices(t *testing.T) {
	c, err := New(testConfig(), internal.Discard())
	require.NoError(t, err)

	assert.Nil(t, c.LLM)
	assert.Nil(t, c.Reports)
	assert.NotNil(t, c.Reader)
	assert.NotNil(t, c.Orchestrator)
	assert.Equal(t, "deterministic", c.Enhancers.For(report.PlanEnterprise).Name())

	require.NoError(t, c.Connect(context.Background()))
	assert.Nil(t, c.DB)
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestNewWithLLMKey(t *testing.T) {
	cfg := testConfig()
	cfg.AI.APIKey = "sk-test"

	c, err := New(cfg, internal.Discard())
	require.NoError(t, err)

	require.NotNil(t, c.LLM)
	assert.Equal(t, "llm", c.Enhancers.For(report.PlanPro).Name())
	assert.Equal(t, "deterministic", c.Enhancers.For(report.PlanFree).Name())
}

func TestNewRejectsNilConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestInitWithDatabaseRequiresConnection(t *testing.T) {
	c, err := New(testConfig(), internal.Discard())
	require.NoError(t, err)
	assert.Error(t, c.InitWithDatabase(context.Background(), nil))
}
