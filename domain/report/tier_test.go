package report

import (
	"errors"
	"testing"

	"autobi/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	tpl, err := ParseTemplate("")
	require.NoError(t, err)
	assert.Equal(t, TemplateSales, tpl)

	tpl, err = ParseTemplate(" Financial ")
	require.NoError(t, err)
	assert.Equal(t, TemplateFinancial, tpl)

	_, err = ParseTemplate("marketing")
	assert.True(t, errors.Is(err, core.ErrUnknownTemplate))
	assert.True(t, core.IsRequestError(err))
}

func TestParsePlanAndPeriod(t *testing.T) {
	plan, err := ParsePlan("")
	require.NoError(t, err)
	assert.Equal(t, PlanFree, plan)

	_, err = ParsePlan("gold")
	assert.ErrorIs(t, err, core.ErrUnknownPlan)

	for _, in := range []string{"", "all", "30d", "90d", "YTD"} {
		_, err := ParsePeriod(in)
		assert.NoError(t, err, in)
	}
	_, err = ParsePeriod("7d")
	assert.ErrorIs(t, err, core.ErrUnknownPeriod)
}
