package schema

import (
	"testing"

	"autobi/domain/profiling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfer(t *testing.T) {
	profiles := []profiling.ColumnProfile{
		{Name: "id", Role: profiling.RoleIdentifier},
		{Name: "data", Role: profiling.RoleDate},
		{Name: "entrega", Role: profiling.RoleDate},
		{Name: "valor", Role: profiling.RoleMeasure},
		{Name: "loja", Role: profiling.RoleDimension},
		{Name: "obs", Role: profiling.RoleAttribute},
	}

	s := Infer(profiles)
	assert.Equal(t, []string{"loja"}, s.Dimensions)
	assert.Equal(t, []string{"valor"}, s.Measures)
	assert.Equal(t, []string{"data", "entrega"}, s.Temporal)
	assert.Equal(t, []string{"id"}, s.Identifiers)

	require.NotNil(t, s.Fact)
	assert.Equal(t, "row_level", s.Fact.Grain)
	assert.Equal(t, "transaction", s.Fact.Type)
	assert.Equal(t, "data", s.Fact.Time)
}

func TestInferWithoutTemporalHasNoFact(t *testing.T) {
	s := Infer([]profiling.ColumnProfile{{Name: "valor", Role: profiling.RoleMeasure}})
	assert.Nil(t, s.Fact)
	assert.Empty(t, s.Temporal)
	assert.NotNil(t, s.Temporal)
}
