package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContentIDIsStable(t *testing.T) {
	h := NewHash([]byte(`{"kpis":{"total_revenue":10}}`))

	first := NewContentID(h)
	second := NewContentID(h)
	other := NewContentID(NewHash([]byte(`{}`)))

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)

	parsed, err := ParseReportID(first.String())
	require.NoError(t, err)
	assert.Equal(t, first.String(), parsed.String())
}

func TestParseReportID(t *testing.T) {
	tests := []struct {
		input    string
		hasError bool
	}{
		{"", true},
		{"   ", true},
		{"not-a-uuid", true},
		{"0190a7e2-7b1c-7d3e-9f00-112233445566", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseReportID(tt.input)
			if tt.hasError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	clock := FixedClock(mustTime("2024-03-10T18:00:00Z"))
	assert.Equal(t, 9, DaysBetween(mustTime("2024-03-01T00:00:00Z"), clock.Now()))
	assert.Equal(t, 0, DaysBetween(mustTime("2024-03-10T00:00:00Z"), clock.Now()))
}
