package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsInputShapeError(ErrEmptyDataset))
	assert.True(t, IsInputShapeError(NewColumnError(ErrNoNumericColumn, "x")))
	assert.False(t, IsInputShapeError(ErrUnknownPlan))

	assert.True(t, IsRequestError(NewColumnError(ErrDuplicateColumn, "valor")))
	assert.True(t, errors.Is(NewColumnError(ErrDuplicateColumn, "valor"), ErrDuplicateColumn))
	assert.False(t, IsRequestError(ErrEmptyDataset))
}
