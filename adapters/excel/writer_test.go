package excel

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autobi/domain/dataset"
	"autobi/internal/errors"
	"autobi/internal/testkit"
)

func TestWriteFileRoundTrip(t *testing.T) {
	config := testkit.DefaultSalesConfig()
	config.Rows = 30
	original := testkit.NewSalesGenerator(config).Generate()

	for _, name := range []string{"vendas.csv", "vendas.xlsx"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, WriteFile(path, original))

			got, err := newReader(0).ReadFile(context.Background(), path)
			require.NoError(t, err)

			assert.Equal(t, original.Names(), got.Names())
			assert.Equal(t, original.Rows(), got.Rows())
			assert.InDeltaSlice(t, dataset.Floats(original.Values("valor")), dataset.Floats(got.Values("valor")), 1e-9)
			assert.Equal(t, original.Values("produto")[0].AsString(), got.Values("produto")[0].AsString())
		})
	}
}

func TestWriteFileRejectsUnknownExtension(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "vendas.json"), testkit.Build(testkit.Numbers("valor", 1)))
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}
