package excel

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"autobi/internal"
	"autobi/internal/errors"
)

func newReader(maxRows int) *DataReader {
	config := DefaultConfig()
	config.MaxRows = maxRows
	return NewDataReader(config, internal.Discard())
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []float64
	}{
		{
			name:  "comma separated",
			input: "data,valor,produto\n2024-01-01,10.5,A\n2024-01-02,20,B\n",
			want:  []float64{10.5, 20},
		},
		{
			name:  "semicolon separated with european decimals",
			input: "data;valor;produto\n01/01/2024;\"R$ 1.234,50\";A\n02/01/2024;10,5;B\n",
			want:  []float64{1234.5, 10.5},
		},
		{
			name:  "byte order mark and blank lines",
			input: "\ufeffdata,valor,produto\n2024-01-01,1,A\n,,\n2024-01-02,2,B\n",
			want:  []float64{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := newReader(0).Read(context.Background(), "vendas.csv", strings.NewReader(tt.input))
			require.NoError(t, err)

			assert.Equal(t, []string{"data", "valor", "produto"}, ds.Names())
			require.Equal(t, len(tt.want), ds.Rows())
			for i, v := range ds.Values("valor") {
				require.True(t, v.IsNumeric(), "row %d", i)
				assert.InDelta(t, tt.want[i], v.AsFloat64(), 1e-9)
			}
			assert.True(t, ds.Values("produto")[0].IsString())
		})
	}
}

func TestReadCSVShortRowsAndBlankHeaders(t *testing.T) {
	ds, err := newReader(0).Read(context.Background(), "x.csv", strings.NewReader("a,,c\n1,2\n3,4,5\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "column_2", "c"}, ds.Names())
	assert.True(t, ds.Values("c")[0].IsMissing())
	assert.Equal(t, 5.0, ds.Values("c")[1].AsFloat64())
}

func TestReadHeaderOnly(t *testing.T) {
	ds, err := newReader(0).Read(context.Background(), "x.csv", strings.NewReader("data,valor\n"))
	require.NoError(t, err)
	assert.True(t, ds.IsEmpty())
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]interface{}{
		{"data", "valor", "regiao"},
		{"2024-01-01", 100, "Sul"},
		{"2024-01-02", 250.5, "Norte"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ds, err := newReader(0).Read(context.Background(), "planilha.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, []string{"data", "valor", "regiao"}, ds.Names())
	require.Equal(t, 2, ds.Rows())
	assert.Equal(t, 250.5, ds.Values("valor")[1].AsFloat64())
	assert.Equal(t, "Norte", ds.Values("regiao")[1].AsString())
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		input    string
		maxRows  int
		wantCode string
	}{
		{name: "unsupported extension", file: "x.pdf", input: "a", wantCode: errors.CodeInvalidInput},
		{name: "empty file", file: "x.csv", input: "", wantCode: errors.CodeInvalidInput},
		{name: "row limit", file: "x.csv", input: "a\n1\n2\n3\n", maxRows: 2, wantCode: errors.CodeInvalidInput},
		{name: "duplicate headers", file: "x.csv", input: "a,a\n1,2\n", wantCode: errors.CodeValidationError},
		{name: "not a workbook", file: "x.xlsx", input: "plain text", wantCode: errors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newReader(tt.maxRows).Read(context.Background(), tt.file, strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vendas.csv")
	require.NoError(t, os.WriteFile(path, []byte("valor\n1\n2\n"), 0o600))

	r := newReader(0)
	ds, err := r.ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Rows())

	_, err = r.ReadFile(context.Background(), filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestReadHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newReader(0).Read(ctx, "x.csv", strings.NewReader("a\n1\n"))
	assert.ErrorIs(t, err, context.Canceled)
}
