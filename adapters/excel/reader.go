package excel

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"autobi/adapters/coercer"
	"autobi/domain/dataset"
	"autobi/internal"
	"autobi/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DataReader handles reading Excel and CSV files into datasets
type DataReader struct {
	config  Config
	coercer *coercer.TypeCoercer
	logger  *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(config Config, logger *internal.Logger) *DataReader {
	return &DataReader{
		config:  config,
		coercer: coercer.NewTypeCoercer(config.Coercion),
		logger:  logger.With("DataReader"),
	}
}

// ReadFile opens path and reads it according to its extension
func (r *DataReader) ReadFile(ctx context.Context, path string) (*dataset.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.InvalidInput(fmt.Sprintf("file not found: %s", path))
		}
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer file.Close()
	return r.Read(ctx, filepath.Base(path), file)
}

// Read parses an uploaded file; name selects the format (.csv, .xlsx)
func (r *DataReader) Read(ctx context.Context, name string, src io.Reader) (*dataset.Dataset, error) {
	start := time.Now()

	var (
		rows [][]string
		err  error
	)
	switch fileType(name) {
	case "csv":
		rows, err = r.readCSV(src)
	case "xlsx":
		rows, err = r.readExcel(src)
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported file type: %s", name))
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := r.processRows(rows)
	if err != nil {
		return nil, err
	}
	ds, err := r.coercer.FromRecords(data.Headers, records(data.Rows))
	if err != nil {
		return nil, errors.Invalid(err)
	}
	r.logger.Debug("%s read in %.2fms (%d columns, %d rows)",
		name, float64(time.Since(start).Nanoseconds())/1e6, ds.Width(), ds.Rows())
	return ds, nil
}

func fileType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return "csv"
	case ".xlsx", ".xlsm":
		return "xlsx"
	}
	return ""
}

// readCSV reads comma- or semicolon-separated text. The delimiter is taken
// from whichever occurs more often in the header line.
func (r *DataReader) readCSV(src io.Reader) ([][]string, error) {
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV file")
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = sniffDelimiter(raw)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &errors.AppError{Code: errors.CodeInvalidInput, Message: "malformed CSV file", Cause: err}
	}
	return rows, nil
}

func sniffDelimiter(raw []byte) rune {
	header := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		header = raw[:i]
	}
	if bytes.Count(header, []byte{';'}) > bytes.Count(header, []byte{','}) {
		return ';'
	}
	return ','
}

// readExcel reads the configured sheet, or the first one
func (r *DataReader) readExcel(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, &errors.AppError{Code: errors.CodeInvalidInput, Message: "failed to open Excel file", Cause: err}
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.InvalidInput("Excel file has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &errors.AppError{Code: errors.CodeInvalidInput, Message: fmt.Sprintf("failed to read sheet %s", sheet), Cause: err}
	}
	return rows, nil
}

// processRows converts raw string rows into header-keyed rows. Blank
// headers are named after their position; fully blank rows are skipped.
func (r *DataReader) processRows(rows [][]string) (*SheetData, error) {
	if len(rows) == 0 {
		return nil, errors.InvalidInput("file has no header row")
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
		if headers[i] == "" {
			headers[i] = fmt.Sprintf("column_%d", i+1)
		}
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rowData := make(RawRowData, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	if r.config.MaxRows > 0 && len(dataRows) > r.config.MaxRows {
		return nil, errors.InvalidInput(fmt.Sprintf("file has %d rows, the limit is %d", len(dataRows), r.config.MaxRows))
	}
	return &SheetData{Headers: headers, Rows: dataRows}, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func records(rows []RawRowData) []map[string]interface{} {
	out := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		out[i] = row
	}
	return out
}
