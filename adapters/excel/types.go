package excel

// RawRowData represents a row of raw spreadsheet data as header-keyed text
type RawRowData map[string]interface{}

// SheetData represents a parsed spreadsheet before type coercion
type SheetData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}
