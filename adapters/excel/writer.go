package excel

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"autobi/domain/dataset"
	"autobi/internal/errors"
)

// WriteFile writes ds to path, choosing CSV or XLSX from the extension
func WriteFile(path string, ds *dataset.Dataset) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return WriteCSV(path, ds)
	case ".xlsx", ".xlsm":
		return WriteXLSX(path, ds)
	default:
		return errors.InvalidInput("unsupported output format: " + filepath.Ext(path))
	}
}

// WriteCSV writes a header row followed by one line per record
func WriteCSV(path string, ds *dataset.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ds.Names()); err != nil {
		return err
	}
	for i := 0; i < ds.Rows(); i++ {
		row := ds.Row(i)
		record := make([]string, len(row))
		for j, v := range row {
			record[j] = v.String()
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteXLSX writes ds to the first sheet of a new workbook. Numbers are
// stored as numeric cells.
func WriteXLSX(path string, ds *dataset.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	// Header row
	for i, h := range ds.Names() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	// Data rows
	for r := 0; r < ds.Rows(); r++ {
		for c, v := range ds.Row(r) {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			var err error
			switch {
			case v.IsMissing():
				continue
			case v.IsNumeric():
				err = f.SetCellValue(sheet, cell, v.AsFloat64())
			default:
				err = f.SetCellValue(sheet, cell, v.String())
			}
			if err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}
