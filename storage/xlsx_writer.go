package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"happiness-report/models"
)

const xlsxSheet = "World Happiness"

// XLSXWriter mirrors the merged table into a single-sheet workbook.
// Rows are buffered in the workbook and saved on Close.
type XLSXWriter struct {
	path string
	file *excelize.File
	row  int
}

// NewXLSXWriter prepares a workbook with the canonical header row.
func NewXLSXWriter(path string) (*XLSXWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("xlsx: create output dir: %w", err)
		}
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	for i, name := range CanonicalHeader() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(xlsxSheet, cell, name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("xlsx: write header: %w", err)
		}
		if colName, err := excelize.ColumnNumberToName(i + 1); err == nil {
			_ = f.SetColWidth(xlsxSheet, colName, colName, 18)
		}
	}

	return &XLSXWriter{path: path, file: f, row: 1}, nil
}

// Write appends records below the existing rows. Null cells stay blank and
// numbers are stored as numeric cells.
func (x *XLSXWriter) Write(records []models.Record) error {
	for i := range records {
		x.row++
		r := &records[i]
		for col, field := range models.CanonicalFields {
			var value any
			switch field {
			case models.FieldCountry:
				value = r.Country
			case models.FieldRegion:
				if !r.Region.Valid {
					continue
				}
				value = r.Region.String
			case models.FieldYear:
				value = r.Year
			default:
				v := r.Number(field)
				if !v.Valid {
					continue
				}
				value = v.Float64
			}
			cell, err := excelize.CoordinatesToCellName(col+1, x.row)
			if err != nil {
				return fmt.Errorf("xlsx: cell name: %w", err)
			}
			if err := x.file.SetCellValue(xlsxSheet, cell, value); err != nil {
				return fmt.Errorf("xlsx: write %s: %w", cell, err)
			}
		}
	}
	return nil
}

// Close saves the workbook to disk and releases it.
func (x *XLSXWriter) Close() error {
	defer x.file.Close()
	if err := x.file.SaveAs(x.path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", x.path, err)
	}
	return nil
}
