package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"happiness-report/models"
)

const utf8BOM = "\ufeff"

// CSVReader reads comma-separated survey files with a header row.
type CSVReader struct{}

// NewCSVReader returns a CSVReader.
func NewCSVReader() *CSVReader { return &CSVReader{} }

// Read loads the whole file at path. Short rows are padded with empty
// cells so every row matches the header width.
func (CSVReader) Read(path string) (*models.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(filepath.Base(path), f)
}

// ReadCSV parses CSV content from r. source names the table in errors and
// drives year derivation, so it should be the file's base name.
func ReadCSV(source string, r io.Reader) (*models.RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv: %s: missing header row", source)
		}
		return nil, fmt.Errorf("csv: %s: read header: %w", source, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := &models.RawTable{Source: source, Header: header}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("csv: %s: read row %d: %w", source, len(table.Rows)+1, err)
		}
		if len(rec) < len(header) {
			padded := make([]string, len(header))
			copy(padded, rec)
			rec = padded
		}
		table.Rows = append(table.Rows, rec)
	}
	return table, nil
}
