package services

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"

	"happiness-report/models"
	"happiness-report/utils"
)

// missingMarkers are the cell values read as "no value", matching the
// NA markers the yearly files were published with.
var missingMarkers = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsMissing reports whether a raw cell stands for a missing value.
func IsMissing(cell string) bool {
	_, ok := missingMarkers[strings.TrimSpace(cell)]
	return ok
}

// Merger concatenates normalized yearly tables into canonical records.
type Merger struct {
	logger *utils.Logger
}

// NewMerger creates a Merger with the given logger.
func NewMerger(logger *utils.Logger) *Merger {
	return &Merger{logger: logger}
}

// Merge concatenates tables in order, keeping each table's row order, and
// projects every row onto the canonical columns. A canonical column a table
// lacks reads as null, except Year, which every row must carry. Any NaN
// spelling reads as null; infinite values are rejected.
func (m *Merger) Merge(tables []*models.RawTable) ([]models.Record, error) {
	total := 0
	for _, t := range tables {
		total += len(t.Rows)
	}

	merged := make([]models.Record, 0, total)
	for _, t := range tables {
		idx := make(map[models.Field]int, len(models.CanonicalFields))
		for _, f := range models.CanonicalFields {
			idx[f] = t.Index(string(f))
		}

		for rowNum, row := range t.Rows {
			rec, err := projectRow(row, idx)
			if err != nil {
				return nil, fmt.Errorf("merge %s row %d: %w", t.Source, rowNum+1, err)
			}
			merged = append(merged, rec)
		}
		m.logger.Debug("[merger] %s contributed %d rows", t.Source, len(t.Rows))
	}

	m.logger.Info("[merger] Merged %d tables into %d rows", len(tables), len(merged))
	return merged, nil
}

func projectRow(row []string, idx map[models.Field]int) (models.Record, error) {
	var rec models.Record
	cell := func(f models.Field) (string, bool) {
		i := idx[f]
		if i < 0 || i >= len(row) {
			return "", false
		}
		v := strings.TrimSpace(row[i])
		if IsMissing(v) {
			return "", false
		}
		return v, true
	}

	if v, ok := cell(models.FieldCountry); ok {
		rec.Country = v
	}
	if v, ok := cell(models.FieldRegion); ok {
		rec.Region = sql.NullString{String: v, Valid: true}
	}
	v, ok := cell(models.FieldYear)
	if !ok {
		return rec, fmt.Errorf("column %q: missing year: %w", models.FieldYear, ErrInvalidValue)
	}
	year, err := parseYear(v)
	if err != nil {
		return rec, fmt.Errorf("column %q: %w", models.FieldYear, err)
	}
	rec.Year = year

	for _, f := range models.RequiredFields {
		v, ok := cell(f)
		if !ok {
			continue
		}
		x, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsInf(x, 0) {
			return rec, fmt.Errorf("column %q value %q: %w", f, v, ErrInvalidValue)
		}
		if math.IsNaN(x) {
			continue
		}
		rec.SetNumber(f, sql.NullFloat64{Float64: x, Valid: true})
	}
	return rec, nil
}

// parseYear accepts integers and integral floats such as "2015.0".
func parseYear(v string) (int, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("value %q: %w", v, ErrInvalidValue)
	}
	return int(f), nil
}
