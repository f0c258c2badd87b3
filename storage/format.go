package storage

import (
	"database/sql"
	"math"
	"strconv"
	"strings"

	"happiness-report/models"
)

// CanonicalHeader returns the merged table's column names in order.
func CanonicalHeader() []string {
	h := make([]string, len(models.CanonicalFields))
	for i, f := range models.CanonicalFields {
		h[i] = string(f)
	}
	return h
}

// RecordRow renders a record as text cells in canonical column order.
func RecordRow(r *models.Record) []string {
	row := make([]string, 0, len(models.CanonicalFields))
	for _, f := range models.CanonicalFields {
		switch f {
		case models.FieldCountry:
			row = append(row, r.Country)
		case models.FieldRegion:
			row = append(row, nullString(r.Region))
		case models.FieldYear:
			row = append(row, strconv.Itoa(r.Year))
		default:
			row = append(row, FormatFloat(r.Number(f)))
		}
	}
	return row
}

// FormatFloat renders v in shortest round-trip form, keeping a trailing
// ".0" on integral values. Null renders as an empty string.
func FormatFloat(v sql.NullFloat64) string {
	if !v.Valid {
		return ""
	}
	s := strconv.FormatFloat(v.Float64, 'f', -1, 64)
	if !math.IsInf(v.Float64, 0) && !math.IsNaN(v.Float64) && !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func nullString(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}
