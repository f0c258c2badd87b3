package models

import "database/sql"

// Field identifies a column of the unified happiness schema.
type Field string

const (
	FieldCountry    Field = "Country"
	FieldRegion     Field = "Region"
	FieldYear       Field = "Year"
	FieldScore      Field = "Happiness Score"
	FieldRank       Field = "Happiness Rank"
	FieldGDP        Field = "GDP per capita"
	FieldSocial     Field = "Social support"
	FieldHealth     Field = "Healthy life expectancy"
	FieldFreedom    Field = "Freedom to make life choices"
	FieldGenerosity Field = "Generosity"
	FieldCorruption Field = "Perceptions of corruption"
)

// CanonicalFields is the projected column order of the merged table.
var CanonicalFields = []Field{
	FieldCountry,
	FieldRegion,
	FieldYear,
	FieldScore,
	FieldGDP,
	FieldSocial,
	FieldHealth,
	FieldFreedom,
	FieldGenerosity,
	FieldCorruption,
}

// Predictors are the six explanatory fields of the happiness model, in
// column order.
var Predictors = []Field{
	FieldGDP,
	FieldSocial,
	FieldHealth,
	FieldFreedom,
	FieldGenerosity,
	FieldCorruption,
}

// RequiredFields must all be present for a record to count as clean.
var RequiredFields = append([]Field{FieldScore}, Predictors...)

// CorrelationFields are the columns of the correlation heat map and pair plot.
var CorrelationFields = []Field{
	FieldScore,
	FieldGDP,
	FieldFreedom,
	FieldCorruption,
}

// RawTable holds one yearly CSV file exactly as read from disk.
// After schema unification its Header uses canonical names.
type RawTable struct {
	Source string
	Header []string
	Rows   [][]string
}

// Index returns the column position of name, or -1.
func (t *RawTable) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Record is one country-year row of the merged table.
type Record struct {
	Country        string
	Region         sql.NullString
	Year           int
	HappinessScore sql.NullFloat64
	GDPPerCapita   sql.NullFloat64
	SocialSupport  sql.NullFloat64
	LifeExpectancy sql.NullFloat64
	Freedom        sql.NullFloat64
	Generosity     sql.NullFloat64
	Corruption     sql.NullFloat64
}

// Number returns the numeric value stored under f. Non-numeric fields
// report an invalid value.
func (r *Record) Number(f Field) sql.NullFloat64 {
	switch f {
	case FieldScore:
		return r.HappinessScore
	case FieldGDP:
		return r.GDPPerCapita
	case FieldSocial:
		return r.SocialSupport
	case FieldHealth:
		return r.LifeExpectancy
	case FieldFreedom:
		return r.Freedom
	case FieldGenerosity:
		return r.Generosity
	case FieldCorruption:
		return r.Corruption
	case FieldYear:
		return sql.NullFloat64{Float64: float64(r.Year), Valid: true}
	}
	return sql.NullFloat64{}
}

// SetNumber stores v under the numeric field f. It reports false when f is
// not a numeric field.
func (r *Record) SetNumber(f Field, v sql.NullFloat64) bool {
	switch f {
	case FieldScore:
		r.HappinessScore = v
	case FieldGDP:
		r.GDPPerCapita = v
	case FieldSocial:
		r.SocialSupport = v
	case FieldHealth:
		r.LifeExpectancy = v
	case FieldFreedom:
		r.Freedom = v
	case FieldGenerosity:
		r.Generosity = v
	case FieldCorruption:
		r.Corruption = v
	default:
		return false
	}
	return true
}

// Complete reports whether every required numeric field is present.
func (r *Record) Complete() bool {
	for _, f := range RequiredFields {
		if !r.Number(f).Valid {
			return false
		}
	}
	return true
}
