package services

import (
	"fmt"
	"path/filepath"
	"strconv"

	"happiness-report/models"
	"happiness-report/utils"
)

// countryOrRegion is the 2018/2019 spelling of the country column.
const countryOrRegion = "Country or region"

// columnAliases maps every known source column name onto its canonical
// field. Names shared by several years appear once, under the first year
// that uses them.
var columnAliases = map[string]models.Field{
	// 2015, 2016
	"Country":                       models.FieldCountry,
	"Region":                        models.FieldRegion,
	"Happiness Rank":                models.FieldRank,
	"Happiness Score":               models.FieldScore,
	"Economy (GDP per Capita)":      models.FieldGDP,
	"Family":                        models.FieldSocial,
	"Health (Life Expectancy)":      models.FieldHealth,
	"Freedom":                       models.FieldFreedom,
	"Trust (Government Corruption)": models.FieldCorruption,
	"Generosity":                    models.FieldGenerosity,

	// 2017
	"Happiness.Rank":                models.FieldRank,
	"Happiness.Score":               models.FieldScore,
	"Economy..GDP.per.Capita.":      models.FieldGDP,
	"Health..Life.Expectancy.":      models.FieldHealth,
	"Trust..Government.Corruption.": models.FieldCorruption,

	// 2018, 2019
	"Overall rank":                 models.FieldRank,
	countryOrRegion:                models.FieldCountry,
	"Score":                        models.FieldScore,
	"GDP per capita":               models.FieldGDP,
	"Social support":               models.FieldSocial,
	"Healthy life expectancy":      models.FieldHealth,
	"Freedom to make life choices": models.FieldFreedom,
	"Perceptions of corruption":    models.FieldCorruption,
}

// Unifier renames yearly columns onto the canonical schema and fills in
// the Year and Region columns some years lack.
type Unifier struct {
	logger  *utils.Logger
	aliases map[string]models.Field
}

// NewUnifier creates a Unifier using the built-in alias table.
func NewUnifier(logger *utils.Logger) *Unifier {
	return &Unifier{logger: logger, aliases: columnAliases}
}

// Normalize returns a copy of t whose header uses canonical names. Unknown
// columns pass through untouched. The input table is not modified.
func (u *Unifier) Normalize(t *models.RawTable) (*models.RawTable, error) {
	out := &models.RawTable{
		Source: t.Source,
		Header: make([]string, len(t.Header)),
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		if len(row) > len(t.Header) {
			return nil, fmt.Errorf("unify %s row %d: expected %d fields, saw %d: %w",
				t.Source, i+1, len(t.Header), len(row), ErrExtraFields)
		}
		out.Rows[i] = fitRow(row, len(t.Header))
	}

	seen := make(map[models.Field]string)
	for i, name := range t.Header {
		canonical, ok := u.aliases[name]
		if !ok {
			out.Header[i] = name
			continue
		}
		if prev, dup := seen[canonical]; dup {
			return nil, fmt.Errorf("unify %s: %q and %q both map to %q: %w",
				t.Source, prev, name, canonical, ErrAmbiguousColumn)
		}
		seen[canonical] = name
		out.Header[i] = string(canonical)
		if name != string(canonical) {
			u.logger.Debug("[unifier] %s: %q -> %q", t.Source, name, canonical)
		}
	}

	if out.Index(string(models.FieldYear)) < 0 {
		year, err := YearFromFileName(t.Source)
		if err != nil {
			return nil, fmt.Errorf("unify %s: %w", t.Source, err)
		}
		appendColumn(out, string(models.FieldYear), strconv.Itoa(year))
	}

	if out.Index(string(models.FieldRegion)) < 0 {
		appendColumn(out, string(models.FieldRegion), "")
	}

	if src := out.Index(countryOrRegion); src >= 0 {
		dst := out.Index(string(models.FieldCountry))
		if dst < 0 {
			appendColumn(out, string(models.FieldCountry), "")
			dst = len(out.Header) - 1
		}
		for _, row := range out.Rows {
			row[dst] = row[src]
		}
	}

	u.logger.Debug("[unifier] %s: %d rows, %d columns", t.Source, len(out.Rows), len(out.Header))
	return out, nil
}

// YearFromFileName parses the leading four characters of the base name
// of path as a year.
func YearFromFileName(path string) (int, error) {
	base := filepath.Base(path)
	if len(base) < 4 {
		return 0, fmt.Errorf("%q: %w", base, ErrInvalidYearPrefix)
	}
	year, err := strconv.Atoi(base[:4])
	if err != nil {
		return 0, fmt.Errorf("%q: %w", base, ErrInvalidYearPrefix)
	}
	return year, nil
}

func appendColumn(t *models.RawTable, name, value string) {
	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], value)
	}
}

// fitRow copies row, padding it to width cells.
func fitRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}
