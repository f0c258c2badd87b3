package services

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"happiness-report/models"
	"happiness-report/utils"
)

// InsightService computes the numeric findings reported alongside the charts.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate assembles the report for a fitted model over the clean records.
func (s *InsightService) Generate(clean []models.Record, model *models.ModelResult) (*models.InsightReport, error) {
	report := &models.InsightReport{
		CleanRows: len(clean),
		Model:     model,
	}

	report.Regions = RegionAverages(clean)
	if len(report.Regions) == 0 {
		return nil, ErrNoRegions
	}
	report.Lowest = report.Regions[0]
	report.Highest = report.Regions[0]
	for _, r := range report.Regions[1:] {
		if r.Mean > report.Highest.Mean {
			report.Highest = r
		}
	}

	report.Correlation = Correlation(clean, models.CorrelationFields)

	for i, r := range clean {
		if i == 0 || r.Year < report.FirstYear {
			report.FirstYear = r.Year
		}
		if i == 0 || r.Year > report.LastYear {
			report.LastYear = r.Year
		}
	}

	s.logger.Info("[insights] %d regions, highest %s (%.2f), lowest %s (%.2f)",
		len(report.Regions), report.Highest.Region, report.Highest.Mean,
		report.Lowest.Region, report.Lowest.Mean)
	return report, nil
}

// RegionAverages returns the mean happiness score of every region, lowest
// first. Records without a region are left out. Regions with equal means
// stay in name order.
func RegionAverages(clean []models.Record) []models.RegionAverage {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range clean {
		if !r.Region.Valid {
			continue
		}
		sums[r.Region.String] += r.HappinessScore.Float64
		counts[r.Region.String]++
	}

	out := make([]models.RegionAverage, 0, len(sums))
	for region, sum := range sums {
		out = append(out, models.RegionAverage{
			Region: region,
			Mean:   sum / float64(counts[region]),
			Count:  counts[region],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Mean < out[j].Mean })
	return out
}

// Correlation computes the Pearson correlation matrix of fields over the
// records. The diagonal is 1; pairs involving a constant column are NaN.
func Correlation(records []models.Record, fields []models.Field) *models.CorrelationMatrix {
	cols := make([][]float64, len(fields))
	for j, f := range fields {
		cols[j] = make([]float64, len(records))
		for i := range records {
			cols[j][i] = records[i].Number(f).Float64
		}
	}

	n := len(fields)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
		values[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := stat.Correlation(cols[i], cols[j], nil)
			values[i][j] = r
			values[j][i] = r
		}
	}
	return &models.CorrelationMatrix{Fields: append([]models.Field(nil), fields...), Values: values}
}

// Summary renders the plain-text report written to summary.txt.
func Summary(r *models.InsightReport) string {
	var b strings.Builder

	title := fmt.Sprintf("World Happiness Report Analysis (%d-%d)", r.FirstYear, r.LastYear)
	b.WriteString("\n")
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")

	fmt.Fprintf(&b, "- R² Score for Linear Regression: %.3f\n", r.Model.R2)
	fmt.Fprintf(&b, "- Top features predicting happiness: %s\n", strings.Join(r.Model.TopFeatures(3), ", "))
	fmt.Fprintf(&b, "- Highest average happiness by region: %s (%.2f)\n", r.Highest.Region, r.Highest.Mean)
	fmt.Fprintf(&b, "- Lowest average happiness by region: %s (%.2f)\n", r.Lowest.Region, r.Lowest.Mean)
	b.WriteString("- Correlation with happiness: \n")
	if col, ok := r.Correlation.Column(models.FieldScore); ok {
		for i, f := range r.Correlation.Fields {
			fmt.Fprintf(&b, "%s: %.6f\n", f, col[i])
		}
	}

	if len(r.ChartFiles) > 0 {
		fmt.Fprintf(&b, "\nSee visualizations in the '%s' folder:\n", filepath.Base(r.OutputDir))
		for _, f := range r.ChartFiles {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	return b.String()
}

// Print writes the summary to w.
func (s *InsightService) Print(w io.Writer, r *models.InsightReport) error {
	_, err := io.WriteString(w, Summary(r))
	return err
}
