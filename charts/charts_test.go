package charts

import (
	"bytes"
	"database/sql"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"happiness-report/models"
	"happiness-report/utils"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func num(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }

func sampleReport() (*models.InsightReport, []models.Record) {
	clean := []models.Record{
		{Country: "A", Year: 2015, HappinessScore: num(7.5), GDPPerCapita: num(1.3), Freedom: num(0.6), Corruption: num(0.4)},
		{Country: "B", Year: 2016, HappinessScore: num(5.1), GDPPerCapita: num(0.8), Freedom: num(0.3), Corruption: num(0.1)},
		{Country: "C", Year: 2017, HappinessScore: num(4.2), GDPPerCapita: num(0.5), Freedom: num(0.4), Corruption: num(0.1)},
	}
	corr := &models.CorrelationMatrix{
		Fields: models.CorrelationFields,
		Values: [][]float64{
			{1, 0.99, 0.8, math.NaN()},
			{0.99, 1, 0.7, 0.9},
			{0.8, 0.7, 1, 0.5},
			{math.NaN(), 0.9, 0.5, 1},
		},
	}
	report := &models.InsightReport{
		Model: &models.ModelResult{
			Ranked: []models.Coefficient{
				{Feature: models.FieldFreedom, Value: 1.4},
				{Feature: models.FieldGDP, Value: 0.9},
				{Feature: models.FieldGenerosity, Value: -0.2},
			},
		},
		Regions: []models.RegionAverage{
			{Region: "Sub-Saharan Africa", Mean: 4.2, Count: 1},
			{Region: "Western Europe", Mean: 7.5, Count: 1},
		},
		Correlation: corr,
	}
	return report, clean
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic), "%s is not a PNG", filepath.Base(path))
}

func TestRenderAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vizualization")
	r, err := NewRenderer(dir, utils.NewNopLogger())
	require.NoError(t, err)

	report, clean := sampleReport()
	files, err := r.RenderAll(report, clean)
	require.NoError(t, err)

	assert.Equal(t, []string{
		FeatureImportanceFile,
		RegionAveragesFile,
		CorrelationHeatmapFile,
		PairPlotFile,
	}, files)
	for _, f := range files {
		assertPNG(t, filepath.Join(dir, f))
	}
}

func TestPairPlotNoFields(t *testing.T) {
	r, err := NewRenderer(t.TempDir(), utils.NewNopLogger())
	require.NoError(t, err)

	_, clean := sampleReport()
	assert.Error(t, r.PairPlot(clean, nil))
}

func TestPairPlotConstantColumn(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRenderer(dir, utils.NewNopLogger())
	require.NoError(t, err)

	_, clean := sampleReport()
	for i := range clean {
		clean[i].GDPPerCapita = num(1.3)
	}
	require.NoError(t, r.PairPlot(clean, models.CorrelationFields))
	assertPNG(t, filepath.Join(dir, PairPlotFile))
}
