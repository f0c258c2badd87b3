package services

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"happiness-report/charts"
	"happiness-report/config"
	"happiness-report/utils"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	stub2015 = "Country, Region, Happiness Score, Economy (GDP per Capita), Family, Health (Life Expectancy), Freedom, Generosity, Trust (Government Corruption)\n" +
		"Finland, Europe, 7.4, 1.3, 1.4, 0.9, 0.6, 0.2, 0.4\n"
	stub2018 = "Overall rank, Country or region, Score, GDP per capita, Social support, Healthy life expectancy, Freedom to make life choices, Generosity, Perceptions of corruption\n" +
		"1, Finland, 7.6, 1.3, 1.5, 0.9, 0.6, 0.3, 0.4\n"
)

func writeFixture(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

func testConfig(dir string, files ...string) *config.Config {
	return &config.Config{
		InputDir:      dir,
		InputFiles:    files,
		MergedCSVPath: filepath.Join(dir, "world_happiness_report.csv"),
		OutputDir:     filepath.Join(dir, "vizualization"),
		SplitSeed:     42,
		TestFraction:  0.2,
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "2015.csv", stub2015)
	writeFixture(t, dir, "2018.csv", stub2018)
	cfg := testConfig(dir, "2015.csv", "2018.csv")

	var stdout bytes.Buffer
	p := NewPipeline(cfg, utils.NewNopLogger(), &stdout)
	report, err := p.Run()
	require.NoError(t, err)

	assert.Equal(t, p.RunID(), report.RunID)
	assert.Equal(t, 2, report.MergedRows)
	assert.Equal(t, 2, report.CleanRows)
	assert.Equal(t, 2015, report.FirstYear)
	assert.Equal(t, 2018, report.LastYear)
	assert.Equal(t, 1, report.Model.TrainRows)
	assert.Equal(t, 1, report.Model.TestRows)
	assert.True(t, math.IsNaN(report.Model.R2))
	assert.Equal(t, "Europe", report.Highest.Region)
	assert.Equal(t, "Europe", report.Lowest.Region)

	data, err := os.ReadFile(cfg.MergedCSVPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Finland,Europe,2015,7.4,1.3,1.4,0.9,0.6,0.2,0.4", lines[1])
	assert.Equal(t, "Finland,,2018,7.6,1.3,1.5,0.9,0.6,0.3,0.4", lines[2])

	assert.Equal(t, []string{
		charts.FeatureImportanceFile,
		charts.RegionAveragesFile,
		charts.CorrelationHeatmapFile,
		charts.PairPlotFile,
	}, report.ChartFiles)
	for _, f := range report.ChartFiles {
		assert.FileExists(t, filepath.Join(cfg.OutputDir, f))
	}

	summary, err := os.ReadFile(filepath.Join(cfg.OutputDir, SummaryFile))
	require.NoError(t, err)
	assert.Equal(t, string(summary), stdout.String())
	assert.Contains(t, stdout.String(), "World Happiness Report Analysis (2015-2018)")
	assert.Contains(t, stdout.String(), "Europe (7.40)")
	assert.Contains(t, stdout.String(), "Happiness Score: 1.000000")
}

func TestPipelineMissingInput(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "2015.csv", stub2015)
	cfg := testConfig(dir, "2015.csv", "2016.csv")

	_, err := NewPipeline(cfg, utils.NewNopLogger(), &bytes.Buffer{}).Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoFileExists(t, cfg.MergedCSVPath)
}

func TestPipelineInsufficientRows(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "2015.csv", stub2015)
	cfg := testConfig(dir, "2015.csv")

	_, err := NewPipeline(cfg, utils.NewNopLogger(), &bytes.Buffer{}).Run()
	assert.ErrorIs(t, err, ErrInsufficientRows)
	assert.FileExists(t, cfg.MergedCSVPath)
}

func TestPipelineInvalidYearPrefix(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "latest.csv", stub2018)
	cfg := testConfig(dir, "latest.csv")

	_, err := NewPipeline(cfg, utils.NewNopLogger(), &bytes.Buffer{}).Run()
	assert.ErrorIs(t, err, ErrInvalidYearPrefix)
}

func TestPipelineXLSXMirror(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "2015.csv", stub2015)
	writeFixture(t, dir, "2018.csv", stub2018)
	cfg := testConfig(dir, "2015.csv", "2018.csv")
	cfg.XLSXPath = filepath.Join(dir, "export", "world_happiness_report.xlsx")

	_, err := NewPipeline(cfg, utils.NewNopLogger(), &bytes.Buffer{}).Run()
	require.NoError(t, err)
	assert.FileExists(t, cfg.XLSXPath)
}

func TestPipelineWideRow(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "2015.csv", stub2015+"Norway, Europe, 7.5, 1.4, 1.4, 0.9, 0.6, 0.2, 0.4, 99\n")
	cfg := testConfig(dir, "2015.csv")

	_, err := NewPipeline(cfg, utils.NewNopLogger(), &bytes.Buffer{}).Run()
	assert.ErrorIs(t, err, ErrExtraFields)
	assert.NoFileExists(t, cfg.MergedCSVPath)
}
