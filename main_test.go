package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	stub2015 = "Country,Region,Happiness Score,Economy (GDP per Capita),Family,Health (Life Expectancy),Freedom,Generosity,Trust (Government Corruption)\n" +
		"Finland,Europe,7.4,1.3,1.4,0.9,0.6,0.2,0.4\n"
	stub2018 = "Overall rank,Country or region,Score,GDP per capita,Social support,Healthy life expectancy,Freedom to make life choices,Generosity,Perceptions of corruption\n" +
		"1,Finland,7.6,1.3,1.5,0.9,0.6,0.3,0.4\n"
)

func TestRootCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2015.csv"), []byte(stub2015), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2018.csv"), []byte(stub2018), 0644))
	t.Setenv("HAPPINESS_INPUT_FILES", "2015.csv,2018.csv")
	t.Setenv("HAPPINESS_MERGED_CSV_PATH", filepath.Join(dir, "world_happiness_report.csv"))

	out := filepath.Join(dir, "charts")
	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"--input-dir", dir, "--output-dir", out})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, stdout.String(), "World Happiness Report Analysis (2015-2018)")
	assert.FileExists(t, filepath.Join(out, "summary.txt"))
	assert.NotNil(t, logger)
}

func TestRootCommandFailure(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HAPPINESS_INPUT_FILES", "2015.csv")
	t.Setenv("HAPPINESS_MERGED_CSV_PATH", filepath.Join(dir, "world_happiness_report.csv"))

	rootCmd.SetArgs([]string{"--input-dir", dir, "--output-dir", filepath.Join(dir, "charts")})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "run ")
}

func TestRootCommandRejectsArgs(t *testing.T) {
	rootCmd.SetArgs([]string{"extra"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	assert.Error(t, rootCmd.Execute())
}
