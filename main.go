package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"happiness-report/config"
	"happiness-report/services"
	"happiness-report/utils"
)

var (
	cfgFile   string
	inputDir  string
	outputDir string
	debug     bool

	logger = utils.NewLogger()
)

var rootCmd = &cobra.Command{
	Use:           "happiness-report",
	Short:         "Merge the yearly World Happiness files, fit a model and chart the results",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&cfgFile, "config", "", "optional config file (yaml, json or toml)")
	f.StringVar(&inputDir, "input-dir", "", "directory holding the yearly CSV files (overrides config)")
	f.StringVar(&outputDir, "output-dir", "", "directory for charts and summary.txt (overrides config)")
	f.BoolVar(&debug, "debug", false, "enable debug logging")
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("input-dir") {
		cfg.InputDir = inputDir
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = outputDir
	}
	if debug {
		cfg.LogLevel = "debug"
	}

	logger = utils.NewLoggerWithLevel(cfg.LogLevel)

	pipeline := services.NewPipeline(cfg, logger, cmd.OutOrStdout())
	report, err := pipeline.Run()
	if err != nil {
		return fmt.Errorf("run %s: %w", pipeline.RunID(), err)
	}

	logger.Info("Done. %d merged rows → %s | %d clean rows | charts → %s",
		report.MergedRows, cfg.MergedCSVPath, report.CleanRows, cfg.OutputDir)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Happiness report failed: %v", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}
