package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"happiness-report/charts"
	"happiness-report/config"
	"happiness-report/models"
	"happiness-report/storage"
	"happiness-report/utils"
)

// SummaryFile is the name of the text summary inside the output directory.
const SummaryFile = "summary.txt"

// Pipeline runs load → unify → merge → write → clean → model → report
// once, front to back.
type Pipeline struct {
	cfg    *config.Config
	logger *utils.Logger
	reader storage.TableReader
	stdout io.Writer
	runID  string
}

// NewPipeline wires a pipeline for one run. The summary is printed to stdout.
func NewPipeline(cfg *config.Config, logger *utils.Logger, stdout io.Writer) *Pipeline {
	runID := uuid.NewString()
	return &Pipeline{
		cfg:    cfg,
		logger: logger.With("run", runID),
		reader: storage.NewCSVReader(),
		stdout: stdout,
		runID:  runID,
	}
}

// RunID identifies this run in logs and in persisted rows.
func (p *Pipeline) RunID() string { return p.runID }

// Run executes every stage and returns the finished report.
func (p *Pipeline) Run() (*models.InsightReport, error) {
	p.logger.Info("=== World Happiness analysis starting ===")
	p.logger.Info("Config | inputs: %d | seed: %d | test fraction: %.2f | output: %s",
		len(p.cfg.InputFiles), p.cfg.SplitSeed, p.cfg.TestFraction, p.cfg.OutputDir)

	tables, err := p.load()
	if err != nil {
		return nil, err
	}

	merged, err := NewMerger(p.logger).Merge(tables)
	if err != nil {
		return nil, err
	}

	if err := writeRecords(p.cfg.MergedCSVPath, merged, csvSink); err != nil {
		return nil, err
	}
	p.logger.Info("Merged table saved to %s", p.cfg.MergedCSVPath)

	if p.cfg.XLSXPath != "" {
		if err := writeRecords(p.cfg.XLSXPath, merged, xlsxSink); err != nil {
			return nil, err
		}
		p.logger.Info("Merged table mirrored to %s", p.cfg.XLSXPath)
	}

	clean := NewCleaner(p.logger).Clean(merged)

	if p.cfg.PostgresEnabled {
		if err := p.persist(clean); err != nil {
			return nil, err
		}
	}

	model, err := NewModeler(p.logger, p.cfg.SplitSeed, p.cfg.TestFraction).Fit(clean)
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	insights := NewInsightService(p.logger)
	report, err := insights.Generate(clean, model)
	if err != nil {
		return nil, fmt.Errorf("insights: %w", err)
	}
	report.RunID = p.runID
	report.MergedRows = len(merged)
	report.OutputDir = p.cfg.OutputDir

	renderer, err := charts.NewRenderer(p.cfg.OutputDir, p.logger)
	if err != nil {
		return nil, err
	}
	report.ChartFiles, err = renderer.RenderAll(report, clean)
	if err != nil {
		return nil, err
	}

	if err := writeSummary(filepath.Join(p.cfg.OutputDir, SummaryFile), report); err != nil {
		return nil, err
	}
	if err := insights.Print(p.stdout, report); err != nil {
		return nil, fmt.Errorf("print summary: %w", err)
	}
	return report, nil
}

func (p *Pipeline) load() ([]*models.RawTable, error) {
	unifier := NewUnifier(p.logger)
	paths := p.cfg.InputPaths()
	tables := make([]*models.RawTable, 0, len(paths))
	for _, path := range paths {
		raw, err := p.reader.Read(path)
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		t, err := unifier.Normalize(raw)
		if err != nil {
			return nil, err
		}
		p.logger.Info("[loader] %s: %d rows", filepath.Base(path), len(t.Rows))
		tables = append(tables, t)
	}
	return tables, nil
}

func (p *Pipeline) persist(clean []models.Record) error {
	retry := &utils.RetryConfig{
		MaxAttempts: p.cfg.PostgresMaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      p.logger,
	}
	pg, err := storage.NewPostgresWriter(p.cfg.DSN(), p.runID, retry)
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := pg.Write(clean); err != nil {
		return err
	}
	p.logger.Info("Clean records stored in PostgreSQL (table: happiness_records)")
	return nil
}

func csvSink(path string) (storage.RecordWriter, error) { return storage.NewCSVWriter(path) }

func xlsxSink(path string) (storage.RecordWriter, error) { return storage.NewXLSXWriter(path) }

// writeRecords opens one sink, writes every record and closes it before
// returning.
func writeRecords(path string, records []models.Record, open func(string) (storage.RecordWriter, error)) (err error) {
	w, err := open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return w.Write(records)
}

func writeSummary(path string, report *models.InsightReport) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("summary: create %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("summary: close %q: %w", path, cerr)
		}
	}()
	if _, err := io.WriteString(f, Summary(report)); err != nil {
		return fmt.Errorf("summary: write %q: %w", path, err)
	}
	return nil
}
