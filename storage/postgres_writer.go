package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"happiness-report/models"
	"happiness-report/utils"
)

const recordColumns = 11

// PostgresWriter persists clean records to PostgreSQL, tagged with the
// run that produced them.
type PostgresWriter struct {
	db    *sql.DB
	runID string
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn, runID string, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do("postgres-ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db, runID: runID}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS happiness_records (
			id                           SERIAL PRIMARY KEY,
			run_id                       UUID          NOT NULL,
			country                      TEXT          NOT NULL DEFAULT '',
			region                       TEXT,
			year                         INTEGER       NOT NULL,
			happiness_score              NUMERIC(10,6),
			gdp_per_capita               NUMERIC(10,6),
			social_support               NUMERIC(10,6),
			healthy_life_expectancy      NUMERIC(10,6),
			freedom_to_make_life_choices NUMERIC(10,6),
			generosity                   NUMERIC(10,6),
			perceptions_of_corruption    NUMERIC(10,6),
			created_at                   TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_happiness_year   ON happiness_records(year);
		CREATE INDEX IF NOT EXISTS idx_happiness_region ON happiness_records(region);
		CREATE INDEX IF NOT EXISTS idx_happiness_run    ON happiness_records(run_id);
	`)
	return err
}

// Write replaces this run's rows with records inside one transaction.
// A failed batch rolls back the whole write.
func (pw *PostgresWriter) Write(records []models.Record) (err error) {
	if len(records) == 0 {
		return nil
	}

	tx, err := pw.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec("DELETE FROM happiness_records WHERE run_id = $1", pw.runID); err != nil {
		return fmt.Errorf("postgres: clear run %s: %w", pw.runID, err)
	}

	const batchSize = 50
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		query, args := buildInsert(pw.runID, records[i:end])
		if _, err = tx.Exec(query, args...); err != nil {
			return fmt.Errorf("postgres: insert batch at %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func buildInsert(runID string, batch []models.Record) (string, []interface{}) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*recordColumns)

	for idx := range batch {
		r := &batch[idx]
		base := idx * recordColumns
		placeholders := make([]string, recordColumns)
		for p := range placeholders {
			placeholders[p] = fmt.Sprintf("$%d", base+p+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			runID, r.Country, r.Region, r.Year,
			r.HappinessScore, r.GDPPerCapita, r.SocialSupport, r.LifeExpectancy,
			r.Freedom, r.Generosity, r.Corruption)
	}

	query := fmt.Sprintf(`
		INSERT INTO happiness_records (run_id, country, region, year,
			happiness_score, gdp_per_capita, social_support, healthy_life_expectancy,
			freedom_to_make_life_choices, generosity, perceptions_of_corruption)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	return query, valueArgs
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
