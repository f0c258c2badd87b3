package storage

import "happiness-report/models"

// RecordWriter is the interface any merged-table sink must satisfy.
type RecordWriter interface {
	Write(records []models.Record) error
	Close() error
}

// TableReader loads one yearly survey file.
type TableReader interface {
	Read(path string) (*models.RawTable, error)
}
