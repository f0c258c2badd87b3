package services

import "errors"

var (
	// ErrInvalidYearPrefix means a file carries no Year column and its name
	// does not start with a four-digit year.
	ErrInvalidYearPrefix = errors.New("file name does not start with a four-digit year")
	// ErrAmbiguousColumn means two source columns map onto one canonical column.
	ErrAmbiguousColumn = errors.New("several columns map to the same canonical column")
	// ErrExtraFields means a data row has more cells than its header.
	ErrExtraFields = errors.New("row has more fields than the header")
	// ErrInvalidValue means a numeric cell holds neither a number nor a missing marker.
	ErrInvalidValue = errors.New("cell is not a number")
	// ErrInsufficientRows means too few clean rows remain to split and fit.
	ErrInsufficientRows = errors.New("not enough clean rows to train and score a model")
	// ErrNoRegions means no clean row carries a region.
	ErrNoRegions = errors.New("no clean row has a region")
)
