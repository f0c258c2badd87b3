package services

import (
	"happiness-report/models"
	"happiness-report/utils"
)

// Cleaner drops merged records that cannot feed the model.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean keeps, in order, every record whose happiness score and six
// predictors are all present. Country, Region and Year do not matter.
func (c *Cleaner) Clean(merged []models.Record) []models.Record {
	result := make([]models.Record, 0, len(merged))

	for i := range merged {
		if !merged[i].Complete() {
			c.logger.Debug("[cleaner] Dropping %s %d: missing required value",
				merged[i].Country, merged[i].Year)
			continue
		}
		result = append(result, merged[i])
	}

	c.logger.Info("[cleaner] Cleaned %d → %d records (dropped %d)",
		len(merged), len(result), len(merged)-len(result))
	return result
}
