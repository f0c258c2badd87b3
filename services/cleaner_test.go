package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"happiness-report/models"
	"happiness-report/utils"
)

func completeRecord(country string, year int, score float64) models.Record {
	return models.Record{
		Country:        country,
		Year:           year,
		HappinessScore: num(score),
		GDPPerCapita:   num(1.2),
		SocialSupport:  num(1.1),
		LifeExpectancy: num(0.8),
		Freedom:        num(0.5),
		Generosity:     num(0.2),
		Corruption:     num(0.3),
	}
}

func TestCleanKeepsOnlyCompleteRecords(t *testing.T) {
	noRegion := completeRecord("Oman", 2018, 6.8)
	missingGDP := completeRecord("Taiwan", 2015, 6.3)
	missingGDP.GDPPerCapita.Valid = false
	missingCorruption := completeRecord("UAE", 2018, 6.7)
	missingCorruption.Corruption.Valid = false
	withRegion := completeRecord("Finland", 2019, 7.7)
	withRegion.Region = region("Western Europe")

	merged := []models.Record{noRegion, missingGDP, withRegion, missingCorruption}
	clean := NewCleaner(utils.NewNopLogger()).Clean(merged)

	want := []models.Record{noRegion, withRegion}
	if diff := cmp.Diff(want, clean); diff != "" {
		t.Errorf("Clean mismatch (-want +got):\n%s", diff)
	}
}

func TestCleanEmptyInput(t *testing.T) {
	clean := NewCleaner(utils.NewNopLogger()).Clean(nil)
	assert.Empty(t, clean)
}
