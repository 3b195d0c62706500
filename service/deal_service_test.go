package services

import (
	"testing"
	"time"

	model "github.com/dvornik/dealdesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDealInput_FullReplace(t *testing.T) {
	start := date(2024, time.January, 1)
	deal := model.Deal{Name: "Project Atlas", Status: "open", StartDate: &start}
	deal.EndDate = deal.DerivedEndDate()

	newStart := date(2024, time.March, 1)
	err := applyDealInput(&deal, DealInput{Name: "Project Borealis", Status: "active", StartDate: &newStart})
	require.NoError(t, err)

	assert.Equal(t, "Project Borealis", deal.Name)
	assert.Equal(t, "active", deal.Status)
	assert.Equal(t, newStart, *deal.StartDate)
	require.NotNil(t, deal.EndDate)
	assert.Equal(t, newStart.AddDate(0, 0, model.ReviewWindowDays), *deal.EndDate)
}

func TestApplyDealInput_OmittedStartDateClearsDerivedEndDate(t *testing.T) {
	// Updates replace every field: leaving StartDate out clears it and the
	// derived end date with it.
	start := date(2024, time.January, 1)
	deal := model.Deal{Name: "Project Atlas", Status: "open", StartDate: &start}
	deal.EndDate = deal.DerivedEndDate()

	err := applyDealInput(&deal, DealInput{Name: "Project Atlas", Status: "active"})
	require.NoError(t, err)
	assert.Nil(t, deal.StartDate)
	assert.Nil(t, deal.EndDate)
}

func TestApplyDealInput_RejectsInvalidInput(t *testing.T) {
	start := date(2024, time.January, 1)

	tests := []struct {
		name  string
		input DealInput
	}{
		{"empty name", DealInput{Name: "  ", Status: "open", StartDate: &start}},
		{"empty status", DealInput{Name: "Project Atlas", StartDate: &start}},
		{"unknown status", DealInput{Name: "Project Atlas", Status: "paused", StartDate: &start}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deal := model.Deal{Name: "Project Atlas", Status: "open", StartDate: &start}
			deal.EndDate = deal.DerivedEndDate()

			err := applyDealInput(&deal, tt.input)
			var validation *ValidationError
			require.ErrorAs(t, err, &validation)

			// A rejected update must leave the deal untouched.
			assert.Equal(t, "Project Atlas", deal.Name)
			assert.Equal(t, "open", deal.Status)
			require.NotNil(t, deal.StartDate)
			assert.Equal(t, start, *deal.StartDate)
		})
	}
}
