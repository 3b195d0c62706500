package services

import (
	"testing"
	"time"

	model "github.com/dvornik/dealdesk/models"

	"github.com/agiledragon/gomonkey/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// FixedTime is used to patch time.Now in tests.
var FixedTime = time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)

func TestApplyStatus_CompletionInvariant(t *testing.T) {
	patches := gomonkey.ApplyFunc(time.Now, func() time.Time {
		return FixedTime
	})
	defer patches.Reset()

	task := &model.Task{ID: "t1", Status: "in_progress"}

	applyStatus(task, StatusCompleted)
	assert.Equal(t, StatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	assert.True(t, FixedTime.Equal(*task.CompletedAt))

	// Leaving the completed status clears the timestamp again.
	applyStatus(task, "in_progress")
	assert.Equal(t, "in_progress", task.Status)
	assert.Nil(t, task.CompletedAt)
}

func TestApplyStatus_ReopenRevertsBoth(t *testing.T) {
	completed := FixedTime
	task := &model.Task{ID: "t1", Status: StatusCompleted, CompletedAt: &completed}

	applyStatus(task, StatusNotStarted)
	assert.Equal(t, StatusNotStarted, task.Status)
	assert.Nil(t, task.CompletedAt, "clearing completion must also revert status")
}

func TestDeal_DerivedEndDate(t *testing.T) {
	deal := &model.Deal{}
	assert.Nil(t, deal.DerivedEndDate(), "no start date means no end date")

	start := date(2024, time.January, 1)
	deal.StartDate = &start
	end := deal.DerivedEndDate()
	require.NotNil(t, end)
	assert.True(t, date(2024, time.March, 31).Equal(*end), "end date is start date plus the review window")

	// Recomputation follows the start date.
	moved := date(2024, time.February, 1)
	deal.StartDate = &moved
	end = deal.DerivedEndDate()
	require.NotNil(t, end)
	assert.True(t, moved.AddDate(0, 0, model.ReviewWindowDays).Equal(*end))
}
