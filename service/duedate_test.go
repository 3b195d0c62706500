package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveDueDate_NilStartDate(t *testing.T) {
	for _, offset := range []int{0, 1, 10, 180} {
		assert.Nil(t, ResolveDueDate(nil, offset), "offset %d with no start date must yield no due date", offset)
	}
}

func TestResolveDueDate_Offsets(t *testing.T) {
	start := date(2024, time.January, 1)

	tests := []struct {
		name     string
		offset   int
		expected time.Time
	}{
		{"zero offset is the start date", 0, date(2024, time.January, 1)},
		{"one week", 7, date(2024, time.January, 8)},
		{"thirty days crosses the month", 30, date(2024, time.January, 31)},
		{"crosses a leap day", 60, date(2024, time.March, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due := ResolveDueDate(&start, tt.offset)
			require.NotNil(t, due)
			assert.True(t, tt.expected.Equal(*due), "expected %s, got %s", tt.expected, due)
		})
	}
}

func TestResolveDueDate_Deterministic(t *testing.T) {
	start := date(2024, time.June, 15)
	first := ResolveDueDate(&start, 42)
	second := ResolveDueDate(&start, 42)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.True(t, first.Equal(*second))
}

func TestResolveDueDate_DoesNotMutateInput(t *testing.T) {
	start := date(2024, time.January, 1)
	original := start
	_ = ResolveDueDate(&start, 90)
	assert.True(t, original.Equal(start), "input start date must not be mutated")
}

func TestResolveDueDate_Monotonic(t *testing.T) {
	start := date(2024, time.January, 1)
	for offsetA := 0; offsetA < 60; offsetA += 7 {
		for offsetB := offsetA + 1; offsetB <= 60; offsetB += 11 {
			a := ResolveDueDate(&start, offsetA)
			b := ResolveDueDate(&start, offsetB)
			require.NotNil(t, a)
			require.NotNil(t, b)
			assert.True(t, a.Before(*b) || a.Equal(*b), "offset %d must not resolve after offset %d", offsetA, offsetB)
		}
	}
}

func TestResolveDueDate_WholeDaysNoClockDrift(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Crossing the DST boundary must still land on midnight of the target day.
	start := time.Date(2024, time.March, 8, 0, 0, 0, 0, loc)
	due := ResolveDueDate(&start, 5)
	require.NotNil(t, due)
	assert.Equal(t, 13, due.Day())
	assert.Equal(t, 0, due.Hour())
}
