package employee_test

import (
	"testing"
	"time"

	"go-staffdir/internal/employee"

	"github.com/stretchr/testify/assert"
)

func TestComputeSummary(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("empty collection", func(t *testing.T) {
		got := employee.ComputeSummary(nil, now)
		assert.Equal(t, 0, got.Total)
		assert.Equal(t, 0, got.ActivePct)
		assert.Equal(t, 0.0, got.AvgTenureYears)
		assert.Equal(t, 0, got.PctChange)
		assert.Empty(t, got.TopPositions)
	})

	t.Run("counts, percentages, and top positions", func(t *testing.T) {
		collection := []employee.Employee{
			{ID: "1", Position: "Backend Developer", Status: employee.StatusActive, DateJoined: "2025-08-30"},
			{ID: "2", Position: "Backend Developer", Status: employee.StatusInactive, DateJoined: "2024-08-30"},
			{ID: "3", Position: "Frontend Developer", Status: employee.StatusActive},
			{ID: "4", Position: "QA Engineer", Status: employee.StatusActive},
			{ID: "5", Position: "DevOps Engineer", Status: employee.StatusActive},
			{ID: "6", Position: "Gone", Deleted: true},
		}

		got := employee.ComputeSummary(collection, now)

		assert.Equal(t, 5, got.Total)
		assert.Equal(t, 4, got.ActiveCount)
		assert.Equal(t, 1, got.InactiveCount)
		assert.Equal(t, 80, got.ActivePct)

		// Top three by count, name breaks ties.
		assert.Len(t, got.TopPositions, 3)
		assert.Equal(t, employee.PositionCount{Position: "Backend Developer", Count: 2}, got.TopPositions[0])
		assert.Equal(t, "DevOps Engineer", got.TopPositions[1].Position)
		assert.Equal(t, "Frontend Developer", got.TopPositions[2].Position)
	})

	t.Run("average tenure spreads over all records", func(t *testing.T) {
		collection := []employee.Employee{
			{ID: "1", DateJoined: "2024-08-30"}, // 2 years
			{ID: "2", DateJoined: "2026-08-30"}, // 0 years
		}
		got := employee.ComputeSummary(collection, now)
		assert.InDelta(t, 1.0, got.AvgTenureYears, 0.05)
	})

	t.Run("growth windows", func(t *testing.T) {
		recent := now.AddDate(0, 0, -10).Format("2006-01-02")
		previous := now.AddDate(0, 0, -40).Format("2006-01-02")
		old := now.AddDate(0, 0, -200).Format("2006-01-02")

		got := employee.ComputeSummary([]employee.Employee{
			{ID: "1", DateJoined: recent},
			{ID: "2", DateJoined: recent},
			{ID: "3", DateJoined: previous},
			{ID: "4", DateJoined: old},
		}, now)

		assert.Equal(t, 2, got.AddedLast30Days)
		assert.Equal(t, 100, got.PctChange) // (2-1)/1
	})

	t.Run("future-dated hires count toward the current window", func(t *testing.T) {
		future := now.AddDate(0, 0, 14).Format("2006-01-02")

		got := employee.ComputeSummary([]employee.Employee{{ID: "1", DateJoined: future}}, now)
		assert.Equal(t, 1, got.AddedLast30Days)
		assert.Equal(t, 100, got.PctChange)
	})

	t.Run("empty previous window", func(t *testing.T) {
		recent := now.AddDate(0, 0, -5).Format("2006-01-02")

		withHires := employee.ComputeSummary([]employee.Employee{{ID: "1", DateJoined: recent}}, now)
		assert.Equal(t, 100, withHires.PctChange)

		noHires := employee.ComputeSummary([]employee.Employee{{ID: "1", DateJoined: "2020-01-01"}}, now)
		assert.Equal(t, 0, noHires.PctChange)
	})
}
