package apiclient

import (
	"testing"
	"time"

	"mock_interview_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func ts(day int) time.Time {
	return time.Date(2026, 8, day, 12, 0, 0, 0, time.UTC)
}

func TestBuildDashboardAggregates(t *testing.T) {
	results := []model.SessionResult{
		{AverageScore: 8, Completed: true, Timestamp: ts(1)},
		{AverageScore: 6, Completed: true, Timestamp: ts(3)},
		{AverageScore: 0, Exited: true, Timestamp: ts(2)},
		{AverageScore: 9, Completed: true, Timestamp: ts(4)},
	}

	d := BuildDashboard(results, 2)

	assert.Equal(t, 4, d.Stats.TotalInterviews)
	assert.Equal(t, 3, d.Stats.CompletedCount)
	assert.InDelta(t, (8.0+6.0+9.0)/3.0, d.Stats.AverageScore, 1e-9)
	assert.Equal(t, 9.0, d.Stats.BestScore)
	assert.Equal(t, 75.0, d.Stats.CompletionRate)
}

func TestBuildDashboardRecentNewestFirst(t *testing.T) {
	results := []model.SessionResult{
		{Role: "old", Completed: true, Timestamp: ts(1)},
		{Role: "newest", Completed: true, Timestamp: ts(5)},
		{Role: "mid", Completed: true, Timestamp: ts(3)},
	}

	d := BuildDashboard(results, 2)

	assert.Len(t, d.Recent, 2)
	assert.Equal(t, "newest", d.Recent[0].Role)
	assert.Equal(t, "mid", d.Recent[1].Role)
}

// 退出场次计入总数，但不参与均分和最高分
func TestBuildDashboardExitedSessionsExcludedFromScores(t *testing.T) {
	results := []model.SessionResult{
		{AverageScore: 0, Exited: true, Timestamp: ts(1)},
		{AverageScore: 0, Exited: true, Timestamp: ts(2)},
	}

	d := BuildDashboard(results, 5)

	assert.Equal(t, 2, d.Stats.TotalInterviews)
	assert.Equal(t, 0, d.Stats.CompletedCount)
	assert.Equal(t, 0.0, d.Stats.AverageScore)
	assert.Equal(t, 0.0, d.Stats.BestScore)
	assert.Equal(t, 0.0, d.Stats.CompletionRate)
}

func TestBuildDashboardEmptyHistory(t *testing.T) {
	d := BuildDashboard(nil, 0)

	assert.Equal(t, 0, d.Stats.TotalInterviews)
	assert.Equal(t, 0.0, d.Stats.AverageScore)
	assert.Empty(t, d.Recent)
}
