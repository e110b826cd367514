package apiclient

import (
	"sort"

	"mock_interview_backend/internal/model"
)

// DashboardStats 仪表盘顶部的概览数字
type DashboardStats struct {
	TotalInterviews int     `json:"totalInterviews"`
	CompletedCount  int     `json:"completedCount"`
	AverageScore    float64 `json:"averageScore"`
	BestScore       float64 `json:"bestScore"`
	CompletionRate  float64 `json:"completionRate"`
}

// Dashboard 概览统计加最近记录
type Dashboard struct {
	Stats  DashboardStats        `json:"stats"`
	Recent []model.SessionResult `json:"recent"`
}

// BuildDashboard 由历史结果聚合仪表盘视图。均分和最高分只统计
// 完成的场次，退出的场次计入总数但不拉低分数
func BuildDashboard(results []model.SessionResult, recentLimit int) Dashboard {
	if recentLimit <= 0 {
		recentLimit = 5
	}

	stats := DashboardStats{TotalInterviews: len(results)}
	sum := 0.0
	for _, r := range results {
		if !r.Completed {
			continue
		}
		stats.CompletedCount++
		sum += r.AverageScore
		if r.AverageScore > stats.BestScore {
			stats.BestScore = r.AverageScore
		}
	}
	if stats.CompletedCount > 0 {
		stats.AverageScore = sum / float64(stats.CompletedCount)
	}
	if stats.TotalInterviews > 0 {
		stats.CompletionRate = float64(stats.CompletedCount) / float64(stats.TotalInterviews) * 100
	}

	recent := make([]model.SessionResult, len(results))
	copy(recent, results)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Timestamp.After(recent[j].Timestamp)
	})
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	return Dashboard{Stats: stats, Recent: recent}
}
