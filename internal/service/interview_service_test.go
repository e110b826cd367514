package service

import (
	"context"
	"testing"
	"time"

	"mock_interview_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInterviewStore struct {
	records []model.InterviewResult
	findErr error
}

func (s *stubInterviewStore) Create(result *model.InterviewResult) error {
	s.records = append(s.records, *result)
	return nil
}

func (s *stubInterviewStore) FindByUser(userID uint) ([]model.InterviewResult, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	out := []model.InterviewResult{}
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func sampleResult() model.SessionResult {
	return model.SessionResult{
		Role:  "frontend",
		Level: "junior",
		Answers: []model.Answer{
			{Question: "q1", Text: "a1", ElapsedSeconds: 30},
			{Question: "q2", Text: "", ElapsedSeconds: 120},
		},
		Feedbacks: []model.Feedback{
			{Score: 7, Comment: "good", Suggestions: []string{"more detail"}},
		},
		AverageScore: 7,
		Suggestions:  []string{"more detail"},
		Completed:    true,
		Timestamp:    time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestSaveAndHistoryRoundTrip(t *testing.T) {
	store := &stubInterviewStore{}
	svc := NewInterviewService(store, nil)

	require.NoError(t, svc.Save(context.Background(), 1, sampleResult()))
	require.Len(t, store.records, 1)
	assert.Equal(t, uint(1), store.records[0].UserID)

	results, err := svc.History(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, "frontend", got.Role)
	assert.Equal(t, "junior", got.Level)
	assert.Len(t, got.Answers, 2)
	assert.Len(t, got.Feedbacks, 1)
	assert.Equal(t, 7.0, got.AverageScore)
	assert.True(t, got.Completed)
	assert.False(t, got.Exited)
}

func TestSaveRejectsMoreFeedbacksThanAnswers(t *testing.T) {
	svc := NewInterviewService(&stubInterviewStore{}, nil)

	res := sampleResult()
	res.Feedbacks = append(res.Feedbacks,
		model.Feedback{Score: 5}, model.Feedback{Score: 6})

	err := svc.Save(context.Background(), 1, res)
	assert.Error(t, err)
}

func TestSaveFillsMissingTimestamp(t *testing.T) {
	store := &stubInterviewStore{}
	svc := NewInterviewService(store, nil)

	res := sampleResult()
	res.Timestamp = time.Time{}

	require.NoError(t, svc.Save(context.Background(), 1, res))
	assert.False(t, store.records[0].Timestamp.IsZero())
}

func TestHistoryScopedToUser(t *testing.T) {
	store := &stubInterviewStore{}
	svc := NewInterviewService(store, nil)

	require.NoError(t, svc.Save(context.Background(), 1, sampleResult()))
	require.NoError(t, svc.Save(context.Background(), 2, sampleResult()))

	results, err := svc.History(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestHistoryEmptyForNewUser(t *testing.T) {
	svc := NewInterviewService(&stubInterviewStore{}, nil)

	results, err := svc.History(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, results)
}
