package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mock_interview_backend/internal/config"
	"mock_interview_backend/internal/model"
	"mock_interview_backend/internal/service"
	"mock_interview_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingChat struct{}

func (failingChat) Chat(context.Context, string, string) (string, error) {
	return "", errors.New("upstream unreachable")
}

type fixedChat struct{ content string }

func (c fixedChat) Chat(context.Context, string, string) (string, error) {
	return c.content, nil
}

type memInterviewStore struct {
	records []model.InterviewResult
}

func (s *memInterviewStore) Create(r *model.InterviewResult) error {
	s.records = append(s.records, *r)
	return nil
}

func (s *memInterviewStore) FindByUser(userID uint) ([]model.InterviewResult, error) {
	out := []model.InterviewResult{}
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func newInterviewRouter(chat service.ChatClient, store *memInterviewStore, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := NewInterviewController(
		service.NewEvaluationService(chat),
		service.NewInterviewService(store, nil),
		config.InterviewConfig{PrepSeconds: 30, QuestionSeconds: 120, RedirectSeconds: 10},
	)

	r := gin.New()
	if userID != 0 {
		r.Use(func(c *gin.Context) {
			c.Set("user", &util.Claims{UserID: userID, Username: "alice"})
		})
	}
	r.POST("/api/interview/evaluate", ctrl.Evaluate)
	r.GET("/api/interview/questions", ctrl.Questions)
	r.POST("/api/interviews/save", ctrl.SaveResult)
	r.GET("/api/interviews/history", ctrl.History)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEvaluateMissingInputsReturns400(t *testing.T) {
	r := newInterviewRouter(fixedChat{}, &memInterviewStore{}, 0)

	for name, body := range map[string]interface{}{
		"empty object":   map[string]string{},
		"empty question": map[string]string{"question": "", "userAnswer": "a"},
		"empty answer":   map[string]string{"question": "q", "userAnswer": ""},
	} {
		t.Run(name, func(t *testing.T) {
			w := postJSON(t, r, "/api/interview/evaluate", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "Missing question or userAnswer", resp["error"])
		})
	}
}

// 上游失败不外露为错误状态码，接口吸收为回退反馈
func TestEvaluateUpstreamFailureStillReturns200(t *testing.T) {
	r := newInterviewRouter(failingChat{}, &memInterviewStore{}, 0)

	w := postJSON(t, r, "/api/interview/evaluate", map[string]string{
		"question":   "What is CSS?",
		"userAnswer": "A styling language.",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var fb model.Feedback
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fb))
	assert.Equal(t, service.FallbackFeedback(), fb)
}

func TestEvaluateSuccess(t *testing.T) {
	chat := fixedChat{content: `{"score": 7, "feedback": "Good depth.", "suggestions": ["Add examples"]}`}
	r := newInterviewRouter(chat, &memInterviewStore{}, 0)

	w := postJSON(t, r, "/api/interview/evaluate", map[string]string{
		"question":   "q",
		"userAnswer": "a",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var fb model.Feedback
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fb))
	assert.Equal(t, 7, fb.Score)
	assert.Equal(t, "Good depth.", fb.Comment)
}

func TestQuestionsEndpoint(t *testing.T) {
	r := newInterviewRouter(fixedChat{}, &memInterviewStore{}, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/interview/questions?role=frontend&level=junior", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Role      string   `json:"role"`
		Known     bool     `json:"known"`
		Questions []string `json:"questions"`
		Timing    struct {
			PrepSeconds     int `json:"prepSeconds"`
			QuestionSeconds int `json:"questionSeconds"`
		} `json:"timing"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "frontend", resp.Role)
	assert.True(t, resp.Known)
	assert.Len(t, resp.Questions, 5)
	assert.Equal(t, 30, resp.Timing.PrepSeconds)
	assert.Equal(t, 120, resp.Timing.QuestionSeconds)
}

func TestSaveThenHistory(t *testing.T) {
	store := &memInterviewStore{}
	r := newInterviewRouter(fixedChat{}, store, 7)

	res := model.SessionResult{
		Role:  "frontend",
		Level: "junior",
		Answers: []model.Answer{
			{Question: "q1", Text: "a1", ElapsedSeconds: 40},
		},
		Feedbacks: []model.Feedback{
			{Score: 8, Comment: "good", Suggestions: []string{"more detail"}},
		},
		AverageScore: 8,
		Completed:    true,
	}
	w := postJSON(t, r, "/api/interviews/save", res)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.records, 1)
	assert.Equal(t, uint(7), store.records[0].UserID)

	req := httptest.NewRequest(http.MethodGet, "/api/interviews/history", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var history []model.SessionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, "frontend", history[0].Role)
	assert.Equal(t, 8.0, history[0].AverageScore)
}

func TestSaveRejectsInvalidResult(t *testing.T) {
	r := newInterviewRouter(fixedChat{}, &memInterviewStore{}, 7)

	res := model.SessionResult{
		Answers:   []model.Answer{{Question: "q1", Text: "a1"}},
		Feedbacks: []model.Feedback{{Score: 5}, {Score: 6}},
	}
	w := postJSON(t, r, "/api/interviews/save", res)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveWithoutAuthReturns401(t *testing.T) {
	r := newInterviewRouter(fixedChat{}, &memInterviewStore{}, 0)

	w := postJSON(t, r, "/api/interviews/save", model.SessionResult{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
