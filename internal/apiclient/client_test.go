package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mock_interview_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, NewClient(server.URL)
}

func TestLoginStoresToken(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["username"])

		json.NewEncoder(w).Encode(map[string]string{"token": "tok-123", "username": "alice"})
	})

	resp, err := client.Login(context.Background(), "alice", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", resp.Token)
	assert.Equal(t, "alice", resp.Username)
	assert.True(t, client.IsAuthenticated())
}

func TestLoginInvalidCredentials(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
	})

	_, err := client.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.False(t, client.IsAuthenticated())
}

func TestAuthorizedRequestsCarryBearerToken(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]model.SessionResult{})
	})
	client.SetToken("tok-123")

	_, err := client.History(context.Background())
	require.NoError(t, err)
}

func TestLogoutClearsToken(t *testing.T) {
	client := NewClient("http://localhost")
	client.SetToken("tok")
	require.True(t, client.IsAuthenticated())

	client.Logout()
	assert.False(t, client.IsAuthenticated())
}

func TestEvaluateDecodesFeedback(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/interview/evaluate", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"score":       8,
			"feedback":    "Well structured.",
			"suggestions": []string{"Mention accessibility"},
		})
	})

	fb, err := client.Evaluate(context.Background(), "What is CSS?", "A styling language.")
	require.NoError(t, err)
	assert.Equal(t, 8, fb.Score)
	assert.Equal(t, "Well structured.", fb.Comment)
	assert.Equal(t, []string{"Mention accessibility"}, fb.Suggestions)
}

func TestQuestionsEncodesRoleAndLevel(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "frontend", r.URL.Query().Get("role"))
		assert.Equal(t, "junior", r.URL.Query().Get("level"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"questions": []string{"q1", "q2"},
		})
	})

	qs, err := client.Questions(context.Background(), "frontend", "junior")
	require.NoError(t, err)
	assert.Equal(t, []string{"q1", "q2"}, qs)
}

func TestSaveResultPostsSessionResult(t *testing.T) {
	var received model.SessionResult
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/interviews/save", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(map[string]string{"message": "saved"})
	})
	client.SetToken("tok")

	res := model.SessionResult{
		Role:         "backend",
		Level:        "mid",
		AverageScore: 6.5,
		Completed:    true,
		Timestamp:    time.Now(),
	}
	require.NoError(t, client.SaveResult(context.Background(), res))
	assert.Equal(t, "backend", received.Role)
	assert.True(t, received.Completed)
}

func TestErrorWithoutBodyGetsGenericMessage(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.History(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Something went wrong", apiErr.Message)
}
