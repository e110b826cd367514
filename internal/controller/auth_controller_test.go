package controller

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"mock_interview_backend/internal/config"
	"mock_interview_backend/internal/model"
	"mock_interview_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memUserStore struct {
	users  map[string]*model.User
	nextID uint
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]*model.User{}, nextID: 1}
}

func (s *memUserStore) Create(user *model.User) error {
	user.ID = s.nextID
	s.nextID++
	s.users[user.Username] = user
	return nil
}

func (s *memUserStore) FindByID(id uint) (*model.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memUserStore) FindByUsername(username string) (*model.User, error) {
	if u, ok := s.users[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memUserStore) Update(user *model.User) error {
	s.users[user.Username] = user
	return nil
}

func (s *memUserStore) UpdateLastLogin(uint) error { return nil }

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:     "controller-test-secret",
			ExpireTime: 24 * time.Hour,
		},
	}
	store := newMemUserStore()
	ctrl := NewAuthController(
		service.NewAuthService(store, cfg),
		service.NewUserService(store, nil),
	)

	r := gin.New()
	r.POST("/api/auth/register", ctrl.Register)
	r.POST("/api/auth/signup", ctrl.Signup)
	r.POST("/api/auth/login", ctrl.Login)
	return r
}

func TestRegisterLoginScenario(t *testing.T) {
	r := newAuthRouter()

	w := postJSON(t, r, "/api/auth/register", map[string]string{
		"username": "alice", "password": "pw123",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/auth/login", map[string]string{
		"username": "alice", "password": "pw123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])
	assert.Equal(t, "alice", resp["username"])

	w = postJSON(t, r, "/api/auth/login", map[string]string{
		"username": "alice", "password": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid credentials", resp["error"])
}

func TestRegisterDuplicateUsernameReturns400(t *testing.T) {
	r := newAuthRouter()

	w := postJSON(t, r, "/api/auth/register", map[string]string{
		"username": "alice", "password": "pw123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/auth/register", map[string]string{
		"username": "alice", "password": "other",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "User already exists", resp["error"])
}

func TestSignupRequiresValidEmail(t *testing.T) {
	r := newAuthRouter()

	w := postJSON(t, r, "/api/auth/signup", map[string]string{
		"username": "bob", "email": "not-an-email", "password": "pw",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/api/auth/signup", map[string]string{
		"username": "bob", "email": "bob@example.com", "password": "pw",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

// 登录请求缺字段也走统一的凭据错误，不暴露更多信息
func TestLoginMalformedBodyGetsGenericError(t *testing.T) {
	r := newAuthRouter()

	w := postJSON(t, r, "/api/auth/login", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid credentials", resp["error"])
}
