// Package apiclient 封装对面试服务后端的 HTTP 访问：认证、评测、
// 结果保存与历史查询，供仪表盘和会话层复用
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"mock_interview_backend/internal/model"
)

// TokenStore 持久化登录令牌。浏览器里是 localStorage，
// 测试和CLI场景用内存实现
type TokenStore interface {
	Token() string
	SetToken(token string)
}

// MemoryTokenStore 进程内令牌存储
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

func (m *MemoryTokenStore) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *MemoryTokenStore) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

// APIError 服务端以 {"error": msg} 返回的业务错误
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Client 后端 API 客户端。所有方法并发安全
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTokenStore(store TokenStore) Option {
	return func(c *Client) { c.tokens = store }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  &MemoryTokenStore{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetToken(token string) {
	c.tokens.SetToken(token)
}

func (c *Client) IsAuthenticated() bool {
	return c.tokens.Token() != ""
}

// Logout 清除本地令牌，服务端无会话可注销
func (c *Client) Logout() {
	c.tokens.SetToken("")
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			apiErr.Message = e.Error
		} else {
			apiErr.Message = "Something went wrong"
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Register 注册后若返回令牌则自动保存
func (c *Client) Register(ctx context.Context, username, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Token != "" {
		c.tokens.SetToken(resp.Token)
	}
	return &resp, nil
}

func (c *Client) Signup(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Token != "" {
		c.tokens.SetToken(resp.Token)
	}
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Token != "" {
		c.tokens.SetToken(resp.Token)
	}
	return &resp, nil
}

type Profile struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
}

func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	var resp struct {
		User Profile `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) UpdateProfile(ctx context.Context, email, name string) (*Profile, error) {
	var resp struct {
		User Profile `json:"user"`
	}
	err := c.do(ctx, http.MethodPut, "/api/auth/profile", map[string]string{
		"email": email,
		"name":  name,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Evaluate 调用服务端评测接口。服务端吸收上游失败，
// 除参数缺失外总是返回合法反馈
func (c *Client) Evaluate(ctx context.Context, question, userAnswer string) (*model.Feedback, error) {
	var fb model.Feedback
	err := c.do(ctx, http.MethodPost, "/api/interview/evaluate", map[string]string{
		"question":   question,
		"userAnswer": userAnswer,
	}, &fb)
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

func (c *Client) Questions(ctx context.Context, role, level string) ([]string, error) {
	var resp struct {
		Questions []string `json:"questions"`
	}
	path := fmt.Sprintf("/api/interview/questions?role=%s&level=%s",
		url.QueryEscape(role), url.QueryEscape(level))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Questions, nil
}

func (c *Client) SaveResult(ctx context.Context, result model.SessionResult) error {
	return c.do(ctx, http.MethodPost, "/api/interviews/save", result, nil)
}

func (c *Client) History(ctx context.Context) ([]model.SessionResult, error) {
	var results []model.SessionResult
	if err := c.do(ctx, http.MethodGet, "/api/interviews/history", nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}
