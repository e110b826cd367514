package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mock_interview_backend/internal/model"
	"mock_interview_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const historyCacheTTL = 5 * time.Minute

// InterviewStore 面试记录存储的最小接口
type InterviewStore interface {
	Create(result *model.InterviewResult) error
	FindByUser(userID uint) ([]model.InterviewResult, error)
}

// InterviewService 持久化会话结果并提供历史查询，历史按用户在Redis缓存
type InterviewService struct {
	Results InterviewStore
	Redis   *redis.Client
}

func NewInterviewService(results InterviewStore, rdb *redis.Client) *InterviewService {
	return &InterviewService{
		Results: results,
		Redis:   rdb,
	}
}

func historyCacheKey(userID uint) string {
	return fmt.Sprintf("interview:history:%d", userID)
}

// Save 校验并落库一次会话结果，随后使该用户的历史缓存失效
func (s *InterviewService) Save(ctx context.Context, userID uint, res model.SessionResult) error {
	if len(res.Feedbacks) > len(res.Answers) {
		return fmt.Errorf("invalid session result: %d feedbacks for %d answers", len(res.Feedbacks), len(res.Answers))
	}
	if res.Timestamp.IsZero() {
		res.Timestamp = time.Now()
	}

	record, err := model.NewInterviewResult(userID, res)
	if err != nil {
		return err
	}

	if err := s.Results.Create(record); err != nil {
		return err
	}

	if s.Redis != nil {
		if err := s.Redis.Del(ctx, historyCacheKey(userID)).Err(); err != nil {
			logger.Log.Warn("failed to invalidate history cache", zap.Error(err), zap.Uint("user_id", userID))
		}
	}
	return nil
}

// History 返回该用户的面试历史，新到旧。缓存未命中或Redis不可用时直接读库
func (s *InterviewService) History(ctx context.Context, userID uint) ([]model.SessionResult, error) {
	key := historyCacheKey(userID)

	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, key).Result()
		if err == nil {
			var results []model.SessionResult
			if err := json.Unmarshal([]byte(cached), &results); err == nil {
				return results, nil
			}
		}
	}

	records, err := s.Results.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	results := make([]model.SessionResult, 0, len(records))
	for i := range records {
		results = append(results, records[i].ToSessionResult())
	}

	if s.Redis != nil {
		if data, err := json.Marshal(results); err == nil {
			if err := s.Redis.Set(ctx, key, data, historyCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache interview history", zap.Error(err), zap.Uint("user_id", userID))
			}
		}
	}

	return results, nil
}
