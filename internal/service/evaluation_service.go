package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mock_interview_backend/internal/model"
	"mock_interview_backend/pkg/logger"
	"mock_interview_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const evaluationSystemPrompt = "You are a helpful assistant."

const evaluationPromptTemplate = `
You are an experienced interview coach.

Evaluate the candidate's answer to this question:

Question: "%s"
Answer: "%s"

Respond ONLY with a valid JSON object. Do NOT include any explanation or text before or after it.

Format:
{
  "score": number (0 to 10),
  "feedback": "string",
  "suggestions": ["string", "string"]
}
`

// ChatClient 外部模型的最小接口，便于测试替换
type ChatClient interface {
	Chat(ctx context.Context, system, prompt string) (string, error)
}

// EvaluationService 把问答对转发给外部模型并把结果收敛为固定形态。
// 合约：无论上游发生什么，Evaluate 都返回一个合法的 Feedback——
// 所有失败类别（网络、非JSON、字段缺失）都收敛为 FallbackFeedback，不重试。
type EvaluationService struct {
	ai ChatClient
}

func NewEvaluationService(ai ChatClient) *EvaluationService {
	return &EvaluationService{ai: ai}
}

// FallbackFeedback 评分失效时的固定回退值
func FallbackFeedback() model.Feedback {
	return model.Feedback{
		Score:       5,
		Comment:     "Unable to evaluate the answer.",
		Suggestions: []string{"Try again with a longer or more specific response."},
	}
}

func (s *EvaluationService) Evaluate(ctx context.Context, question, answer string) model.Feedback {
	start := time.Now()
	fb, err := s.evaluate(ctx, question, answer)
	monitoring.EvaluationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Log.Warn("answer evaluation degraded to fallback",
			zap.Error(err),
			zap.Int("answer_len", len(answer)))
		monitoring.EvaluationCounter.WithLabelValues("fallback").Inc()
		return FallbackFeedback()
	}
	monitoring.EvaluationCounter.WithLabelValues("ok").Inc()
	return fb
}

func (s *EvaluationService) evaluate(ctx context.Context, question, answer string) (model.Feedback, error) {
	prompt := fmt.Sprintf(evaluationPromptTemplate, question, answer)

	content, err := s.ai.Chat(ctx, evaluationSystemPrompt, prompt)
	if err != nil {
		return model.Feedback{}, err
	}

	cleaned := stripCodeFences(content)

	// score 用指针区分缺失和0分
	var parsed struct {
		Score       *int     `json:"score"`
		Comment     string   `json:"feedback"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return model.Feedback{}, fmt.Errorf("model returned non-JSON content: %w", err)
	}

	if parsed.Score == nil || parsed.Comment == "" {
		return model.Feedback{}, fmt.Errorf("model response missing required fields")
	}

	score := *parsed.Score
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}

	suggestions := parsed.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}

	return model.Feedback{
		Score:       score,
		Comment:     parsed.Comment,
		Suggestions: suggestions,
	}, nil
}

// stripCodeFences 去掉模型习惯性包裹的 markdown 代码块
func stripCodeFences(content string) string {
	out := strings.TrimSpace(content)
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	return strings.TrimSpace(out)
}
